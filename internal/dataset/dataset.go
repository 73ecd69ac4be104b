package dataset

import (
	"errors"
	"fmt"
	"strings"

	"theranova/backend/internal/match"
)

// Trial is a registry entry linking a molecule to a disease.
type Trial struct {
	RegistryID string `json:"registryId" yaml:"registryId"`
	Molecule   string `json:"molecule" yaml:"molecule"`
	Disease    string `json:"disease" yaml:"disease"`
	Status     string `json:"status" yaml:"status"`
	Phase      string `json:"phase" yaml:"phase"`
	Summary    string `json:"summary" yaml:"summary"`
}

// Competitor is another sponsor's program for a disease.
type Competitor struct {
	Company  string `json:"company" yaml:"company"`
	TrialID  string `json:"trialId" yaml:"trialId"`
	Disease  string `json:"disease" yaml:"disease"`
	Molecule string `json:"molecule" yaml:"molecule"`
}

// Dataset is the read-only collection of trials and competitor programs the
// scorer runs over. It is built once at startup and shared by pointer; none of
// its methods mutate it, so concurrent readers need no locking.
type Dataset struct {
	trials      []Trial
	competitors []Competitor
}

// ErrDuplicateTrial is returned when two trials share a registry id.
var ErrDuplicateTrial = errors.New("duplicate registry id")

// New validates and copies the supplied records into a Dataset. Record order
// is preserved since it drives evidence and result ordering.
func New(trials []Trial, competitors []Competitor) (*Dataset, error) {
	seen := make(map[string]struct{}, len(trials))
	for i, t := range trials {
		id := strings.TrimSpace(t.RegistryID)
		if id == "" {
			return nil, fmt.Errorf("trial %d: registry id is required", i)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("trial %s: %w", id, ErrDuplicateTrial)
		}
		seen[id] = struct{}{}
	}
	for i, c := range competitors {
		if strings.TrimSpace(c.Company) == "" {
			return nil, fmt.Errorf("competitor %d: company is required", i)
		}
	}
	return &Dataset{
		trials:      append([]Trial(nil), trials...),
		competitors: append([]Competitor(nil), competitors...),
	}, nil
}

// Default returns the built-in registry snapshot.
func Default() *Dataset {
	return &Dataset{
		trials: []Trial{
			{RegistryID: "NCT0001", Molecule: "Metformin", Disease: "Alzheimer", Status: "Completed", Phase: "Phase-3", Summary: "Reduced cognitive decline in small cohort."},
			{RegistryID: "NCT0002", Molecule: "Hydroxychloroquine", Disease: "COVID-19", Status: "Completed", Phase: "Phase-3", Summary: "No significant benefit observed."},
			{RegistryID: "NCT0003", Molecule: "Metformin", Disease: "Parkinson", Status: "Ongoing", Phase: "Phase-2", Summary: "Early biomarker improvement."},
			{RegistryID: "NCT0004", Molecule: "Ivermectin", Disease: "COVID-19", Status: "Ongoing", Phase: "Phase-2", Summary: "Recruiting."},
			{RegistryID: "NCT0005", Molecule: "Metformin", Disease: "Alzheimer", Status: "Ongoing", Phase: "Phase-2", Summary: "Repurposing study - metabolic pathway targets."},
		},
		competitors: []Competitor{
			{Company: "NeuroGenix", TrialID: "NCT9001", Disease: "Alzheimer", Molecule: "NGX-100"},
			{Company: "GloboPharm", TrialID: "NCT9002", Disease: "Alzheimer", Molecule: "GXP-201"},
			{Company: "RepurCo", TrialID: "NCT9003", Disease: "Parkinson", Molecule: "RPR-77"},
		},
	}
}

// Trials returns a copy of all trial records in dataset order.
func (d *Dataset) Trials() []Trial {
	if d == nil {
		return nil
	}
	return append([]Trial(nil), d.trials...)
}

// Competitors returns a copy of all competitor records in dataset order.
func (d *Dataset) Competitors() []Competitor {
	if d == nil {
		return nil
	}
	return append([]Competitor(nil), d.competitors...)
}

// MatchingTrials returns trials whose molecule or disease equals the given
// terms, ignoring case.
func (d *Dataset) MatchingTrials(molecule, disease string) []Trial {
	if d == nil {
		return nil
	}
	var out []Trial
	for _, t := range d.trials {
		if match.Equal(t.Molecule, molecule) || match.Equal(t.Disease, disease) {
			out = append(out, t)
		}
	}
	return out
}

// CompetitorsFor returns competitor programs targeting the disease.
func (d *Dataset) CompetitorsFor(disease string) []Competitor {
	return d.filterCompetitors(func(c Competitor) bool { return match.Equal(c.Disease, disease) })
}

// CompetitorsExcept returns competitor programs targeting any other disease.
func (d *Dataset) CompetitorsExcept(disease string) []Competitor {
	return d.filterCompetitors(func(c Competitor) bool { return !match.Equal(c.Disease, disease) })
}

func (d *Dataset) filterCompetitors(keep func(Competitor) bool) []Competitor {
	if d == nil {
		return nil
	}
	var out []Competitor
	for _, c := range d.competitors {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
