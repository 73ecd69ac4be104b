package scoring

import (
	"math"

	"theranova/backend/internal/dataset"
	"theranova/backend/internal/match"
)

const (
	basePrior       = 0.2
	perTrialWeight  = 0.15
	trialWeightCap  = 0.5
	phase3Bonus     = 0.2
	phase2Bonus     = 0.08
	phase1Bonus     = 0.03
	completedBonus  = 0.03
	signalBonus     = 0.03
	maxTrials       = 5
	maxCompetitors  = 3
	maxHighlights   = 5
	unnamedMolecule = "investigational compound"
)

// positiveSignals are scanned in this order; every hit in a summary counts.
var positiveSignals = []string{"reduced", "improvement", "benefit", "positive", "biomarker"}

// TrialSummary is the projection of a matching trial returned to callers.
type TrialSummary struct {
	RegistryID string `json:"registryId"`
	Status     string `json:"status"`
	Phase      string `json:"phase"`
	Summary    string `json:"summary"`
}

// CompetitorSummary is the projection of a competitor program returned to callers.
type CompetitorSummary struct {
	Company string `json:"company"`
	TrialID string `json:"trialId"`
	Note    string `json:"note"`
}

// Breakdown records how much each rule group moved the score before rounding.
type Breakdown struct {
	Base        float64 `json:"base"`
	Trials      float64 `json:"trials"`
	Phase       float64 `json:"phase"`
	Competitors float64 `json:"competitors"`
	Signals     float64 `json:"signals"`
}

// Result is the scorer output for one (molecule, disease) pair.
type Result struct {
	Molecule    string              `json:"molecule"`
	Disease     string              `json:"disease"`
	Score       float64             `json:"score"`
	Verdict     Verdict             `json:"verdict"`
	Trials      []TrialSummary      `json:"trials"`
	Competitors []CompetitorSummary `json:"competitors"`
	Highlights  []string            `json:"evidenceHighlights"`
	Breakdown   Breakdown           `json:"breakdown"`
}

// Scorer computes repurposing scores over a fixed dataset.
type Scorer struct {
	data *dataset.Dataset
}

// NewScorer binds a scorer to the dataset. A nil dataset selects the built-in one.
func NewScorer(data *dataset.Dataset) *Scorer {
	if data == nil {
		data = dataset.Default()
	}
	return &Scorer{data: data}
}

// Compute scores the pair. Inputs are expected to be non-blank; they are
// echoed back unchanged and compared against the dataset ignoring case.
// The rules are applied in a fixed order so the evidence text and the
// floating point sum are reproducible.
func (s *Scorer) Compute(molecule, disease string) Result {
	var ev evidence
	bd := Breakdown{Base: basePrior}
	score := basePrior

	matching := s.data.MatchingTrials(molecule, disease)
	if len(matching) > 0 {
		bd.Trials = math.Min(perTrialWeight*float64(len(matching)), trialWeightCap)
		score += bd.Trials
		ev.addf("Found %d related trial(s) in registry supporting investigation.", len(matching))
	} else {
		ev.addf("No existing trials found that directly link the molecule and disease.")
	}

	for _, t := range matching {
		bonus := 0.0
		switch {
		case match.Contains(t.Phase, "phase-3"):
			bonus = phase3Bonus
			ev.addf("Phase-3 trial found (registry %s) - stronger clinical evidence.", t.RegistryID)
		case match.Contains(t.Phase, "phase-2"):
			bonus = phase2Bonus
			ev.addf("Phase-2 trial found (registry %s) - moderate evidence.", t.RegistryID)
		case match.Contains(t.Phase, "phase-1"):
			bonus = phase1Bonus
		}
		if bonus != 0 {
			score += bonus
			bd.Phase += bonus
		}
		if match.Contains(t.Status, "completed") {
			score += completedBonus
			bd.Phase += completedBonus
		}
	}

	rivals := s.data.CompetitorsFor(disease)
	bd.Competitors = competitorPenalty(len(rivals))
	score += bd.Competitors
	if len(rivals) > 0 {
		ev.addf("%d competitor program(s) target the same disease - may reduce repurposing attractiveness.", len(rivals))
	}

	for _, t := range matching {
		for _, word := range positiveSignals {
			if match.Contains(t.Summary, word) {
				score += signalBonus
				bd.Signals += signalBonus
				ev.addf("Trial %s summary contains positive signal: '%s'.", t.RegistryID, word)
			}
		}
	}

	score = clamp(roundScore(score))

	return Result{
		Molecule:    molecule,
		Disease:     disease,
		Score:       score,
		Verdict:     VerdictFor(score),
		Trials:      summarizeTrials(matching),
		Competitors: s.summarizeCompetitors(disease),
		Highlights:  ev.highlights(maxHighlights),
		Breakdown:   bd,
	}
}

func competitorPenalty(n int) float64 {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return -0.03
	case n == 2:
		return -0.06
	default:
		return -0.12
	}
}

func summarizeTrials(trials []dataset.Trial) []TrialSummary {
	if len(trials) > maxTrials {
		trials = trials[:maxTrials]
	}
	out := make([]TrialSummary, 0, len(trials))
	for _, t := range trials {
		out = append(out, TrialSummary{
			RegistryID: t.RegistryID,
			Status:     t.Status,
			Phase:      t.Phase,
			Summary:    t.Summary,
		})
	}
	return out
}

// summarizeCompetitors lists same-disease programs first and pads with
// programs for other diseases when fewer than maxCompetitors exist.
func (s *Scorer) summarizeCompetitors(disease string) []CompetitorSummary {
	comps := s.data.CompetitorsFor(disease)
	if len(comps) < maxCompetitors {
		comps = append(comps, s.data.CompetitorsExcept(disease)...)
	}
	if len(comps) > maxCompetitors {
		comps = comps[:maxCompetitors]
	}
	out := make([]CompetitorSummary, 0, len(comps))
	for _, c := range comps {
		molecule := c.Molecule
		if match.Blank(molecule) {
			molecule = unnamedMolecule
		}
		out = append(out, CompetitorSummary{
			Company: c.Company,
			TrialID: c.TrialID,
			Note:    "Sponsor of " + molecule + " for " + c.Disease,
		})
	}
	return out
}

func roundScore(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
