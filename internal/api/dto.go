package api

import (
	"errors"
	"time"

	"theranova/backend/internal/match"
	"theranova/backend/internal/scoring"
)

var (
	errMoleculeRequired = errors.New("molecule is required and must be a non-empty string")
	errDiseaseRequired  = errors.New("disease is required and must be a non-empty string")
	errBodyRequired     = errors.New("request body must be a JSON object")
	errNotFound         = errors.New("not found")
	errUpgradeRequired  = errors.New("websocket upgrade required")
)

// ScoreRequest is the POST /score payload.
type ScoreRequest struct {
	Molecule string `json:"molecule"`
	Disease  string `json:"disease"`
}

// Validate checks that both fields carry a non-blank value.
func (r ScoreRequest) Validate() error {
	if match.Blank(r.Molecule) {
		return errMoleculeRequired
	}
	if match.Blank(r.Disease) {
		return errDiseaseRequired
	}
	return nil
}

// TrialDTO is the API representation of a matching trial.
type TrialDTO struct {
	RegistryID string `json:"registryId"`
	Status     string `json:"status"`
	Phase      string `json:"phase"`
	Summary    string `json:"summary"`
}

// CompetitorDTO is the API representation of a competitor program.
type CompetitorDTO struct {
	Company string `json:"company"`
	TrialID string `json:"trialId"`
	Note    string `json:"note"`
}

// ScoreResponse is the POST /score success payload.
type ScoreResponse struct {
	Molecule           string          `json:"molecule"`
	Disease            string          `json:"disease"`
	RepurposeScore     float64         `json:"repurposeScore"`
	OverallVerdict     string          `json:"overallVerdict"`
	AnalysisID         string          `json:"analysisId"`
	Trials             []TrialDTO      `json:"trials"`
	Competitors        []CompetitorDTO `json:"competitors"`
	EvidenceHighlights []string        `json:"evidenceHighlights"`
}

// ScoreResponseFromResult converts a scorer result into the wire payload.
func ScoreResponseFromResult(r scoring.Result, analysisID string) ScoreResponse {
	trials := make([]TrialDTO, 0, len(r.Trials))
	for _, t := range r.Trials {
		trials = append(trials, TrialDTO{
			RegistryID: t.RegistryID,
			Status:     t.Status,
			Phase:      t.Phase,
			Summary:    t.Summary,
		})
	}
	competitors := make([]CompetitorDTO, 0, len(r.Competitors))
	for _, c := range r.Competitors {
		competitors = append(competitors, CompetitorDTO{
			Company: c.Company,
			TrialID: c.TrialID,
			Note:    c.Note,
		})
	}
	highlights := append([]string{}, r.Highlights...)
	return ScoreResponse{
		Molecule:           r.Molecule,
		Disease:            r.Disease,
		RepurposeScore:     r.Score,
		OverallVerdict:     string(r.Verdict),
		AnalysisID:         analysisID,
		Trials:             trials,
		Competitors:        competitors,
		EvidenceHighlights: highlights,
	}
}

// AnalysisEvent is the websocket payload published for each scored request.
type AnalysisEvent struct {
	Type           string    `json:"type"`
	AnalysisID     string    `json:"analysisId"`
	Molecule       string    `json:"molecule"`
	Disease        string    `json:"disease"`
	RepurposeScore float64   `json:"repurposeScore"`
	OverallVerdict string    `json:"overallVerdict"`
	Timestamp      time.Time `json:"timestamp"`
}

// AnalysisEventFromResponse summarizes a response for the feed.
func AnalysisEventFromResponse(resp ScoreResponse) AnalysisEvent {
	return AnalysisEvent{
		Type:           "analysis",
		AnalysisID:     resp.AnalysisID,
		Molecule:       resp.Molecule,
		Disease:        resp.Disease,
		RepurposeScore: resp.RepurposeScore,
		OverallVerdict: resp.OverallVerdict,
	}
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
