package store

import (
	"time"

	"theranova/backend/internal/dataset"
)

// TrialRow is a registry trial persisted in the catalog. Position keeps the
// dataset order, which scoring output depends on.
type TrialRow struct {
	RegistryID string `gorm:"primaryKey;size:64"`
	Position   int    `gorm:"index"`
	Molecule   string `gorm:"size:256;index"`
	Disease    string `gorm:"size:256;index"`
	Status     string `gorm:"size:64"`
	Phase      string `gorm:"size:64"`
	Summary    string `gorm:"type:text"`
	UpdatedAt  time.Time
}

// CompetitorRow is a competitor program persisted in the catalog.
type CompetitorRow struct {
	ID        uint   `gorm:"primaryKey"`
	Position  int    `gorm:"index"`
	Company   string `gorm:"size:256"`
	TrialID   string `gorm:"size:64"`
	Disease   string `gorm:"size:256;index"`
	Molecule  string `gorm:"size:256"`
	UpdatedAt time.Time
}

// TrialRowFromRecord converts a dataset trial into its catalog row.
func TrialRowFromRecord(t dataset.Trial, position int) TrialRow {
	return TrialRow{
		RegistryID: t.RegistryID,
		Position:   position,
		Molecule:   t.Molecule,
		Disease:    t.Disease,
		Status:     t.Status,
		Phase:      t.Phase,
		Summary:    t.Summary,
	}
}

// Record converts the row back into a dataset trial.
func (r TrialRow) Record() dataset.Trial {
	return dataset.Trial{
		RegistryID: r.RegistryID,
		Molecule:   r.Molecule,
		Disease:    r.Disease,
		Status:     r.Status,
		Phase:      r.Phase,
		Summary:    r.Summary,
	}
}

// CompetitorRowFromRecord converts a dataset competitor into its catalog row.
func CompetitorRowFromRecord(c dataset.Competitor, position int) CompetitorRow {
	return CompetitorRow{
		Position: position,
		Company:  c.Company,
		TrialID:  c.TrialID,
		Disease:  c.Disease,
		Molecule: c.Molecule,
	}
}

// Record converts the row back into a dataset competitor.
func (r CompetitorRow) Record() dataset.Competitor {
	return dataset.Competitor{
		Company:  r.Company,
		TrialID:  r.TrialID,
		Disease:  r.Disease,
		Molecule: r.Molecule,
	}
}
