package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"theranova/backend/internal/dataset"
)

// Database wraps the GORM handle of the trial catalog.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed catalog at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&TrialRow{}, &CompetitorRow{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	return &Database{gorm: db}, nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ReplaceDataset swaps the catalog contents for the supplied dataset.
func (d *Database) ReplaceDataset(data *dataset.Dataset) error {
	if d == nil {
		return errors.New("database is nil")
	}
	if data == nil {
		return errors.New("dataset is nil")
	}

	trials := data.Trials()
	trialRows := make([]TrialRow, 0, len(trials))
	for i, t := range trials {
		trialRows = append(trialRows, TrialRowFromRecord(t, i))
	}
	competitors := data.Competitors()
	competitorRows := make([]CompetitorRow, 0, len(competitors))
	for i, c := range competitors {
		competitorRows = append(competitorRows, CompetitorRowFromRecord(c, i))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&TrialRow{}).Error; err != nil {
			return fmt.Errorf("clear trials: %w", err)
		}
		if err := all.Delete(&CompetitorRow{}).Error; err != nil {
			return fmt.Errorf("clear competitors: %w", err)
		}
		// Batch insert to stay under the SQLite variable limit (999)
		const batchSize = 100
		if len(trialRows) > 0 {
			if err := tx.CreateInBatches(trialRows, batchSize).Error; err != nil {
				return fmt.Errorf("insert trials: %w", err)
			}
		}
		if len(competitorRows) > 0 {
			if err := tx.CreateInBatches(competitorRows, batchSize).Error; err != nil {
				return fmt.Errorf("insert competitors: %w", err)
			}
		}
		return nil
	})
}

// LoadDataset reads the catalog back into an immutable dataset, in stored order.
func (d *Database) LoadDataset() (*dataset.Dataset, error) {
	if d == nil {
		return nil, errors.New("database is nil")
	}
	var trialRows []TrialRow
	if err := d.gorm.Order("position ASC").Find(&trialRows).Error; err != nil {
		return nil, fmt.Errorf("list trials: %w", err)
	}
	var competitorRows []CompetitorRow
	if err := d.gorm.Order("position ASC").Find(&competitorRows).Error; err != nil {
		return nil, fmt.Errorf("list competitors: %w", err)
	}

	trials := make([]dataset.Trial, 0, len(trialRows))
	for _, row := range trialRows {
		trials = append(trials, row.Record())
	}
	competitors := make([]dataset.Competitor, 0, len(competitorRows))
	for _, row := range competitorRows {
		competitors = append(competitors, row.Record())
	}
	return dataset.New(trials, competitors)
}

// CountTrials returns the number of trials in the catalog.
func (d *Database) CountTrials() (int64, error) {
	var count int64
	if err := d.gorm.Model(&TrialRow{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// LoadOrSeed returns the catalog dataset, first writing seed into the catalog
// when it holds no trials.
func (d *Database) LoadOrSeed(seed *dataset.Dataset) (*dataset.Dataset, error) {
	count, err := d.CountTrials()
	if err != nil {
		return nil, fmt.Errorf("count trials: %w", err)
	}
	if count == 0 {
		if err := d.ReplaceDataset(seed); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		logrus.WithField("trials", len(seed.Trials())).Info("seeded empty trial catalog")
	}
	return d.LoadDataset()
}
