package store

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"theranova/backend/internal/dataset"
)

// ResolveDataset builds the dataset the service scores against. The seed is
// the built-in dataset, or the file at datasetPath when set. With a catalog
// path the catalog is opened, seeded if empty, and read back; the handle is
// closed before returning since the dataset is immutable from then on.
func ResolveDataset(datasetPath, catalogPath string) (*dataset.Dataset, error) {
	seed := dataset.Default()
	source := "builtin"
	if datasetPath != "" {
		loaded, err := dataset.LoadFile(datasetPath)
		if err != nil {
			return nil, err
		}
		seed = loaded
		source = datasetPath
	}

	if catalogPath == "" {
		logrus.WithField("source", source).Info("using in-memory dataset")
		return seed, nil
	}

	db, err := Open(catalogPath, true)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close catalog")
		}
	}()

	data, err := db.LoadOrSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", catalogPath, err)
	}
	logrus.WithFields(logrus.Fields{
		"catalog": catalogPath,
		"trials":  len(data.Trials()),
	}).Info("loaded dataset from catalog")
	return data, nil
}
