package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"theranova/backend/internal/api"
	"theranova/backend/internal/config"
	"theranova/backend/internal/store"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logrus.SetLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	data, err := store.ResolveDataset(cfg.DatasetPath, cfg.CatalogDB)
	if err != nil {
		logrus.Fatalf("load dataset: %v", err)
	}

	server, err := api.NewServer(api.Config{Dataset: data})
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router := server.Router()

	logrus.Infof("starting repurpose-score backend on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
