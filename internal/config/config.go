package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the service's environment variables.
const EnvPrefix = "REPURPOSE"

// Config holds the server settings.
type Config struct {
	Port        string
	DatasetPath string
	CatalogDB   string
	LogLevel    logrus.Level
	GinMode     string
}

// Load reads settings from REPURPOSE_* environment variables and an optional
// repurpose.yaml in the working directory. configFile, when non-empty, names
// the YAML file explicitly and must exist.
func Load(configFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("port", "8000")
	v.SetDefault("dataset_path", "")
	v.SetDefault("catalog_db", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("gin_mode", "release")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Hosting platforms inject a bare PORT.
	if err := v.BindEnv("port", EnvPrefix+"_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind port: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("repurpose")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		logrus.WithField("file", v.ConfigFileUsed()).Info("loaded config file")
	}

	level, err := logrus.ParseLevel(strings.TrimSpace(v.GetString("log_level")))
	if err != nil {
		return Config{}, fmt.Errorf("log level: %w", err)
	}

	cfg := Config{
		Port:        strings.TrimSpace(v.GetString("port")),
		DatasetPath: strings.TrimSpace(v.GetString("dataset_path")),
		CatalogDB:   strings.TrimSpace(v.GetString("catalog_db")),
		LogLevel:    level,
		GinMode:     strings.TrimSpace(v.GetString("gin_mode")),
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return Config{}, fmt.Errorf("gin mode %q: want %s, %s or %s", cfg.GinMode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
	return cfg, nil
}
