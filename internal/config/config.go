package config

import (
	"chatpoker-server/internal/util"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the poker dealer service
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	Log            struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	Chat struct {
		BaseURL           string `yaml:"baseUrl" envconfig:"base_url"`
		AppID             string `yaml:"appId" envconfig:"app_id"`
		AppSecret         string `yaml:"appSecret" envconfig:"app_secret"`
		VerificationToken string `yaml:"verificationToken" envconfig:"verification_token"`
	}
}

// DefaultConfig returns a config with the default values set
func DefaultConfig() Config {
	var cfg Config
	cfg.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"
	cfg.MigrationsPath = "./sql"
	cfg.Chat.BaseURL = "https://open.larksuite.com/open-apis"
	return cfg
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; environment variables can provide
// the full configuration on their own
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("CP_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("cp", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
