package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// HTTPConfig keeps settings for the JSON API server.
type HTTPConfig struct {
	Address string        `yaml:"address" env:"ADDRESS" env-default:":8080"`
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"5s"`
}

// Config keeps runtime settings for the service.
type Config struct {
	LogLevel      string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	DatabaseURL   string        `yaml:"database_url" env:"DATABASE_URL" env-default:"taskhub.db"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SWEEP_INTERVAL" env-default:"15m"`
	HTTP          HTTPConfig    `yaml:"http_server"`
}

// MustLoad reads configuration from a YAML file with env overrides; a
// missing file falls back to env only.
func MustLoad(configPath string) Config {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read env: %s", err)
		}
		return cfg
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				log.Fatalf("cannot read env: %s", err)
			}
			return cfg
		}
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}

	return cfg
}
