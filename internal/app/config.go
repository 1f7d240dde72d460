package app

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/testmiddle/internal/models"
)

const (
	defaultRoute          = "/controllers/test"
	defaultTimeoutSeconds = 10
)

type BackendConfig struct {
	TimeoutSeconds int               `toml:"timeout_seconds"`
	Endpoints      map[string]string `toml:"endpoints"`
}

func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

type Config struct {
	Server struct {
		Port  string `toml:"port"`
		Route string `toml:"route"`
	} `toml:"server"`

	Backend BackendConfig `toml:"backend"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :8080")
	}
	if config.Server.Route == "" {
		config.Server.Route = defaultRoute
	}
	if config.Backend.TimeoutSeconds <= 0 {
		config.Backend.TimeoutSeconds = defaultTimeoutSeconds
	}

	for _, table := range []string{models.TableTest, models.TableTestScore} {
		if config.Backend.Endpoints[table] == "" {
			return nil, fmt.Errorf("backend endpoint for table %q is not specified in config", table)
		}
	}

	logger.Debug.Printf("Loaded backend endpoints: %+v", config.Backend.Endpoints)

	return &config, nil
}
