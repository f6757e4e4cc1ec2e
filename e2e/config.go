package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_BUFFER_SIZE caps the per-session outbound queue used by the scenario sinks
	BufferSize int `envconfig:"E2E_BUFFER_SIZE" default:"16"`
	// E2E_SEED_DEMO installs the demo data set before the scenario runs
	SeedDemo bool `envconfig:"E2E_SEED_DEMO" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
