package cli

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds CLI settings. Flags override the environment.
type Config struct {
	ServerURL string        `env:"C4CTL_SERVER" envDefault:"http://localhost:5000"`
	Timeout   time.Duration `env:"C4CTL_TIMEOUT" envDefault:"30s"`
	Output    string        `env:"C4CTL_OUTPUT" envDefault:"text"`
	Verbose   bool          `env:"C4CTL_VERBOSE"`
}

// LoadConfig reads the C4CTL_* environment variables
func LoadConfig() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return &Config{ServerURL: "http://localhost:5000", Timeout: 30 * time.Second, Output: "text"}, err
	}
	return &cfg, nil
}
