package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// ApplyEnv overrides top-level settings from NICCTL_* environment variables
// and re-validates the result. Unset variables leave the file values alone.
func (c *Config) ApplyEnv() error {
	if err := cleanenv.ReadEnv(c); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
