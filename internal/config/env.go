package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded when present and no --env-file was given.
// It typically carries HEADAS and CALDB for hosts where the HEASoft
// init script has not been sourced.
const DefaultEnvFile = ".uvotbatch.env"

// LoadEnv loads HEASoft environment settings from an env-format file.
// An explicitly configured file must exist; the default file is optional.
// Existing environment variables are not overridden.
func (c *Config) LoadEnv() error {
	path := c.EnvFile
	if path == "" {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return nil
		}
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}
