package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Evidence.TokenBytes < 16 {
		return fmt.Errorf("evidence.token_bytes must be at least 16 (got %d)", c.Evidence.TokenBytes)
	}
	if c.Evidence.BcryptCost < bcrypt.MinCost || c.Evidence.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("evidence.bcrypt_cost must be between %d and %d (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Evidence.BcryptCost)
	}
	if c.Evidence.DefaultDueDays <= 0 {
		return fmt.Errorf("evidence.default_due_days must be > 0 (got %d)", c.Evidence.DefaultDueDays)
	}

	if c.Report.Model == "" {
		return fmt.Errorf("report.model must not be empty")
	}
	if c.Report.MaxTokens <= 0 {
		return fmt.Errorf("report.max_tokens must be > 0 (got %d)", c.Report.MaxTokens)
	}
	if c.Report.Timeout <= 0 {
		return fmt.Errorf("report.timeout must be > 0 (got %v)", c.Report.Timeout)
	}

	return nil
}
