package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/abhisek/flashai/internal/session"
)

// Validate checks values cleanenv cannot check by type alone.
// Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Study.validate(); err != nil {
		return fmt.Errorf("study: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func (s *StudyConfig) validate() error {
	if s.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", s.BatchSize)
	}
	if _, err := session.ParseRetryPolicy(s.RetryPolicy); err != nil {
		return fmt.Errorf("retry_policy: %w", err)
	}
	return nil
}

func (l *LogConfig) validate() error {
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	switch strings.ToLower(l.Mode) {
	case "prod", "production", "dev", "development":
	default:
		return fmt.Errorf("mode must be production or development (got %q)", l.Mode)
	}
	return nil
}

// SessionOptions converts the study settings into session options.
func (s StudyConfig) SessionOptions() session.Options {
	policy, _ := session.ParseRetryPolicy(s.RetryPolicy)
	return session.Options{
		BatchSize: s.BatchSize,
		Retry:     policy,
	}
}
