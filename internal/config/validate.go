package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOsu(); err != nil {
		return err
	}
	if err := c.validateCalculator(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOsu() error {
	if c.Osu.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("osu.api_key is required. Set OSU_API_KEY env var or edit %s (create with 'osubot config init')", defaultPath)
	}
	if c.Osu.RequestsPerSecond <= 0 {
		return errors.New("osu.requests_per_second must be positive")
	}
	if c.Osu.RequestTimeout <= 0 {
		return errors.New("osu.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateCalculator() error {
	switch c.Calculator.Format {
	case FormatRosu, FormatOppai:
	default:
		return fmt.Errorf("calculator.format must be %q or %q, got %q", FormatRosu, FormatOppai, c.Calculator.Format)
	}
	if c.Calculator.TimeoutSeconds <= 0 {
		return errors.New("calculator.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.PostTimeoutSeconds <= 0 {
		return errors.New("pipeline.post_timeout_seconds must be positive")
	}
	if c.Pipeline.RecentLimit < 1 || c.Pipeline.RecentLimit > 100 {
		return errors.New("pipeline.recent_limit must be between 1 and 100")
	}
	if c.Pipeline.EventDays < 1 || c.Pipeline.EventDays > 31 {
		return errors.New("pipeline.event_days must be between 1 and 31")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
