package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOsu()
	c.normalizeCalculator()
	c.normalizePipeline()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeOsu() {
	if value, ok := os.LookupEnv("OSU_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.Osu.APIKey = value
	}
	c.Osu.APIKey = strings.TrimSpace(c.Osu.APIKey)
	c.Osu.BaseURL = strings.TrimRight(strings.TrimSpace(c.Osu.BaseURL), "/")
	if c.Osu.BaseURL == "" {
		c.Osu.BaseURL = defaultOsuBaseURL
	}
	c.Osu.WebURL = strings.TrimRight(strings.TrimSpace(c.Osu.WebURL), "/")
	if c.Osu.WebURL == "" {
		c.Osu.WebURL = defaultOsuWebURL
	}
}

func (c *Config) normalizeCalculator() {
	if value, ok := os.LookupEnv("OSUBOT_CALCULATOR"); ok && strings.TrimSpace(value) != "" {
		c.Calculator.Binary = value
	}
	c.Calculator.Binary = strings.TrimSpace(c.Calculator.Binary)
	if c.Calculator.Binary == "" {
		c.Calculator.Binary = defaultCalculatorBinary
	}
	c.Calculator.Format = strings.ToLower(strings.TrimSpace(c.Calculator.Format))
	if c.Calculator.Format == "" {
		c.Calculator.Format = defaultCalculatorFormat
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.RecentLimit == 0 {
		c.Pipeline.RecentLimit = defaultRecentLimit
	}
	if c.Pipeline.EventDays == 0 {
		c.Pipeline.EventDays = defaultEventDays
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
