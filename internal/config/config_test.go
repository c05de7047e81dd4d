package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"osubot/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("OSU_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".cache", "osubot", "charts")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Paths.HistoryDB != filepath.Join(tempHome, ".local", "share", "osubot", "history.db") {
		t.Fatalf("unexpected history db: %q", cfg.Paths.HistoryDB)
	}
	if cfg.Osu.APIKey != "test-key" {
		t.Fatalf("expected API key from env, got %q", cfg.Osu.APIKey)
	}
	if cfg.Osu.BaseURL != config.Default().Osu.BaseURL {
		t.Fatalf("unexpected base url: %q", cfg.Osu.BaseURL)
	}
	if cfg.Pipeline.RecentLimit != 50 {
		t.Fatalf("expected recent limit 50, got %d", cfg.Pipeline.RecentLimit)
	}
	if cfg.Pipeline.EventDays != 31 {
		t.Fatalf("expected event days 31, got %d", cfg.Pipeline.EventDays)
	}
	if cfg.Calculator.Format != config.FormatRosu {
		t.Fatalf("expected rosu format by default, got %q", cfg.Calculator.Format)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("OSU_API_KEY", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "osubot.toml")

	type payload struct {
		Osu struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"osu"`
		Calculator struct {
			Binary string `toml:"binary"`
			Format string `toml:"format"`
		} `toml:"calculator"`
		Pipeline struct {
			PostTimeoutSeconds int `toml:"post_timeout_seconds"`
		} `toml:"pipeline"`
	}
	custom := payload{}
	custom.Osu.APIKey = "abc123"
	custom.Osu.BaseURL = "https://example.com/api/"
	custom.Calculator.Binary = "/opt/oppai"
	custom.Calculator.Format = "OPPAI"
	custom.Pipeline.PostTimeoutSeconds = 30
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Osu.APIKey != "abc123" {
		t.Fatalf("expected key from file, got %q", cfg.Osu.APIKey)
	}
	if cfg.Osu.BaseURL != "https://example.com/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Osu.BaseURL)
	}
	if cfg.Calculator.Binary != "/opt/oppai" || cfg.Calculator.Format != config.FormatOppai {
		t.Fatalf("unexpected calculator config: %+v", cfg.Calculator)
	}
	if cfg.PostTimeout().Seconds() != 30 {
		t.Fatalf("expected 30s post timeout, got %s", cfg.PostTimeout())
	}
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "osubot.toml")
	contents := "[osu]\napi_key = \"file-key\"\n\n[calculator]\nbinary = \"file-calc\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OSU_API_KEY", "env-key")
	t.Setenv("OSUBOT_CALCULATOR", "env-calc")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Osu.APIKey != "env-key" {
		t.Errorf("expected key from env, got %q", cfg.Osu.APIKey)
	}
	if cfg.Calculator.Binary != "env-calc" {
		t.Errorf("expected calculator from env, got %q", cfg.Calculator.Binary)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("OSU_API_KEY", "")
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	_, _, _, err := config.Load("")
	if err == nil || !strings.Contains(err.Error(), "osu.api_key") {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_osu_api_key_here") {
		t.Fatalf("sample config missing placeholder key: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.WorkDir, "osubot") {
		t.Fatalf("expected work dir to contain osubot, got %q", cfg.Paths.WorkDir)
	}
	if cfg.Pipeline.RecentLimit != 50 {
		t.Fatalf("expected sample recent limit 50, got %d", cfg.Pipeline.RecentLimit)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing key", func(c *config.Config) { c.Osu.APIKey = "" }},
		{"zero rate", func(c *config.Config) { c.Osu.RequestsPerSecond = 0 }},
		{"zero request timeout", func(c *config.Config) { c.Osu.RequestTimeout = 0 }},
		{"unknown format", func(c *config.Config) { c.Calculator.Format = "pp+" }},
		{"zero calculator timeout", func(c *config.Config) { c.Calculator.TimeoutSeconds = 0 }},
		{"zero post timeout", func(c *config.Config) { c.Pipeline.PostTimeoutSeconds = 0 }},
		{"recent limit too large", func(c *config.Config) { c.Pipeline.RecentLimit = 101 }},
		{"event days too large", func(c *config.Config) { c.Pipeline.EventDays = 32 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "trace" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Osu.APIKey = "key"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	cfg.Osu.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate, got %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.HistoryDB = filepath.Join(base, "state", "history.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.HistoryDB)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", dir, err)
		}
	}
	if cfg.LockPath() != cfg.Paths.HistoryDB+".lock" {
		t.Fatalf("unexpected lock path %q", cfg.LockPath())
	}
}
