package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"osubot/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Osu.APIKey = "test"
	cfgVal.Paths.WorkDir = filepath.Join(base, "charts")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "data", "history.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPIKey sets the osu! API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Osu.APIKey = key
	}
}

// WithBaseURL points the statistics client at a test server.
func WithBaseURL(apiURL, webURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Osu.BaseURL = apiURL
		b.cfg.Osu.WebURL = webURL
		b.cfg.Osu.RequestsPerSecond = 1000
	}
}

// WithCalculatorScript installs script as the calculator binary.
func WithCalculatorScript(script string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Calculator.Binary = WriteScript(b.t, filepath.Join(b.baseDir, "bin"), "calc", script)
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the configured calculator binary
// is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{b.cfg.Calculator.Binary}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		for _, name := range names {
			WriteScript(b.t, binDir, name, "exit 0\n")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
