package config

const (
	defaultConfigPath         = "~/.config/osubot/config.toml"
	defaultWorkDir            = "~/.cache/osubot/charts"
	defaultLogDir             = "~/.local/share/osubot/logs"
	defaultHistoryDB          = "~/.local/share/osubot/history.db"
	defaultOsuBaseURL         = "https://osu.ppy.sh/api"
	defaultOsuWebURL          = "https://osu.ppy.sh"
	defaultRequestsPerSecond  = 1.0
	defaultRequestTimeout     = 15
	defaultCalculatorBinary   = "rosu-pp-cli"
	defaultCalculatorFormat   = FormatRosu
	defaultCalculatorTimeout  = 10
	defaultPostTimeoutSeconds = 120
	defaultRecentLimit        = 50
	defaultEventDays          = 31
	defaultNtfyTimeout        = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Calculator output formats understood by the ppcalc client.
const (
	FormatRosu  = "rosu"
	FormatOppai = "oppai"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Osu: Osu{
			BaseURL:           defaultOsuBaseURL,
			WebURL:            defaultOsuWebURL,
			RequestsPerSecond: defaultRequestsPerSecond,
			RequestTimeout:    defaultRequestTimeout,
		},
		Calculator: Calculator{
			Binary:         defaultCalculatorBinary,
			Format:         defaultCalculatorFormat,
			TimeoutSeconds: defaultCalculatorTimeout,
		},
		Pipeline: Pipeline{
			PostTimeoutSeconds: defaultPostTimeoutSeconds,
			RecentLimit:        defaultRecentLimit,
			EventDays:          defaultEventDays,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
