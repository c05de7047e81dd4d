package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"osubot/internal/config"
	"osubot/internal/difficulty"
	"osubot/internal/logging"
	"osubot/internal/pipeline"
	"osubot/internal/services/osuapi"
	"osubot/internal/services/ppcalc"
)

const (
	outputAuto  = "auto"
	outputTable = "table"
	outputJSON  = "json"
)

type commandContext struct {
	configFlag *string
	outputFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, outputFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		outputFlag: outputFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// app bundles the wired components a resolution needs.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
}

func (c *commandContext) buildApp() (*app, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	client, err := osuapi.New(osuapi.Config{
		APIKey:            cfg.Osu.APIKey,
		BaseURL:           cfg.Osu.BaseURL,
		WebURL:            cfg.Osu.WebURL,
		RequestsPerSecond: cfg.Osu.RequestsPerSecond,
		Timeout:           cfg.RequestTimeout(),
		RecentLimit:       cfg.Pipeline.RecentLimit,
		EventDays:         cfg.Pipeline.EventDays,
	})
	if err != nil {
		return nil, err
	}
	calc, err := ppcalc.New(cfg.Calculator.Binary, cfg.Calculator.Format, cfg.Calculator.TimeoutSeconds)
	if err != nil {
		return nil, fmt.Errorf("init calculator: %w", err)
	}
	engine := difficulty.New(calc, client, cfg.Paths.WorkDir, logger,
		difficulty.WithCallTimeout(cfg.CalculatorTimeout()))

	return &app{
		cfg:      cfg,
		logger:   logger,
		pipeline: pipeline.New(client, engine, logger, pipeline.WithPostTimeout(cfg.PostTimeout())),
	}, nil
}

// wantJSON resolves the output flag against the command's stdout.
func (c *commandContext) wantJSON(cmd *cobra.Command) bool {
	format := outputAuto
	if c.outputFlag != nil {
		format = strings.ToLower(strings.TrimSpace(*c.outputFlag))
	}
	switch format {
	case outputJSON:
		return true
	case outputTable:
		return false
	default:
		return !isTerminal(cmd.OutOrStdout())
	}
}

func validateOutputFormat(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", outputAuto, outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (use auto, table, or json)", value)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
