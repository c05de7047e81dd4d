package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"osubot/internal/config"
	"osubot/internal/deps"
	"osubot/internal/services"
	"osubot/internal/services/osuapi"
)

// probeUserID is a long-lived account used to confirm the API answers.
const probeUserID = "2"

// CheckOsuAPI verifies that the statistics API is reachable and the key is
// accepted. It uses a 10-second timeout and a single attempt.
func CheckOsuAPI(ctx context.Context, cfg *config.Config) Result {
	const name = "osu! API"

	if strings.TrimSpace(cfg.Osu.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := osuapi.New(osuapi.Config{
		APIKey:  cfg.Osu.APIKey,
		BaseURL: cfg.Osu.BaseURL,
		WebURL:  cfg.Osu.WebURL,
		Timeout: cfg.RequestTimeout(),
	})
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	_, err = client.User(checkCtx, probeUserID, osuapi.IDTypeID)
	switch {
	case err == nil, errors.Is(err, services.ErrNotFound):
		return Result{Name: name, Passed: true, Detail: "API reachable"}
	default:
		return Result{Name: name, Detail: summarizeAPIError(err)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries required by cfg.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	description := "Required for modded difficulty and pp estimates"
	if cfg.Calculator.Format == config.FormatOppai {
		description += " (oppai output)"
	}
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "Calculator",
			Command:     cfg.Calculator.Binary,
			Description: description,
		},
	})
}

func summarizeAPIError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (API unreachable)"
	}
	message := err.Error()
	if strings.Contains(message, "401") || strings.Contains(message, "403") {
		return "auth failed (invalid api key)"
	}
	return message
}
