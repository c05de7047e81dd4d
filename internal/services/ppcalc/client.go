package ppcalc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"osubot/internal/mods"
	"osubot/internal/osu"
	"osubot/internal/services"
)

// Output dialects.
const (
	FormatRosu  = "rosu"
	FormatOppai = "oppai"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client runs the calculator binary once per request.
type Client struct {
	binary  string
	format  string
	timeout time.Duration
	exec    Executor
}

// New constructs a calculator client.
func New(binary, format string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("calculator binary required")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		format = FormatRosu
	case FormatRosu, FormatOppai:
	default:
		return nil, fmt.Errorf("unsupported calculator format %q", format)
	}
	client := &Client{
		binary:  binary,
		format:  format,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// result is the union of both dialects' JSON fields.
type result struct {
	AR    *float64 `json:"ar"`
	CS    *float64 `json:"cs"`
	OD    *float64 `json:"od"`
	HP    *float64 `json:"hp"`
	SR    *float64 `json:"sr"`
	Stars *float64 `json:"stars"`
	PP    *float64 `json:"pp"`
}

// Attributes returns the modded CS/AR/OD/HP/SR of the chart at chartPath.
func (c *Client) Attributes(ctx context.Context, chartPath string, set mods.Set) (osu.Attributes, error) {
	res, err := c.run(ctx, chartPath, set, 0)
	if err != nil {
		return osu.Attributes{}, err
	}
	sr := res.SR
	if sr == nil {
		sr = res.Stars
	}
	if res.CS == nil || res.AR == nil || res.OD == nil || sr == nil {
		return osu.Attributes{}, services.Wrap(services.ErrExternalTool, "ppcalc", "attributes", "output missing difficulty fields", nil)
	}
	attrs := osu.Attributes{CS: *res.CS, AR: *res.AR, OD: *res.OD, SR: *sr}
	if res.HP != nil {
		attrs.HP = *res.HP
	}
	return attrs, nil
}

// PP returns the performance value for a play at accuracy percent.
func (c *Client) PP(ctx context.Context, chartPath string, set mods.Set, accuracy float64) (float64, error) {
	if accuracy <= 0 || accuracy > 100 {
		return 0, services.Wrap(services.ErrValidation, "ppcalc", "pp", fmt.Sprintf("accuracy %v out of range", accuracy), nil)
	}
	res, err := c.run(ctx, chartPath, set, accuracy)
	if err != nil {
		return 0, err
	}
	if res.PP == nil {
		return 0, services.Wrap(services.ErrExternalTool, "ppcalc", "pp", "output missing pp", nil)
	}
	if *res.PP < 0 {
		return 0, services.Wrap(services.ErrExternalTool, "ppcalc", "pp", "calculator could not compute pp", nil)
	}
	return *res.PP, nil
}

// Args builds the argument list for one invocation. Zero accuracy means
// "difficulty only".
func (c *Client) Args(chartPath string, set mods.Set, accuracy float64) []string {
	acc := accuracy
	if acc == 0 {
		acc = 100
	}
	accText := strconv.FormatFloat(acc, 'f', -1, 64)
	if c.format == FormatOppai {
		args := []string{chartPath}
		if accuracy != 0 {
			args = append(args, accText+"%")
		}
		if !set.Empty() {
			args = append(args, set.String())
		}
		return append(args, "-ojson")
	}
	return []string{
		"--path", chartPath,
		"--accuracy", accText,
		"--mods", strconv.FormatUint(uint64(mods.Encode(set)), 10),
	}
}

func (c *Client) run(ctx context.Context, chartPath string, set mods.Set, accuracy float64) (result, error) {
	if strings.TrimSpace(chartPath) == "" {
		return result{}, services.Wrap(services.ErrValidation, "ppcalc", "run", "chart path required", nil)
	}
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	output, err := c.exec.Run(runCtx, c.binary, c.Args(chartPath, set, accuracy))
	if err != nil {
		if ctxErr := runCtx.Err(); ctxErr != nil {
			return result{}, services.Wrap(services.ErrExternalTool, "ppcalc", "run", "calculator timed out", errors.Join(services.ErrTimeout, ctxErr))
		}
		return result{}, services.Wrap(services.ErrExternalTool, "ppcalc", "run", c.binary, err)
	}

	var res result
	if err := json.Unmarshal(lastJSONLine(output), &res); err != nil {
		return result{}, services.Wrap(services.ErrExternalTool, "ppcalc", "parse", "invalid calculator output", err)
	}
	return res, nil
}

// lastJSONLine picks the final line that looks like a JSON object, tolerating
// banner text some builds print first.
func lastJSONLine(output []byte) []byte {
	trimmed := bytes.TrimSpace(output)
	if json.Valid(trimmed) {
		return trimmed
	}
	lines := strings.Split(string(trimmed), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "{") {
			return []byte(line)
		}
	}
	return output
}
