package difficulty

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"osubot/internal/fileutil"
	"osubot/internal/services"
)

// chartHeader must appear on the first line of every valid chart file.
var chartHeader = []byte("osu file format")

// Lease is a chart file owned by a single calculation.
type Lease struct {
	Path string
}

// Release deletes the leased file. It is safe to call more than once.
func (l *Lease) Release() {
	if l == nil || l.Path == "" {
		return
	}
	_ = os.Remove(l.Path)
}

func (e *Engine) leaseChart(ctx context.Context, beatmapID int, fetch chartFetch) (*Lease, error) {
	raw, err := fetch(ctx, beatmapID)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "difficulty", "fetch chart", fmt.Sprintf("beatmap %d", beatmapID), err)
	}
	if err := ValidateChart(raw); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "difficulty", "fetch chart", fmt.Sprintf("beatmap %d", beatmapID), err)
	}
	if err := os.MkdirAll(e.workDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "difficulty", "lease chart", "create work dir", err)
	}
	path := filepath.Join(e.workDir, fmt.Sprintf("%d-%s.osu", beatmapID, uuid.NewString()))
	if err := fileutil.WriteFileVerified(path, raw, 0o644); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "difficulty", "lease chart", "write chart", err)
	}
	return &Lease{Path: path}, nil
}

// ValidateChart checks that raw looks like a chart file rather than an
// error page or an empty body.
func ValidateChart(raw []byte) error {
	firstLine, _, _ := bytes.Cut(raw, []byte("\n"))
	if !bytes.Contains(firstLine, chartHeader) {
		return errors.New("response is not a chart file")
	}
	return nil
}
