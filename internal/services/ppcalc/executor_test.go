package ppcalc_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"osubot/internal/mods"
	"osubot/internal/services"
	"osubot/internal/services/ppcalc"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calc")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandExecutorRunsBinary(t *testing.T) {
	defer goleak.VerifyNone(t)

	script := writeScript(t, `echo '{"ar":9.3,"bpm":270,"cs":4,"hp":5,"od":8.8,"pp":412.5,"sr":6.1}'`)
	client, err := ppcalc.New(script, ppcalc.FormatRosu, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pp, err := client.PP(context.Background(), "/tmp/chart.osu", mods.Set{mods.HD}, 99)
	if err != nil {
		t.Fatalf("PP: %v", err)
	}
	if pp != 412.5 {
		t.Fatalf("expected 412.5, got %v", pp)
	}
}

func TestCommandExecutorReportsStderr(t *testing.T) {
	defer goleak.VerifyNone(t)

	script := writeScript(t, `echo "cannot parse map" >&2; exit 3`)
	client, err := ppcalc.New(script, ppcalc.FormatRosu, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.Attributes(context.Background(), "/tmp/chart.osu", mods.Set{mods.HR})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if want := "cannot parse map"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected stderr %q in error, got %v", want, err)
	}
}
