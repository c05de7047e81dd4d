package ppcalc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"osubot/internal/mods"
	"osubot/internal/osu"
	"osubot/internal/services"
	"osubot/internal/services/ppcalc"
)

type stubExecutor struct {
	output []byte
	err    error
	calls  int
	args   [][]string
	block  bool
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	s.calls++
	s.args = append(s.args, append([]string(nil), args...))
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.output, s.err
}

func TestNewValidatesInput(t *testing.T) {
	if _, err := ppcalc.New("", ppcalc.FormatRosu, 5); err == nil {
		t.Fatal("expected error for empty binary")
	}
	if _, err := ppcalc.New("calc", "ppv2", 5); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRosuArgs(t *testing.T) {
	client, err := ppcalc.New("rosu-pp-cli", ppcalc.FormatRosu, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := client.Args("/tmp/1.osu", mods.Set{mods.HD, mods.NC}, 98.5)
	want := []string{"--path", "/tmp/1.osu", "--accuracy", "98.5", "--mods", "584"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	got = client.Args("/tmp/1.osu", nil, 0)
	want = []string{"--path", "/tmp/1.osu", "--accuracy", "100", "--mods", "0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("difficulty args mismatch (-want +got):\n%s", diff)
	}
}

func TestOppaiArgs(t *testing.T) {
	client, err := ppcalc.New("oppai", ppcalc.FormatOppai, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := client.Args("/tmp/1.osu", mods.Set{mods.HD, mods.DT}, 99)
	want := []string{"/tmp/1.osu", "99%", "+HDDT", "-ojson"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	got = client.Args("/tmp/1.osu", nil, 0)
	want = []string{"/tmp/1.osu", "-ojson"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("difficulty args mismatch (-want +got):\n%s", diff)
	}
}

func TestAttributesParsesRosuOutput(t *testing.T) {
	exec := &stubExecutor{output: []byte(`{"ar":10.33,"bpm":333,"cs":4,"hp":5,"od":10.08,"pp":912.4,"sr":8.12}` + "\n")}
	client, err := ppcalc.New("rosu-pp-cli", "", 5, ppcalc.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := client.Attributes(context.Background(), "/tmp/1.osu", mods.Set{mods.DT})
	if err != nil {
		t.Fatalf("Attributes: %v", err)
	}
	want := osu.Attributes{CS: 4, AR: 10.33, OD: 10.08, HP: 5, SR: 8.12}
	if got != want {
		t.Fatalf("Attributes = %+v, want %+v", got, want)
	}
}

func TestAttributesParsesOppaiOutputAfterBanner(t *testing.T) {
	exec := &stubExecutor{output: []byte("oppai 4.1.0\n" + `{"oppai_version":"4.1.0","cs":4.2,"od":9.1,"ar":9.8,"hp":6,"stars":6.45,"pp":301.2}`)}
	client, err := ppcalc.New("oppai", ppcalc.FormatOppai, 5, ppcalc.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := client.Attributes(context.Background(), "/tmp/1.osu", mods.Set{mods.HR})
	if err != nil {
		t.Fatalf("Attributes: %v", err)
	}
	if got.SR != 6.45 || got.AR != 9.8 {
		t.Fatalf("unexpected attributes %+v", got)
	}
}

func TestPPFailures(t *testing.T) {
	tests := []struct {
		name string
		exec *stubExecutor
	}{
		{"exit error", &stubExecutor{err: errors.New("exit status 1")}},
		{"invalid json", &stubExecutor{output: []byte("segfault")}},
		{"missing pp", &stubExecutor{output: []byte(`{"sr":5}`)}},
		{"oppai sentinel", &stubExecutor{output: []byte(`{"pp":-1}`)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, err := ppcalc.New("calc", ppcalc.FormatOppai, 5, ppcalc.WithExecutor(tc.exec))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			_, err = client.PP(context.Background(), "/tmp/1.osu", nil, 98)
			if !errors.Is(err, services.ErrExternalTool) {
				t.Fatalf("expected ErrExternalTool, got %v", err)
			}
		})
	}
}

func TestPPRejectsOutOfRangeAccuracy(t *testing.T) {
	exec := &stubExecutor{output: []byte(`{"pp":1}`)}
	client, _ := ppcalc.New("calc", ppcalc.FormatRosu, 5, ppcalc.WithExecutor(exec))
	if _, err := client.PP(context.Background(), "/tmp/1.osu", nil, 101); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if exec.calls != 0 {
		t.Fatal("calculator should not run for invalid accuracy")
	}
}

func TestPPTimesOut(t *testing.T) {
	exec := &stubExecutor{block: true}
	client, err := ppcalc.New("calc", ppcalc.FormatRosu, 1, ppcalc.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	start := time.Now()
	_, err = client.PP(context.Background(), "/tmp/1.osu", nil, 95)
	if !errors.Is(err, services.ErrExternalTool) || !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected tool timeout, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("timeout was not enforced")
	}
}
