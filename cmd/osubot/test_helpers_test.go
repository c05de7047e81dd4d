package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"osubot/internal/config"
	"osubot/internal/testsupport"
)

const freedomDiveTitle = "Cookiezi | xi - FREEDOM DiVE [FOUR DIMENSIONS] +HD 98.5%"

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	requests   *atomic.Int64
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("OSU_API_KEY", "")
	t.Setenv("OSUBOT_CALCULATOR", "")

	var requests atomic.Int64
	server := httptest.NewServer(fakeOsuHandler(&requests))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t,
		testsupport.WithBaseURL(server.URL+"/api", server.URL),
		testsupport.WithCalculatorScript(`echo '{"cs":4,"ar":9,"od":8,"hp":5,"sr":7.07,"pp":512.5}'`+"\n"),
	)
	cfg.Logging.Level = "error"

	configPath := filepath.Join(testsupport.BaseDir(cfg), "osubot.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, requests: &requests}
}

func fakeOsuHandler(requests *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			requests.Add(1)
		}
		switch r.URL.Path {
		case "/api/get_user":
			if r.URL.Query().Get("type") == "id" || strings.EqualFold(r.URL.Query().Get("u"), "cookiezi") {
				_, _ = w.Write([]byte(`[{
					"user_id": "124493", "username": "Cookiezi", "pp_rank": "1", "pp_raw": "12345.6",
					"accuracy": "98.9", "playcount": "5000",
					"events": [{"display_html": "<b>Cookiezi</b> achieved rank #1 on <a>xi - FREEDOM DiVE [FOUR DIMENSIONS]</a>",
						"beatmap_id": "129891", "beatmapset_id": "39804"}]
				}]`))
				return
			}
			_, _ = w.Write([]byte(`[]`))
		case "/api/get_beatmaps":
			_, _ = w.Write([]byte(`[{
				"beatmap_id": "129891", "beatmapset_id": "39804", "approved": "1",
				"approved_date": "2014-05-18 15:41:48", "artist": "xi", "title": "FREEDOM DiVE",
				"version": "FOUR DIMENSIONS", "creator": "Nakagawa-Kanon", "bpm": "222.22",
				"total_length": "267", "max_combo": "2385", "playcount": "9000000", "mode": "0",
				"diff_size": "4", "diff_approach": "9", "diff_overall": "8", "diff_drain": "5",
				"difficultyrating": "7.0749"
			}]`))
		case "/api/get_user_best":
			if r.URL.Query().Get("u") == "124493" {
				_, _ = w.Write([]byte(`[{
					"beatmap_id": "129891", "user_id": "124493", "score": "51000000", "maxcombo": "2385",
					"count300": "1980", "count100": "3", "count50": "0", "countmiss": "0", "perfect": "1",
					"enabled_mods": "72", "rank": "SH", "pp": "727.3"
				}]`))
				return
			}
			_, _ = w.Write([]byte(`[]`))
		case "/api/get_scores", "/api/get_user_recent":
			_, _ = w.Write([]byte(`[]`))
		case "/osu/129891":
			_, _ = w.Write([]byte(testsupport.MinimalChart))
		default:
			http.NotFound(w, r)
		}
	}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n%s", needle, haystack)
	}
}
