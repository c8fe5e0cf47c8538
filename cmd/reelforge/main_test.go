package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reelforge/internal/config"
	"reelforge/internal/services"
	"reelforge/internal/store"
	"reelforge/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	cfg.Logging.Level = "error"

	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func (env *cliTestEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSRTCommandFromStdin(t *testing.T) {
	env := setupCLITestEnv(t)
	input := `{"text":"hi there","segments":[{"id":0,"start":0,"end":1,"text":"hi there","words":[{"text":"hi","start":0,"end":0.4},{"text":"there","start":0.5,"end":1}]}]}`

	out, err := env.run(t, input, "srt", "-")
	if err != nil {
		t.Fatalf("srt: %v", err)
	}
	if !strings.Contains(out, "00:00:00,500 --> 00:00:01,000\nthere") {
		t.Fatalf("missing word cue in output:\n%s", out)
	}
	if !strings.Contains(out, "3\n00:00:01,000 --> 00:00:01,300\nend") {
		t.Fatalf("missing terminal cue in output:\n%s", out)
	}
}

func TestSRTCommandRejectsBadJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := env.run(t, "{not json", "srt", "-")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if exitCode(err) != 2 {
		t.Fatalf("expected exit code 2, got %d", exitCode(err))
	}
}

func TestCatalogModelsPrintsTSV(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := env.run(t, "", "catalog", "models")
	if err != nil {
		t.Fatalf("catalog models: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "ID\tKey\tEngine\tDescription" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[5], "4\tturbo\tlarge-v3-turbo") {
		t.Fatalf("unexpected turbo row %q", lines[5])
	}
}

func TestCatalogVoicesFiltersByLanguage(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := env.run(t, "", "catalog", "voices", "--lang", "it")
	if err != nil {
		t.Fatalf("catalog voices: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n")[1:] {
		if fields := strings.Split(line, "\t"); fields[3] != "i" {
			t.Fatalf("unexpected voice row %q", line)
		}
	}
	if _, err := env.run(t, "", "catalog", "voices", "--lang", "xx"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown language, got %v", err)
	}
}

func TestReelListAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "", "reel", "list")
	if err != nil {
		t.Fatalf("reel list: %v", err)
	}
	if !strings.Contains(out, "No reels") {
		t.Fatalf("expected empty list, got %q", out)
	}

	st, err := store.OpenPath(env.cfg.Paths.DatabasePath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	reel, err := st.Create(context.Background(), store.NewReel{Title: "Sunset", Author: "ana", MovieKey: "movies/sunset.mp4"})
	if err != nil {
		t.Fatalf("create reel: %v", err)
	}
	_ = st.Close()

	out, err = env.run(t, "", "reel", "list", "--json")
	if err != nil {
		t.Fatalf("reel list --json: %v", err)
	}
	var views []reelView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode list: %v\n%s", err, out)
	}
	if len(views) != 1 || views[0].Title != "Sunset" || views[0].Status != "pending" {
		t.Fatalf("unexpected list: %#v", views)
	}

	out, err = env.run(t, "", "reel", "show", "1")
	if err != nil {
		t.Fatalf("reel show: %v", err)
	}
	if !strings.Contains(out, "Reel 1: Sunset") || !strings.Contains(out, "movies/sunset.mp4") {
		t.Fatalf("unexpected show output:\n%s", out)
	}
	if reel.ID != 1 {
		t.Fatalf("unexpected reel id %d", reel.ID)
	}

	_, err = env.run(t, "", "reel", "show", "99")
	if !errors.Is(err, services.ErrNotFound) || exitCode(err) != 3 {
		t.Fatalf("expected not found with exit code 3, got %v", err)
	}
	_, err = env.run(t, "", "reel", "show", "abc")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bad id, got %v", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "fresh", "config.toml")

	out, err := env.run(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected path in output, got %q", out)
	}
	if _, err := env.run(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}

	out, err = env.run(t, "", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "# Config path: "+env.configPath) || !strings.Contains(out, "[render]") {
		t.Fatalf("unexpected config show output:\n%s", out)
	}
}

func TestStatusReportsSections(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := env.run(t, "", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"== Dependencies ==", "== Paths ==", "== Reels ==", "Work directory:", "Pending:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestCleanRemovesStaleScratch(t *testing.T) {
	env := setupCLITestEnv(t)
	workDir := env.cfg.Paths.WorkDir
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}
	stale := filepath.Join(workDir, "render-movie-1.mp4")
	fresh := filepath.Join(workDir, "render-music-2.mp3")
	for _, path := range []string{stale, fresh} {
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	out, err := env.run(t, "", "clean", "--older-than", "1h")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !strings.Contains(out, "Removed 1 scratch entries") {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale file should be gone, stat err=%v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh file should remain: %v", err)
	}

	out, err = env.run(t, "", "clean", "--list")
	if err != nil {
		t.Fatalf("clean --list: %v", err)
	}
	if !strings.Contains(out, "render-music-2.mp3") {
		t.Fatalf("list output missing fresh file: %q", out)
	}
}

func TestRenderRequiresMovie(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := env.run(t, "", "render"); err == nil {
		t.Fatal("expected missing --movie to fail")
	}
}

func TestRenderTSVAndTable(t *testing.T) {
	tsv := renderTSV([]string{"A", "B"}, [][]string{{"1", "x"}, {"2", "y"}})
	if tsv != "A\tB\n1\tx\n2\ty\n" {
		t.Fatalf("unexpected tsv %q", tsv)
	}
	table := renderTable([]string{"A", "B"}, [][]string{{"1"}}, []columnAlignment{alignRight})
	if !strings.Contains(table, "╭") || !strings.Contains(table, "│ A │ B │") {
		t.Fatalf("unexpected table:\n%s", table)
	}
}
