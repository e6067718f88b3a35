package compile

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/obstacle-studio/internal/compiler"
	"github.com/louisbranch/obstacle-studio/internal/location"
	"github.com/louisbranch/obstacle-studio/internal/obstacle"
	apperrors "github.com/louisbranch/obstacle-studio/internal/platform/errors"
	"github.com/louisbranch/obstacle-studio/internal/project"
	"github.com/louisbranch/obstacle-studio/internal/refdata"
)

func sampleProject(t *testing.T) *project.Project {
	t.Helper()
	p := project.New(obstacle.Waits)
	p.Number = 3
	for i := 0; i < 2; i++ {
		if _, err := p.AddLocation(location.Rect{X: float64(64 * i), Width: 2, Height: 2}); err != nil {
			t.Fatalf("add location: %v", err)
		}
	}
	if err := p.Obstacle.InsertCount(2); err != nil {
		t.Fatalf("insert count: %v", err)
	}
	p.Obstacle.PlaceExplosion(1, 1, 47, 1, location.Point{X: 32, Y: 32})
	p.Obstacle.PlaceExplosion(2, 1, 47, 2, location.Point{X: 32, Y: 32})
	return p
}

func writeProject(t *testing.T, p *project.Project) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ob.json")
	if err := p.Save(path); err != nil {
		t.Fatalf("save project: %v", err)
	}
	return path
}

func parse(t *testing.T, args ...string) Config {
	t.Helper()
	cfg, err := ParseConfig(flag.NewFlagSet("compile", flag.ContinueOnError), args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func TestParseConfigDefaults(t *testing.T) {
	cfg := parse(t, "ob.json")
	if cfg.Input != "ob.json" {
		t.Fatalf("input = %q, want ob.json", cfg.Input)
	}
	if cfg.Encoding != "utf-8" {
		t.Fatalf("encoding = %q, want utf-8", cfg.Encoding)
	}
	if cfg.Options != compiler.DefaultOptions() {
		t.Fatalf("options = %+v, want defaults", cfg.Options)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("OBSTACLE_STUDIO_ENCODING", "windows-1252")
	t.Setenv("OBSTACLE_STUDIO_TRIGGER_PLAYER", "Player 2")

	cfg := parse(t, "-in", "a.json", "-trigger-player", "Player 6", "-count", "2")
	if cfg.Encoding != "windows-1252" {
		t.Fatalf("encoding = %q, want windows-1252", cfg.Encoding)
	}
	if cfg.Options.TriggerPlayer != "Player 6" {
		t.Fatalf("trigger player = %q, want Player 6", cfg.Options.TriggerPlayer)
	}
	if cfg.Count != 2 {
		t.Fatalf("count = %d, want 2", cfg.Count)
	}
}

func TestRunMatchesProjectCompile(t *testing.T) {
	t.Parallel()

	p := sampleProject(t)
	want, err := p.Compile(refdata.Default())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	var out, errOut bytes.Buffer
	cfg := Config{Input: writeProject(t, p), Encoding: "utf-8"}
	if err := Run(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != want+"\n" {
		t.Fatalf("output differs from project compile:\n%s", got)
	}
	if !strings.Contains(errOut.String(), "compiled obstacle 3: 2 counts") {
		t.Fatalf("log = %q", errOut.String())
	}
}

func TestRunSingleCountAndOverrides(t *testing.T) {
	t.Parallel()

	p := sampleProject(t)
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-count", "2", "-number", "9", "-comments=false", writeProject(t, p)})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}

	var out bytes.Buffer
	if err := Run(context.Background(), cfg, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if strings.Contains(text, "Comment(") {
		t.Fatalf("comments were not disabled:\n%s", text)
	}
	if !strings.Contains(text, `Deaths("Player 8", "Cantina", Exactly, 9);`) {
		t.Fatalf("obstacle number override missing:\n%s", text)
	}
	if !strings.Contains(text, `Deaths("Player 8", "Cave", Exactly, 2);`) {
		t.Fatalf("count 2 condition missing:\n%s", text)
	}
	if strings.Contains(text, `Deaths("Player 8", "Cave", Exactly, 1);`) {
		t.Fatalf("count 1 was compiled:\n%s", text)
	}
}

func TestRunWritesEncodedFile(t *testing.T) {
	t.Parallel()

	p := sampleProject(t)
	p.Options.ObstacleText = "Obstacle é "
	outPath := filepath.Join(t.TempDir(), "triggers.txt")
	savePath := filepath.Join(t.TempDir(), "saved.json")
	cfg := Config{Input: writeProject(t, p), Out: outPath, Save: savePath, Encoding: "windows-1252"}
	if err := Run(context.Background(), cfg, nil, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Contains(data, []byte("Obstacle \xe9 ")) {
		t.Fatal("output is not windows-1252 encoded")
	}
	if _, err := project.Load(savePath); err != nil {
		t.Fatalf("load saved project: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	path := writeProject(t, sampleProject(t))
	tests := []struct {
		name string
		cfg  Config
		code apperrors.Code
	}{
		{name: "missing input", cfg: Config{}},
		{name: "unknown encoding", cfg: Config{Input: path, Encoding: "ebcdic"}},
		{name: "count out of range", cfg: Config{Input: path, Count: 7}, code: apperrors.CodeCountOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(context.Background(), tt.cfg, nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.code != "" && apperrors.GetCode(err) != tt.code {
				t.Fatalf("code = %s, want %s", apperrors.GetCode(err), tt.code)
			}
		})
	}
}
