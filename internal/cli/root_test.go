package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/porenet/pkg/io"
)

func TestExecuteVersion(t *testing.T) {
	if err := Execute(context.Background(), []string{"--version"}); err != nil {
		t.Fatalf("--version: %v", err)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	if err := Execute(context.Background(), []string{"drain"}); err == nil {
		t.Error("unknown command should fail")
	}
}

func TestExecuteSweepWritesSeries(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "series.json")

	err := Execute(context.Background(), []string{
		"sweep", "--no-cache", "-q",
		"--steps", "5",
		"--variant", "star:10",
		"--variant", "random=uniform:30:40",
		"-o", out,
	})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	series, err := io.ImportSeriesJSON(out)
	if err != nil {
		t.Fatalf("read series: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	if series[1].Variant.Label() != "random" || len(series[1].Records) != 5 {
		t.Errorf("second series = %+v", series[1].Variant)
	}
}

func TestExecuteSweepRejectsBadOptions(t *testing.T) {
	tests := [][]string{
		{"sweep", "--no-cache", "--steps", "-1"},
		{"sweep", "--no-cache", "--variant", "uniform"},
		{"sweep", "--no-cache", "--mode", "drain"},
		{"sweep", "--no-cache", "-o", "out.xml", "-f", "xml"},
	}
	for _, args := range tests {
		if err := Execute(context.Background(), args); err == nil {
			t.Errorf("Execute(%v) should fail", args)
		}
	}
}

func TestExecuteRenderDOT(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "snap.dot")

	err := Execute(context.Background(), []string{
		"render", "--no-cache",
		"--steps", "5",
		"--variant", "star:10",
		"--level", "40",
		"-f", "dot",
		"-o", out,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "graph G {") {
		t.Errorf("unexpected DOT output: %.40q", data)
	}
}

func TestExecuteWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "porenet.toml")
	out := filepath.Join(dir, "series.csv")
	content := `
[sweep]
steps = 4

[[sweep.variants]]
kind = "complete"
nodes = 6
`
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Execute(context.Background(), []string{"sweep", "--config", cfg, "--no-cache", "-q", "-o", out})
	if err != nil {
		t.Fatalf("sweep with config: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	// header plus one row per step
	if lines := strings.Count(string(data), "\n"); lines != 5 {
		t.Errorf("csv has %d lines, want 5", lines)
	}

	if err := Execute(context.Background(), []string{"sweep", "--config", filepath.Join(dir, "missing.toml")}); err == nil {
		t.Error("missing config file should fail")
	}
}
