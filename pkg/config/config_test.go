package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/porenet/pkg/errors"
)

const sample = `
[sweep]
depth = 50.0
steps = 25
mode = "detach"
seed = 7

[[sweep.variants]]
name = "random"
kind = "uniform"
nodes = 200
edges = 300

[[sweep.variants]]
kind = "star"
nodes = 20

[cache]
redis = "redis://localhost:6379/1"

[server]
addr = ":9000"
`

func TestDecode(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	p := cfg.Pipeline
	if p.Depth != 50 || p.Steps != 25 || p.Mode != "detach" || p.Seed != 7 {
		t.Errorf("pipeline options = %+v", p)
	}
	if len(p.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(p.Variants))
	}
	if v := p.Variants[0]; v.Label() != "random" || v.Nodes != 200 || v.Edges != 300 {
		t.Errorf("first variant = %+v", v)
	}
	if v := p.Variants[1]; v.Label() != "star" || v.Edges != 0 {
		t.Errorf("second variant = %+v", v)
	}
	if cfg.Cache.Redis != "redis://localhost:6379/1" {
		t.Errorf("Cache.Redis = %q", cfg.Cache.Redis)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.Database != DefaultDatabase {
		t.Errorf("unset Database should keep default, got %q", cfg.Server.Database)
	}
	if err := p.ValidateAndSetDefaults(); err != nil {
		t.Errorf("decoded options should validate: %v", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Pipeline.Steps != 0 || len(cfg.Pipeline.Variants) != 0 {
		t.Error("pipeline options should stay zero for later defaulting")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"syntax", "[sweep\nsteps = 1", "parse config"},
		{"unknown key", "[sweep]\nstep = 10", "sweep.step"},
		{"unknown section", "[plot]\ncolor = 'red'", "plot.color"},
		{"wrong type", "[sweep]\nsteps = 'many'", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "porenet.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.Steps != 25 {
		t.Errorf("Steps = %d, want 25", cfg.Pipeline.Steps)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}
