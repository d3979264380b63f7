package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/porenet/pkg/cache"
	"github.com/matzehuels/porenet/pkg/errors"
	porenetio "github.com/matzehuels/porenet/pkg/io"
	"github.com/matzehuels/porenet/pkg/soil"
	"github.com/matzehuels/porenet/pkg/sweep"
)

func smallOptions() Options {
	return Options{
		Steps:           10,
		SurfaceFraction: Fraction(0.1),
		Variants: []sweep.Variant{
			{Kind: "star", Nodes: 10},
			{Name: "random", Kind: "uniform", Nodes: 50, Edges: 60},
		},
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Empty options should validate: %v", err)
	}

	if opts.Depth != soil.DefaultDepth {
		t.Errorf("Depth should be %g, got %g", soil.DefaultDepth, opts.Depth)
	}
	if opts.SurfaceFraction == nil || *opts.SurfaceFraction != soil.DefaultSurfaceFraction {
		t.Errorf("SurfaceFraction should default to %g, got %v", soil.DefaultSurfaceFraction, opts.SurfaceFraction)
	}
	if opts.Steps != DefaultSteps {
		t.Errorf("Steps should be %d, got %d", DefaultSteps, opts.Steps)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
	if opts.Mode != "remove" {
		t.Errorf("Mode should be remove, got %q", opts.Mode)
	}
	if len(opts.Variants) != 2 || opts.Variants[0].Kind != "uniform" || opts.Variants[1].Kind != "preferential" {
		t.Errorf("Variants should be uniform + preferential, got %+v", opts.Variants)
	}
	for _, v := range opts.Variants {
		if v.Nodes != DefaultNodes || v.Edges != DefaultEdges {
			t.Errorf("variant %s = %d nodes, %d edges; want %d, %d", v.Label(), v.Nodes, v.Edges, DefaultNodes, DefaultEdges)
		}
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestVariantDefaults(t *testing.T) {
	opts := Options{Variants: []sweep.Variant{{Nodes: 40}, {Kind: "star"}}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	if v := opts.Variants[0]; v.Kind != "uniform" || v.Edges != 40 {
		t.Errorf("variant without kind = %+v; want uniform with 40 edges", v)
	}
	if v := opts.Variants[1]; v.Nodes != DefaultNodes || v.Edges != 0 {
		t.Errorf("star variant = %+v; want default nodes and no edges", v)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		code   errors.Code
	}{
		{"negative steps", func(o *Options) { o.Steps = -1 }, errors.ErrCodeInvalidConfig},
		{"negative depth", func(o *Options) { o.Depth = -5 }, errors.ErrCodeInvalidConfig},
		{"surface fraction too large", func(o *Options) { o.SurfaceFraction = Fraction(1.5) }, errors.ErrCodeInvalidConfig},
		{"negative workers", func(o *Options) { o.Workers = -2 }, errors.ErrCodeInvalidConfig},
		{"unknown mode", func(o *Options) { o.Mode = "drain" }, errors.ErrCodeInvalidConfig},
		{"unknown kind", func(o *Options) { o.Variants[0].Kind = "lattice" }, errors.ErrCodeInvalidVariant},
		{"too many edges", func(o *Options) { o.Variants[1].Edges = 5000 }, errors.ErrCodeInvalidVariant},
		{"bad name", func(o *Options) { o.Variants[1].Name = "a/b" }, errors.ErrCodeInvalidVariant},
		{"duplicate label", func(o *Options) { o.Variants[1].Name = "star" }, errors.ErrCodeInvalidVariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := smallOptions()
			tt.modify(&opts)
			err := opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := smallOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	hash := opts.Hash()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Hash() != hash {
		t.Error("options changed on second call")
	}
}

func TestCheckLimits(t *testing.T) {
	opts := smallOptions()
	if err := opts.CheckLimits(); err != nil {
		t.Errorf("small options should be within limits: %v", err)
	}

	opts.Steps = MaxSteps + 1
	if err := opts.CheckLimits(); err == nil {
		t.Error("too many steps should fail")
	}

	opts = smallOptions()
	opts.Variants[0].Nodes = MaxNodes + 1
	if err := opts.CheckLimits(); !errors.Is(err, errors.ErrCodeInvalidVariant) {
		t.Errorf("too many nodes should be an invalid variant: %v", err)
	}

	opts = smallOptions()
	opts.Variants = make([]sweep.Variant, MaxVariants+1)
	if err := opts.CheckLimits(); err == nil {
		t.Error("too many variants should fail")
	}
}

func TestCheckLimitsChannels(t *testing.T) {
	tests := []struct {
		name    string
		variant sweep.Variant
		ok      bool
	}{
		{"complete within limit", sweep.Variant{Kind: "complete", Nodes: 2000}, true},
		{"complete at max nodes", sweep.Variant{Kind: "complete", Nodes: MaxNodes}, false},
		{"uniform huge edges", sweep.Variant{Kind: "uniform", Nodes: MaxNodes, Edges: 15_000_000_000}, false},
		{"preferential huge edges", sweep.Variant{Kind: "preferential", Nodes: MaxNodes, Edges: MaxChannels + 1}, false},
		{"uniform at limit", sweep.Variant{Kind: "uniform", Nodes: MaxNodes, Edges: MaxChannels}, true},
		{"star at max nodes", sweep.Variant{Kind: "star", Nodes: MaxNodes}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := smallOptions()
			opts.Variants = []sweep.Variant{tt.variant}
			err := opts.CheckLimits()
			if tt.ok && err != nil {
				t.Errorf("CheckLimits: %v", err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidVariant) {
				t.Errorf("CheckLimits = %v, want %s", err, errors.ErrCodeInvalidVariant)
			}
		})
	}
}

func TestSurfaceFractionExplicitZero(t *testing.T) {
	var opts Options
	if err := json.Unmarshal([]byte(`{"surface_fraction": 0}`), &opts); err != nil {
		t.Fatal(err)
	}
	opts.SetDefaults()
	if opts.SurfaceFraction == nil || *opts.SurfaceFraction != 0 {
		t.Fatalf("SurfaceFraction = %v, want explicit 0", opts.SurfaceFraction)
	}
	if got := opts.Profile().SurfaceThreshold(); got != 0 {
		t.Errorf("SurfaceThreshold = %g, want 0", got)
	}

	var unset Options
	unset.SetDefaults()
	if unset.Hash() == opts.Hash() {
		t.Error("explicit 0 and default surface fraction must hash differently")
	}
}

func TestOptionsHash(t *testing.T) {
	base := smallOptions()
	base.SetDefaults()

	same := base
	same.Workers = 8
	same.Refresh = true
	if base.Hash() != same.Hash() {
		t.Error("execution options must not change the hash")
	}

	reseeded := base
	reseeded.Seed = 7
	if base.Hash() == reseeded.Hash() {
		t.Error("seed must change the hash")
	}

	detached := base
	detached.Mode = "detach"
	if base.Hash() == detached.Hash() {
		t.Error("mode must change the hash")
	}
}

func TestFindVariant(t *testing.T) {
	opts := smallOptions()

	idx, v, err := opts.FindVariant("")
	if err != nil || idx != 0 || v.Kind != "star" {
		t.Errorf("FindVariant(\"\") = %d, %+v, %v", idx, v, err)
	}
	idx, v, err = opts.FindVariant("random")
	if err != nil || idx != 1 || v.Nodes != 50 {
		t.Errorf("FindVariant(random) = %d, %+v, %v", idx, v, err)
	}
	if _, _, err := opts.FindVariant("missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("FindVariant(missing) error = %v", err)
	}
}

func TestRunnerExecuteCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	first, err := r.Execute(ctx, smallOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.Hit {
		t.Error("first run should miss the cache")
	}
	if len(first.Series) != 2 || first.Stats.Variants != 2 {
		t.Fatalf("expected 2 series, got %d", len(first.Series))
	}
	if first.Stats.Pores != 60 {
		t.Errorf("Stats.Pores = %d, want 60", first.Stats.Pores)
	}
	for _, s := range first.Series {
		if len(s.Records) != 10 {
			t.Errorf("variant %s has %d records, want 10", s.Variant.Label(), len(s.Records))
		}
	}

	second, err := r.Execute(ctx, smallOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.Hit {
		t.Error("second run should hit the cache")
	}
	if second.ID == first.ID {
		t.Error("every run should get a fresh ID")
	}
	for i := range first.Series {
		if first.Series[i].Final() != second.Series[i].Final() {
			t.Errorf("cached series %d differs", i)
		}
	}

	opts := smallOptions()
	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.Hit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerExecuteInvalid(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := smallOptions()
	opts.Steps = -3

	_, err := r.Execute(context.Background(), opts)
	if !errors.IsInvalid(err) {
		t.Errorf("Execute with bad options = %v, want INVALID_* code", err)
	}
}

func TestRunnerExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil, nil).Execute(ctx, smallOptions())
	if !errors.Is(err, errors.ErrCodeCancelled) {
		t.Errorf("cancelled Execute = %v, want %s", err, errors.ErrCodeCancelled)
	}
}

func TestResultSummary(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), smallOptions())
	if err != nil {
		t.Fatal(err)
	}
	s := res.Summary()
	if s.ID != res.ID || s.Steps != 10 || s.Seed != DefaultSeed {
		t.Errorf("Summary() = %+v", s)
	}
	if strings.Join(s.Variants, ",") != "star,random" {
		t.Errorf("Summary().Variants = %v", s.Variants)
	}
	if err := errors.ValidateRunID(res.ID); err != nil {
		t.Errorf("run ID %q should be a canonical UUID: %v", res.ID, err)
	}
}

func TestSnapshot(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	before, err := r.Snapshot(ctx, smallOptions(), "random", 100)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(before.Records) != 0 || before.Network.PoreCount() != 50 {
		t.Errorf("level at the soil bottom should flood nothing: %d records, %d pores",
			len(before.Records), before.Network.PoreCount())
	}
	if before.Seed != DefaultSeed+1 {
		t.Errorf("second variant should use seed %d, got %d", DefaultSeed+1, before.Seed)
	}

	after, err := r.Snapshot(ctx, smallOptions(), "random", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Records) != 10 {
		t.Errorf("level 0 should apply every step, got %d", len(after.Records))
	}
	if after.Network.PoreCount() != len(after.Surface) {
		t.Errorf("only surface pores survive level 0: %d pores, %d surface",
			after.Network.PoreCount(), len(after.Surface))
	}

	res, err := r.Execute(ctx, smallOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Series[1].Final() != after.Records[len(after.Records)-1] {
		t.Error("snapshot replay should match the full run")
	}

	if _, err := r.Snapshot(ctx, smallOptions(), "random", -1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative level error = %v", err)
	}
}

func TestRenderDOTAndJSON(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	ro := RenderOptions{Variant: "star", Level: 50, Formats: []string{FormatDOT, FormatJSON}}

	artifacts, hit, err := r.RenderWithCacheInfo(ctx, smallOptions(), ro)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if hit {
		t.Error("first render should miss the cache")
	}
	if !strings.HasPrefix(string(artifacts[FormatDOT]), "graph G {") {
		t.Errorf("dot artifact = %.40q", artifacts[FormatDOT])
	}
	net, err := porenetio.ReadNetworkJSON(bytes.NewReader(artifacts[FormatJSON]))
	if err != nil {
		t.Fatalf("json artifact should be a network snapshot: %v", err)
	}
	if net.PoreCount() > 10 {
		t.Errorf("snapshot has %d pores, want at most 10", net.PoreCount())
	}

	again, hit, err := r.RenderWithCacheInfo(ctx, smallOptions(), ro)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second render should hit the cache")
	}
	if !bytes.Equal(again[FormatDOT], artifacts[FormatDOT]) {
		t.Error("cached dot artifact differs")
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Render(context.Background(), smallOptions(), RenderOptions{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}

func TestArtifactFormat(t *testing.T) {
	tests := []struct {
		format string
		ro     RenderOptions
		want   string
	}{
		{FormatSVG, RenderOptions{}, "svg"},
		{FormatSVG, RenderOptions{Detailed: true}, "svg+detailed"},
		{FormatDOT, RenderOptions{Compact: true, Detailed: true}, "dot+compact"},
		{FormatJSON, RenderOptions{Compact: true}, "json"},
	}
	for _, tt := range tests {
		if got := artifactFormat(tt.format, tt.ro); got != tt.want {
			t.Errorf("artifactFormat(%s, %+v) = %q, want %q", tt.format, tt.ro, got, tt.want)
		}
	}
}
