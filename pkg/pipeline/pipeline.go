// Package pipeline runs complete porenet experiments.
//
// This package implements the prepare → sweep → export flow shared by the
// CLI and the HTTP API. By centralizing option defaults, validation and
// result caching here, both entry points behave identically.
//
// # Architecture
//
// A run consists of one sweep per variant:
//
//  1. Prepare: Generate the variant's topology and draw pore depths
//  2. Sweep: Lower the water table level by level, recording air filling
//  3. Cache: Store the series under a hash of the normalized options
//
// A second entry point, [Runner.Render], replays one variant up to a chosen
// water table level and draws the network at that moment.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Steps:    50,
//	    Variants: []sweep.Variant{{Kind: "uniform", Nodes: 500, Edges: 750}},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	final := result.Series[0].Final()
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/porenet/pkg/cache"
	"github.com/matzehuels/porenet/pkg/errors"
	"github.com/matzehuels/porenet/pkg/infiltration"
	"github.com/matzehuels/porenet/pkg/network/generate"
	"github.com/matzehuels/porenet/pkg/soil"
	"github.com/matzehuels/porenet/pkg/sweep"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSteps is the number of water table levels per sweep.
	DefaultSteps = 100

	// DefaultNodes is the pore count of the default variants.
	DefaultNodes = 1000

	// DefaultEdges is the channel count of the default variants.
	DefaultEdges = 1000

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultWorkers runs variants one after another.
	DefaultWorkers = 1
)

// Upper bounds on a single run. The API enforces these; the CLI only warns.
const (
	MaxNodes    = 200_000
	MaxChannels = 2_000_000
	MaxSteps    = 10_000
	MaxVariants = 16
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// SeriesFormats are the formats a sweep result can be exported to.
var SeriesFormats = []string{FormatJSON, FormatCSV}

// SnapshotFormats are the formats a network snapshot can be rendered to.
// FormatJSON here is the network snapshot document, not the series.
var SnapshotFormats = []string{FormatDOT, FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// DefaultVariants returns the uniform and preferential-attachment variants
// at the default size.
func DefaultVariants() []sweep.Variant {
	return []sweep.Variant{
		{Name: generate.KindUniform, Kind: generate.KindUniform, Nodes: DefaultNodes, Edges: DefaultEdges},
		{Name: generate.KindPreferential, Kind: generate.KindPreferential, Nodes: DefaultNodes, Edges: DefaultEdges},
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one run.
// This struct supports JSON serialization for API requests and TOML for
// config files.
type Options struct {
	// Soil options
	Depth           float64 `json:"depth,omitempty" toml:"depth"`
	// SurfaceFraction is nil when unset. An explicit 0 keeps only pores at
	// depth exactly 0 at the surface.
	SurfaceFraction *float64 `json:"surface_fraction,omitempty" toml:"surface_fraction"`

	// Sweep options
	Steps    int             `json:"steps,omitempty" toml:"steps"`
	Mode     string          `json:"mode,omitempty" toml:"mode"`
	Seed     uint64          `json:"seed,omitempty" toml:"seed"`
	Variants []sweep.Variant `json:"variants,omitempty" toml:"variants"`

	// Execution options (not part of the cache key)
	Workers int  `json:"workers,omitempty" toml:"workers"`
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger   *log.Logger                          `json:"-" toml:"-"`
	Progress func(variant string, r sweep.Record) `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID uniquely identifies this run.
	ID string `json:"id"`

	// CreatedAt is when the run finished.
	CreatedAt time.Time `json:"created_at"`

	// Options are the normalized options the run used.
	Options Options `json:"options"`

	// Series holds one time series per variant, in variant order.
	Series []*sweep.Series `json:"series"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks whether the series came from the cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Variants  int           `json:"variants"`
	Steps     int           `json:"steps"`
	Pores     int           `json:"pores"`
	SweepTime time.Duration `json:"sweep_time"`
}

// CacheInfo records the cache key used and whether it hit.
type CacheInfo struct {
	Key string `json:"key"`
	Hit bool   `json:"hit"`
}

// Summary is the short form of a result used in listings.
type Summary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Variants  []string  `json:"variants"`
	Steps     int       `json:"steps"`
	Seed      uint64    `json:"seed"`
}

// Summary returns the listing form of r.
func (r *Result) Summary() Summary {
	s := Summary{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Steps:     r.Options.Steps,
		Seed:      r.Options.Seed,
	}
	for _, v := range r.Options.Variants {
		s.Variants = append(s.Variants, v.Label())
	}
	return s
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero-valued fields. A variant without Edges gets as many
// channels as pores, the ratio of the default variants.
func (o *Options) SetDefaults() {
	if o.Depth == 0 {
		o.Depth = soil.DefaultDepth
	}
	if o.SurfaceFraction == nil {
		o.SurfaceFraction = Fraction(soil.DefaultSurfaceFraction)
	}
	if o.Steps == 0 {
		o.Steps = DefaultSteps
	}
	if o.Mode == "" {
		o.Mode = infiltration.RemovePores.String()
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if len(o.Variants) == 0 {
		o.Variants = DefaultVariants()
	}
	for i := range o.Variants {
		v := &o.Variants[i]
		if v.Kind == "" {
			v.Kind = generate.KindUniform
		}
		if v.Nodes == 0 {
			v.Nodes = DefaultNodes
		}
		if v.Edges == 0 && needsEdges(v.Kind) {
			v.Edges = v.Nodes
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks option values without changing them.
func (o *Options) Validate() error {
	if err := o.Profile().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "soil profile")
	}
	if o.Steps < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "steps must be positive, got %d", o.Steps)
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative, got %d", o.Workers)
	}
	if _, err := infiltration.ParseMode(o.Mode); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "mode")
	}
	if len(o.Variants) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one variant is required")
	}

	seen := make(map[string]bool, len(o.Variants))
	for i, v := range o.Variants {
		if v.Name != "" {
			if err := errors.ValidateVariantName(v.Name); err != nil {
				return err
			}
		}
		label := v.Label()
		if seen[label] {
			return errors.New(errors.ErrCodeInvalidVariant, "duplicate variant %q (set distinct names)", label)
		}
		seen[label] = true

		if err := generate.CheckKind(v.Kind, v.Nodes, v.Edges); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidVariant, err, "variant %d (%s)", i, label)
		}
	}
	return nil
}

// CheckLimits rejects runs larger than the package limits.
func (o *Options) CheckLimits() error {
	if o.Steps > MaxSteps {
		return errors.New(errors.ErrCodeInvalidConfig, "steps %d exceeds limit %d", o.Steps, MaxSteps)
	}
	if len(o.Variants) > MaxVariants {
		return errors.New(errors.ErrCodeInvalidConfig, "%d variants exceed limit %d", len(o.Variants), MaxVariants)
	}
	for _, v := range o.Variants {
		if v.Nodes > MaxNodes {
			return errors.New(errors.ErrCodeInvalidVariant, "variant %s: %d nodes exceed limit %d", v.Label(), v.Nodes, MaxNodes)
		}
		if c := channelCount(v); c > MaxChannels {
			return errors.New(errors.ErrCodeInvalidVariant, "variant %s: %d channels exceed limit %d", v.Label(), c, MaxChannels)
		}
	}
	return nil
}

// channelCount is the number of channels a variant asks for. Preferential
// attachment adds about Edges channels; star and unknown kinds stay below
// Nodes.
func channelCount(v sweep.Variant) int64 {
	n := int64(v.Nodes)
	switch v.Kind {
	case generate.KindComplete:
		return n * (n - 1) / 2
	case generate.KindUniform, generate.KindPreferential:
		return int64(v.Edges)
	}
	return n
}

// Profile returns the soil profile described by the options.
func (o *Options) Profile() soil.Profile {
	return soil.Profile{Depth: o.Depth, SurfaceFraction: o.surfaceFraction()}
}

func (o *Options) surfaceFraction() float64 {
	if o.SurfaceFraction == nil {
		return soil.DefaultSurfaceFraction
	}
	return *o.SurfaceFraction
}

// Fraction returns a pointer to f, for setting Options.SurfaceFraction.
func Fraction(f float64) *float64 {
	return &f
}

// RemovalMode returns the parsed removal mode. Invalid modes fall back to
// removing pores; Validate reports them.
func (o *Options) RemovalMode() infiltration.Mode {
	m, _ := infiltration.ParseMode(o.Mode)
	return m
}

// SweepConfig returns the sweep configuration for these options.
func (o *Options) SweepConfig() sweep.Config {
	return sweep.Config{
		Profile:  o.Profile(),
		Steps:    o.Steps,
		Mode:     o.RemovalMode(),
		Seed:     o.Seed,
		Workers:  o.Workers,
		Progress: o.Progress,
		Logger:   o.Logger,
	}
}

// FindVariant returns the index and variant with the given label. An empty
// label selects the first variant.
func (o *Options) FindVariant(label string) (int, sweep.Variant, error) {
	if len(o.Variants) == 0 {
		return 0, sweep.Variant{}, errors.New(errors.ErrCodeInvalidConfig, "no variants configured")
	}
	if label == "" {
		return 0, o.Variants[0], nil
	}
	for i, v := range o.Variants {
		if v.Label() == label {
			return i, v, nil
		}
	}
	return 0, sweep.Variant{}, errors.New(errors.ErrCodeNotFound, "variant %q not configured", label)
}

// cacheKeyOpts is the subset of options that determines a run's output.
type cacheKeyOpts struct {
	Depth           float64         `json:"depth"`
	SurfaceFraction float64         `json:"surface_fraction"`
	Steps           int             `json:"steps"`
	Mode            string          `json:"mode"`
	Seed            uint64          `json:"seed"`
	Variants        []sweep.Variant `json:"variants"`
}

// Hash returns a content hash of the options that affect results. Workers
// and Refresh are excluded: they never change the output.
func (o *Options) Hash() string {
	h, err := cache.HashJSON(cacheKeyOpts{
		Depth:           o.Depth,
		SurfaceFraction: o.surfaceFraction(),
		Steps:           o.Steps,
		Mode:            o.Mode,
		Seed:            o.Seed,
		Variants:        o.Variants,
	})
	if err != nil {
		// Plain numbers and strings always encode.
		panic(fmt.Sprintf("pipeline: hash options: %v", err))
	}
	return h
}

func needsEdges(kind string) bool {
	return kind == generate.KindUniform || kind == generate.KindPreferential
}
