// Package sweep drives a water table across a pore network and records the
// air-filled fraction after every step.
//
// # Overview
//
// A sweep prepares a network (generate topology, draw pore depths, pick
// surface pores) and then walks a fixed list of water table levels from the
// bottom of the soil toward the surface. At each level it removes the
// waterlogged pores and recomputes air filling from scratch, appending one
// [Record] to the variant's [Series].
//
// # Determinism
//
// Each variant draws from its own PCG generator seeded with the base seed plus
// the variant's index, so [RunAll] returns the same series whatever the worker
// count.
package sweep

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/porenet/pkg/infiltration"
	"github.com/matzehuels/porenet/pkg/network"
	"github.com/matzehuels/porenet/pkg/network/generate"
	"github.com/matzehuels/porenet/pkg/observability"
	"github.com/matzehuels/porenet/pkg/soil"
)

// Variant names one graph topology to sweep.
type Variant struct {
	Name  string `json:"name" toml:"name"`
	Kind  string `json:"kind" toml:"kind"`
	Nodes int    `json:"nodes" toml:"nodes"`
	Edges int    `json:"edges,omitempty" toml:"edges"`
}

// Label returns Name, or Kind when Name is empty.
func (v Variant) Label() string {
	if v.Name != "" {
		return v.Name
	}
	return v.Kind
}

// Record is the state of a network after one water table step.
type Record struct {
	Step      int     `json:"step"`
	Level     float64 `json:"level"`
	StepSize  float64 `json:"step_size"`
	AirFilled int     `json:"air_filled"`
	Present   int     `json:"present"`
	Total     int     `json:"total"`
	Removed   int     `json:"removed"`
	Channels  int     `json:"channels"`

	// Fraction is AirFilled over the pores still present.
	Fraction float64 `json:"fraction"`
	// TotalFraction is AirFilled over the pores the network started with.
	TotalFraction float64 `json:"total_fraction"`
}

// Series is the ordered, append-only record list of one variant.
type Series struct {
	Variant Variant       `json:"variant"`
	Seed    uint64        `json:"seed"`
	Surface int           `json:"surface"`
	Records []Record      `json:"records"`
	Elapsed time.Duration `json:"elapsed"`
}

// Final returns the last record, or the zero Record for an empty series.
func (s *Series) Final() Record {
	if len(s.Records) == 0 {
		return Record{}
	}
	return s.Records[len(s.Records)-1]
}

// Config holds the parameters shared by every variant of a run.
type Config struct {
	Profile soil.Profile
	Steps   int
	Mode    infiltration.Mode
	Seed    uint64

	// Workers bounds how many variants run at once. Values below 1 mean 1.
	Workers int

	// Progress, if set, is called after every step. With Workers > 1 it is
	// called from several goroutines.
	Progress func(variant string, r Record)

	Logger *log.Logger
}

func (c Config) logger() *log.Logger {
	if c.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return c.Logger
}

// Plan is the water table schedule of a sweep.
type Plan struct {
	Levels   []float64
	StepSize float64
	Mode     infiltration.Mode
}

// NewPlan returns steps levels k*dt for k = steps-1 down to 0, with
// dt = depth/steps. The first level is one step above the soil bottom and the
// last is the surface.
func NewPlan(depth float64, steps int, mode infiltration.Mode) (Plan, error) {
	if steps < 1 {
		return Plan{}, fmt.Errorf("steps=%d: must be at least 1", steps)
	}
	if !(depth > 0) {
		return Plan{}, fmt.Errorf("depth=%g: %w", depth, soil.ErrInvalidDepth)
	}
	dt := depth / float64(steps)
	levels := make([]float64, steps)
	for i := range steps {
		levels[i] = float64(steps-1-i) * dt
	}
	return Plan{Levels: levels, StepSize: dt, Mode: mode}, nil
}

// Prepare builds the variant's network with a generator seeded by seed,
// assigns pore depths from the same stream and returns the surface pores.
func Prepare(v Variant, seed uint64, profile soil.Profile) (*network.Network, []string, error) {
	cons, err := generate.ForKind(v.Kind, v.Nodes, v.Edges)
	if err != nil {
		return nil, nil, err
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	net, err := generate.Build(cons, generate.WithRand(rng))
	if err != nil {
		return nil, nil, err
	}
	net.Meta()["kind"] = v.Kind
	net.Meta()["seed"] = seed

	soil.InitializeDepths(net, rng, profile.Depth)
	return net, soil.SurfacePores(net, profile.SurfaceThreshold()), nil
}

// Sweep walks the plan's levels over net, removing waterlogged pores and
// recomputing air filling at each one. net is consumed: pores removed here
// are never restored. The context is checked between steps.
func Sweep(ctx context.Context, net *network.Network, surface []string, plan Plan, onStep func(Record)) ([]Record, error) {
	total := net.PoreCount()
	records := make([]Record, 0, len(plan.Levels))
	for i, level := range plan.Levels {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		removed, err := infiltration.RemoveWaterlogged(net, level, surface, plan.Mode)
		if err != nil {
			return records, fmt.Errorf("step %d: %w", i, err)
		}
		air := infiltration.FillWithAir(net, surface)

		r := Record{
			Step:          i,
			Level:         level,
			StepSize:      plan.StepSize,
			AirFilled:     len(air),
			Present:       net.PoreCount(),
			Total:         total,
			Removed:       len(removed),
			Channels:      net.ChannelCount(),
			Fraction:      ratio(len(air), net.PoreCount()),
			TotalFraction: ratio(len(air), total),
		}
		records = append(records, r)
		if onStep != nil {
			onStep(r)
		}
	}
	return records, nil
}

// Run prepares and sweeps a single variant.
func Run(ctx context.Context, v Variant, seed uint64, cfg Config) (*Series, error) {
	logger := cfg.logger().With("variant", v.Label())
	if err := cfg.Profile.Validate(); err != nil {
		return nil, err
	}
	plan, err := NewPlan(cfg.Profile.Depth, cfg.Steps, cfg.Mode)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Sweep().OnSweepStart(ctx, v.Label(), v.Nodes)

	net, surface, err := Prepare(v, seed, cfg.Profile)
	if err != nil {
		observability.Sweep().OnSweepComplete(ctx, v.Label(), 0, time.Since(start), err)
		return nil, fmt.Errorf("prepare %s: %w", v.Label(), err)
	}
	logger.Debug("prepared network",
		"pores", net.PoreCount(),
		"channels", net.ChannelCount(),
		"surface", len(surface))
	if len(surface) == 0 {
		logger.Warn("no surface pores; every step will report zero air",
			"threshold", cfg.Profile.SurfaceThreshold())
	}

	records, err := Sweep(ctx, net, surface, plan, func(r Record) {
		observability.Sweep().OnStep(ctx, v.Label(), r.Level, r.Fraction)
		if cfg.Progress != nil {
			cfg.Progress(v.Label(), r)
		}
	})
	elapsed := time.Since(start)
	observability.Sweep().OnSweepComplete(ctx, v.Label(), len(records), elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", v.Label(), err)
	}

	s := &Series{
		Variant: v,
		Seed:    seed,
		Surface: len(surface),
		Records: records,
		Elapsed: elapsed,
	}
	logger.Debug("sweep complete",
		"steps", len(records),
		"final_fraction", s.Final().Fraction,
		"duration", elapsed.Round(time.Millisecond))
	return s, nil
}

// RunAll sweeps every variant, variant i seeded with cfg.Seed+i. Results are
// returned in variant order. The first failure cancels the remaining work.
func RunAll(ctx context.Context, variants []Variant, cfg Config) ([]*Series, error) {
	out := make([]*Series, len(variants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))
	for i, v := range variants {
		g.Go(func() error {
			s, err := Run(gctx, v, cfg.Seed+uint64(i), cfg)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
