package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/porenet/pkg/cache"
	"github.com/matzehuels/porenet/pkg/errors"
	"github.com/matzehuels/porenet/pkg/infiltration"
	porenetio "github.com/matzehuels/porenet/pkg/io"
	"github.com/matzehuels/porenet/pkg/network"
	"github.com/matzehuels/porenet/pkg/observability"
	"github.com/matzehuels/porenet/pkg/render"
	"github.com/matzehuels/porenet/pkg/render/nodelink"
	"github.com/matzehuels/porenet/pkg/sweep"
)

// Snapshot is one variant's network after the water table has been lowered
// to a given level.
type Snapshot struct {
	Variant sweep.Variant
	Seed    uint64
	Level   float64
	Network *network.Network
	Surface []string
	Records []sweep.Record
}

// RenderOptions selects which snapshot Runner.Render draws and how.
type RenderOptions struct {
	// Variant is the label of the variant to draw. Empty selects the first.
	Variant string

	// Level is the water table level to sweep down to. Every scheduled level
	// at or above it is applied; a level above the first scheduled one
	// draws the network before any pore floods.
	Level float64

	Formats  []string
	Detailed bool
	Compact  bool
}

// Snapshot replays one variant with the same seed Execute would give it and
// stops once the water table reaches level.
func (r *Runner) Snapshot(ctx context.Context, opts Options, variant string, level float64) (*Snapshot, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if level < 0 || level > opts.Depth {
		return nil, errors.New(errors.ErrCodeInvalidInput, "level %g outside soil depth [0, %g]", level, opts.Depth)
	}
	idx, v, err := opts.FindVariant(variant)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed + uint64(idx)
	net, surface, err := sweep.Prepare(v, seed, opts.Profile())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "prepare %s", v.Label())
	}

	plan, err := sweep.NewPlan(opts.Depth, opts.Steps, opts.RemovalMode())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "plan")
	}
	n := 0
	for n < len(plan.Levels) && plan.Levels[n] >= level {
		n++
	}
	plan.Levels = plan.Levels[:n]
	if n == 0 {
		infiltration.FillWithAir(net, surface)
	}

	records, err := sweep.Sweep(ctx, net, surface, plan, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "sweep %s", v.Label())
	}

	r.Logger.Debug("captured snapshot",
		"variant", v.Label(),
		"level", level,
		"steps", len(records),
		"pores", net.PoreCount())

	return &Snapshot{
		Variant: v,
		Seed:    seed,
		Level:   level,
		Network: net,
		Surface: surface,
		Records: records,
	}, nil
}

// RenderWithCacheInfo draws a snapshot in every requested format, serving
// artifacts from the cache when all of them are present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, opts Options, ro RenderOptions) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if len(ro.Formats) == 0 {
		ro.Formats = []string{FormatSVG}
	}
	for _, f := range ro.Formats {
		if err := errors.ValidateFormat(f, SnapshotFormats...); err != nil {
			return nil, false, err
		}
	}
	_, v, err := opts.FindVariant(ro.Variant)
	if err != nil {
		return nil, false, err
	}

	optsHash := opts.Hash()
	keyFor := func(format string) string {
		return r.Keyer.ArtifactKey(optsHash, cache.ArtifactKeyOpts{
			Variant: v.Label(),
			Level:   ro.Level,
			Format:  artifactFormat(format, ro),
		})
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(ro.Formats))
	if !opts.Refresh {
		for _, format := range ro.Formats {
			data, hit, err := r.Cache.Get(ctx, keyFor(format))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(ro.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	snap, err := r.Snapshot(ctx, opts, ro.Variant, ro.Level)
	if err != nil {
		return nil, false, err
	}
	for _, format := range ro.Formats {
		data, err := RenderSnapshot(ctx, snap, format, ro)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, keyFor(format), data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, opts Options, ro RenderOptions) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, opts, ro)
	return artifacts, err
}

// RenderSnapshot draws snap in a single format.
func RenderSnapshot(ctx context.Context, snap *Snapshot, format string, ro RenderOptions) ([]byte, error) {
	if format == FormatJSON {
		var buf bytes.Buffer
		if err := porenetio.WriteNetworkJSON(snap.Network, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(snap.Network, nodelink.Options{
		Surface:  snap.Surface,
		Detailed: ro.Detailed,
		Compact:  ro.Compact,
	})
	if format == FormatDOT {
		return []byte(dot), nil
	}

	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return svg, nil
	case FormatPNG, FormatPDF:
		return render.Convert(ctx, svg, format, render.DefaultScale)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported snapshot format: %s", format)
}

// artifactFormat folds the label options into the cache key's format field.
func artifactFormat(format string, ro RenderOptions) string {
	switch {
	case format == FormatJSON:
		return format
	case ro.Compact:
		return format + "+compact"
	case ro.Detailed:
		return format + "+detailed"
	}
	return format
}
