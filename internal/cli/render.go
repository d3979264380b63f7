package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/porenet/pkg/errors"
	"github.com/matzehuels/porenet/pkg/pipeline"
	"github.com/matzehuels/porenet/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (several)
	formats  []string // dot, svg, png, pdf, json
	variant  string   // variant label; empty selects the first
	level    float64  // water table level to sweep down to
	detailed bool     // label pores with their depth
	compact  bool     // draw pores as points
}

// renderCommand creates the render command for drawing network snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      sweepFlags
		caches     cacheFlags
		opts       renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw a variant's pore network at a water table level",
		Long: `Render replays one variant with the same seed a sweep would use, stops once
the water table reaches --level, and draws the remaining network. Air-filled
pores are white, water-connected pores blue, and surface pores are outlined
twice.`,
		Example: `  porenet render --select uniform --level 50
  porenet render --select preferential --level 20 -f svg,png -o snapshots/ba`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, pipeline.FormatSVG)
			for _, f := range opts.formats {
				if err := errors.ValidateFormat(f, pipeline.SnapshotFormats...); err != nil {
					return err
				}
			}
			po, err := flags.resolve(cmd, c.config.Pipeline)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), po, caches, &opts)
		},
	}

	flags.register(cmd)
	caches.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.variant, "select", "s", "", "label of the variant to draw (default: first variant)")
	_ = cmd.RegisterFlagCompletionFunc("select", c.completeVariantLabels)
	cmd.Flags().Float64VarP(&opts.level, "level", "l", 0, "water table level to sweep down to")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label pores with their depth")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "draw pores as points (large networks)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, po pipeline.Options, caches cacheFlags, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	for _, f := range opts.formats {
		if (f == pipeline.FormatPNG || f == pipeline.FormatPDF) && !render.Available() {
			return errors.New(errors.ErrCodeUnsupported, "%s output needs rsvg-convert on PATH", f)
		}
	}

	runner, err := c.newRunner(ctx, caches, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Sweeping to level "+strconv.FormatFloat(opts.level, 'g', -1, 64)+"...")
	spinner.Start()
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, po, pipeline.RenderOptions{
		Variant:  opts.variant,
		Level:    opts.level,
		Formats:  opts.formats,
		Detailed: opts.detailed,
		Compact:  opts.compact,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	label := opts.variant
	if label == "" && len(po.Variants) > 0 {
		label = po.Variants[0].Label()
	}
	base := basePath(opts.output, label, opts.level)

	var written []string
	for _, format := range opts.formats {
		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := writeArtifact(path, artifacts[format]); err != nil {
			return err
		}
		logger.Debug("wrote artifact", "format", format, "bytes", len(artifacts[format]), "cached", hit)
		written = append(written, path)
	}

	prog.done(fmt.Sprintf("Rendered %d file(s)", len(written)))
	for _, p := range written {
		printFile(p)
	}
	return nil
}

// basePath derives the output path without extension. With no output it
// is "<variant>_level<level>" in the working directory; a known format
// extension on output is stripped.
func basePath(output, variant string, level float64) string {
	if output == "" {
		if variant == "" {
			variant = "network"
		}
		return fmt.Sprintf("%s_level%s", variant, strconv.FormatFloat(level, 'g', -1, 64))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.SnapshotFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeArtifact(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
