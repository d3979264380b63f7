package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/porenet/pkg/errors"
	porenetio "github.com/matzehuels/porenet/pkg/io"
	"github.com/matzehuels/porenet/pkg/pipeline"
	"github.com/matzehuels/porenet/pkg/sweep"
)

// sweepOpts holds the output flags of the sweep command.
type sweepOpts struct {
	output string // series file; format from --format or the extension
	format string // json or csv
	quiet  bool   // skip the summary table
}

// sweepCommand creates the sweep command.
func (c *CLI) sweepCommand() *cobra.Command {
	var (
		flags  sweepFlags
		caches cacheFlags
		opts   sweepOpts
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Lower the water table through random pore networks",
		Long: `Sweep builds one random pore network per variant, lowers the water table from
the soil bottom to the surface in equal steps, and records the air-filled
fraction after every step.`,
		Example: `  porenet sweep
  porenet sweep --steps 50 --variant uniform:2000:3000 --variant ba=preferential:2000:4000
  porenet sweep -o series.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			po, err := flags.resolve(cmd, c.config.Pipeline)
			if err != nil {
				return err
			}
			return c.runSweep(cmd.Context(), po, caches, opts)
		},
	}

	flags.register(cmd)
	caches.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the series to this file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "series format: json, csv (default from extension, else json)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the summary table")

	return cmd
}

func (c *CLI) runSweep(ctx context.Context, po pipeline.Options, caches cacheFlags, opts sweepOpts) error {
	format, err := seriesFormat(opts)
	if err != nil {
		return err
	}
	if err := po.CheckLimits(); err != nil {
		printWarning("%s", errors.UserMessage(err))
	}

	runner, err := c.newRunner(ctx, caches, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Preparing networks...")
	po.Progress = stepReporter(spinner, po)
	spinner.Start()

	res, err := runner.Execute(ctx, po)
	if err != nil {
		spinner.StopWithError("Sweep failed")
		return err
	}
	spinner.Stop()

	printSuccess("Swept %d variants", res.Stats.Variants)
	printStats(res.Stats.Variants, res.Stats.Pores, res.Stats.Steps, res.CacheInfo.Hit)
	if !opts.quiet {
		fmt.Fprintln(stdout, renderSeriesTable(res.Series))
	}

	if opts.output != "" {
		if err := writeSeries(res.Series, opts.output, format); err != nil {
			return err
		}
		printFile(opts.output)
	}

	first := res.Series[0]
	printNextStep("Draw the network half way down",
		fmt.Sprintf("%s render --select %s --level %g", appName, first.Variant.Label(), res.Options.Depth/2))
	return nil
}

// stepReporter returns a progress callback that shows the latest step on
// the spinner.
func stepReporter(s *Spinner, po pipeline.Options) func(string, sweep.Record) {
	steps := po.Steps
	if steps == 0 {
		steps = pipeline.DefaultSteps
	}
	return func(variant string, r sweep.Record) {
		s.SetMessage("Sweeping %s: step %d/%d (air %.3f)", variant, r.Step+1, steps, r.Fraction)
	}
}

// seriesFormat picks the series format from the flag or the output
// extension.
func seriesFormat(opts sweepOpts) (string, error) {
	format := opts.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(opts.output), ".")
		if format != pipeline.FormatCSV {
			format = pipeline.FormatJSON
		}
	}
	if err := errors.ValidateFormat(format, pipeline.SeriesFormats...); err != nil {
		return "", err
	}
	return format, nil
}

func writeSeries(series []*sweep.Series, path, format string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if format == pipeline.FormatCSV {
		return porenetio.ExportSeriesCSV(series, path)
	}
	return porenetio.ExportSeriesJSON(series, path)
}
