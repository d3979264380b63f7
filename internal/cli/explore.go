package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	porenetio "github.com/matzehuels/porenet/pkg/io"
	"github.com/matzehuels/porenet/pkg/sweep"
)

// exploreCommand creates the explore command, an interactive view of a
// sweep's records.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		flags  sweepFlags
		caches cacheFlags
		input  string
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Step through a sweep interactively",
		Long: `Explore runs a sweep (or loads one written by "porenet sweep -o file.json")
and shows its records one variant at a time in the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var series []*sweep.Series
			if input != "" {
				var err error
				if series, err = porenetio.ImportSeriesJSON(input); err != nil {
					return err
				}
			} else {
				po, err := flags.resolve(cmd, c.config.Pipeline)
				if err != nil {
					return err
				}
				runner, err := c.newRunner(ctx, caches, nil)
				if err != nil {
					return err
				}
				defer runner.Close()

				spinner := newSpinner(ctx, "Sweeping...")
				spinner.Start()
				res, err := runner.Execute(ctx, po)
				spinner.Stop()
				if err != nil {
					return err
				}
				series = res.Series
			}

			p := tea.NewProgram(NewExploreModel(series), tea.WithContext(ctx), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}

	flags.register(cmd)
	caches.register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "explore a series JSON file instead of sweeping")

	return cmd
}
