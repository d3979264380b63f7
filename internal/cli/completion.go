package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/porenet/pkg/network/generate"
	"github.com/matzehuels/porenet/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for porenet.

Bash:
  $ source <(porenet completion bash)

Zsh:
  $ porenet completion zsh > "${fpath[1]}/_porenet"

Fish:
  $ porenet completion fish > ~/.config/fish/completions/porenet.fish

PowerShell:
  PS> porenet completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeVariantLabels completes --select with the configured variant
// labels, or the default ones when the config names none.
func (c *CLI) completeVariantLabels(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	variants := c.config.Pipeline.Variants
	if len(variants) == 0 {
		variants = pipeline.DefaultVariants()
	}
	labels := make([]string, len(variants))
	for i, v := range variants {
		labels[i] = v.Label()
	}
	return labels, cobra.ShellCompDirectiveNoFileComp
}

// completeVariantSpecs completes --variant with one template per kind.
func completeVariantSpecs(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		generate.KindUniform + ":1000:1000",
		generate.KindPreferential + ":1000:1000",
		generate.KindComplete + ":50",
		generate.KindStar + ":100",
	}, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
