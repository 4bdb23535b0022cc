package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timelane/pkg/pipeline"
	"github.com/matzehuels/timelane/pkg/render/styles"
	"github.com/matzehuels/timelane/pkg/timewindow"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	generators := map[string]func(root *cobra.Command, w io.Writer) error{
		"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
		"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	}

	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for timelane.

Bash:
  $ source <(timelane completion bash)

Zsh (with compinit enabled):
  $ timelane completion zsh > "${fpath[1]}/_timelane"

Fish:
  $ timelane completion fish > ~/.config/fish/completions/timelane.fish

PowerShell:
  PS> timelane completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// itemFileExts are the item file extensions offered for the file argument.
var itemFileExts = []string{"yaml", "yml", "json", "toml", "csv"}

// registerChartCompletions completes the item file argument and the enum
// valued chart flags.
func registerChartCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return itemFileExts, cobra.ShellCompDirectiveFilterFileExt
	}
	fixed := map[string][]string{
		"unit":     unitNames(),
		"grouping": {pipeline.GroupingAuto, pipeline.GroupingNone, pipeline.GroupingParent, pipeline.GroupingGrandparent},
		"style":    styles.Names,
	}
	for name, values := range fixed {
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
	_ = cmd.MarkFlagFilename("config", "toml")
}

func unitNames() []string {
	units := []timewindow.Unit{timewindow.Minute, timewindow.Hour, timewindow.Day, timewindow.Week, timewindow.Month}
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = u.String()
	}
	return names
}
