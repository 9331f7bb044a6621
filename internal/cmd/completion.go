package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Generate shell completion scripts",
	Long: `Print a completion script for bash, zsh, fish or powershell.

Load it for the current session, for example:

  source <(campus-cli completion bash)
  campus-cli completion fish | source

or write it once to your shell's completion directory.`,
	ValidArgs: completionShells(),
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, ok := completionGenerators[args[0]]
		if !ok {
			return fmt.Errorf("unknown shell: %s", args[0])
		}
		return gen(cmd.Root(), cmd.OutOrStdout())
	},
}

// completionGenerators maps a shell name to its script generator
var completionGenerators = map[string]func(*cobra.Command, io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

func completionShells() []string {
	return []string{"bash", "zsh", "fish", "powershell"}
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
