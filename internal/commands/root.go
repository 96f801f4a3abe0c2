package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envelope-dev/envelope/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "envelope",
		Short:   "Zero-based budgeting: give every dollar a job",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("dir", "d", ".", "budget directory")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountCommand())
	rootCmd.AddCommand(newCategoryCommand())
	rootCmd.AddCommand(newTxCommand())
	rootCmd.AddCommand(newAssignCommand())
	rootCmd.AddCommand(newQuickAssignCommand())
	rootCmd.AddCommand(newDistributeCommand())
	rootCmd.AddCommand(newUndoCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newImportCommand())

	return rootCmd
}

func budgetDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil || dir == "" {
		return "."
	}
	return dir
}
