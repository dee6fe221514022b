package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "brianquiz",
	Short: "Author, share and take timed quizzes in the terminal",
	Long: "BrianQuiz lets you write multiple-choice and true/false quizzes, keep them in slots, " +
		"share them as links and track who took them.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (default: $XDG_CONFIG_HOME/brianquiz/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides BRIANQUIZ_DB)")
	rootCmd.PersistentFlags().String("log-file", "", `Log destination; "-" for stderr`)
	rootCmd.Flags().String("import", "", "Share link to open after signing in")

	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importFileCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
