package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modeltx",
	Short: "A transactional operation engine for model documents",
	Long: `modeltx runs named operations against a CAD/BIM model document inside
transaction scopes. Batches of operations either commit whole or roll back
whole, so the model never ends up partially mutated.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newServeCommand())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of modeltx`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("modeltx version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
