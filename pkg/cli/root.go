// Package cli implements the explorer command-line tool. Every command loads
// a local Parquet file into an in-memory engine and works on it there.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"parquet-explorer/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd, os.Stdout, os.Stderr, err)
		return 1
	}
	return 0
}

func reportError(rootCmd *cobra.Command, stdout, stderr io.Writer, err error) {
	output, _ := rootCmd.PersistentFlags().GetString("output")
	if output != "json" {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return
	}
	errObj := map[string]any{"error": err.Error()}
	var engineErr *domain.EngineError
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &engineErr):
		errObj["kind"] = "engine"
	case errors.As(err, &validation):
		errObj["kind"] = "validation"
	}
	_ = printJSON(stdout, errObj)
}

func newRootCmd() *cobra.Command {
	var (
		output     string
		configPath string
		table      string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:           "explorer",
		Short:         "Explore Parquet files with an embedded DuckDB engine",
		Long:          "Profile, chart, query and export local Parquet files. Each command loads FILE into an in-memory table first.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("EXPLORER_OUTPUT"); v != "" {
					output = v
				}
			}
			return validateOutputFormat(output)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file with export sink settings")
	rootCmd.PersistentFlags().StringVarP(&table, "table", "t", domain.DefaultTable, "Table name FILE is loaded into")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log engine activity to stderr")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newChartCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newTrendCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// cmdLogger discards logs unless --verbose is set.
func cmdLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
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
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}
