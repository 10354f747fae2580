package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/engine"
)

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query FILE SQL",
		Short: "Run a SQL statement against a Parquet file",
		Long:  "Run SQL against FILE. The file is available as the table named by --table (parquet_data by default).",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[1]) == "" {
				return domain.ErrValidation("SQL is required")
			}
			ctx := cmd.Context()
			lf, err := loadFile(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = lf.Close() }()

			rs, err := lf.session.Query(ctx, args[1])
			if err != nil {
				return err
			}
			records := engine.Records(rs)
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"columns":   rs.Columns,
					"rows":      records,
					"row_count": len(records),
				})
			}
			if err := printTable(cmd.OutOrStdout(), rs.Columns, recordRows(records)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "(%d rows)\n", len(records))
			return err
		},
	}
}
