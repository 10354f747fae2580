package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"parquet-explorer/internal/app"
	"parquet-explorer/internal/config"
	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/service/export"
)

func newExportCmd() *cobra.Command {
	var (
		format  string
		columns []string
		where   string
		limit   int
		out     string
		showSQL bool
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export rows of a Parquet file as CSV, JSON or Parquet",
		Long: `Export selected rows of FILE. Without --out the serialized data is written
to stdout. --out accepts a local path or an s3://, gs://, az:// or abfss://
destination; object storage credentials come from --config or the environment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := cmdLogger(cmd)
			lf, err := loadFile(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = lf.Close() }()

			cfg := domain.ExportConfig{
				TableName:   lf.table,
				Format:      domain.ExportFormat(strings.ToLower(format)),
				Columns:     columns,
				WhereClause: where,
				Limit:       limit,
			}

			var sink export.Sink
			if out != "" {
				configPath, _ := cmd.Root().PersistentFlags().GetString("config")
				appCfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				sink = export.NewSinks(app.SinkConfig(appCfg.Sinks))
			}
			svc := export.NewService(lf.session, nil, sink, logger)

			if showSQL {
				sql, err := svc.ShareableSQL(cfg)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), sql)
				return err
			}

			blob, err := svc.Export(ctx, cfg)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(blob.Data)
				return err
			}

			location, err := svc.Download(ctx, blob, out)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"location": location,
					"filename": blob.Filename,
					"rows":     blob.Rows,
					"bytes":    len(blob.Data),
				})
			}
			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows (%d bytes) to %s\n", blob.Rows, len(blob.Data), location)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(domain.FormatCSV), "Output format (csv, json, parquet)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to export (default all)")
	cmd.Flags().StringVar(&where, "where", "", "SQL filter expression applied to the rows")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of rows (0 means all)")
	cmd.Flags().StringVar(&out, "out", "", "Destination path or object storage URL")
	cmd.Flags().BoolVar(&showSQL, "sql", false, "Print the export statement instead of running it")
	return cmd
}
