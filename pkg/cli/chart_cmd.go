package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/service/chart"
)

func newChartCmd() *cobra.Command {
	var (
		specPath string
		flags    domain.ChartConfig
		chartTyp string
		agg      string
		order    string
	)

	cmd := &cobra.Command{
		Use:   "chart FILE",
		Short: "Compute chart series from a Parquet file",
		Long: `Compute the labels and datasets of a chart over FILE. The chart is read
from a YAML --spec file; flags override the file's fields.

Example spec:

  type: bar
  x_column: region
  y_column: total_amount
  aggregation: SUM
  order_by: DESC
  limit: 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg domain.ChartConfig
			if specPath != "" {
				loaded, err := readChartSpec(specPath)
				if err != nil {
					return err
				}
				cfg = *loaded
			}

			fs := cmd.Flags()
			if fs.Changed("type") || cfg.Type == "" {
				cfg.Type = domain.ChartType(strings.ToLower(chartTyp))
			}
			if fs.Changed("x") {
				cfg.XColumn = flags.XColumn
			}
			if fs.Changed("y") {
				cfg.YColumn = flags.YColumn
			}
			if fs.Changed("group-by") {
				cfg.GroupByColumn = flags.GroupByColumn
			}
			if fs.Changed("agg") {
				cfg.Aggregation = domain.Aggregation(strings.ToUpper(agg))
			}
			if fs.Changed("order") {
				cfg.OrderBy = domain.SortOrder(strings.ToUpper(order))
			}
			if fs.Changed("limit") {
				cfg.Limit = flags.Limit
			}

			ctx := cmd.Context()
			lf, err := loadFile(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = lf.Close() }()
			if cfg.TableName == "" {
				cfg.TableName = lf.table
			}

			data, err := chart.NewBuilder(lf.session, cmdLogger(cmd)).Generate(ctx, cfg)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), data)
			}
			return printChart(cmd, data)
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "YAML chart definition")
	cmd.Flags().StringVar(&chartTyp, "type", string(domain.ChartBar), "Chart type (bar, line, area, scatter, pie)")
	cmd.Flags().StringVar(&flags.XColumn, "x", "", "X axis column")
	cmd.Flags().StringVar(&flags.YColumn, "y", "", "Y axis column")
	cmd.Flags().StringVar(&flags.GroupByColumn, "group-by", "", "Grouping column for aggregated charts")
	cmd.Flags().StringVar(&agg, "agg", "", "Aggregation (SUM, AVG, COUNT, MIN, MAX)")
	cmd.Flags().StringVar(&order, "order", "", "Order of aggregated values (ASC, DESC)")
	cmd.Flags().IntVar(&flags.Limit, "limit", 0, "Maximum number of points")
	return cmd
}

func readChartSpec(path string) (*domain.ChartConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chart spec: %w", err)
	}
	var cfg domain.ChartConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, domain.ErrValidation("parse chart spec %s: %v", path, err)
	}
	cfg.Type = domain.ChartType(strings.ToLower(string(cfg.Type)))
	cfg.Aggregation = domain.Aggregation(strings.ToUpper(string(cfg.Aggregation)))
	cfg.OrderBy = domain.SortOrder(strings.ToUpper(string(cfg.OrderBy)))
	return &cfg, nil
}

func printChart(cmd *cobra.Command, data *domain.ChartData) error {
	headers := []string{"label"}
	for _, ds := range data.Datasets {
		headers = append(headers, ds.Label)
	}
	rows := make([][]string, len(data.Labels))
	for i, label := range data.Labels {
		row := []string{label}
		for _, ds := range data.Datasets {
			row = append(row, strconv.FormatFloat(ds.Data[i], 'f', -1, 64))
		}
		rows[i] = row
	}
	return printTable(cmd.OutOrStdout(), headers, rows)
}
