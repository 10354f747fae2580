package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/service/trend"
)

func newTrendCmd() *cobra.Command {
	var maxPoints int

	cmd := &cobra.Command{
		Use:   "trend FILE",
		Short: "Show daily trips, revenue and average fare",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lf, err := loadFile(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = lf.Close() }()

			agg := trend.NewAggregator(lf.session, lf.table, cmdLogger(cmd))
			points, err := agg.Trend(ctx, maxPoints)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"table":  lf.table,
					"points": points,
					"stats":  agg.Stats(ctx),
				})
			}

			rows := make([][]string, len(points))
			for i, p := range points {
				rows[i] = []string{
					p.Date,
					strconv.FormatInt(p.Trips, 10),
					strconv.FormatFloat(p.Revenue, 'f', 2, 64),
					strconv.FormatFloat(p.AvgFare, 'f', 2, 64),
				}
			}
			return printTable(cmd.OutOrStdout(), []string{"date", "trips", "revenue", "avg fare"}, rows)
		},
	}
	cmd.Flags().IntVar(&maxPoints, "max-points", domain.DefaultTrendPoints, "Maximum number of days")
	return cmd
}
