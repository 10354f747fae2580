package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/service/profile"
)

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile FILE",
		Short: "Profile every column of a Parquet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lf, err := loadFile(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = lf.Close() }()

			p, err := profile.NewProfiler(lf.session, cmdLogger(cmd)).Profile(ctx, lf.table)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), p)
			}
			return printProfile(cmd, p)
		},
	}
}

func printProfile(cmd *cobra.Command, p *domain.DataProfile) error {
	out := cmd.OutOrStdout()
	if err := printDetail(out, [][2]string{
		{"table", p.Table},
		{"rows", strconv.FormatInt(p.TotalRows, 10)},
		{"columns", strconv.Itoa(p.TotalColumns)},
		{"completeness", fmt.Sprintf("%.1f%%", p.Completeness)},
		{"quality score", strconv.Itoa(p.DataQualityScore)},
	}); err != nil {
		return err
	}

	rows := make([][]string, 0, len(p.Columns))
	for _, c := range p.Columns {
		var minV, maxV, avg string
		if c.Numeric != nil {
			minV = cellString(c.Numeric.Min)
			maxV = cellString(c.Numeric.Max)
			if c.Numeric.Avg != nil {
				avg = strconv.FormatFloat(*c.Numeric.Avg, 'f', 2, 64)
			}
		}
		rows = append(rows, []string{
			c.Name,
			c.Type,
			fmt.Sprintf("%.1f%%", c.NullPercentage),
			strconv.FormatInt(c.UniqueCount, 10),
			minV, maxV, avg,
		})
	}
	return printTable(out, []string{"column", "type", "nulls", "unique", "min", "max", "avg"}, rows)
}
