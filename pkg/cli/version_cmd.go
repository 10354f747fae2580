package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const duckdbModule = "github.com/duckdb/duckdb-go/v2"

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	DuckDB    string `json:"duckdb_driver,omitempty"`
}

// buildVersion reports the linker-set version plus the toolchain and the
// DuckDB driver the binary was built with.
func buildVersion() versionInfo {
	info := versionInfo{Version: version, Commit: commit, GoVersion: runtime.Version()}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range bi.Deps {
			if dep.Path != duckdbModule {
				continue
			}
			info.DuckDB = dep.Version
			if dep.Replace != nil {
				info.DuckDB = dep.Replace.Version
			}
			break
		}
	}
	return info
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := buildVersion()
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), info)
			}
			pairs := [][2]string{
				{"version", info.Version},
				{"commit", info.Commit},
				{"go", info.GoVersion},
			}
			if info.DuckDB != "" {
				pairs = append(pairs, [2]string{"duckdb driver", info.DuckDB})
			}
			return printDetail(cmd.OutOrStdout(), pairs)
		},
	}
}
