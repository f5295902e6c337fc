package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/PDG1999/tool-dashboard-samebi/internal/output"
	"github.com/PDG1999/tool-dashboard-samebi/internal/services"
	"github.com/PDG1999/tool-dashboard-samebi/internal/sources"
	"github.com/PDG1999/tool-dashboard-samebi/internal/stats"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(root *rootFlags) *cobra.Command {
	var (
		flagRange  string
		flagPolicy string
		flagJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Build one statistics snapshot and print it",
		Long: `Snapshot fetches assessment records, clients and counselors from the
record source, aggregates them once and prints the result as tables or JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			tr, err := models.ParseTimeRange(flagRange, cfg.TimeRange())
			if err != nil {
				return err
			}
			policy := cfg.Policy()
			if flagPolicy != "" {
				if policy, err = stats.ParseAnonymousPolicy(flagPolicy); err != nil {
					return err
				}
			}

			opened, err := sources.Open(cfg)
			if err != nil {
				return fmt.Errorf("opening record source: %w", err)
			}
			defer opened.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RecordStoreTimeout+5*time.Second)
			defer cancel()

			builder := services.NewSnapshotBuilder(opened.Source, policy, time.Now)
			snap, err := builder.Build(ctx, models.Query{TimeRange: tr, Generation: 1})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flagJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			_, err = fmt.Fprint(out, output.RenderSnapshot(snap))
			return err
		},
	}

	cmd.Flags().StringVar(&flagRange, "range", "", "Time range: 7d, 30d, 90d, 1y or all (default from DEFAULT_TIME_RANGE)")
	cmd.Flags().StringVar(&flagPolicy, "anonymous", "", "Anonymous submissions: include, exclude or separate")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	return cmd
}
