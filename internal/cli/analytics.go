package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) analyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Your learning and teaching statistics",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Headline numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			sum, err := a.client.AnalyticsSummary(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "sessions:  %d total, %d completed, %d cancelled\n",
				sum.TotalSessions, sum.CompletedSessions, sum.CancelledSessions)
			fmt.Fprintf(a.out, "time:      %dh%02dm\n", sum.TotalMinutes/60, sum.TotalMinutes%60)
			if sum.AverageRating > 0 {
				fmt.Fprintf(a.out, "rating:    %.1f/5\n", sum.AverageRating)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "activity",
		Short: "Session activity by weekday and hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			heatmap, err := a.client.ActivityHeatmap(cmd.Context())
			if err != nil {
				return err
			}
			if len(heatmap.Buckets) == 0 {
				fmt.Fprintln(a.out, "no activity yet")
				return nil
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DAY\tHOUR\tSESSIONS")
			for _, b := range heatmap.Buckets {
				fmt.Fprintf(w, "%s\t%02d:00\t%s\n",
					time.Weekday(b.Weekday), b.Hour, strings.Repeat("#", b.Count))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "scores",
		Short: "Review score histogram",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			dist, err := a.client.ScoreDistribution(cmd.Context())
			if err != nil {
				return err
			}

			for _, b := range dist.Buckets {
				fmt.Fprintf(a.out, "%d star: %s (%d)\n", b.Rating, strings.Repeat("#", b.Count), b.Count)
			}
			return nil
		},
	})

	return cmd
}
