package main

import (
	"context"
	"io"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/0xmhha/ccusage/pkg/aggregator"
)

// newDailyCmd reports usage bucketed by calendar day.
func newDailyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Report usage per calendar day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				entries, err := a.loadEntries(ctx)
				if err != nil {
					return err
				}
				order, err := a.sortOrder()
				if err != nil {
					return err
				}
				report := aggregator.Daily(entries, order)
				return a.output(func(w io.Writer) error {
					return a.formatter().FormatDaily(w, report, aggregator.Sum(entries))
				})
			})
		},
	}

	cmd.Flags().BoolVar(&a.allTime, "all-time", false, "ignore the date window and report everything")

	return cmd
}

// newWeeklyCmd reports usage bucketed by ISO-style Monday weeks.
func newWeeklyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Report usage per week (Monday start)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				entries, err := a.loadEntries(ctx)
				if err != nil {
					return err
				}
				order, err := a.sortOrder()
				if err != nil {
					return err
				}
				report := aggregator.Weekly(entries, order)
				return a.output(func(w io.Writer) error {
					return a.formatter().FormatWeekly(w, report, aggregator.Sum(entries))
				})
			})
		},
	}

	cmd.Flags().BoolVar(&a.allTime, "all-time", false, "ignore the date window and report everything")

	return cmd
}

// newMonthlyCmd reports usage bucketed by calendar month.
func newMonthlyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Report usage per calendar month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				entries, err := a.loadEntries(ctx)
				if err != nil {
					return err
				}
				order, err := a.sortOrder()
				if err != nil {
					return err
				}
				report := aggregator.Monthly(entries, order)
				return a.output(func(w io.Writer) error {
					return a.formatter().FormatMonthly(w, report, aggregator.Sum(entries))
				})
			})
		},
	}

	cmd.Flags().BoolVar(&a.allTime, "all-time", false, "ignore the date window and report everything")

	return cmd
}

// newSessionCmd reports usage grouped by conversation session.
func newSessionCmd(a *app) *cobra.Command {
	var recentDays int

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Report usage per session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				entries, err := a.loadEntries(ctx)
				if err != nil {
					return err
				}
				order, err := a.sortOrder()
				if err != nil {
					return err
				}
				report := aggregator.Sessions(entries, order)
				if recentDays > 0 {
					report = filterRecentSessions(report, recentDays, time.Now().UTC())
				}
				return a.output(func(w io.Writer) error {
					return a.formatter().FormatSessions(w, report, aggregator.Sum(entries))
				})
			})
		},
	}

	cmd.Flags().IntVar(&recentDays, "recent-days", 0, "only sessions with activity in the last N days")
	cmd.Flags().BoolVar(&a.allTime, "all-time", false, "ignore the date window and report everything")
	cmd.MarkFlagsMutuallyExclusive("recent-days", "all-time")

	return cmd
}

// filterRecentSessions keeps sessions whose last activity falls
// within the trailing window of days ending at now.
func filterRecentSessions(report []aggregator.SessionUsage, days int, now time.Time) []aggregator.SessionUsage {
	cutoff := aggregator.NewDailyDate(now.AddDate(0, 0, -days))
	return lo.Filter(report, func(s aggregator.SessionUsage, _ int) bool {
		return !s.LastActivity.Before(cutoff)
	})
}
