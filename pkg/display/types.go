// Package display provides output formatting for usage reports.
//
// It supports table and JSON output and handles report rendering for
// the daily, weekly, monthly, session, and blocks views.
package display

import (
	"io"

	"github.com/0xmhha/ccusage/pkg/aggregator"
	"github.com/0xmhha/ccusage/pkg/blocks"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays reports in a formatted table.
	FormatTable Format = "table"

	// FormatJSON displays reports as JSON.
	FormatJSON Format = "json"
)

// Formatter formats and displays usage reports.
type Formatter interface {
	// FormatDaily formats the per-day report.
	//
	// Parameters:
	//   - w: Output writer
	//   - report: Daily buckets to format
	//   - totals: Footer totals across all buckets
	//
	// Returns error if formatting fails.
	FormatDaily(w io.Writer, report []aggregator.DailyUsage, totals aggregator.Totals) error

	// FormatWeekly formats the per-week report.
	//
	// Parameters:
	//   - w: Output writer
	//   - report: Weekly buckets to format
	//   - totals: Footer totals across all buckets
	//
	// Returns error if formatting fails.
	FormatWeekly(w io.Writer, report []aggregator.WeeklyUsage, totals aggregator.Totals) error

	// FormatMonthly formats the per-month report.
	//
	// Parameters:
	//   - w: Output writer
	//   - report: Monthly buckets to format
	//   - totals: Footer totals across all buckets
	//
	// Returns error if formatting fails.
	FormatMonthly(w io.Writer, report []aggregator.MonthlyUsage, totals aggregator.Totals) error

	// FormatSessions formats the per-session report.
	//
	// Parameters:
	//   - w: Output writer
	//   - report: Session buckets to format
	//   - totals: Footer totals across all buckets
	//
	// Returns error if formatting fails.
	FormatSessions(w io.Writer, report []aggregator.SessionUsage, totals aggregator.Totals) error

	// FormatBlocks formats the billing-block report.
	//
	// Parameters:
	//   - w: Output writer
	//   - report: Blocks to format, gap blocks included
	//
	// Returns error if formatting fails.
	FormatBlocks(w io.Writer, report []blocks.SessionBlock) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// ShowBreakdowns enables per-model rows under each bucket.
	// Default: false.
	ShowBreakdowns bool

	// Compact enables compact output (less whitespace, fewer
	// columns). Enabled automatically for narrow terminals.
	// Default: false.
	Compact bool
}
