package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/0xmhha/ccusage/pkg/aggregator"
	"github.com/0xmhha/ccusage/pkg/blocks"
	"github.com/0xmhha/ccusage/pkg/usage"
)

// noDataMessage is printed when a report has no buckets.
const noDataMessage = "No usage data found"

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatDaily implements Formatter.FormatDaily.
func (f *tableFormatter) FormatDaily(w io.Writer, report []aggregator.DailyUsage, totals aggregator.Totals) error {
	if len(report) == 0 {
		_, err := fmt.Fprintln(w, noDataMessage)
		return err
	}

	if err := writeHeader(w, "Daily Usage", f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, 0, len(report))
	for _, day := range report {
		rows = append(rows, f.bucketRow(day.Date.String(), day.ModelsUsed, day.AggregatedTokenCounts, day.TotalCost))
		rows = append(rows, f.breakdownRows(day.ModelBreakdowns)...)
	}
	rows = append(rows, f.totalsRow(totals))

	return f.writeTable(w, f.bucketHeader("Date"), rows)
}

// FormatWeekly implements Formatter.FormatWeekly.
func (f *tableFormatter) FormatWeekly(w io.Writer, report []aggregator.WeeklyUsage, totals aggregator.Totals) error {
	if len(report) == 0 {
		_, err := fmt.Fprintln(w, noDataMessage)
		return err
	}

	if err := writeHeader(w, "Weekly Usage", f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, 0, len(report))
	for _, week := range report {
		rows = append(rows, f.bucketRow(week.Date.String(), week.ModelsUsed, week.AggregatedTokenCounts, week.TotalCost))
		rows = append(rows, f.breakdownRows(week.ModelBreakdowns)...)
	}
	rows = append(rows, f.totalsRow(totals))

	return f.writeTable(w, f.bucketHeader("Week"), rows)
}

// FormatMonthly implements Formatter.FormatMonthly.
func (f *tableFormatter) FormatMonthly(w io.Writer, report []aggregator.MonthlyUsage, totals aggregator.Totals) error {
	if len(report) == 0 {
		_, err := fmt.Fprintln(w, noDataMessage)
		return err
	}

	if err := writeHeader(w, "Monthly Usage", f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, 0, len(report))
	for _, month := range report {
		rows = append(rows, f.bucketRow(month.Date.String(), month.ModelsUsed, month.AggregatedTokenCounts, month.TotalCost))
		rows = append(rows, f.breakdownRows(month.ModelBreakdowns)...)
	}
	rows = append(rows, f.totalsRow(totals))

	return f.writeTable(w, f.bucketHeader("Month"), rows)
}

// FormatSessions implements Formatter.FormatSessions.
func (f *tableFormatter) FormatSessions(w io.Writer, report []aggregator.SessionUsage, totals aggregator.Totals) error {
	if len(report) == 0 {
		_, err := fmt.Fprintln(w, noDataMessage)
		return err
	}

	if err := writeHeader(w, "Session Usage", f.config.Compact); err != nil {
		return err
	}

	header := []string{"Session", "Project", "Last Activity", "Models", "Input", "Output", "Total", "Cost"}

	rows := make([][]string, 0, len(report))
	for _, session := range report {
		rows = append(rows, []string{
			shorten(session.SessionID.String(), 16),
			session.ProjectPath.String(),
			session.LastActivity.String(),
			joinModels(session.ModelsUsed),
			formatNumber(session.InputTokens),
			formatNumber(session.OutputTokens),
			formatNumber(session.Total()),
			formatCost(session.TotalCost),
		})
		if f.config.ShowBreakdowns {
			for _, bd := range session.ModelBreakdowns {
				rows = append(rows, []string{
					"  └ " + bd.ModelName.String(), "", "", "",
					formatNumber(bd.InputTokens),
					formatNumber(bd.OutputTokens),
					formatNumber(bd.Total()),
					formatCost(bd.Cost),
				})
			}
		}
	}
	rows = append(rows, []string{
		"Total", "", "", "",
		formatNumber(totals.InputTokens),
		formatNumber(totals.OutputTokens),
		formatNumber(totals.Total()),
		formatCost(totals.TotalCost),
	})

	return f.writeTable(w, header, rows)
}

// FormatBlocks implements Formatter.FormatBlocks.
func (f *tableFormatter) FormatBlocks(w io.Writer, report []blocks.SessionBlock) error {
	if len(report) == 0 {
		_, err := fmt.Fprintln(w, noDataMessage)
		return err
	}

	if err := writeHeader(w, "Billing Blocks (5h)", f.config.Compact); err != nil {
		return err
	}

	header := []string{"Block Start", "Status", "Models", "Tokens", "Cost"}

	rows := make([][]string, 0, len(report))
	for _, block := range report {
		rows = append(rows, []string{
			block.StartTime.Format("2006-01-02 15:04"),
			blockStatus(block),
			joinModels(block.Models),
			formatNumber(block.TotalTokens()),
			formatCost(block.CostUSD),
		})
	}

	return f.writeTable(w, header, rows)
}

// bucketHeader builds the column set shared by the calendar reports.
func (f *tableFormatter) bucketHeader(period string) []string {
	if f.config.Compact {
		return []string{period, "Models", "Total", "Cost"}
	}
	return []string{period, "Models", "Input", "Output", "Cache Create", "Cache Read", "Total", "Cost"}
}

// bucketRow renders one calendar bucket.
func (f *tableFormatter) bucketRow(key string, models []usage.ModelName, counts aggregator.AggregatedTokenCounts, cost decimal.Decimal) []string {
	if f.config.Compact {
		return []string{key, joinModels(models), formatNumber(counts.Total()), formatCost(cost)}
	}
	return []string{
		key,
		joinModels(models),
		formatNumber(counts.InputTokens),
		formatNumber(counts.OutputTokens),
		formatNumber(counts.CacheCreationTokens),
		formatNumber(counts.CacheReadTokens),
		formatNumber(counts.Total()),
		formatCost(cost),
	}
}

// breakdownRows renders per-model sub-rows when enabled.
func (f *tableFormatter) breakdownRows(breakdowns []aggregator.ModelBreakdown) [][]string {
	if !f.config.ShowBreakdowns {
		return nil
	}

	rows := make([][]string, 0, len(breakdowns))
	for _, bd := range breakdowns {
		label := "  └ " + bd.ModelName.String()
		if f.config.Compact {
			rows = append(rows, []string{label, "", formatNumber(bd.Total()), formatCost(bd.Cost)})
			continue
		}
		rows = append(rows, []string{
			label,
			"",
			formatNumber(bd.InputTokens),
			formatNumber(bd.OutputTokens),
			formatNumber(bd.CacheCreationTokens),
			formatNumber(bd.CacheReadTokens),
			formatNumber(bd.Total()),
			formatCost(bd.Cost),
		})
	}
	return rows
}

// totalsRow renders the footer row of a calendar report.
func (f *tableFormatter) totalsRow(totals aggregator.Totals) []string {
	if f.config.Compact {
		return []string{"Total", "", formatNumber(totals.Total()), formatCost(totals.TotalCost)}
	}
	return []string{
		"Total",
		"",
		formatNumber(totals.InputTokens),
		formatNumber(totals.OutputTokens),
		formatNumber(totals.CacheCreationTokens),
		formatNumber(totals.CacheReadTokens),
		formatNumber(totals.Total()),
		formatCost(totals.TotalCost),
	}
}

// blockStatus labels a block row.
func blockStatus(b blocks.SessionBlock) string {
	switch {
	case b.IsGap:
		return "gap"
	case b.IsActive:
		return "ACTIVE"
	default:
		return "done"
	}
}

// joinModels lists model names on one cell, comma separated.
func joinModels(models []usage.ModelName) string {
	return strings.Join(lo.Map(models, func(m usage.ModelName, _ int) string {
		return m.String()
	}), ", ")
}

// shorten truncates long identifiers for table cells.
func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, noDataMessage)
		return err
	}

	// Calculate column widths.
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	// Write header.
	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	// Write separator.
	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	// Write rows.
	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	// Add spacing.
	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// writeRow writes a single table row.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	for i, cell := range cells {
		if i > 0 {
			if f.config.Compact {
				if _, err := fmt.Fprint(w, " "); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprint(w, "  "); err != nil {
					return err
				}
			}
		}

		format := fmt.Sprintf("%%-%ds", widths[i])
		if _, err := fmt.Fprintf(w, format, cell); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}
