package display

import (
	"encoding/json"
	"io"

	"github.com/0xmhha/ccusage/pkg/aggregator"
	"github.com/0xmhha/ccusage/pkg/blocks"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// encode writes v as indented JSON. Nil report slices encode as [].
func (f *jsonFormatter) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(v)
}

// dailyReport pairs the buckets with the footer totals.
type dailyReport struct {
	Daily  []aggregator.DailyUsage `json:"daily"`
	Totals aggregator.Totals       `json:"totals"`
}

type weeklyReport struct {
	Weekly []aggregator.WeeklyUsage `json:"weekly"`
	Totals aggregator.Totals        `json:"totals"`
}

type monthlyReport struct {
	Monthly []aggregator.MonthlyUsage `json:"monthly"`
	Totals  aggregator.Totals         `json:"totals"`
}

type sessionReport struct {
	Sessions []aggregator.SessionUsage `json:"sessions"`
	Totals   aggregator.Totals         `json:"totals"`
}

type blocksReport struct {
	Blocks []blocks.SessionBlock `json:"blocks"`
}

// FormatDaily implements Formatter.FormatDaily.
func (f *jsonFormatter) FormatDaily(w io.Writer, report []aggregator.DailyUsage, totals aggregator.Totals) error {
	if report == nil {
		report = []aggregator.DailyUsage{}
	}
	return f.encode(w, dailyReport{Daily: report, Totals: totals})
}

// FormatWeekly implements Formatter.FormatWeekly.
func (f *jsonFormatter) FormatWeekly(w io.Writer, report []aggregator.WeeklyUsage, totals aggregator.Totals) error {
	if report == nil {
		report = []aggregator.WeeklyUsage{}
	}
	return f.encode(w, weeklyReport{Weekly: report, Totals: totals})
}

// FormatMonthly implements Formatter.FormatMonthly.
func (f *jsonFormatter) FormatMonthly(w io.Writer, report []aggregator.MonthlyUsage, totals aggregator.Totals) error {
	if report == nil {
		report = []aggregator.MonthlyUsage{}
	}
	return f.encode(w, monthlyReport{Monthly: report, Totals: totals})
}

// FormatSessions implements Formatter.FormatSessions.
func (f *jsonFormatter) FormatSessions(w io.Writer, report []aggregator.SessionUsage, totals aggregator.Totals) error {
	if report == nil {
		report = []aggregator.SessionUsage{}
	}
	return f.encode(w, sessionReport{Sessions: report, Totals: totals})
}

// FormatBlocks implements Formatter.FormatBlocks.
func (f *jsonFormatter) FormatBlocks(w io.Writer, report []blocks.SessionBlock) error {
	if report == nil {
		report = []blocks.SessionBlock{}
	}
	return f.encode(w, blocksReport{Blocks: report})
}
