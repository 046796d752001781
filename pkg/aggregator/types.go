// Package aggregator groups loaded usage entries into daily, weekly,
// monthly, and session buckets with per-model cost breakdowns.
//
// Aggregation is a pure function over its input slice: no state is
// held between calls and entries are never mutated.
package aggregator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/0xmhha/ccusage/pkg/parser"
	"github.com/0xmhha/ccusage/pkg/usage"
)

// DailyDate keys a daily bucket (UTC calendar date, YYYY-MM-DD).
type DailyDate struct {
	date time.Time
}

// NewDailyDate creates the daily key for a timestamp.
func NewDailyDate(ts time.Time) DailyDate {
	u := ts.UTC()
	return DailyDate{date: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// Before reports key ordering.
func (d DailyDate) Before(other DailyDate) bool { return d.date.Before(other.date) }

// String formats the key as YYYY-MM-DD.
func (d DailyDate) String() string { return d.date.Format("2006-01-02") }

// MarshalText implements encoding.TextMarshaler.
func (d DailyDate) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DailyDate) UnmarshalText(b []byte) error {
	parsed, err := time.ParseInLocation("2006-01-02", string(b), time.UTC)
	if err != nil {
		return err
	}
	d.date = parsed
	return nil
}

// WeeklyDate keys a weekly bucket: the Monday of the ISO week.
type WeeklyDate struct {
	monday time.Time
}

// NewWeeklyDate creates the weekly key for a timestamp.
func NewWeeklyDate(ts time.Time) WeeklyDate {
	u := ts.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	return WeeklyDate{monday: day.AddDate(0, 0, -offset)}
}

// Before reports key ordering.
func (w WeeklyDate) Before(other WeeklyDate) bool { return w.monday.Before(other.monday) }

// String formats the key as the Monday's YYYY-MM-DD.
func (w WeeklyDate) String() string { return w.monday.Format("2006-01-02") }

// MarshalText implements encoding.TextMarshaler.
func (w WeeklyDate) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WeeklyDate) UnmarshalText(b []byte) error {
	parsed, err := time.ParseInLocation("2006-01-02", string(b), time.UTC)
	if err != nil {
		return err
	}
	w.monday = parsed
	return nil
}

// MonthlyDate keys a monthly bucket (year, month).
type MonthlyDate struct {
	year  int
	month time.Month
}

// NewMonthlyDate creates the monthly key for a timestamp.
func NewMonthlyDate(ts time.Time) MonthlyDate {
	u := ts.UTC()
	return MonthlyDate{year: u.Year(), month: u.Month()}
}

// Before reports key ordering.
func (m MonthlyDate) Before(other MonthlyDate) bool {
	if m.year != other.year {
		return m.year < other.year
	}
	return m.month < other.month
}

// String formats the key as YYYY-MM.
func (m MonthlyDate) String() string {
	return time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// MarshalText implements encoding.TextMarshaler.
func (m MonthlyDate) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MonthlyDate) UnmarshalText(b []byte) error {
	parsed, err := time.ParseInLocation("2006-01", string(b), time.UTC)
	if err != nil {
		return err
	}
	m.year = parsed.Year()
	m.month = parsed.Month()
	return nil
}

// AggregatedTokenCounts holds summed token counters with the
// camel-case field names report consumers expect, independent of the
// raw log's snake_case names.
type AggregatedTokenCounts struct {
	InputTokens         int64 `json:"inputTokens"`
	OutputTokens        int64 `json:"outputTokens"`
	CacheCreationTokens int64 `json:"cacheCreationTokens"`
	CacheReadTokens     int64 `json:"cacheReadTokens"`
}

// AddRaw accumulates one entry's raw counters.
func (a *AggregatedTokenCounts) AddRaw(tc parser.TokenCounts) {
	a.InputTokens += tc.InputTokens
	a.OutputTokens += tc.OutputTokens
	a.CacheCreationTokens += tc.CacheCreationInputTokens
	a.CacheReadTokens += tc.CacheReadInputTokens
}

// Total returns the sum of all four counters.
func (a AggregatedTokenCounts) Total() int64 {
	return a.InputTokens + a.OutputTokens + a.CacheCreationTokens + a.CacheReadTokens
}

// ModelBreakdown is one model's slice of a bucket.
//
// Invariant: summing all breakdowns of a bucket reproduces the
// bucket's totals exactly.
type ModelBreakdown struct {
	ModelName             usage.ModelName `json:"modelName"`
	AggregatedTokenCounts                 // flattened token fields
	Cost                  decimal.Decimal `json:"cost"`
}

// DailyUsage is one day's aggregate.
type DailyUsage struct {
	Date                  DailyDate `json:"date"`
	AggregatedTokenCounts           // flattened token fields
	TotalCost             decimal.Decimal   `json:"totalCost"`
	ModelsUsed            []usage.ModelName `json:"modelsUsed"`
	ModelBreakdowns       []ModelBreakdown  `json:"modelBreakdowns"`
}

// WeeklyUsage is one ISO week's aggregate, keyed by its Monday.
type WeeklyUsage struct {
	Date                  WeeklyDate `json:"date"`
	AggregatedTokenCounts            // flattened token fields
	TotalCost             decimal.Decimal   `json:"totalCost"`
	ModelsUsed            []usage.ModelName `json:"modelsUsed"`
	ModelBreakdowns       []ModelBreakdown  `json:"modelBreakdowns"`
}

// MonthlyUsage is one calendar month's aggregate.
type MonthlyUsage struct {
	Date                  MonthlyDate `json:"date"`
	AggregatedTokenCounts             // flattened token fields
	TotalCost             decimal.Decimal   `json:"totalCost"`
	ModelsUsed            []usage.ModelName `json:"modelsUsed"`
	ModelBreakdowns       []ModelBreakdown  `json:"modelBreakdowns"`
}

// SessionUsage is one (session, project) pair's aggregate. Entries
// without a session id cannot be attributed and are excluded from
// session aggregation.
type SessionUsage struct {
	SessionID             usage.SessionID   `json:"sessionId"`
	ProjectPath           usage.ProjectName `json:"projectPath"`
	AggregatedTokenCounts                   // flattened token fields
	TotalCost             decimal.Decimal   `json:"totalCost"`
	LastActivity          DailyDate         `json:"lastActivity"`
	Versions              []string          `json:"versions"`
	ModelsUsed            []usage.ModelName `json:"modelsUsed"`
	ModelBreakdowns       []ModelBreakdown  `json:"modelBreakdowns"`
}

// Totals is the grand total over an entry sequence, used for report
// footers.
type Totals struct {
	AggregatedTokenCounts                 // flattened token fields
	TotalCost             decimal.Decimal `json:"totalCost"`
}
