package aggregator

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/0xmhha/ccusage/pkg/parser"
	"github.com/0xmhha/ccusage/pkg/usage"
)

// entry builds one loaded entry for aggregation tests.
func entry(ts string, model string, tokens parser.TokenCounts, cost string, session, project string) usage.LoadedEntry {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return usage.LoadedEntry{
		Timestamp: parsed.UTC(),
		Model:     usage.NewModelName(model),
		Tokens:    tokens,
		Cost:      decimal.RequireFromString(cost),
		SessionID: usage.NewSessionID(session),
		Project:   usage.NewProjectName(project),
		Version:   "1.0.0",
	}
}

func TestDailySingleBucket(t *testing.T) {
	t.Parallel()

	entries := []usage.LoadedEntry{
		entry("2025-01-14T08:00:00Z", "claude-sonnet-4-20250514",
			parser.TokenCounts{InputTokens: 100}, "0.10", "s1", "p1"),
		entry("2025-01-14T12:00:00Z", "claude-sonnet-4-20250514",
			parser.TokenCounts{OutputTokens: 50}, "0.20", "s1", "p1"),
		entry("2025-01-14T18:00:00Z", "claude-opus-4-20250514",
			parser.TokenCounts{CacheCreationInputTokens: 10, CacheReadInputTokens: 5}, "0.30", "s1", "p1"),
	}

	report := Daily(entries, usage.SortAsc)

	if len(report) != 1 {
		t.Fatalf("Daily() returned %d buckets, want 1", len(report))
	}

	day := report[0]
	if day.Date.String() != "2025-01-14" {
		t.Errorf("Date = %s, want 2025-01-14", day.Date.String())
	}
	if day.InputTokens != 100 || day.OutputTokens != 50 ||
		day.CacheCreationTokens != 10 || day.CacheReadTokens != 5 {
		t.Errorf("counts = %d/%d/%d/%d, want 100/50/10/5",
			day.InputTokens, day.OutputTokens, day.CacheCreationTokens, day.CacheReadTokens)
	}
	if day.Total() != 165 {
		t.Errorf("Total = %d, want 165", day.Total())
	}
	if !day.TotalCost.Equal(decimal.RequireFromString("0.60")) {
		t.Errorf("TotalCost = %s, want 0.60", day.TotalCost)
	}
	if len(day.ModelsUsed) != 2 {
		t.Errorf("ModelsUsed = %v, want 2 models", day.ModelsUsed)
	}
}

func TestDailyBucketConservation(t *testing.T) {
	t.Parallel()

	entries := []usage.LoadedEntry{
		entry("2025-01-14T08:00:00Z", "m1", parser.TokenCounts{InputTokens: 11, OutputTokens: 7}, "0.01", "s1", "p1"),
		entry("2025-01-15T08:00:00Z", "m2", parser.TokenCounts{InputTokens: 13, CacheReadInputTokens: 3}, "0.02", "s2", "p1"),
		entry("2025-01-20T08:00:00Z", "m1", parser.TokenCounts{OutputTokens: 29}, "0.04", "s3", "p2"),
	}

	report := Daily(entries, usage.SortAsc)
	totals := Sum(entries)

	var bucketTokens int64
	bucketCost := decimal.Zero
	for _, day := range report {
		bucketTokens += day.Total()
		bucketCost = bucketCost.Add(day.TotalCost)
	}

	if bucketTokens != totals.Total() {
		t.Errorf("bucket token sum = %d, totals = %d", bucketTokens, totals.Total())
	}
	if !bucketCost.Equal(totals.TotalCost) {
		t.Errorf("bucket cost sum = %s, totals = %s", bucketCost, totals.TotalCost)
	}
}

func TestDailySortOrder(t *testing.T) {
	t.Parallel()

	entries := []usage.LoadedEntry{
		entry("2025-01-15T08:00:00Z", "m", parser.TokenCounts{InputTokens: 1}, "0", "s", "p"),
		entry("2025-01-13T08:00:00Z", "m", parser.TokenCounts{InputTokens: 1}, "0", "s", "p"),
		entry("2025-01-14T08:00:00Z", "m", parser.TokenCounts{InputTokens: 1}, "0", "s", "p"),
	}

	asc := Daily(entries, usage.SortAsc)
	if asc[0].Date.String() != "2025-01-13" || asc[2].Date.String() != "2025-01-15" {
		t.Errorf("asc order wrong: %s .. %s", asc[0].Date.String(), asc[2].Date.String())
	}

	desc := Daily(entries, usage.SortDesc)
	if desc[0].Date.String() != "2025-01-15" || desc[2].Date.String() != "2025-01-13" {
		t.Errorf("desc order wrong: %s .. %s", desc[0].Date.String(), desc[2].Date.String())
	}
}

func TestWeeklyMondayAnchor(t *testing.T) {
	t.Parallel()

	// 2025-01-15 is a Wednesday, 2025-01-19 a Sunday; both belong to
	// the week of Monday 2025-01-13. Monday itself stays put.
	tests := []struct {
		ts   string
		want string
	}{
		{"2025-01-15T10:00:00Z", "2025-01-13"},
		{"2025-01-19T23:59:00Z", "2025-01-13"},
		{"2025-01-13T00:00:00Z", "2025-01-13"},
		{"2025-01-20T00:00:00Z", "2025-01-20"},
	}

	for _, tt := range tests {
		ts, _ := time.Parse(time.RFC3339, tt.ts)
		if got := NewWeeklyDate(ts).String(); got != tt.want {
			t.Errorf("NewWeeklyDate(%s) = %s, want %s", tt.ts, got, tt.want)
		}
	}
}

func TestWeeklyGroupsAcrossDays(t *testing.T) {
	t.Parallel()

	entries := []usage.LoadedEntry{
		entry("2025-01-15T08:00:00Z", "m", parser.TokenCounts{InputTokens: 1}, "0.01", "s", "p"),
		entry("2025-01-19T08:00:00Z", "m", parser.TokenCounts{InputTokens: 2}, "0.02", "s", "p"),
		entry("2025-01-20T08:00:00Z", "m", parser.TokenCounts{InputTokens: 4}, "0.04", "s", "p"),
	}

	report := Weekly(entries, usage.SortAsc)

	if len(report) != 2 {
		t.Fatalf("Weekly() returned %d buckets, want 2", len(report))
	}
	if report[0].InputTokens != 3 {
		t.Errorf("first week input = %d, want 3", report[0].InputTokens)
	}
	if report[1].InputTokens != 4 {
		t.Errorf("second week input = %d, want 4", report[1].InputTokens)
	}
}

func TestMonthlyKey(t *testing.T) {
	t.Parallel()

	entries := []usage.LoadedEntry{
		entry("2025-01-31T23:00:00Z", "m", parser.TokenCounts{InputTokens: 1}, "0.01", "s", "p"),
		entry("2025-02-01T01:00:00Z", "m", parser.TokenCounts{InputTokens: 2}, "0.02", "s", "p"),
	}

	report := Monthly(entries, usage.SortAsc)

	if len(report) != 2 {
		t.Fatalf("Monthly() returned %d buckets, want 2", len(report))
	}
	if report[0].Date.String() != "2025-01" || report[1].Date.String() != "2025-02" {
		t.Errorf("months = %s, %s; want 2025-01, 2025-02",
			report[0].Date.String(), report[1].Date.String())
	}
}

func TestSessions(t *testing.T) {
	t.Parallel()

	entries := []usage.LoadedEntry{
		entry("2025-01-14T08:00:00Z", "m1", parser.TokenCounts{InputTokens: 10}, "0.10", "s1", "p1"),
		entry("2025-01-16T08:00:00Z", "m2", parser.TokenCounts{InputTokens: 20}, "0.20", "s1", "p1"),
		entry("2025-01-15T08:00:00Z", "m1", parser.TokenCounts{InputTokens: 30}, "0.30", "s2", "p2"),
		// No session id; cannot be attributed.
		entry("2025-01-15T09:00:00Z", "m1", parser.TokenCounts{InputTokens: 40}, "0.40", "", "p2"),
	}

	report := Sessions(entries, usage.SortAsc)

	if len(report) != 2 {
		t.Fatalf("Sessions() returned %d sessions, want 2", len(report))
	}

	// Ascending by last activity: s2 (Jan 15) before s1 (Jan 16).
	if report[0].SessionID.String() != "s2" {
		t.Errorf("first session = %s, want s2", report[0].SessionID.String())
	}

	s1 := report[1]
	if s1.InputTokens != 30 {
		t.Errorf("s1 input = %d, want 30", s1.InputTokens)
	}
	if s1.LastActivity.String() != "2025-01-16" {
		t.Errorf("s1 last activity = %s, want 2025-01-16", s1.LastActivity.String())
	}
	if s1.ProjectPath.String() != "p1" {
		t.Errorf("s1 project = %s, want p1", s1.ProjectPath.String())
	}
	if len(s1.ModelsUsed) != 2 {
		t.Errorf("s1 models = %v, want 2", s1.ModelsUsed)
	}
}

func TestBreakdownsSortedByCostDesc(t *testing.T) {
	t.Parallel()

	entries := []usage.LoadedEntry{
		entry("2025-01-14T08:00:00Z", "cheap", parser.TokenCounts{InputTokens: 1}, "0.01", "s", "p"),
		entry("2025-01-14T09:00:00Z", "pricey", parser.TokenCounts{InputTokens: 1}, "5.00", "s", "p"),
		entry("2025-01-14T10:00:00Z", "middle", parser.TokenCounts{InputTokens: 1}, "1.00", "s", "p"),
	}

	report := Daily(entries, usage.SortAsc)
	breakdowns := report[0].ModelBreakdowns

	if len(breakdowns) != 3 {
		t.Fatalf("breakdowns = %d, want 3", len(breakdowns))
	}

	wantOrder := []string{"pricey", "middle", "cheap"}
	for i, want := range wantOrder {
		if breakdowns[i].ModelName.String() != want {
			t.Errorf("breakdown[%d] = %s, want %s", i, breakdowns[i].ModelName.String(), want)
		}
	}
}

func TestModelsUsedSortedUnique(t *testing.T) {
	t.Parallel()

	entries := []usage.LoadedEntry{
		entry("2025-01-14T08:00:00Z", "zeta", parser.TokenCounts{InputTokens: 1}, "0", "s", "p"),
		entry("2025-01-14T09:00:00Z", "alpha", parser.TokenCounts{InputTokens: 1}, "0", "s", "p"),
		entry("2025-01-14T10:00:00Z", "zeta", parser.TokenCounts{InputTokens: 1}, "0", "s", "p"),
	}

	report := Daily(entries, usage.SortAsc)
	models := report[0].ModelsUsed

	if len(models) != 2 {
		t.Fatalf("ModelsUsed = %v, want 2 unique models", models)
	}
	if models[0].String() != "alpha" || models[1].String() != "zeta" {
		t.Errorf("ModelsUsed = %v, want [alpha zeta]", models)
	}
}

func TestSumEmpty(t *testing.T) {
	t.Parallel()

	totals := Sum(nil)
	if totals.Total() != 0 {
		t.Errorf("Total = %d, want 0", totals.Total())
	}
	if !totals.TotalCost.IsZero() {
		t.Errorf("TotalCost = %s, want 0", totals.TotalCost)
	}
}

func TestDailyJSONRoundTrip(t *testing.T) {
	t.Parallel()

	entries := []usage.LoadedEntry{
		entry("2025-01-14T08:00:00Z", "claude-sonnet-4-20250514",
			parser.TokenCounts{InputTokens: 100, CacheReadInputTokens: 7}, "0.123456789", "s1", "p1"),
		entry("2025-01-14T12:00:00Z", "claude-opus-4-20250514",
			parser.TokenCounts{OutputTokens: 50}, "0.000000001", "s1", "p1"),
	}

	report := Daily(entries, usage.SortAsc)

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var decoded []DailyUsage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if len(decoded) != len(report) {
		t.Fatalf("decoded %d buckets, want %d", len(decoded), len(report))
	}

	for i := range report {
		want, got := report[i], decoded[i]
		if got.Date.String() != want.Date.String() {
			t.Errorf("Date = %s, want %s", got.Date, want.Date)
		}
		if got.AggregatedTokenCounts != want.AggregatedTokenCounts {
			t.Errorf("tokens = %+v, want %+v", got.AggregatedTokenCounts, want.AggregatedTokenCounts)
		}
		if !got.TotalCost.Equal(want.TotalCost) {
			t.Errorf("TotalCost = %s, want %s", got.TotalCost, want.TotalCost)
		}
		if len(got.ModelsUsed) != len(want.ModelsUsed) {
			t.Fatalf("ModelsUsed = %v, want %v", got.ModelsUsed, want.ModelsUsed)
		}
		for j := range want.ModelsUsed {
			if got.ModelsUsed[j] != want.ModelsUsed[j] {
				t.Errorf("ModelsUsed[%d] = %v, want %v", j, got.ModelsUsed[j], want.ModelsUsed[j])
			}
		}
		if len(got.ModelBreakdowns) != len(want.ModelBreakdowns) {
			t.Fatalf("ModelBreakdowns = %v, want %v", got.ModelBreakdowns, want.ModelBreakdowns)
		}
		for j := range want.ModelBreakdowns {
			wb, gb := want.ModelBreakdowns[j], got.ModelBreakdowns[j]
			if gb.ModelName != wb.ModelName {
				t.Errorf("breakdown model = %v, want %v", gb.ModelName, wb.ModelName)
			}
			if gb.AggregatedTokenCounts != wb.AggregatedTokenCounts {
				t.Errorf("breakdown tokens = %+v, want %+v", gb.AggregatedTokenCounts, wb.AggregatedTokenCounts)
			}
			if !gb.Cost.Equal(wb.Cost) {
				t.Errorf("breakdown cost = %s, want %s", gb.Cost, wb.Cost)
			}
		}
	}
}

func TestSessionJSONRoundTrip(t *testing.T) {
	t.Parallel()

	entries := []usage.LoadedEntry{
		entry("2025-01-14T08:00:00Z", "claude-sonnet-4-20250514",
			parser.TokenCounts{InputTokens: 100}, "0.123456789", "s1", "p1"),
		entry("2025-01-16T09:00:00Z", "claude-sonnet-4-20250514",
			parser.TokenCounts{OutputTokens: 30}, "0.05", "s1", "p1"),
	}

	report := Sessions(entries, usage.SortAsc)

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var decoded []SessionUsage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if len(decoded) != 1 {
		t.Fatalf("decoded %d sessions, want 1", len(decoded))
	}

	want, got := report[0], decoded[0]
	if got.SessionID != want.SessionID {
		t.Errorf("SessionID = %v, want %v", got.SessionID, want.SessionID)
	}
	if got.ProjectPath != want.ProjectPath {
		t.Errorf("ProjectPath = %v, want %v", got.ProjectPath, want.ProjectPath)
	}
	if got.AggregatedTokenCounts != want.AggregatedTokenCounts {
		t.Errorf("tokens = %+v, want %+v", got.AggregatedTokenCounts, want.AggregatedTokenCounts)
	}
	if !got.TotalCost.Equal(want.TotalCost) {
		t.Errorf("TotalCost = %s, want %s", got.TotalCost, want.TotalCost)
	}
	if got.LastActivity.String() != want.LastActivity.String() {
		t.Errorf("LastActivity = %s, want %s", got.LastActivity, want.LastActivity)
	}
}
