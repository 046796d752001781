package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/0xmhha/ccusage/pkg/aggregator"
	"github.com/0xmhha/ccusage/pkg/blocks"
	"github.com/0xmhha/ccusage/pkg/parser"
	"github.com/0xmhha/ccusage/pkg/usage"
)

// sampleDaily builds a one-bucket daily report.
func sampleDaily() ([]aggregator.DailyUsage, aggregator.Totals) {
	entries := []usage.LoadedEntry{
		{
			Timestamp: time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC),
			Model:     usage.NewModelName("claude-sonnet-4-20250514"),
			Tokens:    parser.TokenCounts{InputTokens: 1200, OutputTokens: 300},
			Cost:      decimal.RequireFromString("0.05"),
			SessionID: usage.NewSessionID("s1"),
			Project:   usage.NewProjectName("p1"),
		},
	}
	return aggregator.Daily(entries, usage.SortAsc), aggregator.Sum(entries)
}

func TestFormatterSelection(t *testing.T) {
	t.Parallel()

	if _, ok := New(Config{Format: FormatJSON}).(*jsonFormatter); !ok {
		t.Error("FormatJSON should build a jsonFormatter")
	}
	if _, ok := New(Config{Format: FormatTable}).(*tableFormatter); !ok {
		t.Error("FormatTable should build a tableFormatter")
	}
	if _, ok := New(Config{}).(*tableFormatter); !ok {
		t.Error("empty format should default to table")
	}
}

func TestTableDaily(t *testing.T) {
	t.Parallel()

	report, totals := sampleDaily()

	var buf bytes.Buffer
	f := New(Config{Format: FormatTable})
	if err := f.FormatDaily(&buf, report, totals); err != nil {
		t.Fatalf("FormatDaily() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"2025-01-14", "claude-sonnet-4-20250514", "1,200", "1,500", "$0.05", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableDailyEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := New(Config{Format: FormatTable})
	if err := f.FormatDaily(&buf, nil, aggregator.Totals{}); err != nil {
		t.Fatalf("FormatDaily() error: %v", err)
	}

	if !strings.Contains(buf.String(), noDataMessage) {
		t.Errorf("empty report output = %q, want %q", buf.String(), noDataMessage)
	}
}

func TestTableBreakdownRows(t *testing.T) {
	t.Parallel()

	report, totals := sampleDaily()

	var buf bytes.Buffer
	f := New(Config{Format: FormatTable, ShowBreakdowns: true})
	if err := f.FormatDaily(&buf, report, totals); err != nil {
		t.Fatalf("FormatDaily() error: %v", err)
	}

	if !strings.Contains(buf.String(), "\u2514") {
		t.Errorf("breakdown rows missing from output:\n%s", buf.String())
	}
}

func TestJSONDaily(t *testing.T) {
	t.Parallel()

	report, totals := sampleDaily()

	var buf bytes.Buffer
	f := New(Config{Format: FormatJSON})
	if err := f.FormatDaily(&buf, report, totals); err != nil {
		t.Fatalf("FormatDaily() error: %v", err)
	}

	var decoded struct {
		Daily []struct {
			Date        string `json:"date"`
			InputTokens int64  `json:"inputTokens"`
			TotalCost   string `json:"totalCost"`
		} `json:"daily"`
		Totals struct {
			InputTokens int64 `json:"inputTokens"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if len(decoded.Daily) != 1 {
		t.Fatalf("daily = %d buckets, want 1", len(decoded.Daily))
	}
	if decoded.Daily[0].Date != "2025-01-14" {
		t.Errorf("date = %s, want 2025-01-14", decoded.Daily[0].Date)
	}
	if decoded.Daily[0].InputTokens != 1200 {
		t.Errorf("inputTokens = %d, want 1200", decoded.Daily[0].InputTokens)
	}
	if decoded.Daily[0].TotalCost != "0.05" {
		t.Errorf("totalCost = %s, want 0.05", decoded.Daily[0].TotalCost)
	}
	if decoded.Totals.InputTokens != 1200 {
		t.Errorf("totals inputTokens = %d, want 1200", decoded.Totals.InputTokens)
	}
}

func TestJSONDailyEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := New(Config{Format: FormatJSON})
	if err := f.FormatDaily(&buf, nil, aggregator.Totals{}); err != nil {
		t.Fatalf("FormatDaily() error: %v", err)
	}

	if !strings.Contains(buf.String(), `"daily": []`) {
		t.Errorf("empty report should encode an empty array:\n%s", buf.String())
	}
}

func TestJSONBlocks(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC)
	all := blocks.IdentifyAt([]usage.LoadedEntry{
		{
			Timestamp: t0,
			Model:     usage.NewModelName("m"),
			Tokens:    parser.TokenCounts{InputTokens: 10},
			Cost:      decimal.RequireFromString("0.01"),
		},
	}, 0, t0.Add(24*time.Hour))

	var buf bytes.Buffer
	f := New(Config{Format: FormatJSON})
	if err := f.FormatBlocks(&buf, all); err != nil {
		t.Fatalf("FormatBlocks() error: %v", err)
	}

	var decoded struct {
		Blocks []struct {
			ID        string `json:"id"`
			StartTime string `json:"startTime"`
			IsActive  bool   `json:"isActive"`
			IsGap     bool   `json:"isGap"`
		} `json:"blocks"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(decoded.Blocks))
	}
	if decoded.Blocks[0].ID != "2025-01-14T10:00:00Z" {
		t.Errorf("id = %s, want 2025-01-14T10:00:00Z", decoded.Blocks[0].ID)
	}
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		if got := formatNumber(tt.n); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatAbbrev(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1200, "1.2K"},
		{2000, "2K"},
		{3_400_000, "3.4M"},
	}

	for _, tt := range tests {
		if got := formatAbbrev(tt.n); got != tt.want {
			t.Errorf("formatAbbrev(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRenderStatusline(t *testing.T) {
	t.Parallel()

	active := blocks.Statusline{
		Active:      true,
		TotalTokens: 1200,
		CostUSD:     decimal.RequireFromString("0.05"),
	}

	tests := []struct {
		name  string
		line  blocks.Statusline
		style StatuslineStyle
		want  string
	}{
		{name: "compact", line: active, style: StatuslineCompact, want: "1.2K tokens | $0.05\n"},
		{name: "minimal", line: active, style: StatuslineMinimal, want: "$0.05\n"},
		{name: "tokens", line: active, style: StatuslineTokens, want: "1.2K tokens\n"},
		{name: "no session compact", line: blocks.Statusline{}, style: StatuslineCompact, want: "No active session\n"},
		{name: "no session minimal", line: blocks.Statusline{}, style: StatuslineMinimal, want: "$0.00\n"},
		{name: "no session tokens", line: blocks.Statusline{}, style: StatuslineTokens, want: "0\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := RenderStatusline(&buf, tt.line, tt.style); err != nil {
				t.Fatalf("RenderStatusline() error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
