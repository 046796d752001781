// Package blocks reconstructs 5-hour billing blocks from the
// time-ordered entry sequence.
//
// A block opens at an entry's hour-floored timestamp and spans
// exactly five hours regardless of entry density. When the stream
// jumps past a block's window, an explicit gap block is synthesized
// for the idle interval. The last block is active while its most
// recent entry is within 30 minutes of now.
package blocks

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/0xmhha/ccusage/pkg/parser"
	"github.com/0xmhha/ccusage/pkg/usage"
)

const (
	// BlockDuration is the fixed accounting window length.
	BlockDuration = 5 * time.Hour

	// activeWindow is how recently a block's last entry must fall
	// for the block to count as active.
	activeWindow = 30 * time.Minute

	// limitWarnPercent is the quota-proximity threshold.
	limitWarnPercent = 80
)

// SessionBlock is one contiguous 5-hour billing window, or a gap
// between two of them. Blocks are immutable once returned.
type SessionBlock struct {
	// ID is the block start time in RFC 3339.
	ID string `json:"id"`

	// StartTime is the hour-floored window start.
	StartTime time.Time `json:"startTime"`

	// EndTime is StartTime + 5h for usage blocks; for gap blocks it
	// is the next real block's start.
	EndTime time.Time `json:"endTime"`

	// ActualEndTime is the last entry's timestamp, recorded only
	// once the block is no longer active (an active block's true end
	// is still unknown).
	ActualEndTime *time.Time `json:"actualEndTime,omitempty"`

	// IsActive marks the block still accumulating usage.
	IsActive bool `json:"isActive"`

	// IsGap marks a synthetic idle-interval block.
	IsGap bool `json:"isGap"`

	// TokenCounts sums the block's entries.
	TokenCounts parser.TokenCounts `json:"tokenCounts"`

	// CostUSD sums the block's entry costs.
	CostUSD decimal.Decimal `json:"costUSD"`

	// Models is the sorted, de-duplicated set of models used.
	Models []usage.ModelName `json:"models"`

	// UsageLimitResetTime projects when quota resets, set only when
	// the block crossed the warning threshold of a supplied limit.
	UsageLimitResetTime *time.Time `json:"usageLimitResetTime,omitempty"`

	// entries backs burn-rate and projection math; not serialized.
	entries []usage.LoadedEntry
}

// TotalTokens returns the block's summed token count.
func (b *SessionBlock) TotalTokens() int64 {
	return b.TokenCounts.Total()
}

// IsNearLimit reports whether the block has consumed at least 80% of
// tokenLimit.
func (b *SessionBlock) IsNearLimit(tokenLimit int64) bool {
	if tokenLimit <= 0 {
		return false
	}
	return b.TotalTokens() >= tokenLimit*limitWarnPercent/100
}

// Identify converts entries into billing blocks using the current
// wall clock for active-block detection. A token limit of zero
// disables quota projection.
func Identify(entries []usage.LoadedEntry, tokenLimit int64) []SessionBlock {
	return IdentifyAt(entries, tokenLimit, time.Now().UTC())
}

// IdentifyAt is Identify with an injectable clock.
//
// Block boundaries depend on timestamp order, so the input is sorted
// here regardless of what the caller did.
func IdentifyAt(entries []usage.LoadedEntry, tokenLimit int64, now time.Time) []SessionBlock {
	if len(entries) == 0 {
		return nil
	}

	sorted := append([]usage.LoadedEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var blocks []SessionBlock
	var current []usage.LoadedEntry
	var currentStart time.Time
	open := false

	for _, entry := range sorted {
		hour := floorToHour(entry.Timestamp)

		if !open {
			currentStart = hour
			current = append(current, entry)
			open = true
			continue
		}

		windowEnd := currentStart.Add(BlockDuration)
		if hour.Before(windowEnd) {
			current = append(current, entry)
			continue
		}

		blocks = append(blocks, finalizeBlock(currentStart, current, now, tokenLimit))

		// A sparse block still reserves its full window; the gap
		// starts only at the window end.
		if hour.After(windowEnd) {
			blocks = append(blocks, gapBlock(windowEnd, hour))
		}

		currentStart = hour
		current = []usage.LoadedEntry{entry}
	}

	if open && len(current) > 0 {
		blocks = append(blocks, finalizeBlock(currentStart, current, now, tokenLimit))
	}

	return blocks
}

// finalizeBlock seals an accumulating block. After this the block is
// never mutated.
func finalizeBlock(start time.Time, entries []usage.LoadedEntry, now time.Time, tokenLimit int64) SessionBlock {
	end := start.Add(BlockDuration)
	last := entries[len(entries)-1].Timestamp
	isActive := now.Sub(last) < activeWindow

	block := SessionBlock{
		ID:        start.Format(time.RFC3339),
		StartTime: start,
		EndTime:   end,
		IsActive:  isActive,
		CostUSD:   decimal.Zero,
		entries:   entries,
	}

	if !isActive {
		actualEnd := last
		block.ActualEndTime = &actualEnd
	}

	for _, e := range entries {
		block.TokenCounts.Add(e.Tokens)
		block.CostUSD = block.CostUSD.Add(e.Cost)
	}

	models := lo.Uniq(lo.Map(entries, func(e usage.LoadedEntry, _ int) usage.ModelName {
		return e.Model
	}))
	sort.Slice(models, func(i, j int) bool { return models[i].String() < models[j].String() })
	block.Models = models

	if tokenLimit > 0 && block.IsNearLimit(tokenLimit) {
		reset := end
		block.UsageLimitResetTime = &reset
	}

	return block
}

// gapBlock synthesizes the idle interval [start, end). Gap blocks
// never overlap real blocks.
func gapBlock(start, end time.Time) SessionBlock {
	return SessionBlock{
		ID:        start.Format(time.RFC3339),
		StartTime: start,
		EndTime:   end,
		IsGap:     true,
		CostUSD:   decimal.Zero,
		Models:    []usage.ModelName{},
	}
}

// floorToHour zeroes minutes, seconds, and sub-second precision.
func floorToHour(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), 0, 0, 0, time.UTC)
}
