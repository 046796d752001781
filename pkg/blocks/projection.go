package blocks

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// recentWindow bounds the default blocks view to the last few days.
const recentWindow = 3 * 24 * time.Hour

// minutesPerHour avoids repeated literal conversions in rate math.
var minutesPerHour = decimal.NewFromInt(60)

// BurnRate is the consumption speed of an in-progress block.
type BurnRate struct {
	TokensPerMinute decimal.Decimal `json:"tokensPerMinute"`
	CostPerHour     decimal.Decimal `json:"costPerHour"`
}

// BurnRate computes the block's consumption rate from its first and
// last entry. It returns false for gap blocks, single-entry blocks,
// and blocks whose entries share a timestamp.
func (b *SessionBlock) BurnRate() (BurnRate, bool) {
	if b.IsGap || len(b.entries) < 2 {
		return BurnRate{}, false
	}

	first := b.entries[0].Timestamp
	last := b.entries[len(b.entries)-1].Timestamp
	elapsed := last.Sub(first)
	if elapsed <= 0 {
		return BurnRate{}, false
	}

	minutes := decimal.NewFromFloat(elapsed.Minutes())
	tokens := decimal.NewFromInt(b.TotalTokens())

	tokensPerMinute := tokens.Div(minutes)
	costPerHour := b.CostUSD.Div(minutes).Mul(minutesPerHour)

	return BurnRate{
		TokensPerMinute: tokensPerMinute,
		CostPerHour:     costPerHour,
	}, true
}

// ProjectedEndTime estimates when an active block will hit tokenLimit
// at the current burn rate. It returns false when the block is not
// active, has no measurable rate, or already passed the limit's
// projection horizon (the block's own window end caps the estimate).
func (b *SessionBlock) ProjectedEndTime(tokenLimit int64, now time.Time) (time.Time, bool) {
	if !b.IsActive || tokenLimit <= 0 {
		return time.Time{}, false
	}

	rate, ok := b.BurnRate()
	if !ok || !rate.TokensPerMinute.IsPositive() {
		return time.Time{}, false
	}

	remaining := tokenLimit - b.TotalTokens()
	if remaining <= 0 {
		return now, true
	}

	minutesLeft := decimal.NewFromInt(remaining).Div(rate.TokensPerMinute)
	eta := now.Add(time.Duration(minutesLeft.InexactFloat64() * float64(time.Minute)))
	if eta.After(b.EndTime) {
		eta = b.EndTime
	}
	return eta, true
}

// ActiveBlock returns the block still accumulating usage, or nil.
// At most one block can be active since only the final window's last
// entry can be recent.
func ActiveBlock(all []SessionBlock) *SessionBlock {
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].IsActive {
			return &all[i]
		}
	}
	return nil
}

// FilterRecent keeps blocks that started within the last three days
// of now, plus the active block regardless of age.
func FilterRecent(all []SessionBlock, now time.Time) []SessionBlock {
	cutoff := now.Add(-recentWindow)
	return lo.Filter(all, func(b SessionBlock, _ int) bool {
		return b.IsActive || !b.StartTime.Before(cutoff)
	})
}

// FilterActive keeps only active blocks.
func FilterActive(all []SessionBlock) []SessionBlock {
	return lo.Filter(all, func(b SessionBlock, _ int) bool { return b.IsActive })
}
