package blocks

import (
	"github.com/shopspring/decimal"

	"github.com/0xmhha/ccusage/pkg/usage"
)

// Statusline condenses the active block into the fields a prompt
// segment needs.
type Statusline struct {
	Active      bool              `json:"active"`
	TotalTokens int64             `json:"totalTokens"`
	CostUSD     decimal.Decimal   `json:"costUSD"`
	Models      []usage.ModelName `json:"models"`
	NearLimit   bool              `json:"nearLimit"`
}

// StatuslineOf summarizes the active block, if any. All-zero fields
// with Active false mean no session is in progress.
func StatuslineOf(all []SessionBlock, tokenLimit int64) Statusline {
	active := ActiveBlock(all)
	if active == nil {
		return Statusline{CostUSD: decimal.Zero, Models: []usage.ModelName{}}
	}

	return Statusline{
		Active:      true,
		TotalTokens: active.TotalTokens(),
		CostUSD:     active.CostUSD,
		Models:      active.Models,
		NearLimit:   active.IsNearLimit(tokenLimit),
	}
}
