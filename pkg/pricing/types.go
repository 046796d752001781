// Package pricing maps model identifiers to per-token prices and
// computes entry costs.
//
// Resolution order is exact table match, then fuzzy family/version
// match, then (unless offline) a remote LiteLLM price sheet, and
// finally zero cost. A failed resolution is never fatal; aggregation
// over logs with unknown models must still complete.
//
// Costs are fixed-point decimals. Floating point would accumulate
// rounding error over millions of summed entries.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/0xmhha/ccusage/pkg/parser"
)

// tokensPerPrice is the token quantity the table prices refer to.
var tokensPerPrice = decimal.NewFromInt(1_000_000)

// ModelPricing holds a model's prices in USD per 1M tokens.
type ModelPricing struct {
	Input         decimal.Decimal `json:"input"`
	Output        decimal.Decimal `json:"output"`
	CacheCreation decimal.Decimal `json:"cacheCreation"`
	CacheRead     decimal.Decimal `json:"cacheRead"`
}

// CostFor computes the cost of a token-count tuple under this pricing.
func (p ModelPricing) CostFor(tokens parser.TokenCounts) decimal.Decimal {
	cost := decimal.NewFromInt(tokens.InputTokens).Mul(p.Input)
	cost = cost.Add(decimal.NewFromInt(tokens.OutputTokens).Mul(p.Output))
	cost = cost.Add(decimal.NewFromInt(tokens.CacheCreationInputTokens).Mul(p.CacheCreation))
	cost = cost.Add(decimal.NewFromInt(tokens.CacheReadInputTokens).Mul(p.CacheRead))
	return cost.Div(tokensPerPrice)
}

// price is a table-literal helper.
func price(input, output, cacheCreation, cacheRead string) ModelPricing {
	return ModelPricing{
		Input:         decimal.RequireFromString(input),
		Output:        decimal.RequireFromString(output),
		CacheCreation: decimal.RequireFromString(cacheCreation),
		CacheRead:     decimal.RequireFromString(cacheRead),
	}
}

// staticPricing is the built-in price table, USD per 1M tokens.
// Cache creation is 1.25x input, cache read 0.1x input.
var staticPricing = map[string]ModelPricing{
	// Opus
	"claude-opus-4-20250514":   price("15.00", "75.00", "18.75", "1.50"),
	"claude-opus-4-1-20250805": price("15.00", "75.00", "18.75", "1.50"),
	"claude-3-opus-20240229":   price("15.00", "75.00", "18.75", "1.50"),

	// Sonnet
	"claude-sonnet-4-5-20250929": price("3.00", "15.00", "3.75", "0.30"),
	"claude-sonnet-4-20250514":   price("3.00", "15.00", "3.75", "0.30"),
	"claude-sonnet-4-1-20250805": price("3.00", "15.00", "3.75", "0.30"),
	"claude-3-5-sonnet-20241022": price("3.00", "15.00", "3.75", "0.30"),
	"claude-3-5-sonnet-20240620": price("3.00", "15.00", "3.75", "0.30"),

	// Haiku
	"claude-haiku-4-5-20251001": price("1.00", "5.00", "1.25", "0.10"),
	"claude-3-5-haiku-20241022": price("1.00", "5.00", "1.25", "0.10"),
	"claude-3-haiku-20240307":   price("0.25", "1.25", "0.30", "0.03"),
}
