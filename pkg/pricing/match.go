package pricing

import "strings"

// fuzzyRule maps a model family plus version markers to a priced model.
type fuzzyRule struct {
	family  string   // required substring ("opus", "sonnet", "haiku")
	markers []string // any-of version substrings; empty matches the family alone
	target  string   // key into staticPricing
}

// fuzzyRules is evaluated top to bottom. Rule order is an invariant,
// not an optimization: a "4-5" marker must be tested before the bare
// "4" marker or every 4.5 model would resolve to the 4.0 price.
var fuzzyRules = []fuzzyRule{
	{family: "opus", markers: []string{"4-1", "4.1"}, target: "claude-opus-4-1-20250805"},
	{family: "opus", markers: []string{"4"}, target: "claude-opus-4-20250514"},
	{family: "opus", markers: []string{"3"}, target: "claude-3-opus-20240229"},

	{family: "sonnet", markers: []string{"4-5", "4.5"}, target: "claude-sonnet-4-5-20250929"},
	{family: "sonnet", markers: []string{"4-1", "4.1"}, target: "claude-sonnet-4-1-20250805"},
	{family: "sonnet", markers: []string{"4"}, target: "claude-sonnet-4-20250514"},
	{family: "sonnet", markers: []string{"3-5", "3.5"}, target: "claude-3-5-sonnet-20241022"},

	{family: "haiku", markers: []string{"4-5", "4.5"}, target: "claude-haiku-4-5-20251001"},
	{family: "haiku", markers: []string{"3-5", "3.5"}, target: "claude-3-5-haiku-20241022"},
	{family: "haiku", markers: []string{"3"}, target: "claude-3-haiku-20240307"},
}

// matchModel maps an unrecognized model identifier to the nearest
// priced model by family keyword and version marker. Returns the
// table key and whether a rule matched.
func matchModel(name string) (string, bool) {
	lower := strings.ToLower(name)

	for _, rule := range fuzzyRules {
		if !strings.Contains(lower, rule.family) {
			continue
		}
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.target, true
			}
		}
	}

	return "", false
}
