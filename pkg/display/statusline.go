package display

import (
	"fmt"
	"io"

	"github.com/0xmhha/ccusage/pkg/blocks"
)

// StatuslineStyle selects the prompt-segment layout.
type StatuslineStyle string

const (
	// StatuslineCompact shows tokens and cost.
	StatuslineCompact StatuslineStyle = "compact"

	// StatuslineMinimal shows cost only.
	StatuslineMinimal StatuslineStyle = "minimal"

	// StatuslineTokens shows tokens only.
	StatuslineTokens StatuslineStyle = "tokens"
)

// RenderStatusline writes a single-line summary of the active block,
// suitable for embedding in a shell prompt.
func RenderStatusline(w io.Writer, s blocks.Statusline, style StatuslineStyle) error {
	if !s.Active {
		var err error
		switch style {
		case StatuslineMinimal:
			_, err = fmt.Fprintln(w, "$0.00")
		case StatuslineTokens:
			_, err = fmt.Fprintln(w, "0")
		default:
			_, err = fmt.Fprintln(w, "No active session")
		}
		return err
	}

	var err error
	switch style {
	case StatuslineMinimal:
		_, err = fmt.Fprintln(w, formatCost(s.CostUSD))
	case StatuslineTokens:
		_, err = fmt.Fprintf(w, "%s tokens\n", formatAbbrev(s.TotalTokens))
	default:
		line := fmt.Sprintf("%s tokens | %s", formatAbbrev(s.TotalTokens), formatCost(s.CostUSD))
		if s.NearLimit {
			line += " | near limit"
		}
		_, err = fmt.Fprintln(w, line)
	}
	return err
}
