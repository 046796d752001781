package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xmhha/ccusage/pkg/blocks"
	"github.com/0xmhha/ccusage/pkg/display"
)

// newStatuslineCmd emits a one-line summary of the active block for
// shell prompts.
func newStatuslineCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "statusline",
		Short: "Print a one-line summary of the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				entries, err := a.loadEntries(ctx)
				if err != nil {
					return err
				}

				all := blocks.Identify(entries, a.cfg.Report.TokenLimit)
				line := blocks.StatuslineOf(all, a.cfg.Report.TokenLimit)

				if a.jsonOut {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(line)
				}

				style, err := statuslineStyle(format)
				if err != nil {
					return err
				}
				return display.RenderStatusline(os.Stdout, line, style)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", string(display.StatuslineCompact), "statusline layout (compact, minimal, tokens)")

	return cmd
}

// statuslineStyle validates the layout flag.
func statuslineStyle(s string) (display.StatuslineStyle, error) {
	switch display.StatuslineStyle(s) {
	case display.StatuslineCompact, display.StatuslineMinimal, display.StatuslineTokens:
		return display.StatuslineStyle(s), nil
	default:
		return "", fmt.Errorf("unknown statusline format %q (want compact, minimal, or tokens)", s)
	}
}
