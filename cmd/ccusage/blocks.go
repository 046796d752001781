package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xmhha/ccusage/pkg/blocks"
)

// tokenLimitMax asks for the limit to be inferred from past blocks.
const tokenLimitMax = "max"

// newBlocksCmd reports usage per 5-hour billing block.
func newBlocksCmd(a *app) *cobra.Command {
	var (
		activeOnly bool
		recentOnly bool
		tokenLimit string
	)

	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Report usage per 5-hour billing block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				entries, err := a.loadEntries(ctx)
				if err != nil {
					return err
				}

				all := blocks.Identify(entries, 0)

				limit, err := resolveTokenLimit(tokenLimit, a.cfg.Report.TokenLimit, all)
				if err != nil {
					return err
				}
				if limit > 0 {
					all = blocks.Identify(entries, limit)
				}

				now := time.Now().UTC()
				switch {
				case activeOnly:
					all = blocks.FilterActive(all)
				case recentOnly:
					all = blocks.FilterRecent(all, now)
				}

				return a.output(func(w io.Writer) error {
					return a.formatter().FormatBlocks(w, all)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "show only the active block")
	cmd.Flags().BoolVar(&recentOnly, "recent", false, "show blocks from the last 3 days plus the active one")
	cmd.Flags().StringVar(&tokenLimit, "token-limit", "", "token limit for quota projection (a number, or \"max\" for the largest past block)")

	return cmd
}

// resolveTokenLimit turns the flag value into a concrete limit. The
// config default applies when the flag is unset; "max" uses the
// largest completed block as the ceiling.
func resolveTokenLimit(flagValue string, configDefault int64, all []blocks.SessionBlock) (int64, error) {
	if flagValue == "" {
		return configDefault, nil
	}

	if strings.EqualFold(flagValue, tokenLimitMax) {
		return maxBlockTokens(all), nil
	}

	limit, err := strconv.ParseInt(flagValue, 10, 64)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("invalid --token-limit %q", flagValue)
	}
	return limit, nil
}

// maxBlockTokens finds the largest token total among non-gap blocks.
func maxBlockTokens(all []blocks.SessionBlock) int64 {
	var max int64
	for i := range all {
		if all[i].IsGap {
			continue
		}
		if t := all[i].TotalTokens(); t > max {
			max = t
		}
	}
	return max
}
