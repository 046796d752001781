package aggregator

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/0xmhha/ccusage/pkg/usage"
)

// Daily groups entries by UTC calendar day.
func Daily(entries []usage.LoadedEntry, order usage.SortOrder) []DailyUsage {
	groups := groupBy(entries, func(e usage.LoadedEntry) DailyDate {
		return NewDailyDate(e.Timestamp)
	})

	results := make([]DailyUsage, 0, len(groups.keys))
	for _, key := range groups.keys {
		tokens, cost, models, breakdowns := summarize(groups.members[key])
		results = append(results, DailyUsage{
			Date:                  key,
			AggregatedTokenCounts: tokens,
			TotalCost:             cost,
			ModelsUsed:            models,
			ModelBreakdowns:       breakdowns,
		})
	}

	sortBuckets(results, order, func(a, b DailyUsage) bool { return a.Date.Before(b.Date) })
	return results
}

// Weekly groups entries by ISO week (Monday-anchored).
func Weekly(entries []usage.LoadedEntry, order usage.SortOrder) []WeeklyUsage {
	groups := groupBy(entries, func(e usage.LoadedEntry) WeeklyDate {
		return NewWeeklyDate(e.Timestamp)
	})

	results := make([]WeeklyUsage, 0, len(groups.keys))
	for _, key := range groups.keys {
		tokens, cost, models, breakdowns := summarize(groups.members[key])
		results = append(results, WeeklyUsage{
			Date:                  key,
			AggregatedTokenCounts: tokens,
			TotalCost:             cost,
			ModelsUsed:            models,
			ModelBreakdowns:       breakdowns,
		})
	}

	sortBuckets(results, order, func(a, b WeeklyUsage) bool { return a.Date.Before(b.Date) })
	return results
}

// Monthly groups entries by (year, month).
func Monthly(entries []usage.LoadedEntry, order usage.SortOrder) []MonthlyUsage {
	groups := groupBy(entries, func(e usage.LoadedEntry) MonthlyDate {
		return NewMonthlyDate(e.Timestamp)
	})

	results := make([]MonthlyUsage, 0, len(groups.keys))
	for _, key := range groups.keys {
		tokens, cost, models, breakdowns := summarize(groups.members[key])
		results = append(results, MonthlyUsage{
			Date:                  key,
			AggregatedTokenCounts: tokens,
			TotalCost:             cost,
			ModelsUsed:            models,
			ModelBreakdowns:       breakdowns,
		})
	}

	sortBuckets(results, order, func(a, b MonthlyUsage) bool { return a.Date.Before(b.Date) })
	return results
}

// sessionKey identifies a session bucket.
type sessionKey struct {
	session usage.SessionID
	project usage.ProjectName
}

// Sessions groups entries by (sessionId, projectPath). Entries
// lacking a session id are excluded; they cannot be attributed.
// Results are ordered by last activity.
func Sessions(entries []usage.LoadedEntry, order usage.SortOrder) []SessionUsage {
	attributable := lo.Filter(entries, func(e usage.LoadedEntry, _ int) bool {
		return !e.SessionID.IsZero()
	})

	groups := groupBy(attributable, func(e usage.LoadedEntry) sessionKey {
		return sessionKey{session: e.SessionID, project: e.Project}
	})

	results := make([]SessionUsage, 0, len(groups.keys))
	for _, key := range groups.keys {
		members := groups.members[key]
		tokens, cost, models, breakdowns := summarize(members)

		lastActivity := NewDailyDate(members[0].Timestamp)
		for _, e := range members[1:] {
			if d := NewDailyDate(e.Timestamp); lastActivity.Before(d) {
				lastActivity = d
			}
		}

		versions := lo.Uniq(lo.FilterMap(members, func(e usage.LoadedEntry, _ int) (string, bool) {
			return e.Version, e.Version != ""
		}))

		results = append(results, SessionUsage{
			SessionID:             key.session,
			ProjectPath:           key.project,
			AggregatedTokenCounts: tokens,
			TotalCost:             cost,
			LastActivity:          lastActivity,
			Versions:              versions,
			ModelsUsed:            models,
			ModelBreakdowns:       breakdowns,
		})
	}

	sortBuckets(results, order, func(a, b SessionUsage) bool {
		return a.LastActivity.Before(b.LastActivity)
	})
	return results
}

// Sum computes the grand total over an entry sequence.
func Sum(entries []usage.LoadedEntry) Totals {
	var totals Totals
	totals.TotalCost = decimal.Zero
	for _, e := range entries {
		totals.AddRaw(e.Tokens)
		totals.TotalCost = totals.TotalCost.Add(e.Cost)
	}
	return totals
}

// grouping preserves first-seen key order; grouping order is
// insertion order and irrelevant to the sorted result.
type grouping[K comparable] struct {
	keys    []K
	members map[K][]usage.LoadedEntry
}

func groupBy[K comparable](entries []usage.LoadedEntry, keyOf func(usage.LoadedEntry) K) grouping[K] {
	g := grouping[K]{members: make(map[K][]usage.LoadedEntry)}
	for _, e := range entries {
		key := keyOf(e)
		if _, seen := g.members[key]; !seen {
			g.keys = append(g.keys, key)
		}
		g.members[key] = append(g.members[key], e)
	}
	return g
}

// sortBuckets orders the final bucket list; only this ordering is
// caller-visible.
func sortBuckets[T any](buckets []T, order usage.SortOrder, less func(a, b T) bool) {
	sort.SliceStable(buckets, func(i, j int) bool {
		if order == usage.SortDesc {
			return less(buckets[j], buckets[i])
		}
		return less(buckets[i], buckets[j])
	})
}

// summarize folds a group into its totals, sorted unique model list,
// and per-model breakdowns (cost descending, ties in first-seen
// order).
func summarize(entries []usage.LoadedEntry) (AggregatedTokenCounts, decimal.Decimal, []usage.ModelName, []ModelBreakdown) {
	var totals AggregatedTokenCounts
	totalCost := decimal.Zero

	perModel := make(map[usage.ModelName]*ModelBreakdown)
	var modelOrder []usage.ModelName

	for _, e := range entries {
		totals.AddRaw(e.Tokens)
		totalCost = totalCost.Add(e.Cost)

		breakdown, seen := perModel[e.Model]
		if !seen {
			breakdown = &ModelBreakdown{ModelName: e.Model, Cost: decimal.Zero}
			perModel[e.Model] = breakdown
			modelOrder = append(modelOrder, e.Model)
		}
		breakdown.AddRaw(e.Tokens)
		breakdown.Cost = breakdown.Cost.Add(e.Cost)
	}

	breakdowns := make([]ModelBreakdown, 0, len(modelOrder))
	for _, model := range modelOrder {
		breakdowns = append(breakdowns, *perModel[model])
	}
	sort.SliceStable(breakdowns, func(i, j int) bool {
		return breakdowns[i].Cost.GreaterThan(breakdowns[j].Cost)
	})

	models := append([]usage.ModelName(nil), modelOrder...)
	sort.Slice(models, func(i, j int) bool { return models[i].String() < models[j].String() })

	return totals, totalCost, models, breakdowns
}
