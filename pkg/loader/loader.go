// Package loader discovers Claude Code usage logs, streams and parses
// them, resolves per-entry cost, deduplicates, filters, and yields a
// single time-ascending entry sequence.
//
// Files are processed concurrently; the dedup set is shared across
// all file workers and the result is re-sorted globally, so callers
// must not assume any per-file ordering.
package loader

import (
	"bufio"
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/0xmhha/ccusage/pkg/logger"
	"github.com/0xmhha/ccusage/pkg/parser"
	"github.com/0xmhha/ccusage/pkg/pricing"
	"github.com/0xmhha/ccusage/pkg/usage"
)

// DefaultWorkers is the default number of concurrent file workers.
const DefaultWorkers = 4

// Config contains loader configuration.
type Config struct {
	// Dirs are the search roots. Empty means DataDirs().
	Dirs []string

	// Workers caps concurrent file processing. Default: DefaultWorkers.
	Workers int
}

// Options select and shape one load operation.
type Options struct {
	// Mode governs cost resolution per entry.
	Mode usage.CostMode

	// Since and Until bound the inclusive calendar-date range (UTC).
	// Zero values leave the corresponding side unbounded.
	Since time.Time
	Until time.Time

	// Project keeps only entries from the named project when set.
	Project string
}

// Loader loads usage entries from JSONL logs.
type Loader struct {
	config   Config
	resolver *pricing.Resolver
	logger   logger.Logger
}

// New creates a loader backed by the given pricing resolver.
func New(cfg Config, resolver *pricing.Resolver, log logger.Logger) *Loader {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	return &Loader{
		config:   cfg,
		resolver: resolver,
		logger:   log,
	}
}

// Load produces the deduplicated, filtered, time-ascending entry
// sequence from all discovered log files.
//
// An empty result (no directories, no files, no surviving entries) is
// a valid state, not an error. An unreadable file or an unparsable
// timestamp on a well-formed record is fatal.
func (l *Loader) Load(ctx context.Context, opts Options) ([]usage.LoadedEntry, error) {
	if opts.Mode == "" {
		opts.Mode = usage.CostModeAuto
	}

	dirs := l.config.Dirs
	if len(dirs) == 0 {
		dirs = DataDirs()
	}

	files, err := findLogFiles(dirs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		l.logger.Debug("no log files found", "dirs", dirs)
		return nil, nil
	}

	entries, err := l.loadFiles(ctx, files, opts)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	l.logger.Info("load complete",
		"files", len(files), "entries", len(entries))
	return entries, nil
}

// fileResult is one worker's outcome for one file.
type fileResult struct {
	entries []usage.LoadedEntry
	err     error
}

// loadFiles fans file processing out over a worker pool. The dedup
// set is shared across workers.
func (l *Loader) loadFiles(ctx context.Context, files []string, opts Options) ([]usage.LoadedEntry, error) {
	workers := l.config.Workers
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan string, len(files))
	results := make(chan fileResult, len(files))
	dedup := newDedupSet()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				select {
				case <-ctx.Done():
					results <- fileResult{err: ctx.Err()}
					return
				default:
				}
				entries, err := l.loadFile(path, opts, dedup)
				results <- fileResult{entries: entries, err: err}
			}
		}()
	}

	for _, path := range files {
		jobs <- path
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []usage.LoadedEntry
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		all = append(all, res.entries...)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	l.logger.Debug("deduplication complete", "unique_keys", dedup.size())
	return all, nil
}

// pendingEntry is a parsed entry awaiting cost resolution. Parsing
// (synchronous, streaming) and cost resolution (batched per file) are
// deliberately separate stages.
type pendingEntry struct {
	entry   usage.LoadedEntry
	costUSD *float64
}

// loadFile streams one file: parse, exclude API errors, derive
// identity, dedup, filter, then resolve costs for the survivors.
func (l *Loader) loadFile(path string, opts Options, dedup *dedupSet) ([]usage.LoadedEntry, error) {
	project := projectNameFromPath(path)
	if opts.Project != "" && project != opts.Project {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			l.logger.Debug("failed to close log file", "path", path, "error", closeErr)
		}
	}()

	var pending []pendingEntry
	dropped := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, parser.InitialBufferSize), parser.MaxLineLength)

	lineNum := 0
	for scanner.Scan() {
		lineNum++

		record, parseErr := parser.ParseLine(scanner.Text())
		if parseErr != nil {
			// Malformed input must never abort the load; logs are
			// externally generated and may be partially written.
			if parseErr != parser.ErrEmptyLine {
				dropped++
			}
			continue
		}

		if record.IsAPIErrorMessage {
			continue
		}

		ts, tsErr := time.Parse(time.RFC3339, record.Timestamp)
		if tsErr != nil {
			return nil, &TimestampError{
				Path:  path,
				Line:  lineNum,
				Value: record.Timestamp,
				Err:   tsErr,
			}
		}

		model := record.Message.Model
		if model == "" {
			model = "unknown"
		}

		entry := usage.LoadedEntry{
			Timestamp: ts.UTC(),
			Model:     usage.NewModelName(model),
			Tokens:    *record.Message.Usage,
			SessionID: usage.NewSessionID(record.SessionID),
			RequestID: usage.NewRequestID(record.RequestID),
			MessageID: usage.NewMessageID(record.Message.ID),
			Project:   usage.NewProjectName(project),
			Version:   record.Version,
		}

		if !dedup.insert(entry.DedupKey()) {
			continue
		}
		if !inDateRange(entry.Timestamp, opts.Since, opts.Until) {
			continue
		}

		pending = append(pending, pendingEntry{entry: entry, costUSD: record.CostUSD})
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return nil, &LoadError{Path: path, Err: scanErr}
	}

	if dropped > 0 {
		l.logger.Debug("dropped malformed lines", "path", path, "count", dropped)
	}

	entries := make([]usage.LoadedEntry, 0, len(pending))
	for _, p := range pending {
		p.entry.Cost = l.resolveCost(opts.Mode, p.costUSD, p.entry.Model, p.entry.Tokens)
		entries = append(entries, p.entry)
	}

	return entries, nil
}

// resolveCost applies the cost mode to one entry.
func (l *Loader) resolveCost(mode usage.CostMode, costUSD *float64, model usage.ModelName, tokens parser.TokenCounts) decimal.Decimal {
	switch mode {
	case usage.CostModeDisplay:
		if costUSD != nil {
			return decimal.NewFromFloat(*costUSD)
		}
		return decimal.Zero
	case usage.CostModeCalculate:
		return l.resolver.CalculateCost(model, tokens)
	default: // auto
		if costUSD != nil {
			return decimal.NewFromFloat(*costUSD)
		}
		return l.resolver.CalculateCost(model, tokens)
	}
}

// inDateRange reports whether ts falls within the inclusive [since,
// until] calendar-date range, compared in UTC.
func inDateRange(ts, since, until time.Time) bool {
	date := dateOf(ts)
	if !since.IsZero() && date.Before(dateOf(since)) {
		return false
	}
	if !until.IsZero() && date.After(dateOf(until)) {
		return false
	}
	return true
}

// dateOf truncates a time to its UTC calendar date.
func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
