package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xmhha/ccusage/pkg/config"
	"github.com/0xmhha/ccusage/pkg/display"
	"github.com/0xmhha/ccusage/pkg/loader"
	"github.com/0xmhha/ccusage/pkg/logger"
	"github.com/0xmhha/ccusage/pkg/monitor"
	"github.com/0xmhha/ccusage/pkg/pricing"
	"github.com/0xmhha/ccusage/pkg/usage"
	"github.com/0xmhha/ccusage/pkg/watcher"
)

// dateLayouts are the accepted forms for --since and --until.
var dateLayouts = []string{"20060102", "2006-01-02"}

// app carries flag state and resolved configuration across commands.
type app struct {
	configPath string
	jsonOut    bool
	mode       string
	order      string
	since      string
	until      string
	project    string
	offline    bool
	breakdown  bool
	watch      bool
	jq         string
	allTime    bool

	cfg *config.Config
	log logger.Logger
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ccusage",
		Short:         "Analyze Claude Code usage logs",
		Long:          "ccusage reports token usage and cost from local Claude Code JSONL logs,\naggregated by day, week, month, session, or 5-hour billing block.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to configuration file")
	pf.BoolVar(&a.jsonOut, "json", false, "output JSON instead of a table")
	pf.StringVar(&a.mode, "mode", "", "cost mode (auto, calculate, display)")
	pf.StringVar(&a.order, "order", "", "bucket sort order (asc, desc)")
	pf.StringVar(&a.since, "since", "", "start date filter (YYYYMMDD)")
	pf.StringVar(&a.until, "until", "", "end date filter (YYYYMMDD)")
	pf.StringVar(&a.project, "project", "", "only include the named project")
	pf.BoolVar(&a.offline, "offline", false, "skip remote price lookups")
	pf.BoolVar(&a.breakdown, "breakdown", false, "show per-model breakdown rows")
	pf.BoolVar(&a.watch, "watch", false, "re-render when usage logs change")
	pf.StringVar(&a.jq, "jq", "", "filter JSON output through a jq expression (requires jq on PATH)")

	root.AddCommand(
		newDailyCmd(a),
		newWeeklyCmd(a),
		newMonthlyCmd(a),
		newSessionCmd(a),
		newBlocksCmd(a),
		newStatuslineCmd(a),
	)

	return root
}

// setup resolves configuration and the logger, applying flag
// overrides on top of file and environment values.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.NewLoader(a.configPath).Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Report.Mode = a.mode
	}
	if flags.Changed("order") {
		cfg.Report.Order = a.order
	}
	if flags.Changed("breakdown") {
		cfg.Report.Breakdown = a.breakdown
	}
	if flags.Changed("offline") {
		cfg.Pricing.Offline = a.offline
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Output: cfg.Logging.Output,
		Format: cfg.Logging.Format,
	})

	return nil
}

// dataDirs returns the log search roots. The environment override
// keeps its exact semantics by deferring to the loader's discovery.
func (a *app) dataDirs() []string {
	if os.Getenv(loader.EnvDataDirs) != "" {
		return loader.DataDirs()
	}
	return a.cfg.ClaudeConfigDirs
}

// loadEntries runs one full load with the active filters.
func (a *app) loadEntries(ctx context.Context) ([]usage.LoadedEntry, error) {
	opts, err := a.loadOptions()
	if err != nil {
		return nil, err
	}

	resolver := pricing.NewResolver(pricing.Config{
		Offline:     a.cfg.Pricing.Offline,
		CachePath:   a.cfg.Pricing.CachePath,
		HTTPTimeout: a.cfg.Pricing.HTTPTimeout,
	}, a.log)

	l := loader.New(loader.Config{
		Dirs:    a.dataDirs(),
		Workers: a.cfg.Performance.WorkerPoolSize,
	}, resolver, a.log)

	return l.Load(ctx, opts)
}

// loadOptions converts flag state into loader options.
func (a *app) loadOptions() (loader.Options, error) {
	mode, err := usage.ParseCostMode(a.cfg.Report.Mode)
	if err != nil {
		return loader.Options{}, err
	}

	opts := loader.Options{
		Mode:    mode,
		Project: a.project,
	}

	// --all-time overrides any configured or flagged date window.
	if !a.allTime {
		if a.since != "" {
			opts.Since, err = parseDate(a.since)
			if err != nil {
				return loader.Options{}, fmt.Errorf("invalid --since: %w", err)
			}
		}
		if a.until != "" {
			opts.Until, err = parseDate(a.until)
			if err != nil {
				return loader.Options{}, fmt.Errorf("invalid --until: %w", err)
			}
		}
	}

	return opts, nil
}

// output runs render against stdout, detouring JSON output through
// the jq expression when one was given.
func (a *app) output(render func(io.Writer) error) error {
	if !a.jsonOut || a.jq == "" {
		return render(os.Stdout)
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	return runJQ(os.Stdout, a.jq, buf.Bytes())
}

// sortOrder returns the validated bucket order.
func (a *app) sortOrder() (usage.SortOrder, error) {
	return usage.ParseSortOrder(a.cfg.Report.Order)
}

// formatter builds the output formatter for the active flags.
func (a *app) formatter() display.Formatter {
	format := display.FormatTable
	if a.jsonOut {
		format = display.FormatJSON
	}

	return display.New(display.Config{
		Format:         format,
		ShowBreakdowns: a.cfg.Report.Breakdown,
		Compact:        !a.jsonOut && display.AutoCompact(),
	})
}

// run executes render once, or in a watch loop when --watch is set.
func (a *app) run(cmd *cobra.Command, render monitor.RenderFunc) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !a.watch {
		return render(ctx)
	}

	w, err := watcher.New(watcher.Config{
		DebounceInterval: a.cfg.Watch.Debounce,
	}, a.log)
	if err != nil {
		return err
	}

	m := monitor.New(monitor.Config{
		Dirs:        a.dataDirs(),
		ClearScreen: !a.jsonOut,
	}, w, render, a.log)
	defer m.Close()

	return m.Run(ctx)
}

// parseDate parses a calendar date in either accepted layout,
// anchored to UTC.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want YYYYMMDD)", s)
}
