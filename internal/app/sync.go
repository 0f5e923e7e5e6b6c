package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/catalog"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/cli"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/language"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/translation"
)

// syncFlags are shared by sync and resync.
type syncFlags struct {
	envLoader *cli.EnvLoader
	timeout   *time.Duration
	langs     *string
	provider  *string
	force     *bool
	format    *string
}

func addSyncFlags(fs *flag.FlagSet) *syncFlags {
	return &syncFlags{
		envLoader: cli.AddEnvFlag(fs, ".env", "Path to the .env file"),
		timeout:   fs.Duration("timeout", 0, "Overall command timeout (0 waits until done or interrupted)"),
		langs:     fs.String("lang", "", "Comma separated target languages overriding TARGET_LANGUAGES"),
		provider:  fs.String("provider", "", "Translation provider name (http, google, local)"),
		force:     fs.Bool("force", false, "Retranslate target languages that already exist"),
		format:    fs.String("format", outputFormatTable, "Output format: table or json"),
	}
}

func (f *syncFlags) runOptions() translation.RunOptions {
	return translation.RunOptions{
		TargetLanguages: language.SplitCodes(*f.langs),
		Force:           *f.force,
	}
}

func runSync(args []string) int {
	if len(args) == 0 {
		printSyncUsage()
		return 2
	}

	target := strings.ToLower(strings.TrimSpace(args[0]))
	switch target {
	case "unit", "file":
	default:
		fmt.Fprintf(os.Stderr, "Unknown sync target: %s\n\n", args[0])
		printSyncUsage()
		return 2
	}

	fs := flag.NewFlagSet("sync "+target, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	flags := addSyncFlags(fs)
	key := fs.String("key", "", "Translation key (sync unit)")
	text := fs.String("text", "", "Canonical text (sync unit)")
	contextTag := fs.String("context", "", "Context tag, defaults to the key entity (sync unit)")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	outputFormat, err := parseOutputFormat(*flags.format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	var units []translation.Unit
	switch target {
	case "unit":
		if fs.NArg() != 0 {
			fmt.Fprintln(os.Stderr, "sync unit does not accept positional arguments")
			return 2
		}
		unitKey := strings.TrimSpace(*key)
		if unitKey == "" {
			fmt.Fprintln(os.Stderr, "--key is required")
			return 2
		}
		if _, err := catalog.ParseKey(unitKey); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --key: %v\n", err)
			return 2
		}
		unitContext := strings.TrimSpace(*contextTag)
		if unitContext == "" {
			unitContext = catalog.ContextFromKey(unitKey)
		}
		units = []translation.Unit{{Key: unitKey, Text: *text, Context: unitContext}}
	default:
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "sync file requires one unit file argument")
			printSyncUsage()
			return 2
		}
		units, err = catalog.LoadUnitsFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid unit file: %v\n", err)
			return 1
		}
	}

	cfg, err := loadEnvConfig(flags.envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := signalContext(*flags.timeout)
	defer cancel()

	rt, err := newSyncRuntime(ctx, cfg, runtimeOptions{Provider: *flags.provider})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync setup failed: %v\n", err)
		return 1
	}
	defer rt.Close()

	return executeSync(ctx, rt, units, flags.runOptions(), outputFormat)
}

// executeSync runs the driver, prints the result and maps it to an exit code.
func executeSync(ctx context.Context, rt *syncRuntime, units []translation.Unit, runOpts translation.RunOptions, outputFormat string) int {
	verbose := outputFormat == outputFormatTable && len(units) > 1
	reports, runErr := rt.driver.SyncAll(ctx, units, translation.BatchOptions{
		RunOptions: runOpts,
		Progress: func(p translation.BatchProgress) {
			if verbose {
				fmt.Fprintf(os.Stderr, "Syncing %d/%d %s...\n", p.Current, p.Total, p.Key)
			}
		},
		OnReport: rt.metrics.ObserveReport,
	})

	summary := translation.Summarize(reports)
	if err := printSyncResult(outputFormat, reports, summary); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render result: %v\n", err)
		return 1
	}

	fmt.Fprintf(
		os.Stderr,
		"sync units=%d/%d provider=%s canonical_written=%d translated=%d skipped=%d failed=%d noop=%d force=%t\n",
		summary.Units,
		len(units),
		rt.caller.Name(),
		summary.CanonicalWritten,
		summary.Translated,
		summary.Skipped,
		summary.Failed,
		summary.NoOp,
		runOpts.Force,
	)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Sync interrupted: %v\n", runErr)
		return 1
	}
	if summary.Failed > 0 {
		return 1
	}
	return 0
}

func printSyncResult(outputFormat string, reports []translation.SyncReport, summary translation.Summary) error {
	if outputFormat == outputFormatJSON {
		return printJSON(map[string]any{
			"reports": reports,
			"summary": summary,
		})
	}

	rows := make([][]string, 0, len(reports))
	for _, report := range reports {
		canonical := string(report.CanonicalAction)
		if report.NoOp {
			canonical = "noop"
		}
		rows = append(rows, []string{
			truncateForTable(report.Key, 48),
			canonical,
			fmt.Sprintf("%d", report.Count(translation.OutcomeTranslated)),
			fmt.Sprintf("%d", report.Count(translation.OutcomeSkipped)),
			fmt.Sprintf("%d", report.Count(translation.OutcomeFailed)),
			truncateForTable(failureDetails(report), 80),
		})
	}
	return writeTable([]string{"key", "canonical", "translated", "skipped", "failed", "errors"}, rows)
}

func failureDetails(report translation.SyncReport) string {
	details := make([]string, 0)
	for _, result := range report.Languages {
		if result.Outcome != translation.OutcomeFailed {
			continue
		}
		details = append(details, result.Language+": "+result.Detail)
	}
	return strings.Join(details, "; ")
}

func printSyncUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  i18nsync sync unit --key <key> --text <text> [--context <tag>] [--lang en,de] [--force] [--provider http] [--format table|json] [--env .env] [--timeout 0]")
	fmt.Fprintln(os.Stderr, "  i18nsync sync file [--lang en,de] [--force] [--provider http] [--format table|json] [--env .env] [--timeout 0] <units.json>")
}
