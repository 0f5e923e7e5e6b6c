package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/db"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/translation"
)

// runResync replays stored canonical rows through the engine. Rows that are
// already complete are skipped without provider calls, so this is how a newly
// added target language gets filled in.
func runResync(args []string) int {
	fs := flag.NewFlagSet("resync", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	flags := addSyncFlags(fs)
	prefix := fs.String("prefix", "", "Only resync keys starting with this prefix (for example: product.)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "resync does not accept positional arguments")
		return 2
	}

	outputFormat, err := parseOutputFormat(*flags.format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
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
		fmt.Fprintf(os.Stderr, "Resync setup failed: %v\n", err)
		return 1
	}
	defer rt.Close()

	rows, err := rt.pool.ListCanonicalRecords(ctx, rt.engine.CanonicalLanguage(), strings.TrimSpace(*prefix))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load canonical rows: %v\n", err)
		return 1
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "No canonical rows found for prefix %q\n", strings.TrimSpace(*prefix))
		return 0
	}

	rt.logger.Info().
		Str("prefix", strings.TrimSpace(*prefix)).
		Int("units", len(rows)).
		Msg("resync started")

	return executeSync(ctx, rt, unitsFromCanonicalRows(rows), flags.runOptions(), outputFormat)
}

func unitsFromCanonicalRows(rows []db.TranslationRecord) []translation.Unit {
	units := make([]translation.Unit, 0, len(rows))
	for _, row := range rows {
		units = append(units, translation.Unit{
			Key:     row.TranslationKey,
			Text:    row.TranslationValue,
			Context: row.ContextTag(),
		})
	}
	return units
}
