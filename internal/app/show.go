package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/cli"
)

func runShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: i18nsync show [--format table|json] [--env .env] <translation_key>")
		return 2
	}
	key := strings.TrimSpace(fs.Arg(0))
	if key == "" {
		fmt.Fprintln(os.Stderr, "translation key must not be empty")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	ctx, cancel, pool, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	rows, err := pool.ListTranslationsByKey(ctx, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load translations: %v\n", err)
		return 1
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "Translation key not found: %s\n", key)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(rows); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		tableRows = append(tableRows, []string{
			row.LanguageCode,
			truncateForTable(row.TranslationValue, 60),
			row.ContextTag(),
			pointerStringOrEmpty(row.ProviderName),
			formatUTCTimestamp(row.UpdatedAt),
		})
	}
	if err := writeTable([]string{"lang", "value", "context", "provider", "updated_at"}, tableRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table: %v\n", err)
		return 1
	}
	return 0
}
