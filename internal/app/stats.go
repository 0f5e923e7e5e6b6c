package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/cli"
)

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
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
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "stats does not accept positional arguments")
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

	counts, err := pool.CountTranslationsByLanguage(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query translation stats: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(counts); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	var total int64
	rows := make([][]string, 0, len(counts)+1)
	for _, row := range counts {
		total += row.Rows
		rows = append(rows, []string{row.LanguageCode, fmt.Sprintf("%d", row.Rows)})
	}
	rows = append(rows, []string{"TOTAL", fmt.Sprintf("%d", total)})

	if err := writeTable([]string{"language", "rows"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table: %v\n", err)
		return 1
	}
	return 0
}
