package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/translation"
)

func runLanguages(args []string) int {
	fs := flag.NewFlagSet("languages", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	registry, err := translation.NewRegistryFromSettings(translation.ProviderSettings{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build provider registry: %v\n", err)
		return 1
	}
	options := translation.TranslationLanguageOptions(registry)

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{
			"languages": options,
			"providers": registry.ProviderNames(),
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(options))
	for _, option := range options {
		rows = append(rows, []string{option.Code, option.Label, option.Native})
	}
	if err := writeTable([]string{"code", "label", "native"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table: %v\n", err)
		return 1
	}
	return 0
}
