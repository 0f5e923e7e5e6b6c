package app

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/catalog"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/langdetect"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/language"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/translation"
)

type validateResult struct {
	Scanned  int
	Valid    int
	Invalid  int
	Units    int
	Warnings int
}

func runValidate(args []string) int {
	flagSet := flag.NewFlagSet("validate", flag.ContinueOnError)
	flagSet.SetOutput(os.Stderr)

	dir := flagSet.String("dir", "", "Directory containing .json unit files (instead of file arguments)")
	recursive := flagSet.Bool("recursive", true, "Recursively scan subdirectories of --dir")
	canonical := flagSet.String("canonical", "tr", "Language the unit texts are expected to be written in")
	detectLangs := flagSet.String("detect", "tr,en,de,fr,ar,ru", "Languages the detector chooses from")
	minConfidence := flagSet.Float64("min-confidence", 0.8, "Detector confidence needed to warn about a language mismatch")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	canonicalLang := language.NormalizeCode(*canonical)
	if canonicalLang == "" {
		fmt.Fprintln(os.Stderr, "--canonical must be a valid language code")
		return 2
	}

	var files []string
	switch {
	case strings.TrimSpace(*dir) != "" && flagSet.NArg() > 0:
		fmt.Fprintln(os.Stderr, "use either --dir or file arguments, not both")
		return 2
	case strings.TrimSpace(*dir) != "":
		collected, err := collectJSONFiles(strings.TrimSpace(*dir), *recursive)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Validation setup failed: %v\n", err)
			return 1
		}
		files = collected
	default:
		files = flagSet.Args()
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Validation failed: no unit files given")
		return 1
	}

	detector := langdetect.NewDetector(append(language.SplitCodes(*detectLangs), canonicalLang))

	result := validateResult{}
	for _, path := range files {
		result.Scanned++

		units, err := catalog.LoadUnitsFile(path)
		if err != nil {
			result.Invalid++
			fmt.Fprintf(os.Stderr, "INVALID %v\n", err)
			continue
		}
		result.Valid++
		result.Units += len(units)

		for _, warning := range unitWarnings(units, detector, canonicalLang, *minConfidence) {
			result.Warnings++
			fmt.Fprintf(os.Stderr, "WARN %s: %s\n", path, warning)
		}
	}

	fmt.Printf(
		"validate scanned=%d valid=%d invalid=%d units=%d warnings=%d canonical=%s\n",
		result.Scanned,
		result.Valid,
		result.Invalid,
		result.Units,
		result.Warnings,
		canonicalLang,
	)

	if result.Invalid > 0 {
		return 1
	}
	return 0
}

// unitWarnings flags unknown entities and texts that look like they were
// written in another language than the canonical one.
func unitWarnings(units []translation.Unit, detector *langdetect.Detector, canonicalLang string, minConfidence float64) []string {
	var warnings []string
	for _, unit := range units {
		if err := catalog.ValidateKey(unit.Key); errors.Is(err, catalog.ErrUnknownEntity) {
			warnings = append(warnings, fmt.Sprintf("%s: %v", unit.Key, err))
		}
		if strings.TrimSpace(unit.Text) == "" {
			warnings = append(warnings, fmt.Sprintf("%s: text is empty and will be skipped", unit.Key))
			continue
		}
		if detection, mismatch := detector.Mismatch(unit.Text, canonicalLang, minConfidence); mismatch {
			warnings = append(warnings, fmt.Sprintf(
				"%s: text looks like %s (confidence %.2f), expected %s",
				unit.Key,
				detection.Code,
				detection.Confidence,
				canonicalLang,
			))
		}
	}
	return warnings
}

func collectJSONFiles(root string, recursive bool) ([]string, error) {
	cleanRoot := strings.TrimSpace(root)
	if cleanRoot == "" {
		return nil, fmt.Errorf("directory path is empty")
	}

	info, err := os.Stat(cleanRoot)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", cleanRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", cleanRoot)
	}

	var files []string
	if !recursive {
		entries, err := os.ReadDir(cleanRoot)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", cleanRoot, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
				files = append(files, filepath.Join(cleanRoot, entry.Name()))
			}
		}
		sort.Strings(files)
		return files, nil
	}

	err = filepath.WalkDir(cleanRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != cleanRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", cleanRoot, err)
	}

	sort.Strings(files)
	return files, nil
}
