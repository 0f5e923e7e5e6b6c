package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/db"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/langdetect"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/translation"
)

func TestRun_ExitCodes(t *testing.T) {
	t.Parallel()

	if code := Run(nil); code != 2 {
		t.Fatalf("expected 2 without a command, got %d", code)
	}
	if code := Run([]string{"help"}); code != 0 {
		t.Fatalf("expected 0 for help, got %d", code)
	}
	if code := Run([]string{"translate-everything"}); code != 2 {
		t.Fatalf("expected 2 for unknown command, got %d", code)
	}
	if code := Run([]string{"validate", "--no-such-flag"}); code != 2 {
		t.Fatalf("expected 2 for a bad flag, got %d", code)
	}
}

func TestRunValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "nested", "bad.json")
	writeFile(t, good, `{"units":[{"key":"ui.nav.home","text":"Ana Sayfa"},{"key":"widget.1.name","text":"Kutu"}]}`)
	writeFile(t, bad, `{"units":[{"key":"ui.nav.home","text":"Ana Sayfa"},{"key":"ui.nav.home","text":"Tekrar"}]}`)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	if code := Run([]string{"validate", "--detect", "tr", good}); code != 0 {
		t.Fatalf("expected valid file to pass, got %d", code)
	}
	if code := Run([]string{"validate", "--detect", "tr", "--dir", dir}); code != 1 {
		t.Fatalf("expected duplicate keys to fail validation, got %d", code)
	}
	if code := Run([]string{"validate", "--dir", dir, good}); code != 2 {
		t.Fatalf("expected --dir with file args to be rejected, got %d", code)
	}
}

func TestCollectJSONFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.json"), "[]")
	writeFile(t, filepath.Join(dir, "a.JSON"), "[]")
	writeFile(t, filepath.Join(dir, ".hidden.json"), "[]")
	writeFile(t, filepath.Join(dir, "sub", "c.json"), "[]")
	writeFile(t, filepath.Join(dir, ".git", "d.json"), "[]")

	flat, err := collectJSONFiles(dir, false)
	if err != nil {
		t.Fatalf("collect flat: %v", err)
	}
	if got := baseNames(flat); got != "a.JSON,b.json" {
		t.Fatalf("unexpected flat files: %s", got)
	}

	deep, err := collectJSONFiles(dir, true)
	if err != nil {
		t.Fatalf("collect recursive: %v", err)
	}
	if got := baseNames(deep); got != "a.JSON,b.json,c.json" {
		t.Fatalf("unexpected recursive files: %s", got)
	}

	if _, err := collectJSONFiles(filepath.Join(dir, "b.json"), true); err == nil {
		t.Fatalf("expected a file path to be rejected")
	}
}

func TestUnitWarnings(t *testing.T) {
	t.Parallel()

	units := []translation.Unit{
		{Key: "ui.nav.home", Text: "Ana"},
		{Key: "widget.1.name", Text: "Kutu"},
		{Key: "product.7.name", Text: "   "},
	}
	warnings := unitWarnings(units, langdetect.NewDetector([]string{"tr"}), "tr", 0.8)
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	if !strings.HasPrefix(warnings[0], "widget.1.name:") || !strings.Contains(warnings[1], "text is empty") {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestUnitsFromCanonicalRows(t *testing.T) {
	t.Parallel()

	tag := "product"
	units := unitsFromCanonicalRows([]db.TranslationRecord{
		{TranslationKey: "product.1.name", LanguageCode: "tr", SourceText: "Eski", TranslationValue: "Lamba", Context: &tag},
		{TranslationKey: "ui.nav.home", LanguageCode: "tr", TranslationValue: "Ana Sayfa"},
	})
	if len(units) != 2 {
		t.Fatalf("unexpected units: %+v", units)
	}
	if units[0].Text != "Lamba" || units[0].Context != "product" {
		t.Fatalf("canonical value must become the unit text: %+v", units[0])
	}
	if units[1].Context != "" {
		t.Fatalf("missing context must stay empty: %+v", units[1])
	}
}

func TestReadHelpers(t *testing.T) {
	t.Parallel()

	if format, err := parseOutputFormat(" JSON ", outputFormatTable); err != nil || format != outputFormatJSON {
		t.Fatalf("unexpected format: %q %v", format, err)
	}
	if format, err := parseOutputFormat("", outputFormatTable); err != nil || format != outputFormatTable {
		t.Fatalf("unexpected default format: %q %v", format, err)
	}
	if _, err := parseOutputFormat("yaml", outputFormatTable); err == nil {
		t.Fatalf("expected yaml to be rejected")
	}
	if got := truncateForTable("Sarkıt Armatür Siyah", 10); got != "Sarkıt ..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateForTable("Spot", 10); got != "Spot" {
		t.Fatalf("short values must not change: %q", got)
	}
}

func TestFailureDetails(t *testing.T) {
	t.Parallel()

	report := translation.SyncReport{
		Key: "ui.nav.home",
		Languages: []translation.LanguageResult{
			{Language: "en", Outcome: translation.OutcomeTranslated},
			{Language: "de", Outcome: translation.OutcomeFailed, Detail: "status 429"},
			{Language: "fr", Outcome: translation.OutcomeFailed, Detail: "timeout"},
		},
	}
	if got := failureDetails(report); got != "de: status 429; fr: timeout" {
		t.Fatalf("unexpected details: %q", got)
	}
}

func TestReadFirstLine(t *testing.T) {
	t.Parallel()

	line, err := readFirstLine(strings.NewReader("  token-value \nsecond\n"))
	if err != nil || line != "token-value" {
		t.Fatalf("unexpected line: %q %v", line, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func baseNames(paths []string) string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	return strings.Join(names, ",")
}
