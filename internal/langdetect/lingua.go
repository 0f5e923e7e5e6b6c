// Package langdetect guesses the language of short catalog texts.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/language"
)

const minLetters = 6

// Detection is one guess with its confidence between 0 and 1.
type Detection struct {
	Code       string
	Confidence float64
}

// Detector only distinguishes between the languages it was built for.
// A Detector built for fewer than two known languages detects nothing.
type Detector struct {
	codes []string

	once     sync.Once
	detector lingua.LanguageDetector
	enabled  bool
	byCode   map[string]lingua.Language
}

func NewDetector(codes []string) *Detector {
	return &Detector{codes: language.NormalizeCodes(codes)}
}

// Languages returns the codes lingua knows out of the configured ones.
func (d *Detector) Languages() []string {
	d.init()
	out := make([]string, 0, len(d.byCode))
	for _, code := range d.codes {
		if _, ok := d.byCode[code]; ok {
			out = append(out, code)
		}
	}
	return out
}

// Detect returns the most likely language of text. ok is false for texts with
// too few letters or when no language can be told apart reliably.
func (d *Detector) Detect(text string) (Detection, bool) {
	sample := strings.TrimSpace(text)
	if countLetters(sample) < minLetters {
		return Detection{}, false
	}

	d.init()
	if !d.enabled {
		return Detection{}, false
	}

	detected, exists := d.detector.DetectLanguageOf(sample)
	if !exists {
		return Detection{}, false
	}

	code := strings.ToLower(detected.IsoCode639_1().String())
	if len(code) != 2 {
		return Detection{}, false
	}
	return Detection{
		Code:       code,
		Confidence: d.detector.ComputeLanguageConfidence(sample, detected),
	}, true
}

func (d *Detector) init() {
	d.once.Do(func() {
		d.byCode = make(map[string]lingua.Language, len(d.codes))
		wanted := make(map[string]struct{}, len(d.codes))
		for _, code := range d.codes {
			wanted[code] = struct{}{}
		}

		languages := make([]lingua.Language, 0, len(d.codes))
		for _, candidate := range lingua.AllLanguages() {
			code := strings.ToLower(candidate.IsoCode639_1().String())
			if _, ok := wanted[code]; !ok {
				continue
			}
			d.byCode[code] = candidate
			languages = append(languages, candidate)
		}
		if len(languages) < 2 {
			return
		}

		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			WithMinimumRelativeDistance(0.1).
			Build()
		d.enabled = true
	})
}

func countLetters(sample string) int {
	letters := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters
}

// Mismatch reports a confident detection of a language other than expected.
func (d *Detector) Mismatch(text, expected string, minConfidence float64) (Detection, bool) {
	detection, ok := d.Detect(text)
	if !ok || detection.Code == language.NormalizeCode(expected) {
		return Detection{}, false
	}
	if detection.Confidence < minConfidence {
		return Detection{}, false
	}
	return detection, true
}
