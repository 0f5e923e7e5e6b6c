package translation

import "time"

// Outcome is the per-language result of one sync attempt.
type Outcome string

const (
	OutcomeSkipped    Outcome = "skipped"
	OutcomeTranslated Outcome = "translated"
	OutcomeFailed     Outcome = "failed"
)

// AllLanguages is the language of the single entry that reports a whole-unit failure.
const AllLanguages = "*"

// CanonicalAction describes what happened to the canonical-language row.
type CanonicalAction string

const (
	CanonicalNone      CanonicalAction = ""
	CanonicalInserted  CanonicalAction = "inserted"
	CanonicalUpdated   CanonicalAction = "updated"
	CanonicalUnchanged CanonicalAction = "unchanged"
)

// Unit is one (key, canonical text, context tag) piece of sync work.
type Unit struct {
	Key     string `json:"key"`
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
}

// LanguageResult is the outcome for one target language.
type LanguageResult struct {
	Language string  `json:"language"`
	Outcome  Outcome `json:"outcome"`
	Detail   string  `json:"detail,omitempty"`
}

// SyncReport is the result of synchronizing one unit.
type SyncReport struct {
	Key              string           `json:"key"`
	Context          string           `json:"context,omitempty"`
	NoOp             bool             `json:"no_op,omitempty"`
	CanonicalWritten bool             `json:"canonical_written"`
	CanonicalAction  CanonicalAction  `json:"canonical_action,omitempty"`
	Languages        []LanguageResult `json:"languages"`
	StartedAt        time.Time        `json:"started_at"`
	FinishedAt       time.Time        `json:"finished_at"`
}

// Failed reports whether any language entry failed.
func (r SyncReport) Failed() bool {
	for _, result := range r.Languages {
		if result.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Count returns how many language entries have the given outcome.
func (r SyncReport) Count(outcome Outcome) int {
	n := 0
	for _, result := range r.Languages {
		if result.Outcome == outcome {
			n++
		}
	}
	return n
}

func (r *SyncReport) add(lang string, outcome Outcome, detail string) {
	r.Languages = append(r.Languages, LanguageResult{
		Language: lang,
		Outcome:  outcome,
		Detail:   detail,
	})
}

// Summary aggregates a batch of reports.
type Summary struct {
	Units            int `json:"units"`
	NoOp             int `json:"no_op"`
	FailedUnits      int `json:"failed_units"`
	CanonicalWritten int `json:"canonical_written"`
	Slots            int `json:"slots"`
	Skipped          int `json:"skipped"`
	Translated       int `json:"translated"`
	Failed           int `json:"failed"`
}

func Summarize(reports []SyncReport) Summary {
	summary := Summary{Units: len(reports)}
	for _, report := range reports {
		if report.NoOp {
			summary.NoOp++
		}
		if report.CanonicalWritten {
			summary.CanonicalWritten++
		}
		if report.Failed() {
			summary.FailedUnits++
		}
		for _, result := range report.Languages {
			summary.Slots++
			switch result.Outcome {
			case OutcomeSkipped:
				summary.Skipped++
			case OutcomeTranslated:
				summary.Translated++
			case OutcomeFailed:
				summary.Failed++
			}
		}
	}
	return summary
}
