package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/db"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/globaltime"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/language"
)

// EngineOptions fixes the language setup of an Engine.
type EngineOptions struct {
	CanonicalLanguage string
	TargetLanguages   []string
}

// RunOptions controls one sync call.
type RunOptions struct {
	// TargetLanguages overrides the engine defaults when non-empty.
	TargetLanguages []string
	// Force retranslates target rows that already exist.
	Force bool
}

// Engine keeps the canonical row of a key current and fills in missing
// target-language rows through a Translator.
type Engine struct {
	store      Store
	translator Translator
	canonical  string
	targets    []string
	logger     zerolog.Logger
}

func NewEngine(store Store, translator Translator, opts EngineOptions, logger zerolog.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("translation store is required")
	}
	if translator == nil {
		return nil, fmt.Errorf("translator is required")
	}
	canonical := normalizeLangCode(opts.CanonicalLanguage)
	if canonical == "" {
		return nil, fmt.Errorf("canonical language is required")
	}

	return &Engine{
		store:      store,
		translator: translator,
		canonical:  canonical,
		targets:    language.NormalizeCodes(opts.TargetLanguages, canonical),
		logger:     logger,
	}, nil
}

func (e *Engine) CanonicalLanguage() string { return e.canonical }

func (e *Engine) TargetLanguages() []string {
	return append([]string(nil), e.targets...)
}

// SyncOne synchronizes one unit. Blank text is a no-op. The canonical row is
// written before any target language is attempted; a failure there is returned
// as a *PersistenceError and no target is attempted. Target failures are
// recorded in the report and never stop the remaining languages. The only other
// error is ctx.Err() when the caller cancels mid-unit, returned with the partial report.
func (e *Engine) SyncOne(ctx context.Context, unit Unit, opts RunOptions) (report SyncReport, err error) {
	key := strings.TrimSpace(unit.Key)
	contextTag := strings.TrimSpace(unit.Context)
	report = SyncReport{
		Key:       key,
		Context:   contextTag,
		Languages: []LanguageResult{},
		StartedAt: globaltime.UTC(),
	}
	defer func() {
		report.FinishedAt = globaltime.UTC()
	}()

	if key == "" {
		return report, fmt.Errorf("%w: translation key is required", ErrInvalidUnit)
	}

	text := strings.TrimSpace(unit.Text)
	if text == "" {
		report.NoOp = true
		e.logger.Debug().Str("key", key).Msg("canonical text is empty, nothing to sync")
		return report, nil
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	action, err := e.syncCanonical(ctx, key, text, contextTag)
	if err != nil {
		return report, err
	}
	report.CanonicalAction = action
	report.CanonicalWritten = action == CanonicalInserted || action == CanonicalUpdated

	for _, lang := range e.resolveTargets(opts.TargetLanguages) {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := e.syncLanguage(ctx, key, text, contextTag, lang, opts.Force)
		report.Languages = append(report.Languages, result)

		if err := ctx.Err(); err != nil {
			return report, err
		}
	}

	e.logger.Info().
		Str("key", key).
		Str("canonical", string(report.CanonicalAction)).
		Int("translated", report.Count(OutcomeTranslated)).
		Int("skipped", report.Count(OutcomeSkipped)).
		Int("failed", report.Count(OutcomeFailed)).
		Msg("unit synchronized")
	return report, nil
}

func (e *Engine) resolveTargets(requested []string) []string {
	if len(requested) == 0 {
		return e.targets
	}
	return language.NormalizeCodes(requested, e.canonical)
}

// syncCanonical inserts the canonical row or overwrites it with the current text.
func (e *Engine) syncCanonical(ctx context.Context, key, text, contextTag string) (CanonicalAction, error) {
	existing, err := e.store.GetTranslation(ctx, key, e.canonical)
	if err != nil {
		return CanonicalNone, &PersistenceError{Op: "lookup", Key: key, Language: e.canonical, Err: err}
	}

	if existing == nil {
		err := e.store.InsertTranslation(ctx, db.TranslationRecord{
			TranslationKey:   key,
			LanguageCode:     e.canonical,
			SourceText:       text,
			TranslationValue: text,
			Context:          optionalString(contextTag),
		})
		if err == nil {
			return CanonicalInserted, nil
		}
		if !db.IsDuplicate(err) {
			return CanonicalNone, &PersistenceError{Op: "insert", Key: key, Language: e.canonical, Err: err}
		}
		// Another writer created the row between lookup and insert; overwrite it.
	} else if existing.SourceText == text &&
		existing.TranslationValue == text &&
		(contextTag == "" || existing.ContextTag() == contextTag) {
		return CanonicalUnchanged, nil
	}

	err = e.store.UpdateTranslation(ctx, key, e.canonical, db.TranslationUpdate{
		SourceText:       text,
		TranslationValue: text,
		Context:          optionalString(contextTag),
	})
	if err != nil {
		return CanonicalNone, &PersistenceError{Op: "update", Key: key, Language: e.canonical, Err: err}
	}
	return CanonicalUpdated, nil
}

func (e *Engine) syncLanguage(ctx context.Context, key, text, contextTag, lang string, force bool) LanguageResult {
	log := e.logger.With().Str("key", key).Str("lang", lang).Logger()

	existing, err := e.store.GetTranslation(ctx, key, lang)
	if err != nil {
		perr := &PersistenceError{Op: "lookup", Key: key, Language: lang, Err: err}
		log.Warn().Err(perr).Msg("translation lookup failed")
		return LanguageResult{Language: lang, Outcome: OutcomeFailed, Detail: perr.Error()}
	}
	if existing != nil && !force {
		log.Debug().Msg("translation exists, skipping")
		return LanguageResult{Language: lang, Outcome: OutcomeSkipped}
	}

	resp, err := e.translator.Translate(ctx, TranslateRequest{
		Text:       text,
		SourceLang: e.canonical,
		TargetLang: lang,
	})
	if err == nil && (resp == nil || strings.TrimSpace(resp.Text) == "") {
		err = &ProviderError{Provider: e.translator.Name(), Language: lang, Err: ErrEmptyTranslation}
	}
	if err != nil {
		log.Warn().Err(err).Msg("translation provider failed")
		return LanguageResult{Language: lang, Outcome: OutcomeFailed, Detail: err.Error()}
	}

	providerName := strings.TrimSpace(resp.ProviderName)
	if providerName == "" {
		providerName = e.translator.Name()
	}
	translated := strings.TrimSpace(resp.Text)

	if existing != nil {
		err := e.store.UpdateTranslation(ctx, key, lang, db.TranslationUpdate{
			SourceText:       text,
			TranslationValue: translated,
			Context:          optionalString(contextTag),
			ProviderName:     optionalString(providerName),
		})
		if err != nil {
			perr := &PersistenceError{Op: "update", Key: key, Language: lang, Err: err}
			log.Warn().Err(perr).Msg("translation update failed")
			return LanguageResult{Language: lang, Outcome: OutcomeFailed, Detail: perr.Error()}
		}
		log.Debug().Msg("translation refreshed")
		return LanguageResult{Language: lang, Outcome: OutcomeTranslated, Detail: "retranslated"}
	}

	err = e.store.InsertTranslation(ctx, db.TranslationRecord{
		TranslationKey:   key,
		LanguageCode:     lang,
		SourceText:       text,
		TranslationValue: translated,
		Context:          optionalString(contextTag),
		ProviderName:     optionalString(providerName),
	})
	if err != nil {
		if db.IsDuplicate(err) {
			log.Debug().Msg("translation created concurrently, keeping existing row")
			return LanguageResult{Language: lang, Outcome: OutcomeSkipped, Detail: "created concurrently"}
		}
		perr := &PersistenceError{Op: "insert", Key: key, Language: lang, Err: err}
		log.Warn().Err(perr).Msg("translation insert failed")
		return LanguageResult{Language: lang, Outcome: OutcomeFailed, Detail: perr.Error()}
	}

	log.Debug().Msg("translation stored")
	return LanguageResult{Language: lang, Outcome: OutcomeTranslated}
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// IsPersistenceError reports whether err carries a *PersistenceError.
func IsPersistenceError(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}
