package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/db"
)

type memoryStore struct {
	mu      sync.Mutex
	rows    map[string]db.TranslationRecord
	inserts []string
	updates []string

	getErr    map[string]error
	insertErr map[string]error
	updateErr map[string]error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		rows:      map[string]db.TranslationRecord{},
		getErr:    map[string]error{},
		insertErr: map[string]error{},
		updateErr: map[string]error{},
	}
}

func storeKey(key, lang string) string { return key + "|" + lang }

func (s *memoryStore) GetTranslation(_ context.Context, key, lang string) (*db.TranslationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.getErr[lang]; err != nil {
		return nil, err
	}
	row, ok := s.rows[storeKey(key, lang)]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *memoryStore) InsertTranslation(_ context.Context, row db.TranslationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.insertErr[row.LanguageCode]; err != nil {
		return err
	}
	k := storeKey(row.TranslationKey, row.LanguageCode)
	if _, exists := s.rows[k]; exists {
		return fmt.Errorf("insert %s: %w", k, db.ErrDuplicate)
	}
	s.rows[k] = row
	s.inserts = append(s.inserts, row.LanguageCode)
	return nil
}

func (s *memoryStore) UpdateTranslation(_ context.Context, key, lang string, fields db.TranslationUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateErr[lang]; err != nil {
		return err
	}
	k := storeKey(key, lang)
	row, ok := s.rows[k]
	if !ok {
		return db.ErrNoRows
	}
	row.SourceText = fields.SourceText
	row.TranslationValue = fields.TranslationValue
	if fields.Context != nil {
		row.Context = fields.Context
	}
	if fields.ProviderName != nil {
		row.ProviderName = fields.ProviderName
	}
	s.rows[k] = row
	s.updates = append(s.updates, lang)
	return nil
}

func (s *memoryStore) seed(key, lang, source, value string) {
	s.rows[storeKey(key, lang)] = db.TranslationRecord{
		TranslationKey:   key,
		LanguageCode:     lang,
		SourceText:       source,
		TranslationValue: value,
	}
}

func (s *memoryStore) value(key, lang string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[storeKey(key, lang)]
	return row.TranslationValue, ok
}

type stubTranslator struct {
	mu     sync.Mutex
	calls  []string
	fail   map[string]error
	empty  map[string]bool
	prefix string
}

func (p *stubTranslator) Name() string { return "stub" }

func (p *stubTranslator) Translate(_ context.Context, req TranslateRequest) (*TranslateResponse, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req.TargetLang)
	p.mu.Unlock()

	if err := p.fail[req.TargetLang]; err != nil {
		return nil, err
	}
	if p.empty[req.TargetLang] {
		return &TranslateResponse{Text: "  "}, nil
	}
	prefix := p.prefix
	if prefix == "" {
		prefix = strings.ToUpper(req.TargetLang)
	}
	return &TranslateResponse{
		Text:       prefix + ":" + req.Text,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
	}, nil
}

func (p *stubTranslator) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func newTestEngine(t *testing.T, store Store, translator Translator, targets ...string) *Engine {
	t.Helper()
	if len(targets) == 0 {
		targets = []string{"en", "de", "fr", "ar", "ru"}
	}
	engine, err := NewEngine(store, translator, EngineOptions{
		CanonicalLanguage: "tr",
		TargetLanguages:   targets,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func outcomes(report SyncReport) map[string]Outcome {
	out := make(map[string]Outcome, len(report.Languages))
	for _, result := range report.Languages {
		out[result.Language] = result.Outcome
	}
	return out
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, &stubTranslator{}, EngineOptions{CanonicalLanguage: "tr"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for nil store")
	}
	if _, err := NewEngine(newMemoryStore(), nil, EngineOptions{CanonicalLanguage: "tr"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for nil translator")
	}
	if _, err := NewEngine(newMemoryStore(), &stubTranslator{}, EngineOptions{}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for missing canonical language")
	}

	engine, err := NewEngine(newMemoryStore(), &stubTranslator{}, EngineOptions{
		CanonicalLanguage: "TR",
		TargetLanguages:   []string{"en", "tr", "EN", "de"},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if engine.CanonicalLanguage() != "tr" {
		t.Fatalf("unexpected canonical language: %q", engine.CanonicalLanguage())
	}
	if got := strings.Join(engine.TargetLanguages(), ","); got != "en,de" {
		t.Fatalf("unexpected target languages: %q", got)
	}
}

func TestEngine_SyncOne_FreshKey(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	translator := &stubTranslator{}
	engine := newTestEngine(t, store, translator)

	report, err := engine.SyncOne(context.Background(), Unit{Key: "ui.nav.home", Text: "Ana Sayfa", Context: "ui"}, RunOptions{})
	if err != nil {
		t.Fatalf("sync one: %v", err)
	}

	if !report.CanonicalWritten || report.CanonicalAction != CanonicalInserted {
		t.Fatalf("expected canonical insert, got %+v", report)
	}
	if value, ok := store.value("ui.nav.home", "tr"); !ok || value != "Ana Sayfa" {
		t.Fatalf("unexpected canonical row: %q %v", value, ok)
	}

	want := []string{"en", "de", "fr", "ar", "ru"}
	if len(report.Languages) != len(want) {
		t.Fatalf("expected %d language results, got %d", len(want), len(report.Languages))
	}
	for idx, lang := range want {
		result := report.Languages[idx]
		if result.Language != lang || result.Outcome != OutcomeTranslated {
			t.Fatalf("unexpected result at %d: %+v", idx, result)
		}
	}
	if value, _ := store.value("ui.nav.home", "en"); value != "EN:Ana Sayfa" {
		t.Fatalf("unexpected en value: %q", value)
	}
	if translator.callCount() != len(want) {
		t.Fatalf("expected %d provider calls, got %d", len(want), translator.callCount())
	}

	row, _ := store.GetTranslation(context.Background(), "ui.nav.home", "de")
	if row.ContextTag() != "ui" || row.ProviderName == nil || *row.ProviderName != "stub" {
		t.Fatalf("unexpected target row metadata: %+v", row)
	}
}

func TestEngine_SyncOne_IsIdempotent(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	translator := &stubTranslator{}
	engine := newTestEngine(t, store, translator)
	unit := Unit{Key: "ui.nav.home", Text: "Ana Sayfa", Context: "ui"}

	if _, err := engine.SyncOne(context.Background(), unit, RunOptions{}); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	callsAfterFirst := translator.callCount()

	report, err := engine.SyncOne(context.Background(), unit, RunOptions{})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if translator.callCount() != callsAfterFirst {
		t.Fatalf("expected no provider calls on second run, got %d", translator.callCount()-callsAfterFirst)
	}
	if report.CanonicalAction != CanonicalUnchanged || report.CanonicalWritten {
		t.Fatalf("expected unchanged canonical row, got %+v", report)
	}
	for _, result := range report.Languages {
		if result.Outcome != OutcomeSkipped {
			t.Fatalf("expected skipped, got %+v", result)
		}
	}
}

func TestEngine_SyncOne_CanonicalAlwaysFresh(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.seed("ui.nav.home", "tr", "Anasayfa", "Anasayfa")
	store.seed("ui.nav.home", "en", "Anasayfa", "Homepage")
	translator := &stubTranslator{}
	engine := newTestEngine(t, store, translator, "en")

	report, err := engine.SyncOne(context.Background(), Unit{Key: "ui.nav.home", Text: "Ana Sayfa"}, RunOptions{})
	if err != nil {
		t.Fatalf("sync one: %v", err)
	}
	if report.CanonicalAction != CanonicalUpdated || !report.CanonicalWritten {
		t.Fatalf("expected canonical update, got %+v", report)
	}
	if value, _ := store.value("ui.nav.home", "tr"); value != "Ana Sayfa" {
		t.Fatalf("canonical row not refreshed: %q", value)
	}
	// Existing targets are not re-translated when the source changes.
	if value, _ := store.value("ui.nav.home", "en"); value != "Homepage" {
		t.Fatalf("target row changed: %q", value)
	}
	if translator.callCount() != 0 {
		t.Fatalf("expected no provider calls, got %d", translator.callCount())
	}
}

func TestEngine_SyncOne_EmptyTextIsNoOp(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", "\n\t"} {
		store := newMemoryStore()
		translator := &stubTranslator{}
		engine := newTestEngine(t, store, translator)

		report, err := engine.SyncOne(context.Background(), Unit{Key: "page.about.title", Text: text}, RunOptions{})
		if err != nil {
			t.Fatalf("sync one: %v", err)
		}
		if !report.NoOp || report.CanonicalWritten || len(report.Languages) != 0 {
			t.Fatalf("expected no-op report, got %+v", report)
		}
		if len(store.inserts) != 0 || len(store.updates) != 0 || translator.callCount() != 0 {
			t.Fatalf("expected no side effects for %q", text)
		}
	}
}

func TestEngine_SyncOne_BlankKey(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemoryStore(), &stubTranslator{})
	_, err := engine.SyncOne(context.Background(), Unit{Key: " ", Text: "Merhaba"}, RunOptions{})
	if !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit, got %v", err)
	}
}

func TestEngine_SyncOne_PartialProviderFailure(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	translator := &stubTranslator{
		fail:  map[string]error{"de": errors.New("upstream 503")},
		empty: map[string]bool{"ar": true},
	}
	engine := newTestEngine(t, store, translator)

	report, err := engine.SyncOne(context.Background(), Unit{Key: "product.7.name", Text: "Lineer Armatür"}, RunOptions{})
	if err != nil {
		t.Fatalf("sync one: %v", err)
	}

	got := outcomes(report)
	want := map[string]Outcome{
		"en": OutcomeTranslated,
		"de": OutcomeFailed,
		"fr": OutcomeTranslated,
		"ar": OutcomeFailed,
		"ru": OutcomeTranslated,
	}
	for lang, outcome := range want {
		if got[lang] != outcome {
			t.Fatalf("unexpected outcome for %s: got %s want %s", lang, got[lang], outcome)
		}
	}
	if _, ok := store.value("product.7.name", "de"); ok {
		t.Fatalf("failed language must not be stored")
	}
	if _, ok := store.value("product.7.name", "ar"); ok {
		t.Fatalf("empty translation must not be stored")
	}
	if !report.Failed() {
		t.Fatalf("expected report to be marked failed")
	}

	// A rerun only calls the provider for the languages that failed.
	translator.fail = nil
	translator.empty = nil
	before := translator.callCount()
	report, err = engine.SyncOne(context.Background(), Unit{Key: "product.7.name", Text: "Lineer Armatür"}, RunOptions{})
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if translator.callCount()-before != 2 {
		t.Fatalf("expected 2 provider calls on rerun, got %d", translator.callCount()-before)
	}
	if report.Count(OutcomeTranslated) != 2 || report.Count(OutcomeSkipped) != 3 {
		t.Fatalf("unexpected rerun report: %+v", report.Languages)
	}
}

func TestEngine_SyncOne_StoreFailures(t *testing.T) {
	t.Parallel()

	t.Run("canonical lookup aborts unit", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		store.getErr["tr"] = errors.New("connection refused")
		translator := &stubTranslator{}
		engine := newTestEngine(t, store, translator)

		_, err := engine.SyncOne(context.Background(), Unit{Key: "ui.footer.copy", Text: "Tüm hakları saklıdır"}, RunOptions{})
		if !IsPersistenceError(err) {
			t.Fatalf("expected persistence error, got %v", err)
		}
		if translator.callCount() != 0 {
			t.Fatalf("no language may be attempted after canonical failure")
		}
	})

	t.Run("target insert failure is isolated", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		store.insertErr["fr"] = errors.New("disk full")
		store.getErr["ru"] = errors.New("timeout")
		engine := newTestEngine(t, store, &stubTranslator{})

		report, err := engine.SyncOne(context.Background(), Unit{Key: "ui.footer.copy", Text: "Tüm hakları saklıdır"}, RunOptions{})
		if err != nil {
			t.Fatalf("sync one: %v", err)
		}
		got := outcomes(report)
		if got["fr"] != OutcomeFailed || got["ru"] != OutcomeFailed || got["en"] != OutcomeTranslated || got["de"] != OutcomeTranslated {
			t.Fatalf("unexpected outcomes: %+v", got)
		}
	})
}

func TestEngine_SyncOne_Force(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.seed("news.3.title", "tr", "Yeni Ürün", "Yeni Ürün")
	store.seed("news.3.title", "en", "Yeni Ürün", "stale")
	translator := &stubTranslator{}
	engine := newTestEngine(t, store, translator, "en", "de")

	report, err := engine.SyncOne(context.Background(), Unit{Key: "news.3.title", Text: "Yeni Ürün"}, RunOptions{Force: true})
	if err != nil {
		t.Fatalf("sync one: %v", err)
	}
	if report.Languages[0].Outcome != OutcomeTranslated || report.Languages[0].Detail != "retranslated" {
		t.Fatalf("expected en to be retranslated, got %+v", report.Languages[0])
	}
	if value, _ := store.value("news.3.title", "en"); value != "EN:Yeni Ürün" {
		t.Fatalf("unexpected en value: %q", value)
	}
	if report.Languages[1].Outcome != OutcomeTranslated || report.Languages[1].Detail != "" {
		t.Fatalf("expected de to be inserted, got %+v", report.Languages[1])
	}
}

func TestEngine_SyncOne_LanguageOverride(t *testing.T) {
	t.Parallel()

	translator := &stubTranslator{}
	engine := newTestEngine(t, newMemoryStore(), translator)

	report, err := engine.SyncOne(context.Background(), Unit{Key: "slider.1.title", Text: "Işık"}, RunOptions{
		TargetLanguages: []string{"DE", "tr", "de", "es"},
	})
	if err != nil {
		t.Fatalf("sync one: %v", err)
	}
	if len(report.Languages) != 2 || report.Languages[0].Language != "de" || report.Languages[1].Language != "es" {
		t.Fatalf("unexpected languages: %+v", report.Languages)
	}
}

type racingStore struct {
	*memoryStore
	racedLang string
}

// GetTranslation hides the row of racedLang so the engine tries to insert it.
func (s *racingStore) GetTranslation(ctx context.Context, key, lang string) (*db.TranslationRecord, error) {
	if lang == s.racedLang {
		return nil, nil
	}
	return s.memoryStore.GetTranslation(ctx, key, lang)
}

func TestEngine_SyncOne_ConcurrentInsert(t *testing.T) {
	t.Parallel()

	inner := newMemoryStore()
	inner.seed("category.2.name", "en", "Aydınlatma", "Lighting")
	store := &racingStore{memoryStore: inner, racedLang: "en"}
	engine := newTestEngine(t, store, &stubTranslator{}, "en")

	report, err := engine.SyncOne(context.Background(), Unit{Key: "category.2.name", Text: "Aydınlatma"}, RunOptions{})
	if err != nil {
		t.Fatalf("sync one: %v", err)
	}
	if report.Languages[0].Outcome != OutcomeSkipped || report.Languages[0].Detail != "created concurrently" {
		t.Fatalf("unexpected result: %+v", report.Languages[0])
	}
	if value, _ := inner.value("category.2.name", "en"); value != "Lighting" {
		t.Fatalf("existing row must be kept, got %q", value)
	}
}

func TestEngine_SyncOne_CancelledBetweenLanguages(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	translator := &cancellingTranslator{cancel: cancel}
	engine := newTestEngine(t, newMemoryStore(), translator)

	report, err := engine.SyncOne(ctx, Unit{Key: "popup.1.body", Text: "Kampanya"}, RunOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(report.Languages) != 1 {
		t.Fatalf("expected one language result before cancellation, got %d", len(report.Languages))
	}
	if translator.calls != 1 {
		t.Fatalf("expected exactly one provider call, got %d", translator.calls)
	}
}

type cancellingTranslator struct {
	cancel context.CancelFunc
	calls  int
}

func (p *cancellingTranslator) Name() string { return "cancelling" }

func (p *cancellingTranslator) Translate(_ context.Context, req TranslateRequest) (*TranslateResponse, error) {
	p.calls++
	p.cancel()
	return &TranslateResponse{Text: req.Text}, nil
}

func TestEngine_SyncOne_WithSQLiteStore(t *testing.T) {
	t.Parallel()

	pool := newSQLitePool(t)
	translator := &stubTranslator{}
	engine := newTestEngine(t, pool, translator, "en", "de")
	ctx := context.Background()

	if _, err := engine.SyncOne(ctx, Unit{Key: "ui.nav.home", Text: "Ana Sayfa", Context: "ui"}, RunOptions{}); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	report, err := engine.SyncOne(ctx, Unit{Key: "ui.nav.home", Text: "Anasayfa", Context: "ui"}, RunOptions{})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if report.CanonicalAction != CanonicalUpdated {
		t.Fatalf("expected canonical update, got %s", report.CanonicalAction)
	}
	if report.Count(OutcomeSkipped) != 2 {
		t.Fatalf("expected targets to be skipped, got %+v", report.Languages)
	}

	rows, err := pool.ListTranslationsByKey(ctx, "ui.nav.home")
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.LanguageCode == "tr" && row.TranslationValue != "Anasayfa" {
			t.Fatalf("canonical row not refreshed: %+v", row)
		}
		if row.LanguageCode == "en" && row.TranslationValue != "EN:Ana Sayfa" {
			t.Fatalf("target row changed: %+v", row)
		}
	}
}
