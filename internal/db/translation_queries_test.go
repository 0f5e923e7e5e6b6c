package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/config"
)

func newTestPool(t *testing.T) *Pool {
	t.Helper()

	cfg := &config.Config{
		Environment: "test",
		LogLevel:    "silent",
		DatabaseURL: fmt.Sprintf("file:translations_%s?mode=memory&cache=shared", uuid.NewString()),
		DBMinConns:  1,
		DBMaxConns:  1,
	}
	pool, err := NewPool(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func strPtr(v string) *string { return &v }

func TestPool_InsertGetUpdate(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t)
	ctx := context.Background()

	if pool.Dialect() != "sqlite" {
		t.Fatalf("unexpected dialect: %q", pool.Dialect())
	}

	missing, err := pool.GetTranslation(ctx, "product.42.name", "tr")
	if err != nil {
		t.Fatalf("get missing translation: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing row, got %+v", missing)
	}

	if err := pool.InsertTranslation(ctx, TranslationRecord{
		TranslationKey:   "product.42.name",
		LanguageCode:     "tr",
		SourceText:       "Sarkıt Armatür",
		TranslationValue: "Sarkıt Armatür",
		Context:          strPtr("product"),
	}); err != nil {
		t.Fatalf("insert translation: %v", err)
	}

	got, err := pool.GetTranslation(ctx, "product.42.name", "tr")
	if err != nil {
		t.Fatalf("get translation: %v", err)
	}
	if got == nil || got.TranslationValue != "Sarkıt Armatür" || got.ContextTag() != "product" {
		t.Fatalf("unexpected row: %+v", got)
	}
	if got.TranslationUUID == "" {
		t.Fatalf("expected uuid to be generated")
	}

	if err := pool.UpdateTranslation(ctx, "product.42.name", "tr", TranslationUpdate{
		SourceText:       "Sarkıt Aydınlatma",
		TranslationValue: "Sarkıt Aydınlatma",
	}); err != nil {
		t.Fatalf("update translation: %v", err)
	}

	got, err = pool.GetTranslation(ctx, "product.42.name", "tr")
	if err != nil {
		t.Fatalf("get updated translation: %v", err)
	}
	if got.SourceText != "Sarkıt Aydınlatma" || got.TranslationValue != "Sarkıt Aydınlatma" {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.ContextTag() != "product" {
		t.Fatalf("nil context in update must keep the stored context, got %q", got.ContextTag())
	}

	err = pool.UpdateTranslation(ctx, "product.99.name", "tr", TranslationUpdate{SourceText: "x", TranslationValue: "x"})
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows for missing update target, got %v", err)
	}
}

func TestPool_InsertDuplicate(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t)
	ctx := context.Background()

	row := TranslationRecord{
		TranslationKey:   "ui.nav.home",
		LanguageCode:     "en",
		SourceText:       "Ana Sayfa",
		TranslationValue: "Home",
	}
	if err := pool.InsertTranslation(ctx, row); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	err := pool.InsertTranslation(ctx, row)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if !IsDuplicate(err) {
		t.Fatalf("IsDuplicate should recognize wrapped duplicate error")
	}
}

func TestPool_ListsCountsAndPurges(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t)
	ctx := context.Background()

	seed := []TranslationRecord{
		{TranslationKey: "product.1.name", LanguageCode: "tr", SourceText: "Lamba", TranslationValue: "Lamba"},
		{TranslationKey: "product.1.name", LanguageCode: "en", SourceText: "Lamba", TranslationValue: "Lamp"},
		{TranslationKey: "product.1.name", LanguageCode: "de", SourceText: "Lamba", TranslationValue: "Lampe"},
		{TranslationKey: "product_x.1.name", LanguageCode: "tr", SourceText: "Ayrı", TranslationValue: "Ayrı"},
		{TranslationKey: "category.spot.name", LanguageCode: "tr", SourceText: "Spot", TranslationValue: "Spot"},
	}
	for _, row := range seed {
		if err := pool.InsertTranslation(ctx, row); err != nil {
			t.Fatalf("seed %s/%s: %v", row.TranslationKey, row.LanguageCode, err)
		}
	}

	byKey, err := pool.ListTranslationsByKey(ctx, "product.1.name")
	if err != nil {
		t.Fatalf("list by key: %v", err)
	}
	if len(byKey) != 3 || byKey[0].LanguageCode != "de" || byKey[2].LanguageCode != "tr" {
		t.Fatalf("unexpected rows by key: %+v", byKey)
	}

	canonical, err := pool.ListCanonicalRecords(ctx, "tr", "product.")
	if err != nil {
		t.Fatalf("list canonical: %v", err)
	}
	if len(canonical) != 1 || canonical[0].TranslationKey != "product.1.name" {
		t.Fatalf("prefix must not match product_x: %+v", canonical)
	}

	all, err := pool.ListCanonicalRecords(ctx, "tr", "")
	if err != nil {
		t.Fatalf("list all canonical: %v", err)
	}
	if len(all) != 3 || all[0].TranslationKey != "category.spot.name" {
		t.Fatalf("unexpected canonical rows: %+v", all)
	}

	counts, err := pool.CountTranslationsByLanguage(ctx)
	if err != nil {
		t.Fatalf("count by language: %v", err)
	}
	want := map[string]int64{"de": 1, "en": 1, "tr": 3}
	if len(counts) != len(want) {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	for _, c := range counts {
		if want[c.LanguageCode] != c.Rows {
			t.Fatalf("unexpected count for %s: %d", c.LanguageCode, c.Rows)
		}
	}

	preview, err := pool.CountTranslationsByPrefix(ctx, "product.1.")
	if err != nil {
		t.Fatalf("count by prefix: %v", err)
	}
	if preview != 3 {
		t.Fatalf("unexpected preview count: %d", preview)
	}

	deleted, err := pool.DeleteTranslationsByPrefix(ctx, "product.1.")
	if err != nil {
		t.Fatalf("delete by prefix: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("unexpected deleted count: %d", deleted)
	}
	if _, err := pool.DeleteTranslationsByPrefix(ctx, "  "); err == nil {
		t.Fatalf("expected blank prefix to be rejected")
	}
}
