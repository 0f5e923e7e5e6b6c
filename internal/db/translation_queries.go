package db

import (
	"context"
	"fmt"
	"strings"
)

// TranslationUpdate lists the mutable columns of a translation row.
// Nil pointers leave the column untouched.
type TranslationUpdate struct {
	SourceText       string
	TranslationValue string
	Context          *string
	ProviderName     *string
}

// LanguageCount is one row of the per-language statistics.
type LanguageCount struct {
	LanguageCode string `json:"language_code"`
	Rows         int64  `json:"rows"`
}

// GetTranslation returns the row for (key, lang), or nil when there is none.
func (p *Pool) GetTranslation(ctx context.Context, key, lang string) (*TranslationRecord, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	var rows []TranslationRecord
	err := p.gdb.WithContext(ctx).
		Where("translation_key = ? AND language_code = ?", key, lang).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query translation %s/%s: %w", key, lang, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (p *Pool) InsertTranslation(ctx context.Context, row TranslationRecord) error {
	if p == nil || p.gdb == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	if err := p.gdb.WithContext(ctx).Create(&row).Error; err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("insert translation %s/%s: %w", row.TranslationKey, row.LanguageCode, ErrDuplicate)
		}
		return fmt.Errorf("insert translation %s/%s: %w", row.TranslationKey, row.LanguageCode, err)
	}
	return nil
}

func (p *Pool) UpdateTranslation(ctx context.Context, key, lang string, fields TranslationUpdate) error {
	if p == nil || p.gdb == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	values := map[string]any{
		"source_text":       fields.SourceText,
		"translation_value": fields.TranslationValue,
	}
	if fields.Context != nil {
		values["context"] = *fields.Context
	}
	if fields.ProviderName != nil {
		values["provider_name"] = *fields.ProviderName
	}

	res := p.gdb.WithContext(ctx).
		Model(&TranslationRecord{}).
		Where("translation_key = ? AND language_code = ?", key, lang).
		Updates(values)
	if res.Error != nil {
		return fmt.Errorf("update translation %s/%s: %w", key, lang, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update translation %s/%s: %w", key, lang, ErrNoRows)
	}
	return nil
}

// ListTranslationsByKey returns every language row of one key ordered by language.
func (p *Pool) ListTranslationsByKey(ctx context.Context, key string) ([]TranslationRecord, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	items := make([]TranslationRecord, 0, 8)
	err := p.gdb.WithContext(ctx).
		Where("translation_key = ?", strings.TrimSpace(key)).
		Order("language_code").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("query translations by key: %w", err)
	}
	return items, nil
}

// ListCanonicalRecords returns rows of the canonical language, optionally
// restricted to keys starting with keyPrefix, ordered by key.
func (p *Pool) ListCanonicalRecords(ctx context.Context, canonicalLang, keyPrefix string) ([]TranslationRecord, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	q := p.gdb.WithContext(ctx).Where("language_code = ?", canonicalLang)
	if prefix := strings.TrimSpace(keyPrefix); prefix != "" {
		q = q.Where("translation_key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	}

	items := make([]TranslationRecord, 0, 128)
	if err := q.Order("translation_key").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("query canonical translations: %w", err)
	}
	return items, nil
}

// DeleteTranslationsByPrefix removes every language row whose key starts with keyPrefix.
func (p *Pool) DeleteTranslationsByPrefix(ctx context.Context, keyPrefix string) (int64, error) {
	if p == nil || p.gdb == nil {
		return 0, fmt.Errorf("database pool is not initialized")
	}
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		return 0, fmt.Errorf("key prefix is required")
	}

	res := p.gdb.WithContext(ctx).
		Where("translation_key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Delete(&TranslationRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete translations by prefix: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// CountTranslationsByPrefix counts the rows DeleteTranslationsByPrefix would remove.
func (p *Pool) CountTranslationsByPrefix(ctx context.Context, keyPrefix string) (int64, error) {
	if p == nil || p.gdb == nil {
		return 0, fmt.Errorf("database pool is not initialized")
	}
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		return 0, fmt.Errorf("key prefix is required")
	}

	var count int64
	err := p.gdb.WithContext(ctx).
		Model(&TranslationRecord{}).
		Where("translation_key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count translations by prefix: %w", err)
	}
	return count, nil
}

func (p *Pool) CountTranslationsByLanguage(ctx context.Context) ([]LanguageCount, error) {
	const q = `
SELECT
	language_code,
	COUNT(*) AS row_count
FROM translations
GROUP BY language_code
ORDER BY language_code
`

	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query translation counts: %w", err)
	}
	defer rows.Close()

	items := make([]LanguageCount, 0, 8)
	for rows.Next() {
		var row LanguageCount
		if err := rows.Scan(&row.LanguageCode, &row.Rows); err != nil {
			return nil, fmt.Errorf("scan translation count row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translation count rows: %w", err)
	}

	return items, nil
}

func escapeLike(raw string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(raw)
}
