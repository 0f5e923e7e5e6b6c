package translation

import (
	"context"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/db"
)

// Store is the record store the engine reads and writes, addressed by
// (translation_key, language_code). *db.Pool implements it.
//
// GetTranslation returns nil, nil when no row exists. InsertTranslation fails with
// an error matching db.ErrDuplicate when the pair already exists.
type Store interface {
	GetTranslation(ctx context.Context, key, lang string) (*db.TranslationRecord, error)
	InsertTranslation(ctx context.Context, row db.TranslationRecord) error
	UpdateTranslation(ctx context.Context, key, lang string, fields db.TranslationUpdate) error
}

var _ Store = (*db.Pool)(nil)
