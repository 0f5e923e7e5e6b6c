package db

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TranslationRecord maps translations. One row per (translation_key, language_code).
type TranslationRecord struct {
	TranslationID    int64     `gorm:"column:translation_id;primaryKey;autoIncrement"`
	TranslationUUID  string    `gorm:"column:translation_uuid;type:uuid;not null;unique"`
	TranslationKey   string    `gorm:"column:translation_key;type:text;not null;uniqueIndex:ux_translations_key_language,priority:1"`
	LanguageCode     string    `gorm:"column:language_code;type:text;not null;uniqueIndex:ux_translations_key_language,priority:2;index:ix_translations_language"`
	SourceText       string    `gorm:"column:source_text;type:text;not null"`
	TranslationValue string    `gorm:"column:translation_value;type:text;not null"`
	Context          *string   `gorm:"column:context;type:text"`
	ProviderName     *string   `gorm:"column:provider_name;type:text"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (TranslationRecord) TableName() string { return "translations" }

func (r *TranslationRecord) BeforeCreate(_ *gorm.DB) error {
	if strings.TrimSpace(r.TranslationUUID) == "" {
		r.TranslationUUID = uuid.NewString()
	}
	return nil
}

// ContextTag returns the context column or "" when unset.
func (r *TranslationRecord) ContextTag() string {
	if r == nil || r.Context == nil {
		return ""
	}
	return *r.Context
}

func autoMigrateModels() []any {
	return []any{
		&TranslationRecord{},
	}
}
