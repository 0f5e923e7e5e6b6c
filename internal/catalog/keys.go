// Package catalog describes the translation keys of the product catalog and
// reads sync units from JSON files.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Known entity segments. Every key starts with one of them.
const (
	EntityProduct  = "product"
	EntityCategory = "category"
	EntitySlider   = "slider"
	EntityNews     = "news"
	EntityPage     = "page"
	EntityProject  = "project"
	EntityPopup    = "popup"
	EntityUI       = "ui"
	EntityFeature  = "feature"
)

const (
	keySeparator = "."
	minSegments  = 2
	maxSegments  = 6
	maxKeyLength = 255
)

var (
	ErrInvalidKey    = errors.New("invalid translation key")
	ErrUnknownEntity = errors.New("unknown catalog entity")

	segmentPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

	knownEntities = map[string]struct{}{
		EntityProduct:  {},
		EntityCategory: {},
		EntitySlider:   {},
		EntityNews:     {},
		EntityPage:     {},
		EntityProject:  {},
		EntityPopup:    {},
		EntityUI:       {},
		EntityFeature:  {},
	}
)

// Key is a parsed translation key: entity, optional record id and field.
// "product.42.name" has ID "42"; "ui.footer.copy" has ID "footer";
// "page.title" has no ID.
type Key struct {
	Entity string
	ID     string
	Field  string
}

func (k Key) String() string {
	parts := []string{k.Entity}
	if k.ID != "" {
		parts = append(parts, k.ID)
	}
	parts = append(parts, k.Field)
	return strings.Join(parts, keySeparator)
}

// Entities returns the known entity segments sorted alphabetically.
func Entities() []string {
	out := make([]string, 0, len(knownEntities))
	for entity := range knownEntities {
		out = append(out, entity)
	}
	sort.Strings(out)
	return out
}

func IsKnownEntity(entity string) bool {
	_, ok := knownEntities[strings.ToLower(strings.TrimSpace(entity))]
	return ok
}

// BuildKey joins entity, id and field into a key such as "product.42.name".
func BuildKey(entity string, id any, field string) (string, error) {
	idText := ""
	if id != nil {
		idText = strings.TrimSpace(fmt.Sprint(id))
	}
	key := Key{
		Entity: strings.ToLower(strings.TrimSpace(entity)),
		ID:     idText,
		Field:  strings.TrimSpace(field),
	}.String()
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// ParseKey splits a key into its segments. It checks the format only; entity
// names are checked by ValidateKey.
func ParseKey(raw string) (Key, error) {
	key := strings.TrimSpace(raw)
	if key == "" {
		return Key{}, fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if len(key) > maxKeyLength {
		return Key{}, fmt.Errorf("%w: key is longer than %d characters", ErrInvalidKey, maxKeyLength)
	}

	segments := strings.Split(key, keySeparator)
	if len(segments) < minSegments || len(segments) > maxSegments {
		return Key{}, fmt.Errorf("%w: %q must have %d to %d dot separated segments", ErrInvalidKey, key, minSegments, maxSegments)
	}
	for idx, segment := range segments {
		if !segmentPattern.MatchString(segment) {
			return Key{}, fmt.Errorf("%w: %q segment %d %q is not allowed", ErrInvalidKey, key, idx+1, segment)
		}
	}

	return Key{
		Entity: strings.ToLower(segments[0]),
		ID:     strings.Join(segments[1:len(segments)-1], keySeparator),
		Field:  segments[len(segments)-1],
	}, nil
}

// ValidateKey checks the key format and that the entity is known.
func ValidateKey(raw string) error {
	key, err := ParseKey(raw)
	if err != nil {
		return err
	}
	if !IsKnownEntity(key.Entity) {
		return fmt.Errorf("%w: %q (known: %s)", ErrUnknownEntity, key.Entity, strings.Join(Entities(), ", "))
	}
	return nil
}

// ContextFromKey returns the entity segment used as the default context tag,
// or "" for malformed keys.
func ContextFromKey(raw string) string {
	key, err := ParseKey(raw)
	if err != nil {
		return ""
	}
	return key.Entity
}
