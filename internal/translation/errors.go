package translation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyTranslation is returned when a provider answers without usable text.
	ErrEmptyTranslation = errors.New("empty translation")
	// ErrInvalidUnit is returned for units that cannot be synchronized at all.
	ErrInvalidUnit = errors.New("invalid sync unit")
)

// PersistenceError wraps a store failure for one key/language pair.
type PersistenceError struct {
	Op       string // "lookup", "insert" or "update"
	Key      string
	Language string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s translation %s/%s: %v", e.Op, e.Key, e.Language, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ProviderError wraps any failure of one provider call. The engine treats every
// ProviderError the same way; the cause only feeds report details.
type ProviderError struct {
	Provider string
	Language string
	Status   int // HTTP status when the provider answered, 0 otherwise
	Err      error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	b.WriteString(" -> ")
	b.WriteString(e.Language)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	b.WriteString(": ")
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("unknown error")
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StatusError is returned by HTTP based providers for non-2xx answers.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("translation endpoint status %d", e.StatusCode)
	}
	return fmt.Sprintf("translation endpoint status %d: %s", e.StatusCode, truncateDetail(body, 300))
}

func truncateDetail(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}
