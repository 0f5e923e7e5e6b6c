package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/catalog"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/globaltime"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/language"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/translation"
)

const healthTimeout = 3 * time.Second

type syncRequest struct {
	Key       string   `json:"key"`
	Text      string   `json:"text"`
	Context   string   `json:"context"`
	Languages []string `json:"languages"`
	Force     bool     `json:"force"`
}

type translationRow struct {
	Language     string    `json:"language"`
	Value        string    `json:"value"`
	SourceText   string    `json:"source_text"`
	Context      string    `json:"context,omitempty"`
	ProviderName string    `json:"provider_name,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *Server) handleHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if err := s.deps.Store.Ping(ctx); err != nil {
		s.logger.Error().Err(err).Msg("database ping failed")
		return errorWithStatus(c, http.StatusServiceUnavailable, "Database unavailable")
	}
	return success(c, map[string]any{
		"service": "i18nsync",
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	return success(c, map[string]any{
		"canonical": s.deps.CanonicalLanguage,
		"targets":   s.deps.TargetLanguages,
		"options":   translation.TranslationLanguageOptions(s.deps.Registry),
	})
}

func (s *Server) handleTranslations(c echo.Context) error {
	key := strings.TrimSpace(c.QueryParam("key"))
	if key == "" {
		return failValidation(c, map[string]string{"key": "is required"})
	}

	rows, err := s.deps.Store.ListTranslationsByKey(c.Request().Context(), key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("list translations failed")
		return internalError(c, "Failed to load translations")
	}
	if len(rows) == 0 {
		return failNotFound(c, "Translation key not found")
	}

	items := make([]translationRow, 0, len(rows))
	for _, row := range rows {
		item := translationRow{
			Language:   row.LanguageCode,
			Value:      row.TranslationValue,
			SourceText: row.SourceText,
			Context:    row.ContextTag(),
			UpdatedAt:  row.UpdatedAt,
		}
		if row.ProviderName != nil {
			item.ProviderName = *row.ProviderName
		}
		items = append(items, item)
	}

	return success(c, map[string]any{
		"key":   key,
		"items": items,
	})
}

func (s *Server) handleStats(c echo.Context) error {
	counts, err := s.deps.Store.CountTranslationsByLanguage(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("count translations failed")
		return internalError(c, "Failed to load stats")
	}

	var total int64
	for _, count := range counts {
		total += count.Rows
	}
	return success(c, map[string]any{
		"languages": counts,
		"total":     total,
	})
}

func (s *Server) handleSync(c echo.Context) error {
	var req syncRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}
	if strings.TrimSpace(req.Key) == "" {
		return failValidation(c, map[string]string{"key": "is required"})
	}

	report, err := s.deps.Engine.SyncOne(c.Request().Context(), translation.Unit{
		Key:     req.Key,
		Text:    req.Text,
		Context: req.Context,
	}, translation.RunOptions{
		TargetLanguages: language.NormalizeCodes(req.Languages),
		Force:           req.Force,
	})
	if err != nil {
		return s.syncError(c, req.Key, err)
	}

	s.deps.Metrics.ObserveReport(report)
	return success(c, report)
}

func (s *Server) handleSyncBatch(c echo.Context) error {
	force, err := parseBool(c.QueryParam("force"))
	if err != nil {
		return failValidation(c, map[string]string{"force": err.Error()})
	}

	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return failValidation(c, map[string]string{"body": "could not be read"})
	}
	units, err := catalog.ParseUnits(raw)
	if err != nil {
		return failValidation(c, map[string]string{"units": err.Error()})
	}

	reports, err := s.deps.Driver.SyncAll(c.Request().Context(), units, translation.BatchOptions{
		RunOptions: translation.RunOptions{
			TargetLanguages: language.SplitCodes(c.QueryParam("languages")),
			Force:           force,
		},
		OnReport: s.deps.Metrics.ObserveReport,
	})
	if err != nil {
		s.logger.Warn().Err(err).Int("processed", len(reports)).Int("total", len(units)).Msg("batch sync interrupted")
		return errorWithStatus(c, http.StatusServiceUnavailable, "Batch sync interrupted")
	}

	return success(c, map[string]any{
		"reports": reports,
		"summary": translation.Summarize(reports),
	})
}

func (s *Server) syncError(c echo.Context, key string, err error) error {
	switch {
	case errors.Is(err, translation.ErrInvalidUnit):
		return failValidation(c, map[string]string{"key": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errorWithStatus(c, http.StatusServiceUnavailable, "Sync interrupted")
	case translation.IsPersistenceError(err):
		s.logger.Error().Err(err).Str("key", key).Msg("canonical write failed")
		return internalError(c, "Failed to store canonical translation")
	default:
		s.logger.Error().Err(err).Str("key", key).Msg("sync failed")
		return internalError(c, "Sync failed")
	}
}

func parseBool(raw string) (bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(trimmed)
	if err != nil {
		return false, errors.New("must be true or false")
	}
	return value, nil
}
