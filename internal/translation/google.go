package translation

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/globaltime"
)

const (
	GoogleProviderName = "google"
	// DefaultGoogleEndpoint is the Cloud Translation v2 REST endpoint.
	DefaultGoogleEndpoint = "https://translation.googleapis.com/language/translate/v2"
)

// GoogleProvider calls the Google Cloud Translation v2 REST API with an API key.
type GoogleProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewGoogleProvider(apiKey, endpoint string) *GoogleProvider {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultGoogleEndpoint
	}
	return &GoogleProvider{
		endpoint: trimmed,
		apiKey:   strings.TrimSpace(apiKey),
		client:   newHTTPClient(time.Minute),
	}
}

func (p *GoogleProvider) Name() string {
	return GoogleProviderName
}

func (p *GoogleProvider) SupportedLanguages() []string {
	return SupportedTranslationLanguageCodes()
}

type googleTranslateRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source,omitempty"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

func (p *GoogleProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil {
		return nil, fmt.Errorf("google provider is nil")
	}
	if p.apiKey == "" {
		return nil, fmt.Errorf("google provider requires TRANSLATION_API_KEY")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	sourceLang := normalizeLangCode(req.SourceLang)
	targetLang := normalizeLangCode(req.TargetLang)
	if targetLang == "" {
		return nil, fmt.Errorf("target language is required")
	}

	endpoint, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse google endpoint: %w", err)
	}
	query := endpoint.Query()
	query.Set("key", p.apiKey)
	endpoint.RawQuery = query.Encode()

	started := globaltime.Now()
	body, err := postJSON(ctx, p.client, endpoint.String(), nil, googleTranslateRequest{
		Q:      []string{text},
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
	})
	if err != nil {
		return nil, err
	}

	translated := html.UnescapeString(firstString(body, "data.translations.0.translatedText"))
	if strings.TrimSpace(translated) == "" {
		return nil, fmt.Errorf("google response missing translatedText: %w", ErrEmptyTranslation)
	}

	detected := normalizeLangCode(firstString(body, "data.translations.0.detectedSourceLanguage"))
	if detected == "" {
		detected = sourceLang
	}

	return &TranslateResponse{
		Text:         strings.TrimSpace(translated),
		SourceLang:   detected,
		TargetLang:   targetLang,
		ProviderName: p.Name(),
		LatencyMs:    globaltime.Since(started).Milliseconds(),
	}, nil
}
