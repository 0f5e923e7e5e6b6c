package translation

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/globaltime"
)

const (
	HTTPProviderName = "http"
	// DefaultHTTPEndpoint is the translate function of a locally served backend.
	DefaultHTTPEndpoint = "http://127.0.0.1:54321/functions/v1/translate"
)

// Locations of the translated text in the answers of the translate function.
// It forwards the upstream payload, so both flattened and Google-shaped bodies occur.
var httpTranslatedTextPaths = []string{
	"translations.translatedText",
	"translations.0.translatedText",
	"data.translations.0.translatedText",
	"data.translatedText",
	"translatedText",
}

// HTTPProvider posts {text, targetLanguage, sourceLanguage} to a translate endpoint.
type HTTPProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPProvider(endpoint, apiKey string) *HTTPProvider {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultHTTPEndpoint
	}
	return &HTTPProvider{
		endpoint: trimmed,
		apiKey:   strings.TrimSpace(apiKey),
		client:   newHTTPClient(2 * time.Minute),
	}
}

func (p *HTTPProvider) Name() string {
	return HTTPProviderName
}

func (p *HTTPProvider) SupportedLanguages() []string {
	return SupportedTranslationLanguageCodes()
}

type httpTranslateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
	SourceLanguage string `json:"sourceLanguage"`
}

func (p *HTTPProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil {
		return nil, fmt.Errorf("http provider is nil")
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

	headers := map[string]string{}
	if p.apiKey != "" {
		headers["Authorization"] = "Bearer " + p.apiKey
		headers["apikey"] = p.apiKey
	}

	started := globaltime.Now()
	body, err := postJSON(ctx, p.client, p.endpoint, headers, httpTranslateRequest{
		Text:           text,
		TargetLanguage: targetLang,
		SourceLanguage: sourceLang,
	})
	if err != nil {
		return nil, err
	}

	translated := firstString(body, httpTranslatedTextPaths...)
	if translated == "" {
		return nil, fmt.Errorf("translation response missing translatedText: %w", ErrEmptyTranslation)
	}

	return &TranslateResponse{
		Text:         translated,
		SourceLang:   sourceLang,
		TargetLang:   targetLang,
		ProviderName: p.Name(),
		LatencyMs:    globaltime.Since(started).Milliseconds(),
	}, nil
}
