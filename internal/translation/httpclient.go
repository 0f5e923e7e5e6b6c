package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const maxResponseBytes = 1 << 20

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// postJSON sends payload as JSON and returns the body of a 2xx answer.
// Non-2xx answers become *StatusError carrying the provider's error message.
func postJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal translation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for name, value := range headers {
		if strings.TrimSpace(value) != "" {
			httpReq.Header.Set(name, value)
		}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send translation request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read translation response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: errorMessageFromBody(respBody)}
	}
	if !gjson.ValidBytes(respBody) {
		return nil, fmt.Errorf("decode translation response: malformed JSON")
	}
	return respBody, nil
}

// firstString returns the first non-blank string found at one of paths.
func firstString(body []byte, paths ...string) string {
	for _, path := range paths {
		value := gjson.GetBytes(body, path)
		if value.Type != gjson.String {
			continue
		}
		if text := strings.TrimSpace(value.String()); text != "" {
			return text
		}
	}
	return ""
}

func errorMessageFromBody(body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := firstString(body, "error.message", "error", "message", "msg"); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(body))
}
