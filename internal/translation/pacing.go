package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/globaltime"
)

// DefaultCallTimeout bounds one provider call when no timeout is configured.
const DefaultCallTimeout = 30 * time.Second

// RateLimiter paces provider calls. *rate.Limiter satisfies it.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// NewIntervalLimiter allows burst calls immediately and then one call per interval.
// A non-positive interval disables pacing.
func NewIntervalLimiter(interval time.Duration, burst int) RateLimiter {
	if burst < 1 {
		burst = 1
	}
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Every(interval), burst)
}

// Translator is the view of a provider the engine calls.
type Translator interface {
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error)
	Name() string
}

// CallObserver is told about every finished provider call.
type CallObserver func(provider, targetLang string, elapsed time.Duration, err error)

type CallerOptions struct {
	Timeout  time.Duration
	Limiter  RateLimiter
	Observer CallObserver
}

// Caller wraps a Provider with pacing, a per-call timeout and error normalization.
// Every error it returns is a *ProviderError.
type Caller struct {
	provider Provider
	timeout  time.Duration
	limiter  RateLimiter
	observer CallObserver
}

func NewCaller(provider Provider, opts CallerOptions) *Caller {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = NewIntervalLimiter(0, 1)
	}
	return &Caller{
		provider: provider,
		timeout:  timeout,
		limiter:  limiter,
		observer: opts.Observer,
	}
}

func (c *Caller) Name() string {
	if c == nil || c.provider == nil {
		return ""
	}
	return c.provider.Name()
}

func (c *Caller) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if c == nil || c.provider == nil {
		return nil, &ProviderError{Language: req.TargetLang, Err: fmt.Errorf("translation provider is not configured")}
	}
	name := c.provider.Name()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{Provider: name, Language: req.TargetLang, Err: fmt.Errorf("wait for rate limiter: %w", err)}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := globaltime.Now()
	resp, err := c.invoke(callCtx, req)
	elapsed := globaltime.Since(started)

	if err == nil && (resp == nil || strings.TrimSpace(resp.Text) == "") {
		err = ErrEmptyTranslation
	}
	if c.observer != nil {
		c.observer(name, req.TargetLang, elapsed, err)
	}
	if err != nil {
		return nil, c.normalize(name, req.TargetLang, err)
	}

	out := *resp
	out.Text = strings.TrimSpace(out.Text)
	if strings.TrimSpace(out.ProviderName) == "" {
		out.ProviderName = name
	}
	if out.LatencyMs <= 0 {
		out.LatencyMs = elapsed.Milliseconds()
	}
	return &out, nil
}

func (c *Caller) invoke(ctx context.Context, req TranslateRequest) (resp *TranslateResponse, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			resp = nil
			err = fmt.Errorf("provider panicked: %v", recovered)
		}
	}()
	return c.provider.Translate(ctx, req)
}

func (c *Caller) normalize(name, lang string, err error) error {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr
	}

	out := &ProviderError{Provider: name, Language: lang, Err: err}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		out.Status = statusErr.StatusCode
	}
	if errors.Is(err, context.DeadlineExceeded) {
		out.Err = fmt.Errorf("timed out after %s: %w", c.timeout, err)
	}
	return out
}
