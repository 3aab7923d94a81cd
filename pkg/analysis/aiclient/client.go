package aiclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"ai-medreport-be/pkg/llm"
)

// ErrAIUnavailable means every attempt against the provider failed. The
// classifier treats this as "no AI signal", not as a pipeline failure; the
// last observed cause is wrapped for the logs.
var ErrAIUnavailable = errors.New("ai provider unavailable")

const analysisPrompt = `You are a medical document analyst. Extract structured information from the medical transcription below.

CRITICAL: Return ONLY a valid JSON object. No markdown, no code fences, no explanations.

Required JSON structure:
{
  "patient_info": {"age": "string or null", "gender": "string or null"},
  "symptoms": ["list of symptoms"],
  "medications": ["list of medications and dosages"],
  "procedures": ["list of procedures or tests"],
  "lab_values": ["list of lab results with values"],
  "body_parts": ["list of body parts mentioned"],
  "clinical_impression": "brief clinical summary or null",
  "risk_flags": ["critical conditions, urgent findings"],
  "specialty_classification": "medical specialty or null",
  "professional_summary": "2-3 sentence professional clinical summary",
  "patient_friendly_summary": "2-3 sentence plain-language explanation",
  "confidence_score": 0.85
}

Do NOT diagnose or prescribe. Use [] for empty lists, null for missing values.

MEDICAL TRANSCRIPTION:
%s`

// Config tunes one client instance. ProviderRPS throttles outbound calls
// ahead of the provider's own limiter so 429s stay rare.
type Config struct {
	Policy         RetryPolicy
	AttemptTimeout time.Duration
	Temperature    float64
	MaxTokens      int
	ProviderRPS    float64
	ProviderBurst  int
}

// Client wraps a single LLM call with per-attempt timeout, proactive
// throttling, retry with backoff on transient failures, and strict
// response-shape validation. It holds no cache; caching is the cache
// component's job so this stays trivially substitutable.
type Client struct {
	provider llm.LLMProvider
	cfg      Config
	limiter  *rate.Limiter
}

func New(provider llm.LLMProvider, cfg Config) *Client {
	if cfg.Policy.MaxAttempts <= 0 {
		cfg.Policy.MaxAttempts = 3
	}
	if cfg.Policy.BaseDelay <= 0 {
		cfg.Policy.BaseDelay = time.Second
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 120 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.ProviderRPS > 0 {
		burst := cfg.ProviderBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.ProviderRPS), burst)
	}

	return &Client{provider: provider, cfg: cfg, limiter: limiter}
}

// Analyze sends one chunk to the provider and returns a validated or
// degraded Response. Transient failures (network, timeout, 429, 5xx) are
// retried with backoff up to the attempt ceiling; other 4xx fail
// immediately. Exhaustion yields ErrAIUnavailable with the last cause.
func (c *Client) Analyze(ctx context.Context, chunkText string) (*Response, error) {
	prompt := fmt.Sprintf(analysisPrompt, chunkText)

	var lastErr error
	for attempt := 0; attempt < c.cfg.Policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.Policy.Delay(attempt)):
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		raw, err := c.callOnce(ctx, prompt)
		if err != nil {
			lastErr = err
			if !transient(err) {
				return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		payload, ok := extractJSON(raw)
		if !ok {
			// the model answered but not with JSON; worth another attempt
			lastErr = fmt.Errorf("no parseable JSON in model reply")
			continue
		}

		return buildResponse(raw, payload), nil
	}

	return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, lastErr)
}

func (c *Client) callOnce(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
	defer cancel()

	opts := []llm.Option{llm.WithTemperature(c.cfg.Temperature)}
	if c.cfg.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(c.cfg.MaxTokens))
	}

	return c.provider.Generate(attemptCtx, prompt, opts...)
}
