package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"ai-medreport-be/pkg/analysis/aiclient"
	"ai-medreport-be/pkg/analysis/cache"
	"ai-medreport-be/pkg/analysis/chunker"
	"ai-medreport-be/pkg/analysis/classifier"
	"ai-medreport-be/pkg/analysis/ratelimit"
)

// Logger is the slice of the app logger the engine needs.
type Logger interface {
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
}

// AIClient analyzes a single chunk. Satisfied by *aiclient.Client.
type AIClient interface {
	Analyze(ctx context.Context, chunkText string) (*aiclient.Response, error)
}

// Request identifies one document to analyze. ClientKey is the admission
// control identity (API key or caller IP); it never affects the cache key.
type Request struct {
	DocumentID string
	Text       string
	ClientKey  string
}

type Config struct {
	ChunkMaxChars  int
	ChunkOverlap   int
	ChunkBacktrack int
	// Concurrency bounds how many chunks are in flight at once per
	// document.
	Concurrency int
	// ClientLimit annotates rate-limit errors with the window capacity.
	ClientLimit int
}

// Engine runs the full analysis pipeline: normalize, fingerprint, cache,
// admission, chunk, fan out AI calls, merge, classify.
type Engine struct {
	cfg        Config
	ai         AIClient
	cache      *cache.ResultCache
	classifier *classifier.Classifier
	window     ratelimit.Window
	log        Logger
}

func NewEngine(cfg Config, ai AIClient, resultCache *cache.ResultCache, cls *classifier.Classifier, window ratelimit.Window, log Logger) *Engine {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 3
	}
	return &Engine{cfg: cfg, ai: ai, cache: resultCache, classifier: cls, window: window, log: log}
}

// Analyze processes one document end to end. The cache is consulted before
// admission control, so a repeated document is free regardless of the
// caller's remaining quota. Only *RateLimitError and ErrEmptyInput (plus
// context errors) surface to the caller; AI failures degrade the result
// instead of failing the request.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()

	text := NormalizeText(req.Text)
	if text == "" {
		return nil, ErrEmptyInput
	}
	fp := Fingerprint(text)

	data, hit, err := e.cache.GetOrCompute(ctx, fp, func(ctx context.Context) ([]byte, error) {
		result, err := e.compute(ctx, text, fp, req.ClientKey)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	})
	if err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode cached result: %w", err)
	}

	result.DocumentID = req.DocumentID
	result.Cached = hit
	result.ProcessingMS = float64(time.Since(started).Microseconds()) / 1000

	e.info("analysis completed", map[string]interface{}{
		"document_id": req.DocumentID,
		"fingerprint": fp,
		"cached":      hit,
		"specialty":   result.Specialty,
		"degraded":    result.Degraded,
	})
	return &result, nil
}

func (e *Engine) compute(ctx context.Context, text, fp, clientKey string) (*Result, error) {
	ok, retryAfter, err := e.window.Allow(ctx, clientKey)
	if err != nil {
		// Admission store down: fail open rather than refusing service.
		e.warn("admission check failed, allowing request", map[string]interface{}{
			"client_key": clientKey,
			"error":      err.Error(),
		})
		ok = true
	}
	if !ok {
		return nil, &RateLimitError{RetryAfter: retryAfter, Limit: e.cfg.ClientLimit}
	}

	chunks, err := chunker.Split(text, chunker.Config{
		MaxChars:  e.cfg.ChunkMaxChars,
		Overlap:   e.cfg.ChunkOverlap,
		Backtrack: e.cfg.ChunkBacktrack,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*aiclient.Response, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, ch := range chunks {
		i, ch := i, ch
		g.Go(func() error {
			resp, err := e.ai.Analyze(gctx, ch.Text)
			if err != nil {
				if errors.Is(err, aiclient.ErrAIUnavailable) {
					e.warn("chunk analysis failed", map[string]interface{}{
						"fingerprint": fp,
						"chunk_index": ch.Index,
						"error":       err.Error(),
					})
					return nil
				}
				return err
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged, succeeded := mergeResponses(responses)
	return e.assemble(text, fp, chunks, merged, succeeded), nil
}

// assemble turns the merged AI response (possibly nil) into the final
// Result, running classification and the partial-failure confidence
// discount.
func (e *Engine) assemble(text, fp string, chunks []chunker.Chunk, merged *aiclient.Response, succeeded int) *Result {
	result := &Result{
		Fingerprint:  fp,
		ChunkCount:   len(chunks),
		FailedChunks: len(chunks) - succeeded,
	}

	var signal *classifier.AISignal
	if merged != nil {
		result.PatientInfo = PatientInfo{Age: merged.PatientInfo.Age, Gender: merged.PatientInfo.Gender}
		result.Symptoms = merged.Symptoms
		result.Medications = merged.Medications
		result.Procedures = merged.Procedures
		result.LabValues = merged.LabValues
		result.BodyParts = merged.BodyParts
		result.ClinicalImpression = merged.ClinicalImpression
		result.ProfessionalSummary = merged.ProfessionalSummary
		result.PatientFriendlySummary = merged.PatientFriendlySummary
		result.Degraded = merged.Degraded
		result.DegradedReason = merged.DegradedReason

		signal = &classifier.AISignal{
			Specialty:  merged.Specialty,
			RiskFlags:  merged.RiskFlags,
			Confidence: merged.Confidence,
		}
	} else {
		result.Degraded = true
		result.DegradedReason = "all chunks failed ai analysis"
	}

	cls := e.classifier.Classify(text, signal)
	result.Specialty = cls.Specialty
	result.RiskFlags = cls.RiskFlags
	result.Source = cls.Source

	confidence := cls.Confidence
	if succeeded > 0 && succeeded < len(chunks) {
		confidence *= float64(succeeded) / float64(len(chunks))
		result.Degraded = true
		if result.DegradedReason == "" {
			result.DegradedReason = fmt.Sprintf("%d of %d chunks failed ai analysis", len(chunks)-succeeded, len(chunks))
		}
	}
	result.Confidence = clamp01(confidence)
	return result
}

func (e *Engine) info(message string, details map[string]interface{}) {
	if e.log != nil {
		e.log.Info("ANALYSIS", message, details)
	}
}

func (e *Engine) warn(message string, details map[string]interface{}) {
	if e.log != nil {
		e.log.Warn("ANALYSIS", message, details)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
