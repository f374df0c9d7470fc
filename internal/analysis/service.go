package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"docwizard-backend/internal/doctypes"
	"docwizard-backend/internal/llm"
	"docwizard-backend/internal/shared/metrics"
	"docwizard-backend/internal/shared/telemetry"
)

// MinContentChars is the minimum trimmed document length worth analyzing.
const MinContentChars = 50

var (
	// ErrNotConfigured means the provider credential is missing or a
	// placeholder; no network call is attempted.
	ErrNotConfigured = errors.New("analysis provider not configured")

	// ErrInsufficientContent means the document text is too short to analyze.
	ErrInsufficientContent = errors.New("insufficient document content")
)

// Service orchestrates one analysis invocation: content gate, bounded
// provider call, total parse. Transport and parse failures degrade into the
// strategy's deterministic fallback result; only configuration and content
// errors surface to the caller.
type Service struct {
	Strategy   Strategy
	Client     llm.Client
	Configured bool

	now func() time.Time
}

// NewService constructs a Service. configured reports whether the provider
// credential was present and not a known placeholder at load time.
func NewService(strategy Strategy, client llm.Client, configured bool) *Service {
	return &Service{
		Strategy:   strategy,
		Client:     client,
		Configured: configured,
		now:        time.Now,
	}
}

// Analyze runs the pipeline for one document. It is idempotent per input
// modulo the provider reply and always returns either a fully-populated
// Result or an error, never both.
func (s *Service) Analyze(ctx context.Context, docTypeID string, text string) (Result, error) {
	doc, err := doctypes.Get(docTypeID)
	if err != nil {
		return Result{}, err
	}

	if !s.Configured || s.Client == nil {
		metrics.IncAnalysisFailed()
		return Result{}, ErrNotConfigured
	}

	if len(strings.TrimSpace(text)) < MinContentChars {
		metrics.IncAnalysisFailed()
		return Result{}, ErrInsufficientContent
	}

	metrics.IncAnalysisStarted()
	start := s.now()

	req := s.Strategy.Request(doc, text)

	callCtx, cancel := context.WithTimeout(ctx, s.Strategy.Timeout())
	defer cancel()

	reply, err := s.Client.Generate(callCtx, req)
	if err != nil {
		// Absence signal: the parser synthesizes the fallback result.
		telemetry.Warn("analysis.provider_unavailable", map[string]any{
			"strategy": s.Strategy.Name(),
			"doc_type": doc.ID,
			"timeout":  s.Strategy.Timeout().String(),
			"err":      err.Error(),
		})
		reply = ""
	}

	result := s.Strategy.Parse(reply, doc, s.now().UTC())

	durationMs := float64(s.now().Sub(start).Microseconds()) / 1000.0
	metrics.ObserveAnalysisDurationMs(durationMs)
	if result.Fallback {
		metrics.IncAnalysisFallback()
	} else {
		metrics.IncAnalysisCompleted()
	}

	telemetry.Info("analysis.complete", map[string]any{
		"strategy":      s.Strategy.Name(),
		"doc_type":      doc.ID,
		"quality_score": result.QualityScore,
		"fallback":      result.Fallback,
		"duration_ms":   durationMs,
	})

	return result, nil
}
