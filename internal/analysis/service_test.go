package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"docwizard-backend/internal/llm"
)

type fakeClient struct {
	reply string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

var longEnough = strings.Repeat("substantial document content. ", 10)

func TestAnalyzeUnknownDocType(t *testing.T) {
	svc := NewService(NewChecklist(0), &fakeClient{}, true)
	if _, err := svc.Analyze(context.Background(), "memo", longEnough); err == nil {
		t.Fatal("expected error for unknown document type")
	}
}

func TestAnalyzeNotConfiguredShortCircuits(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(NewChecklist(0), client, false)

	_, err := svc.Analyze(context.Background(), "bestPractices", longEnough)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("network call attempted despite missing credential: %d calls", client.calls)
	}
}

func TestAnalyzeInsufficientContent(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(NewChecklist(0), client, true)

	_, err := svc.Analyze(context.Background(), "bestPractices", "   too short   ")
	if !errors.Is(err, ErrInsufficientContent) {
		t.Fatalf("expected ErrInsufficientContent, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("network call attempted for insufficient content: %d calls", client.calls)
	}

	// 40 characters trimmed is still below the 50-character gate.
	forty := strings.Repeat("a", 40)
	if _, err := svc.Analyze(context.Background(), "bestPractices", "  "+forty+"  "); !errors.Is(err, ErrInsufficientContent) {
		t.Fatalf("expected ErrInsufficientContent for 40 chars, got %v", err)
	}
}

func TestAnalyzeTransportFailureDegradesToFallback(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	svc := NewService(NewChecklist(0), client, true)

	res, err := svc.Analyze(context.Background(), "bestPractices", longEnough)
	if err != nil {
		t.Fatalf("transport failure must not surface: %v", err)
	}
	if !res.Fallback {
		t.Fatal("expected fallback result")
	}
	if res.QualityScore != 50 {
		t.Fatalf("fallback score = %d, want 50", res.QualityScore)
	}
	if res.AnalyzedAt.IsZero() {
		t.Fatal("analyzed_at not set on fallback")
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly one call, got %d", client.calls)
	}
}

func TestAnalyzeDeadlineBoundsLatency(t *testing.T) {
	client := &fakeClient{reply: "ignored", delay: 5 * time.Second}
	svc := NewService(NewFreeform(100*time.Millisecond), client, true)

	start := time.Now()
	res, err := svc.Analyze(context.Background(), "bestPractices", longEnough)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("deadline must degrade, not fail: %v", err)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("analysis outlived its deadline: %v", elapsed)
	}
	if !res.Fallback {
		t.Fatal("expected fallback result after deadline")
	}
	if res.QualityScore != 75 {
		t.Fatalf("freeform fallback score = %d, want 75", res.QualityScore)
	}
}

func TestAnalyzeSuccessfulChecklist(t *testing.T) {
	doc := bestPractices(t)
	client := &fakeClient{reply: checklistReplyFor(t, doc, 88)}
	svc := NewService(NewChecklist(0), client, true)

	res, err := svc.Analyze(context.Background(), "bestPractices", longEnough)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Fallback {
		t.Fatal("unexpected fallback")
	}
	if res.QualityScore != 88 {
		t.Fatalf("score = %d, want 88", res.QualityScore)
	}
	if res.Strategy != "checklist" {
		t.Fatalf("strategy tag = %q", res.Strategy)
	}
	total := res.Summary.Exists + res.Summary.Partial + res.Summary.Missing
	if total != len(doc.ExpectedElements()) {
		t.Fatalf("summary sums to %d, want %d", total, len(doc.ExpectedElements()))
	}
}
