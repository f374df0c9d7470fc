package analysis

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"docwizard-backend/internal/doctypes"
)

var parseTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func bestPractices(t *testing.T) doctypes.Type {
	t.Helper()
	doc, err := doctypes.Get("bestPractices")
	if err != nil {
		t.Fatalf("doctypes.Get: %v", err)
	}
	return doc
}

func checklistReplyFor(t *testing.T, doc doctypes.Type, score int) string {
	t.Helper()
	var findings []map[string]string
	for i, name := range doc.ExpectedElements() {
		status := "EXISTS"
		if i%3 == 1 {
			status = "PARTIAL"
		} else if i%3 == 2 {
			status = "MISSING"
		}
		findings = append(findings, map[string]string{
			"name":        name,
			"status":      status,
			"description": "found",
			"action":      "none",
		})
	}
	payload := map[string]any{
		"elements":      findings,
		"quality_score": score,
		// Model-reported summary deliberately wrong; the parser must
		// recompute counts from statuses.
		"summary":         map[string]int{"exists": 99, "partial": 0, "missing": 0},
		"recommendations": []string{"a", "b", "c"},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return string(raw)
}

func TestChecklistParseRecomputesSummary(t *testing.T) {
	doc := bestPractices(t)
	s := NewChecklist(0)

	res := s.Parse(checklistReplyFor(t, doc, 82), doc, parseTime)

	n := len(doc.ExpectedElements())
	if len(res.Elements) != n {
		t.Fatalf("expected %d findings, got %d", n, len(res.Elements))
	}
	sum := res.Summary.Exists + res.Summary.Partial + res.Summary.Missing
	if sum != n {
		t.Fatalf("summary counts sum to %d, want %d", sum, n)
	}
	if res.Summary.Exists == 99 {
		t.Fatal("parser trusted the model-reported summary")
	}
	if res.QualityScore != 82 {
		t.Fatalf("quality score = %d, want 82", res.QualityScore)
	}
	if res.AnalyzedAt != parseTime {
		t.Fatalf("analyzed_at not set: %v", res.AnalyzedAt)
	}
	if res.Fallback {
		t.Fatal("successful parse marked as fallback")
	}
}

func TestChecklistParseStripsGenericFence(t *testing.T) {
	doc := bestPractices(t)
	s := NewChecklist(0)
	fenced := "Here is the analysis:\n```\n" + checklistReplyFor(t, doc, 64) + "\n```\nDone."

	res := s.Parse(fenced, doc, parseTime)
	if res.Fallback {
		t.Fatal("fenced valid JSON should parse, got fallback")
	}
	if res.QualityScore != 64 {
		t.Fatalf("quality score = %d, want 64", res.QualityScore)
	}
}

func TestChecklistParseStripsJSONTaggedFence(t *testing.T) {
	doc := bestPractices(t)
	s := NewChecklist(0)
	fenced := "```json\n" + checklistReplyFor(t, doc, 71) + "\n```"

	res := s.Parse(fenced, doc, parseTime)
	if res.Fallback || res.QualityScore != 71 {
		t.Fatalf("tagged fence parse failed: fallback=%v score=%d", res.Fallback, res.QualityScore)
	}
}

func TestChecklistParseMalformedYieldsFallback(t *testing.T) {
	doc := bestPractices(t)
	s := NewChecklist(0)

	for _, reply := range []string{"", "   ", "not json at all", `{"elements": []}`, "```json\n{broken\n```"} {
		res := s.Parse(reply, doc, parseTime)
		if !res.Fallback {
			t.Fatalf("reply %q: expected fallback", reply)
		}
		if res.QualityScore != 50 {
			t.Fatalf("reply %q: fallback score = %d, want 50", reply, res.QualityScore)
		}
		want := len(doc.ExpectedElements())
		if want > 5 {
			want = 5
		}
		if res.Summary.Partial != want || res.Summary.Exists != 0 || res.Summary.Missing != 0 {
			t.Fatalf("reply %q: fallback summary %+v, want %d partial", reply, *res.Summary, want)
		}
		if len(res.Elements) != want {
			t.Fatalf("reply %q: fallback findings = %d, want %d", reply, len(res.Elements), want)
		}
		if len(res.Recommendations) != 3 {
			t.Fatalf("reply %q: fallback recommendations = %d, want 3", reply, len(res.Recommendations))
		}
	}
}

func TestChecklistParseNormalizesUnknownStatus(t *testing.T) {
	doc := bestPractices(t)
	s := NewChecklist(0)
	reply := `{"elements":[{"name":"Executive Summary","status":"present","description":"d"},{"name":"Introduction","status":"exists","description":"d"}],"quality_score":60,"recommendations":["a","b","c"]}`

	res := s.Parse(reply, doc, parseTime)
	if res.Elements[0].Status != StatusPartial {
		t.Fatalf("unknown status normalized to %q, want PARTIAL", res.Elements[0].Status)
	}
	if res.Elements[1].Status != StatusExists {
		t.Fatalf("lowercase exists normalized to %q, want EXISTS", res.Elements[1].Status)
	}
	if res.Summary.Exists+res.Summary.Partial+res.Summary.Missing != len(res.Elements) {
		t.Fatal("summary does not sum to finding count")
	}
}

func TestChecklistParseClampsScore(t *testing.T) {
	doc := bestPractices(t)
	s := NewChecklist(0)
	reply := `{"elements":[{"name":"Introduction","status":"EXISTS","description":"d"}],"quality_score":150,"recommendations":["a","b","c"]}`

	res := s.Parse(reply, doc, parseTime)
	if res.QualityScore != 100 {
		t.Fatalf("score = %d, want clamped 100", res.QualityScore)
	}
}

func TestChecklistParseRecommendationArity(t *testing.T) {
	doc := bestPractices(t)
	s := NewChecklist(0)

	few := `{"elements":[{"name":"Introduction","status":"EXISTS","description":"d"}],"quality_score":70,"recommendations":["only one"]}`
	res := s.Parse(few, doc, parseTime)
	if len(res.Recommendations) != 3 {
		t.Fatalf("expected default trio for sparse recommendations, got %d", len(res.Recommendations))
	}

	many := `{"elements":[{"name":"Introduction","status":"EXISTS","description":"d"}],"quality_score":70,"recommendations":["1","2","3","4","5","6","7"]}`
	res = s.Parse(many, doc, parseTime)
	if len(res.Recommendations) != 5 {
		t.Fatalf("expected truncation to 5 recommendations, got %d", len(res.Recommendations))
	}
}

func TestChecklistParseIdempotent(t *testing.T) {
	doc := bestPractices(t)
	s := NewChecklist(0)
	reply := checklistReplyFor(t, doc, 77)

	first := s.Parse(reply, doc, parseTime)
	second := s.Parse(reply, doc, parseTime)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("parse is not deterministic for identical input")
	}
}

func TestChecklistPromptTruncation(t *testing.T) {
	doc := bestPractices(t)
	s := NewChecklist(0)
	huge := strings.Repeat("x", 1_000_000)

	req := s.Request(doc, huge)
	if len(req.Prompt) > checklistPromptChars+3000 {
		t.Fatalf("prompt length %d not bounded", len(req.Prompt))
	}
	if !strings.Contains(req.Prompt, "- Executive Summary") {
		t.Fatal("prompt missing element bullets")
	}
	if !strings.Contains(req.Prompt, "EXISTS") || !strings.Contains(req.Prompt, "MISSING") {
		t.Fatal("prompt missing status vocabulary")
	}
	if req.MaxTokens != 1500 {
		t.Fatalf("max tokens = %d, want 1500", req.MaxTokens)
	}
}

func TestChecklistPromptDeterministic(t *testing.T) {
	doc := bestPractices(t)
	s := NewChecklist(0)
	a := s.Request(doc, "some document body")
	b := s.Request(doc, "some document body")
	if a.Prompt != b.Prompt {
		t.Fatal("prompt not deterministic for identical input")
	}
}
