package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"docwizard-backend/internal/doctypes"
	"docwizard-backend/internal/llm"
)

const (
	freeformPromptChars    = 1000
	freeformMaxTokens      = 500
	freeformTemperature    = 0.4
	freeformTopP           = 0.8
	freeformDefaultScore   = 75
	freeformMaxStructure   = 5
	freeformMinStructure   = 3
	freeformMaxSuggestions = 4
	freeformMinSuggestions = 2
	freeformDefaultTimeout = 20 * time.Second
)

func defaultStructure() []string {
	return []string{"Executive Summary", "Introduction", "Main Content", "Analysis", "Conclusion"}
}

func defaultSuggestions() []string {
	return []string{"Add more detail", "Include examples", "Enhance formatting", "Add references"}
}

// Freeform asks for a five-point structure, four suggestions and a score in
// plain text and recovers them with a line-oriented grammar.
type Freeform struct {
	timeout time.Duration
}

// NewFreeform constructs the freeform strategy with the given call timeout.
func NewFreeform(timeout time.Duration) *Freeform {
	if timeout <= 0 {
		timeout = freeformDefaultTimeout
	}
	return &Freeform{timeout: timeout}
}

func (s *Freeform) Name() string { return "freeform" }

func (s *Freeform) Timeout() time.Duration { return s.timeout }

// Request builds the freeform prompt with at most the first 1000 characters
// of document text.
func (s *Freeform) Request(doc doctypes.Type, text string) llm.Request {
	prompt := fmt.Sprintf(`Analyze this %s and provide exactly:
1. Five-point document structure (use numbers)
2. Four specific improvement suggestions (use bullets)
3. A quality score (0-100)

Content excerpt:
%s`, doc.Title, truncate(text, freeformPromptChars))

	return llm.Request{
		Prompt:      prompt,
		MaxTokens:   freeformMaxTokens,
		Temperature: freeformTemperature,
		TopP:        freeformTopP,
	}
}

type lineKind int

const (
	lineOther lineKind = iota
	lineNumberedPoint
	lineBulletedPoint
	lineScoreMention
)

var firstInteger = regexp.MustCompile(`\d+`)

// classifyLine assigns each trimmed, non-empty line to exactly one
// category. Recognition is independent of how many lines were already
// collected; the caller caps accumulation.
func classifyLine(line string) (lineKind, string) {
	if isNumberedPoint(line) {
		return lineNumberedPoint, strings.TrimSpace(line[strings.Index(line, ".")+1:])
	}
	if isBulletedPoint(line) {
		return lineBulletedPoint, strings.TrimSpace(strings.TrimLeft(line, "•-* "))
	}
	if strings.Contains(strings.ToLower(line), "score") {
		return lineScoreMention, line
	}
	return lineOther, ""
}

func isNumberedPoint(line string) bool {
	if line == "" {
		return false
	}
	first := []rune(line)[0]
	return unicode.IsDigit(first) && strings.Contains(line, ".")
}

func isBulletedPoint(line string) bool {
	return strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*")
}

// scoreFromLine returns the first embedded integer if it is a valid score.
func scoreFromLine(line string) (int, bool) {
	match := firstInteger.FindString(line)
	if match == "" {
		return 0, false
	}
	score, err := strconv.Atoi(match)
	if err != nil || score < 0 || score > 100 {
		return 0, false
	}
	return score, true
}

// Parse scans the reply line by line, collecting up to 5 numbered structure
// points and 4 bulleted suggestions. Too few of either category falls back
// to the fixed defaults; the score defaults to 75 unless a valid in-range
// score line is found.
func (s *Freeform) Parse(reply string, doc doctypes.Type, now time.Time) Result {
	var points, suggests []string
	score := freeformDefaultScore

	for _, raw := range strings.Split(reply, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		kind, payload := classifyLine(line)
		switch kind {
		case lineNumberedPoint:
			if len(points) < freeformMaxStructure {
				points = append(points, payload)
			}
		case lineBulletedPoint:
			if len(suggests) < freeformMaxSuggestions {
				suggests = append(suggests, payload)
			}
		case lineScoreMention:
			if v, ok := scoreFromLine(line); ok {
				score = v
			}
		}
	}

	structure := points
	structureDefaulted := len(points) < freeformMinStructure
	if structureDefaulted {
		structure = defaultStructure()
	}
	suggestions := suggests
	suggestionsDefaulted := len(suggests) < freeformMinSuggestions
	if suggestionsDefaulted {
		suggestions = defaultSuggestions()
	}

	return Result{
		Strategy:     s.Name(),
		Structure:    structure,
		Suggestions:  suggestions,
		QualityScore: score,
		AnalyzedAt:   now,
		Fallback:     structureDefaulted && suggestionsDefaulted,
	}
}

var _ Strategy = (*Freeform)(nil)
