// Package match decides whether OCR-extracted text satisfies a required
// label element. Matching is two-stage: a Levenshtein similarity ratio over
// the normalized strings, then an optional semantic-similarity fallback for
// paraphrased or reordered renderings. The edit-distance stage compares the
// whole extracted blob against the target, not a substring window; the low
// default threshold and the semantic stage compensate for the length skew.
package match

import (
	"context"
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/wudi/labelkit/observability"
)

// Default thresholds; both are caller-overridable per Matcher.
const (
	DefaultSimilarityThreshold = 0.2
	DefaultSemanticThreshold   = 0.5
)

// Normalize strips every rune that is not a letter, number, or whitespace
// and lowercases the rest. Diffusion models and OCR render punctuation
// (quotes, parentheses) too inconsistently to compare on. Normalize is
// idempotent.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	return strings.ToLower(sb.String())
}

// Ratio returns the normalized Levenshtein similarity in [0, 1], where 1
// means identical strings. Substitutions cost 2, matching the indel-based
// ratio convention, so transposed text is penalized like a delete+insert.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	return levenshtein.RatioForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
}

// SemanticScorer computes a language-level similarity in [0, 1] between two
// already-normalized strings.
type SemanticScorer interface {
	Name() string
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Matcher combines both stages. The zero value uses the default thresholds,
// no semantic fallback, and no logging.
type Matcher struct {
	// SimilarityThreshold gates stage 1; zero means the default.
	SimilarityThreshold float64
	// SemanticThreshold gates stage 2; zero means the default.
	SemanticThreshold float64
	// Scorer enables stage 2 when non-nil. Scorer failures degrade the
	// match to stage-1-only, they never fail the caller.
	Scorer SemanticScorer
	Logger observability.Logger
}

// NewMatcher builds a Matcher with default thresholds.
func NewMatcher(scorer SemanticScorer, logger observability.Logger) *Matcher {
	if logger == nil {
		logger = observability.NopLogger{}
	}
	return &Matcher{
		SimilarityThreshold: DefaultSimilarityThreshold,
		SemanticThreshold:   DefaultSemanticThreshold,
		Scorer:              scorer,
		Logger:              logger,
	}
}

// Matches reports whether text satisfies target. Stage 1 short-circuits on
// the first success; stage 2 runs only when stage 1 misses and a scorer is
// configured.
func (m *Matcher) Matches(ctx context.Context, text, target string) bool {
	textNorm := Normalize(text)
	targetNorm := Normalize(target)
	logger := m.logger()

	ratio := Ratio(textNorm, targetNorm)
	logger.Debug("edit-distance similarity",
		observability.String("target", targetNorm),
		observability.Float64("ratio", ratio))
	if ratio >= m.similarityThreshold() {
		return true
	}

	if m.Scorer == nil {
		return false
	}
	score, err := m.Scorer.Similarity(ctx, textNorm, targetNorm)
	if err != nil {
		// Stage 2 is inconclusive, not fatal.
		logger.Warn("semantic similarity failed",
			observability.String("scorer", m.Scorer.Name()),
			observability.Error("err", err))
		return false
	}
	logger.Debug("semantic similarity",
		observability.String("target", targetNorm),
		observability.Float64("score", score))
	return score >= m.semanticThreshold()
}

func (m *Matcher) similarityThreshold() float64 {
	if m.SimilarityThreshold == 0 {
		return DefaultSimilarityThreshold
	}
	return m.SimilarityThreshold
}

func (m *Matcher) semanticThreshold() float64 {
	if m.SemanticThreshold == 0 {
		return DefaultSemanticThreshold
	}
	return m.SemanticThreshold
}

func (m *Matcher) logger() observability.Logger {
	if m.Logger == nil {
		return observability.NopLogger{}
	}
	return m.Logger
}
