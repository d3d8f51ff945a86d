package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/wudi/labelkit/observability"
)

// DefaultMinConfidence is the token confidence cutoff: tokens at or below it
// are dropped entirely, never partially included.
const DefaultMinConfidence = 80.0

// Extractor turns a preprocessed image into a normalized text blob by
// keeping only high-confidence OCR tokens.
type Extractor struct {
	Engine Engine
	// MinConfidence is the exclusive lower bound on token confidence.
	// Zero means DefaultMinConfidence.
	MinConfidence float64
	Logger        observability.Logger
}

// NewExtractor builds an Extractor with the default confidence cutoff.
func NewExtractor(engine Engine, logger observability.Logger) *Extractor {
	if logger == nil {
		logger = observability.NopLogger{}
	}
	return &Extractor{Engine: engine, MinConfidence: DefaultMinConfidence, Logger: logger}
}

// Extract runs OCR and returns the lowercase, single-space-joined
// concatenation of tokens whose confidence exceeds the cutoff, in detection
// order. An image with no qualifying tokens yields ""; whether that is an
// error is the caller's decision.
func (x *Extractor) Extract(ctx context.Context, img image.Image, opts ...Option) (string, error) {
	in := Input{Image: img}
	for _, opt := range opts {
		opt(&in)
	}

	res, err := x.Engine.Recognize(ctx, in)
	if err != nil {
		return "", fmt.Errorf("%s ocr: %w", x.Engine.Name(), err)
	}

	min := x.MinConfidence
	if min == 0 {
		min = DefaultMinConfidence
	}

	kept := make([]string, 0, len(res.Words))
	for _, w := range res.Words {
		if w.Confidence <= min {
			continue
		}
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		kept = append(kept, w.Text)
	}

	x.Logger.Debug("ocr extraction",
		observability.Int("words", len(res.Words)),
		observability.Int("kept", len(kept)))

	return strings.ToLower(strings.Join(kept, " ")), nil
}
