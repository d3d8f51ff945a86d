package ocr

import (
	"context"
	"image"
)

// Word represents a single recognized token in detection order.
type Word struct {
	Text string
	// Confidence is the engine-reported recognition confidence in [0, 100].
	Confidence float64
}

// Result captures OCR output for a single image.
type Result struct {
	// PlainText contains the linearized text as reported by the engine.
	PlainText string
	// Words carries the per-token breakdown with confidences, in
	// left-to-right, top-to-bottom detection order.
	Words []Word
}

// Input encapsulates a single image submitted for OCR.
type Input struct {
	// Image is the (already preprocessed) raster to recognize.
	Image image.Image
	// Languages is a list of trained-data hints (e.g., "eng", "jpn").
	Languages []string
	// Variables allows callers to pass through engine-specific knobs (e.g.,
	// "tessedit_pageseg_mode") without hard-coding them into the API surface.
	Variables map[string]string
}

// Option mutates an OCR input before submission.
type Option func(*Input)

// WithLanguages sets language hints on the OCR input.
func WithLanguages(langs ...string) Option {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithVariable sets a provider-specific variable on the OCR input.
func WithVariable(key, value string) Option {
	return func(in *Input) {
		if in.Variables == nil {
			in.Variables = make(map[string]string)
		}
		in.Variables[key] = value
	}
}

// Engine is the OCR provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}
