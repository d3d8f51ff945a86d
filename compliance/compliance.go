// Package compliance verifies that a generated label image actually renders
// the textual elements the brand and the target region require. It combines
// OCR extraction with fuzzy matching and reports a per-image verdict.
package compliance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/wudi/labelkit/brand"
	"github.com/wudi/labelkit/match"
	"github.com/wudi/labelkit/observability"
	"github.com/wudi/labelkit/prompt"
)

// ErrUnsupportedLabelType marks a label type outside the known three.
var ErrUnsupportedLabelType = errors.New("unsupported label type")

// Result is the verdict for one validation call. MissingElements are soft
// compliance failures; Errors are hard input failures. The two are
// independent signals and callers should report them separately.
type Result struct {
	Compliant       bool
	MissingElements []string
	Errors          []string
}

// RequiredElements derives the checklist for a label type and region. The
// order is deterministic: content elements first, the regulatory sentence
// last. Elements are lowercased; an unknown region contributes no regulatory
// element rather than an error. Unknown label types are an error.
func RequiredElements(labelType, region string) ([]string, error) {
	regulatory := strings.ToLower(brand.RegulatoryText(region))

	var elements []string
	switch labelType {
	case prompt.FrontLabel, prompt.Wraparound:
		elements = []string{strings.ToLower(brand.NetVolume), regulatory}
	case prompt.BackLabel:
		elements = []string{
			strings.ToLower(brand.NutritionalFacts),
			strings.ToLower(brand.Ingredients),
			regulatory,
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLabelType, labelType)
	}

	out := elements[:0]
	for _, e := range elements {
		if e != "" {
			out = append(out, e)
		}
	}
	return out, nil
}

// TextSource produces the extracted OCR text blob for an image file.
// Extraction failures (decode, OCR engine) are returned as errors and the
// validator propagates them unchanged.
type TextSource interface {
	Text(ctx context.Context, path string) (string, error)
}

// Validator runs the compliance state machine. It holds no cross-call state
// and is safe for concurrent use on distinct image files.
type Validator struct {
	Source  TextSource
	Matcher *match.Matcher
	Logger  observability.Logger
}

// NewValidator wires a validator; a nil logger logs nowhere.
func NewValidator(source TextSource, matcher *match.Matcher, logger observability.Logger) *Validator {
	if logger == nil {
		logger = observability.NopLogger{}
	}
	return &Validator{Source: source, Matcher: matcher, Logger: logger}
}

// Validate checks the image at imagePath against the required elements for
// (labelType, region).
//
// Missing file, empty extracted text, and unknown label types yield a
// terminal Result with exactly one error entry. Extraction failures are
// returned as an error for the caller's failure boundary; the validator
// never folds them into a Result. Soft failures (elements not found) never
// produce an error return.
func (v *Validator) Validate(ctx context.Context, imagePath, labelType, region string) (Result, error) {
	logger := v.Logger.With(
		observability.String("image", imagePath),
		observability.String("label_type", labelType),
		observability.String("region", region))

	result := Result{Compliant: true}

	if _, err := os.Stat(imagePath); err != nil {
		msg := fmt.Sprintf("Image file does not exist: %s", imagePath)
		logger.Error("validation aborted", observability.Error("err", err))
		result.Errors = append(result.Errors, msg)
		result.Compliant = false
		return result, nil
	}

	text, err := v.Source.Text(ctx, imagePath)
	if err != nil {
		return Result{}, fmt.Errorf("extract text from %s: %w", imagePath, err)
	}
	logger.Info("text extracted", observability.Int("length", len(text)))

	if strings.TrimSpace(text) == "" {
		logger.Warn("no readable text found in the image")
		result.Errors = append(result.Errors, "No readable text found in the image")
		result.Compliant = false
		return result, nil
	}

	elements, err := RequiredElements(labelType, region)
	if err != nil {
		logger.Error("checklist derivation failed", observability.Error("err", err))
		result.Errors = append(result.Errors, fmt.Sprintf("Unsupported label type: %s", labelType))
		result.Compliant = false
		return result, nil
	}

	for _, element := range elements {
		if !v.found(ctx, text, element) {
			logger.Warn("required element not found", observability.String("element", element))
			result.MissingElements = append(result.MissingElements, element)
			result.Compliant = false
		}
	}

	logger.Info("validation finished",
		observability.Bool("compliant", result.Compliant),
		observability.Int("missing", len(result.MissingElements)))
	return result, nil
}

// found probes the element as-is and with internal spaces removed, so labels
// where OCR collapsed or dropped whitespace still count.
func (v *Validator) found(ctx context.Context, text, element string) bool {
	for _, variant := range []string{element, strings.ReplaceAll(element, " ", "")} {
		if v.Matcher.Matches(ctx, text, variant) {
			return true
		}
	}
	return false
}
