// Package generate talks to the text-to-image diffusion service that renders
// label artwork. The service is an external collaborator: one prompt and a
// target resolution in, one raster image out.
package generate

import "fmt"

// NegativePrompt steers the model away from the failure modes that break OCR
// verification downstream.
const NegativePrompt = "blurry, unfocused, deviate from the parameters, extra words, misspellings, inconsistent"

// Sampling parameters sent with every request.
const (
	InferenceSteps = 10
	GuidanceScale  = 1.0
)

// Size is a target resolution in pixels.
type Size struct {
	Width  int
	Height int
}

var formats = map[string]Size{
	"front_label": {Width: 1024, Height: 1024}, // square
	"back_label":  {Width: 768, Height: 1344},  // vertical portrait (9:16)
	"wraparound":  {Width: 1344, Height: 768},  // horizontal landscape (16:9)
}

// Format returns the fixed render resolution for a label type.
func Format(labelType string) (Size, error) {
	s, ok := formats[labelType]
	if !ok {
		return Size{}, fmt.Errorf("no render format for label type %q", labelType)
	}
	return s, nil
}
