package compliance

import (
	"context"

	"github.com/wudi/labelkit/ocr"
	"github.com/wudi/labelkit/preprocess"
)

// OCRTextSource is the production TextSource: preprocess the file, then run
// the confidence-filtered extractor over it.
type OCRTextSource struct {
	Extractor *ocr.Extractor
	// Languages carries trained-data hints forwarded to the OCR engine.
	Languages []string
}

func (s *OCRTextSource) Text(ctx context.Context, path string) (string, error) {
	img, err := preprocess.File(path)
	if err != nil {
		return "", err
	}
	var opts []ocr.Option
	if len(s.Languages) > 0 {
		opts = append(opts, ocr.WithLanguages(s.Languages...))
	}
	return s.Extractor.Extract(ctx, img, opts...)
}
