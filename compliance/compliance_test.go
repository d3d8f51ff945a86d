package compliance

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/wudi/labelkit/brand"
	"github.com/wudi/labelkit/match"
)

const (
	usRegulatory = "contains caffeine. not recommended for children or pregnant women."
	netVolume    = "12 fl oz (355ml)"
)

type fakeSource struct {
	text  string
	err   error
	calls int
}

func (f *fakeSource) Text(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

// existingImage returns a path that passes the file-existence check.
func existingImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "front_label.png")
	if err := os.WriteFile(path, []byte("not a real png"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func newValidator(source TextSource) *Validator {
	return NewValidator(source, match.NewMatcher(nil, nil), nil)
}

func TestRequiredElements(t *testing.T) {
	front, err := RequiredElements("front_label", "US")
	if err != nil {
		t.Fatalf("RequiredElements() error = %v", err)
	}
	want := []string{netVolume, usRegulatory}
	if !reflect.DeepEqual(front, want) {
		t.Fatalf("front elements = %v, want %v", front, want)
	}

	back, err := RequiredElements("back_label", "Japan")
	if err != nil {
		t.Fatalf("RequiredElements() error = %v", err)
	}
	if len(back) != 3 {
		t.Fatalf("back elements = %v, want 3 entries", back)
	}
	if back[2] != strings.ToLower(brand.RegulatoryText("Japan")) {
		t.Fatalf("regulatory element not last: %v", back)
	}

	wrap, err := RequiredElements("wraparound", "LATAM")
	if err != nil {
		t.Fatalf("RequiredElements() error = %v", err)
	}
	if len(wrap) != 2 || wrap[0] != netVolume {
		t.Fatalf("wraparound elements = %v", wrap)
	}
}

func TestRequiredElementsUnknownRegion(t *testing.T) {
	got, err := RequiredElements("front_label", "Atlantis")
	if err != nil {
		t.Fatalf("unknown region must not error, got %v", err)
	}
	if !reflect.DeepEqual(got, []string{netVolume}) {
		t.Fatalf("elements = %v, want only net volume", got)
	}
}

func TestRequiredElementsUnknownType(t *testing.T) {
	_, err := RequiredElements("side_label", "US")
	if !errors.Is(err, ErrUnsupportedLabelType) {
		t.Fatalf("error = %v, want ErrUnsupportedLabelType", err)
	}
}

func TestValidateMissingFile(t *testing.T) {
	v := newValidator(&fakeSource{})
	res, err := v.Validate(context.Background(), filepath.Join(t.TempDir(), "missing.png"), "front_label", "US")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if res.Compliant {
		t.Fatal("missing file must not be compliant")
	}
	if len(res.Errors) != 1 || len(res.MissingElements) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Errors[0], "does not exist") {
		t.Fatalf("unexpected error entry: %q", res.Errors[0])
	}
}

func TestValidateNoReadableText(t *testing.T) {
	for _, text := range []string{"", "   \t  "} {
		v := newValidator(&fakeSource{text: text})
		res, err := v.Validate(context.Background(), existingImage(t), "back_label", "US")
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if res.Compliant {
			t.Fatal("empty text must not be compliant")
		}
		if len(res.Errors) != 1 || res.Errors[0] != "No readable text found in the image" {
			t.Fatalf("unexpected errors: %v", res.Errors)
		}
		if len(res.MissingElements) != 0 {
			t.Fatalf("unexpected missing elements: %v", res.MissingElements)
		}
	}
}

func TestValidateUnsupportedLabelType(t *testing.T) {
	v := newValidator(&fakeSource{text: "some readable text"})
	res, err := v.Validate(context.Background(), existingImage(t), "unknown_label", "US")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if res.Compliant {
		t.Fatal("unsupported label type must not be compliant")
	}
	want := []string{"Unsupported label type: unknown_label"}
	if !reflect.DeepEqual(res.Errors, want) {
		t.Fatalf("errors = %v, want %v", res.Errors, want)
	}
}

func TestValidateExtractionErrorPropagates(t *testing.T) {
	v := newValidator(&fakeSource{err: errors.New("ocr engine crashed")})
	_, err := v.Validate(context.Background(), existingImage(t), "front_label", "US")
	if err == nil {
		t.Fatal("expected extraction error to propagate")
	}
}

func TestValidateCompliantFrontLabel(t *testing.T) {
	text := netVolume + " " + "contains caffeine. not recommended for children or pregnant women."
	v := newValidator(&fakeSource{text: text})
	res, err := v.Validate(context.Background(), existingImage(t), "front_label", "US")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !res.Compliant {
		t.Fatalf("expected compliant, got %+v", res)
	}
	if len(res.MissingElements) != 0 || len(res.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestValidateMissingRegulatory(t *testing.T) {
	v := newValidator(&fakeSource{text: netVolume})
	res, err := v.Validate(context.Background(), existingImage(t), "front_label", "US")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if res.Compliant {
		t.Fatal("expected non-compliant")
	}
	want := []string{usRegulatory}
	if !reflect.DeepEqual(res.MissingElements, want) {
		t.Fatalf("missing = %v, want %v", res.MissingElements, want)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func TestValidateJapanBackLabelMissingRegulatory(t *testing.T) {
	text := strings.ToLower(brand.NutritionalFacts) + " " + strings.ToLower(brand.Ingredients)
	v := newValidator(&fakeSource{text: text})
	res, err := v.Validate(context.Background(), existingImage(t), "back_label", "Japan")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if res.Compliant {
		t.Fatal("expected non-compliant")
	}
	want := []string{strings.ToLower(brand.RegulatoryText("Japan"))}
	if !reflect.DeepEqual(res.MissingElements, want) {
		t.Fatalf("missing = %v, want only the Japanese regulatory text", res.MissingElements)
	}
}

func TestValidateCollapsedWhitespaceVariant(t *testing.T) {
	// OCR sometimes drops all spacing; the spaces-removed probe must still hit.
	v := newValidator(&fakeSource{text: "12floz355ml"})
	res, err := v.Validate(context.Background(), existingImage(t), "front_label", "Atlantis")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !res.Compliant {
		t.Fatalf("expected compliant via collapsed variant, got %+v", res)
	}
}

func TestValidateIdempotent(t *testing.T) {
	source := &fakeSource{text: netVolume}
	v := newValidator(source)
	path := existingImage(t)

	first, err := v.Validate(context.Background(), path, "front_label", "US")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	second, err := v.Validate(context.Background(), path, "front_label", "US")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
	if source.calls != 2 {
		t.Fatalf("expected 2 extractions, got %d", source.calls)
	}
}
