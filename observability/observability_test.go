package observability

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestFields(t *testing.T) {
	if f := String("k", "v"); f.Key() != "k" || f.Value() != "v" {
		t.Fatalf("unexpected string field: %v=%v", f.Key(), f.Value())
	}
	if f := Int("n", 3); f.Value() != 3 {
		t.Fatalf("unexpected int field: %v", f.Value())
	}
	if f := Float64("r", 0.5); f.Value() != 0.5 {
		t.Fatalf("unexpected float field: %v", f.Value())
	}
	if f := Bool("ok", true); f.Value() != true {
		t.Fatalf("unexpected bool field: %v", f.Value())
	}
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	l.With(String("stage", "extract")).Info("done", Int("words", 7))
	out := buf.String()
	if !strings.Contains(out, "stage=extract") || !strings.Contains(out, "words=7") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	var l Logger = NopLogger{}
	l = l.With(String("k", "v"))
	l.Debug("a")
	l.Info("b")
	l.Warn("c")
	l.Error("d", Error("err", nil))
}
