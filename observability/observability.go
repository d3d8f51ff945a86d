package observability

import "log/slog"

// Logger is the minimal structured logging contract library packages depend
// on. Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type float64Field struct {
	key string
	val float64
}

func (f float64Field) Key() string        { return f.key }
func (f float64Field) Value() interface{} { return f.val }

type boolField struct {
	key string
	val bool
}

func (f boolField) Key() string        { return f.key }
func (f boolField) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field          { return stringField{key, value} }
func Int(key string, value int) Field         { return intField{key, value} }
func Float64(key string, value float64) Field { return float64Field{key, value} }
func Bool(key string, value bool) Field       { return boolField{key, value} }
func Error(key string, err error) Field       { return errorField{key, err} }

type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// SlogLogger adapts a *slog.Logger to the Logger interface so the binary can
// route library logs through the process-wide structured logger.
type SlogLogger struct{ l *slog.Logger }

// NewSlogLogger wraps l; a nil l uses slog.Default().
func NewSlogLogger(l *slog.Logger) SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return SlogLogger{l: l}
}

func (s SlogLogger) Debug(msg string, fields ...Field) { s.l.Debug(msg, args(fields)...) }
func (s SlogLogger) Info(msg string, fields ...Field)  { s.l.Info(msg, args(fields)...) }
func (s SlogLogger) Warn(msg string, fields ...Field)  { s.l.Warn(msg, args(fields)...) }
func (s SlogLogger) Error(msg string, fields ...Field) { s.l.Error(msg, args(fields)...) }

func (s SlogLogger) With(fields ...Field) Logger {
	return SlogLogger{l: s.l.With(args(fields)...)}
}

func args(fields []Field) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key(), f.Value())
	}
	return out
}

// Standard metric names emitted by the pipeline.
const (
	MetricGenerateTime  = "label.generate.duration"
	MetricOCRTime       = "label.ocr.duration"
	MetricValidateTime  = "label.validate.duration"
	MetricUploadTime    = "label.upload.duration"
	MetricUnitCount     = "label.units.count"
	MetricCompliantRate = "label.compliant.rate"
)
