// Package ocr defines the OCR engine abstraction for label verification and
// the confidence-filtered text extractor built on top of it. The Engine
// interface is intentionally small so providers can be backed by the local
// Tesseract library, a test fake, or a remote service without leaking
// provider-specific concerns into callers.
package ocr
