// Package ocr recognizes words in window captures. Engines are tried by the
// caller in order; an engine whose backend is missing reports ErrUnavailable.
package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable means the engine's backend (binary, runtime library or
// models) is not installed. It is an expected condition, not a failure.
var ErrUnavailable = errors.New("ocr engine unavailable")

// Word is one recognized piece of text. Box is in the pixel space of the
// image passed to Recognize.
type Word struct {
	Text       string
	Box        image.Rectangle
	Confidence float64
}

// Engine recognizes text in an image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image) ([]Word, error)
}
