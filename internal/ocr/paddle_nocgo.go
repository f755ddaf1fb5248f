//go:build !cgo

package ocr

import (
	"context"
	"fmt"
	"image"
)

// PaddleConfig locates the ONNX runtime and the PaddleOCR models.
type PaddleConfig struct {
	OnnxRuntimeLibPath string
	DetModelPath       string
	RecModelPath       string
	DictPath           string
}

// Paddle is unavailable in builds without cgo.
type Paddle struct{}

func NewPaddle(cfg PaddleConfig) *Paddle { return &Paddle{} }

func (p *Paddle) Name() string { return "paddle" }

func (p *Paddle) Recognize(ctx context.Context, img image.Image) ([]Word, error) {
	return nil, fmt.Errorf("%w: built without cgo", ErrUnavailable)
}

func (p *Paddle) Close() error { return nil }
