//go:build cgo

package ocr

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	goocr "github.com/getcharzp/go-ocr"
)

// PaddleConfig locates the ONNX runtime and the PaddleOCR models.
type PaddleConfig struct {
	OnnxRuntimeLibPath string
	DetModelPath       string
	RecModelPath       string
	DictPath           string
}

func (c PaddleConfig) missing() []string {
	var out []string
	for _, p := range []string{c.OnnxRuntimeLibPath, c.DetModelPath, c.RecModelPath, c.DictPath} {
		if p == "" {
			out = append(out, "(unset)")
			continue
		}
		if _, err := os.Stat(p); err != nil {
			out = append(out, p)
		}
	}
	return out
}

// Paddle runs PaddleOCR in-process through go-ocr. The engine is created on
// first use and reused; calls are serialized.
type Paddle struct {
	cfg PaddleConfig

	mu      sync.Mutex
	engine  goocr.Engine
	initErr error
	inited  bool
}

// NewPaddle creates an engine for cfg.
func NewPaddle(cfg PaddleConfig) *Paddle {
	return &Paddle{cfg: cfg}
}

func (p *Paddle) Name() string { return "paddle" }

func (p *Paddle) Recognize(ctx context.Context, img image.Image) ([]Word, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.inited {
		p.inited = true
		if missing := p.cfg.missing(); len(missing) > 0 {
			p.initErr = fmt.Errorf("%w: paddle model files missing: %s", ErrUnavailable, strings.Join(missing, ", "))
		} else {
			p.engine, p.initErr = goocr.NewPaddleOcrEngine(goocr.Config{
				OnnxRuntimeLibPath: p.cfg.OnnxRuntimeLibPath,
				DetModelPath:       p.cfg.DetModelPath,
				RecModelPath:       p.cfg.RecModelPath,
				DictPath:           p.cfg.DictPath,
			})
			if p.initErr != nil {
				p.initErr = fmt.Errorf("%w: %v", ErrUnavailable, p.initErr)
			}
		}
	}
	if p.initErr != nil {
		return nil, p.initErr
	}

	results, err := p.engine.RunOCR(img)
	if err != nil {
		return nil, fmt.Errorf("paddle ocr failed: %w", err)
	}
	words := make([]Word, 0, len(results))
	for _, r := range results {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		words = append(words, Word{
			Text:       text,
			Box:        image.Rect(r.Box[0], r.Box[1], r.Box[2], r.Box[3]),
			Confidence: float64(r.Score),
		})
	}
	return words, nil
}

// Close releases the ONNX session.
func (p *Paddle) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.engine != nil {
		p.engine.Destroy()
		p.engine = nil
	}
	return nil
}
