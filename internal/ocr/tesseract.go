package ocr

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mj1618/desktop-locate/internal/imaging"
)

// Tesseract runs the tesseract binary as a subprocess and parses its TSV
// output.
type Tesseract struct {
	Binary string
	// MinConfidence drops words tesseract scored below it (0-100 scale).
	MinConfidence float64

	lookPath func(string) (string, error)
	run      func(ctx context.Context, bin string, stdin []byte) ([]byte, error)
}

// NewTesseract creates an engine for binary ("tesseract" when empty).
func NewTesseract(binary string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	return &Tesseract{
		Binary:        binary,
		MinConfidence: 40,
		lookPath:      exec.LookPath,
		run:           runTesseract,
	}
}

func (t *Tesseract) Name() string { return "tesseract" }

// Recognize feeds img to tesseract on stdin as PNG.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) ([]Word, error) {
	bin, err := t.lookPath(t.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found: %v", ErrUnavailable, t.Binary, err)
	}
	data, err := imaging.Encode(img, imaging.PNG, 0)
	if err != nil {
		return nil, err
	}
	out, err := t.run(ctx, bin, data)
	if err != nil {
		return nil, err
	}
	return ParseTSV(out, t.MinConfidence)
}

func runTesseract(ctx context.Context, bin string, stdin []byte) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, bin, "stdin", "stdout", "--psm", "11", "tsv")
	c.Stdin = bytes.NewReader(stdin)
	c.Stdout = &stdout
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("tesseract failed: %s: %w", strings.TrimSpace(stderr.String()), err)
		}
		return nil, fmt.Errorf("tesseract failed: %w", err)
	}
	return stdout.Bytes(), nil
}

// ParseTSV parses tesseract's TSV output, keeping word rows (level 5) with
// non-empty text and confidence >= minConf. Confidence is rescaled to [0,1].
//
// Columns: level page_num block_num par_num line_num word_num left top width
// height conf text.
func ParseTSV(data []byte, minConf float64) ([]Word, error) {
	var words []Word
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	header := true
	for sc.Scan() {
		line := sc.Text()
		if header {
			header = false
			if strings.HasPrefix(line, "level") {
				continue
			}
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		text := strings.TrimSpace(strings.Join(cols[11:], " "))
		if text == "" {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < minConf {
			continue
		}
		nums := make([]int, 4)
		ok := true
		for i := range nums {
			if nums[i], err = strconv.Atoi(cols[6+i]); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		words = append(words, Word{
			Text:       text,
			Box:        image.Rect(nums[0], nums[1], nums[0]+nums[2], nums[1]+nums[3]),
			Confidence: min(conf/100, 1),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tesseract output: %w", err)
	}
	return words, nil
}
