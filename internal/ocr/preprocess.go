package ocr

import (
	"image"
	"image/color"

	"github.com/mj1618/desktop-locate/internal/imaging"
)

// minOCRWidth is the width below which captures are upscaled; small UI text
// is below what the recognizers handle well.
const minOCRWidth = 1200

// Prepared is a preprocessed capture plus the factor it was scaled by.
type Prepared struct {
	Image image.Image
	Scale float64
}

// Unscale maps a box in the prepared image back to the original capture.
func (p Prepared) Unscale(r image.Rectangle) image.Rectangle {
	if p.Scale <= 0 || p.Scale == 1 {
		return r
	}
	f := func(v int) int { return int(float64(v) / p.Scale) }
	return image.Rect(f(r.Min.X), f(r.Min.Y), f(r.Max.X), f(r.Max.Y))
}

// Preprocess converts img to grayscale, stretches its contrast to the full
// range, sharpens it and upscales captures narrower than minOCRWidth.
func Preprocess(img image.Image) Prepared {
	gray := toGray(img)
	normalize(gray)
	sharp := sharpen(gray)

	scale := 1.0
	if w := sharp.Bounds().Dx(); w > 0 && w < minOCRWidth {
		scale = min(float64(minOCRWidth)/float64(w), 3)
	}
	return Prepared{Image: imaging.Scale(sharp, scale), Scale: scale}
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g.Set(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return g
}

// normalize linearly stretches g so its darkest pixel is 0 and its
// brightest 255. Flat images are left alone.
func normalize(g *image.Gray) {
	lo, hi := uint8(255), uint8(0)
	for _, v := range g.Pix {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi <= lo {
		return
	}
	span := float64(hi - lo)
	for i, v := range g.Pix {
		g.Pix[i] = uint8(float64(v-lo) * 255 / span)
	}
}

// sharpen applies a 3x3 sharpening kernel. Edge pixels are copied.
func sharpen(g *image.Gray) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(b)
	copy(out.Pix, g.Pix)
	w, h := b.Dx(), b.Dy()
	at := func(x, y int) int { return int(g.Pix[y*g.Stride+x]) }
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			v := 5*at(x, y) - at(x-1, y) - at(x+1, y) - at(x, y-1) - at(x, y+1)
			out.Pix[y*out.Stride+x] = uint8(min(max(v, 0), 255))
		}
	}
	return out
}
