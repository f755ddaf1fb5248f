package imaging

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mj1618/desktop-locate/internal/model"
)

var (
	boxColor     = color.RGBA{R: 255, G: 0, B: 0, A: 200}
	markerColor  = color.RGBA{R: 255, G: 64, B: 0, A: 255}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 220}
)

// Annotate draws a box (when bounds are known) and a "[n]" marker for every
// element, numbered from 1 in list order. frame is the window the capture
// covers; it converts window-relative bounds to image pixels on scaled or
// high-DPI captures.
func Annotate(img image.Image, elements []model.Element, frame model.WindowFrame) *image.RGBA {
	rgba := ToRGBA(img)
	imgW := float64(rgba.Bounds().Dx())
	imgH := float64(rgba.Bounds().Dy())
	scaleX, scaleY := 1.0, 1.0
	if frame.Resolved() {
		scaleX = imgW / float64(frame.Width)
		scaleY = imgH / float64(frame.Height)
	}

	for i, el := range elements {
		cx := int(el.Normalized.X * imgW)
		cy := int(el.Normalized.Y * imgH)
		if b := el.Bounds; b != nil && !b.Empty() {
			x1 := int(float64(b.X) * scaleX)
			y1 := int(float64(b.Y) * scaleY)
			x2 := int(float64(b.X+b.Width) * scaleX)
			y2 := int(float64(b.Y+b.Height) * scaleY)
			drawRectangle(rgba, x1, y1, x2, y2, boxColor)
		}
		drawMarker(rgba, cx, cy, markerColor)
		drawTextWithOutline(rgba, fmt.Sprintf("[%d]", i+1), cx, cy-10, textColor, outlineColor)
	}
	return rgba
}

func inBounds(r image.Rectangle, x, y int) bool {
	return x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y
}

func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	b := img.Bounds()
	x1, y1 = max(x1, b.Min.X), max(y1, b.Min.Y)
	x2, y2 = min(x2, b.Max.X), min(y2, b.Max.Y)
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x < x2; x++ {
		img.Set(x, y1, c)
		img.Set(x, y2-1, c)
	}
	for y := y1; y < y2; y++ {
		img.Set(x1, y, c)
		img.Set(x2-1, y, c)
	}
}

// drawMarker draws a small filled square centred on (x, y).
func drawMarker(img *image.RGBA, x, y int, c color.Color) {
	b := img.Bounds()
	for dx := -3; dx <= 3; dx++ {
		for dy := -3; dy <= 3; dy++ {
			if inBounds(b, x+dx, y+dy) {
				img.Set(x+dx, y+dy, c)
			}
		}
	}
}

// drawTextWithOutline centres text on (x, y) using basicfont.Face7x13.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, fg, outline color.Color) {
	const charW, charH = 7, 13
	ox := x - len(text)*charW/2
	oy := y + charH/2
	b := img.Bounds()
	ox = min(max(ox, b.Min.X), b.Max.X-len(text)*charW)
	oy = min(max(oy, b.Min.Y+charH), b.Max.Y)

	draw := func(dx, dy int, c color.Color) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(ox+dx, oy+dy),
		}
		d.DrawString(text)
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				draw(dx, dy, outline)
			}
		}
	}
	draw(0, 0, fg)
}
