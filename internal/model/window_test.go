package model

import (
	"errors"
	"math"
	"testing"
)

func TestWindowFrame_Resolved(t *testing.T) {
	tests := []struct {
		frame WindowFrame
		want  bool
	}{
		{WindowFrame{X: 0, Y: 0, Width: 800, Height: 600}, true},
		{WindowFrame{X: -100, Y: 20, Width: 1, Height: 1}, true},
		{WindowFrame{}, false},
		{WindowFrame{X: 10, Y: 10, Width: 800, Height: 0}, false},
		{WindowFrame{X: 10, Y: 10, Width: -5, Height: 600}, false},
	}
	for _, tt := range tests {
		if got := tt.frame.Resolved(); got != tt.want {
			t.Errorf("%v.Resolved() = %v, want %v", tt.frame, got, tt.want)
		}
	}
}

func TestWindowFrame_ToScreenExample(t *testing.T) {
	f := WindowFrame{X: 100, Y: 50, Width: 800, Height: 600}
	got, err := f.ToScreen(Point{X: 0.5, Y: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if got.X != 500 || got.Y != 110 {
		t.Errorf("ToScreen = %+v, want {500 110}", got)
	}
}

func TestWindowFrame_RoundTrip(t *testing.T) {
	frames := []WindowFrame{
		{X: 0, Y: 0, Width: 1, Height: 1},
		{X: 100, Y: 50, Width: 800, Height: 600},
		{X: -1920, Y: 25, Width: 1919, Height: 1055},
		{X: 3, Y: 7, Width: 333, Height: 77},
	}
	points := []Point{
		{0, 0}, {1, 1}, {0.5, 0.5}, {0.123, 0.987}, {1.0 / 3, 2.0 / 3},
	}
	for _, f := range frames {
		for _, p := range points {
			s, err := f.ToScreen(p)
			if err != nil {
				t.Fatal(err)
			}
			wantX := float64(f.X) + p.X*float64(f.Width)
			wantY := float64(f.Y) + p.Y*float64(f.Height)
			if s.X != wantX || s.Y != wantY {
				t.Errorf("%v.ToScreen(%v) = %v, want {%v %v}", f, p, s, wantX, wantY)
			}
			back, err := f.ToNormalized(s)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
				t.Errorf("%v round trip of %v gave %v", f, p, back)
			}
		}
	}
}

func TestWindowFrame_UnresolvedRefusesMath(t *testing.T) {
	var f WindowFrame
	if _, err := f.ToScreen(Point{X: 0.5, Y: 0.5}); !errors.Is(err, ErrFrameUnresolved) {
		t.Errorf("ToScreen on zero frame: got %v, want ErrFrameUnresolved", err)
	}
	if _, err := f.ToNormalized(Point{X: 5, Y: 5}); !errors.Is(err, ErrFrameUnresolved) {
		t.Errorf("ToNormalized on zero frame: got %v, want ErrFrameUnresolved", err)
	}
}

func TestWindowFrame_NormalizeOriginClamps(t *testing.T) {
	f := WindowFrame{X: 100, Y: 100, Width: 200, Height: 100}
	p, err := f.NormalizeOrigin(Rect{X: 150, Y: 120, Width: 20, Height: 20})
	if err != nil {
		t.Fatal(err)
	}
	if p.X != 0.25 || p.Y != 0.2 {
		t.Errorf("NormalizeOrigin = %+v, want {0.25 0.2}", p)
	}
	p, err = f.NormalizeOrigin(Rect{X: 500, Y: -50, Width: 10, Height: 10})
	if err != nil {
		t.Fatal(err)
	}
	if p.X != 1 || p.Y != 0 {
		t.Errorf("out-of-frame rect should clamp, got %+v", p)
	}
}

func TestStampScreen_DoesNotMutateInput(t *testing.T) {
	els := []Element{{Kind: KindButton, Normalized: Point{X: 0.5, Y: 0.5}}}
	moved := WindowFrame{X: 200, Y: 100, Width: 400, Height: 200}

	stamped, err := StampScreen(els, moved)
	if err != nil {
		t.Fatal(err)
	}
	if stamped[0].Screen.X != 400 || stamped[0].Screen.Y != 200 {
		t.Errorf("stamped screen = %+v, want {400 200}", stamped[0].Screen)
	}
	if els[0].Screen != (Point{}) {
		t.Errorf("input was mutated: %+v", els[0].Screen)
	}
}

func TestWindowFrame_ClickPoint(t *testing.T) {
	f := WindowFrame{X: 100, Y: 50, Width: 800, Height: 600}
	tests := []struct {
		name string
		el   Element
		want Point
	}{
		{"bounds center", Element{Normalized: Point{X: 0.5, Y: 0.1}, Bounds: &Rect{X: 400, Y: 50, Width: 100, Height: 20}}, Point{X: 550, Y: 110}},
		{"no bounds", Element{Normalized: Point{X: 0.5, Y: 0.5}}, Point{X: 500, Y: 350}},
		{"empty bounds", Element{Normalized: Point{X: 0.25, Y: 0.5}, Bounds: &Rect{X: 10, Y: 10}}, Point{X: 300, Y: 350}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ClickPoint(tt.el)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ClickPoint = %+v, want %+v", got, tt.want)
			}
		})
	}
	if _, err := (WindowFrame{}).ClickPoint(Element{}); !errors.Is(err, ErrFrameUnresolved) {
		t.Errorf("unresolved frame: got %v", err)
	}
}
