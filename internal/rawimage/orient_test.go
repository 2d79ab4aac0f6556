package rawimage

import (
	"image"
	"image/color"
	"testing"
)

func TestOrient(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	marker := color.RGBA{R: 255, A: 255}
	src.Set(0, 0, marker)

	cases := []struct {
		orientation int
		w, h        int
		x, y        int
	}{
		{1, 3, 2, 0, 0},
		{2, 3, 2, 2, 0},
		{3, 3, 2, 2, 1},
		{4, 3, 2, 0, 1},
		{5, 2, 3, 0, 0},
		{6, 2, 3, 1, 0},
		{7, 2, 3, 1, 2},
		{8, 2, 3, 0, 2},
		{42, 3, 2, 0, 0},
	}
	for _, tc := range cases {
		out := Orient(src, tc.orientation)
		b := out.Bounds()
		if b.Dx() != tc.w || b.Dy() != tc.h {
			t.Fatalf("orientation %d: expected %dx%d, got %dx%d", tc.orientation, tc.w, tc.h, b.Dx(), b.Dy())
		}
		if got := color.RGBAModel.Convert(out.At(tc.x, tc.y)); got != marker {
			t.Fatalf("orientation %d: expected marker at (%d,%d), got %v", tc.orientation, tc.x, tc.y, got)
		}
	}
}

func TestSwapsAxes(t *testing.T) {
	for o := 1; o <= 8; o++ {
		if got, want := SwapsAxes(o), o >= 5; got != want {
			t.Fatalf("SwapsAxes(%d) = %v", o, got)
		}
	}
}
