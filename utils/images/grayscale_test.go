package images

import (
	"image"
	"image/color"
	"testing"
)

func TestFlatten(t *testing.T) {
	gray := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range 4 {
		gray.Set(i, i, color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF})
	}
	for y := range 4 {
		for x := range 4 {
			if x != y {
				gray.Set(x, y, color.White)
			}
		}
	}
	colored := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	colored.Set(0, 0, color.NRGBA{R: 0xFF, A: 0xFF})
	transparent := image.NewNRGBA(image.Rect(0, 0, 2, 2))

	tests := []struct {
		name     string
		img      image.Image
		wantGray bool
	}{
		{"gray pixels", gray, true},
		{"already gray", image.NewGray(image.Rect(0, 0, 1, 1)), true},
		{"colored", colored, false},
		{"transparent", transparent, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Flatten(tt.img)
			_, isGray := out.(*image.Gray)
			if isGray != tt.wantGray {
				t.Fatalf("Flatten() returned %T", out)
			}
			if out.Bounds() != tt.img.Bounds() {
				t.Fatalf("bounds changed: %v", out.Bounds())
			}
		})
	}

	if got := Flatten(gray).(*image.Gray).GrayAt(1, 1).Y; got != 0x40 {
		t.Errorf("pixel value = %#x", got)
	}
}
