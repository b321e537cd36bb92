package frames

import (
	"image"
	"image/color"
	"testing"
)

func flatImage(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	return img
}

func checkerboard(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func TestSharpnessOrdering(t *testing.T) {
	flat := Sharpness(flatImage(64, 64))
	sharp := Sharpness(checkerboard(64, 64))

	if flat > 1e-6 {
		t.Errorf("flat image sharpness = %v, want ~0", flat)
	}
	if sharp <= flat {
		t.Errorf("checkerboard (%v) must score above flat (%v)", sharp, flat)
	}
	if sharp < 100 {
		t.Errorf("checkerboard sharpness = %v, expected a clearly sharp score", sharp)
	}
}

func TestSharpnessTinyImage(t *testing.T) {
	if got := Sharpness(flatImage(2, 2)); got != 0 {
		t.Errorf("Sharpness(2x2) = %v, want 0", got)
	}
}

func TestSharpnessFileMissing(t *testing.T) {
	if _, err := SharpnessFile("does/not/exist.jpg"); err == nil {
		t.Error("SharpnessFile should fail for a missing file")
	}
}
