package frames

import (
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"
)

// Sharpness returns the variance of a 3x3 Laplacian edge response over the
// luma channel. Low values indicate motion blur or defocus.
func Sharpness(img image.Image) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// ITU-R BT.601 luma, 16-bit channels
			gray[y*w+x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 257.0
		}
	}

	n := 0
	var sum, sumSq float64
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			lap := gray[(y-1)*w+x] + gray[(y+1)*w+x] + gray[y*w+x-1] + gray[y*w+x+1] - 4*gray[y*w+x]
			sum += lap
			sumSq += lap * lap
			n++
		}
	}

	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}

// SharpnessFile decodes an image file and scores it.
func SharpnessFile(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("decode frame: %w", err)
	}
	return Sharpness(img), nil
}
