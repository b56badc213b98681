package iconbuilder

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Lanczos3 is a windowed sinc filter with three lobes. It is sharper than
// draw.CatmullRom and matches the usual "high quality" thumbnail filter.
var Lanczos3 = &draw.Kernel{
	Support: 3,
	At:      lanczos3,
}

func lanczos3(t float64) float64 {
	if t < 0 {
		t = -t
	}
	if t >= 3 {
		return 0
	}
	return sinc(t) * sinc(t/3)
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}

// scaleTo returns a copy of src resampled to size. Sources that already have
// the requested size are copied pixel for pixel.
func scaleTo(src image.Image, size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	sb := src.Bounds()
	if sb.Size() == size {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
		return dst
	}
	Lanczos3.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	clampPremultiplied(dst)
	return dst
}

// clampPremultiplied keeps every color channel at or below alpha. Lanczos
// lobes ring around hard alpha edges and the over operator expects valid
// premultiplied input.
func clampPremultiplied(img *image.RGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := img.Pix[i+3]
		img.Pix[i] = min(img.Pix[i], a)
		img.Pix[i+1] = min(img.Pix[i+1], a)
		img.Pix[i+2] = min(img.Pix[i+2], a)
	}
}
