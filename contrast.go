package iconbuilder

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// RelativeLuminance is the WCAG relative luminance of c, ignoring alpha.
func RelativeLuminance(c color.Color) float64 {
	col, _ := colorful.MakeColor(opaque(c))
	r, g, b := col.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// LogoLuminance returns the alpha-weighted mean luminance of img.
// ok is false when every pixel is fully transparent.
func LogoLuminance(img image.Image) (lum float64, ok bool) {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0, false
	}
	values := make([]float64, 0, n)
	weights := make([]float64, 0, n)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			_, _, _, a := c.RGBA()
			if a == 0 {
				continue
			}
			values = append(values, RelativeLuminance(c))
			weights = append(weights, float64(a)/0xffff)
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	return stat.Mean(values, weights), true
}

// ContrastRatio is the WCAG contrast ratio of two luminances, always >= 1.
func ContrastRatio(l1, l2 float64) float64 {
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// opaque un-premultiplies c and drops its alpha.
func opaque(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 255
	return n
}
