package iconbuilder

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

type Options struct {
	// Share of the canvas edge the logo may occupy.
	// Ideal start: 0.66-0.72. Android adaptive icon masks keep the center 66%
	// visible, so values above ~0.75 risk clipping under circle masks.
	SafeZoneRatio float64
}

func DefaultOptions() Options {
	return Options{
		SafeZoneRatio: 0.7,
	}
}

// OutputSpec is one icon to produce: destination path and edge length in pixels.
type OutputSpec struct {
	Path string
	Size int
}

// SaveFunc writes a rendered icon to path.
type SaveFunc func(img image.Image, path string) error

type IconBuilder struct {
	InputImage image.Image
	Background color.RGBA
}

// NewIconBuilder prepares a builder for src. The background is always drawn
// fully opaque regardless of the alpha carried by background.
func NewIconBuilder(input image.Image, background color.Color) *IconBuilder {
	r, g, b, _ := background.RGBA()
	return &IconBuilder{
		InputImage: input,
		Background: color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255},
	}
}

// SafeZone returns floor(size*ratio), the edge of the box the logo is fit into.
func SafeZone(size int, ratio float64) int {
	if size <= 0 || ratio <= 0 {
		return 0
	}
	return int(math.Floor(float64(size) * ratio))
}

// FitSize shrinks src to fit inside a box×box square, keeping its aspect
// ratio. Sources already inside the box are returned unchanged. On the
// constrained axis the length is floor or ceil of the exact value, whichever
// stays closest to the source aspect, and never below 1.
func FitSize(src image.Point, box int) image.Point {
	if src.X <= 0 || src.Y <= 0 || box <= 0 {
		return image.Point{}
	}
	x, y := box, box
	if x >= src.X && y >= src.Y {
		return src
	}
	aspect := float64(src.X) / float64(src.Y)
	if float64(x)/float64(y) >= aspect {
		x = roundAspect(float64(y)*aspect, func(n int) float64 {
			return math.Abs(aspect - float64(n)/float64(y))
		})
	} else {
		y = roundAspect(float64(x)/aspect, func(n int) float64 {
			if n == 0 {
				return 0
			}
			return math.Abs(aspect - float64(x)/float64(n))
		})
	}
	return image.Pt(x, y)
}

func roundAspect(v float64, cost func(int) float64) int {
	lo, hi := int(math.Floor(v)), int(math.Ceil(v))
	n := lo
	if cost(hi) < cost(lo) {
		n = hi
	}
	return max(n, 1)
}

// centerOffset is the top-left corner that centers an inner w×h box on a
// size×size canvas, using floor division.
func centerOffset(size int, inner image.Point) image.Point {
	return image.Pt((size-inner.X)/2, (size-inner.Y)/2)
}

// Placement returns the rectangle the scaled logo covers on a size×size canvas.
func (ib *IconBuilder) Placement(size int, opt Options) image.Rectangle {
	fit := FitSize(ib.InputImage.Bounds().Size(), SafeZone(size, opt.SafeZoneRatio))
	off := centerOffset(size, fit)
	return image.Rectangle{Min: off, Max: off.Add(fit)}
}

// Render draws one icon: an opaque background canvas with the logo scaled
// into the safe zone and composited over it with its own alpha.
func (ib *IconBuilder) Render(size int, opt Options) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(ib.Background), image.Point{}, draw.Src)

	r := ib.Placement(size, opt)
	if r.Empty() {
		return canvas
	}
	logo := scaleTo(ib.InputImage, r.Size())
	draw.Draw(canvas, r, logo, logo.Bounds().Min, draw.Over)
	return canvas
}

// Generate renders and saves every output in order. The first failure stops
// the batch; later outputs are not attempted.
func (ib *IconBuilder) Generate(outputs []OutputSpec, opt Options, save SaveFunc) error {
	if ib.InputImage == nil {
		return errors.New("no source image")
	}
	if opt.SafeZoneRatio <= 0 || opt.SafeZoneRatio > 1 {
		return errors.Errorf("safe zone ratio %v out of range (0, 1]", opt.SafeZoneRatio)
	}
	for _, o := range outputs {
		if o.Size <= 0 {
			return errors.Errorf("%s: invalid size %d", o.Path, o.Size)
		}
		if SafeZone(o.Size, opt.SafeZoneRatio) == 0 {
			return errors.Errorf("%s: size %d leaves no room for the logo", o.Path, o.Size)
		}
		if err := save(ib.Render(o.Size, opt), o.Path); err != nil {
			return errors.Wrapf(err, "save %s", o.Path)
		}
	}
	return nil
}
