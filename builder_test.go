package iconbuilder

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slate = color.RGBA{0x0f, 0x17, 0x2a, 0xff}

func solidLogo(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestSafeZone(t *testing.T) {
	assert.Equal(t, 134, SafeZone(192, 0.7))
	assert.Equal(t, 358, SafeZone(512, 0.7))
	assert.Equal(t, 125, SafeZone(180, 0.7))
	assert.Equal(t, 140, SafeZone(200, 0.7))
	assert.Equal(t, 0, SafeZone(0, 0.7))
	assert.Equal(t, 0, SafeZone(100, 0))
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		name string
		src  image.Point
		box  int
		want image.Point
	}{
		{"portrait", image.Pt(650, 1000), 140, image.Pt(91, 140)},
		{"small portrait kept native", image.Pt(65, 100), 140, image.Pt(65, 100)},
		{"portrait rounding", image.Pt(100, 150), 140, image.Pt(93, 140)},
		{"landscape", image.Pt(200, 50), 140, image.Pt(140, 35)},
		{"square", image.Pt(1000, 1000), 358, image.Pt(358, 358)},
		{"sliver keeps one pixel", image.Pt(10, 1000), 140, image.Pt(1, 140)},
		{"already fits", image.Pt(50, 20), 140, image.Pt(50, 20)},
		{"one axis too big", image.Pt(100, 150), 120, image.Pt(80, 120)},
		{"empty source", image.Pt(0, 10), 140, image.Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FitSize(tt.src, tt.box))
		})
	}
}

func TestFitSizeStaysInsideBoxAndKeepsAspect(t *testing.T) {
	for _, src := range []image.Point{{65, 100}, {640, 480}, {333, 777}, {1024, 1}, {3, 2000}} {
		for _, size := range []int{16, 48, 180, 192, 512} {
			box := SafeZone(size, 0.7)
			got := FitSize(src, box)
			if src.X <= box && src.Y <= box {
				require.Equal(t, src, got)
				continue
			}
			require.LessOrEqual(t, got.X, box)
			require.LessOrEqual(t, got.Y, box)

			// One axis hits the box; the other is within a pixel of the
			// exact proportional length.
			if got.X == box {
				assert.InDelta(t, float64(box)*float64(src.Y)/float64(src.X), float64(got.Y), 1)
			} else {
				require.Equal(t, box, got.Y)
				assert.InDelta(t, float64(box)*float64(src.X)/float64(src.Y), float64(got.X), 1)
			}
		}
	}
}

func TestPlacement(t *testing.T) {
	ib := NewIconBuilder(solidLogo(650, 1000, color.White), slate)
	assert.Equal(t, image.Rect(54, 30, 145, 170), ib.Placement(200, DefaultOptions()))

	// A logo already inside the safe zone is centered at its native size.
	ib = NewIconBuilder(solidLogo(65, 100, color.White), slate)
	assert.Equal(t, image.Rect(67, 50, 132, 150), ib.Placement(200, DefaultOptions()))
}

func TestPlacementIsCentered(t *testing.T) {
	ib := NewIconBuilder(solidLogo(65, 100, color.White), slate)
	for _, size := range []int{180, 192, 199, 512} {
		r := ib.Placement(size, DefaultOptions())
		left, right := r.Min.X, size-r.Max.X
		top, bottom := r.Min.Y, size-r.Max.Y
		assert.LessOrEqual(t, abs(left-right), 1, "size %d", size)
		assert.LessOrEqual(t, abs(top-bottom), 1, "size %d", size)
	}
}

func TestPlacementNeverUpscales(t *testing.T) {
	ib := NewIconBuilder(solidLogo(10, 12, color.White), slate)
	r := ib.Placement(512, DefaultOptions())
	assert.Equal(t, image.Pt(10, 12), r.Size())
	assert.Equal(t, image.Pt(251, 250), r.Min)
}

func TestRender(t *testing.T) {
	red := color.NRGBA{R: 220, G: 40, B: 40, A: 255}
	ib := NewIconBuilder(solidLogo(650, 1000, red), slate)

	img := ib.Render(200, DefaultOptions())
	require.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())

	logo := image.Rect(54, 30, 145, 170)
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			if image.Pt(x, y).In(logo) {
				continue
			}
			require.Equal(t, slate, img.RGBAAt(x, y), "pixel (%d, %d)", x, y)
		}
	}

	center := img.RGBAAt(100, 100)
	assert.InDelta(t, 220, center.R, 1)
	assert.InDelta(t, 40, center.G, 1)
	assert.InDelta(t, 40, center.B, 1)
	assert.EqualValues(t, 255, center.A)
}

func TestRenderTransparentLogoKeepsBackground(t *testing.T) {
	ib := NewIconBuilder(solidLogo(64, 64, color.Transparent), slate)
	img := ib.Render(192, DefaultOptions())
	for y := 0; y < 192; y++ {
		for x := 0; x < 192; x++ {
			require.Equal(t, slate, img.RGBAAt(x, y))
		}
	}
}

func TestRenderHalfTransparentLogoBlends(t *testing.T) {
	ib := NewIconBuilder(solidLogo(10, 10, color.NRGBA{R: 255, G: 255, B: 255, A: 128}), color.Black)
	img := ib.Render(20, DefaultOptions())
	c := img.RGBAAt(10, 10)
	assert.InDelta(t, 128, c.R, 1)
	assert.EqualValues(t, 255, c.A)
}

func TestRenderDoesNotMutateSource(t *testing.T) {
	src := solidLogo(65, 100, color.White)
	before := bytes.Clone(src.Pix)
	ib := NewIconBuilder(src, slate)
	ib.Render(192, DefaultOptions())
	ib.Render(512, DefaultOptions())
	assert.Equal(t, before, src.Pix)
	assert.Equal(t, image.Rect(0, 0, 65, 100), src.Bounds())
}

func TestRenderIsDeterministic(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 80, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 80; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 3), G: uint8(y * 5), B: 90, A: uint8(x + y*2)})
		}
	}
	ib := NewIconBuilder(src, slate)

	encode := func() []byte {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, ib.Render(180, DefaultOptions())))
		return buf.Bytes()
	}
	assert.Equal(t, encode(), encode())
}

func TestNewIconBuilderForcesOpaqueBackground(t *testing.T) {
	ib := NewIconBuilder(solidLogo(1, 1, color.White), color.RGBA{R: 10, G: 20, B: 30, A: 128})
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, ib.Background)
}

func TestGenerate(t *testing.T) {
	ib := NewIconBuilder(solidLogo(65, 100, color.White), slate)
	outputs := []OutputSpec{
		{Path: "a.png", Size: 192},
		{Path: "b.png", Size: 512},
		{Path: "c.png", Size: 180},
	}

	got := map[string]image.Rectangle{}
	var order []string
	err := ib.Generate(outputs, DefaultOptions(), func(img image.Image, path string) error {
		got[path] = img.Bounds()
		order = append(order, path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, order)
	assert.Equal(t, image.Rect(0, 0, 192, 192), got["a.png"])
	assert.Equal(t, image.Rect(0, 0, 512, 512), got["b.png"])
	assert.Equal(t, image.Rect(0, 0, 180, 180), got["c.png"])
}

func TestGenerateStopsAtFirstFailure(t *testing.T) {
	ib := NewIconBuilder(solidLogo(65, 100, color.White), slate)
	outputs := []OutputSpec{
		{Path: "a.png", Size: 192},
		{Path: "b.png", Size: 512},
		{Path: "c.png", Size: 180},
	}

	errDisk := errors.New("disk full")
	var calls []string
	err := ib.Generate(outputs, DefaultOptions(), func(_ image.Image, path string) error {
		calls = append(calls, path)
		if path == "b.png" {
			return errDisk
		}
		return nil
	})
	require.ErrorIs(t, err, errDisk)
	assert.Contains(t, err.Error(), "b.png")
	assert.Equal(t, []string{"a.png", "b.png"}, calls)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	noop := func(image.Image, string) error { return nil }
	ib := NewIconBuilder(solidLogo(4, 4, color.White), slate)

	err := ib.Generate([]OutputSpec{{Path: "x.png", Size: 0}}, DefaultOptions(), noop)
	assert.ErrorContains(t, err, "invalid size")

	var saved []string
	err = ib.Generate([]OutputSpec{{Path: "ok.png", Size: 16}, {Path: "x.png", Size: 1}}, DefaultOptions(), func(_ image.Image, path string) error {
		saved = append(saved, path)
		return nil
	})
	assert.ErrorContains(t, err, "no room for the logo")
	assert.Equal(t, []string{"ok.png"}, saved)

	err = ib.Generate([]OutputSpec{{Path: "x.png", Size: 16}}, Options{SafeZoneRatio: 1.5}, noop)
	assert.ErrorContains(t, err, "safe zone")

	err = (&IconBuilder{}).Generate(nil, DefaultOptions(), noop)
	assert.Error(t, err)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
