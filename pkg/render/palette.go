package render

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/hsluv/hsluv-go"
	"github.com/mazznoer/colorgrad"
)

// viridis is sampled once; indexing is much cheaper than evaluating the
// gradient per pixel.
var viridis = buildPalette(colorgrad.Viridis(), 256)

func buildPalette(grad colorgrad.Gradient, n int) []color.RGBA {
	pal := make([]color.RGBA, 0, n)
	for _, c := range grad.Colors(uint(n)) {
		pal = append(pal, color.RGBAModel.Convert(c).(color.RGBA))
	}
	return pal
}

// paletteColor maps t in [0, 1] onto pal.
func paletteColor(pal []color.RGBA, t float32) color.RGBA {
	i := int(t * float32(len(pal)-1))
	return pal[max(0, min(i, len(pal)-1))]
}

// sciColor maps val within [minVal, maxVal] onto the blue, cyan, green,
// yellow, red ramp used for scalar diagnostics.
func sciColor(val, minVal, maxVal float32) color.RGBA {
	val = min(max(val, minVal), maxVal-0.0001)
	d := maxVal - minVal
	if d <= 0 {
		val = 0.5
	} else {
		val = (val - minVal) / d
	}
	const m = float32(0.25)
	num := math32.Floor(val / m)
	s := (val - num*m) / m
	var r, g, b float32

	switch num {
	case 0:
		r, g, b = 0, s, 1
	case 1:
		r, g, b = 0, 1, 1-s
	case 2:
		r, g, b = s, 1, 0
	case 3:
		r, g, b = 1, 1-s, 0
	}

	return color.RGBA{
		R: uint8(255 * r),
		G: uint8(255 * g),
		B: uint8(255 * b),
		A: 0xff,
	}
}

// hueColor returns the fully saturated HSLuv colour for a hue in turns.
func hueColor(turns float32) (r, g, b float32) {
	turns -= math32.Floor(turns)
	rr, gg, bb := hsluv.HsluvToRGB(360*float64(turns), 100, 60)
	return unit(rr), unit(gg), unit(bb)
}

func unit(x float64) float32 {
	return float32(max(0, min(x, 1)))
}

// channel scales a [0, 1] intensity to a byte, saturating at both ends.
func channel(x float32) uint8 {
	return uint8(max(0, min(x*255, 255)))
}
