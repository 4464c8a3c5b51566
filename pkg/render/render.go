// Package render turns solver snapshots into RGBA images.
package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/chewxy/math32"

	"github.com/TheFellow/fluid/pkg/fluid"
)

// Mode selects what a frame shows.
type Mode int

const (
	// Dye shows the dye colour, brightened by density.
	Dye Mode = iota
	// Velocity shows flow direction as hue and speed as brightness.
	Velocity
	// Magnitude shows speed on the viridis scale.
	Magnitude
	// Pressure shows the last pressure solve on a blue to red ramp.
	Pressure
	numModes
)

var modeNames = [...]string{
	Dye:       "dye",
	Velocity:  "velocity",
	Magnitude: "magnitude",
	Pressure:  "pressure",
}

func (m Mode) String() string {
	if m < 0 || m >= numModes {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode { return (m + 1) % numModes }

// ParseMode looks a mode up by name.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(name)
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown render mode %q", name)
}

// velocityGain maps a speed to a byte of brightness. Speeds above
// 255/velocityGain saturate.
const velocityGain = 20

// NewImage allocates an image with one pixel per grid cell.
func NewImage(g fluid.Grid) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, g.W, g.H))
}

// Draw renders snap into img, which must have one pixel per cell.
func Draw(img *image.RGBA, snap *fluid.Snapshot, mode Mode) {
	switch mode {
	case Velocity:
		drawVelocity(img, snap)
	case Magnitude:
		drawMagnitude(img, snap)
	case Pressure:
		drawPressure(img, snap)
	default:
		drawDye(img, snap)
	}
}

// each calls fn with the pixel slice of every fluid cell and paints obstacle
// cells white.
func each(img *image.RGBA, snap *fluid.Snapshot, fn func(ij int, px []uint8)) {
	g := snap.Grid
	for j := 0; j < g.H; j++ {
		row := img.Pix[j*img.Stride:]
		for i := 0; i < g.W; i++ {
			ij := g.Index(i, j)
			px := row[4*i : 4*i+4 : 4*i+4]
			if snap.Blocked[ij] != 0 {
				px[0], px[1], px[2], px[3] = 0xff, 0xff, 0xff, 0xff
				continue
			}
			fn(ij, px)
			px[3] = 0xff
		}
	}
}

func drawDye(img *image.RGBA, snap *fluid.Snapshot) {
	each(img, snap, func(ij int, px []uint8) {
		d := min(1, 0.5+snap.Density[ij])
		px[0] = channel(d * snap.R[ij])
		px[1] = channel(d * snap.G[ij])
		px[2] = channel(d * snap.B[ij])
	})
}

func drawVelocity(img *image.RGBA, snap *fluid.Snapshot) {
	each(img, snap, func(ij int, px []uint8) {
		vx, vy := snap.U[ij], snap.V[ij]
		speed := math32.Hypot(vx, vy)
		if speed == 0 {
			px[0], px[1], px[2] = 0, 0, 0
			return
		}
		r, g, b := hueColor(0.5 + math32.Atan2(vy, vx)/(2*math32.Pi))
		k := speed * velocityGain / 255
		px[0] = channel(k * r)
		px[1] = channel(k * g)
		px[2] = channel(k * b)
	})
}

func drawMagnitude(img *image.RGBA, snap *fluid.Snapshot) {
	maxSpeed := float32(0)
	for ij := range snap.U {
		if snap.Blocked[ij] == 0 {
			maxSpeed = max(maxSpeed, math32.Hypot(snap.U[ij], snap.V[ij]))
		}
	}
	each(img, snap, func(ij int, px []uint8) {
		t := float32(0)
		if maxSpeed > 0 {
			t = math32.Hypot(snap.U[ij], snap.V[ij]) / maxSpeed
		}
		c := paletteColor(viridis, t)
		px[0], px[1], px[2] = c.R, c.G, c.B
	})
}

func drawPressure(img *image.RGBA, snap *fluid.Snapshot) {
	g := snap.Grid
	lo, hi := float32(0), float32(0)
	first := true
	for j := 1; j < g.H-1; j++ {
		for i := 1; i < g.W-1; i++ {
			ij := g.Index(i, j)
			if snap.Blocked[ij] != 0 {
				continue
			}
			p := snap.Pressure[ij]
			if first {
				lo, hi, first = p, p, false
			}
			lo = min(lo, p)
			hi = max(hi, p)
		}
	}
	each(img, snap, func(ij int, px []uint8) {
		c := sciColor(snap.Pressure[ij], lo, hi)
		px[0], px[1], px[2] = c.R, c.G, c.B
	})
}
