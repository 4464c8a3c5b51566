package fluid

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

var (
	ErrInvalidGrid   = errors.New("fluid: invalid grid size")
	ErrInvalidConfig = errors.New("fluid: invalid configuration")
	ErrMaskSize      = errors.New("fluid: obstacle mask size mismatch")
	ErrOutOfRange    = errors.New("fluid: cell index out of range")
)

// Config holds the solver tunables. Everything except the grid size may be
// changed between ticks with SetConfig.
type Config struct {
	Width, Height int

	// Strength of the vorticity confinement force. Set to 0 to disable.
	Vorticity float32
	// Kinematic viscosity of the velocity field. Set to 0 to skip diffusion.
	Viscosity float32
	// Diffusion rates of density and of the dye channels.
	DiffusionDensity float32
	DiffusionColor   float32
	// Exponential damping rates per unit time.
	DampDensity  float32
	DampVelocity float32
	// Gravity applied in proportion to the local density.
	GravityX, GravityY float32
	// Constant wind added to every trace.
	WindX, WindY float32

	Scheme             Scheme
	UnitScale          UnitScale
	PressureIterations int
	DiffuseIterations  int
}

// DefaultConfig returns the reference configuration: a 128x128 grid with BFECC
// advection and 20 relaxation sweeps.
func DefaultConfig() Config {
	return Config{
		Width:              128,
		Height:             128,
		Vorticity:          10,
		Viscosity:          0.000001,
		DiffusionDensity:   0.000001,
		DiffusionColor:     0,
		DampDensity:        0.1,
		DampVelocity:       0,
		GravityX:           0,
		GravityY:           900,
		WindX:              0,
		WindY:              0.1,
		Scheme:             BFECC,
		UnitScale:          UnitDiagonal,
		PressureIterations: 20,
		DiffuseIterations:  20,
	}
}

// Validate checks the configuration for values the solver cannot run with.
// Zero or negative rates are valid and disable the matching stage.
func (c Config) Validate() error {
	if c.Width < 3 || c.Height < 3 {
		return fmt.Errorf("%w: %dx%d, need at least 3x3", ErrInvalidGrid, c.Width, c.Height)
	}
	if !c.Scheme.Valid() {
		return fmt.Errorf("%w: scheme %v", ErrInvalidConfig, c.Scheme)
	}
	if c.UnitScale != UnitDiagonal && c.UnitScale != UnitEdge {
		return fmt.Errorf("%w: unit scale %d", ErrInvalidConfig, c.UnitScale)
	}
	if c.PressureIterations < 1 || c.DiffuseIterations < 1 {
		return fmt.Errorf("%w: iterations must be positive (pressure %d, diffuse %d)",
			ErrInvalidConfig, c.PressureIterations, c.DiffuseIterations)
	}
	return nil
}

// Source injects density, velocity and dye into a solver before a step.
type Source interface {
	Emit(f *Fluid, dt float32)
}

// Fluid is a grid-based incompressible smoke solver. It owns every field; the
// "current" and "0" (previous/accumulator) fields swap roles between stages.
type Fluid struct {
	cfg  Config
	grid Grid

	density, density0 Field
	u, v              Field // velocities
	u0, v0            Field
	r, g, b           Field // dye
	r0, g0, b0        Field

	scratch   Field // vorticity magnitude, BFECC corrected source
	jacobiBuf Field
	cu, cv    Field // characteristic map

	blocked       []uint8 // 1 marks a solid cell
	borderBlocked bool
}

// New allocates a solver for cfg.
func New(cfg Config) (*Fluid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := Grid{W: cfg.Width, H: cfg.Height}
	f := &Fluid{
		cfg:       cfg,
		grid:      g,
		density:   g.NewField(),
		density0:  g.NewField(),
		u:         g.NewField(),
		v:         g.NewField(),
		u0:        g.NewField(),
		v0:        g.NewField(),
		r:         g.NewField(),
		g:         g.NewField(),
		b:         g.NewField(),
		r0:        g.NewField(),
		g0:        g.NewField(),
		b0:        g.NewField(),
		scratch:   g.NewField(),
		jacobiBuf: g.NewField(),
		cu:        g.NewField(),
		cv:        g.NewField(),
		blocked:   make([]uint8, g.Cells()),
	}
	f.resetCharacteristics()
	return f, nil
}

// Grid returns the solver's grid layout.
func (f *Fluid) Grid() Grid { return f.grid }

// Config returns the active configuration.
func (f *Fluid) Config() Config { return f.cfg }

// SetConfig replaces the tunables. The grid size cannot change.
func (f *Fluid) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Width != f.cfg.Width || cfg.Height != f.cfg.Height {
		return fmt.Errorf("%w: cannot resize %dx%d to %dx%d",
			ErrInvalidGrid, f.cfg.Width, f.cfg.Height, cfg.Width, cfg.Height)
	}
	f.cfg = cfg
	return nil
}

// SetScheme selects the advection scheme used from the next tick on.
func (f *Fluid) SetScheme(s Scheme) error {
	cfg := f.cfg
	cfg.Scheme = s
	return f.SetConfig(cfg)
}

func (f *Fluid) resetCharacteristics() {
	w := f.grid.W
	for j := 0; j < f.grid.H; j++ {
		for i := 0; i < w; i++ {
			f.cu[j*w+i] = float32(i)
			f.cv[j*w+i] = float32(j)
		}
	}
}

// Tick runs one full simulation step: clear the accumulators, let every
// source emit, apply gravity, then advance velocity and density.
func (f *Fluid) Tick(dt float32, sources ...Source) {
	f.ClearSources()
	for _, s := range sources {
		s.Emit(f, dt)
	}
	f.UpdateForces(dt)
	f.VelocityStep(dt)
	f.DensityStep(dt)
}

// ClearSources zeroes the density and velocity accumulators.
func (f *Fluid) ClearSources() {
	fill(f.density0, 0)
	fill(f.u0, 0)
	fill(f.v0, 0)
}

// UpdateForces damps the density and adds gravity, weighted by the damped
// density, to the velocity accumulators.
func (f *Fluid) UpdateForces(dt float32) {
	w := f.grid.W
	df := math32.Exp(-f.cfg.DampDensity * dt)
	gx := f.cfg.GravityX * dt
	gy := f.cfg.GravityY * dt
	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			p := f.density[ij] * df
			f.u0[ij] += gx * p
			f.v0[ij] += gy * p
			f.density[ij] = p
		}
	})
}

// VelocityStep advances the velocity field by dt.
func (f *Fluid) VelocityStep(dt float32) {
	cfg := &f.cfg

	addSource(f.u, f.u0, dt)
	addSource(f.v, f.v0, dt)

	if cfg.Vorticity > 0 {
		f.confine(f.u0, f.v0, f.u, f.v)
		addSource(f.u, f.u0, cfg.Vorticity*dt)
		addSource(f.v, f.v0, cfg.Vorticity*dt)
	}

	if cfg.Viscosity > 0 {
		f.diffuse(f.u0, f.u, cfg.Viscosity, dt, cfg.DiffuseIterations, XVelocity)
		f.diffuse(f.v0, f.v, cfg.Viscosity, dt, cfg.DiffuseIterations, YVelocity)
		f.swapVelocity()
	}
	f.project(f.u, f.v, f.u0, f.v0, cfg.PressureIterations)

	// The projected field becomes the advection source.
	f.swapVelocity()
	f.prepare(f.u0, f.v0, dt)
	f.advect(f.u, f.u0, f.u0, f.v0, dt, XVelocity)
	f.advect(f.v, f.v0, f.u0, f.v0, dt, YVelocity)

	f.project(f.u, f.v, f.u0, f.v0, cfg.PressureIterations)

	if cfg.DampVelocity != 0 {
		dv := math32.Exp(-cfg.DampVelocity * dt)
		scale(f.u, dv)
		scale(f.v, dv)
	}
	checkFinite("velocity step", f.u, f.v)
}

// DensityStep advances density and dye through the current velocity field,
// reusing the characteristic map of the last velocity step.
func (f *Fluid) DensityStep(dt float32) {
	cfg := &f.cfg

	addSource(f.density, f.density0, dt)

	f.advect(f.density0, f.density, f.u, f.v, dt, Scalar)
	f.density, f.density0 = f.density0, f.density
	f.advect(f.r0, f.r, f.u, f.v, dt, Scalar)
	f.advect(f.g0, f.g, f.u, f.v, dt, Scalar)
	f.advect(f.b0, f.b, f.u, f.v, dt, Scalar)
	f.swapDye()

	if cfg.DiffusionDensity > 0 {
		f.diffuse(f.density0, f.density, cfg.DiffusionDensity, dt, cfg.DiffuseIterations, Scalar)
		f.density, f.density0 = f.density0, f.density
	}
	if cfg.DiffusionColor > 0 {
		f.diffuse(f.r0, f.r, cfg.DiffusionColor, dt, cfg.DiffuseIterations, Scalar)
		f.diffuse(f.g0, f.g, cfg.DiffusionColor, dt, cfg.DiffuseIterations, Scalar)
		f.diffuse(f.b0, f.b, cfg.DiffusionColor, dt, cfg.DiffuseIterations, Scalar)
		f.swapDye()
	}
	checkFinite("density step", f.density, f.r, f.g, f.b)
}

func (f *Fluid) swapVelocity() {
	f.u, f.u0 = f.u0, f.u
	f.v, f.v0 = f.v0, f.v
}

func (f *Fluid) swapDye() {
	f.r, f.r0 = f.r0, f.r
	f.g, f.g0 = f.g0, f.g
	f.b, f.b0 = f.b0, f.b
}

// Reset clears every field. Obstacles are kept.
func (f *Fluid) Reset() {
	for _, fld := range []Field{
		f.density, f.density0, f.u, f.v, f.u0, f.v0,
		f.r, f.g, f.b, f.r0, f.g0, f.b0, f.scratch, f.jacobiBuf,
	} {
		fill(fld, 0)
	}
	f.resetCharacteristics()
}
