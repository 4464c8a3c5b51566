package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/TheFellow/fluid/pkg/emitter"
	"github.com/TheFellow/fluid/pkg/fluid"
	"github.com/TheFellow/fluid/pkg/render"
	"github.com/TheFellow/fluid/pkg/scene"
)

// float32Flag adapts a float32 config field to the flag package.
type float32Flag struct{ p *float32 }

func (f float32Flag) String() string {
	if f.p == nil {
		return "0"
	}
	return strconv.FormatFloat(float64(*f.p), 'g', -1, 32)
}

func (f float32Flag) Set(s string) error {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return err
	}
	*f.p = float32(v)
	return nil
}

type options struct {
	cfg       fluid.Config
	scene     string
	mode      render.Mode
	scale     int
	brush     int
	tps       int
	addr      string
	showDebug bool
}

func parseFlags(args []string) (options, error) {
	opts := options{
		cfg:   fluid.DefaultConfig(),
		scene: "baffles",
		scale: 4,
		brush: 2,
		tps:   60,
	}
	cfg := &opts.cfg

	fs := flag.NewFlagSet("fluid", flag.ContinueOnError)
	fs.IntVar(&cfg.Width, "width", cfg.Width, "grid width in cells, border included")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "grid height in cells, border included")
	fs.Var(float32Flag{&cfg.Vorticity}, "vorticity", "vorticity confinement strength, 0 disables")
	fs.Var(float32Flag{&cfg.Viscosity}, "viscosity", "velocity diffusion rate")
	fs.Var(float32Flag{&cfg.DiffusionDensity}, "diffusion", "density diffusion rate")
	fs.Var(float32Flag{&cfg.DiffusionColor}, "color-diffusion", "dye diffusion rate")
	fs.Var(float32Flag{&cfg.DampDensity}, "damp-density", "density decay per second")
	fs.Var(float32Flag{&cfg.DampVelocity}, "damp-velocity", "velocity decay per second")
	fs.Var(float32Flag{&cfg.GravityX}, "gravity-x", "horizontal buoyancy per unit density")
	fs.Var(float32Flag{&cfg.GravityY}, "gravity-y", "vertical buoyancy per unit density")
	fs.Var(float32Flag{&cfg.WindX}, "wind-x", "constant horizontal wind")
	fs.Var(float32Flag{&cfg.WindY}, "wind-y", "constant vertical wind")
	fs.IntVar(&cfg.PressureIterations, "pressure-iters", cfg.PressureIterations, "Jacobi sweeps per pressure solve")
	fs.IntVar(&cfg.DiffuseIterations, "diffuse-iters", cfg.DiffuseIterations, "Jacobi sweeps per diffusion solve")
	fs.Func("scheme", "advection scheme: linear, maccormack or bfecc (default bfecc)", func(s string) error {
		scheme, err := fluid.ParseScheme(s)
		cfg.Scheme = scheme
		return err
	})
	fs.Func("unit", "divergence unit scale: diagonal or edge (default diagonal)", func(s string) error {
		switch strings.ToLower(s) {
		case "diagonal":
			cfg.UnitScale = fluid.UnitDiagonal
		case "edge":
			cfg.UnitScale = fluid.UnitEdge
		default:
			return fmt.Errorf("unknown unit scale %q", s)
		}
		return nil
	})
	fs.Func("mode", "initial view: dye, velocity, magnitude or pressure (default dye)", func(s string) error {
		m, err := render.ParseMode(s)
		opts.mode = m
		return err
	})
	fs.StringVar(&opts.scene, "scene", opts.scene, "obstacle layout: "+strings.Join(scene.Names(), ", "))
	fs.IntVar(&opts.scale, "scale", opts.scale, "window pixels per cell")
	fs.IntVar(&opts.brush, "brush", opts.brush, "radius in cells of the right-mouse obstacle brush")
	fs.IntVar(&opts.tps, "tps", opts.tps, "simulation ticks per second")
	fs.StringVar(&opts.addr, "addr", "", "serve frames over websocket on this address instead of opening a window")
	fs.BoolVar(&opts.showDebug, "debug", true, "show the debug overlay")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.scale < 1 || opts.tps < 1 {
		return opts, fmt.Errorf("scale and tps must be positive")
	}
	if opts.brush < 0 {
		return opts, fmt.Errorf("brush radius must not be negative")
	}
	return opts, cfg.Validate()
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	f, err := fluid.New(opts.cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := scene.Apply(f, opts.scene); err != nil {
		log.Fatal(err)
	}
	em := emitter.New(opts.cfg.Width)

	if opts.addr != "" {
		if err := serve(opts, f, em); err != nil {
			log.Fatal(err)
		}
		return
	}

	ebiten.SetWindowSize(opts.cfg.Width*opts.scale, opts.cfg.Height*opts.scale)
	ebiten.SetWindowTitle("FluidSim")
	ebiten.SetTPS(opts.tps)

	if err := ebiten.RunGame(NewGame(f, em, opts)); err != nil {
		log.Fatal(err)
	}
}
