package raysphere

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultTitle         = "WGPU Raytracing Test"
	DefaultTextureWidth  = 800
	DefaultTextureHeight = 600
)

// Present modes accepted by Config.PresentMode.
const (
	PresentModeFifo      = "fifo"
	PresentModeMailbox   = "mailbox"
	PresentModeImmediate = "immediate"
)

// Config is everything the entry point needs to build the window, the GPU
// context and the pipelines.
type Config struct {
	Width     int
	Height    int
	Title     string
	Resizable bool

	// Compute target resolution. Independent of the window size.
	TextureWidth  int
	TextureHeight int

	SphereCenter mgl32.Vec3
	SphereRadius float32

	PresentMode string
	Debug       bool

	Screenshot          string
	ExitAfterScreenshot bool
	CPU                 bool
}

func DefaultConfig() Config {
	return Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Title:         DefaultTitle,
		Resizable:     false,
		TextureWidth:  DefaultTextureWidth,
		TextureHeight: DefaultTextureHeight,
		SphereCenter:  mgl32.Vec3{0, 0, 0},
		SphereRadius:  1.0,
		PresentMode:   PresentModeFifo,
	}
}

// ParseFlags parses command line arguments on top of DefaultConfig.
// Usage text and parse errors are written to output when it is not nil.
func ParseFlags(args []string, output io.Writer) (Config, error) {
	cfg := DefaultConfig()
	center := vec3Flag{v: &cfg.SphereCenter}
	radius := float64(cfg.SphereRadius)

	fs := flag.NewFlagSet("raysphere", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	} else {
		fs.SetOutput(io.Discard)
	}
	fs.IntVar(&cfg.Width, "width", cfg.Width, "initial window width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "initial window height in pixels")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "window title")
	fs.BoolVar(&cfg.Resizable, "resizable", cfg.Resizable, "allow the window to be resized")
	fs.IntVar(&cfg.TextureWidth, "texture-width", cfg.TextureWidth, "compute output width in pixels")
	fs.IntVar(&cfg.TextureHeight, "texture-height", cfg.TextureHeight, "compute output height in pixels")
	fs.Var(&center, "center", "sphere center as x,y,z")
	fs.Float64Var(&radius, "radius", radius, "sphere radius")
	fs.StringVar(&cfg.PresentMode, "present-mode", cfg.PresentMode, "surface present mode: fifo, mailbox or immediate")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging and the stats overlay")
	fs.StringVar(&cfg.Screenshot, "screenshot", cfg.Screenshot, "save the compute output to this file (.png, .bmp, .tif) or directory after the first frame")
	fs.BoolVar(&cfg.ExitAfterScreenshot, "exit-after-screenshot", cfg.ExitAfterScreenshot, "close the window once the screenshot is written")
	fs.BoolVar(&cfg.CPU, "cpu", cfg.CPU, "render with the CPU reference tracer into -screenshot and exit, no window or GPU")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.SphereRadius = float32(radius)
	cfg.applyWindowDefaults()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(fs.Output(), "invalid configuration:\n%v\n", err)
		fs.Usage()
		return Config{}, err
	}
	return cfg, nil
}

// applyWindowDefaults mirrors the platform window defaults: non-positive
// sizes and an empty title fall back to the defaults.
func (c *Config) applyWindowDefaults() {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.TextureWidth <= 0 || c.TextureHeight <= 0 {
		errs = append(errs, fmt.Errorf("texture size must be positive, got %dx%d", c.TextureWidth, c.TextureHeight))
	}
	if !(c.SphereRadius > 0) {
		errs = append(errs, fmt.Errorf("sphere radius must be positive, got %v", c.SphereRadius))
	}
	switch c.PresentMode {
	case PresentModeFifo, PresentModeMailbox, PresentModeImmediate:
	default:
		errs = append(errs, fmt.Errorf("unknown present mode %q", c.PresentMode))
	}
	if c.CPU && c.Screenshot == "" {
		errs = append(errs, errors.New("-cpu needs -screenshot to know where to write the image"))
	}
	if c.ExitAfterScreenshot && c.Screenshot == "" {
		errs = append(errs, errors.New("-exit-after-screenshot needs -screenshot"))
	}
	return errors.Join(errs...)
}

type vec3Flag struct {
	v *mgl32.Vec3
}

func (f *vec3Flag) String() string {
	if f.v == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", f.v[0], f.v[1], f.v[2])
}

func (f *vec3Flag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("expected x,y,z, got %q", s)
	}
	var out mgl32.Vec3
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		out[i] = float32(v)
	}
	*f.v = out
	return nil
}
