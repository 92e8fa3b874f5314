package app

import (
	"fmt"
	"time"

	"github.com/gekko3d/raysphere"
	"github.com/gekko3d/raysphere/spherert/rt/gpu"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type State int

const (
	Uninitialized State = iota
	Configured
	Rendering
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Configured:
		return "Configured"
	case Rendering:
		return "Rendering"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Surface is the presentation side of gpu.Context.
type Surface interface {
	Configure(width, height int) error
	AcquireFrame() (*gpu.Frame, error)
	Present()
}

// FrameEncoder records and submits the GPU work for one frame.
type FrameEncoder interface {
	EncodeFrame(target *wgpu.TextureView, width, height uint32) error
}

// Stats counts frame outcomes since startup.
type Stats struct {
	Rendered     uint64
	Skipped      uint64
	Reconfigured uint64
}

const hudInterval = time.Second

// HUD displays frame statistics, such as a text overlay or the window title.
type HUD interface {
	SetText(text string)
}

// App drives the per-frame procedure from window events. It is not safe for
// concurrent use; all calls come from the event loop thread.
type App struct {
	Surface  Surface
	Encoder  FrameEncoder
	Logger   raysphere.Logger
	Profiler *Profiler

	// WindowSize reports the current framebuffer size, used when a lost
	// surface has to be reconfigured. Nil falls back to the last resize.
	WindowSize func() (int, int)
	// RequestExit is called once Escape or a close request is seen.
	RequestExit func()
	// AfterFrame runs after each presented frame with the frame count.
	AfterFrame func(n uint64)
	// HUDs receive the stats text about once a second.
	HUDs []HUD

	Stats Stats

	state         State
	width         int
	height        int
	exitRequested bool

	now       func() time.Time
	hudStart  time.Time
	hudFrames uint64
}

func NewApp(surface Surface, encoder FrameEncoder, logger raysphere.Logger) *App {
	return &App{
		Surface:  surface,
		Encoder:  encoder,
		Logger:   raysphere.OrNop(logger),
		Profiler: NewProfiler(),
		now:      time.Now,
	}
}

func (a *App) State() State {
	return a.state
}

// Size is the surface size of the last successful configuration.
func (a *App) Size() (int, int) {
	return a.width, a.height
}

func (a *App) ExitRequested() bool {
	return a.exitRequested
}

// HandleEvent dispatches one window event.
func (a *App) HandleEvent(ev Event) {
	switch e := ev.(type) {
	case ResizeEvent:
		a.Resize(e.Width, e.Height)
	case RedrawEvent:
		a.Render()
	case KeyEvent:
		a.HandleKey(e.Key, e.Pressed)
	case CloseEvent:
		a.requestExit()
	default:
		a.Logger.Warnf("ignoring unknown event %T", ev)
	}
}

// Resize configures the surface to exactly width x height. Non-positive
// sizes, as reported while minimized, are ignored.
func (a *App) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if err := a.Surface.Configure(width, height); err != nil {
		a.Logger.Errorf("failed to configure surface %dx%d: %v", width, height, err)
		return
	}
	a.width, a.height = width, height
	a.state = Configured
	a.Logger.Debugf("surface configured %dx%d", width, height)
}

func (a *App) HandleKey(key glfw.Key, pressed bool) {
	if key == glfw.KeyEscape && pressed {
		a.requestExit()
	}
}

func (a *App) requestExit() {
	if a.exitRequested {
		return
	}
	a.exitRequested = true
	if a.RequestExit != nil {
		a.RequestExit()
	}
}

// Render runs one frame: acquire, encode, present. Failures never escape;
// the frame is skipped and a lost or outdated surface is reconfigured so
// the next frame can succeed.
func (a *App) Render() {
	if a.state == Uninitialized {
		return
	}
	if !a.syncWindowSize() {
		a.Stats.Skipped++
		return
	}
	a.state = Rendering

	a.Profiler.BeginScope("acquire")
	frame, err := a.Surface.AcquireFrame()
	a.Profiler.EndScope("acquire")
	if err != nil {
		a.Stats.Skipped++
		if gpu.IsRecoverable(err) {
			a.Logger.Warnf("%v, reconfiguring", err)
			a.reconfigure()
			return
		}
		a.Logger.Errorf("skipping frame: %v", err)
		return
	}
	defer frame.Release()

	a.Profiler.BeginScope("encode")
	err = a.Encoder.EncodeFrame(frame.View(), uint32(a.width), uint32(a.height))
	a.Profiler.EndScope("encode")
	if err != nil {
		a.Stats.Skipped++
		a.Logger.Errorf("skipping frame: %v", err)
		return
	}

	a.Profiler.BeginScope("present")
	a.Surface.Present()
	a.Profiler.EndScope("present")

	a.Stats.Rendered++
	if a.AfterFrame != nil {
		a.AfterFrame(a.Stats.Rendered)
	}
	a.tick()
}

// syncWindowSize reconfigures the surface when the window size no longer
// matches it. The binding hands back an empty texture instead of an error
// for an outdated surface, so the mismatch has to be caught before acquire.
// It returns false while the window has no drawable area.
func (a *App) syncWindowSize() bool {
	if a.WindowSize == nil {
		return true
	}
	w, h := a.WindowSize()
	if w <= 0 || h <= 0 {
		return false
	}
	if w != a.width || h != a.height {
		a.Logger.Debugf("window is %dx%d, surface %dx%d: reconfiguring", w, h, a.width, a.height)
		a.Resize(w, h)
		if a.width != w || a.height != h {
			return false
		}
		a.Stats.Reconfigured++
	}
	return true
}

func (a *App) reconfigure() {
	w, h := a.width, a.height
	if a.WindowSize != nil {
		w, h = a.WindowSize()
	}
	a.state = Configured
	if w <= 0 || h <= 0 {
		a.Logger.Debugf("window is %dx%d, reconfigure deferred to next resize", w, h)
		return
	}
	if err := a.Surface.Configure(w, h); err != nil {
		a.Logger.Errorf("failed to reconfigure surface %dx%d: %v", w, h, err)
		return
	}
	a.width, a.height = w, h
	a.Stats.Reconfigured++
}

// tick publishes frame statistics once per hudInterval.
func (a *App) tick() {
	now := a.now()
	if a.hudStart.IsZero() {
		a.hudStart = now
		return
	}
	a.hudFrames++
	elapsed := now.Sub(a.hudStart)
	if elapsed < hudInterval {
		return
	}
	fps := float64(a.hudFrames) / elapsed.Seconds()
	line := a.statsLine(fps)
	for _, h := range a.HUDs {
		h.SetText(line)
	}
	if a.Logger.DebugEnabled() {
		a.Logger.Debugf("%s\n%s", line, a.Profiler.StatsString())
	}
	a.Profiler.Reset()
	a.hudStart = now
	a.hudFrames = 0
}

func (a *App) statsLine(fps float64) string {
	return fmt.Sprintf("FPS: %.1f  %dx%d\nframes %d  skipped %d  reconfigured %d",
		fps, a.width, a.height, a.Stats.Rendered, a.Stats.Skipped, a.Stats.Reconfigured)
}
