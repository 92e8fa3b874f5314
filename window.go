package raysphere

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState owns the single GLFW window the renderer presents into.
// All methods must be called from the thread that created it.
type WindowState struct {
	windowGlfw  *glfw.Window
	windowTitle string
}

// NewWindowState initialises GLFW and opens a window without a client API,
// since WebGPU brings its own.
func NewWindowState(cfg Config) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	resizable := glfw.False
	if cfg.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	return &WindowState{
		windowGlfw:  win,
		windowTitle: cfg.Title,
	}, nil
}

// Glfw exposes the underlying window for callback registration.
func (s *WindowState) Glfw() *glfw.Window {
	return s.windowGlfw
}

// FramebufferSize is the drawable size in pixels. It differs from the
// window size on high-DPI displays and is what the surface must match.
func (s *WindowState) FramebufferSize() (int, int) {
	return s.windowGlfw.GetFramebufferSize()
}

func (s *WindowState) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(s.windowGlfw)
}

// RequestClose asks the event loop to stop after the current iteration.
func (s *WindowState) RequestClose() {
	s.windowGlfw.SetShouldClose(true)
}

func (s *WindowState) ShouldClose() bool {
	return s.windowGlfw.ShouldClose()
}

func (s *WindowState) PollEvents() {
	glfw.PollEvents()
}

// SetText shows the first line of text after the window title.
func (s *WindowState) SetText(text string) {
	s.windowGlfw.SetTitle(statusTitle(s.windowTitle, text))
}

func statusTitle(title, status string) string {
	line, _, _ := strings.Cut(status, "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return title
	}
	return title + " | " + line
}

func (s *WindowState) Destroy() {
	s.windowGlfw.Destroy()
	glfw.Terminate()
}
