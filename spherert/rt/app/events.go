package app

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Event is one of ResizeEvent, RedrawEvent, KeyEvent or CloseEvent.
type Event interface {
	isEvent()
}

// ResizeEvent carries the new framebuffer size in pixels.
type ResizeEvent struct {
	Width, Height int
}

// RedrawEvent asks for one frame.
type RedrawEvent struct{}

type KeyEvent struct {
	Key     glfw.Key
	Pressed bool
}

// CloseEvent is sent when the window system asks the window to close.
type CloseEvent struct{}

func (ResizeEvent) isEvent() {}
func (RedrawEvent) isEvent() {}
func (KeyEvent) isEvent()    {}
func (CloseEvent) isEvent()  {}
