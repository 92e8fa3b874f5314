package main

import (
	"errors"
	"flag"
	"os"
	"runtime"

	"github.com/gekko3d/raysphere"
	"github.com/gekko3d/raysphere/spherert/rt/app"
	"github.com/gekko3d/raysphere/spherert/rt/core"
	"github.com/gekko3d/raysphere/spherert/rt/gpu"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg, err := raysphere.ParseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	logger := raysphere.NewDefaultLogger("raysphere", cfg.Debug)
	if cfg.CPU {
		err = renderCPU(cfg, logger)
	} else {
		err = run(cfg, logger)
	}
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func configSphere(cfg raysphere.Config) core.SphereData {
	return core.SphereData{Center: cfg.SphereCenter, Radius: cfg.SphereRadius}
}

// renderCPU writes the reference image without opening a window.
func renderCPU(cfg raysphere.Config, logger raysphere.Logger) error {
	img := core.RenderImage(configSphere(cfg), core.DefaultCamera(), cfg.TextureWidth, cfg.TextureHeight)
	path := raysphere.SnapshotPath(cfg.Screenshot)
	if err := raysphere.SaveImage(path, img); err != nil {
		return err
	}
	logger.Infof("CPU reference %dx%d written to %s", cfg.TextureWidth, cfg.TextureHeight, path)
	return nil
}

func run(cfg raysphere.Config, logger raysphere.Logger) error {
	window, err := raysphere.NewWindowState(cfg)
	if err != nil {
		return err
	}
	defer window.Destroy()

	fbW, fbH := window.FramebufferSize()
	ctx, err := gpu.NewContext(window.SurfaceDescriptor(), fbW, fbH, cfg.PresentMode, logger)
	if err != nil {
		return err
	}
	defer ctx.Release()
	logger.Infof("using adapter %s", ctx.AdapterName())

	sphere := configSphere(cfg)
	renderer, err := gpu.NewRenderer(ctx, sphere, uint32(cfg.TextureWidth), uint32(cfg.TextureHeight))
	if err != nil {
		return err
	}
	defer renderer.Release()
	logger.Debugf("sphere center %v radius %v", sphere.Center, sphere.Radius)

	application := app.NewApp(ctx, renderer, logger)
	application.WindowSize = window.FramebufferSize
	application.RequestExit = window.RequestClose
	application.HUDs = append(application.HUDs, window)

	if cfg.Debug {
		atlas, err := core.NewTextAtlas(16)
		if err != nil {
			return err
		}
		hud, err := gpu.NewTextOverlay(ctx, atlas)
		if err != nil {
			return err
		}
		defer hud.Release()
		hud.SetText("starting...")
		renderer.AddOverlay(hud)
		application.HUDs = append(application.HUDs, hud)
	}

	if cfg.Screenshot != "" {
		application.AfterFrame = func(n uint64) {
			if n != 1 {
				return
			}
			if err := saveSnapshot(ctx, renderer, cfg.Screenshot, logger); err != nil {
				logger.Errorf("screenshot: %v", err)
			}
			if cfg.ExitAfterScreenshot {
				window.RequestClose()
			}
		}
	}

	win := window.Glfw()
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		application.HandleEvent(app.ResizeEvent{Width: width, Height: height})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		application.HandleEvent(app.KeyEvent{Key: key, Pressed: action == glfw.Press})
	})
	win.SetCloseCallback(func(_ *glfw.Window) {
		application.HandleEvent(app.CloseEvent{})
	})

	application.HandleEvent(app.ResizeEvent{Width: fbW, Height: fbH})

	for !window.ShouldClose() {
		window.PollEvents()
		application.HandleEvent(app.RedrawEvent{})
	}
	logger.Infof("exiting after %d frames (%d skipped)", application.Stats.Rendered, application.Stats.Skipped)
	return nil
}

func saveSnapshot(ctx *gpu.Context, renderer *gpu.Renderer, target string, logger raysphere.Logger) error {
	img, err := gpu.ReadStorageTexture(ctx.Device, ctx.Queue, renderer.Compute)
	if err != nil {
		return err
	}
	path := raysphere.SnapshotPath(target)
	if err := raysphere.SaveImage(path, img); err != nil {
		return err
	}
	logger.Infof("snapshot written to %s", path)
	return nil
}
