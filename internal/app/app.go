// Package app wires the window, renderer, input and viewer core into
// the interactive loop.
package app

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/chewxy/math32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/partscope/internal/camera"
	"github.com/Faultbox/partscope/internal/command"
	"github.com/Faultbox/partscope/internal/config"
	"github.com/Faultbox/partscope/internal/input"
	"github.com/Faultbox/partscope/internal/logger"
	"github.com/Faultbox/partscope/internal/render"
	"github.com/Faultbox/partscope/internal/scene"
	"github.com/Faultbox/partscope/internal/viewer"
	"github.com/Faultbox/partscope/internal/window"
)

// App is the running viewer application.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *render.Renderer
	input    *input.Input

	cam    *camera.Controller
	viewer *viewer.Viewer
	modes  viewer.Modes

	// chat carries stdin lines into the tick thread.
	chat chan string

	labelCount  int
	lastLoadErr error
}

// New creates the application. The window and GL context come up
// before the renderer, and the asset load starts immediately so the
// first frames show the loading placeholder.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:  cfg,
		chat: make(chan string, 8),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	a.renderer, err = render.New(render.Config{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.cam = camera.New(cfg.Camera.FOV, cfg.Camera.FitPadding)
	a.viewer = viewer.New(a.cam, nil)
	a.viewer.OnReady = func(info scene.BoundingInfo) {
		// Fires on the tick thread, where the GL context is current.
		a.renderer.Prune(a.viewer.Graph())
		logger.Info("model ready",
			zap.Float32("maxDimension", info.MaxDimension),
			zap.Float32("diagonal", info.Diagonal))
	}

	if cfg.Asset.Path != "" {
		a.viewer.Open(cfg.Asset.Path)
		if cfg.Asset.Watch {
			if err := a.viewer.WatchAsset(cfg.Asset.WatchSettle); err != nil {
				logger.Warn("asset watching disabled", zap.Error(err))
			}
		}
	}

	go a.readChat()

	logger.Info("application initialized")
	return a, nil
}

// readChat feeds stdin lines to the tick thread. Lines typed into the
// terminal act as the assistant command channel.
func (a *App) readChat() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		select {
		case a.chat <- line:
		default:
			logger.Warn("dropping chat line, queue full")
		}
	}
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}

		ptr := a.handleEvents()
		a.drainChat()
		a.viewer.Tick(&a.modes, ptr)
		a.reportLabels()
		a.reportLoadError()

		a.renderFrame()
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents routes SDL events to the camera and returns the pointer
// state for this frame.
func (a *App) handleEvents() *viewer.PointerEvent {
	w, h := a.window.GetSize()
	var ptr *viewer.PointerEvent

	for _, ev := range a.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			a.renderer.Resize(ev.Width, ev.Height)
			w, h = ev.Width, ev.Height

		case input.EventKeyDown:
			a.handleKey(ev.Key)

		case input.EventMouseWheel:
			a.cam.Zoom(math32.Pow(0.9, float32(ev.WheelY)))

		case input.EventMouseDown:
			if ev.Button == sdl.BUTTON_LEFT {
				ptr = &viewer.PointerEvent{
					X:         float32(ev.MouseX),
					Y:         float32(ev.MouseY),
					ViewportW: float32(w),
					ViewportH: float32(h),
					Click:     true,
				}
			}
		}
	}

	if dx, dy := a.input.DragDelta(); dx != 0 || dy != 0 {
		a.cam.AdjustSpherical(float32(dx)*0.01, float32(dy)*0.01)
	}

	if ptr == nil {
		x, y := a.input.MousePosition()
		ptr = &viewer.PointerEvent{
			X:         float32(x),
			Y:         float32(y),
			ViewportW: float32(w),
			ViewportH: float32(h),
		}
	}
	return ptr
}

// handleKey maps keyboard shortcuts onto mode toggles.
func (a *App) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false
	case sdl.SCANCODE_E:
		a.modes.Exploded = !a.modes.Exploded
	case sdl.SCANCODE_C:
		a.modes.Colorize = !a.modes.Colorize
		a.modes.RequestedColor = nil
	case sdl.SCANCODE_M:
		a.modes.Measure = !a.modes.Measure
	case sdl.SCANCODE_R:
		a.modes.Apply(command.Directive{Kind: command.KindReset})
	case sdl.SCANCODE_EQUALS:
		a.cam.ZoomIn()
	case sdl.SCANCODE_MINUS:
		a.cam.ZoomOut()
	case sdl.SCANCODE_1:
		a.modes.RequestView(camera.ViewFront)
	case sdl.SCANCODE_2:
		a.modes.RequestView(camera.ViewBack)
	case sdl.SCANCODE_3:
		a.modes.RequestView(camera.ViewLeft)
	case sdl.SCANCODE_4:
		a.modes.RequestView(camera.ViewRight)
	case sdl.SCANCODE_5:
		a.modes.RequestView(camera.ViewTop)
	case sdl.SCANCODE_6:
		a.modes.RequestView(camera.ViewBottom)
	}
}

// drainChat parses queued chat lines into mode changes.
func (a *App) drainChat() {
	for {
		select {
		case line := <-a.chat:
			d, ok := command.Parse(line)
			fmt.Println(command.Reply(d, ok))
			if !ok {
				continue
			}
			logger.Info("command", zap.String("kind", d.Kind.String()), zap.String("text", line))
			a.modes.Apply(d)
		default:
			return
		}
	}
}

// reportLabels logs measurement annotations when they change, standing
// in for a 2D overlay.
func (a *App) reportLabels() {
	labels := a.viewer.Labels()
	if len(labels) == a.labelCount {
		return
	}
	a.labelCount = len(labels)
	for _, l := range labels {
		logger.Info("measurement", zap.String("label", l.Text))
	}
}

// reportLoadError echoes a failed asset load to the terminal once, so
// watcher-triggered reloads of a broken file are not silent.
func (a *App) reportLoadError() {
	err := a.viewer.LoadErr()
	if err == a.lastLoadErr {
		return
	}
	a.lastLoadErr = err
	if err != nil {
		fmt.Println("could not load model:", err)
	}
}

func (a *App) renderFrame() {
	a.renderer.Begin()
	lightDir := a.cam.Target.Sub(a.cam.Position)
	a.renderer.DrawGraph(
		a.viewer.Graph(),
		a.cam.ViewMatrix(),
		a.cam.Projection(a.renderer.Aspect()),
		lightDir,
	)
}

// Close cleans up application resources.
func (a *App) Close() {
	logger.Info("closing application")

	a.viewer.Close()
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
