// Package game implements the main loop and wires the viewer together.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/carview/internal/assets"
	"github.com/Faultbox/carview/internal/config"
	"github.com/Faultbox/carview/internal/engine/camera"
	"github.com/Faultbox/carview/internal/engine/debug"
	"github.com/Faultbox/carview/internal/engine/input"
	"github.com/Faultbox/carview/internal/engine/keys"
	"github.com/Faultbox/carview/internal/engine/renderer"
	"github.com/Faultbox/carview/internal/engine/window"
	"github.com/Faultbox/carview/internal/game/states"
	"github.com/Faultbox/carview/internal/logger"
	"github.com/Faultbox/carview/internal/remote"
	"github.com/Faultbox/carview/internal/telemetry"
	"github.com/Faultbox/carview/internal/vehicle"
	"github.com/Faultbox/carview/pkg/scene"
)

const shutdownTimeout = 2 * time.Second

var (
	bodyColor  = mgl32.Vec3{0.75, 0.75, 0.78}
	wheelColor = debug.MustParseHexColor("#ff8800")
	hubColor   = debug.MustParseHexColor("#00e5ff")
)

// Game is the viewer instance.
type Game struct {
	config  *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera

	assets  *assets.Manager
	loader  *assets.Loader
	session *states.Session
	states  *states.Manager
	remote  *remote.Server

	screenshots *debug.ScreenshotCapture
	showBounds  bool
}

// New creates the window and every subsystem. The model load starts with
// the first frame.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("model", cfg.Assets.Model),
	)

	table, err := WheelNames(cfg)
	if err != nil {
		return nil, err
	}
	pivots, err := PivotOptions(cfg)
	if err != nil {
		return nil, err
	}
	draco := Decoder(cfg)
	if err := draco.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		config:      cfg,
		showBounds:  cfg.Graphics.ShowBounds,
		screenshots: debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, "carview"),
	}

	// Create window (this also creates OpenGL context)
	g.window, err = window.New(window.Config{
		Title:      "carview",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	rcfg := renderer.DefaultConfig()
	rcfg.Width, rcfg.Height = g.window.DrawableSize()
	g.renderer, err = renderer.New(rcfg)
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.assets = assets.NewManager()
	for _, root := range cfg.Assets.Roots {
		if err := g.assets.AddRoot(root); err != nil {
			logger.Warn("skipping asset root", zap.String("root", root), zap.Error(err))
		}
	}
	g.loader = assets.NewLoader(g.assets, draco)

	if cfg.Assets.Environment != "" {
		// Lighting only; the viewer keeps running without it
		if _, err := g.assets.LoadEnvironment(cfg.Assets.Environment); err != nil {
			logger.Warn("environment map unavailable", zap.Error(err))
		}
	}

	ks := keys.New()
	g.input = input.New(ks)
	g.camera = NewCamera(cfg)
	g.camera.Resize(rcfg.Width, rcfg.Height)

	tuning := Tuning(cfg)
	board := telemetry.NewBoard()
	g.session = &states.Session{
		World:      scene.NewGroup("world"),
		Keys:       ks,
		Loader:     g.loader,
		Controller: vehicle.NewController(tuning, g.camera),
		Camera:     g.camera,
		Board:      board,
		ModelPath:  cfg.Assets.Model,
		Tuning:     tuning,
		Wheels:     table,
		Pivots:     pivots,
	}

	g.states = states.NewManager()
	g.states.Change(states.NewLoadingState(g.session, g.states))

	if cfg.Remote.Enabled {
		g.remote = remote.New(ks, board)
		if err := g.remote.Start(cfg.Remote.Addr); err != nil {
			logger.Warn("touch pad disabled", zap.Error(err))
			g.remote = nil
		}
	}

	logger.Info("viewer initialized")
	return g, nil
}

// Run starts the main loop.
func (g *Game) Run() error {
	g.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget time.Duration
	if g.config.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(g.config.Graphics.FPSLimit)
	}

	logger.Info("starting main loop")

	for g.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		// 2. Step the car and camera
		if err := g.states.Update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render
		g.render()
		if g.input.IsKeyPressed("f12") {
			g.screenshot()
		}

		// 4. Present (swap buffers)
		g.window.SwapBuffers()

		// FPS counter
		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			g.session.FPS = float32(frameCount) / float32(elapsed.Seconds())
			logger.Debug("fps", zap.Float32("fps", g.session.FPS), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			w, h := g.window.DrawableSize()
			g.renderer.Resize(w, h)
			g.camera.Resize(w, h)
		case input.EventDrag:
			g.camera.HandleDrag(event.DX, event.DY)
		case input.EventWheel:
			g.camera.HandleZoom(event.DY)
		case input.EventKeyDown:
			if event.Key == "f2" {
				g.showBounds = !g.showBounds
				logger.Debug("bounds overlay", zap.Bool("visible", g.showBounds))
			}
		}
	}
}

func (g *Game) render() {
	g.renderer.Render(renderer.Frame{
		View:       g.camera.ViewMatrix(),
		Projection: g.camera.ProjectionMatrix(),
		Lines:      g.sceneLines(),
	})
}

// sceneLines draws the car as mesh bounds with wheel parts highlighted and
// a marker on each hub.
func (g *Game) sceneLines() []debug.LineVertex {
	rig, ok := g.session.Controller.Rig()
	if !ok || !g.showBounds {
		return nil
	}

	wheelMeshes := make(map[*scene.Node]bool)
	for _, w := range rig.Wheels {
		if w == nil {
			continue
		}
		for _, m := range w.Node.Meshes() {
			wheelMeshes[m] = true
		}
	}

	lines := debug.SceneLines(g.session.World, func(n *scene.Node) mgl32.Vec3 {
		if wheelMeshes[n] {
			return wheelColor
		}
		return bodyColor
	})
	for _, w := range rig.Wheels {
		if w != nil {
			lines = append(lines, debug.MarkerLines(w.Node.WorldPosition(), debug.MarkerSize, hubColor)...)
		}
	}
	return lines
}

func (g *Game) screenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	path, err := g.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up resources.
func (g *Game) Close() {
	logger.Info("closing viewer")

	if g.remote != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := g.remote.Shutdown(ctx); err != nil {
			logger.Warn("touch pad shutdown", zap.Error(err))
		}
		cancel()
	}
	if g.loader != nil {
		g.loader.Wait()
	}
	if g.assets != nil {
		g.assets.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
