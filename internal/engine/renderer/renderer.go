// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/carview/internal/engine/debug"
	"github.com/Faultbox/carview/internal/engine/shader"
	"github.com/Faultbox/carview/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	Background mgl32.Vec3
	FogColor   mgl32.Vec3
	FogNear    float32
	FogFar     float32

	GridSize      float32
	GridDivisions int
	GridColor     mgl32.Vec3
}

// DefaultConfig returns the dark studio look: #333333 background and fog,
// and a 200 unit ground grid in #121212.
func DefaultConfig() Config {
	bg := debug.MustParseHexColor("#333333")
	return Config{
		Width:         1280,
		Height:        720,
		Background:    bg,
		FogColor:      bg,
		FogNear:       10,
		FogFar:        15,
		GridSize:      200,
		GridDivisions: 400,
		GridColor:     debug.MustParseHexColor("#121212"),
	}
}

// Frame is everything drawn in one frame.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	// Lines are dynamic world-space lines (mesh proxies, markers).
	Lines []debug.LineVertex
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	lineProgram *shader.Program
	grid        *lineBatch
	dynamic     *lineBatch
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// Log OpenGL info
	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	// Setup default OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)

	var err error
	r.lineProgram, err = shader.NewProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create line shader: %w", err)
	}

	grid := debug.GenerateGroundGrid(cfg.GridSize, cfg.GridDivisions, cfg.GridColor, cfg.GridColor)
	r.grid = newLineBatch(gl.STATIC_DRAW)
	r.grid.upload(debug.FlattenLineVertices(grid))
	r.dynamic = newLineBatch(gl.STREAM_DRAW)

	logger.Debug("renderer ready",
		zap.Int("grid_vertices", len(grid)),
		zap.Uint32("program", r.lineProgram.ID),
	)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.grid != nil {
		r.grid.delete()
	}
	if r.dynamic != nil {
		r.dynamic.delete()
	}
	if r.lineProgram != nil {
		r.lineProgram.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Render clears the screen and draws the grid and the frame's lines.
func (r *Renderer) Render(f Frame) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.lineProgram
	p.Use()
	p.SetMat4("uView", f.View)
	p.SetMat4("uProjection", f.Projection)
	p.SetVec3("uFogColor", r.config.FogColor)
	p.SetFloat("uFogNear", r.config.FogNear)
	p.SetFloat("uFogFar", r.config.FogFar)

	r.grid.draw()

	if len(f.Lines) > 0 {
		r.dynamic.upload(debug.FlattenLineVertices(f.Lines))
		r.dynamic.draw()
	}

	gl.UseProgram(0)
}

// ReadPixels reads the back buffer as RGBA, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;

uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vColor;
out float vDepth;

void main() {
	vec4 viewPos = uView * vec4(aPos, 1.0);
	vDepth = -viewPos.z;
	vColor = aColor;
	gl_Position = uProjection * viewPos;
}
`

const lineFragmentShader = `
#version 410 core

in vec3 vColor;
in float vDepth;

uniform vec3 uFogColor;
uniform float uFogNear;
uniform float uFogFar;

out vec4 FragColor;

void main() {
	float fog = smoothstep(uFogNear, uFogFar, vDepth);
	FragColor = vec4(mix(vColor, uFogColor, fog), 1.0);
}
`
