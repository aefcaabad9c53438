// Command tri-go opens a window and draws a row of spinning, textured triangles with a single
// instanced draw per frame. WASD moves the camera, the mouse looks around, Escape releases the
// cursor and a second Escape quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/Carmen-Shannon/tri-go/engine"
	"github.com/Carmen-Shannon/tri-go/engine/camera"
	"github.com/Carmen-Shannon/tri-go/engine/loader"
	"github.com/Carmen-Shannon/tri-go/engine/model"
	"github.com/Carmen-Shannon/tri-go/engine/renderer"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/material"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/shader"
	"github.com/Carmen-Shannon/tri-go/engine/scene"
	"github.com/Carmen-Shannon/tri-go/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/profile"
)

// GLFW must run on the main OS thread.
func init() {
	runtime.LockOSThread()
}

type config struct {
	entities    int
	capacity    int
	spacing     float64
	width       int
	height      int
	texture     string
	mesh        string
	meshScale   float64
	vsync       bool
	clearColor  string
	fov         float64
	cull        string
	fallback    bool
	frameLimit  float64
	workers     int
	profileMode string
	profilePath string
	stats       bool
}

func parseFlags() config {
	var cfg config
	flag.IntVar(&cfg.entities, "entities", 1, "number of triangles in the row")
	flag.IntVar(&cfg.capacity, "capacity", scene.DefaultCapacity, "maximum number of instances the transform buffer holds")
	flag.Float64Var(&cfg.spacing, "spacing", 1, "distance between neighbouring triangles along +Y")
	flag.IntVar(&cfg.width, "width", 1280, "initial window width in pixels")
	flag.IntVar(&cfg.height, "height", 720, "initial window height in pixels")
	flag.StringVar(&cfg.texture, "texture", "", "PNG or JPEG texture path; a checkerboard is used when empty")
	flag.StringVar(&cfg.mesh, "mesh", "", ".gltf or .glb mesh to instance instead of the triangle")
	flag.Float64Var(&cfg.meshScale, "mesh-scale", 1, "uniform scale applied to -mesh positions")
	flag.StringVar(&cfg.clearColor, "clear-color", "0,0,0.4", "background color as r,g,b in [0, 1]")
	flag.Float64Var(&cfg.fov, "fov", renderer.DefaultFovY, "vertical field of view in degrees")
	flag.StringVar(&cfg.cull, "cull", "none", "face culling: none, back or front")
	flag.BoolVar(&cfg.vsync, "vsync", true, "present with FIFO (vsync); false presents immediately")
	flag.BoolVar(&cfg.fallback, "fallback", false, "force a software (fallback) adapter")
	flag.Float64Var(&cfg.frameLimit, "frame-limit", 0, "cap the frame rate when vsync is off (0 = uncapped)")
	flag.IntVar(&cfg.workers, "workers", 1, "entity update workers; 1 updates inline")
	flag.StringVar(&cfg.profileMode, "profile", "", "write a pprof profile: cpu, mem or trace")
	flag.StringVar(&cfg.profilePath, "profile-path", ".", "directory for -profile output")
	flag.BoolVar(&cfg.stats, "stats", false, "log FPS, frame time and memory once per second")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		log.Fatalf("[Main] %v", err)
	}
}

// run builds the window, scene, renderer and engine, then blocks in the window message loop.
// Every resource is released before it returns.
func run(cfg config) error {
	stopProfile, err := startProfile(cfg.profileMode, cfg.profilePath)
	if err != nil {
		return err
	}
	defer stopProfile()

	w := window.NewWindow(
		window.WithTitle("tri-go"),
		window.WithWidth(cfg.width),
		window.WithHeight(cfg.height),
		window.WithCursorCaptured(true),
	)
	defer w.Close()

	sc, err := scene.NewScene(
		scene.WithName("Triangles"),
		scene.WithCapacity(cfg.capacity),
		scene.WithRow(cfg.entities, float32(cfg.spacing), scene.DefaultRowOrigin),
		scene.WithComputeWorkers(cfg.workers),
	)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	defer sc.Release()

	controller := camera.NewCameraController(sc)
	w.SetKeyDownCallback(controller.KeyDown)
	w.SetKeyUpCallback(controller.KeyUp)
	w.SetMouseMoveCallback(controller.MouseMove)
	w.SetCursorCaptureCallback(func(bool) {
		controller.ResetCursor()
	})

	mesh := model.TriangleMesh()
	if cfg.mesh != "" {
		if mesh, err = loader.NewLoader(loader.WithScale(float32(cfg.meshScale))).LoadMesh(cfg.mesh); err != nil {
			return fmt.Errorf("mesh: %w", err)
		}
	}

	clearColor, err := parseClearColor(cfg.clearColor)
	if err != nil {
		return err
	}
	cullMode, err := parseCullMode(cfg.cull)
	if err != nil {
		return err
	}
	instanced, err := shader.NewInstancedTriangleShader()
	if err != nil {
		return fmt.Errorf("shader: %w", err)
	}

	presentMode := renderer.PresentModeVSync
	if !cfg.vsync {
		presentMode = renderer.PresentModeUncapped
	}
	r := renderer.NewWGPURenderer(w,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(cfg.fallback),
		renderer.WithCapacity(sc.Capacity()),
		renderer.WithMesh(mesh),
		renderer.WithClearColor(clearColor),
		renderer.WithProjection(float32(cfg.fov), renderer.DefaultNear, renderer.DefaultFar),
		renderer.WithPipeline(pipeline.NewPipeline("Instanced Triangle",
			pipeline.WithShader(instanced),
			pipeline.WithCullMode(cullMode),
		)),
		renderer.WithMaterial(material.NewMaterial(
			material.WithName("Triangle"),
			material.WithTexturePath(cfg.texture),
		)),
	)
	defer r.Release()

	if err := r.Initialize(w.Width(), w.Height()); err != nil {
		return err
	}
	w.SetResizeCallback(func(width, height int) {
		if err := r.Resize(width, height); err != nil {
			log.Printf("[Main] %v", err)
		}
	})

	eng := engine.NewEngine(sc, r,
		engine.WithFrameLimit(cfg.frameLimit),
		engine.WithProfiling(cfg.stats),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		select {
		case <-ctx.Done():
			log.Printf("[Main] signal received, shutting down")
			eng.Stop()
		case <-eng.Done():
		}
	}()

	log.Printf("[Main] drawing %d entities (capacity %d, %s)", sc.EntityCount(), sc.Capacity(), presentMode)
	return eng.RunWithWindow(w)
}

// parseClearColor reads an "r,g,b" triple of components in [0, 1]. Alpha is always 1.
//
// Parameters:
//   - s: the flag value
//
// Returns:
//   - wgpu.Color: the opaque clear color
//   - error: a malformed or out-of-range component
func parseClearColor(s string) (wgpu.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return wgpu.Color{}, fmt.Errorf("-clear-color %q: want r,g,b", s)
	}
	var rgb [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return wgpu.Color{}, fmt.Errorf("-clear-color %q: %w", s, err)
		}
		if v < 0 || v > 1 {
			return wgpu.Color{}, fmt.Errorf("-clear-color %q: component %v outside [0, 1]", s, v)
		}
		rgb[i] = v
	}
	return wgpu.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 1}, nil
}

func parseCullMode(s string) (wgpu.CullMode, error) {
	switch s {
	case "none":
		return wgpu.CullModeNone, nil
	case "back":
		return wgpu.CullModeBack, nil
	case "front":
		return wgpu.CullModeFront, nil
	default:
		return wgpu.CullModeNone, fmt.Errorf("unknown -cull mode %q (want none, back or front)", s)
	}
}

// startProfile starts a pkg/profile session for the given mode.
//
// Parameters:
//   - mode: "cpu", "mem", "trace", or empty for none
//   - path: the output directory
//
// Returns:
//   - func(): stops the session and flushes the profile
//   - error: an unknown mode
func startProfile(mode, path string) (func(), error) {
	var kind func(*profile.Profile)
	switch mode {
	case "":
		return func() {}, nil
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfile
	case "trace":
		kind = profile.TraceProfile
	default:
		return nil, fmt.Errorf("unknown -profile mode %q (want cpu, mem or trace)", mode)
	}
	p := profile.Start(kind, profile.ProfilePath(path), profile.NoShutdownHook)
	return p.Stop, nil
}
