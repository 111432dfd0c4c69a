// Package gui provides the interactive Raylib sandbox.
package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/physics"
	"github.com/san-kum/particlebox/internal/sim"
	"github.com/san-kum/particlebox/internal/world"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)    // Deep Black
	ColAccent  = rl.NewColor(180, 180, 180, 255) // Soft White
	ColSelect  = rl.NewColor(255, 255, 255, 255) // Bright White
	ColText    = rl.NewColor(140, 140, 140, 255) // Neutral Gray
	ColTextDim = rl.NewColor(60, 60, 60, 255)    // Dark Gray (Subtle)
	ColHot     = rl.NewColor(255, 120, 80, 255)  // Fast particles
)

// mouseStrength is the magnitude of the radial force applied while a
// mouse button is held. Left attracts, right repels.
const mouseStrength = 2000.0

// maxFrameDt caps the wall-clock delta fed into the physics step so a
// dragged window does not launch particles through walls.
const maxFrameDt = 1.0 / 30.0

type App struct {
	Cfg       *config.Config
	World     *world.World
	Sim       *sim.Simulator
	Time      float64
	Running   bool
	GravityOn bool

	ShowVectors bool
	Telemetry   []float64 // Ring buffer for the kinetic energy graph
	Font        rl.Font
}

func initWindow(cfg *config.Config) {
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), "particlebox")
	rl.SetTargetFPS(int32(cfg.FPS))
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp seeds a world from cfg and builds the simulator around it.
func NewApp(cfg *config.Config) (*App, error) {
	w, err := world.New(world.SeedConfig{
		Count:    cfg.Particles,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Radius:   cfg.Radius,
		MaxSpeed: cfg.MaxSpeed,
		Seed:     cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	stepper, err := physics.NewStepper(cfg.Stepper, cfg.Gravity, cfg.Restitution)
	if err != nil {
		return nil, err
	}
	resolver := &physics.Resolver{
		Restitution:       cfg.Restitution,
		CorrectionPercent: cfg.CorrectionPercent,
		Slop:              cfg.CorrectionSlop,
	}

	return &App{
		Cfg:       cfg,
		World:     w,
		Sim:       sim.New(stepper, resolver),
		Running:   true,
		GravityOn: cfg.Gravity != 0,
		Telemetry: make([]float64, 0, 200),
		Font:      loadFont(),
	}, nil
}

// Run opens the window and blocks in the update-draw loop until the
// window is closed or Q is pressed. It returns an error if the window
// cannot be created (e.g. no display).
func Run(cfg *config.Config) error {
	initWindow(cfg)
	defer rl.CloseWindow()

	if !rl.IsWindowReady() {
		return fmt.Errorf("gui: window initialization failed")
	}

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) reset() {
	w, err := world.New(world.SeedConfig{
		Count:    a.Cfg.Particles,
		Width:    a.Cfg.Width,
		Height:   a.Cfg.Height,
		Radius:   a.Cfg.Radius,
		MaxSpeed: a.Cfg.MaxSpeed,
		Seed:     a.Cfg.Seed,
	})
	if err != nil {
		return
	}
	a.World = w
	a.Time = 0
	a.Telemetry = a.Telemetry[:0]
}

func (a *App) rebuildSim() {
	gravity := 0.0
	if a.GravityOn {
		gravity = a.Cfg.Gravity
		if gravity == 0 {
			gravity = config.DefaultGravity
		}
	}
	stepper, err := physics.NewStepper(a.Cfg.Stepper, gravity, a.Cfg.Restitution)
	if err != nil {
		return
	}
	resolver := &physics.Resolver{
		Restitution:       a.Cfg.Restitution,
		CorrectionPercent: a.Cfg.CorrectionPercent,
		Slop:              a.Cfg.CorrectionSlop,
	}
	a.Sim = sim.New(stepper, resolver)
}

// Update handles input and advances the simulation by one display
// frame. It returns false when the user quits.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}
	if rl.IsKeyPressed(rl.KeyV) {
		a.ShowVectors = !a.ShowVectors
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.GravityOn = !a.GravityOn
		a.rebuildSim()
	}

	if !a.Running {
		return true
	}

	a.applyMouseForce()

	dt := float64(rl.GetFrameTime())
	if dt <= 0 {
		dt = 1.0 / float64(a.Cfg.FPS)
	}
	if dt > maxFrameDt {
		dt = maxFrameDt
	}

	// Sub-step the display frame at the configured physics dt so the
	// collision behaviour matches headless runs.
	for dt > 0 {
		step := math.Min(dt, a.Cfg.Dt)
		a.Sim.Advance(a.World, step)
		a.Time += step
		dt -= step
	}

	a.Telemetry = append(a.Telemetry, a.World.KineticEnergy())
	if len(a.Telemetry) > 200 {
		a.Telemetry = a.Telemetry[1:]
	}

	return true
}

// applyMouseForce pulls particles toward the cursor while the left
// button is held, and pushes them away on the right button.
func (a *App) applyMouseForce() {
	strength := 0.0
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		strength = mouseStrength
	} else if rl.IsMouseButtonDown(rl.MouseRightButton) {
		strength = -mouseStrength
	}
	if strength == 0 {
		return
	}

	mouse := rl.GetMousePosition()
	cursor := world.Vec2{X: float64(mouse.X), Y: float64(mouse.Y)}
	dt := 1.0 / float64(a.Cfg.FPS)

	for i := range a.World.Particles {
		p := &a.World.Particles[i]
		dir := cursor.Sub(p.Pos)
		dist := dir.Length()
		if dist < 1 {
			continue
		}
		// Inverse falloff with a floor so the force stays finite.
		accel := strength / math.Max(dist, 20)
		p.Vel = p.Vel.Add(dir.Normalize().Scale(accel * dt * 60))
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawParticles()
	a.drawCursor()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) drawParticles() {
	maxSpeed := a.Cfg.MaxSpeed
	if maxSpeed <= 0 {
		maxSpeed = 1
	}

	for i := range a.World.Particles {
		p := &a.World.Particles[i]
		speed := p.Vel.Length()

		// Blend from soft white to hot orange by speed.
		t := math.Min(speed/maxSpeed, 1.0)
		col := rl.NewColor(
			uint8(float64(ColAccent.R)+t*float64(int(ColHot.R)-int(ColAccent.R))),
			uint8(float64(ColAccent.G)+t*float64(int(ColHot.G)-int(ColAccent.G))),
			uint8(float64(ColAccent.B)+t*float64(int(ColHot.B)-int(ColAccent.B))),
			255,
		)

		rl.DrawCircle(int32(p.Pos.X), int32(p.Pos.Y), float32(p.Radius), col)

		if a.ShowVectors && speed > 0.01 {
			tip := p.Pos.Add(p.Vel.Scale(0.1))
			rl.DrawLine(int32(p.Pos.X), int32(p.Pos.Y), int32(tip.X), int32(tip.Y), ColTextDim)
		}
	}
}

func (a *App) drawCursor() {
	active := rl.IsMouseButtonDown(rl.MouseLeftButton) || rl.IsMouseButtonDown(rl.MouseRightButton)
	if !active {
		return
	}
	mouse := rl.GetMousePosition()
	rl.DrawCircleLines(int32(mouse.X), int32(mouse.Y), 20, rl.NewColor(255, 255, 255, 100))
	rl.DrawCircleLines(int32(mouse.X), int32(mouse.Y), 40, rl.NewColor(255, 255, 255, 50))
}

func (a *App) DrawHUD() {
	a.drawText("particlebox", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s / %d particles", a.Cfg.Stepper, len(a.World.Particles)), 190, 34, 16, ColText)

	a.DrawTelemetry()

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, int(a.Cfg.Width)-110, 30, 16, col)

	grav := "ON"
	if !a.GravityOn {
		grav = "OFF"
	}
	a.drawText(fmt.Sprintf("t=%.1fs  g=%s", a.Time, grav), 30, 60, 14, ColText)

	a.drawText("[SPACE] PAUSE  [R] RESET  [V] VECTORS  [G] GRAVITY  [Q] QUIT", 30, int(a.Cfg.Height)-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), int(a.Cfg.Width)-90, int(a.Cfg.Height)-40, 14, ColTextDim)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, int(a.Cfg.Height)-140
	width, height := 300, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E: %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
