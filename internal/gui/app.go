// Package gui runs the world in a desktop window with raylib.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/san-kum/parched/internal/ball"
	"github.com/san-kum/parched/internal/experiment"
	"github.com/san-kum/parched/internal/scene"
	"github.com/san-kum/parched/internal/sim"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	physicsDt    = 0.017
)

type Option func(*options)

type options struct {
	observers []sim.Observer
}

// WithObserver registers o on the world once it is built.
func WithObserver(o sim.Observer) Option {
	return func(opts *options) { opts.observers = append(opts.observers, o) }
}

type App struct {
	exp      *experiment.Experiment
	renderer *Renderer
	wind     experiment.WindConfig
	name     string

	running bool
	frame   int
	acc     float32
	status  string
}

func NewApp(cfg experiment.Config, wind experiment.WindConfig, log *zap.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg.Dt = physicsDt
	r := &Renderer{View: View{
		X:    (windowWidth - windowHeight) / 2,
		Y:    0,
		Size: windowHeight,
	}}
	exp := experiment.New(cfg, log)
	if err := exp.Setup(sim.WithRenderer(r)); err != nil {
		return nil, err
	}
	for _, obs := range o.observers {
		exp.World().AddObserver(obs)
	}
	name := ""
	if cfg.Scene != nil {
		name = cfg.Scene.Name
	}
	return &App{exp: exp, renderer: r, wind: wind, name: name, running: true}, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg experiment.Config, wind experiment.WindConfig, log *zap.Logger, opts ...Option) error {
	rl.InitWindow(windowWidth, windowHeight, "parched")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, wind, log, opts...)
	if err != nil {
		return err
	}
	defer app.exp.Close()

	for !rl.WindowShouldClose() {
		if app.Update() {
			break
		}
		app.Draw()
	}
	return nil
}

// Update handles input and advances fixed frames. It reports whether the
// user asked to quit.
func (a *App) Update() bool {
	w := a.exp.World()
	mouse := a.renderer.View.ToWorld(rl.GetMousePosition())

	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return true
	case rl.IsKeyPressed(rl.KeySpace):
		a.running = !a.running
	case rl.IsMouseButtonPressed(rl.MouseLeftButton), rl.IsKeyPressed(rl.KeyA):
		a.spawn(mouse, scene.RandomColour(a.exp.Rand()), 0.03, ball.NormalBehavior())
	case rl.IsKeyPressed(rl.KeyT):
		a.spawn(mouse, mgl32.Vec3{0.5, 0.5, 0.5}, 0.1, scene.Purge(w))
	case rl.IsKeyPressed(rl.KeyOne):
		a.spawn(mouse, mgl32.Vec3{1, 1, 0}, 0.02, scene.BlockBlue(w))
	case rl.IsKeyPressed(rl.KeyTwo):
		a.spawn(mouse, mgl32.Vec3{0, 0, 1}, 0.02, scene.PaintBlue(w))
	case rl.IsKeyPressed(rl.KeyX):
		w.PopBall()
	case rl.IsKeyPressed(rl.KeyC):
		w.Clear()
	case rl.IsKeyPressed(rl.KeyW):
		if a.exp.WindEnabled() {
			a.exp.SetWind(nil)
		} else {
			wind := a.wind
			a.exp.SetWind(&wind)
		}
	}

	if !a.running {
		return false
	}
	a.acc += min(rl.GetFrameTime(), 0.25)
	for a.acc >= physicsDt {
		a.exp.Step(a.frame)
		a.frame++
		a.acc -= physicsDt
	}
	return false
}

func (a *App) spawn(p mgl32.Vec2, colour mgl32.Vec3, radius float32, b ball.Behavior) {
	if _, err := a.exp.World().AddBallWithBehavior(p, colour, radius, b); err != nil {
		a.status = err.Error()
		return
	}
	a.status = ""
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.exp.World().Draw()
	a.drawHUD()

	rl.EndDrawing()
}

func (a *App) drawHUD() {
	w := a.exp.World()
	vals := w.Metrics()

	rl.DrawText("parched", 30, 30, 24, ColSelect)
	rl.DrawText(":: "+a.name, 150, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !a.running {
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, 1150, 30, 16, col)

	rl.DrawText(fmt.Sprintf("balls %d / %d", w.BallCount(), w.Capacity()), 30, 80, 16, ColText)
	rl.DrawText(fmt.Sprintf("energy %.4f", vals["kinetic_energy"]), 30, 104, 16, ColText)
	rl.DrawText(fmt.Sprintf("overlap %.4f", vals["penetration"]), 30, 128, 16, ColText)
	rl.DrawText(fmt.Sprintf("stable %.0f%%", vals["stability"]*100), 30, 152, 16, ColText)
	if a.exp.WindEnabled() {
		rl.DrawText("wind", 30, 176, 16, ColText)
	}
	if a.status != "" {
		rl.DrawText(a.status, 30, 620, 14, rl.Red)
	}

	rl.DrawText("[CLICK/A] BALL  [T] PURGE  [1/2] BLUE  [X] POP  [C] CLEAR  [W] WIND  [SPACE] PAUSE  [Q] QUIT", 30, 680, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 1180, 680, 14, ColTextDim)
}
