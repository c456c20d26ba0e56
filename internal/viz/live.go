package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/parched/internal/ball"
	"github.com/san-kum/parched/internal/experiment"
	"github.com/san-kum/parched/internal/scene"
	"github.com/san-kum/parched/internal/sim"
)

const (
	// PhysicsDt is the fixed frame step the live view advances by.
	PhysicsDt       = 0.017
	historyCapacity = 120
	cursorStep      = 0.05
	maxCatchUp      = 0.25
)

type TickMsg time.Time

// Options configures the live view.
type Options struct {
	Width, Height int
	FPS           int
	Scene         string
	Wind          experiment.WindConfig
}

// Model drives an experiment from bubbletea ticks and renders it.
type Model struct {
	exp      *experiment.Experiment
	renderer *Renderer
	opts     Options

	running       bool
	frame         int
	acc           float64
	last          time.Time
	cursor        mgl32.Vec2
	energyHistory []float64
	status        string
	showHelp      bool
}

// NewModel wraps an experiment whose world renders through renderer. The
// caller builds the experiment with sim.WithRenderer(renderer).
func NewModel(exp *experiment.Experiment, renderer *Renderer, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	return Model{
		exp:           exp,
		renderer:      renderer,
		opts:          opts,
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.exp.Close()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "up", "k":
			m.moveCursor(0, cursorStep)
		case "down", "j":
			m.moveCursor(0, -cursorStep)
		case "left", "h":
			m.moveCursor(-cursorStep, 0)
		case "right", "l":
			m.moveCursor(cursorStep, 0)
		case "a":
			m.spawn(scene.RandomColour(m.exp.Rand()), 0.03, ball.NormalBehavior())
		case "t":
			m.spawn(mgl32.Vec3{0.5, 0.5, 0.5}, 0.1, scene.Purge(m.exp.World()))
		case "1":
			m.spawn(mgl32.Vec3{1, 1, 0}, 0.02, scene.BlockBlue(m.exp.World()))
		case "2":
			m.spawn(mgl32.Vec3{0, 0, 1}, 0.02, scene.PaintBlue(m.exp.World()))
		case "x":
			m.exp.World().PopBall()
		case "c":
			m.exp.World().Clear()
		case "w":
			if m.exp.WindEnabled() {
				m.exp.SetWind(nil)
			} else {
				wind := m.opts.Wind
				m.exp.SetWind(&wind)
			}
		case "tab":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.advance(time.Time(msg))
		m.draw()
		return m, m.tick()
	}
	return m, nil
}

// advance runs as many fixed frames as the wall clock allows since the last
// tick, capped so a stall does not spiral.
func (m *Model) advance(now time.Time) {
	if m.last.IsZero() || !m.running {
		m.last = now
		return
	}
	elapsed := now.Sub(m.last).Seconds()
	m.last = now
	m.acc += min(elapsed, maxCatchUp)

	for m.acc >= PhysicsDt {
		m.exp.Step(m.frame)
		m.frame++
		m.acc -= PhysicsDt
		m.record()
	}
}

func (m *Model) record() {
	if len(m.energyHistory) == historyCapacity {
		copy(m.energyHistory, m.energyHistory[1:])
		m.energyHistory = m.energyHistory[:historyCapacity-1]
	}
	m.energyHistory = append(m.energyHistory, m.exp.World().Metrics()["kinetic_energy"])
}

func (m *Model) moveCursor(dx, dy float32) {
	x := mgl32.Clamp(m.cursor.X()+dx, -1, 1)
	y := mgl32.Clamp(m.cursor.Y()+dy, -1, 1)
	m.cursor = mgl32.Vec2{x, y}
}

func (m *Model) spawn(colour mgl32.Vec3, radius float32, b ball.Behavior) {
	if _, err := m.exp.World().AddBallWithBehavior(m.cursor, colour, radius, b); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m *Model) draw() {
	m.exp.World().Draw()
	m.renderer.Marker(m.cursor)
}

// Frame returns the number of fixed frames stepped so far.
func (m Model) Frame() int { return m.frame }

func (m Model) Running() bool { return m.running }

func (m Model) Cursor() mgl32.Vec2 { return m.cursor }

func (m Model) View() string {
	w := m.exp.World()
	vals := w.Metrics()

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.opts.Scene)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(statusStyle(m.running).Render(status) + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle().Render(chart) + "\n\n")
	}

	s.WriteString(row("Time", fmt.Sprintf("%.2fs", float64(m.frame)*PhysicsDt)))
	s.WriteString(row("Frame", humanize.Comma(int64(m.frame))))
	s.WriteString(row("Balls", fmt.Sprintf("%s / %s", humanize.Comma(int64(w.BallCount())), humanize.Comma(int64(w.Capacity())))))
	s.WriteString(row("Energy", fmt.Sprintf("%.4f", vals["kinetic_energy"])))
	s.WriteString(row("Top speed", fmt.Sprintf("%.3f", w.TopSpeed())))
	s.WriteString(row("Overlap", fmt.Sprintf("%.4f", vals["penetration"])))
	s.WriteString(row("Escaped", fmt.Sprintf("%.0f", vals["containment"])))
	s.WriteString(row("Stable", fmt.Sprintf("%.0f%%", vals["stability"]*100)))
	wind := "off"
	if m.exp.WindEnabled() {
		wind = "on"
	}
	s.WriteString(row("Wind", wind))
	s.WriteString(row("Cursor", fmt.Sprintf("%+.2f %+.2f", m.cursor.X(), m.cursor.Y())))
	if m.status != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(m.status) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Pause Q:Quit ?:Help\nA:Ball T:Purge 1/2:Blue\nX:Pop C:Clear W:Wind"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.renderer.Canvas.Render()), statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  Arrows   - Move the spawn cursor    ║
║  A        - Add a ball               ║
║  T        - Add a purge trigger      ║
║  1        - Add a blue blocker       ║
║  2        - Add a blue painter       ║
║  X        - Remove the last ball     ║
║  C        - Clear the world          ║
║  W        - Toggle wind              ║
║  Tab      - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Launch builds an experiment for cfg whose world draws into a fresh
// renderer and wraps it in a Model.
func Launch(cfg experiment.Config, opts Options, log *zap.Logger) (Model, error) {
	renderer := NewRenderer(opts.Width, opts.Height)
	exp := experiment.New(cfg, log)
	if err := exp.Setup(sim.WithRenderer(renderer)); err != nil {
		return Model{}, err
	}
	if opts.Scene == "" && cfg.Scene != nil {
		opts.Scene = cfg.Scene.Name
	}
	return NewModel(exp, renderer, opts), nil
}

// RunLive runs the model full screen until the user quits.
func RunLive(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
