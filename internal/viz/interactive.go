package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/parched/internal/experiment"
	"github.com/san-kum/parched/internal/scene"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	keyHint = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// tunable is one world parameter exposed on the config screen.
type tunable struct {
	name     string
	step     float64
	min, max float64
	get      func(*experiment.Config) float64
	set      func(*experiment.Config, float64)
}

var tunables = []tunable{
	{"sub_steps", 1, 1, 16,
		func(c *experiment.Config) float64 { return float64(c.World.SubSteps) },
		func(c *experiment.Config, v float64) { c.World.SubSteps = int(v) }},
	{"correction", 0.05, 0.05, 1,
		func(c *experiment.Config) float64 { return float64(c.World.Correction) },
		func(c *experiment.Config, v float64) { c.World.Correction = float32(v) }},
	{"gravity", 0.1, -5, 5,
		func(c *experiment.Config) float64 { return float64(c.World.Gravity.Y()) },
		func(c *experiment.Config, v float64) { c.World.Gravity[1] = float32(v) }},
	{"seed", 1, 0, 1 << 30,
		func(c *experiment.Config) float64 { return float64(c.Seed) },
		func(c *experiment.Config, v float64) { c.Seed = int64(v) }},
}

type app struct {
	state, cursor int
	scenes        []string
	selected      string
	paramCursor   int

	base experiment.Config
	opts Options
	log  *zap.Logger
	err  error
	live Model
}

// NewInteractiveApp returns a scene picker that launches the live view.
// base supplies everything but the scene.
func NewInteractiveApp(base experiment.Config, opts Options, log *zap.Logger) tea.Model {
	return &app{
		state:  stateMenu,
		scenes: scene.List(),
		base:   base,
		opts:   opts,
		log:    log,
	}
}

func (m *app) Init() tea.Cmd { return nil }

func (m *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			return m.forward(msg)
		}
	}
	return m, nil
}

func (m *app) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.live.Update(msg)
	m.live = next.(Model)
	return m, cmd
}

func (m *app) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		return m.forward(msg)
	}
	return m, nil
}

func (m *app) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenes)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.scenes[m.cursor]
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m *app) configKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := tunables[m.paramCursor]
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(tunables)-1 {
			m.paramCursor++
		}
	case "left", "h":
		t.set(&m.base, max(t.min, t.get(&m.base)-t.step))
	case "right", "l":
		t.set(&m.base, min(t.max, t.get(&m.base)+t.step))
	case "enter", "s":
		return m, m.start()
	}
	return m, nil
}

func (m *app) start() tea.Cmd {
	cfg := m.base
	cfg.Scene = scene.Get(m.selected)
	opts := m.opts
	opts.Scene = m.selected

	live, err := Launch(cfg, opts, m.log)
	if err != nil {
		m.err = err
		return nil
	}
	m.live = live
	m.state = stateSim
	return m.live.Init()
}

func (m *app) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func (m *app) banner(title, subtitle string) string {
	h := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	return "\n\n    " + h.Render(title) + "\n    " + sub.Render(subtitle) + "\n    " + sub.Render("─────────────────────────") + "\n\n"
}

func hints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyHint.Render(pairs[i]) + dim.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (m *app) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.banner("PARCHED", "verlet ball sandbox"))
	for i, name := range m.scenes {
		desc := ""
		if s := scene.Get(name); s != nil {
			desc = s.Description
		}
		if len(desc) > 32 {
			desc = desc[:29] + "..."
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cyan.Render("▸"), white.Render(fmt.Sprintf("%-12s", name)), magenta.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", dim.Render(fmt.Sprintf("  %-12s", name)), dimmer.Render(desc)))
		}
	}
	b.WriteString(hints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m *app) viewConfig() string {
	var b strings.Builder
	desc := ""
	if s := scene.Get(m.selected); s != nil {
		desc = s.Description
	}
	b.WriteString(m.banner(strings.ToUpper(m.selected), desc))
	for i, t := range tunables {
		val := fmt.Sprintf("%8.3f", t.get(&m.base))
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cyan.Render("▸"), white.Render(fmt.Sprintf("%-10s", t.name)), magenta.Bold(true).Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", dim.Render(fmt.Sprintf("  %-10s", t.name)), dimmer.Render(val)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	}
	b.WriteString(hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back"))
	return b.String()
}

// RunInteractive runs the scene picker full screen.
func RunInteractive(base experiment.Config, opts Options, log *zap.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(base, opts, log), tea.WithAltScreen()).Run()
	return err
}
