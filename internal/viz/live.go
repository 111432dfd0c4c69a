// Package viz renders the simulation as a braille-canvas terminal UI.
package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/physics"
	"github.com/san-kum/particlebox/internal/sim"
	"github.com/san-kum/particlebox/internal/world"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model holds the running world plus the UI buffers around it.
type Model struct {
	cfg       *config.Config
	world     *world.World
	simulator *sim.Simulator
	t         float64
	canvas    *Canvas
	running   bool

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	energyHistory []float64
	showVectors   bool
}

// NewModel seeds a world from cfg and wires the simulator for live
// stepping. Parameter edits in the UI rebuild the stepper in place.
func NewModel(cfg *config.Config) (Model, error) {
	w, err := world.New(world.SeedConfig{
		Count:    cfg.Particles,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Radius:   cfg.Radius,
		MaxSpeed: cfg.MaxSpeed,
		Seed:     cfg.Seed,
	})
	if err != nil {
		return Model{}, err
	}

	params := map[string]float64{
		"gravity":     cfg.Gravity,
		"restitution": cfg.Restitution,
	}
	keys := make([]string, 0, len(params))
	initialParams := make(map[string]float64)
	for k, v := range params {
		keys = append(keys, k)
		if v == 0 {
			v = 1e-6
		}
		initialParams[k] = v
	}
	sort.Strings(keys)

	m := Model{
		cfg:           cfg,
		world:         w,
		t:             0,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		running:       true,
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
		energyHistory: make([]float64, 0, historyCapacity),
	}
	if err := m.rebuildSim(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) rebuildSim() error {
	stepper, err := physics.NewStepper(m.cfg.Stepper, m.params["gravity"], m.params["restitution"])
	if err != nil {
		return err
	}
	resolver := &physics.Resolver{
		Restitution:       m.params["restitution"],
		CorrectionPercent: m.cfg.CorrectionPercent,
		Slop:              m.cfg.CorrectionSlop,
	}
	m.simulator = sim.New(stepper, resolver)
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "v":
			m.showVectors = !m.showVectors
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		return m, tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if key == "restitution" && val > 1 {
		val = 1
	}
	m.params[key] = val
	m.rebuildSim()
}

// step advances the world by one display frame at the physics dt.
func (m *Model) step() {
	remaining := 1.0 / float64(m.cfg.FPS)
	for remaining > 0 {
		dt := math.Min(remaining, m.cfg.Dt)
		m.simulator.Advance(m.world, dt)
		m.t += dt
		remaining -= dt
	}

	m.energyHistory = append(m.energyHistory, m.world.KineticEnergy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// reset reseeds the world from the original configuration.
func (m *Model) reset() {
	w, err := world.New(world.SeedConfig{
		Count:    m.cfg.Particles,
		Width:    m.cfg.Width,
		Height:   m.cfg.Height,
		Radius:   m.cfg.Radius,
		MaxSpeed: m.cfg.MaxSpeed,
		Seed:     m.cfg.Seed,
	})
	if err != nil {
		return
	}
	m.world = w
	m.t = 0
	m.energyHistory = m.energyHistory[:0]
	m.params["gravity"] = m.cfg.Gravity
	m.params["restitution"] = m.cfg.Restitution
	m.rebuildSim()
}

// draw rasterizes the world into the braille canvas.
func (m *Model) draw() {
	m.canvas.Clear()

	cw := m.canvas.Width * 2
	ch := m.canvas.Height * 4
	sx := float64(cw-1) / m.cfg.Width
	sy := float64(ch-1) / m.cfg.Height

	// Box walls.
	m.canvas.DrawLine(0, 0, cw-1, 0)
	m.canvas.DrawLine(0, ch-1, cw-1, ch-1)
	m.canvas.DrawLine(0, 0, 0, ch-1)
	m.canvas.DrawLine(cw-1, 0, cw-1, ch-1)

	for i := range m.world.Particles {
		p := &m.world.Particles[i]
		px := int(p.Pos.X * sx)
		py := int(p.Pos.Y * sy)
		r := int(p.Radius * sy)
		if r < 1 {
			r = 1
		}
		m.canvas.FillCircle(px, py, r)

		if m.showVectors {
			tip := p.Pos.Add(p.Vel.Scale(0.15))
			m.canvas.DrawLine(px, py, int(tip.X*sx), int(tip.Y*sy))
		}
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("PARTICLEBOX") + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s\n\n", status))

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	energy := 0.0
	if len(m.energyHistory) > 0 {
		energy = m.energyHistory[len(m.energyHistory)-1]
	}
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.2f", energy)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", len(m.world.Particles))) + "\n")
	s.WriteString(labelStyle.Render("Stepper") + valueStyle.Render(m.cfg.Stepper) + "\n")

	s.WriteString("\nPARAMETERS\n")
	for i, k := range m.paramKeys {
		val, initial := m.params[k], m.initialParams[k]
		barWidth, ratio := 10, val/(2.0*initial)
		if ratio > 1 {
			ratio = 1
		} else if ratio < 0 {
			ratio = 0
		}
		filled := int(ratio * float64(barWidth))
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
		line := fmt.Sprintf("%-12s %s %.2f", k, bar, val)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nV:Vectors Tab:Select ↑↓:Tune"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run starts the live terminal view and blocks until the user quits.
func Run(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
