package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/RussAbbott/cubesat/internal/sat"
	"github.com/RussAbbott/cubesat/internal/sim"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives a simulator one tick per frame and renders the bodies.
type Model struct {
	sim        *sim.Simulator
	scenario   string
	fps        int
	running    bool
	err        error
	separation []float64
	chaserID   string
	targetID   string
}

func NewModel(s *sim.Simulator, scenario string, fps int) Model {
	if fps <= 0 {
		fps = 30
	}

	m := Model{
		sim:        s,
		scenario:   scenario,
		fps:        fps,
		running:    true,
		separation: make([]float64, 0, historyCapacity),
	}

	// Chart the first tracking pair, if the scenario has one.
	for _, b := range s.Bodies() {
		if b.TargetID != "" {
			m.chaserID = b.ID
			m.targetID = b.TargetID
			break
		}
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running {
				m.advance()
			}
		}
	case TickMsg:
		if m.running && !m.sim.Status().Terminal() {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	if m.sim.Status().Terminal() {
		return
	}
	if err := m.sim.Step(); err != nil {
		m.err = err
	}
	m.recordSeparation()
}

func (m *Model) recordSeparation() {
	if m.chaserID == "" {
		return
	}
	var chaser, target *sat.Body
	for _, b := range m.sim.Bodies() {
		switch b.ID {
		case m.chaserID:
			chaser = b
		case m.targetID:
			target = b
		}
	}
	if chaser == nil || target == nil {
		return
	}

	d := chaser.State.Position.Sub(target.State.Position).Norm()
	m.separation = append(m.separation, d)
	if len(m.separation) > historyCapacity {
		m.separation = m.separation[1:]
	}
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenario)) + "\n")

	status := m.sim.Status().String()
	if !m.running && !m.sim.Status().Terminal() {
		status = "paused"
	}
	s.WriteString(statusStyle.Render(strings.ToUpper(status)))
	s.WriteString(fmt.Sprintf("  tick %d  t=%.1fs\n\n", m.sim.Tick(), m.sim.Now()))

	panels := make([]string, 0, len(m.sim.Bodies()))
	for _, b := range m.sim.Bodies() {
		panels = append(panels, panelStyle.Render(bodyPanel(b)))
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...) + "\n")

	if len(m.separation) > 1 {
		chart := asciigraph.Plot(m.separation,
			asciigraph.Height(5), asciigraph.Width(50),
			asciigraph.Caption(fmt.Sprintf("%s-%s separation (m)", m.chaserID, m.targetID)))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString(alertStyle.Render("error: "+m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("space pause · s step · q quit"))
	return s.String()
}

func bodyPanel(b *sat.Body) string {
	var p strings.Builder
	p.WriteString(headerStyle.Render(b.ID) + "\n")
	p.WriteString(labelStyle.Render("variant") + valueStyle.Render(b.Variant.String()) + "\n")
	p.WriteString(labelStyle.Render("pos km") + valueStyle.Render(fmt.Sprintf("%.1f %.1f %.1f",
		b.State.Position.X/1e3, b.State.Position.Y/1e3, b.State.Position.Z/1e3)) + "\n")
	p.WriteString(labelStyle.Render("vel m/s") + valueStyle.Render(fmt.Sprintf("%.1f %.1f %.1f",
		b.State.Velocity.X, b.State.Velocity.Y, b.State.Velocity.Z)) + "\n")
	p.WriteString(labelStyle.Render("att") + valueStyle.Render(fmt.Sprintf("%.3f %.3f %.3f %.3f",
		b.State.Attitude.W, b.State.Attitude.X, b.State.Attitude.Y, b.State.Attitude.Z)) + "\n")
	p.WriteString(labelStyle.Render("rate") + valueStyle.Render(fmt.Sprintf("%.4f %.4f %.4f",
		b.State.AngularVelocity.X, b.State.AngularVelocity.Y, b.State.AngularVelocity.Z)))
	return p.String()
}

// Run blocks until the user quits the live view.
func Run(s *sim.Simulator, scenario string, fps int) error {
	p := tea.NewProgram(NewModel(s, scenario, fps))
	_, err := p.Run()
	return err
}
