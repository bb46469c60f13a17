package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/flightsim/internal/config"
	"github.com/san-kum/flightsim/internal/experiment"
)

type appState int

const (
	stateMenu appState = iota
	stateParams
	stateFlight
)

// editableParams are offered in the setup screen.
var editableParams = []string{
	"airplane.mass",
	"airplane.throttle",
	"airplane.max_thrust",
	"airplane.attitude.pitch",
	"airplane.position.y",
	"airplane.velocity.x",
	"airplane.wind.x",
	"dt",
}

var paramSteps = map[string]float64{
	"airplane.mass":           100,
	"airplane.throttle":       0.05,
	"airplane.max_thrust":     500,
	"airplane.attitude.pitch": 1,
	"airplane.position.y":     100,
	"airplane.velocity.x":     5,
	"airplane.wind.x":         1,
	"dt":                      1.0 / 600,
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff66")).MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff66"))
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// App walks from scenario selection through parameter tweaks into the
// live view.
type App struct {
	reg       *experiment.Registry
	state     appState
	scenarios []string
	cursor    int
	cfg       *config.Config
	param     int
	flight    Model
	err       error
}

func NewApp(reg *experiment.Registry) App {
	return App{reg: reg, scenarios: reg.ListScenarios()}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.state {
	case stateMenu:
		return a.updateMenu(msg)
	case stateParams:
		return a.updateParams(msg)
	default:
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			a.state = stateParams
			return a, nil
		}
		m, cmd := a.flight.Update(msg)
		a.flight = m.(Model)
		return a, cmd
	}
}

func (a App) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch k.String() {
	case "q", "ctrl+c", "esc":
		return a, tea.Quit
	case "up", "k":
		a.cursor = (a.cursor - 1 + len(a.scenarios)) % len(a.scenarios)
	case "down", "j":
		a.cursor = (a.cursor + 1) % len(a.scenarios)
	case "enter":
		cfg, err := a.reg.GetScenario(a.scenarios[a.cursor])
		if err != nil {
			a.err = err
			return a, nil
		}
		a.cfg = cfg
		a.param = 0
		a.err = nil
		a.state = stateParams
	}
	return a, nil
}

func (a App) updateParams(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	name := editableParams[a.param]
	switch k.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.state = stateMenu
	case "up", "k":
		a.param = (a.param - 1 + len(editableParams)) % len(editableParams)
	case "down", "j":
		a.param = (a.param + 1) % len(editableParams)
	case "left", "h":
		a.nudge(name, -paramSteps[name])
	case "right", "l":
		a.nudge(name, paramSteps[name])
	case "enter":
		m, err := NewModel(a.cfg, a.reg)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.err = nil
		a.flight = m
		a.state = stateFlight
		return a, m.Init()
	}
	return a, nil
}

// nudge keeps the previous value when the change would not validate.
func (a *App) nudge(name string, delta float64) {
	next := a.cfg.Clone()
	v, _ := next.GetParam(name)
	_ = next.SetParam(name, v+delta)
	if err := next.Validate(); err != nil {
		a.err = err
		return
	}
	a.err = nil
	a.cfg = next
}

func (a App) View() string {
	switch a.state {
	case stateMenu:
		return a.viewMenu()
	case stateParams:
		return a.viewParams()
	default:
		return a.flight.View() + "\n" + helpStyle.Render("ESC: back to setup")
	}
}

func (a App) viewMenu() string {
	var s strings.Builder
	s.WriteString(GradientText("FLIGHTSIM", ThemeHUD.Primary, ThemeDusk.Primary) + "\n\n")
	s.WriteString(titleStyle.Render("Select a scenario") + "\n")
	for i, name := range a.scenarios {
		if i == a.cursor {
			s.WriteString(selectedStyle.Render("▸ "+name) + "\n")
		} else {
			s.WriteString(itemStyle.Render("  "+name) + "\n")
		}
	}
	if a.err != nil {
		s.WriteString("\n" + StatusFailed.Render(a.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("↑↓: select  Enter: configure  Q: quit"))
	return s.String()
}

func (a App) viewParams() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Scenario: "+a.cfg.Scenario) + "\n")
	for i, name := range editableParams {
		v, _ := a.cfg.GetParam(name)
		line := fmt.Sprintf("%-26s %10.4g", name, v)
		if i == a.param {
			s.WriteString(selectedStyle.Render("▸ "+line) + "\n")
		} else {
			s.WriteString(itemStyle.Render("  "+line) + "\n")
		}
	}
	s.WriteString("\n" + labelStyle.Render("Airfoil") + valueStyle.Render(a.cfg.Airplane.Airfoil) + "\n")
	if a.err != nil {
		s.WriteString(StatusFailed.Render(a.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("↑↓: select  ←→: adjust  Enter: fly  Esc: back"))
	return s.String()
}

// RunInteractive starts the scenario picker.
func RunInteractive(reg *experiment.Registry) error {
	_, err := tea.NewProgram(NewApp(reg), tea.WithAltScreen()).Run()
	return err
}
