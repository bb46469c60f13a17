package viz

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/config"
	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/experiment"
	"github.com/san-kum/flightsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 200
	frameRate       = 60
	throttleStep    = 0.05
)

// Snapshot stores one frame for replay.
type Snapshot struct {
	Sample    sim.Sample
	Telemetry aircraft.Telemetry
}

type TickMsg time.Time

// Model is the live flight view.
type Model struct {
	cfg       *config.Config
	reg       *experiment.Registry
	airplane  *aircraft.Airplane
	autopilot *control.Autothrottle // nil when disengaged
	frame     *Wireframe
	camera    *Camera
	canvas    *Canvas
	theme     Theme
	t         float64
	steps     int // physics frames per tick
	running   bool
	err       error
	trail     []mgl64.Vec3
	altitude  []float64
	airspeed  []float64
	history   []Snapshot
	playHead  int
	recorder  *Recorder
	recording bool
	gifPath   string
	showHelp  bool
	ticks     int
}

// NewModel builds the airplane described by cfg.
func NewModel(cfg *config.Config, reg *experiment.Registry) (Model, error) {
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}

	m := Model{
		cfg:      cfg,
		reg:      reg,
		camera:   NewCamera(),
		canvas:   NewCanvas(width, height),
		theme:    ThemeHUD,
		steps:    max(1, int(math.Round(1/(frameRate*cfg.Dt)))),
		running:  true,
		playHead: -1,
		recorder: NewRecorder(),
		gifPath:  "flight.gif",
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Airplane() *aircraft.Airplane { return m.airplane }
func (m Model) Time() float64                { return m.t }
func (m Model) Running() bool                { return m.running }
func (m Model) Err() error                   { return m.err }

func (m *Model) SetTheme(name string) { m.theme = GetTheme(name) }
func (m *Model) SetGIFPath(p string)  { m.gifPath = p }
func (m *Model) SetCamera(mode string) {
	for _, c := range []CameraMode{ChaseCamera, SideCamera, TopCamera} {
		if c.String() == mode {
			m.camera.SetMode(c)
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input and advances the flight.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "up", "k":
			m.adjustThrottle(throttleStep)
		case "down", "j":
			m.adjustThrottle(-throttleStep)
		case "c":
			m.camera.NextMode()
		case "left", "h":
			m.camera.OrbitBy(-0.1)
		case "right", "l":
			m.camera.OrbitBy(0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "t":
			m.theme = NextTheme(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.ticks++
		if m.running {
			if m.playHead == -1 {
				m.advance()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recording {
			m.recorder.Capture(m.canvas, toRGBA(m.theme.Primary))
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) reset() error {
	a, err := experiment.BuildAirplane(m.cfg, m.reg)
	if err != nil {
		return err
	}
	m.airplane = a
	m.autopilot = experiment.NewAutothrottle(m.cfg, a)
	m.frame = AirplaneWireframe(a.Wings())
	m.t = 0
	m.err = nil
	m.trail = m.trail[:0]
	m.altitude = m.altitude[:0]
	m.airspeed = m.airspeed[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.record()
	return nil
}

// advance runs one tick's worth of physics frames. An invalid state
// freezes the view.
func (m *Model) advance() {
	if m.err != nil {
		return
	}
	body := m.airplane.Body()
	for i := 0; i < m.steps; i++ {
		if m.autopilot != nil {
			m.autopilot.OnStep(sim.SampleOf(m.t, body))
		}
		m.airplane.Update(m.cfg.Dt)
		m.t += m.cfg.Dt
		if !body.IsValid() {
			m.err = sim.SimError{Time: m.t, Step: int(math.Round(m.t / m.cfg.Dt)), Message: "invalid state (NaN/Inf)"}
			m.running = false
			return
		}
	}
	m.record()
}

func (m *Model) record() {
	s := sim.SampleOf(m.t, m.airplane.Body())
	tel := m.airplane.Telemetry()

	m.trail = appendCapped(m.trail, s.Position, trailCapacity)
	m.altitude = appendCapped(m.altitude, tel.Altitude, historyCapacity)
	m.airspeed = appendCapped(m.airspeed, tel.Airspeed, historyCapacity)
	m.history = appendCapped(m.history, Snapshot{Sample: s, Telemetry: tel}, historyCapacity)
}

func appendCapped[T any](s []T, v T, capacity int) []T {
	s = append(s, v)
	if len(s) > capacity {
		s = s[1:]
	}
	return s
}

// adjustThrottle disengages the autothrottle.
func (m *Model) adjustThrottle(delta float64) {
	m.autopilot = nil
	e := m.airplane.Engine()
	e.SetThrottle(e.Throttle + delta)
}

// scrub moves the replay head, pausing live flight on first use.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recorder.Reset()
		m.recording = true
		return
	}
	m.recording = false
	if m.recorder.Len() == 0 {
		return
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := m.recorder.Encode(f); err != nil {
		m.err = err
	}
}

// current is the snapshot being shown, live or replayed.
func (m *Model) current() Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.history[len(m.history)-1]
}

func (m *Model) draw() {
	m.canvas.Clear()
	snap := m.current()
	pose := snap.Sample.Pose()
	view := m.camera.View(pose)

	Render3D(m.canvas, GroundGrid(pose.Position, 50, 8), m.camera, view)

	trail := NewWireframe()
	for _, p := range m.trail {
		trail.AddPoint(p)
	}
	Render3D(m.canvas, trail, m.camera, view)
	Render3D(m.canvas, m.frame.Transformed(pose.Transform()), m.camera, view)
}

// View renders the canvas next to the telemetry panel.
func (m Model) View() string {
	m.draw()
	snap := m.current()
	tel := snap.Telemetry

	primary := lipgloss.NewStyle().Foreground(m.theme.Primary)
	secondary := lipgloss.NewStyle().Foreground(m.theme.Secondary)

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(m.theme.Primary).Render(strings.ToUpper(m.cfg.Scenario)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.altitude) > 1 {
		chart := asciigraph.Plot(m.altitude, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Altitude (m)"))
		s.WriteString(graphStyle.Render(secondary.Render(chart)) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2f s", snap.Sample.Time))
	row("Altitude", fmt.Sprintf("%.1f m", tel.Altitude))
	row("Airspeed", fmt.Sprintf("%.1f m/s", tel.Airspeed))
	row("Climb", fmt.Sprintf("%+.1f m/s", tel.VerticalSpeed))
	row("AoA", fmt.Sprintf("%+.1f°", tel.AngleOfAttack))
	row("Heading", fmt.Sprintf("%.0f°", math.Mod(tel.Heading+360, 360)))
	row("Pitch", fmt.Sprintf("%+.1f°", tel.Pitch))
	row("Bank", fmt.Sprintf("%+.1f°", tel.Bank))
	row("Throttle", ProgressBar(tel.Throttle, 16)+fmt.Sprintf(" %3.0f%%", tel.Throttle*100))
	if m.autopilot != nil {
		row("A/T", fmt.Sprintf("hold %.0f m/s", m.autopilot.Target))
	}
	row("Speed", SparklineChart(m.airspeed, 24))
	row("Camera", m.camera.Mode.String())

	s.WriteString(helpStyle.Render(Separator(36) + "\nSP:Pause R:Reset Q:Quit ↑↓:Throttle\nC:Camera ←→:Orbit +/-:Zoom T:Theme\n[ ]:Replay G:Record ?:Help"))

	canvasView := canvasStyle.Render(primary.Render(m.canvas.String()))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("ERROR: " + m.err.Error())
	case m.playHead != -1:
		offset := m.history[m.playHead].Sample.Time - m.history[len(m.history)-1].Sample.Time
		if m.running {
			return StatusPaused.Render(fmt.Sprintf("REPLAYING (%.1fs)", offset))
		}
		return StatusPaused.Render(fmt.Sprintf("REPLAY PAUSED (%.1fs)", offset))
	case !m.running:
		return StatusPaused.Render("PAUSED")
	case m.recording:
		return StatusFailed.Render(AnimatedSpinner(m.ticks) + " RECORDING")
	default:
		return StatusRunning.Render(AnimatedSpinner(m.ticks) + " FLYING")
	}
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset flight             ║
║  Q        - Quit                     ║
║  Up/K     - Throttle up (+5%)        ║
║  Down/J   - Throttle down (-5%)      ║
║  C        - Cycle camera             ║
║  Left/H   - Orbit camera left        ║
║  Right/L  - Orbit camera right       ║
║  +/-      - Zoom                     ║
║  [ / ]    - Replay back / forward    ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func toRGBA(c lipgloss.Color) color.Color {
	r, g, b := parseHex(string(c))
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}

// RunLive opens the live view full screen.
func RunLive(cfg *config.Config, reg *experiment.Registry, opts ...func(*Model)) error {
	m, err := NewModel(cfg, reg)
	if err != nil {
		return err
	}
	for _, opt := range opts {
		opt(&m)
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
