// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/render"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewChart ViewMode = iota
	ViewPositions
	ViewEvents
	numViews
)

// Step sizes for the editing keys.
const (
	LatStep = 0.5
	LonStep = 0.5
)

// Msg types for Bubble Tea
type (
	// AnimTickMsg drives the status spinner.
	AnimTickMsg time.Time

	// LiveTickMsg moves a live chart to the current time.
	LiveTickMsg time.Time

	// RenderedMsg carries the result of an asynchronous render.
	RenderedMsg struct {
		Seq      int
		Chart    *chart.Chart
		Err      error
		Duration time.Duration
	}

	// ConfigChangedMsg signals the config file was edited.
	ConfigChangedMsg struct {
		Settings config.Settings
		Err      error
	}

	// savedMsg reports the outcome of a settings save.
	savedMsg struct {
		path string
		err  error
	}
)

// Options wires optional collaborators into the model.
type Options struct {
	// SavePath is where settings are written on save and reset.
	SavePath string
	// ConfigChanges delivers config file change notifications.
	ConfigChanges <-chan struct{}
	// Reload reads settings after a change notification.
	Reload func() (config.Settings, error)
	Log    *logging.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state    *state.Manager
	provider ephem.Provider
	opts     Options

	// Chart input being edited
	when time.Time
	obs  astro.Observer
	live bool // follow the wall clock

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int
	rendering bool
	seq       int

	// Sub-models
	chartView ChartViewModel
	positions PositionsModel

	// Data snapshot
	snapshot state.Snapshot
}

// New creates a new root UI model. The chart starts at the configured
// date, or follows the clock when none is set.
func New(stateMgr *state.Manager, provider ephem.Provider, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}

	settings := stateMgr.Settings()
	when, err := settings.Time(opts.Now())
	if err != nil {
		when = opts.Now().UTC()
	}

	glyphs := render.ParseGlyphSet(settings.Glyphs)
	return Model{
		state:     stateMgr,
		provider:  provider,
		opts:      opts,
		when:      when,
		obs:       settings.Observer(),
		live:      settings.Date == "",
		chartView: NewChartViewModel(glyphs),
		positions: NewPositionsModel(glyphs),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{animTickCmd()}
	if m.live {
		cmds = append(cmds, liveTickCmd())
	}
	if m.opts.ConfigChanges != nil && m.opts.Reload != nil {
		cmds = append(cmds, waitForConfigChange(m.opts.ConfigChanges, m.opts.Reload))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
		cmds = append(cmds, m.updateActiveView(msg))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		first := !m.ready
		m.ready = true

		// Header takes 4 lines, footer 2
		contentHeight := msg.Height - 6
		m.chartView = m.chartView.SetSize(msg.Width, contentHeight)
		m.positions = m.positions.SetSize(msg.Width, contentHeight)
		if first {
			cmds = append(cmds, m.render())
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case LiveTickMsg:
		if m.live {
			m.when = time.Time(msg).UTC().Truncate(time.Minute)
			cmds = append(cmds, liveTickCmd(), m.render())
		}

	case RenderedMsg:
		// a newer render is in flight
		if msg.Seq != m.seq {
			break
		}
		m.rendering = false
		m.state.Update(msg.Chart, msg.Duration, msg.Err)
		m.snapshot = m.state.Snapshot()
		if msg.Err != nil {
			m.opts.Log.Warn("render failed: %v", msg.Err)
			break
		}
		m.chartView = m.chartView.UpdateData(msg.Chart)
		m.positions = m.positions.UpdateData(msg.Chart)

	case ConfigChangedMsg:
		cmds = append(cmds, waitForConfigChange(m.opts.ConfigChanges, m.opts.Reload))
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Config reload failed: %v", msg.Err)
			break
		}
		m.applySettings(msg.Settings)
		m.statusMsg = "Config reloaded"
		cmds = append(cmds, m.render())

	case savedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Save failed: %v", msg.err)
		} else {
			m.statusMsg = "Saved " + msg.path
		}

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes global keys. It reports whether the key was used.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit, true

	case "1", "c":
		m.viewMode = ViewChart
	case "2", "p":
		m.viewMode = ViewPositions
	case "3", "e":
		m.viewMode = ViewEvents
	case "tab":
		m.viewMode = (m.viewMode + 1) % numViews

	case "+", "=":
		return m.shiftTime(time.Minute), true
	case "-", "_":
		return m.shiftTime(-time.Minute), true
	case "right":
		return m.shiftTime(time.Hour), true
	case "left":
		return m.shiftTime(-time.Hour), true
	case "up":
		return m.shiftTime(24 * time.Hour), true
	case "down":
		return m.shiftTime(-24 * time.Hour), true

	case "w":
		return m.nudge(LatStep, 0), true
	case "s":
		return m.nudge(-LatStep, 0), true
	case "d":
		return m.nudge(0, LonStep), true
	case "a":
		return m.nudge(0, -LonStep), true

	case "n":
		m.when = m.opts.Now().UTC()
		m.statusMsg = "Now"
		return m.render(), true
	case "l":
		m.live = !m.live
		if !m.live {
			m.statusMsg = "Live mode off"
			return nil, true
		}
		m.when = m.opts.Now().UTC()
		m.statusMsg = "Live mode on"
		return tea.Batch(liveTickCmd(), m.render()), true

	case "g":
		glyphs := render.FontGlyphs()
		if m.chartView.glyphs.Name == glyphs.Name {
			glyphs = render.UnicodeGlyphs()
		}
		m.chartView = m.chartView.SetGlyphs(glyphs)
		m.positions = m.positions.SetGlyphs(glyphs)
		m.statusMsg = "Glyphs: " + glyphs.Name

	case "r":
		m.applySettings(config.Defaults())
		m.statusMsg = "Defaults restored"
		return m.render(), true

	case "ctrl+s", "S":
		return m.save(), true

	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.viewMode == ViewPositions {
		m.positions, cmd = m.positions.Update(msg)
	}
	return cmd
}

// shiftTime moves the chart time and leaves live mode.
func (m *Model) shiftTime(d time.Duration) tea.Cmd {
	m.live = false
	m.when = m.when.Add(d)
	return m.render()
}

// nudge moves the observer, clamping to valid coordinates.
func (m *Model) nudge(dLat, dLon float64) tea.Cmd {
	m.obs.LatDeg = clamp(m.obs.LatDeg+dLat, -90, 90)
	m.obs.LonDeg = clamp(m.obs.LonDeg+dLon, -180, 180)
	return m.render()
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

// applySettings adopts new settings as the chart input.
func (m *Model) applySettings(s config.Settings) {
	m.state.SetSettings(s)
	if when, err := s.Time(m.opts.Now()); err == nil {
		m.when = when
	}
	m.live = s.Date == ""
	m.obs = s.Observer()
	glyphs := render.ParseGlyphSet(s.Glyphs)
	m.chartView = m.chartView.SetGlyphs(glyphs)
	m.positions = m.positions.SetGlyphs(glyphs)
}

// currentSettings returns the stored settings with the edited chart
// input applied.
func (m Model) currentSettings() config.Settings {
	s := m.state.Settings()
	s.Date = m.when.UTC().Format(time.RFC3339)
	if m.live {
		s.Date = ""
	}
	s.Lat = m.obs.LatDeg
	s.Lon = m.obs.LonDeg
	s.Glyphs = m.chartView.glyphs.Name
	return s
}

// render starts an asynchronous render of the current input.
func (m *Model) render() tea.Cmd {
	m.seq++
	m.rendering = true

	settings := m.state.Settings()
	dims := m.chartView.Dimensions()
	req := chart.Request{Time: m.when, Observer: m.obs}
	return renderCmd(m.provider, m.seq, req, dims, settings.Theme())
}

func renderCmd(p ephem.Provider, seq int, req chart.Request, dims chart.Dimensions, theme chart.Theme) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ch, err := chart.Render(p, req, dims, theme)
		msg := RenderedMsg{Seq: seq, Err: err, Duration: time.Since(start)}
		if err == nil {
			msg.Chart = &ch
		}
		return msg
	}
}

func (m Model) save() tea.Cmd {
	path := m.opts.SavePath
	s := m.currentSettings()
	return func() tea.Msg {
		if path == "" {
			return savedMsg{err: fmt.Errorf("no config path")}
		}
		return savedMsg{path: path, err: config.Save(path, s)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewChart:
		content = m.chartView.View()
	case ViewPositions:
		content = m.positions.View()
	case ViewEvents:
		content = m.renderEvents()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("  ")
	title := "ls-natal"
	runes := []rune(title)
	for i, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(i, len(runes)))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Natal chart · v%s · %s", version.Version, m.provider.Name())))
	b.WriteString("\n")

	info := lipgloss.NewStyle().Foreground(lipgloss.Color("135"))
	live := ""
	if m.live {
		live = "  [live]"
	}
	b.WriteString("  " + info.Render(fmt.Sprintf("%s  %s%s",
		m.when.UTC().Format("2006-01-02 15:04 MST"), m.obs, live)))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	return b.String()
}

// gradientColor returns a hex colour along the title gradient:
// blue, purple, magenta, pink.
func gradientColor(col, width int) string {
	x := float64(col) / float64(max(width-1, 1))

	var r, g, b float64
	switch {
	case x < 0.33:
		t := x / 0.33
		r, g, b = 59+t*(139-59), 130+t*(92-130), 246
	case x < 0.66:
		t := (x - 0.33) / 0.33
		r, g, b = 139+t*(217-139), 92+t*(70-92), 246+t*(239-246)
	default:
		t := min((x-0.66)/0.34, 1)
		r, g, b = 217+t*(236-217), 70+t*(72-70), 239+t*(153-239)
	}
	return fmt.Sprintf("#%02X%02X%02X", int(math.Round(r)), int(math.Round(g)), int(math.Round(b)))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Chart", "[2] Positions", "[3] Events"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderEvents() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	typeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)

	limit := max(m.height-8, 1)
	events := m.state.RecentEvents(limit)
	if len(events) == 0 {
		return "\n  " + dimStyle.Render("No events yet. Step the chart through time to see ingresses, stations and aspects.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		when := dimStyle.Render(e.ChartTime.UTC().Format("2006-01-02 15:04"))
		if e.ChartTime.IsZero() {
			when = dimStyle.Render(e.Timestamp.Format("15:04:05") + "      ")
		}
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n", when, typeStyle.Render(fmt.Sprintf("%-16s", e.Type)), describeEvent(e)))
	}
	return b.String()
}

func describeEvent(e state.Event) string {
	switch e.Type {
	case state.EventIngress:
		return fmt.Sprintf("%s enters %s", e.Body, e.Detail)
	case state.EventStation:
		return fmt.Sprintf("%s turns %s", e.Body, e.Detail)
	case state.EventAspectFormed, state.EventAspectBroken:
		return fmt.Sprintf("%s %s %s", e.Body, e.Detail, e.Other)
	case state.EventRenderFailed:
		return e.Detail
	default:
		return strings.ToLower(string(e.Type))
	}
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.rendering:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Rendering...")
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.snapshot.RenderDuration > 0:
		status = dimStyle.Render("rendered in " + m.snapshot.RenderDuration.Round(time.Microsecond).String())
	default:
		status = dimStyle.Render("ready")
	}

	help := dimStyle.Render("+/-: min | ←/→: hour | ↑/↓: day | w/s a/d: move | n: now | l: live | g: glyphs | r: reset | S: save | q: quit")
	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	pos := m.animTick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

func liveTickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return LiveTickMsg(t)
	})
}

// waitForConfigChange blocks until the watcher reports a change, then
// reloads settings.
func waitForConfigChange(changes <-chan struct{}, reload func() (config.Settings, error)) tea.Cmd {
	if changes == nil || reload == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		s, err := reload()
		return ConfigChangedMsg{Settings: s, Err: err}
	}
}
