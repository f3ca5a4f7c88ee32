package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/render"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// PositionsModel lists bodies, houses and aspects as a table.
type PositionsModel struct {
	width  int
	height int
	scroll int
	glyphs render.GlyphSet
	chart  *chart.Chart
}

// NewPositionsModel creates a positions table.
func NewPositionsModel(glyphs render.GlyphSet) PositionsModel {
	return PositionsModel{glyphs: glyphs}
}

// SetSize updates the content area.
func (m PositionsModel) SetSize(width, height int) PositionsModel {
	m.width = width
	m.height = height
	return m
}

// SetGlyphs switches the glyph set.
func (m PositionsModel) SetGlyphs(g render.GlyphSet) PositionsModel {
	m.glyphs = g
	return m
}

// UpdateData swaps in a freshly rendered chart.
func (m PositionsModel) UpdateData(ch *chart.Chart) PositionsModel {
	m.chart = ch
	return m
}

// Update scrolls the table.
func (m PositionsModel) Update(msg tea.Msg) (PositionsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "pgdown", "j":
		m.scroll++
	case "pgup", "k":
		m.scroll--
	case "home":
		m.scroll = 0
	}
	m.scroll = max(0, min(m.scroll, len(m.lines())-1))
	return m, nil
}

// View renders the visible part of the table.
func (m PositionsModel) View() string {
	if m.chart == nil {
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
		return "\n  " + dimStyle.Render("Casting chart...")
	}
	lines := m.lines()
	start := min(m.scroll, len(lines))
	end := len(lines)
	if m.height > 0 {
		end = min(end, start+m.height)
	}
	return strings.Join(lines[start:end], "\n")
}

func (m PositionsModel) lines() []string {
	if m.chart == nil {
		return nil
	}
	ch := m.chart

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	retroStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27")).Bold(true)
	rule := "  " + dimStyle.Render(strings.Repeat("─", 60))

	var out []string
	out = append(out, "")
	out = append(out, "  "+headerStyle.Render(fmt.Sprintf("%-3s %-8s %-12s %10s  %-10s %s", "", "Body", "Position", "Speed", "Dignity", "R")))
	out = append(out, rule)
	for _, p := range ch.Planets {
		dig := ch.Dignities[p.Body]
		digStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ch.Theme.Dignities.For(dig)))
		retro := " "
		if p.Retrograde() {
			retro = retroStyle.Render(m.glyphs.Lookup(chart.GlyphRetrograde))
		}
		out = append(out, fmt.Sprintf("  %s %-8s %-12s %+9.4f°  %s %s",
			digStyle.Render(fmt.Sprintf("%-3s", m.glyphs.Lookup(chart.BodyGlyph(p.Body)))),
			p.Body,
			zodiac.FormatLongitude(p.Longitude),
			p.Speed,
			digStyle.Render(fmt.Sprintf("%-10s", dig)),
			retro))
	}

	out = append(out, "")
	out = append(out, "  "+headerStyle.Render(fmt.Sprintf("%-8s %-12s %-8s %-12s", "House", "Cusp", "House", "Cusp")))
	out = append(out, rule)
	for i := 0; i < 6; i++ {
		out = append(out, fmt.Sprintf("  %-8s %-12s %-8s %-12s",
			houseName(i), zodiac.FormatLongitude(ch.Houses[i]),
			houseName(i+6), zodiac.FormatLongitude(ch.Houses[i+6])))
	}

	sect := "night"
	if ch.DayChart {
		sect = "day"
	}
	pof := lipgloss.NewStyle().Foreground(lipgloss.Color(chart.PartOfFortuneColor))
	out = append(out, "")
	out = append(out, fmt.Sprintf("  %s Part of Fortune %s  %s",
		pof.Render(m.glyphs.Lookup(chart.GlyphPartOfFortune)),
		zodiac.FormatLongitude(ch.PartOfFortune),
		dimStyle.Render("("+sect+" chart)")))

	out = append(out, "")
	if len(ch.Aspects) == 0 {
		out = append(out, "  "+dimStyle.Render("No aspects"))
		return out
	}
	out = append(out, "  "+headerStyle.Render(fmt.Sprintf("Aspects (%d)", len(ch.Aspects))))
	out = append(out, rule)
	for _, a := range ch.Aspects {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(a.Color))
		out = append(out, fmt.Sprintf("  %-8s %s %s",
			a.A, style.Render(fmt.Sprintf("%-12s", a.Kind)), a.B))
	}
	return out
}

func houseName(i int) string {
	switch i {
	case 0:
		return "1 ASC"
	case 9:
		return "10 MC"
	default:
		return fmt.Sprintf("%d", i+1)
	}
}
