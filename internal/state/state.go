// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventIngress         EventType = "INGRESS"
	EventStation         EventType = "STATION"
	EventAspectFormed    EventType = "ASPECT_FORMED"
	EventAspectBroken    EventType = "ASPECT_BROKEN"
	EventRenderFailed    EventType = "RENDER_FAILED"
	EventSettingsChanged EventType = "SETTINGS_CHANGED"
)

// Event represents a change between two consecutive charts.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	ChartTime time.Time `json:"chart_time"`
	Body      string    `json:"body,omitempty"`
	Other     string    `json:"other,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// aspectKey uniquely identifies an aspect edge.
type aspectKey struct {
	a, b zodiac.Body
	kind zodiac.AspectKind
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	settings config.Settings

	// Current chart
	current        *chart.Chart
	lastRender     time.Time
	lastError      error
	renderDuration time.Duration
	renders        int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{MaxEvents: 50}
}

// NewManager creates a new state manager holding the given settings.
func NewManager(cfg Config, settings config.Settings) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		settings:  settings,
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
}

// Settings returns the current settings.
func (m *Manager) Settings() config.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// SetSettings replaces the current settings.
func (m *Manager) SetSettings(s config.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == m.settings {
		return
	}
	m.settings = s
	m.addEvent(Event{Type: EventSettingsChanged, Timestamp: time.Now()})
}

// Update records a render result. A failed render keeps the previous
// chart.
func (m *Manager) Update(ch *chart.Chart, renderDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastRender = time.Now()
	m.lastError = err
	m.renderDuration = renderDuration

	if err != nil {
		m.addEvent(Event{Type: EventRenderFailed, Timestamp: m.lastRender, Detail: err.Error()})
		return
	}
	if ch == nil {
		return
	}

	m.detectEvents(ch)
	m.current = ch
	m.renders++
}

// detectEvents compares a new chart with the current one.
func (m *Manager) detectEvents(next *chart.Chart) {
	prev := m.current
	if prev == nil {
		return
	}
	now := time.Now()
	when := next.Request.Time

	for _, b := range zodiac.Bodies() {
		was, is := prev.Planets[b], next.Planets[b]

		oldSign, err1 := zodiac.SignOf(was.Longitude)
		newSign, err2 := zodiac.SignOf(is.Longitude)
		if err1 == nil && err2 == nil && oldSign != newSign {
			m.addEvent(Event{
				Type:      EventIngress,
				Timestamp: now,
				ChartTime: when,
				Body:      b.String(),
				Detail:    newSign.String(),
			})
		}

		if was.Retrograde() != is.Retrograde() {
			detail := "direct"
			if is.Retrograde() {
				detail = "retrograde"
			}
			m.addEvent(Event{
				Type:      EventStation,
				Timestamp: now,
				ChartTime: when,
				Body:      b.String(),
				Detail:    detail,
			})
		}
	}

	prevAspects := make(map[aspectKey]bool, len(prev.Aspects))
	for _, a := range prev.Aspects {
		prevAspects[aspectKey{a.A, a.B, a.Kind}] = true
	}
	nextAspects := make(map[aspectKey]bool, len(next.Aspects))
	for _, a := range next.Aspects {
		key := aspectKey{a.A, a.B, a.Kind}
		nextAspects[key] = true
		if !prevAspects[key] {
			m.addEvent(aspectEvent(EventAspectFormed, key, now, when))
		}
	}
	for _, a := range prev.Aspects {
		key := aspectKey{a.A, a.B, a.Kind}
		if !nextAspects[key] {
			m.addEvent(aspectEvent(EventAspectBroken, key, now, when))
		}
	}
}

func aspectEvent(t EventType, key aspectKey, now, when time.Time) Event {
	return Event{
		Type:      t,
		Timestamp: now,
		ChartTime: when,
		Body:      key.a.String(),
		Other:     key.b.String(),
		Detail:    key.kind.String(),
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Chart          *chart.Chart
	Settings       config.Settings
	LastRender     time.Time
	LastError      error
	RenderDuration time.Duration
	Renders        int
	Events         []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Chart:          m.current,
		Settings:       m.settings,
		LastRender:     m.lastRender,
		LastError:      m.lastError,
		RenderDuration: m.renderDuration,
		Renders:        m.renders,
		Events:         m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// HasChart returns true once a render has succeeded.
func (m *Manager) HasChart() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
