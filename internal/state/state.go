// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-sunclock/internal/timeline"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventSunrise       EventType = "SUNRISE"
	EventSunset        EventType = "SUNSET"
	EventDayTypeChange EventType = "DAYTYPE_CHANGE"
)

// Event is a solar transition observed between two updates.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location,omitempty"`
	OldType   string    `json:"old_type,omitempty"`
	NewType   string    `json:"new_type,omitempty"`
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current         *Reading
	lastUpdate      time.Time
	lastError       error
	computeDuration time.Duration

	// Roman minute length over time, in seconds
	minuteHistory []TimeSeries
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Configuration
	refreshInterval time.Duration

	// Shift applied to the wall clock when computing readings
	offset time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   720, // One hour at the default tick
		MaxEvents:       50,
		RefreshInterval: 5 * time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxHistoryLen:   cfg.MaxHistoryLen,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
}

// Update atomically replaces the current reading.
func (m *Manager) Update(r *Reading, computeDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastUpdate = time.Now()
	m.lastError = err
	m.computeDuration = computeDuration

	if r == nil {
		return
	}

	m.detectEvents(r)
	m.current = r

	m.minuteHistory = append(m.minuteHistory, TimeSeries{Timestamp: r.Time(), Value: r.Roman.MinuteLength})
	if m.maxHistoryLen > 0 && len(m.minuteHistory) > m.maxHistoryLen {
		m.minuteHistory = m.minuteHistory[1:]
	}
}

// detectEvents compares the new reading with the previous one. A change of
// observer or a jump backwards in time resets detection.
func (m *Manager) detectEvents(r *Reading) {
	prev := m.current
	if prev == nil || prev.Observer != r.Observer || r.Instant < prev.Instant {
		return
	}

	crossed := false
	if next := prev.Timeline.Next; next != nil && r.Instant >= next.Epoch {
		typ := EventSunrise
		if next.Kind == timeline.Sunset {
			typ = EventSunset
		}
		m.addEvent(Event{
			Type:      typ,
			Timestamp: time.UnixMilli(next.Epoch).UTC(),
			Location:  r.Observer.Name,
		})
		crossed = true
	}

	if !crossed && prev.Timeline.DayType != r.Timeline.DayType {
		m.addEvent(Event{
			Type:      EventDayTypeChange,
			Timestamp: r.Time(),
			Location:  r.Observer.Name,
			OldType:   prev.Timeline.DayType.String(),
			NewType:   r.Timeline.DayType.String(),
		})
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
	Reading         *Reading
	LastUpdate      time.Time
	LastError       error
	ComputeDuration time.Duration
	MinuteHistory   []TimeSeries
	Events          []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist := make([]TimeSeries, len(m.minuteHistory))
	copy(hist, m.minuteHistory)

	return Snapshot{
		Reading:         m.current,
		LastUpdate:      m.lastUpdate,
		LastError:       m.lastError,
		ComputeDuration: m.computeDuration,
		MinuteHistory:   hist,
		Events:          m.getEventsOrdered(),
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
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
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

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true if at least one reading has been stored.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// Offset returns the shift applied to the wall clock.
func (m *Manager) Offset() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.offset
}

// SetOffset replaces the wall clock shift. Zero means live.
func (m *Manager) SetOffset(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offset = d
}

// Now returns the wall clock shifted by the current offset.
func (m *Manager) Now() time.Time {
	return time.Now().Add(m.Offset())
}
