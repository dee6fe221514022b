package attempt

import (
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
)

var lastTimerID atomic.Int64

// TickMsg is delivered by a Timer. Hosts must check it with Accept; ticks
// from a stopped or restarted timer are stale.
type TickMsg struct {
	TimerID int64
	Gen     int
	At      time.Time
}

// Background marks TickMsg for delivery to screens that are not on top.
func (TickMsg) Background() {}

// Timer is a cancellable tick source driven by the Bubble Tea event loop.
// Every Start begins a new generation; Stop invalidates every tick already
// scheduled.
type Timer struct {
	id       int64
	gen      int
	running  bool
	interval time.Duration
}

// NewTimer returns a stopped timer firing every interval.
func NewTimer(interval time.Duration) *Timer {
	return &Timer{
		id:       lastTimerID.Add(1),
		interval: interval,
	}
}

// Start begins a new generation and schedules its first tick.
func (t *Timer) Start() tea.Cmd {
	t.gen++
	t.running = true
	return t.schedule()
}

// Stop cancels the timer.
func (t *Timer) Stop() {
	t.gen++
	t.running = false
}

// Running reports whether the timer is active.
func (t *Timer) Running() bool { return t.running }

// Accept reports whether msg belongs to this timer's current generation.
func (t *Timer) Accept(msg TickMsg) bool {
	return t.running && msg.TimerID == t.id && msg.Gen == t.gen
}

// Next schedules the following tick of the current generation.
func (t *Timer) Next() tea.Cmd {
	if !t.running {
		return nil
	}
	return t.schedule()
}

// Tick builds the message the current generation delivers at at.
func (t *Timer) Tick(at time.Time) TickMsg {
	return TickMsg{TimerID: t.id, Gen: t.gen, At: at}
}

func (t *Timer) schedule() tea.Cmd {
	id, gen := t.id, t.gen
	return tea.Tick(t.interval, func(at time.Time) tea.Msg {
		return TickMsg{TimerID: id, Gen: gen, At: at}
	})
}
