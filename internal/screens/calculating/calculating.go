// Package calculating is the short pause between finishing a quiz and
// seeing the result.
package calculating

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/brianquiz/brianquiz/internal/appstate"
	"github.com/brianquiz/brianquiz/internal/attempt"
	"github.com/brianquiz/brianquiz/internal/screen"
	"github.com/brianquiz/brianquiz/internal/ui/layout"
	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

const frameInterval = 150 * time.Millisecond

var frames = []string{"◐", "◓", "◑", "◒"}

// CalculatingScreen animates for a fixed delay, then reports completion.
type CalculatingScreen struct {
	timer   *attempt.Timer
	delay   time.Duration
	elapsed time.Duration
	frame   int
	done    bool
}

var _ screen.Screen = (*CalculatingScreen)(nil)
var _ screen.Closer = (*CalculatingScreen)(nil)

// New creates the screen. A non-positive delay completes on the first
// frame.
func New(delay time.Duration) *CalculatingScreen {
	return &CalculatingScreen{
		timer: attempt.NewTimer(frameInterval),
		delay: delay,
	}
}

func (c *CalculatingScreen) Init() tea.Cmd { return c.timer.Start() }

func (c *CalculatingScreen) Title() string { return "Scoring" }

func (c *CalculatingScreen) Close() { c.timer.Stop() }

func (c *CalculatingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	tick, ok := msg.(attempt.TickMsg)
	if !ok || c.done || !c.timer.Accept(tick) {
		return c, nil
	}
	c.frame++
	c.elapsed += frameInterval
	if c.elapsed >= c.delay {
		c.done = true
		c.timer.Stop()
		return c, screen.Go(appstate.CalculationDone)
	}
	return c, c.timer.Next()
}

func (c *CalculatingScreen) View(width, height int) string {
	spinner := theme.Title.Render(frames[c.frame%len(frames)])
	dots := strings.Repeat(".", c.frame%4)
	return layout.Center(spinner+"  "+theme.Body.Render("Calculating your score"+dots), width, height)
}
