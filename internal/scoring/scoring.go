package scoring

import (
	"fmt"
	"math"
)

// Band is a qualitative evaluation of a ten-point score.
type Band struct {
	// Name is the stable identifier, e.g. "Excellent".
	Name string

	// Label is the display text.
	Label string

	// Marker is a single glyph shown next to the label.
	Marker string

	// Min is the lowest ten-point score that falls in this band.
	Min float64
}

var (
	Excellent = Band{Name: "Excellent", Label: "Excellent", Marker: "♛", Min: 9.5}
	Good      = Band{Name: "Good", Label: "Good", Marker: "★", Min: 8.0}
	Fair      = Band{Name: "Fair", Label: "Fair", Marker: "▲", Min: 6.5}
	Average   = Band{Name: "Average", Label: "Average", Marker: "●", Min: 5.0}
	Weak      = Band{Name: "Weak", Label: "Weak", Marker: "▽", Min: 0}
)

// bands is ordered from highest threshold to lowest; first match wins.
var bands = []Band{Excellent, Good, Fair, Average, Weak}

// PassMark is the ten-point score from which a result counts as a pass.
const PassMark = 5.0

// ScoreTen maps score/total onto a ten-point scale with one decimal place,
// rounding half up. total must be at least 1.
func ScoreTen(score, total int) float64 {
	if total <= 0 {
		panic(fmt.Sprintf("scoring: total must be positive, got %d", total))
	}
	percent := float64(score*100) / float64(total)
	return math.Floor(percent+0.5) / 10
}

// Evaluate returns the band for a ten-point score.
func Evaluate(scoreTen float64) Band {
	for _, b := range bands {
		if scoreTen >= b.Min {
			return b
		}
	}
	return Weak
}

// Passed reports whether scoreTen reaches the pass mark.
func Passed(scoreTen float64) bool {
	return scoreTen >= PassMark
}

// Result is a scored attempt.
type Result struct {
	Score    int
	Total    int
	ScoreTen float64
	Band     Band
}

// Compute scores an attempt.
func Compute(score, total int) Result {
	st := ScoreTen(score, total)
	return Result{
		Score:    score,
		Total:    total,
		ScoreTen: st,
		Band:     Evaluate(st),
	}
}

// String renders the ten-point score, e.g. "8.5".
func (r Result) String() string {
	return fmt.Sprintf("%.1f", r.ScoreTen)
}
