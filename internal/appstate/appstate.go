// Package appstate is the application's view controller: a closed set of
// screens-level states and a pure transition function over them.
package appstate

import (
	"errors"
	"fmt"
)

// State is the active top-level view.
type State int

const (
	Auth State = iota
	Home
	Edit
	NameEntry
	Take
	Calculating
	Result
	Settings
)

var stateNames = [...]string{"Auth", "Home", "Edit", "NameEntry", "Take", "Calculating", "Result", "Settings"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// needsQuiz reports whether s cannot render without an active quiz.
func (s State) needsQuiz() bool {
	switch s {
	case NameEntry, Take, Calculating, Result:
		return true
	}
	return false
}

// guardsChanges reports whether leaving s may discard unsaved changes.
func (s State) guardsChanges() bool {
	return s == Edit || s == Settings
}

// Event is a user action or timer signal that may change the state.
type Event int

const (
	SignedIn Event = iota
	SignedOut
	NewQuiz
	OpenSlot
	TakeSlot
	ImportShared
	StartQuiz
	EnterRoom
	Finish
	ExitTake
	CalculationDone
	BackHome
	OpenSettings
	CloseSettings
	Back
)

var eventNames = [...]string{
	"SignedIn", "SignedOut", "NewQuiz", "OpenSlot", "TakeSlot", "ImportShared",
	"StartQuiz", "EnterRoom", "Finish", "ExitTake", "CalculationDone",
	"BackHome", "OpenSettings", "CloseSettings", "Back",
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return fmt.Sprintf("Event(%d)", int(e))
	}
	return eventNames[e]
}

var (
	ErrInvalidTransition = errors.New("transition not allowed")
	ErrUnsavedChanges    = errors.New("unsaved changes")
	ErrQuizNotReady      = errors.New("active quiz missing or invalid")
)

// TransitionError reports a rejected event. It wraps one of the sentinel
// errors above.
type TransitionError struct {
	From  State
	Event Event
	Err   error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Event, e.From, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }

// Snapshot is the controller state. Return is the state Settings goes back
// to and is meaningful only while State is Settings.
type Snapshot struct {
	State  State
	Return State
}

// Guard carries the facts a transition may depend on. The host computes it
// from the active quiz and the screen being left.
type Guard struct {
	// HasQuiz is true when an active quiz exists.
	HasQuiz bool
	// QuizValid is true when the active quiz passes entry validation.
	QuizValid bool
	// Dirty is true when the state being left holds unsaved changes.
	Dirty bool
	// Discard is the user's explicit confirmation to drop them.
	Discard bool
	// FromSlot is true when the active quiz was opened from a slot for
	// taking rather than from the editor.
	FromSlot bool
}

// Initial returns the start state.
func Initial(hasSession bool) Snapshot {
	if hasSession {
		return Snapshot{State: Home}
	}
	return Snapshot{State: Auth}
}

// Next applies e to s. On error s is returned unchanged.
func Next(s Snapshot, e Event, g Guard) (Snapshot, error) {
	target, err := target(s, e, g)
	if err != nil {
		return s, &TransitionError{From: s.State, Event: e, Err: err}
	}

	// Settings overlays the current state; it does not leave it.
	if e != OpenSettings && s.State.guardsChanges() && target != s.State && g.Dirty && !g.Discard {
		return s, &TransitionError{From: s.State, Event: e, Err: ErrUnsavedChanges}
	}

	if target.needsQuiz() && !g.HasQuiz {
		target = Home
	}

	next := Snapshot{State: target}
	if target == Settings {
		next.Return = s.State
	}
	return next, nil
}

func target(s Snapshot, e Event, g Guard) (State, error) {
	cur := s.State

	switch e {
	case OpenSettings:
		if cur == Settings {
			return 0, ErrInvalidTransition
		}
		return Settings, nil
	case CloseSettings:
		if cur != Settings {
			return 0, ErrInvalidTransition
		}
		return s.Return, nil
	case SignedOut:
		if cur == Auth {
			return 0, ErrInvalidTransition
		}
		return Auth, nil
	}

	switch cur {
	case Auth:
		if e == SignedIn {
			return Home, nil
		}

	case Home:
		switch e {
		case NewQuiz, OpenSlot:
			return Edit, nil
		case TakeSlot:
			if !g.QuizValid {
				return 0, ErrQuizNotReady
			}
			return NameEntry, nil
		case ImportShared, BackHome:
			return Home, nil
		}

	case Edit:
		switch e {
		case StartQuiz:
			if !g.QuizValid {
				return 0, ErrQuizNotReady
			}
			return NameEntry, nil
		case BackHome, Back, ImportShared:
			return Home, nil
		}

	case NameEntry:
		switch e {
		case EnterRoom:
			if !g.QuizValid {
				return 0, ErrQuizNotReady
			}
			return Take, nil
		case Back:
			if g.FromSlot {
				return Home, nil
			}
			return Edit, nil
		case BackHome:
			return Home, nil
		}

	case Take:
		switch e {
		case Finish:
			return Calculating, nil
		case ExitTake:
			if g.FromSlot {
				return Home, nil
			}
			return Edit, nil
		}

	case Calculating:
		if e == CalculationDone {
			return Result, nil
		}

	case Result:
		switch e {
		case BackHome, Back, ImportShared:
			return Home, nil
		}

	case Settings:
		if e == Back {
			return s.Return, nil
		}
	}
	return 0, ErrInvalidTransition
}
