package auth

import (
	"fmt"
	"strings"
	"unicode"
)

// Rule is one password requirement and whether a candidate meets it.
type Rule struct {
	Key   string
	Label string
	Met   bool
}

// Strength is the evaluated checklist for a candidate password.
type Strength struct {
	Rules []Rule
	Score int
}

const specials = "@$!%*?&"

// CheckStrength evaluates password against the registration policy.
func CheckStrength(password string) Strength {
	rules := []Rule{
		{Key: "length", Label: "At least 8 characters", Met: len([]rune(password)) >= 8},
		{Key: "upper", Label: "An uppercase letter", Met: strings.ContainsFunc(password, isASCIIUpper)},
		{Key: "lower", Label: "A lowercase letter", Met: strings.ContainsFunc(password, isASCIILower)},
		{Key: "number", Label: "A digit", Met: strings.ContainsFunc(password, isASCIIDigit)},
		{Key: "special", Label: "One of " + specials, Met: strings.ContainsAny(password, specials)},
		{Key: "nospace", Label: "No spaces", Met: password != "" && !strings.ContainsFunc(password, unicode.IsSpace)},
	}
	s := Strength{Rules: rules}
	for _, r := range rules {
		if r.Met {
			s.Score++
		}
	}
	return s
}

// Valid reports whether every rule is met.
func (s Strength) Valid() bool { return s.Score == len(s.Rules) }

// Label summarizes the score for the live meter.
func (s Strength) Label() string {
	switch {
	case s.Valid():
		return "optimal"
	case s.Score >= 5:
		return "strong"
	case s.Score >= 3:
		return "medium"
	default:
		return "weak"
	}
}

// Unmet returns the rules the password fails.
func (s Strength) Unmet() []Rule {
	var out []Rule
	for _, r := range s.Rules {
		if !r.Met {
			out = append(out, r)
		}
	}
	return out
}

// PolicyError lists the password rules a registration attempt failed.
type PolicyError struct {
	Unmet []Rule
}

func (e *PolicyError) Error() string {
	labels := make([]string, len(e.Unmet))
	for i, r := range e.Unmet {
		labels[i] = strings.ToLower(r.Label)
	}
	return fmt.Sprintf("password too weak: needs %s", strings.Join(labels, ", "))
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
