// ABOUTME: Difficulty levels and penalty settings for Burdell scoring
// ABOUTME: Step, coefficient and leniency are configuration, not constants

package burdell

import (
	"fmt"
	"strings"
)

// Level is a difficulty level.
type Level int

const (
	Pro Level = iota
	Amateur
	Newbie
)

// Levels lists every level, hardest first.
var Levels = []Level{Pro, Amateur, Newbie}

func (l Level) String() string {
	switch l {
	case Pro:
		return "PRO"
	case Amateur:
		return "AMATEUR"
	case Newbie:
		return "NEWBIE"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Key is the lower-case configuration key for the level.
func (l Level) Key() string {
	return strings.ToLower(l.String())
}

// MarshalText implements encoding.TextMarshaler so levels key JSON maps by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel reads a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if strings.EqualFold(strings.TrimSpace(s), l.String()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q (want pro, amateur or newbie)", s)
}

// Scope selects the population leniency trims from.
type Scope string

const (
	// ScopeSegment trims the worst deviations of each segment separately.
	ScopeSegment Scope = "segment"
	// ScopeLine trims the worst deviations of the whole track once.
	ScopeLine Scope = "line"
)

// ParseScope reads a leniency scope. Empty means ScopeSegment.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeSegment:
		return ScopeSegment, nil
	case ScopeLine:
		return ScopeLine, nil
	default:
		return "", fmt.Errorf("unknown leniency scope %q (want segment or line)", s)
	}
}

// Settings parameterize one difficulty level.
type Settings struct {
	// Step is the segment length in meters. Smaller is more severe.
	Step float64 `json:"step" yaml:"step" mapstructure:"step"`
	// Coefficient scales deviations before the penalty curve. Smaller is more severe.
	Coefficient float64 `json:"coefficient" yaml:"coefficient" mapstructure:"coefficient"`
	// Leniency is the percentage of the largest deviations ignored.
	Leniency float64 `json:"leniency" yaml:"leniency" mapstructure:"leniency"`
	Scope    Scope   `json:"scope" yaml:"scope" mapstructure:"scope"`
}

// DefaultSettings returns the calibrated settings for a level.
func DefaultSettings(l Level) Settings {
	switch l {
	case Amateur:
		return Settings{Step: 5, Coefficient: 175, Scope: ScopeSegment}
	case Newbie:
		return Settings{Step: 25, Coefficient: 200, Scope: ScopeSegment}
	default:
		return Settings{Step: 1, Coefficient: 150, Scope: ScopeSegment}
	}
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if !(s.Step > 0) {
		return fmt.Errorf("step must be positive, got %v", s.Step)
	}
	if !(s.Coefficient > 0) {
		return fmt.Errorf("coefficient must be positive, got %v", s.Coefficient)
	}
	if !(s.Leniency >= 0 && s.Leniency < 100) {
		return fmt.Errorf("leniency must be in [0, 100), got %v", s.Leniency)
	}
	if _, err := ParseScope(string(s.Scope)); err != nil {
		return err
	}
	return nil
}
