// ABOUTME: Medal tiers for straight line missions
// ABOUTME: Classifies the worst in-range deviation against ascending thresholds

package medal

import (
	"fmt"
	"strings"
)

// Tier is a medal rank. Higher is better.
type Tier int

const (
	None Tier = iota
	Bronze
	Silver
	Gold
	Platinum
)

var tierNames = map[Tier]string{
	None:     "NONE",
	Bronze:   "BRONZE",
	Silver:   "SILVER",
	Gold:     "GOLD",
	Platinum: "PLATINUM",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// ParseTier reads a tier name, case-insensitively. An empty string is None.
func ParseTier(s string) (Tier, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "-" {
		return None, nil
	}
	for t, name := range tierNames {
		if name == s {
			return t, nil
		}
	}
	return None, fmt.Errorf("unknown medal tier %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Thresholds are the largest deviations, in meters, each tier allows.
type Thresholds struct {
	Platinum float64 `json:"platinum" yaml:"platinum" mapstructure:"platinum"`
	Gold     float64 `json:"gold" yaml:"gold" mapstructure:"gold"`
	Silver   float64 `json:"silver" yaml:"silver" mapstructure:"silver"`
	Bronze   float64 `json:"bronze" yaml:"bronze" mapstructure:"bronze"`
}

// DefaultThresholds are the published mission rules.
var DefaultThresholds = Thresholds{
	Platinum: 25,
	Gold:     50,
	Silver:   75,
	Bronze:   100,
}

// Validate checks the thresholds are positive and strictly ascending.
func (th Thresholds) Validate() error {
	if !(th.Platinum > 0) {
		return fmt.Errorf("platinum threshold must be positive, got %v", th.Platinum)
	}
	if !(th.Platinum < th.Gold && th.Gold < th.Silver && th.Silver < th.Bronze) {
		return fmt.Errorf("medal thresholds must ascend: %v < %v < %v < %v",
			th.Platinum, th.Gold, th.Silver, th.Bronze)
	}
	return nil
}

// Classify returns the tier for a maximum deviation. A deviation equal to a
// threshold earns that threshold's tier.
func (th Thresholds) Classify(maxDeviation float64) Tier {
	switch {
	case maxDeviation <= th.Platinum:
		return Platinum
	case maxDeviation <= th.Gold:
		return Gold
	case maxDeviation <= th.Silver:
		return Silver
	case maxDeviation <= th.Bronze:
		return Bronze
	default:
		return None
	}
}

// Classify uses the default thresholds.
func Classify(maxDeviation float64) Tier {
	return DefaultThresholds.Classify(maxDeviation)
}
