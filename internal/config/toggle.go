package config

import (
	"fmt"
	"strings"
)

// Toggle is a processing flag that may be pinned on, pinned off, or swept
// over both values.
type Toggle int

const (
	// ToggleBoth runs once with the flag on and once with it off.
	ToggleBoth Toggle = iota
	ToggleOn
	ToggleOff
)

var (
	affirmative = map[string]struct{}{"yes": {}, "y": {}, "t": {}, "true": {}, "1": {}, "on": {}}
	negative    = map[string]struct{}{"no": {}, "n": {}, "f": {}, "false": {}, "0": {}, "off": {}}
)

// ParseToggle interprets a TOML value. Booleans pin the flag; strings and
// integers are matched against the affirmative and negative word lists.
// Anything unrecognized, "both" included, sweeps both values.
func ParseToggle(value any) Toggle {
	var text string
	switch v := value.(type) {
	case bool:
		if v {
			return ToggleOn
		}
		return ToggleOff
	case string:
		text = v
	case nil:
		return ToggleBoth
	default:
		text = fmt.Sprint(v)
	}
	text = strings.ToLower(strings.TrimSpace(text))
	if _, ok := affirmative[text]; ok {
		return ToggleOn
	}
	if _, ok := negative[text]; ok {
		return ToggleOff
	}
	return ToggleBoth
}

// Values lists the flag values a sweep visits, true first.
func (t Toggle) Values() []bool {
	switch t {
	case ToggleOn:
		return []bool{true}
	case ToggleOff:
		return []bool{false}
	default:
		return []bool{true, false}
	}
}

// Includes reports whether any swept run has the flag set to value.
func (t Toggle) Includes(value bool) bool {
	for _, v := range t.Values() {
		if v == value {
			return true
		}
	}
	return false
}

func (t Toggle) String() string {
	switch t {
	case ToggleOn:
		return "yes"
	case ToggleOff:
		return "no"
	default:
		return "both"
	}
}
