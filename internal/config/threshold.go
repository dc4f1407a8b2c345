package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"obscuritext/internal/surrogate"
)

// ErrInvalidThreshold marks a combine_above/combine_below value that is not
// "none", "ask", or a non-negative integer.
var ErrInvalidThreshold = errors.New("invalid threshold")

// ThresholdKind distinguishes the three threshold forms a config may hold.
type ThresholdKind int

const (
	ThresholdDisabled ThresholdKind = iota
	ThresholdFixed
	// ThresholdDeferred asks the operator after the discovery pass.
	ThresholdDeferred
)

// ThresholdSetting is a configured threshold before interactive resolution.
type ThresholdSetting struct {
	Kind  ThresholdKind
	Count int
}

// ParseThreshold interprets a TOML value as a threshold setting.
func ParseThreshold(value any) (ThresholdSetting, error) {
	switch v := value.(type) {
	case nil:
		return ThresholdSetting{}, nil
	case int64:
		return fixedThreshold(v, value)
	case int:
		return fixedThreshold(int64(v), value)
	case float64:
		if v != float64(int64(v)) {
			return ThresholdSetting{}, fmt.Errorf("%w: %v", ErrInvalidThreshold, value)
		}
		return fixedThreshold(int64(v), value)
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "", "none":
			return ThresholdSetting{}, nil
		case "ask":
			return ThresholdSetting{Kind: ThresholdDeferred}, nil
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return ThresholdSetting{}, fmt.Errorf("%w: %q", ErrInvalidThreshold, v)
		}
		return fixedThreshold(n, value)
	default:
		return ThresholdSetting{}, fmt.Errorf("%w: %v", ErrInvalidThreshold, value)
	}
}

func fixedThreshold(n int64, raw any) (ThresholdSetting, error) {
	if n < 0 {
		return ThresholdSetting{}, fmt.Errorf("%w: %v is negative", ErrInvalidThreshold, raw)
	}
	return ThresholdSetting{Kind: ThresholdFixed, Count: int(n)}, nil
}

// Deferred reports whether the threshold must be asked for.
func (s ThresholdSetting) Deferred() bool { return s.Kind == ThresholdDeferred }

// Active reports whether the threshold can select anything.
func (s ThresholdSetting) Active() bool { return s.Kind != ThresholdDisabled }

// Resolve converts the setting into a core threshold. Deferred settings
// cannot be resolved here and report false.
func (s ThresholdSetting) Resolve() (surrogate.Threshold, bool) {
	switch s.Kind {
	case ThresholdFixed:
		return surrogate.Fixed(s.Count), true
	case ThresholdDeferred:
		return surrogate.Disabled(), false
	default:
		return surrogate.Disabled(), true
	}
}

func (s ThresholdSetting) String() string {
	switch s.Kind {
	case ThresholdFixed:
		return strconv.Itoa(s.Count)
	case ThresholdDeferred:
		return "ask"
	default:
		return "none"
	}
}

// CombineAbove parses processing.combine_above.
func (c *Config) CombineAbove() (ThresholdSetting, error) {
	s, err := ParseThreshold(c.Processing.CombineAbove)
	if err != nil {
		return ThresholdSetting{}, fmt.Errorf("processing.combine_above: %w", err)
	}
	return s, nil
}

// CombineBelow parses processing.combine_below.
func (c *Config) CombineBelow() (ThresholdSetting, error) {
	s, err := ParseThreshold(c.Processing.CombineBelow)
	if err != nil {
		return ThresholdSetting{}, fmt.Errorf("processing.combine_below: %w", err)
	}
	return s, nil
}
