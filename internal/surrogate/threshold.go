package surrogate

import "strconv"

// Threshold is a resolved bucketing bound: either disabled or a fixed count.
// Deferred thresholds never reach this package; callers resolve them first.
type Threshold struct {
	value   int
	enabled bool
}

// Disabled returns a threshold that selects nothing.
func Disabled() Threshold { return Threshold{} }

// Fixed returns a threshold at count n.
func Fixed(n int) Threshold { return Threshold{value: n, enabled: true} }

// Enabled reports whether the threshold selects anything at all.
func (t Threshold) Enabled() bool { return t.enabled }

// Value returns the count bound. It is zero when disabled.
func (t Threshold) Value() int { return t.value }

// String renders "None" for a disabled threshold, the count otherwise.
func (t Threshold) String() string {
	if !t.enabled {
		return "None"
	}
	return strconv.Itoa(t.value)
}

func (t Threshold) above(frequency int) bool {
	return t.enabled && frequency > t.value
}

func (t Threshold) below(frequency int) bool {
	return t.enabled && frequency < t.value
}
