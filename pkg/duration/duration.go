// Package duration provides a fixed-point, non-negative time quantity in
// nanoseconds, with ordered arithmetic and conversions to the coarser units
// build traces are commonly reported in.
package duration

import "math"

// Duration is a non-negative count of nanoseconds. The zero value is zero
// duration.
type Duration int64

// Zero is the additive identity.
const Zero Duration = 0

// maxDuration is the saturation ceiling for Add.
const maxDuration Duration = math.MaxInt64

// FromNanoseconds builds a Duration from an integer nanosecond count,
// clamping negative input to zero.
func FromNanoseconds(ns int64) Duration {
	if ns < 0 {
		return Zero
	}

	return Duration(ns)
}

// FromMicroseconds builds a Duration from a (possibly fractional)
// microsecond count, rounding to the nearest nanosecond and clamping
// negative input to zero.
func FromMicroseconds(us float64) Duration {
	return fromFloatUnit(us, 1e3)
}

// FromMilliseconds builds a Duration from a (possibly fractional)
// millisecond count, rounding to the nearest nanosecond and clamping
// negative input to zero.
func FromMilliseconds(ms float64) Duration {
	return fromFloatUnit(ms, 1e6)
}

// FromSeconds builds a Duration from a (possibly fractional) second count,
// rounding to the nearest nanosecond and clamping negative input to zero.
func FromSeconds(s float64) Duration {
	return fromFloatUnit(s, 1e9)
}

func fromFloatUnit(value, nsPerUnit float64) Duration {
	if value < 0 {
		return Zero
	}

	scaled := math.Round(value * nsPerUnit)
	if scaled >= float64(maxDuration) {
		return maxDuration
	}

	return Duration(scaled)
}

// Nanoseconds returns the duration as an exact integer nanosecond count.
func (d Duration) Nanoseconds() int64 {
	return int64(d)
}

// Microseconds returns the duration in microseconds. Exact for values that
// are whole microseconds.
func (d Duration) Microseconds() float64 {
	return float64(d) / 1e3
}

// Milliseconds returns the duration in milliseconds. Exact for values that
// are whole milliseconds.
func (d Duration) Milliseconds() float64 {
	return float64(d) / 1e6
}

// Seconds returns the duration in seconds. Exact for values that are whole
// seconds.
func (d Duration) Seconds() float64 {
	return float64(d) / 1e9
}

// Add returns d+other, saturating at Duration's maximum representable value
// instead of overflowing.
func (d Duration) Add(other Duration) Duration {
	sum := int64(d) + int64(other)
	if sum < int64(d) || sum < int64(other) || Duration(sum) > maxDuration {
		return maxDuration
	}

	return Duration(sum)
}

// Sub returns d-other, clamped at zero instead of going negative.
func (d Duration) Sub(other Duration) Duration {
	if other >= d {
		return Zero
	}

	return d - other
}

// Less reports whether d is strictly less than other.
func (d Duration) Less(other Duration) bool {
	return d < other
}

// Compare returns -1, 0, or 1 depending on whether d is less than, equal
// to, or greater than other. It implements the ordering contract used by
// stable sorts throughout the aggregator and suggester.
func (d Duration) Compare(other Duration) int {
	switch {
	case d < other:
		return -1
	case d > other:
		return 1
	default:
		return 0
	}
}

// Sum folds a slice of durations with saturating addition.
func Sum(ds []Duration) Duration {
	total := Zero
	for _, d := range ds {
		total = total.Add(d)
	}

	return total
}
