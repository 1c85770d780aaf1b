package media

import "time"

// Time is a position on an encoding grid: the frame count measured
// against a rate.
type Time struct {
	Count int64
	Rate  Rational
}

func NewTime(count int64, rate Rational) Time { return Time{Count: count, Rate: rate} }

// Seconds returns the position of the frame in seconds.
func (t Time) Seconds() float64 { return float64(t.Count) * t.Rate.Period() }

// Duration is the position of the frame rounded to nanoseconds.
func (t Time) Duration() time.Duration { return time.Duration(t.Seconds() * float64(time.Second)) }
