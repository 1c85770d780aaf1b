package media

import (
	"fmt"
	"math"
)

// Precision is the fixed denominator used to approximate fractional rates,
// any rate is represented with an error of about 1e-7.
const Precision int64 = 10_000_000

// Rational is an exact rate (frames or samples per second).
type Rational struct {
	Num int64
	Den int64
}

// RationalFromFloat converts a floating-point rate into its reduced
// numerator/denominator form, i.e. 29.97 -> 2997/100, 60 -> 60/1.
func RationalFromFloat(value float64) Rational {
	integral := math.Floor(value)
	frac := value - integral

	scaled := int64(math.Round(frac * float64(Precision)))
	gcd := GCD(scaled, Precision)
	den := Precision / gcd

	return Rational{
		Num: int64(integral)*den + scaled/gcd,
		Den: den,
	}
}

// GCD returns the greatest common divisor of two non-negative numbers.
// GCD(a, 0) == a and GCD(0, b) == b.
func GCD(a, b int64) int64 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	if a < b {
		return GCD(a, b%a)
	}
	return GCD(b, a%b)
}

// IsValid reports whether the rate is positive and well-formed.
func (r Rational) IsValid() bool { return r.Num > 0 && r.Den > 0 }

func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Period returns the duration of one unit (frame) in seconds.
func (r Rational) Period() float64 {
	if r.Num == 0 {
		return 0
	}
	return float64(r.Den) / float64(r.Num)
}

func (r Rational) String() string { return fmt.Sprintf("%d/%d", r.Num, r.Den) }
