package media

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func TestRationalFromFloat(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  Rational
	}{
		{name: "zero", value: 0, want: Rational{0, 1}},
		{name: "30", value: 30, want: Rational{30, 1}},
		{name: "60", value: 60, want: Rational{60, 1}},
		{name: "ntsc", value: 29.97, want: Rational{2997, 100}},
		{name: "film", value: 23.976, want: Rational{2997, 125}},
		{name: "half", value: 0.5, want: Rational{1, 2}},
		{name: "seven digits", value: 1.0000001, want: Rational{10000001, 10000000}},
		{name: "pal", value: 25, want: Rational{25, 1}},
		{name: "mGBA", value: 59.7275, want: Rational{23891, 400}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RationalFromFloat(tt.value); got != tt.want {
				t.Errorf("RationalFromFloat(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestRationalFromFloatIntegers(t *testing.T) {
	for _, v := range []int64{1, 2, 24, 48, 50, 120, 144, 240, 1000, 9999} {
		if got := RationalFromFloat(float64(v)); got.Num != v || got.Den != 1 {
			t.Errorf("%v -> %v, want %v/1", v, got, v)
		}
	}
}

func TestRationalFromFloatRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < 10000; i++ {
		// up to 7 fractional digits
		v := float64(rnd.Int63n(10000*Precision)) / float64(Precision)
		r := RationalFromFloat(v)
		if d := math.Abs(r.Float64() - v); d > 1e-7 {
			t.Fatalf("%v -> %v (%v), diff %v", v, r, r.Float64(), d)
		}
		if g := GCD(r.Num, r.Den); r.Num != 0 && g != 1 {
			t.Fatalf("%v -> %v is not reduced (gcd %v)", v, r, g)
		}
	}
}

func TestGCD(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{a: 0, b: 0, want: 0},
		{a: 7, b: 0, want: 7},
		{a: 0, b: 10000000, want: 10000000},
		{a: 4, b: 6, want: 2},
		{a: 6, b: 4, want: 2},
		{a: 9700000, b: 10000000, want: 100000},
		{a: 17, b: 13, want: 1},
	}
	for _, tt := range tests {
		if got := GCD(tt.a, tt.b); got != tt.want {
			t.Errorf("GCD(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if tt.b != 0 {
			if got, rec := GCD(tt.a, tt.b), GCD(tt.b, tt.a%tt.b); got != rec {
				t.Errorf("GCD(%v, %v) = %v != GCD(b, a%%b) = %v", tt.a, tt.b, got, rec)
			}
		}
	}
}

func TestRationalPeriod(t *testing.T) {
	r := Rational{30, 1}
	if p := r.Period(); math.Abs(p-1.0/30) > 1e-12 {
		t.Errorf("period %v", p)
	}
	if s := (Rational{30000, 1001}).String(); s != "30000/1001" {
		t.Errorf("string %v", s)
	}
	if (Rational{}).IsValid() {
		t.Errorf("zero rational should be invalid")
	}
}

func TestTime(t *testing.T) {
	rate := Rational{30, 1}
	if s := NewTime(15, rate).Seconds(); s != 0.5 {
		t.Errorf("15 frames @30 should be 0.5s, got %v", s)
	}
	if d := NewTime(30, rate).Duration(); d != time.Second {
		t.Errorf("30 frames @30 should be 1s, got %v", d)
	}
}
