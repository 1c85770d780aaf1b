package recorder

import (
	"math"

	"github.com/giongto35/movierec/pkg/media"
)

// Scheduler maps capture timestamps of the variable frame rate mode
// onto the encoding frame grid. A frame that lands on an already written
// slot is dropped, skipped slots are never filled.
type Scheduler struct {
	rate    media.Rational
	last    int64
	dropped int
}

func NewScheduler(rate media.Rational) *Scheduler {
	return &Scheduler{rate: rate, last: -1}
}

// Schedule returns the encoding slot of a frame captured at ts seconds
// or false if the frame should be dropped.
func (s *Scheduler) Schedule(ts float64) (media.Time, bool) {
	i := int64(math.RoundToEven(ts / s.rate.Period()))
	if i <= s.last {
		s.dropped++
		return media.Time{}, false
	}
	s.last = i
	return media.NewTime(i, s.rate), true
}

// Last is the last written slot or -1.
func (s *Scheduler) Last() int64 { return s.last }

func (s *Scheduler) Dropped() int { return s.dropped }
