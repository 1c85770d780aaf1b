// Package session holds the caller-owned recording context.
package session

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

// Playback is the frame-rate playback mode of a recording.
type Playback uint8

const (
	// Constant records every captured frame.
	Constant Playback = iota
	// Variable maps capture timestamps onto the encoding grid.
	Variable
)

func (p Playback) String() string {
	if p == Variable {
		return "variable"
	}
	return "constant"
}

func ParsePlayback(s string) (Playback, error) {
	switch s {
	case "", "constant", "fixed":
		return Constant, nil
	case "variable":
		return Variable, nil
	}
	return Constant, fmt.Errorf("unknown playback mode %q", s)
}

// Session describes one recording run as seen by the recorders.
// It's owned by the caller, recorders only read it.
type Session struct {
	ID           string
	Playback     Playback
	FrameRate    float64
	Take         int
	RecorderName string

	StartTime time.Time
	// FrameIndex is the number of the current capture tick.
	FrameIndex int64
	// Elapsed is the capture time of the current tick since the start.
	Elapsed time.Duration
}

func New(name string, take int, playback Playback, fps float64) *Session {
	id, _ := uuid.NewV4()
	return &Session{
		ID:           id.String(),
		Playback:     playback,
		FrameRate:    fps,
		Take:         take,
		RecorderName: name,
		StartTime:    time.Now(),
	}
}

// Advance moves the session to the next capture tick.
func (s *Session) Advance(elapsed time.Duration) {
	s.FrameIndex++
	s.Elapsed = elapsed
}

// Timestamp is the capture time of the current tick in seconds.
func (s *Session) Timestamp() float64 { return s.Elapsed.Seconds() }

func (s *Session) String() string {
	return fmt.Sprintf("%v/%v#%v [%v@%v]", s.RecorderName, s.ID, s.Take, s.Playback, s.FrameRate)
}
