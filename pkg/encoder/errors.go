package encoder

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedResolution   = errors.New("resolution unsupported")
	ErrUnsupportedTransparency = errors.New("transparency unsupported")
	ErrMalformedOptions        = errors.New("custom options malformed")
	ErrUnknownCodec            = errors.New("unknown codec")
	ErrNoSession               = errors.New("no encoder session")
)

// ConfigurationError is returned when an encoder session couldn't be created.
type ConfigurationError struct {
	Path   string
	Reason string
	Err    error
}

func NewConfigurationError(path string, err error) *ConfigurationError {
	reason := "construction failed"
	for _, known := range []error{
		ErrUnsupportedResolution,
		ErrUnsupportedTransparency,
		ErrMalformedOptions,
		ErrUnknownCodec,
	} {
		if errors.Is(err, known) {
			reason = known.Error()
			break
		}
	}
	return &ConfigurationError{Path: path, Reason: reason, Err: err}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("encoder for [%v] could not be configured (%v): %v", e.Path, e.Reason, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// FrameError is returned for frames that don't match the session track.
type FrameError struct {
	Reason    string
	Got, Want [2]int
}

func (e *FrameError) Error() string {
	if e.Reason == "size" {
		return fmt.Sprintf("frame size %vx%v, expected %vx%v", e.Got[0], e.Got[1], e.Want[0], e.Want[1])
	}
	return "bad frame: " + e.Reason
}
