package recorder

import (
	"errors"
	"fmt"

	"github.com/giongto35/movierec/pkg/encoder"
)

var ErrActive = errors.New("recorder is already active")

type DirectoryCreationError struct {
	Path string
	Err  error
}

func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("could not create the output directory [%v]: %v", e.Path, e.Err)
}

func (e *DirectoryCreationError) Unwrap() error { return e.Err }

// MissingInputError means the recorder has no image or audio input.
type MissingInputError struct {
	Reason string
}

func (e *MissingInputError) Error() string { return "wrong recorder inputs: " + e.Reason }

type InvalidResolutionError struct {
	Width, Height int
}

func (e *InvalidResolutionError) Error() string {
	return fmt.Sprintf("invalid input resolution %vx%v", e.Width, e.Height)
}

type UnsupportedResolutionError struct {
	Codec         string
	Width, Height int
	Err           error
}

func (e *UnsupportedResolutionError) Error() string {
	return fmt.Sprintf("%v encoder can't record %vx%v: %v", e.Codec, e.Width, e.Height, e.Err)
}

func (e *UnsupportedResolutionError) Unwrap() error { return e.Err }

type UnsupportedTransparencyError struct {
	Codec string
	Err   error
}

func (e *UnsupportedTransparencyError) Error() string {
	return fmt.Sprintf("%v encoder can't record transparency: %v", e.Codec, e.Err)
}

func (e *UnsupportedTransparencyError) Unwrap() error { return e.Err }

// failureReason is a short label of the begin recording error.
func failureReason(err error) string {
	var (
		dir   *DirectoryCreationError
		input *MissingInputError
		res   *InvalidResolutionError
		ures  *UnsupportedResolutionError
		alpha *UnsupportedTransparencyError
		conf  *encoder.ConfigurationError
	)
	switch {
	case errors.As(err, &dir):
		return "directory"
	case errors.As(err, &input):
		return "input"
	case errors.As(err, &res):
		return "resolution"
	case errors.As(err, &ures):
		return "unsupported_resolution"
	case errors.As(err, &alpha):
		return "unsupported_transparency"
	case errors.As(err, &conf):
		return "configuration"
	}
	return "other"
}
