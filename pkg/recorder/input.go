package recorder

import (
	"github.com/giongto35/movierec/pkg/encoder"
	"github.com/giongto35/movierec/pkg/media"
	"github.com/giongto35/movierec/pkg/session"
)

// Source is where the image input takes its frames from.
type Source uint8

const (
	GameView Source = iota
	Camera
	RenderTexture
)

func (s Source) String() string {
	switch s {
	case Camera:
		return "camera"
	case RenderTexture:
		return "render texture"
	}
	return "game view"
}

// Input is a capture collaborator of a recorder.
type Input interface {
	Name() string
}

// ImageInput supplies captured video frames.
type ImageInput interface {
	Input
	// OutputSize is the size of the produced frames.
	OutputSize() (w, h int)
	Source() Source
	SupportsTransparency() bool
	RecordTransparency() bool
	// Frame returns the frame of the current capture tick in the format.
	// The frame data may be reused by the input on the next call.
	Frame(format media.PixelFormat) (encoder.Frame, error)
}

// AudioInput supplies captured audio samples.
type AudioInput interface {
	Input
	PreserveAudio() bool
	SampleRate() int
	ChannelCount() int
	// Buffer returns the interleaved samples captured since the last call.
	Buffer() []float32
}

// PathResolver builds output paths of the recordings.
type PathResolver interface {
	BuildAbsolutePath(s *session.Session, ext string) string
	CreateDirectory(s *session.Session) error
}

// DisplayClock is the host frame rate used in the variable frame rate mode.
type DisplayClock interface {
	TargetFrameRate() float64
}
