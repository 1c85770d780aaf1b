package encoder

import (
	"github.com/giongto35/movierec/pkg/logger"
	"github.com/giongto35/movierec/pkg/media"
)

type (
	// Session is an active binding between track attributes and one output media file.
	// Frames and samples are appended sequentially, a session is not safe
	// for concurrent appends.
	Session interface {
		// AppendVideo adds a frame validated by the caller for size and format.
		// A nil time means the next slot of the encoding grid.
		AppendVideo(frame Frame, at *media.Time) error
		// AppendAudio adds interleaved float PCM samples.
		AppendAudio(samples []float32) error
		// Close flushes and finalizes the output.
		Close() error
		Path() string
		Stats() Stats
	}

	// Codec answers capability queries for a specific encoder and
	// creates its sessions.
	Codec interface {
		Name() string
		// Extension is the output container file extension without a dot.
		Extension() string
		// PixelFormat is the layout capture inputs should produce.
		PixelFormat(attrs Attributes) media.PixelFormat
		SupportsResolution(attrs Attributes, w, h int) error
		SupportsTransparency(attrs Attributes) error
		Open(conf Config, log *logger.Logger) (Session, error)
	}

	Frame struct {
		Data   []byte
		W, H   int
		Stride int
		Format media.PixelFormat
	}

	Stats struct {
		Frames  int
		Samples int
		// Closed is set when the output is finalized.
		Closed bool
	}
)

type BitRateMode uint8

const (
	BitRateLow BitRateMode = iota
	BitRateMedium
	BitRateHigh
)

func (m BitRateMode) String() string {
	switch m {
	case BitRateLow:
		return "low"
	case BitRateMedium:
		return "medium"
	case BitRateHigh:
		return "high"
	}
	return "unknown"
}

// ParseBitRateMode converts a config value into BitRateMode, unknown values are high.
func ParseBitRateMode(s string) BitRateMode {
	switch s {
	case "low":
		return BitRateLow
	case "medium":
		return BitRateMedium
	}
	return BitRateHigh
}

type (
	VideoAttributes struct {
		Width, Height uint32
		FrameRate     media.Rational
		IncludeAlpha  bool
		BitRateMode   BitRateMode
	}

	AudioAttributes struct {
		// SampleRate always has the denominator of 1.
		SampleRate   media.Rational
		ChannelCount uint16
		Language     string
	}

	// Attributes are codec specific options.
	Attributes struct {
		// Preset is a codec format label, i.e. 4444 for ProRes.
		// The custom preset enables CustomOptions.
		Preset          string
		ColorDefinition string
		CustomOptions   string
	}

	// Config is everything a codec needs to open a session.
	Config struct {
		Path  string
		Video VideoAttributes
		Audio *AudioAttributes
		Attrs Attributes
	}
)

const PresetCustom = "custom"

// IsCustom reports whether the custom options should be passed to the encoder.
func (a Attributes) IsCustom() bool { return a.Preset == PresetCustom }

// Validate checks that the frame matches the configured track.
func (f Frame) Validate(v VideoAttributes, format media.PixelFormat) error {
	if uint32(f.W) != v.Width || uint32(f.H) != v.Height {
		return &FrameError{Reason: "size", Got: [2]int{f.W, f.H}, Want: [2]int{int(v.Width), int(v.Height)}}
	}
	if f.Format != format {
		return &FrameError{Reason: "format " + f.Format.String() + " != " + format.String()}
	}
	if f.H > 0 && len(f.Data) < f.stride()*(f.H-1)+f.rowSize() {
		return &FrameError{Reason: "short buffer"}
	}
	return nil
}

// Row returns i-th row of the frame pixels without padding.
func (f Frame) Row(i int) []byte {
	off := i * f.stride()
	return f.Data[off : off+f.rowSize()]
}

func (f Frame) rowSize() int { return f.W * f.Format.BytesPerPixel() }

func (f Frame) stride() int {
	if f.Stride == 0 {
		return f.rowSize()
	}
	return f.Stride
}
