package media

// PixelFormat is the texture layout a capture input has to produce
// for an encoder.
type PixelFormat uint8

const (
	RGBA32 PixelFormat = iota
	BGRA32
	RGB24
)

func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case RGB24:
		return 3
	default:
		return 4
	}
}

// FrameSize returns a size in bytes of a tightly packed w x h image.
func (f PixelFormat) FrameSize(w, h int) int { return w * h * f.BytesPerPixel() }

func (f PixelFormat) String() string {
	switch f {
	case RGBA32:
		return "rgba"
	case BGRA32:
		return "bgra"
	case RGB24:
		return "rgb24"
	}
	return "unknown"
}
