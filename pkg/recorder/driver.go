package recorder

import (
	"github.com/giongto35/movierec/pkg/encoder"
	"github.com/giongto35/movierec/pkg/media"
	"github.com/giongto35/movierec/pkg/session"
)

// Sink consumes the frames pumped by a Driver.
type Sink interface {
	// WriteFrame gets a validated frame captured at ts seconds.
	WriteFrame(s *session.Session, frame encoder.Frame, ts float64) error
}

// Driver pumps the frames of an image input into a sink.
//
// With async readback the frames reach the sink one capture tick late,
// the same way GPU readbacks complete, and keep the capture timestamp.
type Driver struct {
	image  ImageInput
	video  encoder.VideoAttributes
	format media.PixelFormat
	async  bool

	pending   *encoder.Frame
	pendingTs float64
}

func NewDriver(image ImageInput, video encoder.VideoAttributes, format media.PixelFormat, async bool) *Driver {
	return &Driver{image: image, video: video, format: format, async: async}
}

func (d *Driver) Async() bool { return d.async }

// Deliver fetches the frame of the current tick and passes it on.
func (d *Driver) Deliver(s *session.Session, sink Sink) error {
	frame, err := d.image.Frame(d.format)
	if err != nil {
		return err
	}
	if err = frame.Validate(d.video, d.format); err != nil {
		return err
	}
	ts := s.Timestamp()

	if !d.async {
		return sink.WriteFrame(s, frame, ts)
	}

	prev, prevTs := d.pending, d.pendingTs
	next := clone(frame)
	d.pending, d.pendingTs = &next, ts
	if prev == nil {
		return nil
	}
	return sink.WriteFrame(s, *prev, prevTs)
}

// Flush passes on the frame still waiting for its readback.
func (d *Driver) Flush(s *session.Session, sink Sink) error {
	if d.pending == nil {
		return nil
	}
	frame, ts := *d.pending, d.pendingTs
	d.pending = nil
	return sink.WriteFrame(s, frame, ts)
}

func clone(src encoder.Frame) encoder.Frame {
	row := src.W * src.Format.BytesPerPixel()
	data := make([]byte, 0, row*src.H)
	for y := 0; y < src.H; y++ {
		data = append(data, src.Row(y)...)
	}
	return encoder.Frame{Data: data, W: src.W, H: src.H, Stride: row, Format: src.Format}
}
