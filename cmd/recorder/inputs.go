package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"github.com/giongto35/movierec/pkg/encoder"
	"github.com/giongto35/movierec/pkg/media"
	"github.com/giongto35/movierec/pkg/recorder"
	"github.com/giongto35/movierec/pkg/session"
)

var bars = []color.RGBA{
	{R: 192, G: 192, B: 192, A: 255},
	{R: 192, G: 192, A: 255},
	{G: 192, B: 192, A: 255},
	{G: 192, A: 255},
	{R: 192, B: 192, A: 255},
	{R: 192, A: 255},
	{B: 192, A: 255},
}

// pattern is a synthetic image input with color bars, a moving box and the timecode.
// With transparency the lower part of the frame is see-through.
type pattern struct {
	w, h  int
	alpha bool
	s     *session.Session

	base  *image.RGBA
	frame *image.RGBA
	out   []byte
}

func newPattern(w, h int, alpha bool, s *session.Session) *pattern {
	p := &pattern{w: w, h: h, alpha: alpha, s: s}
	if w <= 0 || h <= 0 {
		return p
	}
	p.base = image.NewRGBA(image.Rect(0, 0, w, h))
	bw := w/len(bars) + 1
	for i, c := range bars {
		draw.Draw(p.base, image.Rect(i*bw, 0, (i+1)*bw, h*2/3), &image.Uniform{C: c}, image.Point{}, draw.Src)
	}
	floor := color.RGBA{R: 16, G: 16, B: 16, A: 255}
	if alpha {
		floor = color.RGBA{}
	}
	draw.Draw(p.base, image.Rect(0, h*2/3, w, h), &image.Uniform{C: floor}, image.Point{}, draw.Src)
	p.frame = image.NewRGBA(p.base.Bounds())
	return p
}

func (p *pattern) Name() string               { return "test pattern" }
func (p *pattern) OutputSize() (int, int)     { return p.w, p.h }
func (p *pattern) Source() recorder.Source    { return recorder.RenderTexture }
func (p *pattern) SupportsTransparency() bool { return true }
func (p *pattern) RecordTransparency() bool   { return p.alpha }

func (p *pattern) Frame(format media.PixelFormat) (encoder.Frame, error) {
	if p.base == nil {
		return encoder.Frame{}, fmt.Errorf("no frames of size %vx%v", p.w, p.h)
	}
	copy(p.frame.Pix, p.base.Pix)

	size := p.h / 8
	if size < 1 {
		size = 1
	}
	x := int(p.s.FrameIndex*4) % (p.w + size)
	y := p.h*2/3 + (p.h/3-size)/2
	draw.Draw(p.frame, image.Rect(x-size, y, x, y+size), &image.Uniform{C: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		image.Point{}, draw.Src)
	drawSlate(p.frame, 8, 8,
		fmt.Sprintf("%v take %03d", p.s.RecorderName, p.s.Take),
		fmt.Sprintf("%v #%05d", timecode(p.s.Elapsed, p.s.FrameRate), p.s.FrameIndex))

	return convert(p.frame, format, &p.out), nil
}

// convert repacks RGBA pixels into the format reusing the buf.
func convert(img *image.RGBA, format media.PixelFormat, buf *[]byte) encoder.Frame {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if format == media.RGBA32 {
		return encoder.Frame{Data: img.Pix, W: w, H: h, Stride: img.Stride, Format: format}
	}
	bpp := format.BytesPerPixel()
	if len(*buf) != w*h*bpp {
		*buf = make([]byte, w*h*bpp)
	}
	out := *buf
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := out[y*w*bpp : (y+1)*w*bpp]
		for i, j := 0, 0; i < len(src); i, j = i+4, j+bpp {
			switch format {
			case media.BGRA32:
				dst[j], dst[j+1], dst[j+2], dst[j+3] = src[i+2], src[i+1], src[i], src[i+3]
			default:
				dst[j], dst[j+1], dst[j+2] = src[i], src[i+1], src[i+2]
			}
		}
	}
	return encoder.Frame{Data: out, W: w, H: h, Stride: w * bpp, Format: format}
}

// tone is a synthetic audio input with a sine wave that follows the session time.
type tone struct {
	freq     float64
	rate, ch int
	mute     bool
	s        *session.Session

	sent int64
}

func (t *tone) Name() string        { return "tone" }
func (t *tone) PreserveAudio() bool { return !t.mute }
func (t *tone) SampleRate() int     { return t.rate }
func (t *tone) ChannelCount() int   { return t.ch }

func (t *tone) Buffer() []float32 {
	want := int64(t.s.Elapsed.Seconds() * float64(t.rate))
	n := want - t.sent
	if n <= 0 {
		return nil
	}
	out := make([]float32, n*int64(t.ch))
	for i := int64(0); i < n; i++ {
		// beeps for 100ms every second
		pos := t.sent + i
		var v float32
		if pos%int64(t.rate) < int64(t.rate)/10 {
			v = float32(0.5 * math.Sin(2*math.Pi*t.freq*float64(pos)/float64(t.rate)))
		}
		for c := 0; c < t.ch; c++ {
			out[i*int64(t.ch)+int64(c)] = v
		}
	}
	t.sent = want
	return out
}

// clock is the display clock with a fixed target rate.
type clock struct{ fps float64 }

func (c clock) TargetFrameRate() float64 { return c.fps }

func (c clock) Period() time.Duration {
	if c.fps <= 0 {
		return time.Second / 30
	}
	return time.Duration(float64(time.Second) / c.fps)
}
