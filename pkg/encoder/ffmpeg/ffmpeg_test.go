package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/giongto35/movierec/pkg/encoder"
	"github.com/giongto35/movierec/pkg/logger"
	"github.com/giongto35/movierec/pkg/media"
)

var l = logger.Default()

func conf(w, h uint32, audio bool, attrs encoder.Attributes) encoder.Config {
	c := encoder.Config{
		Path: "out.mp4",
		Video: encoder.VideoAttributes{
			Width: w, Height: h, FrameRate: media.Rational{Num: 30000, Den: 1001}, BitRateMode: encoder.BitRateHigh,
		},
		Attrs: attrs,
	}
	if audio {
		c.Audio = &encoder.AudioAttributes{SampleRate: media.Rational{Num: 48000, Den: 1}, ChannelCount: 2, Language: "eng"}
	}
	return c
}

func TestArgs(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		conf  encoder.Config
		has   []string
		not   []string
	}{
		{
			name:  "h264 video only",
			codec: H264(),
			conf:  conf(1920, 1080, false, encoder.Attributes{}),
			has:   []string{"-s 1920x1080", "-framerate 30000/1001", "-i pipe:0", "-c:v libx264", "-crf 18", "-pix_fmt yuv420p"},
			not:   []string{"pipe:3", "-c:a"},
		},
		{
			name:  "h264 with audio",
			codec: H264(),
			conf:  conf(1280, 720, true, encoder.Attributes{ColorDefinition: "rec709"}),
			has: []string{"-f f32le -ar 48000 -ac 2 -i pipe:3", "-map 0:v -map 1:a", "-c:a aac",
				"-colorspace bt709", "-metadata:s:a:0 language=eng"},
		},
		{
			name:  "vp8 alpha",
			codec: VP8(),
			conf: func() encoder.Config {
				c := conf(640, 480, false, encoder.Attributes{})
				c.Video.IncludeAlpha = true
				return c
			}(),
			has: []string{"-c:v libvpx", "-b:v 8M", "-pix_fmt yuva420p", "-auto-alt-ref 0"},
		},
		{
			name:  "prores 4444",
			codec: ProRes(),
			conf:  conf(640, 480, true, encoder.Attributes{Preset: "4444"}),
			has:   []string{"-c:v prores_ks", "-profile:v 4", "-pix_fmt yuv444p10le", "-c:a pcm_s16le"},
		},
		{
			name:  "prores default",
			codec: ProRes(),
			conf:  conf(640, 480, false, encoder.Attributes{}),
			has:   []string{"-profile:v 3", "-pix_fmt yuv422p10le"},
		},
		{
			name:  "custom options",
			codec: H264(),
			conf: conf(640, 480, false, encoder.Attributes{
				Preset:        encoder.PresetCustom,
				CustomOptions: `-c:v libx264 -crf 20 -x264-params "keyint=60:min-keyint=60"`,
			}),
			has: []string{"-c:v libx264 -crf 20 -x264-params keyint=60:min-keyint=60"},
			not: []string{"-preset medium"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := tt.codec.Args(tt.conf)
			if err != nil {
				t.Fatal(err)
			}
			line := strings.Join(args, " ")
			for _, s := range tt.has {
				if !strings.Contains(line, s) {
					t.Errorf("no [%v] in [%v]", s, line)
				}
			}
			for _, s := range tt.not {
				if strings.Contains(line, s) {
					t.Errorf("unexpected [%v] in [%v]", s, line)
				}
			}
			if args[len(args)-1] != tt.conf.Path {
				t.Errorf("the output should go last, got %v", args[len(args)-1])
			}
		})
	}
}

func TestArgsErrors(t *testing.T) {
	tests := []struct {
		name  string
		attrs encoder.Attributes
		is    error
	}{
		{name: "unknown preset", attrs: encoder.Attributes{Preset: "ultra"}},
		{name: "unknown color", attrs: encoder.Attributes{ColorDefinition: "aces"}},
		{name: "empty custom", attrs: encoder.Attributes{Preset: encoder.PresetCustom}, is: encoder.ErrMalformedOptions},
		{name: "bad custom", attrs: encoder.Attributes{Preset: encoder.PresetCustom, CustomOptions: "crf 20"},
			is: encoder.ErrMalformedOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := H264().Args(conf(640, 480, false, tt.attrs))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		in   string
		want []string
		err  bool
	}{
		{in: "-crf 20", want: []string{"-crf", "20"}},
		{in: "  -an   -tune film ", want: []string{"-an", "-tune", "film"}},
		{in: "-qp -1", want: []string{"-qp", "-1"}},
		{in: `-metadata "title=My Take"`, want: []string{"-metadata", "title=My Take"}},
		{in: "20 -crf", err: true},
		{in: "-crf 20 30", err: true},
	}
	for _, tt := range tests {
		got, err := ParseOptions(tt.in)
		if tt.err {
			if !errors.Is(err, encoder.ErrMalformedOptions) {
				t.Errorf("%q: expected malformed options, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("%q: got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		codec Codec
		w, h  int
		attrs encoder.Attributes
		size  bool
		alpha bool
	}{
		{codec: H264(), w: 1920, h: 1080, size: true},
		{codec: H264(), w: 1921, h: 1080},
		{codec: H264(), w: 4098, h: 2160},
		{codec: VP8(), w: 7680, h: 4320, size: true, alpha: true},
		{codec: ProRes(), w: 8192, h: 4320, size: true},
		{codec: ProRes(), w: 4096, h: 2160, attrs: encoder.Attributes{Preset: "4444xq"}, size: true, alpha: true},
		{codec: ProRes(), w: 0, h: 720},
	}
	for _, tt := range tests {
		err := tt.codec.SupportsResolution(tt.attrs, tt.w, tt.h)
		if (err == nil) != tt.size {
			t.Errorf("%v %vx%v: %v", tt.codec.Name(), tt.w, tt.h, err)
		}
		if err != nil && !errors.Is(err, encoder.ErrUnsupportedResolution) {
			t.Errorf("wrong error %v", err)
		}
		err = tt.codec.SupportsTransparency(tt.attrs)
		if (err == nil) != tt.alpha {
			t.Errorf("%v %+v alpha: %v", tt.codec.Name(), tt.attrs, err)
		}
		if err != nil && !errors.Is(err, encoder.ErrUnsupportedTransparency) {
			t.Errorf("wrong error %v", err)
		}
	}
}

func TestMissingBinary(t *testing.T) {
	c := H264().WithBinary(filepath.Join(t.TempDir(), "no-ffmpeg"))
	if _, err := c.Open(conf(64, 64, false, encoder.Attributes{}), l); !errors.Is(err, ErrNoBinary) {
		t.Errorf("expected no binary error, got %v", err)
	}
}

// catBinary makes a stand-in for ffmpeg that stores its raw input in the output file.
func catBinary(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a shell")
	}
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor a; do out=$a; done\ncat > \"$out\"\n"
	if err := os.WriteFile(bin, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return bin
}

func TestSkippedSlotsHoldFrame(t *testing.T) {
	c := conf(4, 4, false, encoder.Attributes{})
	c.Path = filepath.Join(t.TempDir(), "out.webm")
	c.Video.FrameRate = media.Rational{Num: 30, Den: 1}

	s, err := VP8().WithBinary(catBinary(t)).Open(c, l)
	if err != nil {
		t.Fatal(err)
	}
	const size = 4 * 4 * 4
	for i, slot := range []int64{0, 6, 7} {
		data := make([]byte, size)
		data[0] = byte(i + 1)
		at := media.NewTime(slot, c.Video.FrameRate)
		if err = s.AppendVideo(encoder.Frame{Data: data, W: 4, H: 4, Format: media.RGBA32}, &at); err != nil {
			t.Fatal(err)
		}
	}
	behind := media.NewTime(3, c.Video.FrameRate)
	if err = s.AppendVideo(encoder.Frame{Data: make([]byte, size), W: 4, H: 4, Format: media.RGBA32}, &behind); err == nil {
		t.Errorf("a frame behind the written slots should fail")
	}
	if err = s.Close(); err != nil {
		t.Fatal(err)
	}
	if st := s.Stats(); st.Frames != 3 {
		t.Errorf("frames %v, want 3", st.Frames)
	}

	out, err := os.ReadFile(c.Path)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 8*size {
		t.Fatalf("got %v frames on the pipe, want 8", len(out)/size)
	}
	var marks []byte
	for i := 0; i < len(out); i += size {
		marks = append(marks, out[i])
	}
	if got := fmt.Sprint(marks); got != "[1 1 1 1 1 1 2 3]" {
		t.Errorf("frames on the pipe %v", got)
	}
}

func TestEncode(t *testing.T) {
	if _, err := exec.LookPath(DefaultBinary); err != nil {
		t.Skip("no ffmpeg")
	}
	c := conf(64, 64, true, encoder.Attributes{})
	c.Path = filepath.Join(t.TempDir(), "out.mov")
	c.Video.FrameRate = media.Rational{Num: 30, Den: 1}

	s, err := ProRes().Open(c, l)
	if err != nil {
		t.Fatal(err)
	}
	frame := encoder.Frame{Data: make([]byte, 64*64*4), W: 64, H: 64, Stride: 64 * 4, Format: media.RGBA32}
	for i := 0; i < 30; i++ {
		if err := s.AppendVideo(frame, nil); err != nil {
			t.Fatal(err)
		}
		if err := s.AppendAudio(make([]float32, 1600*2)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(c.Path); err != nil || fi.Size() == 0 {
		t.Errorf("no output, %v", err)
	}
}
