// Package ffmpeg encodes recordings with an external ffmpeg process.
// Raw video frames are streamed into the process stdin and audio samples
// into an additional pipe, the process muxes both into the output container.
package ffmpeg

import (
	"fmt"
	"strings"

	"github.com/giongto35/movierec/pkg/encoder"
	"github.com/giongto35/movierec/pkg/logger"
	"github.com/giongto35/movierec/pkg/media"
)

const DefaultBinary = "ffmpeg"

// Codec is one ffmpeg video encoder with its container.
type Codec struct {
	name     string
	ext      string
	maxSize  int
	evenSize bool
	presets  []string
	alpha    func(attrs encoder.Attributes) bool
	video    func(conf encoder.Config) []string
	audio    []string

	bin string
}

// H264 encodes into MP4 with libx264 and AAC.
func H264() Codec {
	return Codec{
		name:     "h264",
		ext:      "mp4",
		maxSize:  4096,
		evenSize: true,
		presets:  []string{"", "default"},
		alpha:    func(encoder.Attributes) bool { return false },
		video: func(conf encoder.Config) []string {
			crf := [...]string{"28", "23", "18"}[conf.Video.BitRateMode]
			return []string{"-c:v", "libx264", "-preset", "medium", "-crf", crf, "-pix_fmt", "yuv420p",
				"-movflags", "+faststart"}
		},
		audio: []string{"-c:a", "aac", "-b:a", "192k"},
		bin:   DefaultBinary,
	}
}

// VP8 encodes into WebM with libvpx and Opus, keeps the alpha channel.
func VP8() Codec {
	return Codec{
		name:    "vp8",
		ext:     "webm",
		maxSize: 16384,
		presets: []string{"", "default"},
		alpha:   func(encoder.Attributes) bool { return true },
		video: func(conf encoder.Config) []string {
			rate := [...]string{"1M", "4M", "8M"}[conf.Video.BitRateMode]
			args := []string{"-c:v", "libvpx", "-b:v", rate, "-crf", "10", "-deadline", "realtime"}
			if conf.Video.IncludeAlpha {
				return append(args, "-pix_fmt", "yuva420p", "-auto-alt-ref", "0")
			}
			return append(args, "-pix_fmt", "yuv420p")
		},
		audio: []string{"-c:a", "libopus", "-b:a", "128k"},
		bin:   DefaultBinary,
	}
}

// ProRes encodes into QuickTime, the alpha channel is kept only by 4444 profiles.
func ProRes() Codec {
	profiles := map[string]string{
		"422proxy": "0",
		"422lt":    "1",
		"422":      "2",
		"422hq":    "3",
		"4444":     "4",
		"4444xq":   "5",
	}
	is4444 := func(attrs encoder.Attributes) bool { return strings.HasPrefix(proResPreset(attrs), "4444") }
	return Codec{
		name:    "prores",
		ext:     "mov",
		maxSize: 8192,
		presets: []string{"", "422proxy", "422lt", "422", "422hq", "4444", "4444xq"},
		alpha:   is4444,
		video: func(conf encoder.Config) []string {
			args := []string{"-c:v", "prores_ks", "-profile:v", profiles[proResPreset(conf.Attrs)], "-vendor", "apl0"}
			switch {
			case conf.Video.IncludeAlpha:
				return append(args, "-pix_fmt", "yuva444p10le", "-alpha_bits", "16")
			case is4444(conf.Attrs):
				return append(args, "-pix_fmt", "yuv444p10le")
			}
			return append(args, "-pix_fmt", "yuv422p10le")
		},
		audio: []string{"-c:a", "pcm_s16le"},
		bin:   DefaultBinary,
	}
}

func proResPreset(attrs encoder.Attributes) string {
	if attrs.Preset == "" || attrs.IsCustom() {
		return "422hq"
	}
	return attrs.Preset
}

// WithBinary sets a custom path to the ffmpeg executable.
func (c Codec) WithBinary(path string) Codec {
	if path != "" {
		c.bin = path
	}
	return c
}

func (c Codec) Name() string                                       { return c.name }
func (c Codec) Extension() string                                  { return c.ext }
func (c Codec) PixelFormat(_ encoder.Attributes) media.PixelFormat { return media.RGBA32 }

func (c Codec) SupportsResolution(_ encoder.Attributes, w, h int) error {
	if w < 1 || h < 1 || w > c.maxSize || h > c.maxSize {
		return fmt.Errorf("%w: %v encoder supports resolutions up to %vx%v, got %vx%v",
			encoder.ErrUnsupportedResolution, c.name, c.maxSize, c.maxSize, w, h)
	}
	if c.evenSize && (w%2 != 0 || h%2 != 0) {
		return fmt.Errorf("%w: %v encoder requires even width and height, got %vx%v",
			encoder.ErrUnsupportedResolution, c.name, w, h)
	}
	return nil
}

func (c Codec) SupportsTransparency(attrs encoder.Attributes) error {
	if !c.alpha(attrs) {
		return fmt.Errorf("%w: %v encoder (preset %q) can't keep the alpha channel",
			encoder.ErrUnsupportedTransparency, c.name, attrs.Preset)
	}
	return nil
}

func (c Codec) Open(conf encoder.Config, log *logger.Logger) (encoder.Session, error) {
	args, err := c.Args(conf)
	if err != nil {
		return nil, err
	}
	s, err := start(c.bin, args, conf, log)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Args builds the ffmpeg command line for the session config.
func (c Codec) Args(conf encoder.Config) ([]string, error) {
	if !conf.Video.FrameRate.IsValid() {
		return nil, fmt.Errorf("invalid frame rate %v", conf.Video.FrameRate)
	}
	if !c.hasPreset(conf.Attrs.Preset) {
		return nil, fmt.Errorf("unknown %v preset %q, use one of %q", c.name, conf.Attrs.Preset, c.presets)
	}

	v := conf.Video
	args := []string{
		"-hide_banner", "-loglevel", "error", "-nostdin", "-y",
		"-f", "rawvideo",
		"-pix_fmt", c.PixelFormat(conf.Attrs).String(),
		"-s", fmt.Sprintf("%dx%d", v.Width, v.Height),
		"-framerate", v.FrameRate.String(),
		"-i", "pipe:0",
	}
	if a := conf.Audio; a != nil {
		args = append(args,
			"-f", "f32le",
			"-ar", fmt.Sprint(a.SampleRate.Num),
			"-ac", fmt.Sprint(a.ChannelCount),
			"-i", "pipe:3",
		)
	}
	args = append(args, "-map", "0:v")
	if conf.Audio != nil {
		args = append(args, "-map", "1:a")
	}

	if conf.Attrs.IsCustom() {
		custom, err := ParseOptions(conf.Attrs.CustomOptions)
		if err != nil {
			return nil, err
		}
		args = append(args, custom...)
	} else {
		args = append(args, c.video(conf)...)
	}

	color, err := colorArgs(conf.Attrs.ColorDefinition)
	if err != nil {
		return nil, err
	}
	args = append(args, color...)

	if a := conf.Audio; a != nil {
		args = append(args, c.audio...)
		if a.Language != "" {
			args = append(args, "-metadata:s:a:0", "language="+a.Language)
		}
	}
	return append(args, conf.Path), nil
}

func (c Codec) hasPreset(p string) bool {
	if p == encoder.PresetCustom {
		return true
	}
	for _, x := range c.presets {
		if strings.EqualFold(x, p) {
			return true
		}
	}
	return false
}

func colorArgs(def string) ([]string, error) {
	var space string
	switch strings.ToLower(def) {
	case "":
		return nil, nil
	case "rec709", "bt709":
		space = "bt709"
	case "rec601", "bt601":
		space = "smpte170m"
	case "rec2020", "bt2020":
		return []string{"-colorspace", "bt2020nc", "-color_primaries", "bt2020", "-color_trc", "bt2020-10"}, nil
	default:
		return nil, fmt.Errorf("unknown color definition %q", def)
	}
	return []string{"-colorspace", space, "-color_primaries", space, "-color_trc", space}, nil
}
