package config

import (
	"time"

	"github.com/spf13/pflag"
)

type Config struct {
	Recorder   Recorder
	Output     Output
	Assets     Assets
	Monitoring Monitoring
	Log        Log
}

type Recorder struct {
	Name string `default:"movie"`
	// encoder name, see the codec registry
	Codec string `default:"bundle"`
	// constant or variable
	Playback  string  `default:"constant"`
	FrameRate float64 `default:"30"`
	Width     int     `default:"1920"`
	Height    int     `default:"1080"`
	// low, medium, high
	Quality         string `default:"high"`
	Preset          string
	ColorDefinition string
	// ffmpeg args, used only with the custom preset
	CustomOptions string
	Transparency  bool
	Audio         Audio
	// stop after, 0 runs until interrupted
	Duration time.Duration `default:"5s"`
	// path to the ffmpeg executable
	FFmpeg  string `default:"ffmpeg"`
	Verbose bool
}

type Audio struct {
	// record without the audio track
	Mute       bool
	SampleRate int `default:"48000"`
	Channels   int `default:"2"`
}

type Output struct {
	// absolute, project, assets, streamingassets
	Root string `default:"project"`
	Dir  string `default:"recordings"`
	// file name template without extension
	Name string `default:"%recorder%_take%take%_%date:20060102-150405%"`
	Take int    `default:"1"`
}

// Assets is the content library of the host project.
type Assets struct {
	Project string `default:"."`
	// content roots relative to the project
	Roots     []string `default:"[Assets,Assets/StreamingAssets]"`
	Supported []string `default:"[mp4,webm,mov,zip,wav]"`
	WatchMode bool
}

type Monitoring struct {
	Port             int
	URLPrefix        string
	MetricEnabled    bool `json:"metric_enabled"`
	ProfilingEnabled bool `json:"profiling_enabled"`
}

func (c *Monitoring) IsEnabled() bool { return c.MetricEnabled || c.ProfilingEnabled }

type Log struct {
	Debug   bool
	NoColor bool
}

// allows custom config path
var configPath string

func NewConfig() (*Config, error) {
	var conf Config
	if err := LoadConfig(&conf, configPath); err != nil {
		return nil, err
	}
	return &conf, nil
}

// WithFlags adds the config path flag.
func WithFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&configPath, "conf", "c", "", "Set custom configuration file path")
}

// WithFlags adds command line overrides of the config values.
func (c *Config) WithFlags(fs *pflag.FlagSet) *Config {
	fs.StringVar(&c.Recorder.Codec, "codec", c.Recorder.Codec, "Encoder (bundle, h264, vp8, prores)")
	fs.StringVar(&c.Recorder.Playback, "playback", c.Recorder.Playback, "Frame rate playback (constant, variable)")
	fs.Float64Var(&c.Recorder.FrameRate, "fps", c.Recorder.FrameRate, "Frame rate")
	fs.IntVar(&c.Recorder.Width, "width", c.Recorder.Width, "Frame width")
	fs.IntVar(&c.Recorder.Height, "height", c.Recorder.Height, "Frame height")
	fs.DurationVarP(&c.Recorder.Duration, "duration", "d", c.Recorder.Duration, "Recording duration")
	fs.BoolVar(&c.Recorder.Audio.Mute, "mute", c.Recorder.Audio.Mute, "Record without audio")
	fs.BoolVar(&c.Recorder.Transparency, "alpha", c.Recorder.Transparency, "Record transparency")
	fs.StringVarP(&c.Output.Dir, "out", "o", c.Output.Dir, "Output directory")
	fs.IntVar(&c.Output.Take, "take", c.Output.Take, "Take number")
	fs.IntVar(&c.Monitoring.Port, "monitoring.port", c.Monitoring.Port, "Monitoring server port")
	fs.BoolVar(&c.Log.Debug, "debug", c.Log.Debug, "Debug logs")
	return c
}
