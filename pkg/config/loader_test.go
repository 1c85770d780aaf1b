package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestConfigEnv(t *testing.T) {
	var out Config

	t.Setenv("MOVIEREC_RECORDER_CODEC", "vp8")
	t.Setenv("MOVIEREC_RECORDER_FRAMERATE", "59.94")
	t.Setenv("MOVIEREC_OUTPUT_TAKE", "7")

	if err := LoadConfigEnv(&out); err != nil {
		t.Fatal(err)
	}

	if out.Recorder.Codec != "vp8" {
		t.Errorf("codec %v is not vp8", out.Recorder.Codec)
	}
	if out.Recorder.FrameRate != 59.94 {
		t.Errorf("fps %v", out.Recorder.FrameRate)
	}
	if out.Output.Take != 7 {
		t.Errorf("take %v", out.Output.Take)
	}
	// defaults
	if out.Recorder.Width != 1920 || out.Recorder.Audio.SampleRate != 48000 || out.Recorder.Duration != 5*time.Second {
		t.Errorf("no defaults in %+v", out.Recorder)
	}
	if len(out.Assets.Roots) != 2 || out.Assets.Roots[1] != "Assets/StreamingAssets" {
		t.Errorf("roots %v", out.Assets.Roots)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	data := "recorder:\n  codec: prores\n  preset: \"4444\"\n  transparency: true\nmonitoring:\n  port: 9090\n  metricenabled: true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	var out Config
	if err := LoadConfig(&out, dir); err != nil {
		t.Fatal(err)
	}
	if out.Recorder.Codec != "prores" || out.Recorder.Preset != "4444" || !out.Recorder.Transparency {
		t.Errorf("wrong recorder %+v", out.Recorder)
	}
	if !out.Monitoring.IsEnabled() || out.Monitoring.Port != 9090 {
		t.Errorf("wrong monitoring %+v", out.Monitoring)
	}
	if out.Recorder.Playback != "constant" {
		t.Errorf("default playback %v", out.Recorder.Playback)
	}
}

func TestDefaultConfigFile(t *testing.T) {
	var out Config
	if err := LoadConfig(&out, ""); err != nil {
		t.Fatal(err)
	}
	if out.Recorder.Name == "" || out.Output.Name == "" {
		t.Errorf("empty config %+v", out)
	}
}

func TestFlags(t *testing.T) {
	var c Config
	if err := LoadConfigEnv(&c); err != nil {
		t.Fatal(err)
	}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.WithFlags(fs)
	if err := fs.Parse([]string{"--codec", "h264", "--fps=24", "-d", "2s", "--mute"}); err != nil {
		t.Fatal(err)
	}
	if c.Recorder.Codec != "h264" || c.Recorder.FrameRate != 24 || c.Recorder.Duration != 2*time.Second || !c.Recorder.Audio.Mute {
		t.Errorf("flags are not applied %+v", c.Recorder)
	}
	if c.Recorder.Width != 1920 {
		t.Errorf("untouched flags should keep the config value, %v", c.Recorder.Width)
	}
}
