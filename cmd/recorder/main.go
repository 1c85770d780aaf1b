package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/giongto35/movierec/pkg/assets"
	"github.com/giongto35/movierec/pkg/config"
	"github.com/giongto35/movierec/pkg/encoder"
	"github.com/giongto35/movierec/pkg/encoder/bundle"
	"github.com/giongto35/movierec/pkg/encoder/ffmpeg"
	"github.com/giongto35/movierec/pkg/logger"
	"github.com/giongto35/movierec/pkg/monitoring"
	"github.com/giongto35/movierec/pkg/naming"
	oss "github.com/giongto35/movierec/pkg/os"
	"github.com/giongto35/movierec/pkg/recorder"
	"github.com/giongto35/movierec/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"
)

var Version = "?"

func run() error {
	config.WithFlags(flag.CommandLine)
	conf, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	conf.WithFlags(flag.CommandLine)
	flag.Parse()

	log := logger.NewConsole(conf.Log.Debug, "rec", conf.Log.NoColor)
	log.Info().Msgf("version %s", Version)
	log.Debug().Msgf("conf: %+v", conf)

	registry := encoder.NewRegistry(
		bundle.New(),
		ffmpeg.H264().WithBinary(conf.Recorder.FFmpeg),
		ffmpeg.VP8().WithBinary(conf.Recorder.FFmpeg),
		ffmpeg.ProRes().WithBinary(conf.Recorder.FFmpeg),
	)
	codec, err := registry.Get(conf.Recorder.Codec)
	if err != nil {
		return err
	}
	playback, err := session.ParsePlayback(conf.Recorder.Playback)
	if err != nil {
		return err
	}
	root, err := naming.ParseRoot(conf.Output.Root)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	if conf.Monitoring.IsEnabled() {
		mon := monitoring.New(conf.Monitoring, reg, log)
		if err = mon.Run(); err != nil {
			return err
		}
		defer func() {
			ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = mon.Shutdown(ctx)
		}()
	}

	catalog := assets.New(conf.Assets, log.Tagged("assets"))
	if conf.Assets.WatchMode {
		go func() {
			if err := catalog.Watch(ctx); err != nil {
				log.Error().Err(err).Msg("assets watch")
			}
		}()
	}

	dirs := naming.Dirs{Project: catalog.Project()}
	if roots := catalog.Roots(); len(roots) > 1 {
		dirs.Assets, dirs.StreamingAssets = roots[0], roots[1]
	} else if len(roots) == 1 {
		dirs.Assets, dirs.StreamingAssets = roots[0], filepath.Join(roots[0], "StreamingAssets")
	}
	paths := naming.New(root, conf.Output.Dir, conf.Output.Name, dirs)

	rc := conf.Recorder
	s := session.New(rc.Name, conf.Output.Take, playback, rc.FrameRate)
	display := clock{fps: rc.FrameRate}
	inputs := []recorder.Input{
		newPattern(rc.Width, rc.Height, rc.Transparency, s),
		&tone{freq: 440, rate: rc.Audio.SampleRate, ch: rc.Audio.Channels, mute: rc.Audio.Mute, s: s},
	}
	guard := recorder.NewGuard(metrics, log)
	rec := recorder.New(recorder.Settings{
		Name:    rc.Name,
		Codec:   codec,
		Attrs:   encoder.Attributes{Preset: rc.Preset, ColorDefinition: rc.ColorDefinition, CustomOptions: rc.CustomOptions},
		Quality: encoder.ParseBitRateMode(rc.Quality),
		Verbose: rc.Verbose,
	}, inputs, paths, guard, log,
		recorder.WithClock(display),
		recorder.WithAssets(catalog),
		recorder.WithMetrics(metrics),
		recorder.WithAsyncReadback(true),
	)

	if !rec.BeginRecording(s) {
		return rec.Err()
	}
	defer rec.DisposeEncoder()

	done := oss.ExpectTermination()
	ticker := time.NewTicker(display.Period())
	defer ticker.Stop()
	start := time.Now()
	s.StartTime = start

loop:
	for {
		select {
		case <-done:
			log.Info().Msg("Interrupted")
			break loop
		case now := <-ticker.C:
			s.Advance(now.Sub(start))
			rec.RecordFrame(s)
			if rc.Duration > 0 && s.Elapsed >= rc.Duration {
				break loop
			}
		}
	}

	rec.EndRecording(s)
	st := rec.Stats()
	log.Info().Msgf("Saved %v (%v frames, %v samples)", rec.Output(), st.Frames, st.Samples)
	return nil
}

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "recorder: %v\n", err)
		os.Exit(1)
	}
}
