// Package recorder records the captured frames and audio of a host
// application into movie files.
package recorder

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/giongto35/movierec/pkg/encoder"
	"github.com/giongto35/movierec/pkg/logger"
	"github.com/giongto35/movierec/pkg/media"
	"github.com/giongto35/movierec/pkg/monitoring"
	"github.com/giongto35/movierec/pkg/session"
)

type State uint8

const (
	Idle State = iota
	Validating
	Configuring
	Active
	Finalizing
	Failed
)

func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Configuring:
		return "configuring"
	case Active:
		return "active"
	case Finalizing:
		return "finalizing"
	case Failed:
		return "failed"
	}
	return "idle"
}

// Settings of a movie recorder.
type Settings struct {
	Name    string
	Codec   encoder.Codec
	Attrs   encoder.Attributes
	Quality encoder.BitRateMode
	// Verbose adds the audio track setup logs.
	Verbose bool
}

// MovieRecorder records one image input and one audio input
// into a movie file per recording.
//
// A recording starts with BeginRecording, gets one RecordFrame call per
// capture tick and ends with EndRecording. The recorder isn't safe for
// concurrent use, the Guard shared between recorders is.
type MovieRecorder struct {
	conf   Settings
	inputs []Input
	paths  PathResolver
	clock  DisplayClock
	assets encoder.AssetIndexer
	guard  *Guard

	handle    *encoder.Handle
	driver    *Driver
	scheduler *Scheduler
	image     ImageInput
	audio     AudioInput

	state    State
	err      error
	started  bool
	playback session.Playback
	hasAudio bool
	written  int
	stats    encoder.Stats
	output   string

	async   bool
	goos    string
	metrics *monitoring.Metrics
	base    *logger.Logger
	log     *logger.Logger
}

type Option func(*MovieRecorder)

// WithClock sets the host display clock of the variable frame rate mode.
func WithClock(c DisplayClock) Option { return func(r *MovieRecorder) { r.clock = c } }

// WithAssets makes the recordings in the content dirs visible to the host.
func WithAssets(a encoder.AssetIndexer) Option { return func(r *MovieRecorder) { r.assets = a } }

func WithMetrics(m *monitoring.Metrics) Option { return func(r *MovieRecorder) { r.metrics = m } }

// WithAsyncReadback makes captured frames arrive with one tick delay.
func WithAsyncReadback(async bool) Option { return func(r *MovieRecorder) { r.async = async } }

func withPlatform(goos string) Option { return func(r *MovieRecorder) { r.goos = goos } }

// New creates a recorder with the image input and the audio input in that order.
// A recorder without its own guard counts only itself.
func New(conf Settings, inputs []Input, paths PathResolver, guard *Guard, log *logger.Logger, opts ...Option) *MovieRecorder {
	r := &MovieRecorder{
		conf:   conf,
		inputs: inputs,
		paths:  paths,
		guard:  guard,
		goos:   runtime.GOOS,
		base:   log.Tagged("rec"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.guard == nil {
		r.guard = NewGuard(r.metrics, log)
	}
	r.log = r.base
	r.handle = encoder.NewHandle(r.assets, r.base)
	return r
}

// BeginRecording validates the inputs and opens a new encoder session.
// On failure the recorder holds no session and the error is kept in Err.
func (r *MovieRecorder) BeginRecording(s *session.Session) bool {
	if r.state == Active {
		r.err = ErrActive
		r.log.Error().Err(ErrActive).Msg("Begin recording")
		return false
	}
	r.err = nil
	r.log = r.base.WithSession(s.ID)

	r.state = Validating
	path, err := r.validate(s)
	if err == nil {
		r.state = Configuring
		err = r.configure(s, path)
	}
	if err != nil {
		return r.fail(err)
	}

	r.guard.Increment()
	r.started = true
	r.state = Active
	return true
}

func (r *MovieRecorder) validate(s *session.Session) (string, error) {
	codec := r.conf.Codec
	if codec == nil {
		return "", encoder.NewConfigurationError("", encoder.ErrUnknownCodec)
	}

	path := r.paths.BuildAbsolutePath(s, codec.Extension())
	if err := r.paths.CreateDirectory(s); err != nil {
		return "", &DirectoryCreationError{Path: filepath.Dir(path), Err: err}
	}

	if len(r.inputs) != 2 {
		return "", &MissingInputError{Reason: fmt.Sprintf("expected an image and an audio input, got %v inputs", len(r.inputs))}
	}
	image, ok := r.inputs[0].(ImageInput)
	if !ok {
		return "", &MissingInputError{Reason: fmt.Sprintf("%v is not an image input", r.inputs[0].Name())}
	}
	audio, ok := r.inputs[1].(AudioInput)
	if !ok {
		return "", &MissingInputError{Reason: fmt.Sprintf("%v is not an audio input", r.inputs[1].Name())}
	}

	w, h := image.OutputSize()
	if w <= 0 || h <= 0 {
		return "", &InvalidResolutionError{Width: w, Height: h}
	}
	if err := codec.SupportsResolution(r.conf.Attrs, w, h); err != nil {
		return "", &UnsupportedResolutionError{Codec: codec.Name(), Width: w, Height: h, Err: err}
	}
	if image.SupportsTransparency() && image.RecordTransparency() {
		if err := codec.SupportsTransparency(r.conf.Attrs); err != nil {
			return "", &UnsupportedTransparencyError{Codec: codec.Name(), Err: err}
		}
	}

	r.image, r.audio = image, audio
	return path, nil
}

func (r *MovieRecorder) configure(s *session.Session, path string) error {
	rate := s.FrameRate
	if s.Playback == session.Variable && r.clock != nil {
		rate = r.clock.TargetFrameRate()
	}
	fps := media.RationalFromFloat(rate)

	w, h := r.image.OutputSize()
	video := encoder.VideoAttributes{
		Width:        uint32(w),
		Height:       uint32(h),
		FrameRate:    fps,
		IncludeAlpha: r.image.SupportsTransparency() && r.image.RecordTransparency(),
		BitRateMode:  r.conf.Quality,
	}

	var audio *encoder.AudioAttributes
	if r.audio.PreserveAudio() {
		audio = &encoder.AudioAttributes{
			SampleRate:   media.Rational{Num: int64(r.audio.SampleRate()), Den: 1},
			ChannelCount: uint16(r.audio.ChannelCount()),
		}
		if r.conf.Verbose {
			r.log.Info().Msgf("Starting to write audio %vch @ %vHz", audio.ChannelCount, audio.SampleRate.Num)
		}
	} else if r.conf.Verbose {
		r.log.Info().Msg("Starting with no audio")
	}

	r.log.Info().Msgf("Encoding video %vx%v@[%v/%v] fps into %v", w, h, fps.Num, fps.Den, path)

	async := r.async
	// camera frames with async readback break the audio sync of webm files on macOS
	if async && r.goos == "darwin" && r.image.Source() == Camera && r.conf.Codec.Extension() == "webm" {
		r.log.Debug().Msg("Async readback is disabled for the camera input")
		async = false
	}

	conf := encoder.Config{Path: path, Video: video, Audio: audio, Attrs: r.conf.Attrs}
	if err := r.handle.Open(r.conf.Codec, conf); err != nil {
		return err
	}

	r.driver = NewDriver(r.image, video, r.conf.Codec.PixelFormat(r.conf.Attrs), async)
	r.scheduler = NewScheduler(fps)
	r.playback = s.Playback
	r.hasAudio = audio != nil
	r.written = 0
	r.stats = encoder.Stats{}
	r.output = path
	return nil
}

func (r *MovieRecorder) fail(err error) bool {
	r.state = Failed
	r.err = err
	r.metrics.Failure(failureReason(err))
	if er := r.handle.Destroy(); er != nil {
		r.log.Warn().Err(er).Msg("Encoder session cleanup")
	}
	r.log.Error().Err(err).Msg("Unable to begin recording")
	return false
}

// RecordFrame records the frame and the audio of the current capture tick.
// Write errors are logged and don't stop the recording.
func (r *MovieRecorder) RecordFrame(s *session.Session) {
	if r.state != Active {
		return
	}
	if len(r.inputs) != 2 {
		r.log.Error().Msgf("Movie recorder needs an image and an audio input, has %v", len(r.inputs))
		return
	}

	if err := r.driver.Deliver(s, r); err != nil {
		r.metrics.WriteError()
		r.log.Warn().Err(err).Msgf("Frame %v write", s.FrameIndex)
	}

	if r.hasAudio {
		// there is no timeline before the first frame
		samples := r.audio.Buffer()
		if r.written > 0 && len(samples) > 0 {
			if err := r.writeAudio(samples); err != nil {
				r.metrics.WriteError()
				r.log.Warn().Err(err).Msg("Audio write")
			}
		}
	}
}

// WriteFrame appends the frame to the encoder session.
// In the variable frame rate mode frames of already written slots are dropped.
func (r *MovieRecorder) WriteFrame(_ *session.Session, frame encoder.Frame, ts float64) error {
	es := r.handle.Session()
	if es == nil {
		return encoder.ErrNoSession
	}

	var at *media.Time
	if r.playback == session.Variable {
		t, ok := r.scheduler.Schedule(ts)
		if !ok {
			r.metrics.Drop()
			r.guard.CheckAndWarn()
			return nil
		}
		at = &t
	}

	if err := es.AppendVideo(frame, at); err != nil {
		return err
	}
	r.written++
	r.metrics.Frame()
	r.guard.CheckAndWarn()
	return nil
}

func (r *MovieRecorder) writeAudio(samples []float32) error {
	es := r.handle.Session()
	if es == nil {
		return encoder.ErrNoSession
	}
	if err := es.AppendAudio(samples); err != nil {
		return err
	}
	r.metrics.Audio(len(samples))
	return nil
}

// EndRecording finalizes the output file.
func (r *MovieRecorder) EndRecording(s *session.Session) {
	if r.state == Active {
		r.state = Finalizing
		if err := r.driver.Flush(s, r); err != nil {
			r.metrics.WriteError()
			r.log.Warn().Err(err).Msg("Last frame write")
		}
	}

	r.DisposeEncoder()

	if r.started {
		r.started = false
		r.guard.Decrement()
		r.log.Info().Msgf("Recording is done: %v frames, %v dropped, %v samples in %v",
			r.stats.Frames, r.scheduler.Dropped(), r.stats.Samples, r.output)
	}
	r.state = Idle
}

// DisposeEncoder releases the encoder session if any.
func (r *MovieRecorder) DisposeEncoder() {
	es := r.handle.Session()
	if err := r.handle.Destroy(); err != nil {
		r.log.Error().Err(err).Msg("Encoder session was closed with errors")
	}
	if es != nil {
		r.stats = es.Stats()
	}
}

func (r *MovieRecorder) State() State { return r.state }

// Err returns the error of the last BeginRecording call.
func (r *MovieRecorder) Err() error { return r.err }

// AsyncReadback reports whether the frames of the recording are read asynchronously.
func (r *MovieRecorder) AsyncReadback() bool {
	if r.driver != nil {
		return r.driver.Async()
	}
	return r.async
}

// Stats of the current or the last finished recording.
func (r *MovieRecorder) Stats() encoder.Stats {
	if es := r.handle.Session(); es != nil {
		return es.Stats()
	}
	return r.stats
}

// Output is the file path of the current or the last recording.
func (r *MovieRecorder) Output() string { return r.output }

func (r *MovieRecorder) Name() string { return r.conf.Name }
