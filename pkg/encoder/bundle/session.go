package bundle

import (
	"fmt"
	"os"

	"github.com/giongto35/movierec/pkg/encoder"
	"github.com/giongto35/movierec/pkg/logger"
	"github.com/giongto35/movierec/pkg/media"
	oss "github.com/giongto35/movierec/pkg/os"
	"github.com/hashicorp/go-multierror"
)

// staging directory suffix, the files stay there until the session is closed
const partsExt = ".parts"

type session struct {
	conf encoder.Config
	pix  media.PixelFormat
	dir  string

	video  *rawStream
	audio  *wavStream
	frames []entry
	next   int64

	stats encoder.Stats
	log   *logger.Logger
}

func newSession(conf encoder.Config, pix media.PixelFormat, log *logger.Logger) (*session, error) {
	if !conf.Video.FrameRate.IsValid() {
		return nil, fmt.Errorf("invalid frame rate %v", conf.Video.FrameRate)
	}

	dir := conf.Path + partsExt
	if err := os.RemoveAll(dir); err != nil {
		return nil, err
	}
	if err := oss.CheckCreateDir(dir); err != nil {
		return nil, err
	}

	s := &session{conf: conf, pix: pix, dir: dir, video: newRawStream(dir), log: log}
	if conf.Audio != nil {
		audio, err := newWavStream(dir, int(conf.Audio.SampleRate.Num), int(conf.Audio.ChannelCount))
		if err != nil {
			_ = os.RemoveAll(dir)
			return nil, err
		}
		s.audio = audio
	}
	return s, nil
}

func (s *session) AppendVideo(frame encoder.Frame, at *media.Time) error {
	if s.stats.Closed {
		return encoder.ErrNoSession
	}
	if err := frame.Validate(s.conf.Video, s.pix); err != nil {
		return err
	}

	t := media.NewTime(s.next, s.conf.Video.FrameRate)
	if at != nil {
		if at.Count < s.next {
			return fmt.Errorf("frame slot %v is behind the last written %v", at.Count, s.next-1)
		}
		t = *at
	}
	name := s.video.Write(t.Count, frame)
	s.frames = append(s.frames, entry{name: name, at: t, w: frame.W, h: frame.H})
	s.next = t.Count + 1
	s.stats.Frames++
	return nil
}

func (s *session) AppendAudio(samples []float32) error {
	if s.stats.Closed {
		return encoder.ErrNoSession
	}
	if s.audio == nil {
		return fmt.Errorf("no audio track in [%v]", s.conf.Path)
	}
	if err := s.audio.Write(samples); err != nil {
		return err
	}
	s.stats.Samples += len(samples)
	return nil
}

// Close waits for all pending writes, writes the manifest and
// packs everything into the output file.
func (s *session) Close() error {
	if s.stats.Closed {
		return nil
	}
	s.stats.Closed = true

	var result *multierror.Error
	result = multierror.Append(result, s.video.Close())
	if s.audio != nil {
		result = multierror.Append(result, s.audio.Close())
	}
	result = multierror.Append(result, writeManifest(s.dir, s.frames, s.conf, s.pix))
	if result.ErrorOrNil() == nil {
		result = multierror.Append(result, pack(s.dir, s.conf.Path))
	}
	if err := result.ErrorOrNil(); err != nil {
		s.log.Error().Err(err).Msgf("bundle [%v] is broken, the parts are kept in [%v]", s.conf.Path, s.dir)
		return err
	}
	if err := os.RemoveAll(s.dir); err != nil {
		s.log.Warn().Err(err).Msg("staging cleanup")
	}
	s.log.Debug().Msgf("bundle [%v]: %v frames, %v samples", s.conf.Path, s.stats.Frames, s.stats.Samples)
	return nil
}

func (s *session) Path() string         { return s.conf.Path }
func (s *session) Stats() encoder.Stats { return s.stats }
