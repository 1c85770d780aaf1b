package ffmpeg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/giongto35/movierec/pkg/encoder"
	"github.com/giongto35/movierec/pkg/logger"
	"github.com/giongto35/movierec/pkg/media"
	"github.com/hashicorp/go-multierror"
)

// ErrNoBinary means the ffmpeg executable can't be found.
var ErrNoBinary = errors.New("ffmpeg executable not found")

// pending buffers per pipe
const queueSize = 4

type session struct {
	cmd    *exec.Cmd
	video  *pipe
	audio  *pipe
	stderr *tail

	conf     encoder.Config
	next     int64
	prev     []byte
	repeated int
	stats    encoder.Stats
	log   *logger.Logger
}

// pipe writes the queued buffers into the process in a separate goroutine.
type pipe struct {
	w    io.WriteCloser
	buf  chan []byte
	done chan struct{}

	mu  sync.Mutex
	err error
}

func newPipe(w io.WriteCloser) *pipe {
	p := &pipe{w: w, buf: make(chan []byte, queueSize), done: make(chan struct{})}
	go p.loop()
	return p
}

func (p *pipe) loop() {
	defer close(p.done)
	for data := range p.buf {
		if p.Err() != nil {
			continue
		}
		if _, err := p.w.Write(data); err != nil {
			p.fail(err)
		}
	}
	if err := p.w.Close(); err != nil {
		p.fail(err)
	}
}

func (p *pipe) fail(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
}

func (p *pipe) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *pipe) Write(data []byte) error {
	if err := p.Err(); err != nil {
		return err
	}
	p.buf <- data
	return nil
}

func (p *pipe) Close() error {
	close(p.buf)
	<-p.done
	return p.Err()
}

// tail keeps the last bytes of the process output.
type tail struct {
	mu  sync.Mutex
	max int
	b   []byte
}

func (t *tail) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.b = append(t.b, p...)
	if len(t.b) > t.max {
		t.b = t.b[len(t.b)-t.max:]
	}
	return len(p), nil
}

func (t *tail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.b)
}

func start(bin string, args []string, conf encoder.Config, log *logger.Logger) (*session, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoBinary, err)
	}
	if conf.Audio != nil && runtime.GOOS == "windows" {
		return nil, fmt.Errorf("audio pipe is not supported on %v", runtime.GOOS)
	}

	cmd := exec.Command(path, args...)
	stderr := &tail{max: 4 << 10}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}

	var ar, aw *os.File
	if conf.Audio != nil {
		if ar, aw, err = os.Pipe(); err != nil {
			return nil, err
		}
		// becomes fd 3 in the child
		cmd.ExtraFiles = []*os.File{ar}
	}

	log.Debug().Msgf("exec: %v %v", path, args)
	if err = cmd.Start(); err != nil {
		_ = stdin.Close()
		if ar != nil {
			_, _ = ar.Close(), aw.Close()
		}
		return nil, err
	}

	s := &session{cmd: cmd, video: newPipe(stdin), stderr: stderr, conf: conf, log: log}
	if ar != nil {
		// the child has its own copy
		_ = ar.Close()
		s.audio = newPipe(aw)
	}
	return s, nil
}

func (s *session) AppendVideo(frame encoder.Frame, at *media.Time) error {
	if s.stats.Closed {
		return encoder.ErrNoSession
	}
	if err := frame.Validate(s.conf.Video, media.RGBA32); err != nil {
		return err
	}
	if at != nil && at.Count < s.next {
		return fmt.Errorf("frame slot %v is behind the last written %v", at.Count, s.next-1)
	}

	data := make([]byte, 0, frame.W*frame.H*4)
	for y := 0; y < frame.H; y++ {
		data = append(data, frame.Row(y)...)
	}

	// the rawvideo input has a constant rate,
	// skipped slots hold the previous frame on the screen
	if at != nil {
		hold := s.prev
		if hold == nil {
			hold = data
		}
		for ; s.next < at.Count; s.next++ {
			if err := s.video.Write(hold); err != nil {
				return fmt.Errorf("ffmpeg video pipe: %w, %v", err, s.stderr)
			}
			s.repeated++
		}
	}

	if err := s.video.Write(data); err != nil {
		return fmt.Errorf("ffmpeg video pipe: %w, %v", err, s.stderr)
	}
	s.prev = data
	s.next++
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
	data := make([]byte, len(samples)*4)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	if err := s.audio.Write(data); err != nil {
		return fmt.Errorf("ffmpeg audio pipe: %w, %v", err, s.stderr)
	}
	s.stats.Samples += len(samples)
	return nil
}

// Close flushes both pipes and waits until ffmpeg finalizes the container.
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
	if err := s.cmd.Wait(); err != nil {
		result = multierror.Append(result, fmt.Errorf("ffmpeg: %w: %v", err, s.stderr))
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	s.log.Debug().Msgf("ffmpeg [%v]: %v frames (%v repeated, %v), %v samples", s.conf.Path,
		s.stats.Frames, s.repeated, media.NewTime(s.next, s.conf.Video.FrameRate).Duration(), s.stats.Samples)
	return nil
}

func (s *session) Path() string         { return s.conf.Path }
func (s *session) Stats() encoder.Stats { return s.stats }
