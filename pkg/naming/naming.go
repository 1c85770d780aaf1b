// Package naming resolves output paths of the recordings.
package naming

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	oss "github.com/giongto35/movierec/pkg/os"
	"github.com/giongto35/movierec/pkg/session"
)

// Root is the base directory of the output path.
type Root uint8

const (
	Absolute Root = iota
	Project
	Assets
	StreamingAssets
)

func ParseRoot(s string) (Root, error) {
	switch strings.ToLower(s) {
	case "absolute":
		return Absolute, nil
	case "", "project":
		return Project, nil
	case "assets":
		return Assets, nil
	case "streamingassets":
		return StreamingAssets, nil
	}
	return Absolute, fmt.Errorf("unknown output root %q", s)
}

// Dirs are the content directories of the host project.
type Dirs struct {
	Project         string
	Assets          string
	StreamingAssets string
}

// naming regexp
var (
	reDate     = regexp.MustCompile(`%date:(.*?)%`)
	reRand     = regexp.MustCompile(`%rand:(\d+)%`)
	reRecorder = regexp.MustCompile(`%recorder%`)
	reTake     = regexp.MustCompile(`%take%`)
	reSession  = regexp.MustCompile(`%session%`)
	reFrame    = regexp.MustCompile(`%frame%`)
)

type Resolver struct {
	root Root
	dir  string
	name string
	dirs Dirs
	now  func() time.Time
}

// New creates the output path resolver.
// Both dir and name params may contain the name placeholders.
func New(root Root, dir, name string, dirs Dirs) *Resolver {
	return &Resolver{root: root, dir: dir, name: name, dirs: dirs, now: time.Now}
}

// BuildAbsolutePath returns the output file path of the session.
// The ext param is the container extension without a dot.
func (r *Resolver) BuildAbsolutePath(s *session.Session, ext string) string {
	name := r.parse(r.name, s)
	if name == "" {
		name = "recording"
	}
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(r.Directory(s), name)
}

// Directory returns the output directory of the session.
func (r *Resolver) Directory(s *session.Session) string {
	dir := r.parse(r.dir, s)
	if r.root == Absolute && filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	base := r.base()
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	return filepath.Join(base, dir)
}

func (r *Resolver) CreateDirectory(s *session.Session) error {
	dir := r.Directory(s)
	if err := oss.CheckCreateDir(dir); err != nil {
		return err
	}
	if !oss.IsDir(dir) {
		return fmt.Errorf("%v is not a directory", dir)
	}
	return nil
}

func (r *Resolver) base() string {
	switch r.root {
	case Assets:
		return r.dirs.Assets
	case StreamingAssets:
		return r.dirs.StreamingAssets
	case Project:
		return r.dirs.Project
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func (r *Resolver) parse(tpl string, s *session.Session) (out string) {
	out = tpl
	if d := reDate.FindStringSubmatch(out); d != nil {
		t := r.now()
		if s != nil && !s.StartTime.IsZero() {
			t = s.StartTime
		}
		out = reDate.ReplaceAllString(out, t.Format(d[1]))
	}
	if rnd := reRand.FindStringSubmatch(out); rnd != nil {
		out = reRand.ReplaceAllString(out, random(rnd[1]))
	}
	if s == nil {
		return
	}
	out = reRecorder.ReplaceAllString(out, sanitize(s.RecorderName))
	out = reTake.ReplaceAllString(out, fmt.Sprintf("%03d", s.Take))
	out = reSession.ReplaceAllString(out, shortID(s.ID))
	out = reFrame.ReplaceAllString(out, fmt.Sprintf("%04d", s.FrameIndex))
	return
}

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func random(num string) string {
	n, err := strconv.Atoi(num)
	if err != nil {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[rand.IntN(len(letterBytes))]
	}
	return string(b)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
