package naming

import (
	"path/filepath"
	"regexp"
	"testing"
	"time"

	oss "github.com/giongto35/movierec/pkg/os"
	"github.com/giongto35/movierec/pkg/session"
)

func TestBuildAbsolutePath(t *testing.T) {
	project := t.TempDir()
	dirs := Dirs{
		Project:         project,
		Assets:          filepath.Join(project, "Assets"),
		StreamingAssets: filepath.Join(project, "Assets", "StreamingAssets"),
	}
	s := &session.Session{
		ID:           "0b1c2d3e-aaaa-bbbb-cccc-000000000000",
		RecorderName: "main/cam",
		Take:         4,
		FrameIndex:   12,
		StartTime:    time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC),
	}

	tests := []struct {
		name string
		root Root
		dir  string
		tpl  string
		ext  string
		want string
	}{
		{
			name: "project",
			root: Project, dir: "recordings", tpl: "%recorder%_take%take%", ext: "mp4",
			want: filepath.Join(project, "recordings", "main_cam_take004.mp4"),
		},
		{
			name: "assets with date",
			root: Assets, dir: "Movies/%date:2006%", tpl: "%date:20060102-150405%", ext: "webm",
			want: filepath.Join(project, "Assets", "Movies", "2021", "20210314-150926.webm"),
		},
		{
			name: "streaming assets",
			root: StreamingAssets, dir: "", tpl: "%session%_%frame%", ext: "mov",
			want: filepath.Join(project, "Assets", "StreamingAssets", "0b1c2d3e_0012.mov"),
		},
		{
			name: "absolute",
			root: Absolute, dir: filepath.Join(project, "abs"), tpl: "clip", ext: "zip",
			want: filepath.Join(project, "abs", "clip.zip"),
		},
		{
			name: "empty name",
			root: Project, dir: "x", tpl: "", ext: "zip",
			want: filepath.Join(project, "x", "recording.zip"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.root, tt.dir, tt.tpl, dirs)
			if got := r.BuildAbsolutePath(s, tt.ext); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRandomName(t *testing.T) {
	r := New(Project, "", "rec_%rand:6%", Dirs{Project: t.TempDir()})
	name := filepath.Base(r.BuildAbsolutePath(nil, ""))
	if !regexp.MustCompile(`^rec_[a-zA-Z]{6}$`).MatchString(name) {
		t.Errorf("wrong name %v", name)
	}
}

func TestCreateDirectory(t *testing.T) {
	project := t.TempDir()
	s := &session.Session{RecorderName: "r", Take: 1}
	r := New(Project, "a/%recorder%/b", "x", Dirs{Project: project})
	if err := r.CreateDirectory(s); err != nil {
		t.Fatal(err)
	}
	if !oss.IsDir(filepath.Join(project, "a", "r", "b")) {
		t.Errorf("no dir")
	}
}

func TestParseRoot(t *testing.T) {
	for in, want := range map[string]Root{"": Project, "assets": Assets, "StreamingAssets": StreamingAssets, "absolute": Absolute} {
		if got, err := ParseRoot(in); err != nil || got != want {
			t.Errorf("%q: %v %v", in, got, err)
		}
	}
	if _, err := ParseRoot("desktop"); err == nil {
		t.Errorf("unknown root should fail")
	}
}
