package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/giongto35/movierec/pkg/encoder"
)

// rawStream saves each frame into a separate file.
// Files are written in the background, Close waits for all of them.
type rawStream struct {
	dir string
	wg  sync.WaitGroup

	mu  sync.Mutex
	err error
}

// frame file name: index, size and stride
const videoFile = "f%07d__%dx%d__%d.raw"

func newRawStream(dir string) *rawStream { return &rawStream{dir: dir} }

func frameName(i int64, w, h, stride int) string { return fmt.Sprintf(videoFile, i, w, h, stride) }

// Write copies the frame pixels (the caller may reuse its buffer) and
// schedules the file write.
func (r *rawStream) Write(i int64, frame encoder.Frame) string {
	row := frame.W * frame.Format.BytesPerPixel()
	data := make([]byte, row*frame.H)
	for y := 0; y < frame.H; y++ {
		copy(data[y*row:], frame.Row(y))
	}
	name := frameName(i, frame.W, frame.H, row)
	r.wg.Add(1)
	go r.save(name, data)
	return name
}

func (r *rawStream) save(name string, data []byte) {
	defer r.wg.Done()
	if err := os.WriteFile(filepath.Join(r.dir, name), data, 0644); err != nil {
		r.mu.Lock()
		if r.err == nil {
			r.err = err
		}
		r.mu.Unlock()
	}
}

// Close returns the first failed write if any.
func (r *rawStream) Close() error {
	r.wg.Wait()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// extractFileInfo parses a frame file name.
func extractFileInfo(name string) (w, h, stride int, ok bool) {
	parts := strings.Split(strings.TrimSuffix(name, filepath.Ext(name)), "__")
	if len(parts) != 3 {
		return
	}
	size := strings.Split(parts[1], "x")
	if len(size) != 2 {
		return
	}
	var err error
	if w, err = strconv.Atoi(size[0]); err != nil {
		return
	}
	if h, err = strconv.Atoi(size[1]); err != nil {
		return
	}
	if stride, err = strconv.Atoi(parts[2]); err != nil {
		return
	}
	return w, h, stride, true
}
