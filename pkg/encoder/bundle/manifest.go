package bundle

import (
	"fmt"
	"strings"
	"time"

	"github.com/giongto35/movierec/pkg/encoder"
	"github.com/giongto35/movierec/pkg/media"
)

const demuxFile = "input.txt"

type entry struct {
	name string
	at   media.Time
	w, h int
}

// writeManifest makes FFMPEG concat demuxer file.
// Frame durations are taken from the gaps between frame slots on the
// encoding grid, the last frame lasts one period.
//
// ffmpeg concat demuxer, see: https://ffmpeg.org/ffmpeg-formats.html#concat
func writeManifest(dir string, frames []entry, conf encoder.Config, pix media.PixelFormat) (err error) {
	demux, err := newFile(dir, demuxFile)
	if err != nil {
		return err
	}
	defer func() {
		if er := demux.Close(); err == nil {
			err = er
		}
	}()

	b := strings.Builder{}
	b.WriteString("ffconcat version 1.0\n")
	b.WriteString(meta("v", "1"))
	b.WriteString(meta("date", time.Now().Format("20060102")))
	b.WriteString(meta("fps", conf.Video.FrameRate))
	b.WriteString(meta("pix", pix))
	b.WriteString(meta("alpha", conf.Video.IncludeAlpha))
	b.WriteString(meta("quality", conf.Video.BitRateMode))
	if conf.Audio != nil {
		b.WriteString(meta("freq", conf.Audio.SampleRate.Num))
		b.WriteString(meta("channels", conf.Audio.ChannelCount))
	}
	if conf.Attrs.ColorDefinition != "" {
		b.WriteString(meta("color", conf.Attrs.ColorDefinition))
	}
	b.WriteString("\n")

	period := conf.Video.FrameRate.Period()
	for i, f := range frames {
		slots := int64(1)
		if i+1 < len(frames) {
			slots = frames[i+1].at.Count - f.at.Count
		}
		fmt.Fprintf(&b, "file %v\nduration %f\n%s%s", f.name, float64(slots)*period,
			metaf("width", f.w), metaf("height", f.h))
	}

	return demux.WriteString(b.String())
}

// meta adds stream_meta key value line.
func meta(key string, value any) string { return fmt.Sprintf("stream_meta %s '%v'\n", key, value) }

// metaf adds file_packet_meta key value line.
func metaf(key string, value any) string {
	return fmt.Sprintf("file_packet_meta %s '%v'\n", key, value)
}
