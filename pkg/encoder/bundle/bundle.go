// Package bundle implements an encoder that doesn't compress anything.
// It keeps raw video frames and 16-bit PCM audio together with
// an ffconcat manifest in a single zip container, so the recording
// can be transcoded later, i.e.:
//
//	unzip rec.zip -d rec && cd rec
//	ffmpeg -f concat -i input.txt \
//		   -ac 2 -channel_layout stereo -i audio.wav \
//		   -b:a 192K -crf 23 -pix_fmt yuv420p out.mp4
package bundle

import (
	"fmt"

	"github.com/giongto35/movierec/pkg/encoder"
	"github.com/giongto35/movierec/pkg/logger"
	"github.com/giongto35/movierec/pkg/media"
)

const (
	Name      = "bundle"
	MaxSize   = 16384
	extension = "zip"
)

type Codec struct{}

func New() Codec { return Codec{} }

func (Codec) Name() string                                       { return Name }
func (Codec) Extension() string                                  { return extension }
func (Codec) PixelFormat(_ encoder.Attributes) media.PixelFormat { return media.RGBA32 }
func (Codec) SupportsTransparency(_ encoder.Attributes) error    { return nil }

func (Codec) SupportsResolution(_ encoder.Attributes, w, h int) error {
	if w < 1 || h < 1 || w > MaxSize || h > MaxSize {
		return fmt.Errorf("%w: %vx%v, bundle supports up to %vx%v",
			encoder.ErrUnsupportedResolution, w, h, MaxSize, MaxSize)
	}
	return nil
}

func (c Codec) Open(conf encoder.Config, log *logger.Logger) (encoder.Session, error) {
	s, err := newSession(conf, c.PixelFormat(conf.Attrs), log)
	if err != nil {
		return nil, err
	}
	return s, nil
}
