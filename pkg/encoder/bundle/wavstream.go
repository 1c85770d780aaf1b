package bundle

import (
	"encoding/binary"
	"errors"
	"math"
)

type wavStream struct {
	frequency int
	channels  int
	wav       *file
}

const (
	audioFile         = "audio.wav"
	audioFileRIFFSize = 44
)

func newWavStream(dir string, frequency, channels int) (*wavStream, error) {
	wav, err := newFile(dir, audioFile)
	if err != nil {
		return nil, err
	}
	// add pad for RIFF
	if err = wav.Write(make([]byte, audioFileRIFFSize)); err != nil {
		return nil, errors.Join(err, wav.Close())
	}
	return &wavStream{frequency: frequency, channels: channels, wav: wav}, nil
}

// Close puts the actual sizes into the RIFF header.
func (w *wavStream) Close() error {
	var err error
	if size := w.wav.Written(); size >= audioFileRIFFSize {
		err = w.wav.Patch(0, rIFFWavHeader(uint32(size), w.frequency, w.channels))
	}
	return errors.Join(err, w.wav.Close())
}

// Write converts float samples into 16-bit PCM.
func (w *wavStream) Write(samples []float32) error {
	bs := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(bs[i*2:i*2+2], uint16(toPCM16(s)))
	}
	return w.wav.Write(bs)
}

func toPCM16(s float32) int16 {
	if s >= 1 {
		return math.MaxInt16
	}
	if s <= -1 {
		return -math.MaxInt16
	}
	return int16(s * math.MaxInt16)
}

// rIFFWavHeader creates RIFF WAV header.
// See: http://soundfile.sapp.org/doc/WaveFormat
func rIFFWavHeader(fSize uint32, fq int, channels int) []byte {
	const (
		bits  = 16
		chunk = 36
	)
	ch := uint32(channels)
	aSize := fSize - audioFileRIFFSize
	bitrate := uint32(fq) * ch * bits >> 3
	align := ch * bits >> 3
	size := aSize + chunk

	header := make([]byte, audioFileRIFFSize)
	// ChunkID, ChunkSize, Format
	copy(header[0:], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], size)
	copy(header[8:], "WAVE")
	// Subchunk1ID, Subchunk1Size, AudioFormat (PCM)
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16)
	binary.LittleEndian.PutUint16(header[20:], 1)
	// NumChannels, SampleRate
	binary.LittleEndian.PutUint16(header[22:], uint16(ch))
	binary.LittleEndian.PutUint32(header[24:], uint32(fq))
	// ByteRate == SampleRate * NumChannels * BitsPerSample/8
	binary.LittleEndian.PutUint32(header[28:], bitrate)
	// BlockAlign == NumChannels * BitsPerSample/8
	binary.LittleEndian.PutUint16(header[32:], uint16(align))
	// BitsPerSample
	binary.LittleEndian.PutUint16(header[34:], bits)
	// Subchunk2ID, Subchunk2Size == NumSamples * NumChannels * BitsPerSample/8
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], aSize)
	return header
}
