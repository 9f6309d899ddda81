package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const pcmBitDepth = 16

// WAVEncoder wraps raw s16le PCM into a RIFF/WAVE container.
type WAVEncoder struct {
	sampleRate int
	channels   int
}

func NewWAVEncoder(sampleRate int, channels int) *WAVEncoder {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	if channels <= 0 {
		channels = 1
	}
	return &WAVEncoder{sampleRate: sampleRate, channels: channels}
}

func (e *WAVEncoder) ContentType() string { return "audio/wav" }

func (e *WAVEncoder) Extension() string { return ".wav" }

// Encode converts little-endian 16-bit samples into WAV bytes. A trailing odd
// byte is dropped.
func (e *WAVEncoder) Encode(pcm []byte) ([]byte, error) {
	if len(pcm) < 2 {
		return nil, errors.New("no audio samples to encode")
	}

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}

	out := &memoryFile{}
	enc := wav.NewEncoder(out, e.sampleRate, pcmBitDepth, e.channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: e.channels, SampleRate: e.sampleRate},
		Data:           samples,
		SourceBitDepth: pcmBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize wav: %w", err)
	}
	return out.Bytes(), nil
}

// memoryFile is an in-memory io.WriteSeeker; the wav encoder seeks back to
// patch chunk sizes once all samples are written.
type memoryFile struct {
	data []byte
	pos  int64
}

func (m *memoryFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	copy(m.data[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memoryFile) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = m.pos + offset
	case io.SeekEnd:
		next = int64(len(m.data)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if next < 0 {
		return 0, errors.New("negative seek position")
	}
	m.pos = next
	return next, nil
}

func (m *memoryFile) Bytes() []byte {
	return append([]byte(nil), m.data...)
}
