package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/go-audio/wav"
)

func TestWAVEncoderRoundTripsSamples(t *testing.T) {
	t.Parallel()

	want := []int16{0, 1200, -1200, 32767, -32768}
	pcm := make([]byte, len(want)*2)
	for i, sample := range want {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(sample))
	}

	data, err := NewWAVEncoder(16000, 1).Encode(pcm)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Fatalf("expected RIFF header, got %q", data[:4])
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		t.Fatalf("decoder rejected output")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if dec.SampleRate != 16000 || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Fatalf("unexpected format: rate=%d chans=%d depth=%d", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	if len(buf.Data) != len(want) {
		t.Fatalf("unexpected sample count: %d", len(buf.Data))
	}
	for i, sample := range want {
		if buf.Data[i] != int(sample) {
			t.Fatalf("sample %d: got %d want %d", i, buf.Data[i], sample)
		}
	}
}

func TestWAVEncoderRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := NewWAVEncoder(0, 0).Encode([]byte{1}); err == nil {
		t.Fatalf("expected error for input without a full sample")
	}
}

func TestMemoryFileSeekAndOverwrite(t *testing.T) {
	t.Parallel()

	m := &memoryFile{}
	_, _ = m.Write([]byte("abcdef"))
	if _, err := m.Seek(2, io.SeekStart); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	_, _ = m.Write([]byte("XY"))
	if got := string(m.Bytes()); got != "abXYef" {
		t.Fatalf("unexpected contents: %q", got)
	}
	if _, err := m.Seek(-1, io.SeekStart); err == nil {
		t.Fatalf("expected negative seek error")
	}
	if pos, _ := m.Seek(0, io.SeekEnd); pos != 6 {
		t.Fatalf("unexpected end position: %d", pos)
	}
}
