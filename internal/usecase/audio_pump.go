package usecase

import (
	"errors"
	"fmt"
	"io"
	"time"

	"voxbridge/internal/domain"
	"voxbridge/internal/ports"
)

// chunkSink receives captured PCM. Streaming sessions and the upload buffer
// both implement it.
type chunkSink interface {
	SendAudio(chunk []byte) error
}

// pumpAudioChunks copies capture output into sink until EOF or an error.
// It reports whether capture ended cleanly.
func pumpAudioChunks(
	audio io.Reader,
	sink chunkSink,
	chunkSize int,
	events ports.EventSink,
	done chan struct{},
) bool {
	defer close(done)

	if chunkSize < 256 {
		chunkSize = 4096
	}

	buf := make([]byte, chunkSize)
	for {
		n, err := audio.Read(buf)
		if n > 0 {
			if sendErr := sink.SendAudio(buf[:n]); sendErr != nil {
				events.SessionError(domain.ErrorCodeAudioStream, fmt.Sprintf("failed to stream audio: %v", sendErr))
				return false
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				events.SessionError(domain.ErrorCodeAudioStream, fmt.Sprintf("audio capture error: %v", err))
				return false
			}
			return true
		}
	}
}

func waitForStream(session ports.StreamingSession, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		_ = session.Close()
		return <-done
	}
}
