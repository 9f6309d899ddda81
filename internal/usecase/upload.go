package usecase

import (
	"context"
	"sync"
	"time"
)

// pcmBuffer accumulates captured PCM between uploads.
type pcmBuffer struct {
	mu   sync.Mutex
	data []byte
}

func (b *pcmBuffer) SendAudio(chunk []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, chunk...)
	return nil
}

// Drain returns whole 16-bit samples and clears them from the buffer. A
// trailing odd byte stays for the next drain.
func (b *pcmBuffer) Drain() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.data) &^ 1
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, b.data[:n])
	b.data = append(b.data[:0], b.data[n:]...)
	return out
}

func (b *pcmBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// uploadTicker drains the buffer on a fixed interval and hands each non-empty
// batch to flush. Stop halts the ticker exactly once; no flush starts after
// Stop returns and an in-flight flush sees its context canceled.
type uploadTicker struct {
	buffer   *pcmBuffer
	interval time.Duration
	flush    func(ctx context.Context, pcm []byte)

	ctx    context.Context
	cancel context.CancelFunc

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func newUploadTicker(ctx context.Context, buffer *pcmBuffer, interval time.Duration, flush func(ctx context.Context, pcm []byte)) *uploadTicker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(ctx)
	return &uploadTicker{
		buffer:   buffer,
		interval: interval,
		flush:    flush,
		ctx:      ctx,
		cancel:   cancel,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (u *uploadTicker) Run() {
	defer close(u.done)
	ctx := u.ctx

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-u.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case <-u.stopCh:
				return
			default:
			}
			pcm := u.buffer.Drain()
			if len(pcm) == 0 {
				continue
			}
			u.flush(ctx, pcm)
		}
	}
}

// Stop ends the loop, waits for any in-flight flush and discards audio that
// was never uploaded.
func (u *uploadTicker) Stop() {
	u.stopOnce.Do(func() {
		close(u.stopCh)
		u.cancel()
	})
	<-u.done
	u.buffer.Drain()
}
