package usecase

import (
	"sync"

	"voxbridge/internal/domain"
	"voxbridge/internal/ports"
)

type activeSession struct {
	id        string
	mode      domain.CaptureMode
	languages domain.LanguagePair
	cancel    func()
	audio     ports.AudioSession

	// stream mode
	stream     ports.StreamingSession
	eventsDone chan struct{}

	// upload mode
	uploads  *uploadTicker
	uploaded int

	audioDone chan struct{}

	stateMu sync.Mutex
	state   domain.SessionState

	endOnce  sync.Once
	finished chan struct{}
}

func (s *activeSession) setState(state domain.SessionState) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state = state
}

func (s *activeSession) getState() domain.SessionState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

// claimEnd reports whether the caller is the one tearing the session down.
// A user stop and a provider-initiated end may race; only one wins.
func (s *activeSession) claimEnd() bool {
	claimed := false
	s.endOnce.Do(func() {
		claimed = true
	})
	return claimed
}
