package audio

import "sync"

// PTT tracks one push-to-talk capture session: the first toggle opens a
// stop channel for RecordUntil, the second one closes it.
type PTT struct {
	mu   sync.Mutex
	stop chan struct{}
}

func NewPTT() *PTT { return &PTT{} }

// Start opens a session and returns its stop channel, or nil when one
// is already running.
func (p *PTT) Start() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop != nil {
		return nil
	}
	p.stop = make(chan struct{})
	return p.stop
}

// Stop ends the active session and reports whether there was one. Safe
// to call again after the session already ended.
func (p *PTT) Stop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop == nil {
		return false
	}
	close(p.stop)
	p.stop = nil
	return true
}

func (p *PTT) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}
