package testing

import "sync"

// ManualFrameSource is an [animation.FrameSource] that never produces frames
// on its own. It records how the controller starts and stops it so tests
// can assert that an idle controller parks its frame source.
type ManualFrameSource struct {
	mu      sync.Mutex
	running bool
	starts  int
	stops   int
}

// Start marks the source running.
func (s *ManualFrameSource) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.starts++
}

// Stop marks the source stopped.
func (s *ManualFrameSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.stops++
}

// Running reports whether the controller currently wants frames.
func (s *ManualFrameSource) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Starts returns how often the source was started.
func (s *ManualFrameSource) Starts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

// Stops returns how often the source was stopped.
func (s *ManualFrameSource) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}
