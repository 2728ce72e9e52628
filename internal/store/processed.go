package store

import "sync"

// ProcessedSet tracks the document filenames already handled in one
// batch run. It is shared across the worker pool, so membership checks
// and inserts are atomic: CheckAndAdd closes the window where two
// workers both pass a "not yet processed" check for the same filename.
type ProcessedSet struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewProcessedSet builds a set seeded with the given names.
func NewProcessedSet(names ...string) *ProcessedSet {
	s := &ProcessedSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		s.names[name] = struct{}{}
	}
	return s
}

// Contains reports whether name has been processed.
func (s *ProcessedSet) Contains(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.names[name]
	return ok
}

// CheckAndAdd inserts name and reports whether it was newly added. A
// false return means another worker (or a previous run) already claimed
// it.
func (s *ProcessedSet) CheckAndAdd(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[name]; ok {
		return false
	}
	s.names[name] = struct{}{}
	return true
}

// Len returns the number of processed names.
func (s *ProcessedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.names)
}
