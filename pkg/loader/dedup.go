package loader

import "sync"

// dedupSet is the process-wide set of dedup keys seen during one
// invocation. It is shared across all file-processing goroutines
// because the same event can appear in multiple files after log
// rotation or session resumption.
type dedupSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newDedupSet() *dedupSet {
	return &dedupSet{seen: make(map[string]struct{})}
}

// insert records key and reports whether it was newly added. The
// empty key always inserts: entries without identifiers bypass
// deduplication entirely.
func (s *dedupSet) insert(key string) bool {
	if key == "" {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// size returns the number of distinct keys recorded.
func (s *dedupSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
