package conversation

import (
	"sync"
	"time"
)

// Store keeps bounded, expiring histories in process memory.
//
// Locking: mu guards the histories map and lastCleanup. Every history has its
// own mutex, and it is always acquired while mu is still held, so Cleanup
// (which holds mu exclusively) never removes a history someone is writing to.
type Store struct {
	mu          sync.RWMutex
	histories   map[string]*history
	lastCleanup time.Time

	maxEntries    int
	contextWindow int
	ttl           time.Duration
	now           func() time.Time
}

var _ Memory = (*Store)(nil)

// New creates a Store, applying defaults for unset options.
func New(opts Options) *Store {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.ContextWindow <= 0 {
		opts.ContextWindow = DefaultContextWindow
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Store{
		histories:     make(map[string]*history),
		lastCleanup:   opts.Now(),
		maxEntries:    opts.MaxEntries,
		contextWindow: opts.ContextWindow,
		ttl:           opts.TTL,
		now:           opts.Now,
	}
}

// Append records content for userID and keeps only the newest maxEntries.
func (s *Store) Append(userID string, role Role, content string) {
	h := s.lock(userID)
	h.push(Entry{Role: role, Content: content, CreatedAt: s.now()}, s.maxEntries)
	h.mu.Unlock()

	s.maybeCleanup()
}

// AppendExchange records the user line and then the assistant line under one lock.
func (s *Store) AppendExchange(userID, userText, assistantText string) {
	h := s.lock(userID)
	now := s.now()
	h.push(Entry{Role: RoleUser, Content: userText, CreatedAt: now}, s.maxEntries)
	h.push(Entry{Role: RoleAssistant, Content: assistantText, CreatedAt: now}, s.maxEntries)
	h.mu.Unlock()

	s.maybeCleanup()
}

// ContextFor returns up to contextWindow most recent messages in chronological order.
func (s *Store) ContextFor(userID string) []Message {
	s.mu.RLock()
	h, ok := s.histories[userID]
	if !ok {
		s.mu.RUnlock()
		return []Message{}
	}
	h.mu.Lock()
	s.mu.RUnlock()
	defer h.mu.Unlock()

	start := len(h.entries) - s.contextWindow
	if start < 0 {
		start = 0
	}

	out := make([]Message, 0, len(h.entries)-start)
	for _, e := range h.entries[start:] {
		out = append(out, Message{Role: e.Role, Content: e.Content})
	}
	return out
}

// Cleanup keeps entries younger than the TTL and deletes users left empty.
func (s *Store) Cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupLocked(now)
}

// Len returns the number of entries held for userID.
func (s *Store) Len(userID string) int {
	s.mu.RLock()
	h, ok := s.histories[userID]
	if !ok {
		s.mu.RUnlock()
		return 0
	}
	h.mu.Lock()
	s.mu.RUnlock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Users returns the number of tracked users.
func (s *Store) Users() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.histories)
}

// lock returns the locked history of userID, creating it on first use.
func (s *Store) lock(userID string) *history {
	s.mu.Lock()
	h, ok := s.histories[userID]
	if !ok {
		h = &history{}
		s.histories[userID] = h
	}
	h.mu.Lock()
	s.mu.Unlock()
	return h
}

// maybeCleanup runs a cleanup pass at most once per TTL window.
func (s *Store) maybeCleanup() {
	now := s.now()

	s.mu.RLock()
	due := now.Sub(s.lastCleanup) > s.ttl
	s.mu.RUnlock()
	if !due {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another appender may have cleaned up in between.
	if now.Sub(s.lastCleanup) > s.ttl {
		s.cleanupLocked(now)
	}
}

func (s *Store) cleanupLocked(now time.Time) {
	for userID, h := range s.histories {
		h.mu.Lock()
		kept := h.entries[:0]
		for _, e := range h.entries {
			if now.Sub(e.CreatedAt) < s.ttl {
				kept = append(kept, e)
			}
		}
		clear(h.entries[len(kept):])
		h.entries = kept
		empty := len(h.entries) == 0
		h.mu.Unlock()

		if empty {
			delete(s.histories, userID)
		}
	}
	s.lastCleanup = now
}

func (h *history) push(e Entry, limit int) {
	h.entries = append(h.entries, e)
	if over := len(h.entries) - limit; over > 0 {
		clear(h.entries[:over])
		h.entries = append(h.entries[:0], h.entries[over:]...)
	}
}
