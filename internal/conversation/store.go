// Package conversation owns per-user transcript state.
package conversation

import (
	"sync"

	"github.com/tripweaver/assistant/internal/model"
)

// Conversation is one user's ordered, append-only transcript plus the
// current itinerary snapshot. A turn (read, classify, dispatch, append) is a
// critical section: callers hold Lock for its whole duration, and every
// method below assumes the lock is held. Two in-flight turns for the same
// user never interleave; different users proceed in parallel.
type Conversation struct {
	mu        sync.Mutex
	turns     []model.Turn
	itinerary string
}

// Lock acquires the per-conversation turn lock.
func (c *Conversation) Lock() { c.mu.Lock() }

// Unlock releases the per-conversation turn lock.
func (c *Conversation) Unlock() { c.mu.Unlock() }

// Seeded reports whether the system turn has been written.
func (c *Conversation) Seeded() bool { return len(c.turns) > 0 }

// Seed writes the system turn and records the itinerary snapshot. It is a
// no-op when the conversation is already seeded.
func (c *Conversation) Seed(systemPrompt, itinerary string) {
	if c.Seeded() {
		return
	}
	c.turns = append(c.turns, model.Turn{Role: model.RoleSystem, Content: systemPrompt})
	c.itinerary = itinerary
}

// Append adds a turn at the end of the transcript.
func (c *Conversation) Append(turn model.Turn) {
	c.turns = append(c.turns, turn)
}

// Truncate drops turns appended after length n. Used to roll a failed turn
// back so the transcript is left unmodified.
func (c *Conversation) Truncate(n int) {
	if n >= 0 && n <= len(c.turns) {
		c.turns = c.turns[:n]
	}
}

// Len returns the number of stored turns, system turn included.
func (c *Conversation) Len() int { return len(c.turns) }

// Visible returns a copy of the transcript filtered to user and assistant
// turns, order preserved. The system turn is never exposed to callers.
func (c *Conversation) Visible() []model.Turn {
	out := make([]model.Turn, 0, len(c.turns))
	for _, t := range c.turns {
		if t.Role == model.RoleUser || t.Role == model.RoleAssistant {
			out = append(out, t)
		}
	}
	return out
}

// Context returns the turns sent to the model: the system turn plus at most
// window trailing turns. window <= 0 disables trimming. The stored
// transcript itself is never trimmed.
func (c *Conversation) Context(window int) []model.Turn {
	if window <= 0 || len(c.turns) <= window+1 {
		out := make([]model.Turn, len(c.turns))
		copy(out, c.turns)
		return out
	}
	out := make([]model.Turn, 0, window+1)
	out = append(out, c.turns[0])
	out = append(out, c.turns[len(c.turns)-window:]...)
	return out
}

// Itinerary returns the current itinerary snapshot.
func (c *Conversation) Itinerary() string { return c.itinerary }

// SetItinerary replaces the current itinerary snapshot atomically with the
// enclosing turn. The system turn is left as seeded; callers that want the
// model to see the new document use RefreshSystem explicitly.
func (c *Conversation) SetItinerary(doc string) { c.itinerary = doc }

// RefreshSystem rewrites the system turn. This is the explicit opt-in for
// propagating itinerary edits back into model context.
func (c *Conversation) RefreshSystem(systemPrompt string) {
	if !c.Seeded() {
		return
	}
	c.turns[0] = model.Turn{Role: model.RoleSystem, Content: systemPrompt}
}

// Store maps user ids to conversations. Entries are created on first use and
// live for the process lifetime; there is no eviction.
type Store struct {
	mu    sync.RWMutex
	convs map[string]*Conversation
}

func NewStore() *Store {
	return &Store{convs: make(map[string]*Conversation)}
}

// GetOrCreate returns the user's conversation, creating an unseeded one on
// first call. Idempotent.
func (s *Store) GetOrCreate(userID string) *Conversation {
	s.mu.RLock()
	c, ok := s.convs[userID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.convs[userID]; ok {
		return c
	}
	c = &Conversation{}
	s.convs[userID] = c
	return c
}

// Get returns the user's conversation if one exists.
func (s *Store) Get(userID string) (*Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.convs[userID]
	return c, ok
}

// Count returns the number of live conversations.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.convs)
}
