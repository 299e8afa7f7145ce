// Package session implements the Session Coordinator: a per-conversation
// keyed mutex guarding a conversation's history and the agent loop that
// advances it, so concurrent requests for the same conversation serialize
// instead of racing the same sandbox container.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandboxagent/sandboxagent/models"
)

// NewConversationID mints a fresh conversation id for callers that don't
// already have one (e.g. a front end starting a brand new chat).
func NewConversationID() string {
	return uuid.NewString()
}

// Session holds one conversation's mutable state: its message history and
// the weak reference to the sandbox container backing its shell-exec calls.
type Session struct {
	ConversationID string
	History        []models.Message
	ContainerID    string
	CreatedAt      time.Time

	mu sync.Mutex
}

// Coordinator maps conversation id to Session, creating sessions lazily and
// guaranteeing only one goroutine at a time runs a given conversation's
// agent loop.
type Coordinator struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// New builds an empty Coordinator.
func New() *Coordinator {
	return &Coordinator{sessions: make(map[string]*Session)}
}

// getOrCreate returns the Session for id, creating it if absent. The
// meta-mutex is held only long enough to look up or insert the entry; the
// session's own mutex then guards its actual use.
func (c *Coordinator) getOrCreate(id string) *Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		s = &Session{ConversationID: id, CreatedAt: time.Now()}
		c.sessions[id] = s
	}
	return s
}

// WithSession runs fn while holding the lock for conversation id, passing it
// the Session so fn can read and mutate History. Concurrent calls for
// distinct ids run in parallel; calls for the same id serialize. The lock
// is always released, even if fn panics.
func (c *Coordinator) WithSession(id string, fn func(s *Session) error) error {
	s := c.getOrCreate(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// Delete drops a conversation's session, forgetting its history. It does not
// touch any sandbox container; callers that also want the container torn
// down must call the sandbox manager's Reset separately.
func (c *Coordinator) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
}

// Count reports the number of tracked sessions, for diagnostics.
func (c *Coordinator) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}
