package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evalworks/evalboard/internal/scoring"
)

// MemoryStore keeps sessions in a mutex-guarded map. When a TTL is
// configured, a janitor goroutine sweeps idle sessions; Close stops
// it.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl    time.Duration
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewMemoryStore creates a store. ttl <= 0 disables expiry; sweep is
// how often the janitor runs.
func NewMemoryStore(ttl, sweep time.Duration) *MemoryStore {
	m := &MemoryStore{
		sessions: map[string]*Session{},
		ttl:      ttl,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if ttl > 0 {
		if sweep <= 0 {
			sweep = time.Minute
		}
		go m.janitor(sweep)
	} else {
		close(m.doneCh)
	}
	return m
}

// Close stops the janitor and waits for it to exit.
func (m *MemoryStore) Close() {
	select {
	case <-m.stopCh:
	default:
		close(m.stopCh)
	}
	<-m.doneCh
}

func (m *MemoryStore) janitor(sweep time.Duration) {
	defer close(m.doneCh)
	t := time.NewTicker(sweep)
	defer t.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case now := <-t.C:
			m.expire(now)
		}
	}
}

func (m *MemoryStore) expire(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen) > m.ttl {
			delete(m.sessions, id)
		}
	}
}

func (m *MemoryStore) Create() Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		LastSeen:  now,
		Answers:   map[scoring.AnswerKey]scoring.Answer{},
		Cursors:   map[PageCollection]int{},
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s.clone()
}

func (m *MemoryStore) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	s.LastSeen = time.Now()
	return s.clone(), nil
}

func (m *MemoryStore) PutAnswer(id string, key scoring.AnswerKey, ans scoring.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.Answers[key] = ans
	s.LastSeen = time.Now()
	return nil
}

func (m *MemoryStore) ImportAnswers(id string, answers map[scoring.AnswerKey]scoring.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range answers {
		s.Answers[k] = v
	}
	s.LastSeen = time.Now()
	return nil
}

func (m *MemoryStore) SetCursor(id string, pc PageCollection, question int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.Cursors[pc] = question
	s.LastSeen = time.Now()
	return nil
}

// Reset wipes answers and cursors. This is the only way state is ever
// deleted short of session expiry.
func (m *MemoryStore) Reset(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.Answers = map[scoring.AnswerKey]scoring.Answer{}
	s.Cursors = map[PageCollection]int{}
	s.LastSeen = time.Now()
	return nil
}
