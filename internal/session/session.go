// Package session owns the per-evaluation mutable state: the answer
// map and the per-collection current-question cursors. Each evaluator
// works in their own session; the store only synchronizes the session
// table itself, matching the single-writer-per-session model.
package session

import (
	"errors"
	"time"

	"github.com/evalworks/evalboard/internal/scoring"
)

var ErrNotFound = errors.New("session not found")

// PageCollection addresses one collection for cursor bookkeeping.
type PageCollection struct {
	Page       string
	Collection string
}

// Session is one evaluator's working state.
type Session struct {
	ID        string
	CreatedAt time.Time
	LastSeen  time.Time
	Answers   map[scoring.AnswerKey]scoring.Answer
	Cursors   map[PageCollection]int
}

func (s *Session) clone() Session {
	out := Session{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		LastSeen:  s.LastSeen,
		Answers:   make(map[scoring.AnswerKey]scoring.Answer, len(s.Answers)),
		Cursors:   make(map[PageCollection]int, len(s.Cursors)),
	}
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	for k, v := range s.Cursors {
		out.Cursors[k] = v
	}
	return out
}

// Store is what the API layer needs from session storage. Get returns
// a copy, so scoring never observes a session mutated mid-computation.
type Store interface {
	Create() Session
	Get(id string) (Session, error)
	PutAnswer(id string, key scoring.AnswerKey, ans scoring.Answer) error
	ImportAnswers(id string, answers map[scoring.AnswerKey]scoring.Answer) error
	SetCursor(id string, pc PageCollection, question int) error
	Reset(id string) error
}
