package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/evalworks/evalboard/internal/catalog"
	"github.com/evalworks/evalboard/internal/grade"
	"github.com/evalworks/evalboard/internal/scoring"
	"github.com/evalworks/evalboard/internal/session"
)

type answerView struct {
	OptionID   string `json:"option_id"`
	OptionText string `json:"option_text"`
	Grade      int    `json:"grade"`
}

type cursorView struct {
	Page       string `json:"page"`
	Collection string `json:"collection"`
	Question   int    `json:"question"`
}

type sessionView struct {
	ID        string                `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	Answers   map[string]answerView `json:"answers"`
	Cursors   []cursorView          `json:"cursors"`
}

// viewOf renders a session with answers under their legacy composite
// keys and each answer's lenient grade value, the detailed view the
// front end shows.
func viewOf(s session.Session) sessionView {
	v := sessionView{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Answers:   make(map[string]answerView, len(s.Answers)),
		Cursors:   make([]cursorView, 0, len(s.Cursors)),
	}
	for key, ans := range s.Answers {
		v.Answers[key.String()] = answerView{
			OptionID:   ans.Option.ID,
			OptionText: ans.Option.Text,
			Grade:      grade.ValueLenient(ans.Option.ID),
		}
	}
	for pc, q := range s.Cursors {
		v.Cursors = append(v.Cursors, cursorView{Page: pc.Page, Collection: pc.Collection, Question: q})
	}
	return v
}

func CreateSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := store.Create()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(201)
		_ = json.NewEncoder(w).Encode(viewOf(s))
	}
}

func GetSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, "session not found", 404)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(s))
	}
}

// PutAnswerHandler records one answer. Unlike the lenient import path,
// the interactive path is strict: the target question must exist, the
// option must be one of its options, and the letter must be a valid
// grade code.
func PutAnswerHandler(store session.Store, cs *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Page       string `json:"page"`
			Collection string `json:"collection"`
			Question   int    `json:"question"`
			OptionID   string `json:"option_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		cat := cs.Snapshot()
		q, ok := cat.Question(req.Page, req.Collection, req.Question)
		if !ok {
			http.Error(w, "question not found", 404)
			return
		}
		if _, err := grade.Value(req.OptionID); err != nil {
			http.Error(w, "option_id must be a grade letter A-G", 400)
			return
		}
		opt, ok := q.Option(strings.ToUpper(strings.TrimSpace(req.OptionID)))
		if !ok {
			http.Error(w, "option not offered by this question", 400)
			return
		}

		key := scoring.AnswerKey{Page: req.Page, Collection: req.Collection, Question: req.Question}
		if err := store.PutAnswer(chi.URLParam(r, "sessionID"), key, scoring.Answer{Option: opt}); err != nil {
			http.Error(w, "session not found", 404)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Key       string   `json:"key"`
			Question  string   `json:"question_id"`
			Option    string   `json:"option_id"`
			Text      string   `json:"option_text"`
			Grade     int      `json:"grade"`
			Followups []string `json:"followup_questions,omitempty"`
		}{
			Key:       key.String(),
			Question:  q.ID,
			Option:    opt.ID,
			Text:      opt.Text,
			Grade:     grade.ValueLenient(opt.ID),
			Followups: q.Followups,
		})
	}
}

// ImportAnswersHandler bulk-loads a legacy composite-key answer map.
// Keys that do not parse or do not resolve against the catalog are
// skipped, matching how the original tool tolerated stale answer sets.
func ImportAnswersHandler(store session.Store, cs *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req map[string]struct {
			OptionID   string `json:"option_id"`
			OptionText string `json:"option_text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		cat := cs.Snapshot()
		answers := make(map[scoring.AnswerKey]scoring.Answer)
		skipped := 0
		for raw, v := range req {
			key, err := scoring.ParseKey(raw)
			if err != nil {
				skipped++
				continue
			}
			q, ok := cat.Question(key.Page, key.Collection, key.Question)
			if !ok {
				skipped++
				continue
			}
			opt := catalog.Option{ID: strings.ToUpper(strings.TrimSpace(v.OptionID)), Text: v.OptionText}
			if opt.Text == "" {
				if resolved, ok := q.Option(opt.ID); ok {
					opt.Text = resolved.Text
				}
			}
			answers[key] = scoring.Answer{Option: opt}
		}
		if err := store.ImportAnswers(chi.URLParam(r, "sessionID"), answers); err != nil {
			http.Error(w, "session not found", 404)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Imported int `json:"imported"`
			Skipped  int `json:"skipped"`
		}{Imported: len(answers), Skipped: skipped})
	}
}

// SetCursorHandler moves the per-collection current-question pointer.
// Either an absolute question index or an action ("next"/"prev") is
// given; the result is clamped to the collection's question range.
func SetCursorHandler(store session.Store, cs *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Page       string `json:"page"`
			Collection string `json:"collection"`
			Question   *int   `json:"question,omitempty"`
			Action     string `json:"action,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		cat := cs.Snapshot()
		col, ok := cat.Collection(req.Page, req.Collection)
		if !ok {
			http.Error(w, "collection not found", 404)
			return
		}

		id := chi.URLParam(r, "sessionID")
		s, err := store.Get(id)
		if err != nil {
			http.Error(w, "session not found", 404)
			return
		}
		pc := session.PageCollection{Page: req.Page, Collection: req.Collection}
		cur := s.Cursors[pc]
		switch {
		case req.Question != nil:
			cur = *req.Question
		case req.Action == "next":
			cur++
		case req.Action == "prev":
			cur--
		case req.Action == "":
			http.Error(w, "question or action required", 400)
			return
		default:
			http.Error(w, "action must be next or prev", 400)
			return
		}
		cur = clamp(cur, 0, len(col.Questions)-1)
		if err := store.SetCursor(id, pc, cur); err != nil {
			http.Error(w, "session not found", 404)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cursorView{Page: req.Page, Collection: req.Collection, Question: cur})
	}
}

func ResetSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.Reset(chi.URLParam(r, "sessionID"))
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "session not found", 404)
			return
		}
		w.WriteHeader(204)
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
