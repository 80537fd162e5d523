package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evalworks/evalboard/internal/catalog"
	"github.com/evalworks/evalboard/internal/export"
	"github.com/evalworks/evalboard/internal/grade"
	"github.com/evalworks/evalboard/internal/scoring"
	"github.com/evalworks/evalboard/internal/session"
)

// GetScoresHandler recomputes the three score layers for the session
// and adds the overall summary. Scores are never cached server-side.
func GetScoresHandler(store session.Store, cs *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, "session not found", 404)
			return
		}
		data := scoring.Calculate(cs.Snapshot(), s.Answers)
		overall := scoring.Overall(data)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			scoring.ScoreData
			Overall struct {
				Score float64 `json:"score"`
				Grade string  `json:"grade"`
			} `json:"overall"`
		}{
			ScoreData: data,
			Overall: struct {
				Score float64 `json:"score"`
				Grade string  `json:"grade"`
			}{Score: overall, Grade: grade.LetterLenient(overall)},
		})
	}
}

func GetProgressHandler(store session.Store, cs *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, "session not found", 404)
			return
		}
		report := scoring.Progress(cs.Snapshot(), s.Answers)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(report)
	}
}

// ExportHandler renders the plain-text result block. ?download=1 adds
// an attachment disposition.
func ExportHandler(store session.Store, cs *catalog.Store, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, "session not found", 404)
			return
		}
		cat := cs.Snapshot()
		report := export.Build(title, cat, scoring.Calculate(cat, s.Answers))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.URL.Query().Get("download") == "1" {
			w.Header().Set("Content-Disposition", `attachment; filename="evaluation-results.txt"`)
		}
		_, _ = w.Write([]byte(report.Text()))
	}
}
