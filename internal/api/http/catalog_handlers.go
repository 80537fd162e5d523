package http

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/evalworks/evalboard/internal/catalog"
)

type questionnaireSummary struct {
	Page        string `json:"page"`
	Title       string `json:"title"`
	Version     string `json:"version,omitempty"`
	Collections int    `json:"collections"`
	Questions   int    `json:"questions"`
}

// ListQuestionnairesHandler returns summaries for the navigation list,
// ordered by page key.
func ListQuestionnairesHandler(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat := store.Snapshot()
		out := make([]questionnaireSummary, 0, len(cat))
		for page, qn := range cat {
			out = append(out, questionnaireSummary{
				Page:        page,
				Title:       cat.Title(page),
				Version:     qn.Info.Version,
				Collections: len(qn.Collections),
				Questions:   qn.QuestionCount(),
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Page < out[j].Page })
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func GetQuestionnaireHandler(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := chi.URLParam(r, "page")
		qn, err := store.Get(page)
		if err != nil {
			http.Error(w, "questionnaire not found", 404)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(qn)
	}
}
