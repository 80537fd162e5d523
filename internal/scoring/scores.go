package scoring

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/evalworks/evalboard/internal/catalog"
	"github.com/evalworks/evalboard/internal/grade"
)

// ScoreData is the aggregation output: one map per layer.
// IndicatorScores is keyed by effective question ID, CriterionScores
// by collection ID, ValueScores by questionnaire display title (page
// key when the title is blank).
type ScoreData struct {
	IndicatorScores map[string]int     `json:"indicator_scores"`
	CriterionScores map[string]float64 `json:"criterion_scores"`
	ValueScores     map[string]float64 `json:"value_scores"`
}

// Calculate runs the three aggregation passes over the answer map.
// Each pass consumes only the previous pass's output. Answers that do
// not resolve against the catalog are skipped; collections and
// questionnaires with nothing scored are omitted from their maps
// rather than reported as zero. Calling it again with the same inputs
// yields the same output.
func Calculate(cat catalog.Catalog, answers map[AnswerKey]Answer) ScoreData {
	data := ScoreData{
		IndicatorScores: map[string]int{},
		CriterionScores: map[string]float64{},
		ValueScores:     map[string]float64{},
	}
	if len(answers) == 0 {
		return data
	}

	for key, ans := range answers {
		q, ok := cat.Question(key.Page, key.Collection, key.Question)
		if !ok {
			continue
		}
		data.IndicatorScores[q.ID] = grade.ValueLenient(ans.Option.ID)
	}

	// The later passes walk pages in sorted key order. When pages reuse
	// a collection ID or a display title the entries collide in the
	// output maps, and a fixed order keeps the surviving write the same
	// on every call.
	pages := make([]string, 0, len(cat))
	for p := range cat {
		pages = append(pages, p)
	}
	sort.Strings(pages)

	for _, page := range pages {
		for _, col := range cat[page].Collections {
			var scores []float64
			for _, q := range col.Questions {
				if v, ok := data.IndicatorScores[q.ID]; ok {
					scores = append(scores, float64(v))
				}
			}
			if len(scores) > 0 {
				data.CriterionScores[col.ID] = mean(scores)
			}
		}
	}

	for _, page := range pages {
		var scores []float64
		for _, col := range cat[page].Collections {
			if v, ok := data.CriterionScores[col.ID]; ok {
				scores = append(scores, v)
			}
		}
		if len(scores) > 0 {
			data.ValueScores[cat.Title(page)] = mean(scores)
		}
	}

	return data
}

// Overall is the mean of the value scores, 0 when there are none. It
// feeds the summary grade and the export header and is deliberately
// not part of ScoreData.
func Overall(data ScoreData) float64 {
	if len(data.ValueScores) == 0 {
		return 0
	}
	scores := make([]float64, 0, len(data.ValueScores))
	for _, v := range data.ValueScores {
		scores = append(scores, v)
	}
	return mean(scores)
}

func mean(xs []float64) float64 {
	m, err := stats.Mean(xs)
	if err != nil {
		return 0
	}
	return m
}
