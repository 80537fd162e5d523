// Package export renders score data into the shareable result
// formats: the plain-text block evaluators paste out of the tool, and
// a JSON report for API and CLI consumers.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evalworks/evalboard/internal/catalog"
	"github.com/evalworks/evalboard/internal/grade"
	"github.com/evalworks/evalboard/internal/scoring"
)

// DefaultTitle heads the report unless the deployment configures its
// own program name.
const DefaultTitle = "Questionnaire Evaluation Results"

type Line struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Grade string  `json:"grade"`
}

type IndicatorLine struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Grade string `json:"grade"`
}

// Report is the JSON shape of an export. Sections are ordered by the
// catalog (sorted page keys, then document order within a page) so
// repeated exports are diffable.
type Report struct {
	Title        string          `json:"title"`
	OverallScore float64         `json:"overall_score"`
	OverallGrade string          `json:"overall_grade"`
	Values       []Line          `json:"value_scores"`
	Criteria     []Line          `json:"criterion_scores"`
	Indicators   []IndicatorLine `json:"indicator_scores"`
}

// Build assembles a deterministic report from score data.
func Build(title string, cat catalog.Catalog, data scoring.ScoreData) Report {
	if title == "" {
		title = DefaultTitle
	}
	overall := scoring.Overall(data)
	r := Report{
		Title:        title,
		OverallScore: overall,
		OverallGrade: grade.LetterLenient(overall),
	}

	pages := make([]string, 0, len(cat))
	for p := range cat {
		pages = append(pages, p)
	}
	sort.Strings(pages)

	seenValue := map[string]bool{}
	seenCriterion := map[string]bool{}
	seenIndicator := map[string]bool{}
	for _, page := range pages {
		qn := cat[page]
		name := cat.Title(page)
		if v, ok := data.ValueScores[name]; ok && !seenValue[name] {
			seenValue[name] = true
			r.Values = append(r.Values, Line{Name: name, Score: v, Grade: grade.LetterLenient(v)})
		}
		for _, col := range qn.Collections {
			if v, ok := data.CriterionScores[col.ID]; ok && !seenCriterion[col.ID] {
				seenCriterion[col.ID] = true
				r.Criteria = append(r.Criteria, Line{Name: col.ID, Score: v, Grade: grade.LetterLenient(v)})
			}
			for _, q := range col.Questions {
				if v, ok := data.IndicatorScores[q.ID]; ok && !seenIndicator[q.ID] {
					seenIndicator[q.ID] = true
					r.Indicators = append(r.Indicators, IndicatorLine{Name: q.ID, Score: v, Grade: grade.LetterLenient(float64(v))})
				}
			}
		}
	}

	// Anything the catalog no longer explains (stale imports) still
	// exports, appended in name order.
	appendLeftovers(&r.Values, data.ValueScores, seenValue)
	appendLeftovers(&r.Criteria, data.CriterionScores, seenCriterion)
	leftoverNames := make([]string, 0)
	for name := range data.IndicatorScores {
		if !seenIndicator[name] {
			leftoverNames = append(leftoverNames, name)
		}
	}
	sort.Strings(leftoverNames)
	for _, name := range leftoverNames {
		v := data.IndicatorScores[name]
		r.Indicators = append(r.Indicators, IndicatorLine{Name: name, Score: v, Grade: grade.LetterLenient(float64(v))})
	}
	return r
}

func appendLeftovers(dst *[]Line, src map[string]float64, seen map[string]bool) {
	names := make([]string, 0)
	for name := range src {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		*dst = append(*dst, Line{Name: name, Score: src[name], Grade: grade.LetterLenient(src[name])})
	}
}

// Text renders the clipboard block: title, overall grade when any
// scores exist, then one section per layer with "- name: score
// (Grade: X)" lines. Float scores print with two decimals, indicator
// scores as bare integers.
func (r Report) Text() string {
	var b strings.Builder
	b.WriteString(r.Title)
	b.WriteString("\n\n")

	hasScores := len(r.Values)+len(r.Criteria)+len(r.Indicators) > 0
	if hasScores {
		fmt.Fprintf(&b, "Overall Grade: %s (Score: %.2f)\n\n", r.OverallGrade, r.OverallScore)
	}
	if len(r.Values) > 0 {
		b.WriteString("Value Scores:\n")
		for _, l := range r.Values {
			fmt.Fprintf(&b, "- %s: %.2f (Grade: %s)\n", l.Name, l.Score, l.Grade)
		}
		b.WriteString("\n")
	}
	if len(r.Criteria) > 0 {
		b.WriteString("Criterion Scores:\n")
		for _, l := range r.Criteria {
			fmt.Fprintf(&b, "- %s: %.2f (Grade: %s)\n", l.Name, l.Score, l.Grade)
		}
		b.WriteString("\n")
	}
	if len(r.Indicators) > 0 {
		b.WriteString("Indicator Scores:\n")
		for _, l := range r.Indicators {
			fmt.Fprintf(&b, "- %s: %d (Grade: %s)\n", l.Name, l.Score, l.Grade)
		}
		b.WriteString("\n")
	}
	return b.String()
}
