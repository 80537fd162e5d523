package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evalworks/evalboard/internal/grade"
)

// Finding is one lint diagnostic. Findings never block loading; they
// are surfaced by the CLI validator so catalog authors can fix hazards
// before an evaluation run.
type Finding struct {
	Page       string `json:"page"`
	Collection string `json:"collection,omitempty"`
	Question   string `json:"question,omitempty"`
	Message    string `json:"message"`
}

func (f Finding) String() string {
	loc := f.Page
	if f.Collection != "" {
		loc += "/" + f.Collection
	}
	if f.Question != "" {
		loc += "/" + f.Question
	}
	return loc + ": " + f.Message
}

// Lint runs the strict checks the lenient loader skips: duplicate IDs,
// invalid option letters, empty collections, and collection IDs that
// are prefixes of sibling IDs (which would make legacy composite-key
// prefix matching double count).
func Lint(cat Catalog) []Finding {
	var out []Finding

	pages := make([]string, 0, len(cat))
	for p := range cat {
		pages = append(pages, p)
	}
	sort.Strings(pages)

	seenQuestion := map[string]string{} // question ID -> first location
	seenCollection := map[string]string{}

	for _, page := range pages {
		qn := cat[page]
		if strings.TrimSpace(qn.Info.Title) == "" {
			out = append(out, Finding{Page: page, Message: "questionnaire has no title; page key will be used"})
		}
		for i, col := range qn.Collections {
			loc := page + "/" + col.ID
			if first, ok := seenCollection[col.ID]; ok {
				out = append(out, Finding{Page: page, Collection: col.ID,
					Message: fmt.Sprintf("collection ID also used at %s; criterion scores will merge", first)})
			} else {
				seenCollection[col.ID] = loc
			}
			if len(col.Questions) == 0 {
				out = append(out, Finding{Page: page, Collection: col.ID, Message: "collection has no questions"})
			}
			for j, sibling := range qn.Collections {
				if i == j {
					continue
				}
				if strings.HasPrefix(sibling.ID, col.ID) {
					out = append(out, Finding{Page: page, Collection: col.ID,
						Message: fmt.Sprintf("collection ID is a prefix of sibling %q; legacy answer keys may be double counted", sibling.ID)})
				}
			}
			for _, q := range col.Questions {
				if first, ok := seenQuestion[q.ID]; ok {
					out = append(out, Finding{Page: page, Collection: col.ID, Question: q.ID,
						Message: fmt.Sprintf("question ID also used at %s; indicator scores will collide", first)})
				} else {
					seenQuestion[q.ID] = loc + "/" + q.ID
				}
				if len(q.Options) == 0 {
					out = append(out, Finding{Page: page, Collection: col.ID, Question: q.ID,
						Message: "question has no options with text"})
				}
				for _, o := range q.Options {
					if _, err := grade.Value(o.ID); err != nil {
						out = append(out, Finding{Page: page, Collection: col.ID, Question: q.ID,
							Message: fmt.Sprintf("option ID %q is not a grade letter A-G", o.ID)})
					}
				}
			}
		}
	}
	return out
}
