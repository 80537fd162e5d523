// Package catalog holds the questionnaire definitions: the data model,
// the JSON directory loader, a hot-swappable read-side store and a
// strict lint pass. A catalog is loaded once and treated as immutable;
// scoring and sessions only ever read it.
package catalog

import "fmt"

// Catalog maps a page key (file name minus extension) to its
// questionnaire.
type Catalog map[string]Questionnaire

type Questionnaire struct {
	Info        Info         `json:"questionnaire_info"`
	Collections []Collection `json:"question_collections"`
}

type Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
	CreatedDate string `json:"created_date,omitempty"`
}

type Collection struct {
	ID          string     `json:"collection_id"`
	Title       string     `json:"collection_title"`
	Description string     `json:"collection_description,omitempty"`
	Questions   []Question `json:"questions"`
}

type Question struct {
	ID          string   `json:"question_id"`
	Text        string   `json:"question_text"`
	Subquestion string   `json:"subquestion,omitempty"`
	Guidance    string   `json:"guidance,omitempty"`
	Options     []Option `json:"answer_options"`
	Followups   []string `json:"followup_questions,omitempty"`
}

// Option is one selectable answer. ID is a single letter A–G.
type Option struct {
	ID   string `json:"option_id"`
	Text string `json:"option_text"`
}

// FallbackQuestionID is the effective ID assigned to questions that
// arrive without one: "<collection_id>_<index>".
func FallbackQuestionID(collectionID string, index int) string {
	return fmt.Sprintf("%s_%d", collectionID, index)
}

// Collection returns the collection with the given ID on the given
// page.
func (c Catalog) Collection(page, collectionID string) (Collection, bool) {
	qn, ok := c[page]
	if !ok {
		return Collection{}, false
	}
	for _, col := range qn.Collections {
		if col.ID == collectionID {
			return col, true
		}
	}
	return Collection{}, false
}

// Question resolves a question by page, collection ID and position
// within the collection.
func (c Catalog) Question(page, collectionID string, index int) (Question, bool) {
	col, ok := c.Collection(page, collectionID)
	if !ok || index < 0 || index >= len(col.Questions) {
		return Question{}, false
	}
	return col.Questions[index], true
}

// Title returns the questionnaire's display title, falling back to the
// page key when blank.
func (c Catalog) Title(page string) string {
	if qn, ok := c[page]; ok && qn.Info.Title != "" {
		return qn.Info.Title
	}
	return page
}

// QuestionCount sums the questionnaire's questions across collections.
func (q Questionnaire) QuestionCount() int {
	n := 0
	for _, col := range q.Collections {
		n += len(col.Questions)
	}
	return n
}

// Option returns the question's option with the given ID, matched
// case-sensitively against the stored (uppercase) IDs.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
