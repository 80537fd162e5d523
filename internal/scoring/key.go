// Package scoring computes the three score layers (indicator,
// criterion, value) and completion progress from a session's recorded
// answers. Everything here is a pure function of catalog + answers:
// scores are recomputed from scratch on every call and never cached.
package scoring

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/evalworks/evalboard/internal/catalog"
)

// ErrBadKey is returned by ParseKey for strings that do not carry the
// three legacy segments.
var ErrBadKey = errors.New("scoring: malformed answer key")

// AnswerKey identifies one recorded answer: the page, the collection
// within it, and the question's position in the collection's ordered
// question list (not its question ID). Using a structured key instead
// of the legacy "<page>_<collection>_<index>" string removes the
// prefix-collision ambiguity that format had.
type AnswerKey struct {
	Page       string
	Collection string
	Question   int
}

// ParseKey parses the legacy underscore-delimited form, used for
// import and export of old answer sets. Only the first three segments
// matter; trailing segments are ignored, matching the historical
// parser.
func ParseKey(s string) (AnswerKey, error) {
	parts := strings.Split(s, "_")
	if len(parts) < 3 {
		return AnswerKey{}, ErrBadKey
	}
	idx, err := strconv.Atoi(parts[2])
	if err != nil {
		return AnswerKey{}, ErrBadKey
	}
	return AnswerKey{Page: parts[0], Collection: parts[1], Question: idx}, nil
}

// String renders the legacy composite form.
func (k AnswerKey) String() string {
	return fmt.Sprintf("%s_%s_%d", k.Page, k.Collection, k.Question)
}

// Answer records the option the evaluator selected.
type Answer struct {
	Option catalog.Option
}
