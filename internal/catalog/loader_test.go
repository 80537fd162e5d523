package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

const governanceJSON = `{
  "questionnaire_info": {"title": "Governance", "version": "1.0"},
  "question_collections": [
    {
      "collection_id": "gov1",
      "collection_title": "Oversight",
      "questions": [
        {
          "question_id": "G1",
          "question_text": "Is there an owner?",
          "answer_options": [
            {"option_id": "a", "option_text": "yes"},
            {"option_id": "B", "option_text": "  "},
            {"option_id": "C", "option_text": "no"}
          ]
        },
        {
          "question_text": "No ID on this one",
          "answer_options": [{"option_id": "A", "option_text": "yes"}]
        }
      ]
    }
  ]
}`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "governance.json", governanceJSON)
	writeFile(t, dir, "broken.json", "{not json")
	writeFile(t, dir, "notes.txt", "ignored")

	cat, err := Load(context.Background(), dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat) != 1 {
		t.Fatalf("catalog size = %d, want 1 (broken file skipped)", len(cat))
	}
	qn, ok := cat["governance"]
	if !ok {
		t.Fatal("page key governance missing")
	}
	if qn.Info.Title != "Governance" {
		t.Fatalf("title = %q", qn.Info.Title)
	}

	q0 := qn.Collections[0].Questions[0]
	if len(q0.Options) != 2 {
		t.Fatalf("blank-text option not dropped: %+v", q0.Options)
	}
	if q0.Options[0].ID != "A" {
		t.Fatalf("option ID not uppercased: %q", q0.Options[0].ID)
	}

	q1 := qn.Collections[0].Questions[1]
	if q1.ID != "gov1_1" {
		t.Fatalf("fallback question ID = %q, want gov1_1", q1.ID)
	}
}

func TestLoadMissingDir(t *testing.T) {
	cat, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat) != 0 {
		t.Fatalf("catalog = %v, want empty", cat)
	}
}

func TestCatalogLookups(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "governance.json", governanceJSON)
	cat, err := Load(context.Background(), dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, ok := cat.Question("governance", "gov1", 0); !ok {
		t.Fatal("Question lookup failed")
	}
	if _, ok := cat.Question("governance", "gov1", 5); ok {
		t.Fatal("out-of-range index resolved")
	}
	if _, ok := cat.Collection("governance", "missing"); ok {
		t.Fatal("missing collection resolved")
	}
	if got := cat.Title("governance"); got != "Governance" {
		t.Fatalf("Title = %q", got)
	}
	if got := cat.Title("unknown"); got != "unknown" {
		t.Fatalf("Title fallback = %q", got)
	}
	if got := cat["governance"].QuestionCount(); got != 2 {
		t.Fatalf("QuestionCount = %d, want 2", got)
	}
}
