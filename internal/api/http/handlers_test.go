package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/evalworks/evalboard/internal/catalog"
	"github.com/evalworks/evalboard/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	opts := []catalog.Option{
		{ID: "A", Text: "fully"},
		{ID: "B", Text: "mostly"},
		{ID: "D", Text: "barely"},
	}
	cat := catalog.Catalog{
		"Q1": {
			Info: catalog.Info{Title: "Quality", Version: "1.0"},
			Collections: []catalog.Collection{
				{
					ID:    "C1",
					Title: "Documentation",
					Questions: []catalog.Question{
						{ID: "I1", Text: "one", Options: opts, Followups: []string{"Why?"}},
						{ID: "I2", Text: "two", Options: opts},
					},
				},
			},
		},
	}
	store := session.NewMemoryStore(0, 0)
	t.Cleanup(store.Close)
	srv := httptest.NewServer(NewRouter(Options{
		Catalog:  catalog.NewStore(cat),
		Sessions: store,
		Logger:   zap.NewNop(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	var s struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, "POST", srv.URL+"/sessions", nil, &s)
	if resp.StatusCode != 201 || s.ID == "" {
		t.Fatalf("create session: status %d, id %q", resp.StatusCode, s.ID)
	}
	return s.ID
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var list []struct {
		Page      string `json:"page"`
		Title     string `json:"title"`
		Questions int    `json:"questions"`
	}
	resp := doJSON(t, "GET", srv.URL+"/catalog", nil, &list)
	if resp.StatusCode != 200 || len(list) != 1 {
		t.Fatalf("catalog list: status %d, %v", resp.StatusCode, list)
	}
	if list[0].Title != "Quality" || list[0].Questions != 2 {
		t.Fatalf("summary = %+v", list[0])
	}

	resp = doJSON(t, "GET", srv.URL+"/catalog/nope", nil, nil)
	if resp.StatusCode != 404 {
		t.Fatalf("unknown page: status %d", resp.StatusCode)
	}
}

func TestAnswerFlow(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	var put struct {
		Key       string   `json:"key"`
		Grade     int      `json:"grade"`
		Followups []string `json:"followup_questions"`
	}
	resp := doJSON(t, "PUT", srv.URL+"/sessions/"+id+"/answers",
		map[string]any{"page": "Q1", "collection": "C1", "question": 0, "option_id": "b"}, &put)
	if resp.StatusCode != 200 {
		t.Fatalf("put answer: status %d", resp.StatusCode)
	}
	if put.Key != "Q1_C1_0" || put.Grade != 1 {
		t.Fatalf("put answer = %+v", put)
	}
	if len(put.Followups) != 1 || put.Followups[0] != "Why?" {
		t.Fatalf("followups = %v", put.Followups)
	}

	doJSON(t, "PUT", srv.URL+"/sessions/"+id+"/answers",
		map[string]any{"page": "Q1", "collection": "C1", "question": 1, "option_id": "D"}, nil)

	var scores struct {
		IndicatorScores map[string]int     `json:"indicator_scores"`
		CriterionScores map[string]float64 `json:"criterion_scores"`
		ValueScores     map[string]float64 `json:"value_scores"`
		Overall         struct {
			Score float64 `json:"score"`
			Grade string  `json:"grade"`
		} `json:"overall"`
	}
	resp = doJSON(t, "GET", srv.URL+"/sessions/"+id+"/scores", nil, &scores)
	if resp.StatusCode != 200 {
		t.Fatalf("scores: status %d", resp.StatusCode)
	}
	if scores.IndicatorScores["I1"] != 1 || scores.IndicatorScores["I2"] != 3 {
		t.Fatalf("indicators = %v", scores.IndicatorScores)
	}
	if scores.CriterionScores["C1"] != 2.0 || scores.ValueScores["Quality"] != 2.0 {
		t.Fatalf("criteria/values = %v / %v", scores.CriterionScores, scores.ValueScores)
	}
	if scores.Overall.Grade != "C" {
		t.Fatalf("overall = %+v", scores.Overall)
	}
}

func TestAnswerValidation(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{"unknown page", map[string]any{"page": "nope", "collection": "C1", "question": 0, "option_id": "A"}, 404},
		{"unknown collection", map[string]any{"page": "Q1", "collection": "nope", "question": 0, "option_id": "A"}, 404},
		{"index out of range", map[string]any{"page": "Q1", "collection": "C1", "question": 9, "option_id": "A"}, 404},
		{"bad letter", map[string]any{"page": "Q1", "collection": "C1", "question": 0, "option_id": "Z"}, 400},
		{"letter not offered", map[string]any{"page": "Q1", "collection": "C1", "question": 0, "option_id": "G"}, 400},
	}
	for _, c := range cases {
		resp := doJSON(t, "PUT", srv.URL+"/sessions/"+id+"/answers", c.body, nil)
		if resp.StatusCode != c.want {
			t.Errorf("%s: status %d, want %d", c.name, resp.StatusCode, c.want)
		}
	}

	resp := doJSON(t, "PUT", srv.URL+"/sessions/missing/answers",
		map[string]any{"page": "Q1", "collection": "C1", "question": 0, "option_id": "A"}, nil)
	if resp.StatusCode != 404 {
		t.Errorf("missing session: status %d", resp.StatusCode)
	}
}

func TestImportLenient(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	var res struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
	body := map[string]map[string]string{
		"Q1_C1_0":  {"option_id": "B"},
		"short":    {"option_id": "A"},
		"Q1_C1_99": {"option_id": "A"},
		"Q1_XX_0":  {"option_id": "A"},
	}
	resp := doJSON(t, "POST", srv.URL+"/sessions/"+id+"/answers/import", body, &res)
	if resp.StatusCode != 200 {
		t.Fatalf("import: status %d", resp.StatusCode)
	}
	if res.Imported != 1 || res.Skipped != 3 {
		t.Fatalf("import result = %+v", res)
	}

	var view struct {
		Answers map[string]struct {
			OptionText string `json:"option_text"`
		} `json:"answers"`
	}
	doJSON(t, "GET", srv.URL+"/sessions/"+id, nil, &view)
	if got := view.Answers["Q1_C1_0"].OptionText; got != "mostly" {
		t.Fatalf("imported option text = %q, want resolved from catalog", got)
	}
}

func TestCursorNavigation(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)
	url := srv.URL + "/sessions/" + id + "/cursor"

	var cur struct {
		Question int `json:"question"`
	}
	doJSON(t, "POST", url, map[string]any{"page": "Q1", "collection": "C1", "action": "next"}, &cur)
	if cur.Question != 1 {
		t.Fatalf("next = %d, want 1", cur.Question)
	}
	// clamped at the last question
	doJSON(t, "POST", url, map[string]any{"page": "Q1", "collection": "C1", "action": "next"}, &cur)
	if cur.Question != 1 {
		t.Fatalf("next past end = %d, want 1", cur.Question)
	}
	doJSON(t, "POST", url, map[string]any{"page": "Q1", "collection": "C1", "question": -5}, &cur)
	if cur.Question != 0 {
		t.Fatalf("absolute clamp = %d, want 0", cur.Question)
	}
	resp := doJSON(t, "POST", url, map[string]any{"page": "Q1", "collection": "nope", "action": "next"}, nil)
	if resp.StatusCode != 404 {
		t.Fatalf("unknown collection: status %d", resp.StatusCode)
	}
}

func TestProgressAndExport(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	doJSON(t, "PUT", srv.URL+"/sessions/"+id+"/answers",
		map[string]any{"page": "Q1", "collection": "C1", "question": 0, "option_id": "B"}, nil)

	var prog struct {
		Pages map[string]struct {
			Total    int     `json:"total"`
			Answered int     `json:"answered"`
			Progress float64 `json:"progress"`
		} `json:"pages"`
		Overall struct {
			Answered int `json:"answered"`
		} `json:"overall"`
	}
	doJSON(t, "GET", srv.URL+"/sessions/"+id+"/progress", nil, &prog)
	if p := prog.Pages["Q1"]; p.Total != 2 || p.Answered != 1 || p.Progress != 0.5 {
		t.Fatalf("progress = %+v", p)
	}
	if prog.Overall.Answered != 1 {
		t.Fatalf("overall = %+v", prog.Overall)
	}

	resp, err := http.Get(srv.URL + "/sessions/" + id + "/export?download=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("export content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("export disposition = %q", cd)
	}
	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	text := body.String()
	for _, want := range []string{"Value Scores:", "- Quality: 1.00 (Grade: B)", "Indicator Scores:", "- I1: 1 (Grade: B)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("export missing %q:\n%s", want, text)
		}
	}
}

func TestResetSession(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	doJSON(t, "PUT", srv.URL+"/sessions/"+id+"/answers",
		map[string]any{"page": "Q1", "collection": "C1", "question": 0, "option_id": "A"}, nil)

	resp := doJSON(t, "POST", srv.URL+"/sessions/"+id+"/reset", nil, nil)
	if resp.StatusCode != 204 {
		t.Fatalf("reset: status %d", resp.StatusCode)
	}

	var view struct {
		Answers map[string]json.RawMessage `json:"answers"`
	}
	doJSON(t, "GET", srv.URL+"/sessions/"+id, nil, &view)
	if len(view.Answers) != 0 {
		t.Fatalf("answers after reset = %v", view.Answers)
	}

	resp = doJSON(t, "POST", srv.URL+"/sessions/missing/reset", nil, nil)
	if resp.StatusCode != 404 {
		t.Fatalf("reset missing: status %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Fatalf("%s: status %d", path, resp.StatusCode)
		}
	}
}
