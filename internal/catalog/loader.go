package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Load reads every *.json file in dir (non-recursive) into a Catalog,
// keyed by file name minus extension. Files are parsed concurrently.
// Malformed files are logged and skipped rather than failing the load;
// a missing directory yields an empty catalog.
func Load(ctx context.Context, dir string, logger *zap.Logger) (Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("catalog directory missing, starting empty", zap.String("dir", dir))
			return Catalog{}, nil
		}
		return nil, err
	}

	var (
		mu  sync.Mutex
		cat = Catalog{}
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		name := e.Name()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, name)
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			var qn Questionnaire
			if err := json.Unmarshal(raw, &qn); err != nil {
				logger.Warn("skipping malformed questionnaire file",
					zap.String("file", path), zap.Error(err))
				return nil
			}
			normalize(&qn)
			page := strings.TrimSuffix(name, ".json")
			mu.Lock()
			cat[page] = qn
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", zap.String("dir", dir), zap.Int("questionnaires", len(cat)))
	return cat, nil
}

// normalize applies the load-time cleanups every consumer relies on:
// options with blank text are dropped, option IDs are uppercased, and
// questions without an ID get the positional fallback so each question
// has an effective ID downstream.
func normalize(qn *Questionnaire) {
	for ci := range qn.Collections {
		col := &qn.Collections[ci]
		for qi := range col.Questions {
			q := &col.Questions[qi]
			kept := q.Options[:0]
			for _, o := range q.Options {
				if strings.TrimSpace(o.Text) == "" {
					continue
				}
				o.ID = strings.ToUpper(strings.TrimSpace(o.ID))
				kept = append(kept, o)
			}
			q.Options = kept
			if strings.TrimSpace(q.ID) == "" {
				q.ID = FallbackQuestionID(col.ID, qi)
			}
		}
	}
}
