package scoring

import "github.com/evalworks/evalboard/internal/catalog"

// Stats is the completion state of one questionnaire. Answered can
// exceed Total when stale answers point past the current question
// list; the ratio is reported as-is.
type Stats struct {
	Total    int     `json:"total"`
	Answered int     `json:"answered"`
	Progress float64 `json:"progress"`
}

// ProgressReport carries per-questionnaire stats plus an overall entry
// aggregated from the raw sums (not an average of per-page ratios).
type ProgressReport struct {
	Pages   map[string]Stats `json:"pages"`
	Overall Stats            `json:"overall"`
}

// Progress counts answered questions per questionnaire. An answer is
// attributed to a collection by exact (page, collection) match on its
// structured key, so collection IDs that prefix each other cannot
// double count.
func Progress(cat catalog.Catalog, answers map[AnswerKey]Answer) ProgressReport {
	report := ProgressReport{Pages: make(map[string]Stats, len(cat))}

	answered := map[string]map[string]int{} // page -> collection -> count
	for key := range answers {
		byCol, ok := answered[key.Page]
		if !ok {
			byCol = map[string]int{}
			answered[key.Page] = byCol
		}
		byCol[key.Collection]++
	}

	totalAll, answeredAll := 0, 0
	for page, qn := range cat {
		total, done := 0, 0
		for _, col := range qn.Collections {
			total += len(col.Questions)
			done += answered[page][col.ID]
		}
		totalAll += total
		answeredAll += done
		report.Pages[page] = Stats{Total: total, Answered: done, Progress: ratio(done, total)}
	}
	report.Overall = Stats{Total: totalAll, Answered: answeredAll, Progress: ratio(answeredAll, totalAll)}
	return report
}

func ratio(answered, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(answered) / float64(total)
}
