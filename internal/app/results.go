package app

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"quizpad-service/internal/domain"
)

// SortOrder selects how aggregated results are ordered.
type SortOrder string

const (
	SortNewest      SortOrder = "newest"
	SortScoreDesc   SortOrder = "score-desc"
	SortScoreAsc    SortOrder = "score-asc"
	SortParticipant SortOrder = "participant"
)

// ParseSortOrder accepts the dashboard sort values. Blank means newest first.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(SortNewest):
		return SortNewest, nil
	case string(SortScoreDesc):
		return SortScoreDesc, nil
	case string(SortScoreAsc):
		return SortScoreAsc, nil
	case string(SortParticipant), "name":
		return SortParticipant, nil
	}
	return "", domain.ErrInvalidSort
}

// ResultsFilter narrows the results view to one quiz (blank = all owned quizzes).
type ResultsFilter struct {
	QuizID string
	Sort   SortOrder
}

// AggregateResults keeps results for owned quizzes, optionally one quiz, and
// sorts them. The input slice is not modified; ties keep their input order.
func AggregateResults(results []domain.Result, owned map[string]struct{}, filter ResultsFilter) []domain.Result {
	out := make([]domain.Result, 0, len(results))
	for _, r := range results {
		if _, ok := owned[r.QuizID]; !ok {
			continue
		}
		if filter.QuizID != "" && r.QuizID != filter.QuizID {
			continue
		}
		out = append(out, r)
	}

	switch filter.Sort {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	case SortScoreDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	case SortScoreAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	case SortParticipant:
		names := collate.New(language.Und)
		sort.SliceStable(out, func(i, j int) bool {
			return names.CompareString(out[i].Participant, out[j].Participant) < 0
		})
	}
	return out
}
