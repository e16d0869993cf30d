package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/store"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

type HistoryPage struct {
	Items       []model.QuizResult
	TotalPages  int
	CurrentPage int
	TotalCount  int64
}

// DetailQuestion is a graded question with its vocabulary entry resolved.
// Vocab is nil when the entry has since been deleted.
type DetailQuestion struct {
	model.QuestionResult
	Vocab *model.Vocabulary `json:"vocab"`
}

type Detail struct {
	model.QuizResult
	Questions []DetailQuestion `json:"questions"`
}

// ListHistory pages through userID's results, newest first, without question detail.
func (s *Service) ListHistory(ctx context.Context, userID string, page, limit int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	items, total, err := s.results.ListByUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list quiz history: %w", err)
	}
	if items == nil {
		items = []model.QuizResult{}
	}

	return &HistoryPage{
		Items:       items,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
		TotalCount:  total,
	}, nil
}

// GetDetail returns one of userID's results with live vocabulary attached.
func (s *Service) GetDetail(ctx context.Context, userID, quizID string) (*Detail, error) {
	result, err := s.results.FindForUser(ctx, quizID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find quiz result: %w", err)
	}

	ids := make([]string, 0, len(result.Questions))
	for _, q := range result.Questions {
		ids = append(ids, q.VocabRef)
	}
	vocabs, err := s.vocabs.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve quiz vocabulary: %w", err)
	}

	detail := &Detail{
		QuizResult: *result,
		Questions:  make([]DetailQuestion, len(result.Questions)),
	}
	for i, q := range result.Questions {
		detail.Questions[i] = DetailQuestion{QuestionResult: q}
		if v, ok := vocabs[q.VocabRef]; ok {
			detail.Questions[i].Vocab = &v
		}
	}
	return detail, nil
}
