package store

import (
	"context"

	"github.com/vocabuilder/api/internal/model"
	"gorm.io/gorm"
)

// summaryColumns is every quiz_results column except the per-question detail.
var summaryColumns = []string{
	"id", "user_id", "total_questions", "correct_answers", "incorrect_answers",
	"score", "duration", "from_language", "to_language", "created_at", "updated_at",
}

type QuizResultStore struct {
	db *gorm.DB
}

func NewQuizResultStore(db *gorm.DB) *QuizResultStore {
	return &QuizResultStore{db: db}
}

func (s *QuizResultStore) Create(ctx context.Context, result *model.QuizResult) error {
	return s.db.WithContext(ctx).Create(result).Error
}

// ListByUser returns one page of a user's results, newest first, without
// question detail, together with the user's total result count.
func (s *QuizResultStore) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.QuizResult, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.QuizResult{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []model.QuizResult
	err := s.db.WithContext(ctx).
		Select(summaryColumns).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// FindForUser returns the result only when it belongs to userID.
func (s *QuizResultStore) FindForUser(ctx context.Context, id, userID string) (*model.QuizResult, error) {
	var result model.QuizResult
	if err := s.db.WithContext(ctx).First(&result, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, translateError(err)
	}
	return &result, nil
}

func (s *QuizResultStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.QuizResult{}).Count(&count).Error
	return count, err
}
