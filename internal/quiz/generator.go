package quiz

import (
	"context"
	"fmt"

	"github.com/vocabuilder/api/internal/filter"
	"github.com/vocabuilder/api/internal/model"
	"go.uber.org/zap"
)

const (
	DefaultQuestionCount = 10
	MaxQuestionCount     = 50
)

// Question is a prompt shown to the quiz taker. It never carries the answer.
type Question struct {
	ID             string `json:"id"`
	QuestionNumber int    `json:"questionNumber"`
	Word           string `json:"word"`
}

// GenerateQuiz draws count entries uniformly at random, without replacement,
// from every user's vocabulary that has text in both languages.
func (s *Service) GenerateQuiz(ctx context.Context, requester, from, to string, count int) ([]Question, error) {
	if from == "" || to == "" {
		return nil, validationError("Please select source and target languages")
	}
	if from == to {
		return nil, validationError("Source and target languages must be different")
	}
	if count < 1 {
		return nil, validationError("Number of questions must be at least 1")
	}
	if count > MaxQuestionCount {
		return nil, validationError(fmt.Sprintf("Number of questions cannot exceed %d", MaxQuestionCount))
	}

	all, err := s.vocabs.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vocabularies: %w", err)
	}

	eligible := filter.Eligible(all, from, to)
	s.log.Debug("quiz pool",
		zap.String("requester", requester),
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("total", len(all)),
		zap.Int("eligible", len(eligible)),
	)

	if len(eligible) < count {
		return nil, validationError(fmt.Sprintf(
			"Only %d valid vocabularies available. Need at least %d words to create a quiz.",
			len(eligible), count,
		))
	}

	picked := s.sample(eligible, count)

	questions := make([]Question, len(picked))
	for i, v := range picked {
		word, _ := v.Translations.Text(from)
		questions[i] = Question{
			ID:             v.ID,
			QuestionNumber: i + 1,
			Word:           word,
		}
	}
	return questions, nil
}

// sample runs a partial Fisher-Yates shuffle over a copy of pool.
func (s *Service) sample(pool []model.Vocabulary, n int) []model.Vocabulary {
	shuffled := make([]model.Vocabulary, len(pool))
	copy(shuffled, pool)

	for i := 0; i < n; i++ {
		j := i + s.intN(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n]
}
