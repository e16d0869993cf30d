package quiz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/vocabuilder/api/internal/filter"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/store"
	"go.uber.org/zap"
)

type Answer struct {
	VocabID    string `json:"vocabId"`
	UserAnswer string `json:"userAnswer"`
}

// Submission is a completed quiz as sent by the client. StartTime and EndTime
// are taken at face value.
type Submission struct {
	Answers      []Answer
	StartTime    time.Time
	EndTime      time.Time
	FromLanguage string
	ToLanguage   string
}

const minDurationSeconds = 1

// GradeQuiz scores sub against the current vocabulary and stores the result.
//
// Answers whose entry no longer exists (or has no translations) are skipped:
// they count as neither correct nor incorrect and are left out of Questions,
// while TotalQuestions still counts every submitted answer.
func (s *Service) GradeQuiz(ctx context.Context, requester string, sub Submission) (*model.QuizResult, error) {
	if len(sub.Answers) == 0 {
		return nil, validationError("Invalid answer data")
	}

	vocabs, err := s.lookupAll(ctx, sub.Answers)
	if err != nil {
		return nil, fmt.Errorf("look up answers: %w", err)
	}

	var correct, incorrect int
	questions := make(model.QuestionResults, 0, len(sub.Answers))
	for i, answer := range sub.Answers {
		vocab := vocabs[i]
		if vocab == nil || len(vocab.Translations) == 0 {
			continue
		}

		correctAnswer := vocab.Translations[sub.ToLanguage]
		isCorrect := filter.AnswersMatch(answer.UserAnswer, correctAnswer)
		if isCorrect {
			correct++
		} else {
			incorrect++
		}

		questions = append(questions, model.QuestionResult{
			VocabRef:      vocab.ID,
			QuestionWord:  vocab.Translations[sub.FromLanguage],
			UserAnswer:    answer.UserAnswer,
			CorrectAnswer: correctAnswer,
			IsCorrect:     isCorrect,
		})
	}

	total := len(sub.Answers)
	if skipped := total - len(questions); skipped > 0 {
		s.log.Warn("quiz answers skipped",
			zap.String("user_id", requester),
			zap.Int("skipped", skipped),
			zap.Int("total", total),
		)
	}

	result := &model.QuizResult{
		UserID:           requester,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		IncorrectAnswers: incorrect,
		Score:            scorePercent(correct, total),
		Duration:         durationSeconds(sub.StartTime, sub.EndTime),
		FromLanguage:     sub.FromLanguage,
		ToLanguage:       sub.ToLanguage,
		Questions:        questions,
	}

	if err := s.results.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("save quiz result: %w", err)
	}
	return result, nil
}

// lookupAll fetches the entry for every answer concurrently. The returned
// slice is aligned with answers; nil marks an answer to skip. No new lookup
// starts once ctx is done.
func (s *Service) lookupAll(ctx context.Context, answers []Answer) ([]*model.Vocabulary, error) {
	out := make([]*model.Vocabulary, len(answers))
	sem := make(chan struct{}, s.lookupConcurrency)
	var wg sync.WaitGroup

dispatch:
	for i, answer := range answers {
		if answer.VocabID == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			vocab, err := s.vocabs.FindByID(ctx, answer.VocabID)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					s.log.Warn("vocabulary lookup failed",
						zap.String("vocab_id", answer.VocabID),
						zap.Error(err),
					)
				}
				return
			}
			out[i] = vocab
		}()
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
