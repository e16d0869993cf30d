package quiz

import (
	"context"
	"math/rand"

	"github.com/vocabuilder/api/internal/model"
	"go.uber.org/zap"
)

// VocabularyReader is the read side of the vocabulary store used for quizzes.
type VocabularyReader interface {
	ListAll(ctx context.Context) ([]model.Vocabulary, error)
	FindByID(ctx context.Context, id string) (*model.Vocabulary, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]model.Vocabulary, error)
}

// ResultStore persists and lists completed quizzes.
type ResultStore interface {
	Create(ctx context.Context, result *model.QuizResult) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.QuizResult, int64, error)
	FindForUser(ctx context.Context, id, userID string) (*model.QuizResult, error)
}

const defaultLookupConcurrency = 8

// Service generates, grades and lists quizzes. It holds no per-quiz state.
type Service struct {
	vocabs            VocabularyReader
	results           ResultStore
	log               *zap.Logger
	intN              func(n int) int
	lookupConcurrency int
}

func NewService(vocabs VocabularyReader, results ResultStore, log *zap.Logger) *Service {
	return &Service{
		vocabs:            vocabs,
		results:           results,
		log:               log,
		intN:              rand.Intn,
		lookupConcurrency: defaultLookupConcurrency,
	}
}
