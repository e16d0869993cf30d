package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vocabuilder/api/internal/model"
)

// MockVocabularyReader is a mock for the quiz vocabulary reader
type MockVocabularyReader struct {
	mock.Mock
}

func (m *MockVocabularyReader) ListAll(ctx context.Context) ([]model.Vocabulary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Vocabulary), args.Error(1)
}

func (m *MockVocabularyReader) FindByID(ctx context.Context, id string) (*model.Vocabulary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vocabulary), args.Error(1)
}

func (m *MockVocabularyReader) FindByIDs(ctx context.Context, ids []string) (map[string]model.Vocabulary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.Vocabulary), args.Error(1)
}

// MockResultStore is a mock for the quiz result store
type MockResultStore struct {
	mock.Mock
}

func (m *MockResultStore) Create(ctx context.Context, result *model.QuizResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultStore) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.QuizResult, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.QuizResult), args.Get(1).(int64), args.Error(2)
}

func (m *MockResultStore) FindForUser(ctx context.Context, id, userID string) (*model.QuizResult, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuizResult), args.Error(1)
}
