package quiz

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/store"
	"github.com/vocabuilder/api/internal/testutil"
)

func TestService_ListHistory_Paging(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantOffset int
		wantLimit  int
		wantPage   int
	}{
		{name: "defaults", page: 0, limit: 0, wantOffset: 0, wantLimit: 10, wantPage: 1},
		{name: "third page", page: 3, limit: 5, wantOffset: 10, wantLimit: 5, wantPage: 3},
		{name: "limit capped", page: 2, limit: 500, wantOffset: 100, wantLimit: 100, wantPage: 2},
		{name: "negative page", page: -4, limit: 20, wantOffset: 0, wantLimit: 20, wantPage: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := new(testutil.MockResultStore)
			results.On("ListByUser", mock.Anything, "u1", tt.wantOffset, tt.wantLimit).
				Return([]model.QuizResult{{ID: "q1", UserID: "u1"}}, int64(201), nil)
			svc := newTestService(new(testutil.MockVocabularyReader), results)

			page, err := svc.ListHistory(context.Background(), "u1", tt.page, tt.limit)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPage, page.CurrentPage)
			assert.Equal(t, int64(201), page.TotalCount)
			assert.Equal(t, (201+tt.wantLimit-1)/tt.wantLimit, page.TotalPages)
			results.AssertExpectations(t)
		})
	}
}

func TestService_ListHistory_Empty(t *testing.T) {
	results := new(testutil.MockResultStore)
	results.On("ListByUser", mock.Anything, "u1", 0, 10).Return(nil, int64(0), nil)
	svc := newTestService(new(testutil.MockVocabularyReader), results)

	page, err := svc.ListHistory(context.Background(), "u1", 1, 10)
	require.NoError(t, err)

	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
}

func TestService_GetDetail(t *testing.T) {
	stored := &model.QuizResult{
		ID:     "q1",
		UserID: "u1",
		Questions: model.QuestionResults{
			{VocabRef: "v-dog", QuestionWord: "dog", UserAnswer: "hund", CorrectAnswer: "Hund", IsCorrect: true},
			{VocabRef: "v-gone", QuestionWord: "cat", UserAnswer: "Maus", CorrectAnswer: "Katze"},
		},
	}
	dog := vocab("v-dog", model.Translations{"en": "dog", "de": "Hund", "fr": "chien"})

	results := new(testutil.MockResultStore)
	results.On("FindForUser", mock.Anything, "q1", "u1").Return(stored, nil)
	vocabs := new(testutil.MockVocabularyReader)
	vocabs.On("FindByIDs", mock.Anything, []string{"v-dog", "v-gone"}).
		Return(map[string]model.Vocabulary{"v-dog": dog}, nil)
	svc := newTestService(vocabs, results)

	detail, err := svc.GetDetail(context.Background(), "u1", "q1")
	require.NoError(t, err)

	require.Len(t, detail.Questions, 2)
	require.NotNil(t, detail.Questions[0].Vocab)
	assert.Equal(t, "chien", detail.Questions[0].Vocab.Translations["fr"])
	assert.Nil(t, detail.Questions[1].Vocab)
	// snapshot values survive even after the entry is gone
	assert.Equal(t, "Katze", detail.Questions[1].CorrectAnswer)

	body, err := json.Marshal(detail)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"vocab":null`)
	assert.Contains(t, string(body), `"vocabRef":"v-dog"`)
}

func TestService_GetDetail_NotFound(t *testing.T) {
	results := new(testutil.MockResultStore)
	results.On("FindForUser", mock.Anything, "q1", "intruder").Return(nil, store.ErrNotFound)
	svc := newTestService(new(testutil.MockVocabularyReader), results)

	_, err := svc.GetDetail(context.Background(), "intruder", "q1")

	assert.ErrorIs(t, err, ErrNotFound)
}
