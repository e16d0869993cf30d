package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/store"
	"github.com/vocabuilder/api/internal/testutil"
)

func dogAndCat(vocabs *testutil.MockVocabularyReader) {
	dog := vocab("v-dog", model.Translations{"en": "dog", "de": "Hund"})
	cat := vocab("v-cat", model.Translations{"en": "cat", "de": "Katze"})
	vocabs.On("FindByID", mock.Anything, "v-dog").Return(&dog, nil)
	vocabs.On("FindByID", mock.Anything, "v-cat").Return(&cat, nil)
}

func TestService_GradeQuiz_Scores(t *testing.T) {
	vocabs := new(testutil.MockVocabularyReader)
	dogAndCat(vocabs)
	results := new(testutil.MockResultStore)
	results.On("Create", mock.Anything, mock.AnythingOfType("*model.QuizResult")).Return(nil)
	svc := newTestService(vocabs, results)

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	result, err := svc.GradeQuiz(context.Background(), "u1", Submission{
		Answers: []Answer{
			{VocabID: "v-dog", UserAnswer: " HUND "},
			{VocabID: "v-cat", UserAnswer: "Maus"},
		},
		StartTime:    start,
		EndTime:      start.Add(42 * time.Second),
		FromLanguage: "en",
		ToLanguage:   "de",
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", result.UserID)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 1, result.IncorrectAnswers)
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, 42, result.Duration)
	require.Len(t, result.Questions, 2)

	assert.Equal(t, model.QuestionResult{
		VocabRef: "v-dog", QuestionWord: "dog", UserAnswer: " HUND ", CorrectAnswer: "Hund", IsCorrect: true,
	}, result.Questions[0])
	assert.Equal(t, model.QuestionResult{
		VocabRef: "v-cat", QuestionWord: "cat", UserAnswer: "Maus", CorrectAnswer: "Katze", IsCorrect: false,
	}, result.Questions[1])
	results.AssertExpectations(t)
}

func TestService_GradeQuiz_SkipsMissingVocabulary(t *testing.T) {
	vocabs := new(testutil.MockVocabularyReader)
	dogAndCat(vocabs)
	vocabs.On("FindByID", mock.Anything, "v-gone").Return(nil, store.ErrNotFound)
	results := new(testutil.MockResultStore)
	results.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := newTestService(vocabs, results)

	result, err := svc.GradeQuiz(context.Background(), "u1", Submission{
		Answers: []Answer{
			{VocabID: "v-dog", UserAnswer: "hund"},
			{VocabID: "v-gone", UserAnswer: "whatever"},
			{VocabID: "", UserAnswer: "nothing"},
		},
		FromLanguage: "en",
		ToLanguage:   "de",
	})
	require.NoError(t, err)

	// skipped answers still count toward the total
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 0, result.IncorrectAnswers)
	assert.Equal(t, 33, result.Score)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, "v-dog", result.Questions[0].VocabRef)
	vocabs.AssertNotCalled(t, "FindByID", mock.Anything, "")
}

func TestService_GradeQuiz_MissingTargetTranslation(t *testing.T) {
	vocabs := new(testutil.MockVocabularyReader)
	entry := vocab("v1", model.Translations{"en": "dog"})
	vocabs.On("FindByID", mock.Anything, "v1").Return(&entry, nil)
	results := new(testutil.MockResultStore)
	results.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := newTestService(vocabs, results)

	result, err := svc.GradeQuiz(context.Background(), "u1", Submission{
		Answers:      []Answer{{VocabID: "v1", UserAnswer: ""}},
		FromLanguage: "en",
		ToLanguage:   "de",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.CorrectAnswers)
	assert.Equal(t, 1, result.IncorrectAnswers)
	assert.Equal(t, "", result.Questions[0].CorrectAnswer)
	assert.False(t, result.Questions[0].IsCorrect)
}

func TestService_GradeQuiz_BlankAnswersNeverMatchEmptyTranslations(t *testing.T) {
	vocabs := new(testutil.MockVocabularyReader)
	blank := vocab("v-blank", model.Translations{"en": "dog", "de": ""})
	missing := vocab("v-missing", model.Translations{"en": "cat"})
	vocabs.On("FindByID", mock.Anything, "v-blank").Return(&blank, nil)
	vocabs.On("FindByID", mock.Anything, "v-missing").Return(&missing, nil)
	results := new(testutil.MockResultStore)
	results.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := newTestService(vocabs, results)

	result, err := svc.GradeQuiz(context.Background(), "u1", Submission{
		Answers: []Answer{
			{VocabID: "v-blank", UserAnswer: ""},
			{VocabID: "v-missing", UserAnswer: "   "},
		},
		FromLanguage: "en",
		ToLanguage:   "de",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.CorrectAnswers)
	assert.Equal(t, 2, result.IncorrectAnswers)
	assert.Equal(t, 0, result.Score)
	require.Len(t, result.Questions, 2)
	for _, q := range result.Questions {
		assert.False(t, q.IsCorrect, q.VocabRef)
	}
}

func TestService_GradeQuiz_PreservesAnswerOrder(t *testing.T) {
	vocabs := new(testutil.MockVocabularyReader)
	var answers []Answer
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("v%02d", i)
		entry := vocab(id, model.Translations{"en": id, "de": "x" + id})
		vocabs.On("FindByID", mock.Anything, id).Return(&entry, nil)
		answers = append(answers, Answer{VocabID: id, UserAnswer: "x" + id})
	}
	results := new(testutil.MockResultStore)
	results.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := newTestService(vocabs, results)
	svc.lookupConcurrency = 3

	result, err := svc.GradeQuiz(context.Background(), "u1", Submission{
		Answers: answers, FromLanguage: "en", ToLanguage: "de",
	})
	require.NoError(t, err)

	require.Len(t, result.Questions, len(answers))
	for i, q := range result.Questions {
		assert.Equal(t, answers[i].VocabID, q.VocabRef)
	}
	assert.Equal(t, 100, result.Score)
}

func TestService_GradeQuiz_CancelledBeforeLookup(t *testing.T) {
	vocabs := new(testutil.MockVocabularyReader)
	results := new(testutil.MockResultStore)
	svc := newTestService(vocabs, results)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GradeQuiz(ctx, "u1", Submission{
		Answers:      []Answer{{VocabID: "v-dog", UserAnswer: "Hund"}, {VocabID: "v-cat", UserAnswer: "Katze"}},
		FromLanguage: "en",
		ToLanguage:   "de",
	})

	require.ErrorIs(t, err, context.Canceled)
	vocabs.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	results.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_GradeQuiz_CancelledWhileWaitingForSlot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vocabs := new(testutil.MockVocabularyReader)
	dog := vocab("v-dog", model.Translations{"en": "dog", "de": "Hund"})
	vocabs.On("FindByID", mock.Anything, "v-dog").
		Run(func(mock.Arguments) { cancel() }).
		Return(&dog, nil).Once()
	cat := vocab("v-cat", model.Translations{"en": "cat", "de": "Katze"})
	vocabs.On("FindByID", mock.Anything, "v-cat").Return(&cat, nil).Maybe()
	results := new(testutil.MockResultStore)
	svc := newTestService(vocabs, results)
	svc.lookupConcurrency = 1

	var answers []Answer
	for i := 0; i < 10; i++ {
		answers = append(answers, Answer{VocabID: "v-cat", UserAnswer: "Katze"})
	}
	answers[0] = Answer{VocabID: "v-dog", UserAnswer: "Hund"}

	_, err := svc.GradeQuiz(ctx, "u1", Submission{Answers: answers, FromLanguage: "en", ToLanguage: "de"})

	require.ErrorIs(t, err, context.Canceled)
	results.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	// the cancel lands while the slot is held, so at most one more lookup can start
	var catLookups int
	for _, call := range vocabs.Calls {
		if call.Method == "FindByID" && call.Arguments.String(1) == "v-cat" {
			catLookups++
		}
	}
	assert.LessOrEqual(t, catLookups, 1)
}

func TestService_GradeQuiz_NoAnswers(t *testing.T) {
	results := new(testutil.MockResultStore)
	svc := newTestService(new(testutil.MockVocabularyReader), results)

	_, err := svc.GradeQuiz(context.Background(), "u1", Submission{FromLanguage: "en", ToLanguage: "de"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid answer data", verr.Message)
	results.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_GradeQuiz_SaveError(t *testing.T) {
	vocabs := new(testutil.MockVocabularyReader)
	dogAndCat(vocabs)
	results := new(testutil.MockResultStore)
	results.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	svc := newTestService(vocabs, results)

	_, err := svc.GradeQuiz(context.Background(), "u1", Submission{
		Answers: []Answer{{VocabID: "v-dog", UserAnswer: "Hund"}}, FromLanguage: "en", ToLanguage: "de",
	})

	assert.ErrorContains(t, err, "disk full")
}

func TestScorePercent(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{7, 10, 70},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of %d", tt.correct, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, scorePercent(tt.correct, tt.total))
		})
	}
}

func TestDurationSeconds(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{name: "rounds down", start: start, end: start.Add(1499 * time.Millisecond), want: 1},
		{name: "rounds half up", start: start, end: start.Add(2500 * time.Millisecond), want: 3},
		{name: "sub-second clamps to one", start: start, end: start.Add(400 * time.Millisecond), want: 1},
		{name: "zero elapsed", start: start, end: start, want: 1},
		{name: "end before start", start: start, end: start.Add(-time.Minute), want: 1},
		{name: "missing start", end: start, want: 1},
		{name: "missing end", start: start, want: 1},
		{name: "minutes", start: start, end: start.Add(3*time.Minute + 10*time.Second), want: 190},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, durationSeconds(tt.start, tt.end))
		})
	}
}
