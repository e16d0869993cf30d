package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vocabuilder/api/internal/database"
	"github.com/vocabuilder/api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open("sqlite", dsn, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a local user with the given username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: username,
		Role:      model.RoleUser,
		IsActive:  true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateVocab inserts a vocabulary entry owned by ownerID.
func CreateVocab(t *testing.T, db *gorm.DB, ownerID string, translations model.Translations) *model.Vocabulary {
	t.Helper()

	vocab := &model.Vocabulary{
		Translations: translations,
		CreatedBy:    ownerID,
	}
	require.NoError(t, db.Create(vocab).Error)
	return vocab
}

// CreateQuizResult inserts a result for userID created at createdAt.
func CreateQuizResult(t *testing.T, db *gorm.DB, userID string, score int, createdAt time.Time) *model.QuizResult {
	t.Helper()

	result := &model.QuizResult{
		UserID:           userID,
		TotalQuestions:   1,
		CorrectAnswers:   score / 100,
		IncorrectAnswers: 1 - score/100,
		Score:            score,
		Duration:         1,
		FromLanguage:     "en",
		ToLanguage:       "de",
		Questions: model.QuestionResults{
			{VocabRef: "v1", QuestionWord: "dog", UserAnswer: "hund", CorrectAnswer: "Hund", IsCorrect: score == 100},
		},
		CreatedAt: createdAt,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(result).Error)
	return result
}

// CreateRefreshToken stores token for userID expiring at expiresAt.
func CreateRefreshToken(t *testing.T, db *gorm.DB, userID, token string, expiresAt time.Time) *model.RefreshToken {
	t.Helper()

	rt := &model.RefreshToken{UserID: userID, Token: token, ExpiresAt: expiresAt}
	require.NoError(t, db.Create(rt).Error)
	return rt
}

// CreateLanguage registers an active language.
func CreateLanguage(t *testing.T, db *gorm.DB, code, name string) *model.Language {
	t.Helper()

	language := &model.Language{Code: code, Name: name, Flag: code, IsActive: true}
	require.NoError(t, db.Create(language).Error)
	return language
}
