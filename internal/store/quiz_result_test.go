package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vocabuilder/api/internal/testutil"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestQuizResultStore_ListByUser(t *testing.T) {
	db := testutil.NewDB(t)
	s := NewQuizResultStore(db)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		testutil.CreateQuizResult(t, db, alice.ID, i*10, base.Add(time.Duration(i)*time.Hour))
	}
	testutil.CreateQuizResult(t, db, bob.ID, 100, base)

	page, total, err := s.ListByUser(context.Background(), alice.ID, 2, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	// newest first: scores 40, 30 | 20, 10 | 0
	assert.Equal(t, 20, page[0].Score)
	assert.Equal(t, 10, page[1].Score)
	for _, r := range page {
		assert.Empty(t, r.Questions)
		assert.Equal(t, alice.ID, r.UserID)
	}
}

func TestQuizResultStore_FindForUser(t *testing.T) {
	db := testutil.NewDB(t)
	s := NewQuizResultStore(db)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	result := testutil.CreateQuizResult(t, db, alice.ID, 100, time.Now())

	found, err := s.FindForUser(context.Background(), result.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, found.Questions, 1)
	assert.Equal(t, "Hund", found.Questions[0].CorrectAnswer)

	_, err = s.FindForUser(context.Background(), result.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuizResultStore_ListByUser_CountError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "quiz_results"`)).
		WillReturnError(errors.New("connection reset"))

	_, _, err = NewQuizResultStore(db).ListByUser(context.Background(), "u1", 0, 10)

	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
