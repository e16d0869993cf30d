package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// QuestionResult is the graded outcome of a single quiz answer.
type QuestionResult struct {
	VocabRef      string `json:"vocabRef"`
	QuestionWord  string `json:"questionWord"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// QuestionResults is a slice of QuestionResult stored as a JSON array
type QuestionResults []QuestionResult

// Value implements driver.Valuer for JSON serialization
func (q QuestionResults) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	b, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON deserialization
func (q *QuestionResults) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*q = QuestionResults{}
		return nil
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	default:
		return fmt.Errorf("failed to unmarshal QuestionResults: unsupported type %T", value)
	}
}

func (QuestionResults) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

// QuizResult is the immutable record of one completed quiz attempt.
// One row = one submission; per-question detail lives in Questions.
type QuizResult struct {
	ID               string          `gorm:"primaryKey;size:36" json:"id"`
	UserID           string          `gorm:"not null;size:36;index:idx_quiz_results_user_created,priority:1" json:"user"`
	TotalQuestions   int             `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers   int             `gorm:"not null" json:"correctAnswers"`
	IncorrectAnswers int             `gorm:"not null" json:"incorrectAnswers"`
	Score            int             `gorm:"not null" json:"score"`
	Duration         int             `gorm:"not null" json:"duration"`
	FromLanguage     string          `gorm:"not null;size:10" json:"fromLanguage"`
	ToLanguage       string          `gorm:"not null;size:10" json:"toLanguage"`
	Questions        QuestionResults `json:"questions,omitempty"`
	CreatedAt        time.Time       `gorm:"index:idx_quiz_results_user_created,priority:2,sort:desc" json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

func (r *QuizResult) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
