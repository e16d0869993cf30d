package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type Question struct {
	ID             string `json:"id"`
	QuestionNumber int    `json:"questionNumber"`
	Word           string `json:"word"`
}

type Answer struct {
	VocabID    string `json:"vocabId"`
	UserAnswer string `json:"userAnswer"`
}

type QuestionResult struct {
	VocabRef      string `json:"vocabRef"`
	QuestionWord  string `json:"questionWord"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

type QuizResult struct {
	QuizID           string           `json:"quizId"`
	Score            int              `json:"score"`
	CorrectAnswers   int              `json:"correctAnswers"`
	IncorrectAnswers int              `json:"incorrectAnswers"`
	TotalQuestions   int              `json:"totalQuestions"`
	Duration         int              `json:"duration"`
	FromLanguage     string           `json:"fromLanguage"`
	ToLanguage       string           `json:"toLanguage"`
	Questions        []QuestionResult `json:"questions"`
}

type HistoryItem struct {
	ID               string    `json:"id"`
	Score            int       `json:"score"`
	CorrectAnswers   int       `json:"correctAnswers"`
	IncorrectAnswers int       `json:"incorrectAnswers"`
	TotalQuestions   int       `json:"totalQuestions"`
	Duration         int       `json:"duration"`
	FromLanguage     string    `json:"fromLanguage"`
	ToLanguage       string    `json:"toLanguage"`
	CreatedAt        time.Time `json:"createdAt"`
}

type HistoryPage struct {
	QuizHistory  []HistoryItem `json:"quizHistory"`
	TotalPages   int           `json:"totalPages"`
	CurrentPage  int           `json:"currentPage"`
	TotalQuizzes int64         `json:"totalQuizzes"`
}

type DetailQuestion struct {
	QuestionResult
	Vocab *struct {
		ID           string            `json:"id"`
		Translations map[string]string `json:"translations"`
	} `json:"vocab"`
}

type QuizDetail struct {
	HistoryItem
	Questions []DetailQuestion `json:"questions"`
}

// do sends body as JSON and decodes a 2xx response into out.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &payload) != nil || payload.Message == "" {
			payload.Message = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func historyPath(page, limit int) string {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) == 0 {
		return "/quiz/history"
	}
	return "/quiz/history?" + q.Encode()
}
