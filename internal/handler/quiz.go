package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vocabuilder/api/internal/auth"
	"github.com/vocabuilder/api/internal/middleware"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/quiz"
	"go.uber.org/zap"
)

type QuizHandler struct {
	svc *quiz.Service
	log *zap.Logger
}

func NewQuizHandler(svc *quiz.Service, log *zap.Logger) *QuizHandler {
	return &QuizHandler{svc: svc, log: log}
}

type submitQuizRequest struct {
	Answers      []quiz.Answer `json:"answers"`
	StartTime    clientTime    `json:"startTime"`
	EndTime      clientTime    `json:"endTime"`
	FromLanguage string        `json:"fromLanguage"`
	ToLanguage   string        `json:"toLanguage"`
}

type quizResultResponse struct {
	QuizID           string                `json:"quizId"`
	Score            int                   `json:"score"`
	CorrectAnswers   int                   `json:"correctAnswers"`
	IncorrectAnswers int                   `json:"incorrectAnswers"`
	TotalQuestions   int                   `json:"totalQuestions"`
	Duration         int                   `json:"duration"`
	FromLanguage     string                `json:"fromLanguage"`
	ToLanguage       string                `json:"toLanguage"`
	Questions        model.QuestionResults `json:"questions"`
}

// respondQuizError maps service errors onto the JSON error shape.
func (h *QuizHandler) respondQuizError(c *gin.Context, err error, internalMessage string) {
	var verr *quiz.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, quiz.ErrNotFound):
		respondError(c, http.StatusNotFound, quiz.ErrNotFound.Error())
	default:
		respondInternal(c, h.log, internalMessage, err)
	}
}

// Questions handles GET /quiz/questions
func (h *QuizHandler) Questions(c *gin.Context) {
	session, _ := auth.CurrentSession(c)
	from := c.Query("fromLanguage")
	to := c.Query("toLanguage")

	count := quiz.DefaultQuestionCount
	if raw := c.Query("numberOfQuestions"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Number of questions must be at least 1")
			return
		}
		count = n
	}

	questions, err := h.svc.GenerateQuiz(c.Request.Context(), session.UserID(), from, to, count)
	if err != nil {
		h.respondQuizError(c, err, "Error creating quiz")
		return
	}
	middleware.RecordQuizGenerated(from, to)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"questions":      questions,
		"totalQuestions": len(questions),
		"fromLanguage":   from,
		"toLanguage":     to,
	})
}

// Submit handles POST /quiz/submit
func (h *QuizHandler) Submit(c *gin.Context) {
	session, _ := auth.CurrentSession(c)

	var req submitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid answer data")
		return
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		h.log.Warn("quiz submitted without usable timestamps", zap.String("user_id", session.UserID()))
	}

	result, err := h.svc.GradeQuiz(c.Request.Context(), session.UserID(), quiz.Submission{
		Answers:      req.Answers,
		StartTime:    req.StartTime.Time,
		EndTime:      req.EndTime.Time,
		FromLanguage: req.FromLanguage,
		ToLanguage:   req.ToLanguage,
	})
	if err != nil {
		h.respondQuizError(c, err, "Error grading quiz")
		return
	}
	middleware.RecordQuizGraded(result.Score, result.TotalQuestions-len(result.Questions))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result": quizResultResponse{
			QuizID:           result.ID,
			Score:            result.Score,
			CorrectAnswers:   result.CorrectAnswers,
			IncorrectAnswers: result.IncorrectAnswers,
			TotalQuestions:   result.TotalQuestions,
			Duration:         result.Duration,
			FromLanguage:     result.FromLanguage,
			ToLanguage:       result.ToLanguage,
			Questions:        result.Questions,
		},
	})
}

// History handles GET /quiz/history
func (h *QuizHandler) History(c *gin.Context) {
	session, _ := auth.CurrentSession(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(quiz.DefaultHistoryLimit)))

	history, err := h.svc.ListHistory(c.Request.Context(), session.UserID(), page, limit)
	if err != nil {
		h.respondQuizError(c, err, "Error fetching quiz history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"quizHistory":  history.Items,
		"totalPages":   history.TotalPages,
		"currentPage":  history.CurrentPage,
		"totalQuizzes": history.TotalCount,
	})
}

// Detail handles GET /quiz/:quizId
func (h *QuizHandler) Detail(c *gin.Context) {
	session, _ := auth.CurrentSession(c)

	detail, err := h.svc.GetDetail(c.Request.Context(), session.UserID(), c.Param("quizId"))
	if err != nil {
		h.respondQuizError(c, err, "Error fetching quiz detail")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "quiz": detail})
}
