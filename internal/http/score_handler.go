package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-engine/internal/domain"
	"persona-engine/internal/scoring"
	"persona-engine/internal/service"
)

// Scorer is the subset of service.ScoringService used by the handlers.
type Scorer interface {
	Score(ctx context.Context, userID string, answers []domain.Answer) (domain.StoredResult, error)
	Get(ctx context.Context, userID, resultID string) (domain.StoredResult, error)
	Matches(ctx context.Context, userID, resultID string, k int) ([]domain.Match, error)
	Questions() []scoring.Question
}

// ScoreHandler expone el cuestionario y los resultados de scoring.
type ScoreHandler struct {
	logger *zap.Logger
	scorer Scorer
}

func NewScoreHandler(logger *zap.Logger, scorer Scorer) *ScoreHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreHandler{logger: logger, scorer: scorer}
}

type questionView struct {
	ID    int          `json:"id"`
	Text  string       `json:"text"`
	Trait domain.Trait `json:"trait"`
}

// ListQuestions maneja GET /questions.
func (h *ScoreHandler) ListQuestions(c *gin.Context) {
	questions := h.scorer.Questions()
	out := make([]questionView, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionView{ID: q.ID, Text: q.Text, Trait: q.Trait})
	}
	c.JSON(http.StatusOK, gin.H{"questions": out})
}

type answerRequest struct {
	QuestionID int `json:"question_id" binding:"required,gt=0"`
	Value      int `json:"value" binding:"required,min=1,max=5"`
}

type submitAnswersRequest struct {
	Answers []answerRequest `json:"answers" binding:"required,min=1,dive"`
}

// SubmitAnswers maneja POST /scores. Con token el resultado queda guardado para el usuario.
func (h *ScoreHandler) SubmitAnswers(c *gin.Context) {
	var req submitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid score request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	answers := make([]domain.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, domain.Answer{QuestionID: a.QuestionID, Value: a.Value})
	}

	var userID string
	if claims, ok := GetAuthClaims(c); ok {
		userID = claims.UserID
	}

	result, err := h.scorer.Score(c.Request.Context(), userID, answers)
	if err != nil {
		h.writeError(c, err, "could not score answers")
		return
	}

	status := http.StatusOK
	if result.ID != "" {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"result": result})
}

// GetResult maneja GET /scores/:id.
func (h *ScoreHandler) GetResult(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	result, err := h.scorer.Get(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "could not fetch result")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// GetMatches maneja GET /scores/:id/matches?k=5.
func (h *ScoreHandler) GetMatches(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	k := 0
	if raw := c.Query("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "k must be a positive integer"})
			return
		}
		k = parsed
	}
	matches, err := h.scorer.Matches(c.Request.Context(), claims.UserID, c.Param("id"), k)
	if err != nil {
		h.writeError(c, err, "could not fetch matches")
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (h *ScoreHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrScoringInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, service.ErrResultNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	case errors.Is(err, service.ErrScoringNotConfigured):
		h.logger.Error("scoring not configured", zap.String("path", c.FullPath()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scoring storage unavailable"})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
