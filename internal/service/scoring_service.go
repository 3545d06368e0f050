package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"persona-engine/internal/domain"
	"persona-engine/internal/repository"
	"persona-engine/internal/scoring"
)

// ScoringService persists engine runs per user and answers lookups over them.
type ScoringService struct {
	engine  *scoring.Engine
	results repository.ResultRepository
	limiter ScoreRateLimiter
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

var (
	ErrScoringNotConfigured = errors.New("scoring service not configured")
	ErrScoringInvalidInput  = errors.New("scoring invalid input")
	ErrRateLimited          = errors.New("too many score submissions")
	ErrResultNotFound       = errors.New("score result not found")
)

const defaultMatchLimit = 5
const maxMatchLimit = 50

func NewScoringService(engine *scoring.Engine, results repository.ResultRepository, limiter ScoreRateLimiter, logger *zap.Logger) *ScoringService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringService{
		engine:  engine,
		results: results,
		limiter: limiter,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// Score corre el motor sobre las respuestas. Con userID vacio el resultado no se persiste.
// Si el usuario ya envio el mismo conjunto de respuestas se devuelve el resultado guardado.
func (s *ScoringService) Score(ctx context.Context, userID string, answers []domain.Answer) (domain.StoredResult, error) {
	if s == nil || s.engine == nil {
		return domain.StoredResult{}, ErrScoringNotConfigured
	}
	if len(answers) == 0 {
		return domain.StoredResult{}, ErrScoringInvalidInput
	}
	userID = strings.TrimSpace(userID)
	fingerprint := AnswerFingerprint(answers)

	if userID == "" {
		res := s.engine.Score(answers)
		return domain.StoredResult{
			Fingerprint: fingerprint,
			Profile:     res.Profile,
			CreatedAt:   s.now(),
		}, nil
	}

	if s.results == nil {
		return domain.StoredResult{}, ErrScoringNotConfigured
	}
	if s.limiter != nil && !s.limiter.Allow(userID) {
		s.logger.Warn("score submission rate limited", zap.String("user_id", userID))
		return domain.StoredResult{}, ErrRateLimited
	}

	existing, err := s.results.FindByFingerprint(ctx, userID, fingerprint)
	switch {
	case err == nil:
		s.logger.Debug("reusing stored result",
			zap.String("user_id", userID),
			zap.String("result_id", existing.ID),
		)
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return domain.StoredResult{}, fmt.Errorf("lookup fingerprint: %w", err)
	}

	res := s.engine.Score(answers)
	stored := domain.StoredResult{
		ID:          s.newID(),
		UserID:      userID,
		Fingerprint: fingerprint,
		Profile:     res.Profile,
		CreatedAt:   s.now(),
	}
	if err := s.results.Create(ctx, stored); err != nil {
		return domain.StoredResult{}, fmt.Errorf("persist score result: %w", err)
	}

	s.logger.Info("score result stored",
		zap.String("user_id", userID),
		zap.String("result_id", stored.ID),
		zap.String("type_code", stored.Profile.TypeCode),
		zap.Float64("confidence", stored.Profile.Confidence),
		zap.String("method", string(stored.Profile.Method)),
		zap.Int("answers", len(answers)),
		zap.Int("resolved", res.Resolved),
	)
	return stored, nil
}

// Get devuelve un resultado del usuario. Los resultados de otros usuarios se reportan como inexistentes.
func (s *ScoringService) Get(ctx context.Context, userID, resultID string) (domain.StoredResult, error) {
	if s == nil || s.results == nil {
		return domain.StoredResult{}, ErrScoringNotConfigured
	}
	resultID = strings.TrimSpace(resultID)
	if _, err := uuid.Parse(resultID); err != nil {
		return domain.StoredResult{}, ErrResultNotFound
	}
	res, err := s.results.GetByID(ctx, resultID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.StoredResult{}, ErrResultNotFound
	}
	if err != nil {
		return domain.StoredResult{}, fmt.Errorf("get score result: %w", err)
	}
	if res.UserID != strings.TrimSpace(userID) {
		return domain.StoredResult{}, ErrResultNotFound
	}
	return res, nil
}

// Matches lista los k resultados guardados mas parecidos al indicado.
func (s *ScoringService) Matches(ctx context.Context, userID, resultID string, k int) ([]domain.Match, error) {
	if _, err := s.Get(ctx, userID, resultID); err != nil {
		return nil, err
	}
	switch {
	case k <= 0:
		k = defaultMatchLimit
	case k > maxMatchLimit:
		k = maxMatchLimit
	}
	matches, err := s.results.Nearest(ctx, strings.TrimSpace(resultID), k)
	if err != nil {
		return nil, fmt.Errorf("nearest results: %w", err)
	}
	if matches == nil {
		matches = []domain.Match{}
	}
	return matches, nil
}

// Questions lists the questionnaire items in ID order.
func (s *ScoringService) Questions() []scoring.Question {
	if s == nil || s.engine == nil {
		return nil
	}
	lister, ok := s.engine.Bank().(interface{ Questions() []scoring.Question })
	if !ok {
		return nil
	}
	return lister.Questions()
}
