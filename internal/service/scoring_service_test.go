package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"persona-engine/internal/domain"
	"persona-engine/internal/repository"
	"persona-engine/internal/scoring"
)

type mockResultRepo struct {
	byID       map[string]domain.StoredResult
	creates    int
	createErr  error
	findErr    error
	nearest    []domain.Match
	nearestK   int
	nearestErr error
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{byID: make(map[string]domain.StoredResult)}
}

func (m *mockResultRepo) Create(_ context.Context, result domain.StoredResult) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.creates++
	m.byID[result.ID] = result
	return nil
}

func (m *mockResultRepo) GetByID(_ context.Context, id string) (domain.StoredResult, error) {
	res, ok := m.byID[id]
	if !ok {
		return domain.StoredResult{}, repository.ErrNotFound
	}
	return res, nil
}

func (m *mockResultRepo) FindByFingerprint(_ context.Context, userID, fingerprint string) (domain.StoredResult, error) {
	if m.findErr != nil {
		return domain.StoredResult{}, m.findErr
	}
	for _, res := range m.byID {
		if res.UserID == userID && res.Fingerprint == fingerprint {
			return res, nil
		}
	}
	return domain.StoredResult{}, repository.ErrNotFound
}

func (m *mockResultRepo) Nearest(_ context.Context, _ string, k int) ([]domain.Match, error) {
	m.nearestK = k
	return m.nearest, m.nearestErr
}

type denyAllLimiter struct{ calls int }

func (d *denyAllLimiter) Allow(string) bool {
	d.calls++
	return false
}

const (
	resultA = "6f1c1b7e-8a34-4a55-9a52-2a5b0d3c9e01"
	resultB = "0b4f2d8a-3c1e-4f7b-b1d2-9e8c7a6b5d02"
)

func newTestScoringService(repo repository.ResultRepository, limiter ScoreRateLimiter) *ScoringService {
	svc := NewScoringService(scoring.NewEngine(nil, nil), repo, limiter, zap.NewNop())
	ids := []string{resultA, resultB}
	svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func sampleAnswers() []domain.Answer {
	return []domain.Answer{
		{QuestionID: 1, Value: 5},
		{QuestionID: 2, Value: 2},
		{QuestionID: 3, Value: 4},
		{QuestionID: 4, Value: 1},
	}
}

func TestScoringService_ScorePersistsAndReuses(t *testing.T) {
	repo := newMockResultRepo()
	svc := newTestScoringService(repo, NewMemoryRateLimiter(time.Minute, 10))
	ctx := context.Background()

	first, err := svc.Score(ctx, "u1", sampleAnswers())
	require.NoError(t, err)
	assert.Equal(t, resultA, first.ID)
	assert.Equal(t, "u1", first.UserID)
	assert.Equal(t, AnswerFingerprint(sampleAnswers()), first.Fingerprint)
	assert.Len(t, first.Profile.TraitScores, domain.TraitCount)
	assert.Len(t, first.Profile.TypeCode, 4)
	assert.Equal(t, 1, repo.creates)

	reordered := sampleAnswers()
	reordered[0], reordered[3] = reordered[3], reordered[0]
	second, err := svc.Score(ctx, "u1", reordered)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same answer set must reuse the stored result")
	assert.Equal(t, 1, repo.creates)

	other, err := svc.Score(ctx, "u2", sampleAnswers())
	require.NoError(t, err)
	assert.Equal(t, resultB, other.ID)
	assert.Equal(t, 2, repo.creates)
}

func TestScoringService_ScoreMatchesEngine(t *testing.T) {
	svc := newTestScoringService(newMockResultRepo(), nil)
	stored, err := svc.Score(context.Background(), "u1", sampleAnswers())
	require.NoError(t, err)

	want := scoring.NewEngine(nil, nil).Score(sampleAnswers()).Profile
	assert.Equal(t, want, stored.Profile)
}

func TestScoringService_AnonymousDoesNotPersist(t *testing.T) {
	repo := newMockResultRepo()
	limiter := &denyAllLimiter{}
	svc := newTestScoringService(repo, limiter)

	res, err := svc.Score(context.Background(), "  ", sampleAnswers())
	require.NoError(t, err)
	assert.Empty(t, res.ID)
	assert.Empty(t, res.UserID)
	assert.NotEmpty(t, res.Profile.TypeCode)
	assert.Zero(t, repo.creates)
	assert.Zero(t, limiter.calls)
}

func TestScoringService_ScoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		var svc *ScoringService
		_, err := svc.Score(ctx, "u1", sampleAnswers())
		assert.ErrorIs(t, err, ErrScoringNotConfigured)

		_, err = NewScoringService(scoring.NewEngine(nil, nil), nil, nil, nil).Score(ctx, "u1", sampleAnswers())
		assert.ErrorIs(t, err, ErrScoringNotConfigured)
	})

	t.Run("empty answers", func(t *testing.T) {
		svc := newTestScoringService(newMockResultRepo(), nil)
		_, err := svc.Score(ctx, "u1", nil)
		assert.ErrorIs(t, err, ErrScoringInvalidInput)
	})

	t.Run("rate limited", func(t *testing.T) {
		repo := newMockResultRepo()
		svc := newTestScoringService(repo, &denyAllLimiter{})
		_, err := svc.Score(ctx, "u1", sampleAnswers())
		assert.ErrorIs(t, err, ErrRateLimited)
		assert.Zero(t, repo.creates)
	})

	t.Run("fingerprint lookup failure", func(t *testing.T) {
		repo := newMockResultRepo()
		repo.findErr = errors.New("db down")
		svc := newTestScoringService(repo, nil)
		_, err := svc.Score(ctx, "u1", sampleAnswers())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lookup fingerprint")
	})

	t.Run("persist failure", func(t *testing.T) {
		repo := newMockResultRepo()
		repo.createErr = errors.New("db down")
		svc := newTestScoringService(repo, nil)
		_, err := svc.Score(ctx, "u1", sampleAnswers())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "persist score result")
	})
}

func TestScoringService_Get(t *testing.T) {
	repo := newMockResultRepo()
	svc := newTestScoringService(repo, nil)
	ctx := context.Background()
	stored, err := svc.Score(ctx, "u1", sampleAnswers())
	require.NoError(t, err)

	got, err := svc.Get(ctx, "u1", stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)

	_, err = svc.Get(ctx, "u2", stored.ID)
	assert.ErrorIs(t, err, ErrResultNotFound, "foreign results are hidden")

	_, err = svc.Get(ctx, "u1", resultB)
	assert.ErrorIs(t, err, ErrResultNotFound)

	_, err = svc.Get(ctx, "u1", "not-a-uuid")
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestScoringService_Matches(t *testing.T) {
	repo := newMockResultRepo()
	svc := newTestScoringService(repo, nil)
	ctx := context.Background()
	stored, err := svc.Score(ctx, "u1", sampleAnswers())
	require.NoError(t, err)

	matches, err := svc.Matches(ctx, "u1", stored.ID, 0)
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
	assert.Equal(t, defaultMatchLimit, repo.nearestK)

	repo.nearest = []domain.Match{{ResultID: resultB, TypeCode: "INTP", Distance: 0.12}}
	matches, err = svc.Matches(ctx, "u1", stored.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, maxMatchLimit, repo.nearestK)
	assert.Equal(t, repo.nearest, matches)

	_, err = svc.Matches(ctx, "u2", stored.ID, 3)
	assert.ErrorIs(t, err, ErrResultNotFound)

	repo.nearestErr = errors.New("db down")
	_, err = svc.Matches(ctx, "u1", stored.ID, 3)
	require.Error(t, err)
}

func TestScoringService_Questions(t *testing.T) {
	svc := newTestScoringService(nil, nil)
	qs := svc.Questions()
	require.Len(t, qs, scoring.DefaultQuestionnaire().Len())
	for i := 1; i < len(qs); i++ {
		assert.Less(t, qs[i-1].ID, qs[i].ID)
	}
}
