package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"persona-engine/internal/domain"
)

// ErrNotFound se devuelve cuando el resultado no existe.
var ErrNotFound = errors.New("not found")

type ResultRepository interface {
	Create(ctx context.Context, result domain.StoredResult) error
	GetByID(ctx context.Context, id string) (domain.StoredResult, error)
	FindByFingerprint(ctx context.Context, userID, fingerprint string) (domain.StoredResult, error)
	Nearest(ctx context.Context, resultID string, k int) ([]domain.Match, error)
}

type PgResultRepository struct {
	pool   *pgxpool.Pool
	traits TraitScoreRepository
}

func NewPgResultRepository(pool *pgxpool.Pool) *PgResultRepository {
	return &PgResultRepository{pool: pool, traits: NewPgTraitScoreRepository(pool)}
}

// Create persiste la cabecera y los puntajes por rasgo en una sola transaccion.
func (r *PgResultRepository) Create(ctx context.Context, result domain.StoredResult) error {
	const query = `
		INSERT INTO score_results (id, user_id, fingerprint, type_code, confidence, method, summary, vector, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var userID interface{}
	if result.UserID != "" {
		userID = result.UserID
	}
	p := result.Profile

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query,
			result.ID,
			userID,
			result.Fingerprint,
			p.TypeCode,
			p.Confidence,
			string(p.Method),
			p.Summary,
			toPgVector(p.Normalized()),
			result.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert score result: %w", err)
		}
		if err := insertTraitScores(ctx, tx, result.ID, p.TraitScores, result.CreatedAt); err != nil {
			return fmt.Errorf("insert trait scores: %w", err)
		}
		return nil
	})
}

func (r *PgResultRepository) GetByID(ctx context.Context, id string) (domain.StoredResult, error) {
	const query = `
		SELECT id, user_id, fingerprint, type_code, confidence, method, summary, created_at
		FROM score_results
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *PgResultRepository) FindByFingerprint(ctx context.Context, userID, fingerprint string) (domain.StoredResult, error) {
	const query = `
		SELECT id, user_id, fingerprint, type_code, confidence, method, summary, created_at
		FROM score_results
		WHERE user_id = $1 AND fingerprint = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.getOne(ctx, query, userID, fingerprint)
}

func (r *PgResultRepository) getOne(ctx context.Context, query string, args ...interface{}) (domain.StoredResult, error) {
	var (
		res    domain.StoredResult
		userID sql.NullString
		method string
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&res.ID,
		&userID,
		&res.Fingerprint,
		&res.Profile.TypeCode,
		&res.Profile.Confidence,
		&method,
		&res.Profile.Summary,
		&res.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StoredResult{}, ErrNotFound
	}
	if err != nil {
		return domain.StoredResult{}, err
	}
	if userID.Valid {
		res.UserID = userID.String
	}
	if res.Profile.Method, err = domain.ParseClassificationMethod(method); err != nil {
		return domain.StoredResult{}, fmt.Errorf("stored result %s: %w", res.ID, err)
	}

	scores, err := r.traits.FindByResultID(ctx, res.ID)
	if err != nil {
		return domain.StoredResult{}, fmt.Errorf("trait scores for %s: %w", res.ID, err)
	}
	res.Profile.TraitScores = scores
	return res, nil
}

// Nearest devuelve los resultados mas cercanos por distancia euclidiana (<->) sobre el
// vector normalizado, excluyendo el propio resultado.
func (r *PgResultRepository) Nearest(ctx context.Context, resultID string, k int) ([]domain.Match, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT r.id, r.user_id, r.type_code, r.vector <-> src.vector AS distance
		FROM score_results r, score_results src
		WHERE src.id = $1 AND r.id <> src.id
		ORDER BY r.vector <-> src.vector
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, resultID, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var (
			m      domain.Match
			userID sql.NullString
		)
		if err := rows.Scan(&m.ResultID, &userID, &m.TypeCode, &m.Distance); err != nil {
			return nil, err
		}
		if userID.Valid {
			m.UserID = userID.String
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func toPgVector(v domain.TraitVector) pgvector.Vector {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return pgvector.NewVector(out)
}
