package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"persona-engine/internal/domain"
)

// TraitScoreRepository lee los puntajes por rasgo de un resultado.
type TraitScoreRepository interface {
	FindByResultID(ctx context.Context, resultID string) ([]domain.TraitScoreResult, error)
}

type PgTraitScoreRepository struct {
	pool *pgxpool.Pool
}

func NewPgTraitScoreRepository(pool *pgxpool.Pool) *PgTraitScoreRepository {
	return &PgTraitScoreRepository{pool: pool}
}

// insertTraitScores writes one row per trait inside the caller's transaction.
func insertTraitScores(ctx context.Context, tx pgx.Tx, resultID string, scores []domain.TraitScoreResult, createdAt time.Time) error {
	const query = `
		INSERT INTO trait_scores (id, result_id, trait, score, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (result_id, trait)
		DO UPDATE SET
			score = EXCLUDED.score,
			description = EXCLUDED.description
	`

	batch := &pgx.Batch{}
	for _, ts := range scores {
		batch.Queue(query,
			uuid.NewString(),
			resultID,
			ts.Trait.Key(),
			ts.Score,
			ts.Description,
			createdAt,
		)
	}
	return tx.SendBatch(ctx, batch).Close()
}

func (r *PgTraitScoreRepository) FindByResultID(ctx context.Context, resultID string) ([]domain.TraitScoreResult, error) {
	const query = `
		SELECT trait, score, description
		FROM trait_scores
		WHERE result_id = $1
	`

	rows, err := r.pool.Query(ctx, query, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTraitScores(rows)
}

func scanTraitScores(rows pgxRows) ([]domain.TraitScoreResult, error) {
	var scores []domain.TraitScoreResult
	for rows.Next() {
		var (
			key string
			ts  domain.TraitScoreResult
		)
		if err := rows.Scan(&key, &ts.Score, &ts.Description); err != nil {
			return nil, err
		}
		trait, err := domain.ParseTrait(key)
		if err != nil {
			return nil, fmt.Errorf("stored trait score: %w", err)
		}
		ts.Trait = trait
		scores = append(scores, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].Trait < scores[j].Trait })
	return scores, nil
}

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
