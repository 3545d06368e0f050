package domain

import (
	"fmt"
	"time"
)

// ClassificationMethod indica que metodo produjo el codigo de tipo.
type ClassificationMethod string

const (
	MethodDirectMapping   ClassificationMethod = "direct_mapping"
	MethodNearestNeighbor ClassificationMethod = "nearest_neighbor"
)

func ParseClassificationMethod(s string) (ClassificationMethod, error) {
	switch ClassificationMethod(s) {
	case MethodDirectMapping, MethodNearestNeighbor:
		return ClassificationMethod(s), nil
	}
	return "", fmt.Errorf("unknown classification method %q", s)
}

type ClassificationResult struct {
	TypeCode   string               `json:"type_code"`
	Confidence float64              `json:"confidence"`
	Method     ClassificationMethod `json:"method"`
}

// TraitScoreResult is one rendered trait: score on [0,100] plus its description.
type TraitScoreResult struct {
	Trait       Trait   `json:"trait"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// Profile es la salida visible del motor de puntuacion.
type Profile struct {
	TraitScores []TraitScoreResult   `json:"trait_scores"`
	Summary     string               `json:"summary"`
	TypeCode    string               `json:"type_code"`
	Confidence  float64              `json:"confidence"`
	Method      ClassificationMethod `json:"method"`
}

// Normalized returns the [0,1] vector used by similarity consumers (score / 100).
func (p Profile) Normalized() TraitVector {
	v := NeutralVector()
	for _, ts := range p.TraitScores {
		if ts.Trait.Valid() {
			v[ts.Trait] = ts.Score / 100.0
		}
	}
	return v
}

// StoredResult is a persisted scoring run.
type StoredResult struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	Profile     Profile   `json:"profile"`
	CreatedAt   time.Time `json:"created_at"`
}

// Match is a stored result close to another one in trait space.
type Match struct {
	ResultID string  `json:"result_id"`
	UserID   string  `json:"user_id,omitempty"`
	TypeCode string  `json:"type_code"`
	Distance float64 `json:"distance"`
}
