package scoring

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"persona-engine/internal/domain"
)

// Range is an inclusive [Min,Max] band on the [0,1] trait scale.
type Range struct {
	Min float64
	Max float64
}

// FullRange marks a trait that does not discriminate an archetype.
var FullRange = Range{Min: 0, Max: 1}

func (r Range) Center() float64 { return (r.Min + r.Max) / 2 }
func (r Range) Width() float64  { return r.Max - r.Min }

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Correlation declares the expected correlation between two distinct traits.
type Correlation struct {
	A, B domain.Trait
	R    float64
}

// CriticalPair is a strongly correlated pair that gets explicit sign enforcement.
type CriticalPair struct {
	A, B     domain.Trait
	Expected float64
	Force    float64
}

// Archetype is a type code with its acceptable range per trait.
type Archetype struct {
	Code   string
	Ranges [domain.TraitCount]Range
}

// CorrelationMatrix is symmetric with a unit diagonal.
type CorrelationMatrix [domain.TraitCount][domain.TraitCount]float64

func (m *CorrelationMatrix) At(a, b domain.Trait) float64 {
	return m[a][b]
}

// Model agrupa las tablas estaticas del motor. Es de solo lectura una vez construido.
type Model struct {
	corr       CorrelationMatrix
	critical   []CriticalPair
	archetypes []Archetype
}

var (
	ErrInvalidCorrelation  = errors.New("invalid correlation")
	ErrInvalidCriticalPair = errors.New("invalid critical pair")
	ErrInvalidArchetype    = errors.New("invalid archetype")
)

// NewModel builds and validates a model. Correlations are given once per unordered pair;
// the matrix is mirrored and its diagonal set to 1.
func NewModel(correlations []Correlation, critical []CriticalPair, archetypes map[string]map[domain.Trait]Range, order []string) (*Model, error) {
	m := &Model{}
	for i := 0; i < domain.TraitCount; i++ {
		m.corr[i][i] = 1.0
	}

	seen := make(map[[2]domain.Trait]struct{}, len(correlations))
	for _, c := range correlations {
		if !c.A.Valid() || !c.B.Valid() || c.A == c.B {
			return nil, fmt.Errorf("%w: %v/%v", ErrInvalidCorrelation, c.A, c.B)
		}
		if math.IsNaN(c.R) || c.R < -1 || c.R > 1 {
			return nil, fmt.Errorf("%w: %v/%v out of range: %v", ErrInvalidCorrelation, c.A, c.B, c.R)
		}
		key := [2]domain.Trait{min(c.A, c.B), max(c.A, c.B)}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate pair %v/%v", ErrInvalidCorrelation, c.A, c.B)
		}
		seen[key] = struct{}{}
		m.corr[c.A][c.B] = c.R
		m.corr[c.B][c.A] = c.R
	}

	for _, p := range critical {
		if !p.A.Valid() || !p.B.Valid() || p.A == p.B {
			return nil, fmt.Errorf("%w: %v/%v", ErrInvalidCriticalPair, p.A, p.B)
		}
		if p.Force <= 0 || p.Force > 1 {
			return nil, fmt.Errorf("%w: %v/%v force %v", ErrInvalidCriticalPair, p.A, p.B, p.Force)
		}
		if p.Expected == 0 || p.Expected != m.corr[p.A][p.B] {
			return nil, fmt.Errorf("%w: %v/%v expected %v, matrix has %v", ErrInvalidCriticalPair, p.A, p.B, p.Expected, m.corr[p.A][p.B])
		}
	}
	m.critical = append([]CriticalPair(nil), critical...)

	if len(order) != len(archetypes) {
		return nil, fmt.Errorf("%w: order lists %d codes for %d archetypes", ErrInvalidArchetype, len(order), len(archetypes))
	}
	for _, code := range order {
		ranges, ok := archetypes[code]
		if !ok {
			return nil, fmt.Errorf("%w: %q missing from table", ErrInvalidArchetype, code)
		}
		if len(code) != 4 {
			return nil, fmt.Errorf("%w: code %q must have 4 letters", ErrInvalidArchetype, code)
		}
		a := Archetype{Code: code}
		for i := range a.Ranges {
			a.Ranges[i] = FullRange
		}
		for t, r := range ranges {
			if !t.Valid() || r.Min < 0 || r.Max > 1 || r.Min > r.Max {
				return nil, fmt.Errorf("%w: %s %v range [%v,%v]", ErrInvalidArchetype, code, t, r.Min, r.Max)
			}
			a.Ranges[t] = r
		}
		m.archetypes = append(m.archetypes, a)
	}

	return m, nil
}

var defaultModel = sync.OnceValue(func() *Model {
	m, err := NewModel(defaultCorrelations, defaultCriticalPairs, defaultArchetypes, defaultArchetypeOrder)
	if err != nil {
		panic(fmt.Sprintf("scoring: default model: %v", err))
	}
	return m
})

// DefaultModel returns the process-wide model built from the built-in tables.
func DefaultModel() *Model {
	return defaultModel()
}

// Correlation returns the expected correlation between a and b.
func (m *Model) Correlation(a, b domain.Trait) float64 {
	return m.corr.At(a, b)
}

// Matrix devuelve una copia de la matriz de correlacion.
func (m *Model) Matrix() CorrelationMatrix {
	return m.corr
}

func (m *Model) CriticalPairs() []CriticalPair {
	return append([]CriticalPair(nil), m.critical...)
}

func (m *Model) Archetypes() []Archetype {
	return append([]Archetype(nil), m.archetypes...)
}
