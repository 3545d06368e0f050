package scoring

import "persona-engine/internal/domain"

const (
	// DirectWeight is the weight of an answer on its primary trait.
	DirectWeight = 39.0
	// CorrelatedWeight is the weight of an answer on each correlated trait.
	CorrelatedWeight = 0.085

	likertMin     = 1.0
	likertMax     = 5.0
	likertNeutral = 3.0
)

// Accumulator holds the running weighted sum for one trait on the 1..5 scale.
type Accumulator struct {
	WeightedSum float64
	WeightTotal float64
}

func (a *Accumulator) add(value, weight float64) {
	a.WeightedSum += value * weight
	a.WeightTotal += weight
}

// Accumulators is indexed by domain.Trait. It is a value type so every call gets its own.
type Accumulators [domain.TraitCount]Accumulator

// Accumulate turns answers into per-trait accumulators. Answers whose question has no
// primary trait are skipped. It also returns how many answers were resolved.
func Accumulate(bank QuestionBank, answers []domain.Answer) (Accumulators, int) {
	var acc Accumulators
	resolved := 0
	for _, ans := range answers {
		primary, ok := bank.PrimaryTrait(ans.QuestionID)
		if !ok || !primary.Valid() {
			continue
		}
		resolved++

		value := clamp(float64(ans.Value), likertMin, likertMax)
		acc[primary].add(value, DirectWeight)

		for _, adj := range bank.Adjustments(ans.QuestionID, int(value)) {
			strength, ok := adj.Tag.Strength()
			if !ok || !adj.Trait.Valid() {
				continue
			}
			acc[adj.Trait].add(correlatedValue(value, strength), CorrelatedWeight)
		}
	}
	return acc, resolved
}

// correlatedValue projects an answer onto a secondary trait around the scale midpoint.
func correlatedValue(value, strength float64) float64 {
	return clamp(likertNeutral+(value-likertNeutral)*strength*2.0, likertMin, likertMax)
}

// BaseScores maps each accumulator mean from 1..5 onto [0,1]. Traits with no weight stay at 0.5.
func BaseScores(acc Accumulators) domain.TraitVector {
	base := domain.NeutralVector()
	for i, a := range acc {
		if a.WeightTotal <= 0 {
			continue
		}
		mean := a.WeightedSum / a.WeightTotal
		base[i] = clamp01((mean - likertMin) / (likertMax - likertMin))
	}
	return base
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
