package scoring

import (
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"persona-engine/internal/domain"
)

// Classification keeps both candidate results next to the one that was chosen.
type Classification struct {
	Chosen  domain.ClassificationResult `json:"chosen"`
	Direct  domain.ClassificationResult `json:"direct"`
	Nearest domain.ClassificationResult `json:"nearest"`
}

// Classify runs both methods and keeps the more confident one. Ties keep the direct mapping.
func (m *Model) Classify(v domain.TraitVector) Classification {
	direct := classifyDirect(v)
	nearest := m.classifyNearest(v)
	return Classification{Chosen: resolve(direct, nearest), Direct: direct, Nearest: nearest}
}

func resolve(direct, nearest domain.ClassificationResult) domain.ClassificationResult {
	if nearest.TypeCode != "" && nearest.Confidence > direct.Confidence {
		return nearest
	}
	return direct
}

// dichotomies returns the four axis values: E/I, S/N, T/F, J/P.
func dichotomies(v domain.TraitVector) [4]float64 {
	return [4]float64{
		v[domain.Extraversion],
		(v[domain.Openness] + v[domain.AbstractOrientation]) / 2,
		(v[domain.Agreeableness] + v[domain.ValueOrientation]) / 2,
		clamp01(v[domain.Conscientiousness] - v[domain.Flexibility] + 0.5),
	}
}

var dichotomyLetters = [4][2]byte{
	{'I', 'E'},
	{'S', 'N'},
	{'T', 'F'},
	{'P', 'J'},
}

// classifyDirect maps each axis to a letter. Confidence is the mean distance from neutral,
// which is at most 0.5.
func classifyDirect(v domain.TraitVector) domain.ClassificationResult {
	dims := dichotomies(v)
	var code strings.Builder
	strengths := make([]float64, 0, len(dims))
	for i, d := range dims {
		letter := dichotomyLetters[i][0]
		if d > neutral {
			letter = dichotomyLetters[i][1]
		}
		code.WriteByte(letter)
		strengths = append(strengths, math.Abs(d-neutral))
	}
	confidence, err := stats.Mean(strengths)
	if err != nil {
		confidence = 0
	}
	return domain.ClassificationResult{
		TypeCode:   code.String(),
		Confidence: clamp01(confidence),
		Method:     domain.MethodDirectMapping,
	}
}

// classifyNearest scores the vector against every archetype and keeps the best average fit.
func (m *Model) classifyNearest(v domain.TraitVector) domain.ClassificationResult {
	best := domain.ClassificationResult{Method: domain.MethodNearestNeighbor}
	bestFit := math.Inf(-1)
	for _, a := range m.archetypes {
		fit := archetypeFit(v, a)
		if fit > bestFit {
			bestFit = fit
			best.TypeCode = a.Code
		}
	}
	if math.IsInf(bestFit, -1) {
		return best
	}
	best.Confidence = clamp01(bestFit)
	return best
}

// archetypeFit averages the per-trait fit. Inside the range the fit falls linearly from 1
// at the center to 0 at the edges; outside it is -2 per unit of distance. Full-range
// traits still lose fit away from 0.5.
func archetypeFit(v domain.TraitVector, a Archetype) float64 {
	fits := make([]float64, 0, domain.TraitCount)
	for i, r := range a.Ranges {
		val := v[i]
		var fit float64
		switch {
		case r.Contains(val):
			half := r.Width() / 2
			if half > 0 {
				fit = 1 - math.Abs(val-r.Center())/half
			} else {
				fit = 1
			}
		case val < r.Min:
			fit = -2 * (r.Min - val)
		default:
			fit = -2 * (val - r.Max)
		}
		fits = append(fits, fit)
	}
	mean, err := stats.Mean(fits)
	if err != nil {
		return 0
	}
	return mean
}
