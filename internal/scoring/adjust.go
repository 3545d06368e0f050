package scoring

import (
	"math"

	"persona-engine/internal/domain"
)

const (
	// CorrelationEnforcement scales the general correlation pull.
	CorrelationEnforcement = 0.22
	// ExtremeResponseThreshold marks a base score as strong direct evidence when it lies
	// above it or below its mirror (1 - threshold).
	ExtremeResponseThreshold = 0.8

	extremeDamping = 0.3
	neutral        = 0.5
)

// Adjust runs the four adjustment phases over the base scores and returns the final vector.
func (m *Model) Adjust(base domain.TraitVector) domain.TraitVector {
	v := m.correlationPull(base, base)
	v = m.enforcePairs(v)
	v = m.enforcePairsAdaptive(v, base)
	return preserveDirect(v, base)
}

// correlationPull nudges every trait toward the value implied by the others. Targets are
// computed from the incoming vector, so the result does not depend on trait order.
func (m *Model) correlationPull(current, base domain.TraitVector) domain.TraitVector {
	out := current
	for t := 0; t < domain.TraitCount; t++ {
		var weighted, total float64
		for i := 0; i < domain.TraitCount; i++ {
			if i == t {
				continue
			}
			r := m.corr[t][i]
			if r == 0 {
				continue
			}
			expected := neutral + (current[i]-neutral)*r
			weighted += expected * math.Abs(r)
			total += math.Abs(r)
		}
		if total <= 0 {
			continue
		}
		target := weighted / total
		out[t] = clamp01(current[t] + (target-current[t])*CorrelationEnforcement*extremenessFactor(base[t]))
	}
	return out
}

func extremenessFactor(base float64) float64 {
	if isExtreme(base) {
		return extremeDamping
	}
	return 1.0
}

func isExtreme(base float64) bool {
	return base > ExtremeResponseThreshold || base < 1-ExtremeResponseThreshold
}

// enforcePairs applies fixed-force sign enforcement to each critical pair in order.
// The trait closer to neutral is the one that moves.
func (m *Model) enforcePairs(v domain.TraitVector) domain.TraitVector {
	for _, p := range m.critical {
		if !pairConflicts(p, v[p.A], v[p.B]) {
			continue
		}
		mover, partner := p.A, p.B
		if deviation(v[p.B]) < deviation(v[p.A]) {
			mover, partner = p.B, p.A
		}
		target := pairTarget(p, v[partner])
		v[mover] = clamp01(v[mover] + (target-v[mover])*p.Force)
	}
	return v
}

// enforcePairsAdaptive repeats the pair checks but moves only the trait with weaker direct
// evidence, with force scaled down by that evidence.
func (m *Model) enforcePairsAdaptive(v, base domain.TraitVector) domain.TraitVector {
	for _, p := range m.critical {
		if !pairConflicts(p, v[p.A], v[p.B]) {
			continue
		}
		sa, sb := directStrength(base[p.A]), directStrength(base[p.B])
		mover, partner := p.A, p.B
		switch {
		case sb < sa:
			mover, partner = p.B, p.A
		case sb == sa && deviation(v[p.B]) < deviation(v[p.A]):
			mover, partner = p.B, p.A
		}
		force := p.Force * (1 - directStrength(base[mover]))
		if force <= 0 {
			continue
		}
		target := pairTarget(p, v[partner])
		v[mover] = clamp01(v[mover] + (target-v[mover])*force)
	}
	return v
}

// pairConflicts reports whether the current scores contradict the pair's expected sign.
// A score sitting exactly at neutral is on neither side.
func pairConflicts(p CriticalPair, a, b float64) bool {
	switch {
	case p.Expected > 0:
		return (a > neutral && b < neutral) || (a < neutral && b > neutral)
	case p.Expected < 0:
		return (a > neutral && b > neutral) || (a < neutral && b < neutral)
	}
	return false
}

func pairTarget(p CriticalPair, partner float64) float64 {
	if p.Expected > 0 {
		if partner > neutral {
			return 0.6
		}
		return 0.4
	}
	if partner > neutral {
		return 0.3
	}
	return 0.7
}

func deviation(v float64) float64 {
	return math.Abs(v - neutral)
}

func directStrength(base float64) float64 {
	return math.Min(1, 2*math.Abs(base-neutral))
}

// preserveDirect keeps strong direct answers from being flattened by the earlier phases.
func preserveDirect(adjusted, base domain.TraitVector) domain.TraitVector {
	for i := range adjusted {
		b, a := base[i], adjusted[i]
		if b > 0.9 && a < 0.65 {
			a = 0.65
		}
		if b < 0.1 && a > 0.35 {
			a = 0.35
		}
		if b > ExtremeResponseThreshold && a < b-0.3 {
			a = b - 0.3
		}
		if b < 1-ExtremeResponseThreshold && a > b+0.3 {
			a = b + 0.3
		}
		adjusted[i] = clamp01(a)
	}
	return adjusted
}
