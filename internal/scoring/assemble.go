package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"persona-engine/internal/domain"
)

const (
	LabelVeryHigh = "Very High"
	LabelHigh     = "High"
	LabelModerate = "Moderate"
	LabelLow      = "Low"
	LabelVeryLow  = "Very Low"
)

// Label maps a 0-100 score to its qualitative band.
func Label(score float64) string {
	switch {
	case score >= 80:
		return LabelVeryHigh
	case score >= 65:
		return LabelHigh
	case score >= 35:
		return LabelModerate
	case score >= 20:
		return LabelLow
	default:
		return LabelVeryLow
	}
}

type traitPhrases struct {
	high, moderate, low string
}

var descriptions = [domain.TraitCount]traitPhrases{
	domain.HonestyHumility: {
		high:     "sincere and fair-minded, with little interest in status or manipulation",
		moderate: "generally fair, but willing to play the game when it matters",
		low:      "strategic and status-aware, comfortable bending rules for an advantage",
	},
	domain.Emotionality: {
		high:     "emotionally sensitive, attached to others and quick to sense danger",
		moderate: "emotionally responsive without being easily overwhelmed",
		low:      "emotionally steady and rarely anxious under pressure",
	},
	domain.Extraversion: {
		high:     "outgoing and energized by social contact",
		moderate: "comfortable in company and in solitude alike",
		low:      "reserved and recharged by time alone",
	},
	domain.Agreeableness: {
		high:     "patient, forgiving and cooperative",
		moderate: "cooperative, but able to stand firm in a disagreement",
		low:      "critical and quick to challenge others",
	},
	domain.Conscientiousness: {
		high:     "organized, disciplined and careful with commitments",
		moderate: "reasonably organized, with room for spontaneity",
		low:      "spontaneous and relaxed about plans and details",
	},
	domain.Openness: {
		high:     "curious, imaginative and drawn to unconventional ideas",
		moderate: "open to new ideas when they prove useful",
		low:      "practical and attached to the familiar",
	},
	domain.Dominance: {
		high:     "assertive and inclined to take control",
		moderate: "able to lead when needed without seeking control",
		low:      "deferential and happy to let others lead",
	},
	domain.Vigilance: {
		high:     "watchful and slow to trust others' intentions",
		moderate: "trusting, but alert to warning signs",
		low:      "trusting and rarely suspicious",
	},
	domain.SelfTranscendence: {
		high:     "oriented toward meaning and connection beyond the self",
		moderate: "occasionally reflective about larger questions",
		low:      "focused on the concrete and the here and now",
	},
	domain.AbstractOrientation: {
		high:     "drawn to concepts, patterns and possibilities",
		moderate: "balanced between concepts and concrete facts",
		low:      "grounded in facts and direct experience",
	},
	domain.ValueOrientation: {
		high:     "guided by empathy and personal values when deciding",
		moderate: "weighs both logic and people's feelings when deciding",
		low:      "guided by logic and objective criteria when deciding",
	},
	domain.Flexibility: {
		high:     "adaptable and comfortable with last-minute change",
		moderate: "adaptable, though preferring some structure",
		low:      "structured and most comfortable with settled plans",
	},
}

func describe(t domain.Trait, score float64) string {
	p := descriptions[t]
	phrase := p.moderate
	switch {
	case score >= 65:
		phrase = p.high
	case score < 35:
		phrase = p.low
	}
	return fmt.Sprintf("%s: %s", Label(score), phrase)
}

// interpretation is a canned sentence triggered by a trait combination. Scores are 0-100.
type interpretation struct {
	matches  func(s [domain.TraitCount]float64) bool
	sentence string
}

// Only the first matching rule is used.
var interpretations = []interpretation{
	{
		matches: func(s [domain.TraitCount]float64) bool {
			return s[domain.Extraversion] > 70 && s[domain.Openness] > 70
		},
		sentence: "You seek out both new people and new ideas, and novelty tends to energize you.",
	},
	{
		matches: func(s [domain.TraitCount]float64) bool {
			return s[domain.Conscientiousness] > 70 && s[domain.Flexibility] < 35
		},
		sentence: "You value structure and follow through on plans, preferring predictability over improvisation.",
	},
	{
		matches: func(s [domain.TraitCount]float64) bool {
			return s[domain.Emotionality] > 70 && s[domain.Vigilance] > 70
		},
		sentence: "You notice risks early and feel them deeply, which can make you cautious in unfamiliar situations.",
	},
	{
		matches: func(s [domain.TraitCount]float64) bool {
			return s[domain.Agreeableness] > 70 && s[domain.HonestyHumility] > 70
		},
		sentence: "You are cooperative and sincere, and others likely find you easy to trust.",
	},
	{
		matches: func(s [domain.TraitCount]float64) bool {
			return s[domain.Dominance] > 70 && s[domain.Agreeableness] < 35
		},
		sentence: "You are comfortable taking charge and may put results ahead of consensus.",
	},
	{
		matches: func(s [domain.TraitCount]float64) bool {
			return s[domain.SelfTranscendence] > 70 && s[domain.AbstractOrientation] > 65
		},
		sentence: "You are drawn to abstract questions of meaning and purpose beyond everyday concerns.",
	},
}

// traitsByName lists traits alphabetically by display name; extremes are picked in this
// order so ties resolve to the alphabetically first trait.
var traitsByName = func() []domain.Trait {
	ts := domain.AllTraits()
	sort.Slice(ts, func(i, j int) bool { return ts[i].String() < ts[j].String() })
	return ts
}()

// Assemble renders the final vector and classification into a Profile.
func Assemble(v domain.TraitVector, c domain.ClassificationResult) domain.Profile {
	var scores [domain.TraitCount]float64
	results := make([]domain.TraitScoreResult, 0, domain.TraitCount)
	for _, t := range domain.AllTraits() {
		score := toScore(v[t])
		scores[t] = score
		results = append(results, domain.TraitScoreResult{
			Trait:       t,
			Score:       score,
			Description: describe(t, score),
		})
	}

	return domain.Profile{
		TraitScores: results,
		Summary:     summarize(scores),
		TypeCode:    c.TypeCode,
		Confidence:  clamp01(c.Confidence),
		Method:      c.Method,
	}
}

func toScore(v float64) float64 {
	return math.Round(clamp01(v)*100*100) / 100
}

func summarize(scores [domain.TraitCount]float64) string {
	highest, lowest := traitsByName[0], traitsByName[0]
	for _, t := range traitsByName[1:] {
		if scores[t] > scores[highest] {
			highest = t
		}
		if scores[t] < scores[lowest] {
			lowest = t
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your most pronounced trait is %s (%.0f) and your least pronounced is %s (%.0f).",
		highest, scores[highest], lowest, scores[lowest])
	for _, rule := range interpretations {
		if rule.matches(scores) {
			b.WriteString(" ")
			b.WriteString(rule.sentence)
			break
		}
	}
	return b.String()
}
