package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persona-engine/internal/domain"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, LabelVeryHigh},
		{80, LabelVeryHigh},
		{79.99, LabelHigh},
		{65, LabelHigh},
		{64.99, LabelModerate},
		{35, LabelModerate},
		{34.99, LabelLow},
		{20, LabelLow},
		{19.99, LabelVeryLow},
		{0, LabelVeryLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.score), "score %v", tt.score)
	}
}

func TestAssembleScoresAndDescriptions(t *testing.T) {
	v := vectorWith(map[domain.Trait]float64{
		domain.Extraversion: 0.87654,
		domain.Vigilance:    0.1,
	})
	c := domain.ClassificationResult{TypeCode: "ENFP", Confidence: 0.42, Method: domain.MethodNearestNeighbor}

	p := Assemble(v, c)

	require.Len(t, p.TraitScores, domain.TraitCount)
	for i, ts := range p.TraitScores {
		assert.Equal(t, domain.Trait(i), ts.Trait)
		assert.NotEmpty(t, ts.Description)
	}
	assert.Equal(t, 87.65, p.TraitScores[domain.Extraversion].Score)
	assert.True(t, strings.HasPrefix(p.TraitScores[domain.Extraversion].Description, "Very High: "))
	assert.True(t, strings.HasPrefix(p.TraitScores[domain.Vigilance].Description, "Very Low: "))
	assert.True(t, strings.HasPrefix(p.TraitScores[domain.Openness].Description, "Moderate: "))

	assert.Equal(t, "ENFP", p.TypeCode)
	assert.Equal(t, 0.42, p.Confidence)
	assert.Equal(t, domain.MethodNearestNeighbor, p.Method)
	assert.Equal(t,
		"Your most pronounced trait is Extraversion (88) and your least pronounced is Vigilance (10).",
		p.Summary)
}

func TestAssembleTiesResolveAlphabetically(t *testing.T) {
	p := Assemble(domain.NeutralVector(), domain.ClassificationResult{TypeCode: "ISTP"})
	assert.Equal(t,
		"Your most pronounced trait is Abstract Orientation (50) and your least pronounced is Abstract Orientation (50).",
		p.Summary)

	v := vectorWith(map[domain.Trait]float64{domain.Openness: 0.9, domain.Dominance: 0.9})
	p = Assemble(v, domain.ClassificationResult{})
	assert.Contains(t, p.Summary, "most pronounced trait is Dominance (90)")
}

func TestAssembleInterpretation(t *testing.T) {
	v := vectorWith(map[domain.Trait]float64{
		domain.Extraversion:      0.8,
		domain.Openness:          0.75,
		domain.Conscientiousness: 0.9,
		domain.Flexibility:       0.1,
	})
	p := Assemble(v, domain.ClassificationResult{})

	// Only the first matching sentence is used.
	assert.Contains(t, p.Summary, "new people and new ideas")
	assert.NotContains(t, p.Summary, "value structure")

	v[domain.Extraversion] = 0.5
	p = Assemble(v, domain.ClassificationResult{})
	assert.Contains(t, p.Summary, "value structure")
}

func TestAssembleClampsOutOfRangeConfidence(t *testing.T) {
	p := Assemble(domain.NeutralVector(), domain.ClassificationResult{Confidence: 1.7})
	assert.Equal(t, 1.0, p.Confidence)
}

func TestProfileNormalized(t *testing.T) {
	v := vectorWith(map[domain.Trait]float64{domain.Agreeableness: 0.25})
	p := Assemble(v, domain.ClassificationResult{})

	n := p.Normalized()
	assert.InDelta(t, 0.25, n[domain.Agreeableness], 1e-9)
	assert.InDelta(t, 0.5, n[domain.Openness], 1e-9)
}
