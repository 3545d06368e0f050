package scoring

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"persona-engine/internal/domain"
)

//go:embed questionnaire.yaml
var defaultQuestionnaireYAML []byte

// QuestionBank resolves question metadata. Implementations must be safe for concurrent reads.
type QuestionBank interface {
	PrimaryTrait(questionID int) (domain.Trait, bool)
	Adjustments(questionID, value int) []Adjustment
}

// Tag is the symbolic strength of a correlated-trait adjustment.
type Tag string

const (
	TagStrongPositive   Tag = "++"
	TagPositive         Tag = "+"
	TagModeratePositive Tag = "+m"
	TagNone             Tag = "0"
	TagModerateNegative Tag = "-m"
	TagNegative         Tag = "-"
	TagStrongNegative   Tag = "--"
)

var tagStrengths = map[Tag]float64{
	TagStrongPositive:   0.6,
	TagPositive:         0.5,
	TagModeratePositive: 0.25,
	TagNone:             0.0,
	TagModerateNegative: -0.25,
	TagNegative:         -0.5,
	TagStrongNegative:   -0.6,
}

// Strength returns the numeric equivalent of the tag.
func (t Tag) Strength() (float64, bool) {
	s, ok := tagStrengths[t]
	return s, ok
}

// Bucket groups Likert values for adjustment lookup.
type Bucket string

const (
	BucketLow  Bucket = "low"
	BucketMid  Bucket = "mid"
	BucketHigh Bucket = "high"
)

// BucketOf maps 1-2 to low, 3 to mid and 4-5 to high.
func BucketOf(value int) Bucket {
	switch {
	case value <= 2:
		return BucketLow
	case value == 3:
		return BucketMid
	default:
		return BucketHigh
	}
}

type Adjustment struct {
	Trait domain.Trait `json:"trait"`
	Tag   Tag          `json:"tag"`
}

type Question struct {
	ID          int                     `json:"id"`
	Text        string                  `json:"text"`
	Trait       domain.Trait            `json:"trait"`
	Adjustments map[Bucket][]Adjustment `json:"adjustments,omitempty"`
}

// Questionnaire is an immutable QuestionBank loaded from YAML.
type Questionnaire struct {
	questions []Question
	byID      map[int]int
}

var ErrInvalidQuestionnaire = errors.New("invalid questionnaire")

type rawQuestionnaire struct {
	Questions []rawQuestion `yaml:"questions"`
}

type rawQuestion struct {
	ID          int                        `yaml:"id"`
	Text        string                     `yaml:"text"`
	Trait       string                     `yaml:"trait"`
	Adjustments map[string][]rawAdjustment `yaml:"adjustments"`
}

type rawAdjustment struct {
	Trait string `yaml:"trait"`
	Tag   string `yaml:"tag"`
}

// LoadQuestionnaire decodes and validates a YAML questionnaire.
func LoadQuestionnaire(r io.Reader) (*Questionnaire, error) {
	var raw rawQuestionnaire
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidQuestionnaire, err)
	}
	if len(raw.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidQuestionnaire)
	}

	q := &Questionnaire{
		questions: make([]Question, 0, len(raw.Questions)),
		byID:      make(map[int]int, len(raw.Questions)),
	}
	seen := make(map[int]struct{}, len(raw.Questions))
	for _, rq := range raw.Questions {
		question, err := rq.toQuestion()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[question.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %d", ErrInvalidQuestionnaire, question.ID)
		}
		seen[question.ID] = struct{}{}
		q.questions = append(q.questions, question)
	}

	sort.Slice(q.questions, func(i, j int) bool { return q.questions[i].ID < q.questions[j].ID })
	for i, question := range q.questions {
		q.byID[question.ID] = i
	}
	return q, nil
}

func (rq rawQuestion) toQuestion() (Question, error) {
	if rq.ID <= 0 {
		return Question{}, fmt.Errorf("%w: question id must be positive, got %d", ErrInvalidQuestionnaire, rq.ID)
	}
	primary, err := domain.ParseTrait(rq.Trait)
	if err != nil {
		return Question{}, fmt.Errorf("%w: question %d: %v", ErrInvalidQuestionnaire, rq.ID, err)
	}
	question := Question{ID: rq.ID, Text: rq.Text, Trait: primary}
	if len(rq.Adjustments) > 0 {
		question.Adjustments = make(map[Bucket][]Adjustment, len(rq.Adjustments))
	}
	for bucketName, raws := range rq.Adjustments {
		bucket := Bucket(bucketName)
		if bucket != BucketLow && bucket != BucketMid && bucket != BucketHigh {
			return Question{}, fmt.Errorf("%w: question %d: unknown bucket %q", ErrInvalidQuestionnaire, rq.ID, bucketName)
		}
		adjustments := make([]Adjustment, 0, len(raws))
		for _, ra := range raws {
			trait, err := domain.ParseTrait(ra.Trait)
			if err != nil {
				return Question{}, fmt.Errorf("%w: question %d: %v", ErrInvalidQuestionnaire, rq.ID, err)
			}
			if trait == primary {
				return Question{}, fmt.Errorf("%w: question %d adjusts its own primary trait", ErrInvalidQuestionnaire, rq.ID)
			}
			tag := Tag(ra.Tag)
			if _, ok := tag.Strength(); !ok {
				return Question{}, fmt.Errorf("%w: question %d: unknown tag %q", ErrInvalidQuestionnaire, rq.ID, ra.Tag)
			}
			adjustments = append(adjustments, Adjustment{Trait: trait, Tag: tag})
		}
		question.Adjustments[bucket] = adjustments
	}
	return question, nil
}

// LoadQuestionnaireFile reads a questionnaire from disk.
func LoadQuestionnaireFile(path string) (*Questionnaire, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open questionnaire: %w", err)
	}
	defer f.Close()
	return LoadQuestionnaire(f)
}

var defaultQuestionnaire = sync.OnceValue(func() *Questionnaire {
	q, err := LoadQuestionnaire(bytes.NewReader(defaultQuestionnaireYAML))
	if err != nil {
		panic(fmt.Sprintf("scoring: embedded questionnaire: %v", err))
	}
	return q
})

// DefaultQuestionnaire returns the embedded questionnaire.
func DefaultQuestionnaire() *Questionnaire {
	return defaultQuestionnaire()
}

func (q *Questionnaire) PrimaryTrait(questionID int) (domain.Trait, bool) {
	i, ok := q.byID[questionID]
	if !ok {
		return 0, false
	}
	return q.questions[i].Trait, true
}

// Adjustments returns the correlated-trait adjustments for a response. The slice is shared
// and must not be modified.
func (q *Questionnaire) Adjustments(questionID, value int) []Adjustment {
	i, ok := q.byID[questionID]
	if !ok {
		return nil
	}
	return q.questions[i].Adjustments[BucketOf(value)]
}

// Questions returns the questions ordered by ID.
func (q *Questionnaire) Questions() []Question {
	return append([]Question(nil), q.questions...)
}

func (q *Questionnaire) Len() int {
	return len(q.questions)
}
