package domain

import (
	"fmt"
	"strings"
)

// Trait identifica una de las 12 dimensiones de personalidad.
type Trait int

const (
	HonestyHumility Trait = iota
	Emotionality
	Extraversion
	Agreeableness
	Conscientiousness
	Openness
	Dominance
	Vigilance
	SelfTranscendence
	AbstractOrientation
	ValueOrientation
	Flexibility
)

// TraitCount is the number of scored dimensions.
const TraitCount = 12

var traitNames = [TraitCount]string{
	"Honesty-Humility",
	"Emotionality",
	"Extraversion",
	"Agreeableness",
	"Conscientiousness",
	"Openness",
	"Dominance",
	"Vigilance",
	"Self-Transcendence",
	"Abstract Orientation",
	"Value Orientation",
	"Flexibility",
}

var traitKeys = [TraitCount]string{
	"honesty_humility",
	"emotionality",
	"extraversion",
	"agreeableness",
	"conscientiousness",
	"openness",
	"dominance",
	"vigilance",
	"self_transcendence",
	"abstract_orientation",
	"value_orientation",
	"flexibility",
}

// AllTraits devuelve los rasgos en orden canonico.
func AllTraits() []Trait {
	out := make([]Trait, TraitCount)
	for i := range out {
		out[i] = Trait(i)
	}
	return out
}

func (t Trait) Valid() bool {
	return t >= 0 && int(t) < TraitCount
}

// String returns the display name, e.g. "Honesty-Humility".
func (t Trait) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Trait(%d)", int(t))
	}
	return traitNames[t]
}

// Key returns the snake_case identifier used in questionnaires and storage.
func (t Trait) Key() string {
	if !t.Valid() {
		return ""
	}
	return traitKeys[t]
}

// ParseTrait acepta la clave snake_case o el nombre visible, sin distinguir mayusculas.
func ParseTrait(s string) (Trait, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for i := 0; i < TraitCount; i++ {
		if needle == traitKeys[i] || needle == strings.ToLower(traitNames[i]) {
			return Trait(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trait %q", s)
}

func (t Trait) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid trait %d", int(t))
	}
	return []byte(traitKeys[t]), nil
}

func (t *Trait) UnmarshalText(text []byte) error {
	parsed, err := ParseTrait(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TraitVector holds one value in [0,1] per trait, indexed by Trait.
type TraitVector [TraitCount]float64

// NeutralVector returns a vector with every trait at 0.5.
func NeutralVector() TraitVector {
	var v TraitVector
	for i := range v {
		v[i] = 0.5
	}
	return v
}
