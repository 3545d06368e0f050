// Package scoring turns questionnaire answers into a trait profile and a type code.
//
// The pipeline is strictly forward: answers are accumulated per trait, reduced to base
// scores, adjusted for inter-trait consistency, classified, and rendered. All working state
// lives in locals, so a single Engine can serve any number of concurrent calls.
package scoring

import "persona-engine/internal/domain"

// Engine is immutable after construction.
type Engine struct {
	bank  QuestionBank
	model *Model
}

// NewEngine wires a question bank and a model. Nil arguments fall back to the built-in
// questionnaire and model.
func NewEngine(bank QuestionBank, model *Model) *Engine {
	if bank == nil {
		bank = DefaultQuestionnaire()
	}
	if model == nil {
		model = DefaultModel()
	}
	return &Engine{bank: bank, model: model}
}

// Result is the profile plus the intermediate vectors that produced it.
type Result struct {
	Profile        domain.Profile     `json:"profile"`
	Base           domain.TraitVector `json:"base"`
	Adjusted       domain.TraitVector `json:"adjusted"`
	Classification Classification     `json:"classification"`
	Resolved       int                `json:"resolved"`
}

// Score runs the full pipeline. It never fails: unknown questions are ignored and an empty
// answer set yields a neutral profile.
func (e *Engine) Score(answers []domain.Answer) Result {
	acc, resolved := Accumulate(e.bank, answers)
	base := BaseScores(acc)
	adjusted := e.model.Adjust(base)
	classification := e.model.Classify(adjusted)
	return Result{
		Profile:        Assemble(adjusted, classification.Chosen),
		Base:           base,
		Adjusted:       adjusted,
		Classification: classification,
		Resolved:       resolved,
	}
}

func (e *Engine) Bank() QuestionBank {
	return e.bank
}

func (e *Engine) Model() *Model {
	return e.model
}
