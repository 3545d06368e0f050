package domain

// Answer es la respuesta Likert (1..5) a una pregunta del cuestionario.
type Answer struct {
	QuestionID int `json:"question_id"`
	Value      int `json:"value"`
}
