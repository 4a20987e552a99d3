package ws

import "encoding/json"

type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type clientMsg struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type JoinPayload struct {
	Role string `json:"role"`
	Seat int    `json:"seat,omitempty"`
}

type SelectQuestionPayload struct {
	QuestionID int64 `json:"questionId"`
}

type RevealPayload struct {
	QuestionID int64 `json:"questionId"`
}

type BuzzPayload struct {
	Seat int `json:"seat"`
}

type ResolveAnswerPayload struct {
	IsCorrect bool `json:"isCorrect"`
}

type TogglePayload struct {
	Enabled bool `json:"enabled"`
}
