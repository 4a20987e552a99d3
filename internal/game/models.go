package game

type Role string

const (
	RoleHost   Role = "host"
	RolePlayer Role = "player"
	RoleScreen Role = "screen"
)

func (r Role) Valid() bool {
	switch r {
	case RoleHost, RolePlayer, RoleScreen:
		return true
	}
	return false
}

// NumSeats is the fixed number of player positions in the room.
const NumSeats = 5

type Player struct {
	Seat  int    `json:"seat"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// QuestionSummary is what the board shows before a question is selected:
// the full content stays server-side until selection.
type QuestionSummary struct {
	ID        int64  `json:"id"`
	Category  string `json:"category"`
	Point     int    `json:"point"`
	IsVisible bool   `json:"isVisible"`
}

type Question struct {
	ID            int64
	Category      string
	Point         int
	IsVisible     bool
	Prompt        string
	AnswerA       string
	AnswerB       string
	AnswerC       string
	AnswerD       string
	Image         *string
	CorrectAnswer string
}

func (q Question) Summary() QuestionSummary {
	return QuestionSummary{
		ID:        q.ID,
		Category:  q.Category,
		Point:     q.Point,
		IsVisible: q.IsVisible,
	}
}

// QuestionView is the wire form of an active question. CorrectAnswer is only
// populated for the host projection.
type QuestionView struct {
	ID            int64   `json:"id"`
	Category      string  `json:"category"`
	Point         int     `json:"point"`
	IsVisible     bool    `json:"isVisible"`
	Question      string  `json:"question"`
	AnswerA       string  `json:"answerA"`
	AnswerB       string  `json:"answerB"`
	AnswerC       string  `json:"answerC"`
	AnswerD       string  `json:"answerD"`
	Image         *string `json:"image"`
	CorrectAnswer *string `json:"correctAnswer,omitempty"`
}

func (q Question) PublicView() QuestionView {
	return QuestionView{
		ID:        q.ID,
		Category:  q.Category,
		Point:     q.Point,
		IsVisible: q.IsVisible,
		Question:  q.Prompt,
		AnswerA:   q.AnswerA,
		AnswerB:   q.AnswerB,
		AnswerC:   q.AnswerC,
		AnswerD:   q.AnswerD,
		Image:     q.Image,
	}
}

func (q Question) HostView() QuestionView {
	v := q.PublicView()
	correct := q.CorrectAnswer
	v.CorrectAnswer = &correct
	return v
}

// Attempt is one resolved buzz: which seat answered which question, and
// whether the host judged it correct. Append-only.
type Attempt struct {
	QuestionID int64 `json:"questionId"`
	Seat       int   `json:"playerSeat"`
	IsCorrect  bool  `json:"isCorrect"`
}
