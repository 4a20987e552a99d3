package storage

import (
	"context"
	"errors"

	"github.com/DanielSzakacs/OE-school-competition/internal/game"
)

var ErrQuestionNotFound = errors.New("question not found")

// Store is the persistence surface the engine drives. Scores, question
// visibility and the attempt log live here; everything else about the round
// is in-memory runtime state.
type Store interface {
	ListPlayers(ctx context.Context) ([]game.Player, error)
	ListQuestionSummaries(ctx context.Context) ([]game.QuestionSummary, error)
	GetQuestion(ctx context.Context, id int64) (game.Question, error)
	CountQuestions(ctx context.Context) (total, visible int, err error)
	SetQuestionVisible(ctx context.Context, id int64, visible bool) error
	AddScore(ctx context.Context, seat int, points int) error
	CreateAttempt(ctx context.Context, a game.Attempt) error
	ResetScores(ctx context.Context) error
	RestoreVisibility(ctx context.Context) error
}
