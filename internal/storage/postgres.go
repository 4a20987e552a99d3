package storage

import (
	"context"
	"errors"

	"github.com/DanielSzakacs/OE-school-competition/internal/game"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS players (
			seat  INT PRIMARY KEY,
			name  TEXT NOT NULL,
			score INT NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS questions (
			id             BIGSERIAL PRIMARY KEY,
			category       TEXT NOT NULL,
			point          INT NOT NULL,
			is_visible     BOOLEAN NOT NULL DEFAULT true,
			question       TEXT NOT NULL,
			answer_a       TEXT NOT NULL,
			answer_b       TEXT NOT NULL,
			answer_c       TEXT NOT NULL,
			answer_d       TEXT NOT NULL,
			image          TEXT,
			correct_answer TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS attempts (
			id          BIGSERIAL PRIMARY KEY,
			question_id BIGINT NOT NULL,
			player_seat INT NOT NULL,
			is_correct  BOOLEAN NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

func (s *PostgresStore) ListPlayers(ctx context.Context) ([]game.Player, error) {
	rows, err := s.db.Query(ctx, `
		SELECT seat, name, score
		FROM players
		ORDER BY seat ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]game.Player, 0, game.NumSeats)
	for rows.Next() {
		var p game.Player
		if err := rows.Scan(&p.Seat, &p.Name, &p.Score); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListQuestionSummaries(ctx context.Context) ([]game.QuestionSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, category, point, is_visible
		FROM questions
		ORDER BY category ASC, point ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]game.QuestionSummary, 0)
	for rows.Next() {
		var q game.QuestionSummary
		if err := rows.Scan(&q.ID, &q.Category, &q.Point, &q.IsVisible); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetQuestion(ctx context.Context, id int64) (game.Question, error) {
	var q game.Question
	err := s.db.QueryRow(ctx, `
		SELECT id, category, point, is_visible, question,
		       answer_a, answer_b, answer_c, answer_d, image, correct_answer
		FROM questions
		WHERE id = $1
	`, id).Scan(
		&q.ID, &q.Category, &q.Point, &q.IsVisible, &q.Prompt,
		&q.AnswerA, &q.AnswerB, &q.AnswerC, &q.AnswerD, &q.Image, &q.CorrectAnswer,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return game.Question{}, ErrQuestionNotFound
		}
		return game.Question{}, err
	}
	return q, nil
}

func (s *PostgresStore) CountQuestions(ctx context.Context) (total, visible int, err error) {
	err = s.db.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE is_visible)
		FROM questions
	`).Scan(&total, &visible)
	return total, visible, err
}

func (s *PostgresStore) SetQuestionVisible(ctx context.Context, id int64, visible bool) error {
	_, err := s.db.Exec(ctx, `
		UPDATE questions SET is_visible = $2 WHERE id = $1
	`, id, visible)
	return err
}

func (s *PostgresStore) AddScore(ctx context.Context, seat int, points int) error {
	_, err := s.db.Exec(ctx, `
		UPDATE players SET score = score + $2 WHERE seat = $1
	`, seat, points)
	return err
}

func (s *PostgresStore) CreateAttempt(ctx context.Context, a game.Attempt) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO attempts (question_id, player_seat, is_correct)
		VALUES ($1, $2, $3)
	`, a.QuestionID, a.Seat, a.IsCorrect)
	return err
}

func (s *PostgresStore) ResetScores(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `UPDATE players SET score = 0`)
	return err
}

func (s *PostgresStore) RestoreVisibility(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `UPDATE questions SET is_visible = true`)
	return err
}
