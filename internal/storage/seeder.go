package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/DanielSzakacs/OE-school-competition/internal/game"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedQuestion is one entry of the questions file.
type SeedQuestion struct {
	Category      string  `json:"category"`
	Point         int     `json:"point"`
	Question      string  `json:"question"`
	AnswerA       string  `json:"answerA"`
	AnswerB       string  `json:"answerB"`
	AnswerC       string  `json:"answerC"`
	AnswerD       string  `json:"answerD"`
	Image         *string `json:"image"`
	CorrectAnswer string  `json:"correctAnswer"`
}

// FileSeeder replaces the whole catalog from a JSON questions file: it wipes
// attempts, questions and players in one transaction, recreates the five
// fixed seats and inserts the questions from the file.
type FileSeeder struct {
	db   *pgxpool.Pool
	path string
}

func NewFileSeeder(db *pgxpool.Pool, path string) *FileSeeder {
	return &FileSeeder{db: db, path: path}
}

func (s *FileSeeder) Seed(ctx context.Context) error {
	questions, err := LoadSeedQuestions(s.path)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range []string{
		`DELETE FROM attempts`,
		`DELETE FROM questions`,
		`DELETE FROM players`,
	} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	for seat := 1; seat <= game.NumSeats; seat++ {
		if _, err := tx.Exec(ctx, `
			INSERT INTO players (seat, name, score) VALUES ($1, $2, 0)
		`, seat, strconv.Itoa(seat)); err != nil {
			return err
		}
	}

	for _, q := range questions {
		if _, err := tx.Exec(ctx, `
			INSERT INTO questions
				(category, point, is_visible, question,
				 answer_a, answer_b, answer_c, answer_d, image, correct_answer)
			VALUES ($1, $2, true, $3, $4, $5, $6, $7, $8, $9)
		`, q.Category, q.Point, q.Question,
			q.AnswerA, q.AnswerB, q.AnswerC, q.AnswerD, q.Image, q.CorrectAnswer); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func LoadSeedQuestions(path string) ([]SeedQuestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	var questions []SeedQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}
	return questions, nil
}
