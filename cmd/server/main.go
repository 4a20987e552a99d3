package main

import (
	"os"
	"time"

	"github.com/DanielSzakacs/OE-school-competition/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := app.Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":3001"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		LogLevel: getenv("LOG_LEVEL", "info"),
		LogFile:  getenv("LOG_FILE", "/tmp/app.log"),

		QuestionsFile:    getenv("QUESTIONS_FILE", "questions.json"),
		QuestionDuration: 30 * time.Second,
		SchedulerTick:    250 * time.Millisecond,
	}

	if cfg.DatabaseURL == "" {
		panic("DATABASE_URL is required")
	}

	a, err := app.New(cfg)
	if err != nil {
		panic(err)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		panic(err)
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
