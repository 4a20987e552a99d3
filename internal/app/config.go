package app

import "time"

type Config struct {
	HTTPAddr    string
	DatabaseURL string

	LogLevel string
	LogFile  string

	QuestionsFile    string
	QuestionDuration time.Duration
	SchedulerTick    time.Duration
}
