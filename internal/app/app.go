package app

import (
	"context"
	"net/http"
	"time"

	"github.com/DanielSzakacs/OE-school-competition/internal/handler"
	"github.com/DanielSzakacs/OE-school-competition/internal/logger"
	"github.com/DanielSzakacs/OE-school-competition/internal/service"
	"github.com/DanielSzakacs/OE-school-competition/internal/storage"
	"github.com/DanielSzakacs/OE-school-competition/internal/ws"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type App struct {
	cfg Config
	log *zap.Logger
	db  *pgxpool.Pool
	srv *http.Server

	scheduler *service.Scheduler
	stop      context.CancelFunc
}

func New(cfg Config) (*App, error) {
	l, err := logger.New(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		_ = l.Sync()
		return nil, err
	}

	store := storage.NewPostgresStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		_ = l.Sync()
		return nil, err
	}
	seeder := storage.NewFileSeeder(db, cfg.QuestionsFile)

	clock := clockwork.NewRealClock()
	engine := service.NewEngine(store, seeder, clock, l, service.Config{
		QuestionDuration: cfg.QuestionDuration,
	})

	hub := ws.NewHub(engine, l)
	engine.SetNotifier(hub)

	scheduler := service.NewScheduler(engine, clock, cfg.SchedulerTick, l)

	mux := http.NewServeMux()
	handler.RegisterHandlers(mux, hub, l)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	return &App{cfg: cfg, log: l, db: db, srv: srv, scheduler: scheduler}, nil
}

func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.stop = cancel
	go a.scheduler.Run(ctx)

	a.log.Info("server started",
		zap.String("addr", a.cfg.HTTPAddr),
		zap.String("log_level", a.cfg.LogLevel),
		zap.String("log_file", a.cfg.LogFile),
		zap.Duration("question_duration", a.cfg.QuestionDuration),
	)
	return a.srv.ListenAndServe()
}

func (a *App) Close() {
	if a.stop != nil {
		a.stop()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
