package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DanielSzakacs/OE-school-competition/internal/game"
	"github.com/DanielSzakacs/OE-school-competition/internal/storage"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Outbound event names, fixed by the clients.
const (
	EventStateUpdate        = "state:update"
	EventHostActiveQuestion = "host:activeQuestion"
	EventSfxGoodAnswer      = "sfx:goodAnswer"
	EventSfxBadAnswer       = "sfx:badAnswer"
)

// Notifier is the push side of the room: Publish fans out to every connected
// client, Notify targets one connection. Both are fire-and-forget; delivery
// failures are the transport's problem, not the engine's.
type Notifier interface {
	Publish(event string, payload any)
	Notify(connID string, event string, payload any)
}

// Seeder replaces the player/question catalog from an external source.
type Seeder interface {
	Seed(ctx context.Context) error
}

type Config struct {
	QuestionDuration time.Duration
}

// GameState is the public view pushed to the whole room on every change.
type GameState struct {
	Players        []game.Player          `json:"players"`
	Questions      []game.QuestionSummary `json:"questions"`
	Runtime        game.RuntimeSnapshot   `json:"runtime"`
	ActiveQuestion *game.QuestionView     `json:"activeQuestion"`
}

// Engine is the authoritative state machine of the game. Every inbound event
// and the timer-expiry check runs as one transition under a single mutex:
// read the runtime, decide, mutate, perform store effects, broadcast. A later
// event can never observe a half-applied transition.
//
// Events that fail a precondition (wrong role, wrong state, unknown id,
// already-claimed lock) are dropped silently: no state change, no broadcast,
// nothing sent back to the caller.
type Engine struct {
	store    storage.Store
	seeder   Seeder
	clock    clockwork.Clock
	log      *zap.Logger
	notifier Notifier

	mu sync.Mutex
	rt *game.Runtime
}

func NewEngine(store storage.Store, seeder Seeder, clock clockwork.Clock, log *zap.Logger, cfg Config) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.QuestionDuration == 0 {
		cfg.QuestionDuration = 30 * time.Second
	}
	return &Engine{
		store:    store,
		seeder:   seeder,
		clock:    clock,
		log:      log,
		notifier: nopNotifier{},
		rt:       game.NewRuntime(clock, cfg.QuestionDuration),
	}
}

// SetNotifier binds the transport after construction; the hub needs the
// engine first, so the wiring is two-step.
func (e *Engine) SetNotifier(n Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifier = n
}

// Join (re-)declares a connection's role. A host join registers the
// connection for the host-only view; every join triggers a fresh full-state
// push so a reconnecting client catches up immediately.
func (e *Engine) Join(ctx context.Context, connID string, role game.Role, seat int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !role.Valid() {
		e.log.Warn("join with unknown role dropped", zap.String("conn_id", connID), zap.String("role", string(role)))
		return
	}
	if role == game.RoleHost {
		e.rt.HostConnID = connID
	}

	e.log.Info("client joined",
		zap.String("conn_id", connID),
		zap.String("role", string(role)),
		zap.Int("seat", seat),
	)
	e.broadcast(ctx)
}

// SelectQuestion puts a question on the board. Only legal from idle: a
// mid-round reselection would orphan the previous round's buzz lock and
// timer. When the selection is the first-of-all or last-remaining visible
// question and sound is on, the timer is held behind the reveal gate until
// the screen confirms the intro finished.
func (e *Engine) SelectQuestion(ctx context.Context, role game.Role, questionID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if role != game.RoleHost {
		return
	}
	if !e.rt.Idle() {
		e.log.Warn("question select dropped, round already active",
			zap.Int64("question_id", questionID),
			zap.Int64("active_question_id", e.rt.ActiveQuestionID),
		)
		return
	}

	q, err := e.store.GetQuestion(ctx, questionID)
	if err != nil {
		if !errors.Is(err, storage.ErrQuestionNotFound) {
			e.log.Error("question lookup failed", zap.Int64("question_id", questionID), zap.Error(err))
		}
		return
	}
	if !q.IsVisible {
		return
	}

	total, visible, err := e.store.CountQuestions(ctx)
	if err != nil {
		e.log.Error("question count failed", zap.Error(err))
		return
	}
	// First or last is always judged against the currently visible set,
	// recomputed per selection.
	needsIntro := total > 0 && (visible == total || visible == 1) && e.rt.SfxEnabled

	e.rt.ActiveQuestionID = questionID
	e.rt.BuzzOpen = true
	e.rt.BuzzWinnerSeat = 0
	e.rt.DisabledBuzzSeats = make(map[int]struct{})
	if needsIntro {
		e.rt.WaitingForRevealQuestionID = questionID
		e.rt.Timer.Hold()
	} else {
		e.rt.WaitingForRevealQuestionID = 0
		e.rt.Timer.Start()
	}

	e.log.Info("question selected",
		zap.Int64("question_id", questionID),
		zap.Bool("reveal_gate", needsIntro),
	)
	e.broadcast(ctx)
}

// ConfirmReveal is the screen telling us the intro animation finished; the
// held timer starts counting. Idempotent: once the gate is cleared, repeats
// are no-ops.
func (e *Engine) ConfirmReveal(ctx context.Context, role game.Role, questionID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if role != game.RoleScreen {
		return
	}
	if e.rt.ActiveQuestionID != questionID {
		return
	}
	if e.rt.WaitingForRevealQuestionID != questionID {
		return
	}

	e.rt.WaitingForRevealQuestionID = 0
	if e.rt.Timer.Paused() {
		e.rt.Timer.Resume()
	} else if !e.rt.Timer.Running() {
		e.rt.Timer.Start()
	}

	e.log.Info("reveal confirmed", zap.Int64("question_id", questionID))
	e.broadcast(ctx)
}

// Buzz claims the answer lock for a seat. The first valid buzz wins: the
// check and the commit happen under the same lock, so there is no race
// window for concurrent attempts.
func (e *Engine) Buzz(ctx context.Context, role game.Role, seat int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if role != game.RolePlayer {
		return
	}
	if seat < 1 || seat > game.NumSeats {
		return
	}
	if e.rt.Idle() || !e.rt.BuzzOpen || e.rt.BuzzWinnerSeat != 0 {
		return
	}
	if e.rt.SeatDisabled(seat) {
		return
	}

	e.rt.BuzzWinnerSeat = seat
	e.rt.BuzzOpen = false
	e.rt.Timer.Pause()

	e.log.Info("buzz won", zap.Int("seat", seat), zap.Int64("question_id", e.rt.ActiveQuestionID))
	e.broadcast(ctx)
}

// ResolveAnswer is the host's verdict on the locked seat's answer. Correct:
// award points, retire the question, back to idle. Incorrect: bar the seat
// and reopen the window for the rest, unless no seat remains or the timer is
// already out of time, in which case the question ends the same way a
// timeout would.
func (e *Engine) ResolveAnswer(ctx context.Context, role game.Role, isCorrect bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if role != game.RoleHost {
		return
	}
	if e.rt.Idle() || e.rt.BuzzWinnerSeat == 0 {
		return
	}

	q, err := e.store.GetQuestion(ctx, e.rt.ActiveQuestionID)
	if err != nil {
		e.log.Error("active question lookup failed", zap.Int64("question_id", e.rt.ActiveQuestionID), zap.Error(err))
		e.rt.ResetRound()
		e.broadcast(ctx)
		return
	}

	winner := e.rt.BuzzWinnerSeat
	if err := e.store.CreateAttempt(ctx, game.Attempt{
		QuestionID: q.ID,
		Seat:       winner,
		IsCorrect:  isCorrect,
	}); err != nil {
		e.log.Error("attempt insert failed", zap.Int64("question_id", q.ID), zap.Int("seat", winner), zap.Error(err))
	}

	if isCorrect {
		if err := e.store.AddScore(ctx, winner, q.Point); err != nil {
			e.log.Error("score update failed", zap.Int("seat", winner), zap.Int("points", q.Point), zap.Error(err))
		}
		sfx := e.rt.SfxEnabled
		e.retireAndReset(ctx, q.ID)
		if sfx {
			e.notifier.Publish(EventSfxGoodAnswer, nil)
		}
		e.log.Info("answer correct",
			zap.Int64("question_id", q.ID),
			zap.Int("seat", winner),
			zap.Int("points", q.Point),
		)
		e.broadcast(ctx)
		return
	}

	e.rt.BuzzWinnerSeat = 0
	e.rt.DisableSeat(winner)

	players, err := e.store.ListPlayers(ctx)
	if err != nil {
		e.log.Error("player list failed", zap.Error(err))
		e.rt.ResetRound()
		e.broadcast(ctx)
		return
	}
	remaining := 0
	for _, p := range players {
		if !e.rt.SeatDisabled(p.Seat) {
			remaining++
		}
	}

	rem, hasRem := e.rt.Timer.Remaining()
	expired := hasRem && rem <= 0

	if remaining == 0 || expired {
		if expired && e.rt.SfxEnabled {
			e.notifier.Publish(EventSfxBadAnswer, nil)
		}
		e.retireAndReset(ctx, q.ID)
		e.log.Info("question ended after wrong answer",
			zap.Int64("question_id", q.ID),
			zap.Int("seat", winner),
			zap.Bool("timer_expired", expired),
		)
		e.broadcast(ctx)
		return
	}

	e.rt.BuzzOpen = true
	e.rt.Timer.Resume()

	e.log.Info("answer wrong, window reopened",
		zap.Int64("question_id", q.ID),
		zap.Int("seat", winner),
		zap.Int("eligible_seats", remaining),
	)
	e.broadcast(ctx)
}

// HandleTimeout ends the active question after the countdown ran out. It
// converges on the same terminal state as the timer-exhaustion branch of
// ResolveAnswer: retire the question, reset the round.
func (e *Engine) HandleTimeout(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rt.Idle() {
		return
	}

	questionID := e.rt.ActiveQuestionID
	if e.rt.SfxEnabled {
		e.notifier.Publish(EventSfxBadAnswer, nil)
	}
	e.retireAndReset(ctx, questionID)

	e.log.Info("question timed out", zap.Int64("question_id", questionID))
	e.broadcast(ctx)
}

// TimeoutDue reports whether the scheduler should raise a timeout: a
// question is active, the timer is not paused, and the deadline has passed.
func (e *Engine) TimeoutDue() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rt.Idle() || e.rt.Timer.Paused() {
		return false
	}
	deadline, ok := e.rt.Timer.Deadline()
	return ok && !e.clock.Now().Before(deadline)
}

// ResetGame zeroes every score, restores all questions and returns the round
// to idle. Attempt history is kept.
func (e *Engine) ResetGame(ctx context.Context, role game.Role) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if role != game.RoleHost {
		return
	}

	if err := e.store.ResetScores(ctx); err != nil {
		e.log.Error("score reset failed", zap.Error(err))
	}
	if err := e.store.RestoreVisibility(ctx); err != nil {
		e.log.Error("visibility restore failed", zap.Error(err))
	}
	e.rt.ResetRound()

	e.log.Info("game reset")
	e.broadcast(ctx)
}

// ReseedGame replaces the catalog via the external seeder. A seeding failure
// is logged and swallowed; the round reset still happens so the room never
// stays stuck mid-question.
func (e *Engine) ReseedGame(ctx context.Context, role game.Role) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if role != game.RoleHost {
		return
	}

	if err := e.seeder.Seed(ctx); err != nil {
		e.log.Error("seed failed", zap.Error(err))
	} else {
		e.log.Info("catalog reseeded")
	}
	e.rt.ResetRound()
	e.broadcast(ctx)
}

func (e *Engine) ToggleSfx(ctx context.Context, role game.Role, enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if role != game.RoleHost {
		return
	}
	e.rt.SfxEnabled = enabled
	e.broadcast(ctx)
}

func (e *Engine) ToggleScreenCover(ctx context.Context, role game.Role, enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if role != game.RoleHost {
		return
	}
	e.rt.ScreenCoverEnabled = enabled
	e.broadcast(ctx)
}

// HandleDisconnect clears the host registration when the registered host
// connection goes away. The round itself is unaffected.
func (e *Engine) HandleDisconnect(connID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rt.HostConnID == connID {
		e.rt.HostConnID = ""
		e.log.Info("host disconnected", zap.String("conn_id", connID))
	}
}

// retireAndReset flips the question invisible and resets the round. Called
// with the engine mutex held.
func (e *Engine) retireAndReset(ctx context.Context, questionID int64) {
	if err := e.store.SetQuestionVisible(ctx, questionID, false); err != nil {
		e.log.Error("question retire failed", zap.Int64("question_id", questionID), zap.Error(err))
	}
	e.rt.ResetRound()
}

// broadcast recomputes both views from scratch off the current runtime and a
// fresh store read, then pushes them: the public view to the room and the
// full active question to the registered host. Called with the engine mutex
// held.
func (e *Engine) broadcast(ctx context.Context) {
	players, err := e.store.ListPlayers(ctx)
	if err != nil {
		e.log.Error("state broadcast failed, player list", zap.Error(err))
		return
	}
	questions, err := e.store.ListQuestionSummaries(ctx)
	if err != nil {
		e.log.Error("state broadcast failed, question list", zap.Error(err))
		return
	}

	state := GameState{
		Players:   players,
		Questions: questions,
		Runtime:   e.rt.Snapshot(),
	}

	var hostView *game.QuestionView
	if !e.rt.Idle() {
		q, err := e.store.GetQuestion(ctx, e.rt.ActiveQuestionID)
		if err != nil {
			if !errors.Is(err, storage.ErrQuestionNotFound) {
				e.log.Error("state broadcast failed, active question", zap.Error(err))
				return
			}
		} else {
			public := q.PublicView()
			state.ActiveQuestion = &public
			host := q.HostView()
			hostView = &host
		}
	}

	e.notifier.Publish(EventStateUpdate, state)
	if e.rt.HostConnID != "" {
		e.notifier.Notify(e.rt.HostConnID, EventHostActiveQuestion, hostView)
	}
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, any)        {}
func (nopNotifier) Notify(string, string, any) {}
