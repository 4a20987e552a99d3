package service

import (
	"context"
	"testing"
	"time"

	"github.com/DanielSzakacs/OE-school-competition/internal/game"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Poll_Idle_NoOp(t *testing.T) {
	e, store, notifier, clock, _ := newTestEngine(t)
	s := NewScheduler(e, clock, 250*time.Millisecond, nil)

	s.poll(context.Background())

	require.Empty(t, notifier.events)
	store.AssertNotCalled(t, "SetQuestionVisible", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduler_Poll_BeforeDeadline_NoOp(t *testing.T) {
	e, store, notifier, clock, _ := newTestEngine(t)
	s := NewScheduler(e, clock, 250*time.Millisecond, nil)

	startQuestion(t, e, store)
	before := notifier.count(EventStateUpdate)

	clock.Advance(29 * time.Second)
	s.poll(context.Background())

	require.Equal(t, int64(7), e.rt.ActiveQuestionID)
	require.Equal(t, before, notifier.count(EventStateUpdate))
}

func TestScheduler_Poll_DeadlinePassed_RaisesTimeout(t *testing.T) {
	e, store, notifier, clock, _ := newTestEngine(t)
	s := NewScheduler(e, clock, 250*time.Millisecond, nil)

	startQuestion(t, e, store)
	store.On("SetQuestionVisible", mock.Anything, int64(7), false).Return(nil).Once()

	clock.Advance(30 * time.Second)
	s.poll(context.Background())

	require.True(t, e.rt.Idle())
	require.Equal(t, 1, notifier.count(EventSfxBadAnswer))

	// A later tick finds nothing to do.
	s.poll(context.Background())
	require.Equal(t, 1, notifier.count(EventSfxBadAnswer))
	store.AssertExpectations(t)
}

func TestScheduler_Poll_PausedTimer_NoOp(t *testing.T) {
	e, store, _, clock, _ := newTestEngine(t)
	s := NewScheduler(e, clock, 250*time.Millisecond, nil)

	startQuestion(t, e, store)
	e.Buzz(context.Background(), game.RolePlayer, 3)

	clock.Advance(time.Minute)
	s.poll(context.Background())

	require.Equal(t, int64(7), e.rt.ActiveQuestionID)
	require.Equal(t, 3, e.rt.BuzzWinnerSeat)
}

func TestScheduler_Poll_InFlightGuard(t *testing.T) {
	e, store, notifier, clock, _ := newTestEngine(t)
	s := NewScheduler(e, clock, 250*time.Millisecond, nil)

	startQuestion(t, e, store)
	clock.Advance(30 * time.Second)

	// A tick arriving while a previous one is still being handled is a
	// no-op rather than queued.
	s.inFlight.Store(true)
	s.poll(context.Background())
	require.Equal(t, int64(7), e.rt.ActiveQuestionID)
	require.Zero(t, notifier.count(EventSfxBadAnswer))

	s.inFlight.Store(false)
	store.On("SetQuestionVisible", mock.Anything, int64(7), false).Return(nil).Once()
	s.poll(context.Background())
	require.True(t, e.rt.Idle())
}
