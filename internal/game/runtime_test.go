package game

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func newTestRuntime() *Runtime {
	return NewRuntime(clockwork.NewFakeClock(), 30*time.Second)
}

func requireIdle(t *testing.T, rt *Runtime) {
	t.Helper()

	require.True(t, rt.Idle())
	require.False(t, rt.BuzzOpen)
	require.Zero(t, rt.BuzzWinnerSeat)
	require.Empty(t, rt.DisabledBuzzSeats)
	require.Zero(t, rt.WaitingForRevealQuestionID)
	require.False(t, rt.Timer.Running())
	require.False(t, rt.Timer.Paused())
}

func TestNewRuntime_StartsIdle(t *testing.T) {
	rt := newTestRuntime()

	requireIdle(t, rt)
	require.True(t, rt.SfxEnabled)
	require.False(t, rt.ScreenCoverEnabled)
	require.Empty(t, rt.HostConnID)
}

func TestRuntime_ResetRound(t *testing.T) {
	rt := newTestRuntime()

	rt.ActiveQuestionID = 42
	rt.BuzzOpen = true
	rt.BuzzWinnerSeat = 3
	rt.DisableSeat(2)
	rt.WaitingForRevealQuestionID = 42
	rt.Timer.Start()
	rt.ScreenCoverEnabled = true
	rt.HostConnID = "conn-1"

	rt.ResetRound()

	requireIdle(t, rt)
	// Display toggles and host registration survive a round reset.
	require.True(t, rt.ScreenCoverEnabled)
	require.Equal(t, "conn-1", rt.HostConnID)
}

func TestRuntime_SeatDisabling(t *testing.T) {
	rt := newTestRuntime()

	require.False(t, rt.SeatDisabled(4))
	rt.DisableSeat(4)
	rt.DisableSeat(1)
	require.True(t, rt.SeatDisabled(4))
	require.True(t, rt.SeatDisabled(1))
	require.False(t, rt.SeatDisabled(2))
}

func TestRuntime_Snapshot_Idle(t *testing.T) {
	rt := newTestRuntime()

	s := rt.Snapshot()
	require.Nil(t, s.ActiveQuestionID)
	require.Nil(t, s.BuzzWinnerSeat)
	require.Nil(t, s.WaitingForRevealQuestionID)
	require.Nil(t, s.TimerEndsAt)
	require.Nil(t, s.TimerRemainingMs)
	require.False(t, s.BuzzOpen)
	require.False(t, s.TimerPaused)
	require.True(t, s.SfxEnabled)
	require.NotNil(t, s.DisabledBuzzSeats)
	require.Empty(t, s.DisabledBuzzSeats)
}

func TestRuntime_Snapshot_ActiveRound(t *testing.T) {
	rt := newTestRuntime()

	rt.ActiveQuestionID = 7
	rt.BuzzOpen = true
	rt.DisableSeat(5)
	rt.DisableSeat(2)
	rt.Timer.Start()

	s := rt.Snapshot()
	require.NotNil(t, s.ActiveQuestionID)
	require.Equal(t, int64(7), *s.ActiveQuestionID)
	require.True(t, s.BuzzOpen)
	require.Equal(t, []int{2, 5}, s.DisabledBuzzSeats)
	require.NotNil(t, s.TimerEndsAt)
	require.NotNil(t, s.TimerRemainingMs)
	require.Equal(t, int64(30000), *s.TimerRemainingMs)
	require.False(t, s.TimerPaused)
}

func TestRuntime_Snapshot_PausedTimer(t *testing.T) {
	rt := newTestRuntime()

	rt.ActiveQuestionID = 7
	rt.BuzzWinnerSeat = 3
	rt.Timer.Start()
	rt.Timer.Pause()

	s := rt.Snapshot()
	require.NotNil(t, s.BuzzWinnerSeat)
	require.Equal(t, 3, *s.BuzzWinnerSeat)
	require.Nil(t, s.TimerEndsAt)
	require.NotNil(t, s.TimerRemainingMs)
	require.True(t, s.TimerPaused)
}
