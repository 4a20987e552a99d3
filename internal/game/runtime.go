package game

import (
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
)

// Runtime is the single authoritative record of what is happening in the
// room right now. It lives for the whole process and is only ever reset to
// idle, never replaced. All access goes through the engine, whose mutex
// serializes every transition; Runtime itself holds no lock.
//
// Zero values mean "none": ActiveQuestionID == 0 is idle, BuzzWinnerSeat == 0
// is no winner, HostConnID == "" is no registered host.
type Runtime struct {
	ActiveQuestionID           int64
	BuzzOpen                   bool
	BuzzWinnerSeat             int
	DisabledBuzzSeats          map[int]struct{}
	Timer                      *Timer
	WaitingForRevealQuestionID int64
	SfxEnabled                 bool
	ScreenCoverEnabled         bool
	HostConnID                 string
}

func NewRuntime(clock clockwork.Clock, questionDuration time.Duration) *Runtime {
	return &Runtime{
		DisabledBuzzSeats: make(map[int]struct{}),
		Timer:             NewTimer(clock, questionDuration),
		SfxEnabled:        true,
	}
}

// ResetRound returns the round to idle: no active question, buzz window
// closed, no winner, no disabled seats, timer cleared. Display toggles and
// the host registration survive a round reset.
func (r *Runtime) ResetRound() {
	r.ActiveQuestionID = 0
	r.BuzzOpen = false
	r.BuzzWinnerSeat = 0
	r.DisabledBuzzSeats = make(map[int]struct{})
	r.WaitingForRevealQuestionID = 0
	r.Timer.Reset()
}

func (r *Runtime) Idle() bool { return r.ActiveQuestionID == 0 }

func (r *Runtime) DisableSeat(seat int) {
	r.DisabledBuzzSeats[seat] = struct{}{}
}

func (r *Runtime) SeatDisabled(seat int) bool {
	_, ok := r.DisabledBuzzSeats[seat]
	return ok
}

// RuntimeSnapshot is the wire projection of Runtime. Absent values are
// encoded as JSON null, matching what the clients expect.
type RuntimeSnapshot struct {
	ActiveQuestionID           *int64 `json:"activeQuestionId"`
	BuzzOpen                   bool   `json:"buzzOpen"`
	BuzzWinnerSeat             *int   `json:"buzzWinnerSeat"`
	DisabledBuzzSeats          []int  `json:"disabledBuzzSeats"`
	TimerEndsAt                *int64 `json:"timerEndsAt"`
	TimerRemainingMs           *int64 `json:"timerRemainingMs"`
	TimerPaused                bool   `json:"timerPaused"`
	SfxEnabled                 bool   `json:"sfxEnabled"`
	ScreenCoverEnabled         bool   `json:"screenCoverEnabled"`
	WaitingForRevealQuestionID *int64 `json:"waitingForRevealQuestionId"`
}

func (r *Runtime) Snapshot() RuntimeSnapshot {
	s := RuntimeSnapshot{
		BuzzOpen:           r.BuzzOpen,
		DisabledBuzzSeats:  make([]int, 0, len(r.DisabledBuzzSeats)),
		TimerPaused:        r.Timer.Paused(),
		SfxEnabled:         r.SfxEnabled,
		ScreenCoverEnabled: r.ScreenCoverEnabled,
	}

	if r.ActiveQuestionID != 0 {
		id := r.ActiveQuestionID
		s.ActiveQuestionID = &id
	}
	if r.BuzzWinnerSeat != 0 {
		seat := r.BuzzWinnerSeat
		s.BuzzWinnerSeat = &seat
	}
	if r.WaitingForRevealQuestionID != 0 {
		id := r.WaitingForRevealQuestionID
		s.WaitingForRevealQuestionID = &id
	}

	for seat := range r.DisabledBuzzSeats {
		s.DisabledBuzzSeats = append(s.DisabledBuzzSeats, seat)
	}
	sort.Ints(s.DisabledBuzzSeats)

	if deadline, ok := r.Timer.Deadline(); ok {
		ms := deadline.UnixMilli()
		s.TimerEndsAt = &ms
	}
	if rem, ok := r.Timer.Remaining(); ok {
		ms := rem.Milliseconds()
		s.TimerRemainingMs = &ms
	}

	return s
}
