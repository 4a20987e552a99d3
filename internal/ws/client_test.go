package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DanielSzakacs/OE-school-competition/internal/game"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type engineCall struct {
	name string
	role game.Role
	arg  any
}

type recordingEngine struct {
	calls []engineCall
}

func (r *recordingEngine) Join(_ context.Context, connID string, role game.Role, seat int) {
	r.calls = append(r.calls, engineCall{name: "Join", role: role, arg: seat})
}

func (r *recordingEngine) SelectQuestion(_ context.Context, role game.Role, questionID int64) {
	r.calls = append(r.calls, engineCall{name: "SelectQuestion", role: role, arg: questionID})
}

func (r *recordingEngine) ConfirmReveal(_ context.Context, role game.Role, questionID int64) {
	r.calls = append(r.calls, engineCall{name: "ConfirmReveal", role: role, arg: questionID})
}

func (r *recordingEngine) Buzz(_ context.Context, role game.Role, seat int) {
	r.calls = append(r.calls, engineCall{name: "Buzz", role: role, arg: seat})
}

func (r *recordingEngine) ResolveAnswer(_ context.Context, role game.Role, isCorrect bool) {
	r.calls = append(r.calls, engineCall{name: "ResolveAnswer", role: role, arg: isCorrect})
}

func (r *recordingEngine) ResetGame(_ context.Context, role game.Role) {
	r.calls = append(r.calls, engineCall{name: "ResetGame", role: role})
}

func (r *recordingEngine) ReseedGame(_ context.Context, role game.Role) {
	r.calls = append(r.calls, engineCall{name: "ReseedGame", role: role})
}

func (r *recordingEngine) ToggleSfx(_ context.Context, role game.Role, enabled bool) {
	r.calls = append(r.calls, engineCall{name: "ToggleSfx", role: role, arg: enabled})
}

func (r *recordingEngine) ToggleScreenCover(_ context.Context, role game.Role, enabled bool) {
	r.calls = append(r.calls, engineCall{name: "ToggleScreenCover", role: role, arg: enabled})
}

func (r *recordingEngine) HandleDisconnect(connID string) {
	r.calls = append(r.calls, engineCall{name: "HandleDisconnect"})
}

func newTestClient() (*Client, *recordingEngine) {
	engine := &recordingEngine{}
	hub := &Hub{engine: engine, log: zap.NewNop()}
	return &Client{hub: hub, connID: "conn-1"}, engine
}

func msg(t *testing.T, typ string, payload any) clientMsg {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return clientMsg{Type: typ, Payload: b}
}

func TestDispatch_JoinSetsRoleAndSeat(t *testing.T) {
	c, engine := newTestClient()

	c.dispatch(context.Background(), msg(t, "room:join", JoinPayload{Role: "player", Seat: 2}))

	require.Equal(t, game.RolePlayer, c.role)
	require.Equal(t, 2, c.seat)
	require.Equal(t, []engineCall{{name: "Join", role: game.RolePlayer, arg: 2}}, engine.calls)
}

func TestDispatch_JoinInvalidRole_Dropped(t *testing.T) {
	c, engine := newTestClient()

	c.dispatch(context.Background(), msg(t, "room:join", JoinPayload{Role: "spectator"}))

	require.Empty(t, c.role)
	require.Empty(t, engine.calls)
}

func TestDispatch_RoutesEventsWithClientRole(t *testing.T) {
	c, engine := newTestClient()
	c.dispatch(context.Background(), msg(t, "room:join", JoinPayload{Role: "host"}))

	c.dispatch(context.Background(), msg(t, "question:select", SelectQuestionPayload{QuestionID: 7}))
	c.dispatch(context.Background(), msg(t, "answer:resolve", ResolveAnswerPayload{IsCorrect: true}))
	c.dispatch(context.Background(), msg(t, "game:reset", nil))
	c.dispatch(context.Background(), msg(t, "game:seed", nil))
	c.dispatch(context.Background(), msg(t, "sfx:toggle", TogglePayload{Enabled: false}))
	c.dispatch(context.Background(), msg(t, "screen:cover", TogglePayload{Enabled: true}))

	require.Equal(t, []engineCall{
		{name: "Join", role: game.RoleHost, arg: 0},
		{name: "SelectQuestion", role: game.RoleHost, arg: int64(7)},
		{name: "ResolveAnswer", role: game.RoleHost, arg: true},
		{name: "ResetGame", role: game.RoleHost},
		{name: "ReseedGame", role: game.RoleHost},
		{name: "ToggleSfx", role: game.RoleHost, arg: false},
		{name: "ToggleScreenCover", role: game.RoleHost, arg: true},
	}, engine.calls)
}

func TestDispatch_BuzzAndReveal(t *testing.T) {
	c, engine := newTestClient()
	c.dispatch(context.Background(), msg(t, "room:join", JoinPayload{Role: "player", Seat: 4}))

	c.dispatch(context.Background(), msg(t, "buzz:hit", BuzzPayload{Seat: 4}))
	c.dispatch(context.Background(), msg(t, "question:reveal", RevealPayload{QuestionID: 7}))

	require.Equal(t, []engineCall{
		{name: "Join", role: game.RolePlayer, arg: 4},
		{name: "Buzz", role: game.RolePlayer, arg: 4},
		{name: "ConfirmReveal", role: game.RolePlayer, arg: int64(7)},
	}, engine.calls)
}

func TestDispatch_BadPayload_Dropped(t *testing.T) {
	c, engine := newTestClient()

	c.dispatch(context.Background(), clientMsg{Type: "buzz:hit", Payload: json.RawMessage(`"not an object"`)})
	c.dispatch(context.Background(), clientMsg{Type: "question:select", Payload: json.RawMessage(`[]`)})

	require.Empty(t, engine.calls)
}

func TestDispatch_UnknownType_Dropped(t *testing.T) {
	c, engine := newTestClient()

	c.dispatch(context.Background(), msg(t, "room:nuke", nil))

	require.Empty(t, engine.calls)
}
