package gateway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ScriptoWhisp/what-where-when-server/internal/engine"
	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

// fakeRuntime records which engine operations the router invoked.
type fakeRuntime struct {
	hostID  int32
	calls   []string
	answers []engine.SubmitAnswerRequest
}

func (f *fakeRuntime) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeRuntime) StartGame(ctx context.Context, gameID int32) (models.GameStatus, error) {
	f.record("StartGame")
	return models.GameStatusLive, nil
}

func (f *fakeRuntime) FinishGame(ctx context.Context, gameID int32) (models.GameStatus, error) {
	f.record("FinishGame")
	return models.GameStatusFinished, nil
}

func (f *fakeRuntime) StartQuestionCycle(ctx context.Context, gameID, questionID int32, onTick engine.TickFunc, onPhaseChange engine.PhaseChangeFunc) error {
	f.record("StartQuestionCycle")
	return nil
}

func (f *fakeRuntime) StartNextQuestion(ctx context.Context, gameID int32, onTick engine.TickFunc) (*int32, error) {
	f.record("StartNextQuestion")
	return nil, nil
}

func (f *fakeRuntime) ProcessAnswer(ctx context.Context, req engine.SubmitAnswerRequest) (*models.Answer, error) {
	f.record("ProcessAnswer")
	f.answers = append(f.answers, req)
	return &models.Answer{ID: 1, ParticipantID: req.ParticipantID, QuestionID: req.QuestionID, Text: req.Answer}, nil
}

func (f *fakeRuntime) JudgeAnswer(ctx context.Context, gameID, answerID, judgeID int32, verdict models.AnswerStatus) (*engine.JudgeResult, error) {
	f.record("JudgeAnswer")
	return &engine.JudgeResult{Answer: &models.Answer{ID: answerID, Status: verdict}}, nil
}

func (f *fakeRuntime) RaiseDispute(ctx context.Context, gameID, answerID int32, comment string) (*engine.JudgeResult, error) {
	f.record("RaiseDispute")
	return &engine.JudgeResult{}, nil
}

func (f *fakeRuntime) PauseTimer(ctx context.Context, gameID int32) error {
	f.record("PauseTimer")
	return nil
}

func (f *fakeRuntime) ResumeTimer(ctx context.Context, gameID int32) error {
	f.record("ResumeTimer")
	return nil
}

func (f *fakeRuntime) AdjustTime(ctx context.Context, gameID int32, delta int) error {
	f.record("AdjustTime")
	return nil
}

func (f *fakeRuntime) AdminSync(ctx context.Context, gameID int32) (*engine.SyncResult, error) {
	f.record("AdminSync")
	return &engine.SyncResult{State: &engine.GameState{Phase: models.PhaseIdle}}, nil
}

func (f *fakeRuntime) JoinGame(ctx context.Context, gameID, teamID int32, socketID string) (*engine.JoinResult, error) {
	f.record("JoinGame")
	return &engine.JoinResult{
		State:         &engine.GameState{Phase: models.PhaseIdle, Status: models.GameStatusLive},
		ParticipantID: 5,
	}, nil
}

func (f *fakeRuntime) ValidateHost(ctx context.Context, gameID, userID int32) (bool, error) {
	f.record("ValidateHost")
	return userID == f.hostID, nil
}

func (f *fakeRuntime) DisconnectParticipant(ctx context.Context, socketID string) error {
	f.record("DisconnectParticipant")
	return nil
}

func newTestService(runtime *fakeRuntime) (*Service, *ConnectionManager) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	return NewService(runtime, cm, NewAuthenticator("test-secret")), cm
}

func testConnection(cm *ConnectionManager, userID int32) *Connection {
	return &Connection{
		ID:      "test-conn",
		UserID:  userID,
		GameID:  1,
		Send:    make(chan []byte, 16),
		Manager: cm,
	}
}

func command(t *testing.T, cmdType EventType, payload any) []byte {
	t.Helper()
	msg := ClientMessage{Type: cmdType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		msg.Data = data
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal message: %v", err)
	}
	return raw
}

func receiveEvent(t *testing.T, conn *Connection) GameEvent {
	t.Helper()
	select {
	case raw := <-conn.Send:
		var event GameEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return event
	default:
		t.Fatal("no event delivered to connection")
		return GameEvent{}
	}
}

func TestJoinGameSetsParticipant(t *testing.T) {
	runtime := &fakeRuntime{hostID: 10}
	service, cm := newTestService(runtime)
	conn := testConnection(cm, 0)

	service.handleMessage(conn, command(t, CmdJoinGame, JoinGamePayload{TeamID: 3}))

	if conn.ParticipantID != 5 {
		t.Fatalf("participant id = %d, want 5", conn.ParticipantID)
	}
	event := receiveEvent(t, conn)
	if event.Type != EventSyncState {
		t.Fatalf("event = %s, want sync_state", event.Type)
	}
}

func TestSubmitAnswerRequiresJoin(t *testing.T) {
	runtime := &fakeRuntime{hostID: 10}
	service, cm := newTestService(runtime)
	conn := testConnection(cm, 0)

	service.handleMessage(conn, command(t, CmdSubmitAnswer, SubmitAnswerPayload{QuestionID: 7, Answer: "a"}))

	event := receiveEvent(t, conn)
	if event.Type != EventError {
		t.Fatalf("event = %s, want error before joining", event.Type)
	}
	if len(runtime.answers) != 0 {
		t.Fatal("no answer should reach the engine before joining")
	}
}

func TestSubmitAnswerUsesConnectionParticipant(t *testing.T) {
	runtime := &fakeRuntime{hostID: 10}
	service, cm := newTestService(runtime)
	conn := testConnection(cm, 0)
	conn.ParticipantID = 5

	service.handleMessage(conn, command(t, CmdSubmitAnswer, SubmitAnswerPayload{QuestionID: 7, Answer: "a"}))

	if len(runtime.answers) != 1 {
		t.Fatalf("answers = %d, want 1", len(runtime.answers))
	}
	if got := runtime.answers[0].ParticipantID; got != 5 {
		t.Fatalf("participant id = %d, want 5", got)
	}
	event := receiveEvent(t, conn)
	if event.Type != EventAnswerReceived {
		t.Fatalf("event = %s, want answer_received", event.Type)
	}
}

func TestAdminCommandRejectedForAnonymous(t *testing.T) {
	runtime := &fakeRuntime{hostID: 10}
	service, cm := newTestService(runtime)
	conn := testConnection(cm, 0)

	service.handleMessage(conn, command(t, CmdStartGame, nil))

	event := receiveEvent(t, conn)
	if event.Type != EventError {
		t.Fatalf("event = %s, want error for anonymous admin command", event.Type)
	}
	for _, call := range runtime.calls {
		if call == "StartGame" {
			t.Fatal("StartGame must not run for anonymous caller")
		}
	}
}

func TestAdminCommandRejectedForNonHost(t *testing.T) {
	runtime := &fakeRuntime{hostID: 10}
	service, cm := newTestService(runtime)
	conn := testConnection(cm, 11)

	service.handleMessage(conn, command(t, CmdPauseTimer, nil))

	event := receiveEvent(t, conn)
	if event.Type != EventError {
		t.Fatalf("event = %s, want error for non-host caller", event.Type)
	}
	for _, call := range runtime.calls {
		if call == "PauseTimer" {
			t.Fatal("PauseTimer must not run for non-host caller")
		}
	}
}

func TestAdminCommandRunsForHost(t *testing.T) {
	runtime := &fakeRuntime{hostID: 10}
	service, cm := newTestService(runtime)
	conn := testConnection(cm, 10)

	service.handleMessage(conn, command(t, CmdStartGame, nil))

	found := false
	for _, call := range runtime.calls {
		if call == "StartGame" {
			found = true
		}
	}
	if !found {
		t.Fatal("StartGame should run for the host")
	}
}

func TestUnknownCommandEmitsError(t *testing.T) {
	runtime := &fakeRuntime{hostID: 10}
	service, cm := newTestService(runtime)
	conn := testConnection(cm, 0)

	service.handleMessage(conn, command(t, EventType("bogus"), nil))

	event := receiveEvent(t, conn)
	if event.Type != EventError {
		t.Fatalf("event = %s, want error for unknown command", event.Type)
	}
}
