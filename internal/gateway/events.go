package gateway

import (
	"encoding/json"
	"time"

	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

// EventType identifies a message on the WebSocket channel.
type EventType string

// Client -> server commands.
const (
	CmdSync          EventType = "sync"
	CmdStartGame     EventType = "start_game"
	CmdStartQuestion EventType = "start_question"
	CmdNextQuestion  EventType = "next_question"
	CmdJudgeAnswer   EventType = "judge_answer"
	CmdAdjustTime    EventType = "adjust_time"
	CmdPauseTimer    EventType = "pause_timer"
	CmdResumeTimer   EventType = "resume_timer"
	CmdFinishGame    EventType = "finish_game"
	CmdJoinGame      EventType = "join_game"
	CmdSubmitAnswer  EventType = "submit_answer"
	CmdDispute       EventType = "dispute"
)

// Server -> client events.
const (
	EventSyncState         EventType = "sync_state"
	EventTimerUpdate       EventType = "timer_update"
	EventPhaseEnded        EventType = "phase_ended"
	EventGameStatusChanged EventType = "game_status_changed"
	EventLeaderboardUpdate EventType = "leaderboard_update"
	EventTimerPaused       EventType = "timer_paused"
	EventTimerResumed      EventType = "timer_resumed"
	EventAnswerUpdate      EventType = "answer_update"
	EventNewDispute        EventType = "new_dispute"
	EventAnswerReceived    EventType = "answer_received"
	EventError             EventType = "error"
)

// GameEvent is the server->client envelope.
type GameEvent struct {
	Type      EventType       `json:"type"`
	GameID    int32           `json:"game_id"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ClientMessage is the client->server envelope.
type ClientMessage struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Command payloads.
type StartQuestionPayload struct {
	QuestionID int32 `json:"question_id"`
}

type JudgeAnswerPayload struct {
	AnswerID int32               `json:"answer_id"`
	Verdict  models.AnswerStatus `json:"verdict"`
}

type AdjustTimePayload struct {
	Delta int `json:"delta"`
}

type JoinGamePayload struct {
	TeamID int32 `json:"team_id"`
}

type SubmitAnswerPayload struct {
	QuestionID int32  `json:"question_id"`
	Answer     string `json:"answer"`
}

type DisputePayload struct {
	AnswerID int32  `json:"answer_id"`
	Comment  string `json:"comment,omitempty"`
}

// Broadcast payloads.
type TimerUpdatePayload struct {
	Seconds          int              `json:"seconds"`
	Phase            models.GamePhase `json:"phase"`
	ActiveQuestionID *int32           `json:"active_question_id,omitempty"`
}

type PhaseEndedPayload struct {
	Phase models.GamePhase `json:"phase"`
}

type GameStatusChangedPayload struct {
	Status models.GameStatus `json:"status"`
}

type AnswerUpdatePayload struct {
	Answer *models.Answer `json:"answer"`
}

type NewDisputePayload struct {
	AnswerID int32 `json:"answer_id"`
}

type AnswerReceivedPayload struct {
	Status string `json:"status"`
	IsLate bool   `json:"is_late"`
}

type ErrorPayload struct {
	Command EventType `json:"command"`
	Message string    `json:"message"`
}

func newEvent(eventType EventType, gameID int32, data any) (*GameEvent, error) {
	var raw json.RawMessage
	if data != nil {
		marshaled, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = marshaled
	}
	return &GameEvent{
		Type:      eventType,
		GameID:    gameID,
		Timestamp: time.Now(),
		Data:      raw,
	}, nil
}
