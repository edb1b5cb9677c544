// Package gateway exposes the real-time WebSocket surface: it routes
// client commands to the engine and relays engine callbacks and broker
// events back to game rooms.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/ScriptoWhisp/what-where-when-server/internal/engine"
	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

// Runtime is the engine surface the gateway drives.
type Runtime interface {
	StartGame(ctx context.Context, gameID int32) (models.GameStatus, error)
	FinishGame(ctx context.Context, gameID int32) (models.GameStatus, error)
	StartQuestionCycle(ctx context.Context, gameID, questionID int32, onTick engine.TickFunc, onPhaseChange engine.PhaseChangeFunc) error
	StartNextQuestion(ctx context.Context, gameID int32, onTick engine.TickFunc) (*int32, error)
	ProcessAnswer(ctx context.Context, req engine.SubmitAnswerRequest) (*models.Answer, error)
	JudgeAnswer(ctx context.Context, gameID, answerID, judgeID int32, verdict models.AnswerStatus) (*engine.JudgeResult, error)
	RaiseDispute(ctx context.Context, gameID, answerID int32, comment string) (*engine.JudgeResult, error)
	PauseTimer(ctx context.Context, gameID int32) error
	ResumeTimer(ctx context.Context, gameID int32) error
	AdjustTime(ctx context.Context, gameID int32, delta int) error
	AdminSync(ctx context.Context, gameID int32) (*engine.SyncResult, error)
	JoinGame(ctx context.Context, gameID, teamID int32, socketID string) (*engine.JoinResult, error)
	ValidateHost(ctx context.Context, gameID, userID int32) (bool, error)
	DisconnectParticipant(ctx context.Context, socketID string) error
}

// Service routes WebSocket traffic between clients and the engine.
type Service struct {
	runtime Runtime
	cm      *ConnectionManager
	auth    *Authenticator
}

func NewService(runtime Runtime, cm *ConnectionManager, auth *Authenticator) *Service {
	s := &Service{
		runtime: runtime,
		cm:      cm,
		auth:    auth,
	}
	cm.SetHandlers(s.handleMessage, s.handleDisconnect)
	return s
}

// ServeWS upgrades GET /ws?game_id=N[&token=...] to a WebSocket
// connection in the game's room. A valid host token marks the
// connection as the admin sub-room.
func (s *Service) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID64, err := strconv.ParseInt(r.URL.Query().Get("game_id"), 10, 32)
	if err != nil {
		http.Error(w, "invalid game_id", http.StatusBadRequest)
		return
	}
	gameID := int32(gameID64)

	var userID int32
	isHost := false
	if token := r.URL.Query().Get("token"); token != "" {
		userID, err = s.auth.UserID(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		isHost, err = s.runtime.ValidateHost(r.Context(), gameID, userID)
		if err != nil {
			log.Error().Err(err).Int32("game_id", gameID).Msg("failed to validate host")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	conn, err := s.cm.UpgradeConnection(w, r, userID, gameID)
	if err != nil {
		return
	}
	conn.IsHost = isHost
}

// StatsHandler reports live connection counts.
func (s *Service) StatsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.cm.GetConnectionStats())
}

func (s *Service) handleDisconnect(conn *Connection) {
	if err := s.runtime.DisconnectParticipant(context.Background(), conn.ID); err != nil {
		log.Error().Err(err).Str("connection_id", conn.ID).Msg("failed to mark participant disconnected")
	}
}

func (s *Service) handleMessage(conn *Connection, raw []byte) {
	ctx := context.Background()

	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.sendError(conn, "", "malformed message")
		return
	}

	switch msg.Type {
	case CmdJoinGame:
		s.handleJoinGame(ctx, conn, msg)
	case CmdSubmitAnswer:
		s.handleSubmitAnswer(ctx, conn, msg)
	case CmdDispute:
		s.handleDispute(ctx, conn, msg)
	case CmdSync:
		if s.requireHost(ctx, conn, msg.Type) {
			s.handleSync(ctx, conn)
		}
	case CmdStartGame:
		if s.requireHost(ctx, conn, msg.Type) {
			s.handleStartGame(ctx, conn)
		}
	case CmdStartQuestion:
		if s.requireHost(ctx, conn, msg.Type) {
			s.handleStartQuestion(ctx, conn, msg)
		}
	case CmdNextQuestion:
		if s.requireHost(ctx, conn, msg.Type) {
			s.handleNextQuestion(ctx, conn)
		}
	case CmdJudgeAnswer:
		if s.requireHost(ctx, conn, msg.Type) {
			s.handleJudgeAnswer(ctx, conn, msg)
		}
	case CmdAdjustTime:
		if s.requireHost(ctx, conn, msg.Type) {
			s.handleAdjustTime(ctx, conn, msg)
		}
	case CmdPauseTimer:
		if s.requireHost(ctx, conn, msg.Type) {
			s.handlePauseTimer(ctx, conn)
		}
	case CmdResumeTimer:
		if s.requireHost(ctx, conn, msg.Type) {
			s.handleResumeTimer(ctx, conn)
		}
	case CmdFinishGame:
		if s.requireHost(ctx, conn, msg.Type) {
			s.handleFinishGame(ctx, conn)
		}
	default:
		s.sendError(conn, msg.Type, "unknown command")
	}
}

// requireHost rejects admin commands from connections that do not own
// the game. The rejection is an explicit error event, never a silent
// drop.
func (s *Service) requireHost(ctx context.Context, conn *Connection, cmd EventType) bool {
	if conn.UserID == 0 {
		s.sendError(conn, cmd, ErrUnauthenticated.Error())
		return false
	}
	ok, err := s.runtime.ValidateHost(ctx, conn.GameID, conn.UserID)
	if err != nil {
		log.Error().Err(err).Int32("game_id", conn.GameID).Msg("failed to validate host")
		s.sendError(conn, cmd, "internal error")
		return false
	}
	if !ok {
		s.sendError(conn, cmd, ErrForbidden.Error())
		return false
	}
	return true
}

func (s *Service) handleJoinGame(ctx context.Context, conn *Connection, msg ClientMessage) {
	var payload JoinGamePayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		s.sendError(conn, msg.Type, "malformed payload")
		return
	}

	result, err := s.runtime.JoinGame(ctx, conn.GameID, payload.TeamID, conn.ID)
	if err != nil {
		s.sendError(conn, msg.Type, err.Error())
		return
	}
	conn.ParticipantID = result.ParticipantID

	s.sendEvent(conn, EventSyncState, result)
}

func (s *Service) handleSubmitAnswer(ctx context.Context, conn *Connection, msg ClientMessage) {
	if conn.ParticipantID == 0 {
		s.sendError(conn, msg.Type, "join a game before submitting answers")
		return
	}
	var payload SubmitAnswerPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		s.sendError(conn, msg.Type, "malformed payload")
		return
	}

	answer, err := s.runtime.ProcessAnswer(ctx, engine.SubmitAnswerRequest{
		GameID:        conn.GameID,
		ParticipantID: conn.ParticipantID,
		QuestionID:    payload.QuestionID,
		Answer:        payload.Answer,
	})
	if err != nil {
		s.sendError(conn, msg.Type, err.Error())
		return
	}
	if answer == nil {
		s.sendError(conn, msg.Type, "game is not live")
		return
	}

	s.sendEvent(conn, EventAnswerReceived, AnswerReceivedPayload{Status: "ok", IsLate: answer.IsLate})
	s.broadcastToHost(conn.GameID, EventAnswerUpdate, AnswerUpdatePayload{Answer: answer})
}

func (s *Service) handleDispute(ctx context.Context, conn *Connection, msg ClientMessage) {
	var payload DisputePayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		s.sendError(conn, msg.Type, "malformed payload")
		return
	}

	if _, err := s.runtime.RaiseDispute(ctx, conn.GameID, payload.AnswerID, payload.Comment); err != nil {
		s.sendError(conn, msg.Type, err.Error())
		return
	}
	s.broadcastToHost(conn.GameID, EventNewDispute, NewDisputePayload{AnswerID: payload.AnswerID})
}

func (s *Service) handleSync(ctx context.Context, conn *Connection) {
	result, err := s.runtime.AdminSync(ctx, conn.GameID)
	if err != nil {
		s.sendError(conn, CmdSync, err.Error())
		return
	}
	s.sendEvent(conn, EventSyncState, result)
}

func (s *Service) handleStartGame(ctx context.Context, conn *Connection) {
	status, err := s.runtime.StartGame(ctx, conn.GameID)
	if err != nil {
		s.sendError(conn, CmdStartGame, err.Error())
		return
	}
	s.broadcastToGame(conn.GameID, EventGameStatusChanged, GameStatusChangedPayload{Status: status})
}

func (s *Service) handleStartQuestion(ctx context.Context, conn *Connection, msg ClientMessage) {
	var payload StartQuestionPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		s.sendError(conn, msg.Type, "malformed payload")
		return
	}

	err := s.runtime.StartQuestionCycle(ctx, conn.GameID, payload.QuestionID,
		s.tickBroadcaster(), s.phaseBroadcaster(conn.GameID))
	if err != nil {
		s.sendError(conn, msg.Type, err.Error())
	}
}

func (s *Service) handleNextQuestion(ctx context.Context, conn *Connection) {
	questionID, err := s.runtime.StartNextQuestion(ctx, conn.GameID, s.tickBroadcaster())
	if err != nil {
		s.sendError(conn, CmdNextQuestion, err.Error())
		return
	}
	if questionID == nil {
		// End of questions: expected flow, let the host decide what
		// comes next.
		s.sendEvent(conn, EventSyncState, map[string]any{"end_of_questions": true})
	}
}

func (s *Service) handleJudgeAnswer(ctx context.Context, conn *Connection, msg ClientMessage) {
	var payload JudgeAnswerPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		s.sendError(conn, msg.Type, "malformed payload")
		return
	}

	result, err := s.runtime.JudgeAnswer(ctx, conn.GameID, payload.AnswerID, conn.UserID, payload.Verdict)
	if err != nil {
		s.sendError(conn, msg.Type, err.Error())
		return
	}
	s.broadcastToHost(conn.GameID, EventAnswerUpdate, AnswerUpdatePayload{Answer: result.Answer})
	s.broadcastToGame(conn.GameID, EventLeaderboardUpdate, result.Leaderboard)
}

func (s *Service) handleAdjustTime(ctx context.Context, conn *Connection, msg ClientMessage) {
	var payload AdjustTimePayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		s.sendError(conn, msg.Type, "malformed payload")
		return
	}
	if err := s.runtime.AdjustTime(ctx, conn.GameID, payload.Delta); err != nil {
		s.sendError(conn, msg.Type, err.Error())
	}
}

func (s *Service) handlePauseTimer(ctx context.Context, conn *Connection) {
	if err := s.runtime.PauseTimer(ctx, conn.GameID); err != nil {
		s.sendError(conn, CmdPauseTimer, err.Error())
		return
	}
	s.broadcastToGame(conn.GameID, EventTimerPaused, nil)
}

func (s *Service) handleResumeTimer(ctx context.Context, conn *Connection) {
	if err := s.runtime.ResumeTimer(ctx, conn.GameID); err != nil {
		s.sendError(conn, CmdResumeTimer, err.Error())
		return
	}
	s.broadcastToGame(conn.GameID, EventTimerResumed, nil)
}

func (s *Service) handleFinishGame(ctx context.Context, conn *Connection) {
	status, err := s.runtime.FinishGame(ctx, conn.GameID)
	if err != nil {
		s.sendError(conn, CmdFinishGame, err.Error())
		return
	}
	s.broadcastToGame(conn.GameID, EventGameStatusChanged, GameStatusChangedPayload{Status: status})
}

// tickBroadcaster relays engine ticks to the game room.
func (s *Service) tickBroadcaster() engine.TickFunc {
	return func(gameID int32, seconds int, phase models.GamePhase, questionID *int32) {
		s.broadcastToGame(gameID, EventTimerUpdate, TimerUpdatePayload{
			Seconds:          seconds,
			Phase:            phase,
			ActiveQuestionID: questionID,
		})
	}
}

// phaseBroadcaster relays cycle completion to the game room.
func (s *Service) phaseBroadcaster(gameID int32) engine.PhaseChangeFunc {
	return func(phase models.GamePhase) {
		s.broadcastToGame(gameID, EventPhaseEnded, PhaseEndedPayload{Phase: phase})
	}
}

func (s *Service) sendEvent(conn *Connection, eventType EventType, data any) {
	event, err := newEvent(eventType, conn.GameID, data)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to build event")
		return
	}
	conn.SendEvent(event)
}

func (s *Service) sendError(conn *Connection, cmd EventType, message string) {
	s.sendEvent(conn, EventError, ErrorPayload{Command: cmd, Message: message})
}

func (s *Service) broadcastToGame(gameID int32, eventType EventType, data any) {
	event, err := newEvent(eventType, gameID, data)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to build event")
		return
	}
	s.cm.BroadcastToGame(gameID, event)
}

func (s *Service) broadcastToHost(gameID int32, eventType EventType, data any) {
	event, err := newEvent(eventType, gameID, data)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to build event")
		return
	}
	s.cm.BroadcastToHost(gameID, event)
}
