// Package engine runs the per-game question cycle: the
// THINKING -> ANSWERING -> IDLE state machine, its countdown timers and
// the late-answer bookkeeping around them.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/ScriptoWhisp/what-where-when-server/internal/engine/events"
	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

// Repository is the persistence surface the engine depends on.
// FindGameByID, FindActiveQuestionID and GetQuestionSettings report
// absence as (nil, nil).
type Repository interface {
	FindGameByID(ctx context.Context, gameID int32) (*models.Game, error)
	FindActiveQuestionID(ctx context.Context, gameID int32) (*int32, error)
	GetQuestionSettings(ctx context.Context, questionID int32) (*models.QuestionSettings, error)
	GetOrderedQuestionIDs(ctx context.Context, gameID int32) ([]int32, error)
	ActivateQuestion(ctx context.Context, gameID, questionID int32) error
	UpdateGameStatus(ctx context.Context, gameID int32, status models.GameStatus) error
	GetGameSettings(ctx context.Context, gameID int32) (*models.GameSettings, error)
	SaveAnswer(ctx context.Context, participantID, questionID int32, text string, isLate bool) (*models.Answer, error)
	JudgeAnswer(ctx context.Context, answerID int32, verdict models.AnswerStatus, judgeID int32) (*models.Answer, error)
	GetAnswerByID(ctx context.Context, answerID int32) (*models.Answer, error)
	GetAnswersByGame(ctx context.Context, gameID int32) ([]models.Answer, error)
	CreateDispute(ctx context.Context, answerID int32, comment string) error
	GetLeaderboard(ctx context.Context, gameID int32) ([]models.LeaderboardEntry, error)
	GetParticipantsByGame(ctx context.Context, gameID int32) ([]models.Participant, error)
	JoinGame(ctx context.Context, gameID, teamID int32, socketID string) (*models.Participant, error)
	SetParticipantDisconnected(ctx context.Context, socketID string) error
}

// OutboxApp records lifecycle events for asynchronous publication.
type OutboxApp interface {
	Insert(ctx context.Context, gameID int32, eventType string, payload any) error
}

const defaultAnswerSeconds = 10

// Engine drives game runtime state. One instance serves every game in
// the process; per-game state lives in the cache.
type Engine struct {
	repo   Repository
	outbox OutboxApp
	cache  *Cache
	clock  clockwork.Clock
}

func NewEngine(repo Repository, outbox OutboxApp, cache *Cache, clock clockwork.Clock) *Engine {
	return &Engine{
		repo:   repo,
		outbox: outbox,
		cache:  cache,
		clock:  clock,
	}
}

// StartGame moves a DRAFT game to LIVE. Starting a LIVE game is a
// no-op; starting a FINISHED game is an error.
func (e *Engine) StartGame(ctx context.Context, gameID int32) (models.GameStatus, error) {
	status, err := e.cache.Status(ctx, gameID)
	if err != nil {
		return "", fmt.Errorf("load game status: %w", err)
	}
	switch status {
	case "":
		return "", ErrGameNotFound
	case models.GameStatusLive:
		log.Warn().Int32("game_id", gameID).Msg("start requested for game that is already live")
		return models.GameStatusLive, nil
	case models.GameStatusFinished:
		return "", ErrGameFinished
	}

	if err := e.repo.UpdateGameStatus(ctx, gameID, models.GameStatusLive); err != nil {
		return "", fmt.Errorf("update game status: %w", err)
	}
	e.cache.SetStatus(gameID, models.GameStatusLive)

	e.emit(ctx, gameID, events.TypeGameStarted, events.GameStartedPayload{
		GameID:    gameID,
		Status:    models.GameStatusLive,
		StartedAt: e.clock.Now(),
	})
	return models.GameStatusLive, nil
}

// FinishGame stops any running countdown and moves the game to FINISHED.
func (e *Engine) FinishGame(ctx context.Context, gameID int32) (models.GameStatus, error) {
	e.cleanupTimer(gameID)

	if err := e.repo.UpdateGameStatus(ctx, gameID, models.GameStatusFinished); err != nil {
		return "", fmt.Errorf("update game status: %w", err)
	}
	e.cache.SetStatus(gameID, models.GameStatusFinished)
	e.cache.SetPhase(gameID, models.PhaseIdle)
	e.cache.SetRemainingSeconds(gameID, 0)

	e.emit(ctx, gameID, events.TypeGameFinished, events.GameFinishedPayload{
		GameID:     gameID,
		Status:     models.GameStatusFinished,
		FinishedAt: e.clock.Now(),
	})
	return models.GameStatusFinished, nil
}

// StartQuestionCycle activates a question and begins its THINKING
// countdown. Any cycle already running for the game is cancelled first.
func (e *Engine) StartQuestionCycle(ctx context.Context, gameID, questionID int32, onTick TickFunc, onPhaseChange PhaseChangeFunc) error {
	status, err := e.cache.Status(ctx, gameID)
	if err != nil {
		return fmt.Errorf("load game status: %w", err)
	}
	if status == "" {
		return ErrGameNotFound
	}
	if status != models.GameStatusLive {
		return fmt.Errorf("cannot start question: game is in %s status", status)
	}

	settings, err := e.repo.GetQuestionSettings(ctx, questionID)
	if err != nil {
		return fmt.Errorf("load question settings: %w", err)
	}
	if settings == nil || settings.GameID != gameID {
		return ErrQuestionMismatch
	}

	e.cleanupTimer(gameID)

	if err := e.repo.ActivateQuestion(ctx, gameID, questionID); err != nil {
		return fmt.Errorf("activate question: %w", err)
	}
	e.cache.SetActiveQuestionID(gameID, questionID)
	e.cache.SetCallbacks(gameID, onTick, onPhaseChange)

	e.transitionToPhase(ctx, gameID, models.PhaseThinking, settings.TimeToThinkSec)

	e.emit(ctx, gameID, events.TypeQuestionStarted, events.QuestionStartedPayload{
		GameID:     gameID,
		QuestionID: questionID,
		ThinkSec:   settings.TimeToThinkSec,
		AnswerSec:  settings.TimeToAnswerSec,
		StartedAt:  e.clock.Now(),
	})
	return nil
}

// StartNextQuestion starts the cycle for the question following the
// current active one in (round_number, question_number) order. Returns
// (nil, nil) when the game has no further questions.
func (e *Engine) StartNextQuestion(ctx context.Context, gameID int32, onTick TickFunc) (*int32, error) {
	ordered, err := e.repo.GetOrderedQuestionIDs(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(ordered) == 0 {
		log.Warn().Int32("game_id", gameID).Msg("next question requested for game without questions")
		return nil, nil
	}

	current, err := e.cache.ActiveQuestionID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load active question: %w", err)
	}

	next := 0
	if current != nil {
		for i, id := range ordered {
			if id == *current {
				next = i + 1
				break
			}
		}
	}
	if next >= len(ordered) {
		return nil, nil
	}

	questionID := ordered[next]
	if err := e.StartQuestionCycle(ctx, gameID, questionID, onTick, func(models.GamePhase) {}); err != nil {
		return nil, err
	}
	return &questionID, nil
}

// ProcessAnswer persists a team's submission. Returns (nil, nil) when
// the game is not LIVE. Submissions outside the active question's
// window are stored with IsLate set, never dropped.
func (e *Engine) ProcessAnswer(ctx context.Context, req SubmitAnswerRequest) (*models.Answer, error) {
	status, err := e.cache.Status(ctx, req.GameID)
	if err != nil {
		return nil, fmt.Errorf("load game status: %w", err)
	}
	if status != models.GameStatusLive {
		log.Warn().
			Int32("game_id", req.GameID).
			Str("status", string(status)).
			Msg("answer ignored: game is not live")
		return nil, nil
	}

	activeID, err := e.cache.ActiveQuestionID(ctx, req.GameID)
	if err != nil {
		return nil, fmt.Errorf("load active question: %w", err)
	}
	phase := e.cache.Phase(req.GameID)
	isLate := phase == models.PhaseIdle || activeID == nil || *activeID != req.QuestionID

	answer, err := e.repo.SaveAnswer(ctx, req.ParticipantID, req.QuestionID, req.Answer, isLate)
	if err != nil {
		return nil, fmt.Errorf("save answer: %w", err)
	}
	return answer, nil
}

// JudgeAnswer records the host's verdict with an audit trail entry and
// returns the updated answer alongside the recomputed leaderboard.
func (e *Engine) JudgeAnswer(ctx context.Context, gameID, answerID, judgeID int32, verdict models.AnswerStatus) (*JudgeResult, error) {
	answer, err := e.repo.JudgeAnswer(ctx, answerID, verdict, judgeID)
	if err != nil {
		return nil, fmt.Errorf("judge answer: %w", err)
	}

	leaderboard, err := e.repo.GetLeaderboard(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	e.emit(ctx, gameID, events.TypeAnswerJudged, events.AnswerJudgedPayload{
		GameID:      gameID,
		AnswerID:    answerID,
		Verdict:     verdict,
		JudgeID:     judgeID,
		Leaderboard: leaderboard,
	})
	return &JudgeResult{Answer: answer, Leaderboard: leaderboard}, nil
}

// RaiseDispute opens an appeal on a judged answer and marks the answer
// DISPUTABLE. Fails when the game disables appeals.
func (e *Engine) RaiseDispute(ctx context.Context, gameID, answerID int32, comment string) (*JudgeResult, error) {
	settings, err := e.repo.GetGameSettings(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game settings: %w", err)
	}
	if settings == nil {
		return nil, ErrGameNotFound
	}
	if !settings.CanAppeal {
		return nil, ErrAppealsDisabled
	}

	if err := e.repo.CreateDispute(ctx, answerID, comment); err != nil {
		return nil, fmt.Errorf("create dispute: %w", err)
	}
	answer, err := e.repo.GetAnswerByID(ctx, answerID)
	if err != nil {
		return nil, fmt.Errorf("load answer: %w", err)
	}
	leaderboard, err := e.repo.GetLeaderboard(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	e.emit(ctx, gameID, events.TypeDisputeOpened, events.DisputeOpenedPayload{
		GameID:   gameID,
		AnswerID: answerID,
		Comment:  comment,
	})
	return &JudgeResult{Answer: answer, Leaderboard: leaderboard}, nil
}

// PauseTimer halts the countdown, preserving the remaining seconds, and
// notifies subscribers of the frozen value. No-op when nothing runs.
func (e *Engine) PauseTimer(ctx context.Context, gameID int32) error {
	e.stopTimer(gameID)
	return e.notifyTick(ctx, gameID)
}

// ResumeTimer restarts a paused countdown from the preserved value.
// No-op when the timer is running or the game is IDLE.
func (e *Engine) ResumeTimer(ctx context.Context, gameID int32) error {
	if !e.IsPaused(gameID) {
		return nil
	}
	e.startInterval(gameID)
	return e.notifyTick(ctx, gameID)
}

// IsPaused reports whether the game has a phase in progress but no
// running countdown.
func (e *Engine) IsPaused(gameID int32) bool {
	return e.cache.Timer(gameID) == nil && e.cache.Phase(gameID) != models.PhaseIdle
}

// AdjustTime shifts the remaining seconds by delta, clamping at zero.
// Reaching zero completes the current phase exactly as a natural
// expiry would. No-op when the game is IDLE.
func (e *Engine) AdjustTime(ctx context.Context, gameID int32, delta int) error {
	if e.cache.Phase(gameID) == models.PhaseIdle {
		return nil
	}

	seconds := e.cache.RemainingSeconds(gameID) + delta
	if seconds <= 0 {
		e.cache.SetRemainingSeconds(gameID, 0)
		if err := e.notifyTick(ctx, gameID); err != nil {
			return err
		}
		return e.handlePhaseCompletion(ctx, gameID)
	}

	e.cache.SetRemainingSeconds(gameID, seconds)
	return e.notifyTick(ctx, gameID)
}

// GameState assembles the current runtime snapshot for a game.
func (e *Engine) GameState(ctx context.Context, gameID int32) (*GameState, error) {
	status, err := e.cache.Status(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game status: %w", err)
	}
	activeID, err := e.cache.ActiveQuestionID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load active question: %w", err)
	}
	return &GameState{
		Phase:            e.cache.Phase(gameID),
		Seconds:          e.cache.RemainingSeconds(gameID),
		ActiveQuestionID: activeID,
		IsPaused:         e.IsPaused(gameID),
		Status:           status,
	}, nil
}

// JoinGame registers a team's connection in a non-FINISHED game and
// returns the state snapshot plus the current participant roster.
func (e *Engine) JoinGame(ctx context.Context, gameID, teamID int32, socketID string) (*JoinResult, error) {
	status, err := e.cache.Status(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game status: %w", err)
	}
	if status == "" {
		return nil, ErrGameNotFound
	}
	if status == models.GameStatusFinished {
		return nil, ErrJoinFinished
	}

	participant, err := e.repo.JoinGame(ctx, gameID, teamID, socketID)
	if err != nil {
		return nil, fmt.Errorf("join game: %w", err)
	}
	state, err := e.GameState(ctx, gameID)
	if err != nil {
		return nil, err
	}
	participants, err := e.repo.GetParticipantsByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return &JoinResult{
		State:         state,
		ParticipantID: participant.ID,
		Participants:  participants,
	}, nil
}

// AdminSync returns everything a host console needs after a reconnect.
func (e *Engine) AdminSync(ctx context.Context, gameID int32) (*SyncResult, error) {
	state, err := e.GameState(ctx, gameID)
	if err != nil {
		return nil, err
	}
	answers, err := e.repo.GetAnswersByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	participants, err := e.repo.GetParticipantsByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return &SyncResult{
		State:        state,
		Answers:      answers,
		Participants: participants,
	}, nil
}

// Leaderboard returns the game's current standings.
func (e *Engine) Leaderboard(ctx context.Context, gameID int32) ([]models.LeaderboardEntry, error) {
	return e.repo.GetLeaderboard(ctx, gameID)
}

// ValidateHost reports whether userID owns the game.
func (e *Engine) ValidateHost(ctx context.Context, gameID, userID int32) (bool, error) {
	game, err := e.repo.FindGameByID(ctx, gameID)
	if err != nil {
		return false, fmt.Errorf("load game: %w", err)
	}
	return game != nil && game.HostID == userID, nil
}

// DisconnectParticipant flags a departed connection as unavailable.
func (e *Engine) DisconnectParticipant(ctx context.Context, socketID string) error {
	return e.repo.SetParticipantDisconnected(ctx, socketID)
}

// transitionToPhase sets the countdown for a phase and starts ticking.
func (e *Engine) transitionToPhase(ctx context.Context, gameID int32, phase models.GamePhase, seconds int) {
	e.cache.SetPhase(gameID, phase)
	e.cache.SetRemainingSeconds(gameID, seconds)
	if err := e.notifyTick(ctx, gameID); err != nil {
		log.Error().Err(err).Int32("game_id", gameID).Msg("failed to notify phase transition")
	}
	e.startInterval(gameID)
}

// startInterval launches the per-second countdown goroutine. No-op when
// one is already running for the game.
func (e *Engine) startInterval(gameID int32) {
	ticker := e.clock.NewTicker(time.Second)
	t := newTimer(ticker)
	if !e.cache.SetTimer(gameID, t) {
		t.Stop()
		return
	}

	go func() {
		for {
			select {
			case <-ticker.Chan():
				e.tick(context.Background(), gameID)
			case <-t.stop:
				return
			}
		}
	}()
}

// tick advances the countdown by one logical second: decrement, notify,
// and complete the phase when the value reaches zero.
func (e *Engine) tick(ctx context.Context, gameID int32) {
	seconds := e.cache.RemainingSeconds(gameID) - 1
	if seconds < 0 {
		seconds = 0
	}
	e.cache.SetRemainingSeconds(gameID, seconds)

	if err := e.notifyTick(ctx, gameID); err != nil {
		log.Error().Err(err).Int32("game_id", gameID).Msg("failed to notify tick")
	}

	if seconds == 0 {
		if err := e.handlePhaseCompletion(ctx, gameID); err != nil {
			log.Error().Err(err).Int32("game_id", gameID).Msg("failed to complete phase")
		}
	}
}

// handlePhaseCompletion runs when a countdown hits zero. THINKING rolls
// into ANSWERING; ANSWERING ends the cycle and returns the game to IDLE.
func (e *Engine) handlePhaseCompletion(ctx context.Context, gameID int32) error {
	e.stopTimer(gameID)

	switch e.cache.Phase(gameID) {
	case models.PhaseThinking:
		seconds := defaultAnswerSeconds
		activeID, err := e.cache.ActiveQuestionID(ctx, gameID)
		if err != nil {
			return fmt.Errorf("load active question: %w", err)
		}
		if activeID != nil {
			settings, err := e.repo.GetQuestionSettings(ctx, *activeID)
			if err != nil {
				return fmt.Errorf("load question settings: %w", err)
			}
			if settings != nil && settings.TimeToAnswerSec > 0 {
				seconds = settings.TimeToAnswerSec
			}
		}
		e.transitionToPhase(ctx, gameID, models.PhaseAnswering, seconds)

	case models.PhaseAnswering:
		e.cache.SetPhase(gameID, models.PhaseIdle)
		e.cache.SetRemainingSeconds(gameID, 0)
		if cb := e.cache.PhaseChangeCallback(gameID); cb != nil {
			cb(models.PhaseIdle)
		}
		e.cleanupTimer(gameID)
	}
	return nil
}

// notifyTick pushes the current countdown value to the tick subscriber.
func (e *Engine) notifyTick(ctx context.Context, gameID int32) error {
	cb := e.cache.TickCallback(gameID)
	if cb == nil {
		return nil
	}
	activeID, err := e.cache.ActiveQuestionID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("load active question: %w", err)
	}
	cb(gameID, e.cache.RemainingSeconds(gameID), e.cache.Phase(gameID), activeID)
	return nil
}

func (e *Engine) stopTimer(gameID int32) {
	e.cache.ClearTimer(gameID)
}

// cleanupTimer tears down the timer and callbacks at cycle end.
func (e *Engine) cleanupTimer(gameID int32) {
	e.stopTimer(gameID)
	e.cache.RemoveCallbacks(gameID)
}

// emit writes a lifecycle event to the outbox. Outbox failures are
// logged, never surfaced: runtime operations must not fail because the
// event trail lagged.
func (e *Engine) emit(ctx context.Context, gameID int32, eventType string, payload any) {
	if e.outbox == nil {
		return
	}
	if err := e.outbox.Insert(ctx, gameID, eventType, payload); err != nil {
		log.Error().Err(err).
			Int32("game_id", gameID).
			Str("event_type", eventType).
			Msg("failed to insert outbox event")
	}
}
