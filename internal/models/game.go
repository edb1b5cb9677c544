package models

import (
	"time"
)

// GameStatus defines the lifecycle status of a game.
// Transitions are monotonic: DRAFT -> LIVE -> FINISHED.
type GameStatus string

const (
	GameStatusDraft    GameStatus = "DRAFT"
	GameStatusLive     GameStatus = "LIVE"
	GameStatusFinished GameStatus = "FINISHED"
)

// GamePhase defines the phase of the per-game question cycle.
type GamePhase string

const (
	PhaseIdle      GamePhase = "IDLE"
	PhaseThinking  GamePhase = "THINKING"
	PhaseAnswering GamePhase = "ANSWERING"
)

// DisplaySettings holds JSONB presentation options for a game.
type DisplaySettings struct {
	ShowLeaderboard bool `json:"show_leaderboard"`
	ShowQuestions   bool `json:"show_questions"`
	ShowAnswers     bool `json:"show_answers"`
}

// Game represents a trivia game owned by a host.
type Game struct {
	ID              int32            `json:"id"`
	HostID          int32            `json:"host_id"`
	Name            string           `json:"name"`
	Date            time.Time        `json:"date"`
	Passcode        int32            `json:"passcode"`
	Status          GameStatus       `json:"status"`
	TimeToThinkSec  int              `json:"time_to_think_sec"`
	TimeToAnswerSec int              `json:"time_to_answer_sec"`
	CanAppeal       bool             `json:"can_appeal"`
	Display         *DisplaySettings `json:"display,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	ModifiedAt      time.Time        `json:"modified_at"`
}

// GameSettings is the subset of game configuration the engine consults
// when judging disputes and defaulting question timers.
type GameSettings struct {
	CanAppeal       bool             `json:"can_appeal"`
	TimeToThinkSec  int              `json:"time_to_think_sec"`
	TimeToAnswerSec int              `json:"time_to_answer_sec"`
	Display         *DisplaySettings `json:"display,omitempty"`
}
