// Package events defines the payloads persisted to the outbox and
// published to JetStream for game lifecycle events.
package events

import (
	"time"

	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

// Event types stored in the outbox and carried as NATS message subjects.
const (
	TypeGameStarted     = "GameStarted"
	TypeGameFinished    = "GameFinished"
	TypeQuestionStarted = "QuestionStarted"
	TypeAnswerJudged    = "AnswerJudged"
	TypeDisputeOpened   = "DisputeOpened"
)

type GameStartedPayload struct {
	GameID    int32             `json:"game_id"`
	Status    models.GameStatus `json:"status"`
	StartedAt time.Time         `json:"started_at"`
}

type GameFinishedPayload struct {
	GameID     int32             `json:"game_id"`
	Status     models.GameStatus `json:"status"`
	FinishedAt time.Time         `json:"finished_at"`
}

type QuestionStartedPayload struct {
	GameID     int32     `json:"game_id"`
	QuestionID int32     `json:"question_id"`
	ThinkSec   int       `json:"think_sec"`
	AnswerSec  int       `json:"answer_sec"`
	StartedAt  time.Time `json:"started_at"`
}

// AnswerJudgedPayload carries the recomputed leaderboard so consumers
// can rebroadcast standings without a database round trip.
type AnswerJudgedPayload struct {
	GameID      int32                     `json:"game_id"`
	AnswerID    int32                     `json:"answer_id"`
	Verdict     models.AnswerStatus       `json:"verdict"`
	JudgeID     int32                     `json:"judge_id"`
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
}

type DisputeOpenedPayload struct {
	GameID   int32  `json:"game_id"`
	AnswerID int32  `json:"answer_id"`
	Comment  string `json:"comment"`
}
