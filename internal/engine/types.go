package engine

import (
	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

// TickFunc is invoked once per logical second while a countdown runs,
// and after pause/adjust operations so subscribers always see the
// current value.
type TickFunc func(gameID int32, seconds int, phase models.GamePhase, questionID *int32)

// PhaseChangeFunc is invoked when a question cycle completes and the
// game returns to IDLE.
type PhaseChangeFunc func(phase models.GamePhase)

// GameState is the broadcastable snapshot of a game's runtime state.
type GameState struct {
	Phase            models.GamePhase  `json:"phase"`
	Seconds          int               `json:"seconds"`
	ActiveQuestionID *int32            `json:"active_question_id,omitempty"`
	IsPaused         bool              `json:"is_paused"`
	Status           models.GameStatus `json:"status"`
}

// SubmitAnswerRequest carries a team's answer submission.
type SubmitAnswerRequest struct {
	GameID        int32  `json:"game_id"`
	ParticipantID int32  `json:"participant_id"`
	QuestionID    int32  `json:"question_id"`
	Answer        string `json:"answer"`
}

// JudgeResult pairs an updated answer with the recomputed leaderboard.
type JudgeResult struct {
	Answer      *models.Answer            `json:"answer"`
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
}

// JoinResult is returned to a team that joined a game.
type JoinResult struct {
	State         *GameState           `json:"state"`
	ParticipantID int32                `json:"participant_id"`
	Participants  []models.Participant `json:"participants"`
}

// SyncResult is the full game picture handed to a syncing host.
type SyncResult struct {
	State        *GameState           `json:"state"`
	Answers      []models.Answer      `json:"answers"`
	Participants []models.Participant `json:"participants"`
}
