package models

import (
	"time"
)

// AnswerStatus defines the judging state of a submitted answer.
type AnswerStatus string

const (
	AnswerStatusUnset      AnswerStatus = "UNSET"
	AnswerStatusCorrect    AnswerStatus = "CORRECT"
	AnswerStatusIncorrect  AnswerStatus = "INCORRECT"
	AnswerStatusDisputable AnswerStatus = "DISPUTABLE"
)

// Answer is a team's submission for a question. Late submissions are
// persisted with IsLate set rather than being dropped, so the host can
// apply scoring policy afterwards.
type Answer struct {
	ID            int32        `json:"id"`
	ParticipantID int32        `json:"participant_id"`
	QuestionID    int32        `json:"question_id"`
	Text          string       `json:"text"`
	Status        AnswerStatus `json:"status"`
	IsLate        bool         `json:"is_late"`
	SubmittedAt   time.Time    `json:"submitted_at"`
}

// DisputeStatus defines the state of an appeal raised by a team.
type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "OPEN"
	DisputeStatusResolved DisputeStatus = "RESOLVED"
)

// Dispute is a team's appeal against a verdict on one of its answers.
type Dispute struct {
	ID        int32         `json:"id"`
	AnswerID  int32         `json:"answer_id"`
	Status    DisputeStatus `json:"status"`
	Comment   string        `json:"comment"`
	CreatedAt time.Time     `json:"created_at"`
}

// LeaderboardEntry is one row of the per-game scoreboard.
type LeaderboardEntry struct {
	ParticipantID int32  `json:"participant_id"`
	TeamName      string `json:"team_name"`
	Score         int    `json:"score"`
}
