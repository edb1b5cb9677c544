package models

// Round groups questions inside a game, ordered by RoundNumber.
type Round struct {
	ID          int32   `json:"id"`
	GameID      int32   `json:"game_id"`
	RoundNumber int     `json:"round_number"`
	Name        *string `json:"name,omitempty"`
}

// Question belongs to a round and carries its own timer configuration.
// At most one question per game has IsActive set at any time.
type Question struct {
	ID              int32  `json:"id"`
	RoundID         int32  `json:"round_id"`
	QuestionNumber  int    `json:"question_number"`
	Text            string `json:"text"`
	Answer          string `json:"answer"`
	TimeToThinkSec  int    `json:"time_to_think_sec"`
	TimeToAnswerSec int    `json:"time_to_answer_sec"`
	IsActive        bool   `json:"is_active"`
}

// QuestionSettings is what the engine needs to run a question cycle.
type QuestionSettings struct {
	GameID          int32 `json:"game_id"`
	TimeToThinkSec  int   `json:"time_to_think_sec"`
	TimeToAnswerSec int   `json:"time_to_answer_sec"`
}
