package engine

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ScriptoWhisp/what-where-when-server/internal/gamedb"
	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

func toGame(row gamedb.Game) (*models.Game, error) {
	game := &models.Game{
		ID:              row.ID,
		HostID:          row.HostID,
		Name:            row.Name,
		Date:            row.Date,
		Passcode:        row.Passcode,
		Status:          models.GameStatus(row.Status),
		TimeToThinkSec:  int(row.TimeToThink),
		TimeToAnswerSec: int(row.TimeToAnswer),
		CanAppeal:       row.CanAppeal,
		CreatedAt:       row.CreatedAt,
		ModifiedAt:      row.ModifiedAt,
	}
	if row.DisplaySettings.Valid {
		var display models.DisplaySettings
		if err := json.Unmarshal(row.DisplaySettings.RawMessage, &display); err != nil {
			return nil, fmt.Errorf("unmarshal display settings: %w", err)
		}
		game.Display = &display
	}
	return game, nil
}

func toAnswer(row gamedb.Answer) models.Answer {
	return models.Answer{
		ID:            row.ID,
		ParticipantID: row.ParticipantID,
		QuestionID:    row.QuestionID,
		Text:          row.AnswerText,
		Status:        models.AnswerStatus(row.Status),
		IsLate:        row.IsLate,
		SubmittedAt:   row.SubmittedAt,
	}
}

// SortLeaderboard orders entries by score descending, breaking ties by
// participant id ascending so standings are stable across refreshes.
func SortLeaderboard(entries []models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].ParticipantID < entries[j].ParticipantID
	})
}
