package engine

import (
	"testing"

	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

func TestSortLeaderboard(t *testing.T) {
	entries := []models.LeaderboardEntry{
		{ParticipantID: 3, TeamName: "gamma", Score: 2},
		{ParticipantID: 1, TeamName: "alpha", Score: 5},
		{ParticipantID: 4, TeamName: "delta", Score: 5},
		{ParticipantID: 2, TeamName: "beta", Score: 0},
	}

	SortLeaderboard(entries)

	want := []int32{1, 4, 3, 2}
	for i, entry := range entries {
		if entry.ParticipantID != want[i] {
			t.Fatalf("position %d = participant %d, want %d", i, entry.ParticipantID, want[i])
		}
	}
}
