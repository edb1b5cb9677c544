package engine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ScriptoWhisp/what-where-when-server/internal/gamedb"
	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
	"github.com/ScriptoWhisp/what-where-when-server/internal/sqlutil"
)

// SQLRepository implements Repository over the generated query layer.
// It keeps the raw handle alongside the queries for the operations that
// need a transaction.
type SQLRepository struct {
	db      *sql.DB
	queries *gamedb.Queries
}

func NewSQLRepository(db *sql.DB, queries *gamedb.Queries) *SQLRepository {
	return &SQLRepository{db: db, queries: queries}
}

func (r *SQLRepository) withTx(tx *sql.Tx) *gamedb.Queries {
	return r.queries.WithTx(tx)
}

func (r *SQLRepository) FindGameByID(ctx context.Context, gameID int32) (*models.Game, error) {
	row, err := r.queries.GetGame(ctx, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toGame(row)
}

func (r *SQLRepository) FindActiveQuestionID(ctx context.Context, gameID int32) (*int32, error) {
	id, err := r.queries.FindActiveQuestionID(ctx, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *SQLRepository) GetQuestionSettings(ctx context.Context, questionID int32) (*models.QuestionSettings, error) {
	row, err := r.queries.GetQuestionSettings(ctx, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.QuestionSettings{
		GameID:          row.GameID,
		TimeToThinkSec:  int(row.TimeToThink),
		TimeToAnswerSec: int(row.TimeToAnswer),
	}, nil
}

func (r *SQLRepository) GetOrderedQuestionIDs(ctx context.Context, gameID int32) ([]int32, error) {
	return r.queries.GetOrderedQuestionIDs(ctx, gameID)
}

// ActivateQuestion clears every active flag for the game and sets the
// target question, atomically.
func (r *SQLRepository) ActivateQuestion(ctx context.Context, gameID, questionID int32) error {
	return sqlutil.Run(ctx, r.db, r.withTx, func(q *gamedb.Queries) error {
		if err := q.DeactivateQuestions(ctx, gameID); err != nil {
			return err
		}
		return q.ActivateQuestion(ctx, questionID)
	})
}

func (r *SQLRepository) UpdateGameStatus(ctx context.Context, gameID int32, status models.GameStatus) error {
	return r.queries.UpdateGameStatus(ctx, gamedb.UpdateGameStatusParams{
		ID:     gameID,
		Status: gamedb.GameStatus(status),
	})
}

func (r *SQLRepository) GetGameSettings(ctx context.Context, gameID int32) (*models.GameSettings, error) {
	game, err := r.FindGameByID(ctx, gameID)
	if err != nil || game == nil {
		return nil, err
	}
	return &models.GameSettings{
		CanAppeal:       game.CanAppeal,
		TimeToThinkSec:  game.TimeToThinkSec,
		TimeToAnswerSec: game.TimeToAnswerSec,
		Display:         game.Display,
	}, nil
}

func (r *SQLRepository) SaveAnswer(ctx context.Context, participantID, questionID int32, text string, isLate bool) (*models.Answer, error) {
	row, err := r.queries.CreateAnswer(ctx, gamedb.CreateAnswerParams{
		ParticipantID: participantID,
		QuestionID:    questionID,
		AnswerText:    text,
		IsLate:        isLate,
	})
	if err != nil {
		return nil, err
	}
	answer := toAnswer(row)
	return &answer, nil
}

// JudgeAnswer updates the verdict and appends the audit trail entry in
// one transaction.
func (r *SQLRepository) JudgeAnswer(ctx context.Context, answerID int32, verdict models.AnswerStatus, judgeID int32) (*models.Answer, error) {
	updated, err := sqlutil.RunValue(ctx, r.db, r.withTx, func(q *gamedb.Queries) (gamedb.Answer, error) {
		current, err := q.GetAnswerByID(ctx, answerID)
		if err != nil {
			return gamedb.Answer{}, err
		}
		row, err := q.UpdateAnswerStatus(ctx, gamedb.UpdateAnswerStatusParams{
			ID:     answerID,
			Status: gamedb.AnswerStatus(verdict),
		})
		if err != nil {
			return gamedb.Answer{}, err
		}
		err = q.InsertAnswerStatusHistory(ctx, gamedb.InsertAnswerStatusHistoryParams{
			AnswerID:    answerID,
			OldStatus:   current.Status,
			NewStatus:   row.Status,
			ChangedByID: judgeID,
		})
		return row, err
	})
	if err != nil {
		return nil, err
	}
	answer := toAnswer(updated)
	return &answer, nil
}

func (r *SQLRepository) GetAnswerByID(ctx context.Context, answerID int32) (*models.Answer, error) {
	row, err := r.queries.GetAnswerByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	answer := toAnswer(row)
	return &answer, nil
}

func (r *SQLRepository) GetAnswersByGame(ctx context.Context, gameID int32) ([]models.Answer, error) {
	rows, err := r.queries.ListAnswersByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	answers := make([]models.Answer, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, toAnswer(row))
	}
	return answers, nil
}

// CreateDispute opens the appeal and flips the answer to DISPUTABLE in
// one transaction.
func (r *SQLRepository) CreateDispute(ctx context.Context, answerID int32, comment string) error {
	return sqlutil.Run(ctx, r.db, r.withTx, func(q *gamedb.Queries) error {
		if _, err := q.CreateDispute(ctx, gamedb.CreateDisputeParams{
			AnswerID: answerID,
			Comment:  comment,
		}); err != nil {
			return err
		}
		_, err := q.UpdateAnswerStatus(ctx, gamedb.UpdateAnswerStatusParams{
			ID:     answerID,
			Status: gamedb.AnswerStatusDISPUTABLE,
		})
		return err
	})
}

func (r *SQLRepository) GetLeaderboard(ctx context.Context, gameID int32) ([]models.LeaderboardEntry, error) {
	rows, err := r.queries.LeaderboardCounts(ctx, gameID)
	if err != nil {
		return nil, err
	}
	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.LeaderboardEntry{
			ParticipantID: row.ParticipantID,
			TeamName:      row.TeamName,
			Score:         int(row.Score),
		})
	}
	SortLeaderboard(entries)
	return entries, nil
}

func (r *SQLRepository) GetParticipantsByGame(ctx context.Context, gameID int32) ([]models.Participant, error) {
	rows, err := r.queries.ListParticipantsByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	participants := make([]models.Participant, 0, len(rows))
	for _, row := range rows {
		participants = append(participants, models.Participant{
			ID:          row.ID,
			GameID:      row.GameID,
			TeamID:      row.TeamID,
			TeamName:    row.TeamName,
			SocketID:    sqlutil.FromSqlStringPtr(row.SocketID),
			IsAvailable: row.IsAvailable,
		})
	}
	return participants, nil
}

func (r *SQLRepository) JoinGame(ctx context.Context, gameID, teamID int32, socketID string) (*models.Participant, error) {
	row, err := r.queries.JoinGame(ctx, gamedb.JoinGameParams{
		GameID:   gameID,
		TeamID:   teamID,
		SocketID: sqlutil.ToSqlString(&socketID),
	})
	if err != nil {
		return nil, err
	}
	return &models.Participant{
		ID:          row.ID,
		GameID:      row.GameID,
		TeamID:      row.TeamID,
		SocketID:    sqlutil.FromSqlStringPtr(row.SocketID),
		IsAvailable: row.IsAvailable,
	}, nil
}

func (r *SQLRepository) SetParticipantDisconnected(ctx context.Context, socketID string) error {
	return r.queries.SetParticipantDisconnected(ctx, sqlutil.ToSqlString(&socketID))
}
