package engine

import (
	"errors"
)

var (
	// ErrGameNotFound is returned when an operation targets a game that
	// does not exist in persistence.
	ErrGameNotFound = errors.New("game not found")

	// ErrGameFinished rejects attempts to start a FINISHED game.
	ErrGameFinished = errors.New("cannot start a game that is already finished")

	// ErrJoinFinished rejects attempts to join a FINISHED game.
	ErrJoinFinished = errors.New("cannot join: game is already finished")

	// ErrAppealsDisabled rejects disputes on games without appeals.
	ErrAppealsDisabled = errors.New("appeals are disabled for this game")

	// ErrQuestionMismatch rejects question cycles for questions that do
	// not belong to the game.
	ErrQuestionMismatch = errors.New("question not found or does not belong to this game")
)
