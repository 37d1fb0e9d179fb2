package engine

import (
	"errors"
	"fmt"
)

// User-correctable rejections. State is never mutated when one of these is
// returned and the update stream stays silent.
var (
	ErrNotYourTurn         = errors.New("not your turn")
	ErrTableLocked         = errors.New("table locked")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrInsufficientPlayers = errors.New("insufficient players")
	ErrGameNotOver         = errors.New("game not over")
	ErrUnknownPlayer       = errors.New("unknown player")
)

// IllegalMoveError rejects a syntactically valid move that breaks the
// betting rules.
type IllegalMoveError struct {
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move: %s", e.Reason)
}

// InconsistentStateError indicates a reducer bug or an internal-only event
// arriving from outside. A room latches corrupt when a reducer's output
// fails CheckInvariants and then rejects every further event; nothing in
// the room clears the flag.
type InconsistentStateError struct {
	Message string
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("inconsistent state: %s", e.Message)
}
