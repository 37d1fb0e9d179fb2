package protocol

import (
	"errors"
	"fmt"

	"pokerroom/internal/engine"
)

// EventData is the wire form of the engine's event union. Type selects the
// variant; the other fields apply per the table below.
//
//	table             playerId, playerName, action (join|leave)
//	move              playerId, move
//	start, transition_phase, next_round, end_game, auto_restart  (no fields)
type EventData struct {
	Type       string    `json:"type"`
	PlayerID   string    `json:"playerId,omitempty"`
	PlayerName string    `json:"playerName,omitempty"`
	Action     string    `json:"action,omitempty"`
	Move       *MoveData `json:"move,omitempty"`
}

// MoveData is the wire form of the move union.
type MoveData struct {
	Type            string            `json:"type"`
	Amount          int               `json:"amount,omitempty"`
	DecisionContext map[string]string `json:"decisionContext,omitempty"`
}

// DecodeEvent turns the wire form into an engine event.
func (d EventData) DecodeEvent() (engine.Event, error) {
	switch d.Type {
	case "table":
		var action engine.TableAction
		switch d.Action {
		case "join":
			action = engine.TableJoin
		case "leave":
			action = engine.TableLeave
		default:
			return nil, fmt.Errorf("unknown table action %q", d.Action)
		}
		return engine.TableEvent{
			PlayerID:   d.PlayerID,
			PlayerName: d.PlayerName,
			Action:     action,
		}, nil

	case "move":
		if d.Move == nil {
			return nil, fmt.Errorf("move event without a move")
		}
		mv, err := d.Move.DecodeMove()
		if err != nil {
			return nil, err
		}
		return engine.MoveEvent{PlayerID: d.PlayerID, Move: mv}, nil

	case "start":
		return engine.SystemEvent{Kind: engine.SystemStart}, nil
	case "transition_phase":
		return engine.SystemEvent{Kind: engine.SystemTransitionPhase}, nil
	case "next_round":
		return engine.SystemEvent{Kind: engine.SystemNextRound}, nil
	case "end_game":
		return engine.SystemEvent{Kind: engine.SystemEndGame}, nil
	case "auto_restart":
		return engine.SystemEvent{Kind: engine.SystemAutoRestart}, nil

	default:
		return nil, fmt.Errorf("unknown event type %q", d.Type)
	}
}

// DecodeMove turns the wire form into an engine move.
func (d MoveData) DecodeMove() (engine.Move, error) {
	switch d.Type {
	case "fold":
		return engine.Fold{}, nil
	case "call":
		return engine.Call{}, nil
	case "all_in":
		return engine.AllIn{}, nil
	case "raise":
		return engine.Raise{Amount: d.Amount, DecisionContext: d.DecisionContext}, nil
	default:
		return nil, fmt.Errorf("unknown move type %q", d.Type)
	}
}

// EncodeEvent turns an engine event into its wire form.
func EncodeEvent(ev engine.Event) (EventData, error) {
	switch e := ev.(type) {
	case engine.TableEvent:
		return EventData{
			Type:       "table",
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Action:     e.Action.String(),
		}, nil
	case engine.MoveEvent:
		mv := EncodeMove(e.Move)
		return EventData{Type: "move", PlayerID: e.PlayerID, Move: &mv}, nil
	case engine.SystemEvent:
		return EventData{Type: e.Kind.String()}, nil
	default:
		return EventData{}, fmt.Errorf("unknown event %T", ev)
	}
}

// EncodeMove turns an engine move into its wire form.
func EncodeMove(mv engine.Move) MoveData {
	switch m := mv.(type) {
	case engine.Raise:
		return MoveData{Type: "raise", Amount: m.Amount, DecisionContext: m.DecisionContext}
	default:
		return MoveData{Type: mv.MoveType()}
	}
}

// ErrorCode maps an engine rejection onto its wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, engine.ErrTableLocked):
		return "table_locked"
	case errors.Is(err, engine.ErrGameAlreadyStarted):
		return "game_already_started"
	case errors.Is(err, engine.ErrInsufficientPlayers):
		return "insufficient_players"
	case errors.Is(err, engine.ErrGameNotOver):
		return "game_not_over"
	case errors.Is(err, engine.ErrUnknownPlayer):
		return "unknown_player"
	default:
		var illegal *engine.IllegalMoveError
		if errors.As(err, &illegal) {
			return "illegal_move"
		}
		var inconsistent *engine.InconsistentStateError
		if errors.As(err, &inconsistent) {
			return "inconsistent_state"
		}
		return "internal_error"
	}
}
