package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokerroom/internal/engine"
)

func TestDecodeTableEvent(t *testing.T) {
	var data EventData
	require.NoError(t, json.Unmarshal([]byte(
		`{"type":"table","playerId":"p1","playerName":"alice","action":"join"}`), &data))

	ev, err := data.DecodeEvent()
	require.NoError(t, err)

	table, ok := ev.(engine.TableEvent)
	require.True(t, ok)
	assert.Equal(t, "p1", table.PlayerID)
	assert.Equal(t, "alice", table.PlayerName)
	assert.Equal(t, engine.TableJoin, table.Action)
	assert.Equal(t, "table:join", ev.EventType())
}

func TestDecodeMoveEvents(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantType string
	}{
		{"fold", `{"type":"move","playerId":"p1","move":{"type":"fold"}}`, "move:fold"},
		{"call", `{"type":"move","playerId":"p1","move":{"type":"call"}}`, "move:call"},
		{"all in", `{"type":"move","playerId":"p1","move":{"type":"all_in"}}`, "move:all_in"},
		{"raise", `{"type":"move","playerId":"p1","move":{"type":"raise","amount":60}}`, "move:raise"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data EventData
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &data))
			ev, err := data.DecodeEvent()
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, ev.EventType())
		})
	}
}

func TestDecodeRaiseCarriesContext(t *testing.T) {
	var data EventData
	require.NoError(t, json.Unmarshal([]byte(
		`{"type":"move","playerId":"p1","move":{"type":"raise","amount":80,"decisionContext":{"reason":"bluff"}}}`), &data))

	ev, err := data.DecodeEvent()
	require.NoError(t, err)
	raise := ev.(engine.MoveEvent).Move.(engine.Raise)
	assert.Equal(t, 80, raise.Amount)
	assert.Equal(t, "bluff", raise.DecisionContext["reason"])
}

func TestDecodeSystemEvents(t *testing.T) {
	for _, typ := range []string{"start", "transition_phase", "next_round", "end_game", "auto_restart"} {
		ev, err := EventData{Type: typ}.DecodeEvent()
		require.NoError(t, err, typ)
		assert.Equal(t, typ, ev.EventType())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := EventData{Type: "dance"}.DecodeEvent()
	assert.Error(t, err)

	_, err = EventData{Type: "table", Action: "lurk"}.DecodeEvent()
	assert.Error(t, err)

	_, err = EventData{Type: "move", PlayerID: "p1"}.DecodeEvent()
	assert.Error(t, err, "move event without a move body")

	_, err = EventData{Type: "move", PlayerID: "p1", Move: &MoveData{Type: "yolo"}}.DecodeEvent()
	assert.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	events := []engine.Event{
		engine.TableEvent{PlayerID: "p1", PlayerName: "alice", Action: engine.TableJoin},
		engine.TableEvent{PlayerID: "p1", Action: engine.TableLeave},
		engine.MoveEvent{PlayerID: "p2", Move: engine.Fold{}},
		engine.MoveEvent{PlayerID: "p2", Move: engine.Raise{Amount: 120}},
		engine.SystemEvent{Kind: engine.SystemStart},
	}
	for _, ev := range events {
		data, err := EncodeEvent(ev)
		require.NoError(t, err)
		back, err := data.DecodeEvent()
		require.NoError(t, err)
		assert.Equal(t, ev, back)
	}
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, "not_your_turn", ErrorCode(engine.ErrNotYourTurn))
	assert.Equal(t, "table_locked", ErrorCode(engine.ErrTableLocked))
	assert.Equal(t, "game_already_started", ErrorCode(engine.ErrGameAlreadyStarted))
	assert.Equal(t, "insufficient_players", ErrorCode(engine.ErrInsufficientPlayers))
	assert.Equal(t, "game_not_over", ErrorCode(engine.ErrGameNotOver))
	assert.Equal(t, "illegal_move", ErrorCode(&engine.IllegalMoveError{Reason: "undersized_raise"}))
	assert.Equal(t, "inconsistent_state", ErrorCode(&engine.InconsistentStateError{Message: "boom"}))
}

func TestMoveRecordMarshalsTagged(t *testing.T) {
	rec := engine.MoveRecord{PlayerID: "p1", Move: engine.Raise{Amount: 60}}
	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"playerId":"p1","move":{"type":"raise","amount":60}}`, string(raw))

	rec = engine.MoveRecord{PlayerID: "p2", Move: engine.Fold{}}
	raw, err = json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"playerId":"p2","move":{"type":"fold"}}`, string(raw))
}
