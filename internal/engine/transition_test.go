package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callAround has every pending player call until the street settles.
func callAround(t *testing.T, s State) State {
	t.Helper()
	for s.CurrentPlayer != -1 {
		s = mustMove(t, s, actingID(s), Call{})
	}
	return s
}

func TestTransitionDealsStreets(t *testing.T) {
	s := callAround(t, startRound(t, newTable(t, 3), 1))

	s, err := TransitionPhase(s)
	require.NoError(t, err)
	assert.Equal(t, Flop, s.Phase.Street)
	assert.Len(t, s.Community, 3)
	assert.Len(t, s.Deck.Burnt(), 1)

	s = callAround(t, s)
	s, err = TransitionPhase(s)
	require.NoError(t, err)
	assert.Equal(t, Turn, s.Phase.Street)
	assert.Len(t, s.Community, 4)
	assert.Len(t, s.Deck.Burnt(), 2)

	s = callAround(t, s)
	s, err = TransitionPhase(s)
	require.NoError(t, err)
	assert.Equal(t, River, s.Phase.Street)
	assert.Len(t, s.Community, 5)
	assert.Len(t, s.Deck.Burnt(), 3)

	s = callAround(t, s)
	s, err = TransitionPhase(s)
	require.NoError(t, err)
	assert.Equal(t, Showdown, s.Phase.Street)
	assert.Len(t, s.Community, 5, "no cards dealt entering showdown")
}

func TestTransitionResetsStreetState(t *testing.T) {
	s := startRound(t, newTable(t, 3), 1)
	s = mustMove(t, s, "p1", Raise{Amount: 60})
	s = callAround(t, s)
	require.Equal(t, 180, s.Round.Volume)

	s, err := TransitionPhase(s)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Phase.ActionCount)
	assert.Equal(t, 0, s.Phase.Volume)
	// Round-level bookkeeping survives the street change.
	assert.Equal(t, 60, s.Round.CurrentBet)
	assert.Equal(t, 180, s.Round.Volume)
	for i := range s.Players {
		assert.Equal(t, 0, s.Players[i].Bet.Phase)
		assert.Equal(t, 60, s.Players[i].Bet.Round)
		assert.False(t, s.Players[i].PlayedThisPhase)
	}
}

func TestPostFlopActionStartsAfterButton(t *testing.T) {
	t.Run("multiway the small blind opens", func(t *testing.T) {
		s := callAround(t, startRound(t, newTable(t, 3), 1))
		s, err := TransitionPhase(s)
		require.NoError(t, err)
		assert.Equal(t, "p2", actingID(s))
	})

	t.Run("heads-up the big blind opens", func(t *testing.T) {
		s := callAround(t, startRound(t, newTable(t, 2), 1))
		s, err := TransitionPhase(s)
		require.NoError(t, err)
		assert.Equal(t, "p2", actingID(s))
	})
}

func TestTransitionRejectsPendingAction(t *testing.T) {
	s := startRound(t, newTable(t, 3), 1)
	_, err := TransitionPhase(s)

	var inconsistent *InconsistentStateError
	assert.ErrorAs(t, err, &inconsistent)
}

func TestFoldOutSkipsRemainingStreets(t *testing.T) {
	s := startRound(t, newTable(t, 3), 1)
	s = mustMove(t, s, "p1", Fold{})
	s = mustMove(t, s, "p2", Fold{})
	require.Equal(t, -1, s.CurrentPlayer)

	s = settleStreets(t, s)

	assert.Equal(t, TableRoundOver, s.Status)
	assert.Empty(t, s.Community, "no community cards on a pre-flop fold out")
	require.NotNil(t, s.LastRoundResult)
	assert.Equal(t, []string{"p3"}, s.LastRoundResult.WinnerIDs)
	assert.Equal(t, 30, s.LastRoundResult.Pot)
	assert.Empty(t, s.LastRoundResult.RevealedHands, "uncontested wins reveal nothing")
	assert.Equal(t, 510, player(t, s, "p3").Chips)
}

func TestAllInRunoutDealsEveryStreet(t *testing.T) {
	s := startRound(t, newTable(t, 2), 1)
	s = mustMove(t, s, "p1", AllIn{})
	s = mustMove(t, s, "p2", Call{})
	require.Equal(t, -1, s.CurrentPlayer)

	s = settleStreets(t, s)

	assert.Len(t, s.Community, 5, "board runs out with everyone all-in")
	require.NotNil(t, s.LastRoundResult)
	assert.Equal(t, 1000, s.LastRoundResult.Pot)

	total := 0
	for i := range s.Players {
		total += s.Players[i].Chips
	}
	assert.Equal(t, 1000, total, "chips conserved through the runout")
	assert.Contains(t, []TableStatus{TableRoundOver, TableGameOver}, s.Status)
}
