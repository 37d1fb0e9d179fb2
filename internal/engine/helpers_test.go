package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"pokerroom/internal/randutil"
)

func testConfig() Config {
	return Config{
		StartingChips: 500,
		SmallBlind:    10,
		BigBlind:      20,
		MinPlayers:    2,
		MaxPlayers:    6,
	}
}

// newTable seats n players p1..pn on a waiting table.
func newTable(t *testing.T, n int) State {
	t.Helper()
	s := NewState("t1", testConfig())
	for i := 1; i <= n; i++ {
		var err error
		s, err = JoinTable(s, fmt.Sprintf("p%d", i), fmt.Sprintf("player-%d", i))
		require.NoError(t, err)
	}
	return s
}

// startRound runs the deal / rotate / collect chain with a seeded deck.
func startRound(t *testing.T, s State, seed int64) State {
	t.Helper()
	s, err := DealCards(s, randutil.New(seed))
	require.NoError(t, err)
	s, err = RotateBlinds(s)
	require.NoError(t, err)
	s, err = CollectBlinds(s)
	require.NoError(t, err)
	require.NoError(t, CheckInvariants(s))
	return s
}

// mustMove applies a move and asserts it was legal.
func mustMove(t *testing.T, s State, playerID string, mv Move) State {
	t.Helper()
	next, err := ProcessMove(s, playerID, mv)
	require.NoError(t, err)
	require.NoError(t, CheckInvariants(next))
	return next
}

// settleStreets applies automatic transitions until action is pending or
// the round closed, mirroring the supervisor's outer loop.
func settleStreets(t *testing.T, s State) State {
	t.Helper()
	for s.Status == TablePlaying && s.CurrentPlayer == -1 {
		var err error
		if s.Phase.Street == Showdown {
			s, err = CloseRound(s)
		} else {
			s, err = TransitionPhase(s)
		}
		require.NoError(t, err)
	}
	return s
}

func player(t *testing.T, s State, id string) *Player {
	t.Helper()
	seat := s.PlayerIndex(id)
	require.NotEqual(t, -1, seat, "player %s not seated", id)
	return &s.Players[seat]
}

func actingID(s State) string {
	if actor := s.ActingPlayer(); actor != nil {
		return actor.ID
	}
	return ""
}
