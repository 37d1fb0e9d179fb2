package engine

import "fmt"

// CheckInvariants verifies the structural invariants that must hold after
// every committed transition. A failure means a reducer bug, not bad input;
// the supervisor latches the room corrupt when it sees one.
func CheckInvariants(s State) error {
	if s.CurrentPlayer < -1 || s.CurrentPlayer >= len(s.Players) {
		return &InconsistentStateError{
			Message: fmt.Sprintf("currentPlayerIndex %d out of range", s.CurrentPlayer),
		}
	}
	if actor := s.ActingPlayer(); actor != nil {
		if actor.Status != StatusPlaying {
			return &InconsistentStateError{
				Message: fmt.Sprintf("acting player %s has status %s", actor.ID, actor.Status),
			}
		}
		if actor.PlayedThisPhase && actor.Bet.Round >= s.Round.CurrentBet {
			return &InconsistentStateError{
				Message: fmt.Sprintf("acting player %s owes no action", actor.ID),
			}
		}
	}

	maxBet := 0
	for i := range s.Players {
		p := &s.Players[i]
		if p.Chips < 0 {
			return &InconsistentStateError{Message: fmt.Sprintf("player %s has negative chips", p.ID)}
		}
		if p.Bet.Phase > p.Bet.Round {
			return &InconsistentStateError{Message: fmt.Sprintf("player %s phase bet exceeds round bet", p.ID)}
		}
		if p.Bet.Round > maxBet {
			maxBet = p.Bet.Round
		}
	}
	if s.Status == TablePlaying && s.Round.CurrentBet < maxBet {
		return &InconsistentStateError{
			Message: fmt.Sprintf("currentBet %d below max round bet %d", s.Round.CurrentBet, maxBet),
		}
	}

	if s.Status == TablePlaying {
		if err := checkCardConservation(s); err != nil {
			return err
		}
		total := s.Round.Volume
		for i := range s.Players {
			if s.Players[i].Status != StatusEliminated {
				total += s.Players[i].Chips
			}
		}
		if total != s.Round.StartChips {
			return &InconsistentStateError{
				Message: fmt.Sprintf("chips not conserved: %d on table, round started with %d", total, s.Round.StartChips),
			}
		}
	}
	return nil
}

// checkCardConservation asserts deck + community + burnt + hands is a
// 52-card permutation.
func checkCardConservation(s State) error {
	if s.Deck == nil {
		return &InconsistentStateError{Message: "playing without a deck"}
	}
	count := s.Deck.Remaining() + len(s.Deck.Burnt()) + len(s.Community)
	seen := map[string]bool{}
	for _, c := range s.Community {
		seen[c.String()] = true
	}
	for _, c := range s.Deck.Burnt() {
		seen[c.String()] = true
	}
	for i := range s.Players {
		for _, c := range s.Players[i].Hand {
			seen[c.String()] = true
		}
		count += len(s.Players[i].Hand)
	}
	if count != 52 {
		return &InconsistentStateError{Message: fmt.Sprintf("card count %d != 52", count)}
	}
	if len(seen) != 52-s.Deck.Remaining() {
		return &InconsistentStateError{Message: "duplicate cards in play"}
	}
	return nil
}
