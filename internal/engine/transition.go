package engine

// TransitionPhase advances a settled street. When only one contender
// remains the hand short-circuits straight to showdown; otherwise the next
// street's cards are burnt and dealt and action re-opens behind the button.
func TransitionPhase(s State) (State, error) {
	if s.Status != TablePlaying {
		return s, &InconsistentStateError{Message: "transition_phase outside a round"}
	}
	if s.CurrentPlayer != -1 {
		return s, &InconsistentStateError{Message: "transition_phase with action pending"}
	}
	if s.Phase.Street == Showdown {
		return s, &InconsistentStateError{Message: "transition_phase after showdown"}
	}

	next := s.Clone()

	// Everyone else folded: no more cards, straight to settlement.
	if next.countNotFolded() <= 1 {
		next.Phase.Street = Showdown
		next.CurrentPlayer = -1
		return next, nil
	}

	switch next.Phase.Street {
	case PreFlop:
		if err := next.dealCommunity(3); err != nil {
			return s, err
		}
		next.Phase.Street = Flop
	case Flop:
		if err := next.dealCommunity(1); err != nil {
			return s, err
		}
		next.Phase.Street = Turn
	case Turn:
		if err := next.dealCommunity(1); err != nil {
			return s, err
		}
		next.Phase.Street = River
	case River:
		next.Phase.Street = Showdown
		next.CurrentPlayer = -1
		return next, nil
	}

	for i := range next.Players {
		p := &next.Players[i]
		if p.Status == StatusPlaying || p.Status == StatusAllIn {
			p.Bet.Phase = 0
			p.PlayedThisPhase = false
		}
	}
	next.Phase.ActionCount = 0
	next.Phase.Volume = 0
	// A new street starts a fresh raising war: the increment floor drops
	// back to the big blind.
	next.Round.LastRaise = next.Config.BigBlind

	// Post-flop action opens with the first live player after the button;
	// heads-up that is the big blind. With everyone all-in there is nobody
	// to act and the supervisor keeps transitioning.
	button := next.buttonSeat()
	if button == -1 {
		return s, &InconsistentStateError{Message: "button unseated mid-round"}
	}
	next.CurrentPlayer = next.seatAfter(button, func(p *Player) bool {
		return p.Status == StatusPlaying
	})
	// A lone live player with the pot already matched has no decision left.
	if next.CurrentPlayer != -1 {
		lone := true
		for i := range next.Players {
			if i != next.CurrentPlayer && next.Players[i].Status == StatusPlaying {
				lone = false
				break
			}
		}
		if lone && next.Players[next.CurrentPlayer].Bet.Round >= next.Round.CurrentBet {
			next.CurrentPlayer = -1
		}
	}
	return next, nil
}

// dealCommunity burns one card and deals n to the board.
func (s *State) dealCommunity(n int) error {
	if err := s.Deck.Burn(); err != nil {
		return &InconsistentStateError{Message: "deck exhausted on burn"}
	}
	cards, err := s.Deck.DrawN(n)
	if err != nil {
		return &InconsistentStateError{Message: "deck exhausted dealing community cards"}
	}
	s.Community = append(s.Community, cards...)
	return nil
}
