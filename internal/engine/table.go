package engine

// JoinTable seats a new player. Only possible while the table is waiting;
// once cards are in the air the table is locked.
func JoinTable(s State, playerID, playerName string) (State, error) {
	if s.Status != TableWaiting {
		return s, ErrTableLocked
	}
	if s.Config.MaxPlayers > 0 && len(s.Players) >= s.Config.MaxPlayers {
		return s, ErrTableLocked
	}
	if s.PlayerIndex(playerID) != -1 {
		return s, &IllegalMoveError{Reason: "already_seated"}
	}

	next := s.Clone()
	next.Players = append(next.Players, Player{
		ID:     playerID,
		Name:   playerName,
		Status: StatusPlaying,
		Chips:  next.Config.StartingChips,
	})
	return next, nil
}

// LeaveTable removes a seated player. Like joining, only while waiting.
func LeaveTable(s State, playerID string) (State, error) {
	if s.Status != TableWaiting {
		return s, ErrTableLocked
	}
	seat := s.PlayerIndex(playerID)
	if seat == -1 {
		return s, ErrUnknownPlayer
	}

	next := s.Clone()
	next.Players = append(next.Players[:seat], next.Players[seat+1:]...)
	return next, nil
}
