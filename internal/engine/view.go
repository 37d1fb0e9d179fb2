package engine

import (
	"pokerroom/internal/deck"
)

// OpponentView is what a player may see of another seat: never the hole
// cards, unless a contested showdown revealed them.
type OpponentView struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Status Status      `json:"status"`
	Chips  int         `json:"chips"`
	Bet    Bet         `json:"bet"`
	Hand   []deck.Card `json:"hand,omitempty"`
}

// PlayerView is the projection of the table state for one player.
type PlayerView struct {
	PlayerID        string         `json:"playerId"`
	Name            string         `json:"name"`
	Hand            []deck.Card    `json:"hand,omitempty"`
	Self            Player         `json:"self"`
	TableStatus     TableStatus    `json:"tableStatus"`
	CurrentPlayerID string         `json:"currentPlayerId,omitempty"`
	DealerID        string         `json:"dealerId,omitempty"`
	SmallBlindID    string         `json:"smallBlindId,omitempty"`
	BigBlindID      string         `json:"bigBlindId,omitempty"`
	Community       []deck.Card    `json:"communityCards"`
	Pot             int            `json:"pot"`
	Phase           Phase          `json:"phase"`
	Round           Round          `json:"round"`
	Opponents       []OpponentView `json:"opponents"`
	LastMove        *MoveRecord    `json:"lastMove,omitempty"`
	LastRoundResult *RoundResult   `json:"lastRoundResult,omitempty"`
	Winner          string         `json:"winner,omitempty"`
}

// View builds the per-player projection. Opponent hands stay hidden unless
// the round reached a contested showdown that revealed them.
func View(s State, playerID string) (PlayerView, error) {
	seat := s.PlayerIndex(playerID)
	if seat == -1 {
		return PlayerView{}, ErrUnknownPlayer
	}
	self := s.Players[seat]

	view := PlayerView{
		PlayerID:        self.ID,
		Name:            self.Name,
		Hand:            append([]deck.Card(nil), self.Hand...),
		Self:            self,
		TableStatus:     s.Status,
		DealerID:        s.DealerID,
		Community:       append([]deck.Card(nil), s.Community...),
		Pot:             s.Round.Volume,
		Phase:           s.Phase,
		Round:           s.Round,
		LastMove:        s.LastMove,
		LastRoundResult: s.LastRoundResult,
		Winner:          s.Winner,
	}
	if actor := s.ActingPlayer(); actor != nil {
		view.CurrentPlayerID = actor.ID
	}
	if sb := s.positionSeat(SmallBlind); sb != -1 {
		view.SmallBlindID = s.Players[sb].ID
	}
	if bb := s.positionSeat(BigBlind); bb != -1 {
		view.BigBlindID = s.Players[bb].ID
	}

	view.Opponents = make([]OpponentView, 0, len(s.Players)-1)
	for i := range s.Players {
		if i == seat {
			continue
		}
		view.Opponents = append(view.Opponents, opponentView(&s, &s.Players[i]))
	}
	return view, nil
}

// PublicView is the observer projection: every seat rendered as an
// opponent, no hole cards anywhere short of a revealed showdown.
type PublicView struct {
	TableID         string         `json:"tableId"`
	TableStatus     TableStatus    `json:"tableStatus"`
	CurrentPlayerID string         `json:"currentPlayerId,omitempty"`
	DealerID        string         `json:"dealerId,omitempty"`
	Community       []deck.Card    `json:"communityCards"`
	Pot             int            `json:"pot"`
	Phase           Phase          `json:"phase"`
	Round           Round          `json:"round"`
	Players         []OpponentView `json:"players"`
	LastMove        *MoveRecord    `json:"lastMove,omitempty"`
	LastRoundResult *RoundResult   `json:"lastRoundResult,omitempty"`
	Winner          string         `json:"winner,omitempty"`
}

// Public builds the spectator projection of the state.
func Public(s State) PublicView {
	view := PublicView{
		TableID:         s.TableID,
		TableStatus:     s.Status,
		DealerID:        s.DealerID,
		Community:       append([]deck.Card(nil), s.Community...),
		Pot:             s.Round.Volume,
		Phase:           s.Phase,
		Round:           s.Round,
		LastMove:        s.LastMove,
		LastRoundResult: s.LastRoundResult,
		Winner:          s.Winner,
	}
	if actor := s.ActingPlayer(); actor != nil {
		view.CurrentPlayerID = actor.ID
	}
	view.Players = make([]OpponentView, 0, len(s.Players))
	for i := range s.Players {
		view.Players = append(view.Players, opponentView(&s, &s.Players[i]))
	}
	return view
}

func opponentView(s *State, p *Player) OpponentView {
	view := OpponentView{
		ID:     p.ID,
		Name:   p.Name,
		Status: p.Status,
		Chips:  p.Chips,
		Bet:    p.Bet,
	}
	if s.Phase.Street == Showdown && s.LastRoundResult != nil {
		if hand, ok := s.LastRoundResult.RevealedHands[p.ID]; ok {
			view.Hand = append([]deck.Card(nil), hand...)
		}
	}
	return view
}
