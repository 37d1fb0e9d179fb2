package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrUnderflow is returned when more cards are requested than the deck
// holds. A correctly driven hold'em round never draws past 52 cards, so
// seeing this error means the caller's bookkeeping is broken.
var ErrUnderflow = errors.New("deck underflow")

// Deck is a shuffled stack of playing cards. Draws and burns come off the
// top; burnt cards are kept so callers can account for the full 52.
type Deck struct {
	cards []Card
	burnt []Card
}

// New creates a standard 52-card deck shuffled with the provided RNG.
func New(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Ace; rank <= King; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	d.shuffle(rng)
	return d
}

// shuffle performs a Fisher-Yates shuffle.
func (d *Deck) shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrUnderflow
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DrawN removes and returns the top n cards.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrUnderflow
	}
	cards := make([]Card, n)
	for i := range cards {
		card, err := d.Draw()
		if err != nil {
			return nil, err
		}
		cards[i] = card
	}
	return cards, nil
}

// Burn removes the top card and sets it aside.
func (d *Deck) Burn() error {
	card, err := d.Draw()
	if err != nil {
		return err
	}
	d.burnt = append(d.burnt, card)
	return nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Burnt returns the cards burnt so far, in burn order.
func (d *Deck) Burnt() []Card {
	return d.burnt
}

// Clone returns an independent copy of the deck.
func (d *Deck) Clone() *Deck {
	c := &Deck{
		cards: make([]Card, len(d.cards)),
		burnt: make([]Card, len(d.burnt)),
	}
	copy(c.cards, d.cards)
	copy(c.burnt, d.burnt)
	return c
}
