package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrEmptyDeck is returned when drawing from an exhausted deck. In a normal
// 2-10 player hand at most 25 cards are consumed, so hitting this indicates
// a bug in the caller rather than a reachable game state.
var ErrEmptyDeck = errors.New("deck: no cards remaining")

// Deck represents an ordered deck of playing cards consumed from one end.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a standard 52-card deck in suit/rank order. The caller provides
// the random source so shuffles are reproducible under test.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	return d
}

// FromCards rebuilds a (possibly partially consumed) deck from an explicit
// card sequence. Used when restoring a snapshot mid-hand.
func FromCards(cards []Card, rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, len(cards)),
		rng:   rng,
	}
	copy(d.cards, cards)
	return d
}

// Shuffle performs an in-place Fisher-Yates permutation of the deck.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the last card of the deck.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// DrawN draws n cards. The draw is all-or-nothing: if fewer than n cards
// remain no card is consumed.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrEmptyDeck
	}
	cards := make([]Card, n)
	for i := 0; i < n; i++ {
		cards[i], _ = d.Draw()
	}
	return cards, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards in order. Used by snapshots.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
