package game

import "github.com/cardroom/holdem/internal/deck"

// Player represents a seated player. ID is the seat index; it is stable for
// the duration of a hand and reassigned sequentially when busted players are
// removed between hands.
type Player struct {
	ID    int         `json:"id"`
	Name  string      `json:"name"`
	Chips int         `json:"chips"`
	Hole  []deck.Card `json:"hand"`

	// Bet is the amount committed in the current betting round only; it is
	// reset at the start of every street. TotalBet accumulates across the
	// whole hand and drives side-pot layering.
	Bet      int  `json:"bet"`
	TotalBet int  `json:"totalBet"`
	Folded   bool `json:"folded"`
	Acted    bool `json:"hasActedInRound"`

	// ShowHand is display-only state for the presentation layer.
	ShowHand bool `json:"showHand"`
}

// AllIn reports whether the player has committed their entire stack.
func (p *Player) AllIn() bool {
	return p.Chips == 0
}

// CanAct reports whether the player can still take betting actions.
func (p *Player) CanAct() bool {
	return !p.Folded && p.Chips > 0
}
