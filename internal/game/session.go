package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/evaluator"
)

// Phase is the stage of the current hand.
type Phase int

const (
	PhasePreFlop Phase = iota
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	switch p {
	case PhasePreFlop:
		return "pre-flop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	default:
		return "unknown"
	}
}

func phaseFromString(s string) (Phase, error) {
	for _, p := range []Phase{PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver, PhaseShowdown} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown game phase %q", s)
}

const (
	minPlayers = 2
	maxPlayers = 10
)

// Session runs a multi-hand no-limit hold'em game for two to ten players.
// It is a pure rules engine: callers drive it one action at a time on a
// single goroutine, observe state through Snapshot and the accessors, and
// receive notifications through the event bus. It never blocks waiting for
// input and performs no I/O of its own beyond logging.
type Session struct {
	players   []*Player
	community []deck.Card
	deck      *deck.Deck

	pot  int
	pots []Pot

	dealerButton    int
	smallBlindIndex int
	bigBlindIndex   int
	smallBlind      int
	bigBlind        int

	currentBet         int
	currentPlayerIndex int
	roundStart         int

	phase    Phase
	handNum  int
	handID   string
	handDone bool

	gameOver bool
	winner   *Player

	startingTotal int

	rng    *rand.Rand
	clock  quartz.Clock
	logger *log.Logger
	bus    EventBus
}

// New creates a session with playerCount seats, each stacked with
// startingChips. The player count is clamped to the supported 2..10 range.
func New(playerCount, smallBlind, bigBlind, startingChips int, opts ...Option) *Session {
	if playerCount < minPlayers {
		playerCount = minPlayers
	}
	if playerCount > maxPlayers {
		playerCount = maxPlayers
	}

	s := &Session{
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
	}
	for i := 0; i < playerCount; i++ {
		s.players = append(s.players, &Player{
			ID:    i,
			Name:  fmt.Sprintf("Player %d", i+1),
			Chips: startingChips,
		})
	}
	s.startingTotal = playerCount * startingChips

	for _, opt := range opts {
		opt(s)
	}
	s.fillDefaults()
	return s
}

// StartHand begins the next hand: busted players leave the table, the
// button advances, blinds are posted, and each remaining player receives
// two hole cards. Returns ErrHandInProgress if the current hand has not
// settled, and ErrGameOver once a single player holds all the chips.
func (s *Session) StartHand() error {
	if s.gameOver {
		return ErrGameOver
	}
	if s.handNum > 0 && !s.handDone {
		return ErrHandInProgress
	}

	if s.handNum == 0 {
		return s.startHand(s.rng.IntN(len(s.players)))
	}

	s.removeBustedPlayers()
	if len(s.players) == 1 {
		s.declareWinner(s.players[0])
		return ErrGameOver
	}
	return s.startHand((s.dealerButton + 1) % len(s.players))
}

// startHand deals a fresh hand with the button at the given seat.
func (s *Session) startHand(button int) error {
	s.dealerButton = button
	s.handNum++
	s.handID = uuid.NewString()
	s.handDone = false
	s.phase = PhasePreFlop
	s.community = nil
	s.pot = 0
	s.pots = nil
	s.currentBet = 0

	for _, p := range s.players {
		p.Hole = nil
		p.Bet = 0
		p.TotalBet = 0
		p.Folded = false
		p.Acted = false
		p.ShowHand = false
	}

	s.deck = deck.New(s.rng)
	s.deck.Shuffle()

	n := len(s.players)
	s.smallBlindIndex = (s.dealerButton + 1) % n
	s.bigBlindIndex = (s.dealerButton + 2) % n
	s.postBlind(s.players[s.smallBlindIndex], s.smallBlind)
	s.postBlind(s.players[s.bigBlindIndex], s.bigBlind)
	s.currentBet = s.bigBlind

	s.currentPlayerIndex = (s.bigBlindIndex + 1) % n
	s.roundStart = s.currentPlayerIndex

	if err := s.dealHoleCards(); err != nil {
		return err
	}

	s.logger.Info("hand started",
		"hand", s.handID,
		"num", s.handNum,
		"players", n,
		"button", s.dealerButton)
	s.bus.Publish(HandStartEvent{
		HandID:     s.handID,
		HandNum:    s.handNum,
		Button:     s.dealerButton,
		SmallBlind: s.smallBlind,
		BigBlind:   s.bigBlind,
		Players:    n,
		timestamp:  s.clock.Now(),
	})

	// Blinds can leave fewer than two players with chips behind; there is
	// no betting to be had, so the hand runs straight out.
	if s.countCanAct() < 2 {
		s.markAllActed()
		if s.roundOver() {
			return s.endStreet()
		}
	}
	return nil
}

// postBlind commits a forced bet, capped at the player's stack. A short
// blind is a forced all-in, never an error.
func (s *Session) postBlind(p *Player, amount int) {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet = amount
	p.TotalBet = amount
	p.Acted = true
	s.pot += amount
}

// dealHoleCards deals two passes of one card each, starting left of the
// button.
func (s *Session) dealHoleCards() error {
	n := len(s.players)
	for pass := 0; pass < 2; pass++ {
		for i := 0; i < n; i++ {
			p := s.players[(s.dealerButton+1+i)%n]
			c, err := s.deck.Draw()
			if err != nil {
				return err
			}
			p.Hole = append(p.Hole, c)
		}
	}
	return nil
}

// endStreet closes the current betting round. Side pots are rebuilt from
// each player's whole-hand commitment before any street bets are cleared,
// so layering established on earlier streets is never lost; the round state
// then resets and the next street's community cards are dealt, or the hand
// goes to showdown after the river.
func (s *Session) endStreet() error {
	s.pots = BuildSidePots(s.players, s.pot)

	for _, p := range s.players {
		p.Bet = 0
		p.Acted = p.Folded || p.Chips == 0
	}
	s.currentBet = 0

	n := len(s.players)
	for i := 1; i <= n; i++ {
		idx := (s.dealerButton + i) % n
		if s.players[idx].CanAct() {
			s.currentPlayerIndex = idx
			break
		}
	}
	s.roundStart = s.currentPlayerIndex

	switch s.phase {
	case PhasePreFlop:
		s.phase = PhaseFlop
		if err := s.dealCommunity(3); err != nil {
			return err
		}
	case PhaseFlop:
		s.phase = PhaseTurn
		if err := s.dealCommunity(1); err != nil {
			return err
		}
	case PhaseTurn:
		s.phase = PhaseRiver
		if err := s.dealCommunity(1); err != nil {
			return err
		}
	case PhaseRiver:
		s.showdown()
		return nil
	default:
		return nil
	}

	s.logger.Debug("street dealt", "hand", s.handID, "phase", s.phase.String(), "board", len(s.community))
	s.bus.Publish(StreetChangeEvent{
		Phase:          s.phase,
		CommunityCards: s.communityCopy(),
		timestamp:      s.clock.Now(),
	})

	if s.countCanAct() < 2 {
		s.markAllActed()
	}
	if s.roundOver() {
		return s.endStreet()
	}
	return nil
}

func (s *Session) dealCommunity(count int) error {
	cards, err := s.deck.DrawN(count)
	if err != nil {
		return err
	}
	s.community = append(s.community, cards...)
	return nil
}

// settleEarly ends the hand when folding leaves a single contender. The
// pot, including the current street's uncollected bets, goes to them
// without any cards being shown.
func (s *Session) settleEarly() error {
	s.pots = BuildSidePots(s.players, s.pot)

	var winner *Player
	for _, p := range s.players {
		if !p.Folded {
			winner = p
			break
		}
	}

	awards := make([]PotAward, 0, len(s.pots))
	for i, pot := range s.pots {
		winner.Chips += pot.Amount
		award := PotAward{
			PotIndex: i,
			Amount:   pot.Amount,
			Winners: []PotWinner{{
				PlayerID:   winner.ID,
				PlayerName: winner.Name,
				Share:      pot.Amount,
			}},
		}
		awards = append(awards, award)
		s.bus.Publish(PotAwardedEvent{HandID: s.handID, Award: award, timestamp: s.clock.Now()})
	}

	s.finishHand(false, awards)
	return nil
}

// showdown settles the hand pot by pot. Pots are resolved in build order,
// main pot first; ties split evenly with any odd chip going to the tied
// winner closest to the dealer's left.
func (s *Session) showdown() {
	s.phase = PhaseShowdown

	results := make(map[int]evaluator.Result)
	for _, p := range s.players {
		if p.Folded {
			continue
		}
		p.ShowHand = true
		results[p.ID] = evaluator.Evaluate(p.Hole, s.community)
	}

	byID := make(map[int]*Player, len(s.players))
	for _, p := range s.players {
		byID[p.ID] = p
	}

	awards := make([]PotAward, 0, len(s.pots))
	for i, pot := range s.pots {
		var contenders []*Player
		for _, id := range pot.Eligible {
			if p := byID[id]; p != nil && !p.Folded {
				contenders = append(contenders, p)
			}
		}
		if len(contenders) == 0 {
			continue
		}

		winners := []*Player{contenders[0]}
		for _, p := range contenders[1:] {
			switch evaluator.Compare(results[p.ID], results[winners[0].ID]) {
			case 1:
				winners = []*Player{p}
			case 0:
				winners = append(winners, p)
			}
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		potWinners := make([]PotWinner, 0, len(winners))
		for _, w := range winners {
			amount := share
			if remainder > 0 && w == s.firstFromButton(winners) {
				amount += remainder
			}
			w.Chips += amount
			potWinners = append(potWinners, PotWinner{
				PlayerID:   w.ID,
				PlayerName: w.Name,
				Share:      amount,
				Category:   results[w.ID].Category.String(),
			})
		}

		award := PotAward{PotIndex: i, Amount: pot.Amount, Winners: potWinners}
		awards = append(awards, award)
		s.logger.Info("pot awarded",
			"hand", s.handID,
			"pot", i,
			"amount", pot.Amount,
			"winners", len(winners))
		s.bus.Publish(PotAwardedEvent{HandID: s.handID, Award: award, timestamp: s.clock.Now()})
	}

	s.finishHand(true, awards)
}

// firstFromButton returns the candidate seated closest to the dealer's
// left, scanning clockwise from the button.
func (s *Session) firstFromButton(candidates []*Player) *Player {
	n := len(s.players)
	for i := 1; i <= n; i++ {
		p := s.players[(s.dealerButton+i)%n]
		for _, c := range candidates {
			if c == p {
				return p
			}
		}
	}
	return candidates[0]
}

func (s *Session) finishHand(showdown bool, awards []PotAward) {
	total := 0
	for _, p := range s.players {
		total += p.Chips
	}
	if total != s.startingTotal {
		s.logger.Error("chip total drifted",
			"hand", s.handID,
			"expected", s.startingTotal,
			"actual", total)
	}

	potSize := s.pot
	s.pot = 0
	s.pots = nil
	s.handDone = true

	s.bus.Publish(HandEndEvent{
		HandID:     s.handID,
		Showdown:   showdown,
		PotSize:    potSize,
		Awards:     awards,
		FinalBoard: s.communityCopy(),
		timestamp:  s.clock.Now(),
	})
}

// removeBustedPlayers drops zero-chip players and renumbers the survivors
// so seat IDs stay sequential.
func (s *Session) removeBustedPlayers() {
	kept := s.players[:0]
	for _, p := range s.players {
		if p.Chips > 0 {
			kept = append(kept, p)
		} else {
			s.logger.Info("player eliminated", "player", p.Name)
		}
	}
	s.players = kept
	for i, p := range s.players {
		p.ID = i
	}
}

func (s *Session) declareWinner(p *Player) {
	s.gameOver = true
	s.winner = p
	s.logger.Info("game over", "winner", p.Name, "chips", p.Chips)
	s.bus.Publish(GameEndEvent{
		WinnerID:   p.ID,
		WinnerName: p.Name,
		Chips:      p.Chips,
		timestamp:  s.clock.Now(),
	})
}

func (s *Session) countCanAct() int {
	n := 0
	for _, p := range s.players {
		if p.CanAct() {
			n++
		}
	}
	return n
}

func (s *Session) markAllActed() {
	for _, p := range s.players {
		p.Acted = true
	}
}

func (s *Session) communityCopy() []deck.Card {
	out := make([]deck.Card, len(s.community))
	copy(out, s.community)
	return out
}

// Players returns a copy of the seated players in seat order.
func (s *Session) Players() []Player {
	out := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		cp := *p
		cp.Hole = append([]deck.Card(nil), p.Hole...)
		out = append(out, cp)
	}
	return out
}

// Community returns a copy of the community cards dealt so far.
func (s *Session) Community() []deck.Card { return s.communityCopy() }

// Pot returns the total chips committed to the current hand.
func (s *Session) Pot() int { return s.pot }

// Pots returns the pot breakdown from the most recent side-pot build.
func (s *Session) Pots() []Pot {
	out := make([]Pot, 0, len(s.pots))
	for _, p := range s.pots {
		out = append(out, Pot{Amount: p.Amount, Eligible: append([]int(nil), p.Eligible...)})
	}
	return out
}

// Phase returns the current hand phase.
func (s *Session) Phase() Phase { return s.phase }

// DealerButton returns the seat index holding the button.
func (s *Session) DealerButton() int { return s.dealerButton }

// CurrentBet returns the bet level players must match this round.
func (s *Session) CurrentBet() int { return s.currentBet }

// HandNumber returns the number of hands started, including the current
// one. Zero before the first StartHand.
func (s *Session) HandNumber() int { return s.handNum }

// HandID returns the unique identifier of the current hand.
func (s *Session) HandID() string { return s.handID }

// HandDone reports whether the current hand has been settled.
func (s *Session) HandDone() bool { return s.handDone }

// GameOver reports whether a single player holds all the chips.
func (s *Session) GameOver() bool { return s.gameOver }

// Winner returns the game winner once the game is over.
func (s *Session) Winner() (Player, bool) {
	if s.winner == nil {
		return Player{}, false
	}
	return *s.winner, true
}

// CurrentPlayer returns a copy of the player due to act, or false when no
// action is pending.
func (s *Session) CurrentPlayer() (Player, bool) {
	p := s.current()
	if p == nil {
		return Player{}, false
	}
	cp := *p
	cp.Hole = append([]deck.Card(nil), p.Hole...)
	return cp, true
}

// Events returns the session's event bus for subscribing.
func (s *Session) Events() EventBus { return s.bus }
