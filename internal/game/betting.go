package game

import "fmt"

// ActionKind is a betting action a player can take.
type ActionKind int

const (
	ActionFold ActionKind = iota
	ActionCheck
	ActionCall
	ActionRaise
)

func (a ActionKind) String() string {
	switch a {
	case ActionFold:
		return "fold"
	case ActionCheck:
		return "check"
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	default:
		return "unknown"
	}
}

// LegalAction is an affordance for the current player, with the call amount
// filled in for ActionCall so the presentation layer can label its controls.
type LegalAction struct {
	Kind       ActionKind
	CallAmount int
}

// LegalActions returns the actions available to the current player. Empty
// when no player is due to act.
func (s *Session) LegalActions() []LegalAction {
	p := s.current()
	if p == nil {
		return nil
	}
	actions := []LegalAction{{Kind: ActionFold}}
	if p.Bet == s.currentBet {
		actions = append(actions, LegalAction{Kind: ActionCheck})
	} else {
		toCall := s.currentBet - p.Bet
		if toCall > p.Chips {
			toCall = p.Chips
		}
		actions = append(actions, LegalAction{Kind: ActionCall, CallAmount: toCall})
	}
	if p.Chips > 0 {
		actions = append(actions, LegalAction{Kind: ActionRaise})
	}
	return actions
}

// Fold folds the current player. If that leaves a single contender the hand
// settles immediately without dealing the remaining streets.
func (s *Session) Fold() error {
	p, err := s.actionable()
	if err != nil {
		return err
	}
	p.Folded = true
	p.Acted = true
	s.publishAction(p, ActionFold, 0)

	if s.countNotFolded() == 1 {
		return s.settleEarly()
	}
	return s.advanceTurn()
}

// Check passes the action without betting. Legal only when the player's bet
// already matches the current bet level.
func (s *Session) Check() error {
	p, err := s.actionable()
	if err != nil {
		return err
	}
	if p.Bet != s.currentBet {
		return &IllegalActionError{
			Action: "check",
			Reason: fmt.Sprintf("facing a bet, must call %d or raise", s.currentBet-p.Bet),
		}
	}
	p.Acted = true
	s.publishAction(p, ActionCheck, 0)
	return s.advanceTurn()
}

// Call matches the current bet. A short stack is never an error: the call is
// capped at the player's chips and becomes an all-in, and the side pots are
// recomputed around the new commitment level.
func (s *Session) Call() error {
	p, err := s.actionable()
	if err != nil {
		return err
	}
	pay := s.currentBet - p.Bet
	if pay > p.Chips {
		pay = p.Chips
	}
	p.Chips -= pay
	p.Bet += pay
	p.TotalBet += pay
	s.pot += pay
	p.Acted = true
	if p.AllIn() {
		s.pots = BuildSidePots(s.players, s.pot)
	}
	s.publishAction(p, ActionCall, pay)
	return s.advanceTurn()
}

// Raise increases the bet level by amount above the current bet; the
// required outlay is the call amount plus the raise. A short stack goes
// all-in for everything instead, and if that all-in still tops the current
// bet it becomes the new level. Every successful raise re-opens the action
// for the other players who can still act.
func (s *Session) Raise(amount int) error {
	p, err := s.actionable()
	if err != nil {
		return err
	}
	if amount <= 0 {
		return &IllegalActionError{
			Action: "raise",
			Reason: "raise amount must be a positive number of chips",
		}
	}

	outlay := (s.currentBet - p.Bet) + amount
	if outlay > p.Chips {
		// All-in for the whole stack
		pay := p.Chips
		p.Chips = 0
		p.Bet += pay
		p.TotalBet += pay
		s.pot += pay
		p.Acted = true
		if p.Bet > s.currentBet {
			s.currentBet = p.Bet
			s.reopenAction(p)
		}
		s.pots = BuildSidePots(s.players, s.pot)
		s.publishAction(p, ActionRaise, pay)
		return s.advanceTurn()
	}

	p.Chips -= outlay
	p.Bet = s.currentBet + amount
	p.TotalBet += outlay
	s.pot += outlay
	s.currentBet = p.Bet
	s.reopenAction(p)
	p.Acted = true
	if p.AllIn() {
		s.pots = BuildSidePots(s.players, s.pot)
	}
	s.publishAction(p, ActionRaise, outlay)
	return s.advanceTurn()
}

// reopenAction clears the acted flag of every other player who can still
// act. All-in players keep theirs: they have no further decision to make.
func (s *Session) reopenAction(raiser *Player) {
	for _, q := range s.players {
		if q != raiser && q.CanAct() {
			q.Acted = false
		}
	}
}

// roundOver reports whether the current betting round is complete: at most
// one contender remains, or every non-folded player has acted and either
// matched the bet or is all-in.
func (s *Session) roundOver() bool {
	contenders := 0
	for _, p := range s.players {
		if p.Folded {
			continue
		}
		contenders++
		if !p.Acted {
			return false
		}
		if p.Bet != s.currentBet && p.Chips > 0 {
			return false
		}
	}
	return contenders <= 1
}

// advanceTurn hands the action to the next player who still owes a
// decision, scanning forward circularly. Round completion is re-checked
// before every candidate so the scan never passes a seat while the round is
// already decided.
func (s *Session) advanceTurn() error {
	idx := (s.currentPlayerIndex + 1) % len(s.players)
	for {
		if s.roundOver() {
			return s.endStreet()
		}
		p := s.players[idx]
		if p.Folded || (p.Acted && (p.Bet == s.currentBet || p.Chips == 0)) {
			idx = (idx + 1) % len(s.players)
			continue
		}
		s.currentPlayerIndex = idx
		return nil
	}
}

// actionable resolves the current player or explains why no action can be
// accepted right now.
func (s *Session) actionable() (*Player, error) {
	if s.gameOver {
		return nil, ErrGameOver
	}
	if s.handNum == 0 || s.handDone || s.phase == PhaseShowdown {
		return nil, ErrNoCurrentPlayer
	}
	return s.players[s.currentPlayerIndex], nil
}

func (s *Session) current() *Player {
	p, err := s.actionable()
	if err != nil {
		return nil
	}
	return p
}

func (s *Session) countNotFolded() int {
	n := 0
	for _, p := range s.players {
		if !p.Folded {
			n++
		}
	}
	return n
}

func (s *Session) publishAction(p *Player, kind ActionKind, amount int) {
	s.logger.Debug("player action",
		"hand", s.handID,
		"player", p.Name,
		"action", kind.String(),
		"amount", amount,
		"pot", s.pot)
	s.bus.Publish(PlayerActionEvent{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Action:     kind,
		Amount:     amount,
		Phase:      s.phase,
		PotAfter:   s.pot,
		AllIn:      p.AllIn() && !p.Folded,
		timestamp:  s.clock.Now(),
	})
}
