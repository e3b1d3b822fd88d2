package game

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/fileutil"
)

// Snapshot is a complete, flat serialization of a session. It captures
// everything needed to resume mid-hand, including the undealt remainder of
// the deck, and contains no behavior: restoring applies it wholesale.
type Snapshot struct {
	Players        []Player    `json:"players"`
	CommunityCards []deck.Card `json:"community_cards"`
	Deck           []deck.Card `json:"deck"`

	Pot  int   `json:"pot"`
	Pots []Pot `json:"pots"`

	DealerButton    int `json:"dealer_button"`
	SmallBlindIndex int `json:"small_blind_index"`
	BigBlindIndex   int `json:"big_blind_index"`
	SmallBlind      int `json:"small_blind"`
	BigBlind        int `json:"big_blind"`

	CurrentBet         int `json:"current_bet"`
	CurrentPlayerIndex int `json:"current_player_index"`
	RoundStartIndex    int `json:"round_start_player_index"`

	GamePhase  string `json:"game_phase"`
	HandID     string `json:"hand_id"`
	HandNumber int    `json:"hand_number"`
	HandDone   bool   `json:"hand_done"`
}

// Snapshot captures the session's current state as a deep copy.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Players:            s.Players(),
		CommunityCards:     s.communityCopy(),
		Pot:                s.pot,
		Pots:               s.Pots(),
		DealerButton:       s.dealerButton,
		SmallBlindIndex:    s.smallBlindIndex,
		BigBlindIndex:      s.bigBlindIndex,
		SmallBlind:         s.smallBlind,
		BigBlind:           s.bigBlind,
		CurrentBet:         s.currentBet,
		CurrentPlayerIndex: s.currentPlayerIndex,
		RoundStartIndex:    s.roundStart,
		GamePhase:          s.phase.String(),
		HandID:             s.handID,
		HandNumber:         s.handNum,
		HandDone:           s.handDone,
	}
	if s.deck != nil {
		snap.Deck = s.deck.Cards()
	}
	return snap
}

// Save writes the session snapshot to path as indented JSON. The write is
// atomic: a torn save never clobbers an existing file.
func (s *Session) Save(path string) error {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	s.logger.Info("game saved", "path", path, "hand", s.handID)
	return nil
}

// Restore loads a snapshot from path and replaces the session's state with
// it. A snapshot that cannot be parsed or validated is rejected with
// SnapshotParseError and the in-memory state is left untouched.
func (s *Session) Restore(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return &SnapshotParseError{Err: err}
	}
	phase, err := phaseFromString(snap.GamePhase)
	if err != nil {
		return &SnapshotParseError{Err: err}
	}
	if len(snap.Players) < minPlayers || len(snap.Players) > maxPlayers {
		return &SnapshotParseError{Err: fmt.Errorf("player count %d out of range", len(snap.Players))}
	}
	if snap.CurrentPlayerIndex < 0 || snap.CurrentPlayerIndex >= len(snap.Players) {
		return &SnapshotParseError{Err: fmt.Errorf("current player index %d out of range", snap.CurrentPlayerIndex)}
	}

	players := make([]*Player, 0, len(snap.Players))
	for i := range snap.Players {
		p := snap.Players[i]
		p.Hole = append([]deck.Card(nil), p.Hole...)
		players = append(players, &p)
	}

	s.players = players
	s.community = append([]deck.Card(nil), snap.CommunityCards...)
	s.deck = deck.FromCards(snap.Deck, s.rng)
	s.pot = snap.Pot
	s.pots = append([]Pot(nil), snap.Pots...)
	s.dealerButton = snap.DealerButton
	s.smallBlindIndex = snap.SmallBlindIndex
	s.bigBlindIndex = snap.BigBlindIndex
	s.smallBlind = snap.SmallBlind
	s.bigBlind = snap.BigBlind
	s.currentBet = snap.CurrentBet
	s.currentPlayerIndex = snap.CurrentPlayerIndex
	s.roundStart = snap.RoundStartIndex
	s.phase = phase
	s.handID = snap.HandID
	s.handNum = snap.HandNumber
	s.handDone = snap.HandDone
	s.gameOver = false
	s.winner = nil

	total := snap.Pot
	for _, p := range s.players {
		total += p.Chips
	}
	s.startingTotal = total

	s.logger.Info("game restored", "path", path, "hand", s.handID, "phase", s.phase.String())
	return nil
}
