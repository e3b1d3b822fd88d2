package game

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/holdem/internal/deck"
)

type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) OnEvent(ev Event) {
	r.events = append(r.events, ev)
}

func (r *eventRecorder) byType(et EventType) []Event {
	var out []Event
	for _, ev := range r.events {
		if ev.EventType() == et {
			out = append(out, ev)
		}
	}
	return out
}

// driveHand plays the current hand to completion with passive actions:
// check when possible, call otherwise.
func driveHand(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; i < 200 && !s.HandDone(); i++ {
		canCheck := false
		for _, a := range s.LegalActions() {
			if a.Kind == ActionCheck {
				canCheck = true
			}
		}
		if canCheck {
			require.NoError(t, s.Check())
		} else {
			require.NoError(t, s.Call())
		}
	}
	require.True(t, s.HandDone(), "hand did not finish")
}

func chipTotal(s *Session) int {
	total := s.Pot()
	for _, p := range s.Players() {
		total += p.Chips
	}
	return total
}

func TestHandPlaysToShowdown(t *testing.T) {
	t.Parallel()

	mock := quartz.NewMock(t)
	rec := &eventRecorder{}
	s := New(3, 10, 20, 1000, WithSeed(7), WithClock(mock))
	s.Events().Subscribe(rec)

	require.NoError(t, s.startHand(0))
	driveHand(t, s)

	assert.Equal(t, PhaseShowdown, s.Phase())
	assert.Equal(t, 3000, chipTotal(s))
	assert.Zero(t, s.Pot(), "pot should be empty after settlement")

	shown := 0
	for _, p := range s.Players() {
		if p.ShowHand {
			shown++
		}
	}
	assert.Equal(t, 3, shown, "every contender reveals at showdown")

	require.NotEmpty(t, rec.events)
	assert.Equal(t, EventTypeHandStart, rec.events[0].EventType())
	assert.Equal(t, EventTypeHandEnd, rec.events[len(rec.events)-1].EventType())
	assert.Len(t, rec.byType(EventTypeStreetChange), 3, "flop, turn, river")
	assert.NotEmpty(t, rec.byType(EventTypePotAwarded))

	end := rec.events[len(rec.events)-1].(HandEndEvent)
	assert.True(t, end.Showdown)
	assert.Len(t, end.FinalBoard, 5)
	assert.NotEmpty(t, end.Awards)

	for _, ev := range rec.events {
		assert.Equal(t, mock.Now(), ev.Timestamp())
	}
}

func TestStartHandWhileHandInProgress(t *testing.T) {
	t.Parallel()

	s := New(3, 10, 20, 1000, WithSeed(1))
	require.NoError(t, s.startHand(0))

	assert.ErrorIs(t, s.StartHand(), ErrHandInProgress)
}

func TestBustedPlayersLeaveBetweenHands(t *testing.T) {
	t.Parallel()

	s := New(3, 10, 20, 1000, WithSeed(1))
	require.NoError(t, s.startHand(0))

	s.handDone = true
	s.players[0].Chips = 1500
	s.players[1].Chips = 0
	s.players[2].Chips = 1500

	require.NoError(t, s.StartHand())

	players := s.Players()
	require.Len(t, players, 2)
	assert.Equal(t, 0, players[0].ID)
	assert.Equal(t, 1, players[1].ID)
	assert.Equal(t, "Player 1", players[0].Name)
	assert.Equal(t, "Player 3", players[1].Name)
	assert.Equal(t, 1, s.DealerButton(), "button advances after the sweep")
	assert.Equal(t, 2, s.HandNumber())
}

func TestGameEndsWithOneSurvivor(t *testing.T) {
	t.Parallel()

	rec := &eventRecorder{}
	s := New(2, 10, 20, 1000, WithSeed(1))
	s.Events().Subscribe(rec)
	require.NoError(t, s.startHand(0))

	s.handDone = true
	s.players[0].Chips = 2000
	s.players[1].Chips = 0

	assert.ErrorIs(t, s.StartHand(), ErrGameOver)
	assert.True(t, s.GameOver())

	winner, ok := s.Winner()
	require.True(t, ok)
	assert.Equal(t, "Player 1", winner.Name)
	assert.Equal(t, 2000, winner.Chips)

	require.Len(t, rec.byType(EventTypeGameEnd), 1)
	end := rec.byType(EventTypeGameEnd)[0].(GameEndEvent)
	assert.Equal(t, "Player 1", end.WinnerName)

	assert.ErrorIs(t, s.StartHand(), ErrGameOver)
	assert.ErrorIs(t, s.Call(), ErrGameOver)
}

func TestSplitPotOddChipGoesLeftOfButton(t *testing.T) {
	t.Parallel()

	s := New(3, 10, 20, 0, WithSeed(1))
	s.handNum = 1
	s.handID = "split-test"
	s.dealerButton = 0
	s.startingTotal = 100
	s.pot = 100
	s.pots = []Pot{{Amount: 100, Eligible: []int{0, 1, 2}}}
	s.community = []deck.Card{
		deck.NewCard(deck.Spades, deck.Ace),
		deck.NewCard(deck.Spades, deck.King),
		deck.NewCard(deck.Spades, deck.Queen),
		deck.NewCard(deck.Spades, deck.Jack),
		deck.NewCard(deck.Spades, deck.Ten),
	}
	s.players[0].Hole = []deck.Card{deck.NewCard(deck.Hearts, deck.Two), deck.NewCard(deck.Hearts, deck.Three)}
	s.players[1].Hole = []deck.Card{deck.NewCard(deck.Diamonds, deck.Two), deck.NewCard(deck.Diamonds, deck.Three)}
	s.players[2].Hole = []deck.Card{deck.NewCard(deck.Clubs, deck.Two), deck.NewCard(deck.Clubs, deck.Three)}

	s.showdown()

	assert.Equal(t, 33, s.players[0].Chips)
	assert.Equal(t, 34, s.players[1].Chips, "odd chip goes to the tied winner closest to the dealer's left")
	assert.Equal(t, 33, s.players[2].Chips)
	assert.True(t, s.HandDone())
	assert.Equal(t, 100, chipTotal(s))
}

func TestSidePotsAwardSeparately(t *testing.T) {
	t.Parallel()

	rec := &eventRecorder{}
	s := New(3, 10, 20, 0, WithSeed(1))
	s.Events().Subscribe(rec)
	s.handNum = 1
	s.handID = "sidepot-test"
	s.dealerButton = 0
	s.startingTotal = 700
	s.pot = 700
	s.pots = []Pot{
		{Amount: 300, Eligible: []int{0, 1, 2}},
		{Amount: 400, Eligible: []int{1, 2}},
	}
	s.community = []deck.Card{
		deck.NewCard(deck.Hearts, deck.Two),
		deck.NewCard(deck.Diamonds, deck.Three),
		deck.NewCard(deck.Clubs, deck.Seven),
		deck.NewCard(deck.Spades, deck.Nine),
		deck.NewCard(deck.Spades, deck.Jack),
	}
	s.players[0].Hole = []deck.Card{deck.NewCard(deck.Clubs, deck.Ace), deck.NewCard(deck.Diamonds, deck.Ace)}
	s.players[1].Hole = []deck.Card{deck.NewCard(deck.Clubs, deck.King), deck.NewCard(deck.Diamonds, deck.King)}
	s.players[2].Hole = []deck.Card{deck.NewCard(deck.Clubs, deck.Queen), deck.NewCard(deck.Diamonds, deck.Queen)}
	s.players[0].TotalBet = 100
	s.players[1].TotalBet = 300
	s.players[2].TotalBet = 300

	s.showdown()

	// The best overall hand takes only the pot it bought into.
	assert.Equal(t, 300, s.players[0].Chips, "all-in aces win only the main pot")
	assert.Equal(t, 400, s.players[1].Chips, "kings take the side pot")
	assert.Equal(t, 0, s.players[2].Chips)
	assert.Equal(t, 700, chipTotal(s))

	awarded := rec.byType(EventTypePotAwarded)
	require.Len(t, awarded, 2)
	first := awarded[0].(PotAwardedEvent)
	assert.Equal(t, "Player 1", first.Award.Winners[0].PlayerName)
	second := awarded[1].(PotAwardedEvent)
	assert.Equal(t, "Player 2", second.Award.Winners[0].PlayerName)
}

func TestBlindAllInsRunTheHandOut(t *testing.T) {
	t.Parallel()

	s := New(2, 100, 200, 1000, WithSeed(3))
	s.players[1].Chips = 5

	require.NoError(t, s.startHand(0))

	// The small blind is all-in for 5 and the big blind cannot be called
	// for more, so the board runs out with no betting at all.
	assert.True(t, s.HandDone())
	assert.Equal(t, PhaseShowdown, s.Phase())
	assert.Equal(t, 1005, chipTotal(s))
}

func TestConservationAcrossHands(t *testing.T) {
	t.Parallel()

	s := New(4, 10, 20, 500, WithSeed(11))
	for hand := 0; hand < 5; hand++ {
		err := s.StartHand()
		if err == ErrGameOver {
			break
		}
		require.NoError(t, err)
		if !s.HandDone() {
			driveHand(t, s)
		}
		assert.Equal(t, 2000, chipTotal(s), "hand %d leaked chips", hand+1)
	}
}

func TestQueriesAreIdempotent(t *testing.T) {
	t.Parallel()

	s := New(3, 10, 20, 1000, WithSeed(2))
	require.NoError(t, s.startHand(0))

	before := s.Snapshot()
	_ = s.Players()
	_ = s.Community()
	_ = s.Pots()
	_ = s.LegalActions()
	_, _ = s.CurrentPlayer()

	assert.Equal(t, before, s.Snapshot(), "reads must not mutate state")
	assert.Equal(t, PhasePreFlop, s.Phase())
	assert.Equal(t, 30, s.Pot())
}

func TestWithPlayerNames(t *testing.T) {
	t.Parallel()

	s := New(3, 10, 20, 1000, WithSeed(1), WithPlayerNames([]string{"Alice", "Bob"}))

	players := s.Players()
	assert.Equal(t, "Alice", players[0].Name)
	assert.Equal(t, "Bob", players[1].Name)
	assert.Equal(t, "Player 3", players[2].Name)
}

func TestPlayerCountClamped(t *testing.T) {
	t.Parallel()

	assert.Len(t, New(1, 10, 20, 1000).Players(), 2)
	assert.Len(t, New(25, 10, 20, 1000).Players(), 10)
}

func TestAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	s := New(3, 10, 20, 1000, WithSeed(1))
	require.NoError(t, s.startHand(0))

	players := s.Players()
	players[0].Chips = 0
	players[0].Hole[0] = deck.NewCard(deck.Spades, deck.Ace)

	fresh := s.Players()
	assert.Equal(t, 1000, fresh[0].Chips, "mutating the copy must not touch the session")
	assert.Equal(t, s.players[0].Hole[0], fresh[0].Hole[0])

	board := s.Community()
	if len(board) > 0 {
		board[0] = deck.NewCard(deck.Spades, deck.Ace)
	}
	assert.Equal(t, len(s.community), len(s.Community()))
}
