package game

import (
	"time"

	"github.com/cardroom/holdem/internal/deck"
)

// EventType identifies a game domain event.
type EventType string

const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypePlayerAction EventType = "player_action"
	EventTypeStreetChange EventType = "street_change"
	EventTypePotAwarded   EventType = "pot_awarded"
	EventTypeHandEnd      EventType = "hand_end"
	EventTypeGameEnd      EventType = "game_end"
)

func (et EventType) String() string {
	return string(et)
}

// Event is any state-change notification emitted by the engine. The
// presentation layer subscribes and re-renders from a fresh snapshot;
// rendering never interleaves with engine mutation.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartEvent is published when a new hand begins.
type HandStartEvent struct {
	HandID     string
	HandNum    int
	Button     int
	SmallBlind int
	BigBlind   int
	Players    int
	timestamp  time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published after every accepted betting action.
type PlayerActionEvent struct {
	PlayerID   int
	PlayerName string
	Action     ActionKind
	Amount     int
	Phase      Phase
	PotAfter   int
	AllIn      bool
	timestamp  time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// StreetChangeEvent is published when a betting round completes and the next
// street's community cards have been dealt.
type StreetChangeEvent struct {
	Phase          Phase
	CommunityCards []deck.Card
	timestamp      time.Time
}

func (e StreetChangeEvent) EventType() EventType { return EventTypeStreetChange }
func (e StreetChangeEvent) Timestamp() time.Time { return e.timestamp }

// PotAward describes one pot's distribution at settlement.
type PotAward struct {
	PotIndex int
	Amount   int
	Winners  []PotWinner
}

// PotWinner is a single winner's share of one pot.
type PotWinner struct {
	PlayerID   int
	PlayerName string
	Share      int
	Category   string
}

// PotAwardedEvent is published once per settled pot.
type PotAwardedEvent struct {
	HandID    string
	Award     PotAward
	timestamp time.Time
}

func (e PotAwardedEvent) EventType() EventType { return EventTypePotAwarded }
func (e PotAwardedEvent) Timestamp() time.Time { return e.timestamp }

// HandEndEvent is published when a hand completes, whether by showdown or by
// everyone else folding.
type HandEndEvent struct {
	HandID     string
	Showdown   bool
	PotSize    int
	Awards     []PotAward
	FinalBoard []deck.Card
	timestamp  time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }

// GameEndEvent is published when a single player holds all the chips.
type GameEndEvent struct {
	WinnerID   int
	WinnerName string
	Chips      int
	timestamp  time.Time
}

func (e GameEndEvent) EventType() EventType { return EventTypeGameEnd }
func (e GameEndEvent) Timestamp() time.Time { return e.timestamp }

// Subscriber receives engine events.
type Subscriber interface {
	OnEvent(event Event)
}

// EventBus fans events out to subscribers.
type EventBus interface {
	Subscribe(subscriber Subscriber)
	Unsubscribe(subscriber Subscriber)
	Publish(event Event)
}

// SimpleEventBus is a synchronous in-memory event bus. Delivery happens on
// the caller's goroutine, preserving the engine's single-writer model.
type SimpleEventBus struct {
	subscribers []Subscriber
}

// NewEventBus creates a new event bus.
func NewEventBus() EventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events.
func (bus *SimpleEventBus) Subscribe(subscriber Subscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber.
func (bus *SimpleEventBus) Unsubscribe(subscriber Subscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers in subscription order.
func (bus *SimpleEventBus) Publish(event Event) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
