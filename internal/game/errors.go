package game

import (
	"errors"
	"fmt"
)

// ErrGameOver is returned when an operation is attempted after the session
// has been decided.
var ErrGameOver = errors.New("game is over")

// ErrHandInProgress is returned when StartHand is called before the current
// hand has been settled.
var ErrHandInProgress = errors.New("hand is still in progress")

// ErrNoCurrentPlayer is returned when an action arrives while no player is
// due to act (before the first hand or after settlement).
var ErrNoCurrentPlayer = errors.New("no player to act")

// IllegalActionError reports an action rejected by the betting rules. The
// game state is left unchanged and the actor should be re-prompted.
type IllegalActionError struct {
	Action string
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal %s: %s", e.Action, e.Reason)
}

// SnapshotParseError reports a malformed snapshot on restore. The import is
// rejected wholesale; in-memory state is untouched.
type SnapshotParseError struct {
	Err error
}

func (e *SnapshotParseError) Error() string {
	return fmt.Sprintf("cannot parse snapshot: %v", e.Err)
}

func (e *SnapshotParseError) Unwrap() error {
	return e.Err
}
