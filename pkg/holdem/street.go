package holdem

import (
	"fmt"

	"chatpoker-server/pkg/deck"
)

// Round is one of the four betting streets
type Round string

// Rounds in play order
const (
	RoundPreflop Round = "preflop"
	RoundFlop    Round = "flop"
	RoundTurn    Round = "turn"
	RoundRiver   Round = "river"
)

// next returns the following round. Calling next on the river is a bug.
func (r Round) next() Round {
	switch r {
	case RoundPreflop:
		return RoundFlop
	case RoundFlop:
		return RoundTurn
	case RoundTurn:
		return RoundRiver
	default:
		panic(fmt.Sprintf("no round follows %s", r))
	}
}

// SeatActions is one seat's action list on a street.
// The list is append-only: an action is recorded by finalizing the pending
// Wait at the tail, never by removing entries. A seat with no pending Wait
// cannot act on the street.
type SeatActions struct {
	PlayerID string    `json:"playerId"`
	Position string    `json:"position"`
	Actions  []*Action `json:"actions"`
}

// hasPending returns true if the seat still owes a decision
func (sa *SeatActions) hasPending() bool {
	n := len(sa.Actions)
	return n > 0 && sa.Actions[n-1].IsPending()
}

// Street is a single betting round. Only the hand's last street is mutable.
type Street struct {
	Round Round `json:"round"`
	// Community holds every community card revealed so far, not just the
	// cards dealt entering this street
	Community    []*deck.Card   `json:"community"`
	Seats        []*SeatActions `json:"seats"`
	CurrentIndex int            `json:"currentIndex"`
	MaxBet       int            `json:"maxBet"`
}

// appendWait gives the seat a fresh pending Wait placeholder
func (s *Street) appendWait(seat int) {
	s.Seats[seat].Actions = append(s.Seats[seat].Actions, &Action{Type: ActionWait})
}

// finalize resolves the seat's pending Wait into a concrete action.
// It is the only way an action is recorded.
func (s *Street) finalize(seat int, action *Action) {
	sa := s.Seats[seat]
	if !sa.hasPending() {
		panic(fmt.Sprintf("seat %d has no pending action on the %s", seat, s.Round))
	}

	sa.Actions[len(sa.Actions)-1] = action
}

// contribution returns the chips the seat has put in on this street
func (s *Street) contribution(seat int) int {
	total := 0
	for _, action := range s.Seats[seat].Actions {
		total += action.Chips
	}

	return total
}

// nextPending scans forward from the seat after `from`, wrapping around, for
// the next seat holding a pending Wait. Folded and all-in seats are never
// found because a resolved Wait is only re-appended for live seats. Returns
// -1 when no seat owes a decision.
func (s *Street) nextPending(from int) int {
	n := len(s.Seats)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if s.Seats[seat].hasPending() {
			return seat
		}
	}

	return -1
}
