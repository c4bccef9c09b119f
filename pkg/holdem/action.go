package holdem

import (
	"time"
)

// ActionType identifies what a player did (or must still do) on a street
type ActionType string

// Action types. Wait is the pending placeholder appended when a seat still
// owes a decision on the street.
const (
	ActionWait       ActionType = "wait"
	ActionFold       ActionType = "fold"
	ActionSmallBlind ActionType = "small-blind"
	ActionBigBlind   ActionType = "big-blind"
	ActionCall       ActionType = "call"
	ActionRaise      ActionType = "raise"
	ActionCheck      ActionType = "check"
	ActionAllIn      ActionType = "all-in"
)

// Action is one recorded entry in a seat's per-street action list.
// Chips is the amount contributed by this action alone, MaxBet the street's
// running bet threshold when the action was taken, and StackBefore the seat's
// chip count immediately before acting.
type Action struct {
	Type        ActionType `json:"type"`
	Chips       int        `json:"chips"`
	MaxBet      int        `json:"maxBet"`
	Time        time.Time  `json:"time"`
	StackBefore int        `json:"stackBefore"`
}

// IsPending returns true if the action is an unresolved Wait placeholder
func (a *Action) IsPending() bool {
	return a.Type == ActionWait
}
