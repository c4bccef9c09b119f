package holdem

import "errors"

// Validation errors surfaced to the acting player. State is left untouched
// when one of these is returned.
var (
	ErrNotYourTurn                 = errors.New("it is not your turn")
	ErrIllegalCheck                = errors.New("you cannot check, there is a bet to match")
	ErrIllegalRaise                = errors.New("a raise must be at least double the current bet")
	ErrInsufficientChips           = errors.New("you do not have enough chips")
	ErrUnsupportedTableSize        = errors.New("table size must be between 2 and 9 seats")
	ErrNotEnoughPlayers            = errors.New("at least two players are required")
	ErrInvalidBlinds               = errors.New("blinds must be greater than zero")
	ErrInsufficientStackToContinue = errors.New("every player must be able to cover the big blind")
	ErrHandOver                    = errors.New("the hand is over")
)

// Invariant violations. These indicate a modeling bug rather than bad input;
// the caller must abort without persisting.
var (
	ErrSidePotUnderflow = errors.New("pot remains after all contenders were paid")
	ErrChipConservation = errors.New("net incomes do not sum to zero")
)
