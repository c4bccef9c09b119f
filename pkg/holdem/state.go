package holdem

import (
	"chatpoker-server/pkg/deck"
)

// SeatState is the render-facing view of one seat on the current street
type SeatState struct {
	PlayerID    string       `json:"playerId"`
	Name        string       `json:"name"`
	Position    string       `json:"position"`
	Chips       int          `json:"chips"`
	Contributed int          `json:"contributed"`
	LastAction  *Action      `json:"lastAction,omitempty"`
	Folded      bool         `json:"folded"`
	AllIn       bool         `json:"allIn"`
	Current     bool         `json:"current"`
	HoleCards   []*deck.Card `json:"-"`
}

// State is the render-facing view of an in-progress or completed hand.
// It is plain data for the messaging layer; no text formatting happens here.
type State struct {
	Number    int          `json:"number"`
	Round     Round        `json:"round"`
	Status    Status       `json:"status"`
	Pot       int          `json:"pot"`
	MaxBet    int          `json:"maxBet"`
	Community []*deck.Card `json:"community"`
	Seats     []*SeatState `json:"seats"`
	Results   []*Result    `json:"results,omitempty"`
}

// State returns a snapshot of the hand for rendering
func (h *Hand) State() *State {
	street := h.currentStreet()

	seats := make([]*SeatState, len(h.Seats))
	for i, seat := range h.Seats {
		// most recent concrete action, skipping any pending Wait appended
		// after it
		var last *Action
		actions := street.Seats[i].Actions
		for j := len(actions) - 1; j >= 0; j-- {
			if !actions[j].IsPending() {
				last = actions[j]
				break
			}
		}

		seats[i] = &SeatState{
			PlayerID:    seat.PlayerID,
			Name:        seat.Name,
			Position:    street.Seats[i].Position,
			Chips:       seat.Chips,
			Contributed: street.contribution(i),
			LastAction:  last,
			Folded:      h.isFolded(i),
			AllIn:       h.isAllIn(i),
			Current:     h.Status == StatusPlaying && street.CurrentIndex == i,
			HoleCards:   seat.HoleCards,
		}
	}

	return &State{
		Number:    h.Number,
		Round:     street.Round,
		Status:    h.Status,
		Pot:       h.Pot,
		MaxBet:    street.MaxBet,
		Community: street.Community,
		Seats:     seats,
		Results:   h.Results,
	}
}
