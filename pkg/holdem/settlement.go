package holdem

import (
	"fmt"
	"sort"

	"chatpoker-server/pkg/deck"
	"chatpoker-server/pkg/poker"
)

// Result is one seat's outcome for a completed hand.
// HoleCards and HandName are only populated when the seat went to showdown.
type Result struct {
	PlayerID  string       `json:"playerId"`
	Name      string       `json:"name"`
	Income    int          `json:"income"`
	Win       bool         `json:"win"`
	HoleCards []*deck.Card `json:"holeCards,omitempty"`
	HandName  string       `json:"handName,omitempty"`
	Chips     int          `json:"chips"`
}

// settle closes the hand and distributes the pot.
//
// With one unfolded seat left the pot goes to that seat without a showdown
// and nothing is revealed. Otherwise every unfolded seat's best hand is
// ranked and payouts run down the ranking, each contender capped at the sum
// of what every seat matched against its own contribution. Folded seats
// follow the ranking, most recent fold first, so an uncalled bet flows back
// to whoever made it.
func (h *Hand) settle() error {
	contributions := make([]int, len(h.Seats))
	for i := range h.Seats {
		contributions[i] = h.contribution(i)
	}

	live := h.liveSeats()
	showdown := len(live) > 1

	ranks := make(map[int]*poker.HandRank)
	if showdown {
		community := h.currentStreet().Community
		for _, seat := range live {
			ranks[seat] = poker.RankBest(append(append([]*deck.Card{}, h.Seats[seat].HoleCards...), community...))
		}
	}

	order := h.payoutOrder(live, ranks)

	winnings := make([]int, len(h.Seats))
	remaining := h.Pot
	for _, contender := range order {
		if remaining == 0 {
			break
		}

		matched := 0
		for _, contributed := range contributions {
			if contributed < contributions[contender] {
				matched += contributed
			} else {
				matched += contributions[contender]
			}
		}

		take := matched
		if take > remaining {
			take = remaining
		}

		winnings[contender] += take
		remaining -= take
	}

	if remaining > 0 {
		return fmt.Errorf("%w: %d left for pot of %d", ErrSidePotUnderflow, remaining, h.Pot)
	}

	incomeSum := 0
	results := make([]*Result, len(h.Seats))
	for i, seat := range h.Seats {
		seat.Chips += winnings[i]
		income := winnings[i] - contributions[i]
		incomeSum += income

		result := &Result{
			PlayerID: seat.PlayerID,
			Name:     seat.Name,
			Income:   income,
			Win:      income > 0,
			Chips:    seat.Chips,
		}

		if rank, ok := ranks[i]; ok {
			result.HoleCards = seat.HoleCards
			result.HandName = rank.String()
		}

		results[i] = result
	}

	if incomeSum != 0 {
		return fmt.Errorf("%w: sum is %d", ErrChipConservation, incomeSum)
	}

	h.Results = results
	h.Status = StatusEnded

	return nil
}

// payoutOrder ranks unfolded seats strongest hand first, then folded seats by
// most recent fold. Equal hands keep seat order.
func (h *Hand) payoutOrder(live []int, ranks map[int]*poker.HandRank) []int {
	order := make([]int, len(live))
	copy(order, live)
	sort.SliceStable(order, func(i, j int) bool {
		return ranks[order[i]].Compare(ranks[order[j]]) > 0
	})

	folded := make([]int, 0, len(h.Seats)-len(live))
	for i := range h.Seats {
		if h.isFolded(i) {
			folded = append(folded, i)
		}
	}

	sort.SliceStable(folded, func(i, j int) bool {
		a := h.findAction(folded[i], ActionFold)
		b := h.findAction(folded[j], ActionFold)
		return a.Time.After(b.Time)
	})

	return append(order, folded...)
}
