package poker

import (
	"sort"
	"strings"

	"chatpoker-server/pkg/deck"
)

// HandRank is the value of a best five-card hand.
// Cards holds the five cards in order of significance (i.e., the pair before
// the kickers), and tieBreaks holds the ranks used for comparison within the
// same hand category.
type HandRank struct {
	Hand  Hand         `json:"hand"`
	Cards []*deck.Card `json:"cards"`

	tieBreaks []int
}

// Compare returns <0 if h is weaker than o, >0 if stronger, and 0 on an exact tie.
// Suits never break ties.
func (h *HandRank) Compare(o *HandRank) int {
	if h.Hand != o.Hand {
		return int(h.Hand) - int(o.Hand)
	}

	for i, rank := range h.tieBreaks {
		if rank != o.tieBreaks[i] {
			return rank - o.tieBreaks[i]
		}
	}

	return 0
}

// String returns a human-readable rendering like "Full house (K♠ K♡ K♣ 2♢ 2♠)"
func (h *HandRank) String() string {
	cards := make([]string, len(h.Cards))
	for i, card := range h.Cards {
		cards[i] = card.String()
	}

	return h.Hand.String() + " (" + strings.Join(cards, " ") + ")"
}

// RankBest finds the strongest five-card hand among the given cards.
// The input must contain between five and seven cards; every five-card subset
// is evaluated.
func RankBest(cards []*deck.Card) *HandRank {
	if len(cards) < 5 || len(cards) > 7 {
		panic("RankBest requires between five and seven cards")
	}

	var best *HandRank
	subset := make([]*deck.Card, 5)
	forEachCombination(len(cards), 5, func(indexes []int) {
		for i, index := range indexes {
			subset[i] = cards[index]
		}

		rank := rankFive(subset)
		if best == nil || rank.Compare(best) > 0 {
			best = rank
		}
	})

	return best
}

// forEachCombination calls fn with each k-subset of [0,n), reusing the index slice
func forEachCombination(n, k int, fn func(indexes []int)) {
	indexes := make([]int, k)
	for i := range indexes {
		indexes[i] = i
	}

	for {
		fn(indexes)

		// advance to the next combination
		i := k - 1
		for i >= 0 && indexes[i] == n-k+i {
			i--
		}

		if i < 0 {
			return
		}

		indexes[i]++
		for j := i + 1; j < k; j++ {
			indexes[j] = indexes[j-1] + 1
		}
	}
}

// rankFive evaluates exactly five cards
func rankFive(cards []*deck.Card) *HandRank {
	sorted := make([]*deck.Card, 5)
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})

	flush := sorted[0].Suit == sorted[1].Suit &&
		sorted[0].Suit == sorted[2].Suit &&
		sorted[0].Suit == sorted[3].Suit &&
		sorted[0].Suit == sorted[4].Suit

	straightHigh, isStraight := straightHighCard(sorted)

	if isStraight && flush {
		ordered := straightOrder(sorted, straightHigh)
		if straightHigh == deck.Ace {
			return &HandRank{Hand: RoyalFlush, Cards: ordered, tieBreaks: []int{}}
		}

		return &HandRank{Hand: StraightFlush, Cards: ordered, tieBreaks: []int{straightHigh}}
	}

	// group by rank, biggest groups first, then by rank descending.
	// sorted is already rank-descending so groups come out in that order.
	type group struct {
		rank  int
		cards []*deck.Card
	}

	groups := make([]group, 0, 5)
	for _, card := range sorted {
		if n := len(groups); n > 0 && groups[n-1].rank == card.Rank {
			groups[n-1].cards = append(groups[n-1].cards, card)
			continue
		}

		groups = append(groups, group{rank: card.Rank, cards: []*deck.Card{card}})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].cards) > len(groups[j].cards)
	})

	ordered := make([]*deck.Card, 0, 5)
	tieBreaks := make([]int, 0, 5)
	for _, g := range groups {
		ordered = append(ordered, g.cards...)
		tieBreaks = append(tieBreaks, g.rank)
	}

	switch len(groups) {
	case 2:
		if len(groups[0].cards) == 4 {
			return &HandRank{Hand: FourOfAKind, Cards: ordered, tieBreaks: tieBreaks}
		}

		return &HandRank{Hand: FullHouse, Cards: ordered, tieBreaks: tieBreaks}
	case 3:
		if len(groups[0].cards) == 3 {
			return &HandRank{Hand: ThreeOfAKind, Cards: ordered, tieBreaks: tieBreaks}
		}

		return &HandRank{Hand: TwoPair, Cards: ordered, tieBreaks: tieBreaks}
	case 4:
		return &HandRank{Hand: OnePair, Cards: ordered, tieBreaks: tieBreaks}
	}

	if flush {
		return &HandRank{Hand: Flush, Cards: ordered, tieBreaks: tieBreaks}
	}

	if isStraight {
		return &HandRank{Hand: Straight, Cards: straightOrder(sorted, straightHigh), tieBreaks: []int{straightHigh}}
	}

	return &HandRank{Hand: HighCard, Cards: ordered, tieBreaks: tieBreaks}
}

// straightHighCard reports whether five rank-descending distinct-or-not cards
// form a straight and, if so, the rank of its high card. The ace plays low only
// in the five-high straight, where the high card is the five.
func straightHighCard(sorted []*deck.Card) (int, bool) {
	for i := 1; i < 5; i++ {
		if sorted[i].Rank == sorted[i-1].Rank {
			return 0, false
		}
	}

	if sorted[0].Rank-sorted[4].Rank == 4 {
		return sorted[0].Rank, true
	}

	// wheel: A,5,4,3,2
	if sorted[0].Rank == deck.Ace && sorted[1].Rank == 5 && sorted[4].Rank == 2 {
		return 5, true
	}

	return 0, false
}

// straightOrder arranges straight cards high-to-low, moving the ace to the end
// of a wheel
func straightOrder(sorted []*deck.Card, high int) []*deck.Card {
	ordered := make([]*deck.Card, 5)
	copy(ordered, sorted)
	if high == 5 && ordered[0].Rank == deck.Ace {
		ordered = append(ordered[1:], ordered[0])
	}

	return ordered
}
