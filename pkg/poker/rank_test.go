package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chatpoker-server/pkg/deck"
)

func rankFromString(s string) *HandRank {
	return RankBest(deck.CardsFromString(s))
}

func TestRankBest_categories(t *testing.T) {
	a := assert.New(t)

	a.Equal(RoyalFlush, rankFromString("10s,11s,12s,13s,14s,2c,3d").Hand)
	a.Equal(StraightFlush, rankFromString("9s,10s,11s,12s,13s,2c,3d").Hand)
	a.Equal(FourOfAKind, rankFromString("5c,5d,5h,5s,9d,2c,3d").Hand)
	a.Equal(FullHouse, rankFromString("5c,5d,5h,9s,9d,2c,3d").Hand)
	a.Equal(Flush, rankFromString("2s,5s,9s,11s,13s,3c,4d").Hand)
	a.Equal(Straight, rankFromString("4c,5d,6h,7s,8d,2c,13d").Hand)
	a.Equal(ThreeOfAKind, rankFromString("5c,5d,5h,9s,8d,2c,13d").Hand)
	a.Equal(TwoPair, rankFromString("5c,5d,9h,9s,8d,2c,13d").Hand)
	a.Equal(OnePair, rankFromString("5c,5d,9h,10s,8d,2c,13d").Hand)
	a.Equal(HighCard, rankFromString("5c,4d,9h,10s,8d,2c,13d").Hand)
}

func TestRankBest_wheel(t *testing.T) {
	a := assert.New(t)

	wheel := rankFromString("14c,2d,3h,4s,5d,9c,11d")
	a.Equal(Straight, wheel.Hand)

	// five-high straight loses to six-high
	sixHigh := rankFromString("2c,3d,4h,5s,6d,9c,11d")
	a.True(wheel.Compare(sixHigh) < 0)

	// the ace sits at the low end of a wheel
	a.Equal(5, wheel.Cards[0].Rank)
	a.Equal(deck.Ace, wheel.Cards[4].Rank)

	steelWheel := rankFromString("14s,2s,3s,4s,5s,9c,11d")
	a.Equal(StraightFlush, steelWheel.Hand)

	// A,2,3,4 plus a king is no straight
	a.Equal(HighCard, rankFromString("14c,2d,3h,4s,13d,9c,11d").Hand)
}

func TestRankBest_picksBestSubset(t *testing.T) {
	a := assert.New(t)

	// the flush outranks the straight hiding in the same seven cards
	r := rankFromString("4s,5s,6s,7s,8c,9s,2d")
	a.Equal(Flush, r.Hand)

	// full house chooses the higher trips
	r = rankFromString("5c,5d,5h,9s,9d,9c,13d")
	a.Equal(FullHouse, r.Hand)
	a.Equal(9, r.Cards[0].Rank)
	a.Equal(5, r.Cards[3].Rank)

	// three pairs only play the top two
	r = rankFromString("5c,5d,9h,9s,13d,13c,2d")
	a.Equal(TwoPair, r.Hand)
	a.Equal(13, r.Cards[0].Rank)
	a.Equal(9, r.Cards[2].Rank)
	a.Equal(5, r.Cards[4].Rank)
}

func TestRankBest_fiveAndSixCards(t *testing.T) {
	a := assert.New(t)

	a.Equal(OnePair, rankFromString("5c,5d,9h,10s,8d").Hand)
	a.Equal(Straight, rankFromString("4c,5d,6h,7s,8d,2c").Hand)

	a.Panics(func() {
		RankBest(deck.CardsFromString("2c,3d,4h,5s"))
	})
}

func TestHandRank_Compare(t *testing.T) {
	a := assert.New(t)

	// category dominates
	a.True(rankFromString("5c,5d,9h,10s,8d,2c,13d").Compare(rankFromString("14c,13d,9h,10s,8d,2c,4d")) > 0)

	// kickers break pair ties
	a.True(rankFromString("5c,5d,14h,10s,8d,2c,3d").Compare(rankFromString("5h,5s,13h,10c,8c,2d,3c")) > 0)

	// exact tie across suits
	a.Equal(0, rankFromString("5c,5d,14h,10s,8d,2c,3d").Compare(rankFromString("5h,5s,14d,10c,8c,2d,3c")))

	// higher two pair wins on the top pair first
	a.True(rankFromString("13c,13d,2h,2s,5d").Compare(rankFromString("12c,12d,11h,11s,14d")) > 0)

	// quads over full house
	a.True(rankFromString("5c,5d,5h,5s,2d").Compare(rankFromString("14c,14d,14h,13s,13d")) > 0)
}

func TestRankBest_permutationInvariant(t *testing.T) {
	a := assert.New(t)

	cards := deck.CardsFromString("5c,5d,9h,9s,13d,13c,2d")
	want := RankBest(cards)

	// rotate through every starting card
	for i := 1; i < len(cards); i++ {
		rotated := append(append([]*deck.Card{}, cards[i:]...), cards[:i]...)
		a.Equal(0, want.Compare(RankBest(rotated)))
	}
}

func TestHandRank_String(t *testing.T) {
	a := assert.New(t)

	a.Equal("Pair (5♣ 5♢ K♢ 10♠ 9♡)", rankFromString("5c,5d,9h,10s,8d,2c,13d").String())
	a.Equal("Royal flush (A♠ K♠ Q♠ J♠ 10♠)", rankFromString("10s,11s,12s,13s,14s,2c,3d").String())
}
