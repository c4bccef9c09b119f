package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"

	"chatpoker-server/internal/rng"
)

// ErrDeckExhausted is an error when a draw is attempted and there are not enough cards left
var ErrDeckExhausted = errors.New("deck is exhausted")

// Deck represents a playing deck.
// Cards are not kept in any meaningful order; Draw removes a card chosen
// uniformly at random from whatever remains.
type Deck struct {
	Cards []*Card `json:"cards"`
	rand  rng.Generator
}

// New returns a new deck of 52 unique cards
func New() *Deck {
	d := &Deck{
		rand: rng.Crypto{},
	}

	d.buildDeck()
	return d
}

// FromCards returns a deck holding the provided cards.
// Used when restoring a persisted deck remainder.
func FromCards(cards []*Card) *Deck {
	c := make([]*Card, len(cards))
	copy(c, cards)

	return &Deck{
		Cards: c,
		rand:  rng.Crypto{},
	}
}

// SetRand replaces the random source. Tests use this with a seeded generator
// so that draw order is deterministic.
func (d *Deck) SetRand(r rng.Generator) {
	d.rand = r
}

func (d *Deck) buildDeck() {
	cards := make([]*Card, 0, 52)
	for _, suit := range []Suit{Clubs, Diamonds, Hearts, Spades} {
		for rank := 2; rank <= 14; rank++ {
			cards = append(cards, &Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	d.Cards = cards
}

// Draw removes and returns a random card from the deck.
// If there are no more cards, an ErrDeckExhausted is returned along with a nil card.
func (d *Deck) Draw() (*Card, error) {
	if len(d.Cards) == 0 {
		return nil, ErrDeckExhausted
	}

	if d.rand == nil {
		d.rand = rng.Crypto{}
	}

	i := d.rand.Intn(len(d.Cards))
	card := d.Cards[i]
	d.Cards = append(d.Cards[:i], d.Cards[i+1:]...)

	return card, nil
}

// DrawCount draws count random cards.
// Cards are drawn one at a time so that the random source is consumed in a
// deterministic order for a given seed.
func (d *Deck) DrawCount(count int) ([]*Card, error) {
	if count > len(d.Cards) {
		return nil, ErrDeckExhausted
	}

	cards := make([]*Card, count)
	for i := 0; i < count; i++ {
		card, err := d.Draw()
		if err != nil {
			return nil, err
		}

		cards[i] = card
	}

	return cards, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil)[:])
}
