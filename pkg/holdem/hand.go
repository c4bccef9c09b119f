package holdem

import (
	"sort"
	"time"

	"chatpoker-server/internal/rng"
	"chatpoker-server/pkg/deck"
)

// Status is the lifecycle state of a hand
type Status string

// Hand statuses
const (
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

// Seat is a player participating in a hand. Chips is the live stack; it is
// only mutated here and by settlement, and never goes negative.
type Seat struct {
	PlayerID  string       `json:"playerId"`
	Name      string       `json:"name"`
	Chips     int          `json:"chips"`
	HoleCards []*deck.Card `json:"holeCards"`
}

// Hand is a single dealt game from blinds to settlement
type Hand struct {
	Number     int        `json:"number"`
	Button     int        `json:"button"`
	SmallBlind int        `json:"smallBlind"`
	BigBlind   int        `json:"bigBlind"`
	Seats      []*Seat    `json:"seats"`
	Deck       *deck.Deck `json:"deck"`
	Pot        int        `json:"pot"`
	Streets    []*Street  `json:"streets"`
	Status     Status     `json:"status"`
	Results    []*Result  `json:"results,omitempty"`
}

// Option configures a new hand
type Option func(h *Hand)

// WithRand sets the random source used for dealing
func WithRand(r rng.Generator) Option {
	return func(h *Hand) {
		h.Deck.SetRand(r)
	}
}

// New deals a hand: builds a deck, deals hole cards from the seat after the
// button, posts the blinds, and opens the preflop street with the first
// decision on the seat after the big blind.
func New(number int, seats []*Seat, button, smallBlind, bigBlind int, now time.Time, opts ...Option) (*Hand, error) {
	if len(seats) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	if len(seats) > 9 {
		return nil, ErrUnsupportedTableSize
	}

	if smallBlind <= 0 || bigBlind <= 0 {
		return nil, ErrInvalidBlinds
	}

	h := &Hand{
		Number:     number,
		Button:     button % len(seats),
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		Seats:      seats,
		Deck:       deck.New(),
		Status:     StatusPlaying,
	}

	for _, opt := range opts {
		opt(h)
	}

	if err := h.dealHoleCards(); err != nil {
		return nil, err
	}

	street := &Street{
		Round:  RoundPreflop,
		Seats:  make([]*SeatActions, len(seats)),
		MaxBet: bigBlind,
	}

	for i, seat := range seats {
		position, err := PositionLabel(len(seats), h.Button, i)
		if err != nil {
			return nil, err
		}

		street.Seats[i] = &SeatActions{
			PlayerID: seat.PlayerID,
			Position: position,
		}
	}

	h.Streets = []*Street{street}

	for i := range seats {
		street.appendWait(i)
	}

	sb := smallBlindIndex(len(seats), h.Button)
	bb := bigBlindIndex(len(seats), h.Button)

	street.finalize(sb, h.postBlind(sb, ActionSmallBlind, smallBlind, now))
	street.appendWait(sb)
	street.finalize(bb, h.postBlind(bb, ActionBigBlind, bigBlind, now))
	street.appendWait(bb)

	street.CurrentIndex = street.nextPending(bb)

	return h, nil
}

// dealHoleCards deals one card at a time, two passes, starting left of the
// button. Each seat's two cards are kept ascending by rank.
func (h *Hand) dealHoleCards() error {
	n := len(h.Seats)
	for pass := 0; pass < 2; pass++ {
		for i := 1; i <= n; i++ {
			seat := h.Seats[(h.Button+i)%n]
			card, err := h.Deck.Draw()
			if err != nil {
				return err
			}

			seat.HoleCards = append(seat.HoleCards, card)
		}
	}

	for _, seat := range h.Seats {
		sort.SliceStable(seat.HoleCards, func(i, j int) bool {
			return seat.HoleCards[i].Rank < seat.HoleCards[j].Rank
		})
	}

	return nil
}

// postBlind moves the forced bet into the pot and returns the recorded action
func (h *Hand) postBlind(seat int, typ ActionType, amount int, now time.Time) *Action {
	action := &Action{
		Type:        typ,
		Chips:       amount,
		MaxBet:      h.BigBlind,
		Time:        now,
		StackBefore: h.Seats[seat].Chips,
	}

	h.Seats[seat].Chips -= amount
	h.Pot += amount

	return action
}

// currentStreet returns the mutable tail street
func (h *Hand) currentStreet() *Street {
	return h.Streets[len(h.Streets)-1]
}

// seatIndex returns the seat of the player, or -1
func (h *Hand) seatIndex(playerID string) int {
	for i, seat := range h.Seats {
		if seat.PlayerID == playerID {
			return i
		}
	}

	return -1
}

// isFolded returns true if the seat folded on any street
func (h *Hand) isFolded(seat int) bool {
	return h.findAction(seat, ActionFold) != nil
}

// isAllIn returns true if the seat has committed its whole stack
func (h *Hand) isAllIn(seat int) bool {
	return h.findAction(seat, ActionAllIn) != nil
}

func (h *Hand) findAction(seat int, typ ActionType) *Action {
	for _, street := range h.Streets {
		for _, action := range street.Seats[seat].Actions {
			if action.Type == typ {
				return action
			}
		}
	}

	return nil
}

// liveSeats returns the indexes of seats that have not folded
func (h *Hand) liveSeats() []int {
	live := make([]int, 0, len(h.Seats))
	for i := range h.Seats {
		if !h.isFolded(i) {
			live = append(live, i)
		}
	}

	return live
}

// contribution returns the chips the seat has put in across all streets
func (h *Hand) contribution(seat int) int {
	total := 0
	for _, street := range h.Streets {
		total += street.contribution(seat)
	}

	return total
}

// ensureTurn validates that the player may act right now
func (h *Hand) ensureTurn(playerID string) (int, error) {
	if h.Status != StatusPlaying {
		return 0, ErrHandOver
	}

	seat := h.seatIndex(playerID)
	if seat < 0 || seat != h.currentStreet().CurrentIndex {
		return 0, ErrNotYourTurn
	}

	return seat, nil
}

// Fold gives up the hand. No chips move.
func (h *Hand) Fold(playerID string, now time.Time) error {
	seat, err := h.ensureTurn(playerID)
	if err != nil {
		return err
	}

	h.record(seat, &Action{
		Type:        ActionFold,
		MaxBet:      h.currentStreet().MaxBet,
		Time:        now,
		StackBefore: h.Seats[seat].Chips,
	})

	return h.advance()
}

// Check passes the action. Legal only when the seat's street contribution
// already matches the bet threshold.
func (h *Hand) Check(playerID string, now time.Time) error {
	seat, err := h.ensureTurn(playerID)
	if err != nil {
		return err
	}

	street := h.currentStreet()
	if street.contribution(seat) != street.MaxBet {
		return ErrIllegalCheck
	}

	h.record(seat, &Action{
		Type:        ActionCheck,
		MaxBet:      street.MaxBet,
		Time:        now,
		StackBefore: h.Seats[seat].Chips,
	})

	return h.advance()
}

// Call matches the bet threshold. A call the stack cannot cover commits the
// whole stack and is recorded as all-in.
func (h *Hand) Call(playerID string, now time.Time) error {
	seat, err := h.ensureTurn(playerID)
	if err != nil {
		return err
	}

	street := h.currentStreet()
	need := street.MaxBet - street.contribution(seat)
	if need < 0 {
		need = 0
	}

	typ := ActionCall
	if need >= h.Seats[seat].Chips {
		need = h.Seats[seat].Chips
		typ = ActionAllIn
	}

	h.record(seat, &Action{
		Type:        typ,
		Chips:       need,
		MaxBet:      street.MaxBet,
		Time:        now,
		StackBefore: h.Seats[seat].Chips,
	})

	return h.advance()
}

// Raise bets up to a new threshold, which must be at least double the current
// one. A raise for the seat's whole stack is recorded as all-in. Every other
// live seat gets a fresh decision.
func (h *Hand) Raise(playerID string, raiseTo int, now time.Time) error {
	seat, err := h.ensureTurn(playerID)
	if err != nil {
		return err
	}

	street := h.currentStreet()
	if raiseTo <= 0 || raiseTo < street.MaxBet*2 {
		return ErrIllegalRaise
	}

	need := raiseTo - street.contribution(seat)
	if need > h.Seats[seat].Chips {
		return ErrInsufficientChips
	}

	typ := ActionRaise
	if need == h.Seats[seat].Chips {
		typ = ActionAllIn
	}

	street.MaxBet = raiseTo
	h.record(seat, &Action{
		Type:        typ,
		Chips:       need,
		MaxBet:      raiseTo,
		Time:        now,
		StackBefore: h.Seats[seat].Chips,
	})

	h.reopen(seat)

	return h.advance()
}

// RaisePotFraction raises to 1/ratio of the current pot, rounded down.
// A ratio of 1 raises to the full pot, 2 to half the pot.
func (h *Hand) RaisePotFraction(playerID string, ratio int, now time.Time) error {
	if ratio <= 0 {
		return ErrIllegalRaise
	}

	return h.Raise(playerID, h.Pot/ratio, now)
}

// AllIn commits the seat's entire stack. It reopens action for the other
// seats only when it pushes the bet threshold higher.
func (h *Hand) AllIn(playerID string, now time.Time) error {
	seat, err := h.ensureTurn(playerID)
	if err != nil {
		return err
	}

	street := h.currentStreet()
	chips := h.Seats[seat].Chips
	total := street.contribution(seat) + chips

	reopens := total > street.MaxBet
	if reopens {
		street.MaxBet = total
	}

	h.record(seat, &Action{
		Type:        ActionAllIn,
		Chips:       chips,
		MaxBet:      street.MaxBet,
		Time:        now,
		StackBefore: chips,
	})

	if reopens {
		h.reopen(seat)
	}

	return h.advance()
}

// record finalizes the seat's pending action and moves its chips into the pot
func (h *Hand) record(seat int, action *Action) {
	h.currentStreet().finalize(seat, action)
	h.Seats[seat].Chips -= action.Chips
	h.Pot += action.Chips
}

// reopen hands a fresh pending decision to every live seat other than the
// actor. Folded and all-in seats stay closed.
func (h *Hand) reopen(actor int) {
	street := h.currentStreet()
	for i := range h.Seats {
		if i == actor || h.isFolded(i) || h.isAllIn(i) {
			continue
		}

		if !street.Seats[i].hasPending() {
			street.appendWait(i)
		}
	}
}

// advance moves the action to the next pending seat, or closes the street.
// A hand with a single unfolded seat ends immediately. Streets where nobody
// can act (everyone all-in) run out to the river.
func (h *Hand) advance() error {
	if len(h.liveSeats()) == 1 {
		return h.settle()
	}

	street := h.currentStreet()
	if next := street.nextPending(street.CurrentIndex); next >= 0 {
		street.CurrentIndex = next
		return nil
	}

	for {
		if street.Round == RoundRiver {
			return h.settle()
		}

		var err error
		if street, err = h.openStreet(street.Round.next()); err != nil {
			return err
		}

		if next := street.nextPending(h.Button); next >= 0 {
			street.CurrentIndex = next
			return nil
		}
	}
}

// openStreet deals the next community cards and appends a new street with a
// pending decision for every seat still able to act
func (h *Hand) openStreet(round Round) (*Street, error) {
	draw := 1
	if round == RoundFlop {
		draw = 3
	}

	dealt, err := h.Deck.DrawCount(draw)
	if err != nil {
		return nil, err
	}

	prev := h.currentStreet()
	community := make([]*deck.Card, 0, len(prev.Community)+draw)
	community = append(community, prev.Community...)
	community = append(community, dealt...)

	street := &Street{
		Round:     round,
		Community: community,
		Seats:     make([]*SeatActions, len(h.Seats)),
	}

	for i := range h.Seats {
		street.Seats[i] = &SeatActions{
			PlayerID: prev.Seats[i].PlayerID,
			Position: prev.Seats[i].Position,
		}

		if !h.isFolded(i) && !h.isAllIn(i) {
			street.Seats[i].Actions = []*Action{{Type: ActionWait}}
		}
	}

	h.Streets = append(h.Streets, street)
	return street, nil
}
