package room

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"chatpoker-server/internal/rng"
	"chatpoker-server/pkg/holdem"
)

// Status is the lifecycle state of a room
type Status string

// Room statuses
const (
	StatusSettingUp     Status = "setting-up"
	StatusAwaitingSeats Status = "awaiting-seats"
	StatusPlaying       Status = "playing"
	StatusEnded         Status = "ended"
)

// Room errors
var (
	ErrRoomNotConfigurable = errors.New("the room is already configured")
	ErrRoomNotOpen         = errors.New("the room is not accepting players")
	ErrAlreadySeated       = errors.New("you already have a seat")
	ErrRoomFull            = errors.New("the room is full")
	ErrHandInProgress      = errors.New("a hand is still being played")
	ErrInvalidBuyIn        = errors.New("the buy-in must cover the big blind")
	ErrRoomEnded           = errors.New("the room has ended")
)

// Player is a roster entry. Chips is authoritative between hands; during a
// hand the current hand's seats carry the live stacks.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Chips  int    `json:"chips"`
	BuyIn  int    `json:"buyIn"`
	BuyIns int    `json:"buyIns"`
}

// Room is one chat session's table. It owns at most one in-progress hand;
// the previous hand is retained so a late UI refresh can still render it.
type Room struct {
	ID         string             `json:"id"`
	ChatID     string             `json:"chatId"`
	Status     Status             `json:"status"`
	SmallBlind int                `json:"smallBlind"`
	BigBlind   int                `json:"bigBlind"`
	SeatLimit  int                `json:"seatLimit"`
	BuyInUnit  int                `json:"buyInUnit"`
	PlayerIDs  []string           `json:"playerIds"`
	Players    map[string]*Player `json:"players"`
	Button     int                `json:"button"`
	HandNumber int                `json:"handNumber"`
	Hand       *holdem.Hand       `json:"hand,omitempty"`
	PrevHand   *holdem.Hand       `json:"prevHand,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`

	rand rng.Generator
}

// New creates a room for a chat session
func New(chatID string, now time.Time) *Room {
	return &Room{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		Status:    StatusSettingUp,
		Players:   make(map[string]*Player),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetRand replaces the random source used for the opening button.
// Tests use this for deterministic seating.
func (r *Room) SetRand(gen rng.Generator) {
	r.rand = gen
}

func (r *Room) random(n int) int {
	if r.rand == nil {
		r.rand = rng.Crypto{}
	}

	return r.rand.Intn(n)
}

// Configure sets the table stakes and opens the room for seating
func (r *Room) Configure(smallBlind, bigBlind, seatLimit, buyInUnit int, now time.Time) error {
	if r.Status != StatusSettingUp {
		return ErrRoomNotConfigurable
	}

	if smallBlind <= 0 || bigBlind <= 0 || smallBlind >= bigBlind {
		return holdem.ErrInvalidBlinds
	}

	if seatLimit < 2 || seatLimit > 9 {
		return holdem.ErrUnsupportedTableSize
	}

	if buyInUnit < bigBlind {
		return ErrInvalidBuyIn
	}

	r.SmallBlind = smallBlind
	r.BigBlind = bigBlind
	r.SeatLimit = seatLimit
	r.BuyInUnit = buyInUnit
	r.Status = StatusAwaitingSeats
	r.UpdatedAt = now

	return nil
}

// Join seats a player with one buy-in of chips. Filling the last seat deals
// the first hand with a randomly placed button; the returned bool reports
// whether that happened.
func (r *Room) Join(playerID, name string, now time.Time) (bool, error) {
	if r.Status != StatusAwaitingSeats {
		return false, ErrRoomNotOpen
	}

	if _, ok := r.Players[playerID]; ok {
		return false, ErrAlreadySeated
	}

	if len(r.PlayerIDs) >= r.SeatLimit {
		return false, ErrRoomFull
	}

	r.Players[playerID] = &Player{
		ID:     playerID,
		Name:   name,
		Chips:  r.BuyInUnit,
		BuyIn:  r.BuyInUnit,
		BuyIns: 1,
	}
	r.PlayerIDs = append(r.PlayerIDs, playerID)
	r.UpdatedAt = now

	if len(r.PlayerIDs) < r.SeatLimit {
		return false, nil
	}

	r.Button = r.random(len(r.PlayerIDs))
	if err := r.startHand(now); err != nil {
		return false, err
	}

	return true, nil
}

// Rebuy adds another buy-in to a seated player's stack between hands
func (r *Room) Rebuy(playerID string, now time.Time) error {
	if r.Status == StatusEnded {
		return ErrRoomEnded
	}

	if r.Hand != nil && r.Hand.Status == holdem.StatusPlaying {
		return ErrHandInProgress
	}

	player, ok := r.Players[playerID]
	if !ok {
		return ErrRoomNotOpen
	}

	player.Chips += r.BuyInUnit
	player.BuyIn += r.BuyInUnit
	player.BuyIns++
	r.UpdatedAt = now

	return nil
}

// startHand deals a hand from the roster stacks
func (r *Room) startHand(now time.Time) error {
	seats := make([]*holdem.Seat, len(r.PlayerIDs))
	for i, id := range r.PlayerIDs {
		player := r.Players[id]
		seats[i] = &holdem.Seat{
			PlayerID: player.ID,
			Name:     player.Name,
			Chips:    player.Chips,
		}
	}

	opts := make([]holdem.Option, 0, 1)
	if r.rand != nil {
		opts = append(opts, holdem.WithRand(r.rand))
	}

	r.HandNumber++
	hand, err := holdem.New(r.HandNumber, seats, r.Button, r.SmallBlind, r.BigBlind, now, opts...)
	if err != nil {
		r.HandNumber--
		return err
	}

	r.PrevHand = r.Hand
	r.Hand = hand
	r.Status = StatusPlaying
	r.UpdatedAt = now

	return nil
}

// FinishHand copies the completed hand's stacks back onto the roster.
// It must be called once the current hand reaches its end.
func (r *Room) FinishHand(now time.Time) error {
	if r.Hand == nil || r.Hand.Status != holdem.StatusEnded {
		return ErrHandInProgress
	}

	for _, seat := range r.Hand.Seats {
		if player, ok := r.Players[seat.PlayerID]; ok {
			player.Chips = seat.Chips
		}
	}

	r.UpdatedAt = now
	return nil
}

// StartNextHand rotates the button one seat and deals again. Every seated
// player must be able to cover the big blind.
func (r *Room) StartNextHand(now time.Time) error {
	if r.Status == StatusEnded {
		return ErrRoomEnded
	}

	if r.Hand == nil || r.Hand.Status != holdem.StatusEnded {
		return ErrHandInProgress
	}

	if err := r.FinishHand(now); err != nil {
		return err
	}

	for _, id := range r.PlayerIDs {
		if r.Players[id].Chips < r.BigBlind {
			return holdem.ErrInsufficientStackToContinue
		}
	}

	r.Button = (r.Button + 1) % len(r.PlayerIDs)
	return r.startHand(now)
}

// Close ends the room. A hand in progress cannot be abandoned.
func (r *Room) Close(now time.Time) error {
	if r.Hand != nil && r.Hand.Status == holdem.StatusPlaying {
		return ErrHandInProgress
	}

	if r.Hand != nil {
		if err := r.FinishHand(now); err != nil {
			return err
		}
	}

	r.Status = StatusEnded
	r.UpdatedAt = now

	return nil
}
