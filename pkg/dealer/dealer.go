package dealer

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"chatpoker-server/pkg/chat"
	"chatpoker-server/pkg/holdem"
	"chatpoker-server/pkg/room"
)

// Dealer errors
var (
	ErrStaleAction   = errors.New("the action was taken on an outdated table view")
	ErrUnknownAction = errors.New("unrecognized action")
	ErrNoHand        = errors.New("no hand is being played")
)

// rejections are the validation failures answered in-chat. Anything not
// listed here is a service fault and propagates to the webhook instead.
var rejections = []error{
	ErrStaleAction,
	ErrUnknownAction,
	ErrNoHand,
	holdem.ErrNotYourTurn,
	holdem.ErrIllegalCheck,
	holdem.ErrIllegalRaise,
	holdem.ErrInsufficientChips,
	holdem.ErrInsufficientStackToContinue,
	holdem.ErrHandOver,
	room.ErrRoomNotOpen,
	room.ErrAlreadySeated,
	room.ErrRoomFull,
	room.ErrHandInProgress,
	room.ErrInvalidBuyIn,
	room.ErrRoomEnded,
}

func isRejection(err error) bool {
	for _, rejection := range rejections {
		if errors.Is(err, rejection) {
			return true
		}
	}

	return false
}

// seenTTL is how long processed event ids are remembered for dedupe
const seenTTL = 10 * time.Minute

// Dealer turns inbound chat events into engine mutations: it deduplicates
// deliveries, serializes work per chat, loads the room, applies the mapped
// action, persists, and pushes a fresh table view. String action tags are
// mapped to typed engine calls here and nowhere deeper.
type Dealer struct {
	store     room.Store
	locker    room.Locker
	messenger chat.Messenger
	logger    logrus.FieldLogger
	clock     quartz.Clock

	mu   sync.Mutex
	seen map[string]time.Time
}

// Option configures a dealer
type Option func(d *Dealer)

// WithClock replaces the dedupe clock, for tests
func WithClock(clock quartz.Clock) Option {
	return func(d *Dealer) {
		d.clock = clock
	}
}

// New returns a dealer
func New(store room.Store, locker room.Locker, messenger chat.Messenger, logger logrus.FieldLogger, opts ...Option) *Dealer {
	d := &Dealer{
		store:     store,
		locker:    locker,
		messenger: messenger,
		logger:    logger,
		clock:     quartz.NewReal(),
		seen:      make(map[string]time.Time),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// HandleEvent processes one inbound event. Redelivered events are dropped.
func (d *Dealer) HandleEvent(ctx context.Context, event *chat.Event) error {
	if d.isDuplicate(event.ID) {
		d.logger.WithField("eventId", event.ID).Debug("dropping duplicate event")
		return nil
	}

	if err := d.locker.Acquire(ctx, event.ChatID); err != nil {
		return err
	}
	defer func() {
		if err := d.locker.Release(ctx, event.ChatID); err != nil {
			d.logger.WithError(err).WithField("chatId", event.ChatID).Error("could not release room lock")
		}
	}()

	switch event.Type {
	case chat.EventMessage:
		return d.handleMessage(ctx, event)
	case chat.EventTrigger:
		return d.handleTrigger(ctx, event)
	}

	return ErrUnknownAction
}

// isDuplicate records the event id and reports whether it was already seen
func (d *Dealer) isDuplicate(eventID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	for id, seen := range d.seen {
		if now.Sub(seen) > seenTTL {
			delete(d.seen, id)
		}
	}

	if _, ok := d.seen[eventID]; ok {
		return true
	}

	d.seen[eventID] = now
	return false
}

// handleMessage reacts to "poker [smallBlind bigBlind seats buyIn]" by
// opening a room for the chat
func (d *Dealer) handleMessage(ctx context.Context, event *chat.Event) error {
	fields := strings.Fields(event.Value)
	if len(fields) == 0 || !strings.EqualFold(fields[0], "poker") {
		return nil
	}

	if _, err := d.store.FindRunning(ctx, event.ChatID); err == nil {
		return d.messenger.SendText(ctx, event.ChatID, "a table is already running in this chat")
	} else if !errors.Is(err, room.ErrRoomNotFound) {
		return err
	}

	smallBlind, bigBlind, seats, buyIn := 1, 2, 6, 100
	if len(fields) == 5 {
		values := make([]int, 4)
		for i, field := range fields[1:] {
			value, err := strconv.Atoi(field)
			if err != nil {
				return d.sendUsage(ctx, event.ChatID)
			}
			values[i] = value
		}

		smallBlind, bigBlind, seats, buyIn = values[0], values[1], values[2], values[3]
	} else if len(fields) != 1 {
		return d.sendUsage(ctx, event.ChatID)
	}

	r := room.New(event.ChatID, event.Time)
	if err := r.Configure(smallBlind, bigBlind, seats, buyIn, event.Time); err != nil {
		return d.messenger.SendText(ctx, event.ChatID, err.Error())
	}

	if err := d.store.Create(ctx, r); err != nil {
		return err
	}

	d.logger.WithFields(logrus.Fields{
		"chatId": event.ChatID,
		"roomId": r.ID,
	}).Info("room created")

	_, err := d.messenger.SendCard(ctx, event.ChatID, lobbyCard(r))
	return err
}

func (d *Dealer) sendUsage(ctx context.Context, chatID string) error {
	return d.messenger.SendText(ctx, chatID, "usage: poker <smallBlind> <bigBlind> <seats> <buyIn>")
}

// handleTrigger applies a card-button click to the chat's running room
func (d *Dealer) handleTrigger(ctx context.Context, event *chat.Event) error {
	r, err := d.store.FindRunning(ctx, event.ChatID)
	if err != nil {
		return err
	}

	// the click happened on a view older than the room's last mutation;
	// refresh is exempt since it exists to recover from exactly that
	if event.Action != "refresh" && event.Time.Before(r.UpdatedAt) {
		return d.reject(ctx, event.ChatID, ErrStaleAction)
	}

	card, err := d.apply(ctx, r, event)
	if err != nil {
		if isRejection(err) {
			return d.reject(ctx, event.ChatID, err)
		}

		return err
	}

	if err := d.store.Save(ctx, r); err != nil {
		return err
	}

	if card != nil {
		if _, err := d.messenger.SendCard(ctx, event.ChatID, card); err != nil {
			return err
		}
	}

	return nil
}

// reject tells the acting user why the click was refused. The delivery is
// still acknowledged; a refused click is not a service fault.
func (d *Dealer) reject(ctx context.Context, chatID string, cause error) error {
	d.logger.WithField("chatId", chatID).WithError(cause).Debug("rejecting action")
	return d.messenger.SendText(ctx, chatID, cause.Error())
}

// apply maps the event's action tag to a typed engine call and returns the
// card to render
func (d *Dealer) apply(ctx context.Context, r *room.Room, event *chat.Event) (interface{}, error) {
	switch event.Action {
	case "join":
		name, err := d.messenger.ResolveName(ctx, event.UserID)
		if err != nil || name == "" {
			name = event.UserID
		}

		started, err := r.Join(event.UserID, name, event.Time)
		if err != nil {
			return nil, err
		}

		if started {
			return tableCard(r), nil
		}

		return lobbyCard(r), nil

	case "rebuy":
		if err := r.Rebuy(event.UserID, event.Time); err != nil {
			return nil, err
		}

		return lobbyCard(r), nil

	case "next":
		if err := r.StartNextHand(event.Time); err != nil {
			return nil, err
		}

		return tableCard(r), nil

	case "end":
		if err := r.Close(event.Time); err != nil {
			return nil, err
		}

		return closedCard(r), nil

	case "refresh":
		if r.Hand == nil {
			return lobbyCard(r), nil
		}

		if r.Hand.Status == holdem.StatusEnded {
			return resultCard(r), nil
		}

		return tableCard(r), nil

	case "call", "check", "fold", "allin", "raise", "raise_ratio":
		return d.applyHandAction(r, event)
	}

	return nil, ErrUnknownAction
}

// applyHandAction runs a betting action through the state machine
func (d *Dealer) applyHandAction(r *room.Room, event *chat.Event) (interface{}, error) {
	hand := r.Hand
	if hand == nil {
		return nil, ErrNoHand
	}

	var err error
	switch event.Action {
	case "call":
		err = hand.Call(event.UserID, event.Time)
	case "check":
		err = hand.Check(event.UserID, event.Time)
	case "fold":
		err = hand.Fold(event.UserID, event.Time)
	case "allin":
		err = hand.AllIn(event.UserID, event.Time)
	case "raise":
		var raiseTo int
		if raiseTo, err = strconv.Atoi(strings.TrimSpace(event.Value)); err != nil {
			return nil, ErrUnknownAction
		}

		err = hand.Raise(event.UserID, raiseTo, event.Time)
	case "raise_ratio":
		var ratio int
		if ratio, err = strconv.Atoi(strings.TrimSpace(event.Value)); err != nil {
			return nil, ErrUnknownAction
		}

		err = hand.RaisePotFraction(event.UserID, ratio, event.Time)
	}

	if err != nil {
		return nil, err
	}

	r.UpdatedAt = event.Time

	if hand.Status == holdem.StatusEnded {
		if err := r.FinishHand(event.Time); err != nil {
			return nil, err
		}

		d.logger.WithFields(logrus.Fields{
			"roomId": r.ID,
			"hand":   hand.Number,
			"pot":    hand.Pot,
		}).Info("hand complete")

		return resultCard(r), nil
	}

	return tableCard(r), nil
}
