package mux

import (
	"context"
	"net/http"
	"time"

	"chatpoker-server/pkg/holdem"
	"chatpoker-server/pkg/room"

	gmux "github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = time.Second * 10
const pongWait = time.Second * 60
const pingPeriod = pongWait * 9 / 10
const statePeriod = time.Second * 2

// roomState is the read-only spectator view pushed over the websocket. Hole
// cards never leave the server through here.
type roomState struct {
	ID         string        `json:"id"`
	Status     room.Status   `json:"status"`
	SmallBlind int           `json:"smallBlind"`
	BigBlind   int           `json:"bigBlind"`
	HandNumber int           `json:"handNumber"`
	Players    []*roomPlayer `json:"players"`
	Hand       *holdem.State `json:"hand,omitempty"`
	PrevHand   *holdem.State `json:"prevHand,omitempty"`
	Updated    time.Time     `json:"updated"`
}

type roomPlayer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Chips  int    `json:"chips"`
	BuyIns int    `json:"buyIns"`
}

func newRoomState(r *room.Room) *roomState {
	players := make([]*roomPlayer, len(r.PlayerIDs))
	for i, id := range r.PlayerIDs {
		p := r.Players[id]
		players[i] = &roomPlayer{
			ID:     p.ID,
			Name:   p.Name,
			Chips:  p.Chips,
			BuyIns: p.BuyIns,
		}
	}

	state := &roomState{
		ID:         r.ID,
		Status:     r.Status,
		SmallBlind: r.SmallBlind,
		BigBlind:   r.BigBlind,
		HandNumber: r.HandNumber,
		Players:    players,
		Updated:    r.UpdatedAt,
	}

	if r.Hand != nil {
		state.Hand = r.Hand.State()
	}

	if r.PrevHand != nil {
		state.PrevHand = r.PrevHand.State()
	}

	return state
}

func (m *Mux) getRoomUUIDWS() http.HandlerFunc {
	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		roomID := gmux.Vars(r)["uuid"]
		if _, err := m.store.Get(r.Context(), roomID); err != nil {
			if err == room.ErrRoomNotFound {
				writeJSONError(w, http.StatusNotFound, nil)
				return
			}

			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithError(err).Error("could not upgrade connection")
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})

		done := make(chan struct{})
		go m.roomStateWriteLoop(conn, roomID, done)

		// the view is read-only; drain the connection until the client
		// goes away so pongs keep being processed
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		close(done)
		_ = conn.Close()
	}
}

// roomStateWriteLoop pushes the room snapshot whenever it changes, plus
// pings to keep the connection alive
func (m *Mux) roomStateWriteLoop(conn *websocket.Conn, roomID string, done chan struct{}) {
	pingTicker := time.NewTicker(pingPeriod)
	stateTicker := time.NewTicker(statePeriod)
	defer func() {
		pingTicker.Stop()
		stateTicker.Stop()
		_ = conn.Close()
	}()

	var lastUpdated time.Time
	send := func() bool {
		r, err := m.store.Get(context.Background(), roomID)
		if err != nil {
			logrus.WithError(err).WithField("roomId", roomID).Error("could not load room")
			return err != room.ErrRoomNotFound
		}

		if !r.UpdatedAt.After(lastUpdated) {
			return true
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(newRoomState(r)); err != nil {
			return false
		}

		lastUpdated = r.UpdatedAt
		return true
	}

	if !send() {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-pingTicker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-stateTicker.C:
			if !send() {
				return
			}
		}
	}
}
