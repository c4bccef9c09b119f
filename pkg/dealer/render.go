package dealer

import (
	"chatpoker-server/pkg/holdem"
	"chatpoker-server/pkg/room"
)

// Card payloads are plain data for the messaging layer; no user-facing text
// is assembled here.

// Lobby summarizes a room waiting for seats
type Lobby struct {
	Kind       string        `json:"kind"`
	RoomID     string        `json:"roomId"`
	Status     room.Status   `json:"status"`
	SmallBlind int           `json:"smallBlind"`
	BigBlind   int           `json:"bigBlind"`
	SeatLimit  int           `json:"seatLimit"`
	BuyInUnit  int           `json:"buyInUnit"`
	Players    []LobbyPlayer `json:"players"`
}

// LobbyPlayer is one seated player in a lobby card
type LobbyPlayer struct {
	Name   string `json:"name"`
	Chips  int    `json:"chips"`
	BuyIns int    `json:"buyIns"`
}

func lobbyCard(r *room.Room) *Lobby {
	players := make([]LobbyPlayer, 0, len(r.PlayerIDs))
	for _, id := range r.PlayerIDs {
		player := r.Players[id]
		players = append(players, LobbyPlayer{
			Name:   player.Name,
			Chips:  player.Chips,
			BuyIns: player.BuyIns,
		})
	}

	return &Lobby{
		Kind:       "lobby",
		RoomID:     r.ID,
		Status:     r.Status,
		SmallBlind: r.SmallBlind,
		BigBlind:   r.BigBlind,
		SeatLimit:  r.SeatLimit,
		BuyInUnit:  r.BuyInUnit,
		Players:    players,
	}
}

// Table is the in-hand view
type Table struct {
	Kind   string        `json:"kind"`
	RoomID string        `json:"roomId"`
	State  *holdem.State `json:"state"`
}

func tableCard(r *room.Room) *Table {
	return &Table{
		Kind:   "table",
		RoomID: r.ID,
		State:  r.Hand.State(),
	}
}

// HandResult is the end-of-hand view
type HandResult struct {
	Kind    string           `json:"kind"`
	RoomID  string           `json:"roomId"`
	Number  int              `json:"number"`
	Pot     int              `json:"pot"`
	Results []*holdem.Result `json:"results"`
}

func resultCard(r *room.Room) *HandResult {
	return &HandResult{
		Kind:    "result",
		RoomID:  r.ID,
		Number:  r.Hand.Number,
		Pot:     r.Hand.Pot,
		Results: r.Hand.Results,
	}
}

// Closed is the room-over view
type Closed struct {
	Kind    string        `json:"kind"`
	RoomID  string        `json:"roomId"`
	Players []LobbyPlayer `json:"players"`
}

func closedCard(r *room.Room) *Closed {
	players := make([]LobbyPlayer, 0, len(r.PlayerIDs))
	for _, id := range r.PlayerIDs {
		player := r.Players[id]
		players = append(players, LobbyPlayer{
			Name:   player.Name,
			Chips:  player.Chips,
			BuyIns: player.BuyIns,
		})
	}

	return &Closed{
		Kind:    "closed",
		RoomID:  r.ID,
		Players: players,
	}
}
