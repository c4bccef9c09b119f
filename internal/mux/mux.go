package mux

import (
	"net/http"

	"chatpoker-server/pkg/dealer"
	"chatpoker-server/pkg/room"

	gmux "github.com/gorilla/mux"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version           string
	verificationToken string
	dealer            *dealer.Dealer
	store             room.Store
}

// NewMux returns a new HTTP mux
func NewMux(version, verificationToken string, d *dealer.Dealer, store room.Store) *Mux {
	this := &Mux{
		Router:            gmux.NewRouter(),
		version:           version,
		verificationToken: verificationToken,
		dealer:            d,
		store:             store,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodPost).Path("/api/event").Handler(this.postEvent())
	r.Methods(http.MethodGet).
		Path("/api/room/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}/ws").
		Handler(this.getRoomUUIDWS())

	return this
}
