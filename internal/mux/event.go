package mux

import (
	"errors"
	"io"
	"net/http"

	"chatpoker-server/pkg/chat"
	"chatpoker-server/pkg/room"

	"github.com/sirupsen/logrus"
)

type challengeResponse struct {
	Challenge string `json:"challenge"`
}

type ackResponse struct {
	OK bool `json:"ok"`
}

// postEvent receives the chat platform's webhook deliveries. Everything the
// dealer handled, including player mistakes it answered in-chat, is
// acknowledged with a 200 so the platform does not redeliver.
func (m *Mux) postEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		challenge, event, err := chat.ParseWebhook(body, m.verificationToken)
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrBadToken):
				writeJSONError(w, http.StatusUnauthorized, nil)
			case errors.Is(err, chat.ErrUnknownEvent):
				// event types we don't subscribe to still get acknowledged
				writeJSON(w, http.StatusOK, ackResponse{OK: true})
			default:
				writeJSONError(w, http.StatusBadRequest, err)
			}

			return
		}

		if challenge != "" {
			writeJSON(w, http.StatusOK, challengeResponse{Challenge: challenge})
			return
		}

		if err := m.dealer.HandleEvent(r.Context(), event); err != nil {
			if errors.Is(err, room.ErrLocked) {
				// let the platform redeliver once the current action finishes
				writeJSONError(w, http.StatusServiceUnavailable, err)
				return
			}

			logrus.WithError(err).WithField("eventId", event.ID).Error("could not handle event")
		}

		writeJSON(w, http.StatusOK, ackResponse{OK: true})
	}
}
