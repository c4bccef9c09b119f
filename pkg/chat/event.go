package chat

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// EventType distinguishes plain messages from card-button clicks
type EventType string

// Event types
const (
	EventMessage EventType = "message"
	EventTrigger EventType = "trigger"
)

// Event is a normalized inbound chat-platform event. ID is stable per
// delivery and is the dedupe key; Time is when the platform accepted the
// user's input, used to reject actions taken on a stale UI snapshot.
type Event struct {
	ID     string    `json:"id"`
	Type   EventType `json:"type"`
	ChatID string    `json:"chatId"`
	UserID string    `json:"userId"`
	// Action is the button's action tag for trigger events
	Action string `json:"action"`
	// Value is the button's optional payload (a raise amount, a ratio) or
	// the message text
	Value string `json:"value"`
	Time  time.Time `json:"time"`
}

// Parse errors
var (
	ErrBadToken     = errors.New("verification token mismatch")
	ErrUnknownEvent = errors.New("unrecognized event payload")
)

// envelope is the webhook schema the platform posts
type envelope struct {
	Challenge string `json:"challenge"`
	Type      string `json:"type"`
	Token     string `json:"token"`
	Header    struct {
		EventID    string `json:"event_id"`
		EventType  string `json:"event_type"`
		CreateTime string `json:"create_time"`
		Token      string `json:"token"`
	} `json:"header"`
	Event json.RawMessage `json:"event"`
}

type messageEvent struct {
	Sender struct {
		SenderID struct {
			OpenID string `json:"open_id"`
		} `json:"sender_id"`
	} `json:"sender"`
	Message struct {
		ChatID  string `json:"chat_id"`
		Content string `json:"content"`
	} `json:"message"`
}

type triggerEvent struct {
	Operator struct {
		OpenID string `json:"open_id"`
	} `json:"operator"`
	Context struct {
		OpenChatID string `json:"open_chat_id"`
	} `json:"context"`
	Action struct {
		Value struct {
			Action string `json:"action"`
		} `json:"value"`
		InputValue string `json:"input_value"`
	} `json:"action"`
}

// ParseWebhook decodes a webhook body into either a URL-verification
// challenge (returned as a non-empty string) or a normalized Event. The
// envelope's verification token must match.
func ParseWebhook(body []byte, verificationToken string) (challenge string, event *Event, err error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", nil, err
	}

	if env.Type == "url_verification" {
		if env.Token != verificationToken {
			return "", nil, ErrBadToken
		}

		return env.Challenge, nil, nil
	}

	if env.Header.Token != verificationToken {
		return "", nil, ErrBadToken
	}

	created := time.Now()
	if ms, err := strconv.ParseInt(env.Header.CreateTime, 10, 64); err == nil {
		created = time.UnixMilli(ms)
	}

	switch env.Header.EventType {
	case "im.message.receive_v1":
		var msg messageEvent
		if err := json.Unmarshal(env.Event, &msg); err != nil {
			return "", nil, err
		}

		return "", &Event{
			ID:     env.Header.EventID,
			Type:   EventMessage,
			ChatID: msg.Message.ChatID,
			UserID: msg.Sender.SenderID.OpenID,
			Value:  textContent(msg.Message.Content),
			Time:   created,
		}, nil

	case "card.action.trigger":
		var trigger triggerEvent
		if err := json.Unmarshal(env.Event, &trigger); err != nil {
			return "", nil, err
		}

		return "", &Event{
			ID:     env.Header.EventID,
			Type:   EventTrigger,
			ChatID: trigger.Context.OpenChatID,
			UserID: trigger.Operator.OpenID,
			Action: trigger.Action.Value.Action,
			Value:  trigger.Action.InputValue,
			Time:   created,
		}, nil
	}

	return "", nil, ErrUnknownEvent
}

// textContent extracts the text from a message content payload like
// {"text":"..."}; unknown shapes pass through raw
func textContent(content string) string {
	var payload struct {
		Text string `json:"text"`
	}

	if err := json.Unmarshal([]byte(content), &payload); err == nil && payload.Text != "" {
		return payload.Text
	}

	return content
}
