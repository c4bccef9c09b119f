package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendCard(t *testing.T) {
	a := assert.New(t)

	tokenRequests := 0
	var gotAuth, gotReceiveID, gotMsgType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v3/tenant_access_token/internal":
			tokenRequests++

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			a.Equal("app-1", payload["app_id"])
			a.Equal("shh", payload["app_secret"])

			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code":                0,
				"tenant_access_token": "tat-1",
				"expire":              7200,
			})

		case "/im/v1/messages":
			gotAuth = r.Header.Get("Authorization")

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			gotReceiveID = payload["receive_id"]
			gotMsgType = payload["msg_type"]

			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code": 0,
				"data": map[string]string{"message_id": "msg-1"},
			})

		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "app-1", "shh", logrus.StandardLogger())

	id, err := client.SendCard(context.Background(), "chat-1", map[string]string{"kind": "table"})
	require.NoError(t, err)
	a.Equal("msg-1", id)
	a.Equal("Bearer tat-1", gotAuth)
	a.Equal("chat-1", gotReceiveID)
	a.Equal("interactive", gotMsgType)

	// the cached token serves the second send
	require.NoError(t, client.SendText(context.Background(), "chat-1", "hello"))
	a.Equal("text", gotMsgType)
	a.Equal(1, tokenRequests)
}

func TestClient_ResolveName(t *testing.T) {
	a := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v3/tenant_access_token/internal":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code":                0,
				"tenant_access_token": "tat-1",
				"expire":              7200,
			})

		case "/contact/v3/users/user-9":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code": 0,
				"data": map[string]interface{}{"user": map[string]string{"name": "Alice"}},
			})

		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "app-1", "shh", logrus.StandardLogger())

	name, err := client.ResolveName(context.Background(), "user-9")
	a.NoError(err)
	a.Equal("Alice", name)
}

func TestClient_apiFailure(t *testing.T) {
	a := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 99991663,
			"msg":  "invalid app_secret",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "app-1", "bad", logrus.StandardLogger())

	_, err := client.SendCard(context.Background(), "chat-1", struct{}{})
	a.ErrorContains(err, "invalid app_secret")
}
