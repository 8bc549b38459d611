package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func TestHub_SendToOnlyReachesUser(t *testing.T) {
	h := startHub(t)
	alice, bob := uuid.New(), uuid.New()
	a := &Client{hub: h, userID: alice, send: make(chan []byte, 1)}
	b := &Client{hub: h, userID: bob, send: make(chan []byte, 1)}
	h.Register(a)
	h.Register(b)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, h.SendTo(alice, []byte("hi")))
	assert.Equal(t, []byte("hi"), <-a.send)
	assert.Empty(t, b.send)

	assert.Equal(t, 0, h.SendTo(uuid.New(), []byte("nobody")))
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := startHub(t)
	u := uuid.New()
	c := &Client{hub: h, userID: u, send: make(chan []byte, 1)}
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, h.SendTo(u, []byte("one")))
	assert.Equal(t, 0, h.SendTo(u, []byte("two")))
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHandler_DeliversOverWebsocket(t *testing.T) {
	h := startHub(t)
	u := uuid.New()
	handler := NewHandler(h, zerolog.Nop(), nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.serve(w, r, u)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, 1, h.SendTo(u, []byte(`{"type":"session_confirmed"}`)))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"session_confirmed"}`, string(msg))
}
