// This project is licensed under the MIT License (see LICENSE).

package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDeliversFrameToConnectedClient(t *testing.T) {
	b := New("run-1", func() Meta { return Meta{RunID: "run-1"} })

	server := httptest.NewServer(http.HandlerFunc(b.WebsocketHandler))
	defer server.Close()
	defer b.Close()

	wsURL := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server a moment to register the new client's channel
	// before the broadcast fires.
	time.Sleep(20 * time.Millisecond)

	b.Broadcast('A', 7, []byte("hello"))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, json.Unmarshal(msg, &frame))
	assert.Equal(t, "run-1", frame.RunID)
	assert.Equal(t, 7, frame.Generation)
	assert.Equal(t, "A", frame.Kind)
	assert.Equal(t, "hello", frame.Payload)
}

func TestBroadcastWithNoClientsDoesNotBlock(t *testing.T) {
	b := New("run-2", func() Meta { return Meta{} })
	defer b.Close()

	done := make(chan struct{})
	go func() {
		b.Broadcast('F', 1, []byte("x"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked with no connected clients")
	}
}

func TestStatusHandlerReportsMeta(t *testing.T) {
	b := New("run-3", func() Meta {
		return Meta{RunID: "run-3", Generation: 5, GenerationsTotal: 10, Subpopulations: 2}
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	b.StatusHandler(rec, req)

	var meta Meta
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, "run-3", meta.RunID)
	assert.Equal(t, 5, meta.Generation)
	assert.Equal(t, 10, meta.GenerationsTotal)
	assert.Equal(t, 2, meta.Subpopulations)
}
