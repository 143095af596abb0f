// This project is licensed under the MIT License (see LICENSE).

// Package monitor is a gorilla/websocket-backed broadcaster that mirrors
// every output event the generation engine produces to any number of
// connected clients, without ever blocking the engine itself.
package monitor

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// clientBufferSize bounds each client's outgoing queue; a message is
// dropped for that client rather than stalling the broadcaster when the
// buffer is full, so one slow websocket connection can never hold up the
// next output event.
const clientBufferSize = 64

// Frame is the JSON wire message sent to every connected client for one
// output event.
type Frame struct {
	RunID      string `json:"runID"`
	Generation int    `json:"generation"`
	Kind       string `json:"kind"`
	Payload    string `json:"payload"`
}

// Broadcaster is the live monitor: a registry of per-client buffered byte
// channels fed by Broadcast, structurally grounded on the teacher's
// web/conn.go Conn type.
type Broadcaster struct {
	runID string

	upgrader websocket.Upgrader
	mutex    sync.RWMutex
	channels map[int]chan []byte
	nextID   int

	meta func() Meta
}

// Meta is the JSON analog of the teacher's EnvJSON: run metadata reported
// by the /status endpoint.
type Meta struct {
	RunID            string `json:"runID"`
	ChromosomeLength int    `json:"chromosomeLength"`
	Generation       int    `json:"generation"`
	GenerationsTotal int    `json:"generationsTotal"`
	Subpopulations   int    `json:"subpopulations"`
}

// New creates a Broadcaster. meta is called on every /status request to
// report the engine's current state; it must be safe to call from any
// goroutine since the HTTP handler runs independently of the engine.
func New(runID string, meta func() Meta) *Broadcaster {
	return &Broadcaster{
		runID:    runID,
		upgrader: websocket.Upgrader{},
		channels: map[int]chan []byte{},
		meta:     meta,
	}
}

func (b *Broadcaster) addChannel(ch chan []byte) int {
	b.mutex.Lock()
	id := b.nextID
	b.nextID++
	b.channels[id] = ch
	b.mutex.Unlock()
	return id
}

func (b *Broadcaster) delChannel(id int) {
	b.mutex.Lock()
	if ch, ok := b.channels[id]; ok {
		close(ch)
		delete(b.channels, id)
	}
	b.mutex.Unlock()
}

// Close disconnects every client, closing their channels.
func (b *Broadcaster) Close() {
	b.mutex.Lock()
	for _, ch := range b.channels {
		close(ch)
	}
	b.channels = map[int]chan []byte{}
	b.mutex.Unlock()
}

// Broadcast implements engine.Monitor: it renders one output event as a
// Frame and fans it out to every connected client's buffered channel,
// never blocking on a full one.
func (b *Broadcaster) Broadcast(kind byte, generation int, payload []byte) {
	js, err := json.Marshal(Frame{
		RunID:      b.runID,
		Generation: generation,
		Kind:       string(kind),
		Payload:    string(payload),
	})
	if err != nil {
		log.Println(err)
		return
	}

	b.mutex.RLock()
	defer b.mutex.RUnlock()
	for _, ch := range b.channels {
		select {
		case ch <- js:
		default:
			log.Println("monitor: dropping frame for a slow client")
		}
	}
}

// WebsocketHandler upgrades the connection and streams every subsequent
// Broadcast call's frame to it until the client disconnects.
func (b *Broadcaster) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	ch := make(chan []byte, clientBufferSize)
	id := b.addChannel(ch)
	defer b.delChannel(id)

	go func() {
		for js := range ch {
			if err := conn.WriteMessage(websocket.TextMessage, js); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// StatusHandler reports run metadata as JSON, the monitor's analog of the
// teacher's EnvHandler.
func (b *Broadcaster) StatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(b.meta())
}
