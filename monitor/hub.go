// Package monitor is the thin "terminal UI" collaborator the
// sonyproto core deliberately does not provide: an HTTP + WebSocket
// status board that mirrors a Device's broadcast packets to a browser
// tab, adapted from the teacher's file-transfer progress WSHub into a
// headphone-state status board.
package monitor

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is one message pushed to every connected browser tab.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// AncEvent mirrors a decoded AmbientSoundControl reading.
type AncEvent struct {
	Mode         string `json:"mode"`
	FocusOnVoice bool   `json:"focusOnVoice"`
	AmbientLevel byte   `json:"ambientLevel"`
}

// BatteryEvent mirrors a decoded BatteryState reading.
type BatteryEvent struct {
	Type          string `json:"type"`
	Level         byte   `json:"level,omitempty"`
	IsCharging    bool   `json:"isCharging,omitempty"`
	LeftLevel     byte   `json:"leftLevel,omitempty"`
	LeftCharging  bool   `json:"leftCharging,omitempty"`
	RightLevel    byte   `json:"rightLevel,omitempty"`
	RightCharging bool   `json:"rightCharging,omitempty"`
}

// Hub fans decoded protocol events out to every connected WebSocket
// client. Unlike the teacher's WSHub, which guards a shared
// connection map with a mutex, registration/removal/broadcast here
// are serialized through a request channel into one owning goroutine
// — the same single-writer discipline Device uses for the session,
// expressed with channels instead of a lock.
type Hub struct {
	add     chan *websocket.Conn
	remove  chan *websocket.Conn
	publish chan []byte
	done    chan struct{}
}

// NewHub starts the hub's owning goroutine and returns a handle to it.
func NewHub() *Hub {
	h := &Hub{
		add:     make(chan *websocket.Conn),
		remove:  make(chan *websocket.Conn),
		publish: make(chan []byte, 16),
		done:    make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	clients := make(map[*websocket.Conn]bool)
	for {
		select {
		case conn := <-h.add:
			clients[conn] = true
			log.Printf("monitor: client connected (%d total)", len(clients))

		case conn := <-h.remove:
			if _, ok := clients[conn]; ok {
				delete(clients, conn)
				conn.Close()
				log.Printf("monitor: client disconnected (%d remaining)", len(clients))
			}

		case data := <-h.publish:
			for conn := range clients {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					log.Printf("monitor: write error: %v", err)
					delete(clients, conn)
					conn.Close()
				}
			}

		case <-h.done:
			for conn := range clients {
				conn.Close()
			}
			return
		}
	}
}

// Close stops the hub's goroutine and closes every connection.
func (h *Hub) Close() { close(h.done) }

// AddClient registers a newly upgraded WebSocket connection.
func (h *Hub) AddClient(conn *websocket.Conn) { h.add <- conn }

// RemoveClient closes and forgets a connection.
func (h *Hub) RemoveClient(conn *websocket.Conn) { h.remove <- conn }

// Broadcast sends ev as JSON to every connected client.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("monitor: marshal error: %v", err)
		return
	}
	h.publish <- data
}

// BroadcastAnc mirrors an AmbientSoundControl reading.
func (h *Hub) BroadcastAnc(mode string, focusOnVoice bool, ambientLevel byte) {
	h.Broadcast(Event{Type: "anc", Payload: AncEvent{Mode: mode, FocusOnVoice: focusOnVoice, AmbientLevel: ambientLevel}})
}

// BroadcastBattery mirrors a BatteryState reading.
func (h *Hub) BroadcastBattery(ev BatteryEvent) {
	h.Broadcast(Event{Type: "battery", Payload: ev})
}

// BroadcastLog mirrors an ambient log line (retries, unknown packets).
func (h *Hub) BroadcastLog(level, message string) {
	h.Broadcast(Event{Type: "log", Payload: map[string]string{"level": level, "message": message}})
}
