package monitor

import (
	"fmt"
	"log"
	"net/http"

	"sonyproto"
)

// Server is the HTTP server backing the status board.
type Server struct {
	mux  *http.ServeMux
	hub  *Hub
	addr string
}

// NewServer wires routes for the WebSocket upgrade and a minimal
// static status page.
func NewServer(addr string, hub *Hub) *Server {
	s := &Server{mux: http.NewServeMux(), hub: hub, addr: addr}
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/", s.handleIndex)
	return s
}

// Start blocks serving the status board.
func (s *Server) Start() error {
	log.Printf("monitor: status board listening on %s", s.addr)
	fmt.Printf("\n  sonyctl monitor running at http://%s\n\n", s.addr)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("monitor: upgrade failed: %v", err)
		return
	}
	s.hub.AddClient(conn)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!doctype html><html><body>
<h1>sonyctl status board</h1>
<pre id="log"></pre>
<script>
const log = document.getElementById("log");
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (ev) => { log.textContent += ev.data + "\n"; };
</script>
</body></html>`)
}

// Watch subscribes to device's packet broadcast and mirrors every
// decoded Anc/Battery reading to the hub until packets closes.
func Watch(hub *Hub, packets <-chan sonyproto.Packet) {
	for pkt := range packets {
		c1, ok := pkt.Content.(sonyproto.Command1)
		if !ok {
			continue
		}
		switch c1.Payload.Kind {
		case sonyproto.KindAmbientSoundControlRet, sonyproto.KindAmbientSoundControlNotify:
			a := c1.Payload.Anc
			hub.BroadcastAnc(a.Mode.String(), a.FocusOnVoice, a.AmbientLevel)

		case sonyproto.KindBatteryLevelReply, sonyproto.KindBatteryLevelNotify:
			b := c1.Payload.Battery
			hub.BroadcastBattery(BatteryEvent{
				Type:          b.Type.String(),
				Level:         b.Level,
				IsCharging:    b.IsCharging,
				LeftLevel:     b.LeftLevel,
				LeftCharging:  b.LeftCharging,
				RightLevel:    b.RightLevel,
				RightCharging: b.RightCharging,
			})

		default:
			hub.BroadcastLog("info", fmt.Sprintf("unhandled command1 kind=%d seq=%d", c1.Payload.Kind, pkt.Seqnum))
		}
	}
}
