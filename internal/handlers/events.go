package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	eventWriteDeadline = 5 * time.Second
	eventPingInterval  = 15 * time.Second
	eventReadDeadline  = 120 * time.Second
)

// WorkflowEvent is pushed to every connected client after a document
// changes status. Payload carries action specific extras such as the
// voucher number or days overdue.
type WorkflowEvent struct {
	Entity   string                 `json:"entity"`
	EntityID int                    `json:"entity_id"`
	Action   string                 `json:"action"`
	Status   string                 `json:"status"`
	ActorID  int                    `json:"actor_id,omitempty"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
	At       time.Time              `json:"at"`
}

type EventsHub struct {
	clients    map[*websocket.Conn]struct{}
	broadcast  chan WorkflowEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

func NewEventsHub() *EventsHub {
	return &EventsHub{
		clients:    make(map[*websocket.Conn]struct{}),
		broadcast:  make(chan WorkflowEvent, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// Run owns the clients map. All map access happens on this goroutine.
func (h *EventsHub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = struct{}{}

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				_ = conn.Close()
				delete(h.clients, conn)
			}

		case ev := <-h.broadcast:
			for conn := range h.clients {
				_ = conn.SetWriteDeadline(time.Now().Add(eventWriteDeadline))
				if err := conn.WriteJSON(ev); err != nil {
					log.Printf("event broadcast error: %v", err)
					_ = conn.Close()
					delete(h.clients, conn)
				}
			}
		}
	}
}

// Publish is safe to call from any goroutine. A nil hub is a no-op so
// handlers work the same in tests without a running hub.
func (h *EventsHub) Publish(entity string, entityID int, action, status string, actor int, payload map[string]interface{}) {
	if h == nil {
		return
	}
	ev := WorkflowEvent{
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Status:   status,
		ActorID:  actor,
		Payload:  payload,
		At:       time.Now(),
	}
	select {
	case h.broadcast <- ev:
	default:
		log.Printf("event dropped: %s %d %s", entity, entityID, action)
	}
}

var eventsUpgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Serve upgrades the connection and keeps it alive with pings. The feed
// is one way, inbound frames other than pongs are discarded.
func (h *EventsHub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := eventsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("events upgrade error:", err)
		return
	}

	conn.SetReadLimit(1 << 16)
	conn.SetReadDeadline(time.Now().Add(eventReadDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(eventReadDeadline))
		return nil
	})

	h.register <- conn

	go h.pingLoop(conn)
	go h.drain(conn)
}

func (h *EventsHub) pingLoop(conn *websocket.Conn) {
	t := time.NewTicker(eventPingInterval)
	defer t.Stop()
	for range t.C {
		_ = conn.SetWriteDeadline(time.Now().Add(eventWriteDeadline))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			h.unregister <- conn
			return
		}
	}
}

func (h *EventsHub) drain(conn *websocket.Conn) {
	defer func() {
		h.unregister <- conn
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
