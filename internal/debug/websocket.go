package debug

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// WebSocketHub fans request logs and metrics out to connected dashboard
// clients.
type WebSocketHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex
}

var Hub *WebSocketHub

func init() {
	Hub = &WebSocketHub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		clients:    make(map[*websocket.Conn]bool),
	}
	go Hub.run()
}

func (h *WebSocketHub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("debug dashboard connected, clients=%d", len(h.clients))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()
			log.Printf("debug dashboard disconnected, clients=%d", len(h.clients))

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					client.Close()
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// HandleWebSocketFiber registers a dashboard connection and blocks reading
// it until the client goes away.
func HandleWebSocketFiber(conn *websocket.Conn) {
	Hub.register <- conn
	defer func() {
		Hub.unregister <- conn
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// LogMessage is a single log line pushed to the dashboard.
type LogMessage struct {
	Type     string                 `json:"type"`
	Source   string                 `json:"source"`
	Level    string                 `json:"level"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SendLog broadcasts a log line to connected dashboards. Dropped silently
// when no client is connected or the channel is full.
func SendLog(source, level, message string, metadata map[string]interface{}) {
	if Hub == nil || len(Hub.clients) == 0 {
		return
	}

	msg := LogMessage{
		Type:     "log",
		Source:   source,
		Level:    level,
		Message:  message,
		Metadata: metadata,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal dashboard log: %v", err)
		return
	}

	select {
	case Hub.broadcast <- data:
	default:
	}
}

// MetricsMessage carries system metrics for the dashboard.
type MetricsMessage struct {
	Type    string   `json:"type"`
	Metrics []Metric `json:"metrics"`
}

type Metric struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
	Unit  string      `json:"unit,omitempty"`
}

// SendMetrics broadcasts metrics to connected dashboards.
func SendMetrics(metrics []Metric) {
	if Hub == nil || len(Hub.clients) == 0 {
		return
	}

	data, err := json.Marshal(MetricsMessage{Type: "metrics", Metrics: metrics})
	if err != nil {
		log.Printf("marshal dashboard metrics: %v", err)
		return
	}

	select {
	case Hub.broadcast <- data:
	default:
	}
}

var startTime = time.Now()

// Uptime reports seconds since process start, for the dashboard status line.
func Uptime() int64 {
	return int64(time.Since(startTime).Seconds())
}
