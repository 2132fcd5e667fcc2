package hub

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ivanzxc/go-qrs-monitor/internal/logging"
	"github.com/ivanzxc/go-qrs-monitor/internal/metrics"
)

const writeTimeout = 200 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client serializa las escrituras: gorilla/websocket admite un solo escritor
// concurrente por conexión.
type client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

// Hub reparte ondas (binario) y frecuencias (JSON) a los displays
// conectados. Recuerda la última frecuencia para los clientes nuevos.
type Hub struct {
	mu    sync.Mutex
	conns map[*client]bool
	last  []byte

	log zerolog.Logger
}

func New() *Hub {
	return &Hub{
		conns: make(map[*client]bool),
		log:   logging.Component("hub"),
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.conns[c] = true
	n := len(h.conns)
	last := h.last
	h.mu.Unlock()

	metrics.SetDisplayClients(n)
	if last != nil {
		h.write(c, websocket.TextMessage, last)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.conns, c)
	n := len(h.conns)
	h.mu.Unlock()

	metrics.SetDisplayClients(n)
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) snapshot() []*client {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.conns))
	for c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	return clients
}

func (h *Hub) write(c *client, kind int, b []byte) {
	c.wmu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := c.conn.WriteMessage(kind, b)
	c.wmu.Unlock()

	if err != nil {
		h.log.Debug().Err(err).Str("remote", c.conn.RemoteAddr().String()).Msg("dropping display client")
		_ = c.conn.Close()
		h.remove(c)
	}
}

// BroadcastWave reenvía un lote de muestras tal cual.
func (h *Hub) BroadcastWave(b []byte) {
	metrics.RecordDisplayMessage("wave")
	for _, c := range h.snapshot() {
		h.write(c, websocket.BinaryMessage, b)
	}
}

// BroadcastParams reenvía una frecuencia y la guarda como última conocida.
func (h *Hub) BroadcastParams(b []byte) {
	h.mu.Lock()
	h.last = append([]byte(nil), b...)
	h.mu.Unlock()

	metrics.RecordDisplayMessage("params")
	for _, c := range h.snapshot() {
		h.write(c, websocket.TextMessage, b)
	}
}

// ServeHTTP convierte la petición en un cliente websocket hasta que cierra.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}
	h.add(c)
	defer func() {
		h.remove(c)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
