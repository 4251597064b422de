package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

var _ inventory.EventPublisher = (*Hub)(nil)

// Client lo que el hub necesita de una conexión (*websocket.Conn lo cumple).
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub difunde los eventos del KARDEX a los clientes conectados en /ws/kardex.
type Hub struct {
	clients    map[Client]bool
	register   chan Client
	unregister chan Client
	broadcast  chan []byte
	done       chan struct{} // se cierra cuando Run termina
	stopOnce   sync.Once
	mu         sync.Mutex
	log        *logger.Logger
}

// NewHub crea el hub. buffer es la cantidad de mensajes que se encolan antes de descartar.
func NewHub(buffer int, log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[Client]bool),
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan []byte, buffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run atiende altas, bajas y difusión hasta que ctx termine; entonces cierra los clientes.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				_ = c.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug().Int("clientes", n).Msg("cliente ws conectado")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				_ = c.Close()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					_ = c.Close()
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register agrega un cliente. Bloquea hasta que Run lo atienda; si el hub ya terminó
// cierra el cliente y devuelve false.
func (h *Hub) Register(c Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		_ = c.Close()
		return false
	}
}

// Unregister quita y cierra un cliente. No bloquea si el hub ya terminó.
func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
		_ = c.Close()
	}
}

// ClientCount número de clientes conectados.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish implementa inventory.EventPublisher. No bloquea: si la cola está llena el
// evento se descarta (los clientes pueden reconsultar el listado).
func (h *Hub) Publish(_ context.Context, e inventory.MovementEvent) {
	if e.Movement == nil {
		return
	}
	payload, err := json.Marshal(dto.MovementEventMessage{Event: e.Type, Movement: kardex.ToMovementResponse(e.Movement)})
	if err != nil {
		h.log.Error().Err(err).Str("evento", e.Type).Msg("serializar evento ws")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn().Str("evento", e.Type).Str("movimiento_id", e.Movement.ID).Msg("cola ws llena, evento descartado")
	}
}
