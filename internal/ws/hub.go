// Package ws раздаёт события движка подключённым WebSocket клиентам.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/ignatzorin/jobledger/internal/domain/event"
	"github.com/ignatzorin/jobledger/internal/goroutine"
	"github.com/ignatzorin/jobledger/internal/logger"
)

// Hub управляет всеми WebSocket клиентами и реализует event.Bus:
// каждое опубликованное событие уходит всем подключённым клиентам.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.send(payload)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish реализует event.Bus. Сообщение клиенту следует контракту
// WebSocket API: "type" — имя события, "record" — адрес записи,
// "data" — полезная нагрузка.
func (h *Hub) Publish(e event.Event) {
	raw, err := json.Marshal(map[string]any{
		"type":   e.Type,
		"record": e.Record,
		"data":   e.Payload,
		"at":     e.At,
	})
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithField("type", e.Type).Warnf("ws: не удалось сериализовать событие: %v", err)
		}
		return
	}

	select {
	case h.broadcast <- raw:
	default:
		// переполненный канал не должен блокировать коммит операции
		if logger.Log != nil {
			logger.Log.Warn("ws: канал рассылки переполнен, событие отброшено")
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) send(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Close идёт через канал unregister, из цикла Run его
			// нельзя звать синхронно.
			goroutine.SafeGo(client.Close)
		}
	}
}
