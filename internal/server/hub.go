package server

import (
	"sync"
)

// hub fans encoded readings out to stream clients. Each client holds at
// most one pending message; a newer reading replaces an unsent one.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	send chan []byte
}

func newHub() *hub {
	return &hub{clients: make(map[*client]struct{})}
}

func (h *hub) add() *client {
	c := &client{send: make(chan []byte, 1)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast never blocks. It returns how many stale messages were replaced.
func (h *hub) broadcast(msg []byte) (dropped int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
			continue
		default:
		}

		// Replace the pending message with the newer one.
		select {
		case <-c.send:
			dropped++
		default:
		}
		select {
		case c.send <- msg:
		default:
		}
	}

	return dropped
}
