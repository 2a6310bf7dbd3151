package relay

import (
	"sync"

	"github.com/google/uuid"
)

// ClientRecord is the relay's view of one connected peer.
type ClientRecord struct {
	ID         uuid.UUID
	Name       string
	Host       bool
	Registered bool
	Addr       string

	conn *peerConn
}

// Roster keeps connected peers in accept order. Only the dispatcher mutates
// it; the lock exists for snapshot readers.
type Roster struct {
	mu      sync.RWMutex
	clients []*ClientRecord
}

func (r *Roster) add(c *ClientRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = append(r.clients, c)
}

func (r *Roster) remove(id uuid.UUID) *ClientRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.clients {
		if c.ID == id {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			return c
		}
	}
	return nil
}

func (r *Roster) register(id uuid.UUID, name string, host bool) *ClientRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.ID == id {
			c.Name = name
			c.Host = host
			c.Registered = true
			return c
		}
	}
	return nil
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Names lists registered names in accept order.
func (r *Roster) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for _, c := range r.clients {
		if c.Registered {
			names = append(names, c.Name)
		}
	}
	return names
}

// recipients returns every record except the one with id.
func (r *Roster) recipients(except uuid.UUID) []*ClientRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ClientRecord, 0, len(r.clients))
	for _, c := range r.clients {
		if c.ID != except {
			out = append(out, c)
		}
	}
	return out
}

// Snapshot copies the records without their connections.
func (r *Roster) Snapshot() []ClientRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ClientRecord, len(r.clients))
	for i, c := range r.clients {
		out[i] = *c
		out[i].conn = nil
	}
	return out
}
