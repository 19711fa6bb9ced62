package board

// FallbackName is announced when a draw request races ahead of the join
// event for the same connection. The announcement path must never fail
// just because no name was recorded yet.
const FallbackName = "Someone"

// Presence maps live connections to display names. Its domain is always a
// subset of open connections; entries are removed exactly on disconnect.
type Presence struct {
	names map[string]string
}

// NewPresence creates an empty registry.
func NewPresence() *Presence {
	return &Presence{names: make(map[string]string)}
}

// Join records or overwrites the display name for a connection. A
// connection may rejoin under a new name.
func (p *Presence) Join(connID, name string) {
	p.names[connID] = name
}

// NameOf returns the recorded name, or FallbackName if absent.
func (p *Presence) NameOf(connID string) string {
	if name, ok := p.names[connID]; ok {
		return name
	}
	return FallbackName
}

// Known reports whether a name is recorded for the connection.
func (p *Presence) Known(connID string) bool {
	_, ok := p.names[connID]
	return ok
}

// Leave removes the entry; called unconditionally on disconnect.
func (p *Presence) Leave(connID string) {
	delete(p.names, connID)
}

// Size returns the number of registered connections.
func (p *Presence) Size() int {
	return len(p.names)
}
