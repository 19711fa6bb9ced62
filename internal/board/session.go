package board

// Session aggregates the shared state of one collaboration room: the
// entity store, the draw lock, and the presence registry. It is built per
// room (and per test) rather than held as process-wide state; the event
// router is its sole mutator.
type Session struct {
	Store    *Store
	Lock     *DrawLock
	Presence *Presence
}

// NewSession creates a fresh, empty session.
func NewSession() *Session {
	return &Session{
		Store:    NewStore(),
		Lock:     NewDrawLock(),
		Presence: NewPresence(),
	}
}
