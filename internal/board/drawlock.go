package board

// DrawLock arbitrates which connection may stream live freehand points.
// It is a two-state machine: free, or held by exactly one connection.
// There is no queueing or fairness; a denied requester simply retries.
// Any lease/expiry policy would live behind Request/Release without the
// router needing to change.
type DrawLock struct {
	owner string
}

// NewDrawLock returns a lock in the free state.
func NewDrawLock() *DrawLock {
	return &DrawLock{}
}

// Request grants the lock to connID if it is free. A request while held is
// denied, including a repeat request from the current holder.
func (l *DrawLock) Request(connID string) bool {
	if l.owner != "" {
		return false
	}
	l.owner = connID
	return true
}

// Release frees the lock if connID is the current holder and reports
// whether state changed. A release from a non-holder, or when already
// free, is a no-op so a stale release can never evict a legitimate hold.
func (l *DrawLock) Release(connID string) bool {
	if l.owner == "" || l.owner != connID {
		return false
	}
	l.owner = ""
	return true
}

// Held reports whether any connection holds the lock.
func (l *DrawLock) Held() bool {
	return l.owner != ""
}

// Owner returns the holding connection id, or "" when free.
func (l *DrawLock) Owner() string {
	return l.owner
}
