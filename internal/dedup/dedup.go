// Package dedup tracks which message UIDs have already been observed so a
// message is never notified twice within a process lifetime.
package dedup

// Tracker is a memory-only set of observed UIDs. It is owned and mutated by
// a single goroutine, so it carries no locking. Entries are never removed;
// the set lives only as long as the process.
type Tracker struct {
	uids map[uint32]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{uids: make(map[uint32]struct{})}
}

// Contains reports whether uid has been marked as observed.
func (t *Tracker) Contains(uid uint32) bool {
	_, ok := t.uids[uid]
	return ok
}

// MarkSeen records uid as observed. Marking an already-marked uid changes
// nothing.
func (t *Tracker) MarkSeen(uid uint32) {
	t.uids[uid] = struct{}{}
}

// Count returns the number of observed uids.
func (t *Tracker) Count() int {
	return len(t.uids)
}
