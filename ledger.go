package treeview

// contact is the ledger entry for one active pointer.
type contact struct {
	pos Vec2
	seq uint64 // insertion order; lower is older
}

// PointerLedger tracks the last known position of every active contact.
// Entries are created on contact start, updated on every move, and removed
// on end or cancel. Moves and ends for ids that are not tracked are no-ops.
type PointerLedger struct {
	contacts map[PointerID]contact
	order    []PointerID // ids in age order, oldest first
	nextSeq  uint64
}

// NewPointerLedger returns an empty ledger.
func NewPointerLedger() *PointerLedger {
	return &PointerLedger{contacts: make(map[PointerID]contact)}
}

// Start records a new contact at pos. Starting an id that is already tracked
// overwrites its position but keeps its age.
func (l *PointerLedger) Start(id PointerID, pos Vec2) {
	if c, ok := l.contacts[id]; ok {
		c.pos = pos
		l.contacts[id] = c
		return
	}
	l.nextSeq++
	l.contacts[id] = contact{pos: pos, seq: l.nextSeq}
	l.order = append(l.order, id)
}

// Move updates the position of a tracked contact and returns the position it
// had before. ok is false, and nothing changes, if id is not tracked.
func (l *PointerLedger) Move(id PointerID, pos Vec2) (prev Vec2, ok bool) {
	c, ok := l.contacts[id]
	if !ok {
		return Vec2{}, false
	}
	prev = c.pos
	c.pos = pos
	l.contacts[id] = c
	return prev, true
}

// End removes a contact. Unknown ids are ignored. Reports whether an entry
// was removed.
func (l *PointerLedger) End(id PointerID) bool {
	if _, ok := l.contacts[id]; !ok {
		return false
	}
	delete(l.contacts, id)
	for i, oid := range l.order {
		if oid == id {
			copy(l.order[i:], l.order[i+1:])
			l.order = l.order[:len(l.order)-1]
			break
		}
	}
	return true
}

// Count returns the number of active contacts.
func (l *PointerLedger) Count() int {
	return len(l.contacts)
}

// PositionOf returns the last known position of id.
func (l *PointerLedger) PositionOf(id PointerID) (Vec2, bool) {
	c, ok := l.contacts[id]
	return c.pos, ok
}

// OtherThan returns the oldest active contact whose id differs from id.
// The choice only changes when the contact set changes.
func (l *PointerLedger) OtherThan(id PointerID) (PointerID, Vec2, bool) {
	for _, oid := range l.order {
		if oid != id {
			return oid, l.contacts[oid].pos, true
		}
	}
	return 0, Vec2{}, false
}

// Oldest appends up to n ids, oldest first, to buf and returns it.
func (l *PointerLedger) Oldest(n int, buf []PointerID) []PointerID {
	if n > len(l.order) {
		n = len(l.order)
	}
	return append(buf, l.order[:n]...)
}

// Reset drops every contact.
func (l *PointerLedger) Reset() {
	clear(l.contacts)
	l.order = l.order[:0]
}
