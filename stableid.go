package scribe

// StableIDIndex is a thin indirection layer over an InstancePool giving
// O(1) insert, update, and remove by an opaque logical id. Logical ids are
// monotonically increasing and never reused; physical slots are dense and
// reshuffled by swap-with-last removal, so only the ids are safe to hold
// externally.
//
// Invariant: every live id maps to a slot in [0, pool.Len()), and no two
// ids share a slot.
type StableIDIndex[T quadAttribs] struct {
	pool    *InstancePool[T]
	slots   map[uint32]int // logical id -> physical slot
	slotIDs []uint32       // physical slot -> logical id, parallel to the live region
	nextID  uint32
}

// NewStableIDIndex wraps the given pool. The index assumes exclusive
// ownership of the pool's slot layout; mixing direct pool removal with
// index operations breaks the id mapping.
func NewStableIDIndex[T quadAttribs](pool *InstancePool[T]) *StableIDIndex[T] {
	return &StableIDIndex[T]{
		pool:   pool,
		slots:  make(map[uint32]int),
		nextID: 1,
	}
}

// Len returns the number of live records.
func (s *StableIDIndex[T]) Len() int { return s.pool.Len() }

// Insert appends a record and returns its logical id. In fixed-ceiling
// mode a full pool returns ErrPoolFull.
func (s *StableIDIndex[T]) Insert(t Transform2D, a T) (uint32, error) {
	slot, err := s.pool.Add(t, a)
	if err != nil {
		return 0, err
	}
	id := s.nextID
	s.nextID++
	s.slots[id] = slot
	if slot < len(s.slotIDs) {
		s.slotIDs[slot] = id
	} else {
		s.slotIDs = append(s.slotIDs, id)
	}
	return id, nil
}

// Update overwrites the record for a logical id in place. Unknown ids are
// a no-op.
func (s *StableIDIndex[T]) Update(id uint32, t Transform2D, a T) {
	slot, ok := s.slots[id]
	if !ok {
		return
	}
	s.pool.Set(slot, t, a)
}

// Remove deletes the record for a logical id. The last live record is
// swapped into the freed slot and its mapping updated. Unknown ids —
// including double removals — are a no-op.
func (s *StableIDIndex[T]) Remove(id uint32) {
	slot, ok := s.slots[id]
	if !ok {
		return
	}
	moved, swapped := s.pool.RemoveSwap(slot)
	if swapped {
		movedID := s.slotIDs[moved]
		s.slotIDs[slot] = movedID
		s.slots[movedID] = slot
	}
	s.slotIDs = s.slotIDs[:s.pool.Len()]
	delete(s.slots, id)
}

// Contains reports whether the id is live.
func (s *StableIDIndex[T]) Contains(id uint32) bool {
	_, ok := s.slots[id]
	return ok
}

// Slot returns the current physical slot for a logical id. The slot is
// only valid until the next Remove.
func (s *StableIDIndex[T]) Slot(id uint32) (int, bool) {
	slot, ok := s.slots[id]
	return slot, ok
}

// Reset removes every record and resets the pool toward its baseline.
// Logical ids are never reused, so ids issued after a reset keep
// increasing.
func (s *StableIDIndex[T]) Reset() {
	s.pool.ResetToBaseline()
	clear(s.slots)
	s.slotIDs = s.slotIDs[:0]
}

// IDAt returns the logical id occupying a physical slot.
func (s *StableIDIndex[T]) IDAt(slot int) (uint32, bool) {
	if slot < 0 || slot >= s.pool.Len() {
		return 0, false
	}
	return s.slotIDs[slot], true
}
