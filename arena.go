package sakura

// PetalID is a stable handle into a PetalArena. The zero value is NoPetal.
type PetalID uint32

// NoPetal is the handle of an unassigned coordinate.
const NoPetal PetalID = 0

// PetalArena stores petals in a slice with a free list so handles stay valid
// while other petals are released.
type PetalArena struct {
	slots []arenaSlot
	free  []uint32
	live  int
}

type arenaSlot struct {
	petal Petal
	used  bool
}

// Alloc stores p and returns its handle.
func (a *PetalArena) Alloc(p Petal) PetalID {
	a.live++
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[i] = arenaSlot{petal: p, used: true}
		return PetalID(i + 1)
	}
	a.slots = append(a.slots, arenaSlot{petal: p, used: true})
	return PetalID(len(a.slots))
}

// Get returns the petal for id, or nil when id is NoPetal or released.
func (a *PetalArena) Get(id PetalID) *Petal {
	if id == NoPetal || int(id) > len(a.slots) {
		return nil
	}
	s := &a.slots[id-1]
	if !s.used {
		return nil
	}
	return &s.petal
}

// Release frees the slot for id. Releasing an unknown handle is a no-op.
func (a *PetalArena) Release(id PetalID) {
	if a.Get(id) == nil {
		return
	}
	a.slots[id-1] = arenaSlot{}
	a.free = append(a.free, uint32(id-1))
	a.live--
}

// Len returns the number of live petals.
func (a *PetalArena) Len() int {
	return a.live
}

// Reset releases every petal.
func (a *PetalArena) Reset() {
	a.slots = a.slots[:0]
	a.free = a.free[:0]
	a.live = 0
}

// Each calls fn for every live petal in slot order.
func (a *PetalArena) Each(fn func(id PetalID, p *Petal)) {
	for i := range a.slots {
		if a.slots[i].used {
			fn(PetalID(i+1), &a.slots[i].petal)
		}
	}
}
