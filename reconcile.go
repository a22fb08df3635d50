package sakura

// Coordinate is one sampled mask cell and the petal that renders it.
type Coordinate struct {
	X, Y             int
	CarriedOver      bool
	MarkedForRemoval bool
	// Petal is the arena handle of the owning petal; NoPetal until assigned.
	Petal PetalID
}

// Delta summarizes one reconcile pass.
type Delta struct {
	Carried int // previous coordinates still covered
	Added   int // coordinates created for uncovered ink
	Removed int // coordinates newly marked for removal
}

// Changed reports whether the pass created or removed anything.
func (d Delta) Changed() bool {
	return d.Added > 0 || d.Removed > 0
}

// Reconcile maps the previous coordinate set onto mask. Covered coordinates
// are carried over and consume their cell; uncovered ones are marked for
// removal but kept; every unconsumed inked cell becomes a new coordinate.
// Coordinates already marked for removal are kept as they are and still
// consume their cell, so no two coordinates share a position; the cell gets
// a fresh coordinate on the first pass after Prune drops the dying one.
// mask is not modified.
//
// The returned slice reuses dst's storage; prev and dst must not overlap.
func Reconcile(dst []Coordinate, mask *Mask, prev []Coordinate) ([]Coordinate, Delta) {
	var d Delta
	dst = dst[:0]

	free := mask.Clone()
	for _, c := range prev {
		if c.MarkedForRemoval {
			c.CarriedOver = false
			free.Set(c.X, c.Y, false)
			dst = append(dst, c)
			continue
		}
		if free.At(c.X, c.Y) {
			c.CarriedOver = true
			free.Set(c.X, c.Y, false)
			d.Carried++
		} else {
			c.CarriedOver = false
			c.MarkedForRemoval = true
			d.Removed++
		}
		dst = append(dst, c)
	}

	for y := 0; y < free.H; y++ {
		row := free.Bits[y*free.W : (y+1)*free.W]
		for x, on := range row {
			if on {
				dst = append(dst, Coordinate{X: x, Y: y})
				d.Added++
			}
		}
	}
	return dst, d
}

// Prune drops coordinates marked for removal whose petal is gone, compacting
// coords in place.
func Prune(coords []Coordinate, gone func(PetalID) bool) []Coordinate {
	out := coords[:0]
	for _, c := range coords {
		if c.MarkedForRemoval && gone(c.Petal) {
			continue
		}
		out = append(out, c)
	}
	return out
}
