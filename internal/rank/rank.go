// Package rank maintains dense, zero-based orderings of rows.
package rank

// Clamp bounds index to [0, n].
func Clamp(index, n int) int {
	if index < 0 {
		return 0
	}
	if index > n {
		return n
	}
	return index
}

// Splice removes id from ids (if present) and inserts it at index, clamped
// to the length of the remaining list. It returns the new ordering and the
// index id ended up at. ids is not modified.
func Splice(ids []uint, id uint, index int) ([]uint, int) {
	out := Remove(ids, id)
	at := Clamp(index, len(out))
	out = append(out, 0)
	copy(out[at+1:], out[at:])
	out[at] = id
	return out, at
}

// Remove returns ids without id.
func Remove(ids []uint, id uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Dense reports whether positions is a permutation of 0..len-1.
func Dense(positions []int) bool {
	seen := make([]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(positions) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}
