package mibi

// WindowSet holds integration windows as parallel slices, Lows sorted
// ascending. CalcIntensity marks the windows whose intensity planes are
// accumulated; nil means counts only.
type WindowSet struct {
	Lows          []uint16
	Highs         []uint16
	CalcIntensity []bool
}

// lowerBound returns the index of the first entry of lows >= t, or
// len(lows) when every entry is smaller.
func lowerBound(lows []uint16, t uint16) int {
	lo, hi := 0, len(lows)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if lows[mid] < t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Classify maps a pulse time to its window index, or -1 when the time
// belongs to no window. The candidate is always the window below the
// lower-bound position, so a time below every low bound is unassigned and
// a time beyond the last high bound is rejected by the inclusive check.
// A time maps to at most one window.
func (w WindowSet) Classify(t uint16) int {
	i := lowerBound(w.Lows, t)
	if i == 0 {
		return -1
	}
	if t <= w.Highs[i-1] {
		return i - 1
	}
	return -1
}
