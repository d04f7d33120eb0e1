package layout

// Stabilize orders windows by a remembered order. Windows named in order come
// first, in that order; windows the order does not know yet follow in their
// input order. Identifiers in order that are no longer present are skipped.
// The result is always a permutation of windows.
func Stabilize(windows []Window, order []WindowID) []Window {
	if len(windows) == 0 {
		return nil
	}

	byID := make(map[WindowID]int, len(windows))
	for i, w := range windows {
		if _, dup := byID[w.ID]; !dup {
			byID[w.ID] = i
		}
	}

	ordered := make([]Window, 0, len(windows))
	emitted := make(map[WindowID]bool, len(windows))
	for _, id := range order {
		i, ok := byID[id]
		if !ok || emitted[id] {
			continue
		}
		ordered = append(ordered, windows[i])
		emitted[id] = true
	}
	for _, w := range windows {
		if emitted[w.ID] {
			continue
		}
		ordered = append(ordered, w)
		emitted[w.ID] = true
	}
	return ordered
}

// Reconcile computes the next remembered order after the host reports a new
// window list.
//
// When membership is unchanged the old order wins, unless the new list is the
// old one with exactly two entries swapped: focus changes make hosts report
// the same windows in a different order, and tiling must not follow them.
// When membership changed, surviving windows keep their relative order and
// new windows are appended in the order reported.
func Reconcile(newIDs, oldOrder []WindowID) []WindowID {
	if sameMembers(newIDs, oldOrder) {
		if IsExactSwap(oldOrder, newIDs) {
			return cloneIDs(newIDs)
		}
		return cloneIDs(oldOrder)
	}

	present := make(map[WindowID]bool, len(newIDs))
	for _, id := range newIDs {
		present[id] = true
	}

	next := make([]WindowID, 0, len(newIDs))
	seen := make(map[WindowID]bool, len(newIDs))
	for _, id := range oldOrder {
		if present[id] && !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	for _, id := range newIDs {
		if !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	return next
}

// IsExactSwap reports whether b equals a with exactly one pair of positions
// exchanged.
func IsExactSwap(a, b []WindowID) bool {
	if len(a) != len(b) {
		return false
	}
	first, second := -1, -1
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		switch {
		case first < 0:
			first = i
		case second < 0:
			second = i
		default:
			return false
		}
	}
	if second < 0 {
		return false
	}
	return a[first] == b[second] && a[second] == b[first]
}

// IDs returns the identifiers of windows in order.
func IDs(windows []Window) []WindowID {
	ids := make([]WindowID, len(windows))
	for i, w := range windows {
		ids[i] = w.ID
	}
	return ids
}

// sameMembers reports whether the new list has the old length and every old
// identifier is in it.
func sameMembers(newIDs, oldOrder []WindowID) bool {
	if len(newIDs) != len(oldOrder) {
		return false
	}
	set := make(map[WindowID]bool, len(newIDs))
	for _, id := range newIDs {
		set[id] = true
	}
	for _, id := range oldOrder {
		if !set[id] {
			return false
		}
	}
	return true
}

func cloneIDs(ids []WindowID) []WindowID {
	if ids == nil {
		return nil
	}
	out := make([]WindowID, len(ids))
	copy(out, ids)
	return out
}
