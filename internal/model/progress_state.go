package model

import "sort"

// ItemKey identifies a checklist item for persistence. See itemkey.Derive.
type ItemKey string

// ProgressState maps item keys to completion. It is sparse: only completed
// items are present, and absence means "not completed".
type ProgressState map[ItemKey]bool

func NewProgressState() ProgressState {
	return ProgressState{}
}

func (s ProgressState) Completed(k ItemKey) bool {
	return s[k]
}

// Set marks k completed, or removes it. Setting false never stores a false entry.
func (s ProgressState) Set(k ItemKey, done bool) {
	if done {
		s[k] = true
		return
	}
	delete(s, k)
}

// Clear removes every entry in place.
func (s ProgressState) Clear() {
	for k := range s {
		delete(s, k)
	}
}

func (s ProgressState) Clone() ProgressState {
	out := make(ProgressState, len(s))
	for k, v := range s {
		if v {
			out[k] = true
		}
	}
	return out
}

// Keys returns the completed keys in sorted order.
func (s ProgressState) Keys() []ItemKey {
	out := make([]ItemKey, 0, len(s))
	for k, v := range s {
		if v {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
