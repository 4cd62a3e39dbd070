package editor

import "github.com/tidegrove/flaremap/tilemap"

// maxHistory bounds the snapshot list; the oldest entry is evicted past it.
const maxHistory = 50

// Snapshot is an immutable deep copy of the undoable model state.
type Snapshot struct {
	Layers  []*tilemap.Layer
	Objects []*tilemap.MapObject
}

func capture(m *tilemap.Map) *Snapshot {
	return &Snapshot{
		Layers:  tilemap.CloneLayers(m.Layers),
		Objects: tilemap.CloneObjects(m.Objects),
	}
}

func (s *Snapshot) restore(m *tilemap.Map) {
	m.Restore(tilemap.CloneLayers(s.Layers), tilemap.CloneObjects(s.Objects))
}

// History is a linear undo/redo list of full-state snapshots. SaveState is
// called before each mutating action; index is the number of past states.
// The restoring flag keeps SaveState from firing while a restore is applying
// (there is only one thread, a flag is enough).
type History struct {
	states    []*Snapshot
	index     int
	restoring bool
}

func NewHistory() *History {
	return &History{}
}

// SaveState records the current model state as the next undo step. Any redo
// entries beyond the index are discarded; the oldest entry is evicted once
// the list exceeds its cap.
func (h *History) SaveState(m *tilemap.Map) {
	if h.restoring {
		return
	}
	h.states = h.states[:h.index]
	h.states = append(h.states, capture(m))
	if len(h.states) > maxHistory {
		h.states = h.states[1:]
	}
	h.index = len(h.states)
}

// CanUndo reports whether an undo step exists.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether a redo step exists.
func (h *History) CanRedo() bool { return h.index+1 < len(h.states) }

// Undo steps back one snapshot. The live state is stashed on the first undo
// from the tip so Redo can return to it.
func (h *History) Undo(m *tilemap.Map) bool {
	if h.index == 0 {
		return false
	}
	h.restoring = true
	defer func() { h.restoring = false }()
	if h.index == len(h.states) {
		h.states = append(h.states, capture(m))
	}
	h.index--
	h.states[h.index].restore(m)
	return true
}

// Redo steps forward one snapshot.
func (h *History) Redo(m *tilemap.Map) bool {
	if h.index+1 >= len(h.states) {
		return false
	}
	h.restoring = true
	defer func() { h.restoring = false }()
	h.index++
	h.states[h.index].restore(m)
	return true
}

// Depth returns the number of retrievable undo steps.
func (h *History) Depth() int { return h.index }
