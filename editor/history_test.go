package editor

import (
	"testing"

	"github.com/tidegrove/flaremap/tilemap"
)

func paint(m *tilemap.Map, x, y, gid int) {
	m.SetGID(m.LayerByType(tilemap.LayerBackground), x, y, gid)
}

func gidAt(m *tilemap.Map, x, y int) int {
	return m.GID(m.LayerByType(tilemap.LayerBackground), x, y)
}

func TestHistoryEmpty(t *testing.T) {
	m := tilemap.New(3, 3, 64, 32)
	h := NewHistory()
	if h.CanUndo() || h.CanRedo() {
		t.Fatalf("fresh history must have nothing to undo or redo")
	}
	if h.Undo(m) || h.Redo(m) {
		t.Fatalf("undo/redo on empty history must report false")
	}
}

func TestHistoryRedoInvalidatedByNewEdit(t *testing.T) {
	m := tilemap.New(3, 3, 64, 32)
	h := NewHistory()

	h.SaveState(m)
	paint(m, 0, 0, 1)
	h.SaveState(m)
	paint(m, 1, 0, 2)

	if !h.Undo(m) {
		t.Fatalf("undo failed")
	}
	if gidAt(m, 1, 0) != 0 || gidAt(m, 0, 0) != 1 {
		t.Fatalf("undo restored wrong state: %d %d", gidAt(m, 0, 0), gidAt(m, 1, 0))
	}
	if !h.CanRedo() {
		t.Fatalf("redo must be available after undo")
	}

	// a new edit discards the redo branch
	h.SaveState(m)
	paint(m, 2, 0, 3)
	if h.CanRedo() {
		t.Fatalf("new edit must invalidate redo history")
	}
}

func TestHistoryRestoreIsDeepCopy(t *testing.T) {
	m := tilemap.New(3, 3, 64, 32)
	h := NewHistory()

	h.SaveState(m)
	paint(m, 0, 0, 7)

	h.Undo(m)
	h.Redo(m)
	if gidAt(m, 0, 0) != 7 {
		t.Fatalf("redo lost the edit: %d", gidAt(m, 0, 0))
	}

	// mutating the live map must not corrupt stored snapshots
	paint(m, 0, 0, 9)
	h.Undo(m)
	if gidAt(m, 0, 0) != 0 {
		t.Fatalf("snapshot shared state with the live map: %d", gidAt(m, 0, 0))
	}
}
