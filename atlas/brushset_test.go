package atlas

import (
	"errors"
	"image"
	"testing"
)

func testRects() []Rect {
	return []Rect{
		{X: 0, Y: 0, W: 10, H: 10},
		{X: 20, Y: 0, W: 10, H: 10},
		{X: 40, Y: 0, W: 10, H: 10},
		{X: 60, Y: 0, W: 10, H: 10},
	}
}

func TestBrushSetLookup(t *testing.T) {
	s := NewBrushSet(testRects())
	if s.Len() != 4 {
		t.Fatalf("len = %d, want 4", s.Len())
	}
	r, ok := s.Rect(2)
	if !ok || r.X != 20 {
		t.Fatalf("Rect(2) = %+v, %v", r, ok)
	}
	if _, ok := s.Rect(0); ok {
		t.Fatalf("gid 0 must not resolve")
	}
	if _, ok := s.Rect(5); ok {
		t.Fatalf("out-of-range gid must not resolve")
	}
}

func TestMerge(t *testing.T) {
	s := NewBrushSet(testRects())
	remap, err := s.Merge([]int{2, 4})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("len after merge = %d, want 3", s.Len())
	}
	// union inserted at the first selected position
	union, _ := s.Rect(2)
	if union.X != 20 || union.W != 50 {
		t.Fatalf("union rect = %+v", union)
	}
	if remap[1] != 1 || remap[3] != 3 {
		t.Fatalf("unselected remap wrong: %v", remap)
	}
	if remap[2] != 2 || remap[4] != 2 {
		t.Fatalf("merged gids should map to the union: %v", remap)
	}
}

func TestMergeErrors(t *testing.T) {
	s := NewBrushSet(testRects())
	if _, err := s.Merge([]int{2}); err == nil {
		t.Fatalf("single-brush merge must fail")
	}
	if _, err := s.Merge([]int{1, 9}); !errors.Is(err, ErrUnknownBrush) {
		t.Fatalf("expected ErrUnknownBrush, got %v", err)
	}
	if s.Len() != 4 {
		t.Fatalf("failed merge must not mutate, len = %d", s.Len())
	}
}

func TestRemove(t *testing.T) {
	s := NewBrushSet(testRects())
	remap, err := s.Remove(2)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
	if remap[2] != 0 {
		t.Fatalf("removed gid should map to 0: %v", remap)
	}
	if remap[3] != 2 || remap[4] != 3 {
		t.Fatalf("compaction remap wrong: %v", remap)
	}
	if _, err := s.Remove(17); !errors.Is(err, ErrUnknownBrush) {
		t.Fatalf("expected ErrUnknownBrush, got %v", err)
	}
}

func TestReorder(t *testing.T) {
	s := NewBrushSet(testRects())
	remap, err := s.Reorder(1, 3)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	r, _ := s.Rect(3)
	if r.X != 0 {
		t.Fatalf("moved brush not at target: %+v", r)
	}
	if remap[1] != 3 || remap[2] != 1 || remap[3] != 2 || remap[4] != 4 {
		t.Fatalf("remap = %v", remap)
	}
	if _, err := s.Reorder(1, 99); !errors.Is(err, ErrUnknownBrush) {
		t.Fatalf("expected ErrUnknownBrush, got %v", err)
	}
}

func TestSeparateWithVerticalGap(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	fillRect(img, 0, 0, 12, 12)
	fillRect(img, 30, 0, 12, 12)

	// one brush deliberately spanning both blobs
	s := NewBrushSet([]Rect{{X: 0, Y: 0, W: 42, H: 12}})
	a := NewAnalyzer(32, 16)
	remap, err := s.Separate(1, img, a)
	if err != nil {
		t.Fatalf("separate: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len after separate = %d, want 2", s.Len())
	}
	if remap[1] != 1 {
		t.Fatalf("separated gid should map to first piece: %v", remap)
	}
	first, _ := s.Rect(1)
	second, _ := s.Rect(2)
	if first.X != 0 || second.X != 30 {
		t.Fatalf("piece rects wrong: %+v %+v", first, second)
	}
}

func TestSeparateSingleComponentNoop(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	fillRect(img, 0, 0, 12, 12)

	s := NewBrushSet([]Rect{{X: 0, Y: 0, W: 12, H: 12}})
	a := NewAnalyzer(32, 16)
	remap, err := s.Separate(1, img, a)
	if err != nil {
		t.Fatalf("separate: %v", err)
	}
	if remap != nil {
		t.Fatalf("single component should be a no-op, got %v", remap)
	}
	if s.Len() != 1 {
		t.Fatalf("no-op separate mutated the set: %d", s.Len())
	}
	if _, err := s.Separate(4, img, a); !errors.Is(err, ErrUnknownBrush) {
		t.Fatalf("expected ErrUnknownBrush, got %v", err)
	}
}

func TestPreserveOrder(t *testing.T) {
	prev := []Rect{{X: 10}, {X: 20}, {X: 30}}
	fresh := []Rect{{X: 30}, {X: 40}, {X: 10}}
	got := PreserveOrder(prev, fresh)
	want := []Rect{{X: 10}, {X: 30}, {X: 40}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTilesetCellRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 128, 64))
	ts := NewTileset(img, "ground.png", 32, 32)
	if ts.Columns != 4 || ts.Rows != 2 || ts.Count != 8 {
		t.Fatalf("metrics: %+v", ts)
	}
	r, ok := ts.CellRect(6)
	if !ok || r.X != 32 || r.Y != 32 {
		t.Fatalf("CellRect(6) = %+v, %v", r, ok)
	}
	if _, ok := ts.CellRect(0); ok {
		t.Fatalf("gid 0 must not resolve")
	}
	if _, ok := ts.CellRect(9); ok {
		t.Fatalf("gid past count must not resolve")
	}
}
