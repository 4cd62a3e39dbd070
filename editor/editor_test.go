package editor

import (
	"image"
	"image/color"
	"reflect"
	"testing"
	"time"

	"github.com/tidegrove/flaremap/tilemap"
)

func newTestEditor() *Editor {
	return New(5, 5, 64, 32, 800)
}

func click(e *Editor, x, y int, b Button) {
	sx, sy := e.Camera.MapToScreen(x, y)
	e.PointerDown(sx, sy, b, Modifiers{})
	e.PointerUp(sx, sy, b)
}

func dragTo(e *Editor, x, y int) {
	sx, sy := e.Camera.MapToScreen(x, y)
	e.PointerMove(sx, sy)
}

func background(e *Editor) *tilemap.Layer {
	return e.Map.LayerByType(tilemap.LayerBackground)
}

func TestBrushNoopWithoutActiveGID(t *testing.T) {
	e := newTestEditor()
	click(e, 2, 2, ButtonLeft)
	if got := e.Map.GID(background(e), 2, 2); got != 0 {
		t.Fatalf("painted %d with no brush selected", got)
	}
	if e.History.CanUndo() {
		t.Fatalf("no-op click must not record history")
	}
}

func TestBrushPaintAndDrag(t *testing.T) {
	e := newTestEditor()
	e.SetActiveGID(3)
	sx, sy := e.Camera.MapToScreen(1, 1)
	e.PointerDown(sx, sy, ButtonLeft, Modifiers{})
	dragTo(e, 2, 1)
	dragTo(e, 3, 1)
	e.PointerUp(sx, sy, ButtonLeft)

	l := background(e)
	for x := 1; x <= 3; x++ {
		if got := e.Map.GID(l, x, 1); got != 3 {
			t.Fatalf("cell (%d,1) = %d, want 3", x, got)
		}
	}
	if e.History.Depth() != 1 {
		t.Fatalf("one stroke must be one history step, got %d", e.History.Depth())
	}
}

func TestRightClickErases(t *testing.T) {
	e := newTestEditor()
	l := background(e)
	e.Map.SetGID(l, 2, 2, 5)
	e.SetActiveGID(5)
	click(e, 2, 2, ButtonRight)
	if got := e.Map.GID(l, 2, 2); got != 0 {
		t.Fatalf("right click should erase, got %d", got)
	}
}

func TestBucketFillCross(t *testing.T) {
	e := newTestEditor()
	l := background(e)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			e.Map.SetGID(l, x, y, 2)
		}
	}
	cross := []Cell{{2, 1}, {1, 2}, {2, 2}, {3, 2}, {2, 3}}
	for _, c := range cross {
		e.Map.SetGID(l, c.X, c.Y, 3)
	}

	e.SetTileTool(TileBucket)
	e.SetActiveGID(7)
	click(e, 2, 2, ButtonLeft)

	inCross := func(x, y int) bool {
		for _, c := range cross {
			if c.X == x && c.Y == y {
				return true
			}
		}
		return false
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := 2
			if inCross(x, y) {
				want = 7
			}
			if got := e.Map.GID(l, x, y); got != want {
				t.Fatalf("cell (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestBucketFillSameGIDNoop(t *testing.T) {
	e := newTestEditor()
	e.SetTileTool(TileBucket)
	e.SetActiveGID(2)
	l := background(e)
	e.Map.SetGID(l, 2, 2, 2)
	click(e, 2, 2, ButtonLeft)
	if e.History.CanUndo() {
		t.Fatalf("filling with the cell's own gid must be a no-op")
	}
}

func snapshotOf(m *tilemap.Map) ([]*tilemap.Layer, []*tilemap.MapObject) {
	return tilemap.CloneLayers(m.Layers), tilemap.CloneObjects(m.Objects)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := newTestEditor()
	e.Map.SetHero(4, 0) // keep the hero off the painted diagonal
	enemies := e.Map.LayerByType(tilemap.LayerEnemy)
	e.SetActiveLayer(enemies.ID)

	initialLayers, initialObjects := snapshotOf(e.Map)

	const n = 5
	for i := 0; i < n; i++ {
		e.SetActiveGID(i + 1)
		click(e, i, i, ButtonLeft)
	}
	finalLayers, finalObjects := snapshotOf(e.Map)
	if len(e.Map.Objects) != n {
		t.Fatalf("expected %d enemy objects, got %d", n, len(e.Map.Objects))
	}

	for i := 0; i < n; i++ {
		if !e.Undo() {
			t.Fatalf("undo %d failed", i+1)
		}
	}
	gotLayers, gotObjects := snapshotOf(e.Map)
	if !reflect.DeepEqual(gotLayers, initialLayers) {
		t.Fatalf("layers not restored to initial state")
	}
	if !reflect.DeepEqual(gotObjects, initialObjects) {
		t.Fatalf("objects not restored to initial state")
	}

	for i := 0; i < n; i++ {
		if !e.Redo() {
			t.Fatalf("redo %d failed", i+1)
		}
	}
	gotLayers, gotObjects = snapshotOf(e.Map)
	if !reflect.DeepEqual(gotLayers, finalLayers) {
		t.Fatalf("layers not restored to final state")
	}
	if !reflect.DeepEqual(gotObjects, finalObjects) {
		t.Fatalf("objects not restored to final state")
	}
}

func TestHistoryCapAtFifty(t *testing.T) {
	e := newTestEditor()
	e.SetActiveGID(1)
	for i := 0; i < 60; i++ {
		e.SetActiveGID(i%3 + 1)
		click(e, i%5, (i/5)%5, ButtonLeft)
	}
	if got := e.History.Depth(); got != 50 {
		t.Fatalf("history depth = %d, want 50", got)
	}
	undos := 0
	for e.Undo() {
		undos++
	}
	if undos != 50 {
		t.Fatalf("performed %d undos, want 50", undos)
	}
}

func TestEyedropper(t *testing.T) {
	e := newTestEditor()
	e.Map.SetGID(background(e), 2, 2, 6)
	e.SetMode(ModeEyedropper)
	click(e, 2, 2, ButtonLeft)
	if got := e.ActiveGID(); got != 6 {
		t.Fatalf("sampled gid = %d, want 6", got)
	}
	if e.Mode() != ModeTiles || e.TileTool() != TileBrush {
		t.Fatalf("eyedropper must revert to tiles/brush, got %s/%s", e.Mode(), e.TileTool())
	}

	// empty cell: no-op, mode stays
	e.SetMode(ModeEyedropper)
	click(e, 4, 4, ButtonLeft)
	if e.Mode() != ModeEyedropper {
		t.Fatalf("sampling an empty cell must not change mode")
	}
}

func TestShapeLineCommit(t *testing.T) {
	e := newTestEditor()
	e.Map.SetHero(4, 0) // presses at (0,0) must reach the shape tool, not the hero
	e.SetMode(ModeShape)
	e.SetShapeTool(ShapeLine)
	e.SetActiveGID(9)

	sx, sy := e.Camera.MapToScreen(0, 0)
	e.PointerDown(sx, sy, ButtonLeft, Modifiers{})
	dragTo(e, 4, 4)
	ux, uy := e.Camera.MapToScreen(4, 4)
	e.PointerUp(ux, uy, ButtonLeft)

	l := background(e)
	painted := 0
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if e.Map.GID(l, x, y) == 9 {
				painted++
				if x != y {
					t.Fatalf("line painted off-diagonal cell (%d,%d)", x, y)
				}
			}
		}
	}
	if painted != 5 {
		t.Fatalf("diagonal line painted %d cells, want 5", painted)
	}
	if len(e.ShapePreview()) != 0 {
		t.Fatalf("preview must clear after commit")
	}
}

func TestShapeRectangleBorderOnly(t *testing.T) {
	e := newTestEditor()
	e.Map.SetHero(4, 0)
	e.SetMode(ModeShape)
	e.SetShapeTool(ShapeRectangle)
	e.SetActiveGID(4)

	sx, sy := e.Camera.MapToScreen(0, 0)
	e.PointerDown(sx, sy, ButtonLeft, Modifiers{})
	dragTo(e, 3, 3)
	ux, uy := e.Camera.MapToScreen(3, 3)
	e.PointerUp(ux, uy, ButtonLeft)

	l := background(e)
	if got := e.Map.GID(l, 1, 1); got != 0 {
		t.Fatalf("rectangle interior must stay empty, got %d", got)
	}
	for _, c := range []Cell{{0, 0}, {3, 0}, {0, 3}, {3, 3}, {2, 0}, {0, 2}} {
		if got := e.Map.GID(l, c.X, c.Y); got != 4 {
			t.Fatalf("border cell (%d,%d) = %d, want 4", c.X, c.Y, got)
		}
	}
}

func TestShapeWithoutGIDDoesNotCommit(t *testing.T) {
	e := newTestEditor()
	e.Map.SetHero(4, 4)
	e.SetMode(ModeShape)
	e.SetShapeTool(ShapeLine)

	sx, sy := e.Camera.MapToScreen(0, 0)
	e.PointerDown(sx, sy, ButtonLeft, Modifiers{})
	dragTo(e, 4, 0)
	ux, uy := e.Camera.MapToScreen(4, 0)
	e.PointerUp(ux, uy, ButtonLeft)

	l := background(e)
	for x := 0; x < 5; x++ {
		if got := e.Map.GID(l, x, 0); got != 0 {
			t.Fatalf("shape committed without a selected gid at (%d,0): %d", x, got)
		}
	}
}

func TestSameTileSelectAndDelete(t *testing.T) {
	e := newTestEditor()
	l := background(e)
	for _, c := range []Cell{{0, 0}, {3, 1}, {4, 4}} {
		e.Map.SetGID(l, c.X, c.Y, 5)
	}
	e.Map.SetGID(l, 2, 2, 8)

	e.SetMode(ModeSelection)
	e.SetSelectionTool(SelectSameTile)
	click(e, 3, 1, ButtonLeft)

	sel := e.CurrentSelection()
	if !sel.Active || len(sel.Tiles) != 3 {
		t.Fatalf("same-tile selection = %+v, want 3 active tiles", sel)
	}

	e.KeyDown(KeyDelete, Modifiers{})
	for _, c := range []Cell{{0, 0}, {3, 1}, {4, 4}} {
		if got := e.Map.GID(l, c.X, c.Y); got != 0 {
			t.Fatalf("selected cell (%d,%d) not deleted: %d", c.X, c.Y, got)
		}
	}
	if got := e.Map.GID(l, 2, 2); got != 8 {
		t.Fatalf("unselected cell must survive delete, got %d", got)
	}
	if e.CurrentSelection().Active {
		t.Fatalf("selection must clear after delete")
	}
}

func TestMagicWandSelectsConnectedRegion(t *testing.T) {
	e := newTestEditor()
	e.Map.SetHero(4, 0)
	l := background(e)
	// two disconnected regions of the same gid
	for _, c := range []Cell{{0, 0}, {1, 0}, {0, 1}} {
		e.Map.SetGID(l, c.X, c.Y, 5)
	}
	e.Map.SetGID(l, 4, 4, 5)

	e.SetMode(ModeSelection)
	e.SetSelectionTool(SelectMagicWand)
	click(e, 0, 0, ButtonLeft)

	sel := e.CurrentSelection()
	if len(sel.Tiles) != 3 {
		t.Fatalf("wand selected %d cells, want the 3 connected ones", len(sel.Tiles))
	}
	for _, st := range sel.Tiles {
		if st.X == 4 && st.Y == 4 {
			t.Fatalf("wand crossed a disconnected region")
		}
	}
}

func TestRectangularSelectionDrag(t *testing.T) {
	e := newTestEditor()
	e.SetMode(ModeSelection)
	sx, sy := e.Camera.MapToScreen(1, 1)
	e.PointerDown(sx, sy, ButtonLeft, Modifiers{})
	dragTo(e, 3, 2)
	ux, uy := e.Camera.MapToScreen(3, 2)
	e.PointerUp(ux, uy, ButtonLeft)

	sel := e.CurrentSelection()
	if !sel.Active || len(sel.Tiles) != 6 {
		t.Fatalf("3x2 rectangular selection has %d tiles, want 6", len(sel.Tiles))
	}

	// right click clears
	click(e, 2, 2, ButtonRight)
	if e.CurrentSelection().Active {
		t.Fatalf("right click must clear the selection")
	}
}

func TestSelectAllAndEscape(t *testing.T) {
	e := newTestEditor()
	e.KeyDown(KeyA, Modifiers{Ctrl: true})
	if got := len(e.CurrentSelection().Tiles); got != 25 {
		t.Fatalf("select-all covered %d cells, want 25", got)
	}
	e.KeyDown(KeyEscape, Modifiers{})
	if e.CurrentSelection().Active {
		t.Fatalf("escape must clear the selection")
	}
}

func TestStampCaptureAndPlace(t *testing.T) {
	e := newTestEditor()
	l := background(e)
	e.Map.SetGID(l, 1, 1, 4)
	e.Map.SetGID(l, 2, 1, 5)

	e.SetMode(ModeStamp)
	e.SetStampTool(StampCreate)
	sx, sy := e.Camera.MapToScreen(1, 1)
	e.PointerDown(sx, sy, ButtonLeft, Modifiers{})
	dragTo(e, 2, 1)
	ux, uy := e.Camera.MapToScreen(2, 1)
	e.PointerUp(ux, uy, ButtonLeft)

	if !e.PendingCapture() {
		t.Fatalf("capture drag must leave a pending pattern")
	}
	s := e.FinishStampCapture("wall piece")
	if s == nil || s.Width != 2 || s.Height != 1 || len(s.Tiles) != 2 {
		t.Fatalf("captured stamp = %+v", s)
	}

	e.SetStampTool(StampPlace)
	click(e, 3, 3, ButtonLeft)
	if got := e.Map.GID(l, 3, 3); got != 4 {
		t.Fatalf("placed cell (3,3) = %d, want 4", got)
	}
	if got := e.Map.GID(l, 4, 3); got != 5 {
		t.Fatalf("placed cell (4,3) = %d, want 5", got)
	}

	if err := e.PlaceStamp(s, 4, 4); err == nil {
		t.Fatalf("out-of-bounds placement must be rejected")
	}
	if got := e.Map.GID(l, 4, 4); got != 0 {
		t.Fatalf("rejected placement must not write, got %d", got)
	}
}

func twoBlobTileset() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for _, origin := range []Cell{{0, 0}, {30, 0}} {
		for y := origin.Y; y < origin.Y+10; y++ {
			for x := origin.X; x < origin.X+10; x++ {
				img.Set(x, y, color.RGBA{R: 120, G: 80, B: 40, A: 255})
			}
		}
	}
	return img
}

func TestRemoveBrushRemapsPaintedCells(t *testing.T) {
	e := newTestEditor()
	if err := e.LoadTileset(tilemap.LayerBackground, twoBlobTileset(), "tiles.png"); err != nil {
		t.Fatalf("load tileset: %v", err)
	}
	s := e.BrushSet(tilemap.LayerBackground)
	if s == nil || s.Len() != 2 {
		t.Fatalf("expected 2 detected brushes, got %v", s)
	}

	l := background(e)
	e.Map.SetGID(l, 0, 0, 1)
	e.Map.SetGID(l, 1, 0, 2)
	e.SetActiveGID(2)

	if err := e.RemoveBrush(tilemap.LayerBackground, 1); err != nil {
		t.Fatalf("remove brush: %v", err)
	}
	if got := e.Map.GID(l, 0, 0); got != 0 {
		t.Fatalf("cells holding the removed brush must clear, got %d", got)
	}
	if got := e.Map.GID(l, 1, 0); got != 1 {
		t.Fatalf("surviving brush must renumber to 1 in the grid, got %d", got)
	}
	if got := e.ActiveGID(); got != 1 {
		t.Fatalf("active gid must follow the renumbering, got %d", got)
	}
}

func TestRestoreSessionAppliesTileSize(t *testing.T) {
	e := newTestEditor()
	src := tilemap.New(8, 8, 128, 64)
	e.RestoreSession(8, 8, 128, src.Layers, nil, 2, 3)

	if e.Map.TileW != 128 || e.Map.TileH != 64 {
		t.Fatalf("map tile size = %dx%d, want 128x64", e.Map.TileW, e.Map.TileH)
	}
	if e.Camera.TileW != 128 || e.Camera.TileH != 64 {
		t.Fatalf("camera tile size = %dx%d, want 128x64", e.Camera.TileW, e.Camera.TileH)
	}
	if e.Analyzer.TileW != 128 || e.Analyzer.TileH != 64 {
		t.Fatalf("analyzer tile size = %dx%d, want 128x64", e.Analyzer.TileW, e.Analyzer.TileH)
	}
	if e.Map.HeroX != 2 || e.Map.HeroY != 3 {
		t.Fatalf("hero = (%d,%d), want (2,3)", e.Map.HeroX, e.Map.HeroY)
	}

	// picking must agree with the restored projection
	sx, sy := e.Camera.MapToScreen(2, 3)
	tx, ty, hit := e.Camera.ScreenToTile(sx, sy, 8, 8)
	if !hit || tx != 2 || ty != 3 {
		t.Fatalf("pick after restore = (%d,%d,%v), want (2,3,true)", tx, ty, hit)
	}
}

func TestRestoreSessionKeepsTileSizeWhenUnset(t *testing.T) {
	e := newTestEditor()
	src := tilemap.New(5, 5, 64, 32)
	e.RestoreSession(5, 5, 0, src.Layers, nil, 0, 0)
	if e.Map.TileW != 64 || e.Map.TileH != 32 {
		t.Fatalf("tile size changed on a project without one: %dx%d", e.Map.TileW, e.Map.TileH)
	}
}

func TestHeroDoubleClickAndDrag(t *testing.T) {
	e := newTestEditor()
	cur := time.Unix(1000, 0)
	e.now = func() time.Time { return cur }
	edited := false
	e.OnHeroEdit = func() { edited = true }

	// first click starts a drag, not the edit dialog
	click(e, 0, 0, ButtonLeft)
	if edited {
		t.Fatalf("single click must not open hero edit")
	}

	cur = cur.Add(100 * time.Millisecond)
	click(e, 0, 0, ButtonLeft)
	if !edited {
		t.Fatalf("second click within the window must open hero edit")
	}

	cur = cur.Add(10 * time.Second)
	sx, sy := e.Camera.MapToScreen(0, 0)
	e.PointerDown(sx, sy, ButtonLeft, Modifiers{})
	dragTo(e, 2, 3)
	e.PointerUp(sx, sy, ButtonLeft)
	if e.Map.HeroX != 2 || e.Map.HeroY != 3 {
		t.Fatalf("hero drag ended at (%d,%d), want (2,3)", e.Map.HeroX, e.Map.HeroY)
	}
}

func TestSpacePanOverridesTools(t *testing.T) {
	e := newTestEditor()
	e.SetActiveGID(1)
	e.KeyDown(KeySpace, Modifiers{})

	sx, sy := e.Camera.MapToScreen(2, 2)
	e.PointerDown(sx, sy, ButtonLeft, Modifiers{})
	e.PointerMove(sx+40, sy+20)
	e.PointerUp(sx+40, sy+20, ButtonLeft)
	e.KeyUp(KeySpace)

	if got := e.Map.GID(background(e), 2, 2); got != 0 {
		t.Fatalf("space-pan must not paint, got %d", got)
	}
	if e.Camera.PanX != 40 || e.Camera.PanY != 20 {
		t.Fatalf("pan = (%v,%v), want (40,20)", e.Camera.PanX, e.Camera.PanY)
	}
}

func TestUndoShortcuts(t *testing.T) {
	e := newTestEditor()
	e.SetActiveGID(2)
	click(e, 1, 1, ButtonLeft)

	e.KeyDown(KeyZ, Modifiers{Ctrl: true})
	if got := e.Map.GID(background(e), 1, 1); got != 0 {
		t.Fatalf("ctrl+z must undo the paint, got %d", got)
	}
	e.KeyDown(KeyY, Modifiers{Ctrl: true})
	if got := e.Map.GID(background(e), 1, 1); got != 2 {
		t.Fatalf("ctrl+y must redo the paint, got %d", got)
	}
	// plain z without ctrl does nothing
	e.KeyDown(KeyZ, Modifiers{})
	if got := e.Map.GID(background(e), 1, 1); got != 2 {
		t.Fatalf("bare z must not undo")
	}
}
