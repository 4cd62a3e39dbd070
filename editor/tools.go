package editor

import (
	"fmt"
	"math"

	"github.com/tidegrove/flaremap/tilemap"
)

// PointerDown routes a press through the pan override, the hero intercept,
// then the active tool mode.
func (e *Editor) PointerDown(sx, sy float64, b Button, mods Modifiers) {
	e.lastSX, e.lastSY = sx, sy
	if e.spaceHeld || b == ButtonMiddle {
		e.panning = true
		return
	}

	tx, ty, hit := e.Camera.ScreenToTile(sx, sy, e.Map.Width, e.Map.Height)
	e.pointerDown = true
	e.dragButton = b
	e.pressX, e.pressY = tx, ty
	e.pressValid = hit

	if hit && b == ButtonLeft && tx == e.Map.HeroX && ty == e.Map.HeroY {
		now := e.now()
		if now.Sub(e.lastHeroClick) <= heroDoubleClick {
			e.lastHeroClick = now
			if e.OnHeroEdit != nil {
				e.OnHeroEdit()
			}
			return
		}
		e.lastHeroClick = now
		e.heroDragging = true
		return
	}

	switch e.mode {
	case ModeTiles:
		e.tilesDown(tx, ty, hit, b)
	case ModeSelection:
		e.selectionDown(tx, ty, hit, b)
	case ModeShape:
		if hit && b == ButtonLeft {
			e.shapeActive = true
			e.shapePreview = e.shapeCells(tx, ty)
		}
	case ModeEyedropper:
		if hit && b == ButtonLeft {
			e.eyedrop(tx, ty)
		}
	case ModeStamp:
		e.stampDown(tx, ty, hit, b)
	}
}

// PointerMove updates the hover cell and advances any drag in progress.
func (e *Editor) PointerMove(sx, sy float64) {
	dx, dy := sx-e.lastSX, sy-e.lastSY
	e.lastSX, e.lastSY = sx, sy

	if e.panning {
		e.Camera.Pan(dx, dy)
		return
	}

	tx, ty, hit := e.Camera.ScreenToTile(sx, sy, e.Map.Width, e.Map.Height)
	e.hoverX, e.hoverY, e.hoverValid = tx, ty, hit
	if !e.pointerDown {
		return
	}

	if e.heroDragging {
		if hit {
			e.Map.SetHero(tx, ty)
		}
		return
	}

	switch {
	case e.painting && hit:
		if tx != e.lastPaintX || ty != e.lastPaintY {
			e.strokeCell(tx, ty)
		}
	case e.mode == ModeSelection && e.pressValid && hit:
		switch e.selectionTool {
		case SelectRectangular:
			e.selection = e.materialize(rectCells(e.pressX, e.pressY, tx, ty))
		case SelectCircular:
			e.selection = e.materialize(e.circularCells(e.pressX, e.pressY, tx, ty))
		}
	case e.mode == ModeShape && e.shapeActive && hit:
		e.shapePreview = e.shapeCells(tx, ty)
	case e.mode == ModeStamp && e.captureActive && e.pressValid && hit:
		e.selection = e.materialize(rectCells(e.pressX, e.pressY, tx, ty))
	}
}

// PointerUp terminates the drag started by the matching PointerDown.
func (e *Editor) PointerUp(sx, sy float64, b Button) {
	if e.panning {
		e.panning = false
		return
	}
	if !e.pointerDown {
		return
	}
	e.pointerDown = false

	tx, ty, hit := e.Camera.ScreenToTile(sx, sy, e.Map.Width, e.Map.Height)

	if e.heroDragging {
		e.heroDragging = false
		e.markDirty(false)
		return
	}
	if e.painting {
		e.painting = false
		e.markDirty(false)
		return
	}
	if e.mode == ModeShape && e.shapeActive {
		e.shapeActive = false
		e.commitShape()
		return
	}
	if e.mode == ModeStamp && e.captureActive {
		e.captureActive = false
		if e.pressValid && hit {
			e.captureRegion(e.pressX, e.pressY, tx, ty)
		}
		e.clearSelection()
		return
	}
	if e.mode == ModeSelection && e.pressValid {
		e.selection.Active = len(e.selection.Tiles) > 0
	}
}

// PointerLeave cancels hover and any paint stroke in flight.
func (e *Editor) PointerLeave() {
	e.hoverValid = false
	if e.painting {
		e.painting = false
		e.pointerDown = false
		e.markDirty(false)
	}
	e.panning = false
}

// Wheel zooms around the cursor. One notch scales by 10%.
func (e *Editor) Wheel(sx, sy, deltaY float64) {
	factor := 1.1
	if deltaY > 0 {
		factor = 1 / 1.1
	}
	e.Camera.ZoomAt(sx, sy, factor)
}

// KeyDown handles the editor shortcuts.
func (e *Editor) KeyDown(k Key, mods Modifiers) {
	switch k {
	case KeySpace:
		e.spaceHeld = true
	case KeyZ:
		if mods.Ctrl {
			if mods.Shift {
				e.Redo()
			} else {
				e.Undo()
			}
		}
	case KeyY:
		if mods.Ctrl {
			e.Redo()
		}
	case KeyA:
		if mods.Ctrl {
			e.selectAll()
		}
	case KeyDelete, KeyBackspace:
		e.deleteSelection()
	case KeyEscape:
		e.clearSelection()
		e.shapeActive = false
		e.shapePreview = nil
		e.captureActive = false
	}
}

// KeyUp releases held keys.
func (e *Editor) KeyUp(k Key) {
	if k == KeySpace {
		e.spaceHeld = false
		e.panning = false
	}
}

func (e *Editor) tilesDown(tx, ty int, hit bool, b Button) {
	if !hit {
		return
	}
	l := e.ActiveLayer()
	switch {
	case b == ButtonRight:
		// right-click erases regardless of sub-tool
		e.History.SaveState(e.Map)
		e.painting = true
		e.strokeCell(tx, ty)
	case e.tileTool == TileEraser:
		e.History.SaveState(e.Map)
		e.painting = true
		e.strokeCell(tx, ty)
	case e.tileTool == TileBrush:
		if e.ActiveGID() == 0 {
			return
		}
		e.History.SaveState(e.Map)
		e.painting = true
		e.strokeCell(tx, ty)
	case e.tileTool == TileBucket:
		gid := e.ActiveGID()
		if gid == 0 {
			return
		}
		target := e.Map.GID(l, tx, ty)
		if target == gid {
			return
		}
		e.History.SaveState(e.Map)
		e.bucketFill(l, tx, ty, target, gid)
		e.markDirty(false)
	}
}

// strokeCell applies the current stroke's value to one cell.
func (e *Editor) strokeCell(tx, ty int) {
	gid := 0
	if e.dragButton == ButtonLeft && e.tileTool == TileBrush {
		gid = e.ActiveGID()
	}
	e.Map.SetGID(e.ActiveLayer(), tx, ty, gid)
	e.lastPaintX, e.lastPaintY = tx, ty
}

// bucketFill is a recursive 4-connected flood fill replacing target with gid.
func (e *Editor) bucketFill(l *tilemap.Layer, x, y, target, gid int) {
	if !e.Map.InBounds(x, y) || e.Map.GID(l, x, y) != target {
		return
	}
	e.Map.SetGID(l, x, y, gid)
	e.bucketFill(l, x+1, y, target, gid)
	e.bucketFill(l, x-1, y, target, gid)
	e.bucketFill(l, x, y+1, target, gid)
	e.bucketFill(l, x, y-1, target, gid)
}

func (e *Editor) selectionDown(tx, ty int, hit bool, b Button) {
	if b == ButtonRight {
		e.clearSelection()
		return
	}
	if !hit || b != ButtonLeft {
		return
	}
	switch e.selectionTool {
	case SelectRectangular, SelectCircular:
		e.selection = e.materialize([]Cell{{X: tx, Y: ty}})
	case SelectMagicWand:
		e.selection = e.materialize(e.wandCells(tx, ty))
		e.selection.Active = len(e.selection.Tiles) > 0
	case SelectSameTile:
		e.selection = e.materialize(e.sameTileCells(tx, ty))
		e.selection.Active = len(e.selection.Tiles) > 0
	}
}

// materialize snapshots the GIDs under a cell list on the active layer.
func (e *Editor) materialize(cells []Cell) Selection {
	l := e.ActiveLayer()
	s := Selection{Active: true}
	for _, c := range cells {
		s.Tiles = append(s.Tiles, SelectedTile{X: c.X, Y: c.Y, GID: e.Map.GID(l, c.X, c.Y)})
	}
	return s
}

func rectCells(x0, y0, x1, y1 int) []Cell {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	var out []Cell
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			out = append(out, Cell{X: x, Y: y})
		}
	}
	return out
}

// circularCells selects every grid cell within the press-to-cursor radius.
func (e *Editor) circularCells(cx, cy, px, py int) []Cell {
	r := math.Hypot(float64(px-cx), float64(py-cy))
	var out []Cell
	for y := 0; y < e.Map.Height; y++ {
		for x := 0; x < e.Map.Width; x++ {
			if math.Hypot(float64(x-cx), float64(y-cy)) <= r {
				out = append(out, Cell{X: x, Y: y})
			}
		}
	}
	return out
}

// wandCells flood fills by GID equality from the pressed cell.
func (e *Editor) wandCells(tx, ty int) []Cell {
	l := e.ActiveLayer()
	target := e.Map.GID(l, tx, ty)
	seen := make(map[Cell]bool)
	var out []Cell
	var fill func(x, y int)
	fill = func(x, y int) {
		c := Cell{X: x, Y: y}
		if !e.Map.InBounds(x, y) || seen[c] || e.Map.GID(l, x, y) != target {
			return
		}
		seen[c] = true
		out = append(out, c)
		fill(x+1, y)
		fill(x-1, y)
		fill(x, y+1)
		fill(x, y-1)
	}
	fill(tx, ty)
	return out
}

// sameTileCells scans the whole grid for the pressed cell's GID.
func (e *Editor) sameTileCells(tx, ty int) []Cell {
	l := e.ActiveLayer()
	target := e.Map.GID(l, tx, ty)
	var out []Cell
	for y := 0; y < e.Map.Height; y++ {
		for x := 0; x < e.Map.Width; x++ {
			if e.Map.GID(l, x, y) == target {
				out = append(out, Cell{X: x, Y: y})
			}
		}
	}
	return out
}

func (e *Editor) selectAll() {
	e.selection = e.materialize(rectCells(0, 0, e.Map.Width-1, e.Map.Height-1))
}

// deleteSelection clears every selected cell on the active layer.
func (e *Editor) deleteSelection() {
	if !e.selection.Active || len(e.selection.Tiles) == 0 {
		return
	}
	e.History.SaveState(e.Map)
	l := e.ActiveLayer()
	for _, st := range e.selection.Tiles {
		e.Map.SetGID(l, st.X, st.Y, 0)
	}
	e.clearSelection()
	e.markDirty(false)
}

// shapeCells computes the preview for the pending shape from the press
// anchor to the current cell.
func (e *Editor) shapeCells(tx, ty int) []Cell {
	if !e.pressValid {
		return nil
	}
	var cells []Cell
	switch e.shapeTool {
	case ShapeRectangle:
		cells = rectBorderCells(e.pressX, e.pressY, tx, ty)
	case ShapeCircle:
		r := math.Hypot(float64(tx-e.pressX), float64(ty-e.pressY))
		cells = circleOutlineCells(e.pressX, e.pressY, r)
	case ShapeLine:
		cells = bresenhamCells(e.pressX, e.pressY, tx, ty)
	}
	out := cells[:0]
	for _, c := range cells {
		if e.Map.InBounds(c.X, c.Y) {
			out = append(out, c)
		}
	}
	return out
}

func (e *Editor) commitShape() {
	preview := e.shapePreview
	e.shapePreview = nil
	gid := e.ActiveGID()
	if gid == 0 || len(preview) == 0 {
		return
	}
	e.History.SaveState(e.Map)
	l := e.ActiveLayer()
	for _, c := range preview {
		e.Map.SetGID(l, c.X, c.Y, gid)
	}
	e.markDirty(false)
}

// rectBorderCells returns only the border of the bounding box.
func rectBorderCells(x0, y0, x1, y1 int) []Cell {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	var out []Cell
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x == x0 || x == x1 || y == y0 || y == y1 {
				out = append(out, Cell{X: x, Y: y})
			}
		}
	}
	return out
}

// circleOutlineCells samples the circle at one-degree steps and dedupes.
func circleOutlineCells(cx, cy int, r float64) []Cell {
	seen := make(map[Cell]bool)
	var out []Cell
	for deg := 0; deg < 360; deg++ {
		rad := float64(deg) * math.Pi / 180
		c := Cell{
			X: cx + int(math.Round(r*math.Cos(rad))),
			Y: cy + int(math.Round(r*math.Sin(rad))),
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// bresenhamCells rasterizes the integer line between the two cells.
func bresenhamCells(x0, y0, x1, y1 int) []Cell {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	var out []Cell
	for {
		out = append(out, Cell{X: x0, Y: y0})
		if x0 == x1 && y0 == y1 {
			return out
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (e *Editor) stampDown(tx, ty int, hit bool, b Button) {
	if !hit || b != ButtonLeft {
		return
	}
	switch e.stampTool {
	case StampCreate:
		e.captureActive = true
		e.selection = e.materialize([]Cell{{X: tx, Y: ty}})
	case StampPlace:
		s := e.Stamps.Get(e.activeStampID)
		if s != nil {
			e.PlaceStamp(s, tx, ty)
		}
	}
}

// captureRegion records the nonzero cells of the active layer inside the
// dragged rectangle as a pending stamp pattern.
func (e *Editor) captureRegion(x0, y0, x1, y1 int) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	l := e.ActiveLayer()
	var tiles []StampTile
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			gid := e.Map.GID(l, x, y)
			if gid == 0 {
				continue
			}
			tiles = append(tiles, StampTile{TileID: gid, LayerID: l.ID, X: x - x0, Y: y - y0})
		}
	}
	e.captureTiles = tiles
	e.captureW = x1 - x0 + 1
	e.captureH = y1 - y0 + 1
}

// PendingCapture reports whether a captured region awaits a name.
func (e *Editor) PendingCapture() bool { return len(e.captureTiles) > 0 }

// FinishStampCapture names the last captured region and adds it to the
// library. Returns nil when nothing was captured.
func (e *Editor) FinishStampCapture(name string) *Stamp {
	if len(e.captureTiles) == 0 {
		return nil
	}
	s := e.Stamps.Add(name, e.captureW, e.captureH, e.captureTiles)
	e.captureTiles = nil
	e.activeStampID = s.ID
	return s
}

// PlaceStamp commits a stamp with its top-left corner at (tx, ty). Placement
// that would run past the map bounds is rejected whole.
func (e *Editor) PlaceStamp(s *Stamp, tx, ty int) error {
	if tx < 0 || ty < 0 || tx+s.Width > e.Map.Width || ty+s.Height > e.Map.Height {
		return fmt.Errorf("editor: stamp %q does not fit at (%d, %d)", s.Name, tx, ty)
	}
	e.History.SaveState(e.Map)
	for _, st := range s.Tiles {
		l := e.Map.LayerByID(st.LayerID)
		if l == nil {
			l = e.ActiveLayer()
		}
		e.Map.SetGID(l, tx+st.X, ty+st.Y, st.TileID)
	}
	e.markDirty(false)
	return nil
}

// eyedrop samples the active layer under the cursor and reverts to the brush.
func (e *Editor) eyedrop(tx, ty int) {
	gid := e.Map.GID(e.ActiveLayer(), tx, ty)
	if gid == 0 {
		return
	}
	e.SetActiveGID(gid)
	e.mode = ModeTiles
	e.tileTool = TileBrush
}
