// Package editor is the interaction core of the map editor: it owns the map
// model, the camera, the per-layer-type brush palettes, the tool state
// machine, and the undo history, and translates host input events into model
// mutations.
package editor

import (
	"fmt"
	"image"
	"time"

	"github.com/tidegrove/flaremap/atlas"
	"github.com/tidegrove/flaremap/iso"
	"github.com/tidegrove/flaremap/tilemap"
)

// heroDoubleClick is the window within which a second click on the hero's
// cell opens the hero edit callback instead of starting a drag.
const heroDoubleClick = 300 * time.Millisecond

// Cell is one grid position.
type Cell struct {
	X, Y int
}

// SelectedTile is one cell of a materialized selection with the GID it held
// on the active layer when the selection was made.
type SelectedTile struct {
	X, Y, GID int
}

// Selection is an explicit list of affected cells, never a lazy region.
type Selection struct {
	Active bool
	Tiles  []SelectedTile
}

// Editor holds the whole editing session.
type Editor struct {
	Map     *tilemap.Map
	Camera  *iso.Camera
	History *History
	Stamps  *StampLibrary

	Analyzer *atlas.Analyzer
	autosave *Autosave

	brushSets map[tilemap.LayerType]*atlas.BrushSet
	tilesets  map[tilemap.LayerType]*atlas.Tileset

	// activeGID is the selected brush per layer id; 0 means none chosen.
	activeGID     map[int]int
	activeLayerID int

	mode          Mode
	tileTool      TileTool
	selectionTool SelectionTool
	shapeTool     ShapeTool
	stampTool     StampTool
	activeStampID int

	selection Selection

	pointerDown bool
	dragButton  Button
	pressX      int
	pressY      int
	pressValid  bool

	painting   bool
	lastPaintX int
	lastPaintY int

	shapeActive  bool
	shapePreview []Cell

	captureActive bool
	captureTiles  []StampTile
	captureW      int
	captureH      int

	spaceHeld bool
	panning   bool
	lastSX    float64
	lastSY    float64

	heroDragging  bool
	lastHeroClick time.Time
	now           func() time.Time

	hoverX     int
	hoverY     int
	hoverValid bool

	dirty bool

	// OnHeroEdit fires on a double click on the hero's cell.
	OnHeroEdit func()
}

// New creates an editor over a fresh map with default layers and the hero at
// the origin. The background layer starts active.
func New(width, height, tileW, tileH int, canvasW float64) *Editor {
	m := tilemap.New(width, height, tileW, tileH)
	e := &Editor{
		Map:       m,
		Camera:    iso.NewCamera(tileW, tileH, canvasW),
		History:   NewHistory(),
		Stamps:    NewStampLibrary(),
		Analyzer:  atlas.NewAnalyzer(tileW, tileH),
		brushSets: make(map[tilemap.LayerType]*atlas.BrushSet),
		tilesets:  make(map[tilemap.LayerType]*atlas.Tileset),
		activeGID: make(map[int]int),

		mode:          ModeTiles,
		tileTool:      TileBrush,
		selectionTool: SelectRectangular,
		shapeTool:     ShapeRectangle,
		stampTool:     StampPlace,

		now: time.Now,
	}
	if l := m.LayerByType(tilemap.LayerBackground); l != nil {
		e.activeLayerID = l.ID
	} else {
		e.activeLayerID = m.Layers[0].ID
	}
	return e
}

// SetAutosave installs the debounced save path. Without it dirtying actions
// only flip the dirty flag.
func (e *Editor) SetAutosave(a *Autosave) { e.autosave = a }

func (e *Editor) Dirty() bool                      { return e.dirty }
func (e *Editor) ClearDirty()                      { e.dirty = false }
func (e *Editor) Mode() Mode                       { return e.mode }
func (e *Editor) SetMode(m Mode)                   { e.mode = m }
func (e *Editor) TileTool() TileTool               { return e.tileTool }
func (e *Editor) SetTileTool(t TileTool)           { e.tileTool = t }
func (e *Editor) SetSelectionTool(t SelectionTool) { e.selectionTool = t }
func (e *Editor) SetShapeTool(t ShapeTool)         { e.shapeTool = t }
func (e *Editor) SetStampTool(t StampTool)         { e.stampTool = t }
func (e *Editor) SetActiveStamp(id int)            { e.activeStampID = id }

// ActiveStamp returns the stamp selected for placement, nil when none.
func (e *Editor) ActiveStamp() *Stamp { return e.Stamps.Get(e.activeStampID) }

// Hover returns the cell under the pointer, if any.
func (e *Editor) Hover() (int, int, bool) { return e.hoverX, e.hoverY, e.hoverValid }

// CurrentSelection returns the live selection for rendering.
func (e *Editor) CurrentSelection() Selection { return e.selection }

// ShapePreview returns the cells the pending shape would paint.
func (e *Editor) ShapePreview() []Cell { return e.shapePreview }

// ActiveLayer returns the layer edits currently target. Never nil while the
// map invariant holds.
func (e *Editor) ActiveLayer() *tilemap.Layer {
	if l := e.Map.LayerByID(e.activeLayerID); l != nil {
		return l
	}
	return e.Map.Layers[0]
}

// SetActiveLayer switches the edit target. Unknown ids are ignored.
func (e *Editor) SetActiveLayer(id int) {
	if e.Map.LayerByID(id) != nil {
		e.activeLayerID = id
	}
}

// ActiveGID returns the selected brush for the active layer, 0 if none.
func (e *Editor) ActiveGID() int { return e.activeGID[e.ActiveLayer().ID] }

// SetActiveGID selects a brush for the active layer.
func (e *Editor) SetActiveGID(gid int) { e.activeGID[e.ActiveLayer().ID] = gid }

// BrushSet returns the palette for a layer type, nil when no tileset has
// been loaded for it.
func (e *Editor) BrushSet(t tilemap.LayerType) *atlas.BrushSet { return e.brushSets[t] }

// Tileset returns the loaded tileset for a layer type, nil when absent.
func (e *Editor) Tileset(t tilemap.LayerType) *atlas.Tileset { return e.tilesets[t] }

// HasTileset reports whether any layer type has a tileset loaded.
func (e *Editor) HasTileset() bool { return len(e.tilesets) > 0 }

// Tilesets returns a copy of the loaded tilesets keyed by layer type.
func (e *Editor) Tilesets() map[tilemap.LayerType]*atlas.Tileset {
	out := make(map[tilemap.LayerType]*atlas.Tileset, len(e.tilesets))
	for t, ts := range e.tilesets {
		out[t] = ts
	}
	return out
}

// BrushSets returns a copy of the detected palettes keyed by layer type.
func (e *Editor) BrushSets() map[tilemap.LayerType]*atlas.BrushSet {
	out := make(map[tilemap.LayerType]*atlas.BrushSet, len(e.brushSets))
	for t, s := range e.brushSets {
		out[t] = s
	}
	return out
}

// LoadTileset runs sprite detection on the image and replaces the palette
// for the given layer type.
func (e *Editor) LoadTileset(t tilemap.LayerType, img image.Image, fileName string) error {
	if !t.Valid() {
		return fmt.Errorf("editor: load tileset: invalid layer type %q", t)
	}
	rects := e.Analyzer.Detect(img)
	if s := e.brushSets[t]; s != nil {
		s.ResetFrom(rects)
	} else {
		e.brushSets[t] = atlas.NewBrushSet(rects)
	}
	e.tilesets[t] = atlas.NewTileset(img, fileName, e.Map.TileW, e.Map.TileH)
	e.markDirty(false)
	return nil
}

// ReloadTileset re-runs detection after the image changed on disk, keeping
// the GID order of rectangles that survived the change.
func (e *Editor) ReloadTileset(t tilemap.LayerType, img image.Image, fileName string) error {
	s := e.brushSets[t]
	if s == nil {
		return e.LoadTileset(t, img, fileName)
	}
	fresh := e.Analyzer.Detect(img)
	s.ResetFrom(atlas.PreserveOrder(s.Rects(), fresh))
	e.tilesets[t] = atlas.NewTileset(img, fileName, e.Map.TileW, e.Map.TileH)
	e.markDirty(false)
	return nil
}

// InstallTileset replaces a layer type's palette with already-known
// rectangles, skipping detection. Used when restoring a saved project.
func (e *Editor) InstallTileset(t tilemap.LayerType, img image.Image, fileName string, rects []atlas.Rect) {
	if !t.Valid() {
		return
	}
	e.brushSets[t] = atlas.NewBrushSet(rects)
	e.tilesets[t] = atlas.NewTileset(img, fileName, e.Map.TileW, e.Map.TileH)
}

// RestoreSession replaces the whole model from a loaded project and resets
// session state that referenced the old one. tileSize is the saved tile
// width; the tile height follows the 2:1 isometric ratio.
func (e *Editor) RestoreSession(width, height, tileSize int, layers []*tilemap.Layer, objects []*tilemap.MapObject, heroX, heroY int) {
	e.Map.Width = width
	e.Map.Height = height
	if tileSize > 0 {
		e.Map.TileW = tileSize
		e.Map.TileH = tileSize / 2
		e.Camera.TileW = tileSize
		e.Camera.TileH = tileSize / 2
		e.Analyzer.TileW = tileSize
		e.Analyzer.TileH = tileSize / 2
	}
	e.Map.Restore(layers, objects)
	e.Map.SetHero(heroX, heroY)
	e.History = NewHistory()
	e.activeGID = make(map[int]int)
	e.clearSelection()
	if l := e.Map.LayerByType(tilemap.LayerBackground); l != nil {
		e.activeLayerID = l.ID
	} else {
		e.activeLayerID = e.Map.Layers[0].ID
	}
}

// MergeBrushes merges palette entries for a layer type and remaps every
// painted reference to the renumbered GIDs.
func (e *Editor) MergeBrushes(t tilemap.LayerType, gids []int) error {
	s := e.brushSets[t]
	if s == nil {
		return fmt.Errorf("editor: no tileset loaded for layer type %q", t)
	}
	remap, err := s.Merge(gids)
	if err != nil {
		return err
	}
	e.History.SaveState(e.Map)
	e.applyBrushRemap(t, remap)
	e.markDirty(false)
	return nil
}

// SeparateBrush splits one palette entry back into its components.
func (e *Editor) SeparateBrush(t tilemap.LayerType, gid int) error {
	s := e.brushSets[t]
	ts := e.tilesets[t]
	if s == nil || ts == nil {
		return fmt.Errorf("editor: no tileset loaded for layer type %q", t)
	}
	remap, err := s.Separate(gid, ts.Image, e.Analyzer)
	if err != nil {
		return err
	}
	if remap == nil {
		return nil
	}
	e.History.SaveState(e.Map)
	e.applyBrushRemap(t, remap)
	e.markDirty(false)
	return nil
}

// RemoveBrush deletes a palette entry; painted cells holding it are cleared.
func (e *Editor) RemoveBrush(t tilemap.LayerType, gid int) error {
	s := e.brushSets[t]
	if s == nil {
		return fmt.Errorf("editor: no tileset loaded for layer type %q", t)
	}
	remap, err := s.Remove(gid)
	if err != nil {
		return err
	}
	e.History.SaveState(e.Map)
	e.applyBrushRemap(t, remap)
	e.markDirty(false)
	return nil
}

// ReorderBrush moves a palette entry to a new position.
func (e *Editor) ReorderBrush(t tilemap.LayerType, fromGID, toGID int) error {
	s := e.brushSets[t]
	if s == nil {
		return fmt.Errorf("editor: no tileset loaded for layer type %q", t)
	}
	remap, err := s.Reorder(fromGID, toGID)
	if err != nil {
		return err
	}
	e.History.SaveState(e.Map)
	e.applyBrushRemap(t, remap)
	e.markDirty(false)
	return nil
}

// applyBrushRemap rewrites every reference to the renumbered GIDs: the
// layer's grid, the per-layer active brush, selection entries, and stamps
// recorded against layers of that type.
func (e *Editor) applyBrushRemap(t tilemap.LayerType, remap map[int]int) {
	l := e.Map.LayerByType(t)
	if l != nil {
		for y := 0; y < e.Map.Height; y++ {
			for x := 0; x < e.Map.Width; x++ {
				gid := e.Map.GID(l, x, y)
				if gid == 0 {
					continue
				}
				if next, ok := remap[gid]; ok && next != gid {
					e.Map.SetGID(l, x, y, next)
				}
			}
		}
		if cur := e.activeGID[l.ID]; cur != 0 {
			if next, ok := remap[cur]; ok {
				e.activeGID[l.ID] = next
			}
		}
		for i, st := range e.selection.Tiles {
			if next, ok := remap[st.GID]; ok {
				e.selection.Tiles[i].GID = next
			}
		}
	}
	for _, s := range e.Stamps.List() {
		for i, st := range s.Tiles {
			sl := e.Map.LayerByID(st.LayerID)
			if sl == nil || sl.Type != t {
				continue
			}
			if next, ok := remap[st.TileID]; ok {
				s.Tiles[i].TileID = next
			}
		}
	}
}

// AddLayer adds a layer; structural changes flush the autosave sooner.
func (e *Editor) AddLayer(name string, t tilemap.LayerType) bool {
	if !t.Valid() || e.Map.LayerByType(t) != nil {
		return false
	}
	e.History.SaveState(e.Map)
	if !e.Map.AddLayer(name, t) {
		return false
	}
	e.markDirty(true)
	return true
}

// DeleteLayer removes a layer, moving the edit target off it first.
func (e *Editor) DeleteLayer(id int) bool {
	if len(e.Map.Layers) <= 1 || e.Map.LayerByID(id) == nil {
		return false
	}
	e.History.SaveState(e.Map)
	if !e.Map.DeleteLayer(id) {
		return false
	}
	if e.Map.LayerByID(e.activeLayerID) == nil {
		e.activeLayerID = e.Map.Layers[0].ID
	}
	delete(e.activeGID, id)
	e.markDirty(true)
	return true
}

func (e *Editor) SetLayerType(id int, t tilemap.LayerType) bool {
	l := e.Map.LayerByID(id)
	if l == nil || !t.Valid() {
		return false
	}
	if other := e.Map.LayerByType(t); other != nil && other.ID != id {
		return false
	}
	e.History.SaveState(e.Map)
	if !e.Map.SetLayerType(id, t) {
		return false
	}
	e.markDirty(false)
	return true
}

func (e *Editor) RenameLayer(id int, name string) bool {
	if !e.Map.RenameLayer(id, name) {
		return false
	}
	e.markDirty(false)
	return true
}

// ResizeMap reallocates the grid; the selection is dropped since its cells
// may no longer exist.
func (e *Editor) ResizeMap(width, height int) {
	e.History.SaveState(e.Map)
	e.Map.Resize(width, height)
	e.clearSelection()
	e.markDirty(true)
}

// Undo steps the model back one snapshot.
func (e *Editor) Undo() bool {
	if !e.History.Undo(e.Map) {
		return false
	}
	e.afterRestore()
	return true
}

// Redo steps the model forward one snapshot.
func (e *Editor) Redo() bool {
	if !e.History.Redo(e.Map) {
		return false
	}
	e.afterRestore()
	return true
}

func (e *Editor) afterRestore() {
	if e.Map.LayerByID(e.activeLayerID) == nil {
		e.activeLayerID = e.Map.Layers[0].ID
	}
	e.clearSelection()
	e.markDirty(false)
}

func (e *Editor) markDirty(critical bool) {
	e.dirty = true
	if e.autosave != nil {
		e.autosave.Request(critical)
	}
}

func (e *Editor) clearSelection() {
	e.selection = Selection{}
}
