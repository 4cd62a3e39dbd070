package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/tidegrove/flaremap/atlas"
	"github.com/tidegrove/flaremap/config"
	"github.com/tidegrove/flaremap/editor"
	"github.com/tidegrove/flaremap/tilemap"
)

type Game struct {
	ed      *editor.Editor
	canvas  *Canvas
	minimap *Minimap
	ui      *EditorUI

	settings      *config.Settings
	autosave      *editor.Autosave
	autosaveSched *editor.PollScheduler

	watcher     *atlas.Watcher
	watchedDirs map[string]bool

	tilesetPaths map[tilemap.LayerType]string

	savePath       string
	projectName    string
	clipboardReady bool

	// merge flow: first Merge click starts collecting palette picks, the
	// second applies them
	merging   bool
	mergeGIDs []int

	status   string
	lastMode editor.Mode

	screenW, screenH int
}

func (g *Game) Update() error {
	g.drainWatcher()
	// fire any due autosave here, on the update goroutine, so saves never
	// overlap model mutation
	if g.autosaveSched != nil {
		g.autosaveSched.Poll()
	}
	g.ui.UI.Update()

	// If the UI has a focused text widget (user is typing), suppress hotkeys.
	suppressHotkeys := false
	if fw := g.ui.UI.GetFocusedWidget(); fw != nil {
		if _, ok := fw.(*widget.TextInput); ok {
			suppressHotkeys = true
		}
	}
	if !suppressHotkeys {
		g.handleKeys()
	}
	g.handleMouse()

	// the eyedropper reverts to the brush on a successful pick; keep the
	// toolbar highlight in step with the model
	if g.lastMode != g.ed.Mode() {
		g.lastMode = g.ed.Mode()
		g.ui.ToolBar.SetMode(g.lastMode)
		g.ui.ToolBar.SetTileTool(g.ed.TileTool())
	}

	if g.ed.PendingCapture() {
		name := fmt.Sprintf("stamp %d", len(g.ed.Stamps.List())+1)
		if s := g.ed.FinishStampCapture(name); s != nil {
			g.status = "captured " + s.Name
		}
	}
	return nil
}

func (g *Game) handleKeys() {
	mods := editor.Modifiers{
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.ed.KeyDown(editor.KeySpace, mods)
	}
	if inpututil.IsKeyJustReleased(ebiten.KeySpace) {
		g.ed.KeyUp(editor.KeySpace)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		g.ed.KeyDown(editor.KeyZ, mods)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyY) {
		g.ed.KeyDown(editor.KeyY, mods)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.ed.KeyDown(editor.KeyA, mods)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDelete) {
		g.ed.KeyDown(editor.KeyDelete, mods)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.ed.KeyDown(editor.KeyBackspace, mods)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.ed.KeyDown(editor.KeyEscape, mods)
	}

	if mods.Ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.doSave()
	}
	if mods.Ctrl && inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.doExport()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.canvas.ShowDebug = !g.canvas.ShowDebug
	}
	if !mods.Ctrl && inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.cycleActiveLayer(-1)
	}
	if !mods.Ctrl && inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.cycleActiveLayer(1)
	}
}

// cycleActiveLayer steps the edit target through the layer list.
func (g *Game) cycleActiveLayer(dir int) {
	layers := g.ed.Map.Layers
	cur := g.ed.ActiveLayer()
	for i, l := range layers {
		if l.ID != cur.ID {
			continue
		}
		next := layers[(i+dir+len(layers))%len(layers)]
		g.ed.SetActiveLayer(next.ID)
		g.refreshLayerPanel()
		g.rebuildPalette()
		return
	}
}

func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)

	if ebuiinput.UIHovered {
		g.ed.PointerLeave()
		return
	}

	mods := editor.Modifiers{
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
	}

	buttons := map[ebiten.MouseButton]editor.Button{
		ebiten.MouseButtonLeft:   editor.ButtonLeft,
		ebiten.MouseButtonRight:  editor.ButtonRight,
		ebiten.MouseButtonMiddle: editor.ButtonMiddle,
	}
	for eb, b := range buttons {
		if inpututil.IsMouseButtonJustPressed(eb) {
			g.ed.PointerDown(sx, sy, b, mods)
		}
		if inpututil.IsMouseButtonJustReleased(eb) {
			g.ed.PointerUp(sx, sy, b)
		}
	}
	g.ed.PointerMove(sx, sy)

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.ed.Wheel(sx, sy, wy)
	}
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reloadTileset(path)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("tileset watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) watchTileset(path string) {
	if g.watcher == nil {
		return
	}
	dir := filepath.Dir(path)
	if g.watchedDirs[dir] {
		return
	}
	if err := g.watcher.Add(dir); err != nil {
		log.Printf("tileset watch %s: %v", dir, err)
		return
	}
	g.watchedDirs[dir] = true
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.Draw(screen)
	g.minimap.Draw(screen, 10, float64(g.screenH-g.ed.Map.Height*minimapCellPx-10))
	g.ui.UI.Draw(screen)
	g.drawStatus(screen)
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	parts := []string{
		fmt.Sprintf("mode: %s/%s", g.ed.Mode(), g.ed.TileTool()),
		fmt.Sprintf("layer: %s", g.ed.ActiveLayer().Name),
		fmt.Sprintf("autosave: %s", g.autosaveState()),
	}
	if x, y, ok := g.ed.Hover(); ok {
		parts = append(parts, fmt.Sprintf("tile: %d,%d", x, y))
	}
	if g.status != "" {
		parts = append(parts, g.status)
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(parts, " | "), 230, g.screenH-18)
}

func (g *Game) autosaveState() editor.AutosaveState {
	if g.autosave == nil {
		return editor.AutosaveIdle
	}
	return g.autosave.State()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

func (g *Game) rebuildPalette() {
	t := g.ed.ActiveLayer().Type
	g.ui.Palette.Rebuild(g.ed.BrushSet(t), g.canvas.tilesetImgs[t])
}

func (g *Game) refreshLayerPanel() {
	g.ui.LayerPanel.SetLayers(g.ed.Map.Layers)
	g.ui.LayerPanel.SetSelected(g.ed.ActiveLayer().ID)
}

func (g *Game) doSave() {
	if err := g.saveProject(); err != nil {
		log.Printf("save: %v", err)
		g.status = "save failed"
		return
	}
	g.status = "saved " + filepath.Base(g.savePath)
}

func (g *Game) doExport() {
	if err := g.exportFlare(); err != nil {
		log.Printf("export: %v", err)
		g.status = "export failed"
		return
	}
	g.status = "exported"
}

func main() {
	projectPath := flag.String("project", "map.flaremap.json", "Project file to load and save")
	tilesetPath := flag.String("tileset", "", "Tileset image loaded for the background layer on startup")
	flag.Parse()

	log.Println("Editor starting...")

	settings, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ed := editor.New(
		settings.Map.Width, settings.Map.Height,
		settings.Tile.Width, settings.Tile.Height,
		float64(settings.Canvas.Width),
	)
	ed.Analyzer.AlphaThreshold = settings.Detection.AlphaThreshold

	g := &Game{
		ed:           ed,
		canvas:       NewCanvas(ed),
		minimap:      NewMinimap(ed),
		settings:     settings,
		watchedDirs:  map[string]bool{},
		tilesetPaths: map[tilemap.LayerType]string{},
		savePath:     *projectPath,
		projectName:  strings.TrimSuffix(filepath.Base(*projectPath), ".flaremap.json"),
		screenW:      settings.Canvas.Width,
		screenH:      settings.Canvas.Height,
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboardReady = true
	}

	if w, err := atlas.NewWatcher(); err != nil {
		log.Printf("tileset watch disabled: %v", err)
	} else {
		g.watcher = w
	}

	g.buildUI()
	g.wireAutosave()

	ed.OnHeroEdit = func() {
		g.status = fmt.Sprintf("hero at %d,%d", ed.Map.HeroX, ed.Map.HeroY)
	}

	if err := g.loadProject(*projectPath); err != nil {
		log.Printf("starting fresh: %v", err)
	}
	if *tilesetPath != "" {
		if err := g.loadTileset(tilemap.LayerBackground, *tilesetPath); err != nil {
			log.Printf("tileset: %v", err)
		}
	}
	g.refreshLayerPanel()

	ebiten.SetWindowSize(settings.Canvas.Width, settings.Canvas.Height)
	ebiten.SetWindowTitle("flaremap")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

func (g *Game) wireAutosave() {
	g.autosaveSched = editor.NewPollScheduler()
	a := editor.NewAutosave(g.autosaveSched, func() error {
		return g.saveProject()
	})
	a.SetIntervals(
		g.settings.Autosave.Standard(),
		g.settings.Autosave.Critical(),
		g.settings.Autosave.Retry(),
	)
	g.autosave = a
	g.ed.SetAutosave(a)
}

func (g *Game) buildUI() {
	g.ui = BuildEditorUI(UICallbacks{
		OnModeSelected:          func(m editor.Mode) { g.ed.SetMode(m) },
		OnTileToolSelected:      func(t editor.TileTool) { g.ed.SetTileTool(t) },
		OnSelectionToolSelected: func(t editor.SelectionTool) { g.ed.SetSelectionTool(t) },
		OnShapeToolSelected:     func(t editor.ShapeTool) { g.ed.SetShapeTool(t) },
		OnStampToolSelected:     func(t editor.StampTool) { g.ed.SetStampTool(t) },

		OnLayerSelected: func(id int) {
			g.ed.SetActiveLayer(id)
			g.rebuildPalette()
		},
		OnNewLayer: func() {
			// one layer per type; the button restores whichever type is missing
			for _, t := range tilemap.AllLayerTypes {
				if g.ed.Map.LayerByType(t) != nil {
					continue
				}
				if g.ed.AddLayer(fmt.Sprintf("%s layer", t), t) {
					g.refreshLayerPanel()
				}
				return
			}
			g.status = "all layer types present"
		},
		OnDeleteLayer: func(id int) {
			if g.ed.DeleteLayer(id) {
				g.refreshLayerPanel()
				g.rebuildPalette()
			}
		},
		OnRenameLayer: func(id int, name string) {
			if g.ed.RenameLayer(id, name) {
				g.refreshLayerPanel()
			}
		},
		OnCycleLayerType: func(id int) {
			l := g.ed.Map.LayerByID(id)
			if l == nil {
				return
			}
			next := nextLayerType(l.Type)
			if g.ed.SetLayerType(id, next) {
				g.refreshLayerPanel()
				g.rebuildPalette()
			}
		},
		OnToggleVisible: func(id int) {
			if l := g.ed.Map.LayerByID(id); l != nil {
				l.Visible = !l.Visible
				g.refreshLayerPanel()
			}
		},

		OnBrushSelected: func(gid int) { g.onBrushClicked(gid) },
		OnMergeToggle:   g.onMergeToggle,
		OnSeparate: func(gid int) {
			g.brushEdit("separate", g.ed.SeparateBrush(g.ed.ActiveLayer().Type, gid))
		},
		OnRemove: func(gid int) {
			g.brushEdit("remove", g.ed.RemoveBrush(g.ed.ActiveLayer().Type, gid))
		},
		OnMoveBrush: func(gid, dir int) {
			g.brushEdit("reorder", g.ed.ReorderBrush(g.ed.ActiveLayer().Type, gid, gid+dir))
		},

		OnSave:   g.doSave,
		OnLoad:   func() { g.doLoad() },
		OnExport: g.doExport,
		OnCopy: func() {
			if err := g.copyMapToClipboard(); err != nil {
				log.Printf("copy: %v", err)
				g.status = "copy failed"
				return
			}
			g.status = "copied map text"
		},
	})
}

func (g *Game) doLoad() {
	if err := g.loadProject(g.savePath); err != nil {
		log.Printf("load: %v", err)
		g.status = "load failed"
		return
	}
	g.status = "loaded " + filepath.Base(g.savePath)
}

func (g *Game) onBrushClicked(gid int) {
	if g.merging {
		g.mergeGIDs = append(g.mergeGIDs, gid)
		g.status = fmt.Sprintf("merging %d brushes", len(g.mergeGIDs))
		return
	}
	g.ed.SetActiveGID(gid)
}

// onMergeToggle starts collecting palette picks; the second press applies
// the merge. Returns whether collection is now active.
func (g *Game) onMergeToggle() bool {
	if !g.merging {
		g.merging = true
		g.mergeGIDs = g.mergeGIDs[:0]
		g.status = "pick brushes to merge"
		return true
	}
	g.merging = false
	if len(g.mergeGIDs) >= 2 {
		g.brushEdit("merge", g.ed.MergeBrushes(g.ed.ActiveLayer().Type, g.mergeGIDs))
	}
	g.mergeGIDs = g.mergeGIDs[:0]
	return false
}

func (g *Game) brushEdit(op string, err error) {
	if err != nil {
		log.Printf("%s brush: %v", op, err)
		g.status = op + " failed"
		return
	}
	g.rebuildPalette()
	g.status = op + " done"
}

func nextLayerType(t tilemap.LayerType) tilemap.LayerType {
	for i, cur := range tilemap.AllLayerTypes {
		if cur == t {
			return tilemap.AllLayerTypes[(i+1)%len(tilemap.AllLayerTypes)]
		}
	}
	return tilemap.LayerBackground
}
