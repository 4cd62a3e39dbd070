package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.design/x/clipboard"
	_ "golang.org/x/image/bmp"

	"github.com/tidegrove/flaremap/flare"
	"github.com/tidegrove/flaremap/project"
	"github.com/tidegrove/flaremap/tilemap"
)

// loadImageFile decodes a tileset image from disk. A decode failure leaves
// the palette untouched; the caller just reports it.
func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tileset %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode tileset %s: %w", path, err)
	}
	return img, nil
}

// loadTileset runs detection for a layer type and wires the watcher plus the
// canvas texture.
func (g *Game) loadTileset(t tilemap.LayerType, path string) error {
	img, err := loadImageFile(path)
	if err != nil {
		return err
	}
	if err := g.ed.LoadTileset(t, img, filepath.Base(path)); err != nil {
		return err
	}
	g.canvas.SetTilesetImage(t, img)
	g.tilesetPaths[t] = path
	g.rebuildPalette()
	g.watchTileset(path)
	return nil
}

// reloadTileset re-runs detection after the file changed on disk, keeping
// brush order for unchanged rectangles.
func (g *Game) reloadTileset(path string) {
	for t, p := range g.tilesetPaths {
		if p != path {
			continue
		}
		img, err := loadImageFile(path)
		if err != nil {
			log.Printf("tileset reload: %v", err)
			return
		}
		if err := g.ed.ReloadTileset(t, img, filepath.Base(path)); err != nil {
			log.Printf("tileset reload: %v", err)
			return
		}
		g.canvas.SetTilesetImage(t, img)
		g.rebuildPalette()
		log.Printf("tileset %s re-detected", filepath.Base(path))
	}
}

// exportFlare writes the map txt and tileset definition next to the project
// file. Export is blocked when no tileset is loaded.
func (g *Game) exportFlare() error {
	tilesets := g.ed.Tilesets()
	mapTxt, err := flare.GenerateMapTxt(g.ed.Map, tilesets)
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(g.savePath, filepath.Ext(g.savePath))
	if err := os.WriteFile(base+".txt", []byte(mapTxt), 0o644); err != nil {
		return fmt.Errorf("write map txt: %w", err)
	}
	outDir := filepath.Dir(g.savePath)
	written := map[string]bool{}
	for _, t := range tilemap.AllLayerTypes {
		ts, ok := tilesets[t]
		if !ok {
			continue
		}
		rel := flare.TilesetDefPath(ts)
		if written[rel] {
			continue
		}
		written[rel] = true
		def, err := flare.GenerateTilesetDef(ts)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("export tileset defs: %w", err)
		}
		if err := os.WriteFile(path, []byte(def), 0o644); err != nil {
			return fmt.Errorf("write tileset def: %w", err)
		}
	}
	log.Printf("exported %s.txt", base)
	return nil
}

// copyMapToClipboard puts the generated map text on the system clipboard.
func (g *Game) copyMapToClipboard() error {
	mapTxt, err := flare.GenerateMapTxt(g.ed.Map, g.ed.Tilesets())
	if err != nil {
		return err
	}
	if !g.clipboardReady {
		return fmt.Errorf("clipboard unavailable")
	}
	clipboard.Write(clipboard.FmtText, []byte(mapTxt))
	return nil
}

// saveProject captures the full session into the project JSON and refreshes
// the local fallback backup.
func (g *Game) saveProject() error {
	d, err := project.Capture(g.projectName, g.ed.Map, g.ed.Tilesets(), g.ed.BrushSets(), g.minimap.Render())
	if err != nil {
		return err
	}
	if err := project.Save(g.savePath, d); err != nil {
		return err
	}
	if err := project.SaveBackup(filepath.Dir(g.savePath), d); err != nil {
		log.Printf("backup: %v", err)
	}
	g.ed.ClearDirty()
	return nil
}

// loadProject restores a saved session, falling back to the local backup
// when the file is absent.
func (g *Game) loadProject(path string) error {
	d, err := project.Load(path)
	if err != nil {
		if backup := project.LoadBackup(filepath.Dir(path)); backup != nil {
			log.Printf("project load failed, using local backup: %v", err)
			d = backup
		} else {
			return err
		}
	}
	g.applyProject(d)
	return nil
}

func (g *Game) applyProject(d *project.Data) {
	g.projectName = d.Name
	g.ed.RestoreSession(d.Width, d.Height, d.TileSize, d.Layers, d.Objects, d.HeroX, d.HeroY)
	for _, td := range d.Tilesets {
		img, err := d.TilesetImage(td.FileName)
		if err != nil {
			log.Printf("project tileset %s: %v", td.FileName, err)
			continue
		}
		g.ed.InstallTileset(td.LayerType, img, td.FileName, td.BrushRects())
		if img != nil {
			g.canvas.SetTilesetImage(td.LayerType, img)
		}
	}
	g.rebuildPalette()
	g.refreshLayerPanel()
}
