// Package flare serializes the editor model into the Flare engine's
// plain-text map and tileset definition formats.
package flare

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidegrove/flaremap/atlas"
	"github.com/tidegrove/flaremap/tilemap"
)

// ErrNoTileset blocks export when no tileset has been loaded; the caller
// surfaces this to the user and produces no files.
var ErrNoTileset = errors.New("flare: no tileset loaded")

// exportedLayerTypes are the layer types Flare recognizes, in emission order.
var exportedLayerTypes = []tilemap.LayerType{
	tilemap.LayerBackground,
	tilemap.LayerObject,
	tilemap.LayerCollision,
}

// GenerateMapTxt renders the map definition: header, tileset references, one
// [layer] block per Flare-recognized layer type present, then one [event] or
// [enemy] block per map object. Output is deterministic; property keys are
// emitted sorted.
func GenerateMapTxt(m *tilemap.Map, tilesets map[tilemap.LayerType]*atlas.Tileset) (string, error) {
	if len(tilesets) == 0 {
		return "", ErrNoTileset
	}
	var b strings.Builder

	fmt.Fprintf(&b, "[header]\n")
	fmt.Fprintf(&b, "width=%d\n", m.Width)
	fmt.Fprintf(&b, "height=%d\n", m.Height)
	fmt.Fprintf(&b, "tilewidth=%d\n", m.TileW)
	fmt.Fprintf(&b, "tileheight=%d\n", m.TileH)
	fmt.Fprintf(&b, "orientation=isometric\n")
	fmt.Fprintf(&b, "hero_pos=%d,%d\n", m.HeroX, m.HeroY)
	fmt.Fprintf(&b, "tileset=%s\n", tilesetDefPath(firstTileset(tilesets)))
	b.WriteString("\n")

	fmt.Fprintf(&b, "[tilesets]\n")
	for _, name := range distinctImages(tilesets) {
		fmt.Fprintf(&b, "tileset=%s,%d,%d,0,0\n", name, m.TileW, m.TileH)
	}
	b.WriteString("\n")

	for _, t := range exportedLayerTypes {
		l := m.LayerByType(t)
		if l == nil {
			continue
		}
		fmt.Fprintf(&b, "[layer]\n")
		fmt.Fprintf(&b, "type=%s\n", t)
		fmt.Fprintf(&b, "data=\n")
		for y := 0; y < m.Height; y++ {
			row := make([]string, m.Width)
			for x := 0; x < m.Width; x++ {
				row[x] = fmt.Sprintf("%d", m.GID(l, x, y))
			}
			fmt.Fprintf(&b, "%s\n", strings.Join(row, ","))
		}
		b.WriteString("\n")
	}

	for _, o := range m.Objects {
		if o.Type == tilemap.ObjectEvent {
			writeEvent(&b, o)
		}
	}
	for _, o := range m.Objects {
		if o.Type == tilemap.ObjectEnemy {
			writeEnemy(&b, o)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func writeEvent(b *strings.Builder, o *tilemap.MapObject) {
	fmt.Fprintf(b, "[event]\n")
	if o.Name != "" {
		fmt.Fprintf(b, "# %s\n", o.Name)
	}
	fmt.Fprintf(b, "location=%d,%d,%d,%d\n", o.X, o.Y, o.Width, o.Height)
	if o.Activate != "" {
		fmt.Fprintf(b, "activate=%s\n", o.Activate)
	}
	writeProperties(b, o.Properties)
	b.WriteString("\n")
}

func writeEnemy(b *strings.Builder, o *tilemap.MapObject) {
	fmt.Fprintf(b, "[enemy]\n")
	if o.Name != "" {
		fmt.Fprintf(b, "# %s\n", o.Name)
	}
	if o.Category != "" {
		fmt.Fprintf(b, "type=%s\n", o.Category)
	}
	fmt.Fprintf(b, "location=%d,%d,%d,%d\n", o.X, o.Y, o.Width, o.Height)
	if o.Level > 0 {
		fmt.Fprintf(b, "level=%d\n", o.Level)
	}
	writeProperties(b, o.Properties)
	b.WriteString("\n")
}

func writeProperties(b *strings.Builder, props map[string]string) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s=%s\n", k, props[k])
	}
}

// GenerateTilesetDef renders the legacy fixed-grid tileset definition: the
// image path followed by one tile line per grid cell, with the draw offset
// fixed at half the tile size.
func GenerateTilesetDef(ts *atlas.Tileset) (string, error) {
	if ts == nil {
		return "", ErrNoTileset
	}
	var b strings.Builder
	fmt.Fprintf(&b, "img=%s\n", ts.FileName)
	b.WriteString("\n")
	offX, offY := ts.TileW/2, ts.TileH/2
	for gid := 1; gid <= ts.Count; gid++ {
		r, ok := ts.CellRect(gid)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "tile=%d,%d,%d,%d,%d,%d,%d\n", gid, r.X, r.Y, r.W, r.H, offX, offY)
	}
	return b.String(), nil
}

// TilesetDefPath derives the tileset definition path referenced by the map
// header, relative to the map file.
func TilesetDefPath(ts *atlas.Tileset) string { return tilesetDefPath(ts) }

// tilesetDefPath derives the map header's tileset definition reference from
// the image file name.
func tilesetDefPath(ts *atlas.Tileset) string {
	base := strings.TrimSuffix(filepath.Base(ts.FileName), filepath.Ext(ts.FileName))
	if base == "" {
		base = "tileset"
	}
	return fmt.Sprintf("tilesetdefs/tileset_%s.txt", base)
}

// firstTileset picks the tileset of the highest-priority layer type that has
// one, keeping the header reference deterministic.
func firstTileset(tilesets map[tilemap.LayerType]*atlas.Tileset) *atlas.Tileset {
	for _, t := range tilemap.AllLayerTypes {
		if ts, ok := tilesets[t]; ok {
			return ts
		}
	}
	for _, ts := range tilesets {
		return ts
	}
	return nil
}

// distinctImages lists each referenced image path once, ordered by the
// priority of the first layer type using it.
func distinctImages(tilesets map[tilemap.LayerType]*atlas.Tileset) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tilemap.AllLayerTypes {
		ts, ok := tilesets[t]
		if !ok || seen[ts.FileName] {
			continue
		}
		seen[ts.FileName] = true
		out = append(out, ts.FileName)
	}
	return out
}
