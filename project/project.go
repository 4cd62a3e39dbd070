// Package project reads and writes the editor's project file: the full model
// state plus tileset images and the minimap, as one JSON document.
package project

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/tidegrove/flaremap/atlas"
	"github.com/tidegrove/flaremap/tilemap"
)

// Version is written into every project file; loads reject newer versions.
const Version = 1

// TilesetData records one layer type's palette: grid metrics plus the
// detected GID-to-rectangle mapping.
type TilesetData struct {
	LayerType     tilemap.LayerType  `json:"layerType"`
	FileName      string             `json:"fileName"`
	Columns       int                `json:"columns"`
	Rows          int                `json:"rows"`
	Count         int                `json:"count"`
	DetectedTiles map[int]atlas.Rect `json:"detectedTiles"`
}

// Data is the serialized project.
type Data struct {
	Name     string               `json:"name"`
	Width    int                  `json:"width"`
	Height   int                  `json:"height"`
	TileSize int                  `json:"tileSize"`
	Layers   []*tilemap.Layer     `json:"layers"`
	Objects  []*tilemap.MapObject `json:"objects"`
	HeroX    int                  `json:"heroX"`
	HeroY    int                  `json:"heroY"`
	Tilesets []TilesetData        `json:"tilesets"`

	// TilesetImages maps file names to base64 PNG data.
	TilesetImages map[string]string `json:"tilesetImages,omitempty"`
	Minimap       string            `json:"minimap,omitempty"`

	Version int `json:"version"`
}

// Capture assembles a project document from live model state. Images are
// embedded as base64 PNG so the project file is self-contained.
func Capture(name string, m *tilemap.Map, tilesets map[tilemap.LayerType]*atlas.Tileset, brushes map[tilemap.LayerType]*atlas.BrushSet, minimap image.Image) (*Data, error) {
	d := &Data{
		Name:     name,
		Width:    m.Width,
		Height:   m.Height,
		TileSize: m.TileW,
		Layers:   tilemap.CloneLayers(m.Layers),
		Objects:  tilemap.CloneObjects(m.Objects),
		HeroX:    m.HeroX,
		HeroY:    m.HeroY,
		Version:  Version,
	}
	for _, t := range tilemap.AllLayerTypes {
		ts, ok := tilesets[t]
		if !ok {
			continue
		}
		td := TilesetData{
			LayerType: t,
			FileName:  ts.FileName,
			Columns:   ts.Columns,
			Rows:      ts.Rows,
			Count:     ts.Count,
		}
		if s := brushes[t]; s != nil {
			td.DetectedTiles = make(map[int]atlas.Rect, s.Len())
			for gid, r := range s.Rects() {
				td.DetectedTiles[gid+1] = r
			}
		}
		d.Tilesets = append(d.Tilesets, td)

		if ts.Image != nil {
			if d.TilesetImages == nil {
				d.TilesetImages = make(map[string]string)
			}
			enc, err := encodeImage(ts.Image)
			if err != nil {
				return nil, fmt.Errorf("project: encode tileset %s: %w", ts.FileName, err)
			}
			d.TilesetImages[ts.FileName] = enc
		}
	}
	if minimap != nil {
		enc, err := encodeImage(minimap)
		if err != nil {
			return nil, fmt.Errorf("project: encode minimap: %w", err)
		}
		d.Minimap = enc
	}
	return d, nil
}

// TilesetImage decodes the embedded image for a file name, nil if absent.
func (d *Data) TilesetImage(fileName string) (image.Image, error) {
	enc, ok := d.TilesetImages[fileName]
	if !ok {
		return nil, nil
	}
	return decodeImage(enc)
}

// BrushRects returns a tileset entry's detected rectangles in GID order.
func (td *TilesetData) BrushRects() []atlas.Rect {
	out := make([]atlas.Rect, len(td.DetectedTiles))
	for gid, r := range td.DetectedTiles {
		if gid >= 1 && gid <= len(out) {
			out[gid-1] = r
		}
	}
	return out
}

// Save writes the project document to disk.
func Save(path string, d *Data) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("project: save %s: %w", path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("project: save %s: %w", path, err)
	}
	return nil
}

// Load reads a project document from disk.
func Load(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("project: load %s: %w", path, err)
	}
	defer f.Close()
	var d Data
	if err := json.NewDecoder(f).Decode(&d); err != nil {
		return nil, fmt.Errorf("project: load %s: %w", path, err)
	}
	if d.Version > Version {
		return nil, fmt.Errorf("project: load %s: unsupported version %d", path, d.Version)
	}
	return &d, nil
}

func encodeImage(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeImage(enc string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, fmt.Errorf("project: decode image: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("project: decode image: %w", err)
	}
	return img, nil
}
