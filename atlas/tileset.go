package atlas

import "image"

// Tileset carries the legacy fixed-grid metrics of a loaded tileset image.
// The grid is only a fallback: a GID resolves through the detected brush set
// first and through these metrics when no detected rectangle exists.
type Tileset struct {
	Image    image.Image `json:"-"`
	FileName string      `json:"fileName"`
	TileW    int         `json:"tileWidth"`
	TileH    int         `json:"tileHeight"`
	Columns  int         `json:"columns"`
	Rows     int         `json:"rows"`
	Count    int         `json:"count"`
}

// NewTileset computes grid metrics for an image at the given tile size.
func NewTileset(img image.Image, fileName string, tileW, tileH int) *Tileset {
	cols, rows := 0, 0
	if img != nil && tileW > 0 && tileH > 0 {
		cols = img.Bounds().Dx() / tileW
		rows = img.Bounds().Dy() / tileH
	}
	return &Tileset{
		Image:    img,
		FileName: fileName,
		TileW:    tileW,
		TileH:    tileH,
		Columns:  cols,
		Rows:     rows,
		Count:    cols * rows,
	}
}

// CellRect returns the grid rectangle for a 1-based GID.
func (t *Tileset) CellRect(gid int) (Rect, bool) {
	if t == nil || gid < 1 || gid > t.Count || t.Columns == 0 {
		return Rect{}, false
	}
	idx := gid - 1
	col := idx % t.Columns
	row := idx / t.Columns
	return Rect{X: col * t.TileW, Y: row * t.TileH, W: t.TileW, H: t.TileH}, true
}
