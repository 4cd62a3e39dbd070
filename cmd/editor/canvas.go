package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/tidegrove/flaremap/editor"
	"github.com/tidegrove/flaremap/tilemap"
)

// Canvas renders the map view. The frame follows a fixed order: clear, grid
// diamonds, tiles bottom-to-top, hover, selection, hero, shape preview,
// stamp preview, debug overlay. The minimap is a separate pass owned by the
// game.
type Canvas struct {
	ed *editor.Editor

	// tileset images converted to GPU textures, keyed by layer type
	tilesetImgs map[tilemap.LayerType]*ebiten.Image

	whiteImg  *ebiten.Image
	ShowDebug bool
}

func NewCanvas(ed *editor.Editor) *Canvas {
	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)
	return &Canvas{
		ed:          ed,
		tilesetImgs: make(map[tilemap.LayerType]*ebiten.Image),
		whiteImg:    white,
	}
}

// SetTilesetImage caches the GPU texture for a layer type's tileset.
func (c *Canvas) SetTilesetImage(t tilemap.LayerType, img image.Image) {
	c.tilesetImgs[t] = ebiten.NewImageFromImage(img)
}

func (c *Canvas) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)

	c.drawGrid(screen)
	c.drawTiles(screen)
	c.drawHover(screen)
	c.drawSelection(screen)
	c.drawHero(screen)
	c.drawShapePreview(screen)
	c.drawStampPreview(screen)
	if c.ShowDebug {
		c.drawDebug(screen)
	}
}

// diamond returns the four screen vertices of a cell, top right bottom left.
func (c *Canvas) diamond(x, y int) (tx, ty, rx, ry, bx, by, lx, ly float32) {
	cam := c.ed.Camera
	cx, cy := cam.MapToScreen(x, y)
	halfW := float64(cam.TileW) / 2 * cam.Zoom
	halfH := float64(cam.TileH) / 2 * cam.Zoom
	return float32(cx), float32(cy - halfH),
		float32(cx + halfW), float32(cy),
		float32(cx), float32(cy + halfH),
		float32(cx - halfW), float32(cy)
}

func (c *Canvas) strokeDiamond(dst *ebiten.Image, x, y int, width float32, clr color.Color) {
	tx, ty, rx, ry, bx, by, lx, ly := c.diamond(x, y)
	vector.StrokeLine(dst, tx, ty, rx, ry, width, clr, true)
	vector.StrokeLine(dst, rx, ry, bx, by, width, clr, true)
	vector.StrokeLine(dst, bx, by, lx, ly, width, clr, true)
	vector.StrokeLine(dst, lx, ly, tx, ty, width, clr, true)
}

func (c *Canvas) fillDiamond(dst *ebiten.Image, x, y int, clr color.RGBA) {
	tx, ty, rx, ry, bx, by, lx, ly := c.diamond(x, y)
	var path vector.Path
	path.MoveTo(tx, ty)
	path.LineTo(rx, ry)
	path.LineTo(bx, by)
	path.LineTo(lx, ly)
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = 0
		vs[i].SrcY = 0
		vs[i].ColorR = float32(clr.R) / 255
		vs[i].ColorG = float32(clr.G) / 255
		vs[i].ColorB = float32(clr.B) / 255
		vs[i].ColorA = float32(clr.A) / 255
	}
	dst.DrawTriangles(vs, is, c.whiteImg, &ebiten.DrawTrianglesOptions{})
}

func (c *Canvas) drawGrid(screen *ebiten.Image) {
	m := c.ed.Map
	clr := color.RGBA{R: 120, G: 130, B: 130, A: 90}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c.strokeDiamond(screen, x, y, 1, clr)
		}
	}
}

// drawTiles iterates layers in reverse priority order so background renders
// first and npc last. Sprites anchor their bottom center on the diamond's
// bottom vertex.
func (c *Canvas) drawTiles(screen *ebiten.Image) {
	m := c.ed.Map
	cam := c.ed.Camera
	for i := len(m.Layers) - 1; i >= 0; i-- {
		l := m.Layers[i]
		if !l.Visible {
			continue
		}
		img := c.tilesetImgs[l.Type]
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				gid := m.GID(l, x, y)
				if gid == 0 {
					continue
				}
				r, ok := c.brushRect(l.Type, gid)
				if img == nil || !ok {
					c.fillDiamond(screen, x, y, placeholderColor(l.Type, l.Transparency))
					continue
				}
				sub, subOK := img.SubImage(r).(*ebiten.Image)
				if !subOK {
					continue
				}
				cx, cy := cam.MapToScreen(x, y)
				groundY := cy + float64(cam.TileH)/2*cam.Zoom
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Scale(cam.Zoom, cam.Zoom)
				op.GeoM.Translate(cx-float64(r.Dx())*cam.Zoom/2, groundY-float64(r.Dy())*cam.Zoom)
				op.ColorScale.ScaleAlpha(float32(l.Transparency))
				screen.DrawImage(sub, op)
			}
		}
	}
}

// brushRect resolves a GID through the detected brush set first and falls
// back to the fixed tileset grid.
func (c *Canvas) brushRect(t tilemap.LayerType, gid int) (image.Rectangle, bool) {
	if s := c.ed.BrushSet(t); s != nil {
		if br, found := s.Rect(gid); found {
			return image.Rect(br.X, br.Y, br.X+br.W, br.Y+br.H), true
		}
	}
	if ts := c.ed.Tileset(t); ts != nil {
		if cr, found := ts.CellRect(gid); found {
			return image.Rect(cr.X, cr.Y, cr.X+cr.W, cr.Y+cr.H), true
		}
	}
	return image.Rectangle{}, false
}

func placeholderColor(t tilemap.LayerType, transparency float64) color.RGBA {
	base := map[tilemap.LayerType]color.RGBA{
		tilemap.LayerNPC:        colornames.Mediumseagreen,
		tilemap.LayerEnemy:      colornames.Indianred,
		tilemap.LayerEvent:      colornames.Goldenrod,
		tilemap.LayerCollision:  colornames.Slategray,
		tilemap.LayerObject:     colornames.Steelblue,
		tilemap.LayerBackground: colornames.Darkolivegreen,
	}[t]
	base.A = uint8(200 * transparency)
	return base
}

func (c *Canvas) drawHover(screen *ebiten.Image) {
	x, y, ok := c.ed.Hover()
	if !ok {
		return
	}
	m := c.ed.Map
	// glow when the hovered cell holds an interactive object or the hero
	if m.ObjectAt(x, y) != nil || (x == m.HeroX && y == m.HeroY) {
		c.fillDiamond(screen, x, y, color.RGBA{R: 255, G: 220, B: 90, A: 90})
		c.strokeDiamond(screen, x, y, 2, colornames.Gold)
		return
	}
	c.fillDiamond(screen, x, y, color.RGBA{R: 255, G: 255, B: 255, A: 60})
}

func (c *Canvas) drawSelection(screen *ebiten.Image) {
	sel := c.ed.CurrentSelection()
	if !sel.Active {
		return
	}
	for _, st := range sel.Tiles {
		c.fillDiamond(screen, st.X, st.Y, color.RGBA{R: 0, G: 150, B: 255, A: 45})
		c.strokeDiamond(screen, st.X, st.Y, 1.5, colornames.Deepskyblue)
	}
}

func (c *Canvas) drawHero(screen *ebiten.Image) {
	m := c.ed.Map
	hovX, hovY, hovOK := c.ed.Hover()
	hovered := hovOK && hovX == m.HeroX && hovY == m.HeroY

	fill := color.RGBA{R: 230, G: 140, B: 30, A: 200}
	if hovered {
		fill = color.RGBA{R: 255, G: 180, B: 60, A: 230}
	}
	c.fillDiamond(screen, m.HeroX, m.HeroY, fill)
	c.strokeDiamond(screen, m.HeroX, m.HeroY, 2, colornames.Orangered)

	// icon: a small marker dot above the diamond center
	cx, cy := c.ed.Camera.MapToScreen(m.HeroX, m.HeroY)
	r := float32(4 * c.ed.Camera.Zoom)
	vector.FillCircle(screen, float32(cx), float32(cy)-r*2, r, colornames.White, true)
}

func (c *Canvas) drawShapePreview(screen *ebiten.Image) {
	for _, cell := range c.ed.ShapePreview() {
		c.fillDiamond(screen, cell.X, cell.Y, color.RGBA{R: 80, G: 220, B: 100, A: 60})
		c.strokeDiamond(screen, cell.X, cell.Y, 1.5, colornames.Limegreen)
	}
}

func (c *Canvas) drawStampPreview(screen *ebiten.Image) {
	if c.ed.Mode() != editor.ModeStamp {
		return
	}
	s := c.ed.ActiveStamp()
	if s == nil {
		return
	}
	hx, hy, ok := c.ed.Hover()
	if !ok {
		return
	}
	m := c.ed.Map
	fits := hx+s.Width <= m.Width && hy+s.Height <= m.Height
	outline := colornames.Mediumpurple
	if !fits {
		outline = colornames.Crimson
	}
	for _, st := range s.Tiles {
		x, y := hx+st.X, hy+st.Y
		if !m.InBounds(x, y) {
			continue
		}
		c.strokeDiamond(screen, x, y, 1.5, outline)
	}
}

// drawDebug outlines every diamond plus the sprite placement rectangles.
func (c *Canvas) drawDebug(screen *ebiten.Image) {
	m := c.ed.Map
	cam := c.ed.Camera
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c.strokeDiamond(screen, x, y, 1, color.RGBA{R: 255, A: 120})
			for _, l := range m.Layers {
				gid := m.GID(l, x, y)
				if gid == 0 {
					continue
				}
				r, ok := c.brushRect(l.Type, gid)
				if !ok {
					continue
				}
				cx, cy := cam.MapToScreen(x, y)
				groundY := cy + float64(cam.TileH)/2*cam.Zoom
				w := float32(float64(r.Dx()) * cam.Zoom)
				h := float32(float64(r.Dy()) * cam.Zoom)
				vector.StrokeRect(screen, float32(cx)-w/2, float32(groundY)-h, w, h, 1, color.RGBA{R: 255, G: 0, B: 255, A: 120}, false)
			}
		}
	}
}
