package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/tidegrove/flaremap/editor"
)

// minimapCellPx is the orthographic cell size of the minimap pass. The
// minimap ignores zoom and pan entirely.
const minimapCellPx = 4

// Minimap renders a top-down overview into a plain RGBA image. Rendering on
// the CPU keeps the same image usable for the project file snapshot.
type Minimap struct {
	ed  *editor.Editor
	img *image.RGBA
	tex *ebiten.Image
}

func NewMinimap(ed *editor.Editor) *Minimap {
	return &Minimap{ed: ed}
}

// Render rebuilds the minimap from the current model state.
func (mm *Minimap) Render() *image.RGBA {
	m := mm.ed.Map
	w, h := m.Width*minimapCellPx, m.Height*minimapCellPx
	if mm.img == nil || mm.img.Bounds().Dx() != w || mm.img.Bounds().Dy() != h {
		mm.img = image.NewRGBA(image.Rect(0, 0, w, h))
		mm.tex = nil
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			mm.fillCell(x, y, mm.cellColor(x, y))
		}
	}
	mm.fillCell(m.HeroX, m.HeroY, colornames.Orange)
	return mm.img
}

// cellColor is the topmost visible nonzero layer's color, dark when empty.
func (mm *Minimap) cellColor(x, y int) color.RGBA {
	m := mm.ed.Map
	for _, l := range m.Layers {
		if !l.Visible {
			continue
		}
		if m.GID(l, x, y) != 0 {
			return placeholderColor(l.Type, 1.0)
		}
	}
	return color.RGBA{R: 30, G: 36, B: 36, A: 255}
}

func (mm *Minimap) fillCell(x, y int, clr color.RGBA) {
	clr.A = 255
	for py := y * minimapCellPx; py < (y+1)*minimapCellPx; py++ {
		for px := x * minimapCellPx; px < (x+1)*minimapCellPx; px++ {
			mm.img.SetRGBA(px, py, clr)
		}
	}
}

// Draw renders the overview into the screen corner with a border.
func (mm *Minimap) Draw(screen *ebiten.Image, ox, oy float64) {
	mm.Render()
	if mm.tex == nil {
		mm.tex = ebiten.NewImageFromImage(mm.img)
	} else {
		mm.tex.WritePixels(mm.img.Pix)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(ox, oy)
	screen.DrawImage(mm.tex, op)
	vector.StrokeRect(screen, float32(ox), float32(oy),
		float32(mm.img.Bounds().Dx()), float32(mm.img.Bounds().Dy()), 1, colornames.Gray, false)
}
