package main

import (
	"image"
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/tidegrove/flaremap/atlas"
)

const paletteColumns = 4

// PalettePanel shows the detected brushes of the active layer's tileset and
// hosts the brush editing buttons. The grid is rebuilt whenever the brush
// set or the active layer changes.
type PalettePanel struct {
	Container *widget.Container
	grid      *widget.Container

	theme    *widget.Theme
	fontFace *text.Face

	onBrushSelected func(gid int)
	onMergeToggle   func() bool
	onSeparate      func(gid int)
	onRemove        func(gid int)
	onMoveBrush     func(gid, dir int)

	selectedGID int
	merging     bool
	mergeBtn    *widget.Button
}

func newPalettePanel(theme *widget.Theme, fontFace *text.Face) *PalettePanel {
	p := &PalettePanel{theme: theme, fontFace: fontFace}

	p.Container = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(220, 400),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{35, 40, 45, 255})),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 6, Right: 6}),
			),
		),
	)

	label := widget.NewLabel(
		widget.LabelOpts.Text("Brushes", fontFace, &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
	)
	p.Container.AddChild(label)

	p.grid = widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewGridLayout(
				widget.GridLayoutOpts.Columns(paletteColumns),
				widget.GridLayoutOpts.Spacing(2, 2),
			),
		),
	)
	p.Container.AddChild(p.grid)

	p.Container.AddChild(p.buildButtons())
	return p
}

func (p *PalettePanel) buildButtons() *widget.Container {
	row := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewGridLayout(
				widget.GridLayoutOpts.Columns(3),
				widget.GridLayoutOpts.Spacing(4, 4),
			),
		),
	)
	p.mergeBtn = widget.NewButton(
		widget.ButtonOpts.Image(p.theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Merge", p.fontFace, p.theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if p.onMergeToggle != nil {
				p.merging = p.onMergeToggle()
			}
		}),
	)
	separateBtn := widget.NewButton(
		widget.ButtonOpts.Image(p.theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Split", p.fontFace, p.theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if p.onSeparate != nil && p.selectedGID != 0 {
				p.onSeparate(p.selectedGID)
			}
		}),
	)
	removeBtn := widget.NewButton(
		widget.ButtonOpts.Image(p.theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Remove", p.fontFace, p.theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if p.onRemove != nil && p.selectedGID != 0 {
				p.onRemove(p.selectedGID)
			}
		}),
	)
	upBtn := widget.NewButton(
		widget.ButtonOpts.Image(p.theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Up", p.fontFace, p.theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if p.onMoveBrush != nil && p.selectedGID > 1 {
				p.onMoveBrush(p.selectedGID, -1)
			}
		}),
	)
	downBtn := widget.NewButton(
		widget.ButtonOpts.Image(p.theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Down", p.fontFace, p.theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if p.onMoveBrush != nil && p.selectedGID != 0 {
				p.onMoveBrush(p.selectedGID, 1)
			}
		}),
	)
	row.AddChild(p.mergeBtn)
	row.AddChild(separateBtn)
	row.AddChild(removeBtn)
	row.AddChild(upBtn)
	row.AddChild(downBtn)
	return row
}

// Rebuild replaces the grid contents from a brush set. tileset may be nil
// before any image is loaded.
func (p *PalettePanel) Rebuild(set *atlas.BrushSet, tileset *ebiten.Image) {
	p.grid.RemoveChildren()
	p.selectedGID = 0
	if set == nil || tileset == nil {
		return
	}
	for gid := 1; gid <= set.Len(); gid++ {
		r, ok := set.Rect(gid)
		if !ok {
			continue
		}
		sub, subOK := tileset.SubImage(image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)).(*ebiten.Image)
		if !subOK {
			continue
		}
		g := gid
		cell := widget.NewGraphic(
			widget.GraphicOpts.Image(sub),
			widget.GraphicOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(48, 48),
				widget.WidgetOpts.MouseButtonClickedHandler(func(args *widget.WidgetMouseButtonClickedEventArgs) {
					p.selectedGID = g
					if p.onBrushSelected != nil {
						p.onBrushSelected(g)
					}
				}),
			),
		)
		p.grid.AddChild(cell)
	}
}
