package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/tidegrove/flaremap/editor"
)

// ToolBar holds the radio groups so the game can switch tools
// programmatically, e.g. after an eyedropper pick reverts to the brush.
type ToolBar struct {
	modeGroup   *widget.RadioGroup
	modeButtons map[editor.Mode]*widget.Button

	tileGroup   *widget.RadioGroup
	tileButtons map[editor.TileTool]*widget.Button
}

// SetMode moves the mode highlight without going through the click handler.
func (tb *ToolBar) SetMode(m editor.Mode) {
	if b, ok := tb.modeButtons[m]; ok {
		tb.modeGroup.SetActive(b)
	}
}

func (tb *ToolBar) SetTileTool(t editor.TileTool) {
	if b, ok := tb.tileButtons[t]; ok {
		tb.tileGroup.SetActive(b)
	}
}

func buildToolBar(
	theme *widget.Theme,
	fontFace *text.Face,
	onModeSelected func(editor.Mode),
	onTileToolSelected func(editor.TileTool),
	onSelectionToolSelected func(editor.SelectionTool),
	onShapeToolSelected func(editor.ShapeTool),
	onStampToolSelected func(editor.StampTool),
) (*widget.Container, *ToolBar) {
	toolbar := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(4),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 6, Right: 6}),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{35, 40, 45, 230})),
	)

	tb := &ToolBar{
		modeButtons: map[editor.Mode]*widget.Button{},
		tileButtons: map[editor.TileTool]*widget.Button{},
	}

	modes := []editor.Mode{
		editor.ModeTiles, editor.ModeSelection, editor.ModeShape,
		editor.ModeEyedropper, editor.ModeStamp,
	}
	modeLabels := map[editor.Mode]string{
		editor.ModeTiles:      "Tiles",
		editor.ModeSelection:  "Select",
		editor.ModeShape:      "Shape",
		editor.ModeEyedropper: "Pick",
		editor.ModeStamp:      "Stamp",
	}
	row, group, buttons := buildToggleRow(theme, fontFace, len(modes), func(i int) string {
		return modeLabels[modes[i]]
	}, func(i int) {
		if onModeSelected != nil {
			onModeSelected(modes[i])
		}
	})
	toolbar.AddChild(row)
	tb.modeGroup = group
	for i, m := range modes {
		tb.modeButtons[m] = buttons[i]
	}

	tileTools := []editor.TileTool{editor.TileBrush, editor.TileEraser, editor.TileBucket}
	tileLabels := []string{"Brush", "Eraser", "Bucket"}
	row, group, buttons = buildToggleRow(theme, fontFace, len(tileTools), func(i int) string {
		return tileLabels[i]
	}, func(i int) {
		if onTileToolSelected != nil {
			onTileToolSelected(tileTools[i])
		}
	})
	toolbar.AddChild(row)
	tb.tileGroup = group
	for i, t := range tileTools {
		tb.tileButtons[t] = buttons[i]
	}

	selTools := []editor.SelectionTool{
		editor.SelectRectangular, editor.SelectCircular,
		editor.SelectMagicWand, editor.SelectSameTile,
	}
	selLabels := []string{"Rect Sel", "Circle Sel", "Wand", "Same Tile"}
	row, _, _ = buildToggleRow(theme, fontFace, len(selTools), func(i int) string {
		return selLabels[i]
	}, func(i int) {
		if onSelectionToolSelected != nil {
			onSelectionToolSelected(selTools[i])
		}
	})
	toolbar.AddChild(row)

	shapeTools := []editor.ShapeTool{editor.ShapeRectangle, editor.ShapeCircle, editor.ShapeLine}
	shapeLabels := []string{"Rectangle", "Circle", "Line"}
	row, _, _ = buildToggleRow(theme, fontFace, len(shapeTools), func(i int) string {
		return shapeLabels[i]
	}, func(i int) {
		if onShapeToolSelected != nil {
			onShapeToolSelected(shapeTools[i])
		}
	})
	toolbar.AddChild(row)

	stampTools := []editor.StampTool{editor.StampCreate, editor.StampPlace}
	stampLabels := []string{"Capture", "Place"}
	row, _, _ = buildToggleRow(theme, fontFace, len(stampTools), func(i int) string {
		return stampLabels[i]
	}, func(i int) {
		if onStampToolSelected != nil {
			onStampToolSelected(stampTools[i])
		}
	})
	toolbar.AddChild(row)

	return toolbar, tb
}

// buildToggleRow creates a horizontal row of toggle buttons bound into a
// radio group. The first button starts active.
func buildToggleRow(
	theme *widget.Theme,
	fontFace *text.Face,
	count int,
	label func(i int) string,
	onSelected func(i int),
) (*widget.Container, *widget.RadioGroup, []*widget.Button) {
	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.White,
		Hover:    color.White,
		Pressed:  color.RGBA{255, 200, 90, 255},
		Disabled: color.Gray{Y: 128},
	}

	row := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
	)

	buttons := make([]*widget.Button, 0, count)
	for i := 0; i < count; i++ {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label(i), fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(64, 32),
			),
		)
		buttons = append(buttons, btn)
		row.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(buttons))
	for _, b := range buttons {
		elements = append(elements, b)
	}
	group := widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			for idx, b := range buttons {
				if args.Active == b {
					onSelected(idx)
					return
				}
			}
		}),
	)
	group.SetActive(buttons[0])

	return row, group, buttons
}
