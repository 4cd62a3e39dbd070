package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/tidegrove/flaremap/tilemap"
)

// LayerEntry is a small value used by the UI list to represent a layer row.
type LayerEntry struct {
	ID      int
	Name    string
	Type    tilemap.LayerType
	Visible bool
}

// LayerPanel holds the list widget and small helpers used by the editor UI.
type LayerPanel struct {
	list    *widget.List
	entries []any

	onLayerSelected  func(id int)
	onNewLayer       func()
	onDeleteLayer    func(id int)
	onRenameLayer    func(id int, name string)
	onCycleLayerType func(id int)
	onToggleVisible  func(id int)

	// suppressEvents, when true, causes the selection handler to avoid
	// interpreting programmatic selections as user clicks.
	suppressEvents bool
}

func (lp *LayerPanel) SetLayers(layers []*tilemap.Layer) {
	if lp == nil || lp.list == nil {
		return
	}
	lp.suppressEvents = true
	entries := make([]any, len(layers))
	for i, l := range layers {
		entries[i] = LayerEntry{ID: l.ID, Name: l.Name, Type: l.Type, Visible: l.Visible}
	}
	lp.entries = entries
	lp.list.SetEntries(entries)
	lp.suppressEvents = false
}

func (lp *LayerPanel) SetSelected(id int) {
	if lp == nil || lp.list == nil {
		return
	}
	for _, e := range lp.entries {
		entry, ok := e.(LayerEntry)
		if !ok || entry.ID != id {
			continue
		}
		lp.suppressEvents = true
		lp.list.SetSelectedEntry(e)
		lp.suppressEvents = false
		return
	}
}

func (lp *LayerPanel) selectedID() (int, bool) {
	if sel, ok := lp.list.SelectedEntry().(LayerEntry); ok {
		return sel.ID, true
	}
	return 0, false
}

func addLayersSection(
	parent *widget.Container,
	theme *widget.Theme,
	fontFace *text.Face,
	lp *LayerPanel,
) {
	layersLabel := widget.NewLabel(
		widget.LabelOpts.Text("Layers", fontFace, &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
	)
	parent.AddChild(layersLabel)

	layerList := widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			entry, ok := e.(LayerEntry)
			if !ok {
				return ""
			}
			mark := " "
			if !entry.Visible {
				mark = "·"
			}
			return fmt.Sprintf("%s %s (%s)", mark, entry.Name, entry.Type)
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			entry, ok := args.Entry.(LayerEntry)
			if !ok || lp.suppressEvents {
				return
			}
			if lp.onLayerSelected != nil {
				lp.onLayerSelected(entry.ID)
			}
		}),
	)
	parent.AddChild(layerList)
	lp.list = layerList

	buttonsRow := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
	)
	newBtn := widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("New", fontFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if lp.onNewLayer != nil {
				lp.onNewLayer()
			}
		}),
	)
	deleteBtn := widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Delete", fontFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if id, ok := lp.selectedID(); ok && lp.onDeleteLayer != nil {
				lp.onDeleteLayer(id)
			}
		}),
	)
	typeBtn := widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Type", fontFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if id, ok := lp.selectedID(); ok && lp.onCycleLayerType != nil {
				lp.onCycleLayerType(id)
			}
		}),
	)
	visBtn := widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Show/Hide", fontFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if id, ok := lp.selectedID(); ok && lp.onToggleVisible != nil {
				lp.onToggleVisible(id)
			}
		}),
	)
	buttonsRow.AddChild(newBtn)
	buttonsRow.AddChild(deleteBtn)
	buttonsRow.AddChild(typeBtn)
	buttonsRow.AddChild(visBtn)
	parent.AddChild(buttonsRow)

	renameInput := widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(180, 28),
		),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     solidNineSlice(color.RGBA{45, 50, 55, 255}),
			Disabled: solidNineSlice(color.RGBA{30, 34, 38, 255}),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:     color.White,
			Disabled: color.Gray{Y: 120},
			Caret:    color.White,
		}),
		widget.TextInputOpts.Face(fontFace),
		widget.TextInputOpts.Placeholder("rename layer"),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			if id, ok := lp.selectedID(); ok && lp.onRenameLayer != nil && args.InputText != "" {
				lp.onRenameLayer(id, args.InputText)
			}
		}),
	)
	parent.AddChild(renameInput)
}
