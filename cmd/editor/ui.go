package main

import (
	"bytes"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/tidegrove/flaremap/editor"
)

// UICallbacks carries every handler the shell wires into the widgets.
type UICallbacks struct {
	OnModeSelected          func(editor.Mode)
	OnTileToolSelected      func(editor.TileTool)
	OnSelectionToolSelected func(editor.SelectionTool)
	OnShapeToolSelected     func(editor.ShapeTool)
	OnStampToolSelected     func(editor.StampTool)

	OnLayerSelected  func(id int)
	OnNewLayer       func()
	OnDeleteLayer    func(id int)
	OnRenameLayer    func(id int, name string)
	OnCycleLayerType func(id int)
	OnToggleVisible  func(id int)

	OnBrushSelected func(gid int)
	OnMergeToggle   func() bool
	OnSeparate      func(gid int)
	OnRemove        func(gid int)
	OnMoveBrush     func(gid, dir int)

	OnSave   func()
	OnLoad   func()
	OnExport func()
	OnCopy   func()
}

// EditorUI bundles the widget tree with the handles the game updates.
type EditorUI struct {
	UI         *ebitenui.UI
	ToolBar    *ToolBar
	LayerPanel *LayerPanel
	Palette    *PalettePanel
}

func BuildEditorUI(cb UICallbacks) *EditorUI {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}

	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)

	toolbarContainer, toolBar := buildToolBar(
		ui.PrimaryTheme, &fontFace,
		cb.OnModeSelected, cb.OnTileToolSelected, cb.OnSelectionToolSelected,
		cb.OnShapeToolSelected, cb.OnStampToolSelected,
	)

	lp := &LayerPanel{
		onLayerSelected:  cb.OnLayerSelected,
		onNewLayer:       cb.OnNewLayer,
		onDeleteLayer:    cb.OnDeleteLayer,
		onRenameLayer:    cb.OnRenameLayer,
		onCycleLayerType: cb.OnCycleLayerType,
		onToggleVisible:  cb.OnToggleVisible,
	}
	leftPanel := buildLeftPanelUI(ui.PrimaryTheme, &fontFace, lp, cb)

	palette := newPalettePanel(ui.PrimaryTheme, &fontFace)
	palette.onBrushSelected = cb.OnBrushSelected
	palette.onMergeToggle = cb.OnMergeToggle
	palette.onSeparate = cb.OnSeparate
	palette.onRemove = cb.OnRemove
	palette.onMoveBrush = cb.OnMoveBrush

	// Root container: anchor layout
	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	leftPanel.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	palette.Container.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	toolbarContainer.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	root.AddChild(leftPanel)
	root.AddChild(palette.Container)
	root.AddChild(toolbarContainer)
	ui.Container = root

	return &EditorUI{
		UI:         ui,
		ToolBar:    toolBar,
		LayerPanel: lp,
		Palette:    palette,
	}
}

func buildLeftPanelUI(
	theme *widget.Theme,
	fontFace *text.Face,
	lp *LayerPanel,
	cb UICallbacks,
) *widget.Container {
	leftPanel := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(210, 400),
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

	fileRow := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewGridLayout(
				widget.GridLayoutOpts.Columns(2),
				widget.GridLayoutOpts.Spacing(4, 4),
			),
		),
	)
	addFileButton := func(label string, onClick func()) {
		fileRow.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, fontFace, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if onClick != nil {
					onClick()
				}
			}),
		))
	}
	addFileButton("Save", cb.OnSave)
	addFileButton("Load", cb.OnLoad)
	addFileButton("Export", cb.OnExport)
	addFileButton("Copy", cb.OnCopy)
	leftPanel.AddChild(fileRow)

	addLayersSection(leftPanel, theme, fontFace, lp)

	return leftPanel
}
