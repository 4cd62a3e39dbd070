package editor

// Button identifies a pointer button. The state machine only distinguishes
// left, right, and middle.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Modifiers carries the keyboard modifier state alongside an input event.
// Ctrl stands in for cmd on platforms that use it.
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
}

// Key is the subset of keys the editor core reacts to. The host translates
// its own key codes into these before calling KeyDown/KeyUp.
type Key string

const (
	KeySpace     Key = "space"
	KeyZ         Key = "z"
	KeyY         Key = "y"
	KeyA         Key = "a"
	KeyDelete    Key = "delete"
	KeyBackspace Key = "backspace"
	KeyEscape    Key = "escape"
)

// Mode is the top-level tool mode.
type Mode string

const (
	ModeTiles      Mode = "tiles"
	ModeSelection  Mode = "selection"
	ModeShape      Mode = "shape"
	ModeEyedropper Mode = "eyedropper"
	ModeStamp      Mode = "stamp"
)

// TileTool is the sub-tool for ModeTiles.
type TileTool string

const (
	TileBrush  TileTool = "brush"
	TileEraser TileTool = "eraser"
	TileBucket TileTool = "bucket"
)

// SelectionTool is the sub-tool for ModeSelection.
type SelectionTool string

const (
	SelectRectangular SelectionTool = "rectangular"
	SelectCircular    SelectionTool = "circular"
	SelectMagicWand   SelectionTool = "magic-wand"
	SelectSameTile    SelectionTool = "same-tile"
)

// ShapeTool is the sub-tool for ModeShape.
type ShapeTool string

const (
	ShapeRectangle ShapeTool = "rectangle"
	ShapeCircle    ShapeTool = "circle"
	ShapeLine      ShapeTool = "line"
)

// StampTool is the sub-tool for ModeStamp.
type StampTool string

const (
	StampCreate StampTool = "create"
	StampPlace  StampTool = "place"
)
