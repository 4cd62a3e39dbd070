package flare

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/tidegrove/flaremap/atlas"
	"github.com/tidegrove/flaremap/tilemap"
)

func testTilesets() map[tilemap.LayerType]*atlas.Tileset {
	img := image.NewRGBA(image.Rect(0, 0, 128, 64))
	return map[tilemap.LayerType]*atlas.Tileset{
		tilemap.LayerBackground: atlas.NewTileset(img, "ground.png", 64, 32),
	}
}

func TestGenerateMapTxtLayerRows(t *testing.T) {
	m := tilemap.New(2, 2, 64, 32)
	bg := m.LayerByType(tilemap.LayerBackground)
	m.SetGID(bg, 0, 0, 1)
	m.SetGID(bg, 1, 0, 2)
	m.SetGID(bg, 0, 1, 3)
	m.SetGID(bg, 1, 1, 4)

	out, err := GenerateMapTxt(m, testTilesets())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	want := "[layer]\ntype=background\ndata=\n1,2\n3,4\n"
	if !strings.Contains(out, want) {
		t.Fatalf("missing background layer block, got:\n%s", out)
	}
	if !strings.Contains(out, "[header]\nwidth=2\nheight=2\ntilewidth=64\ntileheight=32\norientation=isometric\nhero_pos=0,0\n") {
		t.Fatalf("header block wrong:\n%s", out)
	}
	if !strings.Contains(out, "[tilesets]\ntileset=ground.png,64,32,0,0\n") {
		t.Fatalf("tilesets block wrong:\n%s", out)
	}
}

func TestGenerateMapTxtObjects(t *testing.T) {
	m := tilemap.New(4, 4, 64, 32)
	events := m.LayerByType(tilemap.LayerEvent)
	enemies := m.LayerByType(tilemap.LayerEnemy)
	m.SetGID(events, 1, 2, 1)
	m.SetGID(enemies, 3, 0, 2)

	ev := m.ObjectAt(1, 2)
	ev.Activate = "on_trigger"
	ev.Properties = map[string]string{"msg": "hello", "intermap": "cave.txt"}
	en := m.ObjectAt(3, 0)
	en.Level = 3

	out, err := GenerateMapTxt(m, testTilesets())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	wantEvent := "[event]\nlocation=1,2,1,1\nactivate=on_trigger\nintermap=cave.txt\nmsg=hello\n"
	if !strings.Contains(out, wantEvent) {
		t.Fatalf("event block wrong (properties must be key-sorted):\n%s", out)
	}
	wantEnemy := "[enemy]\ntype=enemy\nlocation=3,0,1,1\nlevel=3\n"
	if !strings.Contains(out, wantEnemy) {
		t.Fatalf("enemy block wrong:\n%s", out)
	}
	if strings.Index(out, "[event]") > strings.Index(out, "[enemy]") {
		t.Fatalf("events must precede enemies:\n%s", out)
	}
}

func TestGenerateMapTxtWithoutTileset(t *testing.T) {
	m := tilemap.New(2, 2, 64, 32)
	if _, err := GenerateMapTxt(m, nil); !errors.Is(err, ErrNoTileset) {
		t.Fatalf("expected ErrNoTileset, got %v", err)
	}
}

func TestGenerateMapTxtDeterministic(t *testing.T) {
	m := tilemap.New(3, 3, 64, 32)
	enemies := m.LayerByType(tilemap.LayerEnemy)
	m.SetGID(enemies, 0, 0, 1)
	o := m.ObjectAt(0, 0)
	o.Properties = map[string]string{"c": "3", "a": "1", "b": "2"}

	first, err := GenerateMapTxt(m, testTilesets())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := GenerateMapTxt(m, testTilesets())
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		if again != first {
			t.Fatalf("export is not deterministic")
		}
	}
	if !strings.Contains(first, "a=1\nb=2\nc=3\n") {
		t.Fatalf("properties not sorted:\n%s", first)
	}
}

func TestGenerateTilesetDef(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 128, 64))
	ts := atlas.NewTileset(img, "ground.png", 64, 32)

	out, err := GenerateTilesetDef(ts)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "img=ground.png" {
		t.Fatalf("first line = %q", lines[0])
	}
	// 128x64 at 64x32 tiles: 2 columns, 2 rows, 4 tiles, offset 32,16
	if !strings.Contains(out, "tile=1,0,0,64,32,32,16\n") {
		t.Fatalf("tile 1 line wrong:\n%s", out)
	}
	if !strings.Contains(out, "tile=4,64,32,64,32,32,16\n") {
		t.Fatalf("tile 4 line wrong:\n%s", out)
	}
	if strings.Count(out, "tile=") != 4 {
		t.Fatalf("expected 4 tile lines:\n%s", out)
	}

	if _, err := GenerateTilesetDef(nil); !errors.Is(err, ErrNoTileset) {
		t.Fatalf("expected ErrNoTileset, got %v", err)
	}
}
