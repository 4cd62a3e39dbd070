package atlas

import (
	"image"
	"image/color"
	"testing"
)

func fillRect(img *image.RGBA, x0, y0, w, h int) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
}

func TestDetectBasics(t *testing.T) {
	cases := []struct {
		name  string
		build func() *image.RGBA
		want  int
	}{
		{
			"empty_image",
			func() *image.RGBA { return image.NewRGBA(image.Rect(0, 0, 64, 64)) },
			0,
		},
		{
			"single_blob",
			func() *image.RGBA {
				img := image.NewRGBA(image.Rect(0, 0, 64, 64))
				fillRect(img, 5, 5, 10, 10)
				return img
			},
			1,
		},
		{
			"below_min_area_discarded",
			func() *image.RGBA {
				img := image.NewRGBA(image.Rect(0, 0, 64, 64))
				fillRect(img, 5, 5, 5, 5)
				return img
			},
			0,
		},
		{
			"two_separate_blobs",
			func() *image.RGBA {
				img := image.NewRGBA(image.Rect(0, 0, 64, 64))
				fillRect(img, 0, 0, 10, 10)
				fillRect(img, 30, 0, 10, 10)
				return img
			},
			2,
		},
		{
			"diagonal_touch_is_one_component",
			func() *image.RGBA {
				img := image.NewRGBA(image.Rect(0, 0, 64, 64))
				fillRect(img, 0, 0, 8, 8)
				fillRect(img, 8, 8, 8, 8)
				return img
			},
			1,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := NewAnalyzer(32, 16)
			got := a.Detect(c.build())
			if len(got) != c.want {
				t.Fatalf("detected %d sprites, want %d: %v", len(got), c.want, got)
			}
		})
	}
}

func TestDetectAlphaThreshold(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			img.Set(x, y, color.RGBA{R: 100, A: 8}) // under the default threshold
		}
	}
	a := NewAnalyzer(32, 16)
	if got := a.Detect(img); len(got) != 0 {
		t.Fatalf("near-transparent pixels should not be content, got %v", got)
	}
	a.AlphaThreshold = 5
	if got := a.Detect(img); len(got) != 1 {
		t.Fatalf("lowered threshold should detect the blob, got %v", got)
	}
}

func TestDetectFloorSplitsIntoTileStrips(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 128, 32))
	fillRect(img, 0, 0, 100, 10) // wide and thin: floor pattern

	a := NewAnalyzer(32, 16)
	got := a.Detect(img)
	if len(got) != 4 {
		t.Fatalf("expected 4 tile-width strips, got %d: %v", len(got), got)
	}
	// strips recompute bounds from their own pixels; the last one is narrow
	last := got[3]
	if last.W > 32+2 {
		t.Fatalf("last strip too wide: %+v", last)
	}
}

func TestDetectVerticalWallKeptWhole(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 128))
	fillRect(img, 10, 0, 20, 120) // tall, dense, continuous

	a := NewAnalyzer(32, 16)
	got := a.Detect(img)
	if len(got) != 1 {
		t.Fatalf("vertical wall should stay one sprite, got %d: %v", len(got), got)
	}
	if got[0].H < 120 {
		t.Fatalf("wall bounds truncated: %+v", got[0])
	}
}

func TestDetectDeterminism(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	fillRect(img, 3, 3, 12, 12)
	fillRect(img, 40, 10, 9, 20)
	fillRect(img, 0, 60, 100, 10)
	fillRect(img, 70, 90, 30, 30)

	a := NewAnalyzer(32, 16)
	first := a.Detect(img)
	second := a.Detect(img)
	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("gid %d differs: %+v vs %+v", i+1, first[i], second[i])
		}
	}
}

func TestDetectPadClampedAtEdges(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	fillRect(img, 0, 0, 10, 10)

	a := NewAnalyzer(32, 16)
	got := a.Detect(img)
	if len(got) != 1 {
		t.Fatalf("expected 1 sprite, got %v", got)
	}
	r := got[0]
	if r.X != 0 || r.Y != 0 {
		t.Fatalf("padding must clamp at the image edge: %+v", r)
	}
	if r.W != 11 || r.H != 11 {
		t.Fatalf("expected 1px padding on the free sides: %+v", r)
	}
}
