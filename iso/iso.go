// Package iso maps between grid coordinates, logical world space, and screen
// pixels for an isometric (diamond) projection under zoom and pan.
package iso

import "math"

const (
	MinZoom = 0.1
	MaxZoom = 5.0

	// vertical offset of the grid origin inside the canvas
	originY = 100.0

	// diamonds are shrunk for hit testing so points on a shared edge
	// resolve to exactly one cell
	pickShrink = 0.90
)

// Camera holds the view transform for one canvas. World space is the raw
// projection plane; the camera applies the origin offset, pan, and zoom.
type Camera struct {
	TileW, TileH int
	CanvasW      float64
	Zoom         float64
	PanX, PanY   float64
}

func NewCamera(tileW, tileH int, canvasW float64) *Camera {
	return &Camera{
		TileW:   tileW,
		TileH:   tileH,
		CanvasW: canvasW,
		Zoom:    1.0,
	}
}

func (c *Camera) offsets() (float64, float64) {
	return c.CanvasW/2 + c.PanX, originY + c.PanY
}

// Project returns the world-space center of the diamond for cell (mapX, mapY).
func (c *Camera) Project(mapX, mapY int) (float64, float64) {
	halfW := float64(c.TileW) / 2
	halfH := float64(c.TileH) / 2
	return float64(mapX-mapY) * halfW, float64(mapX+mapY) * halfH
}

// MapToScreen projects a cell and applies the full view transform. The
// returned point is the screen position of the cell's diamond center.
func (c *Camera) MapToScreen(mapX, mapY int) (float64, float64) {
	wx, wy := c.Project(mapX, mapY)
	return c.WorldToScreen(wx, wy)
}

// WorldToScreen applies only the offset and zoom steps.
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	ox, oy := c.offsets()
	return (wx + ox) * c.Zoom, (wy + oy) * c.Zoom
}

// ScreenToWorld is the exact inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	ox, oy := c.offsets()
	return sx/c.Zoom - ox, sy/c.Zoom - oy
}

// ScreenToTile resolves a screen point to the cell whose diamond it visually
// hits. Every cell in the grid is tested; among the diamonds containing the
// point the one with the nearest projected center (screen-space Euclidean)
// wins. A closed-form inverse is cheaper but misresolves points near shared
// diamond edges, so the brute-force scan is kept deliberately.
func (c *Camera) ScreenToTile(sx, sy float64, mapW, mapH int) (int, int, bool) {
	wx, wy := c.ScreenToWorld(sx, sy)
	halfW := float64(c.TileW) / 2
	halfH := float64(c.TileH) / 2

	bestX, bestY := -1, -1
	bestDist := math.MaxFloat64
	for y := 0; y < mapH; y++ {
		for x := 0; x < mapW; x++ {
			cx := float64(x-y) * halfW
			cy := float64(x+y) * halfH
			dx := wx - cx
			dy := wy - cy
			if math.Abs(dx)/halfW+math.Abs(dy)/halfH > pickShrink {
				continue
			}
			csx, csy := c.WorldToScreen(cx, cy)
			dist := (csx-sx)*(csx-sx) + (csy-sy)*(csy-sy)
			if dist < bestDist {
				bestDist = dist
				bestX, bestY = x, y
			}
		}
	}
	if bestX < 0 {
		return 0, 0, false
	}
	return bestX, bestY, true
}

// SetZoom clamps into [MinZoom, MaxZoom].
func (c *Camera) SetZoom(z float64) {
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	c.Zoom = z
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// the given screen position fixed.
func (c *Camera) ZoomAt(sx, sy, factor float64) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.SetZoom(c.Zoom * factor)
	// recompute pan so (wx, wy) stays under (sx, sy)
	c.PanX = sx/c.Zoom - wx - c.CanvasW/2
	c.PanY = sy/c.Zoom - wy - originY
}

// Pan accumulates a screen-space drag delta. Pan is unconstrained.
func (c *Camera) Pan(dxScreen, dyScreen float64) {
	c.PanX += dxScreen / c.Zoom
	c.PanY += dyScreen / c.Zoom
}
