package term

import "speeddots/internal/dots"

// A terminal cell covers CellWidth by CellHeight play-area units, roughly
// matching the 1:2 aspect of a monospace glyph.
const (
	CellWidth  = 10.0
	CellHeight = 20.0
	HUDRows    = 2
)

// BoundsFor converts a screen size in cells to play-area bounds, leaving room
// for the HUD.
func BoundsFor(cols, rows int) dots.Bounds {
	rows -= HUDRows
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return dots.Bounds{Width: float64(cols) * CellWidth, Height: float64(rows) * CellHeight}
}

// ToCell returns the screen cell holding p.
func ToCell(p dots.Point) (x, y int) {
	return int(p.X / CellWidth), int(p.Y/CellHeight) + HUDRows
}

// footprint is the inclusive cell rectangle a dot is drawn into.
func footprint(d dots.Dot) (x0, y0, x1, y1 int) {
	cx, cy := ToCell(d.Position)
	halfW := int(dots.Size / CellWidth / 2)
	halfH := int(dots.Size / CellHeight / 2)
	return cx - halfW, cy - halfH, cx + halfW - 1, cy + halfH - 1
}

// HitTest returns the live dot drawn at cell (x, y). Later dots are drawn on
// top, so they win overlaps.
func HitTest(ds []dots.Dot, x, y int) (string, bool) {
	for i := len(ds) - 1; i >= 0; i-- {
		d := ds[i]
		if !d.State.Live() {
			continue
		}
		x0, y0, x1, y1 := footprint(d)
		if x >= x0 && x <= x1 && y >= y0 && y <= y1 {
			return d.ID, true
		}
	}
	return "", false
}
