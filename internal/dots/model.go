package dots

import (
	"math"
	"speeddots/internal/utility"
	"time"
)

const (
	// Padding keeps dot centers away from the play-area edges.
	Padding = 40.0
	// Size is the rendered dot diameter in play-area units.
	Size = 40.0
)

type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
	Purple Color = "purple"
	Orange Color = "orange"
)

var Palette = []Color{Red, Blue, Green, Yellow, Purple, Orange}

// VisualState drives renderer animation only.
type VisualState string

const (
	Appearing VisualState = "appearing"
	Active    VisualState = "active"
	Tapped    VisualState = "tapped"
	Missed    VisualState = "missed"
)

// Live reports whether a dot in this state can still be tapped or expire.
func (v VisualState) Live() bool {
	return v == Appearing || v == Active
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Bounds struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// Usable reports whether a dot can be placed inside the bounds with padding
// applied. Both sides must be finite.
func (b Bounds) Usable() bool {
	if math.IsInf(b.Width, 0) || math.IsInf(b.Height, 0) {
		return false
	}
	return b.Width >= 2*Padding && b.Height >= 2*Padding
}

type Dot struct {
	ID        string      `json:"id"`
	Position  Point       `json:"pos"`
	Color     Color       `json:"color"`
	State     VisualState `json:"state"`
	SpawnedAt time.Time   `json:"-"`
}

// RandomPosition samples a point uniformly within the padded bounds.
func RandomPosition(b Bounds) Point {
	return Point{
		X: utility.Between(Padding, b.Width-Padding),
		Y: utility.Between(Padding, b.Height-Padding),
	}
}

func RandomColor() Color {
	return utility.Pick(Palette)
}
