// Package dpi converts between logical (resolution independent) and physical
// pixel coordinates.
//
// Logical values are what the notification area and cursor APIs report;
// physical values are logical values multiplied by the window's current scale
// factor. Nothing here caches a scale factor: callers query the DPI each time
// because it can change when the display configuration changes.
package dpi

import "github.com/mosiko1234/trayicon/internal/platform"

// ScaleFactor converts a DPI reading into a scale factor. A zero DPI is
// treated as the default DPI.
func ScaleFactor(dpi uint32) float64 {
	if dpi == 0 {
		return 1.0
	}
	return float64(dpi) / platform.DefaultDPI
}

// LogicalPosition is a position in logical pixels.
type LogicalPosition struct {
	X, Y float64
}

// PhysicalPosition is a position in physical pixels.
type PhysicalPosition struct {
	X, Y float64
}

// LogicalSize is a size in logical pixels.
type LogicalSize struct {
	Width, Height float64
}

// PhysicalSize is a size in physical pixels.
type PhysicalSize struct {
	Width, Height float64
}

// ToPhysical scales p by scaleFactor.
func (p LogicalPosition) ToPhysical(scaleFactor float64) PhysicalPosition {
	return PhysicalPosition{X: p.X * scaleFactor, Y: p.Y * scaleFactor}
}

// ToLogical divides p by scaleFactor.
func (p PhysicalPosition) ToLogical(scaleFactor float64) LogicalPosition {
	return LogicalPosition{X: p.X / scaleFactor, Y: p.Y / scaleFactor}
}

// ToPhysical scales s by scaleFactor.
func (s LogicalSize) ToPhysical(scaleFactor float64) PhysicalSize {
	return PhysicalSize{Width: s.Width * scaleFactor, Height: s.Height * scaleFactor}
}

// ToLogical divides s by scaleFactor.
func (s PhysicalSize) ToLogical(scaleFactor float64) LogicalSize {
	return LogicalSize{Width: s.Width / scaleFactor, Height: s.Height / scaleFactor}
}

// Rect is a position and size pair in physical pixels.
type Rect struct {
	Position PhysicalPosition
	Size     PhysicalSize
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Size.Width <= 0 || r.Size.Height <= 0
}

// FromRECT converts an OS-reported logical rectangle into a physical Rect.
// Inverted edges produce a zero size rather than a negative one.
func FromRECT(rc platform.RECT, scaleFactor float64) Rect {
	return Rect{
		Position: LogicalPosition{X: float64(rc.Left), Y: float64(rc.Top)}.ToPhysical(scaleFactor),
		Size: LogicalSize{
			Width:  float64(saturatingSub(rc.Right, rc.Left)),
			Height: float64(saturatingSub(rc.Bottom, rc.Top)),
		}.ToPhysical(scaleFactor),
	}
}

// FromPoint converts an OS-reported logical point into a physical position.
func FromPoint(pt platform.Point, scaleFactor float64) PhysicalPosition {
	return LogicalPosition{X: float64(pt.X), Y: float64(pt.Y)}.ToPhysical(scaleFactor)
}

func saturatingSub(a, b int32) int64 {
	d := int64(a) - int64(b)
	if d < 0 {
		return 0
	}
	return d
}
