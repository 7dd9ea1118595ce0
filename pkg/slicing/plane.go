package slicing

import (
	"fmt"
	"math"

	"atlasslice/internal/models"
)

// SlicePlane is one concrete cross-section of a SliceView: a base plane
// index, the anchor pixel the section pivots around, and the two tilt
// magnitudes in pixel units. It is a pure value; every mutator returns a
// new plane and never modifies the receiver.
//
// The base plane index is stored as given, even outside [0, NPlane);
// clamping happens only when an image is materialized.
type SlicePlane struct {
	// Plane is the base plane index at the anchor pixel
	Plane int

	// AX, AY is the anchor pixel
	AX, AY int

	// DW, DH are the horizontal and vertical tilt magnitudes in pixels
	DW, DH int

	view SliceView
}

// NewSlicePlane assembles a plane directly. Most callers should prefer
// SliceView.PlaneAt.
func NewSlicePlane(plane, ax, ay, dw, dh int, view SliceView) SlicePlane {
	return SlicePlane{Plane: plane, AX: ax, AY: ay, DW: dw, DH: dh, view: view}
}

// View returns the owning slice view.
func (p SlicePlane) View() SliceView {
	return p.view
}

// Kind returns the cutting direction of the owning view.
func (p SlicePlane) Kind() Kind {
	return p.view.Kind()
}

// Resolution returns the owning view's resolution in um per pixel.
func (p SlicePlane) Resolution() float64 {
	return p.view.Resolution()
}

// Width returns the image width in pixels.
func (p SlicePlane) Width() int {
	return p.view.Width()
}

// Height returns the image height in pixels.
func (p SlicePlane) Height() int {
	return p.view.Height()
}

// WidthUM returns the image width in um.
func (p SlicePlane) WidthUM() float64 {
	return p.view.WidthUM()
}

// HeightUM returns the image height in um.
func (p SlicePlane) HeightUM() float64 {
	return p.view.HeightUM()
}

func (p SlicePlane) String() string {
	return fmt.Sprintf("SlicePlane[%s plane=%d anchor=(%d,%d) tilt=(%d,%d)]", p.Kind(), p.Plane, p.AX, p.AY, p.DW, p.DH)
}

// PlaneOffset materializes the per-pixel plane-index field. The shear field
// for (DW, DH) is shifted so that the value at the anchor pixel equals the
// base plane index exactly, whatever the tilt; this is what makes tilting
// pivot around the anchor.
func (p SlicePlane) PlaneOffset() []int {
	offset := p.view.Offset(p.DW, p.DH)
	anchor := offset[p.AY*p.view.Width()+p.AX]
	for i := range offset {
		offset[i] += p.Plane - anchor
	}
	return offset
}

// Image materializes the slice image from the owning view's reference
// volume.
func (p SlicePlane) Image() ([]float64, error) {
	return p.view.Plane(p.PlaneOffset(), nil)
}

// ImageOf materializes the slice image from an alternate volume of the same
// shape as the reference.
func (p SlicePlane) ImageOf(volume *models.Volume) ([]float64, error) {
	return p.view.Plane(p.PlaneOffset(), volume)
}

// PlaneIdxAt returns the effective plane index at pixel (x, y) under the
// current tilt.
func (p SlicePlane) PlaneIdxAt(x, y int) int {
	return p.PlaneOffset()[y*p.view.Width()+x]
}

// PlaneIdxAtBatch is the batched form of PlaneIdxAt.
func (p SlicePlane) PlaneIdxAtBatch(points [][2]int) []int {
	field := p.PlaneOffset()
	out := make([]int, len(points))
	for i, pt := range points {
		out[i] = field[pt[1]*p.view.Width()+pt[0]]
	}
	return out
}

// CoorOn maps the anchor pixel back to its volume coordinate (ap, dv, ml).
func (p SlicePlane) CoorOn() [3]int {
	return p.CoorOnAt(p.AX, p.AY)
}

// CoorOnAt maps the pixel (x, y) back to its volume coordinate under the
// current tilt.
func (p SlicePlane) CoorOnAt(x, y int) [3]int {
	return p.view.CoorOn(p.PlaneIdxAt(x, y), x, y)
}

// CoorOnBatch is the batched form of CoorOnAt.
func (p SlicePlane) CoorOnBatch(points [][2]int) [][3]int {
	field := p.PlaneOffset()
	out := make([][3]int, len(points))
	for i, pt := range points {
		out[i] = p.view.CoorOn(field[pt[1]*p.view.Width()+pt[0]], pt[0], pt[1])
	}
	return out
}

// WithAnchor moves the pivot to pixel (x, y), taking the effective plane
// index there as the new base. The rendered image is unchanged at the moment
// of the call; only the pivot of future tilt changes moves.
func (p SlicePlane) WithAnchor(x, y int) SlicePlane {
	p.Plane = p.PlaneIdxAt(x, y)
	p.AX = x
	p.AY = y
	return p
}

// WithOffset replaces the tilt magnitudes, in pixel units.
func (p SlicePlane) WithOffset(dw, dh int) SlicePlane {
	p.DW = dw
	p.DH = dh
	return p
}

// WithRotate replaces the tilt with the shear approximation of the
// (vertical, horizontal) radian rotation pair: the first angle tilts along
// the image height, the second along the image width. Note the convention
// differs from SliceView.AngleOffset, which takes the full anatomical angle
// triple.
func (p SlicePlane) WithRotate(a [2]float64) SlicePlane {
	dw := int(math.Round(-float64(p.Width()) * math.Tan(a[1]) / 2))
	dh := int(math.Round(float64(p.Height()) * math.Tan(a[0]) / 2))
	return p.WithOffset(dw, dh)
}
