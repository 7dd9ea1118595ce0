// Package slicing extracts oriented 2D cross-sections from a 3D brain atlas
// volume. A SliceView fixes one of the three canonical cutting directions
// (coronal, sagittal, transverse) and maps freely between the volume's
// (AP, DV, ML) voxel space and the view's (plane, x, y) pixel space. A
// SlicePlane is one concrete, possibly tilted cross-section of such a view.
//
// Tilt is a rectilinear shear approximation of rotation: the plane index of
// each pixel is offset by two independent linear gradients, one horizontal
// and one vertical. Sampling is nearest-index with clamping; there is no
// interpolation.
//
// Everything in this package is immutable after construction, so views and
// planes can be shared between goroutines without locking.
package slicing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"atlasslice/internal/models"
)

// Kind names one of the three canonical cutting directions.
type Kind string

const (
	// Coronal cuts along the AP axis (x: ML, y: DV)
	Coronal Kind = "coronal"

	// Sagittal cuts along the ML axis (x: AP, y: DV)
	Sagittal Kind = "sagittal"

	// Transverse cuts along the DV axis (x: ML, y: AP)
	Transverse Kind = "transverse"
)

// SliceView is a stateless coordinate-system descriptor for one cutting
// direction over a reference volume. Images and plane-index fields are
// flattened row-major slices of length Height()*Width().
type SliceView interface {
	// Kind returns the cutting direction of this view.
	Kind() Kind

	// Resolution returns the physical size in um of one step along the
	// view's plane axis.
	Resolution() float64

	// Width returns the image width in pixels.
	Width() int

	// Height returns the image height in pixels.
	Height() int

	// NPlane returns the number of planes along the cutting direction.
	NPlane() int

	// WidthUM returns the image width in um.
	WidthUM() float64

	// HeightUM returns the image height in um.
	HeightUM() float64

	// ProjectIndex returns the positions of the (plane, x, y) roles within
	// the volume's (AP, DV, ML) axis order. It is always a permutation of
	// {0, 1, 2}.
	ProjectIndex() [3]int

	// Reference returns the volume this view samples by default.
	Reference() *models.Volume

	// Plane materializes the slice image selected by spec, sampling volume
	// (or the view's reference volume when volume is nil). The spec is one
	// of:
	//
	//	int            uniform plane index for every pixel
	//	[3]int         (plane, dw, dh): base index plus the shear field
	//	[]int          a precomputed plane-index field of length Height*Width
	//
	// Every plane index is clamped into [0, NPlane) before the gather.
	Plane(spec any, volume *models.Volume) ([]float64, error)

	// CoorOn maps the slice pixel (x, y) on the given plane back to a
	// volume coordinate (ap, dv, ml).
	CoorOn(plane, x, y int) [3]int

	// CoorOnBatch is the batched form of CoorOn. planes must have length 1
	// (broadcast) or len(points).
	CoorOnBatch(planes []int, points [][2]int) ([][3]int, error)

	// Project maps a volume coordinate (ap, dv, ml) onto this view's
	// (plane, x, y).
	Project(coor [3]int) (plane, x, y int)

	// ProjectBatch is the batched form of Project.
	ProjectBatch(coors [][3]int) [][3]int

	// Offset builds the shear field for horizontal tilt h and vertical tilt
	// v: the plane-index correction at row r, column c is
	// round(linspace(-v, v, Height)[r]) + round(linspace(-h, h, Width)[c]).
	Offset(h, v int) []int

	// AngleOffset converts a (rAP, rDV, rML) radian rotation into the
	// (dw, dh) pixel tilt pair for this view. Each variant reads its own
	// two relevant angles; rotation about the plane normal is not
	// representable and is ignored. Only concrete variants implement this.
	AngleOffset(a [3]float64) (dw, dh int, err error)

	// PlaneAt normalizes a plane selector into a SlicePlane anchored with
	// zero tilt. The selector is a plane index (int or float64) anchored at
	// the image center, or a volume coordinate ([3]int or [3]float64)
	// anchored at its projected pixel. When um is true the values are in
	// physical units and are divided by Resolution first.
	PlaneAt(c any, um bool) (SlicePlane, error)
}

// sliceView carries everything shared by the three variants. The concrete
// variant is recorded in self so that planes produced here dispatch back
// through the variant's AngleOffset.
type sliceView struct {
	kind         Kind
	reference    *models.Volume
	resolution   float64
	projectIndex [3]int
	width        int
	height       int
	nPlane       int

	// pixel coordinate grid, computed once at construction
	gridX []int
	gridY []int

	self SliceView
}

// NewSliceView creates the view for the given cutting direction over volume.
// A non-nil reference overrides the sampled volume; its shape must match.
func NewSliceView(volume *models.Volume, kind Kind, reference *models.Volume) (SliceView, error) {
	if volume == nil {
		return nil, fmt.Errorf("%w: nil volume", ErrInvalidArgument)
	}
	if reference == nil {
		reference = volume
	} else if !volume.SameShape(reference) {
		return nil, fmt.Errorf("%w: reference volume shape %v != %v", ErrShapeMismatch, reference.Shape(), volume.Shape())
	}

	v := &sliceView{kind: kind, reference: reference}
	var view SliceView
	switch kind {
	case Coronal:
		// p=AP, x=ML, y=DV
		v.projectIndex = [3]int{0, 2, 1}
		v.resolution = volume.Resolution[models.AP]
		view = &CoronalView{v}
	case Sagittal:
		// p=ML, x=AP, y=DV
		v.projectIndex = [3]int{2, 0, 1}
		v.resolution = volume.Resolution[models.ML]
		view = &SagittalView{v}
	case Transverse:
		// p=DV, x=ML, y=AP
		v.projectIndex = [3]int{1, 2, 0}
		v.resolution = volume.Resolution[models.DV]
		view = &TransverseView{v}
	default:
		return nil, fmt.Errorf("%w: unknown view kind %q", ErrInvalidArgument, kind)
	}

	shape := volume.Shape()
	v.nPlane = shape[v.projectIndex[0]]
	v.width = shape[v.projectIndex[1]]
	v.height = shape[v.projectIndex[2]]

	v.gridX = make([]int, v.height*v.width)
	v.gridY = make([]int, v.height*v.width)
	for y := 0; y < v.height; y++ {
		for x := 0; x < v.width; x++ {
			v.gridX[y*v.width+x] = x
			v.gridY[y*v.width+x] = y
		}
	}

	v.self = view
	return view, nil
}

func (v *sliceView) Kind() Kind                { return v.kind }
func (v *sliceView) Resolution() float64       { return v.resolution }
func (v *sliceView) Width() int                { return v.width }
func (v *sliceView) Height() int               { return v.height }
func (v *sliceView) NPlane() int               { return v.nPlane }
func (v *sliceView) WidthUM() float64          { return float64(v.width) * v.resolution }
func (v *sliceView) HeightUM() float64         { return float64(v.height) * v.resolution }
func (v *sliceView) ProjectIndex() [3]int      { return v.projectIndex }
func (v *sliceView) Reference() *models.Volume { return v.reference }

func (v *sliceView) String() string {
	return fmt.Sprintf("SliceView[%s]", v.kind)
}

func (v *sliceView) Plane(spec any, volume *models.Volume) ([]float64, error) {
	var field []int
	switch o := spec.(type) {
	case int:
		field = make([]int, v.height*v.width)
		for i := range field {
			field[i] = o
		}
	case [3]int:
		field = v.Offset(o[1], o[2])
		for i := range field {
			field[i] += o[0]
		}
	case []int:
		if len(o) != v.height*v.width {
			return nil, fmt.Errorf("%w: field length %d != %d (%dx%d)", ErrShapeMismatch, len(o), v.height*v.width, v.height, v.width)
		}
		field = o
	default:
		return nil, fmt.Errorf("%w: unrecognized plane spec %T", ErrInvalidArgument, spec)
	}

	if volume == nil {
		volume = v.reference
	} else if !v.reference.SameShape(volume) {
		return nil, fmt.Errorf("%w: volume shape %v != %v", ErrShapeMismatch, volume.Shape(), v.reference.Shape())
	}

	pidx := v.projectIndex
	out := make([]float64, v.height*v.width)
	for i := range out {
		var c [3]int
		c[pidx[0]] = clamp(field[i], 0, v.nPlane-1)
		c[pidx[1]] = v.gridX[i]
		c[pidx[2]] = v.gridY[i]
		out[i] = volume.At(c[0], c[1], c[2])
	}
	return out, nil
}

func (v *sliceView) CoorOn(plane, x, y int) [3]int {
	var c [3]int
	c[v.projectIndex[0]] = plane
	c[v.projectIndex[1]] = x
	c[v.projectIndex[2]] = y
	return c
}

func (v *sliceView) CoorOnBatch(planes []int, points [][2]int) ([][3]int, error) {
	if len(planes) != 1 && len(planes) != len(points) {
		return nil, fmt.Errorf("%w: %d planes are not broadcastable over %d points", ErrInvalidArgument, len(planes), len(points))
	}
	out := make([][3]int, len(points))
	for i, p := range points {
		plane := planes[0]
		if len(planes) > 1 {
			plane = planes[i]
		}
		out[i] = v.CoorOn(plane, p[0], p[1])
	}
	return out, nil
}

func (v *sliceView) Project(coor [3]int) (plane, x, y int) {
	return coor[v.projectIndex[0]], coor[v.projectIndex[1]], coor[v.projectIndex[2]]
}

func (v *sliceView) ProjectBatch(coors [][3]int) [][3]int {
	out := make([][3]int, len(coors))
	for i, c := range coors {
		out[i][0], out[i][1], out[i][2] = v.Project(c)
	}
	return out
}

func (v *sliceView) Offset(h, vert int) []int {
	xFrame := roundedSpan(h, v.width)
	yFrame := roundedSpan(vert, v.height)
	out := make([]int, v.height*v.width)
	for y := 0; y < v.height; y++ {
		for x := 0; x < v.width; x++ {
			out[y*v.width+x] = yFrame[y] + xFrame[x]
		}
	}
	return out
}

// AngleOffset has no generic form; each variant overrides it with its own
// angle pair and sign convention.
func (v *sliceView) AngleOffset(a [3]float64) (int, int, error) {
	return 0, 0, fmt.Errorf("%w: angle offset requires a concrete view variant", ErrUnsupported)
}

func (v *sliceView) PlaneAt(c any, um bool) (SlicePlane, error) {
	switch c := c.(type) {
	case int:
		return v.planeAtIndex(float64(c), um), nil
	case float64:
		return v.planeAtIndex(c, um), nil
	case [3]int:
		return v.planeAtCoor([3]float64{float64(c[0]), float64(c[1]), float64(c[2])}, um), nil
	case [3]float64:
		return v.planeAtCoor(c, um), nil
	default:
		return SlicePlane{}, fmt.Errorf("%w: unrecognized plane selector %T", ErrInvalidArgument, c)
	}
}

func (v *sliceView) planeAtIndex(c float64, um bool) SlicePlane {
	if um {
		c /= v.resolution
	}
	return SlicePlane{
		Plane: int(math.Round(c)),
		AX:    v.width / 2,
		AY:    v.height / 2,
		view:  v.self,
	}
}

func (v *sliceView) planeAtCoor(c [3]float64, um bool) SlicePlane {
	var coor [3]int
	for i, x := range c {
		if um {
			x /= v.resolution
		}
		coor[i] = int(math.Round(x))
	}
	plane, x, y := v.Project(coor)
	return SlicePlane{Plane: plane, AX: x, AY: y, view: v.self}
}

// CoronalView cuts perpendicular to the AP axis.
type CoronalView struct {
	*sliceView
}

// AngleOffset converts (rAP, rDV, rML) radians to pixel tilts using the
// DV and ML rotation components.
func (v *CoronalView) AngleOffset(a [3]float64) (int, int, error) {
	ry := a[1]
	rz := a[2]
	dw := int(math.Round(-float64(v.width) * math.Tan(ry) / 2)) // ml
	dh := int(math.Round(float64(v.height) * math.Tan(rz) / 2)) // dv
	return dw, dh, nil
}

// SagittalView cuts perpendicular to the ML axis.
type SagittalView struct {
	*sliceView
}

// AngleOffset converts (rAP, rDV, rML) radians to pixel tilts using the
// AP and DV rotation components.
func (v *SagittalView) AngleOffset(a [3]float64) (int, int, error) {
	rx := a[0]
	ry := a[1]
	dw := int(math.Round(-float64(v.width) * math.Tan(ry) / 2)) // ap
	dh := int(math.Round(float64(v.height) * math.Tan(rx) / 2)) // dv
	return dw, dh, nil
}

// TransverseView cuts perpendicular to the DV axis.
type TransverseView struct {
	*sliceView
}

// AngleOffset converts (rAP, rDV, rML) radians to pixel tilts using the
// AP and ML rotation components.
func (v *TransverseView) AngleOffset(a [3]float64) (int, int, error) {
	rx := a[0]
	ry := a[1]
	dw := int(math.Round(-float64(v.width) * math.Tan(ry) / 2)) // ml
	dh := int(math.Round(float64(v.height) * math.Tan(rx) / 2)) // ap
	return dw, dh, nil
}

// roundedSpan is linspace(-d, d, n) rounded to the nearest integer.
func roundedSpan(d, n int) []int {
	out := make([]int, n)
	if n == 1 {
		out[0] = -d
		return out
	}
	frame := make([]float64, n)
	floats.Span(frame, float64(-d), float64(d))
	for i, f := range frame {
		out[i] = int(math.Round(f))
	}
	return out
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
