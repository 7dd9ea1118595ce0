package models

import (
	"fmt"
)

// Axis identifies one of the three anatomical axes of the reference volume.
type Axis int

const (
	// AP is the anterior-posterior axis
	AP Axis = iota

	// DV is the dorsal-ventral axis
	DV

	// ML is the medial-lateral axis
	ML
)

// String returns the conventional short name of the axis.
func (a Axis) String() string {
	switch a {
	case AP:
		return "AP"
	case DV:
		return "DV"
	case ML:
		return "ML"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Volume represents a dense 3D reference volume indexed by the anatomical
// axes (AP, DV, ML). It is loaded once by the atlas package and treated as
// read-only afterwards, so it is safe to share between views.
type Volume struct {
	// Data is the volume samples as a 1D array in row-major (AP, DV, ML) order
	Data []float64

	// NAP, NDV, NML are the number of voxels along each anatomical axis
	NAP, NDV, NML int

	// Resolution is the physical size of a voxel in um along (AP, DV, ML)
	Resolution [3]float64
}

// NewVolume creates a volume over the given data, validating that the data
// length matches the requested shape.
func NewVolume(data []float64, nAP, nDV, nML int, resolution [3]float64) (*Volume, error) {
	if nAP <= 0 || nDV <= 0 || nML <= 0 {
		return nil, fmt.Errorf("volume dimensions must be positive, got (%d, %d, %d)", nAP, nDV, nML)
	}
	if len(data) != nAP*nDV*nML {
		return nil, fmt.Errorf("volume data length %d does not match shape (%d, %d, %d)", len(data), nAP, nDV, nML)
	}
	return &Volume{
		Data:       data,
		NAP:        nAP,
		NDV:        nDV,
		NML:        nML,
		Resolution: resolution,
	}, nil
}

// Shape returns the voxel counts along (AP, DV, ML).
func (v *Volume) Shape() [3]int {
	return [3]int{v.NAP, v.NDV, v.NML}
}

// Dim returns the voxel count along a single axis.
func (v *Volume) Dim(a Axis) int {
	return v.Shape()[a]
}

// At returns the sample at voxel (ap, dv, ml). Indices must be in range.
func (v *Volume) At(ap, dv, ml int) float64 {
	return v.Data[(ap*v.NDV+dv)*v.NML+ml]
}

// SameShape reports whether another volume has identical voxel counts on
// every axis.
func (v *Volume) SameShape(o *Volume) bool {
	return o != nil && v.NAP == o.NAP && v.NDV == o.NDV && v.NML == o.NML
}
