// Package visualization renders extracted atlas slices to grayscale images
// for saving to disk or embedding in an interactive display.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/floats"

	"atlasslice/pkg/slicing"
)

// Viewer renders slice images produced by a single view. Sample values are
// normalized into the full 16-bit grayscale range per image.
type Viewer struct {
	view slicing.SliceView
}

// NewViewer creates a viewer over the given slice view.
func NewViewer(view slicing.SliceView) *Viewer {
	return &Viewer{view: view}
}

// Render converts a flattened slice image into a 16-bit grayscale image.
func (v *Viewer) Render(img []float64) (*image.Gray16, error) {
	w, h := v.view.Width(), v.view.Height()
	if len(img) != w*h {
		return nil, fmt.Errorf("image length %d does not match view size %dx%d", len(img), h, w)
	}

	lo, hi := floats.Min(img), floats.Max(img)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	out := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			value := uint16(math.Max(0, math.Min(65535, (img[y*w+x]-lo)/span*65535)))
			out.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	return out, nil
}

// RenderPlane materializes and renders one slice plane.
func (v *Viewer) RenderPlane(p slicing.SlicePlane) (*image.Gray16, error) {
	img, err := p.Image()
	if err != nil {
		return nil, err
	}
	return v.Render(img)
}

// Preview returns a scaled-down copy of a rendered image. A scale of 1.0
// returns the input unchanged.
func (v *Viewer) Preview(img image.Image, scale float64) (image.Image, error) {
	if scale <= 0 || scale > 1 {
		return nil, fmt.Errorf("preview scale must be in (0, 1], got %f", scale)
	}
	if scale == 1 {
		return img, nil
	}

	bounds := img.Bounds()
	w := int(math.Round(float64(bounds.Dx()) * scale))
	h := int(math.Round(float64(bounds.Dy()) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	out := image.NewGray16(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, bounds, draw.Src, nil)
	return out, nil
}

// SavePNG saves a rendered image as a PNG file.
func (v *Viewer) SavePNG(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveSliceSequence renders and saves every step-th plane of the view into
// outputDir.
func (v *Viewer) SaveSliceSequence(outputDir string, step int) error {
	if step <= 0 {
		return fmt.Errorf("sequence step must be positive, got %d", step)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for pos := 0; pos < v.view.NPlane(); pos += step {
		plane, err := v.view.PlaneAt(pos, false)
		if err != nil {
			return err
		}
		img, err := v.RenderPlane(plane)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%04d.png", v.view.Kind(), pos))
		if err := v.SavePNG(img, filename); err != nil {
			return err
		}
	}

	return nil
}
