package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"atlasslice/pkg/atlas"
	"atlasslice/pkg/config"
	"atlasslice/pkg/slicing"
	"atlasslice/pkg/visualization"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "", "Optional YAML configuration file")
	atlasDir := flag.String("atlas", "", "Directory containing the atlas volume and metadata (default: cache dir + atlas name)")
	viewName := flag.String("view", "", "Cutting direction: coronal, sagittal or transverse")
	planePos := flag.Float64("plane", math.NaN(), "Plane position along the cutting axis (default: volume center)")
	um := flag.Bool("um", false, "Interpret -plane in um instead of voxel index")
	rotV := flag.Float64("rotate-v", 0, "Vertical tilt in radians")
	rotH := flag.Float64("rotate-h", 0, "Horizontal tilt in radians")
	outputName := flag.String("output", "slice.png", "Output PNG filename")
	sweep := flag.Bool("sweep", false, "Save a full plane sweep instead of a single slice")
	sweepStep := flag.Int("sweep-step", 1, "Plane step between saved sweep slices")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Resolve the atlas directory: flag, config override, then cache dir
	dir := *atlasDir
	if dir == "" {
		dir = cfg.Atlas.Dir
	}
	if dir == "" {
		cache, err := atlas.CacheDir()
		if err != nil {
			log.Fatalf("Failed to resolve atlas cache: %v", err)
		}
		dir = filepath.Join(cache, cfg.Atlas.Name)
	}

	kind := slicing.Kind(*viewName)
	if *viewName == "" {
		kind = slicing.Kind(cfg.View.Kind)
	}

	volume, meta, err := atlas.Load(dir)
	if err != nil {
		log.Fatalf("Failed to load atlas: %v", err)
	}
	fmt.Printf("Loaded atlas %s with shape (%d, %d, %d) at %.0f um\n",
		meta.Name, meta.Shape[0], meta.Shape[1], meta.Shape[2], meta.Resolution[0])

	view, err := slicing.NewSliceView(volume, kind, nil)
	if err != nil {
		log.Fatalf("Failed to create %s view: %v", kind, err)
	}
	fmt.Printf("View %s: %dx%d pixels, %d planes\n", view.Kind(), view.Width(), view.Height(), view.NPlane())

	viewer := visualization.NewViewer(view)

	outputDir := cfg.Output.Dir
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	if *sweep {
		sweepDir := filepath.Join(outputDir, string(view.Kind()))
		fmt.Printf("Saving plane sweep to: %s\n", sweepDir)
		if err := viewer.SaveSliceSequence(sweepDir, *sweepStep); err != nil {
			log.Fatalf("Failed to save slice sequence: %v", err)
		}
		fmt.Println("Sweep completed!")
		return
	}

	pos := *planePos
	if math.IsNaN(pos) {
		pos = float64(view.NPlane() / 2)
	}
	plane, err := view.PlaneAt(pos, *um)
	if err != nil {
		log.Fatalf("Failed to select plane: %v", err)
	}
	plane = plane.WithRotate([2]float64{*rotV, *rotH})

	img, err := viewer.RenderPlane(plane)
	if err != nil {
		log.Fatalf("Failed to render slice: %v", err)
	}
	preview, err := viewer.Preview(img, cfg.Output.PreviewScale)
	if err != nil {
		log.Fatalf("Failed to scale preview: %v", err)
	}

	outputPath := filepath.Join(outputDir, *outputName)
	if err := viewer.SavePNG(preview, outputPath); err != nil {
		log.Fatalf("Failed to save slice: %v", err)
	}

	coor := plane.CoorOn()
	fmt.Printf("Saved %s to: %s\n", plane, outputPath)
	fmt.Printf("Anchor maps to volume coordinate (AP=%d, DV=%d, ML=%d)\n", coor[0], coor[1], coor[2])
}
