// Package atlas loads reference brain volumes from a local atlas directory.
// An atlas is stored as a raw little-endian float64 volume file next to a
// YAML metadata sidecar describing its name, shape and per-axis resolution.
package atlas

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"atlasslice/internal/models"
)

// MetadataFile is the name of the YAML sidecar inside an atlas directory.
const MetadataFile = "atlas.yaml"

// cacheEnv overrides the default atlas cache location when set.
const cacheEnv = "ATLASSLICE_CACHE"

// Metadata describes a stored atlas volume.
type Metadata struct {
	// Name is the atlas identifier, e.g. "allen_mouse_25um"
	Name string `yaml:"name"`

	// Shape is the voxel count along (AP, DV, ML)
	Shape [3]int `yaml:"shape"`

	// Resolution is the voxel size in um along (AP, DV, ML)
	Resolution [3]float64 `yaml:"resolution"`

	// DataFile is the raw volume file, relative to the atlas directory
	DataFile string `yaml:"dataFile"`
}

// Validate checks the metadata for a loadable atlas description.
func (m *Metadata) Validate() error {
	for i, n := range m.Shape {
		if n <= 0 {
			return fmt.Errorf("atlas %q: shape component %d must be positive, got %d", m.Name, i, n)
		}
	}
	for i, r := range m.Resolution {
		if r <= 0 {
			return fmt.Errorf("atlas %q: resolution component %d must be positive, got %f", m.Name, i, r)
		}
	}
	if m.DataFile == "" {
		return fmt.Errorf("atlas %q: missing data file name", m.Name)
	}
	return nil
}

// CacheDir returns the directory atlases are stored under by default: the
// ATLASSLICE_CACHE environment variable when set, otherwise an "atlasslice"
// directory under the user cache dir.
func CacheDir() (string, error) {
	if dir := os.Getenv(cacheEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("error resolving user cache dir: %w", err)
	}
	return filepath.Join(base, "atlasslice"), nil
}

// Load reads the atlas stored in dir and returns its volume and metadata.
func Load(dir string) (*models.Volume, *Metadata, error) {
	raw, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, nil, fmt.Errorf("error reading atlas metadata: %w", err)
	}

	meta := &Metadata{}
	if err := yaml.Unmarshal(raw, meta); err != nil {
		return nil, nil, fmt.Errorf("error parsing atlas metadata: %w", err)
	}
	if err := meta.Validate(); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(dir, meta.DataFile))
	if err != nil {
		return nil, nil, fmt.Errorf("error opening atlas volume: %w", err)
	}
	defer f.Close()

	n := meta.Shape[0] * meta.Shape[1] * meta.Shape[2]
	if info, err := f.Stat(); err == nil && info.Size() != int64(n*8) {
		return nil, nil, fmt.Errorf("atlas %q: volume file holds %d bytes, expected %d", meta.Name, info.Size(), n*8)
	}

	data := make([]float64, n)
	if err := binary.Read(f, binary.LittleEndian, data); err != nil {
		return nil, nil, fmt.Errorf("error reading atlas volume: %w", err)
	}

	vol, err := models.NewVolume(data, meta.Shape[0], meta.Shape[1], meta.Shape[2], meta.Resolution)
	if err != nil {
		return nil, nil, err
	}
	return vol, meta, nil
}

// Save writes a volume and its metadata into dir, creating it if needed.
func Save(dir, name string, vol *models.Volume) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating atlas directory: %w", err)
	}

	meta := &Metadata{
		Name:       name,
		Shape:      vol.Shape(),
		Resolution: vol.Resolution,
		DataFile:   name + ".raw",
	}
	if err := meta.Validate(); err != nil {
		return err
	}

	raw, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("error marshaling atlas metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), raw, 0644); err != nil {
		return fmt.Errorf("error writing atlas metadata: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, meta.DataFile))
	if err != nil {
		return fmt.Errorf("error creating atlas volume file: %w", err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, vol.Data); err != nil {
		return fmt.Errorf("error writing atlas volume: %w", err)
	}
	return nil
}
