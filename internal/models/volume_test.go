package models

import (
	"testing"
)

// TestNewVolumeValidation verifies shape and length checks.
func TestNewVolumeValidation(t *testing.T) {
	if _, err := NewVolume(make([]float64, 24), 4, 3, 2, [3]float64{10, 10, 10}); err != nil {
		t.Errorf("Expected valid volume, got error: %v", err)
	}

	if _, err := NewVolume(make([]float64, 23), 4, 3, 2, [3]float64{10, 10, 10}); err == nil {
		t.Error("Expected error for data length mismatch")
	}

	if _, err := NewVolume(nil, 4, 0, 2, [3]float64{10, 10, 10}); err == nil {
		t.Error("Expected error for zero dimension")
	}
}

// TestVolumeIndexing verifies the row-major (AP, DV, ML) layout.
func TestVolumeIndexing(t *testing.T) {
	data := make([]float64, 4*3*2)
	for i := range data {
		data[i] = float64(i)
	}
	vol, err := NewVolume(data, 4, 3, 2, [3]float64{10, 20, 30})
	if err != nil {
		t.Fatalf("Failed to create volume: %v", err)
	}

	if got := vol.At(0, 0, 0); got != 0 {
		t.Errorf("Expected 0 at origin, got %f", got)
	}
	if got := vol.At(1, 2, 1); got != float64((1*3+2)*2+1) {
		t.Errorf("Expected %f at (1, 2, 1), got %f", float64((1*3+2)*2+1), got)
	}

	if shape := vol.Shape(); shape != [3]int{4, 3, 2} {
		t.Errorf("Expected shape (4, 3, 2), got %v", shape)
	}
	if vol.Dim(AP) != 4 || vol.Dim(DV) != 3 || vol.Dim(ML) != 2 {
		t.Errorf("Axis dimensions wrong: %d, %d, %d", vol.Dim(AP), vol.Dim(DV), vol.Dim(ML))
	}
}

// TestSameShape verifies shape comparison.
func TestSameShape(t *testing.T) {
	a, _ := NewVolume(make([]float64, 24), 4, 3, 2, [3]float64{10, 10, 10})
	b, _ := NewVolume(make([]float64, 24), 4, 3, 2, [3]float64{25, 25, 25})
	c, _ := NewVolume(make([]float64, 24), 2, 3, 4, [3]float64{10, 10, 10})

	if !a.SameShape(b) {
		t.Error("Expected volumes with equal shape to match regardless of resolution")
	}
	if a.SameShape(c) {
		t.Error("Expected volumes with permuted shape to differ")
	}
	if a.SameShape(nil) {
		t.Error("Expected nil volume to differ")
	}
}
