// Package testutil provides shared test infrastructure for the bellsim engine.
// It consolidates golden-file loading and numeric assertion helpers used across
// sim/ and its sub-package tests.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// LoadGolden reads testdata/<name> from the repository root.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGolden(t *testing.T, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden file %s: %v", name, err)
	}
	return string(data)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertWithin compares two float64 values with absolute tolerance.
func AssertWithin(t *testing.T, name string, want, got, absTol float64) {
	t.Helper()
	if !scalar.EqualWithinAbs(want, got, absTol) {
		t.Errorf("%s: got %v, want %v ± %v", name, got, want, absTol)
	}
}

// AssertNormalized checks that probabilities sum to 1 within absTol.
func AssertNormalized(t *testing.T, probs []float64, absTol float64) {
	t.Helper()
	var total float64
	for _, p := range probs {
		total += p
	}
	AssertWithin(t, "total probability", 1, total, absTol)
}
