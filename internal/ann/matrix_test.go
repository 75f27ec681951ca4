package ann

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
)

func TestMatrixJSONRoundTripIsExact(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := NewMatrix(3, 4)
	Randomize(m, rng)
	Mutate(m, 0.37, rng)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var loaded Matrix
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !loaded.Equal(m) {
		t.Fatalf("round trip mismatch:\n%s", data)
	}
}

func TestMatrixUnmarshalRejectsRaggedRows(t *testing.T) {
	var m Matrix
	err := json.Unmarshal([]byte(`[[1,2],[3]]`), &m)
	if !errors.Is(err, ErrMatrixShape) {
		t.Fatalf("expected ErrMatrixShape, got: %v", err)
	}
	if !m.Empty() {
		t.Fatal("expected target matrix to stay empty")
	}
}

func TestMatrixProjectAddsBias(t *testing.T) {
	m, err := MatrixFromRows([][]float64{
		{1, -1},
		{2, 0.5},
		{0.25, 3},
	})
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}
	out := make([]float64, 2)
	m.Project([]float64{1, 2}, out)
	if out[0] != 5.25 || out[1] != 3 {
		t.Fatalf("unexpected projection: %v", out)
	}
}

func TestMatrixCloneIsDeep(t *testing.T) {
	m := NewMatrix(2, 2)
	clone := m.Clone()
	clone.Set(0, 0, 1)
	if m.At(0, 0) != 0 {
		t.Fatal("clone shares storage with source")
	}
	if m.Equal(clone) {
		t.Fatal("expected matrices to differ after clone write")
	}
}

func TestMutateZeroStdDevIsNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := NewMatrix(2, 3)
	Randomize(m, rng)
	before := m.Clone()
	Mutate(m, 0, rng)
	if !m.Equal(before) {
		t.Fatal("expected zero std dev mutation to be a no-op")
	}
}

func TestRandomizeStaysInUnitRange(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	m := NewMatrix(8, 8)
	Randomize(m, rng)
	for i := 0; i < m.Rows(); i++ {
		for _, v := range m.Row(i) {
			if v < -1 || v > 1 {
				t.Fatalf("weight out of range: %f", v)
			}
		}
	}
}

func TestCrossoverPreferenceExtremes(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	a := NewMatrix(3, 3)
	b := NewMatrix(3, 3)
	Randomize(a, rng)
	Randomize(b, rng)

	for _, mode := range []CrossoverMode{CrossoverUniform, CrossoverInterpolate} {
		child := NewMatrix(3, 3)
		Crossover(child, a, b, 1, mode, rng)
		if !child.Equal(a) {
			t.Fatalf("%s: preference 1 should copy parent a", mode)
		}
		Crossover(child, a, b, 0, mode, rng)
		if !child.Equal(b) {
			t.Fatalf("%s: preference 0 should copy parent b", mode)
		}
	}
}

func TestCrossoverInterpolateBlends(t *testing.T) {
	a, _ := MatrixFromRows([][]float64{{1, 2}})
	b, _ := MatrixFromRows([][]float64{{3, 6}})
	child := NewMatrix(1, 2)
	Crossover(child, a, b, 0.5, CrossoverInterpolate, nil)
	if child.At(0, 0) != 2 || child.At(0, 1) != 4 {
		t.Fatalf("unexpected blend: %v", child.Row(0))
	}
}

func TestParseCrossoverMode(t *testing.T) {
	if mode, err := ParseCrossoverMode(""); err != nil || mode != CrossoverUniform {
		t.Fatalf("expected uniform default, got %q err=%v", mode, err)
	}
	if mode, err := ParseCrossoverMode(" Interpolate "); err != nil || mode != CrossoverInterpolate {
		t.Fatalf("expected interpolate, got %q err=%v", mode, err)
	}
	if _, err := ParseCrossoverMode("blend"); err == nil {
		t.Fatal("expected unsupported mode error")
	}
}
