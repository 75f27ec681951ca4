package ann

import (
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrMatrixShape = errors.New("malformed matrix")

// Matrix is a dense weight matrix. The zero value is an empty matrix.
//
// Weight matrices map a layer's inputs (plus a trailing bias row) to its
// outputs: element (j, i) is the weight from input j to output i.
type Matrix struct {
	d *mat.Dense
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("ann: invalid matrix shape %dx%d", rows, cols))
	}
	return Matrix{d: mat.NewDense(rows, cols, nil)}
}

// MatrixFromRows copies a rectangular slice of rows into a new matrix.
func MatrixFromRows(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, fmt.Errorf("%w: no rows", ErrMatrixShape)
	}
	cols := len(rows[0])
	if cols == 0 {
		return Matrix{}, fmt.Errorf("%w: empty row", ErrMatrixShape)
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return Matrix{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrMatrixShape, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return Matrix{d: mat.NewDense(len(rows), cols, data)}, nil
}

func (m Matrix) Empty() bool {
	return m.d == nil
}

func (m Matrix) Rows() int {
	if m.d == nil {
		return 0
	}
	r, _ := m.d.Dims()
	return r
}

func (m Matrix) Cols() int {
	if m.d == nil {
		return 0
	}
	_, c := m.d.Dims()
	return c
}

func (m Matrix) At(row, col int) float64 {
	return m.d.At(row, col)
}

func (m Matrix) Set(row, col int, value float64) {
	m.d.Set(row, col, value)
}

// Row returns a view of row i. Writes through the view modify the matrix.
func (m Matrix) Row(i int) []float64 {
	return m.d.RawRowView(i)
}

func (m Matrix) Clone() Matrix {
	if m.d == nil {
		return Matrix{}
	}
	return Matrix{d: mat.DenseCopyOf(m.d)}
}

// Equal reports exact element-wise equality of two matrices of the same shape.
func (m Matrix) Equal(other Matrix) bool {
	if m.d == nil || other.d == nil {
		return m.d == nil && other.d == nil
	}
	return mat.Equal(m.d, other.d)
}

// Project computes the affine map of inputs through the matrix, treating the
// last row as bias weights: out[i] = w[bias][i] + sum_j inputs[j]*w[j][i].
func (m Matrix) Project(inputs, out []float64) {
	rows, cols := m.d.Dims()
	if len(inputs) != rows-1 {
		panic(fmt.Sprintf("ann: projection expects %d inputs, got %d", rows-1, len(inputs)))
	}
	if len(out) != cols {
		panic(fmt.Sprintf("ann: projection expects %d outputs, got %d", cols, len(out)))
	}
	x := make([]float64, rows)
	copy(x, inputs)
	x[rows-1] = 1
	dst := mat.NewVecDense(cols, out)
	dst.MulVec(m.d.T(), mat.NewVecDense(rows, x))
}

func (m Matrix) MarshalJSON() ([]byte, error) {
	rows := make([][]float64, m.Rows())
	for i := range rows {
		rows[i] = append([]float64(nil), m.d.RawRowView(i)...)
	}
	return json.Marshal(rows)
}

func (m *Matrix) UnmarshalJSON(data []byte) error {
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := MatrixFromRows(rows)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
