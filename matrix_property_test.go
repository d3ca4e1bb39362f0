package skein

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestPositionBijectionProperty verifies the coordinate mapping is a
// bijection over the full domain.
// Property: RowColFromPosition(PositionFromRowCol(row, col)) == (row, col)
func TestPositionBijectionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("position round-trips through (row, col)", prop.ForAll(
		func(row, col int) bool {
			pos, err := PositionFromRowCol(row, col)
			if err != nil {
				return false
			}
			gotRow, gotCol := RowColFromPosition(pos)
			return gotRow == row && gotCol == col
		},
		gen.IntRange(0, MaxRows-1),
		gen.IntRange(0, MaxCols-1),
	))

	properties.TestingRun(t)
}

// TestRowSymmetryProperty verifies InsertRows immediately followed by
// RemoveRows restores every written cell.
func TestRowSymmetryProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("insertRows then removeRows is identity", prop.ForAll(
		func(at, n int) bool {
			m := NewSparseMatrix(NewSequence())
			for row := 0; row < 4; row++ {
				if err := m.Write(row, row*5, []Value{fmt.Sprintf("cell-%d", row)}, nil); err != nil {
					return false
				}
			}
			if at > m.NumRows() {
				return true // out of the operation's domain
			}
			if err := m.InsertRows(at, n); err != nil {
				return false
			}
			if err := m.RemoveRows(at, n); err != nil {
				return false
			}
			for row := 0; row < 4; row++ {
				v, err := m.Read(row, row*5)
				if err != nil || v != fmt.Sprintf("cell-%d", row) {
					return false
				}
			}
			return m.NumRows() == 4
		},
		gen.IntRange(0, 4),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}

// TestColumnSymmetryProperty verifies InsertCols immediately followed by
// RemoveCols restores column alignment for every existing row.
func TestColumnSymmetryProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("insertCols then removeCols is identity", prop.ForAll(
		func(at, n, width int) bool {
			m := NewSparseMatrix(NewSequence())
			values := make([]Value, width)
			for i := range values {
				values[i] = i
			}
			for row := 0; row < 3; row++ {
				if err := m.Write(row, row, values, nil); err != nil {
					return false
				}
			}
			if err := m.InsertCols(at, n); err != nil {
				return false
			}
			if err := m.RemoveCols(at, n); err != nil {
				return false
			}
			for row := 0; row < 3; row++ {
				for i := 0; i < width; i++ {
					v, err := m.Read(row, row+i)
					if err != nil || v != i {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(0, 16),
		gen.IntRange(0, 8),
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}

// TestUndoRoundTripProperty verifies that recording a batch of writes and
// reverting it restores the pre-edit state.
func TestUndoRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("revert restores pre-edit cells", prop.ForAll(
		func(cols []int) bool {
			seq := NewSequence()
			m := NewSparseMatrix(seq)
			if err := m.Write(0, 0, []Value{"base"}, nil); err != nil {
				return false
			}

			r := NewRevertible(seq)
			recordInto(seq, r)
			for _, col := range cols {
				if err := m.Write(0, 1+col, []Value{"edit"}, nil); err != nil {
					return false
				}
			}
			if err := r.Revert(); err != nil {
				return false
			}

			v, err := m.Read(0, 0)
			if err != nil || v != "base" {
				return false
			}
			for _, col := range cols {
				v, err := m.Read(0, 1+col)
				if err != nil || v != nil {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(5, gen.IntRange(0, 50)),
	))

	properties.TestingRun(t)
}
