package skein

// Grid dimension bounds. Positions are computed as row*MaxCols + col, so
// the full grid stays inside 2^53 and round-trips through any numeric
// wire format.
const (
	// MaxCols is the fixed column capacity of the sparse grid.
	MaxCols = 0x200000

	// MaxRows bounds the row domain.
	MaxRows = 0xFFFFFFFF
)

// PositionFromRowCol maps a (row, col) coordinate to its linear sequence
// position.
func PositionFromRowCol(row, col int) (int, error) {
	if row < 0 || row >= MaxRows {
		return 0, ErrRowRange
	}
	if col < 0 || col >= MaxCols {
		return 0, ErrColRange
	}
	return row*MaxCols + col, nil
}

// RowColFromPosition maps a linear sequence position back to its
// (row, col) coordinate.
func RowColFromPosition(pos int) (row, col int) {
	return pos / MaxCols, pos % MaxCols
}

// SparseMatrix is a virtual two-dimensional grid addressed onto a single
// sequence of run segments (written cells) and padding segments
// (unwritten cells). Unwritten cells cost nothing until written.
//
// Local edits made through the matrix flow through the sequence's delta
// stream like any other edit, so an attached UndoHandler records them.
type SparseMatrix struct {
	seq *Sequence
}

// NewSparseMatrix creates a sparse matrix over the given sequence, which
// must contain only run and padding segments (an empty sequence is fine).
func NewSparseMatrix(seq *Sequence) *SparseMatrix {
	return &SparseMatrix{seq: seq}
}

// Sequence returns the underlying sequence.
func (m *SparseMatrix) Sequence() *Sequence { return m.seq }

// NumRows returns the number of allocated rows.
func (m *SparseMatrix) NumRows() int {
	return m.seq.Length() / MaxCols
}

// Write stores values into the cells starting at (row, col), replacing
// whatever occupied that range. The replace is submitted as one grouped
// operation: a single local edit from the engine's point of view and a
// single undo frame. Rows are allocated up through the target row if
// needed.
func (m *SparseMatrix) Write(row, col int, values []Value, props PropertySet) error {
	start, err := PositionFromRowCol(row, col)
	if err != nil {
		return err
	}
	if col+len(values) > MaxCols {
		return ErrColRange
	}
	if len(values) == 0 {
		return nil
	}
	return m.seq.GroupOperation(func(seq *Sequence) error {
		if grow := (row+1)*MaxCols - seq.Length(); grow > 0 {
			if err := seq.InsertAt(seq.Length(), NewPaddingSegment(grow, nil)); err != nil {
				return err
			}
		}
		if err := seq.Remove(start, start+len(values)); err != nil {
			return err
		}
		return seq.InsertAt(start, NewRunSegment(values, props))
	})
}

// Read returns the value at (row, col). Unwritten cells, including cells
// in rows never allocated, read as nil with no error.
func (m *SparseMatrix) Read(row, col int) (Value, error) {
	pos, err := PositionFromRowCol(row, col)
	if err != nil {
		return nil, err
	}
	if pos >= m.seq.Length() {
		return nil, nil
	}
	seg, offset, err := m.seq.ResolveAt(pos)
	if err != nil {
		return nil, err
	}
	switch seg := seg.(type) {
	case *RunSegment:
		return seg.Item(offset)
	case *PaddingSegment:
		return nil, nil
	default:
		return nil, ErrUnrecognizedSegment
	}
}

// ReadTag returns the out-of-band tag at (row, col), or nil for unwritten
// or untagged cells.
func (m *SparseMatrix) ReadTag(row, col int) (Value, error) {
	pos, err := PositionFromRowCol(row, col)
	if err != nil {
		return nil, err
	}
	if pos >= m.seq.Length() {
		return nil, nil
	}
	seg, offset, err := m.seq.ResolveAt(pos)
	if err != nil {
		return nil, err
	}
	switch seg := seg.(type) {
	case *RunSegment:
		return seg.Tag(offset)
	case *PaddingSegment:
		return nil, nil
	default:
		return nil, ErrUnrecognizedSegment
	}
}

// WriteTag sets the out-of-band tag at (row, col). Writing a defined tag
// onto an unwritten (padding-covered) cell is an error; clearing with a
// nil tag is always permitted and is a no-op on padding.
func (m *SparseMatrix) WriteTag(row, col int, tag Value) error {
	pos, err := PositionFromRowCol(row, col)
	if err != nil {
		return err
	}
	if pos >= m.seq.Length() {
		if tag == nil {
			return nil
		}
		return ErrTagOnPadding
	}
	seg, offset, err := m.seq.ResolveAt(pos)
	if err != nil {
		return err
	}
	switch seg := seg.(type) {
	case *RunSegment:
		return seg.SetTag(offset, tag)
	case *PaddingSegment:
		if tag == nil {
			return nil
		}
		return ErrTagOnPadding
	default:
		return ErrUnrecognizedSegment
	}
}

// InsertRows inserts n unwritten rows at the given row boundary. Because
// positions encode rows linearly, every higher row shifts implicitly in
// one O(1) padding splice.
func (m *SparseMatrix) InsertRows(row, n int) error {
	if row < 0 || row > m.NumRows() || n < 0 || row+n > MaxRows {
		return ErrRowRange
	}
	if n == 0 {
		return nil
	}
	return m.seq.InsertAt(row*MaxCols, NewPaddingSegment(n*MaxCols, nil))
}

// RemoveRows removes n rows starting at the given row.
func (m *SparseMatrix) RemoveRows(row, n int) error {
	if row < 0 || n < 0 || row+n > m.NumRows() {
		return ErrRowRange
	}
	if n == 0 {
		return nil
	}
	return m.seq.Remove(row*MaxCols, (row+n)*MaxCols)
}

// InsertCols shifts columns [col, MaxCols-n) right by n in every
// allocated row, exposing n unwritten columns at col. The top n columns
// of each row overflow and are removed.
func (m *SparseMatrix) InsertCols(col, n int) error {
	if col < 0 || n < 0 || col+n > MaxCols {
		return ErrColRange
	}
	return m.moveAsPadding(MaxCols-n, col, n)
}

// RemoveCols removes n columns at col in every allocated row, shifting
// higher columns left and padding the high end of each row.
func (m *SparseMatrix) RemoveCols(col, n int) error {
	if col < 0 || n < 0 || col+n > MaxCols {
		return ErrColRange
	}
	return m.moveAsPadding(col, MaxCols-n, n)
}

// moveAsPadding removes n columns at src and inserts n padding columns at
// dest, row by row, for every allocated row. The sequence has no native
// "splice every row at once" primitive, so the per-row edits are
// accumulated into one grouped submission: one undo frame and one network
// unit. Each row's length is unchanged by its pair of edits, so row
// starts stay stable across the loop.
func (m *SparseMatrix) moveAsPadding(src, dest, n int) error {
	if n == 0 {
		return nil
	}
	rows := m.NumRows()
	return m.seq.GroupOperation(func(seq *Sequence) error {
		for r := 0; r < rows; r++ {
			rowStart := r * MaxCols
			if err := seq.Remove(rowStart+src, rowStart+src+n); err != nil {
				return err
			}
			if err := seq.InsertAt(rowStart+dest, NewPaddingSegment(n, nil)); err != nil {
				return err
			}
		}
		return nil
	})
}
