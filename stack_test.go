package skein

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUndoEnv wires a sequence, handler, and stack manager together the
// way an application would.
func newUndoEnv(t *testing.T) (*Sequence, *UndoRedoStackManager) {
	t.Helper()
	seq := NewSequence()
	stack := NewUndoRedoStackManager()
	h := NewUndoHandler(stack, HandlerOptions{})
	h.AttachSequence(seq)
	t.Cleanup(h.Close)
	return seq, stack
}

func TestStack_UndoRedoRoundTrip(t *testing.T) {
	seq, stack := newUndoEnv(t)

	require.NoError(t, seq.InsertAt(0, NewRunSegment([]Value{"A", "B"}, nil)))
	stack.CloseCurrentOperation()

	require.Equal(t, 1, stack.UndoStackDepth())

	require.NoError(t, stack.Undo())
	assert.Equal(t, 0, seq.Length())
	assert.Equal(t, 0, stack.UndoStackDepth())
	assert.Equal(t, 1, stack.RedoStackDepth())

	require.NoError(t, stack.Redo())
	assert.Equal(t, []Value{"A", "B"}, liveItems(seq))
	assert.Equal(t, 1, stack.UndoStackDepth())
	assert.Equal(t, 0, stack.RedoStackDepth())
}

func TestStack_OperationBoundariesSeparateFrames(t *testing.T) {
	seq, stack := newUndoEnv(t)

	require.NoError(t, seq.InsertAt(0, NewRunSegment([]Value{"A"}, nil)))
	stack.CloseCurrentOperation()
	require.NoError(t, seq.InsertAt(1, NewRunSegment([]Value{"B"}, nil)))
	stack.CloseCurrentOperation()

	require.Equal(t, 2, stack.UndoStackDepth())

	require.NoError(t, stack.Undo())
	assert.Equal(t, []Value{"A"}, liveItems(seq))

	require.NoError(t, stack.Undo())
	assert.Equal(t, 0, seq.Length())
}

func TestStack_SingleWindowIsOneFrame(t *testing.T) {
	seq, stack := newUndoEnv(t)

	// Two edits without a boundary between them: one undo covers both.
	require.NoError(t, seq.InsertAt(0, NewRunSegment([]Value{"A"}, nil)))
	require.NoError(t, seq.Remove(0, 1))
	stack.CloseCurrentOperation()

	require.Equal(t, 1, stack.UndoStackDepth())
	require.NoError(t, stack.Undo())
	assert.Equal(t, 0, seq.Length())
}

func TestStack_NewChangeEvictsRedoBranch(t *testing.T) {
	seq, stack := newUndoEnv(t)

	require.NoError(t, seq.InsertAt(0, NewRunSegment([]Value{"A"}, nil)))
	stack.CloseCurrentOperation()
	require.NoError(t, stack.Undo())
	require.Equal(t, 1, stack.RedoStackDepth())

	redoFrame := stack.redo[0]
	require.NoError(t, seq.InsertAt(0, NewRunSegment([]Value{"B"}, nil)))

	assert.Equal(t, 0, stack.RedoStackDepth(), "a fresh change prunes the redo branch")
	for _, r := range redoFrame.revertibles {
		assert.True(t, r.Consumed(), "evicted revertibles are discarded")
	}
	assert.Equal(t, []Value{"B"}, liveItems(seq))
}

func TestStack_EmptyStacks(t *testing.T) {
	_, stack := newUndoEnv(t)

	assert.ErrorIs(t, stack.Undo(), ErrNothingToUndo)
	assert.ErrorIs(t, stack.Redo(), ErrNothingToRedo)
}

func TestStack_UndoAfterRemoteEdits(t *testing.T) {
	seq, stack := newUndoEnv(t)

	require.NoError(t, seq.InsertAt(0, NewRunSegment([]Value{"A", "B", "C"}, nil)))
	stack.CloseCurrentOperation()

	// Remote activity between the edit and its undo.
	seq.ApplyRemote(func(s *Sequence) {
		require.NoError(t, s.InsertAt(1, NewRunSegment([]Value{"r"}, nil)))
	})

	require.NoError(t, stack.Undo())
	assert.Equal(t, []Value{"r"}, liveItems(seq), "only the local edit is reversed")
}

func TestStack_RepeatedUndoRedoCycles(t *testing.T) {
	seq, stack := newUndoEnv(t)

	require.NoError(t, seq.InsertAt(0, NewRunSegment([]Value{"A"}, nil)))
	stack.CloseCurrentOperation()

	for i := 0; i < 3; i++ {
		require.NoError(t, stack.Undo())
		assert.Equal(t, 0, seq.Length())
		require.NoError(t, stack.Redo())
		assert.Equal(t, []Value{"A"}, liveItems(seq))
	}
}
