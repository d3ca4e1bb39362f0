package skein

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSegment_AppendPreservesOrder(t *testing.T) {
	a := NewRunSegment([]Value{"A", "B"}, nil)
	b := NewRunSegment([]Value{"C"}, nil)
	require.NoError(t, b.SetTag(0, "t"))

	require.NoError(t, a.Append(b))
	assert.Equal(t, 3, a.Length())
	assert.Equal(t, []Value{"A", "B", "C"}, a.Items())

	tag, err := a.Tag(2)
	require.NoError(t, err)
	assert.Equal(t, "t", tag, "tags should travel with their items")
}

func TestSegment_AppendKindMismatch(t *testing.T) {
	run := NewRunSegment([]Value{"A"}, nil)
	pad := NewPaddingSegment(3, nil)

	assert.ErrorIs(t, run.Append(pad), ErrKindMismatch)
	assert.ErrorIs(t, pad.Append(run), ErrKindMismatch)
}

func TestRunSegment_Split(t *testing.T) {
	seg := NewRunSegment([]Value{"A", "B", "C", "D"}, PropertySet{"bold": true})
	require.NoError(t, seg.SetTag(3, "last"))

	rest, err := seg.Split(1)
	require.NoError(t, err)

	assert.Equal(t, 1, seg.Length())
	assert.Equal(t, 3, rest.Length())
	assert.Equal(t, []Value{"A"}, seg.Items())
	assert.Equal(t, []Value{"B", "C", "D"}, rest.(*RunSegment).Items())

	// Properties copied to the fragment, independently mutable.
	assert.Equal(t, true, rest.Properties()["bold"])
	rest.base().applyProperties(PropertySet{"bold": nil})
	assert.Equal(t, true, seg.Properties()["bold"])

	// Tags partitioned at the same offset.
	tag, err := rest.(*RunSegment).Tag(2)
	require.NoError(t, err)
	assert.Equal(t, "last", tag)
}

func TestSegment_SplitOffsetValidation(t *testing.T) {
	seg := NewRunSegment([]Value{"A", "B"}, nil)
	for _, offset := range []int{-1, 0, 2, 3} {
		_, err := seg.Split(offset)
		assert.ErrorIs(t, err, ErrInvalidOffset, "offset %d", offset)
	}

	pad := NewPaddingSegment(5, nil)
	rest, err := pad.Split(2)
	require.NoError(t, err)
	assert.Equal(t, 2, pad.Length())
	assert.Equal(t, 3, rest.Length())
}

func TestSegment_RemoveRange(t *testing.T) {
	seg := NewRunSegment([]Value{"A", "B", "C", "D"}, nil)

	empty, err := seg.RemoveRange(1, 3)
	require.NoError(t, err)
	assert.False(t, empty)
	assert.Equal(t, []Value{"A", "D"}, seg.Items())

	empty, err = seg.RemoveRange(0, 2)
	require.NoError(t, err)
	assert.True(t, empty, "removing the final span should report empty")

	pad := NewPaddingSegment(4, nil)
	empty, err = pad.RemoveRange(0, 4)
	require.NoError(t, err)
	assert.True(t, empty)

	_, err = pad.RemoveRange(0, 1)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestSegment_SerializeRoundTrip(t *testing.T) {
	run := NewRunSegment([]Value{"A", "B"}, PropertySet{"color": "red"})
	rebuilt, err := ReconstructSegment(run.Serialize())
	require.NoError(t, err)

	rebuiltRun, ok := rebuilt.(*RunSegment)
	require.True(t, ok, "run shape should reconstruct as a run")
	assert.Equal(t, run.Items(), rebuiltRun.Items())
	assert.Equal(t, run.Properties(), rebuiltRun.Properties())

	pad := NewPaddingSegment(7, nil)
	rebuilt, err = ReconstructSegment(pad.Serialize())
	require.NoError(t, err)
	rebuiltPad, ok := rebuilt.(*PaddingSegment)
	require.True(t, ok, "padding shape should reconstruct as padding")
	assert.Equal(t, 7, rebuiltPad.Length())
}

func TestReconstructSegment_UnrecognizedShape(t *testing.T) {
	_, err := ReconstructSegment(SegmentSpec{Props: PropertySet{"x": 1}})
	assert.ErrorIs(t, err, ErrUnrecognizedSegment)
}

func TestApplyProperties_RecordsPreviousValues(t *testing.T) {
	seg := NewRunSegment([]Value{"A"}, PropertySet{"color": "red"})

	prev := seg.base().applyProperties(PropertySet{"color": "blue", "bold": true})
	assert.Equal(t, PropertySet{"color": "red", "bold": nil}, prev)
	assert.Equal(t, PropertySet{"color": "blue", "bold": true}, seg.Properties())

	// Re-applying the previous values restores the original set.
	seg.base().applyProperties(prev)
	assert.Equal(t, PropertySet{"color": "red"}, seg.Properties())
}

func TestPropertySetsEqual(t *testing.T) {
	assert.True(t, propertySetsEqual(nil, nil))
	assert.True(t, propertySetsEqual(nil, PropertySet{}))
	assert.True(t, propertySetsEqual(
		PropertySet{"a": 1, "b": "x"},
		PropertySet{"b": "x", "a": 1},
	))
	assert.False(t, propertySetsEqual(PropertySet{"a": 1}, PropertySet{"a": 2}))
	assert.False(t, propertySetsEqual(PropertySet{"a": 1}, PropertySet{"b": 1}))
	assert.False(t, propertySetsEqual(PropertySet{"a": nil}, PropertySet{}))
}
