package skein

import "reflect"

// Value is an opaque serializable item, tag, or property value.
type Value = any

// PropertySet maps property keys to values.
//
// When used as a property delta, a nil value means "key unset": applying
// the delta clears the key, and recording it remembers that the key had no
// previous value.
type PropertySet map[string]Value

// Clone returns an independent copy of the property set. Nil stays nil.
func (p PropertySet) Clone() PropertySet {
	if p == nil {
		return nil
	}
	out := make(PropertySet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// propertySetsEqual reports whether two property sets hold the same keys
// with equal values. Nil and empty sets compare equal.
func propertySetsEqual(a, b PropertySet) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	return true
}

// SegmentSpec is the stable on-the-wire shape of a segment.
//
// Run segments carry Items (possibly empty, never absent); padding segments
// carry Pad. A spec with neither does not reconstruct.
type SegmentSpec struct {
	Items []Value     `json:"items,omitempty"`
	Pad   *int        `json:"pad,omitempty"`
	Props PropertySet `json:"props,omitempty"`
}

// Segment is an ownership unit of the sequence's content space.
//
// The two concrete kinds are RunSegment (content-bearing) and
// PaddingSegment (unoccupied address space). Splitting and appending are
// only structural; migration of tracking-group links across those
// mutations is the owning Sequence's responsibility.
type Segment interface {
	// Length returns the number of positions the segment owns.
	Length() int

	// Properties returns the segment's property set (may be nil).
	Properties() PropertySet

	// Removed reports whether the segment has been removed from the
	// logical sequence. Removed segments persist as tombstones for
	// tracking purposes.
	Removed() bool

	// Append concatenates another segment of the same kind onto this one.
	Append(other Segment) error

	// Split divides the segment at an interior offset, mutating the
	// receiver to hold [0, offset) and returning a new segment holding
	// [offset, length).
	Split(offset int) (Segment, error)

	// RemoveRange shrinks the segment by the span [start, end), reporting
	// whether the segment became fully empty.
	RemoveRange(start, end int) (bool, error)

	// Serialize returns the segment's stable on-the-wire shape.
	Serialize() SegmentSpec

	base() *baseSegment
}

// baseSegment holds state common to both concrete kinds: properties, the
// removal marker, and back-references to every tracking group linked to
// the segment.
type baseSegment struct {
	props   PropertySet
	removed bool
	groups  map[*TrackingGroup]struct{}
}

func (b *baseSegment) Properties() PropertySet { return b.props }

func (b *baseSegment) Removed() bool { return b.removed }

func (b *baseSegment) base() *baseSegment { return b }

func (b *baseSegment) markRemoved() { b.removed = true }

// applyProperties applies a property delta to the segment and returns the
// previous values being overwritten, nil-valued for previously-unset keys.
func (b *baseSegment) applyProperties(delta PropertySet) PropertySet {
	if len(delta) == 0 {
		return nil
	}
	prev := make(PropertySet, len(delta))
	for k, v := range delta {
		if old, ok := b.props[k]; ok {
			prev[k] = old
		} else {
			prev[k] = nil
		}
		if v == nil {
			delete(b.props, k)
			continue
		}
		if b.props == nil {
			b.props = make(PropertySet)
		}
		b.props[k] = v
	}
	return prev
}

// trackingGroups returns the groups currently linked to the segment.
// The slice is a snapshot; callers may unlink while iterating it.
func (b *baseSegment) trackingGroups() []*TrackingGroup {
	if len(b.groups) == 0 {
		return nil
	}
	out := make([]*TrackingGroup, 0, len(b.groups))
	for g := range b.groups {
		out = append(out, g)
	}
	return out
}

// RunSegment is a content-bearing segment holding an ordered item list
// plus a parallel list of out-of-band tags, one per item.
type RunSegment struct {
	baseSegment
	items []Value
	tags  []Value
}

// NewRunSegment creates a run segment over a copy of items, with all tags
// initially unset.
func NewRunSegment(items []Value, props PropertySet) *RunSegment {
	s := &RunSegment{
		items: make([]Value, len(items)),
		tags:  make([]Value, len(items)),
	}
	copy(s.items, items)
	s.props = props.Clone()
	return s
}

// Length returns the item count.
func (s *RunSegment) Length() int { return len(s.items) }

// Item returns the item at the given offset.
func (s *RunSegment) Item(offset int) (Value, error) {
	if offset < 0 || offset >= len(s.items) {
		return nil, ErrInvalidOffset
	}
	return s.items[offset], nil
}

// Items returns the segment's items. The slice is a copy.
func (s *RunSegment) Items() []Value {
	out := make([]Value, len(s.items))
	copy(out, s.items)
	return out
}

// Tag returns the out-of-band tag at the given offset, or nil if unset.
func (s *RunSegment) Tag(offset int) (Value, error) {
	if offset < 0 || offset >= len(s.tags) {
		return nil, ErrInvalidOffset
	}
	return s.tags[offset], nil
}

// SetTag writes the out-of-band tag at the given offset. A nil tag clears.
func (s *RunSegment) SetTag(offset int, tag Value) error {
	if offset < 0 || offset >= len(s.tags) {
		return ErrInvalidOffset
	}
	s.tags[offset] = tag
	return nil
}

// Append concatenates another run segment, preserving item and tag order.
func (s *RunSegment) Append(other Segment) error {
	run, ok := other.(*RunSegment)
	if !ok {
		return ErrKindMismatch
	}
	s.items = append(s.items, run.items...)
	s.tags = append(s.tags, run.tags...)
	return nil
}

// Split partitions items and tags at the offset; the receiver keeps
// [0, offset), the returned segment holds [offset, length).
func (s *RunSegment) Split(offset int) (Segment, error) {
	if offset <= 0 || offset >= len(s.items) {
		return nil, ErrInvalidOffset
	}
	rest := &RunSegment{
		items: make([]Value, len(s.items)-offset),
		tags:  make([]Value, len(s.tags)-offset),
	}
	copy(rest.items, s.items[offset:])
	copy(rest.tags, s.tags[offset:])
	rest.props = s.props.Clone()
	s.items = s.items[:offset]
	s.tags = s.tags[:offset]
	return rest, nil
}

// RemoveRange splices out items and tags in [start, end), reporting
// whether the segment became empty.
func (s *RunSegment) RemoveRange(start, end int) (bool, error) {
	if start < 0 || end > len(s.items) || start >= end {
		return false, ErrInvalidOffset
	}
	s.items = append(s.items[:start], s.items[end:]...)
	s.tags = append(s.tags[:start], s.tags[end:]...)
	return len(s.items) == 0, nil
}

// Serialize returns the run's wire shape: item list plus properties.
// Tags are out-of-band state and are not serialized.
func (s *RunSegment) Serialize() SegmentSpec {
	items := make([]Value, len(s.items))
	copy(items, s.items)
	return SegmentSpec{
		Items: items,
		Props: s.props.Clone(),
	}
}

// PaddingSegment represents a span of unoccupied address space. It owns
// only a length and carries no items.
type PaddingSegment struct {
	baseSegment
	length int
}

// NewPaddingSegment creates a padding segment of the given length.
func NewPaddingSegment(length int, props PropertySet) *PaddingSegment {
	s := &PaddingSegment{length: length}
	s.props = props.Clone()
	return s
}

// Length returns the padded span length.
func (s *PaddingSegment) Length() int { return s.length }

// Append sums lengths with another padding segment.
func (s *PaddingSegment) Append(other Segment) error {
	pad, ok := other.(*PaddingSegment)
	if !ok {
		return ErrKindMismatch
	}
	s.length += pad.length
	return nil
}

// Split divides the padded span at the offset.
func (s *PaddingSegment) Split(offset int) (Segment, error) {
	if offset <= 0 || offset >= s.length {
		return nil, ErrInvalidOffset
	}
	rest := &PaddingSegment{length: s.length - offset}
	rest.props = s.props.Clone()
	s.length = offset
	return rest, nil
}

// RemoveRange shrinks the padded span by the covered length.
func (s *PaddingSegment) RemoveRange(start, end int) (bool, error) {
	if start < 0 || end > s.length || start >= end {
		return false, ErrInvalidOffset
	}
	s.length -= end - start
	return s.length == 0, nil
}

// Serialize returns the padding's wire shape: length plus properties.
func (s *PaddingSegment) Serialize() SegmentSpec {
	pad := s.length
	return SegmentSpec{
		Pad:   &pad,
		Props: s.props.Clone(),
	}
}

// ReconstructSegment inspects a serialized shape and dispatches to the
// matching concrete kind. Shapes carrying neither items nor padding fail.
func ReconstructSegment(spec SegmentSpec) (Segment, error) {
	switch {
	case spec.Items != nil:
		return NewRunSegment(spec.Items, spec.Props), nil
	case spec.Pad != nil:
		return NewPaddingSegment(*spec.Pad, spec.Props), nil
	default:
		return nil, ErrUnrecognizedSegment
	}
}
