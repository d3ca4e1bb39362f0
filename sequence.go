package skein

import (
	"github.com/google/uuid"
)

// Sequence is an ordered mutable sequence of segments with delta
// notification, tracking-group migration across splits and merges, and
// removed-segment tombstones that anchor position references after
// removal.
//
// All operations run to completion within the caller's goroutine; a
// Sequence is not safe for concurrent use. Concurrency between
// collaborators is modeled through ApplyRemote, which replays another
// client's edits with the locality flag cleared.
type Sequence struct {
	id string

	// segments in sequence order. Removed segments stay in place as
	// tombstones and contribute no length.
	segments []Segment

	subscribers []subscription
	nextSub     SubscriptionID

	remote   bool // edits are being applied on behalf of a remote client
	grouping bool // a grouped operation is open
}

type subscription struct {
	id SubscriptionID
	fn DeltaFunc
}

// NewSequence creates an empty sequence with a fresh identity.
func NewSequence() *Sequence {
	return &Sequence{id: uuid.NewString()}
}

// ID returns the sequence's stable unique identifier.
func (s *Sequence) ID() string { return s.id }

// Length returns the total length of all live segments.
func (s *Sequence) Length() int {
	total := 0
	for _, seg := range s.segments {
		if !seg.Removed() {
			total += seg.Length()
		}
	}
	return total
}

// Segments returns a snapshot of the live segments in sequence order.
func (s *Sequence) Segments() []Segment {
	out := make([]Segment, 0, len(s.segments))
	for _, seg := range s.segments {
		if !seg.Removed() {
			out = append(out, seg)
		}
	}
	return out
}

// Subscribe registers a delta subscriber and returns its handle.
func (s *Sequence) Subscribe(fn DeltaFunc) SubscriptionID {
	s.nextSub++
	s.subscribers = append(s.subscribers, subscription{id: s.nextSub, fn: fn})
	return s.nextSub
}

// Unsubscribe removes a previously registered subscriber. Unknown handles
// are ignored.
func (s *Sequence) Unsubscribe(id SubscriptionID) {
	for i, sub := range s.subscribers {
		if sub.id == id {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// ApplyRemote runs fn with the sequence acting as a remote collaborator:
// every edit made inside emits deltas with Local set to false.
func (s *Sequence) ApplyRemote(fn func(*Sequence)) {
	prev := s.remote
	s.remote = true
	defer func() { s.remote = prev }()
	fn(s)
}

// GroupOperation submits the edits made inside fn as one atomic grouped
// operation. Deltas are still delivered per primitive edit; the grouping
// is a submission boundary, so the whole batch lands in a single
// undo-stack operation window and a single network unit.
func (s *Sequence) GroupOperation(fn func(*Sequence) error) error {
	if s.grouping {
		return ErrGroupNested
	}
	s.grouping = true
	defer func() { s.grouping = false }()
	return fn(s)
}

func (s *Sequence) notify(op OperationKind, ranges []AffectedRange) {
	ev := DeltaEvent{
		Local:     !s.remote,
		Operation: op,
		Ranges:    ranges,
	}
	for _, sub := range s.subscribers {
		sub.fn(s, ev)
	}
}

// insertSlice places seg at slice index i.
func (s *Sequence) insertSlice(i int, seg Segment) {
	s.segments = append(s.segments, nil)
	copy(s.segments[i+1:], s.segments[i:])
	s.segments[i] = seg
}

// migrateOnSplit links the new fragment into every tracking group of the
// original, so each group's covered range survives the split intact.
func (s *Sequence) migrateOnSplit(orig, rest Segment) {
	for _, g := range orig.base().trackingGroups() {
		g.Link(rest)
	}
}

// boundaryAt ensures a segment boundary exists exactly at pos and returns
// the slice index of the first segment at or after it, splitting a
// straddling segment if needed.
func (s *Sequence) boundaryAt(pos int) (int, error) {
	if pos < 0 {
		return 0, ErrInvalidPosition
	}
	cur := 0
	for i := 0; i < len(s.segments); i++ {
		seg := s.segments[i]
		if seg.Removed() {
			continue
		}
		if cur == pos {
			return i, nil
		}
		end := cur + seg.Length()
		if pos < end {
			rest, err := seg.Split(pos - cur)
			if err != nil {
				return 0, err
			}
			s.migrateOnSplit(seg, rest)
			s.insertSlice(i+1, rest)
			return i + 1, nil
		}
		cur = end
	}
	if pos != cur {
		return 0, ErrInvalidPosition
	}
	return len(s.segments), nil
}

// InsertAt inserts a segment at the given position and emits an insert
// delta for it.
func (s *Sequence) InsertAt(pos int, seg Segment) error {
	i, err := s.boundaryAt(pos)
	if err != nil {
		return err
	}
	s.insertSlice(i, seg)
	s.notify(OpInsert, []AffectedRange{{Segment: seg}})
	return nil
}

// InsertAtReference inserts a segment anchored immediately at another
// segment's location. The reference may be a removed tombstone, which is
// how content reinserts at its former position even after surrounding
// positions have shifted.
func (s *Sequence) InsertAtReference(ref, seg Segment) error {
	for i, existing := range s.segments {
		if existing == ref {
			s.insertSlice(i, seg)
			s.notify(OpInsert, []AffectedRange{{Segment: seg}})
			return nil
		}
	}
	return ErrSegmentNotFound
}

// Remove removes [start, end) from the sequence. Covered segments are
// split at the range boundaries and marked removed; they persist as
// tombstones so tracking groups and position references stay valid.
func (s *Sequence) Remove(start, end int) error {
	if start < 0 || end < start || end > s.Length() {
		return ErrInvalidPosition
	}
	if start == end {
		return nil
	}
	if _, err := s.boundaryAt(end); err != nil {
		return err
	}
	i, err := s.boundaryAt(start)
	if err != nil {
		return err
	}

	need := end - start
	var ranges []AffectedRange
	for ; need > 0 && i < len(s.segments); i++ {
		seg := s.segments[i]
		if seg.Removed() {
			continue
		}
		need -= seg.Length()
		seg.base().markRemoved()
		ranges = append(ranges, AffectedRange{Segment: seg})
	}
	s.notify(OpRemove, ranges)
	return nil
}

// Annotate applies a property delta over [start, end) and emits an
// annotate delta whose ranges carry the previous values being
// overwritten.
func (s *Sequence) Annotate(start, end int, delta PropertySet) error {
	if start < 0 || end < start || end > s.Length() {
		return ErrInvalidPosition
	}
	if start == end || len(delta) == 0 {
		return nil
	}
	if _, err := s.boundaryAt(end); err != nil {
		return err
	}
	i, err := s.boundaryAt(start)
	if err != nil {
		return err
	}

	need := end - start
	var ranges []AffectedRange
	for ; need > 0 && i < len(s.segments); i++ {
		seg := s.segments[i]
		if seg.Removed() {
			continue
		}
		need -= seg.Length()
		prev := seg.base().applyProperties(delta)
		ranges = append(ranges, AffectedRange{Segment: seg, PropertyDeltas: prev})
	}
	s.notify(OpAnnotate, ranges)
	return nil
}

// ResolvePosition returns a segment's current logical start position. For
// a removed tombstone this is the position its content would reoccupy.
func (s *Sequence) ResolvePosition(seg Segment) (int, error) {
	cur := 0
	for _, existing := range s.segments {
		if existing == seg {
			return cur, nil
		}
		if !existing.Removed() {
			cur += existing.Length()
		}
	}
	return 0, ErrSegmentNotFound
}

// ResolveAt returns the live segment containing pos and the in-segment
// offset of pos.
func (s *Sequence) ResolveAt(pos int) (Segment, int, error) {
	if pos < 0 {
		return nil, 0, ErrInvalidPosition
	}
	cur := 0
	for _, seg := range s.segments {
		if seg.Removed() {
			continue
		}
		end := cur + seg.Length()
		if pos < end {
			return seg, pos - cur, nil
		}
		cur = end
	}
	return nil, 0, ErrInvalidPosition
}

// Compact merges adjacent live segments of the same kind with equal
// properties and drops tombstones no tracking group references anymore.
// The surviving segment of a merge keeps the union of both sides'
// tracking links, preserving every group's covered range.
func (s *Sequence) Compact() {
	out := s.segments[:0]
	for _, seg := range s.segments {
		if seg.Removed() {
			if len(seg.base().groups) > 0 {
				out = append(out, seg)
			}
			continue
		}
		if len(out) > 0 {
			prev := out[len(out)-1]
			if !prev.Removed() && propertySetsEqual(prev.Properties(), seg.Properties()) {
				if err := prev.Append(seg); err == nil {
					for _, g := range seg.base().trackingGroups() {
						g.Link(prev)
						g.Unlink(seg)
					}
					continue
				}
			}
		}
		out = append(out, seg)
	}
	s.segments = out
}
