package skein

// revertibleState tags a Revertible's consumption state. Revert and
// Discard are both terminal.
type revertibleState int

const (
	stateOpen revertibleState = iota
	stateConsumed
)

// TrackedEntry is one coalesced grouping inside a Revertible: a tracking
// group over the segments affected by contiguously-observed ranges of the
// same operation kind with an identical property delta.
type TrackedEntry struct {
	group         *TrackingGroup
	operation     OperationKind
	propertyDelta PropertySet
}

// Group returns the entry's tracking group.
func (e *TrackedEntry) Group() *TrackingGroup { return e.group }

// Operation returns the operation kind the entry represents.
func (e *TrackedEntry) Operation() OperationKind { return e.operation }

// PropertyDelta returns the property delta the entry restores on revert.
func (e *TrackedEntry) PropertyDelta() PropertySet { return e.propertyDelta }

// Revertible is one undo-stack frame's recorded edit history for one
// sequence. It accumulates local delta events through Add and is consumed
// exactly once, by either Revert or Discard.
type Revertible struct {
	seq     *Sequence
	entries []*TrackedEntry
	state   revertibleState
}

// NewRevertible creates an open Revertible for the given sequence.
func NewRevertible(seq *Sequence) *Revertible {
	return &Revertible{seq: seq}
}

// Sequence returns the sequence this Revertible records for.
func (r *Revertible) Sequence() *Sequence { return r.seq }

// Consumed reports whether the Revertible has been reverted or discarded.
func (r *Revertible) Consumed() bool { return r.state == stateConsumed }

// Add records one local delta event's affected ranges.
//
// Consecutive ranges matching the tail entry's operation kind and
// property delta coalesce into the tail entry's existing tracking group,
// so memory grows with the number of distinct (kind, delta) runs rather
// than the number of underlying segments. The scan starts fresh from the
// current tail entry on every call, so ranges from separate events for
// the same logical operation still coalesce when they match.
func (r *Revertible) Add(event DeltaEvent) {
	if r.state != stateOpen {
		return
	}
	var last *TrackedEntry
	if len(r.entries) > 0 {
		last = r.entries[len(r.entries)-1]
	}
	for _, rng := range event.Ranges {
		if last != nil && last.operation == event.Operation &&
			propertySetsEqual(last.propertyDelta, rng.PropertyDeltas) {
			last.group.Link(rng.Segment)
			continue
		}
		group := NewTrackingGroup()
		group.Link(rng.Segment)
		last = &TrackedEntry{
			group:         group,
			operation:     event.Operation,
			propertyDelta: rng.PropertyDeltas.Clone(),
		}
		r.entries = append(r.entries, last)
	}
}

// Revert replays inverse operations for every tracked entry in reverse
// chronological order, leaving the entry list empty. Calling Revert on an
// already-consumed Revertible is a no-op.
//
// Segments that were split by concurrent remote edits since recording are
// each linked in the entry's group individually, so every fragment is
// inverted; segments concurrently removed are skipped rather than
// double-removed.
func (r *Revertible) Revert() error {
	if r.state == stateConsumed {
		return nil
	}
	r.state = stateConsumed

	for len(r.entries) > 0 {
		entry := r.entries[len(r.entries)-1]
		r.entries = r.entries[:len(r.entries)-1]

		for entry.group.Size() > 0 {
			seg := entry.group.Any()
			entry.group.Unlink(seg)

			switch entry.operation {
			case OpInsert:
				if seg.Removed() {
					continue
				}
				pos, err := r.seq.ResolvePosition(seg)
				if err != nil {
					return err
				}
				if err := r.seq.Remove(pos, pos+seg.Length()); err != nil {
					return err
				}

			case OpRemove:
				rebuilt, err := ReconstructSegment(seg.Serialize())
				if err != nil {
					return err
				}
				if err := r.seq.InsertAtReference(seg, rebuilt); err != nil {
					return err
				}
				// Every other consumer still tracking the tombstone now
				// tracks the logically-equivalent live content instead.
				for _, g := range seg.base().trackingGroups() {
					g.Link(rebuilt)
					g.Unlink(seg)
				}

			case OpAnnotate:
				if seg.Removed() {
					continue
				}
				pos, err := r.seq.ResolvePosition(seg)
				if err != nil {
					return err
				}
				if err := r.seq.Annotate(pos, pos+seg.Length(), entry.propertyDelta); err != nil {
					return err
				}

			default:
				return ErrUnsupportedOperation
			}
		}
	}
	return nil
}

// Discard releases every tracking link without applying any inverse
// operation, leaving the entry list empty. It never touches sequence
// content, so it is safe at any point before Revert regardless of how the
// sequence has been mutated since recording. Calling Discard on an
// already-consumed Revertible is a no-op.
func (r *Revertible) Discard() {
	if r.state == stateConsumed {
		return
	}
	r.state = stateConsumed

	for len(r.entries) > 0 {
		entry := r.entries[len(r.entries)-1]
		r.entries = r.entries[:len(r.entries)-1]
		for entry.group.Size() > 0 {
			entry.group.Unlink(entry.group.Any())
		}
	}
}
