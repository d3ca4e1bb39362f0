package skein

// OperationKind identifies the kind of mutation a delta event describes.
type OperationKind int

const (
	// OpInsert indicates new content was inserted into the sequence.
	OpInsert OperationKind = iota

	// OpRemove indicates content was removed from the sequence.
	OpRemove

	// OpAnnotate indicates properties were changed over a range.
	OpAnnotate
)

// String returns a human-readable name for the operation kind.
func (k OperationKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpAnnotate:
		return "annotate"
	default:
		return "unknown"
	}
}

// AffectedRange pairs one segment touched by an operation with the
// property delta the operation applied there. For annotate the delta
// holds the previous values being overwritten; for insert and remove it
// is usually empty.
type AffectedRange struct {
	Segment        Segment
	PropertyDeltas PropertySet
}

// DeltaEvent describes one completed mutation of a sequence. It is
// produced synchronously right after the mutation applies and is not
// retained: subscribers must copy anything they need.
type DeltaEvent struct {
	// Local is true only for edits originated by this client. Remote
	// edits are delivered with Local false and are never tracked for undo.
	Local bool

	// Operation is the kind of mutation that occurred.
	Operation OperationKind

	// Ranges lists the affected ranges in sequence order.
	Ranges []AffectedRange
}

// SubscriptionID is a stable handle for a registered delta subscriber.
type SubscriptionID uint64

// DeltaFunc consumes delta events from a sequence.
type DeltaFunc func(seq *Sequence, event DeltaEvent)
