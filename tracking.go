package skein

// TrackingGroup is a stable handle to "the same logical range" of a
// sequence across structural mutation. The owning Sequence re-links a
// group whenever a linked segment splits or merges, so the group's total
// covered range is preserved no matter how concurrent remote edits
// reshape the underlying segments.
//
// A segment may be linked by any number of groups at once; link and
// unlink are independent per group. A group has no single owner — its
// lifetime ends when it has been unlinked from every segment.
type TrackingGroup struct {
	segments map[Segment]struct{}
	order    []Segment // link order, so draining is deterministic
}

// NewTrackingGroup creates an empty tracking group.
func NewTrackingGroup() *TrackingGroup {
	return &TrackingGroup{segments: make(map[Segment]struct{})}
}

// Link adds a segment to the group. Linking an already-linked segment is
// a no-op.
func (g *TrackingGroup) Link(seg Segment) {
	if _, ok := g.segments[seg]; ok {
		return
	}
	g.segments[seg] = struct{}{}
	g.order = append(g.order, seg)

	b := seg.base()
	if b.groups == nil {
		b.groups = make(map[*TrackingGroup]struct{})
	}
	b.groups[g] = struct{}{}
}

// Unlink removes a segment from the group. Other groups linked to the
// same segment are untouched. Unlinking an unlinked segment is a no-op.
func (g *TrackingGroup) Unlink(seg Segment) {
	if _, ok := g.segments[seg]; !ok {
		return
	}
	delete(g.segments, seg)
	for i, s := range g.order {
		if s == seg {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	delete(seg.base().groups, g)
}

// Has reports whether the segment is currently linked.
func (g *TrackingGroup) Has(seg Segment) bool {
	_, ok := g.segments[seg]
	return ok
}

// Size returns the number of currently-linked segments.
func (g *TrackingGroup) Size() int { return len(g.segments) }

// Any returns one currently-linked segment, or nil if the group is empty.
func (g *TrackingGroup) Any() Segment {
	if len(g.order) == 0 {
		return nil
	}
	return g.order[0]
}

// Segments returns a snapshot of the linked segments in link order.
func (g *TrackingGroup) Segments() []Segment {
	out := make([]Segment, len(g.order))
	copy(out, g.order)
	return out
}
