package skein

// OperationStack is the undo-stack manager contract the UndoHandler
// records into. The stack manager alone decides operation boundaries,
// grouping, and redo-branch eviction.
type OperationStack interface {
	// PushToCurrentOperation registers a Revertible as part of the
	// current undo-stack operation frame.
	PushToCurrentOperation(r *Revertible)

	// OnOperationChanged registers an observer notified whenever the
	// current operation closes. The returned function unregisters it.
	OnOperationChanged(fn func()) (unobserve func())
}

// stackMode tracks which stack counter-operations are routed to.
type stackMode int

const (
	modeNormal stackMode = iota
	modeUndoing
	modeRedoing
)

// operationFrame is one undo- or redo-stack entry: the Revertibles pushed
// during a single operation window, in push order.
type operationFrame struct {
	revertibles []*Revertible
}

// observerEntry pairs an observer with its registration handle.
type observerEntry struct {
	id int
	fn func()
}

// UndoRedoStackManager maintains undo and redo stacks of operation
// frames.
//
// A new frame opens on the first push after CloseCurrentOperation and
// collects every push until the operation closes again. Reverting a frame
// emits ordinary local deltas, so the counter-edits recorded during Undo
// land on the redo stack (and vice versa) through the normal UndoHandler
// path. Pushing a fresh change in normal mode evicts the redo branch,
// discarding its Revertibles.
type UndoRedoStackManager struct {
	undo []*operationFrame
	redo []*operationFrame
	open *operationFrame
	mode stackMode

	observers []observerEntry
	nextObs   int
}

// NewUndoRedoStackManager creates an empty stack manager.
func NewUndoRedoStackManager() *UndoRedoStackManager {
	return &UndoRedoStackManager{}
}

// PushToCurrentOperation appends a Revertible to the current operation
// frame, opening a new frame on the appropriate stack if none is open.
func (m *UndoRedoStackManager) PushToCurrentOperation(r *Revertible) {
	if m.open == nil {
		m.open = &operationFrame{}
		switch m.mode {
		case modeUndoing:
			m.redo = append(m.redo, m.open)
		case modeRedoing:
			m.undo = append(m.undo, m.open)
		default:
			m.ClearRedo()
			m.undo = append(m.undo, m.open)
		}
	}
	m.open.revertibles = append(m.open.revertibles, r)
}

// OnOperationChanged registers an observer notified when the current
// operation closes.
func (m *UndoRedoStackManager) OnOperationChanged(fn func()) func() {
	m.nextObs++
	id := m.nextObs
	m.observers = append(m.observers, observerEntry{id: id, fn: fn})
	return func() {
		for i, obs := range m.observers {
			if obs.id == id {
				m.observers = append(m.observers[:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

// CloseCurrentOperation seals the open frame, so the next push starts a
// new operation, and notifies operation-changed observers.
func (m *UndoRedoStackManager) CloseCurrentOperation() {
	m.open = nil
	for _, obs := range m.observers {
		obs.fn()
	}
}

// UndoStackDepth returns the number of operations available to undo.
func (m *UndoRedoStackManager) UndoStackDepth() int { return len(m.undo) }

// RedoStackDepth returns the number of operations available to redo.
func (m *UndoRedoStackManager) RedoStackDepth() int { return len(m.redo) }

// Undo reverts the most recent undo-stack operation. Counter-edits
// recorded during the revert form the matching redo-stack operation.
func (m *UndoRedoStackManager) Undo() error {
	m.CloseCurrentOperation()
	if len(m.undo) == 0 {
		return ErrNothingToUndo
	}
	frame := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]

	m.mode = modeUndoing
	defer func() {
		m.mode = modeNormal
		m.CloseCurrentOperation()
	}()
	return revertFrame(frame)
}

// Redo reverts the most recent redo-stack operation. Counter-edits
// recorded during the revert form the matching undo-stack operation.
func (m *UndoRedoStackManager) Redo() error {
	m.CloseCurrentOperation()
	if len(m.redo) == 0 {
		return ErrNothingToRedo
	}
	frame := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]

	m.mode = modeRedoing
	defer func() {
		m.mode = modeNormal
		m.CloseCurrentOperation()
	}()
	return revertFrame(frame)
}

// ClearRedo evicts the entire redo branch, discarding its Revertibles
// without applying them.
func (m *UndoRedoStackManager) ClearRedo() {
	for _, frame := range m.redo {
		for _, r := range frame.revertibles {
			r.Discard()
		}
	}
	m.redo = nil
}

// revertFrame reverts a frame's Revertibles in reverse push order.
func revertFrame(frame *operationFrame) error {
	for i := len(frame.revertibles) - 1; i >= 0; i-- {
		if err := frame.revertibles[i].Revert(); err != nil {
			return err
		}
	}
	return nil
}
