package skein

import "log/slog"

// HandlerOptions configures an UndoHandler.
type HandlerOptions struct {
	// Logger receives debug records about revertible lifecycle. Nil
	// disables logging.
	Logger *slog.Logger
}

// attachment records one attached sequence's subscription state.
type attachment struct {
	seq *Sequence
	sub SubscriptionID
}

// UndoHandler attaches to sequences' local-delta streams and accumulates
// each sequence's edits into one Revertible per undo-stack operation
// window. Non-local events are ignored entirely: remote edits are never
// tracked for undo.
type UndoHandler struct {
	stack  OperationStack
	logger *slog.Logger

	// open maps sequence ID to the Revertible accumulating deltas in the
	// current operation window. Cleared whenever the stack manager
	// signals that the current operation changed.
	open map[string]*Revertible

	attached  map[string]attachment
	unobserve func()
}

// NewUndoHandler creates a handler recording into the given stack
// manager.
func NewUndoHandler(stack OperationStack, options HandlerOptions) *UndoHandler {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &UndoHandler{
		stack:    stack,
		logger:   logger,
		open:     make(map[string]*Revertible),
		attached: make(map[string]attachment),
	}
	h.unobserve = stack.OnOperationChanged(h.operationChanged)
	return h
}

// operationChanged clears the open-revertible map; every sequence starts
// a fresh Revertible on its next local delta.
func (h *UndoHandler) operationChanged() {
	clear(h.open)
}

// AttachSequence subscribes the handler to a sequence's delta stream.
// Attaching an already-attached sequence is a no-op.
func (h *UndoHandler) AttachSequence(seq *Sequence) {
	if _, ok := h.attached[seq.ID()]; ok {
		return
	}
	sub := seq.Subscribe(h.onDelta)
	h.attached[seq.ID()] = attachment{seq: seq, sub: sub}
	h.logger.Debug("attached sequence", "sequence", seq.ID())
}

// DetachSequence unsubscribes the handler from a sequence, stopping all
// further recording for it. Already-open Revertibles are unaffected.
// Detaching an unattached sequence is a no-op.
func (h *UndoHandler) DetachSequence(seq *Sequence) {
	att, ok := h.attached[seq.ID()]
	if !ok {
		return
	}
	att.seq.Unsubscribe(att.sub)
	delete(h.attached, seq.ID())
	h.logger.Debug("detached sequence", "sequence", seq.ID())
}

// Close detaches every sequence and stops observing the stack manager.
func (h *UndoHandler) Close() {
	for _, att := range h.attached {
		att.seq.Unsubscribe(att.sub)
	}
	clear(h.attached)
	clear(h.open)
	if h.unobserve != nil {
		h.unobserve()
		h.unobserve = nil
	}
}

// onDelta records a local delta event into the sequence's open
// Revertible, opening one and handing it to the stack manager if the
// sequence has none in the current operation window.
func (h *UndoHandler) onDelta(seq *Sequence, event DeltaEvent) {
	if !event.Local {
		return
	}
	r, ok := h.open[seq.ID()]
	if !ok {
		r = NewRevertible(seq)
		h.open[seq.ID()] = r
		h.stack.PushToCurrentOperation(r)
		h.logger.Debug("opened revertible",
			"sequence", seq.ID(),
			"operation", event.Operation.String())
	}
	r.Add(event)
}
