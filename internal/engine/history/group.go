package history

import (
	"fmt"

	"github.com/dshills/scriv/internal/engine/document"
)

// BeginGroup starts a command group.
// Commands executed while grouping are combined into a single undo unit.
// Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}

	h.grouping = true
	h.groupName = name
	h.groupCmds = nil
}

// EndGroup finishes a command group.
// All commands since BeginGroup are committed as one MacroCommand log entry.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}

	h.grouping = false

	if len(h.groupCmds) == 0 {
		h.groupCmds = nil
		return
	}

	macro := &MacroCommand{
		Name:     h.groupName,
		Commands: h.groupCmds,
	}

	h.pushLocked(macro)
	h.groupCmds = nil
}

// CancelGroup discards a command group without adding it to the log.
// Commands already executed still affect the document; use RollbackGroup
// to also reverse them.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.grouping = false
	h.groupCmds = nil
}

// RollbackGroup discards the current group and undoes its commands in
// reverse order, leaving the document as it was before the group began.
func (h *History) RollbackGroup(doc *document.Document) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return nil
	}

	cmds := h.groupCmds
	h.grouping = false
	h.groupCmds = nil

	for i := len(cmds) - 1; i >= 0; i-- {
		if err := cmds[i].Undo(doc); err != nil {
			return fmt.Errorf("rollback group %q step %d: %w", h.groupName, i, err)
		}
	}
	return nil
}

// IsGrouping returns true if currently in a command group.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// GroupScope provides a convenient way to group commands using defer.
// Usage:
//
//	func doComplexEdit(h *History, doc *document.Document) {
//	    defer h.GroupScope("Complex Edit").End()
//	    // ... multiple edits ...
//	}
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope.
// Call End() or use with defer to properly close the group.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{
		history: h,
		active:  true,
	}
}

// End ends the group scope.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Cancel cancels the group scope without creating a macro entry.
// Commands already executed still affect the document.
func (g *GroupScope) Cancel() {
	if g.active {
		g.history.CancelGroup()
		g.active = false
	}
}

// Transaction executes fn within a grouped undo context.
// If fn returns an error, the group's commands are undone and discarded;
// otherwise the group is committed as one undo unit.
func (h *History) Transaction(name string, doc *document.Document, fn func() error) error {
	h.BeginGroup(name)

	if err := fn(); err != nil {
		if rbErr := h.RollbackGroup(doc); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	h.EndGroup()
	return nil
}

// ExecuteGrouped executes multiple commands as a single undo unit.
// On failure, commands already executed are undone and nothing is logged.
func (h *History) ExecuteGrouped(name string, doc *document.Document, cmds ...Command) error {
	if len(cmds) == 0 {
		return nil
	}

	if len(cmds) == 1 {
		// Single command doesn't need grouping
		return h.Execute(cmds[0], doc)
	}

	h.BeginGroup(name)
	for _, cmd := range cmds {
		if err := h.Execute(cmd, doc); err != nil {
			if rbErr := h.RollbackGroup(doc); rbErr != nil {
				return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return err
		}
	}
	h.EndGroup()
	return nil
}

// Checkpoint represents a position in the log that can be returned to.
type Checkpoint struct {
	position int
}

// CreateCheckpoint creates a checkpoint at the current cursor position.
func (h *History) CreateCheckpoint() Checkpoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Checkpoint{position: h.current}
}

// UndoToCheckpoint undoes operations until the cursor reaches the checkpoint.
func (h *History) UndoToCheckpoint(cp Checkpoint, doc *document.Document) error {
	for h.Position() > cp.position {
		if err := h.Undo(doc); err != nil {
			return err
		}
	}
	return nil
}

// RedoToCheckpoint redoes operations up to the checkpoint position.
// This only works while the log still holds the entries.
func (h *History) RedoToCheckpoint(cp Checkpoint, doc *document.Document) error {
	for h.Position() < cp.position && h.CanRedo() {
		if err := h.Redo(doc); err != nil {
			return err
		}
	}
	return nil
}
