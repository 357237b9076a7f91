package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/scriv/internal/engine/document"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// logEntry wraps a command with metadata.
type logEntry struct {
	command   Command
	timestamp time.Time
}

// History is the invoker: it owns an ordered log of executed commands and a
// cursor marking the last executed entry.
//
// Entries at indices 0..current are executed and not undone; entries after
// the cursor are undone and available for redo in original order. Executing
// a new command truncates everything after the cursor, matching standard
// editor undo semantics. The cursor is -1 when nothing is executed.
type History struct {
	mu sync.Mutex

	log     []*logEntry
	current int

	// Grouping state
	grouping  bool
	groupName string
	groupCmds []Command

	// Configuration
	maxEntries int
}

// DefaultMaxEntries is used when no explicit limit is configured.
const DefaultMaxEntries = 1000

// NewHistory creates a new history invoker.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		current:    -1,
		maxEntries: maxEntries,
	}
}

// Execute runs a command and, on success, records it in the log.
// On failure the log and cursor are left unchanged and the command's error
// is returned as-is. The operation is atomic with respect to Undo and Redo.
func (h *History) Execute(cmd Command, doc *document.Document) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := cmd.Execute(doc); err != nil {
		return err
	}

	if h.grouping {
		h.groupCmds = append(h.groupCmds, cmd)
		return nil
	}

	h.pushLocked(cmd)
	return nil
}

// Push records an already-executed command. Any redo tail is discarded.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupCmds = append(h.groupCmds, cmd)
		return
	}

	h.pushLocked(cmd)
}

// pushLocked appends a command without acquiring the lock.
func (h *History) pushLocked(cmd Command) {
	// Discard the redo tail
	h.log = h.log[:h.current+1]

	h.log = append(h.log, &logEntry{
		command:   cmd,
		timestamp: time.Now(),
	})
	h.current++

	// Enforce max entries by dropping oldest
	if len(h.log) > h.maxEntries {
		excess := len(h.log) - h.maxEntries
		h.log = h.log[excess:]
		h.current -= excess
	}
}

// Undo reverses the command at the cursor and retreats the cursor.
// Returns ErrNothingToUndo when nothing is executed. If the command's Undo
// fails, the cursor is left unchanged and the error surfaces.
func (h *History) Undo(doc *document.Document) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current < 0 {
		return ErrNothingToUndo
	}

	if err := h.log[h.current].command.Undo(doc); err != nil {
		return err
	}

	h.current--
	return nil
}

// Redo re-executes the command after the cursor and advances the cursor.
// Returns ErrNothingToRedo when the cursor is already at the newest entry.
// If the command's Execute fails, the cursor is left unchanged and the
// error surfaces.
func (h *History) Redo(doc *document.Document) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current >= len(h.log)-1 {
		return ErrNothingToRedo
	}

	if err := h.log[h.current+1].command.Execute(doc); err != nil {
		return err
	}

	h.current++
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current >= 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current < len(h.log)-1
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current + 1
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.log) - 1 - h.current
}

// Position returns the cursor: the index of the last executed entry,
// or -1 when nothing is executed.
func (h *History) Position() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Len returns the total number of entries in the log, undone ones included.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.log)
}

// Clear removes all history and resets grouping state.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.log = nil
	h.current = -1
	h.grouping = false
	h.groupCmds = nil
}

// EntryInfo provides read-only info about a log entry.
type EntryInfo struct {
	Description string
	Timestamp   time.Time
}

// Entries returns info for every entry in the log, oldest first.
func (h *History) Entries() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.infoLocked(h.log)
}

// UndoInfo returns info for the executed entries, oldest first.
func (h *History) UndoInfo() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.infoLocked(h.log[:h.current+1])
}

// RedoInfo returns info for the undone entries, in redo order.
func (h *History) RedoInfo() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.infoLocked(h.log[h.current+1:])
}

func (h *History) infoLocked(entries []*logEntry) []EntryInfo {
	result := make([]EntryInfo, len(entries))
	for i, entry := range entries {
		result[i] = EntryInfo{
			Description: entry.command.Description(),
			Timestamp:   entry.timestamp,
		}
	}
	return result
}

// PeekUndo returns info about the next undo target without moving the cursor.
func (h *History) PeekUndo() (EntryInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current < 0 {
		return EntryInfo{}, false
	}
	entry := h.log[h.current]
	return EntryInfo{
		Description: entry.command.Description(),
		Timestamp:   entry.timestamp,
	}, true
}

// PeekRedo returns info about the next redo target without moving the cursor.
func (h *History) PeekRedo() (EntryInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current >= len(h.log)-1 {
		return EntryInfo{}, false
	}
	entry := h.log[h.current+1]
	return EntryInfo{
		Description: entry.command.Description(),
		Timestamp:   entry.timestamp,
	}, true
}

// SetMaxEntries changes the maximum number of log entries.
// If the current log is larger, oldest entries are dropped and the cursor
// is adjusted.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max

	if len(h.log) > max {
		// Drop oldest executed entries first; only shed redo entries
		// (newest first) when the executed prefix alone is not enough.
		excess := len(h.log) - max
		fromHead := excess
		if fromHead > h.current+1 {
			fromHead = h.current + 1
		}
		h.log = h.log[fromHead:]
		h.current -= fromHead
		if len(h.log) > max {
			h.log = h.log[:max]
		}
	}
}

// MaxEntries returns the maximum number of log entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
