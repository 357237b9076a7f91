package engine

import (
	"github.com/dshills/scriv/internal/engine/document"
	"github.com/dshills/scriv/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// Command is an undoable edit command.
	Command = history.Command

	// EntryInfo is read-only info about a history log entry.
	EntryInfo = history.EntryInfo

	// Record is a serializable snapshot of a logged command.
	Record = history.Record
)

// Engine is the main facade for the editing engine. It ties a document
// (the receiver) to a history invoker and routes every edit through a
// command so that all operations are undoable.
type Engine struct {
	doc  *document.Document
	hist *history.History
}

// New creates an engine with an empty document.
func New(opts ...Option) *Engine {
	return NewFromString("", opts...)
}

// NewFromString creates an engine whose document holds the given content.
// The initial content is not an undoable operation.
func NewFromString(content string, opts ...Option) *Engine {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine{
		doc:  document.NewFromString(content),
		hist: history.NewHistory(cfg.maxHistory),
	}
}

// Restore creates an engine from a persisted session: document content,
// a command log, and the cursor position. The restored log is fully
// undoable and redoable.
func Restore(content string, records []Record, cursor int, opts ...Option) (*Engine, error) {
	e := NewFromString(content, opts...)
	if err := e.hist.RestoreLog(records, cursor); err != nil {
		return nil, err
	}
	return e, nil
}

// Insert inserts text at a byte offset as an undoable command.
func (e *Engine) Insert(pos int, text string) error {
	return e.hist.Execute(history.NewInsertCommand(pos, text), e.doc)
}

// Delete deletes length bytes at pos as an undoable command.
func (e *Engine) Delete(pos, length int) error {
	return e.hist.Execute(history.NewDeleteCommand(pos, length), e.doc)
}

// Replace replaces length bytes at pos with text as an undoable command.
func (e *Engine) Replace(pos, length int, text string) error {
	return e.hist.Execute(history.NewReplaceCommand(pos, length, text), e.doc)
}

// Append appends text to the end of the document as an undoable command.
func (e *Engine) Append(text string) error {
	return e.hist.Execute(history.NewAppendCommand(text), e.doc)
}

// Clear removes all content as an undoable command.
func (e *Engine) Clear() error {
	return e.hist.Execute(history.NewClearCommand(), e.doc)
}

// Execute runs a custom command through the invoker.
func (e *Engine) Execute(cmd Command) error {
	return e.hist.Execute(cmd, e.doc)
}

// Undo reverses the most recent executed command.
func (e *Engine) Undo() error {
	return e.hist.Undo(e.doc)
}

// Redo re-executes the most recently undone command.
func (e *Engine) Redo() error {
	return e.hist.Redo(e.doc)
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.hist.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.hist.CanRedo()
}

// UndoCount returns the number of undo operations available.
func (e *Engine) UndoCount() int {
	return e.hist.UndoCount()
}

// RedoCount returns the number of redo operations available.
func (e *Engine) RedoCount() int {
	return e.hist.RedoCount()
}

// Text returns the current document content.
func (e *Engine) Text() string {
	return e.doc.String()
}

// Len returns the document length in bytes.
func (e *Engine) Len() int {
	return e.doc.Len()
}

// IsEmpty returns true if the document has no content.
func (e *Engine) IsEmpty() bool {
	return e.doc.IsEmpty()
}

// Lines returns the document content split into lines.
func (e *Engine) Lines() []string {
	return e.doc.Lines()
}

// History returns info for every log entry, oldest first.
func (e *Engine) History() []EntryInfo {
	return e.hist.Entries()
}

// UndoInfo returns info for the executed entries, oldest first.
func (e *Engine) UndoInfo() []EntryInfo {
	return e.hist.UndoInfo()
}

// RedoInfo returns info for the undone entries, in redo order.
func (e *Engine) RedoInfo() []EntryInfo {
	return e.hist.RedoInfo()
}

// PeekUndo returns info about the next undo target.
func (e *Engine) PeekUndo() (EntryInfo, bool) {
	return e.hist.PeekUndo()
}

// PeekRedo returns info about the next redo target.
func (e *Engine) PeekRedo() (EntryInfo, bool) {
	return e.hist.PeekRedo()
}

// BeginGroup starts a command group; subsequent edits are combined into a
// single undo unit until EndGroup.
func (e *Engine) BeginGroup(name string) {
	e.hist.BeginGroup(name)
}

// EndGroup commits the current command group as one undo unit.
func (e *Engine) EndGroup() {
	e.hist.EndGroup()
}

// RollbackGroup discards the current group and undoes its commands,
// restoring the document to its state before the group began.
func (e *Engine) RollbackGroup() error {
	return e.hist.RollbackGroup(e.doc)
}

// Transaction executes fn within a grouped undo context, rolling the
// document back if fn returns an error.
func (e *Engine) Transaction(name string, fn func() error) error {
	return e.hist.Transaction(name, e.doc, fn)
}

// ExecuteMacro executes commands as a single undo unit.
func (e *Engine) ExecuteMacro(name string, cmds ...Command) error {
	return e.hist.ExecuteGrouped(name, e.doc, cmds...)
}

// Records returns a serializable snapshot of the log plus the cursor.
func (e *Engine) Records() ([]Record, int, error) {
	return e.hist.Records()
}

// ClearHistory drops all undo/redo state, keeping the document as-is.
func (e *Engine) ClearHistory() {
	e.hist.Clear()
}

// Stats summarizes the engine state.
type Stats struct {
	ContentLength int
	HistorySize   int
	Position      int
	CanUndo       bool
	CanRedo       bool
}

// Stats returns a snapshot of the engine state.
func (e *Engine) Stats() Stats {
	return Stats{
		ContentLength: e.doc.Len(),
		HistorySize:   e.hist.Len(),
		Position:      e.hist.Position(),
		CanUndo:       e.hist.CanUndo(),
		CanRedo:       e.hist.CanRedo(),
	}
}
