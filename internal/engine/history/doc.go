// Package history provides command-pattern undo/redo for the editing engine.
//
// Edits are encapsulated as Commands that know how to execute and undo
// themselves against a document. The History type is the invoker: it keeps
// a single ordered log of executed commands plus a cursor marking the last
// executed entry.
//
// # Commands
//
// Commands implement the Command interface with Execute and Undo methods.
// Built-in commands:
//   - InsertCommand: insert text at a byte offset
//   - DeleteCommand: delete a byte range
//   - ReplaceCommand: replace a byte range with new text
//   - AppendCommand: insert text at the end of the document
//   - ClearCommand: remove all content
//   - MacroCommand: group multiple commands as one undo unit
//
// Each command captures at execute time exactly the state it needs to undo
// itself (deleted text, replaced text, previous content).
//
// # The Log
//
// The log is append-only except for truncation: executing a new command
// while undone entries exist discards the redo tail, as in a typical
// editor. The cursor moves backward on Undo and forward on Redo; entries
// are never mutated once appended.
//
//	h := history.NewHistory(1000) // cap at 1000 entries
//
//	h.Execute(history.NewInsertCommand(0, "hello"), doc)
//	h.Undo(doc)
//	h.Redo(doc)
//
// Undo with nothing executed returns ErrNothingToUndo; Redo at the newest
// entry returns ErrNothingToRedo. Command failures surface to the caller
// verbatim and leave the log and cursor untouched.
//
// # Grouping
//
// Multiple commands can be committed as a single undo unit:
//
//	h.BeginGroup("Find and Replace")
//	// ... multiple edits ...
//	h.EndGroup()
//
// Transaction and ExecuteGrouped wrap the same mechanism with rollback on
// failure.
//
// # Persistence
//
// Records returns a serializable snapshot of the log (commands plus their
// captured undo state); RestoreLog rebuilds a fully undoable log from one.
// The session package stores these snapshots on disk.
package history
