// Package engine is the facade for the command-driven editing engine.
//
// An Engine pairs a document receiver with a history invoker. Every edit
// goes through a command, so Undo and Redo work across all operations:
//
//	e := engine.NewFromString("hello")
//	e.Append(" world")
//	e.Undo()
//	e.Redo()
//
// Grouped edits commit as a single undo unit via Transaction or
// ExecuteMacro, and sessions persist via Records/Restore together with the
// session package.
package engine
