// Package app wires the editing engine into a minimal terminal editor:
// configuration, logging, session persistence, Lua macros, and a tcell
// event loop with undo/redo key bindings.
package app
