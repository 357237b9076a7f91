// Package document provides the text receiver that edit commands act upon.
//
// A Document holds plain text addressed by byte offsets. It knows how to
// perform primitive edits (insert, delete, replace, clear) and how to report
// its content, but it knows nothing about when or why an edit happens; the
// history package drives it through commands.
//
// Every mutating method returns enough information to reverse the edit
// (deleted text, replaced text, previous content), which is what makes the
// command pattern's undo side possible without snapshotting the whole
// document.
//
// All methods are thread-safe.
package document
