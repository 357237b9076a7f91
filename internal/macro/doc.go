// Package macro runs Lua scripts that edit a document as one undo unit.
//
// Scripts see a global `edit` table:
//
//	edit.insert(pos, text)          -- insert at byte offset
//	edit.delete(pos, length)        -- delete a byte range
//	edit.replace(pos, length, text) -- replace a byte range
//	edit.append(text)               -- insert at end of document
//	edit.clear()                    -- remove all content
//	edit.text()                     -- current content (edits so far included)
//	edit.len()                      -- current length in bytes
//
// Edits apply immediately, so a script can read back its own changes. The
// whole script commits as a single history entry named after the macro;
// a script error rolls every edit back.
//
// The Lua state is restricted: only the base, table, string, and math
// libraries are opened, and code-loading functions are removed. Scripts
// are also bounded by a wall-clock timeout.
package macro
