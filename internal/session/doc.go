// Package session persists editing sessions as JSON.
//
// A session holds the document content, the full command log with the undo
// state each command captured at execute time, and the history cursor. A
// loaded session can therefore undo and redo everything the saved one
// could, not just display its descriptions.
//
// Encoding builds the JSON incrementally with sjson; decoding walks it with
// gjson, so a malformed file is rejected without partial state. Store wraps
// the codec with atomic file persistence.
package session
