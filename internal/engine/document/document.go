package document

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by document operations.
var (
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrLengthOutOfRange   = errors.New("length out of range")
)

// Document is a plain-text receiver addressed by byte offsets.
type Document struct {
	mu      sync.RWMutex
	content string
}

// New creates a new empty document.
func New() *Document {
	return &Document{}
}

// NewFromString creates a document with initial content.
func NewFromString(s string) *Document {
	return &Document{content: s}
}

// Insert inserts text at the given byte offset.
// Valid positions are 0..Len() inclusive.
func (d *Document) Insert(pos int, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if pos < 0 || pos > len(d.content) {
		return ErrPositionOutOfRange
	}

	d.content = d.content[:pos] + text + d.content[pos:]
	return nil
}

// Delete removes length bytes starting at pos and returns the deleted text.
// A zero length is a no-op and returns the empty string.
func (d *Document) Delete(pos, length int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.deleteLocked(pos, length)
}

func (d *Document) deleteLocked(pos, length int) (string, error) {
	if length == 0 {
		return "", nil
	}
	if pos < 0 || pos >= len(d.content) {
		return "", ErrPositionOutOfRange
	}
	if length < 0 || pos+length > len(d.content) {
		return "", ErrLengthOutOfRange
	}

	deleted := d.content[pos : pos+length]
	d.content = d.content[:pos] + d.content[pos+length:]
	return deleted, nil
}

// Replace replaces length bytes starting at pos with text and returns the
// text that was replaced. A zero length inserts without removing anything.
func (d *Document) Replace(pos, length int, text string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	old, err := d.deleteLocked(pos, length)
	if err != nil {
		return "", err
	}
	// A zero-length delete is a no-op, so pos still needs a range check.
	if pos < 0 || pos > len(d.content) {
		return "", ErrPositionOutOfRange
	}

	d.content = d.content[:pos] + text + d.content[pos:]
	return old, nil
}

// Clear removes all content and returns the previous content.
func (d *Document) Clear() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	old := d.content
	d.content = ""
	return old
}

// String returns the current content.
func (d *Document) String() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.content
}

// Len returns the content length in bytes.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.content)
}

// RuneCount returns the content length in runes.
func (d *Document) RuneCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return utf8.RuneCountInString(d.content)
}

// IsEmpty returns true if the document has no content.
func (d *Document) IsEmpty() bool {
	return d.Len() == 0
}

// Slice returns the text in the byte range [start, end).
func (d *Document) Slice(start, end int) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if start < 0 || start > len(d.content) {
		return "", ErrPositionOutOfRange
	}
	if end < start || end > len(d.content) {
		return "", ErrLengthOutOfRange
	}
	return d.content[start:end], nil
}

// Lines returns the content split into lines without trailing newlines.
// An empty document yields a single empty line.
func (d *Document) Lines() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return strings.Split(d.content, "\n")
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return strings.Count(d.content, "\n") + 1
}
