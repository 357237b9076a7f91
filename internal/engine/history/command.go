package history

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dshills/scriv/internal/engine/document"
)

// ErrNotExecuted is returned when Undo is called on a command whose Execute
// has not run. The invoker never does this; it guards direct misuse.
var ErrNotExecuted = errors.New("command has not been executed")

// Command represents one reversible edit that can be executed and undone.
type Command interface {
	// Execute performs the edit against the document.
	Execute(doc *document.Document) error

	// Undo reverses exactly the effect of the most recent Execute,
	// restoring the document to its prior observable state.
	Undo(doc *document.Document) error

	// Description returns a human-readable description of the command.
	Description() string
}

// InsertCommand inserts text at a byte offset.
type InsertCommand struct {
	Pos  int
	Text string

	executed bool
}

// NewInsertCommand creates a command that inserts text at pos.
func NewInsertCommand(pos int, text string) *InsertCommand {
	return &InsertCommand{Pos: pos, Text: text}
}

// Execute inserts the text.
func (c *InsertCommand) Execute(doc *document.Document) error {
	if err := doc.Insert(c.Pos, c.Text); err != nil {
		return fmt.Errorf("insert at %d: %w", c.Pos, err)
	}
	c.executed = true
	return nil
}

// Undo removes the inserted text.
func (c *InsertCommand) Undo(doc *document.Document) error {
	if !c.executed {
		return ErrNotExecuted
	}
	if _, err := doc.Delete(c.Pos, len(c.Text)); err != nil {
		return fmt.Errorf("undo insert at %d: %w", c.Pos, err)
	}
	c.executed = false
	return nil
}

// Description returns a human-readable description.
func (c *InsertCommand) Description() string {
	return fmt.Sprintf("Insert %s at %d", preview(c.Text), c.Pos)
}

// DeleteCommand deletes a byte range and remembers the deleted text.
type DeleteCommand struct {
	Pos    int
	Length int

	deleted  string
	executed bool
}

// NewDeleteCommand creates a command that deletes length bytes at pos.
func NewDeleteCommand(pos, length int) *DeleteCommand {
	return &DeleteCommand{Pos: pos, Length: length}
}

// Execute deletes the range and captures the deleted text for undo.
func (c *DeleteCommand) Execute(doc *document.Document) error {
	deleted, err := doc.Delete(c.Pos, c.Length)
	if err != nil {
		return fmt.Errorf("delete %d bytes at %d: %w", c.Length, c.Pos, err)
	}
	c.deleted = deleted
	c.executed = true
	return nil
}

// Undo reinserts the deleted text.
func (c *DeleteCommand) Undo(doc *document.Document) error {
	if !c.executed {
		return ErrNotExecuted
	}
	if err := doc.Insert(c.Pos, c.deleted); err != nil {
		return fmt.Errorf("undo delete at %d: %w", c.Pos, err)
	}
	c.executed = false
	return nil
}

// Description returns a human-readable description.
func (c *DeleteCommand) Description() string {
	return fmt.Sprintf("Delete %d bytes at %d", c.Length, c.Pos)
}

// ReplaceCommand replaces a byte range with new text.
type ReplaceCommand struct {
	Pos    int
	Length int
	Text   string

	oldText  string
	executed bool
}

// NewReplaceCommand creates a command that replaces length bytes at pos
// with text.
func NewReplaceCommand(pos, length int, text string) *ReplaceCommand {
	return &ReplaceCommand{Pos: pos, Length: length, Text: text}
}

// Execute replaces the range and captures the replaced text for undo.
func (c *ReplaceCommand) Execute(doc *document.Document) error {
	old, err := doc.Replace(c.Pos, c.Length, c.Text)
	if err != nil {
		return fmt.Errorf("replace %d bytes at %d: %w", c.Length, c.Pos, err)
	}
	c.oldText = old
	c.executed = true
	return nil
}

// Undo restores the original text.
func (c *ReplaceCommand) Undo(doc *document.Document) error {
	if !c.executed {
		return ErrNotExecuted
	}
	if _, err := doc.Replace(c.Pos, len(c.Text), c.oldText); err != nil {
		return fmt.Errorf("undo replace at %d: %w", c.Pos, err)
	}
	c.executed = false
	return nil
}

// Description returns a human-readable description.
func (c *ReplaceCommand) Description() string {
	return fmt.Sprintf("Replace %d bytes with %s at %d", c.Length, preview(c.Text), c.Pos)
}

// AppendCommand inserts text at the end of the document. The append
// position is captured at execute time so undo removes the right range.
type AppendCommand struct {
	Text string

	pos      int
	executed bool
}

// NewAppendCommand creates a command that appends text.
func NewAppendCommand(text string) *AppendCommand {
	return &AppendCommand{Text: text}
}

// Execute appends the text.
func (c *AppendCommand) Execute(doc *document.Document) error {
	pos := doc.Len()
	if err := doc.Insert(pos, c.Text); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	c.pos = pos
	c.executed = true
	return nil
}

// Undo removes the appended text.
func (c *AppendCommand) Undo(doc *document.Document) error {
	if !c.executed {
		return ErrNotExecuted
	}
	if _, err := doc.Delete(c.pos, len(c.Text)); err != nil {
		return fmt.Errorf("undo append: %w", err)
	}
	c.executed = false
	return nil
}

// Description returns a human-readable description.
func (c *AppendCommand) Description() string {
	return fmt.Sprintf("Append %s", preview(c.Text))
}

// ClearCommand removes all content and remembers it for undo.
type ClearCommand struct {
	oldContent string
	executed   bool
}

// NewClearCommand creates a command that clears the document.
func NewClearCommand() *ClearCommand {
	return &ClearCommand{}
}

// Execute clears the document and captures the previous content.
func (c *ClearCommand) Execute(doc *document.Document) error {
	c.oldContent = doc.Clear()
	c.executed = true
	return nil
}

// Undo restores the cleared content.
func (c *ClearCommand) Undo(doc *document.Document) error {
	if !c.executed {
		return ErrNotExecuted
	}
	if err := doc.Insert(0, c.oldContent); err != nil {
		return fmt.Errorf("undo clear: %w", err)
	}
	c.executed = false
	return nil
}

// Description returns a human-readable description.
func (c *ClearCommand) Description() string {
	return "Clear document"
}

// preview renders text for descriptions, truncated to keep lines short.
func preview(text string) string {
	const maxRunes = 20
	if utf8.RuneCountInString(text) <= maxRunes {
		return fmt.Sprintf("%q", text)
	}
	runes := []rune(text)
	return fmt.Sprintf("%q...", string(runes[:maxRunes]))
}
