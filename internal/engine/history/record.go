package history

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotRecordable is returned by Records when the log contains a command
// type that does not implement Recorder.
var ErrNotRecordable = errors.New("command cannot be recorded")

// RecordKind identifies the command type a Record was taken from.
type RecordKind string

// Record kinds for the built-in commands.
const (
	RecordInsert  RecordKind = "insert"
	RecordDelete  RecordKind = "delete"
	RecordReplace RecordKind = "replace"
	RecordAppend  RecordKind = "append"
	RecordClear   RecordKind = "clear"
	RecordMacro   RecordKind = "macro"
)

// Record is a serializable snapshot of one command, including the state it
// captured at execute time. A restored record is fully undoable and
// redoable.
type Record struct {
	Kind      RecordKind
	Pos       int
	Length    int
	Text      string
	OldText   string
	Name      string
	Children  []Record
	Timestamp time.Time
}

// Recorder is implemented by commands that can be serialized into a Record.
// All built-in commands implement it; custom command types may opt in to
// make sessions containing them persistable.
type Recorder interface {
	Record() Record
}

// Record returns a serializable snapshot of the command.
func (c *InsertCommand) Record() Record {
	return Record{Kind: RecordInsert, Pos: c.Pos, Text: c.Text}
}

// Record returns a serializable snapshot of the command.
func (c *DeleteCommand) Record() Record {
	return Record{Kind: RecordDelete, Pos: c.Pos, Length: c.Length, OldText: c.deleted}
}

// Record returns a serializable snapshot of the command.
func (c *ReplaceCommand) Record() Record {
	return Record{Kind: RecordReplace, Pos: c.Pos, Length: c.Length, Text: c.Text, OldText: c.oldText}
}

// Record returns a serializable snapshot of the command.
func (c *AppendCommand) Record() Record {
	return Record{Kind: RecordAppend, Pos: c.pos, Text: c.Text}
}

// Record returns a serializable snapshot of the command.
func (c *ClearCommand) Record() Record {
	return Record{Kind: RecordClear, OldText: c.oldContent}
}

// Records returns a serializable snapshot of the whole log plus the cursor.
// It fails if any logged command (or macro child) is not a Recorder.
func (h *History) Records() ([]Record, int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	records := make([]Record, len(h.log))
	for i, entry := range h.log {
		rec, err := recordCommand(entry.command)
		if err != nil {
			return nil, 0, fmt.Errorf("entry %d (%s): %w", i, entry.command.Description(), err)
		}
		rec.Timestamp = entry.timestamp
		records[i] = rec
	}
	return records, h.current, nil
}

// recordCommand snapshots a command, handling macro children recursively.
func recordCommand(cmd Command) (Record, error) {
	if macro, ok := cmd.(*MacroCommand); ok {
		children := make([]Record, len(macro.Commands))
		for i, child := range macro.Commands {
			childRec, err := recordCommand(child)
			if err != nil {
				return Record{}, err
			}
			children[i] = childRec
		}
		return Record{Kind: RecordMacro, Name: macro.Name, Children: children}, nil
	}

	rec, ok := cmd.(Recorder)
	if !ok {
		return Record{}, fmt.Errorf("%T: %w", cmd, ErrNotRecordable)
	}
	return rec.Record(), nil
}

// RestoreLog replaces the log with commands rebuilt from records, placing
// the cursor at the given position. Records at or before the cursor are
// restored in executed state so they can be undone; later records restore
// unexecuted, ready for redo.
func (h *History) RestoreLog(records []Record, cursor int) error {
	if cursor < -1 || cursor >= len(records) {
		return fmt.Errorf("cursor %d out of range for %d records", cursor, len(records))
	}

	log := make([]*logEntry, len(records))
	for i, rec := range records {
		cmd, err := restoreCommand(rec, i <= cursor)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		ts := rec.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		log[i] = &logEntry{command: cmd, timestamp: ts}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.log = log
	h.current = cursor
	h.grouping = false
	h.groupCmds = nil
	return nil
}

// restoreCommand rebuilds a command from its record. Executed commands get
// their captured undo state back.
func restoreCommand(rec Record, executed bool) (Command, error) {
	switch rec.Kind {
	case RecordInsert:
		return &InsertCommand{Pos: rec.Pos, Text: rec.Text, executed: executed}, nil
	case RecordDelete:
		return &DeleteCommand{Pos: rec.Pos, Length: rec.Length, deleted: rec.OldText, executed: executed}, nil
	case RecordReplace:
		return &ReplaceCommand{Pos: rec.Pos, Length: rec.Length, Text: rec.Text, oldText: rec.OldText, executed: executed}, nil
	case RecordAppend:
		return &AppendCommand{Text: rec.Text, pos: rec.Pos, executed: executed}, nil
	case RecordClear:
		return &ClearCommand{oldContent: rec.OldText, executed: executed}, nil
	case RecordMacro:
		cmds := make([]Command, len(rec.Children))
		for i, child := range rec.Children {
			cmd, err := restoreCommand(child, executed)
			if err != nil {
				return nil, err
			}
			cmds[i] = cmd
		}
		return &MacroCommand{Name: rec.Name, Commands: cmds}, nil
	default:
		return nil, fmt.Errorf("unknown record kind %q", rec.Kind)
	}
}
