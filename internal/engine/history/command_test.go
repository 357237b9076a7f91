package history

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/scriv/internal/engine/document"
)

func TestInsertCommandExecuteUndo(t *testing.T) {
	doc := document.NewFromString("hello world")
	cmd := NewInsertCommand(5, ",")

	if err := cmd.Execute(doc); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := doc.String(); got != "hello, world" {
		t.Errorf("after execute: %q", got)
	}

	if err := cmd.Undo(doc); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := doc.String(); got != "hello world" {
		t.Errorf("after undo: %q", got)
	}
}

func TestInsertCommandUndoBeforeExecute(t *testing.T) {
	doc := document.NewFromString("abc")
	cmd := NewInsertCommand(0, "x")

	if err := cmd.Undo(doc); !errors.Is(err, ErrNotExecuted) {
		t.Errorf("got %v, want ErrNotExecuted", err)
	}
	if got := doc.String(); got != "abc" {
		t.Errorf("document corrupted: %q", got)
	}
}

func TestInsertCommandExecuteError(t *testing.T) {
	doc := document.NewFromString("abc")
	cmd := NewInsertCommand(10, "x")

	err := cmd.Execute(doc)
	if !errors.Is(err, document.ErrPositionOutOfRange) {
		t.Errorf("got %v, want ErrPositionOutOfRange", err)
	}
	// A failed execute must not arm undo
	if err := cmd.Undo(doc); !errors.Is(err, ErrNotExecuted) {
		t.Errorf("undo after failed execute: got %v, want ErrNotExecuted", err)
	}
}

func TestDeleteCommandCapturesText(t *testing.T) {
	doc := document.NewFromString("hello world")
	cmd := NewDeleteCommand(5, 6)

	if err := cmd.Execute(doc); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := doc.String(); got != "hello" {
		t.Errorf("after execute: %q", got)
	}

	if err := cmd.Undo(doc); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := doc.String(); got != "hello world" {
		t.Errorf("after undo: %q", got)
	}
}

func TestReplaceCommandRoundTrip(t *testing.T) {
	doc := document.NewFromString("the quick fox")
	cmd := NewReplaceCommand(4, 5, "lazy")

	if err := cmd.Execute(doc); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := doc.String(); got != "the lazy fox" {
		t.Errorf("after execute: %q", got)
	}

	if err := cmd.Undo(doc); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := doc.String(); got != "the quick fox" {
		t.Errorf("after undo: %q", got)
	}
}

func TestAppendCommandCapturesPosition(t *testing.T) {
	doc := document.NewFromString("abc")
	cmd := NewAppendCommand("def")

	if err := cmd.Execute(doc); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := doc.String(); got != "abcdef" {
		t.Errorf("after execute: %q", got)
	}

	if err := cmd.Undo(doc); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := doc.String(); got != "abc" {
		t.Errorf("after undo: %q", got)
	}
}

func TestClearCommandRestoresContent(t *testing.T) {
	doc := document.NewFromString("important content")
	cmd := NewClearCommand()

	if err := cmd.Execute(doc); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !doc.IsEmpty() {
		t.Error("document not empty after clear")
	}

	if err := cmd.Undo(doc); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := doc.String(); got != "important content" {
		t.Errorf("after undo: %q", got)
	}
}

func TestMacroCommandExecutesInOrder(t *testing.T) {
	doc := document.New()
	macro := NewMacroCommand("build greeting",
		NewAppendCommand("hello"),
		NewAppendCommand(" "),
		NewAppendCommand("world"),
	)

	if err := macro.Execute(doc); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := doc.String(); got != "hello world" {
		t.Errorf("after execute: %q", got)
	}

	if err := macro.Undo(doc); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if !doc.IsEmpty() {
		t.Errorf("after undo: %q", doc.String())
	}
}

func TestMacroCommandRollsBackOnFailure(t *testing.T) {
	doc := document.NewFromString("base")
	macro := NewMacroCommand("partial",
		NewAppendCommand("-one"),
		NewInsertCommand(999, "bad"), // fails
		NewAppendCommand("-two"),
	)

	err := macro.Execute(doc)
	if err == nil {
		t.Fatal("expected error from failing step")
	}
	if !errors.Is(err, document.ErrPositionOutOfRange) {
		t.Errorf("got %v, want wrapped ErrPositionOutOfRange", err)
	}
	if got := doc.String(); got != "base" {
		t.Errorf("document not rolled back: %q", got)
	}
}

func TestMacroCommandDescription(t *testing.T) {
	named := NewMacroCommand("Format Heading", NewAppendCommand("="), NewAppendCommand("="))
	if got := named.Description(); got != "Format Heading (2 operations)" {
		t.Errorf("named: %q", got)
	}

	unnamed := NewMacroCommand("", NewAppendCommand("a"), NewAppendCommand("b"), NewAppendCommand("c"))
	if got := unnamed.Description(); got != "3 operations" {
		t.Errorf("unnamed: %q", got)
	}
}

func TestDescriptionPreviewTruncates(t *testing.T) {
	long := strings.Repeat("x", 50)
	cmd := NewInsertCommand(0, long)

	desc := cmd.Description()
	if len(desc) > 60 {
		t.Errorf("description too long: %q", desc)
	}
	if !strings.Contains(desc, "...") {
		t.Errorf("description not truncated: %q", desc)
	}
}
