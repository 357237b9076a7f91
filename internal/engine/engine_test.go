package engine

import (
	"errors"
	"testing"

	"github.com/dshills/scriv/internal/engine/document"
	"github.com/dshills/scriv/internal/engine/history"
)

func TestNewEngineEmpty(t *testing.T) {
	e := New()

	if !e.IsEmpty() {
		t.Error("new engine should be empty")
	}
	if e.CanUndo() || e.CanRedo() {
		t.Error("new engine should have no history")
	}
}

func TestNewFromStringSeedNotUndoable(t *testing.T) {
	e := NewFromString("seed")

	if e.Text() != "seed" {
		t.Errorf("text = %q", e.Text())
	}
	if e.CanUndo() {
		t.Error("initial content should not be undoable")
	}
}

func TestEditOperations(t *testing.T) {
	e := NewFromString("hello world")

	if err := e.Insert(5, ","); err != nil {
		t.Fatal(err)
	}
	if err := e.Append("!"); err != nil {
		t.Fatal(err)
	}
	if err := e.Replace(0, 5, "Hello"); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "Hello, world!" {
		t.Errorf("text = %q", e.Text())
	}

	if err := e.Delete(5, 1); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "Hello world!" {
		t.Errorf("text = %q", e.Text())
	}
	if e.UndoCount() != 4 {
		t.Errorf("undo count = %d, want 4", e.UndoCount())
	}
}

func TestUndoRedoThroughFacade(t *testing.T) {
	e := New()

	if err := e.Append("abc"); err != nil {
		t.Fatal(err)
	}
	if err := e.Clear(); err != nil {
		t.Fatal(err)
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "abc" {
		t.Errorf("after undo: %q", e.Text())
	}
	if err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if !e.IsEmpty() {
		t.Errorf("after redo: %q", e.Text())
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); !errors.Is(err, history.ErrNothingToUndo) {
		t.Errorf("got %v, want ErrNothingToUndo", err)
	}
}

func TestInvalidEditPropagatesError(t *testing.T) {
	e := NewFromString("ab")

	err := e.Insert(10, "x")
	if !errors.Is(err, document.ErrPositionOutOfRange) {
		t.Errorf("got %v, want ErrPositionOutOfRange", err)
	}
	if e.CanUndo() {
		t.Error("failed edit should not be logged")
	}
}

func TestTransactionFacade(t *testing.T) {
	e := NewFromString("x")

	fail := errors.New("nope")
	err := e.Transaction("doomed", func() error {
		if err := e.Append("y"); err != nil {
			return err
		}
		return fail
	})
	if !errors.Is(err, fail) {
		t.Fatalf("got %v", err)
	}
	if e.Text() != "x" {
		t.Errorf("text = %q, transaction should roll back", e.Text())
	}

	err = e.Transaction("committed", func() error {
		return e.Append("y")
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.Text() != "xy" || e.UndoCount() != 1 {
		t.Errorf("text=%q undos=%d", e.Text(), e.UndoCount())
	}
}

func TestExecuteMacroFacade(t *testing.T) {
	e := New()

	err := e.ExecuteMacro("greeting",
		history.NewAppendCommand("hello"),
		history.NewAppendCommand(" world"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if e.Text() != "hello world" {
		t.Errorf("text = %q", e.Text())
	}
	if e.UndoCount() != 1 {
		t.Errorf("undo count = %d, want 1", e.UndoCount())
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if !e.IsEmpty() {
		t.Errorf("after undo: %q", e.Text())
	}
}

func TestWithMaxHistory(t *testing.T) {
	e := New(WithMaxHistory(2))

	for i := 0; i < 5; i++ {
		if err := e.Append("x"); err != nil {
			t.Fatal(err)
		}
	}
	if e.UndoCount() != 2 {
		t.Errorf("undo count = %d, want 2", e.UndoCount())
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	e := New()
	if err := e.Append("alpha "); err != nil {
		t.Fatal(err)
	}
	if err := e.Append("beta"); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}

	records, cursor, err := e.Records()
	if err != nil {
		t.Fatal(err)
	}

	restored, err := Restore(e.Text(), records, cursor)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Text() != "alpha " {
		t.Errorf("restored text = %q", restored.Text())
	}
	if err := restored.Redo(); err != nil {
		t.Fatalf("redo on restored engine: %v", err)
	}
	if restored.Text() != "alpha beta" {
		t.Errorf("after redo: %q", restored.Text())
	}
	if err := restored.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := restored.Undo(); err != nil {
		t.Fatal(err)
	}
	if !restored.IsEmpty() {
		t.Errorf("after full undo: %q", restored.Text())
	}
}

func TestRestoreRejectsBadCursor(t *testing.T) {
	if _, err := Restore("", nil, 3); err == nil {
		t.Error("cursor past end should be rejected")
	}
}

func TestStats(t *testing.T) {
	e := NewFromString("hi")
	if err := e.Append("!"); err != nil {
		t.Fatal(err)
	}
	if err := e.Append("?"); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}

	s := e.Stats()
	if s.ContentLength != 3 {
		t.Errorf("content length = %d, want 3", s.ContentLength)
	}
	if s.HistorySize != 2 || s.Position != 0 {
		t.Errorf("size=%d position=%d", s.HistorySize, s.Position)
	}
	if !s.CanUndo || !s.CanRedo {
		t.Errorf("CanUndo=%v CanRedo=%v", s.CanUndo, s.CanRedo)
	}
}

func TestClearHistoryKeepsContent(t *testing.T) {
	e := New()
	if err := e.Append("keep"); err != nil {
		t.Fatal(err)
	}

	e.ClearHistory()
	if e.Text() != "keep" {
		t.Errorf("text = %q", e.Text())
	}
	if e.CanUndo() || e.CanRedo() {
		t.Error("history should be empty")
	}
}

func TestHistoryInfo(t *testing.T) {
	e := New()
	if err := e.Append("a"); err != nil {
		t.Fatal(err)
	}
	if err := e.Append("b"); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}

	if len(e.History()) != 2 {
		t.Errorf("history = %d entries, want 2", len(e.History()))
	}
	if len(e.UndoInfo()) != 1 || len(e.RedoInfo()) != 1 {
		t.Errorf("undo=%d redo=%d", len(e.UndoInfo()), len(e.RedoInfo()))
	}
	if info, ok := e.PeekUndo(); !ok || info.Description != `Append "a"` {
		t.Errorf("peek undo = %v %v", info, ok)
	}
	if info, ok := e.PeekRedo(); !ok || info.Description != `Append "b"` {
		t.Errorf("peek redo = %v %v", info, ok)
	}
}
