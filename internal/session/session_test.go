package session

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/scriv/internal/engine"
)

func buildEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e := engine.New()
	if err := e.Append("hello "); err != nil {
		t.Fatal(err)
	}
	if err := e.Append("world"); err != nil {
		t.Fatal(err)
	}
	if err := e.Replace(0, 5, "Hello"); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestEncodeProducesValidJSON(t *testing.T) {
	data, err := Encode(buildEngine(t))
	if err != nil {
		t.Fatal(err)
	}

	if !gjson.ValidBytes(data) {
		t.Fatal("encoded session is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if root.Get("version").Int() != 1 {
		t.Errorf("version = %d", root.Get("version").Int())
	}
	if root.Get("content").String() != "hello world" {
		t.Errorf("content = %q", root.Get("content").String())
	}
	if root.Get("cursor").Int() != 1 {
		t.Errorf("cursor = %d", root.Get("cursor").Int())
	}
	if n := len(root.Get("log").Array()); n != 3 {
		t.Errorf("log entries = %d, want 3", n)
	}
	if kind := root.Get("log.2.kind").String(); kind != "replace" {
		t.Errorf("log.2.kind = %q", kind)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	data, err := Encode(buildEngine(t))
	if err != nil {
		t.Fatal(err)
	}

	e, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if e.Text() != "hello world" {
		t.Errorf("text = %q", e.Text())
	}

	// The undone replace is still redoable
	if err := e.Redo(); err != nil {
		t.Fatalf("redo after decode: %v", err)
	}
	if e.Text() != "Hello world" {
		t.Errorf("after redo: %q", e.Text())
	}

	// And the full log is undoable back to empty
	for e.CanUndo() {
		if err := e.Undo(); err != nil {
			t.Fatalf("undo after decode: %v", err)
		}
	}
	if !e.IsEmpty() {
		t.Errorf("after full undo: %q", e.Text())
	}
}

func TestRoundTripMacroEntry(t *testing.T) {
	e := engine.New()
	err := e.Transaction("pair", func() error {
		if err := e.Append("("); err != nil {
			return err
		}
		return e.Append(")")
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := Encode(e)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(gjson.GetBytes(data, "log.0.children").Array()); n != 2 {
		t.Fatalf("macro children = %d, want 2", n)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := decoded.Undo(); err != nil {
		t.Fatal(err)
	}
	if !decoded.IsEmpty() {
		t.Errorf("macro should undo as one unit, got %q", decoded.Text())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("{not json")); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("got %v, want ErrInvalidSession", err)
	}
	if _, err := Decode([]byte(`{"content":""}`)); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("missing version: got %v, want ErrInvalidSession", err)
	}
	if _, err := Decode([]byte(`{"version":1}`)); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("missing content: got %v, want ErrInvalidSession", err)
	}
}

func TestDecodeRejectsFutureVersion(t *testing.T) {
	_, err := Decode([]byte(`{"version":99,"content":"","cursor":-1,"log":[]}`))
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("got %v, want ErrUnsupportedVersion", err)
	}
}

func TestDecodeRejectsEntryWithoutKind(t *testing.T) {
	_, err := Decode([]byte(`{"version":1,"content":"x","cursor":0,"log":[{"pos":0}]}`))
	if !errors.Is(err, ErrInvalidSession) {
		t.Errorf("got %v, want ErrInvalidSession", err)
	}
}

func TestStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewStore(path)

	if store.Exists() {
		t.Fatal("store should not exist yet")
	}
	if _, err := store.Load(); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("load before save: got %v, want fs.ErrNotExist", err)
	}

	if err := store.Save(buildEngine(t)); err != nil {
		t.Fatal(err)
	}
	if !store.Exists() {
		t.Fatal("store should exist after save")
	}

	e, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if e.Text() != "hello world" {
		t.Errorf("text = %q", e.Text())
	}
	if e.UndoCount() != 2 || e.RedoCount() != 1 {
		t.Errorf("undos=%d redos=%d", e.UndoCount(), e.RedoCount())
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	if err := store.Save(buildEngine(t)); err != nil {
		t.Fatal(err)
	}

	e2 := engine.NewFromString("second")
	if err := store.Save(e2); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Text() != "second" {
		t.Errorf("text = %q", loaded.Text())
	}
}
