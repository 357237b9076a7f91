package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/scriv/internal/engine"
	"github.com/dshills/scriv/internal/engine/history"
)

// Errors returned when decoding a session.
var (
	ErrInvalidSession     = errors.New("invalid session data")
	ErrUnsupportedVersion = errors.New("unsupported session version")
)

// formatVersion is bumped when the on-disk layout changes incompatibly.
const formatVersion = 1

// Encode serializes an engine's document content and command log to JSON.
// The encoded log keeps the undo state each command captured, so a decoded
// session can still undo and redo everything the original could.
func Encode(eng *engine.Engine) ([]byte, error) {
	records, cursor, err := eng.Records()
	if err != nil {
		return nil, fmt.Errorf("snapshot history: %w", err)
	}

	out := "{}"
	out, _ = sjson.Set(out, "version", formatVersion)
	out, _ = sjson.Set(out, "saved_at", time.Now().UTC().Format(time.RFC3339))
	out, _ = sjson.Set(out, "content", eng.Text())
	out, _ = sjson.Set(out, "cursor", cursor)
	out, _ = sjson.SetRaw(out, "log", "[]")

	for i, rec := range records {
		recJSON, err := encodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("encode log entry %d: %w", i, err)
		}
		out, err = sjson.SetRaw(out, "log.-1", recJSON)
		if err != nil {
			return nil, fmt.Errorf("append log entry %d: %w", i, err)
		}
	}

	return []byte(out), nil
}

// encodeRecord serializes one command record, recursing into macro children.
// Only the fields meaningful for the record's kind are written.
func encodeRecord(rec history.Record) (string, error) {
	out := "{}"
	out, _ = sjson.Set(out, "kind", string(rec.Kind))

	switch rec.Kind {
	case history.RecordInsert, history.RecordAppend:
		out, _ = sjson.Set(out, "pos", rec.Pos)
		out, _ = sjson.Set(out, "text", rec.Text)
	case history.RecordDelete:
		out, _ = sjson.Set(out, "pos", rec.Pos)
		out, _ = sjson.Set(out, "length", rec.Length)
		out, _ = sjson.Set(out, "old_text", rec.OldText)
	case history.RecordReplace:
		out, _ = sjson.Set(out, "pos", rec.Pos)
		out, _ = sjson.Set(out, "length", rec.Length)
		out, _ = sjson.Set(out, "text", rec.Text)
		out, _ = sjson.Set(out, "old_text", rec.OldText)
	case history.RecordClear:
		out, _ = sjson.Set(out, "old_text", rec.OldText)
	case history.RecordMacro:
		out, _ = sjson.Set(out, "name", rec.Name)
		out, _ = sjson.SetRaw(out, "children", "[]")
		for i, child := range rec.Children {
			childJSON, err := encodeRecord(child)
			if err != nil {
				return "", err
			}
			out, err = sjson.SetRaw(out, "children.-1", childJSON)
			if err != nil {
				return "", fmt.Errorf("append macro child %d: %w", i, err)
			}
		}
	default:
		return "", fmt.Errorf("unknown record kind %q", rec.Kind)
	}

	if !rec.Timestamp.IsZero() {
		out, _ = sjson.Set(out, "ts", rec.Timestamp.UTC().Format(time.RFC3339Nano))
	}

	return out, nil
}

// Decode rebuilds an engine from JSON produced by Encode.
func Decode(data []byte, opts ...engine.Option) (*engine.Engine, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidSession)
	}

	root := gjson.ParseBytes(data)

	version := root.Get("version")
	if !version.Exists() {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidSession)
	}
	if version.Int() != formatVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, version.Int())
	}

	content := root.Get("content")
	if !content.Exists() {
		return nil, fmt.Errorf("%w: missing content", ErrInvalidSession)
	}

	cursor := int(root.Get("cursor").Int())
	if !root.Get("cursor").Exists() {
		cursor = -1
	}

	var records []history.Record
	var decodeErr error
	root.Get("log").ForEach(func(_, value gjson.Result) bool {
		rec, err := decodeRecord(value)
		if err != nil {
			decodeErr = err
			return false
		}
		records = append(records, rec)
		return true
	})
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, decodeErr)
	}

	eng, err := engine.Restore(content.String(), records, cursor, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return eng, nil
}

// decodeRecord parses one command record, recursing into macro children.
func decodeRecord(value gjson.Result) (history.Record, error) {
	kind := history.RecordKind(value.Get("kind").String())
	if kind == "" {
		return history.Record{}, errors.New("log entry missing kind")
	}

	rec := history.Record{
		Kind:    kind,
		Pos:     int(value.Get("pos").Int()),
		Length:  int(value.Get("length").Int()),
		Text:    value.Get("text").String(),
		OldText: value.Get("old_text").String(),
		Name:    value.Get("name").String(),
	}

	if ts := value.Get("ts"); ts.Exists() {
		parsed, err := time.Parse(time.RFC3339Nano, ts.String())
		if err == nil {
			rec.Timestamp = parsed
		}
	}

	var childErr error
	value.Get("children").ForEach(func(_, child gjson.Result) bool {
		childRec, err := decodeRecord(child)
		if err != nil {
			childErr = err
			return false
		}
		rec.Children = append(rec.Children, childRec)
		return true
	})
	if childErr != nil {
		return history.Record{}, childErr
	}

	return rec, nil
}
