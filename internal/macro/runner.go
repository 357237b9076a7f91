package macro

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/scriv/internal/engine"
)

// DefaultTimeout bounds macro script execution.
const DefaultTimeout = 5 * time.Second

// Runner executes Lua macro scripts against an engine. All edits a script
// performs are grouped into a single undo unit; if the script fails, edits
// made so far are rolled back and the document is left untouched.
type Runner struct {
	eng     *engine.Engine
	timeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds script execution time. Values <= 0 keep the default.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRunner creates a macro runner for the engine.
func NewRunner(eng *engine.Engine, opts ...Option) *Runner {
	r := &Runner{
		eng:     eng,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a macro script. The name becomes the undo entry description.
func (r *Runner) Run(name, script string) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	installSandbox(L)
	registerEditModule(L, r.eng)

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	L.SetContext(ctx)

	r.eng.BeginGroup(name)

	if err := L.DoString(script); err != nil {
		if rbErr := r.eng.RollbackGroup(); rbErr != nil {
			return fmt.Errorf("macro %q: %w (rollback also failed: %v)", name, err, rbErr)
		}
		return fmt.Errorf("macro %q: %w", name, err)
	}

	r.eng.EndGroup()
	return nil
}

// RunFile executes a macro script from disk. The file's base name (without
// extension) becomes the macro name.
func (r *Runner) RunFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read macro script: %w", err)
	}

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return r.Run(name, string(data))
}

// openSafeLibs opens only the Lua standard libraries a macro needs.
// The os, io, and debug libraries are never opened.
func openSafeLibs(L *lua.LState) {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// installSandbox removes base-library functions that could load arbitrary
// code, which would bypass the restricted environment.
func installSandbox(L *lua.LState) {
	unsafe := []string{
		"dofile",     // load and execute file
		"loadfile",   // load file as function
		"load",       // load string as function
		"loadstring", // load string as function (deprecated but may exist)
	}
	for _, name := range unsafe {
		L.SetGlobal(name, lua.LNil)
	}
}

// registerEditModule exposes the engine to scripts as the global `edit`
// table. Positions are byte offsets, zero-based, matching the engine API.
func registerEditModule(L *lua.LState, eng *engine.Engine) {
	edit := L.NewTable()

	L.SetField(edit, "insert", L.NewFunction(func(L *lua.LState) int {
		pos := L.CheckInt(1)
		text := L.CheckString(2)
		if err := eng.Insert(pos, text); err != nil {
			L.RaiseError("insert: %s", err.Error())
		}
		return 0
	}))

	L.SetField(edit, "delete", L.NewFunction(func(L *lua.LState) int {
		pos := L.CheckInt(1)
		length := L.CheckInt(2)
		if err := eng.Delete(pos, length); err != nil {
			L.RaiseError("delete: %s", err.Error())
		}
		return 0
	}))

	L.SetField(edit, "replace", L.NewFunction(func(L *lua.LState) int {
		pos := L.CheckInt(1)
		length := L.CheckInt(2)
		text := L.CheckString(3)
		if err := eng.Replace(pos, length, text); err != nil {
			L.RaiseError("replace: %s", err.Error())
		}
		return 0
	}))

	L.SetField(edit, "append", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		if err := eng.Append(text); err != nil {
			L.RaiseError("append: %s", err.Error())
		}
		return 0
	}))

	L.SetField(edit, "clear", L.NewFunction(func(L *lua.LState) int {
		if err := eng.Clear(); err != nil {
			L.RaiseError("clear: %s", err.Error())
		}
		return 0
	}))

	L.SetField(edit, "text", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(eng.Text()))
		return 1
	}))

	L.SetField(edit, "len", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(eng.Len()))
		return 1
	}))

	L.SetGlobal("edit", edit)
}
