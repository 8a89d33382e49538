// Package luacmd provides commands scripted in Lua.
//
// A Script is compiled once and produces a command factory for the
// controller: each matching notification runs the chunk in a fresh,
// isolated Lua state with a global `notification` table exposing the
// name, type tag, body, and metadata. Script failures surface as command
// errors and flow through the normal dispatch error path.
package luacmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/relaycore/relay/controller"
	"github.com/relaycore/relay/notification"
)

// ScriptError wraps a failure from a Lua chunk execution.
type ScriptError struct {
	// Script is the chunk name (file path or caller-supplied name).
	Script string

	// Err is the underlying Lua error.
	Err error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("lua script %s: %v", e.Script, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Script is a compiled Lua chunk usable as a command.
type Script struct {
	name  string
	proto *lua.FunctionProto
}

// Compile parses and compiles Lua source. The chunk name appears in Lua
// error messages.
func Compile(name, source string) (*Script, error) {
	chunk, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, &ScriptError{Script: name, Err: err}
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, &ScriptError{Script: name, Err: err}
	}
	return &Script{name: name, proto: proto}, nil
}

// LoadFile compiles a Lua script from disk.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(filepath.Base(path), string(data))
}

// Name returns the chunk name.
func (s *Script) Name() string { return s.name }

// Notifier broadcasts a named notification. *facade.Facade satisfies it.
type Notifier interface {
	Send(ctx context.Context, name string, opts ...notification.Option) error
}

// Factory returns a command factory for the controller. Each produced
// command runs the chunk in its own Lua state.
func (s *Script) Factory() controller.Factory {
	return s.Bind(nil)
}

// Bind returns a command factory whose commands expose a global
// `send(name [, body])` Lua function broadcasting through the notifier.
// A script sending a notification recurses through the same dispatch
// path as any other sender.
func (s *Script) Bind(n Notifier) controller.Factory {
	return func() controller.Command {
		return &scriptCommand{script: s, notifier: n}
	}
}

type scriptCommand struct {
	script   *Script
	notifier Notifier
}

// Execute runs the compiled chunk with the notification exposed as a
// global table. The Lua state observes context cancellation.
func (c *scriptCommand) Execute(ctx context.Context, note *notification.Notification) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	L.SetGlobal("notification", noteToLua(L, note))
	if c.notifier != nil {
		L.SetGlobal("send", L.NewFunction(func(L *lua.LState) int {
			name := L.CheckString(1)
			var opts []notification.Option
			if L.GetTop() >= 2 {
				opts = append(opts, notification.WithBody(luaToGo(L.Get(2))))
			}
			if err := c.notifier.Send(ctx, name, opts...); err != nil {
				L.RaiseError("send %s: %v", name, err)
			}
			return 0
		}))
	}

	fn := L.NewFunctionFromProto(c.script.proto)
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return &ScriptError{Script: c.script.name, Err: err}
	}
	return nil
}

// noteToLua builds the Lua table exposed as the `notification` global.
func noteToLua(L *lua.LState, note *notification.Notification) *lua.LTable {
	t := L.NewTable()
	if note == nil {
		return t
	}
	t.RawSetString("name", lua.LString(note.Name()))
	t.RawSetString("type", lua.LString(note.Type()))
	t.RawSetString("id", lua.LString(note.Metadata().ID))
	t.RawSetString("source", lua.LString(note.Metadata().Source))
	t.RawSetString("body", goToLua(L, note.Body()))
	return t
}

// goToLua converts a Go value to its Lua representation. Unsupported
// types convert to nil rather than failing the dispatch.
func goToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, goToLua(L, item))
		}
		return t
	case []any:
		t := L.NewTable()
		for _, item := range val {
			t.Append(goToLua(L, item))
		}
		return t
	default:
		return lua.LNil
	}
}

// luaToGo converts a Lua value to a Go value for outbound notification
// bodies. Tables with sequential integer keys become slices, other
// tables become maps; functions and userdata convert to nil.
func luaToGo(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		maxN := v.MaxN()
		if maxN > 0 {
			out := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				out = append(out, luaToGo(v.RawGetInt(i)))
			}
			return out
		}
		out := make(map[string]any)
		v.ForEach(func(k, item lua.LValue) {
			out[k.String()] = luaToGo(item)
		})
		return out
	default:
		return nil
	}
}
