package lua

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestNewState(t *testing.T) {
	state := NewState()
	defer state.Close()

	if state.IsClosed() {
		t.Error("NewState() returned closed state")
	}
	if state.L == nil {
		t.Error("NewState() L is nil")
	}
}

func TestStateDoString(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	v := state.GetGlobal("x")
	if n, ok := v.(glua.LNumber); !ok || n != 2 {
		t.Errorf("x = %v, want 2", v)
	}
}

func TestStateDoStringSyntaxError(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`x = `); err == nil {
		t.Error("DoString() with bad syntax should fail")
	}
}

func TestStateDoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.lua")
	if err := os.WriteFile(path, []byte(`loaded = "yes"`), 0o644); err != nil {
		t.Fatal(err)
	}

	state := NewState()
	defer state.Close()

	if err := state.DoFile(path); err != nil {
		t.Fatalf("DoFile() error = %v", err)
	}
	if got := state.GetGlobal("loaded"); got.String() != "yes" {
		t.Errorf("loaded = %v, want yes", got)
	}
}

func TestStateCall(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`function add(a, b) return a + b, "done" end`); err != nil {
		t.Fatal(err)
	}
	fn, ok := state.GetGlobal("add").(*glua.LFunction)
	if !ok {
		t.Fatal("add is not a function")
	}

	results, err := state.Call(fn, glua.LNumber(2), glua.LNumber(3))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Call() returned %d values, want 2", len(results))
	}
	if results[0] != glua.LNumber(5) || results[1].String() != "done" {
		t.Errorf("Call() = %v", results)
	}
}

func TestStateCallNoResults(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`function noop() end`); err != nil {
		t.Fatal(err)
	}
	results, err := state.Call(state.GetGlobal("noop").(*glua.LFunction))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Call() = %#v, want empty slice", results)
	}
}

func TestStateCallError(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`function fail() error("boom") end`); err != nil {
		t.Fatal(err)
	}
	if _, err := state.Call(state.GetGlobal("fail").(*glua.LFunction)); err == nil {
		t.Error("Call() should return the Lua error")
	}
}

func TestStateTimeout(t *testing.T) {
	state := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer state.Close()

	err := state.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("DoString() error = %v, want ErrExecutionTimeout", err)
	}

	// The state stays usable after a timeout.
	if err := state.DoString(`y = 1`); err != nil {
		t.Errorf("DoString() after timeout error = %v", err)
	}
}

func TestStateClose(t *testing.T) {
	state := NewState()

	if err := state.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !state.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := state.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after Close = %v, want ErrStateClosed", err)
	}
	if got := state.GetGlobal("x"); got != glua.LNil {
		t.Errorf("GetGlobal() after Close = %v, want nil", got)
	}
}

func TestStateWith(t *testing.T) {
	state := NewState()
	defer state.Close()

	err := state.With(func(L *glua.LState) error {
		L.SetGlobal("answer", glua.LNumber(42))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := state.GetGlobal("answer"); got != glua.LNumber(42) {
		t.Errorf("answer = %v", got)
	}
}
