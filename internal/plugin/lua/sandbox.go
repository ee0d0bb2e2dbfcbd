package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// unsafeGlobals are base functions that can load code from disk or
// from strings outside the loaded script.
var unsafeGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"collectgarbage",
}

// installSandbox removes unsafe globals and replaces print.
func installSandbox(L *lua.LState, printer func(string)) {
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	if printer == nil {
		L.SetGlobal("print", L.NewFunction(func(*lua.LState) int { return 0 }))
		return
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		printer(strings.Join(parts, "\t"))
		return 0
	}))
}

// IsSandboxed reports whether name is removed from every State.
func IsSandboxed(name string) bool {
	for _, g := range unsafeGlobals {
		if g == name {
			return true
		}
	}
	return false
}
