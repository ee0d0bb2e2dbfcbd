package plugin

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/trimsave/internal/engine"
	"github.com/dshills/trimsave/internal/save"
)

// newDocumentTable builds the doc argument passed to Lua pre-save
// hooks. Lines and carets are 0-based, offsets are byte offsets.
// Functions accept both doc.f(...) and doc:f(...) call styles.
func newDocumentTable(L *lua.LState, doc save.Document) *lua.LTable {
	eng := doc.Engine()
	tbl := L.NewTable()

	// arg returns the index of the n-th user argument, skipping the
	// table itself when called with colon syntax.
	arg := func(L *lua.LState, n int) int {
		if L.Get(1) == tbl {
			return n + 1
		}
		return n
	}

	checkLine := func(L *lua.LState, n int) uint32 {
		idx := arg(L, n)
		line := L.CheckInt(idx)
		if line < 0 || line >= int(eng.LineCount()) {
			L.ArgError(idx, "line out of range")
		}
		return uint32(line)
	}

	checkWritable := func(L *lua.LState, op string) {
		if eng.ReadOnly() {
			L.RaiseError("%s: %v", op, engine.ErrReadOnly)
		}
	}

	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"path": func(L *lua.LState) int {
			L.Push(lua.LString(doc.Path()))
			return 1
		},
		"readonly": func(L *lua.LState) int {
			L.Push(lua.LBool(eng.ReadOnly()))
			return 1
		},
		"line_count": func(L *lua.LState) int {
			L.Push(lua.LNumber(eng.LineCount()))
			return 1
		},
		"line": func(L *lua.LState) int {
			L.Push(lua.LString(eng.LineText(checkLine(L, 1))))
			return 1
		},
		"line_len": func(L *lua.LState) int {
			L.Push(lua.LNumber(eng.LineLen(checkLine(L, 1))))
			return 1
		},
		"line_ending": func(L *lua.LState) int {
			L.Push(lua.LString(eng.LineEnding().Sequence()))
			return 1
		},
		"text": func(L *lua.LState) int {
			L.Push(lua.LString(eng.Text()))
			return 1
		},
		"len": func(L *lua.LState) int {
			L.Push(lua.LNumber(eng.Len()))
			return 1
		},
		"caret": func(L *lua.LState) int {
			p := eng.Caret()
			L.Push(lua.LNumber(p.Line))
			L.Push(lua.LNumber(p.Column))
			return 2
		},
		"replace_line": func(L *lua.LState) int {
			line := checkLine(L, 1)
			text := L.CheckString(arg(L, 2))
			checkWritable(L, "replace_line")

			start, end := eng.LineStartOffset(line), eng.LineEndOffset(line)
			if _, err := eng.Replace(start, end, text); err != nil {
				L.RaiseError("replace_line: %v", err)
			}
			return 0
		},
		"delete": func(L *lua.LState) int {
			start := L.CheckInt64(arg(L, 1))
			end := L.CheckInt64(arg(L, 2))
			checkWritable(L, "delete")

			if err := eng.Delete(start, end); err != nil {
				L.RaiseError("delete: %v", err)
			}
			return 0
		},
	})

	return tbl
}
