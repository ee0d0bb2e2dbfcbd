package plugin

import (
	lua "github.com/yuin/gopher-lua"

	plua "github.com/dshills/trimsave/internal/plugin/lua"
)

// registerAPI installs the global ks table:
//
//	ks.name                        plugin name
//	ks.config.get(path)            setting value or nil
//	ks.config.set(path, value)     true, or nil and an error message
//	ks.hook.presave(name, fn [, priority])
//	ks.hook.remove(name)           true if a hook was removed
//	ks.log.debug/info/warn/error(msg)
func registerAPI(L *lua.LState, h *Host, state *plua.State) {
	ks := L.NewTable()
	L.SetField(ks, "name", lua.LString(h.name))
	L.SetField(ks, "config", newConfigTable(L, h))
	L.SetField(ks, "hook", newHookTable(L, h, state))
	L.SetField(ks, "log", newLogTable(L, h))
	L.SetGlobal("ks", ks)
}

func newConfigTable(L *lua.LState, h *Host) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get": func(L *lua.LState) int {
			path := L.CheckString(1)
			if h.config == nil {
				L.Push(lua.LNil)
				return 1
			}
			v, ok := h.config.Get(path)
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(plua.ToLuaValue(L, v))
			return 1
		},
		"set": func(L *lua.LState) int {
			path := L.CheckString(1)
			value := L.CheckAny(2)

			switch value.Type() {
			case lua.LTBool, lua.LTNumber, lua.LTString:
			default:
				L.ArgError(2, "value must be a boolean, number or string")
				return 0
			}

			if h.config == nil {
				L.Push(lua.LNil)
				L.Push(lua.LString("no configuration available"))
				return 2
			}
			if err := h.config.Set(path, plua.ToGoValue(value)); err != nil {
				L.Push(lua.LNil)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LTrue)
			return 1
		},
	})
}

func newHookTable(L *lua.LState, h *Host, state *plua.State) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"presave": func(L *lua.LState) int {
			name := L.CheckString(1)
			fn := L.CheckFunction(2)
			priority := L.OptInt(3, DefaultHookPriority)
			if name == "" {
				L.ArgError(1, "hook name must not be empty")
				return 0
			}
			h.addHook(state, name, fn, priority)
			return 0
		},
		"remove": func(L *lua.LState) int {
			L.Push(lua.LBool(h.removeHook(L.CheckString(1))))
			return 1
		},
	})
}

func newLogTable(L *lua.LState, h *Host) *lua.LTable {
	logf := func(fn func(string, ...any)) lua.LGFunction {
		return func(L *lua.LState) int {
			fn("plugin %s: %s", h.name, L.CheckString(1))
			return 0
		}
	}
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"debug": logf(h.logger.Debug),
		"info":  logf(h.logger.Info),
		"warn":  logf(h.logger.Warn),
		"error": logf(h.logger.Error),
	})
}
