// Package lua wraps gopher-lua for running user plugin scripts.
//
// A State opens only the base, table, string and math libraries and
// removes every global that can load further code (dofile, loadfile,
// load, loadstring, require). print is redirected to a callback so
// script output ends up in the application log.
//
//	state := lua.NewState(lua.WithPrinter(func(msg string) {
//	    logger.Info("%s", msg)
//	}))
//	defer state.Close()
//
//	if err := state.DoFile("strip-tabs.lua"); err != nil {
//	    return err
//	}
//
// Every call runs under the State's mutex with an execution timeout,
// enforced through the LState context.
//
// ToGoValue and ToLuaValue convert scalars and tables between the two
// runtimes.
package lua
