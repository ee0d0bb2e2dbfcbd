// Package plugin runs user Lua scripts as pre-save hooks.
//
// Scripts live in ~/.config/trimsave/plugins/*.lua. Each script gets its
// own sandboxed Lua state (see package plugin/lua) and a global ks table:
//
//	ks.hook.presave("tabs-to-spaces", function(doc)
//	    for i = 0, doc.line_count() - 1 do
//	        local line = doc.line(i)
//	        local fixed = line:gsub("\t", "    ")
//	        if fixed ~= line then
//	            doc.replace_line(i, fixed)
//	        end
//	    end
//	end)
//
// # Hooks
//
// ks.hook.presave(name, fn [, priority]) registers fn on the save.Manager
// under "<plugin>:<name>", so scripts cannot replace each other's hooks
// or the built-in whitespace remover. The default priority is
// DefaultHookPriority. ks.hook.remove(name) unregisters it again, and
// unloading a plugin removes every hook it registered.
//
// # Document
//
// The doc argument exposes path, readonly, line_count, line(i), text,
// len, caret (line, col), replace_line(i, text) and delete(start, end).
// Lines are 0-based and offsets are bytes. Edits go through the engine,
// so they join the save's undo group.
//
// # Settings
//
// ks.config.get(path) and ks.config.set(path, value) read and persist
// settings, for example ks.config.get("trim.preserve-cursor").
package plugin
