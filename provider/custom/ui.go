package custom

import (
	"context"

	lua "github.com/yuin/gopher-lua"
)

// registerUI injects the "ui" global through which scripts talk to the operator:
//
//	ui.ask(question)  -> answer string, or nil when the operator cancelled
//	ui.notify(message)
func registerUI(L *lua.LState, prompter Prompter) {
	mod := L.NewTable()

	L.SetField(mod, "ask", L.NewFunction(func(L *lua.LState) int {
		question := L.CheckString(1)
		if prompter == nil {
			L.Push(lua.LNil)
			return 1
		}

		answer, ok, err := prompter.Ask(contextOf(L), question)
		if err != nil {
			L.RaiseError("ui.ask: %s", err.Error())
			return 0
		}

		if !ok {
			L.Push(lua.LNil)
			return 1
		}

		L.Push(lua.LString(answer))
		return 1
	}))

	L.SetField(mod, "notify", L.NewFunction(func(L *lua.LState) int {
		message := L.CheckString(1)
		if prompter != nil {
			prompter.Notify(contextOf(L), message)
		}
		return 0
	}))

	L.SetGlobal("ui", mod)
}

func contextOf(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
