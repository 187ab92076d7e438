package custom

import (
	"bytes"
	"crypto/sha256"
	"sync"

	"github.com/streamscout/streamscout/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// protos caches compiled scripts by content hash. Relaunches and global
// searches load the same scripts repeatedly.
var protos sync.Map

// compileAndRun executes the script at path in L.
func compileAndRun(L *lua.LState, path string) error {
	source, err := filesystem.API().ReadFile(path)
	if err != nil {
		return err
	}

	sum := sha256.Sum256(source)

	var proto *lua.FunctionProto
	if cached, ok := protos.Load(sum); ok {
		proto = cached.(*lua.FunctionProto)
	} else {
		chunk, err := parse.Parse(bytes.NewReader(source), path)
		if err != nil {
			return err
		}

		proto, err = lua.Compile(chunk, path)
		if err != nil {
			return err
		}

		protos.Store(sum, proto)
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}
