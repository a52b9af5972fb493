// Package scraper loads catalog scripts into Lua states and keeps them up to date.
package scraper

import (
	"sync"

	"github.com/ytfree-cli/ytfree/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var bytecodeCache sync.Map

// PreCompileAndLoad runs the script at path inside L. Compiled prototypes are
// cached per path, so loading the same script into several states parses it once.
func PreCompileAndLoad(L *lua.LState, path string) error {
	proto, err := compile(path)
	if err != nil {
		return err
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

// Invalidate drops the cached prototype of path. Call it after replacing the script.
func Invalidate(path string) {
	bytecodeCache.Delete(path)
}

func compile(path string) (*lua.FunctionProto, error) {
	if cached, ok := bytecodeCache.Load(path); ok {
		return cached.(*lua.FunctionProto), nil
	}

	file, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, path)
	if err != nil {
		return nil, err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, err
	}

	bytecodeCache.Store(path, proto)
	return proto, nil
}
