package custom

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Catalog is a loaded Lua script. A Lua state is single threaded, so calls are serialized.
type Catalog struct {
	name     string
	useCache bool

	mu    sync.Mutex
	state *lua.LState
}

func (c *Catalog) Name() string {
	return c.name
}

func (c *Catalog) ID() string {
	return IDfromName(c.name)
}

// Close releases the Lua state.
func (c *Catalog) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Close()
}

func (c *Catalog) defines(fn string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.GetGlobal(fn).Type() == lua.LTFunction
}

// call runs a global Lua function under ctx and returns its single result.
func (c *Catalog) call(ctx context.Context, fn string, retType lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	luaFn := c.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	c.state.SetContext(ctx)
	defer c.state.RemoveContext()

	err := c.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}

	retval := c.state.Get(-1)
	c.state.Pop(1)

	if retval.Type() != retType {
		return nil, fmt.Errorf("%s returned %s, expected %s", fn, retval.Type(), retType)
	}

	return retval, nil
}
