// Package custom runs user-supplied Lua scripts as catalogs.
package custom

import (
	"fmt"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/internal/scraper"
	"github.com/ytfree-cli/ytfree/network"
	"github.com/ytfree-cli/ytfree/util"
	lua "github.com/yuin/gopher-lua"
)

// IDfromName derives the catalog id of the script with the given base name.
func IDfromName(name string) string {
	return name + " custom"
}

// Load executes the script at path and checks that it defines the search function.
func Load(path string, useCache bool) (*Catalog, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerBrowser(state, network.Browser)

	if err := scraper.PreCompileAndLoad(state, path); err != nil {
		state.Close()
		return nil, err
	}

	name := util.FileStem(path)

	if state.GetGlobal(constant.SearchTracksFn).Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.SearchTracksFn, name)
	}

	return &Catalog{
		name:     name,
		state:    state,
		useCache: useCache,
	}, nil
}
