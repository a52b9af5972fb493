package custom

import (
	"context"
	"errors"
	"strconv"

	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/internal/cache"
	"github.com/ytfree-cli/ytfree/log"
	lua "github.com/yuin/gopher-lua"
)

// Search calls SearchTracks(query, page). Scripts return one page per call;
// an empty page ends the listing.
func (c *Catalog) Search(ctx context.Context, query, pageToken string) (catalog.Page, error) {
	n := catalog.PageNumber(pageToken)

	key := cache.GenerateKey(query, strconv.Itoa(n), c.ID())
	var cached catalog.Page
	if c.useCache && cache.Read(key, &cached) {
		return cached, nil
	}

	val, err := c.call(ctx, constant.SearchTracksFn, lua.LTTable, lua.LString(query), lua.LNumber(n))
	if err != nil {
		return catalog.Page{}, err
	}

	results, err := resultsFromTable(val.(*lua.LTable))
	if err != nil {
		return catalog.Page{}, err
	}

	page := catalog.Page{
		Items:      results,
		TotalCount: len(results),
		Page:       n,
		PageSize:   len(results),
		HasMore:    len(results) > 0,
	}
	if page.HasMore {
		page.NextPageToken = strconv.Itoa(n + 1)
	}

	if c.useCache && len(results) > 0 {
		if err := cache.Write(key, page); err != nil {
			log.Warnf("cache %s page: %v", c.name, err)
		}
	}

	return page, nil
}

// Trending calls TrendingTracks(count) when the script defines it.
func (c *Catalog) Trending(ctx context.Context, count int) ([]catalog.Result, error) {
	if !c.defines(constant.TrendingTracksFn) {
		return nil, nil
	}

	val, err := c.call(ctx, constant.TrendingTracksFn, lua.LTTable, lua.LNumber(count))
	if err != nil {
		return nil, err
	}

	results, err := resultsFromTable(val.(*lua.LTable))
	if err != nil {
		return nil, err
	}

	if count > 0 && len(results) > count {
		results = results[:count]
	}
	return results, nil
}

// resultsFromTable converts an array of track tables. Invalid entries are
// skipped; the first error is returned only when nothing was usable.
func resultsFromTable(table *lua.LTable) ([]catalog.Result, error) {
	var (
		results []catalog.Result
		errs    []error
	)

	table.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTNumber || v.Type() != lua.LTTable {
			return
		}

		r, err := resultFromTable(v.(*lua.LTable))
		if err != nil {
			errs = append(errs, err)
			return
		}

		results = append(results, r)
	})

	if len(results) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return results, nil
}
