package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/ytfree-cli/ytfree/catalog"
)

// Picker narrows a result list down to one result, or nil.
type Picker func([]catalog.Result) *catalog.Result

type Options struct {
	Out      io.Writer
	Catalogs []catalog.Catalog
	Query    string

	// Page is the page token passed to every catalog. Empty means the first page.
	Page string

	// Trending lists popular results instead of searching. Query is ignored.
	Trending bool
	Count    int

	Json   bool
	Picker mo.Option[Picker]
}

// ParsePicker understands first, last, exact (value is the title) and index.
func ParsePicker(kind, value string) (Picker, error) {
	switch kind {
	case "first":
		return func(results []catalog.Result) *catalog.Result {
			if len(results) == 0 {
				return nil
			}
			return &results[0]
		}, nil
	case "last":
		return func(results []catalog.Result) *catalog.Result {
			if len(results) == 0 {
				return nil
			}
			return &results[len(results)-1]
		}, nil
	case "exact":
		return func(results []catalog.Result) *catalog.Result {
			r, ok := lo.Find(results, func(r catalog.Result) bool {
				return strings.EqualFold(r.Title, value)
			})
			if !ok {
				return nil
			}
			return &r
		}, nil
	case "index":
		idx, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid index: %s", value)
		}
		return func(results []catalog.Result) *catalog.Result {
			if len(results) == 0 {
				return nil
			}
			return &results[min(int(idx), len(results)-1)]
		}, nil
	default:
		return nil, fmt.Errorf("unknown picker type: %s", kind)
	}
}

// ParsePickerFlag splits "kind" or "kind:value", e.g. "index:2" or "exact:Song Title".
// A bare number is an index.
func ParsePickerFlag(flag string) (Picker, error) {
	if _, err := strconv.ParseUint(flag, 10, 16); err == nil {
		return ParsePicker("index", flag)
	}

	kind, value, _ := strings.Cut(flag, ":")
	return ParsePicker(kind, value)
}
