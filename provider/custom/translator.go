package custom

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/track"
	lua "github.com/yuin/gopher-lua"
)

func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	switch val.Type() {
	case lua.LTString:
		return strings.TrimSpace(val.String())
	case lua.LTNumber:
		return val.String()
	default:
		return ""
	}
}

func getNumber(table *lua.LTable, key string) mo.Option[float64] {
	val := table.RawGetString(key)
	switch val.Type() {
	case lua.LTNumber:
		return mo.Some(float64(val.(lua.LNumber)))
	case lua.LTString:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val.String()), 64); err == nil {
			return mo.Some(f)
		}
	}
	return mo.None[float64]()
}

// getDuration accepts seconds as a number or numeric string, or an ISO-8601 duration.
func getDuration(table *lua.LTable, key string) mo.Option[int] {
	if seconds, ok := getNumber(table, key).Get(); ok {
		if seconds <= 0 {
			return mo.None[int]()
		}
		return mo.Some(int(math.Round(seconds)))
	}

	if seconds := track.ParseISODuration(getString(table, key)); seconds > 0 {
		return mo.Some(seconds)
	}

	return mo.None[int]()
}

func resultFromTable(table *lua.LTable) (catalog.Result, error) {
	id := getString(table, "id")
	mediaKey := getString(table, "media_key")
	title := getString(table, "title")

	if title == "" || (id == "" && mediaKey == "") {
		return catalog.Result{}, errors.New("track must have title and id or media_key")
	}

	if id == "" {
		id = mediaKey
	}

	r := catalog.Result{
		ID:          id,
		Title:       title,
		Description: getString(table, "description"),
		Thumbnail:   getString(table, "thumbnail"),
		MediaKey:    mediaKey,
		ChannelName: getString(table, "artist"),
		Duration:    getDuration(table, "duration"),
	}

	if views, ok := getNumber(table, "views").Get(); ok && views >= 0 {
		r.ViewCount = mo.Some(int64(views))
	}

	if published := getString(table, "published_at"); published != "" {
		if t, err := time.Parse(time.RFC3339, published); err == nil {
			r.PublishedAt = mo.Some(t)
		}
	}

	return r, nil
}
