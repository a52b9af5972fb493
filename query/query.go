// Package query remembers what the user searched for and suggests earlier
// searches while they type.
package query

import (
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/where"
	"golang.org/x/exp/slices"
)

// Weights passed to Remember. A query that led to playback counts more than one that was only typed.
const (
	WeightSearched = 1
	WeightPlayed   = 3
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var (
	mu          sync.Mutex
	suggestions = make(map[string][]*record)
)

func load() map[string]*record {
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		return make(map[string]*record)
	}
	return cached
}

// Remember records q or raises its rank by weight.
func Remember(q string, weight int) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	records := load()
	if r, ok := records[q]; ok {
		r.Rank += weight
	} else {
		records[q] = &record{Rank: weight, Query: q}
	}

	clear(suggestions)
	return cacher.Set(records)
}

// Forget removes q from the history.
func Forget(q string) error {
	mu.Lock()
	defer mu.Unlock()

	records := load()
	delete(records, sanitize(q))

	clear(suggestions)
	return cacher.Set(records)
}

// Suggest returns the best earlier query matching the partial input q.
func Suggest(q string) mo.Option[string] {
	many := SuggestMany(q)
	if len(many) == 0 {
		return mo.None[string]()
	}
	return mo.Some(many[0])
}

// SuggestMany returns earlier queries fuzzily matching q, highest rank first.
// It is empty when search.show_query_suggestions is off.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)

	mu.Lock()
	defer mu.Unlock()

	matched, ok := suggestions[q]
	if !ok {
		for _, r := range load() {
			if fuzzy.Match(q, r.Query) {
				matched = append(matched, r)
			}
		}

		slices.SortFunc(matched, func(a, b *record) int {
			if a.Rank != b.Rank {
				return b.Rank - a.Rank
			}
			return strings.Compare(a.Query, b.Query)
		})

		suggestions[q] = matched
	}

	return lo.Map(matched, func(r *record, _ int) string {
		return r.Query
	})
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
