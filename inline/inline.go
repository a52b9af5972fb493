// Package inline is the non-interactive search mode: query one or more catalogs and
// print the hits as JSON or as one line per track.
package inline

import (
	"context"
	"fmt"
	"os"

	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/query"
)

type hit struct {
	catalog string
	result  catalog.Result
}

func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	output := &Output{Query: options.Query, NextPage: make(map[string]string)}

	var hits []hit
	for _, c := range options.Catalogs {
		results, next, err := fetch(ctx, c, options)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Name(), err)
		}

		log.WithField("catalog", c.ID()).Debugf("inline: %d results", len(results))

		if next != "" {
			output.NextPage[c.ID()] = next
		}

		if picker, ok := options.Picker.Get(); ok {
			if choice := picker(results); choice != nil {
				hits = append(hits, hit{catalog: c.ID(), result: *choice})
			}
			continue
		}

		for _, r := range results {
			hits = append(hits, hit{catalog: c.ID(), result: r})
		}
	}

	if !options.Trending && options.Query != "" {
		_ = query.Remember(options.Query, query.WeightSearched)
	}

	if options.Json {
		for _, h := range hits {
			output.Result = append(output.Result, newResult(h.catalog, h.result))
		}
		return writeJson(options.Out, output)
	}

	for _, h := range hits {
		t := h.result.Track()
		if _, err := fmt.Fprintf(options.Out, "%s\t%s\n", t, t.MediaKey); err != nil {
			return err
		}
	}

	return nil
}

func fetch(ctx context.Context, c catalog.Catalog, options *Options) ([]catalog.Result, string, error) {
	if options.Trending {
		results, err := c.Trending(ctx, options.Count)
		return results, "", err
	}

	page, err := c.Search(ctx, options.Query, options.Page)
	if err != nil {
		return nil, "", err
	}

	if !page.HasMore {
		return page.Items, "", nil
	}
	return page.Items, page.NextPageToken, nil
}
