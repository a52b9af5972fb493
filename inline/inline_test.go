package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

type fakeCatalog struct {
	id      string
	results []catalog.Result
	err     error
	tokens  []string
}

func (f *fakeCatalog) ID() string   { return f.id }
func (f *fakeCatalog) Name() string { return strings.ToUpper(f.id) }

func (f *fakeCatalog) Search(_ context.Context, _ string, token string) (catalog.Page, error) {
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return catalog.Page{}, f.err
	}
	return catalog.Paginate(f.results, catalog.PageNumber(token), 2), nil
}

func (f *fakeCatalog) Trending(_ context.Context, count int) ([]catalog.Result, error) {
	return f.results[:min(count, len(f.results))], f.err
}

func sample() *fakeCatalog {
	return &fakeCatalog{
		id: "fake",
		results: []catalog.Result{
			{ID: "a", Title: "Alpha", ChannelName: "One", MediaKey: "key-a", Duration: mo.Some(120)},
			{ID: "b", Title: "Beta", ChannelName: "Two", MediaKey: "key-b"},
			{ID: "c", Title: "Gamma", MediaKey: "key-c", ViewCount: mo.Some[int64](42)},
		},
	}
}

func TestRun(t *testing.T) {
	Convey("Given a catalog with three results", t, func() {
		var buf bytes.Buffer
		c := sample()
		options := &Options{Out: &buf, Catalogs: []catalog.Catalog{c}, Query: "song"}

		Convey("Plain output prints one track per line", func() {
			So(Run(context.Background(), options), ShouldBeNil)
			So(buf.String(), ShouldEqual, "One - Alpha\tkey-a\nTwo - Beta\tkey-b\n")
			So(c.tokens, ShouldResemble, []string{""})
		})

		Convey("JSON output carries the next page token", func() {
			options.Json = true
			So(Run(context.Background(), options), ShouldBeNil)

			var out Output
			So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
			So(out.Query, ShouldEqual, "song")
			So(out.Result, ShouldHaveLength, 2)
			So(out.Result[0].Catalog, ShouldEqual, "fake")
			So(out.Result[0].Track.Duration, ShouldEqual, 120)
			So(out.NextPage["fake"], ShouldEqual, "2")
		})

		Convey("The second page is the last", func() {
			options.Json = true
			options.Page = "2"
			So(Run(context.Background(), options), ShouldBeNil)

			var out Output
			So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
			So(out.Result, ShouldHaveLength, 1)
			So(*out.Result[0].ViewCount, ShouldEqual, 42)
			So(out.Result[0].Track.Artist, ShouldEqual, "Unknown Artist")
			So(out.NextPage, ShouldBeEmpty)
		})

		Convey("A picker keeps a single result", func() {
			picker, err := ParsePickerFlag("last")
			So(err, ShouldBeNil)
			options.Picker = mo.Some(picker)

			So(Run(context.Background(), options), ShouldBeNil)
			So(buf.String(), ShouldEqual, "Two - Beta\tkey-b\n")
		})

		Convey("Trending ignores the query", func() {
			options.Trending = true
			options.Count = 3
			So(Run(context.Background(), options), ShouldBeNil)
			So(strings.Count(buf.String(), "\n"), ShouldEqual, 3)
			So(c.tokens, ShouldBeEmpty)
		})

		Convey("Catalog errors name the catalog", func() {
			c.err = errors.New("boom")
			err := Run(context.Background(), options)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "FAKE: boom")
		})

		Convey("Empty JSON output still has a result array", func() {
			options.Json = true
			options.Catalogs = nil
			So(Run(context.Background(), options), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, `"result": []`)
		})
	})
}

func TestParsePicker(t *testing.T) {
	results := sample().results

	Convey("Pickers", t, func() {
		Convey("first and last", func() {
			first, _ := ParsePicker("first", "")
			last, _ := ParsePicker("last", "")
			So(first(results).ID, ShouldEqual, "a")
			So(last(results).ID, ShouldEqual, "c")
			So(first(nil), ShouldBeNil)
		})

		Convey("exact matches titles case-insensitively", func() {
			p, err := ParsePickerFlag("exact:beta")
			So(err, ShouldBeNil)
			So(p(results).ID, ShouldEqual, "b")

			p, _ = ParsePicker("exact", "delta")
			So(p(results), ShouldBeNil)
		})

		Convey("index is clamped to the last result", func() {
			p, err := ParsePickerFlag("7")
			So(err, ShouldBeNil)
			So(p(results).ID, ShouldEqual, "c")

			p, _ = ParsePickerFlag("index:1")
			So(p(results).ID, ShouldEqual, "b")
		})

		Convey("Unknown kinds and bad indices fail", func() {
			_, err := ParsePicker("random", "")
			So(err, ShouldNotBeNil)
			_, err = ParsePicker("index", "x")
			So(err, ShouldNotBeNil)
		})
	})
}
