package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/where"
)

func init() {
	filesystem.SetMemMapFs()
}

const script = `function SearchTracks(query, page) return {} end`

func TestGet(t *testing.T) {
	Convey("When trying to get an invalid provider", t, func() {
		_, ok := Get("kek")
		Convey("Then ok should be false", func() {
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Builtins are found by id", t, func() {
		p, ok := Get("youtube")
		So(ok, ShouldBeTrue)
		So(p.IsCustom, ShouldBeFalse)
	})

	Convey("Unknown catalogs suggest the closest id", t, func() {
		_, err := Catalog("youtub")
		So(errors.Is(err, catalog.ErrUnknown), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, `did you mean "youtube"`)
	})

	Convey("Spotify without credentials fails to create", t, func() {
		_, err := Catalog("spotify")
		So(err, ShouldNotBeNil)
	})
}

func TestCustoms(t *testing.T) {
	Convey("Given an installed script", t, func() {
		path := filepath.Join(where.Sources(), "bandcamp.lua")
		So(filesystem.API().WriteFile(path, []byte(script), 0o644), ShouldBeNil)
		So(filesystem.API().WriteFile(filepath.Join(where.Sources(), "notes.txt"), []byte("x"), 0o644), ShouldBeNil)
		Reset(func() { _ = filesystem.API().Remove(path) })

		Convey("It is listed as custom", func() {
			customs := Customs()
			So(customs, ShouldHaveLength, 1)
			So(customs[0].Name, ShouldEqual, "bandcamp")
			So(customs[0].ID, ShouldEqual, "bandcamp custom")
		})

		Convey("It loads as a catalog", func() {
			c, err := Catalog("bandcamp")
			So(err, ShouldBeNil)
			So(c.ID(), ShouldEqual, "bandcamp custom")
		})

		Convey("Update refetches it from the repository", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/bandcamp.lua" {
					http.NotFound(w, r)
					return
				}
				_, _ = w.Write([]byte(script + "\n-- v2"))
			}))
			defer server.Close()

			viper.Set(key.SourcesRepository, server.URL)
			Reset(func() { viper.Set(key.SourcesRepository, "") })

			updated, err := Update(context.Background())
			So(err, ShouldBeNil)
			So(updated, ShouldResemble, []string{"bandcamp"})

			updated, err = Update(context.Background())
			So(err, ShouldBeNil)
			So(updated, ShouldBeEmpty)
		})
	})
}
