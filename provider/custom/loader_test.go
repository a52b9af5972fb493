package custom

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytfree-cli/ytfree/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

const script = `
function SearchTracks(query, page)
	if page > 2 then
		return {}
	end
	return {
		{ id = query .. "-" .. page, title = "Hit " .. page, media_key = "https://cdn.example/" .. page .. ".mp3", duration = "PT3M5S" },
		{ title = "broken" },
	}
end

function TrendingTracks(count)
	local out = {}
	for i = 1, 5 do
		out[i] = { id = "t" .. i, title = "Trend " .. i, artist = "Someone" }
	end
	return out
end
`

func TestLoad(t *testing.T) {
	Convey("Given a script defining both functions", t, func() {
		path := "/sources/example.lua"
		So(filesystem.API().WriteFile(path, []byte(script), 0o644), ShouldBeNil)

		c, err := Load(path, false)
		So(err, ShouldBeNil)
		defer c.Close()

		So(c.Name(), ShouldEqual, "example")
		So(c.ID(), ShouldEqual, "example custom")

		Convey("Search pages through the script", func() {
			page, err := c.Search(context.Background(), "lofi", "")
			So(err, ShouldBeNil)
			So(page.Items, ShouldHaveLength, 1)
			So(page.Items[0].ID, ShouldEqual, "lofi-1")
			So(page.Items[0].Duration.MustGet(), ShouldEqual, 185)
			So(page.NextPageToken, ShouldEqual, "2")

			last, err := c.Search(context.Background(), "lofi", "3")
			So(err, ShouldBeNil)
			So(last.Items, ShouldBeEmpty)
			So(last.HasMore, ShouldBeFalse)
		})

		Convey("Trending is truncated to count", func() {
			results, err := c.Trending(context.Background(), 2)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 2)
			So(results[1].ChannelName, ShouldEqual, "Someone")
		})
	})

	Convey("A script without SearchTracks is rejected", t, func() {
		path := "/sources/empty.lua"
		So(filesystem.API().WriteFile(path, []byte(`x = 1`), 0o644), ShouldBeNil)

		_, err := Load(path, false)
		So(err, ShouldNotBeNil)
	})

	Convey("A script without TrendingTracks has no trending list", t, func() {
		path := "/sources/plain.lua"
		So(filesystem.API().WriteFile(path, []byte(`function SearchTracks(q, p) return {} end`), 0o644), ShouldBeNil)

		c, err := Load(path, false)
		So(err, ShouldBeNil)
		defer c.Close()

		results, err := c.Trending(context.Background(), 10)
		So(err, ShouldBeNil)
		So(results, ShouldBeNil)
	})
}
