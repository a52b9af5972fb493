package youtube

import (
	"context"
	"errors"
	"fmt"
	"testing"

	ytdlp "github.com/lrstanley/go-ytdlp"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytfree-cli/ytfree/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func ptr[T any](v T) *T { return &v }

func entries(n int) []*ytdlp.ExtractedInfo {
	out := make([]*ytdlp.ExtractedInfo, n)
	for i := range out {
		out[i] = &ytdlp.ExtractedInfo{
			ID:       fmt.Sprintf("vid%02d", i),
			Title:    ptr(fmt.Sprintf("Song %d", i)),
			Uploader: ptr("Channel"),
			Duration: ptr(200.4),
			Thumbnails: []*ytdlp.ExtractedThumbnail{
				{URL: "https://i.ytimg.com/low.jpg"},
				{URL: "https://i.ytimg.com/high.jpg"},
			},
		}
	}
	return out
}

func TestSearch(t *testing.T) {
	Convey("Given a catalog over a fake yt-dlp", t, func() {
		var urls []string
		c := New(10, "https://www.youtube.com/playlist?list=PLtrending", false)
		c.extract = func(_ context.Context, url string) ([]*ytdlp.ExtractedInfo, error) {
			urls = append(urls, url)
			return entries(15), nil
		}

		Convey("The first page asks for one page of hits", func() {
			page, err := c.Search(context.Background(), " lofi beats ", "")
			So(err, ShouldBeNil)
			So(urls, ShouldResemble, []string{"ytsearch10:lofi beats"})
			So(page.Items, ShouldHaveLength, 10)
			So(page.NextPageToken, ShouldEqual, "2")

			first := page.Items[0]
			So(first.MediaKey, ShouldEqual, "vid00")
			So(first.Duration.MustGet(), ShouldEqual, 200)
			So(first.Thumbnail, ShouldEqual, "https://i.ytimg.com/high.jpg")
			So(first.Track().Artist, ShouldEqual, "Channel")
		})

		Convey("Later pages widen the search and keep the tail", func() {
			page, err := c.Search(context.Background(), "lofi", "2")
			So(err, ShouldBeNil)
			So(urls, ShouldResemble, []string{"ytsearch20:lofi"})
			So(page.Items, ShouldHaveLength, 5)
			So(page.Items[0].ID, ShouldEqual, "vid10")
			So(page.HasMore, ShouldBeFalse)
		})

		Convey("Trending is truncated to count", func() {
			results, err := c.Trending(context.Background(), 3)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 3)
			So(urls, ShouldResemble, []string{"https://www.youtube.com/playlist?list=PLtrending"})
		})

		Convey("Failures are wrapped", func() {
			c.extract = func(context.Context, string) ([]*ytdlp.ExtractedInfo, error) {
				return nil, errors.New("network down")
			}
			_, err := c.Search(context.Background(), "x", "")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "network down")
		})
	})
}

func TestFromInfos(t *testing.T) {
	Convey("Containers are flattened and entries without ids dropped", t, func() {
		container := &ytdlp.ExtractedInfo{
			ID:      "PL1",
			Entries: append(entries(2), nil, &ytdlp.ExtractedInfo{}),
		}

		results := fromInfos([]*ytdlp.ExtractedInfo{container, entries(1)[0]})
		So(results, ShouldHaveLength, 3)
		So(results[2].Duration.IsPresent(), ShouldBeTrue)
	})
}
