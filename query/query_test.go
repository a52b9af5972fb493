package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given query history", t, func() {
		So(Remember("lofi hip hop", WeightSearched), ShouldBeNil)
		So(Remember("lofi jazz", WeightPlayed), ShouldBeNil)
		Reset(func() {
			_ = Forget("lofi hip hop")
			_ = Forget("lofi jazz")
		})

		Convey("Suggestions are sorted by rank", func() {
			s := SuggestMany("lofi")
			So(s, ShouldHaveLength, 2)
			So(s[0], ShouldEqual, "lofi jazz")
			So(Suggest("lofi").MustGet(), ShouldEqual, "lofi jazz")
		})

		Convey("Remembering again re-ranks past cached suggestions", func() {
			_ = SuggestMany("lofi")
			So(Remember("LOFI HIP HOP ", WeightPlayed), ShouldBeNil)

			So(SuggestMany("lofi")[0], ShouldEqual, "lofi hip hop")
		})

		Convey("Forgotten queries are not suggested", func() {
			So(Forget("lofi jazz"), ShouldBeNil)
			So(SuggestMany("jazz"), ShouldBeEmpty)
		})

		Convey("Nothing is suggested when disabled", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			Reset(func() { viper.Set(key.SearchShowQuerySuggestions, true) })

			So(SuggestMany("lofi"), ShouldBeEmpty)
			So(Suggest("lofi").IsAbsent(), ShouldBeTrue)
		})

		Convey("Blank queries are ignored", func() {
			So(Remember("   ", WeightSearched), ShouldBeNil)
			So(SuggestMany(""), ShouldHaveLength, 2)
		})

		Convey("It sanitizes input", func() {
			So(sanitize("  LoFi  "), ShouldEqual, "lofi")
		})
	})
}
