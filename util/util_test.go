package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytfree-cli/ytfree/filesystem"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Unsafe characters become underscores", func() {
			So(SanitizeFilename("lofi: beats?.lua"), ShouldEqual, "lofi_beats_.lua")
		})
		Convey("Runs of underscores collapse", func() {
			So(SanitizeFilename("my__mix"), ShouldEqual, "my_mix")
		})
		Convey("Leading and trailing separators are trimmed", func() {
			So(SanitizeFilename("-chill-mix-"), ShouldEqual, "chill-mix")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "track", "tracks"), ShouldEqual, "1 track")
		So(Quantify(0, "track", "tracks"), ShouldEqual, "0 tracks")
		So(Quantify(12, "track", "tracks"), ShouldEqual, "12 tracks")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("history"), ShouldEqual, "History")
		So(Capitalize("élan"), ShouldEqual, "Élan")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("sources/bandcamp.lua"), ShouldEqual, "bandcamp")
		So(FileStem("music/song.tar.gz"), ShouldEqual, "song.tar")
		So(FileStem("noext"), ShouldEqual, "noext")
	})
}

func TestMax(t *testing.T) {
	Convey("Max", t, func() {
		So(Max(3, 12, 7), ShouldEqual, 12)
		So(Max[int](), ShouldEqual, 0)
	})
}

func TestDelete(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()

		So(fs.MkdirAll("cache/covers", 0o755), ShouldBeNil)
		So(fs.WriteFile("cache/covers/a.jpg", []byte("x"), 0o644), ShouldBeNil)
		So(fs.WriteFile("state.json", []byte("{}"), 0o644), ShouldBeNil)

		Convey("Directories are removed recursively", func() {
			So(Delete("cache"), ShouldBeNil)
			exists, _ := fs.Exists("cache/covers/a.jpg")
			So(exists, ShouldBeFalse)
		})

		Convey("Files are removed", func() {
			So(Delete("state.json"), ShouldBeNil)
			exists, _ := fs.Exists("state.json")
			So(exists, ShouldBeFalse)
		})

		Convey("A missing path is an error", func() {
			err := Delete("missing")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFormatSeconds(t *testing.T) {
	Convey("FormatSeconds", t, func() {
		So(FormatSeconds(0), ShouldEqual, "0:00")
		So(FormatSeconds(65.9), ShouldEqual, "1:05")
		So(FormatSeconds(3725), ShouldEqual, "1:02:05")
		So(FormatSeconds(-3), ShouldEqual, "0:00")
	})
}
