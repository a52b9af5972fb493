package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBackend(t *testing.T) {
	Convey("Filesystem backend", t, func() {
		Convey("Defaults to the OS", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
			So(IsVirtual(), ShouldBeFalse)
		})

		Convey("Switches to memory", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
			So(IsVirtual(), ShouldBeTrue)

			Convey("And GacheFs writes through it", func() {
				So(GacheFs{}.MkdirAll("/cache", os.ModePerm), ShouldBeNil)
				f, err := GacheFs{}.OpenFile("/cache/prefs.json", os.O_CREATE|os.O_WRONLY, 0o644)
				So(err, ShouldBeNil)
				_, err = f.Write([]byte("{}"))
				So(err, ShouldBeNil)
				So(f.Close(), ShouldBeNil)

				exists, err := API().Exists("/cache/prefs.json")
				So(err, ShouldBeNil)
				So(exists, ShouldBeTrue)
			})
		})
	})
}
