package where

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytfree-cli/ytfree/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Directories are created on demand", t, func() {
		for name, fn := range map[string]func() string{
			"Config":  Config,
			"Cache":   Cache,
			"Logs":    Logs,
			"Sources": Sources,
			"Results": Results,
			"Temp":    Temp,
		} {
			Convey(name+"()", func() {
				path := fn()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			})
		}
	})

	Convey("Files live next to their directories", t, func() {
		So(filepath.Dir(State()), ShouldEqual, Config())
		So(filepath.Dir(History()), ShouldEqual, Config())
		So(filepath.Base(Database()), ShouldEqual, "ytfree.db")
		So(filepath.Dir(Queries()), ShouldEqual, Cache())
	})

	Convey("YTFREE_CONFIG_PATH overrides the config directory", t, func() {
		custom := filepath.Join(os.TempDir(), "ytfree-where-test")
		t.Setenv(EnvConfigPath, custom)

		So(Config(), ShouldEqual, custom)
		So(Sources(), ShouldEqual, filepath.Join(custom, "sources"))
	})
}
