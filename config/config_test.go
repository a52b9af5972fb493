package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Every registered field has a value", func() {
			for name := range Default {
				So(viper.IsSet(name), ShouldBeTrue)
			}
		})

		Convey("Env names carry the application prefix", func() {
			f := Default[key.PlayerPollInterval]
			So(f.Env(), ShouldEqual, "YTFREE_PLAYER_POLL_INTERVAL")
		})

		Convey("EnvKeyReplacer converts dots to underscores", func() {
			So(EnvKeyReplacer.Replace("catalog.search_limit"), ShouldEqual, "catalog_search_limit")
		})
	})
}

func TestPlayerAccessors(t *testing.T) {
	Convey("Given player settings", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("The default poll interval is 250ms", func() {
			So(PollInterval(), ShouldEqual, 250*time.Millisecond)
		})

		Convey("A tiny poll interval is raised to the floor", func() {
			viper.Set(key.PlayerPollInterval, 1)
			So(PollInterval(), ShouldEqual, minPollInterval)
			viper.Set(key.PlayerPollInterval, 250)
		})

		Convey("Default volume is scaled and clamped", func() {
			So(DefaultVolume(), ShouldAlmostEqual, 0.8)
			viper.Set(key.PlayerDefaultVolume, 150)
			So(DefaultVolume(), ShouldEqual, 1)
			viper.Set(key.PlayerDefaultVolume, 80)
		})

		Convey("Restart threshold is three seconds", func() {
			So(RestartThreshold(), ShouldEqual, 3)
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given registered fields", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Type names the default's Go type", func() {
			f := Default[key.PlayerMpvArgs]
			So(f.Type(), ShouldEqual, "[]string")

			f = Default[key.PlayerPollInterval]
			So(f.Type(), ShouldEqual, "int")
		})

		Convey("JSON carries the current value next to the default", func() {
			viper.Set(key.CatalogSearchLimit, 50)
			defer viper.Set(key.CatalogSearchLimit, 20)

			f := Default[key.CatalogSearchLimit]
			data, err := f.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"value":50`)
			So(string(data), ShouldContainSubstring, `"default":20`)
			So(string(data), ShouldContainSubstring, `"env":"YTFREE_CATALOG_SEARCH_LIMIT"`)
		})
	})
}
