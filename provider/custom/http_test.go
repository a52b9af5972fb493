package custom

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	lua "github.com/yuin/gopher-lua"
)

func TestBrowserModule(t *testing.T) {
	Convey("Given a Lua state with the browser module", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			if r.Method == http.MethodPost {
				w.WriteHeader(http.StatusCreated)
			}
			_, _ = w.Write([]byte(r.Method + " " + r.Header.Get("X-Token")))
		}))
		defer server.Close()

		L := lua.NewState()
		defer L.Close()
		registerBrowser(L, server.Client())
		L.SetGlobal("base", lua.LString(server.URL))

		Convey("get returns the body and sends headers", func() {
			So(L.DoString(`body = http_browser.get(base, { ["X-Token"] = "abc" })`), ShouldBeNil)
			So(L.GetGlobal("body").String(), ShouldEqual, "GET abc")
		})

		Convey("request returns status and body", func() {
			So(L.DoString(`res = http_browser.request({ url = base, method = "post", body = "x" })`), ShouldBeNil)
			res := L.GetGlobal("res").(*lua.LTable)
			So(res.RawGetString("status"), ShouldEqual, lua.LNumber(201))
			So(res.RawGetString("body").String(), ShouldEqual, "POST ")
		})

		Convey("request without url raises", func() {
			So(L.DoString(`http_browser.request({})`), ShouldNotBeNil)
		})
	})
}
