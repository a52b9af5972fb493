package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given an empty notification line", t, func() {
		var m Model
		So(m.View("content"), ShouldEqual, "content")

		Convey("A notification is shown and scheduled to clear", func() {
			cmd := m.Update(Notify("skipped unplayable track")())
			So(cmd, ShouldNotBeNil)
			So(m.Text(), ShouldEqual, "skipped unplayable track")
			So(m.View("a\nb"), ShouldStartWith, "a\nb  ")
			So(m.View("a\nb"), ShouldContainSubstring, "skipped unplayable track")

			Convey("Its own expiry clears it", func() {
				m.Update(clearMsg{id: m.id})
				So(m.Text(), ShouldBeEmpty)
			})

			Convey("An older expiry does not clear a newer notification", func() {
				first := m.id
				m.Update(NotifyError("network down")())
				m.Update(clearMsg{id: first})
				So(m.Text(), ShouldEqual, "network down")
			})
		})
	})
}
