package playlist

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytfree-cli/ytfree/track"
)

var (
	alice = Member{UserID: "u-alice", Name: "Alice"}
	bob   = Member{UserID: "u-bob", Name: "Bob"}
	carol = Member{UserID: "u-carol", Name: "Carol"}
)

func song(id string) track.Track {
	return track.Track{
		ID:        id,
		Title:     "Song " + id,
		Artist:    "Band",
		Duration:  100,
		Thumbnail: "https://img/" + id,
		MediaKey:  "key-" + id,
		AddedBy:   alice.UserID,
	}
}

func trackIDs(p *Playlist) []string {
	ids := make([]string, len(p.Tracks))
	for i, t := range p.Tracks {
		ids[i] = t.ID
	}
	return ids
}

func openStore(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "playlists.db"))
	So(err, ShouldBeNil)

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := openStore(t)
		Reset(func() { _ = s.Close() })

		p, err := s.Create(ctx, "  Road trip ", "summer", alice)
		So(err, ShouldBeNil)
		So(p.ID, ShouldNotBeEmpty)
		So(p.Name, ShouldEqual, "Road trip")
		So(p.IsPublic, ShouldBeFalse)

		Convey("Empty names are rejected", func() {
			_, err := s.Create(ctx, " ", "", alice)
			So(err, ShouldNotBeNil)
		})

		Convey("It can be loaded back", func() {
			got, err := s.Get(ctx, p.ID)
			So(err, ShouldBeNil)
			So(got.Name, ShouldEqual, "Road trip")
			So(got.Description, ShouldEqual, "summer")
			So(got.Owner, ShouldResemble, alice)
			So(got.CreatedAt.Equal(p.CreatedAt), ShouldBeTrue)
		})

		Convey("Unknown ids are ErrNotFound", func() {
			_, err := s.Get(ctx, "nope")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)

			_, err = s.AddTrack(ctx, "nope", song("a"))
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)

			So(errors.Is(s.Delete(ctx, "nope"), ErrNotFound), ShouldBeTrue)
		})

		Convey("Tracks keep their order and provenance", func() {
			for _, id := range []string{"a", "b", "c"} {
				_, err := s.AddTrack(ctx, p.ID, song(id))
				So(err, ShouldBeNil)
			}

			got, err := s.Get(ctx, p.ID)
			So(err, ShouldBeNil)
			So(trackIDs(got), ShouldResemble, []string{"a", "b", "c"})
			So(got.Thumbnail, ShouldEqual, "https://img/a")
			So(got.Tracks[0].AddedBy, ShouldEqual, alice.UserID)
			So(got.Tracks[0].AddedAt.IsZero(), ShouldBeFalse)
			So(got.Duration(), ShouldEqual, 300)
			So(got.UpdatedAt.After(p.UpdatedAt), ShouldBeTrue)

			Convey("Remove drops the track", func() {
				got, err := s.RemoveTrack(ctx, p.ID, "b")
				So(err, ShouldBeNil)
				So(trackIDs(got), ShouldResemble, []string{"a", "c"})
			})

			Convey("Reorder follows the given ids", func() {
				got, err := s.Reorder(ctx, p.ID, []string{"c", "x", "a", "b"})
				So(err, ShouldBeNil)
				So(trackIDs(got), ShouldResemble, []string{"c", "a", "b"})
			})

			Convey("Move shifts one track", func() {
				got, err := s.Move(ctx, p.ID, 0, 2)
				So(err, ShouldBeNil)
				So(trackIDs(got), ShouldResemble, []string{"b", "c", "a"})

				_, err = s.Move(ctx, p.ID, 0, 3)
				So(err, ShouldNotBeNil)
			})

			Convey("Delete removes everything", func() {
				So(s.Delete(ctx, p.ID), ShouldBeNil)
				_, err := s.Get(ctx, p.ID)
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("Update changes only the given fields", func() {
			got, err := s.Update(ctx, p.ID, Changes{IsPublic: mo.Some(true)})
			So(err, ShouldBeNil)
			So(got.IsPublic, ShouldBeTrue)
			So(got.Name, ShouldEqual, "Road trip")

			got, err = s.Update(ctx, p.ID, Changes{Name: mo.Some("Night drive")})
			So(err, ShouldBeNil)
			So(got.Name, ShouldEqual, "Night drive")
			So(got.IsPublic, ShouldBeTrue)

			_, err = s.Update(ctx, p.ID, Changes{Name: mo.Some("")})
			So(err, ShouldNotBeNil)
		})

		Convey("Sharing makes it public and resolvable", func() {
			link, err := s.Share(ctx, p.ID, "https://ytfree.app/shared/")
			So(err, ShouldBeNil)
			So(link, ShouldEqual, "https://ytfree.app/shared/"+p.ID)

			got, err := s.GetByShareLink(ctx, link)
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, p.ID)
			So(got.IsPublic, ShouldBeTrue)
			So(got.CanView(carol.UserID), ShouldBeTrue)
		})

		Convey("Contributors get roles", func() {
			_, err := s.AddCollaborator(ctx, p.ID, Contributor{Member: bob, Role: RoleCollaborator})
			So(err, ShouldBeNil)
			got, err := s.AddCollaborator(ctx, p.ID, Contributor{Member: carol, Role: RoleViewer})
			So(err, ShouldBeNil)

			So(got.CanEdit(alice.UserID), ShouldBeTrue)
			So(got.CanEdit(bob.UserID), ShouldBeTrue)
			So(got.CanEdit(carol.UserID), ShouldBeFalse)
			So(got.CanView(carol.UserID), ShouldBeTrue)
			So(got.CanEdit("stranger"), ShouldBeFalse)
			So(got.CanView("stranger"), ShouldBeFalse)
			So(got.RoleOf(alice.UserID).MustGet(), ShouldEqual, RoleOwner)

			Convey("Adding again updates the role", func() {
				got, err := s.AddCollaborator(ctx, p.ID, Contributor{Member: carol, Role: RoleCollaborator})
				So(err, ShouldBeNil)
				So(got.Contributors, ShouldHaveLength, 2)
				So(got.CanEdit(carol.UserID), ShouldBeTrue)
			})

			Convey("Roles can be changed and revoked", func() {
				got, err := s.UpdateCollaboratorRole(ctx, p.ID, bob.UserID, RoleViewer)
				So(err, ShouldBeNil)
				So(got.CanEdit(bob.UserID), ShouldBeFalse)

				got, err = s.RemoveCollaborator(ctx, p.ID, bob.UserID)
				So(err, ShouldBeNil)
				So(got.RoleOf(bob.UserID).IsAbsent(), ShouldBeTrue)

				_, err = s.UpdateCollaboratorRole(ctx, p.ID, bob.UserID, RoleViewer)
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})

			Convey("The owner role cannot be granted", func() {
				_, err := s.AddCollaborator(ctx, p.ID, Contributor{Member: bob, Role: RoleOwner})
				So(err, ShouldNotBeNil)

				_, err = s.AddCollaborator(ctx, p.ID, Contributor{Member: alice, Role: RoleViewer})
				So(err, ShouldNotBeNil)
			})

			Convey("List includes shared playlists", func() {
				mine, err := s.Create(ctx, "Bob's own", "", bob)
				So(err, ShouldBeNil)

				lists, err := s.List(ctx, bob.UserID)
				So(err, ShouldBeNil)
				So(lists, ShouldHaveLength, 2)
				So(lists[0].ID, ShouldEqual, mine.ID)

				lists, err = s.List(ctx, "stranger")
				So(err, ShouldBeNil)
				So(lists, ShouldBeEmpty)
			})
		})
	})
}

func TestParseRole(t *testing.T) {
	Convey("ParseRole accepts contributor roles only", t, func() {
		r, err := ParseRole(" Viewer ")
		So(err, ShouldBeNil)
		So(r, ShouldEqual, RoleViewer)

		_, err = ParseRole("owner")
		So(err, ShouldNotBeNil)
	})
}

func TestShare(t *testing.T) {
	Convey("Share links and QR codes", t, func() {
		So(ShareLink("https://ytfree.app/shared", "abc"), ShouldEqual, "https://ytfree.app/shared/abc")

		qr, err := ShareQR("https://ytfree.app/shared/abc")
		So(err, ShouldBeNil)
		So(qr, ShouldNotBeEmpty)

		png, err := ShareQRPNG("https://ytfree.app/shared/abc", 128)
		So(err, ShouldBeNil)
		So(bytes.HasPrefix(png, []byte("\x89PNG")), ShouldBeTrue)
	})
}
