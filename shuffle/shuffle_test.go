package shuffle

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSlice(t *testing.T) {
	Convey("Given a sequence", t, func() {
		in := []string{"a", "b", "c", "d", "e", "f", "g"}
		snapshot := slices.Clone(in)
		r := rand.New(rand.NewPCG(42, 7))

		Convey("The result is a permutation of the input", func() {
			for i := 0; i < 50; i++ {
				out := Slice(in, r)
				So(len(out), ShouldEqual, len(in))

				sorted := slices.Clone(out)
				slices.Sort(sorted)
				So(sorted, ShouldResemble, snapshot)
			}
		})

		Convey("The input is not mutated", func() {
			_ = Slice(in, r)
			So(in, ShouldResemble, snapshot)
		})

		Convey("A nil source uses the default generator", func() {
			So(len(Slice(in, nil)), ShouldEqual, len(in))
		})
	})

	Convey("Edge cases", t, func() {
		So(Slice([]int{}, nil), ShouldBeEmpty)
		So(Slice([]int{1}, nil), ShouldResemble, []int{1})
		So(Slice[int](nil, nil), ShouldBeEmpty)
	})

	Convey("Every permutation of three elements shows up", t, func() {
		r := rand.New(rand.NewPCG(1, 2))
		seen := make(map[string]int)
		for i := 0; i < 6000; i++ {
			seen[strings.Join(Slice([]string{"x", "y", "z"}, r), "")]++
		}

		So(len(seen), ShouldEqual, 6)
		for _, count := range seen {
			So(count, ShouldBeBetween, 800, 1200)
		}
	})
}
