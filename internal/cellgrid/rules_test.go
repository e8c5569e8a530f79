package cellgrid

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNextAlive(t *testing.T) {
	Convey("A dead cell with exactly 3 live neighbours is born", t, func() {
		So(NextAlive(false, 3), ShouldBeTrue)
	})

	Convey("A live cell survives only with 2 or 3 live neighbours", t, func() {
		for n := 0; n <= 8; n++ {
			got := NextAlive(true, n)
			want := n == 2 || n == 3
			So(got, ShouldEqual, want)
		}
	})

	Convey("A dead cell stays dead for any neighbour count other than 3", t, func() {
		for n := 0; n <= 8; n++ {
			if n == 3 {
				continue
			}
			So(NextAlive(false, n), ShouldBeFalse)
		}
	})
}
