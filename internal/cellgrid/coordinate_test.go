package cellgrid

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCoordinateKeyRoundTrip(t *testing.T) {
	Convey("Given coordinates with positive, negative, and zero components", t, func() {
		cases := []Coordinate{
			{Row: 0, Col: 0},
			{Row: 3, Col: 7},
			{Row: -2, Col: 5},
			{Row: 100, Col: -100},
		}

		Convey("Key then ParseKey recovers the original coordinate", func() {
			for _, c := range cases {
				parsed, err := ParseKey(c.Key())
				So(err, ShouldBeNil)
				So(parsed, ShouldResemble, c)
			}
		})
	})

	Convey("Given a malformed key", t, func() {
		Convey("ParseKey returns an error", func() {
			_, err := ParseKey("not-a-key")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNeighbours(t *testing.T) {
	Convey("Given an interior cell", t, func() {
		c := Coordinate{Row: 5, Col: 5}

		Convey("Neighbours returns the eight Moore-neighbourhood offsets", func() {
			ns := c.Neighbours()
			So(len(ns), ShouldEqual, 8)

			seen := map[Coordinate]bool{}
			for _, n := range ns {
				seen[n] = true
				So(n, ShouldNotResemble, c)
			}
			So(len(seen), ShouldEqual, 8)
		})
	})
}

func TestInBounds(t *testing.T) {
	d := Dimensions{Rows: 4, Cols: 4}

	Convey("Given a 4x4 rectangle", t, func() {
		Convey("Corner and interior cells are in bounds", func() {
			So(Coordinate{0, 0}.InBounds(d), ShouldBeTrue)
			So(Coordinate{3, 3}.InBounds(d), ShouldBeTrue)
			So(Coordinate{2, 2}.InBounds(d), ShouldBeTrue)
		})

		Convey("Cells on or beyond the edge are out of bounds", func() {
			So(Coordinate{4, 0}.InBounds(d), ShouldBeFalse)
			So(Coordinate{0, 4}.InBounds(d), ShouldBeFalse)
			So(Coordinate{-1, 0}.InBounds(d), ShouldBeFalse)
		})
	})
}
