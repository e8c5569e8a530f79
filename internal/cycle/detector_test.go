package cycle

import (
	"testing"

	"gameoflife/internal/apierr"
	"gameoflife/internal/cellgrid"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRunInvalidMaxAttempts(t *testing.T) {
	Convey("Given maxAttempts <= 0", t, func() {
		seed := cellgrid.FromDense([][]int{{0}})

		Convey("Run fails with InvalidInput and emits no progress", func() {
			called := false
			_, err := Run(seed, 0, func(int, [][]int) { called = true })
			So(apierr.KindOf(err), ShouldEqual, apierr.InvalidInput)
			So(called, ShouldBeFalse)
		})
	})
}

func TestRunStillLife(t *testing.T) {
	Convey("Given a block still-life seed", t, func() {
		seed := cellgrid.FromDense([][]int{
			{0, 0, 0, 0},
			{0, 1, 1, 0},
			{0, 1, 1, 0},
			{0, 0, 0, 0},
		})

		Convey("Run reports stable at generation 0", func() {
			result, err := Run(seed, 10, nil)
			So(err, ShouldBeNil)
			So(result.Status, ShouldEqual, Stable)
			So(result.Generation, ShouldEqual, 0)
			So(result.State, ShouldResemble, seed.ToDense())
		})
	})
}

func TestRunBlinkerOscillates(t *testing.T) {
	Convey("Given a vertical blinker seed", t, func() {
		seed := cellgrid.FromDense([][]int{
			{0, 0, 0, 0, 0},
			{0, 0, 1, 0, 0},
			{0, 0, 1, 0, 0},
			{0, 0, 1, 0, 0},
			{0, 0, 0, 0, 0},
		})

		var progressed [][2]int
		result, err := Run(seed, 10, func(g int, state [][]int) {
			live := 0
			for _, row := range state {
				for _, v := range row {
					live += v
				}
			}
			progressed = append(progressed, [2]int{g, live})
		})

		Convey("Run reports oscillating with period 2", func() {
			So(err, ShouldBeNil)
			So(result.Status, ShouldEqual, Oscillating)
			So(result.Period, ShouldEqual, 2)
		})

		Convey("Progress generations are strictly increasing from 0", func() {
			for i, p := range progressed {
				So(p[0], ShouldEqual, i)
			}
		})
	})
}

func TestRunLoneCellStabilizesAtGenerationOne(t *testing.T) {
	Convey("Given a lone live cell seed", t, func() {
		seed := cellgrid.FromDense([][]int{
			{0, 0, 0},
			{0, 1, 0},
			{0, 0, 0},
		})

		Convey("Run reports stable at generation 1 with an empty state", func() {
			result, err := Run(seed, 10, nil)
			So(err, ShouldBeNil)
			So(result.Status, ShouldEqual, Stable)
			So(result.Generation, ShouldEqual, 1)

			live := 0
			for _, row := range result.State {
				for _, v := range row {
					live += v
				}
			}
			So(live, ShouldEqual, 0)
		})
	})
}

func TestRunGliderTimesOut(t *testing.T) {
	Convey("Given a glider seed and a tight attempt ceiling", t, func() {
		seed := cellgrid.FromSparse([][2]int{
			{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2},
		}, cellgrid.Dimensions{Rows: 20, Cols: 20})

		var generations []int
		result, err := Run(seed, 5, func(g int, _ [][]int) {
			generations = append(generations, g)
		})

		Convey("Run reports timeout at the attempt ceiling", func() {
			So(err, ShouldBeNil)
			So(result.Status, ShouldEqual, Timeout)
			So(result.Generation, ShouldEqual, 5)
		})

		Convey("Progress is emitted for generations 0 through 5 inclusive", func() {
			So(generations, ShouldResemble, []int{0, 1, 2, 3, 4, 5})
		})

		Convey("The glider's live-cell count is preserved", func() {
			live := 0
			for _, row := range result.State {
				for _, v := range row {
					live += v
				}
			}
			So(live, ShouldEqual, 5)
		})
	})
}

func TestRunNeverExceedsMaxAttemptsPlusOneProgressEvents(t *testing.T) {
	Convey("Given a glider that never stabilizes within the budget", t, func() {
		seed := cellgrid.FromSparse([][2]int{
			{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2},
		}, cellgrid.Dimensions{Rows: 30, Cols: 30})

		count := 0
		_, err := Run(seed, 8, func(int, [][]int) { count++ })

		Convey("No more than maxAttempts + 1 progress events are emitted", func() {
			So(err, ShouldBeNil)
			So(count, ShouldBeLessThanOrEqualTo, 9)
		})
	})
}
