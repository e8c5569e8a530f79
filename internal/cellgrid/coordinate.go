// Package cellgrid holds the leaf primitives of the board: coordinates,
// dimensions, and the pure Conway transition rule.
package cellgrid

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate is a single (row, col) position on a board. Coordinates are
// immutable values; all operations on them return new values.
type Coordinate struct {
	Row, Col int
}

// Dimensions is the inclusive-exclusive rectangle [0, Rows) x [0, Cols)
// bounding a board. Rows and Cols are both expected to be >= 1.
type Dimensions struct {
	Rows, Cols int
}

// neighbourOffsets are the eight Moore-neighbourhood deltas, excluding (0,0).
var neighbourOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1} /*      */, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbours enumerates the eight Moore-neighbourhood cells around c,
// irrespective of board bounds; callers filter with InBounds.
func (c Coordinate) Neighbours() [8]Coordinate {
	var out [8]Coordinate
	for i, d := range neighbourOffsets {
		out[i] = Coordinate{Row: c.Row + d[0], Col: c.Col + d[1]}
	}
	return out
}

// InBounds reports whether c lies within the rectangle described by d.
func (c Coordinate) InBounds(d Dimensions) bool {
	return c.Row >= 0 && c.Row < d.Rows && c.Col >= 0 && c.Col < d.Cols
}

// Key renders c as the canonical "row,col" string form used wherever a
// compact, comparable set key is required. Round-trips exactly through
// ParseKey for any finite int coordinate.
func (c Coordinate) Key() string {
	var sb strings.Builder
	sb.Grow(16)
	sb.WriteString(strconv.Itoa(c.Row))
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(c.Col))
	return sb.String()
}

// ParseKey parses the canonical "row,col" form produced by Key.
func ParseKey(key string) (Coordinate, error) {
	idx := strings.IndexByte(key, ',')
	if idx < 0 {
		return Coordinate{}, fmt.Errorf("cellgrid: malformed coordinate key %q", key)
	}
	row, err := strconv.Atoi(key[:idx])
	if err != nil {
		return Coordinate{}, fmt.Errorf("cellgrid: malformed coordinate key %q: %w", key, err)
	}
	col, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return Coordinate{}, fmt.Errorf("cellgrid: malformed coordinate key %q: %w", key, err)
	}
	return Coordinate{Row: row, Col: col}, nil
}
