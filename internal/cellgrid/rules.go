package cellgrid

// NextAlive is the pure Conway transition: given whether a cell is currently
// alive and its count of live Moore neighbours, reports whether it is alive
// in the next generation. Total, stateless, and the sole source of truth for
// birth/survival/death across the engine.
func NextAlive(isAlive bool, liveNeighbourCount int) bool {
	if isAlive {
		return liveNeighbourCount == 2 || liveNeighbourCount == 3
	}
	return liveNeighbourCount == 3
}
