package game

// Director plays a board on the user's behalf
type Director interface {
	// Init points the director at a fresh board
	Init(*Board)

	// Act performs a single move, reporting whether anything was attempted
	Act() bool
}
