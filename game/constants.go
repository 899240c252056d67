package game

type TileState int
type BoardState int

const (
	Covered TileState = iota
	Flag
	Mine
	Empty
)

func (state TileState) String() string {
	switch state {
	case Covered:
		return "covered"
	case Flag:
		return "flag"
	case Mine:
		return "mine"
	case Empty:
		return "empty"
	}
	return "unknown"
}

const (
	NotStarted BoardState = iota
	InProgress
	Won
	Lost
)

func (state BoardState) String() string {
	switch state {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "unknown"
}

// Terminal reports whether no further transition may leave the state
func (state BoardState) Terminal() bool {
	return state == Won || state == Lost
}

// canTransition lists the edges of NotStarted -> InProgress -> {Won, Lost}
func (state BoardState) canTransition(to BoardState) bool {
	switch state {
	case NotStarted:
		return to == InProgress
	case InProgress:
		return to == Won || to == Lost
	}
	return false
}
