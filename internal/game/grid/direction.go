package grid

// Direction is one of the four orthogonal moves.
type Direction int

// The orthogonal directions, declared in canonical neighbor order.
const (
	Up Direction = iota
	Left
	Right
	Down
)

// Directions lists all directions in canonical neighbor order.
var Directions = [4]Direction{Up, Left, Right, Down}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Left:
		return "left"
	case Right:
		return "right"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Offset returns the row and column delta of d.
func (d Direction) Offset() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse of d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return d
	}
}
