package engine

// Occupant is the contents of a board cell.
type Occupant int8

const (
	Empty Occupant = iota
	X
	O
)

// Opponent returns the other playing side. Undefined for Empty.
func (o Occupant) Opponent() Occupant {
	if o == X {
		return O
	}
	return X
}

func (o Occupant) String() string {
	switch o {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "."
	}
}

// Position is a signed integer lattice coordinate.
type Position struct {
	X, Y int
}

func (p Position) Add(d Position) Position { return Position{p.X + d.X, p.Y + d.Y} }
func (p Position) Sub(d Position) Position { return Position{p.X - d.X, p.Y - d.Y} }

// directions are the four unit vectors; walking each direction's negative
// covers the other half-line, giving eight half-lines total through any
// cell.
var directions = [4]Position{
	{1, 0},
	{0, 1},
	{1, 1},
	{1, -1},
}

// maxWalkSteps bounds the line walks in IsWin and the evaluator. Positions
// this long are impossible in practice; it exists purely as a defensive
// cap against runaway loops.
const maxWalkSteps = 20

// BoundingBox is the axis-aligned rectangle enclosing all occupied cells.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY int
}

func (b BoundingBox) expand(x, y int) BoundingBox {
	if x < b.MinX {
		b.MinX = x
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if y > b.MaxY {
		b.MaxY = y
	}
	return b
}

// HistoryEntry records one move as it was played.
type HistoryEntry struct {
	X, Y   int
	Player Occupant
}

// Board is a sparse k-in-a-row board on the unbounded integer lattice.
// The zero value is not usable; construct with NewBoard.
type Board struct {
	winLength int
	cells     map[Position]Occupant
	bbox      *BoundingBox // nil until the first stone is placed
	hash      uint64
	history   []HistoryEntry
	zobrist   *ZobristTable
}

// NewBoard returns an empty board with the given win length (minimum 3).
func NewBoard(winLength int) *Board {
	if winLength < 3 {
		winLength = 3
	}
	return &Board{
		winLength: winLength,
		cells:     make(map[Position]Occupant),
		zobrist:   NewZobristTable(),
	}
}

// Clone returns a deep copy sharing the same Zobrist key source (key
// generation is pure, so sharing the memoization cache across clones is
// safe and is the point of the cache).
func (b *Board) Clone() *Board {
	cells := make(map[Position]Occupant, len(b.cells))
	for p, o := range b.cells {
		cells[p] = o
	}
	history := make([]HistoryEntry, len(b.history))
	copy(history, b.history)
	var bbox *BoundingBox
	if b.bbox != nil {
		cp := *b.bbox
		bbox = &cp
	}
	return &Board{
		winLength: b.winLength,
		cells:     cells,
		bbox:      bbox,
		hash:      b.hash,
		history:   history,
		zobrist:   b.zobrist,
	}
}

func (b *Board) WinLength() int { return b.winLength }

// MakeMove places who at (x, y). Fails (returns false) if the cell is
// already occupied or who is Empty.
func (b *Board) MakeMove(x, y int, who Occupant) bool {
	pos := Position{x, y}
	if _, occupied := b.cells[pos]; occupied {
		return false
	}
	if who == Empty {
		return false
	}
	b.cells[pos] = who
	if b.bbox == nil {
		b.bbox = &BoundingBox{MinX: x, MaxX: x, MinY: y, MaxY: y}
	} else {
		expanded := b.bbox.expand(x, y)
		b.bbox = &expanded
	}
	b.hash ^= b.zobrist.Key(x, y, who)
	b.history = append(b.history, HistoryEntry{X: x, Y: y, Player: who})
	return true
}

// UndoMove removes the stone at (x, y) and shrinks the bounding box to the
// remaining stones. A no-op on an empty cell. Only valid when (x, y) is
// the tail of history; removing an interior cell leaves history
// inconsistent with cells (see design notes) and is never done by the
// engine itself.
func (b *Board) UndoMove(x, y int) {
	pos := Position{x, y}
	who, occupied := b.cells[pos]
	if !occupied {
		return
	}
	delete(b.cells, pos)
	b.hash ^= b.zobrist.Key(x, y, who)

	if len(b.cells) == 0 {
		b.bbox = nil
	} else if bb := b.bbox; x == bb.MinX || x == bb.MaxX || y == bb.MinY || y == bb.MaxY {
		var box *BoundingBox
		for p := range b.cells {
			if box == nil {
				box = &BoundingBox{MinX: p.X, MaxX: p.X, MinY: p.Y, MaxY: p.Y}
			} else {
				*box = box.expand(p.X, p.Y)
			}
		}
		b.bbox = box
	}

	if n := len(b.history); n > 0 && b.history[n-1].X == x && b.history[n-1].Y == y {
		b.history = b.history[:n-1]
	}
}

// At returns the occupant of (x, y), or Empty if vacant.
func (b *Board) At(x, y int) Occupant {
	return b.cells[Position{x, y}]
}

func (b *Board) IsEmptyCell(x, y int) bool {
	return b.At(x, y) == Empty
}

// countInDirection counts same-side stones from (x,y) along dir and its
// negative, not including (x,y) itself.
func (b *Board) countInDirection(x, y int, dir Position, who Occupant) int {
	count := 0
	cur := Position{x, y}.Add(dir)
	for steps := 0; steps < maxWalkSteps && b.cells[cur] == who; steps++ {
		count++
		cur = cur.Add(dir)
	}
	cur = Position{x, y}.Sub(dir)
	for steps := 0; steps < maxWalkSteps && b.cells[cur] == who; steps++ {
		count++
		cur = cur.Sub(dir)
	}
	return count
}

func (b *Board) checkWinInDirection(x, y int, dir Position, who Occupant) bool {
	if b.cells[Position{x, y}] != who {
		return false
	}
	count := 1 + b.countInDirection(x, y, dir, who)
	return count >= b.winLength
}

// IsWin reports whether some direction contains at least winLength
// consecutive who cells through (x, y).
func (b *Board) IsWin(x, y int, who Occupant) bool {
	for _, d := range directions {
		if b.checkWinInDirection(x, y, d, who) {
			return true
		}
	}
	return false
}

// IsTerminal reports whether any occupied cell is a win for its occupant.
// This is a full scan; the search engine's internal fast-path terminal
// check only inspects the history tail and is a distinct operation (see
// evaluateTerminal in search_engine.go).
func (b *Board) IsTerminal() bool {
	for pos, who := range b.cells {
		if b.IsWin(pos.X, pos.Y, who) {
			return true
		}
	}
	return false
}

// Hash returns the incremental Zobrist digest of the current position.
func (b *Board) Hash() uint64 { return b.hash }

// BoundingBox returns the tight rectangle around occupied cells, or the
// degenerate unit rectangle at the origin if the board is empty.
func (b *Board) BoundingBox() BoundingBox {
	if b.bbox == nil {
		return BoundingBox{}
	}
	return *b.bbox
}

// OccupiedPositions returns a snapshot of all occupied positions in
// unspecified order.
func (b *Board) OccupiedPositions() []Position {
	out := make([]Position, 0, len(b.cells))
	for pos := range b.cells {
		out = append(out, pos)
	}
	return out
}

// History returns a copy of the ordered move history.
func (b *Board) History() []HistoryEntry {
	return append([]HistoryEntry(nil), b.history...)
}
