package structure

// World is the sparse voxel map a conversion job builds from its command
// script. Later writes overwrite earlier ones at the same coordinate. A
// World is created fresh per job and discarded after encoding; nothing
// carries over between unrelated conversions.
type World struct {
	cells map[[3]int]Block
}

func NewWorld() *World {
	return &World{cells: make(map[[3]int]Block)}
}

// Apply writes cmd's block into every coordinate the command covers. Fill
// bounds may be given in any corner order.
func (w *World) Apply(cmd Command) {
	x1, x2 := minmax(cmd.From[0], cmd.To[0])
	y1, y2 := minmax(cmd.From[1], cmd.To[1])
	z1, z2 := minmax(cmd.From[2], cmd.To[2])
	for y := y1; y <= y2; y++ {
		for z := z1; z <= z2; z++ {
			for x := x1; x <= x2; x++ {
				w.cells[[3]int{x, y, z}] = cmd.Block
			}
		}
	}
}

// Set places a single block, last write wins.
func (w *World) Set(x, y, z int, b Block) {
	w.cells[[3]int{x, y, z}] = b
}

// Len reports how many coordinates are populated.
func (w *World) Len() int { return len(w.cells) }

// Bounds computes the tight axis-aligned bounding box over every populated
// coordinate. ok is false for an empty world.
func (w *World) Bounds() (min, max [3]int, ok bool) {
	first := true
	for pos := range w.cells {
		if first {
			min, max = pos, pos
			first = false
			continue
		}
		for i := 0; i < 3; i++ {
			if pos[i] < min[i] {
				min[i] = pos[i]
			}
			if pos[i] > max[i] {
				max[i] = pos[i]
			}
		}
	}
	return min, max, !first
}

func minmax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
