package structure

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/willf/bitset"

	"github.com/seywood/cmd2struct/nbt"
)

// Schematic is the decoded header of a palette-indexed document: dimensions,
// the palette compound inverted into index → block-state string, and the
// varint-encoded cell stream.
type Schematic struct {
	Width, Height, Depth int
	Offset               [3]int
	Palette              map[int32]string
	BlockData            []byte
}

// PrematureStreamEndError reports a cell stream that ran out before
// width×height×depth cells were decoded. The commands generated up to that
// point are still returned to the caller.
type PrematureStreamEndError struct {
	Read, Expected int
}

func (e *PrematureStreamEndError) Error() string {
	return fmt.Sprintf("structure: cell stream ended after %d of %d cells", e.Read, e.Expected)
}

// ParseSchematic pulls the fields the decoder needs out of a parsed root
// compound. Duplicate palette indices are not an error; one of the
// colliding entries wins.
func ParseSchematic(root *nbt.Compound) (*Schematic, error) {
	s := &Schematic{Palette: make(map[int32]string)}

	var err error
	if s.Width, err = shortField(root, "Width"); err != nil {
		return nil, err
	}
	if s.Height, err = shortField(root, "Height"); err != nil {
		return nil, err
	}
	if s.Depth, err = shortField(root, "Length"); err != nil {
		return nil, err
	}

	paletteTag, ok := root.Tags["Palette"].(nbt.Compound)
	if !ok {
		return nil, fmt.Errorf("structure: missing or mistyped Palette compound")
	}
	for state, tag := range paletteTag.Tags {
		idx, ok := tag.(nbt.Int)
		if !ok {
			return nil, fmt.Errorf("structure: palette entry %q is %s, want %s",
				state, tag.Kind(), nbt.KindInt)
		}
		s.Palette[idx.Value] = state
	}

	data, ok := root.Tags["BlockData"].(nbt.ByteArray)
	if !ok {
		return nil, fmt.Errorf("structure: missing or mistyped BlockData array")
	}
	s.BlockData = data.Value

	if off, ok := root.Tags["Offset"].(nbt.IntArray); ok && len(off.Value) == 3 {
		for i := 0; i < 3; i++ {
			s.Offset[i] = int(off.Value[i])
		}
	}

	return s, nil
}

func shortField(root *nbt.Compound, name string) (int, error) {
	tag, ok := root.Tags[name].(nbt.Short)
	if !ok {
		return 0, fmt.Errorf("structure: missing or mistyped %s field", name)
	}
	return int(uint16(tag.Value)), nil
}

// DecodeOptions controls command generation.
type DecodeOptions struct {
	// IncludeAir emits commands for air cells instead of skipping them.
	IncludeAir bool
	// Offset translates every emitted coordinate; values are floored.
	Offset [3]float64
	// AirID overrides the air sentinel, default AirBlockID.
	AirID string
	// Logger receives per-cell warnings; nil discards them.
	Logger *log.Logger
}

// run is the pending maximal sequence of identical blocks along X within
// one (y, z) line.
type run struct {
	active   bool
	block    string
	x1, x2   int
	y, z     int
}

// Commands walks the cell stream in the encoder's Y-outer, Z, X order,
// pulling exactly one varint per cell, and emits minimal commands: runs of
// three or more cells collapse into one fill, shorter runs emit setblock
// per cell. An unknown palette index or a skipped air cell breaks the
// current run without aborting generation.
//
// If the stream ends early the commands generated so far are returned
// together with a PrematureStreamEndError. Leftover bytes after the final
// cell are only warned about.
func (s *Schematic) Commands(opts DecodeOptions) ([]string, error) {
	airID := opts.AirID
	if airID == "" {
		airID = AirBlockID
	}

	ox := int(math.Floor(opts.Offset[0]))
	oy := int(math.Floor(opts.Offset[1]))
	oz := int(math.Floor(opts.Offset[2]))

	stream := nbt.NewVarIntStream(s.BlockData)
	warned := bitset.New(warnTrackLimit)
	var warnedFar map[uint32]bool

	volume := s.Width * s.Height * s.Depth
	cells := 0
	var cmds []string
	var pending run

	flush := func() {
		if !pending.active {
			return
		}
		if pending.x2-pending.x1+1 >= 3 {
			cmds = append(cmds, fmt.Sprintf("fill ~%d ~%d ~%d ~%d ~%d ~%d %s",
				pending.x1+ox, pending.y+oy, pending.z+oz,
				pending.x2+ox, pending.y+oy, pending.z+oz, pending.block))
		} else {
			for x := pending.x1; x <= pending.x2; x++ {
				cmds = append(cmds, fmt.Sprintf("setblock ~%d ~%d ~%d %s",
					x+ox, pending.y+oy, pending.z+oz, pending.block))
			}
		}
		pending.active = false
	}

	for y := 0; y < s.Height; y++ {
		for z := 0; z < s.Depth; z++ {
			for x := 0; x < s.Width; x++ {
				idx, err := stream.Next()
				if err == nbt.ErrEndOfStream {
					flush()
					return cmds, &PrematureStreamEndError{Read: cells, Expected: volume}
				}
				if err != nil {
					flush()
					return cmds, err
				}
				cells++

				state, known := s.Palette[int32(idx)]
				if !known {
					if !indexWarned(warned, &warnedFar, idx) {
						logf(opts.Logger, "unknown palette index %d at (%d,%d,%d), skipping", idx, x, y, z)
					}
					flush()
					continue
				}

				if !opts.IncludeAir && blockID(state) == airID {
					flush()
					continue
				}

				if pending.active && pending.block == state && pending.y == y && pending.z == z {
					pending.x2 = x
					continue
				}
				flush()
				pending = run{active: true, block: state, x1: x, x2: x, y: y, z: z}
			}
			flush()
		}
	}

	if rest := stream.Remaining(); rest > 0 {
		logf(opts.Logger, "%d bytes of cell data left over after %d cells", rest, volume)
	}
	return cmds, nil
}

// warnTrackLimit bounds the bitset backing the warn-once set. Setting a bit
// grows the set to the index value, so stream-supplied indices above the
// limit are tracked in a side map instead.
const warnTrackLimit = 1 << 16

// indexWarned records idx in the warn-once set and reports whether it was
// already present.
func indexWarned(set *bitset.BitSet, far *map[uint32]bool, idx uint32) bool {
	if idx < warnTrackLimit {
		prev := set.Test(uint(idx))
		set.Set(uint(idx))
		return prev
	}
	if *far == nil {
		*far = make(map[uint32]bool)
	}
	prev := (*far)[idx]
	(*far)[idx] = true
	return prev
}

// blockID strips the state list off a palette block-state string.
func blockID(state string) string {
	if open := strings.IndexByte(state, '['); open >= 0 {
		return state[:open]
	}
	return state
}

func logf(l *log.Logger, format string, args ...any) {
	if l != nil {
		l.Printf(format, args...)
	}
}
