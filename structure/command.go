// Package structure converts between text block commands and the
// palette-compressed structure representation: a sparse voxel world built
// from fill/setblock operations on one side, and a run-merged command
// emitter fed by a palette-indexed cell stream on the other.
package structure

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultNamespace is prefixed onto block ids given without one.
const DefaultNamespace = "minecraft"

// AirBlockID is the sentinel block the decoder can be told to skip.
const AirBlockID = "minecraft:air"

// Block is one voxel's content: a block id plus its state map. State values
// are bool, int or string, as coerced by parseStates.
type Block struct {
	Name   string
	States map[string]any
}

type CommandKind int

const (
	CommandFill CommandKind = iota
	CommandSetBlock
)

// Command is one parsed fill or setblock operation with coordinates already
// resolved against the local origin.
type Command struct {
	Kind     CommandKind
	From, To [3]int
	Block    Block
}

// ParseCommand parses one command line. Relative coordinate tokens (leading
// "~") are resolved against origin. Blank lines and "#" comments return
// ok=false with no error.
func ParseCommand(line string, origin [3]int) (cmd Command, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Command{}, false, nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "fill":
		if len(fields) != 8 {
			return Command{}, false, fmt.Errorf("fill wants 7 arguments, got %d", len(fields)-1)
		}
		cmd.Kind = CommandFill
		for i := 0; i < 3; i++ {
			if cmd.From[i], err = parseCoord(fields[1+i], origin[i]); err != nil {
				return Command{}, false, err
			}
			if cmd.To[i], err = parseCoord(fields[4+i], origin[i]); err != nil {
				return Command{}, false, err
			}
		}
		if cmd.Block, err = parseBlock(fields[7]); err != nil {
			return Command{}, false, err
		}
		return cmd, true, nil

	case "setblock":
		if len(fields) != 5 {
			return Command{}, false, fmt.Errorf("setblock wants 4 arguments, got %d", len(fields)-1)
		}
		cmd.Kind = CommandSetBlock
		for i := 0; i < 3; i++ {
			if cmd.From[i], err = parseCoord(fields[1+i], origin[i]); err != nil {
				return Command{}, false, err
			}
		}
		cmd.To = cmd.From
		if cmd.Block, err = parseBlock(fields[4]); err != nil {
			return Command{}, false, err
		}
		return cmd, true, nil

	default:
		return Command{}, false, fmt.Errorf("unknown command %q", fields[0])
	}
}

// parseCoord resolves one coordinate token: "~" or "~n" is origin-relative,
// anything else must be an absolute integer.
func parseCoord(token string, origin int) (int, error) {
	if strings.HasPrefix(token, "~") {
		rest := token[1:]
		if rest == "" {
			return origin, nil
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			return 0, fmt.Errorf("bad relative coordinate %q", token)
		}
		return origin + n, nil
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("bad coordinate %q", token)
	}
	return n, nil
}

// parseBlock splits "id[k=v,...]" into a block id and its coerced states.
func parseBlock(token string) (Block, error) {
	open := strings.IndexByte(token, '[')
	if open < 0 {
		return Block{Name: token, States: map[string]any{}}, nil
	}
	if !strings.HasSuffix(token, "]") {
		return Block{}, fmt.Errorf("unterminated state list in %q", token)
	}
	b := Block{Name: token[:open], States: map[string]any{}}
	body := token[open+1 : len(token)-1]
	if body == "" {
		return b, nil
	}
	for _, pair := range strings.Split(body, ",") {
		eq := strings.IndexByte(pair, '=')
		if eq < 0 {
			return Block{}, fmt.Errorf("bad state token %q in %q", pair, token)
		}
		key := strings.TrimSpace(pair[:eq])
		b.States[key] = coerceStateValue(strings.TrimSpace(pair[eq+1:]))
	}
	return b, nil
}

// coerceStateValue maps a raw state token onto bool, string or int:
// true/false (quoted or not) become bool, quoted values become strings with
// the quotes stripped, and anything else is tried as an integer before
// falling back to the raw string.
func coerceStateValue(raw string) any {
	unquoted := raw
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		unquoted = raw[1 : len(raw)-1]
	}
	switch unquoted {
	case "true":
		return true
	case "false":
		return false
	}
	if unquoted != raw {
		return unquoted
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}

// ReadScript applies every command line from r to the world. Parse failures
// abort with the offending line number.
func ReadScript(r io.Reader, origin [3]int, world *World) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		cmd, ok, err := ParseCommand(scanner.Text(), origin)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !ok {
			continue
		}
		world.Apply(cmd)
	}
	return scanner.Err()
}
