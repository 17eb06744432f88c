package structure

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommandFill(t *testing.T) {
	cmd, ok, err := ParseCommand("fill 0 64 0 4 64 4 stone", [3]int{0, 0, 0})
	if err != nil || !ok {
		t.Fatalf("ParseCommand: ok=%v err=%v", ok, err)
	}
	if cmd.Kind != CommandFill {
		t.Fatalf("kind = %v, want fill", cmd.Kind)
	}
	if cmd.From != [3]int{0, 64, 0} || cmd.To != [3]int{4, 64, 4} {
		t.Fatalf("bounds = %v..%v", cmd.From, cmd.To)
	}
	if cmd.Block.Name != "stone" {
		t.Fatalf("block = %q", cmd.Block.Name)
	}
}

func TestParseCommandRelativeCoords(t *testing.T) {
	origin := [3]int{100, 64, -20}
	cmd, ok, err := ParseCommand("setblock ~ ~5 ~-3 minecraft:dirt", origin)
	if err != nil || !ok {
		t.Fatalf("ParseCommand: ok=%v err=%v", ok, err)
	}
	if cmd.From != [3]int{100, 69, -23} {
		t.Fatalf("resolved = %v, want [100 69 -23]", cmd.From)
	}
}

func TestParseCommandStates(t *testing.T) {
	cmd, _, err := ParseCommand(
		`setblock 0 0 0 minecraft:door[open=true,facing="north",half=2,shape=odd]`,
		[3]int{})
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	want := map[string]any{
		"open":   true,
		"facing": "north",
		"half":   2,
		"shape":  "odd",
	}
	if diff := cmp.Diff(want, cmd.Block.States); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCommandQuotedBool(t *testing.T) {
	cmd, _, err := ParseCommand(`setblock 0 0 0 b[lit="false"]`, [3]int{})
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if v, ok := cmd.Block.States["lit"].(bool); !ok || v {
		t.Fatalf("lit = %#v, want false bool", cmd.Block.States["lit"])
	}
}

func TestParseCommandErrors(t *testing.T) {
	cases := []string{
		"teleport 1 2 3",
		"fill 0 0 0 1 1 stone",
		"setblock a 0 0 stone",
		"setblock 0 0 0 stone[open",
		"setblock 0 0 0 stone[facing]",
		"setblock ~x 0 0 stone",
	}
	for _, line := range cases {
		if _, _, err := ParseCommand(line, [3]int{}); err == nil {
			t.Errorf("ParseCommand(%q) should fail", line)
		}
	}
}

func TestParseCommandSkipsBlankAndComments(t *testing.T) {
	for _, line := range []string{"", "   ", "# a comment"} {
		if _, ok, err := ParseCommand(line, [3]int{}); ok || err != nil {
			t.Errorf("ParseCommand(%q): ok=%v err=%v, want skip", line, ok, err)
		}
	}
}

func TestReadScriptLastWriteWins(t *testing.T) {
	script := strings.Join([]string{
		"# build a floor, then punch a hole in it",
		"fill 0 0 0 2 0 0 stone",
		"setblock 1 0 0 air",
	}, "\n")

	w := NewWorld()
	if err := ReadScript(strings.NewReader(script), [3]int{}, w); err != nil {
		t.Fatalf("ReadScript: %v", err)
	}
	if w.Len() != 3 {
		t.Fatalf("world has %d cells, want 3", w.Len())
	}
	if got := w.cells[[3]int{1, 0, 0}].Name; got != "air" {
		t.Fatalf("cell (1,0,0) = %q, want air", got)
	}
}

func TestReadScriptReportsLineNumber(t *testing.T) {
	script := "fill 0 0 0 1 0 0 stone\nbogus 1 2 3\n"
	err := ReadScript(strings.NewReader(script), [3]int{}, NewWorld())
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("got %v, want line 2 error", err)
	}
}
