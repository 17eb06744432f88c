package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/seywood/cmd2struct/nbt"
	"github.com/seywood/cmd2struct/structure"
)

func main() {
	app := &cli.App{
		Name:  "cmd2struct",
		Usage: "converts fill/setblock command scripts to structure files and back",
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "build a structure file from a command script",
				ArgsUsage: "[script file, or - for stdin]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
					&cli.StringFlag{Name: "config", Usage: "YAML job options file"},
					&cli.StringFlag{Name: "namespace", Usage: "namespace for unqualified block ids"},
				},
				Action: runEncode,
			},
			{
				Name:      "decode",
				Usage:     "regenerate a command script from a structure file",
				ArgsUsage: "[structure file, or - for stdin]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
					&cli.StringFlag{Name: "config", Usage: "YAML job options file"},
					&cli.BoolFlag{Name: "include-air", Usage: "emit commands for air cells too"},
					&cli.StringFlag{Name: "offset", Usage: "x,y,z translation applied to every command"},
				},
				Action: runDecode,
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func runEncode(c *cli.Context) error {
	opts, err := loadOptions(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("namespace") {
		opts.Namespace = c.String("namespace")
	}

	raw, err := readInput(c.Args().Get(0))
	if err != nil {
		return err
	}

	world := structure.NewWorld()
	if err := structure.ReadScript(bytes.NewReader(raw), opts.Origin, world); err != nil {
		return err
	}
	enc, err := world.Encode(opts.Namespace)
	if err != nil {
		return err
	}

	doc := enc.Document()
	out, err := nbt.Marshal(doc, documentEstimate(doc))
	if err != nil {
		return err
	}
	return writeOutput(c.String("out"), out)
}

// documentEstimate sizes the writer's buffer guess from the JSON form of the
// document itself. The input script length is no proxy: a one-line fill can
// expand into millions of cells.
func documentEstimate(doc map[string]any) int {
	raw, err := json.Marshal(doc)
	if err != nil {
		return 0
	}
	return len(raw)
}

func runDecode(c *cli.Context) error {
	opts, err := loadOptions(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("include-air") {
		opts.IncludeAir = c.Bool("include-air")
	}
	if c.IsSet("offset") {
		if opts.Offset, err = parseOffset(c.String("offset")); err != nil {
			return err
		}
	}

	raw, err := readInput(c.Args().Get(0))
	if err != nil {
		return err
	}
	root, err := nbt.NewReader(raw).ReadRoot()
	if err != nil {
		return err
	}
	schem, err := structure.ParseSchematic(root)
	if err != nil {
		return err
	}

	// The file's own paste offset stacks with the user-supplied one.
	for i := 0; i < 3; i++ {
		opts.Offset[i] += float64(schem.Offset[i])
	}

	cmds, genErr := schem.Commands(structure.DecodeOptions{
		IncludeAir: opts.IncludeAir,
		Offset:     opts.Offset,
		AirID:      opts.AirBlock,
		Logger:     log.New(os.Stderr, "[decode] ", log.LstdFlags),
	})

	var premature *structure.PrematureStreamEndError
	if genErr != nil && !errors.As(genErr, &premature) {
		return genErr
	}

	var buf strings.Builder
	for _, cmd := range cmds {
		fmt.Fprintln(&buf, cmd)
	}
	if err := writeOutput(c.String("out"), []byte(buf.String())); err != nil {
		return err
	}
	// Truncated input still produced usable commands; surface the error
	// after writing them.
	return genErr
}
