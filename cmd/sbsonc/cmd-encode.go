// cmd-encode.go - 'encode' command implementation

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Gilnaa/sbson"
	"github.com/Gilnaa/sbson/internal/jsonvalue"
)

func newEncodeCmd() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "encode a JSON document as SBSON",
		ArgsUsage: "INPUT.json OUTPUT.sbson",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "phf-threshold",
				Value: uint(sbson.DefaultPHFThreshold),
				Usage: "minimum map size indexed with the perfect hash",
			},
		},
		Action: runEncode,
	}
}

func runEncode(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("encode: need INPUT.json and OUTPUT.sbson; see 'sbsonc encode -h'")
	}
	in, out := c.Args().Get(0), c.Args().Get(1)

	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	v, err := jsonvalue.FromJSON(data)
	if err != nil {
		return fmt.Errorf("encode: %s: %w", in, err)
	}

	opt := sbson.EncodeOptions{PHFThreshold: uint32(c.Uint("phf-threshold"))}
	b, err := sbson.Encode(v, &opt)
	if err != nil {
		return fmt.Errorf("encode: %s: %w", in, err)
	}

	if err = writeDocument(out, b); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
