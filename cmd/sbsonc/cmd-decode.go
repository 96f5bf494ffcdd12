// cmd-decode.go - 'decode' command implementation

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Gilnaa/sbson"
	"github.com/Gilnaa/sbson/internal/jsonvalue"
)

func newDecodeCmd() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "decode an SBSON document back to JSON",
		ArgsUsage: "INPUT.sbson [OUTPUT.json]",
		Action:    runDecode,
	}
}

func runDecode(c *cli.Context) error {
	if c.NArg() < 1 || c.NArg() > 2 {
		return fmt.Errorf("decode: need INPUT.sbson and an optional OUTPUT.json")
	}

	mf, b, err := openDocument(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	defer mf.Close()

	v, err := sbson.Decode(b)
	if err != nil {
		return fmt.Errorf("decode: %s: %w", c.Args().Get(0), err)
	}

	j, err := jsonvalue.ToJSON(v)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	j = append(j, '\n')

	if c.NArg() == 2 {
		return writeDocument(c.Args().Get(1), j)
	}
	_, err = os.Stdout.Write(j)
	return err
}
