// cmd-dump.go - 'dump' command implementation

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opencoff/go-fasthash"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"

	"github.com/Gilnaa/sbson"
)

// seed for the dump fingerprint; only stability across runs matters
const _FingerprintSeed = 0xdeadbeefbaadf00d

func newDumpCmd() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "show the structure and contents of an SBSON document",
		ArgsUsage: "INPUT.sbson",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "output format: text or yaml",
			},
			&cli.BoolFlag{
				Name:    "meta",
				Aliases: []string{"m"},
				Usage:   "show only document metadata",
			},
		},
		Action: runDump,
	}
}

func runDump(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("dump: need INPUT.sbson; see 'sbsonc dump -h'")
	}
	fn := c.Args().Get(0)

	mf, b, err := openDocument(fn)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	defer mf.Close()

	root, err := sbson.View(b)
	if err != nil {
		return fmt.Errorf("dump: %s: %w", fn, err)
	}

	fmt.Printf("%s: %d bytes, root %s, fingerprint %#x\n",
		fn, len(b), root.Tag(), fasthash.Hash64(_FingerprintSeed, b))
	if c.Bool("meta") {
		return dumpMeta(os.Stdout, root)
	}

	switch c.String("format") {
	case "text":
		return dumpText(os.Stdout, root, 1)

	case "yaml":
		v, err := sbson.Decode(b)
		if err != nil {
			return fmt.Errorf("dump: %s: %w", fn, err)
		}
		out, err := yaml.Marshal(plainValue(v))
		if err != nil {
			return fmt.Errorf("dump: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	return fmt.Errorf("dump: unknown format '%s'", c.String("format"))
}

func dumpMeta(w io.Writer, tv sbson.TypedView) error {
	switch tv.Tag() {
	case sbson.TagMap, sbson.TagMapCHD:
		n, err := tv.Len()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s with %d keys\n", tv.Tag(), n)

	case sbson.TagArray:
		n, err := tv.Len()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  array with %d elements\n", n)

	default:
		fmt.Fprintf(w, "  %s scalar, %d bytes\n", tv.Tag(), tv.Size())
	}
	return nil
}

func dumpText(w io.Writer, tv sbson.TypedView, depth int) error {
	pad := strings.Repeat("  ", depth)

	switch tv.Tag() {
	case sbson.TagMap, sbson.TagMapCHD:
		n, _ := tv.Len()
		fmt.Fprintf(w, "%s[%d keys]\n", tv.Tag(), n)
		return tv.IterFunc(func(k string, v sbson.TypedView) error {
			fmt.Fprintf(w, "%s%s: ", pad, k)
			return dumpText(w, v, depth+1)
		})

	case sbson.TagArray:
		n, _ := tv.Len()
		fmt.Fprintf(w, "array[%d]\n", n)
		for i := 0; i < n; i++ {
			v, err := tv.At(i)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s%d: ", pad, i)
			if err = dumpText(w, v, depth+1); err != nil {
				return err
			}
		}
		return nil

	case sbson.TagString:
		s, err := tv.Str()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%q\n", s)

	case sbson.TagBinary:
		p, err := tv.Bytes()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "binary[%d] %#x\n", len(p), fasthash.Hash64(_FingerprintSeed, p))

	case sbson.TagTrue, sbson.TagFalse:
		v, _ := tv.Bool()
		fmt.Fprintf(w, "%v\n", v)

	case sbson.TagNull:
		fmt.Fprintf(w, "null\n")

	default:
		u, err := tv.Uint()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d (%s)\n", u, tv.Tag())
	}
	return nil
}

// plainValue lowers an sbson.Value to the interface{} shapes the yaml
// marshaler understands.
func plainValue(v sbson.Value) interface{} {
	switch v.Kind() {
	case sbson.KindNull:
		return nil
	case sbson.KindBool:
		return v.AsBool()
	case sbson.KindInt:
		return v.AsInt()
	case sbson.KindUint:
		return v.AsUint()
	case sbson.KindString:
		return v.AsString()
	case sbson.KindBinary:
		return v.AsBinary()
	case sbson.KindArray:
		arr := v.AsArray()
		out := make([]interface{}, len(arr))
		for i := range arr {
			out[i] = plainValue(arr[i])
		}
		return out
	case sbson.KindMap:
		out := make(map[string]interface{}, len(v.AsMap()))
		for k, e := range v.AsMap() {
			out[k] = plainValue(e)
		}
		return out
	}
	return nil
}
