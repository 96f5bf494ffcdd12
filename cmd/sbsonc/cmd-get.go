// cmd-get.go - 'get' command implementation

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/golang-lru/arc/v2"
	"github.com/urfave/cli/v2"

	"github.com/Gilnaa/sbson"
	"github.com/Gilnaa/sbson/internal/jsonvalue"
)

func newGetCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "resolve key paths in a document and print the values as JSON",
		ArgsUsage: "INPUT.sbson PATH...",
		Description: "PATH is a dot-separated chain of map keys and array indices,\n" +
			"e.g. top.item_0042.something.7 -- only the elements along the path\n" +
			"are read; the rest of the document is never touched.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "cache-size",
				Value: 128,
				Usage: "number of resolved path prefixes kept for reuse",
			},
		},
		Action: runGet,
	}
}

func runGet(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("get: need INPUT.sbson and at least one PATH")
	}

	mf, b, err := openDocument(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	defer mf.Close()

	root, err := sbson.View(b)
	if err != nil {
		return fmt.Errorf("get: %s: %w", c.Args().Get(0), err)
	}

	size := c.Int("cache-size")
	if size <= 0 {
		size = 128
	}

	// resolved prefixes are shared across the requested paths, so
	// sibling paths skip re-probing the maps above their fork point
	cache, err := arc.NewARC[string, sbson.TypedView](size)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}

	for _, path := range c.Args().Slice()[1:] {
		tv, err := resolvePath(root, path, cache)
		if err != nil {
			return fmt.Errorf("get: %s: %w", path, err)
		}

		v, err := tv.Materialize()
		if err != nil {
			return fmt.Errorf("get: %s: %w", path, err)
		}
		j, err := jsonvalue.ToJSON(v)
		if err != nil {
			return fmt.Errorf("get: %s: %w", path, err)
		}
		fmt.Printf("%s: %s\n", path, j)
	}
	return nil
}

func resolvePath(root sbson.TypedView, path string, cache *arc.ARCCache[string, sbson.TypedView]) (sbson.TypedView, error) {
	segs := strings.Split(path, ".")
	tv := root
	start := 0

	// longest cached prefix wins
	for i := len(segs); i > 0; i-- {
		if v, ok := cache.Get(strings.Join(segs[:i], ".")); ok {
			tv, start = v, i
			break
		}
	}

	for i := start; i < len(segs); i++ {
		seg := segs[i]
		var next sbson.TypedView
		var err error

		switch tv.Tag() {
		case sbson.TagArray:
			idx, cerr := strconv.Atoi(seg)
			if cerr != nil {
				return sbson.TypedView{}, fmt.Errorf("segment '%s' indexes an array", seg)
			}
			next, err = tv.At(idx)
			if err != nil {
				return sbson.TypedView{}, err
			}

		case sbson.TagMap, sbson.TagMapCHD:
			var found bool
			next, found, err = tv.Lookup(seg)
			if err != nil {
				return sbson.TypedView{}, err
			}
			if !found {
				return sbson.TypedView{}, fmt.Errorf("no key '%s'", seg)
			}

		default:
			return sbson.TypedView{}, fmt.Errorf("segment '%s' descends into a %s scalar", seg, tv.Tag())
		}

		tv = next
		cache.Add(strings.Join(segs[:i+1], "."), tv)
	}

	return tv, nil
}
