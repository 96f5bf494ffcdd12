// main.go - sbsonc: encode, inspect and verify SBSON documents

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "sbsonc",
		Usage: "encode, inspect and verify SBSON documents",
		Description: "sbsonc converts JSON documents to the SBSON binary format and back,\n" +
			"dumps document structure, resolves key paths without materializing\n" +
			"the full tree, and verifies document integrity.",
		Commands: []*cli.Command{
			newEncodeCmd(),
			newDecodeCmd(),
			newDumpCmd(),
			newGetCmd(),
			newFsckCmd(),
		},
	}

	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.Run(os.Args); err != nil {
		die("%s", err)
	}
}

// die with error
func die(f string, v ...interface{}) {
	warn(f, v...)
	os.Exit(1)
}

func warn(f string, v ...interface{}) {
	z := fmt.Sprintf("%s: %s", os.Args[0], f)
	s := fmt.Sprintf(z, v...)
	if n := len(s); s[n-1] != '\n' {
		s += "\n"
	}

	os.Stderr.WriteString(s)
	os.Stderr.Sync()
}
