package main

import (
	"fmt"
	"log"
	"os"

	"github.com/andreyvit/docpack"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "docpack",
		Usage: "compile a tree of structured documents into a single pack file",
		Commands: []*cli.Command{
			{
				Name:  "compile",
				Usage: "flatten source documents into an ordered key-value pack",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "src",
						Usage:    "directory holding the source documents",
						EnvVars:  []string{"DOCPACK_SRC"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "dest",
						Usage:    "destination pack file",
						EnvVars:  []string{"DOCPACK_DEST"},
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "recursive",
						Usage: "descend into subdirectories when scanning sources",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "log every packed document and pruned key",
					},
				},
				Action: runCompile,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCompile(c *cli.Context) error {
	return docpack.Compile(c.String("src"), c.String("dest"), docpack.DefaultSchema(), docpack.Options{
		Recursive: c.Bool("recursive"),
		Verbose:   c.Bool("verbose"),
		Logf:      log.Printf,
	})
}
