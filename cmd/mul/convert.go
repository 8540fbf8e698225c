package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mulfile/pkg/mul"
)

func convertCmd() *cli.Command {
	var (
		input   string
		output  string
		from    int
		to      int
		workers int
		verbose bool
	)

	return &cli.Command{
		Name:  "convert",
		Usage: "Convert a .mul or .flm file into an HDF5 archive",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"in"},
				Usage:       "path to a .mul or .flm file",
				Destination: &input,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"out"},
				Usage:       "output .h5 path (default: the input path with an .h5 extension)",
				Destination: &output,
			},
			&cli.IntFlag{Name: "from", Usage: "first record to convert (0-based)", Destination: &from},
			&cli.IntFlag{Name: "to", Usage: "record after the last to convert (0 = end)", Destination: &to},
			&cli.IntFlag{Name: "workers", Usage: "concurrent decodes of index-referenced files", Value: 4, Destination: &workers},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log decode progress to stderr", Destination: &verbose},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_ = ctx

			opts := append(loadOptions(verbose), mul.WithWorkers(workers))
			col, err := mul.Load(input, opts...)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load %q: %v", input, err), 1)
			}

			view := col
			if from > 0 || to > 0 {
				stop := col.Len()
				if to > 0 {
					stop = to
				}
				view = col.Slice(from, stop)
			}
			if view.Len() == 0 {
				return cli.Exit("error: no records selected", 1)
			}

			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".h5"
			}
			if err := view.SaveHDF5(output); err != nil {
				return cli.Exit(fmt.Sprintf("error: write %q: %v", output, err), 1)
			}

			fmt.Printf("Wrote %d of %d records to %s\n", view.Len(), col.Len(), output)
			return nil
		},
	}
}
