package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mulfile/pkg/mul"
)

func inspectCmd() *cli.Command {
	var (
		input   string
		asJSON  bool
		verbose bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Print the image records of a .mul or .flm file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"in"},
				Usage:       "path to a .mul or .flm file",
				Destination: &input,
				Required:    true,
			},
			&cli.BoolFlag{Name: "json", Usage: "dump metadata as a JSON array", Destination: &asJSON},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log decode progress to stderr", Destination: &verbose},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_ = ctx

			col, err := mul.Load(input, loadOptions(verbose)...)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load %q: %v", input, err), 1)
			}

			if asJSON {
				return col.WriteMetadataJSON(os.Stdout)
			}

			fmt.Printf("File: %s\n", filepath.Base(input))
			fmt.Printf("Records: %d\n", col.Len())
			for i := 0; i < col.Len(); i++ {
				printRecord(col.At(i))
			}
			return nil
		},
	}
}

func printRecord(rec *mul.Record) {
	section(rec.ID)
	row("title", rec.Title)
	row("sample", rec.Sample)
	row("acquired", rec.Timestamp.Format("2006-01-02 15:04:05"))
	row("resolution", fmt.Sprintf("%dx%d px", rec.XRes, rec.YRes))
	row("area", fmt.Sprintf("%gx%g nm", rec.XSize, rec.YSize))
	row("offset", fmt.Sprintf("%g/%g nm", rec.XOffset, rec.YOffset))
	row("bias", fmt.Sprintf("%g mV", rec.Bias))
	row("current", fmt.Sprintf("%g nA", rec.Current))
	row("speed", fmt.Sprintf("%g s (%g ms/line)", rec.Speed, rec.LineTime))
	rowInt("tilt", rec.Tilt)
	rowInt("gain", rec.Gain)
	rowInt("mode", rec.Mode)
	rowInt("pointscans", rec.PointScans)
}

func section(title string) {
	line := strings.Repeat("-", len(title)+8)
	fmt.Printf("\n%s\n--- %s ---\n%s\n", line, title, line)
}

func row(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%-24s %s\n", label+":", value)
}

func rowInt(label string, v int) {
	if v == 0 {
		return
	}
	row(label, fmt.Sprintf("%d", v))
}
