package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mulfile/pkg/mul"
)

func main() {
	app := &cli.Command{
		Name:  "mul",
		Usage: "Inspect and convert Aarhus STM image files",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			inspectCmd(),
			convertCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadOptions translates the shared CLI flags into decode options.
// Without --verbose the library stays silent.
func loadOptions(verbose bool) []mul.Option {
	if !verbose {
		return nil
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return []mul.Option{mul.WithLogger(logger)}
}
