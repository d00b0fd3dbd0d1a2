// Package cli implements the dashctl command line tool.
package cli

import (
	"context"
	"io"

	"github.com/diewo77/dashcore/internal/logging"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

type globals struct {
	logLevel  string
	logFormat string
	lang      string
	noColor   bool
}

func (g *globals) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "warn",
			Sources:     cli.EnvVars("DASHCTL_LOG_LEVEL"),
			Destination: &g.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Value:       "console",
			Sources:     cli.EnvVars("DASHCTL_LOG_FORMAT"),
			Destination: &g.logFormat,
		},
		&cli.StringFlag{
			Name:        "lang",
			Usage:       "Output language (fr, en)",
			Value:       "en",
			Sources:     cli.EnvVars("DASHCTL_LANG"),
			Destination: &g.lang,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored output",
			Destination: &g.noColor,
		},
	}
}

// Run executes dashctl with args (including the program name), writing
// results to out.
func Run(ctx context.Context, args []string, out io.Writer) error {
	var g globals

	app := &cli.Command{
		Name:   "dashctl",
		Usage:  "Compute quote totals and contract risk from document files",
		Flags:  g.flags(),
		Writer: out,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logging.SetDefault(logging.New(logging.Config{Level: g.logLevel, Format: g.logFormat}))
			if g.noColor {
				color.NoColor = true
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdQuote(&g, out),
			cmdContract(&g, out),
			cmdVariance(&g, out),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("dashctl failed", "error", err.Error())
		return err
	}
	return nil
}
