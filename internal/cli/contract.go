package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/diewo77/dashcore/i18n"
	"github.com/diewo77/dashcore/internal/config"
	"github.com/diewo77/dashcore/internal/docfile"
	"github.com/diewo77/dashcore/internal/logging"
	"github.com/diewo77/dashcore/pricing"
	"github.com/diewo77/dashcore/risk"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
)

var levelColors = map[risk.Level]*color.Color{
	risk.LevelLow:      color.New(color.FgGreen),
	risk.LevelMedium:   color.New(color.FgYellow),
	risk.LevelHigh:     color.New(color.FgRed),
	risk.LevelCritical: color.New(color.FgRed, color.Bold),
}

func cmdContract(g *globals, out io.Writer) *cli.Command {
	var now string
	return &cli.Command{
		Name:  "contract",
		Usage: "Contract operations",
		Commands: []*cli.Command{
			{
				Name:      "risk",
				Usage:     "Assess the risk of a contract file (.toml, .yaml, .json)",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "now",
						Usage:       "Reference time (RFC 3339), defaults to the current time",
						Destination: &now,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					path := c.Args().First()
					if path == "" {
						return goerr.Wrap(errMissingArg, "contract file is required")
					}
					at := time.Now()
					if now != "" {
						t, err := time.Parse(time.RFC3339, now)
						if err != nil {
							return goerr.Wrap(err, "invalid --now", goerr.V("now", now))
						}
						at = t
					}
					return contractRisk(g, out, path, at)
				},
			},
		},
	}
}

func contractRisk(g *globals, out io.Writer, path string, now time.Time) error {
	rules, err := config.Load().Risk.Rules()
	if err != nil {
		return err
	}
	f, err := docfile.LoadContract(path)
	if err != nil {
		return err
	}
	c, err := f.Contract()
	if err != nil {
		return goerr.Wrap(err, "invalid contract file", goerr.V("path", path))
	}
	a := risk.Assess(c, rules, now)
	logging.Default().Debug("contract assessed", "path", path, "factors", len(a.Factors))

	label := i18n.T(g.lang, "risk_"+string(a.Level))
	name := f.Reference
	if name == "" {
		name = path
	}
	color.New(color.Bold).Fprintf(out, "Contract %s\n", name)
	fmt.Fprintf(out, "Risk score: %d  ", a.Score)
	levelColors[a.Level].Fprintf(out, "%s\n", label)
	for _, fac := range a.Factors {
		fmt.Fprintf(out, "  - [%s/%s] %s: %s\n", fac.Category, fac.Severity, fac.Code, fac.Description)
	}
	if counts := a.CountBy(); len(counts) > 0 {
		cats := slices.Sorted(maps.Keys(counts))
		parts := make([]string, len(cats))
		for i, c := range cats {
			parts[i] = fmt.Sprintf("%s=%d", c, counts[c])
		}
		fmt.Fprintf(out, "By category: %s\n", strings.Join(parts, " "))
	}
	return nil
}

func cmdVariance(g *globals, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "variance",
		Usage:     "Percent change from BASE to VALUE",
		ArgsUsage: "BASE VALUE",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return goerr.Wrap(errMissingArg, "BASE and VALUE are required")
			}
			base, err := decimal.NewFromString(c.Args().Get(0))
			if err != nil {
				return goerr.Wrap(err, "invalid BASE", goerr.V("base", c.Args().Get(0)))
			}
			value, err := decimal.NewFromString(c.Args().Get(1))
			if err != nil {
				return goerr.Wrap(err, "invalid VALUE", goerr.V("value", c.Args().Get(1)))
			}
			change := pricing.PercentChange(base, value)
			if !change.Defined {
				fmt.Fprintln(out, i18n.T(g.lang, "undefined"))
				return nil
			}
			fmt.Fprintln(out, change.String())
			return nil
		},
	}
}
