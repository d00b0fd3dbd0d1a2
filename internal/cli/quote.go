package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/diewo77/dashcore/i18n"
	"github.com/diewo77/dashcore/internal/docfile"
	"github.com/diewo77/dashcore/internal/logging"
	"github.com/diewo77/dashcore/pricing"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

var errMissingArg = goerr.New("missing argument")

func cmdQuote(g *globals, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "quote",
		Usage: "Quote operations",
		Commands: []*cli.Command{
			{
				Name:      "totals",
				Usage:     "Compute the totals of a quote file (.toml, .yaml, .json)",
				ArgsUsage: "FILE",
				Action: func(ctx context.Context, c *cli.Command) error {
					path := c.Args().First()
					if path == "" {
						return goerr.Wrap(errMissingArg, "quote file is required")
					}
					return quoteTotals(g, out, path)
				},
			},
		},
	}
}

func quoteTotals(g *globals, out io.Writer, path string) error {
	q, err := docfile.LoadQuote(path)
	if err != nil {
		return err
	}
	doc, err := q.Document()
	if err != nil {
		return goerr.Wrap(err, "invalid quote file", goerr.V("path", path))
	}
	totals, err := doc.Totals()
	if err != nil {
		return goerr.Wrap(err, "cannot compute totals", goerr.V("path", path))
	}
	logging.Default().Debug("quote computed", "path", path, "items", len(doc.Items), "tax_mode", totals.TaxMode.String())

	printTotals(g, out, q.Reference, totals)
	return nil
}

func printTotals(g *globals, out io.Writer, ref string, t pricing.Totals) {
	bold := color.New(color.Bold)
	if ref != "" {
		bold.Fprintf(out, "Quote %s (%s)\n", ref, t.TaxMode)
	} else {
		bold.Fprintf(out, "Quote (%s)\n", t.TaxMode)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tsubtotal\tdiscount\tafter discount\ttax\ttotal\t")
	for i, l := range t.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n", i+1,
			l.Subtotal.StringFixed(2), l.DiscountAmount.StringFixed(2), l.AfterDiscount.StringFixed(2),
			l.Tax.StringFixed(2), l.Total.StringFixed(2))
	}
	_ = tw.Flush()

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Subtotal\t%s\n", t.Subtotal.StringFixed(2))
	fmt.Fprintf(tw, "Discount\t%s\n", t.DiscountAmount.StringFixed(2))
	fmt.Fprintf(tw, "After discount\t%s\n", t.AfterDiscount.StringFixed(2))
	fmt.Fprintf(tw, "Tax\t%s\n", t.TaxAmount.StringFixed(2))
	fmt.Fprintf(tw, "Total\t%s\n", t.TotalAmount.StringFixed(2))
	_ = tw.Flush()

	if t.OverDiscount {
		color.New(color.FgRed, color.Bold).Fprintf(out, "! %s\n", i18n.T(g.lang, "over_discount"))
	}
}
