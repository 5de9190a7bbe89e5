package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/efreitasn/ccasswatch/internal/handler"
	"github.com/efreitasn/ccasswatch/internal/service"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// optionalInt returns nil for a negative flag value, meaning "not given".
func optionalInt(n int) *int {
	if n < 0 {
		return nil
	}
	return &n
}

// runQuery wires the app with logs on stderr, runs fn and prints its
// result on stdout.
func runQuery(ctx context.Context, fn func(a *app) (any, error)) subcommands.ExitStatus {
	a, err := newApp(ctx, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.close()

	out, err := fn(a)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := writeJSON(os.Stdout, out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type holdingsCmd struct {
	start string
	end   string
	count int
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "print the top participants' holdings over a date range" }
func (*holdingsCmd) Usage() string {
	return `ccasswatch holdings -s <YYYYMMDD> -e <YYYYMMDD> [-n <count>] <stock_code>

  Prints every date's top participants and the end date's holdings for
  plotting, as JSON.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "First date of the range, YYYYMMDD.")
	f.StringVar(&c.end, "e", "", "Last date of the range, YYYYMMDD.")
	f.IntVar(&c.count, "n", -1, "Participants per date (default 10).")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return runQuery(ctx, func(a *app) (any, error) {
		res, err := a.holdingSvc.Detail(ctx, service.DetailRequest{
			StockCode: f.Arg(0),
			StartDate: c.start,
			EndDate:   c.end,
			Count:     optionalInt(c.count),
		})
		if err != nil {
			return nil, err
		}
		return handler.NewDetailView(res), nil
	})
}

type transactionsCmd struct {
	start     string
	end       string
	threshold float64
	count     int
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "infer candidate transactions between participants" }
func (*transactionsCmd) Usage() string {
	return `ccasswatch transactions -s <YYYYMMDD> -e <YYYYMMDD> -t <pct> [-n <count>] <stock_code>

  Pairs participants whose holdings rose by more than the threshold (in
  percentage points) with participants whose holdings fell on the same day.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "First date of the range, YYYYMMDD.")
	f.StringVar(&c.end, "e", "", "Last date of the range, YYYYMMDD.")
	f.Float64Var(&c.threshold, "t", 0, "Minimum daily change in percentage points.")
	f.IntVar(&c.count, "n", -1, "Participants per date (default 20).")
}

func (c *transactionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	threshold := c.threshold
	return runQuery(ctx, func(a *app) (any, error) {
		res, err := a.holdingSvc.Transactions(ctx, service.TransactionsRequest{
			StockCode: f.Arg(0),
			StartDate: c.start,
			EndDate:   c.end,
			Threshold: &threshold,
			Count:     optionalInt(c.count),
		})
		if err != nil {
			return nil, err
		}
		return handler.NewTransactionsView(res), nil
	})
}

type stocksCmd struct {
	date string
}

func (*stocksCmd) Name() string     { return "stocks" }
func (*stocksCmd) Synopsis() string { return "list the stocks held in CCASS on a date" }
func (*stocksCmd) Usage() string {
	return `ccasswatch stocks [-d <YYYYMMDD>]

  Prints the registry's stock list, for yesterday unless -d is given.
`
}

func (c *stocksCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Shareholding date, YYYYMMDD (defaults to yesterday).")
}

func (c *stocksCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runQuery(ctx, func(a *app) (any, error) {
		date, stocks, err := a.stockSvc.List(ctx, c.date)
		if err != nil {
			return nil, err
		}
		return handler.NewStocksView(date, stocks), nil
	})
}
