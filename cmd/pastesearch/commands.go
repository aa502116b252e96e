package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/byfranke/PastebinSearch/core/domain"
	"github.com/urfave/cli/v3"
)

var errNoTerm = errors.New("a search term is required")

func termFrom(c *cli.Command) (string, error) {
	term := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if term == "" {
		return "", errNoTerm
	}
	return term, nil
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print results as JSON",
		},
	}
}

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search pastes using the automatic strategies",
		ArgsUsage: "TERM",
		Flags: append(outputFlags(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results (0 uses the configured default)",
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			term, err := termFrom(c)
			if err != nil {
				return err
			}

			eng, err := openEngine(c)
			if err != nil {
				return err
			}
			defer eng.Close()

			results, err := eng.Search(ctx, term, int(c.Int("limit")))
			if err != nil {
				return err
			}
			return printResults(os.Stdout, term, results, c.Bool("json"))
		},
	}
}

// AdvancedCommand creates the advanced search command
func AdvancedCommand() *cli.Command {
	return &cli.Command{
		Name:      "advanced",
		Usage:     "Search with date, size and syntax filters and an optional security scan",
		ArgsUsage: "TERM",
		Flags: append(outputFlags(),
			&cli.IntFlag{
				Name:  "days",
				Usage: "Keep pastes published within the last N days",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "min-size",
				Usage: "Minimum paste size in bytes",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "max-size",
				Usage: "Maximum paste size in bytes",
				Value: -1,
			},
			&cli.StringSliceFlag{
				Name:  "syntax",
				Usage: "Allowed syntax hints, repeatable",
			},
			&cli.BoolFlag{
				Name:  "scan",
				Usage: "Fetch raw content and flag credentials, connection details and keys",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results (0 uses the configured default)",
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			term, err := termFrom(c)
			if err != nil {
				return err
			}

			eng, err := openEngine(c)
			if err != nil {
				return err
			}
			defer eng.Close()

			results, err := eng.AdvancedSearch(ctx, term, filtersFrom(c))
			if err != nil {
				return err
			}
			return printResults(os.Stdout, term, results, c.Bool("json"))
		},
	}
}

// filtersFrom maps the advanced flags onto domain filters.
// A size range needs at least one bound; the other one is open.
func filtersFrom(c *cli.Command) domain.Filters {
	filters := domain.Filters{
		SyntaxTypes:  c.StringSlice("syntax"),
		SecurityScan: c.Bool("scan"),
		Limit:        int(c.Int("limit")),
	}

	if days := int(c.Int("days")); days >= 0 {
		filters.DateRangeDays = &days
	}

	minSize, maxSize := c.Int("min-size"), c.Int("max-size")
	if minSize >= 0 || maxSize >= 0 {
		r := domain.SizeRange{Min: 0, Max: 1<<63 - 1}
		if minSize >= 0 {
			r.Min = minSize
		}
		if maxSize >= 0 {
			r.Max = maxSize
		}
		filters.SizeRange = &r
	}

	return filters
}

// ManualCommand creates the manual search command
func ManualCommand() *cli.Command {
	return &cli.Command{
		Name:      "manual",
		Usage:     "Load the site search page directly and parse it",
		ArgsUsage: "TERM",
		Flags:     outputFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			term, err := termFrom(c)
			if err != nil {
				return err
			}

			eng, err := openEngine(c)
			if err != nil {
				return err
			}
			defer eng.Close()

			results, err := eng.ManualSearch(ctx, term)
			if err != nil {
				return err
			}
			return printResults(os.Stdout, term, results, c.Bool("json"))
		},
	}
}

// DiagnoseCommand creates the connectivity diagnostic command
func DiagnoseCommand() *cli.Command {
	return &cli.Command{
		Name:  "diagnose",
		Usage: "Test connectivity to the paste site",
		Flags: outputFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			eng, err := openEngine(c)
			if err != nil {
				return err
			}
			defer eng.Close()

			report := eng.TestConnectivity(ctx)
			if err := printReport(os.Stdout, eng.Site().BaseURL(), report, c.Bool("json")); err != nil {
				return err
			}
			if !report.Reachable {
				return fmt.Errorf("%s is unreachable", eng.Site().Host())
			}
			return nil
		},
	}
}
