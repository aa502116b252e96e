package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/byfranke/PastebinSearch/core/domain"
	"github.com/urfave/cli/v3"
)

// termSearcher is the part of the engine a batch run needs
type termSearcher interface {
	Search(ctx context.Context, term string, limit int) ([]domain.SearchResult, error)
}

// BatchCommand creates the batch search command
func BatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Search every term listed in a file, one per line",
		ArgsUsage: "FILE",
		Flags: append(outputFlags(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results per term (0 uses the configured default)",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "Pause between two searches",
				Value: time.Second,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("a file of search terms is required")
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening term file: %w", err)
			}
			defer f.Close()

			terms, err := readTerms(f)
			if err != nil {
				return fmt.Errorf("reading term file: %w", err)
			}
			if len(terms) == 0 {
				return fmt.Errorf("%s contains no search terms", path)
			}

			eng, err := openEngine(c)
			if err != nil {
				return err
			}
			defer eng.Close()

			return runBatch(ctx, eng, terms, batchOptions{
				limit:  int(c.Int("limit")),
				delay:  c.Duration("delay"),
				asJSON: c.Bool("json"),
			}, os.Stdout, os.Stderr)
		},
	}
}

// readTerms returns the trimmed, non-blank lines of r
func readTerms(r io.Reader) ([]string, error) {
	var terms []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if term := strings.TrimSpace(scanner.Text()); term != "" {
			terms = append(terms, term)
		}
	}
	return terms, scanner.Err()
}

type batchOptions struct {
	limit  int
	delay  time.Duration
	asJSON bool
}

// runBatch searches terms in order, writing results to w and failures to errW.
// A failed term does not stop the run; cancellation does. The returned error counts the failed terms.
func runBatch(ctx context.Context, s termSearcher, terms []string, opts batchOptions, w, errW io.Writer) error {
	failed := 0
	for i, term := range terms {
		if i > 0 && opts.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(opts.delay):
			}
		}

		if !opts.asJSON {
			fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Search %d/%d: %s", i+1, len(terms), term)))
		}

		results, err := s.Search(ctx, term, opts.limit)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			fmt.Fprintln(errW, errorStyle.Render(fmt.Sprintf("Search for %q failed: %v", term, err)))
			continue
		}
		if err := printResults(w, term, results, opts.asJSON); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d searches failed", failed, len(terms))
	}
	return nil
}
