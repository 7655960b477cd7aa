package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	coreapp "smartlib/internal/core/app"
	"smartlib/internal/core/errors"
	"smartlib/internal/core/ports"
	"smartlib/internal/data/library"
	"smartlib/internal/shared/observability"
)

const metricsPrefix = "smartlib_"

// runSingleCommand executes every requested one-shot command in a fixed order
// and returns 1 if any of them failed.
func runSingleCommand(ctx context.Context, app *coreapp.App, opts cliOptions, stdout, stderr io.Writer) int {
	if app == nil {
		fmt.Fprintln(stderr, "app unavailable")
		return 1
	}
	svc := app.LibraryService()
	code := 0
	var highlight []string

	if opts.searchSet {
		books, err := svc.Search(ctx, opts.search)
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			code = 1
		} else {
			printBooks(stdout, books)
		}
	}

	if opts.route != "" {
		res, err := svc.RouteToBook(ctx, opts.route)
		if err != nil {
			fmt.Fprintf(stderr, "route: %s\n", describeError(err))
			code = 1
		} else {
			fmt.Fprintln(stdout, formatRoute(res))
			highlight = res.Route.Nodes
		}
	}

	if opts.shelf != "" {
		res, err := svc.RouteToShelf(ctx, opts.shelf)
		if err != nil {
			fmt.Fprintf(stderr, "route: %s\n", describeError(err))
			code = 1
		} else {
			fmt.Fprintln(stdout, formatRoute(res))
			highlight = res.Route.Nodes
		}
	}

	if opts.stats {
		summary, err := svc.Usage(ctx)
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			code = 1
		} else {
			printStats(stdout, summary, coreapp.NewHealthService(app).Check(ctx))
		}
	}

	if opts.showMap {
		snap, err := svc.Facility(ctx)
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			code = 1
		} else {
			fmt.Fprintln(stdout, renderFacilityMap(snap, highlight))
		}
	}

	if opts.metrics {
		if err := observability.WriteMetrics(stdout, nil, metricsPrefix); err != nil {
			fmt.Fprintln(stderr, err.Error())
			code = 1
		}
	}

	return code
}

// describeError returns the user-facing part of a domain error.
func describeError(err error) string {
	switch errors.CodeOf(err) {
	case errors.CodeInternal:
		return err.Error()
	default:
		return errors.MessageOf(err)
	}
}

func formatRoute(res ports.RouteResult) string {
	target := res.Shelf
	if res.Book != nil {
		target = fmt.Sprintf("%s (%s)", res.Book.Title, res.Shelf)
	}
	steps := "steps"
	if res.Route.Steps() == 1 {
		steps = "step"
	}
	return fmt.Sprintf("Route to %s: %s [%d %s]", target, res.Route.String(), res.Route.Steps(), steps)
}

func printBooks(w io.Writer, books []library.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tAUTHOR\tSHELF\tID")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Title, b.Author, b.Shelf, b.ID)
	}
	_ = tw.Flush()
}

func printStats(w io.Writer, summary ports.CatalogSummary, health coreapp.HealthStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SHELF\tUSED\tSTATE")
	for _, u := range summary.Usage {
		state := "ok"
		if u.Full() {
			state = "full"
		}
		fmt.Fprintf(tw, "%s\t%d/%d\t%s\n", u.Shelf, u.Used, u.Capacity, state)
	}
	_ = tw.Flush()

	t := summary.Totals
	fmt.Fprintf(w, "Books: %d | Shelves: %d | Capacity: %d\n", t.Books, t.Shelves, t.Capacity)

	names := make([]string, 0, len(health.Components))
	for name := range health.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, health.Components[name]))
	}
	fmt.Fprintf(w, "Health: %s (%s)\n", health.Status, strings.Join(parts, "; "))
}
