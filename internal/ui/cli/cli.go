package cli

import (
	"flag"
	"io"
)

const versionString = "1.0.0"

type cliOptions struct {
	configPath string
	ui         bool
	route      string
	shelf      string
	search     string
	searchSet  bool
	stats      bool
	showMap    bool
	metrics    bool
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string, output io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("smartlib", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.configPath, "config", "", "Path to config file (TOML, or YAML by extension); defaults to ./smartlib.toml when present")
	fs.BoolVar(&opts.ui, "ui", false, "Enable terminal UI mode")
	fs.StringVar(&opts.route, "route", "", "Print the route from the entrance to a book (id or title)")
	fs.StringVar(&opts.shelf, "shelf", "", "Print the route from the entrance to a shelf")
	fs.StringVar(&opts.search, "search", "", "Search books by title, author or shelf")
	fs.BoolVar(&opts.stats, "stats", false, "Print shelf usage and catalog totals")
	fs.BoolVar(&opts.showMap, "map", false, "Print the facility map (highlights -route/-shelf when given)")
	fs.BoolVar(&opts.metrics, "metrics", false, "Dump metrics in Prometheus text format before exiting")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "search" {
			opts.searchSet = true
		}
	})

	opts.args = fs.Args()
	return opts, nil
}

// oneShot reports whether any print-and-exit command was requested.
func (o cliOptions) oneShot() bool {
	return o.route != "" || o.shelf != "" || o.searchSet || o.stats || o.showMap || o.metrics
}
