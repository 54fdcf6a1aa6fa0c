// pairperm scores every pair of groups within each experiment of a table by
// exhaustive permutation: for each data column, all relabelings of the pooled
// values give a null distribution of mean differences, and the observed
// difference is placed within it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/carbocation/pairperm"
	_ "github.com/carbocation/pairperm/compileinfoprint"
	"github.com/carbocation/pairperm/pvalue"
	"github.com/carbocation/pairperm/relabel"
)

func main() {
	var force, noclobber bool

	cfg := registerFlags(flag.CommandLine, &force, &noclobber)
	flag.Parse()

	if cfg.Input == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	switch {
	case force && noclobber:
		log.Fatalln("--force and --noclobber are mutually exclusive")
	case force:
		cfg.Overwrite = pairperm.OverwriteAllow
	case noclobber:
		cfg.Overwrite = pairperm.OverwriteForbid
	default:
		cfg.Overwrite = pairperm.OverwriteConfirm
	}

	err := run(context.Background(), *cfg, pairperm.Prompt{In: os.Stdin, Out: os.Stderr}, os.Stderr)
	if errors.Is(err, pairperm.ErrOverwriteDeclined) {
		log.Println(err)
		return
	} else if err != nil {
		log.Fatalln(err)
	}
}

// registerFlags binds every option to fs. By default the input is taken to
// have a header row, and that header is carried into the output.
func registerFlags(fs *flag.FlagSet, force, noclobber *bool) *config {
	cfg := &config{}

	fs.StringVar(&cfg.Input, "input", "", "Input table. May be a local path or gs://bucket/object, optionally gzip, zip, bzip2 or xz compressed.")
	fs.StringVar(&cfg.Format, "format", "tsv", "Input format: tsv, csv, ssv (whitespace separated) or auto.")
	fs.StringVar(&cfg.Output, "o", "", "Output file. If empty, results are written to stdout.")
	fs.IntVar(&cfg.ExperimentColumn, "exp", 1, "1-based column holding the experiment id.")
	fs.IntVar(&cfg.GroupColumn, "group", 2, "1-based column holding the group id.")
	fs.StringVar(&cfg.DataColumns, "data", "3", "Comma-separated 1-based data columns to test, e.g. 3,5,9.")
	fs.StringVar(&cfg.AnnotationColumns, "k", "", "Optional. Comma-separated 1-based columns copied from the first row of each experiment to the end of its output rows.")
	fs.StringVar(&cfg.TestType, "t", "F", "Test type: F (frequentist count) or SD (normal approximation).")
	fs.BoolVar(&cfg.Directional, "d", false, "Directional test? Affects the normal approximation, which is doubled when non-directional.")
	fs.BoolVar(&cfg.Header, "header", true, "Does the input have a header row? Pass --header=false if it does not.")
	fs.BoolVar(&cfg.Keep, "keep", true, "Write an output header derived from the input header. Ignored with --header=false.")
	fs.IntVar(&cfg.Ceiling, "ceiling", relabel.DefaultCeiling, "Maximum number of relabelings per test. Tests above it are reported as NA.")
	fs.IntVar(&cfg.Workers, "workers", 0, "Concurrent tests per experiment. 0 uses every CPU.")
	fs.StringVar(&cfg.Tail, "tail", "gonum", fmt.Sprintf("Normal upper tail implementation for --t SD. One of: %s.", strings.Join(pvalue.TailNames(), ", ")))
	fs.BoolVar(force, "force", false, "Overwrite existing output files without asking.")
	fs.BoolVar(noclobber, "noclobber", false, "Never overwrite existing output files.")
	fs.StringVar(&cfg.MetricsOutput, "metrics", "", "Optional. File to which a one-row summary of the run is written.")
	fs.BoolVar(&cfg.Histogram, "histogram", false, "Print a histogram of every null distribution to stderr.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Suppress the end-of-run report.")

	return cfg
}
