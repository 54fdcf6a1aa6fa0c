package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"cloud.google.com/go/storage"

	"github.com/carbocation/pairperm"
	"github.com/carbocation/pairperm/pairwise"
	"github.com/carbocation/pairperm/pvalue"
)

type config struct {
	Input  string
	Format string
	Output string

	// 1-based, as typed on the command line.
	ExperimentColumn  int
	GroupColumn       int
	DataColumns       string
	AnnotationColumns string

	TestType    string
	Directional bool
	Tail        string
	Ceiling     int
	Workers     int

	Header bool
	Keep   bool

	Overwrite     pairperm.OverwritePolicy
	MetricsOutput string
	Histogram     bool
	Quiet         bool
}

// layout converts the 1-based column flags.
func (c config) layout() (pairwise.Layout, error) {
	var (
		l   pairwise.Layout
		err error
	)

	if l.Experiment, err = pairwise.ParseColumn(fmt.Sprint(c.ExperimentColumn)); err != nil {
		return l, fmt.Errorf("experiment column: %w", err)
	}
	if l.Group, err = pairwise.ParseColumn(fmt.Sprint(c.GroupColumn)); err != nil {
		return l, fmt.Errorf("group column: %w", err)
	}
	if l.Data, err = pairwise.ParseColumns(c.DataColumns); err != nil {
		return l, fmt.Errorf("data columns: %w", err)
	}
	if c.AnnotationColumns != "" {
		if l.Annotations, err = pairwise.ParseColumns(c.AnnotationColumns); err != nil {
			return l, fmt.Errorf("annotation columns: %w", err)
		}
	}

	return l, nil
}

// calculator resolves the test type and tail strategy once, before any input
// is read.
func (c config) calculator() (*pvalue.Calculator, error) {
	test, err := pvalue.ParseTestType(c.TestType)
	if err != nil {
		return nil, err
	}

	tail, err := pvalue.TailByName(c.Tail)
	if err != nil {
		return nil, err
	}

	return pvalue.New(test, c.Directional, tail)
}

// run validates the whole configuration, then streams the input one
// experiment at a time. Diagnostics and reports go to stderr.
func run(ctx context.Context, cfg config, prompt pairperm.Prompt, stderr io.Writer) error {
	layout, err := cfg.layout()
	if err != nil {
		return err
	}

	calc, err := cfg.calculator()
	if err != nil {
		return err
	}

	format, err := pairperm.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	var client *storage.Client
	if pairperm.IsGoogleStoragePath(cfg.Input) {
		client, err = storage.NewClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()
	}

	in, err := pairperm.OpenInput(ctx, cfg.Input, client)
	if err != nil {
		return err
	}
	defer in.Close()

	table, err := pairperm.NewTableReader(in, format, cfg.Header)
	if err != nil {
		return err
	}

	// Column numbers are checked against the header, or the first data row if
	// there is no header, before anything is written.
	probe := table.Header()
	if probe == nil {
		if probe, err = table.Peek(); err == io.EOF {
			probe, err = nil, nil
		} else if err != nil {
			return err
		}
	}
	if probe != nil {
		if err := layout.Validate(len(probe)); err != nil {
			return err
		}
	}

	out, err := pairperm.OpenOutput(cfg.Output, cfg.Overwrite, prompt)
	if err != nil {
		return err
	}
	defer out.Close()

	w := pairwise.NewWriter(out)
	if cfg.Header && cfg.Keep {
		if err := w.WriteHeader(pairwise.HeaderFrom(table.Header(), layout)); err != nil {
			return err
		}
	}

	tester := pairwise.NewTester(calc)
	tester.Ceiling = cfg.Ceiling
	if cfg.Workers > 0 {
		tester.Workers = cfg.Workers
	}
	tester.Metrics = pairwise.NewMetrics(len(layout.Data))
	if cfg.Histogram {
		tester.Histogram = stderr
	}

	log.Printf("Testing %d data column(s) of %s with the %s model\n", len(layout.Data), cfg.Input, calc.Test)

	for {
		rows, err := table.NextExperiment(layout.Experiment)
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		exp, err := pairwise.FromRows(rows, layout)
		if err != nil {
			return err
		}

		results, err := tester.Run(ctx, exp)
		if err != nil {
			return err
		}

		if err := w.WriteRows(results); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if !cfg.Quiet {
		tester.Metrics.Report(stderr)
	}

	if cfg.MetricsOutput != "" {
		mw, err := pairperm.OpenOutput(cfg.MetricsOutput, cfg.Overwrite, prompt)
		if err != nil {
			return err
		}
		if err := tester.Metrics.WriteSummary(mw); err != nil {
			mw.Close()
			return err
		}
		if err := mw.Close(); err != nil {
			return err
		}
	}

	return nil
}
