package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	brief2pdf "github.com/alnah/go-brief2pdf"
)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (CLIConverter, error)
	Release(CLIConverter)
	Size() int
}

// poolAdapter exposes a *brief2pdf.ConverterPool as a Pool.
type poolAdapter struct {
	pool *brief2pdf.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire(ctx context.Context) (CLIConverter, error) {
	conv, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics if conv did not come from this adapter.
func (a *poolAdapter) Release(conv CLIConverter) {
	c, ok := conv.(*brief2pdf.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected converter type %T", conv))
	}
	a.pool.Release(c)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// runBatch converts every markdown file under inputDir into outputDir.
func runBatch(ctx context.Context, inputDir, outputDir string, params *conversionParams, flags *cliFlags, env *Environment) error {
	files, err := discoverFiles(inputDir, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoInput, inputDir)
	}

	poolSize := min(brief2pdf.ResolvePoolSize(params.workers), len(files))
	if flags.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := brief2pdf.NewConverterPool(poolSize, params.opts...)
	defer pool.Close()

	results := convertBatch(ctx, &poolAdapter{pool: pool}, files, params)

	failed := printResultsWithWriter(results, flags.quiet, flags.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d of %d conversion(s) failed: %w", failed, len(results), firstError(results))
	}
	return nil
}

// convertBatch processes files concurrently, at most pool.Size() at a time.
// Results keep the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]ConversionResult, len(files))

	var g errgroup.Group
	g.SetLimit(pool.Size())
	for i, f := range files {
		g.Go(func() error {
			results[i] = convertPooled(ctx, pool, f, params)
			return nil
		})
	}
	// Failures are reported per file through results.
	_ = g.Wait()

	return results
}

// convertPooled runs convertFile on a converter borrowed from pool.
func convertPooled(ctx context.Context, pool Pool, f FileToConvert, params *conversionParams) ConversionResult {
	failed := func(err error) ConversionResult {
		return ConversionResult{InputPath: f.InputPath, OutputPath: f.OutputPath, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	conv, err := pool.Acquire(ctx)
	if err != nil {
		return failed(err)
	}
	defer pool.Release(conv)

	return convertFile(ctx, conv, f, params)
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// firstError returns the first failure in results, or nil.
func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printResultsWithWriter outputs conversion results and returns the number
// of failures.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "%s created: %s\n", outputKind(r.OutputPath), r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
