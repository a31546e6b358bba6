package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Evaluate every scenario file in a directory in parallel",
	Long: `Batch evaluates scenario files concurrently:
- Read every .yaml/.yml scenario in the directory
- Evaluate them in parallel with a configurable worker count
- Check each decision against the scenario's expect block
- Print a summary; fail if any scenario errored or missed its expectations

Example:
  claimcheck batch scenarios/
  claimcheck batch scenarios/ --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 5*time.Minute, "total timeout for the batch")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	dir := args[0]
	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Claimcheck Scenario Batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Directory:  %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Workers:    %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Timeout:    %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(pipeline.NewEvaluator(cfg), workers)
	results, err := processor.ProcessDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("process dir: %w", err)
	}

	for _, result := range results {
		switch {
		case result.Error != nil:
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
		case !result.Passed():
			fmt.Fprintf(os.Stderr, "✗ %s\n", result.Verdict.Name)
			for _, f := range result.Verdict.Failures {
				fmt.Fprintf(os.Stderr, "    %s\n", f)
			}
		default:
			d := result.Verdict.Decision
			fmt.Fprintf(os.Stderr, "✓ %s (%s %s)\n", result.Verdict.Name, d.Outcome, d.NextPage)
		}
		logger.Debug("scenario evaluated", "path", result.Path, "passed", result.Passed())
	}

	summary := worker.Summarize(results)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d scenarios\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Passed:    %d\n", summary.Passed)
	fmt.Fprintf(os.Stderr, "  Failed:    %d\n", summary.Failed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", summary.Errors)
	fmt.Fprintf(os.Stderr, "\n")

	if summary.Failed+summary.Errors > 0 {
		return fmt.Errorf("%d of %d scenarios did not pass", summary.Failed+summary.Errors, summary.Total)
	}
	return nil
}
