package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/claimcheck/internal/pipeline"
)

// ScenarioEvaluator evaluates one scenario
type ScenarioEvaluator interface {
	Evaluate(s pipeline.Scenario) (pipeline.Verdict, error)
}

// ScenarioJob loads and evaluates one scenario file
type ScenarioJob struct {
	Path      string
	Evaluator ScenarioEvaluator
}

// Execute executes the scenario job
func (j *ScenarioJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &ScenarioResult{Path: j.Path, Error: err}
	}

	s, err := pipeline.LoadScenario(j.Path)
	if err != nil {
		return &ScenarioResult{Path: j.Path, Error: err}
	}

	verdict, err := j.Evaluator.Evaluate(s)
	if err != nil {
		return &ScenarioResult{Path: j.Path, Error: err}
	}
	return &ScenarioResult{Path: j.Path, Verdict: &verdict}
}

// ScenarioResult is the outcome of one scenario file
type ScenarioResult struct {
	Path    string
	Verdict *pipeline.Verdict
	Error   error
}

// GetError returns the error from the scenario result
func (r *ScenarioResult) GetError() error {
	return r.Error
}

// Passed reports whether the scenario ran and met its expectations
func (r *ScenarioResult) Passed() bool {
	return r.Error == nil && r.Verdict != nil && r.Verdict.Passed()
}

// BatchProcessor evaluates many scenario files concurrently
type BatchProcessor struct {
	evaluator   ScenarioEvaluator
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(evaluator ScenarioEvaluator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
	}
}

// ProcessFiles evaluates the given files, returning results in the same order
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*ScenarioResult {
	if len(paths) == 0 {
		return []*ScenarioResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&ScenarioJob{
			Path:      path,
			Evaluator: b.evaluator,
		})
	}

	results := pool.Wait()

	scenarioResults := make([]*ScenarioResult, len(results))
	for i, result := range results {
		scenarioResults[i] = result.(*ScenarioResult)
	}

	return scenarioResults
}

// ProcessDir evaluates every scenario file in dir
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*ScenarioResult, error) {
	paths, err := ReadScenarioFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}

	return b.ProcessFiles(ctx, paths), nil
}

// ReadScenarioFiles lists the .yaml and .yml files of dir in name order.
// Hidden files are skipped.
func ReadScenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)

	return paths, nil
}

// Summary counts batch results
type Summary struct {
	Total  int
	Passed int
	Failed int
	Errors int
}

// Summarize counts passed, failed and errored scenarios
func Summarize(results []*ScenarioResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Error != nil:
			s.Errors++
		case r.Passed():
			s.Passed++
		default:
			s.Failed++
		}
	}
	return s
}
