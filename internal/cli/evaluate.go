package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/claimcheck/internal/calendar"
	"github.com/ppiankov/claimcheck/internal/pipeline"
)

var (
	outputJSON bool
	todayFlag  string
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <scenario.yaml>",
	Short: "Evaluate one page submission from a scenario file",
	Long: `Evaluate runs a single page submission offline:
- Load the claim context, page and form answers from a YAML scenario
- Apply form validation, go-live gates and timing rules as of the scenario's day
- Print the decision: outcome, next page, exception and events

Nothing is fetched or sent. URN uniqueness is taken from the scenario.

Example:
  claimcheck evaluate scenarios/review-too-soon.yaml
  claimcheck evaluate scenarios/review-too-soon.yaml --json
  claimcheck evaluate scenarios/review-too-soon.yaml --today 2025-11-20`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().BoolVar(&outputJSON, "json", false, "print the decision as JSON instead of YAML")
	evaluateCmd.Flags().StringVar(&todayFlag, "today", "", "override the scenario's day (YYYY-MM-DD)")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	s, err := pipeline.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if todayFlag != "" {
		if s.Today, err = calendar.Parse(todayFlag); err != nil {
			return fmt.Errorf("invalid --today: %w", err)
		}
	}

	logger.Debug("evaluating scenario", "name", s.Name, "page", s.Request.Page, "today", s.Today)

	verdict, err := pipeline.NewEvaluator(cfg).Evaluate(s)
	if err != nil {
		return err
	}

	if err := render(os.Stdout, verdict, outputJSON); err != nil {
		return err
	}
	if !verdict.Passed() {
		return fmt.Errorf("scenario %s: %d expectation(s) not met", verdict.Name, len(verdict.Failures))
	}
	return nil
}

// render writes v as indented JSON or YAML
func render(w io.Writer, v any, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
