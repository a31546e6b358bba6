package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/claimcheck/internal/backend"
	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/clock"
	"github.com/ppiankov/claimcheck/internal/eligibility"
	"github.com/ppiankov/claimcheck/internal/golive"
	"github.com/ppiankov/claimcheck/internal/journey"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/notify"
	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/session"
	"github.com/ppiankov/claimcheck/internal/worker"
)

var (
	claimTimeout time.Duration
	noCache      bool
)

// claimFile is a scripted claim: who is claiming and the pages they submit
type claimFile struct {
	Organisation model.Organisation `yaml:"organisation"`
	Steps        []journey.Request  `yaml:"steps"`
}

type claimStep struct {
	BackLink journey.Page    `json:"backLink,omitempty" yaml:"backLink,omitempty"`
	Result   pipeline.Result `json:"result" yaml:"result"`
}

// claimCmd represents the claim command
var claimCmd = &cobra.Command{
	Use:   "claim <claim.yaml>",
	Short: "Run a scripted claim against the applications and claims backends",
	Long: `Claim plays a scripted claim end to end:
- Fetch the organisation's agreements and earlier claims
- Submit each page in turn, fetching herds and checking URNs as needed
- Send ineligibility and invalid-data events (logged when no events URL is set)
- Submit the claim when the journey reaches confirmation

The run stops at the first page that does not continue.

Example:
  claimcheck claim claims/sheep-review.yaml
  claimcheck claim claims/sheep-review.yaml --json --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runClaim,
}

func init() {
	rootCmd.AddCommand(claimCmd)

	claimCmd.Flags().BoolVar(&outputJSON, "json", false, "print the steps as JSON instead of YAML")
	claimCmd.Flags().DurationVar(&claimTimeout, "timeout", 2*time.Minute, "overall timeout for the claim")
	claimCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching of backend lookups")
}

func runClaim(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read claim file: %w", err)
	}
	var script claimFile
	if err := yaml.Unmarshal(data, &script); err != nil {
		return fmt.Errorf("parse claim file: %w", err)
	}
	if script.Organisation.SBI == "" {
		return fmt.Errorf("claim file %s: organisation.sbi is required", args[0])
	}

	ctx, cancel := context.WithTimeout(context.Background(), claimTimeout)
	defer cancel()

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	key, cc, err := p.StartClaim(ctx, script.Organisation)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Claim %s started for SBI %s\n\n", cc.Reference, script.Organisation.SBI)

	var steps []claimStep
	for _, req := range script.Steps {
		back, err := p.Back(key, req.Page, false)
		if err != nil {
			return err
		}

		res, err := p.Submit(ctx, key, req)
		if err != nil {
			_ = render(os.Stdout, steps, outputJSON)
			return fmt.Errorf("page %s: %w", req.Page, err)
		}
		steps = append(steps, claimStep{BackLink: back, Result: res})

		if res.Outcome != journey.OutcomeContinue || res.Submitted != nil {
			break
		}
	}

	return render(os.Stdout, steps, outputJSON)
}

// newLimiter builds the per-host limiter, giving the claims API its own quota when one is set
func newLimiter(cfg *model.Config) (*worker.Limiter, error) {
	limiter := worker.NewLimiter(cfg.RateLimiting)
	if rps := cfg.RateLimiting.ClaimsRequestsPerSecond; rps > 0 {
		u, err := url.Parse(cfg.Backend.ClaimsURL)
		if err != nil {
			return nil, fmt.Errorf("parse claims url: %w", err)
		}
		limiter.SetHostRate(u.Host, rps, cfg.RateLimiting.BurstSize)
	}
	return limiter, nil
}

// newPipeline wires the live collaborators described by cfg
func newPipeline(cfg *model.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	limiter, err := newLimiter(cfg)
	if err != nil {
		return nil, err
	}
	client := backend.NewClient(cfg.Backend, limiter, cache.New(cfg.Cache), logger)

	nav := journey.New(
		golive.FromConfig(cfg.Features),
		eligibility.NewRules(clock.NewReal(), cfg.Rules.SpacingMonths),
	)

	return pipeline.New(
		nav,
		client,
		session.NewMemoryStore(cfg.Session.TTL),
		notify.New(*cfg, logger),
		logger,
	), nil
}
