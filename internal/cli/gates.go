package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/calendar"
	"github.com/ppiankov/claimcheck/internal/clock"
	"github.com/ppiankov/claimcheck/internal/golive"
)

// gatesCmd represents the gates command
var gatesCmd = &cobra.Command{
	Use:   "gates [yyyy-mm-dd]",
	Short: "Show which features are live for a claim date",
	Long: `Gates prints each feature's release date and whether it is live for a
claim dated on the given day (today when no date is given).

Example:
  claimcheck gates
  claimcheck gates 2025-02-25`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGates,
}

func init() {
	rootCmd.AddCommand(gatesCmd)
}

func runGates(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	day := clock.Today(clock.NewReal())
	if len(args) == 1 {
		if day, err = calendar.Parse(args[0]); err != nil {
			return fmt.Errorf("invalid date: %w", err)
		}
	}

	fmt.Printf("Features for a claim dated %s\n\n", day)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FEATURE\tENABLED\tRELEASE\tLIVE")
	for _, s := range golive.FromConfig(cfg.Features).Describe(day) {
		live := "no"
		if s.Live {
			live = "yes"
		}
		fmt.Fprintf(w, "%s\t%t\t%s\t%s\n", s.Feature, s.Enabled, s.ReleaseDate, live)
	}
	return w.Flush()
}
