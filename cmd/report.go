package cmd

import (
	"fmt"

	"github.com/huangsam/incentive/core"
	"github.com/spf13/cobra"
)

// runView executes a view with the validated config and shared deps.
func runView(name string, execute core.ExecutorFunc) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		if err := execute(rootCtx, cfg, deps); err != nil {
			return fmt.Errorf("cannot run %s: %w", name, err)
		}
		return nil
	}
}

// reportCmd computes the full per-base breakdown.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show what each base earns in the window, pillar by pillar.",
	Long: `Compute the incentive report of every base for a date window.

Each base first has to open the volume gate: enough unique routes for the
days in the window. Bases that open it earn the tier reached on every pillar:
- Volume
- Delivery success (DS)
- Compliance
- Loss
- Protagonism

Pillars that do not apply show N/A, which is different from a zero payout.
Windows that span two months close the gate for every base.

Examples:
  # Report for March
  incentive report --start 2024-03-01 --end 2024-03-31

  # One base with shipment details
  incentive report --base LRJ01 --detail

  # Export for a spreadsheet
  incentive report --output csv --output-file march.csv`,
	PreRunE: sharedSetupWrapper,
	RunE:    runView("report", core.ExecuteReport),
}

// leaderboardCmd ranks bases with the guaranteed and projected split.
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank bases by payout with the guaranteed and at-stake split.",
	Long: `Rank bases by total payout.

Guaranteed is what an eligible base has already secured. Projected is what
the base would earn if its gate were open, so at stake shows what a closed
gate is costing.

Examples:
  incentive leaderboard --limit 10`,
	PreRunE: sharedSetupWrapper,
	RunE:    runView("leaderboard", core.ExecuteLeaderboard),
}

// podiumCmd shows the top three bases.
var podiumCmd = &cobra.Command{
	Use:     "podium",
	Short:   "Show the top three bases by payout.",
	PreRunE: sharedSetupWrapper,
	RunE:    runView("podium", core.ExecutePodium),
}

// searchCmd finds bases by leader name.
var searchCmd = &cobra.Command{
	Use:   "search <leader>",
	Short: "Find the report of bases whose leader matches a name.",
	Long: `Search the report by leader name. Matching is case-insensitive and
partial names work.

Examples:
  incentive search roberta`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE:    runView("search", core.ExecuteSearch),
}

// compareCmd compares the window with the same span of the previous month.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare unique routes with the previous month.",
	Long: `Compare the unique routes of each base with the same span of the previous month.

Bases only seen in the current window are new, bases only seen in the previous
one are inactive.

Examples:
  incentive compare --start 2024-03-01 --end 2024-03-10
  incentive compare --coordinator "Ana Souza" --detail`,
	PreRunE: sharedSetupWrapper,
	RunE:    runView("compare", core.ExecuteCompare),
}

// bankCmd shows the virtual bank.
var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Show virtual bank balances with the payout of the window.",
	Long: `Pair the balance each base already holds with what the window adds.

Examples:
  incentive bank
  incentive bank -q carlos`,
	PreRunE: sharedSetupWrapper,
	RunE:    runView("bank", core.ExecuteBank),
}

// lossesCmd shows delivery bands, not-received and stuck rates.
var lossesCmd = &cobra.Command{
	Use:   "losses",
	Short: "Show delivery bands, not-received and stuck rates per base.",
	Long: `Summarize delivery outcomes of the window.

Each base gets a delivery band (Met, Near, Below) and its not-received (PNR)
and stuck rates. The bases holding the most pending shipments are listed apart.`,
	PreRunE: sharedSetupWrapper,
	RunE:    runView("losses", core.ExecuteLosses),
}
