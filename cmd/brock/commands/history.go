package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dyluth/brock/internal/config"
	"github.com/dyluth/brock/internal/ledger"
	"github.com/spf13/cobra"
)

var (
	historyLedgerPath string
	historyLimit      int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past finds from the search ledger",
	Long: `List previously found vanity keys recorded in the search ledger.

Each completed search appends one row (unless run with --no-ledger), so the
ledger doubles as a record of which vanity keys exist and where they were
written.

Examples:
  # Show the 20 most recent finds
  brock history

  # Show everything from a specific ledger file
  brock history --ledger finds.db --limit 0`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyLedgerPath, "ledger", config.DefaultLedgerPath, "Ledger database path")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum finds to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if _, err := os.Stat(historyLedgerPath); os.IsNotExist(err) {
		fmt.Println("No finds recorded yet")
		return nil
	}

	store, err := ledger.Open(ctx, historyLedgerPath)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer store.Close()

	finds, err := store.List(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list finds: %w", err)
	}

	ledger.FormatTable(os.Stdout, finds)
	return nil
}
