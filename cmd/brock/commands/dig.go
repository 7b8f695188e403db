package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/dyluth/brock/internal/config"
	"github.com/dyluth/brock/internal/keygen"
	"github.com/dyluth/brock/internal/ledger"
	"github.com/dyluth/brock/internal/match"
	"github.com/dyluth/brock/internal/printer"
	"github.com/dyluth/brock/internal/search"
	"github.com/dyluth/brock/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	digComment    string
	digSearch     string
	digKeyType    string
	digPrintEvery uint64
	digOutput     string
	digConfigPath string
	digNoLedger   bool
)

var digCmd = &cobra.Command{
	Use:   "dig",
	Short: "Search for a vanity SSH key pair",
	Long: `Search for an SSH key pair whose public key contains one of the given
search terms (case-insensitive substring match on the base64 key material).

One worker runs per CPU core. Each worker repeatedly generates a key pair
into a scratch directory, tests it, and deletes it on a miss; the first
worker to find a match wins and its key pair is copied to the output paths.

Search terms must be ASCII-alphanumeric. Short terms are found in seconds;
every extra character multiplies the expected search time by roughly 64.

Examples:
  # Search for "cafe" anywhere in the key
  brock dig --comment me@example.com --search cafe

  # Several terms at once, custom output name
  brock dig -C me@example.com -s cafe,f00d,beef -o vanity

  # RSA instead of the default ed25519
  brock dig -C me@example.com -s cafe -t rsa`,
	RunE: runDig,
}

func init() {
	digCmd.Flags().StringVarP(&digComment, "comment", "C", "", "Key comment, usually your email address (required)")
	digCmd.Flags().StringVarP(&digSearch, "search", "s", "", "Comma-separated search terms (required)")
	digCmd.Flags().StringVarP(&digKeyType, "type", "t", config.DefaultKeyType, "Key type passed to ssh-keygen")
	digCmd.Flags().Uint64Var(&digPrintEvery, "print-every", config.DefaultPrintEvery, "Print progress every N attempts")
	digCmd.Flags().StringVarP(&digOutput, "output", "o", config.DefaultOutput, "Output base name for the winning key pair")
	digCmd.Flags().StringVar(&digConfigPath, "config", "brock.yml", "Optional config file")
	digCmd.Flags().BoolVar(&digNoLedger, "no-ledger", false, "Do not record the find in the search ledger")
	digCmd.MarkFlagRequired("comment")
	digCmd.MarkFlagRequired("search")
	rootCmd.AddCommand(digCmd)
}

func runDig(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	printer.Info("Searching for:\n")
	for _, term := range cfg.Terms {
		printer.Info("  - %s\n", term)
	}

	ws, err := workspace.Create(".")
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	defer func() {
		if err := ws.Remove(); err != nil {
			printer.Warning("%v\n", err)
		}
	}()

	printer.Step("created scratch directory %s (delete me if you cancel!)\n", ws.Dir())

	workers := runtime.NumCPU()
	gen := &keygen.SSHKeygen{
		Dir:     ws.Dir(),
		KeyType: cfg.KeyType,
		Comment: cfg.Comment,
	}

	engine := search.New(cfg, gen, ws, workers)
	result, err := engine.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printer.Warning("search interrupted, no key found\n")
		}
		return err
	}

	fingerprint, err := match.Fingerprint(result.PublicKey)
	if err != nil {
		printer.Warning("could not fingerprint winning key: %v\n", err)
		fingerprint = "unknown"
	}

	printer.Success("found a key containing %q after %d failed attempts (%v)\n",
		result.MatchedTerm, result.Attempts, result.Elapsed.Round(time.Millisecond))
	printer.Info("  Private key: %s\n", result.PrivatePath)
	printer.Info("  Public key:  %s\n", result.PublicPath)
	printer.Info("  Fingerprint: %s\n", fingerprint)

	if !digNoLedger && cfg.LedgerPath != "" {
		recordFind(ctx, cfg, result, fingerprint)
	}

	return nil
}

// buildConfig merges the optional config file with the dig flags. Flags win
// whenever they were set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Search, error) {
	cfg, err := config.Load(digConfigPath)
	if err != nil {
		return nil, err
	}

	cfg.Comment = digComment
	if cmd.Flags().Changed("type") || cfg.KeyType == "" {
		cfg.KeyType = digKeyType
	}
	if cmd.Flags().Changed("print-every") || cfg.PrintEvery == 0 {
		cfg.PrintEvery = digPrintEvery
	}
	if cmd.Flags().Changed("output") || cfg.Output == "" {
		cfg.Output = digOutput
	}

	terms, err := config.ParseTerms(digSearch)
	if err != nil {
		return nil, printer.Error(
			"invalid search terms",
			fmt.Sprintf("Error: %v", err),
			[]string{"Terms must be ASCII-alphanumeric, like:\n  brock dig -C me@example.com -s cafe,f00d"},
		)
	}
	cfg.Terms = terms

	if err := cfg.Validate(); err != nil {
		return nil, printer.Error(
			"invalid configuration",
			fmt.Sprintf("Error: %v", err),
			nil,
		)
	}

	return cfg, nil
}

// recordFind appends the result to the search ledger. Ledger problems are
// warnings only: the key has already been persisted.
func recordFind(ctx context.Context, cfg *config.Search, result *search.Result, fingerprint string) {
	store, err := ledger.Open(ctx, cfg.LedgerPath)
	if err != nil {
		printer.Warning("could not open ledger: %v\n", err)
		return
	}
	defer store.Close()

	find := &ledger.Find{
		Terms:       cfg.Terms,
		MatchedTerm: result.MatchedTerm,
		KeyType:     cfg.KeyType,
		Fingerprint: fingerprint,
		Output:      result.PrivatePath,
		Attempts:    result.Attempts,
		Duration:    result.Elapsed,
		Workers:     result.Workers,
	}
	if err := store.Record(ctx, find); err != nil {
		printer.Warning("could not record find in ledger: %v\n", err)
		return
	}
	printer.Info("  Recorded in ledger %s\n", cfg.LedgerPath)
}
