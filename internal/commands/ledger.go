package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnledger/internal/ledger"
	"github.com/cleared-dev/txnledger/internal/model"
	"github.com/cleared-dev/txnledger/internal/report"
)

// generateFlags override config values when set on the command line.
type generateFlags struct {
	count   int
	balance string
	seed    uint64
}

func (f *generateFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.count, "count", 0, "number of transactions (default from config)")
	cmd.Flags().StringVar(&f.balance, "balance", "", "starting balance (default from config)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed, 0 for a random run (default from config)")
}

// generateParams is a generation run after flags and config are merged.
type generateParams struct {
	count   int
	balance decimal.Decimal
	seed    uint64
}

func (f *generateFlags) resolve(cmd *cobra.Command, s *session) (generateParams, error) {
	p := generateParams{count: s.cfg.Ledger.Count, seed: s.cfg.Generator.Seed}

	balance, err := s.cfg.Balance()
	if err != nil {
		return p, err
	}
	p.balance = balance

	if cmd.Flags().Changed("count") {
		p.count = f.count
	}
	if cmd.Flags().Changed("balance") {
		p.balance, err = decimal.NewFromString(f.balance)
		if err != nil {
			return p, fmt.Errorf("invalid --balance %q: %w", f.balance, err)
		}
	}
	if cmd.Flags().Changed("seed") {
		p.seed = f.seed
	}
	return p, nil
}

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a fresh transaction file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := flags.resolve(cmd, s)
			if err != nil {
				return s.fail(err)
			}
			if err := runGenerate(s, p); err != nil {
				return s.fail(err)
			}
			fmt.Printf("Generated %d transactions to %s\n", p.count, s.cfg.RecordPath(s.root))
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func newSummarizeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Stream the transaction file and print a summary report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			sum, err := runSummarize(s)
			if err != nil {
				return s.fail(err)
			}
			return report.Write(os.Stdout, sum)
		},
	}
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate transactions, then summarize them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := flags.resolve(cmd, s)
			if err != nil {
				return s.fail(err)
			}
			if err := runAll(s, p, os.Stdout); err != nil {
				return s.fail(err)
			}
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func runGenerate(s *session, p generateParams) error {
	if err := bootstrap(s.root, s.cfg); err != nil {
		return err
	}

	var opts []ledger.Option
	if p.seed != 0 {
		opts = append(opts, ledger.WithSeed(p.seed))
	}
	w := ledger.NewWriter(s.log, opts...)
	return w.Generate(s.cfg.RecordPath(s.root), p.count, p.balance)
}

func runSummarize(s *session) (model.Summary, error) {
	return ledger.NewAggregator(s.log).Summarize(s.cfg.RecordPath(s.root))
}

func runAll(s *session, p generateParams, out io.Writer) error {
	path := s.cfg.RecordPath(s.root)

	fmt.Fprintf(out, "--- Generating %d transactions to %s ---\n", p.count, path)
	if err := runGenerate(s, p); err != nil {
		return err
	}

	fmt.Fprintln(out, "--- Processing transactions lazily ---")
	sum, err := runSummarize(s)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	return report.Write(out, sum)
}
