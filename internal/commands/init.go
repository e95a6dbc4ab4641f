package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnledger/internal/config"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var balance string
	var count int
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfgPath, err := configPath(absDir, opts.config)
			if err != nil {
				return err
			}

			return runInit(absDir, cfgPath, balance, count, force)
		},
	}

	cmd.Flags().StringVar(&balance, "balance", "5000.00", "initial balance")
	cmd.Flags().IntVar(&count, "count", 1000, "transactions per generation run")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing ledger.yaml")

	return cmd
}

func runInit(dir, cfgPath, balance string, count int, force bool) error {
	if _, err := decimal.NewFromString(balance); err != nil {
		return fmt.Errorf("invalid --balance %q: %w", balance, err)
	}
	if count < 0 {
		return fmt.Errorf("invalid --count %d: must not be negative", count)
	}

	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	cfg.Ledger.InitialBalance = balance
	cfg.Ledger.Count = count

	dirs := []string{dir, filepath.Dir(cfgPath), cfg.DataDir(dir)}
	if cfg.Log.Dir != "" {
		dirs = append(dirs, cfg.LogDir(dir))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Initialized ledger project at %s\n", dir)
	return nil
}
