package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/txnledger/internal/config"
	"github.com/cleared-dev/txnledger/internal/logging"
)

// session is the per-invocation state shared by the ledger commands.
type session struct {
	root   string
	cfg    *config.Config
	log    zerolog.Logger
	logOut io.Closer // nil when logging to the console only
}

func openSession(opts *rootOptions) (*session, error) {
	root, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := loadConfig(root, opts.config)
	if err != nil {
		return nil, err
	}

	log, logOut := openLog(root, cfg)
	log = log.With().Str("run_id", uuid.NewString()).Logger()

	return &session{root: root, cfg: cfg, log: log, logOut: logOut}, nil
}

// configPath returns the explicit --config path, or <root>/ledger.yaml.
func configPath(root, explicit string) (string, error) {
	if explicit == "" {
		return filepath.Join(root, config.FileName), nil
	}
	path, err := filepath.Abs(explicit)
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}
	return path, nil
}

// loadConfig reads the project config. Without --config a missing
// <root>/ledger.yaml falls back to defaults; an explicit path must exist.
func loadConfig(root, explicit string) (*config.Config, error) {
	path, err := configPath(root, explicit)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && explicit == "" {
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openLog builds the run logger. With no log directory configured, or when
// the log file cannot be opened, it logs to the console only.
func openLog(root string, cfg *config.Config) (zerolog.Logger, io.Closer) {
	level := logging.ParseLevel(cfg.Log.Level)
	if cfg.Log.Dir == "" {
		return logging.NewConsole(level), nil
	}

	log, logOut, err := logging.Open(cfg.LogDir(root), cfg.Log.File, level, cfg.Log.Console)
	if err != nil {
		log = logging.NewConsole(level)
		log.Warn().Err(err).Msg("Log file unavailable, logging to console only")
		return log, nil
	}
	return log, logOut
}

// bootstrap creates the data directory. The log directory is created by
// logging.Open when the session starts.
func bootstrap(root string, cfg *config.Config) error {
	dir := cfg.DataDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// fail logs err as the reason the command stopped and returns it.
func (s *session) fail(err error) error {
	s.log.Error().Err(err).Msg("Run failed")
	return err
}

func (s *session) Close() error {
	if s.logOut == nil {
		return nil
	}
	return s.logOut.Close()
}
