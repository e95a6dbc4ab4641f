package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in a project directory.
const FileName = "ledger.yaml"

// EnvPrefix prefixes environment overrides, e.g. TXNLEDGER_LEDGER_COUNT.
const EnvPrefix = "TXNLEDGER"

// Config represents the top-level ledger.yaml configuration.
type Config struct {
	Ledger    LedgerConfig    `yaml:"ledger" mapstructure:"ledger"`
	Generator GeneratorConfig `yaml:"generator" mapstructure:"generator"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// LedgerConfig locates the transaction file and seeds a generation run.
type LedgerConfig struct {
	DataDir        string `yaml:"data_dir" mapstructure:"data_dir"`
	FileName       string `yaml:"file_name" mapstructure:"file_name"`
	InitialBalance string `yaml:"initial_balance" mapstructure:"initial_balance"` // decimal text, e.g. "5000.00"
	Count          int    `yaml:"count" mapstructure:"count"`
}

// GeneratorConfig controls randomness.
type GeneratorConfig struct {
	Seed uint64 `yaml:"seed" mapstructure:"seed"` // 0 = random per run
}

// LogConfig controls the log sink.
type LogConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	File    string `yaml:"file" mapstructure:"file"`
	Level   string `yaml:"level" mapstructure:"level"`
	Console bool   `yaml:"console" mapstructure:"console"`
}

// Load reads a ledger.yaml file from disk. Values absent from the file keep
// their defaults, and TXNLEDGER_* environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			DataDir:        "data",
			FileName:       "transactions.csv",
			InitialBalance: "5000.00",
			Count:          1000,
		},
		Log: LogConfig{
			Dir:     "logs",
			File:    "transaction_system.log",
			Level:   "info",
			Console: true,
		},
	}
}

// Validate checks values that cannot be expressed in the YAML types.
func (c *Config) Validate() error {
	if _, err := c.Balance(); err != nil {
		return err
	}
	if c.Ledger.Count < 0 {
		return fmt.Errorf("ledger.count must not be negative, got %d", c.Ledger.Count)
	}
	if c.Ledger.FileName == "" {
		return errors.New("ledger.file_name must be set")
	}
	return nil
}

// Balance parses the configured initial balance.
func (c *Config) Balance() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Ledger.InitialBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing initial_balance %q: %w", c.Ledger.InitialBalance, err)
	}
	return d, nil
}

// DataDir returns the data directory resolved against root.
func (c *Config) DataDir(root string) string {
	return resolve(root, c.Ledger.DataDir)
}

// RecordPath returns the transaction file path resolved against root.
func (c *Config) RecordPath(root string) string {
	return filepath.Join(c.DataDir(root), c.Ledger.FileName)
}

// LogDir returns the log directory resolved against root.
func (c *Config) LogDir(root string) string {
	return resolve(root, c.Log.Dir)
}

func resolve(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("ledger.data_dir", d.Ledger.DataDir)
	v.SetDefault("ledger.file_name", d.Ledger.FileName)
	v.SetDefault("ledger.initial_balance", d.Ledger.InitialBalance)
	v.SetDefault("ledger.count", d.Ledger.Count)
	v.SetDefault("generator.seed", d.Generator.Seed)
	v.SetDefault("log.dir", d.Log.Dir)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.console", d.Log.Console)
}
