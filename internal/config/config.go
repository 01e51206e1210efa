// Package config layers this module's runtime configuration: a config
// file, environment variables, and CLI flags, in that increasing order of
// precedence, via spf13/viper. Credential fields have no compiled-in
// default — they must come from the environment or a flag, following the
// teacher's requireEnv idiom in cmd/engine/main.go.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/5n10sndkts/forensic-scanner/internal/vault"
)

// RPC holds Bitcoin Core RPC connection settings.
type RPC struct {
	URL  string
	User string
	Pass string
}

// Config is the full set of settings the forensic-scanner subcommands
// read, assembled from (in ascending precedence) a config file, the
// process environment, and explicit CLI flags bound by the caller.
type Config struct {
	RPC                RPC
	VaultPassphrase    string
	VaultConnString    string
	CheckpointPath     string
	ScanMode           string
	Backend            string
	TargetListPath     string
	StartBlock         int64
	EndBlock           int64
	CheckpointInterval int64
	RateLimitMs        int64
}

// New builds a viper instance pre-bound to this module's environment
// variables and defaults. Callers bind their command's flags on top of it
// before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	_ = v.BindEnv("rpc.url", "RPC_URL")
	_ = v.BindEnv("rpc.user", "RPC_USER")
	_ = v.BindEnv("rpc.pass", "RPC_PASS")
	_ = v.BindEnv("vault.passphrase", "NONCE_CRAWLER_PASSPHRASE")
	_ = v.BindEnv("vault.conn_string", "VAULT_DATABASE_URL")

	v.SetDefault("rpc.url", "localhost:8332")
	v.SetDefault("checkpoint.interval", 100)
	v.SetDefault("ratelimit.ms", 50)
	v.SetDefault("scan.mode", "standard")
	v.SetDefault("scan.backend", "auto")

	v.SetConfigName("forensic-scanner")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.forensic-scanner")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			// A malformed config file is worth surfacing; a missing one is
			// the common case (env/flags only) and not an error.
			fmt.Printf("warning: could not read config file: %v\n", err)
		}
	}
	return v
}

// Load reads the layered settings out of v. rpcRequired controls whether
// missing RPC credentials are fatal — commands that don't touch the
// blockchain (e.g. list-recovered-keys) don't need them.
func Load(v *viper.Viper, rpcRequired bool) (Config, error) {
	cfg := Config{
		RPC: RPC{
			URL:  v.GetString("rpc.url"),
			User: v.GetString("rpc.user"),
			Pass: v.GetString("rpc.pass"),
		},
		VaultPassphrase:    v.GetString("vault.passphrase"),
		VaultConnString:    v.GetString("vault.conn_string"),
		CheckpointPath:     v.GetString("checkpoint.path"),
		ScanMode:           v.GetString("scan.mode"),
		Backend:            v.GetString("scan.backend"),
		TargetListPath:     v.GetString("targets.path"),
		StartBlock:         v.GetInt64("scan.start_block"),
		EndBlock:           v.GetInt64("scan.end_block"),
		CheckpointInterval: v.GetInt64("checkpoint.interval"),
		RateLimitMs:        v.GetInt64("ratelimit.ms"),
	}

	if cfg.VaultPassphrase == "" {
		cfg.VaultPassphrase = vault.DefaultPassphrase
	}

	if rpcRequired {
		if cfg.RPC.User == "" {
			return Config{}, fmt.Errorf("RPC_USER is required (env var or --rpc-user)")
		}
		if cfg.RPC.Pass == "" {
			return Config{}, fmt.Errorf("RPC_PASS is required (env var or --rpc-pass)")
		}
	}
	return cfg, nil
}
