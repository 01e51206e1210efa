package config

import "testing"

func TestLoadFillsDefaultPassphraseWhenUnset(t *testing.T) {
	v := New()
	cfg, err := Load(v, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.VaultPassphrase == "" {
		t.Error("expected a non-empty default vault passphrase")
	}
	if cfg.CheckpointInterval != 100 {
		t.Errorf("CheckpointInterval = %d, want 100", cfg.CheckpointInterval)
	}
	if cfg.RateLimitMs != 50 {
		t.Errorf("RateLimitMs = %d, want 50", cfg.RateLimitMs)
	}
}

func TestLoadRequiresRPCCredentialsWhenMandated(t *testing.T) {
	v := New()
	if _, err := Load(v, true); err == nil {
		t.Error("expected an error when RPC credentials are required but unset")
	}
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	t.Setenv("RPC_USER", "alice")
	t.Setenv("RPC_PASS", "hunter2")
	t.Setenv("NONCE_CRAWLER_PASSPHRASE", "correct horse battery staple")

	v := New()
	cfg, err := Load(v, true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RPC.User != "alice" || cfg.RPC.Pass != "hunter2" {
		t.Errorf("RPC = %+v, want alice/hunter2", cfg.RPC)
	}
	if cfg.VaultPassphrase != "correct horse battery staple" {
		t.Errorf("VaultPassphrase = %q", cfg.VaultPassphrase)
	}
}
