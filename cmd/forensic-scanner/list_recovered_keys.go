package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/5n10sndkts/forensic-scanner/internal/config"
	"github.com/5n10sndkts/forensic-scanner/internal/resultio"
	"github.com/5n10sndkts/forensic-scanner/internal/vault"
)

func newListRecoveredKeysCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-recovered-keys",
		Short: "List recovered targets from the vault database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, false)
			if err != nil {
				return err
			}
			return runListRecoveredKeys(cmd, cfg)
		},
	}
	cmd.Flags().String("vuln-class", "", "filter by vulnerability class (e.g. randstorm, nonce_reuse, brainwallet)")
	cmd.Flags().Int("limit", 100, "max rows to return")
	cmd.Flags().Int("offset", 0, "pagination offset")
	cmd.Flags().Bool("show-encrypted", false, "include the encrypted private key fields in the listing")
	return cmd
}

func runListRecoveredKeys(cmd *cobra.Command, cfg config.Config) error {
	if cfg.VaultConnString == "" {
		return fmt.Errorf("VAULT_DATABASE_URL is required for list-recovered-keys")
	}
	vulnClass, _ := cmd.Flags().GetString("vuln-class")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	showEncrypted, _ := cmd.Flags().GetBool("show-encrypted")

	ctx := context.Background()
	store, err := vault.Connect(ctx, cfg.VaultConnString)
	if err != nil {
		return fmt.Errorf("connecting to vault: %w", err)
	}
	defer store.Close()

	targets, err := store.QueryByClass(ctx, vulnClass, limit, offset)
	if err != nil {
		return fmt.Errorf("querying targets: %w", err)
	}
	if len(targets) == 0 {
		fmt.Println("no recovered targets found")
		return nil
	}

	for _, t := range targets {
		fmt.Printf("%-40s %-14s %-10s access_count=%d\n", t.Address, t.VulnClass, t.Status, t.AccessCount)
		if showEncrypted {
			rec := resultio.NewRecoveredKeyRecord(t.Address, vaultEncryptedData(t), t.VulnClass, recoveredKeyTimestamp(t))
			if err := resultio.WriteRecoveredKeyRecord(cmd.OutOrStdout(), rec); err != nil {
				return fmt.Errorf("writing recovered-key record for %s: %w", t.Address, err)
			}
		}
		if err := store.RecordAccess(ctx, t.Address, time.Now().Unix()); err != nil {
			fmt.Printf("warning: failed to record access for %s: %v\n", t.Address, err)
		}
	}
	return nil
}

func vaultEncryptedData(t vault.Target) vault.EncryptedData {
	return vault.EncryptedData{
		Ciphertext: t.EncryptedPrivateKey,
		Nonce:      t.EncryptionNonce,
		Salt:       t.PBKDF2Salt,
	}
}

func recoveredKeyTimestamp(t vault.Target) time.Time {
	if t.FirstSeenTimestamp != nil {
		return time.UnixMilli(*t.FirstSeenTimestamp).UTC()
	}
	return time.Now().UTC()
}
