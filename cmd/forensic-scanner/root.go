package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/5n10sndkts/forensic-scanner/internal/config"
)

// NewRootCmd assembles the full subcommand tree: randstorm-scan,
// randstorm-validate, nonce-reuse-crawler, nonce-reuse-recovery, and
// list-recovered-keys, per spec.md §6's CLI surface.
func NewRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:   "forensic-scanner",
		Short: "Forensic scanner for weak-entropy and nonce-reuse compromised Bitcoin wallets",
		Long: "forensic-scanner reconstructs private keys from wallets generated under weak\n" +
			"JavaScript Math.random() entropy (the Randstorm vulnerability class) and from\n" +
			"ECDSA signatures that reused a nonce across two transactions.",
	}

	root.PersistentFlags().String("rpc-url", "", "Bitcoin Core RPC host:port (env RPC_URL)")
	root.PersistentFlags().String("rpc-user", "", "Bitcoin Core RPC username (env RPC_USER)")
	root.PersistentFlags().String("rpc-pass", "", "Bitcoin Core RPC password (env RPC_PASS)")
	root.PersistentFlags().String("vault-passphrase", "", "vault encryption passphrase (env NONCE_CRAWLER_PASSPHRASE)")
	root.PersistentFlags().String("vault-db", "", "vault Postgres connection string (env VAULT_DATABASE_URL)")
	_ = v.BindPFlag("rpc.url", root.PersistentFlags().Lookup("rpc-url"))
	_ = v.BindPFlag("rpc.user", root.PersistentFlags().Lookup("rpc-user"))
	_ = v.BindPFlag("rpc.pass", root.PersistentFlags().Lookup("rpc-pass"))
	_ = v.BindPFlag("vault.passphrase", root.PersistentFlags().Lookup("vault-passphrase"))
	_ = v.BindPFlag("vault.conn_string", root.PersistentFlags().Lookup("vault-db"))

	root.AddCommand(
		newRandstormScanCmd(v),
		newRandstormValidateCmd(v),
		newNonceReuseCrawlerCmd(v),
		newNonceReuseRecoveryCmd(v),
		newListRecoveredKeysCmd(v),
		newServeCmd(v),
	)
	return root
}

func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
}
