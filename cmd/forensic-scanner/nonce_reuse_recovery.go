package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/5n10sndkts/forensic-scanner/internal/config"
	"github.com/5n10sndkts/forensic-scanner/internal/noncecrawl"
	"github.com/5n10sndkts/forensic-scanner/internal/resultio"
	"github.com/5n10sndkts/forensic-scanner/internal/rpcclient"
	"github.com/5n10sndkts/forensic-scanner/internal/vault"
)

// newNonceReuseRecoveryCmd exposes the crawler's recovery step as a
// standalone command over two explicit (txid, vin) pairs — useful once a
// collision has already been spotted by other means and only the key
// derivation step remains.
func newNonceReuseRecoveryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nonce-reuse-recovery",
		Short: "Recover a private key from two transactions whose signatures share a nonce",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, true)
			if err != nil {
				return err
			}
			return runNonceReuseRecovery(cmd, cfg)
		},
	}
	cmd.Flags().String("tx1", "", "first txid")
	cmd.Flags().Int("vin1", 0, "input index in tx1")
	cmd.Flags().String("tx2", "", "second txid")
	cmd.Flags().Int("vin2", 0, "input index in tx2")
	_ = cmd.MarkFlagRequired("tx1")
	_ = cmd.MarkFlagRequired("tx2")
	return cmd
}

func runNonceReuseRecovery(cmd *cobra.Command, cfg config.Config) error {
	tx1, _ := cmd.Flags().GetString("tx1")
	vin1, _ := cmd.Flags().GetInt("vin1")
	tx2, _ := cmd.Flags().GetString("tx2")
	vin2, _ := cmd.Flags().GetInt("vin2")

	rpc, err := rpcclient.New(rpcclient.Config{Host: cfg.RPC.URL, User: cfg.RPC.User, Pass: cfg.RPC.Pass})
	if err != nil {
		return fmt.Errorf("connecting to Bitcoin RPC: %w", err)
	}
	defer rpc.Shutdown()

	sig1, err := extractSignature(rpc, tx1, vin1)
	if err != nil {
		return fmt.Errorf("tx1: %w", err)
	}
	sig2, err := extractSignature(rpc, tx2, vin2)
	if err != nil {
		return fmt.Errorf("tx2: %w", err)
	}
	if sig1.r != sig2.r {
		return fmt.Errorf("inputs do not share an r value (%x vs %x) — not a nonce reuse", sig1.r, sig2.r)
	}

	priv, err := noncecrawl.RecoverPrivateKeyFromNonceReuse(sig1.r, sig1.s, sig2.s, sig1.z, sig2.z, sig1.pubKey)
	if err != nil {
		return fmt.Errorf("recovery rejected: %w", err)
	}

	wif, err := noncecrawl.PrivKeyToWIF(priv)
	if err != nil {
		return fmt.Errorf("encoding recovered key as WIF: %w", err)
	}

	passphrase := cfg.VaultPassphrase
	if passphrase == "" {
		passphrase = vault.DefaultPassphrase
	}
	enc, err := vault.EncryptPrivateKey(wif, passphrase)
	if err != nil {
		return fmt.Errorf("encrypting recovered key: %w", err)
	}

	rec := resultio.NewRecoveredKeyRecord(sig1.address, enc, fmt.Sprintf("%s:%d / %s:%d", tx1, vin1, tx2, vin2), time.Now())
	return resultio.WriteRecoveredKeyRecord(os.Stdout, rec)
}

type extractedSignature struct {
	r, s, z [32]byte
	pubKey  []byte
	address string
}

func extractSignature(rpc *rpcclient.Client, txid string, vin int) (extractedSignature, error) {
	var out extractedSignature

	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return out, fmt.Errorf("parsing txid: %w", err)
	}
	tx, err := rpc.RawTransaction(hash)
	if err != nil {
		return out, fmt.Errorf("fetching transaction: %w", err)
	}
	if vin < 0 || vin >= len(tx.Vin) {
		return out, fmt.Errorf("vin %d out of range (tx has %d inputs)", vin, len(tx.Vin))
	}
	input := tx.Vin[vin]

	scriptSigBytes, err := hex.DecodeString(input.ScriptSig.Hex)
	if err != nil {
		return out, fmt.Errorf("decoding scriptSig: %w", err)
	}
	r, s, sigEnd, err := noncecrawl.FindDERSignature(scriptSigBytes)
	if err != nil {
		return out, fmt.Errorf("parsing DER signature: %w", err)
	}
	pubKey, err := noncecrawl.ExtractPubKeyFromScriptSig(scriptSigBytes, sigEnd)
	if err != nil {
		return out, fmt.Errorf("extracting pubkey: %w", err)
	}

	prevHash, err := chainhash.NewHashFromStr(input.Txid)
	if err != nil {
		return out, fmt.Errorf("parsing prevout txid: %w", err)
	}
	prevTx, err := rpc.RawTransaction(prevHash)
	if err != nil {
		return out, fmt.Errorf("fetching prevout transaction: %w", err)
	}
	if int(input.Vout) >= len(prevTx.Vout) {
		return out, fmt.Errorf("prevout vout %d out of range", input.Vout)
	}

	z, err := noncecrawl.ComputeLegacySignatureHash(tx.Hex, vin, prevTx.Vout[input.Vout].ScriptPubKey.Hex, txscript.SigHashAll)
	if err != nil {
		return out, fmt.Errorf("computing sighash: %w", err)
	}

	out.r, out.s, out.z, out.pubKey = r, s, z, pubKey
	out.address = noncecrawl.AddressFromPubKey(pubKey)
	return out, nil
}
