package noncecrawl

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// ComputeLegacySignatureHash computes z, the double-SHA-256 digest a
// legacy (pre-SegWit) input's signature actually committed to: the
// transaction serialized with every scriptSig blanked except inputIdx's,
// which is replaced by the prevout's scriptPubKey, followed by the
// 4-byte little-endian sighash type, hashed twice.
//
// SegWit inputs use BIP-143 digests instead and are out of scope here —
// callers should only reach this for legacy P2PKH/P2PK scriptSigs.
func ComputeLegacySignatureHash(rawTxHex string, inputIdx int, prevOutScriptPubKeyHex string, hashType txscript.SigHashType) ([32]byte, error) {
	var z [32]byte

	rawTxBytes, err := hex.DecodeString(rawTxHex)
	if err != nil {
		return z, fmt.Errorf("decoding raw tx hex: %w", err)
	}
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(rawTxBytes)); err != nil {
		return z, fmt.Errorf("deserializing tx: %w", err)
	}
	if inputIdx < 0 || inputIdx >= len(tx.TxIn) {
		return z, fmt.Errorf("input index %d out of range (tx has %d inputs)", inputIdx, len(tx.TxIn))
	}

	subScript, err := hex.DecodeString(prevOutScriptPubKeyHex)
	if err != nil {
		return z, fmt.Errorf("decoding prevout scriptPubKey hex: %w", err)
	}

	digest, err := txscript.CalcSignatureHash(subScript, hashType, &tx, inputIdx)
	if err != nil {
		return z, fmt.Errorf("calc signature hash: %w", err)
	}
	copy(z[:], digest)
	return z, nil
}
