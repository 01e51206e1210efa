// Package derive walks a candidate 32-byte private key to its secp256k1
// public key and on to the four address variants spec.md §4.3 names, and
// drives the BIP-44/49/84/86 multi-path derivation tree from a BIP-39 seed.
package derive

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// AddressVariant tags which of the four standard encodings a derived
// address uses — a closed set known at compile time.
type AddressVariant int

const (
	P2PKHCompressed AddressVariant = iota
	P2PKHUncompressed
	P2SHP2WPKH
	P2WPKH
	P2TR
)

func (v AddressVariant) String() string {
	switch v {
	case P2PKHCompressed:
		return "p2pkh-compressed"
	case P2PKHUncompressed:
		return "p2pkh-uncompressed"
	case P2SHP2WPKH:
		return "p2sh-p2wpkh"
	case P2WPKH:
		return "p2wpkh"
	case P2TR:
		return "p2tr"
	default:
		return "unknown"
	}
}

// IsValidScalar reports whether candidate represents a nonzero scalar less
// than the secp256k1 curve order — the only failure mode the PRNG layer
// can hand upward (spec.md §4.1's failure semantics: invalid scalars are
// discarded silently by the caller).
func IsValidScalar(candidate [32]byte) bool {
	var scalar secp256k1.ModNScalar
	overflow := scalar.SetBytes(&candidate)
	if overflow != 0 {
		return false
	}
	return !scalar.IsZero()
}

// DerivedAddress is one (path, variant) encoding of a candidate private key.
type DerivedAddress struct {
	Variant  AddressVariant
	Path     string
	Index    uint32
	Hash160  []byte // 20 bytes for P2PKH/P2SH/P2WPKH
	Taproot  []byte // 32-byte x-only output key for P2TR
	Encoded  string
}

// PrivKeyToPubKey derives the secp256k1 public key for a 32-byte scalar.
func PrivKeyToPubKey(priv [32]byte) *btcec.PublicKey {
	privKey, pubKey := btcec.PrivKeyFromBytes(priv[:])
	_ = privKey
	return pubKey
}

// DeriveAddress computes the requested address variant for a candidate
// private key under params (mainnet by default).
func DeriveAddress(priv [32]byte, variant AddressVariant, params *chaincfg.Params) (DerivedAddress, error) {
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	if !IsValidScalar(priv) {
		return DerivedAddress{}, fmt.Errorf("candidate is not a valid secp256k1 scalar")
	}

	pub := PrivKeyToPubKey(priv)
	compressed := pub.SerializeCompressed()
	uncompressed := pub.SerializeUncompressed()

	switch variant {
	case P2PKHCompressed:
		addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(compressed), params)
		if err != nil {
			return DerivedAddress{}, fmt.Errorf("p2pkh-compressed: %w", err)
		}
		return DerivedAddress{Variant: variant, Hash160: addr.Hash160()[:], Encoded: addr.EncodeAddress()}, nil

	case P2PKHUncompressed:
		addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(uncompressed), params)
		if err != nil {
			return DerivedAddress{}, fmt.Errorf("p2pkh-uncompressed: %w", err)
		}
		return DerivedAddress{Variant: variant, Hash160: addr.Hash160()[:], Encoded: addr.EncodeAddress()}, nil

	case P2SHP2WPKH:
		witnessProg := btcutil.Hash160(compressed)
		witnessAddr, err := btcutil.NewAddressWitnessPubKeyHash(witnessProg, params)
		if err != nil {
			return DerivedAddress{}, fmt.Errorf("p2sh-p2wpkh witness program: %w", err)
		}
		redeemScript, err := witnessRedeemScript(witnessAddr)
		if err != nil {
			return DerivedAddress{}, fmt.Errorf("p2sh-p2wpkh redeem script: %w", err)
		}
		addr, err := btcutil.NewAddressScriptHash(redeemScript, params)
		if err != nil {
			return DerivedAddress{}, fmt.Errorf("p2sh-p2wpkh: %w", err)
		}
		return DerivedAddress{Variant: variant, Hash160: addr.Hash160()[:], Encoded: addr.EncodeAddress()}, nil

	case P2WPKH:
		addr, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(compressed), params)
		if err != nil {
			return DerivedAddress{}, fmt.Errorf("p2wpkh: %w", err)
		}
		return DerivedAddress{Variant: variant, Hash160: addr.WitnessProgram(), Encoded: addr.EncodeAddress()}, nil

	case P2TR:
		// BIP-86 key-path spend: the output key is the internal key tweaked
		// by hashTapTweak(internalKey), not the internal key itself.
		outputKey := txscript.ComputeTaprootOutputKey(pub, nil)
		xOnly := outputKey.SerializeCompressed()[1:]
		addr, err := btcutil.NewAddressTaproot(xOnly, params)
		if err != nil {
			return DerivedAddress{}, fmt.Errorf("p2tr: %w", err)
		}
		return DerivedAddress{Variant: variant, Taproot: xOnly, Encoded: addr.EncodeAddress()}, nil

	default:
		return DerivedAddress{}, fmt.Errorf("unknown address variant %d", variant)
	}
}

// witnessRedeemScript builds OP_0 || 0x14 || hash160(pubkey), the redeem
// script a P2SH-P2WPKH address wraps.
func witnessRedeemScript(witnessAddr *btcutil.AddressWitnessPubKeyHash) ([]byte, error) {
	prog := witnessAddr.WitnessProgram()
	script := make([]byte, 0, 2+len(prog))
	script = append(script, 0x00, byte(len(prog)))
	script = append(script, prog...)
	return script, nil
}
