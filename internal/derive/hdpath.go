package derive

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"
)

// Purpose tags the four BIP-44/49/84/86 derivation trees this package
// walks from a shared `/0` parent.
type Purpose uint32

const (
	Purpose44 Purpose = 44 // BIP-44: legacy P2PKH
	Purpose49 Purpose = 49 // BIP-49: P2SH-P2WPKH
	Purpose84 Purpose = 84 // BIP-84: native P2WPKH
	Purpose86 Purpose = 86 // BIP-86: Taproot
)

// VariantForPurpose maps a BIP purpose code to its corresponding address
// variant.
func (p Purpose) Variant() AddressVariant {
	switch p {
	case Purpose44:
		return P2PKHCompressed
	case Purpose49:
		return P2SHP2WPKH
	case Purpose84:
		return P2WPKH
	case Purpose86:
		return P2TR
	default:
		return P2PKHCompressed
	}
}

// EntropyToMnemonic performs the BIP-39 entropy→mnemonic step.
func EntropyToMnemonic(entropy []byte) (string, error) {
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("bip39 mnemonic generation: %w", err)
	}
	return mnemonic, nil
}

// MnemonicToSeed performs the BIP-39 mnemonic→seed step: PBKDF2-HMAC-SHA512
// over "mnemonic"+passphrase, 2048 iterations, producing a 64-byte seed.
func MnemonicToSeed(mnemonic, passphrase string) []byte {
	return bip39.NewSeed(mnemonic, passphrase)
}

// MasterKey builds the BIP-32 master extended key from a 64-byte seed.
func MasterKey(seed []byte, params *chaincfg.Params) (*hdkeychain.ExtendedKey, error) {
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	master, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("bip32 master key: %w", err)
	}
	return master, nil
}

// hardened applies the BIP-32 hardened-derivation offset.
func hardened(index uint32) uint32 {
	return index + hdkeychain.HardenedKeyStart
}

// DeriveAccountZero walks m/purpose'/0'/0' for purpose, returning the
// account-level extended key. The four purpose trees share their parent at
// the `/0` node (account 0, external chain) — callers derive this once and
// iterate children per spec.md §4.3.
func DeriveAccountZeroChain(master *hdkeychain.ExtendedKey, purpose Purpose) (*hdkeychain.ExtendedKey, error) {
	purposeKey, err := master.Derive(hardened(uint32(purpose)))
	if err != nil {
		return nil, fmt.Errorf("deriving purpose' node: %w", err)
	}
	coinTypeKey, err := purposeKey.Derive(hardened(0))
	if err != nil {
		return nil, fmt.Errorf("deriving coin_type' node: %w", err)
	}
	accountKey, err := coinTypeKey.Derive(hardened(0))
	if err != nil {
		return nil, fmt.Errorf("deriving account' node: %w", err)
	}
	external, err := accountKey.Derive(0)
	if err != nil {
		return nil, fmt.Errorf("deriving external chain node: %w", err)
	}
	return external, nil
}

// DeriveChildPrivKey walks external (the result of DeriveAccountZeroChain)
// to child index i and returns its raw 32-byte private key.
func DeriveChildPrivKey(external *hdkeychain.ExtendedKey, index uint32) ([32]byte, error) {
	child, err := external.Derive(index)
	if err != nil {
		return [32]byte{}, fmt.Errorf("deriving child index %d: %w", index, err)
	}
	privKey, err := child.ECPrivKey()
	if err != nil {
		return [32]byte{}, fmt.Errorf("extracting private key for index %d: %w", index, err)
	}
	var out [32]byte
	copy(out[:], privKey.Serialize())
	return out, nil
}

// DeriveMultiPathAddresses walks all four BIP-44/49/84/86 trees for
// indices [0, count) from a candidate entropy seed, round-tripping through
// BIP-39 (entropy → mnemonic → seed) as spec.md §4.3 requires.
func DeriveMultiPathAddresses(entropy []byte, count uint32, params *chaincfg.Params) ([]DerivedAddress, error) {
	mnemonic, err := EntropyToMnemonic(entropy)
	if err != nil {
		return nil, err
	}
	seed := MnemonicToSeed(mnemonic, "")
	master, err := MasterKey(seed, params)
	if err != nil {
		return nil, err
	}

	var out []DerivedAddress
	for _, purpose := range []Purpose{Purpose44, Purpose49, Purpose84, Purpose86} {
		chain, err := DeriveAccountZeroChain(master, purpose)
		if err != nil {
			return nil, fmt.Errorf("purpose %d: %w", purpose, err)
		}
		for i := uint32(0); i < count; i++ {
			priv, err := DeriveChildPrivKey(chain, i)
			if err != nil {
				return nil, fmt.Errorf("purpose %d index %d: %w", purpose, i, err)
			}
			addr, err := DeriveAddress(priv, purpose.Variant(), params)
			if err != nil {
				return nil, fmt.Errorf("purpose %d index %d address: %w", purpose, i, err)
			}
			addr.Path = fmt.Sprintf("m/%d'/0'/0'/0/%d", purpose, i)
			addr.Index = i
			out = append(out, addr)
		}
	}
	return out, nil
}
