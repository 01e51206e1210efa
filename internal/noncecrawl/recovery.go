package noncecrawl

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// curveOrderN is the secp256k1 group order.
var curveOrderN, _ = new(big.Int).SetString(
	"115792089237316195423570985008687907852837564279074904382605163141518161494337", 10)

// RecoverPrivateKeyFromNonceReuse solves the standard nonce-reuse relation
// for two signatures sharing r:
//
//	d = (s1*z2 - s2*z1) / (r*(s1 - s2))  mod n
//
// All subtractions are taken in [0, n) by adding n before reduction; both
// divisions use a modular inverse. Returns an error if s1 == s2 (division
// by zero — not a real collision) or if the candidate fails to reproduce
// the expected public key. expectedPubKey is required: a recovered key
// that is never compared against an observed pubkey is unverified, not
// confirmed, so a nil expectedPubKey is rejected rather than skipped.
func RecoverPrivateKeyFromNonceReuse(r, s1, s2, z1, z2 [32]byte, expectedPubKey []byte) ([32]byte, error) {
	rN := bytesToBigInt(r)
	s1N := bytesToBigInt(s1)
	s2N := bytesToBigInt(s2)
	z1N := bytesToBigInt(z1)
	z2N := bytesToBigInt(z2)

	if s1N.Cmp(s2N) == 0 {
		return [32]byte{}, fmt.Errorf("s1 == s2: not a recoverable nonce-reuse collision")
	}

	// numerator = s1*z2 - s2*z1 mod n
	num := new(big.Int).Sub(
		new(big.Int).Mod(new(big.Int).Mul(s1N, z2N), curveOrderN),
		new(big.Int).Mod(new(big.Int).Mul(s2N, z1N), curveOrderN),
	)
	num.Add(num, curveOrderN)
	num.Mod(num, curveOrderN)

	// denominator = r*(s1 - s2) mod n
	sDiff := new(big.Int).Sub(s1N, s2N)
	sDiff.Add(sDiff, curveOrderN)
	sDiff.Mod(sDiff, curveOrderN)
	den := new(big.Int).Mod(new(big.Int).Mul(rN, sDiff), curveOrderN)

	denInv := new(big.Int).ModInverse(den, curveOrderN)
	if denInv == nil {
		return [32]byte{}, fmt.Errorf("denominator has no modular inverse (r or s1-s2 is 0 mod n)")
	}

	d := new(big.Int).Mod(new(big.Int).Mul(num, denInv), curveOrderN)

	var candidate [32]byte
	d.FillBytes(candidate[:])

	if expectedPubKey == nil {
		return [32]byte{}, fmt.Errorf("no observed public key to validate against: refusing to confirm an unverified recovery")
	}
	_, derivedPub := btcec.PrivKeyFromBytes(candidate[:])
	var derivedBytes []byte
	switch len(expectedPubKey) {
	case 33:
		derivedBytes = derivedPub.SerializeCompressed()
	case 65:
		derivedBytes = derivedPub.SerializeUncompressed()
	default:
		return [32]byte{}, fmt.Errorf("unexpected pubkey length %d", len(expectedPubKey))
	}
	if !bytes.Equal(derivedBytes, expectedPubKey) {
		return [32]byte{}, fmt.Errorf("recovered key does not reproduce the observed public key")
	}

	return candidate, nil
}

func bytesToBigInt(b [32]byte) *big.Int {
	return new(big.Int).SetBytes(b[:])
}
