package derive

import (
	"bytes"
	"strings"
	"testing"
)

func TestBip39RoundTripAllZeros(t *testing.T) {
	entropy := make([]byte, 16)
	mnemonic, err := EntropyToMnemonic(entropy)
	if err != nil {
		t.Fatalf("EntropyToMnemonic: %v", err)
	}
	if !strings.HasPrefix(mnemonic, "abandon abandon abandon") {
		t.Errorf("mnemonic = %q, want prefix %q", mnemonic, "abandon abandon abandon")
	}
	if !strings.HasSuffix(mnemonic, "about") {
		t.Errorf("mnemonic = %q, want suffix %q", mnemonic, "about")
	}
}

func TestBip39RoundTripAllOnes(t *testing.T) {
	entropy := bytes.Repeat([]byte{0xFF}, 16)
	mnemonic, err := EntropyToMnemonic(entropy)
	if err != nil {
		t.Fatalf("EntropyToMnemonic: %v", err)
	}
	if !strings.HasPrefix(mnemonic, "zoo zoo") {
		t.Errorf("mnemonic = %q, want prefix %q", mnemonic, "zoo zoo")
	}
	if !strings.HasSuffix(mnemonic, "wrong") {
		t.Errorf("mnemonic = %q, want suffix %q", mnemonic, "wrong")
	}
}

func TestBip44_49_84_86KnownAddresses(t *testing.T) {
	entropy := make([]byte, 16)
	addrs, err := DeriveMultiPathAddresses(entropy, 1, nil)
	if err != nil {
		t.Fatalf("DeriveMultiPathAddresses: %v", err)
	}

	// BIP-86's published vectors use this same all-zero-entropy mnemonic
	// ("abandon ... about") at m/purpose'/0'/0'/0/0; the Taproot entry is
	// the account's key-path-spend-only address.
	want := map[AddressVariant]string{
		P2PKHCompressed: "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA",
		P2SHP2WPKH:      "37VucYSaXLCAsxYyAPfbSi9eh4iEcbShgf",
		P2WPKH:          "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
		P2TR:            "bc1p5cyxnuxmeuwuvkwfem96lqzszd02n6xdcjrs20cac6yqjjwudpxqkedrcr",
	}
	got := make(map[AddressVariant]string)
	for _, a := range addrs {
		got[a.Variant] = a.Encoded
	}

	for variant, wantAddr := range want {
		if got[variant] != wantAddr {
			t.Errorf("variant %s = %s, want %s", variant, got[variant], wantAddr)
		}
	}
}

func TestIsValidScalarRejectsZero(t *testing.T) {
	var zero [32]byte
	if IsValidScalar(zero) {
		t.Error("zero scalar should be invalid")
	}
}

func TestIsValidScalarRejectsOverflow(t *testing.T) {
	// secp256k1 order n; any value >= n overflows ModNScalar.
	var overflow [32]byte
	for i := range overflow {
		overflow[i] = 0xFF
	}
	if IsValidScalar(overflow) {
		t.Error("all-0xFF scalar (>= curve order) should be invalid")
	}
}

func TestIsValidScalarAcceptsOne(t *testing.T) {
	var one [32]byte
	one[31] = 1
	if !IsValidScalar(one) {
		t.Error("scalar value 1 should be valid")
	}
}

func TestAddressVariantsDiverge(t *testing.T) {
	var priv [32]byte
	priv[31] = 7
	p2pkh, err := DeriveAddress(priv, P2PKHCompressed, nil)
	if err != nil {
		t.Fatalf("P2PKHCompressed: %v", err)
	}
	p2wpkh, err := DeriveAddress(priv, P2WPKH, nil)
	if err != nil {
		t.Fatalf("P2WPKH: %v", err)
	}
	if p2pkh.Encoded == p2wpkh.Encoded {
		t.Error("P2PKH and P2WPKH encodings should differ for the same key")
	}
	if !strings.HasPrefix(p2pkh.Encoded, "1") {
		t.Errorf("P2PKH-compressed address %q should start with '1'", p2pkh.Encoded)
	}
	if !strings.HasPrefix(p2wpkh.Encoded, "bc1q") {
		t.Errorf("P2WPKH address %q should start with 'bc1q'", p2wpkh.Encoded)
	}
}

// TestP2TROutputKeyIsTweakedNotInternal guards against regressing to the
// raw internal key: a BIP-341 output key must differ from the untweaked
// x-only internal key for the same private key.
func TestP2TROutputKeyIsTweakedNotInternal(t *testing.T) {
	var priv [32]byte
	priv[31] = 7

	p2tr, err := DeriveAddress(priv, P2TR, nil)
	if err != nil {
		t.Fatalf("P2TR: %v", err)
	}

	internalXOnly := PrivKeyToPubKey(priv).SerializeCompressed()[1:]
	if bytes.Equal(p2tr.Taproot, internalXOnly) {
		t.Error("P2TR output key equals the raw internal key — the BIP-341 tweak was not applied")
	}
	if len(p2tr.Taproot) != 32 {
		t.Errorf("P2TR output key length = %d, want 32", len(p2tr.Taproot))
	}
}
