package noncecrawl

import "testing"

func TestParseDERSignatureTooShort(t *testing.T) {
	_, _, err := ParseDERSignature([]byte{0x02, 0x01, 0x01})
	if err == nil {
		t.Error("expected error for too-short input")
	}
}

func TestParseDERSignatureEmptyInput(t *testing.T) {
	_, _, err := ParseDERSignature(nil)
	if err == nil {
		t.Error("expected error for empty input")
	}
}

func TestParseDERSignatureMissingRMarker(t *testing.T) {
	der := []byte{0x03, 0x01, 0x01, 0x02, 0x01, 0x01, 0x00, 0x00}
	_, _, err := ParseDERSignature(der)
	if err == nil {
		t.Error("expected error for missing R marker")
	}
}

func TestParseDERSignatureMissingSMarker(t *testing.T) {
	der := []byte{0x02, 0x01, 0x01, 0x03, 0x01, 0x01, 0x00, 0x00}
	_, _, err := ParseDERSignature(der)
	if err == nil {
		t.Error("expected error for missing S marker")
	}
}

func TestParseDERSignatureTruncatedR(t *testing.T) {
	der := []byte{0x02, 0x20, 0x01, 0x02}
	_, _, err := ParseDERSignature(der)
	if err == nil {
		t.Error("expected error for truncated R component")
	}
}

func TestParseDERSignatureMinimal(t *testing.T) {
	// Minimal 8-byte DER body: 1-byte R, 1-byte S.
	der := []byte{0x02, 0x01, 0x05, 0x02, 0x01, 0x07, 0xAA, 0xBB}
	r, s, err := ParseDERSignature(der)
	if err != nil {
		t.Fatalf("ParseDERSignature: %v", err)
	}
	if r[31] != 0x05 {
		t.Errorf("r low byte = %#x, want 0x05", r[31])
	}
	if s[31] != 0x07 {
		t.Errorf("s low byte = %#x, want 0x07", s[31])
	}
}

func TestParseDERSignatureLeadingZeroR(t *testing.T) {
	rValue := make([]byte, 33)
	rValue[0] = 0x00
	rValue[1] = 0xFF // high bit set, hence the sign-disambiguation 0x00 prefix
	der := append([]byte{0x02, 0x21}, rValue...)
	der = append(der, 0x02, 0x01, 0x09)

	r, _, err := ParseDERSignature(der)
	if err != nil {
		t.Fatalf("ParseDERSignature: %v", err)
	}
	if r[0] != 0xFF {
		t.Errorf("r[0] = %#x, want 0xFF (leading sign byte stripped)", r[0])
	}
}

func TestFindDERSignatureNoSentinel(t *testing.T) {
	_, _, _, err := FindDERSignature([]byte{0x01, 0x02, 0x03})
	if err == nil {
		t.Error("expected error when no 0x30 sentinel present")
	}
}

func TestFindDERSignatureLocatesEmbeddedSig(t *testing.T) {
	inner := []byte{0x02, 0x01, 0x11, 0x02, 0x01, 0x22}
	outer := append([]byte{0x30, byte(len(inner))}, inner...)
	scriptSig := append([]byte{0x47}, outer...) // push-length prefix byte before the sig

	r, s, sigEnd, err := FindDERSignature(scriptSig)
	if err != nil {
		t.Fatalf("FindDERSignature: %v", err)
	}
	if r[31] != 0x11 || s[31] != 0x22 {
		t.Errorf("r/s = %x/%x, want 0x11/0x22", r[31], s[31])
	}
	if sigEnd != len(scriptSig) {
		t.Errorf("sigEnd = %d, want %d", sigEnd, len(scriptSig))
	}
}

func TestExtractPubKeyFromScriptSigCompressed(t *testing.T) {
	pubKey := append([]byte{0x02}, make([]byte, 32)...)
	scriptSig := append([]byte{0xAA, 0x01 /* sighash type */, 0x21 /* push 33 bytes */}, pubKey...)
	got, err := ExtractPubKeyFromScriptSig(scriptSig, 0)
	if err != nil {
		t.Fatalf("ExtractPubKeyFromScriptSig: %v", err)
	}
	if len(got) != 33 {
		t.Errorf("pubkey len = %d, want 33", len(got))
	}
}

func TestExtractPubKeyFromScriptSigUncompressed(t *testing.T) {
	pubKey := append([]byte{0x04}, make([]byte, 64)...)
	scriptSig := append([]byte{0xAA, 0x01, 0x41 /* push 65 bytes */}, pubKey...)
	got, err := ExtractPubKeyFromScriptSig(scriptSig, 0)
	if err != nil {
		t.Fatalf("ExtractPubKeyFromScriptSig: %v", err)
	}
	if len(got) != 65 {
		t.Errorf("pubkey len = %d, want 65", len(got))
	}
}

func TestExtractPubKeyFromScriptSigNoTrailingBytes(t *testing.T) {
	_, err := ExtractPubKeyFromScriptSig([]byte{0xAA, 0x01}, 0)
	if err == nil {
		t.Error("expected error when no pubkey bytes follow the sighash type")
	}
}
