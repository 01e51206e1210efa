package vault

import "testing"

const (
	testWIFUncompressed = "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ"
	testWIFCompressed    = "L1aW4aubDFB7yfras2S1mN3bqg9nwySY8nkoLmJebSLD5BWv3ENZ"
	testWIFTestnet       = "92Qba5hnyWSn5Ffcka56yMQauaWY6ZLd91Vzxbi4a9CCetaHtYj"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, wif := range []string{testWIFUncompressed, testWIFCompressed, testWIFTestnet} {
		enc, err := EncryptPrivateKey(wif, DefaultPassphrase)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		got, err := DecryptPrivateKey(enc, DefaultPassphrase)
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if got != wif {
			t.Errorf("round trip = %q, want %q", got, wif)
		}
	}
}

func TestDecryptWrongPassphraseFails(t *testing.T) {
	enc, err := EncryptPrivateKey(testWIFCompressed, "correct horse battery staple")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := DecryptPrivateKey(enc, "wrong passphrase"); err == nil {
		t.Error("expected decryption to fail with wrong passphrase")
	}
}

func TestDecryptTamperedCiphertextFails(t *testing.T) {
	enc, err := EncryptPrivateKey(testWIFCompressed, DefaultPassphrase)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	tampered := enc
	tampered.Ciphertext = append([]byte(nil), enc.Ciphertext...)
	tampered.Ciphertext[0] ^= 0xFF
	if _, err := DecryptPrivateKey(tampered, DefaultPassphrase); err == nil {
		t.Error("expected decryption to fail with tampered ciphertext")
	}
}

func TestDecryptTamperedNonceFails(t *testing.T) {
	enc, err := EncryptPrivateKey(testWIFCompressed, DefaultPassphrase)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	tampered := enc
	tampered.Nonce = append([]byte(nil), enc.Nonce...)
	tampered.Nonce[0] ^= 0xFF
	if _, err := DecryptPrivateKey(tampered, DefaultPassphrase); err == nil {
		t.Error("expected decryption to fail with tampered nonce")
	}
}

func TestDecryptTamperedSaltFails(t *testing.T) {
	enc, err := EncryptPrivateKey(testWIFCompressed, DefaultPassphrase)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	tampered := enc
	tampered.Salt = append([]byte(nil), enc.Salt...)
	tampered.Salt[0] ^= 0xFF
	if _, err := DecryptPrivateKey(tampered, DefaultPassphrase); err == nil {
		t.Error("expected decryption to fail with tampered salt (wrong derived key)")
	}
}

func TestDecryptErrorDoesNotDiscriminateCause(t *testing.T) {
	enc, err := EncryptPrivateKey(testWIFCompressed, DefaultPassphrase)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	wrongPass := enc
	_, errWrongPass := DecryptPrivateKey(wrongPass, "nope")

	tamperedNonce := enc
	tamperedNonce.Nonce = append([]byte(nil), enc.Nonce...)
	tamperedNonce.Nonce[0] ^= 0xFF
	_, errTamperedNonce := DecryptPrivateKey(tamperedNonce, DefaultPassphrase)

	if errWrongPass.Error() != errTamperedNonce.Error() {
		t.Errorf("error messages differ between failure causes: %q vs %q — must not leak which component was wrong",
			errWrongPass.Error(), errTamperedNonce.Error())
	}
}

func TestSaltAndNonceAreUniquePerEncryption(t *testing.T) {
	enc1, err := EncryptPrivateKey(testWIFCompressed, DefaultPassphrase)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	enc2, err := EncryptPrivateKey(testWIFCompressed, DefaultPassphrase)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if string(enc1.Salt) == string(enc2.Salt) {
		t.Error("two encryptions produced the same salt")
	}
	if string(enc1.Nonce) == string(enc2.Nonce) {
		t.Error("two encryptions produced the same nonce")
	}
}

func TestEncryptEmptyWIF(t *testing.T) {
	enc, err := EncryptPrivateKey("", DefaultPassphrase)
	if err != nil {
		t.Fatalf("encrypt empty WIF: %v", err)
	}
	got, err := DecryptPrivateKey(enc, DefaultPassphrase)
	if err != nil {
		t.Fatalf("decrypt empty WIF: %v", err)
	}
	if got != "" {
		t.Errorf("round trip of empty WIF = %q, want empty string", got)
	}
}

func TestSaltAndNonceSizes(t *testing.T) {
	enc, err := EncryptPrivateKey(testWIFCompressed, DefaultPassphrase)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if len(enc.Salt) != saltSize {
		t.Errorf("salt size = %d, want %d", len(enc.Salt), saltSize)
	}
	if len(enc.Nonce) != nonceSize {
		t.Errorf("nonce size = %d, want %d", len(enc.Nonce), nonceSize)
	}
}
