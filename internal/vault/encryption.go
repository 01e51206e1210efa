// Package vault persists recovered private keys encrypted at rest behind
// AES-256-GCM, keyed by PBKDF2-HMAC-SHA256 over a per-record passphrase.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// DefaultPassphrase is used when no --encryption-passphrase flag or
// NONCE_CRAWLER_PASSPHRASE env var overrides it.
const DefaultPassphrase = "MadMad13221!@"

const (
	pbkdf2Iterations = 100_000
	saltSize         = 32
	nonceSize        = 12
	keySize          = 32
)

// EncryptedData is the ciphertext triple stored per vault record.
type EncryptedData struct {
	Ciphertext []byte
	Nonce      []byte
	Salt       []byte
}

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keySize, sha256.New)
}

// EncryptPrivateKey encrypts a WIF-encoded private key under passphrase,
// drawing a fresh salt and nonce from the OS CSPRNG.
func EncryptPrivateKey(wif, passphrase string) (EncryptedData, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return EncryptedData{}, fmt.Errorf("generating salt: %w", err)
	}

	key := deriveKey(passphrase, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return EncryptedData{}, fmt.Errorf("initializing AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return EncryptedData{}, fmt.Errorf("initializing GCM mode: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return EncryptedData{}, fmt.Errorf("generating nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(wif), nil)

	return EncryptedData{Ciphertext: ciphertext, Nonce: nonce, Salt: salt}, nil
}

// DecryptPrivateKey reverses EncryptPrivateKey. On any failure — wrong
// passphrase, tampered ciphertext, nonce, or salt — it returns a single
// unified error that does not reveal which component was altered.
func DecryptPrivateKey(data EncryptedData, passphrase string) (string, error) {
	const failureMsg = "decryption failed: wrong passphrase or corrupted data"

	key := deriveKey(passphrase, data.Salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf(failureMsg)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf(failureMsg)
	}
	if len(data.Nonce) != gcm.NonceSize() {
		return "", fmt.Errorf(failureMsg)
	}

	plaintext, err := gcm.Open(nil, data.Nonce, data.Ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf(failureMsg)
	}
	return string(plaintext), nil
}
