package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTargetStartsPending(t *testing.T) {
	target := NewTarget("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "randstorm")
	assert.Equal(t, "pending", target.Status)
	assert.Empty(t, target.EncryptedPrivateKey)
}

func TestWithEncryptedKeyMarksConfirmed(t *testing.T) {
	enc, err := EncryptPrivateKey(testWIFCompressed, DefaultPassphrase)
	require.NoError(t, err)

	target := NewTarget("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "randstorm").WithEncryptedKey(enc)

	assert.Equal(t, "confirmed", target.Status)
	assert.Equal(t, enc.Ciphertext, target.EncryptedPrivateKey)
	assert.Equal(t, enc.Nonce, target.EncryptionNonce)
	assert.Equal(t, enc.Salt, target.PBKDF2Salt)

	decrypted, err := DecryptPrivateKey(EncryptedData{
		Ciphertext: target.EncryptedPrivateKey,
		Nonce:      target.EncryptionNonce,
		Salt:       target.PBKDF2Salt,
	}, DefaultPassphrase)
	require.NoError(t, err)
	assert.Equal(t, testWIFCompressed, decrypted)
}
