package vault

// Target is a single row of the vault's persistent store: either a
// confirmed recovered key (from C4 or C5) or a watched candidate awaiting
// confirmation.
type Target struct {
	Address             string
	VulnClass           string
	FirstSeenTimestamp  *int64
	MetadataJSON        *string
	Status              string
	EncryptedPrivateKey []byte
	EncryptionNonce     []byte
	PBKDF2Salt          []byte
	AccessCount         int64
	LastAccessed        *int64
}

// NewTarget constructs a bare target row awaiting an encrypted key.
func NewTarget(address, vulnClass string) Target {
	return Target{Address: address, VulnClass: vulnClass, Status: "pending"}
}

// WithEncryptedKey attaches an encrypted private key to t, marking it
// confirmed.
func (t Target) WithEncryptedKey(enc EncryptedData) Target {
	t.EncryptedPrivateKey = enc.Ciphertext
	t.EncryptionNonce = enc.Nonce
	t.PBKDF2Salt = enc.Salt
	t.Status = "confirmed"
	return t
}

// IntelRecord is a row of the secondary intelligence table: ancillary
// evidence (e.g. a brainwallet passphrase) not itself a recovered key.
type IntelRecord struct {
	IntelType string
	Value     string
	Context   string
	VulnClass string
}
