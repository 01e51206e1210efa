// Package resultio formats scan and recovery output: the CSV result
// listings and the standalone recovered-key JSON record.
package resultio

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/5n10sndkts/forensic-scanner/internal/fingerprint"
	"github.com/5n10sndkts/forensic-scanner/internal/vault"
)

// ScanHit is one confirmed Randstorm match, ready to format as a result row.
type ScanHit struct {
	Address        string
	Confidence     string
	Config         fingerprint.BrowserConfig
	TimestampMs    int64
	DerivationPath string
}

// ConfidenceForPhase maps the fingerprint phase that produced a hit to the
// CSV's Confidence column: the narrower the phase, the higher-ranked the
// fingerprint that matched, so the higher the confidence.
func ConfidenceForPhase(phase fingerprint.Phase) string {
	switch phase {
	case fingerprint.PhaseOne:
		return "HIGH"
	case fingerprint.PhaseTwo:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func browserConfigField(c fingerprint.BrowserConfig) string {
	return fmt.Sprintf("%s/%s/%dx%d", c.UserAgent, c.Platform, c.ScreenWidth, c.ScreenHeight)
}

// WriteScanResults writes the header `Address,Status,Confidence,
// BrowserConfig,Timestamp,DerivationPath` followed by one row per hit.
// Status is always VULNERABLE.
func WriteScanResults(w io.Writer, hits []ScanHit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Address", "Status", "Confidence", "BrowserConfig", "Timestamp", "DerivationPath"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, h := range hits {
		row := []string{
			h.Address,
			"VULNERABLE",
			h.Confidence,
			browserConfigField(h.Config),
			time.UnixMilli(h.TimestampMs).UTC().Format(time.RFC3339),
			h.DerivationPath,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", h.Address, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DirectSweepHit is the reduced row direct-sweep mode emits: no browser
// config or derivation path, since a direct sweep recomputes a fixed
// address variant straight from each timestamp.
type DirectSweepHit struct {
	Address     string
	TimestampMs int64
}

// WriteDirectSweepResults writes the header `Timestamp,Address`.
func WriteDirectSweepResults(w io.Writer, hits []DirectSweepHit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Timestamp", "Address"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, h := range hits {
		row := []string{
			time.UnixMilli(h.TimestampMs).UTC().Format(time.RFC3339),
			h.Address,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", h.Address, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RecoveredKeyRecord is the standalone JSON form of a recovered key, used
// when emitting a result outside the vault database.
type RecoveredKeyRecord struct {
	Address       string `json:"address"`
	Network       string `json:"network"`
	EncryptedWIF  string `json:"encrypted_wif"`
	Nonce         string `json:"nonce"`
	Salt          string `json:"salt"`
	Encryption    string `json:"encryption"`
	KDF           string `json:"kdf"`
	KDFIterations int    `json:"kdf_iterations"`
	RecoveredFrom string `json:"recovered_from"`
	Timestamp     string `json:"timestamp"`
	Warning       string `json:"warning"`
}

const recoveredKeyWarning = "contains an encrypted private key; handle this file as you would the key itself"

// NewRecoveredKeyRecord builds the standalone record for address, whose
// key was encrypted as enc and whose provenance is recoveredFrom (e.g. a
// txid pair or a fingerprint description).
func NewRecoveredKeyRecord(address string, enc vault.EncryptedData, recoveredFrom string, recoveredAt time.Time) RecoveredKeyRecord {
	return RecoveredKeyRecord{
		Address:       address,
		Network:       "mainnet",
		EncryptedWIF:  hex.EncodeToString(enc.Ciphertext),
		Nonce:         hex.EncodeToString(enc.Nonce),
		Salt:          hex.EncodeToString(enc.Salt),
		Encryption:    "AES-256-GCM",
		KDF:           "PBKDF2-HMAC-SHA256",
		KDFIterations: 100_000,
		RecoveredFrom: recoveredFrom,
		Timestamp:     recoveredAt.UTC().Format(time.RFC3339),
		Warning:       recoveredKeyWarning,
	}
}

// WriteRecoveredKeyRecord writes rec as indented JSON.
func WriteRecoveredKeyRecord(w io.Writer, rec RecoveredKeyRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
