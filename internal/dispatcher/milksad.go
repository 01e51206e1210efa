package dispatcher

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/5n10sndkts/forensic-scanner/internal/bloomfilter"
	"github.com/5n10sndkts/forensic-scanner/internal/derive"
)

// milkSadPaths is the fixed six-path set checked against every timestamp
// independently of the browser-engine sweep, named after the libbitcoin
// mt19937-seeded wallet vulnerability (CVE-2023-39910) the original
// intelligence correlated against these timestamps.
const milkSadPaths = 6

// MilkSadHit is a confirmed match from the fixed-path sweep.
type MilkSadHit struct {
	TimestampMs int64
	PathIndex   int
	PrivKey     [32]byte
	Address     derive.DerivedAddress
}

// CheckMilkSad derives milkSadPaths candidate keys from timestampMs — one
// SHA-256 round per path over the millisecond stamp concatenated with the
// path index — and tests each against bloom.
func CheckMilkSad(timestampMs int64, bloom *bloomfilter.Filter) []MilkSadHit {
	var hits []MilkSadHit
	var tsBytes [8]byte
	binary.BigEndian.PutUint64(tsBytes[:], uint64(timestampMs))

	for i := 0; i < milkSadPaths; i++ {
		h := sha256.Sum256(append(tsBytes[:], byte(i)))
		if !derive.IsValidScalar(h) {
			continue
		}
		addr, err := derive.DeriveAddress(h, derive.P2PKHCompressed, nil)
		if err != nil {
			continue
		}
		if !bloom.MayContain(addr.Hash160) {
			continue
		}
		hits = append(hits, MilkSadHit{
			TimestampMs: timestampMs,
			PathIndex:   i,
			PrivKey:     h,
			Address:     addr,
		})
	}
	return hits
}
