package dispatcher

import (
	"testing"

	"github.com/5n10sndkts/forensic-scanner/internal/bloomfilter"
	"github.com/5n10sndkts/forensic-scanner/internal/derive"
)

func TestCheckMilkSadFindsSeededPath(t *testing.T) {
	const ts = int64(1700000000000)
	hits := CheckMilkSad(ts, bloomfilter.NewFull(bloomfilter.DefaultConfig()))
	if len(hits) == 0 {
		t.Fatal("expected at least one hit against an always-hit bloom filter")
	}
	for _, h := range hits {
		if h.TimestampMs != ts {
			t.Errorf("hit timestamp = %d, want %d", h.TimestampMs, ts)
		}
		if h.PathIndex < 0 || h.PathIndex >= milkSadPaths {
			t.Errorf("path index %d out of range [0, %d)", h.PathIndex, milkSadPaths)
		}
		if !derive.IsValidScalar(h.PrivKey) {
			t.Errorf("hit %d carries an invalid scalar", h.PathIndex)
		}
	}
}

func TestCheckMilkSadEmptyAgainstEmptyFilter(t *testing.T) {
	hits := CheckMilkSad(1700000000000, bloomfilter.New(bloomfilter.DefaultConfig()))
	if len(hits) != 0 {
		t.Errorf("expected no hits against an empty bloom filter, got %d", len(hits))
	}
}
