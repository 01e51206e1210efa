package scanbackend

import (
	"testing"

	"github.com/5n10sndkts/forensic-scanner/internal/bloomfilter"
	"github.com/5n10sndkts/forensic-scanner/internal/derive"
	"github.com/5n10sndkts/forensic-scanner/internal/fingerprint"
	"github.com/5n10sndkts/forensic-scanner/internal/prng"
)

func TestCPUBackendFindsSeededHit(t *testing.T) {
	fp := fingerprint.Fingerprint{
		Config:      fingerprint.BrowserConfig{UserAgent: "test"},
		TimestampMs: 1389781850000,
	}
	priv := prng.GeneratePrivKeyBytes(uint64(fp.TimestampMs), prng.V8Mwc1616, nil)
	addr, err := derive.DeriveAddress(priv, derive.P2PKHCompressed, nil)
	if err != nil {
		t.Fatalf("DeriveAddress: %v", err)
	}

	bloom := bloomfilter.New(bloomfilter.Config{ExpectedItems: 10, FPRate: 0.001, NumHashes: 15})
	bloom.Insert(addr.Hash160)

	backend := NewCPUBackend()
	hits, err := backend.ProcessBatch([]fingerprint.Fingerprint{fp}, []prng.Engine{prng.V8Mwc1616}, bloom)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("len(hits) = %d, want 1", len(hits))
	}
	if hits[0].PrivKey != priv {
		t.Errorf("recovered priv key mismatch")
	}
	if hits[0].Address.Encoded != addr.Encoded {
		t.Errorf("address = %s, want %s", hits[0].Address.Encoded, addr.Encoded)
	}
}

func TestCPUBackendSkipsNonMatchingFingerprints(t *testing.T) {
	fp := fingerprint.Fingerprint{TimestampMs: 42}
	bloom := bloomfilter.New(bloomfilter.DefaultConfig())

	backend := NewCPUBackend()
	hits, err := backend.ProcessBatch([]fingerprint.Fingerprint{fp}, []prng.Engine{prng.V8Mwc1616}, bloom)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("len(hits) = %d, want 0 for an empty bloom filter", len(hits))
	}
}

func TestSelectCpuAlwaysAvailable(t *testing.T) {
	b, err := Select(Cpu)
	if err != nil {
		t.Fatalf("Select(Cpu): %v", err)
	}
	if b.Name() != "cpu" {
		t.Errorf("Name() = %s, want cpu", b.Name())
	}
}

func TestSelectAutoNeverErrors(t *testing.T) {
	b, err := Select(Auto)
	if err != nil {
		t.Fatalf("Select(Auto): %v", err)
	}
	if b == nil {
		t.Error("Select(Auto) returned a nil backend")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{Auto: "auto", Wgpu: "wgpu", OpenCl: "opencl", Cpu: "cpu"}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %s, want %s", k, got, want)
		}
	}
}
