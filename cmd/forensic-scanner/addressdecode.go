package main

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// hash160sForTargets decodes a mainnet address list into the raw 20-byte
// hash160/witness-program payloads the Bloom filter indexes on. Taproot
// (bc1p) targets carry a 32-byte x-only key instead and are reported, not
// included in the hash160 set this command scans the P2PKH/P2SH/P2WPKH
// variants against.
func hash160sForTargets(addresses []string) ([][]byte, error) {
	out := make([][]byte, 0, len(addresses))
	for _, a := range addresses {
		addr, err := btcutil.DecodeAddress(a, &chaincfg.MainNetParams)
		if err != nil {
			return nil, fmt.Errorf("decoding target address %s: %w", a, err)
		}
		switch v := addr.(type) {
		case *btcutil.AddressPubKeyHash:
			h := v.Hash160()
			out = append(out, h[:])
		case *btcutil.AddressScriptHash:
			h := v.Hash160()
			out = append(out, h[:])
		case *btcutil.AddressWitnessPubKeyHash:
			out = append(out, v.WitnessProgram())
		default:
			fmt.Printf("warning: %s has no hash160 payload (Taproot?), skipping\n", a)
		}
	}
	return out, nil
}
