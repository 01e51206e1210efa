package api

import (
	"encoding/json"
	"log"

	"github.com/5n10sndkts/forensic-scanner/internal/scanbackend"
)

// BroadcastScanHit pushes a confirmed Randstorm candidate to every
// connected websocket client — the generalization of the teacher's
// CoinJoin-alert broadcast to this module's hit events.
func BroadcastScanHit(wsHub *Hub) func(scanbackend.Candidate) {
	return func(hit scanbackend.Candidate) {
		payload := map[string]any{
			"type": "randstorm_hit",
			"hit":  hit,
		}
		b, _ := json.Marshal(payload)
		wsHub.Broadcast(b)
		log.Printf("[ALERT] randstorm hit: address=%s timestamp=%d", hit.Address.Encoded, hit.Fingerprint.TimestampMs)
	}
}

// BroadcastRecoveredKey pushes a nonce-reuse recovery event. The key
// itself is never broadcast — only the fact of recovery and its address.
func BroadcastRecoveredKey(wsHub *Hub) func(address string, blockHeight int) {
	return func(address string, blockHeight int) {
		payload := map[string]any{
			"type":        "nonce_reuse_recovery",
			"address":     address,
			"blockHeight": blockHeight,
		}
		b, _ := json.Marshal(payload)
		wsHub.Broadcast(b)
		log.Printf("[ALERT] nonce-reuse key recovered: address=%s block=%d", address, blockHeight)
	}
}
