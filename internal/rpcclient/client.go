// Package rpcclient wraps the subset of the Bitcoin Core JSON-RPC surface
// the nonce-reuse crawler needs: chain height, block hashes, and full block
// fetches with their raw transactions.
package rpcclient

import (
	"fmt"
	"log"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
)

type Config struct {
	Host string
	User string
	Pass string
}

type Client struct {
	rpc *rpcclient.Client
}

func New(cfg Config) (*Client, error) {
	connCfg := &rpcclient.ConnConfig{
		Host:         cfg.Host,
		User:         cfg.User,
		Pass:         cfg.Pass,
		HTTPPostMode: true,
		DisableTLS:   true,
	}

	log.Printf("connecting to bitcoin rpc at %s", cfg.Host)
	rc, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("rpc dial: %w", err)
	}

	height, err := rc.GetBlockCount()
	if err != nil {
		rc.Shutdown()
		return nil, fmt.Errorf("rpc handshake: %w", err)
	}
	log.Printf("connected to bitcoin node, height %d", height)

	return &Client{rpc: rc}, nil
}

func (c *Client) Shutdown() {
	c.rpc.Shutdown()
}

// ChainHeight returns the current best block height.
func (c *Client) ChainHeight() (int64, error) {
	return c.rpc.GetBlockCount()
}

// BlockHashAt returns the hash of the block at height.
func (c *Client) BlockHashAt(height int64) (*chainhash.Hash, error) {
	return c.rpc.GetBlockHash(height)
}

// Block fetches a full block with verbose (level 2) transaction detail —
// the crawler needs each transaction's vin/vout/scriptSig, which level-1
// verbosity omits.
func (c *Client) Block(hash *chainhash.Hash) (*btcjson.GetBlockVerboseTxResult, error) {
	return c.rpc.GetBlockVerboseTx(hash)
}

// RawTransaction fetches a single transaction by txid, used to resolve a
// spent input's prevout (scriptPubKey + value) when it is not present in
// the same block.
func (c *Client) RawTransaction(txid *chainhash.Hash) (*btcjson.TxRawResult, error) {
	return c.rpc.GetRawTransactionVerbose(txid)
}
