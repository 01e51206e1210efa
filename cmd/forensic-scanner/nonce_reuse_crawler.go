package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/5n10sndkts/forensic-scanner/internal/config"
	"github.com/5n10sndkts/forensic-scanner/internal/noncecrawl"
	"github.com/5n10sndkts/forensic-scanner/internal/rpcclient"
	"github.com/5n10sndkts/forensic-scanner/internal/vault"
)

func newNonceReuseCrawlerCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nonce-reuse-crawler",
		Short: "Crawl a block range for ECDSA signatures that reused a nonce",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, true)
			if err != nil {
				return err
			}
			return runNonceReuseCrawler(cmd, cfg)
		},
	}
	cmd.Flags().Int64("start-block", 0, "first block height to scan")
	cmd.Flags().Int64("end-block", 0, "last block height to scan (inclusive)")
	cmd.Flags().String("checkpoint", "nonce-reuse-crawler.checkpoint", "checkpoint file path")
	cmd.Flags().Int64("checkpoint-interval", 100, "blocks between checkpoint writes")
	cmd.Flags().Int64("rate-limit-ms", 50, "sleep between blocks, in milliseconds")
	bindFlag(v, cmd, "scan.start_block", "start-block")
	bindFlag(v, cmd, "scan.end_block", "end-block")
	bindFlag(v, cmd, "checkpoint.path", "checkpoint")
	bindFlag(v, cmd, "checkpoint.interval", "checkpoint-interval")
	bindFlag(v, cmd, "ratelimit.ms", "rate-limit-ms")
	return cmd
}

func runNonceReuseCrawler(cmd *cobra.Command, cfg config.Config) error {
	runID := uuid.NewString()
	log.Printf("nonce-reuse-crawler: run %s starting (blocks %d-%d)", runID, cfg.StartBlock, cfg.EndBlock)

	if cfg.EndBlock <= cfg.StartBlock {
		return fmt.Errorf("--end-block must be greater than --start-block")
	}

	rpc, err := rpcclient.New(rpcclient.Config{Host: cfg.RPC.URL, User: cfg.RPC.User, Pass: cfg.RPC.Pass})
	if err != nil {
		return fmt.Errorf("connecting to Bitcoin RPC: %w", err)
	}
	defer rpc.Shutdown()

	var store *vault.Store
	if cfg.VaultConnString != "" {
		ctx := context.Background()
		store, err = vault.Connect(ctx, cfg.VaultConnString)
		if err != nil {
			return fmt.Errorf("connecting to vault: %w", err)
		}
		defer store.Close()
		if err := store.InitSchema(ctx); err != nil {
			return fmt.Errorf("initializing vault schema: %w", err)
		}
	} else {
		log.Println("nonce-reuse-crawler: VAULT_DATABASE_URL not set, recovered keys will only be logged")
	}

	crawlerCfg := noncecrawl.Config{
		StartBlock:      cfg.StartBlock,
		EndBlock:        cfg.EndBlock,
		CheckpointPath:  cfg.CheckpointPath,
		CheckpointEvery: cfg.CheckpointInterval,
		RateLimit:       time.Duration(cfg.RateLimitMs) * time.Millisecond,
		VaultPassphrase: cfg.VaultPassphrase,
	}

	crawler := noncecrawl.NewCrawler(rpc, store, crawlerCfg, func(rk noncecrawl.RecoveredKey) {
		log.Printf("RECOVERED KEY: address=%s block=%d first_tx=%s second_tx=%s r=%x",
			rk.Address, rk.BlockHeight, rk.FirstTx, rk.SecondTx, rk.R)
	})

	return crawler.Run(cmd.Context())
}
