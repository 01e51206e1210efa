package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/5n10sndkts/forensic-scanner/internal/api"
	"github.com/5n10sndkts/forensic-scanner/internal/config"
	"github.com/5n10sndkts/forensic-scanner/internal/dispatcher"
	"github.com/5n10sndkts/forensic-scanner/internal/fingerprint"
	"github.com/5n10sndkts/forensic-scanner/internal/prng"
	"github.com/5n10sndkts/forensic-scanner/internal/scanbackend"
	"github.com/5n10sndkts/forensic-scanner/internal/targetlist"
	"github.com/5n10sndkts/forensic-scanner/internal/vault"
)

// newServeCmd starts the optional HTTP introspection front end (spec.md's
// CLI surface is out of scope per §1; this is an additive front end, not a
// replacement for it). With --targets it also launches a randstorm-scan
// in the background and pushes live hits over the websocket hub, mirroring
// the teacher's cmd/engine wiring its block scanner into the same process
// as its API server.
func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP introspection API (health, progress, recovered-key listing)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, false)
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("targets", "", "optional: launch a background randstorm-scan against this target list")
	cmd.Flags().String("scan-mode", "standard", "quick|standard|deep|exhaustive")
	cmd.Flags().String("phase", "one", "fingerprint database phase: one|two|three")
	bindFlag(v, cmd, "targets.path", "targets")
	bindFlag(v, cmd, "scan.mode", "scan-mode")
	return cmd
}

func runServe(cmd *cobra.Command, cfg config.Config) error {
	addr, _ := cmd.Flags().GetString("addr")
	targetsPath, _ := cmd.Flags().GetString("targets")
	phaseStr, _ := cmd.Flags().GetString("phase")

	var store *vault.Store
	if cfg.VaultConnString != "" {
		s, err := vault.Connect(context.Background(), cfg.VaultConnString)
		if err != nil {
			return fmt.Errorf("connecting to vault: %w", err)
		}
		defer s.Close()
		store = s
	} else {
		log.Println("serve: VAULT_DATABASE_URL not set, /api/v1/recovered will report unavailable")
	}

	wsHub := api.NewHub()
	go wsHub.Run()

	var disp *dispatcher.Dispatcher
	if targetsPath != "" {
		addresses, err := targetlist.Load(targetsPath)
		if err != nil {
			return err
		}
		hash160s, err := hash160sForTargets(addresses)
		if err != nil {
			return err
		}
		mode := fingerprint.ParseScanMode(cfg.ScanMode)
		dcfg := dispatcher.Config{
			Backend:       scanbackend.ParseKind(cfg.Backend),
			Engines:       prng.AllEngines(),
			Phase:         parsePhase(phaseStr),
			Mode:          mode,
			WindowStartMs: fingerprint.DefaultWindowStartMs,
			WindowEndMs:   fingerprint.DefaultWindowEndMs,
		}
		d, err := dispatcher.NewDispatcher(dcfg, hash160s, store, api.BroadcastScanHit(wsHub), nil)
		if err != nil {
			return fmt.Errorf("building dispatcher: %w", err)
		}
		disp = d
		go func() {
			if err := d.Run(context.Background()); err != nil {
				log.Printf("serve: background scan ended: %v", err)
			}
		}()
	}

	router := api.SetupRouter(store, disp, nil, wsHub)
	log.Printf("serve: listening on %s", addr)
	return router.Run(addr)
}
