package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/5n10sndkts/forensic-scanner/internal/config"
	"github.com/5n10sndkts/forensic-scanner/internal/fingerprint"
	"github.com/5n10sndkts/forensic-scanner/internal/prng"
	"github.com/5n10sndkts/forensic-scanner/internal/scanbackend"

	"github.com/5n10sndkts/forensic-scanner/internal/dispatcher"
)

func newRandstormValidateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "randstorm-validate",
		Short: "Check that the selected compute backend is bit-identical to the CPU reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, false)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("samples")
			phaseStr, _ := cmd.Flags().GetString("phase")

			db := fingerprint.NewDatabase()
			mismatches, err := dispatcher.Validate(scanbackend.ParseKind(cfg.Backend), db, parsePhase(phaseStr), n, prng.AllEngines())
			if err != nil {
				return fmt.Errorf("validation run failed: %w", err)
			}
			if len(mismatches) == 0 {
				fmt.Println("VALIDATION PASS")
				return nil
			}
			fmt.Printf("VALIDATION FAIL: %d mismatch(es)\n", len(mismatches))
			for _, m := range mismatches {
				fmt.Printf("  sample ts=%d engine=%s: cpu=%x backend=%x\n",
					m.Fingerprint.TimestampMs, m.Engine, m.CPUPrivKey, m.GPUPrivKey)
			}
			return fmt.Errorf("backend validation failed with %d mismatch(es)", len(mismatches))
		},
	}
	cmd.Flags().Int("samples", 1000, "number of fingerprint samples to compare")
	cmd.Flags().String("phase", "one", "fingerprint database phase: one|two|three")
	cmd.Flags().String("backend", "auto", "auto|wgpu|opencl|cpu")
	bindFlag(v, cmd, "scan.backend", "backend")
	return cmd
}
