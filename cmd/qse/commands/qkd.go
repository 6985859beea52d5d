package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrityu75/guardian-bed-treehacks/pkg/qkd"
)

func qkdCmd(cfg **Config) *cobra.Command {
	var (
		qubits int
		noise  float64
		eve    bool
	)

	cmd := &cobra.Command{
		Use:   "qkd",
		Short: "Run a BB84 key exchange and report the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCfg := qkd.DefaultConfig()
			if c := *cfg; c != nil {
				if c.QKD.Qubits > 0 {
					runCfg.Qubits = c.QKD.Qubits
				}
				if c.QKD.Noise > 0 {
					runCfg.NoiseProb = c.QKD.Noise
				}
				if c.QKD.SampleFraction > 0 {
					runCfg.SampleFraction = c.QKD.SampleFraction
				}
				if c.QKD.ErrorThreshold > 0 {
					runCfg.Threshold = c.QKD.ErrorThreshold
				}
			}
			if cmd.Flags().Changed("qubits") {
				runCfg.Qubits = qubits
			}
			if cmd.Flags().Changed("noise") {
				runCfg.NoiseProb = noise
			}

			ex, err := qkd.NewExchange(runCfg)
			if err != nil {
				return err
			}

			var interceptor *qkd.Interceptor
			if eve {
				interceptor = qkd.NewInterceptor()
			}

			res, err := ex.Run(interceptor)
			if err != nil {
				return err
			}

			fmt.Printf("qubits sent:       %d\n", res.Qubits)
			fmt.Printf("channel noise:     %.3f\n", res.NoiseProb)
			fmt.Printf("sifted bits:       %d (rate %.3f)\n", res.SiftedLen, res.SiftRate)
			fmt.Printf("error sample:      %d bits, %d errors (QBER %.4f)\n",
				res.SampleSize, res.ErrorsFound, res.ErrorRate)
			fmt.Printf("elapsed:           %s\n", res.Elapsed)
			if res.EavesdropperDetected {
				fmt.Println("verdict:           EAVESDROPPER DETECTED, key discarded")
				return nil
			}
			fmt.Printf("verdict:           secure\n")
			fmt.Printf("key:               %s\n", hex.EncodeToString(res.Key))
			return nil
		},
	}

	cmd.Flags().IntVar(&qubits, "qubits", 0, "number of qubits to exchange")
	cmd.Flags().Float64Var(&noise, "noise", 0, "channel noise probability")
	cmd.Flags().BoolVar(&eve, "eve", false, "place an intercept-resend attacker on the channel")
	return cmd
}
