package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrityu75/guardian-bed-treehacks/pkg/aead"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/channel"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/crypto"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/qkem"
)

func benchCmd() *cobra.Command {
	var (
		iterations int
		payload    int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure handshake and envelope throughput in-process",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Handshake rate.
			start := time.Now()
			for i := 0; i < iterations; i++ {
				server := channel.NewChannel()
				client := channel.NewChannel()
				hello, err := server.InitServer()
				if err != nil {
					return err
				}
				share, err := client.InitClient(hello)
				if err != nil {
					return err
				}
				if err := server.CompleteHandshake(share); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)
			fmt.Printf("handshakes:  %d in %s (%.0f/s)\n",
				iterations, elapsed, float64(iterations)/elapsed.Seconds())

			// KEM rate.
			kp, err := qkem.GenerateKeyPair()
			if err != nil {
				return err
			}
			start = time.Now()
			for i := 0; i < iterations; i++ {
				res, err := qkem.Encapsulate(kp.PublicKey())
				if err != nil {
					return err
				}
				if _, err := kp.Decapsulate(res.Ciphertext); err != nil {
					return err
				}
			}
			elapsed = time.Since(start)
			fmt.Printf("encap+decap: %d in %s (%.0f/s)\n",
				iterations, elapsed, float64(iterations)/elapsed.Seconds())

			// Envelope throughput.
			secret, err := crypto.SecureRandomBytes(32)
			if err != nil {
				return err
			}
			buf := make([]byte, payload)
			start = time.Now()
			for i := 0; i < iterations; i++ {
				env, err := aead.Encrypt(buf, secret)
				if err != nil {
					return err
				}
				if _, err := aead.Decrypt(env, secret); err != nil {
					return err
				}
			}
			elapsed = time.Since(start)
			total := float64(iterations*payload) / (1 << 20)
			fmt.Printf("seal+open:   %d x %dB in %s (%.1f MiB/s round trip)\n",
				iterations, payload, elapsed, total/elapsed.Seconds())
			return nil
		},
	}

	cmd.Flags().IntVar(&iterations, "n", 1000, "iterations per measurement")
	cmd.Flags().IntVar(&payload, "payload", 4096, "envelope payload size in bytes")
	return cmd
}
