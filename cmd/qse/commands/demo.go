package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrityu75/guardian-bed-treehacks/pkg/channel"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/metrics"
)

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through a handshake, an encrypted reading and a tampered envelope",
		RunE: func(cmd *cobra.Command, args []string) error {
			collector := metrics.NewCollector(nil)

			server := channel.NewChannel(
				channel.WithLogger(logger.Named("server")),
				channel.WithCollector(collector),
			)
			client := channel.NewChannel(
				channel.WithLogger(logger.Named("client")),
				channel.WithCollector(collector),
			)
			defer server.Close()
			defer client.Close()

			hello, err := server.InitServer()
			if err != nil {
				return err
			}
			fmt.Printf("server hello: session=%s algorithm=%s\n", server.SessionID(), hello.Algorithm)

			share, err := client.InitClient(hello)
			if err != nil {
				return err
			}
			if err := server.CompleteHandshake(share); err != nil {
				return err
			}
			fmt.Println("handshake complete")

			reading := map[string]any{
				"patient_id": "P-1047",
				"heart_rate": 72,
				"spo2":       98,
			}
			env, err := server.EncryptPatientData(reading)
			if err != nil {
				return err
			}
			wire, err := json.Marshal(env)
			if err != nil {
				return err
			}
			fmt.Printf("sealed envelope (%d bytes on the wire)\n", len(wire))

			payload, err := client.DecryptPatientData(env)
			if err != nil {
				return err
			}
			fmt.Printf("client decrypted: %v\n", payload)

			// Flip one ciphertext bit and try again.
			env.Encrypted.Ciphertext[0] ^= 0x01
			payload, err = client.DecryptPatientData(env)
			if err != nil {
				return err
			}
			if payload == nil {
				fmt.Println("tampered envelope rejected, session still usable")
			}

			snap := collector.Snapshot()
			fmt.Printf("metrics: sealed=%d opened=%d auth_failures=%d\n",
				snap.EnvelopesSealed, snap.EnvelopesOpened, snap.AuthFailures)
			return nil
		},
	}
}
