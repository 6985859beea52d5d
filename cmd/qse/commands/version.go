package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrityu75/guardian-bed-treehacks/pkg/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Full())
		},
	}
}
