// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/bootstrap"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("brainflow-setup 1.0.0")
		fmt.Printf("default version pin: %s\n", bootstrap.DefaultVersion)
		fmt.Println("https://github.com/TheFakeLorLyons/brainflow-java")
	},
}
