// internal/cli/clear.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/cache"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached artifacts for the pinned version",
	Long: `Remove the downloaded archives and installed native libraries for
the pinned version, forcing the next run to re-provision from scratch.`,
	RunE: runClear,
}

func runClear(cmd *cobra.Command, args []string) error {
	c := cache.New(config.CacheRoot, config.Logger)
	if err := c.Clear(config.Version); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	fmt.Printf("✓ Cleared cache for version %s under %s\n", config.Version, c.Root())
	return nil
}
