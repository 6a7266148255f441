// internal/cli/info.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/artifact"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/cache"
	"github.com/TheFakeLorLyons/brainflow-java/pkg/platform"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the resolved platform and cache status",
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	probe := platform.NewProbe(config.Logger)
	id, err := probe.Identify()
	if err != nil {
		return fmt.Errorf("identifying platform: %w", err)
	}

	c := cache.New(config.CacheRoot, config.Logger)
	jar := artifact.Jar(config.ReleaseBase, config.Version)
	natives := artifact.Natives(config.ReleaseBase, config.Version)

	jarPath := c.ArtifactPath(config.Version, jar.LocalName)
	nativesDir := c.NativesDir(config.Version, id.Triple())

	fmt.Printf("Platform:       %s\n", id)
	fmt.Printf("Version pin:    %s\n", config.Version)
	fmt.Printf("Cache root:     %s\n", c.Root())
	fmt.Printf("Managed jar:    %s (cached: %v)\n", jarPath, c.IsValid(jarPath, jar.MinValidSize))
	fmt.Printf("Natives dir:    %s\n", nativesDir)
	fmt.Printf("Jar URL:        %s\n", jar.RemoteURL)
	fmt.Printf("Natives URL:    %s\n", natives.RemoteURL)

	return nil
}
