// internal/cli/root.go
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/bootstrap"
)

var (
	cfgFile   string
	cacheRoot string
	version   string
	debug     bool
	config    *bootstrap.Config
)

// rootCmd represents the base command. Running it with no arguments
// performs the full self-test: initialization plus a synthetic session.
var rootCmd = &cobra.Command{
	Use:   "brainflow-setup",
	Short: "BrainFlow native-library bootstrap",
	Long: `brainflow-setup - BrainFlow native-library bootstrap

Detects the host platform, downloads and caches the matching release
artifacts, loads the native libraries into this process and verifies the
expected entry points resolve. Invoked with no arguments it runs the full
self-test.`,
	RunE: runSelfTest,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/brainflow/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&cacheRoot, "cache-root", "", "cache root directory (default is $HOME/.brainflow)")
	rootCmd.PersistentFlags().StringVar(&version, "version-pin", "", "release version to provision")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(selftestCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = bootstrap.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = bootstrap.DefaultConfig()
	}

	// Override config with flags
	if cacheRoot != "" {
		config.CacheRoot = cacheRoot
	}
	if version != "" {
		config.Version = version
	}
	if debug {
		config.Debug = true
		config.Logger = log.New(os.Stdout, "[BRAINFLOW] ", log.LstdFlags)
	}
}
