// Upnpc discovers UPnP devices on the local network and prints one line
// per device, rendered through a user supplied format string.
//
// Usage:
//
//	upnpc [command] [flags]
//
// Running without a command performs an active SSDP search.
// See 'upnpc --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/muurk/upnpc/internal/config"
	"github.com/muurk/upnpc/internal/discovery"
	"github.com/muurk/upnpc/internal/logging"
	"github.com/muurk/upnpc/internal/version"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(reportError(err))
	}
}

// Global flags
var (
	searchTarget string
	duration     uint8
	outputFormat string
	keepGoing    bool
	remember     bool
	logLevel     string
	configPath   string
)

// registry is loaded before every command runs
var registry *config.Registry

var rootCmd = &cobra.Command{
	Use:   "upnpc",
	Short: "Discover UPnP devices on the local network",
	Long: `Discover UPnP devices with SSDP and print one line per device.

Each line is rendered from the format string given with --format. Placeholders
name device attributes and accept an optional spec after a colon, for example
{name:<20} pads the friendly name to 20 characters and {url:?} prints the
debug form. Run 'upnpc fields' for the list of placeholders.`,
	Example: `  # All devices, default format
  upnpc

  # Media renderers only, five second search
  upnpc -s urn:schemas-upnp-org:device:MediaRenderer:1 -d 5

  # Custom output
  upnpc -f '{name:<30} {url}'

  # Named preset from the config file
  upnpc -f @csv`,
	Version:           version.Version,
	Args:              cobra.NoArgs,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runSearch,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&searchTarget, "search-target", "s", "ssdp:all", "Search target (ssdp:all, upnp:rootdevice, uuid:<id> or urn:<domain>:device:<type>:<version>)")
	flags.Uint8VarP(&duration, "duration", "d", 3, "Search duration in seconds")
	flags.StringVarP(&outputFormat, "format", "f", discovery.DefaultFormat, "Output format string, or @name for a preset from the config file")
	flags.BoolVar(&keepGoing, "keep-going", false, "Skip devices whose description cannot be fetched")
	flags.BoolVar(&remember, "remember", false, "Record every printed device in the config file")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)
	flags.StringVar(&configPath, "config", "", "Config file path (default is the user config directory)")

	rootCmd.AddCommand(versionCmd)
}

// setup initializes logging and loads the config file for every command
func setup(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}

	var err error
	registry, err = config.Load(configPath)
	if err != nil {
		return err
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "upnpc %s\n", version.Full())
	},
}
