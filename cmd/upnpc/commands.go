package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/muurk/upnpc/internal/config"
	"github.com/muurk/upnpc/internal/discovery"
	"github.com/muurk/upnpc/internal/format"
	"github.com/muurk/upnpc/internal/logging"
	"github.com/muurk/upnpc/internal/pipeline"
	"github.com/muurk/upnpc/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(knownCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configForgetCmd)
}

// listenCmd waits for devices to announce themselves
var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print devices announcing themselves with ssdp:alive",
	Long: `Listen for SSDP alive announcements instead of sending a search.

Devices that announce themselves within the duration are described and
printed like the results of an active search. Announcements are filtered
by the search target.`,
	Example: `  # Listen for 30 seconds
  upnpc listen -d 30`,
	Args: cobra.NoArgs,
	RunE: runListen,
}

// knownCmd renders the devices remembered with --remember
var knownCmd = &cobra.Command{
	Use:   "known",
	Short: "Print devices remembered in the config file",
	Long: `Render the devices recorded with --remember through the format string,
without touching the network. Attributes that are not remembered render
empty.`,
	Example: `  upnpc known -f '{name:<30} {url}'`,
	Args:    cobra.NoArgs,
	RunE:    runKnown,
}

// fieldsCmd lists the placeholders
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the placeholders usable in format strings",
	Args:  cobra.NoArgs,
	Run:   runFields,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with the default format presets",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), registry.Path())
	},
}

var configForgetCmd = &cobra.Command{
	Use:   "forget <udn>",
	Short: "Remove a remembered device",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigForget,
}

// runOptions is the resolved form of the global flags
type runOptions struct {
	target   discovery.SearchTarget
	timeout  time.Duration
	text     string
	template *format.Template
}

// resolveOptions applies config preferences to unset flags and validates
// the result. Template errors are returned as *templateError.
func resolveOptions(cmd *cobra.Command) (*runOptions, error) {
	flags := cmd.Flags()
	prefs := registry.Preferences
	if prefs == nil {
		prefs = &config.Preferences{}
	}

	targetValue := searchTarget
	if !flags.Changed("search-target") && prefs.SearchTarget != "" {
		targetValue = prefs.SearchTarget
	}
	target, err := discovery.ParseSearchTarget(targetValue)
	if err != nil {
		return nil, err
	}

	seconds := duration
	if !flags.Changed("duration") && prefs.Duration != 0 {
		seconds = prefs.Duration
	}
	if seconds < 1 {
		return nil, fmt.Errorf("duration must be at least 1 second")
	}

	formatValue := outputFormat
	if !flags.Changed("format") && prefs.Format != "" {
		formatValue = prefs.Format
	}
	text, err := registry.ResolveFormat(formatValue)
	if err != nil {
		return nil, err
	}

	tmpl, err := format.Parse(text, discovery.FieldNames())
	if err != nil {
		return nil, newTemplateError(text, err)
	}

	return &runOptions{
		target:   target,
		timeout:  time.Duration(seconds) * time.Second,
		text:     text,
		template: tmpl,
	}, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	scanner := discovery.NewScanner()
	scanner.KeepGoing = keepGoing
	return runDiscovery(cmd, scanner, "Searching")
}

func runListen(cmd *cobra.Command, args []string) error {
	listener := discovery.NewListener()
	listener.KeepGoing = keepGoing
	return runDiscovery(cmd, listener, "Listening")
}

func runKnown(cmd *cobra.Command, args []string) error {
	return runDiscovery(cmd, registry.KnownDevices(), "")
}

// runDiscovery renders every device from source to stdout. A label enables
// the progress bar on interactive terminals.
func runDiscovery(cmd *cobra.Command, source pipeline.Source, label string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var progress *ui.ScanProgress
	if label != "" && showProgress() {
		progress = ui.StartScanProgress(os.Stderr, label, opts.timeout)
	}

	remembered := 0
	p := &pipeline.Pipeline{
		Source:   source,
		Template: opts.template,
		Out:      cmd.OutOrStdout(),
		OnDevice: func(d *discovery.Device) {
			if remember && registry.RememberDevice(d) {
				remembered++
			}
			if progress != nil {
				progress.DeviceFound()
			}
		},
	}

	summary, err := p.Run(ctx, opts.target, opts.timeout)
	if progress != nil {
		progress.Stop()
	}

	logging.Info("Discovery finished",
		zap.Stringer("state", summary.State),
		zap.Int("printed", summary.Printed),
		zap.Duration("elapsed", summary.Elapsed),
	)

	if remembered > 0 {
		if saveErr := registry.Save(); saveErr != nil {
			logging.Error("Failed to save remembered devices", zap.Error(saveErr))
			if err == nil {
				err = saveErr
			}
		}
	}

	if label != "" {
		if printer := ui.NewPrinter(os.Stderr); printer.Styled() {
			printer.PrintSummary(summary.Printed, summary.Elapsed)
		}
	}

	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		logging.Info("Interrupted")
		return nil
	}
	var ferr *format.Error
	if errors.As(err, &ferr) {
		return &templateError{Template: opts.text, Err: ferr}
	}
	return err
}

// showProgress reports whether the progress bar can own stderr: stderr
// must be a terminal that neither device lines nor log lines write to.
func showProgress() bool {
	return ui.IsTerminal(os.Stderr) && !ui.IsTerminal(os.Stdout) && !logging.Enabled()
}

func runFields(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	for _, f := range discovery.Fields {
		fmt.Fprintf(out, "%-18s %s\n", f.Name, f.Description)
	}

	names := registry.FormatNames()
	if len(names) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Format presets:")
	for _, name := range names {
		fmt.Fprintf(out, "  @%-15s %s\n", name, registry.Preferences.Formats[name])
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.CreateDefaultConfig(configPath)
	if err != nil {
		return err
	}

	presets := make([]string, 0, len(config.DefaultFormats))
	for name := range config.DefaultFormats {
		presets = append(presets, "@"+name)
	}
	sort.Strings(presets)

	ui.NewPrinter(os.Stderr).PrintSuccess("Configuration created",
		ui.Detail{Key: "Path", Value: path},
		ui.Detail{Key: "Presets", Value: strings.Join(presets, ", ")},
	)
	return nil
}

func runConfigForget(cmd *cobra.Command, args []string) error {
	udn := args[0]
	device := registry.GetDevice(udn)
	if device == nil || !registry.ForgetDevice(udn) {
		return fmt.Errorf("no remembered device with UDN %s", udn)
	}
	if err := registry.Save(); err != nil {
		return err
	}

	if device.Name != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s (%s)\n", device.Name, udn)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s\n", udn)
	}
	return nil
}
