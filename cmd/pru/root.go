package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"pru/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	verbose    bool
	quiet      bool
	noColor    bool
}

// logLevel maps --verbose and --quiet onto a log level, or "" to keep the
// configured one.
func (o *rootOptions) logLevel() string {
	switch {
	case o.verbose:
		return "debug"
	case o.quiet:
		return "error"
	default:
		return ""
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pru",
		Short: "Query and download raw images from a mission's public catalog",
		Long: `pru queries a mission's raw image catalog and downloads the images it finds.

Features:
  - Filter by camera, date received, image id and filter number
  - Concurrent page fetching and image downloads
  - Skip images that are already in the output directory
  - JSON metadata written next to every image
  - Progress bar or full-screen terminal UI`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.SetOutput(cmd.OutOrStdout())
			ui.SetColor(!opts.noColor && ui.IsTerminal(cmd.OutOrStdout()))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./.pru.yaml or $HOME/.pru.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log everything, including each request")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "log errors only")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.SetVersionTemplate(`pru {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(newFetchCmd(opts), newConfigCmd(opts))
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		ui.SetOutput(os.Stderr)
		ui.PrintError("Error", err)
		return 1
	}
	return 0
}
