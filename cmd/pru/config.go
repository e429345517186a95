package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pru/pkg/config"
	"pru/pkg/ui"
)

const exampleConfig = `# pru configuration file
#
# Every option can also be set with an environment variable prefixed with
# PRU_, for example PRU_OUTPUT_DIR or PRU_LOG_LEVEL. Variables may be put in
# a .env file in the current directory.

catalog:
  # Mission whose catalog is queried
  mission: psyche
  base_url: ` + config.PsycheCatalogURL + `
  # Results per page requested from the catalog
  per_page: 100
  # Inclusive date received bounds
  min_date: "2000-01-01"
  max_date: "2100-01-01"
  # Pages fetched at the same time
  max_concurrent_pages: 8
  request_timeout: 30s
  # Replaces the mission's camera code table when set
  # instruments:
  #   A: [A]
  #   B: [B]

rate_limit:
  # Requests per second per host, 0 disables limiting
  requests_per_second: 10
  burst: 5

output:
  directory: "."
  # Write <image>-metadata.json next to every image
  write_metadata: true

download:
  # Range: 1-16
  concurrent_downloads: 3
  timeout: 60s

notifications:
  enabled: false

logging:
  # debug, info, warn or error
  level: warn
  # Also write JSON logs to this file
  file: ""
`

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
		Long: `Manage pru configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (PRU_*), including a .env file
  - Configuration file
  - Default values (lowest priority)`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Create an example configuration file",
			Long: `Create an example configuration file with all available options.

The file is written to .pru.yaml unless --config names another path.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigInit(root)
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigShow(cmd, root)
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigValidate(cmd, root)
			},
		},
	)
	return cmd
}

func runConfigInit(root *rootOptions) error {
	path := root.configFile
	if path == "" {
		path = ".pru.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file %s already exists", path)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created")
	ui.PrintInfo("Path", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, root *rootOptions) error {
	cfg, err := config.Load(root.configFile, nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, root *rootOptions) error {
	cfg, err := config.Load(root.configFile, nil)
	if err != nil {
		return err
	}

	ui.PrintSuccess("Configuration is valid")
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nConfiguration summary:")
	fmt.Fprintf(out, "  Mission: %s\n", cfg.Catalog.Mission)
	fmt.Fprintf(out, "  Catalog: %s\n", cfg.Catalog.BaseURL)
	fmt.Fprintf(out, "  Output directory: %s\n", cfg.Output.Directory)
	fmt.Fprintf(out, "  Concurrent downloads: %d\n", cfg.Download.ConcurrentDownloads)
	fmt.Fprintf(out, "  Rate limit: %g requests/second\n", cfg.RateLimit.RequestsPerSecond)
	fmt.Fprintf(out, "  Log level: %s\n", cfg.Logging.Level)
	return nil
}
