// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cidsrv/cidsrv/pkg/boot"
	"github.com/cidsrv/cidsrv/pkg/catalog"
	"github.com/cidsrv/cidsrv/pkg/cidsearch"
	"github.com/cidsrv/cidsrv/pkg/config"
	"github.com/cidsrv/cidsrv/pkg/logutil"
	"github.com/cidsrv/cidsrv/pkg/serverbase"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CidsrvVersion is the current version of cidsrv
var CidsrvVersion = "v0.0.0"

// CidsrvBuildTime is the build timestamp of cidsrv
var CidsrvBuildTime = ""

// loadCommandConfig layers the config file and env, then applies the flags
// that were explicitly set on cmd.
func loadCommandConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")
	cfg, err := config.LoadConfig(config.LoadOpts{ConfigFile: configFile})
	if err != nil {
		return nil, err
	}
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "data":
			cfg.DataFile = f.Value.String()
		case "host":
			cfg.Host = f.Value.String()
		case "port":
			cfg.Port, _ = flags.GetInt("port")
		case "dev":
			cfg.Dev, _ = flags.GetBool("dev")
		case "log-level":
			cfg.LogLevel = f.Value.String()
		case "log-format":
			cfg.LogFormat = f.Value.String()
		case "data-lock":
			cfg.DataLock, _ = flags.GetBool("data-lock")
		}
	})
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	if err := logutil.Configure(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.Dev); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadCommandCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return nil, err
	}
	return boot.LoadCatalog(cfg)
}

func printEntries(out io.Writer, entries []catalog.Entry) {
	for _, e := range entries {
		fmt.Fprintf(out, "%s\t%s\n", e.Code, e.Name)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}
	return boot.RunServer(cfg)
}

func runList(cmd *cobra.Command, args []string) error {
	cat, err := loadCommandCatalog(cmd)
	if err != nil {
		return err
	}
	printEntries(cmd.OutOrStdout(), cat.List())
	return nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	cat, err := loadCommandCatalog(cmd)
	if err != nil {
		return err
	}
	entry, err := cat.Lookup(args[0])
	if errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("%s: not found", args[0])
	}
	if err != nil {
		return err
	}
	printEntries(cmd.OutOrStdout(), []catalog.Entry{entry})
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cat, err := loadCommandCatalog(cmd)
	if err != nil {
		return err
	}
	mode, _ := cmd.Flags().GetString("mode")
	matches, err := cidsearch.Search(cat, strings.Join(args, " "), mode)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no matches")
	}
	printEntries(cmd.OutOrStdout(), matches)
	return nil
}

func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "Path to the catalog data file (.json, .yaml, .yml); overrides "+serverbase.DataFileEnvName)
	cmd.Flags().Bool("data-lock", false, "Read the data file under a shared lock on <data>.lock")
}

func makeRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cidsrv",
		Short:         "cidsrv serves a CID code table over HTTP",
		Long:          `cidsrv serves a CID classification code table with exact code lookup and flexible or regular name search.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file; overrides "+serverbase.ConfigFileEnvName)
	rootCmd.PersistentFlags().Bool("dev", false, "Run in development mode")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json)")

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Run the cidsrv HTTP server",
		Long:  `Run the cidsrv HTTP server. Send SIGHUP to reload the data file.`,
		Args:  cobra.NoArgs,
		RunE:  runServer,
	}
	addDataFlags(serverCmd)
	serverCmd.Flags().String("host", "", "Address to listen on")
	serverCmd.Flags().Int("port", 0, "Port to listen on; overrides "+serverbase.PortEnvName)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cidsrv",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), serverbase.VersionString())
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print every catalog record",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	addDataFlags(listCmd)

	lookupCmd := &cobra.Command{
		Use:   "lookup CODE",
		Short: "Print the catalog entry for CODE (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE:  runLookup,
	}
	addDataFlags(lookupCmd)

	searchCmd := &cobra.Command{
		Use:   "search TERM...",
		Short: "Search catalog names",
		Long: `Search catalog names. Terms are joined with spaces.
flexible: token set similarity of at least 80.
regular: every word present, in order, as a whole word.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
	addDataFlags(searchCmd)
	searchCmd.Flags().String("mode", cidsearch.SearchModeFlexible, "Search mode (flexible, regular)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(searchCmd)
	return rootCmd
}

func main() {
	// Set serverbase version from main version (which gets overridden by build tags)
	serverbase.CidsrvVersion = CidsrvVersion
	serverbase.CidsrvBuildTime = CidsrvBuildTime

	if err := makeRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
