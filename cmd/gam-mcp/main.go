// gam-mcp - Google Workspace directory administration over MCP
// License: MIT
//
// Copyright (c) 2026 gam-mcp contributors

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/limehawk/gam-multi/pkg/config"
	"github.com/limehawk/gam-multi/pkg/logger"
)

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

const cliName = "gam-mcp"

type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// The tool's own message has already been printed.
		if !errors.Is(err, errToolFailed) {
			fmt.Fprintln(os.Stderr, styleErr.Render("Error:"), err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           cliName,
		Short:         "Google Workspace directory administration through GAM",
		Long:          "gam-mcp exposes GAM user, group, org unit and security operations as MCP tools.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath(), "path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newToolsCmd(opts),
		newCallCmd(opts),
		newDoctorCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", cliName, version)
	if gitCommit != "" {
		fmt.Fprintf(w, "  Commit: %s\n", gitCommit)
	}
	if buildTime != "" {
		fmt.Fprintf(w, "  Build: %s\n", buildTime)
	}
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	fmt.Fprintf(w, "  Go: %s\n", goVer)
}

// loadConfig reads the config file and applies the logging settings. The
// --log-level flag wins over the file.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger.SetFormat(cfg.Log.Format)
	logger.SetLevel(logger.ParseLevel(level))
	return cfg, nil
}
