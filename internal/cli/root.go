// Package cli implements the flowbuilder command line.
package cli

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sec-js/attack-flow/internal/config"
	"github.com/sec-js/attack-flow/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *zap.Logger
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) teardown(*cobra.Command, []string) {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "flowbuilder",
		Short: "Attack flow templates, themes and ATT&CK catalogs",
		Long: color.CyanString(`flowbuilder - attack flow diagram tooling

Loads the object templates and themes of an attack flow editor,
instantiates and lays out diagram objects, and builds ATT&CK catalogs
from the MITRE STIX manifests.`),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./flowbuilder.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newCatalogCommand(a))
	rootCmd.AddCommand(newTemplatesCommand(a))
	rootCmd.AddCommand(newInstantiateCommand(a))
	rootCmd.AddCommand(newLayoutCommand(a))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)
			w := cmd.OutOrStdout()

			for _, line := range [][2]string{
				{"flowbuilder version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", goVer},
			} {
				titleColor.Fprint(w, line[0])
				valueColor.Fprintln(w, line[1])
			}
		},
	}
	// No config is needed to print the version.
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
	return cmd
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// status prints a progress line prefixed with the program name.
func status(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprint(w, "flowbuilder: ")
	fmt.Fprintf(w, format+"\n", args...)
}

// gitVersion returns the date-prefixed short git commit SHA, or just the
// date outside a repository.
func gitVersion() string {
	date := time.Now().UTC().Format("2006.01.02")
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return date
	}
	return date + "." + strings.TrimSpace(string(out))
}
