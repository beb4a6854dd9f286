// Command copulanet learns, fits and samples continuous Bayesian networks
// over copulas from CSV data.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/copulanet/config"
	"github.com/katalvlaran/copulanet/sample"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	envFile    string
	verbose    bool

	cfg    config.Defaults
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}
	root := &cobra.Command{
		Use:   "copulanet",
		Short: "Continuous Bayesian networks over copulas",
		Long: `copulanet learns network structures (PC, MIIC, tabu search) from CSV samples,
fits copula Bayesian networks and junction-tree Bernstein copulas, and samples them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML file overriding the defaults")
	root.PersistentFlags().StringVar(&a.envFile, "env", ".env", "dotenv file loaded before COPULANET_* overrides")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(newLearnCmd(a), newFitCmd(a), newSampleCmd(a), newDescribeCmd(a))

	return root
}

// setup loads the configuration layers and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if err := config.LoadEnv(a.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded", "file", a.configPath, "env", a.envFile)

	return nil
}

// readSample reads a CSV file, "-" meaning standard input.
func (a *app) readSample(cmd *cobra.Command, path string) (*sample.Sample, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	s, err := sample.ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Info("sample loaded", "file", path, "rows", s.Size(), "columns", s.Dim())

	return s, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
