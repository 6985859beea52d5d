// Package commands implements the qse command-line interface: a demo of the
// secure-channel handshake and envelope flow, a BB84 exchange runner and a
// version printer.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrityu75/guardian-bed-treehacks/pkg/metrics"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	logger *metrics.Logger
)

// Config holds the CLI configuration loaded from a YAML file. Flags override
// file values.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	QKD struct {
		Qubits         int     `yaml:"qubits"`
		Noise          float64 `yaml:"noise"`
		SampleFraction float64 `yaml:"sample_fraction"`
		ErrorThreshold float64 `yaml:"error_threshold"`
	} `yaml:"qkd"`
}

func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Execute() error {
	var cfg *Config

	root := &cobra.Command{
		Use:           "qse",
		Short:         "Quantum-safe secure channel for patient monitoring",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(configPath)
			if err != nil {
				return err
			}
			level := cfg.Log.Level
			if logLevel != "" {
				level = logLevel
			}
			format := metrics.FormatText
			if f := firstNonEmpty(logFormat, cfg.Log.Format); f == "json" {
				format = metrics.FormatJSON
			}
			logger = metrics.NewLogger(
				metrics.WithLevel(metrics.ParseLevel(level)),
				metrics.WithFormat(format),
				metrics.WithName("qse"),
			)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(demoCmd(), qkdCmd(&cfg), benchCmd(), versionCmd())
	return root.Execute()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
