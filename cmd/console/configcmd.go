package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fastchannel/fastchannel-console/internal/config"
)

var configInitPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return RunConfigShowWithDependencies(cfg, os.Stdout)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file holding the default settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return RunConfigInitWithDependencies(configInitPath, DefaultPrompter, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().StringVar(&configInitPath, "path", "fastchannel.yaml", "Where to write the config file")
}

// RunConfigShowWithDependencies prints cfg in config file form.
func RunConfigShowWithDependencies(cfg *config.EnvConfig, output OutputWriter) error {
	data, err := yaml.Marshal(cfg.File())
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	_, err = output.Write(data)
	return err
}

// RunConfigInitWithDependencies writes the defaults to path, asking before
// it overwrites an existing file.
func RunConfigInitWithDependencies(path string, prompter Prompter, output OutputWriter) error {
	if _, err := os.Stat(path); err == nil {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s exists. Overwrite?", path), false)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(output, "Left existing config untouched")
			return nil
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := config.SaveFile(cfg.File(), path); err != nil {
		return err
	}
	fmt.Fprintf(output, "Wrote %s\n", path)
	return nil
}
