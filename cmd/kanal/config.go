package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/kanal/internal/adapter"
	"github.com/spf13/cobra"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.cfg
			rows := [][]string{
				{"player.command", cfg.Player.Command},
				{"player.args", strings.Join(cfg.Player.Args, " ")},
				{"stream.format", cfg.Stream.Format},
				{"stream.user_agent", cfg.Stream.UserAgent},
				{"stream.referrer", cfg.Stream.Referrer},
				{"stream.timeout", cfg.Stream.Timeout.String()},
				{"stream.m3u_timeout", cfg.Stream.M3UTimeout.String()},
				{"ui.theme", cfg.UI.Theme},
				{"ui.default_content", cfg.UI.DefaultContent},
				{"storage.data_dir", cfg.Storage.DataDir},
				{"logging.file", cfg.Logging.File},
				{"logging.level", cfg.Logging.Level},
			}
			printTable(cmd.OutOrStdout(), []string{"Key", "Value"}, rows)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the config directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := filepath.Join(c.configDir, "config.yaml")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := adapter.SaveConfig(adapter.DefaultConfig(), c.configDir); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
